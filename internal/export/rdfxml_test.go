package export

import (
	"bytes"
	"testing"

	"github.com/antchfx/xmlquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Benny93/vocab-go/internal/graph"
)

func TestWriteRDFXML(t *testing.T) {
	t.Parallel()

	t.Run("WellFormed", func(t *testing.T) {
		t.Parallel()
		g := parseTTL(t, schemeTTL)
		out, err := WriteRDFXML(g, namespaces())
		require.NoError(t, err)

		doc, err := xmlquery.Parse(bytes.NewReader(out))
		require.NoError(t, err)
		descs, err := xmlquery.QueryAll(doc, "//*[local-name()='Description']")
		require.NoError(t, err)
		assert.Len(t, descs, len(g.AllSubjects()))

		text := string(out)
		assert.Contains(t, text, `<?xml version="1.0" encoding="UTF-8"?>`)
		assert.Contains(t, text, `xmlns:skos="http://www.w3.org/2004/02/skos/core#"`)
		assert.Contains(t, text, `<rdf:Description rdf:about="https://example.org/voc/alpha">`)
		assert.Contains(t, text, `<skos:prefLabel xml:lang="en">Alpha</skos:prefLabel>`)
		assert.Contains(t, text, `<dcterms:created rdf:datatype="http://www.w3.org/2001/XMLSchema#date">2024-01-02</dcterms:created>`)
		assert.Contains(t, text, `<skos:broader rdf:resource="https://example.org/voc/alpha"/>`)
	})

	t.Run("GeneratesPrefixForUnboundNamespace", func(t *testing.T) {
		t.Parallel()
		g := graph.New()
		g.AddTriple(graph.NewIRI("https://example.org/s"), graph.NewIRI("https://other.org/terms#size"), graph.NewLiteral("a < b"))

		out, err := WriteRDFXML(g, namespaces())
		require.NoError(t, err)
		text := string(out)
		assert.Contains(t, text, `xmlns:ns1="https://other.org/terms#"`)
		assert.Contains(t, text, `<ns1:size>a &lt; b</ns1:size>`)
	})

	t.Run("BlankNodesUseNodeID", func(t *testing.T) {
		t.Parallel()
		g := graph.New()
		p := graph.NewIRI("https://example.org/voc/p")
		g.AddTriple(graph.NewIRI("https://example.org/s"), p, graph.NewBlank("b1"))
		g.AddTriple(graph.NewBlank("b1"), p, graph.NewLiteral("v"))

		out, err := WriteRDFXML(g, namespaces())
		require.NoError(t, err)
		assert.Contains(t, string(out), `<ex:p rdf:nodeID="b1"/>`)
		assert.Contains(t, string(out), `<rdf:Description rdf:nodeID="b1">`)
	})

	t.Run("RejectsPredicateWithoutLocalName", func(t *testing.T) {
		t.Parallel()
		g := graph.New()
		g.AddTriple(graph.NewIRI("https://example.org/s"), graph.NewIRI("https://example.org/1/"), graph.NewLiteral("v"))

		_, err := WriteRDFXML(g, namespaces())
		assert.Error(t, err)
	})
}
