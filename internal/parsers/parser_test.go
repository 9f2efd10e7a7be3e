package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Benny93/vocab-go/internal/graph"
	"github.com/Benny93/vocab-go/internal/vocab"
)

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, FormatTurtle, DetectFormat("a/b/vocab.TTL"))
	assert.Equal(t, FormatNTriples, DetectFormat("x.nt"))
	assert.Equal(t, FormatNQuads, DetectFormat("x.nq"))
	assert.Equal(t, FormatJSONLD, DetectFormat("x.jsonld"))
	assert.Equal(t, "", DetectFormat("README.md"))
}

func TestParse_Unsupported(t *testing.T) {
	t.Parallel()

	_, err := Parse("notes.txt", []byte("hello"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notes.txt")
}

func TestNQuadsParser(t *testing.T) {
	t.Parallel()

	src := `<https://example.org/a> <http://www.w3.org/2004/02/skos/core#prefLabel> "A"@en .
<https://example.org/a> <https://example.org/p> _:b0 .
_:b0 <https://example.org/q> "3"^^<http://www.w3.org/2001/XMLSchema#integer> .
_:b0 <https://example.org/r> "plain"^^<http://www.w3.org/2001/XMLSchema#string> <https://example.org/g> .
`

	doc, err := Parse("data.nq", []byte(src))
	require.NoError(t, err)
	g := doc.Graph

	assert.Equal(t, 4, g.Size())
	label, ok := g.Value(graph.NewIRI("https://example.org/a"), graph.NewIRI(vocab.SkosPrefLabel))
	require.True(t, ok)
	assert.Equal(t, "en", label.Language)

	plain, ok := g.Value(graph.NewBlank("b0"), graph.NewIRI("https://example.org/r"))
	require.True(t, ok)
	assert.Equal(t, graph.NewLiteral("plain"), plain)
}

func TestJSONLDParser(t *testing.T) {
	t.Parallel()

	src := `{
  "@context": {"skos": "http://www.w3.org/2004/02/skos/core#", "ex": "https://example.org/"},
  "@id": "ex:a",
  "@type": "skos:Concept",
  "skos:prefLabel": {"@value": "A", "@language": "en"}
}`

	doc, err := Parse("a.jsonld", []byte(src))
	require.NoError(t, err)

	assert.Equal(t, 2, doc.Graph.Size())
	assert.Equal(t, []graph.Term{graph.NewIRI("https://example.org/a")}, doc.Graph.SubjectsOfType(vocab.SkosConcept))
	assert.Equal(t, "https://example.org/", doc.Prefixes["ex"])
}

func TestGraphFromNQuads(t *testing.T) {
	t.Parallel()

	t.Run("ConvertsEveryNodeKind", func(t *testing.T) {
		t.Parallel()
		g, err := GraphFromNQuads(`<https://ex.org/a> <https://ex.org/p> "x" .
<https://ex.org/a> <https://ex.org/q> _:n1 .
_:n1 <https://ex.org/r> "y"@EN .
`)
		require.NoError(t, err)
		require.Equal(t, 3, g.Size())

		a := graph.NewIRI("https://ex.org/a")
		assert.True(t, g.Has(graph.NewTriple(a, graph.NewIRI("https://ex.org/p"), graph.NewLiteral("x"))))
		assert.True(t, g.Has(graph.NewTriple(a, graph.NewIRI("https://ex.org/q"), graph.NewBlank("n1"))))
		y, ok := g.Value(graph.NewBlank("n1"), graph.NewIRI("https://ex.org/r"))
		require.True(t, ok)
		assert.Equal(t, graph.NewLangLiteral("y", "en"), y)
	})

	t.Run("RoundTripsGraphString", func(t *testing.T) {
		t.Parallel()
		src := graph.New()
		src.AddTriple(graph.NewIRI("https://ex.org/a"), graph.NewIRI(vocab.SkosPrefLabel), graph.NewLangLiteral("A", "en"))
		src.AddTriple(graph.NewIRI("https://ex.org/a"), graph.NewIRI("https://ex.org/n"), graph.NewTypedLiteral("3", vocab.XsdInteger))

		var text string
		for _, tr := range src.Triples() {
			text += tr.String() + "\n"
		}
		back, err := GraphFromNQuads(text)
		require.NoError(t, err)
		assert.ElementsMatch(t, src.Triples(), back.Triples())
	})

	t.Run("Malformed", func(t *testing.T) {
		t.Parallel()
		_, err := GraphFromNQuads("<https://ex.org/a> <https://ex.org/p> .\n")
		assert.Error(t, err)
	})
}
