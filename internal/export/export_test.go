package export

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Benny93/vocab-go/internal/annotate"
	"github.com/Benny93/vocab-go/internal/curie"
	"github.com/Benny93/vocab-go/internal/graph"
	"github.com/Benny93/vocab-go/internal/labels"
	"github.com/Benny93/vocab-go/internal/parsers"
	"github.com/Benny93/vocab-go/internal/profile"
	"github.com/Benny93/vocab-go/internal/vocab"
)

const schemeTTL = `
@prefix skos: <http://www.w3.org/2004/02/skos/core#> .
@prefix dcterms: <http://purl.org/dc/terms/> .
@prefix prov: <http://www.w3.org/ns/prov#> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .
@prefix ex: <https://example.org/voc/> .

ex:scheme a skos:ConceptScheme ;
    dcterms:publisher <https://example.org/org/acme> ;
    skos:prefLabel "Example Scheme"@en ;
    skos:definition "A scheme for tests"@en ;
    dcterms:created "2024-01-02"^^xsd:date ;
    prov:qualifiedAttribution [ prov:agent <https://example.org/org/acme> ] ;
    skos:hasTopConcept ex:alpha .

ex:alpha a skos:Concept ;
    skos:prefLabel "Alpha"@en ;
    skos:topConceptOf ex:scheme ;
    skos:narrower ex:beta .

ex:beta a skos:Concept ;
    skos:prefLabel "Beta"@en ;
    skos:broader ex:alpha ;
    skos:inScheme ex:scheme .

ex:gamma a skos:Concept ;
    skos:inScheme ex:scheme ;
    skos:broader ex:alpha , ex:beta .
`

func parseTTL(t *testing.T, ttl string) *graph.Graph {
	t.Helper()
	doc, err := parsers.NewTurtleParser().Parse("test.ttl", []byte(ttl))
	require.NoError(t, err)
	return doc.Graph
}

func namespaces() *curie.NamespaceTable {
	ns := curie.DefaultNamespaces()
	ns.Bind("ex", "https://example.org/voc/")
	return ns
}

func backgroundIndex() *labels.Index {
	g := graph.New()
	g.AddTriple(graph.NewIRI("https://example.org/org/acme"), graph.NewIRI(vocab.RdfsLabel), graph.NewLiteral("Acme"))
	g.AddTriple(graph.NewIRI(vocab.DctermsPublisher), graph.NewIRI(vocab.RdfsLabel), graph.NewLiteral("Publisher"))
	return labels.BuildIndex(g, nil)
}

func annotated(t *testing.T, src *graph.Graph, kind profile.Kind) *annotate.Result {
	t.Helper()
	b := annotate.NewBuilder(labels.DefaultResolver(), backgroundIndex(), annotate.Config{
		Catalog: "https://example.org/catalog/main",
	})
	res, err := b.Annotate(src, kind, curie.NewMinter(namespaces()))
	require.NoError(t, err)
	return res
}
