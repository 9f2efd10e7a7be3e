package annotate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Benny93/vocab-go/internal/curie"
	"github.com/Benny93/vocab-go/internal/graph"
	"github.com/Benny93/vocab-go/internal/labels"
	"github.com/Benny93/vocab-go/internal/parsers"
	"github.com/Benny93/vocab-go/internal/profile"
	"github.com/Benny93/vocab-go/internal/vocab"
)

const vocabTTL = `
@prefix skos: <http://www.w3.org/2004/02/skos/core#> .
@prefix dcterms: <http://purl.org/dc/terms/> .
@prefix prov: <http://www.w3.org/ns/prov#> .
@prefix ex: <https://example.org/voc/> .
@prefix org: <https://example.org/org/> .

ex:scheme a skos:ConceptScheme ;
    skos:prefLabel "Example Scheme"@en ;
    skos:definition "A scheme for tests"@en ;
    dcterms:provenance "Made up" ;
    dcterms:creator org:acme ;
    prov:qualifiedAttribution [ prov:agent org:acme ; dcterms:type _:role ] ;
    skos:hasTopConcept ex:alpha .

_:role dcterms:type _:role2 .
_:role2 dcterms:type _:role .

ex:alpha a skos:Concept ;
    skos:prefLabel "Alpha"@en ;
    skos:inScheme ex:scheme ;
    skos:topConceptOf ex:scheme ;
    skos:narrower ex:beta .

ex:beta a skos:Concept ;
    skos:prefLabel "Beta"@en ;
    skos:definition "Second"@en ;
    skos:broader ex:alpha ;
    skos:inScheme ex:scheme .

ex:coll a skos:Collection ;
    skos:prefLabel "Greek" ;
    skos:member ex:alpha , ex:beta .
`

func source(t *testing.T) *graph.Graph {
	t.Helper()
	doc, err := parsers.NewTurtleParser().Parse("vocab.ttl", []byte(vocabTTL))
	require.NoError(t, err)
	return doc.Graph
}

func background() *labels.Index {
	g := graph.New()
	g.AddTriple(graph.NewIRI("https://example.org/org/acme"), graph.NewIRI(vocab.RdfsLabel), graph.NewLiteral("Acme Pty Ltd"))
	g.AddTriple(graph.NewIRI("https://example.org/voc/alpha"), graph.NewIRI(vocab.RdfsLabel), graph.NewLiteral("Alpha (EN)"))
	g.AddTriple(graph.NewIRI(vocab.DctermsCreator), graph.NewIRI(vocab.RdfsLabel), graph.NewLiteral("Creator"))
	return labels.BuildIndex(g, nil)
}

func newBuilder(catalog string) *Builder {
	return NewBuilder(labels.DefaultResolver(), background(), Config{
		Catalog: catalog,
		Profile: "https://example.org/profile/vocpub",
	})
}

func mint() *curie.Minter {
	table := curie.DefaultNamespaces()
	table.Bind("ex", "https://example.org/voc/")
	table.Bind("cat", "https://example.org/catalog/")
	return curie.NewMinter(table)
}

func literalOf(t *testing.T, g *graph.Graph, s graph.Term, p string) string {
	t.Helper()
	v, ok := g.Value(s, graph.NewIRI(p))
	require.True(t, ok, "missing %s on %s", p, s)
	return v.Value
}

var (
	scheme = graph.NewIRI("https://example.org/voc/scheme")
	alpha  = graph.NewIRI("https://example.org/voc/alpha")
	beta   = graph.NewIRI("https://example.org/voc/beta")
	acme   = graph.NewIRI("https://example.org/org/acme")
)

func TestBuilder_AnnotateScheme(t *testing.T) {
	t.Parallel()

	res, err := newBuilder("https://example.org/catalog/main").Annotate(source(t), profile.KindConceptScheme, mint())
	require.NoError(t, err)
	g := res.Graph

	t.Run("SingleFocusNode", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []graph.Term{scheme}, FocusNodes(g))
		assert.Len(t, g.Match(graph.Term{}, graph.NewIRI(vocab.RdfType), graph.NewIRI(vocab.PrezFocusNode)), 1)
	})

	t.Run("Identifier", func(t *testing.T) {
		t.Parallel()
		id, ok := g.Value(scheme, graph.NewIRI(vocab.DctermsIdentifier))
		require.True(t, ok)
		assert.Equal(t, graph.NewTypedLiteral("ex:scheme", vocab.PrezIdentifier), id)
		assert.Equal(t, "ex:scheme", res.Identifier)
	})

	t.Run("Links", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "/catalogs/cat:main/collections/ex:scheme", literalOf(t, g, scheme, vocab.PrezLink))
		assert.Equal(t, "/catalogs/cat:main/collections/ex:scheme/items", literalOf(t, g, scheme, vocab.PrezMembers))
		assert.Equal(t, res.Link, literalOf(t, g, scheme, vocab.PrezLink))
	})

	t.Run("FocusLabels", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Example Scheme", literalOf(t, g, scheme, vocab.PrezLabel))
		assert.Equal(t, "A scheme for tests", literalOf(t, g, scheme, vocab.PrezDescription))
		assert.Equal(t, "Made up", literalOf(t, g, scheme, vocab.PrezProvenance))
	})

	t.Run("TopConceptLabelFromSource", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Alpha", literalOf(t, g, alpha, vocab.PrezLabel))
		assert.Empty(t, g.Objects(alpha, graph.NewIRI(vocab.PrezDescription)))
		assert.Equal(t, "/catalogs/cat:main/collections/ex:scheme/items/ex:alpha", literalOf(t, g, alpha, vocab.PrezLink))
	})

	t.Run("ReferencedIRIsLabelled", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Acme Pty Ltd", literalOf(t, g, acme, vocab.PrezLabel))
		assert.Empty(t, g.Objects(acme, graph.NewIRI(vocab.PrezDescription)))
		assert.Equal(t, "Creator", literalOf(t, g, graph.NewIRI(vocab.DctermsCreator), vocab.PrezLabel))
		assert.Equal(t, "definition", literalOf(t, g, graph.NewIRI(vocab.SkosDefinition), vocab.PrezLabel))
	})

	t.Run("ClosureFollowsBlankCycle", func(t *testing.T) {
		t.Parallel()
		assert.Len(t, g.Match(graph.NewBlank("role"), graph.Term{}, graph.Term{}), 1)
		assert.Len(t, g.Match(graph.NewBlank("role2"), graph.Term{}, graph.Term{}), 1)
	})

	t.Run("UnrelatedNodesExcluded", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, g.Match(graph.NewIRI("https://example.org/voc/coll"), graph.Term{}, graph.Term{}))
		assert.False(t, g.HasSubject(beta))
	})

	t.Run("CatalogAndProfile", func(t *testing.T) {
		t.Parallel()
		cat := graph.NewIRI("https://example.org/catalog/main")
		assert.True(t, g.Has(graph.NewTriple(cat, graph.NewIRI(vocab.DctermsHasPart), scheme)))
		assert.Equal(t, "/catalogs/cat:main", literalOf(t, g, cat, vocab.PrezLink))

		node, ok := g.Value(scheme, graph.NewIRI(vocab.PrezCurrentProfile))
		require.True(t, ok)
		assert.True(t, node.IsBlank())
		assert.Equal(t, "https://example.org/profile/vocpub", literalOf(t, g, node, vocab.DctermsConformsTo))
	})

	t.Run("ClosureGraph", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, res.Closure.Match(graph.Term{}, graph.NewIRI(vocab.PrezLabel), graph.Term{}))
		assert.True(t, res.Closure.HasSubject(scheme))
	})
}

func TestBuilder_NoCatalog(t *testing.T) {
	t.Parallel()

	res, err := newBuilder("").Annotate(source(t), profile.KindConceptScheme, mint())
	require.NoError(t, err)

	assert.Equal(t, "/collections/ex:scheme", res.Link)
	assert.Empty(t, res.Graph.Match(graph.Term{}, graph.NewIRI(vocab.DctermsHasPart), graph.Term{}))
}

func TestBuilder_AnnotateConcept(t *testing.T) {
	t.Parallel()

	res, err := newBuilder("https://example.org/catalog/main").AnnotateFocus(source(t), profile.KindConcept, alpha, mint())
	require.NoError(t, err)
	g := res.Graph

	assert.Equal(t, []graph.Term{alpha}, FocusNodes(g))
	assert.Equal(t, "/catalogs/cat:main/collections/ex:scheme/items/ex:alpha", res.Link)

	t.Run("NarrowerShallow", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Beta", literalOf(t, g, beta, vocab.PrezLabel))
		assert.Equal(t, "Second", literalOf(t, g, beta, vocab.PrezDescription))
		assert.Equal(t, "ex:beta", literalOf(t, g, beta, vocab.DctermsIdentifier))
		assert.Equal(t, "/catalogs/cat:main/collections/ex:scheme/items/ex:beta", literalOf(t, g, beta, vocab.PrezLink))
		assert.Empty(t, g.Objects(beta, graph.NewIRI(vocab.SkosBroader)))
	})

	t.Run("SchemeRepeated", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "ex:scheme", literalOf(t, g, scheme, vocab.DctermsIdentifier))
		assert.Equal(t, "/catalogs/cat:main/collections/ex:scheme", literalOf(t, g, scheme, vocab.PrezLink))
		assert.Equal(t, "/catalogs/cat:main/collections/ex:scheme/items", literalOf(t, g, scheme, vocab.PrezMembers))
		assert.Equal(t, "Example Scheme", literalOf(t, g, scheme, vocab.PrezLabel))
		assert.Equal(t, "A scheme for tests", literalOf(t, g, scheme, vocab.PrezDescription))
		assert.Equal(t, "Made up", literalOf(t, g, scheme, vocab.PrezProvenance))
	})
}

func TestBuilder_AnnotateCollection(t *testing.T) {
	t.Parallel()

	res, err := newBuilder("").Annotate(source(t), profile.KindCollection, mint())
	require.NoError(t, err)
	g := res.Graph

	assert.Equal(t, "/collections/ex:scheme/members/ex:coll", res.Link)
	assert.Equal(t, "ex:alpha", literalOf(t, g, alpha, vocab.DctermsIdentifier))
	assert.Equal(t, "ex:beta", literalOf(t, g, beta, vocab.DctermsIdentifier))

	t.Run("OrderedMemberList", func(t *testing.T) {
		t.Parallel()
		doc, err := parsers.NewTurtleParser().Parse("ordered.ttl", []byte(vocabTTL+`
ex:oc a skos:OrderedCollection ;
    skos:prefLabel "Ordered" ;
    skos:memberList ( ex:beta ex:alpha ex:beta ) .
`))
		require.NoError(t, err)
		oc := graph.NewIRI("https://example.org/voc/oc")

		res, err := newBuilder("").AnnotateFocus(doc.Graph, profile.KindCollection, oc, mint())
		require.NoError(t, err)
		g := res.Graph

		assert.Equal(t, "/collections/ex:scheme/members/ex:oc", res.Link)
		for _, m := range []graph.Term{alpha, beta} {
			assert.Equal(t, "/collections/ex:scheme/items/"+literalOf(t, g, m, vocab.DctermsIdentifier), literalOf(t, g, m, vocab.PrezLink))
			assert.Len(t, g.Objects(m, graph.NewIRI(vocab.PrezLink)), 1)
		}
		assert.Equal(t, "Alpha", literalOf(t, g, alpha, vocab.PrezLabel))
	})

	t.Run("CyclicMemberList", func(t *testing.T) {
		t.Parallel()
		src := graph.New()
		oc := graph.NewIRI("https://example.org/voc/oc")
		cell := graph.NewBlank("l1")
		src.AddTriple(oc, graph.NewIRI(vocab.RdfType), graph.NewIRI(vocab.SkosOrderedCollection))
		src.AddTriple(oc, graph.NewIRI(vocab.SkosMemberList), cell)
		src.AddTriple(cell, graph.NewIRI(vocab.RdfFirst), alpha)
		src.AddTriple(cell, graph.NewIRI(vocab.RdfRest), cell)

		res, err := newBuilder("").Annotate(src, profile.KindCollection, mint())
		require.NoError(t, err)
		assert.Equal(t, "ex:alpha", literalOf(t, res.Graph, alpha, vocab.DctermsIdentifier))
	})
}

func TestBuilder_AnnotateCatalog(t *testing.T) {
	t.Parallel()

	src := graph.New()
	cat := graph.NewIRI("https://example.org/catalog/main")
	src.AddTriple(cat, graph.NewIRI(vocab.RdfType), graph.NewIRI(vocab.DcatCatalog))
	src.AddTriple(cat, graph.NewIRI(vocab.DctermsTitle), graph.NewLiteral("Main"))
	src.AddTriple(cat, graph.NewIRI(vocab.DctermsHasPart), scheme)

	res, err := newBuilder("").Annotate(src, profile.KindCatalog, mint())
	require.NoError(t, err)

	assert.Equal(t, "/catalogs/cat:main", res.Link)
	assert.Equal(t, "Main", literalOf(t, res.Graph, cat, vocab.PrezLabel))
	assert.Equal(t, "/catalogs/cat:main/collections/ex:scheme", literalOf(t, res.Graph, scheme, vocab.PrezLink))
	assert.Equal(t, "/catalogs/cat:main/collections/ex:scheme/items", literalOf(t, res.Graph, scheme, vocab.PrezMembers))
}

func TestBuilder_MissingFocus(t *testing.T) {
	t.Parallel()

	b := newBuilder("")

	_, err := b.Annotate(graph.New(), profile.KindConceptScheme, mint())
	require.Error(t, err)
	assert.Equal(t, "No ConceptScheme found in source", err.Error())
	assert.True(t, errors.Is(err, ErrFocusNotFound))

	_, err = b.AnnotateFocus(source(t), profile.KindConceptScheme, alpha, mint())
	var missing *MissingFocusError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, profile.KindConceptScheme, missing.Kind)
}

func TestBuilder_Deterministic(t *testing.T) {
	t.Parallel()

	b := newBuilder("https://example.org/catalog/main")
	first, err := b.Annotate(source(t), profile.KindConceptScheme, mint())
	require.NoError(t, err)
	second, err := b.Annotate(source(t), profile.KindConceptScheme, mint())
	require.NoError(t, err)

	assert.Equal(t, first.Graph.Triples(), second.Graph.Triples())
}

func TestBuilder_DoesNotMutateSource(t *testing.T) {
	t.Parallel()

	src := source(t)
	before := src.Size()
	_, err := newBuilder("").Annotate(src, profile.KindConceptScheme, mint())
	require.NoError(t, err)

	assert.Equal(t, before, src.Size())
}

func TestDetectKind(t *testing.T) {
	t.Parallel()

	k, ok := DetectKind(source(t))
	require.True(t, ok)
	assert.Equal(t, profile.KindConceptScheme, k)

	_, ok = DetectKind(graph.New())
	assert.False(t, ok)
}

func TestExpand(t *testing.T) {
	t.Parallel()

	tmpl := DefaultLinkTemplates()
	assert.Equal(t, "/catalogs/c/collections/s/items/x", expand(tmpl.Concept, linkVars{catalog: "c", scheme: "s", concept: "x"}))
	assert.Equal(t, "/collections/s/items/x", expand(tmpl.Concept, linkVars{scheme: "s", concept: "x"}))
	assert.Equal(t, "/catalogs/c/items/x", expand(tmpl.Concept, linkVars{catalog: "c", concept: "x"}))
	assert.Equal(t, "/x/{scheme}", dropSegment("/x/{scheme}", "{other}"))
}
