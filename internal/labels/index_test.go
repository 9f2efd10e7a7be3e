package labels

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Benny93/vocab-go/internal/graph"
	"github.com/Benny93/vocab-go/internal/vocab"
)

func backgroundGraph() *graph.Graph {
	g := graph.New()
	red := graph.NewIRI("https://example.org/colour/red")
	darkRed := graph.NewIRI("https://example.org/colour/darkRed")
	g.AddTriple(red, graph.NewIRI(vocab.RdfsLabel), graph.NewLiteral("Red"))
	g.AddTriple(red, graph.NewIRI(vocab.SkosDefinition), graph.NewLiteral("The colour red"))
	g.AddTriple(red, graph.NewIRI(vocab.RdfType), graph.NewIRI(vocab.SkosConcept))
	g.AddTriple(darkRed, graph.NewIRI(vocab.SkosPrefLabel), graph.NewLiteral("Dark Red"))
	g.AddTriple(graph.NewBlank("b"), graph.NewIRI(vocab.RdfsLabel), graph.NewLiteral("anon"))
	return g
}

func TestBuildIndex(t *testing.T) {
	t.Parallel()

	ix := BuildIndex(backgroundGraph(), nil)

	t.Run("KeepsOnlyLabelTriples", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 3, ix.Size())
		assert.Equal(t, 2, ix.Len())
	})

	t.Run("Lookup", func(t *testing.T) {
		t.Parallel()
		e, ok := ix.Lookup("https://example.org/colour/red")
		require.True(t, ok)
		assert.True(t, e.HasLabel)
		assert.Equal(t, "Red", e.Label.Value)
		require.Len(t, e.Descriptions, 1)
	})

	t.Run("LookupMiss", func(t *testing.T) {
		t.Parallel()
		_, ok := ix.Lookup("https://example.org/colour/blue")
		assert.False(t, ok)
	})

	t.Run("ActsAsSource", func(t *testing.T) {
		t.Parallel()
		got, ok := DefaultResolver().ResolveLabel(graph.NewIRI("https://example.org/colour/darkRed"), graph.New(), ix)
		require.True(t, ok)
		assert.Equal(t, "Dark Red", got.Value)
	})

	t.Run("NilBackground", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 0, BuildIndex(nil, nil).Size())
	})
}

func TestIndex_Search(t *testing.T) {
	t.Parallel()

	ix := BuildIndex(backgroundGraph(), nil)

	t.Run("TiesSortByIRI", func(t *testing.T) {
		t.Parallel()
		got := ix.Search("red", 10)
		require.Len(t, got, 2)
		assert.Equal(t, "https://example.org/colour/darkRed", got[0].IRI)
	})

	t.Run("AllTokensRequired", func(t *testing.T) {
		t.Parallel()
		got := ix.Search("dark red", 10)
		require.Len(t, got, 1)
		assert.Equal(t, "Dark Red", got[0].Label.Value)
	})

	t.Run("Limit", func(t *testing.T) {
		t.Parallel()
		assert.Len(t, ix.Search("re", 1), 1)
	})

	t.Run("EmptyQuery", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, ix.Search("", 10))
	})
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"darkred", "dark", "red"}, tokenize("darkRed"))
	assert.Equal(t, []string{"dark", "red"}, tokenize("Dark Red"))
}

func TestEntry_MarshalJSON(t *testing.T) {
	t.Parallel()

	ix := BuildIndex(backgroundGraph(), nil)

	t.Run("WithLabelAndDescription", func(t *testing.T) {
		t.Parallel()
		e, ok := ix.Lookup("https://example.org/colour/red")
		require.True(t, ok)

		data, err := json.Marshal(e)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"iri": "https://example.org/colour/red",
			"label": {"value": "Red"},
			"descriptions": [{"value": "The colour red"}]
		}`, string(data))
	})

	t.Run("SearchResults", func(t *testing.T) {
		t.Parallel()
		data, err := json.Marshal(ix.Search("dark", 0))
		require.NoError(t, err)
		assert.JSONEq(t, `[{"iri": "https://example.org/colour/darkRed", "label": {"value": "Dark Red"}}]`, string(data))
	})

	t.Run("Unlabelled", func(t *testing.T) {
		t.Parallel()
		e := Entry{IRI: "https://example.org/x", Descriptions: []graph.Term{graph.NewLangLiteral("Ex", "en")}}
		data, err := json.Marshal(e)
		require.NoError(t, err)
		assert.JSONEq(t, `{"iri": "https://example.org/x", "descriptions": [{"value": "Ex", "language": "en"}]}`, string(data))
	})
}
