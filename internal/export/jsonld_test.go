package export

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Benny93/vocab-go/internal/graph"
	"github.com/Benny93/vocab-go/internal/profile"
)

type subjectPredicate struct {
	subject   string
	predicate string
}

// shape reduces g to its (subject, predicate) pairs with blank subjects
// collapsed, which survives blank node relabelling.
func shape(g *graph.Graph) map[subjectPredicate]int {
	out := make(map[subjectPredicate]int)
	for _, t := range g.Triples() {
		s := t.Subject.Value
		if t.Subject.IsBlank() {
			s = "_:"
		}
		out[subjectPredicate{s, t.Predicate.Value}]++
	}
	return out
}

func TestJSONLDRoundTrip(t *testing.T) {
	t.Parallel()

	t.Run("Expanded", func(t *testing.T) {
		t.Parallel()
		res := annotated(t, parseTTL(t, schemeTTL), profile.KindConceptScheme)

		out, err := WriteJSONLD(res.Graph)
		require.NoError(t, err)
		back, err := ParseJSONLD(out)
		require.NoError(t, err)

		assert.Equal(t, res.Graph.Size(), back.Size())
		assert.Equal(t, shape(res.Graph), shape(back))
		assert.Equal(t, string(iriTriples(res.Graph)), string(iriTriples(back)))
	})

	t.Run("Compacted", func(t *testing.T) {
		t.Parallel()
		res := annotated(t, parseTTL(t, schemeTTL), profile.KindConceptScheme)

		out, err := WriteCompactJSONLD(res.Graph, res.Namespaces)
		require.NoError(t, err)

		var doc map[string]any
		require.NoError(t, json.Unmarshal(out, &doc))
		ctx, ok := doc["@context"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "http://www.w3.org/2004/02/skos/core#", ctx["skos"])

		back, err := ParseJSONLD(out)
		require.NoError(t, err)
		assert.Equal(t, res.Graph.Size(), back.Size())
		assert.Equal(t, shape(res.Graph), shape(back))
	})

	t.Run("SortedByID", func(t *testing.T) {
		t.Parallel()
		out, err := WriteJSONLD(parseTTL(t, schemeTTL))
		require.NoError(t, err)

		var nodes []map[string]any
		require.NoError(t, json.Unmarshal(out, &nodes))
		var ids []string
		for _, n := range nodes {
			ids = append(ids, n["@id"].(string))
		}
		require.NotEmpty(t, ids)
		assert.Equal(t, "https://example.org/voc/alpha", ids[0])
		assert.Regexp(t, `^_:`, ids[len(ids)-1])
	})

	t.Run("Deterministic", func(t *testing.T) {
		t.Parallel()
		g := parseTTL(t, schemeTTL)
		first, err := WriteJSONLD(g)
		require.NoError(t, err)
		second, err := WriteJSONLD(g)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}
