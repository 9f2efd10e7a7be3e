package export

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alpha = "https://example.org/voc/alpha"
	beta  = "https://example.org/voc/beta"
	gamma = "https://example.org/voc/gamma"
)

func TestFlattenConcepts(t *testing.T) {
	t.Parallel()

	items := FlattenConcepts(parseTTL(t, schemeTTL), nil, nil)
	assert.Equal(t, []ListItem{
		{IRI: alpha, Broader: []string{}, Label: "Alpha"},
		{IRI: beta, Broader: []string{alpha}, Label: "Beta"},
		{IRI: gamma, Broader: []string{alpha, beta}, Label: "gamma"},
	}, items)
}

func TestWriteListCSV(t *testing.T) {
	t.Parallel()

	out, err := WriteListCSV(FlattenConcepts(parseTTL(t, schemeTTL), nil, nil))
	require.NoError(t, err)
	assert.Equal(t, "iri,broader,label\n"+
		alpha+",,Alpha\n"+
		beta+","+alpha+",Beta\n"+
		gamma+","+alpha+"|"+beta+",gamma\n", string(out))
}

func TestWriteListCSVQuotesFields(t *testing.T) {
	t.Parallel()

	out, err := WriteListCSV([]ListItem{{IRI: alpha, Label: `Alpha, "first"`}})
	require.NoError(t, err)
	assert.Equal(t, "iri,broader,label\n"+alpha+`,,"Alpha, ""first"""`+"\n", string(out))
}

func TestWriteListJSON(t *testing.T) {
	t.Parallel()

	t.Run("Items", func(t *testing.T) {
		t.Parallel()
		out, err := WriteListJSON(FlattenConcepts(parseTTL(t, schemeTTL), nil, nil))
		require.NoError(t, err)

		var decoded []ListItem
		require.NoError(t, json.Unmarshal(out, &decoded))
		require.Len(t, decoded, 3)
		assert.Equal(t, alpha, decoded[0].IRI)
		assert.Contains(t, string(out), `"broader": []`)
	})

	t.Run("EmptyIsArray", func(t *testing.T) {
		t.Parallel()
		out, err := WriteListJSON(nil)
		require.NoError(t, err)
		assert.Equal(t, "[]\n", string(out))
	})
}

func TestBuildTree(t *testing.T) {
	t.Parallel()

	t.Run("Hierarchy", func(t *testing.T) {
		t.Parallel()
		roots := BuildTree(FlattenConcepts(parseTTL(t, schemeTTL), nil, nil))
		require.Len(t, roots, 1)
		assert.Equal(t, alpha, roots[0].IRI)
		require.Len(t, roots[0].Children, 2)
		assert.Equal(t, beta, roots[0].Children[0].IRI)
		assert.Equal(t, gamma, roots[0].Children[1].IRI)
		require.Len(t, roots[0].Children[0].Children, 1)
		assert.Equal(t, gamma, roots[0].Children[0].Children[0].IRI)
	})

	t.Run("CycleStillListed", func(t *testing.T) {
		t.Parallel()
		roots := BuildTree([]ListItem{
			{IRI: alpha, Broader: []string{beta}, Label: "A"},
			{IRI: beta, Broader: []string{alpha}, Label: "B"},
		})
		require.Len(t, roots, 1)
		assert.Equal(t, alpha, roots[0].IRI)
		require.Len(t, roots[0].Children, 1)
		assert.Equal(t, beta, roots[0].Children[0].IRI)
		assert.Empty(t, roots[0].Children[0].Children)
	})
}
