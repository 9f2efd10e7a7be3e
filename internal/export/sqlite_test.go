package export

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSQLiteIndex(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "index.sqlite")
	items := FlattenConcepts(parseTTL(t, schemeTTL), nil, nil)
	docs := []IndexDocument{
		{Source: "a.ttl", Focus: "https://example.org/voc/scheme", Kind: "conceptScheme", Identifier: "ex:scheme", Items: items},
		{Source: "b.ttl", Focus: "https://example.org/voc/other", Kind: "conceptScheme", Identifier: "ex:other"},
	}
	ctx := context.Background()
	require.NoError(t, WriteSQLiteIndex(ctx, path, docs))
	// A second run replaces the file rather than appending.
	require.NoError(t, WriteSQLiteIndex(ctx, path, docs))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM documents`).Scan(&count))
	assert.Equal(t, 2, count)
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM concepts`).Scan(&count))
	assert.Equal(t, 3, count)

	var broader, label string
	require.NoError(t, db.QueryRow(`SELECT broader, label FROM concepts WHERE iri = ?`, gamma).Scan(&broader, &label))
	assert.Equal(t, alpha+"|"+beta, broader)
	assert.Equal(t, "gamma", label)

	var source string
	require.NoError(t, db.QueryRow(
		`SELECT d.source FROM concepts c JOIN documents d ON d.id = c.document_id WHERE c.iri = ?`, alpha,
	).Scan(&source))
	assert.Equal(t, "a.ttl", source)
}
