package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	// Registers the pure Go "sqlite" driver.
	_ "modernc.org/sqlite"
)

// IndexDocument is the per-document input of WriteSQLiteIndex.
type IndexDocument struct {
	Source     string
	Focus      string
	Kind       string
	Identifier string
	Items      []ListItem
}

const indexSchema = `
CREATE TABLE documents (
	id         INTEGER PRIMARY KEY,
	source     TEXT NOT NULL,
	focus      TEXT NOT NULL,
	kind       TEXT NOT NULL,
	identifier TEXT NOT NULL
);
CREATE TABLE concepts (
	document_id INTEGER NOT NULL REFERENCES documents(id),
	iri         TEXT NOT NULL,
	broader     TEXT NOT NULL,
	label       TEXT NOT NULL
);
CREATE INDEX concepts_iri ON concepts(iri);
CREATE INDEX concepts_label ON concepts(label);
`

// WriteSQLiteIndex writes the flattened concepts of every document into a
// fresh SQLite database at path, replacing any existing file. Broader
// IRIs are stored joined with "|" as in the CSV list.
func WriteSQLiteIndex(ctx context.Context, path string, docs []IndexDocument) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing old index: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening index: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, indexSchema); err != nil {
		return fmt.Errorf("creating index schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	docStmt, err := tx.PrepareContext(ctx, `INSERT INTO documents (id, source, focus, kind, identifier) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer docStmt.Close()
	conceptStmt, err := tx.PrepareContext(ctx, `INSERT INTO concepts (document_id, iri, broader, label) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer conceptStmt.Close()

	for i, d := range docs {
		id := i + 1
		if _, err := docStmt.ExecContext(ctx, id, d.Source, d.Focus, d.Kind, d.Identifier); err != nil {
			return fmt.Errorf("indexing %s: %w", d.Source, err)
		}
		for _, it := range d.Items {
			if _, err := conceptStmt.ExecContext(ctx, id, it.IRI, strings.Join(it.Broader, "|"), it.Label); err != nil {
				return fmt.Errorf("indexing %s: %w", d.Source, err)
			}
		}
	}
	return tx.Commit()
}
