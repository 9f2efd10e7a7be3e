// Package storage caches label indexes between runs.
//
// A cached entry holds the label-bearing triples of a background
// directory, keyed by a digest of the files they were read from, so an
// unchanged background is parsed only once.
package storage

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"

	"github.com/Benny93/vocab-go/internal/graph"
	"github.com/Benny93/vocab-go/internal/parsers"
)

// LabelMeta describes one cached label set.
type LabelMeta struct {
	// Key is the content digest the entry is stored under.
	Key string `json:"key"`

	// Sources are the files the labels were read from.
	Sources []string `json:"sources"`

	// Triples is the number of cached triples.
	Triples int `json:"triples"`

	// CompressedBytes is the stored size of the triples.
	CompressedBytes int `json:"compressedBytes"`

	// CreatedAt is when the entry was written.
	CreatedAt time.Time `json:"createdAt"`
}

// Stats summarizes a store.
type Stats struct {
	Entries         int   `json:"entries"`
	Triples         int   `json:"triples"`
	CompressedBytes int64 `json:"compressedBytes"`
}

// LabelStore defines the interface for label cache implementations.
//
// Implementations must be thread-safe and support concurrent access.
//
//go:generate mockery --name LabelStore --output mocks --outpkg mocks
type LabelStore interface {
	// Initialize opens or creates the store at the given path.
	// If readOnly is true, the store is opened in read-only mode.
	Initialize(path string, readOnly bool) error

	// Close releases all resources held by the store.
	Close() error

	// LoadLabels returns the cached graph for key. The boolean is false
	// when nothing is cached under key.
	LoadLabels(ctx context.Context, key string) (*graph.Graph, bool, error)

	// StoreLabels caches g under key, replacing any previous entry.
	StoreLabels(ctx context.Context, key string, g *graph.Graph, meta LabelMeta) error

	// Entries lists the metadata of every cached entry sorted by key.
	Entries(ctx context.Context) ([]LabelMeta, error)

	// Stats summarizes the store.
	Stats(ctx context.Context) (Stats, error)

	// Clear removes every entry.
	Clear(ctx context.Context) error
}

// CacheKey digests named contents into a key. Parts are sorted by name
// first so the key does not depend on discovery order.
func CacheKey(parts map[string][]byte) string {
	names := make([]string, 0, len(parts))
	for name := range parts {
		names = append(names, name)
	}
	sort.Strings(names)

	h := blake3.New()
	for _, name := range names {
		fmt.Fprintf(h, "%s\x00%d\x00", name, len(parts[name]))
		h.Write(parts[name]) //nolint:errcheck
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ContentHash returns the hex BLAKE3 digest of data.
func ContentHash(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// encodeGraph writes g as xz-compressed N-Triples in insertion order.
func encodeGraph(g *graph.Graph) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("creating xz writer: %w", err)
	}
	for _, t := range g.Triples() {
		if _, err := io.WriteString(w, t.String()+"\n"); err != nil {
			return nil, fmt.Errorf("compressing labels: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("compressing labels: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeGraph(data []byte) (*graph.Graph, error) {
	r, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating xz reader: %w", err)
	}
	var text strings.Builder
	if _, err := io.Copy(&text, r); err != nil {
		return nil, fmt.Errorf("decompressing labels: %w", err)
	}
	g, err := parsers.GraphFromNQuads(text.String())
	if err != nil {
		return nil, fmt.Errorf("decoding labels: %w", err)
	}
	return g, nil
}
