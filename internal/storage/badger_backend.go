package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"github.com/Benny93/vocab-go/internal/graph"
)

// Key prefixes for different data types
const (
	prefixLabels = "l:" // compressed N-Triples
	prefixMeta   = "m:" // entry metadata
)

var errNotInitialized = errors.New("storage: backend not initialized")

// BadgerBackend is a BadgerDB-backed label store.
type BadgerBackend struct {
	db       *badger.DB
	readOnly bool
	mu       sync.RWMutex
}

// NewBadgerBackend creates a new BadgerDB backend.
func NewBadgerBackend() *BadgerBackend {
	return &BadgerBackend{}
}

// Initialize opens or creates the BadgerDB database at the given path.
func (b *BadgerBackend) Initialize(path string, readOnly bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	opts := badger.DefaultOptions(path).
		WithNumCompactors(2).
		WithLoggingLevel(badger.ERROR) // Suppress INFO/WARNING logs

	if readOnly {
		opts = opts.WithReadOnly(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("opening badger DB: %w", err)
	}
	b.db = db
	b.readOnly = readOnly
	return nil
}

// Close releases all resources held by the backend.
func (b *BadgerBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return nil
	}

	err := b.db.Close()
	b.db = nil
	return err
}

// LoadLabels implements LabelStore.
func (b *BadgerBackend) LoadLabels(ctx context.Context, key string) (*graph.Graph, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.db == nil {
		return nil, false, errNotInitialized
	}

	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(labelsKey(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("getting labels: %w", err)
	}

	g, err := decodeGraph(data)
	if err != nil {
		return nil, false, err
	}
	return g, true, nil
}

// StoreLabels implements LabelStore.
func (b *BadgerBackend) StoreLabels(ctx context.Context, key string, g *graph.Graph, meta LabelMeta) error {
	data, err := encodeGraph(g)
	if err != nil {
		return err
	}
	meta.Key = key
	meta.Triples = g.Size()
	meta.CompressedBytes = len(data)
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return errNotInitialized
	}
	if b.readOnly {
		return errors.New("storage: backend is read-only")
	}

	return b.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(labelsKey(key), data); err != nil {
			return fmt.Errorf("setting labels: %w", err)
		}
		if err := txn.Set(metaKey(key), metaJSON); err != nil {
			return fmt.Errorf("setting metadata: %w", err)
		}
		return nil
	})
}

// Entries implements LabelStore.
func (b *BadgerBackend) Entries(ctx context.Context) ([]LabelMeta, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.db == nil {
		return nil, errNotInitialized
	}

	var entries []LabelMeta
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixMeta)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var meta LabelMeta
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &meta)
			}); err != nil {
				return fmt.Errorf("unmarshaling metadata: %w", err)
			}
			entries = append(entries, meta)
		}
		return nil
	})
	return entries, err
}

// Stats implements LabelStore.
func (b *BadgerBackend) Stats(ctx context.Context) (Stats, error) {
	entries, err := b.Entries(ctx)
	if err != nil {
		return Stats{}, err
	}
	return summarize(entries), nil
}

// Clear implements LabelStore.
func (b *BadgerBackend) Clear(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return errNotInitialized
	}
	return b.db.DropAll()
}

func labelsKey(key string) []byte { return []byte(prefixLabels + key) }
func metaKey(key string) []byte   { return []byte(prefixMeta + key) }

func summarize(entries []LabelMeta) Stats {
	s := Stats{Entries: len(entries)}
	for _, e := range entries {
		s.Triples += e.Triples
		s.CompressedBytes += int64(e.CompressedBytes)
	}
	return s
}
