package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/Benny93/vocab-go/internal/graph"
)

type memoryEntry struct {
	data []byte
	meta LabelMeta
}

// MemoryBackend is an in-memory implementation of LabelStore for testing.
// It stores the same compressed encoding as BadgerBackend.
type MemoryBackend struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	loads   int
}

// NewMemoryBackend creates a new in-memory label store.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: make(map[string]memoryEntry)}
}

// Initialize implements LabelStore.
func (m *MemoryBackend) Initialize(path string, readOnly bool) error {
	return nil
}

// Close implements LabelStore.
func (m *MemoryBackend) Close() error {
	return nil
}

// LoadLabels implements LabelStore.
func (m *MemoryBackend) LoadLabels(ctx context.Context, key string) (*graph.Graph, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	g, err := decodeGraph(e.data)
	if err != nil {
		return nil, false, err
	}

	m.mu.Lock()
	m.loads++
	m.mu.Unlock()
	return g, true, nil
}

// StoreLabels implements LabelStore.
func (m *MemoryBackend) StoreLabels(ctx context.Context, key string, g *graph.Graph, meta LabelMeta) error {
	data, err := encodeGraph(g)
	if err != nil {
		return err
	}
	meta.Key = key
	meta.Triples = g.Size()
	meta.CompressedBytes = len(data)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{data: data, meta: meta}
	return nil
}

// Entries implements LabelStore.
func (m *MemoryBackend) Entries(ctx context.Context) ([]LabelMeta, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]LabelMeta, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.meta)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Stats implements LabelStore.
func (m *MemoryBackend) Stats(ctx context.Context) (Stats, error) {
	entries, err := m.Entries(ctx)
	if err != nil {
		return Stats{}, err
	}
	return summarize(entries), nil
}

// Clear implements LabelStore.
func (m *MemoryBackend) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]memoryEntry)
	return nil
}

// Hits returns how many LoadLabels calls returned a decoded entry.
func (m *MemoryBackend) Hits() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loads
}
