package curie

import (
	"fmt"
	"strings"
	"sync"
)

// Minter turns IRIs into compact identifiers.
//
// IRIs under a known namespace become prefix:local. Anything else is split
// at its last '#' or '/' and the namespace part gets a synthesized prefix,
// which is remembered so that later IRIs in the same namespace reuse it.
// Given the same sequence of calls a Minter always returns the same ids.
type Minter struct {
	mu          sync.Mutex
	table       *NamespaceTable
	synthesized []Namespace
	counter     int
}

// NewMinter creates a minter seeded with a copy of base.
func NewMinter(base *NamespaceTable) *Minter {
	if base == nil {
		base = NewNamespaceTable()
	}
	return &Minter{table: base.Clone()}
}

// Mint returns the compact identifier for iri.
func (m *Minter) Mint(iri string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if prefix, local, ok := m.table.Compact(iri); ok {
		return prefix + ":" + local
	}

	namespace, local := SplitIRI(iri)
	if namespace == "" {
		return iri
	}
	prefix := m.synthesizeLocked(namespace)
	return prefix + ":" + local
}

// Expand turns a compact identifier back into an IRI.
func (m *Minter) Expand(curie string) (string, bool) {
	prefix, local, ok := strings.Cut(curie, ":")
	if !ok {
		return "", false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ns, ok := m.table.Namespace(prefix)
	if !ok {
		return "", false
	}
	return ns + local, true
}

// Namespaces returns a snapshot of the table including synthesized prefixes.
func (m *Minter) Namespaces() *NamespaceTable {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.table.Clone()
}

// Synthesized returns the prefixes invented so far, in creation order.
func (m *Minter) Synthesized() []Namespace {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Namespace, len(m.synthesized))
	copy(out, m.synthesized)
	return out
}

func (m *Minter) synthesizeLocked(namespace string) string {
	prefix := prefixCandidate(namespace)
	if prefix == "" || m.taken(prefix) {
		for {
			m.counter++
			prefix = fmt.Sprintf("ns%d", m.counter)
			if !m.taken(prefix) {
				break
			}
		}
	}
	m.table.Bind(prefix, namespace)
	m.synthesized = append(m.synthesized, Namespace{Prefix: prefix, IRI: namespace})
	return prefix
}

func (m *Minter) taken(prefix string) bool {
	_, ok := m.table.Namespace(prefix)
	return ok
}

// SplitIRI splits iri after its last '#' or '/'. An IRI that ends in a
// separator is split at the one before, so the local part keeps the
// trailing separator. IRIs without either separator split after their
// last ':'. IRIs with only an authority are not split.
func SplitIRI(iri string) (namespace, local string) {
	body := strings.TrimRight(iri, "#/")
	idx := strings.LastIndexAny(body, "#/")
	if scheme := strings.Index(iri, "://"); scheme >= 0 {
		if idx <= scheme+2 {
			return "", iri
		}
	} else if idx < 0 {
		idx = strings.LastIndex(body, ":")
	}
	if idx < 0 || idx == len(iri)-1 {
		return "", iri
	}
	return iri[:idx+1], iri[idx+1:]
}

// ShortName returns the trailing path segment of an IRI for display.
func ShortName(iri string) string {
	_, local := SplitIRI(iri)
	local = strings.TrimRight(local, "#/")
	if local == "" {
		return iri
	}
	return local
}

func prefixCandidate(namespace string) string {
	trimmed := strings.TrimRight(namespace, "#/")
	if idx := strings.LastIndexAny(trimmed, "/#:"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	var b strings.Builder
	for _, r := range strings.ToLower(trimmed) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9' && b.Len() > 0) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
