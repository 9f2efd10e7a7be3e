// Package curie maps IRIs to compact prefix:local identifiers.
//
// A NamespaceTable is an explicit value handed to the Minter and to the
// serializers; there is no process-wide prefix registry.
package curie

import (
	"sort"
	"strings"

	"github.com/Benny93/vocab-go/internal/vocab"
)

// Namespace binds a prefix to a namespace IRI.
type Namespace struct {
	Prefix string `json:"prefix"`
	IRI    string `json:"iri"`
}

// NamespaceTable is an ordered prefix to namespace mapping.
//
// A table is not safe for concurrent mutation. Share it read-only or hand
// each goroutine its own Clone.
type NamespaceTable struct {
	entries  []Namespace
	byPrefix map[string]int
}

// NewNamespaceTable creates an empty table.
func NewNamespaceTable() *NamespaceTable {
	return &NamespaceTable{byPrefix: make(map[string]int)}
}

// DefaultNamespaces returns the prefixes every run starts with.
func DefaultNamespaces() *NamespaceTable {
	t := NewNamespaceTable()
	for _, ns := range []Namespace{
		{"rdf", vocab.RDF},
		{"rdfs", vocab.RDFS},
		{"xsd", vocab.XSD},
		{"owl", vocab.OWL},
		{"skos", vocab.SKOS},
		{"dcterms", vocab.DCTERMS},
		{"dcat", vocab.DCAT},
		{"schema", vocab.SDO},
		{"sh", vocab.SH},
		{"prov", vocab.PROV},
		{"prof", vocab.PROF},
		{"prez", vocab.PREZ},
	} {
		t.Bind(ns.Prefix, ns.IRI)
	}
	return t
}

// Bind maps prefix to namespace, replacing any earlier binding of prefix.
// Empty namespaces are ignored.
func (t *NamespaceTable) Bind(prefix, namespace string) {
	if namespace == "" {
		return
	}
	if idx, ok := t.byPrefix[prefix]; ok {
		t.entries[idx].IRI = namespace
		return
	}
	t.byPrefix[prefix] = len(t.entries)
	t.entries = append(t.entries, Namespace{Prefix: prefix, IRI: namespace})
}

// BindAll binds every entry of a prefix map in sorted prefix order.
func (t *NamespaceTable) BindAll(prefixes map[string]string) {
	keys := make([]string, 0, len(prefixes))
	for k := range prefixes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		t.Bind(k, prefixes[k])
	}
}

// Namespace returns the namespace bound to prefix.
func (t *NamespaceTable) Namespace(prefix string) (string, bool) {
	idx, ok := t.byPrefix[prefix]
	if !ok {
		return "", false
	}
	return t.entries[idx].IRI, true
}

// PrefixFor returns the first prefix bound to exactly this namespace.
func (t *NamespaceTable) PrefixFor(namespace string) (string, bool) {
	for _, e := range t.entries {
		if e.IRI == namespace {
			return e.Prefix, true
		}
	}
	return "", false
}

// Compact splits iri at the longest bound namespace. Among equally long
// namespaces the earliest binding wins.
func (t *NamespaceTable) Compact(iri string) (prefix, local string, ok bool) {
	best := -1
	for i, e := range t.entries {
		if !strings.HasPrefix(iri, e.IRI) {
			continue
		}
		if best < 0 || len(e.IRI) > len(t.entries[best].IRI) {
			best = i
		}
	}
	if best < 0 {
		return "", "", false
	}
	e := t.entries[best]
	return e.Prefix, iri[len(e.IRI):], true
}

// Entries returns the bindings in the order they were made.
func (t *NamespaceTable) Entries() []Namespace {
	out := make([]Namespace, len(t.entries))
	copy(out, t.entries)
	return out
}

// Sorted returns the bindings ordered by prefix.
func (t *NamespaceTable) Sorted() []Namespace {
	out := t.Entries()
	sort.Slice(out, func(i, j int) bool { return out[i].Prefix < out[j].Prefix })
	return out
}

// Len returns the number of bindings.
func (t *NamespaceTable) Len() int { return len(t.entries) }

// Clone returns an independent copy.
func (t *NamespaceTable) Clone() *NamespaceTable {
	c := NewNamespaceTable()
	for _, e := range t.entries {
		c.Bind(e.Prefix, e.IRI)
	}
	return c
}

// Map returns the bindings as a prefix to namespace map.
func (t *NamespaceTable) Map() map[string]string {
	out := make(map[string]string, len(t.entries))
	for _, e := range t.entries {
		out[e.Prefix] = e.IRI
	}
	return out
}
