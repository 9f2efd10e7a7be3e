// Package profile compiles structural shape definitions into the
// per-entity field ordering consumed by the presentation writers.
package profile

import (
	"encoding/json"
	"sort"

	"github.com/Benny93/vocab-go/internal/vocab"
)

// DefaultIRI is the profile used when none is configured.
const DefaultIRI = "https://w3id.org/profile/vocpub"

// Entry is one field of a Profile.
type Entry struct {
	// Path is a property IRI, or a column name for the list kind.
	Path string `json:"path"`

	// Order is used only for sorting; values need not be contiguous.
	Order float64 `json:"order"`

	MinCount *int `json:"minCount,omitempty"`
	MaxCount *int `json:"maxCount,omitempty"`

	// Nested is the ordered sub-field list of a compound field.
	Nested []Entry `json:"nested,omitempty"`
}

// Profile is the compiled field ordering for every entity kind. It is
// immutable once compiled and may be shared between goroutines.
type Profile struct {
	IRI           string   `json:"iri"`
	Formats       []string `json:"formats,omitempty"`
	ConceptScheme []Entry  `json:"conceptScheme"`
	Concept       []Entry  `json:"concept"`
	Catalog       []Entry  `json:"catalog"`
	Collection    []Entry  `json:"collection"`
	List          []Entry  `json:"list"`
}

// Entries returns the ordered fields for kind.
func (p *Profile) Entries(kind Kind) []Entry {
	switch kind {
	case KindConceptScheme:
		return p.ConceptScheme
	case KindConcept:
		return p.Concept
	case KindCatalog:
		return p.Catalog
	case KindCollection:
		return p.Collection
	case KindList:
		return p.List
	default:
		return nil
	}
}

func (p *Profile) setEntries(kind Kind, entries []Entry) {
	switch kind {
	case KindConceptScheme:
		p.ConceptScheme = entries
	case KindConcept:
		p.Concept = entries
	case KindCatalog:
		p.Catalog = entries
	case KindCollection:
		p.Collection = entries
	case KindList:
		p.List = entries
	}
}

// Allows reports whether format is on the profile's allow-list. An empty
// list allows everything.
func (p *Profile) Allows(format string) bool {
	if len(p.Formats) == 0 {
		return true
	}
	for _, f := range p.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// JSON renders profile.json.
func (p *Profile) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// DefaultOrder returns the built-in field order for kind.
func DefaultOrder(kind Kind) []string {
	switch kind {
	case KindConceptScheme:
		return []string{
			vocab.SkosPrefLabel,
			vocab.SkosDefinition,
			vocab.DctermsCreated,
			vocab.DctermsModified,
			vocab.DctermsCreator,
			vocab.DctermsPublisher,
			vocab.ProvQualifiedAttribution,
			vocab.SkosHistoryNote,
			vocab.SkosHasTopConcept,
		}
	case KindConcept:
		return []string{
			vocab.SkosPrefLabel,
			vocab.SkosDefinition,
			vocab.SkosAltLabel,
			vocab.SkosNotation,
			vocab.SkosBroader,
			vocab.SkosNarrower,
			vocab.SkosRelated,
			vocab.SkosInScheme,
			vocab.SkosTopConceptOf,
		}
	case KindCatalog:
		return []string{
			vocab.DctermsTitle,
			vocab.DctermsDescription,
			vocab.DctermsCreated,
			vocab.DctermsModified,
			vocab.DctermsPublisher,
			vocab.DctermsHasPart,
		}
	case KindCollection:
		return []string{
			vocab.SkosPrefLabel,
			vocab.SkosDefinition,
			vocab.SkosMember,
		}
	case KindList:
		return []string{"iri", "broader", "label"}
	default:
		return nil
	}
}

func defaultEntries(kind Kind) []Entry {
	paths := DefaultOrder(kind)
	out := make([]Entry, len(paths))
	for i, p := range paths {
		out[i] = Entry{Path: p, Order: float64(i)}
	}
	return out
}

// sortEntries orders explicitly ordered entries by Order and moves the
// unordered ones after them, both groups keeping their original sequence.
func sortEntries(entries []Entry, ordered []bool) []Entry {
	idx := make([]int, len(entries))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ia, ib := idx[a], idx[b]
		if ordered[ia] != ordered[ib] {
			return ordered[ia]
		}
		if !ordered[ia] {
			return false
		}
		return entries[ia].Order < entries[ib].Order
	})

	out := make([]Entry, len(entries))
	next := 0.0
	for i, j := range idx {
		out[i] = entries[j]
		if ordered[j] && out[i].Order >= next {
			next = out[i].Order + 1
		}
	}
	for i, j := range idx {
		if !ordered[j] {
			out[i].Order = next
			next++
		}
	}
	return out
}
