// Package graph provides the in-memory triple graph used for every document.
//
// The Graph is append-only and duplicate-eliminating. Secondary indexes on
// subject, (subject, predicate), predicate and object keep pattern lookups
// proportional to the result set rather than the graph size. Triples are
// returned in insertion order so that every consumer sees a stable sequence.
package graph

import (
	"fmt"
	"sync"

	"github.com/Benny93/vocab-go/internal/vocab"
)

type spKey struct {
	s Term
	p Term
}

// Graph is an in-memory set of triples.
//
// All query methods are backed by indexes holding positions into the
// insertion-ordered triple slice, so lookups by subject or by
// (subject, predicate) are O(result) rather than O(graph).
type Graph struct {
	mu      sync.RWMutex
	triples []Triple
	set     map[Triple]struct{}

	// Secondary indexes, kept in sync by Add.
	bySubject   map[Term][]int
	bySP        map[spKey][]int
	byPredicate map[Term][]int
	byObject    map[Term][]int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		set:         make(map[Triple]struct{}),
		bySubject:   make(map[Term][]int),
		bySP:        make(map[spKey][]int),
		byPredicate: make(map[Term][]int),
		byObject:    make(map[Term][]int),
	}
}

// Size returns the number of distinct triples.
func (g *Graph) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.triples)
}

// Add inserts a triple. It reports whether the triple was new.
func (g *Graph) Add(t Triple) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.addLocked(t)
}

// AddTriple is shorthand for Add(NewTriple(s, p, o)).
func (g *Graph) AddTriple(s, p, o Term) bool {
	return g.Add(Triple{Subject: s, Predicate: p, Object: o})
}

// AddAll inserts every triple and returns how many were new.
func (g *Graph) AddAll(triples []Triple) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	added := 0
	for _, t := range triples {
		if g.addLocked(t) {
			added++
		}
	}
	return added
}

func (g *Graph) addLocked(t Triple) bool {
	if _, ok := g.set[t]; ok {
		return false
	}
	idx := len(g.triples)
	g.triples = append(g.triples, t)
	g.set[t] = struct{}{}

	g.bySubject[t.Subject] = append(g.bySubject[t.Subject], idx)
	key := spKey{t.Subject, t.Predicate}
	g.bySP[key] = append(g.bySP[key], idx)
	g.byPredicate[t.Predicate] = append(g.byPredicate[t.Predicate], idx)
	g.byObject[t.Object] = append(g.byObject[t.Object], idx)
	return true
}

// Has reports whether the exact triple is present.
func (g *Graph) Has(t Triple) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.set[t]
	return ok
}

// Match returns every triple matching the pattern in insertion order.
// Zero terms are wildcards.
func (g *Graph) Match(s, p, o Term) []Triple {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !s.IsZero() && !p.IsZero() && !o.IsZero() {
		t := Triple{s, p, o}
		if _, ok := g.set[t]; ok {
			return []Triple{t}
		}
		return nil
	}

	var candidates []int
	switch {
	case !s.IsZero() && !p.IsZero():
		candidates = g.bySP[spKey{s, p}]
	case !s.IsZero():
		candidates = g.bySubject[s]
	case !o.IsZero() && !p.IsZero():
		// Pick the narrower of the two indexes.
		byO, byP := g.byObject[o], g.byPredicate[p]
		candidates = byO
		if len(byP) < len(byO) {
			candidates = byP
		}
	case !p.IsZero():
		candidates = g.byPredicate[p]
	case !o.IsZero():
		candidates = g.byObject[o]
	default:
		out := make([]Triple, len(g.triples))
		copy(out, g.triples)
		return out
	}

	var out []Triple
	for _, idx := range candidates {
		t := g.triples[idx]
		if (p.IsZero() || t.Predicate == p) && (o.IsZero() || t.Object == o) {
			out = append(out, t)
		}
	}
	return out
}

// Triples returns a copy of all triples in insertion order.
func (g *Graph) Triples() []Triple {
	return g.Match(Term{}, Term{}, Term{})
}

// Objects returns the objects of (s, p, *) in insertion order.
func (g *Graph) Objects(s, p Term) []Term {
	matches := g.Match(s, p, Term{})
	out := make([]Term, 0, len(matches))
	for _, t := range matches {
		out = append(out, t.Object)
	}
	return out
}

// Value returns the first object of (s, p, *).
func (g *Graph) Value(s, p Term) (Term, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	idx := g.bySP[spKey{s, p}]
	if len(idx) == 0 {
		return Term{}, false
	}
	return g.triples[idx[0]].Object, true
}

// Subjects returns the distinct subjects of (*, p, o) in insertion order.
func (g *Graph) Subjects(p, o Term) []Term {
	seen := make(map[Term]struct{})
	var out []Term
	for _, t := range g.Match(Term{}, p, o) {
		if _, ok := seen[t.Subject]; ok {
			continue
		}
		seen[t.Subject] = struct{}{}
		out = append(out, t.Subject)
	}
	return out
}

// SubjectsOfType returns the subjects typed with the given class IRI.
func (g *Graph) SubjectsOfType(class string) []Term {
	return g.Subjects(NewIRI(vocab.RdfType), NewIRI(class))
}

// AllSubjects returns every distinct subject in first-seen order.
func (g *Graph) AllSubjects() []Term {
	return g.Subjects(Term{}, Term{})
}

// HasSubject reports whether s appears in subject position.
func (g *Graph) HasSubject(s Term) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.bySubject[s]) > 0
}

// ObjectCount returns how many triples use o as their object.
func (g *Graph) ObjectCount(o Term) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.byObject[o])
}

// Merge copies every triple of other into g. A non-empty blankScope is
// prepended to blank node ids so that graphs loaded from different files
// cannot share anonymous nodes. It returns the number of triples added.
func (g *Graph) Merge(other *Graph, blankScope string) int {
	if other == nil {
		return 0
	}
	triples := other.Triples()
	if blankScope != "" {
		for i := range triples {
			triples[i].Subject = scopeBlank(triples[i].Subject, blankScope)
			triples[i].Object = scopeBlank(triples[i].Object, blankScope)
		}
	}
	return g.AddAll(triples)
}

// Clone returns an independent copy of the graph.
func (g *Graph) Clone() *Graph {
	c := New()
	c.AddAll(g.Triples())
	return c
}

// String summarizes the graph for logs.
func (g *Graph) String() string {
	return fmt.Sprintf("Graph(%d triples)", g.Size())
}

func scopeBlank(t Term, scope string) Term {
	if t.Kind != KindBlank {
		return t
	}
	return NewBlank(scope + t.Value)
}
