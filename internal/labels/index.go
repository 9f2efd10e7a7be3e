package labels

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"github.com/Benny93/vocab-go/internal/graph"
)

// Entry is the best-effort label and descriptions for one IRI.
type Entry struct {
	IRI          string
	Label        graph.Term
	HasLabel     bool
	Descriptions []graph.Term
}

// Text is the JSON form of a literal.
type Text struct {
	Value    string `json:"value"`
	Language string `json:"language,omitempty"`
	Datatype string `json:"datatype,omitempty"`
}

func textOf(t graph.Term) Text {
	return Text{Value: t.Value, Language: t.Language, Datatype: t.Datatype}
}

// MarshalJSON renders the entry with its label, omitted when none was
// found, and its descriptions.
func (e Entry) MarshalJSON() ([]byte, error) {
	out := struct {
		IRI          string `json:"iri"`
		Label        *Text  `json:"label,omitempty"`
		Descriptions []Text `json:"descriptions,omitempty"`
	}{IRI: e.IRI}
	if e.HasLabel {
		l := textOf(e.Label)
		out.Label = &l
	}
	for _, d := range e.Descriptions {
		out.Descriptions = append(out.Descriptions, textOf(d))
	}
	return json.Marshal(out)
}

// Index is the read-only background label store built once per run.
//
// Only triples whose predicate is one the resolver reads are kept, so the
// index stays small even when the background directory holds whole
// ontologies. After construction it is safe for concurrent use.
type Index struct {
	graph    *graph.Graph
	resolver *Resolver
	tokens   map[string][]graph.Term
}

// BuildIndex filters background down to label-bearing triples.
func BuildIndex(background *graph.Graph, r *Resolver) *Index {
	if r == nil {
		r = DefaultResolver()
	}
	keep := make(map[graph.Term]struct{})
	for _, p := range r.Predicates() {
		keep[graph.NewIRI(p)] = struct{}{}
	}

	g := graph.New()
	if background != nil {
		for _, t := range background.Triples() {
			if _, ok := keep[t.Predicate]; ok && t.Subject.IsIRI() && t.Object.IsLiteral() {
				g.Add(t)
			}
		}
	}

	ix := &Index{graph: g, resolver: r, tokens: make(map[string][]graph.Term)}
	for _, s := range g.AllSubjects() {
		if l, ok := r.ResolveLabel(s, g, nil); ok {
			for _, tok := range tokenize(l.Value) {
				ix.tokens[tok] = append(ix.tokens[tok], s)
			}
		}
	}
	return ix
}

// Match implements Source. A nil Index matches nothing.
func (ix *Index) Match(s, p, o graph.Term) []graph.Triple {
	if ix == nil {
		return nil
	}
	return ix.graph.Match(s, p, o)
}

// Graph exposes the filtered triples, e.g. for caching.
func (ix *Index) Graph() *graph.Graph { return ix.graph }

// Size returns the number of label-bearing triples.
func (ix *Index) Size() int { return ix.graph.Size() }

// Len returns the number of distinct IRIs with at least one entry.
func (ix *Index) Len() int { return len(ix.graph.AllSubjects()) }

// Lookup resolves an IRI against the index alone.
func (ix *Index) Lookup(iri string) (Entry, bool) {
	s := graph.NewIRI(iri)
	if !ix.graph.HasSubject(s) {
		return Entry{IRI: iri}, false
	}
	label, ok := ix.resolver.ResolveLabel(s, ix.graph, nil)
	return Entry{
		IRI:          iri,
		Label:        label,
		HasLabel:     ok,
		Descriptions: ix.resolver.ResolveDescriptions(s, ix.graph, nil),
	}, true
}

// Search returns IRIs whose label has a token starting with every query
// token. Whole-token matches rank first, then IRIs sort lexically.
func (ix *Index) Search(query string, limit int) []Entry {
	qTokens := tokenize(query)
	if len(qTokens) == 0 {
		return nil
	}

	hits := make(map[graph.Term]int)
	exact := make(map[graph.Term]int)
	for i, tok := range qTokens {
		matched := make(map[graph.Term]bool)
		for indexed, subjects := range ix.tokens {
			if !strings.HasPrefix(indexed, tok) {
				continue
			}
			for _, s := range subjects {
				matched[s] = true
				if indexed == tok {
					exact[s]++
				}
			}
		}
		for s := range matched {
			if hits[s] == i {
				hits[s]++
			}
		}
	}

	type scored struct {
		s     graph.Term
		score int
	}
	var ranked []scored
	for s, n := range hits {
		if n == len(qTokens) {
			ranked = append(ranked, scored{s, exact[s]})
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].s.Value < ranked[j].s.Value
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]Entry, 0, len(ranked))
	for _, r := range ranked {
		e, _ := ix.Lookup(r.s.Value)
		out = append(out, e)
	}
	return out
}

var (
	separators = regexp.MustCompile(`[_\.\-\s/()',:;]+`)
	camelCase  = regexp.MustCompile(`([a-z])([A-Z])`)
)

// tokenize splits a label into lower-case search tokens, including the
// halves of camelCase words.
func tokenize(text string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(tok string) {
		tok = strings.ToLower(tok)
		if tok == "" || seen[tok] {
			return
		}
		seen[tok] = true
		out = append(out, tok)
	}
	for _, part := range separators.Split(text, -1) {
		add(part)
		for _, sub := range strings.Fields(camelCase.ReplaceAllString(part, "$1 $2")) {
			add(sub)
		}
	}
	return out
}
