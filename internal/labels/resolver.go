// Package labels resolves human-readable labels, descriptions and provenance
// for IRIs.
//
// Resolution is a single policy used everywhere a label is needed: walk a
// caller-supplied predicate priority list against the document's own graph,
// then against the background index, then fall back to an already
// materialized presentation predicate. The first predicate with a match
// wins and values from different predicates are never merged.
package labels

import (
	"strings"

	"github.com/Benny93/vocab-go/internal/curie"
	"github.com/Benny93/vocab-go/internal/graph"
	"github.com/Benny93/vocab-go/internal/vocab"
)

// Source is anything that can answer triple patterns. *graph.Graph and
// *Index both satisfy it.
type Source interface {
	Match(s, p, o graph.Term) []graph.Triple
}

// Resolver holds the predicate priority lists.
type Resolver struct {
	// LabelPredicates are tried in order for labels.
	LabelPredicates []string

	// DescriptionPredicates are tried in order for descriptions.
	DescriptionPredicates []string

	// ProvenancePredicates are tried in order for provenance statements.
	ProvenancePredicates []string

	// Languages ranks language tags when one predicate has several labels.
	// Empty means the first value in graph order wins.
	Languages []string
}

// DefaultResolver returns the standard SKOS, DCTERMS, RDFS, schema.org
// priority lists with English preferred.
func DefaultResolver() *Resolver {
	return &Resolver{
		LabelPredicates: []string{
			vocab.SkosPrefLabel,
			vocab.DctermsTitle,
			vocab.RdfsLabel,
			vocab.SdoName,
		},
		DescriptionPredicates: []string{
			vocab.SkosDefinition,
			vocab.DctermsDescription,
			vocab.SdoDescription,
		},
		ProvenancePredicates: []string{
			vocab.DctermsProvenance,
			vocab.DctermsSource,
		},
		Languages: []string{"en"},
	}
}

// Predicates returns every predicate the resolver may read, including the
// presentation fallbacks.
func (r *Resolver) Predicates() []string {
	out := make([]string, 0, len(r.LabelPredicates)+len(r.DescriptionPredicates)+len(r.ProvenancePredicates)+3)
	out = append(out, r.LabelPredicates...)
	out = append(out, r.DescriptionPredicates...)
	out = append(out, r.ProvenancePredicates...)
	return append(out, vocab.PrezLabel, vocab.PrezDescription, vocab.PrezProvenance)
}

// ResolveLabel returns the best label for iri. Either source may be nil.
func (r *Resolver) ResolveLabel(iri graph.Term, primary, background Source) (graph.Term, bool) {
	for _, src := range []Source{primary, background} {
		if src == nil {
			continue
		}
		for _, p := range r.LabelPredicates {
			if lits := literals(src, iri, p); len(lits) > 0 {
				return r.pick(lits), true
			}
		}
	}
	for _, src := range []Source{primary, background} {
		if src == nil {
			continue
		}
		if lits := literals(src, iri, vocab.PrezLabel); len(lits) > 0 {
			return r.pick(lits), true
		}
	}
	return graph.Term{}, false
}

// ResolveDescriptions returns all literal values of the first description
// predicate that has any match.
func (r *Resolver) ResolveDescriptions(iri graph.Term, primary, background Source) []graph.Term {
	return firstMatching(iri, r.DescriptionPredicates, vocab.PrezDescription, primary, background)
}

// ResolveProvenance is ResolveDescriptions for provenance predicates.
func (r *Resolver) ResolveProvenance(iri graph.Term, primary, background Source) []graph.Term {
	return firstMatching(iri, r.ProvenancePredicates, vocab.PrezProvenance, primary, background)
}

// LabelOrShortName resolves a label and falls back to the IRI's trailing
// path segment when nothing is found anywhere.
func (r *Resolver) LabelOrShortName(iri graph.Term, primary, background Source) graph.Term {
	if l, ok := r.ResolveLabel(iri, primary, background); ok {
		return l
	}
	return graph.NewLiteral(ShortName(iri))
}

// ShortName derives a display name from an IRI.
func ShortName(t graph.Term) string {
	if !t.IsIRI() {
		return t.Value
	}
	return curie.ShortName(t.Value)
}

func firstMatching(iri graph.Term, predicates []string, fallback string, primary, background Source) []graph.Term {
	for _, src := range []Source{primary, background} {
		if src == nil {
			continue
		}
		for _, p := range predicates {
			if lits := literals(src, iri, p); len(lits) > 0 {
				return lits
			}
		}
	}
	for _, src := range []Source{primary, background} {
		if src == nil {
			continue
		}
		if lits := literals(src, iri, fallback); len(lits) > 0 {
			return lits
		}
	}
	return nil
}

func literals(src Source, s graph.Term, predicate string) []graph.Term {
	var out []graph.Term
	for _, t := range src.Match(s, graph.NewIRI(predicate), graph.Term{}) {
		if t.Object.IsLiteral() {
			out = append(out, t.Object)
		}
	}
	return out
}

func (r *Resolver) pick(lits []graph.Term) graph.Term {
	if len(r.Languages) == 0 || len(lits) == 1 {
		return lits[0]
	}
	for _, lang := range r.Languages {
		lang = strings.ToLower(lang)
		for _, l := range lits {
			if l.Language == lang || strings.HasPrefix(l.Language, lang+"-") {
				return l
			}
		}
	}
	for _, l := range lits {
		if l.Language == "" {
			return l
		}
	}
	return lits[0]
}
