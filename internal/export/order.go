package export

import (
	"sort"

	"github.com/Benny93/vocab-go/internal/graph"
	"github.com/Benny93/vocab-go/internal/vocab"
)

// sortedSubjects orders subjects IRIs first, then blank nodes, each by value.
func sortedSubjects(g *graph.Graph) []graph.Term {
	subjects := g.AllSubjects()
	sort.SliceStable(subjects, func(i, j int) bool {
		return termLess(subjects[i], subjects[j])
	})
	return subjects
}

func termLess(a, b graph.Term) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	if a.Value != b.Value {
		return a.Value < b.Value
	}
	if a.Language != b.Language {
		return a.Language < b.Language
	}
	return a.Datatype < b.Datatype
}

// predicateGroup is one predicate of a subject with its sorted objects.
type predicateGroup struct {
	predicate graph.Term
	objects   []graph.Term
}

// groupPredicates returns the triples of s grouped by predicate, rdf:type
// first and then by predicate IRI; objects are sorted within a group.
func groupPredicates(g *graph.Graph, s graph.Term) []predicateGroup {
	byPredicate := make(map[graph.Term][]graph.Term)
	var order []graph.Term
	for _, t := range g.Match(s, graph.Term{}, graph.Term{}) {
		if _, ok := byPredicate[t.Predicate]; !ok {
			order = append(order, t.Predicate)
		}
		byPredicate[t.Predicate] = append(byPredicate[t.Predicate], t.Object)
	}

	rdfType := graph.NewIRI(vocab.RdfType)
	sort.SliceStable(order, func(i, j int) bool {
		if (order[i] == rdfType) != (order[j] == rdfType) {
			return order[i] == rdfType
		}
		return order[i].Value < order[j].Value
	})

	out := make([]predicateGroup, 0, len(order))
	for _, p := range order {
		objs := byPredicate[p]
		sort.SliceStable(objs, func(i, j int) bool { return termLess(objs[i], objs[j]) })
		out = append(out, predicateGroup{predicate: p, objects: objs})
	}
	return out
}
