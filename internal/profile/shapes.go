package profile

import (
	"strconv"
	"strings"

	"github.com/Benny93/vocab-go/internal/graph"
	"github.com/Benny93/vocab-go/internal/vocab"
)

// PathSeparator joins the steps of a sequence path.
const PathSeparator = " / "

// PropertyShape is one sh:property of a node shape.
type PropertyShape struct {
	// Path is the property IRI. Inverse paths are written "^iri" and
	// sequence paths join their steps with " / ".
	Path string

	// Name is the optional sh:name.
	Name string

	// Order is the declared sh:order, if any.
	Order *float64

	// MinCount and MaxCount are the declared cardinality bounds.
	MinCount *int
	MaxCount *int

	// Node is the IRI of a nested shape the values must conform to.
	Node string

	// Datatype, Class and NodeKind are value-type constraints.
	Datatype string
	Class    string
	NodeKind string

	// Severity is the sh:severity IRI; empty means sh:Violation.
	Severity string

	// Message is the optional sh:message.
	Message string
}

// ShapeDefinition is a node shape with its target classes.
type ShapeDefinition struct {
	IRI           string
	TargetClasses []string
	Properties    []PropertyShape
}

// HasOrder reports whether any property declares sh:order.
func (d ShapeDefinition) HasOrder() bool {
	for _, p := range d.Properties {
		if p.Order != nil {
			return true
		}
	}
	return false
}

// Constraint is a cardinality declaration keyed by target class and path.
type Constraint struct {
	TargetClass string
	Path        string
	MinCount    *int
	MaxCount    *int
}

// ExtractShapes reads every node shape in g, in the order the shapes
// first appear.
func ExtractShapes(g *graph.Graph) []ShapeDefinition {
	var candidates []graph.Term
	seen := make(map[graph.Term]bool)
	collect := func(terms []graph.Term) {
		for _, t := range terms {
			if !seen[t] {
				seen[t] = true
				candidates = append(candidates, t)
			}
		}
	}
	collect(g.SubjectsOfType(vocab.ShNodeShape))
	collect(g.Subjects(graph.NewIRI(vocab.ShTargetClass), graph.Term{}))
	collect(g.Subjects(graph.NewIRI(vocab.ShProperty), graph.Term{}))

	var out []ShapeDefinition
	for _, s := range candidates {
		def := ShapeDefinition{IRI: s.Value}
		if s.IsBlank() {
			def.IRI = "_:" + s.Value
		}
		for _, c := range g.Objects(s, graph.NewIRI(vocab.ShTargetClass)) {
			if c.IsIRI() {
				def.TargetClasses = append(def.TargetClasses, c.Value)
			}
		}
		for _, p := range g.Objects(s, graph.NewIRI(vocab.ShProperty)) {
			if ps, ok := extractProperty(g, p); ok {
				def.Properties = append(def.Properties, ps)
			}
		}
		out = append(out, def)
	}
	return out
}

// ExtractConstraints flattens shapes into cardinality constraints.
func ExtractConstraints(defs []ShapeDefinition) []Constraint {
	var out []Constraint
	for _, d := range defs {
		for _, c := range d.TargetClasses {
			for _, p := range d.Properties {
				if p.MinCount == nil && p.MaxCount == nil {
					continue
				}
				out = append(out, Constraint{TargetClass: c, Path: p.Path, MinCount: p.MinCount, MaxCount: p.MaxCount})
			}
		}
	}
	return out
}

func extractProperty(g *graph.Graph, node graph.Term) (PropertyShape, bool) {
	pathTerm, ok := g.Value(node, graph.NewIRI(vocab.ShPath))
	if !ok {
		return PropertyShape{}, false
	}
	path, ok := pathString(g, pathTerm)
	if !ok {
		return PropertyShape{}, false
	}

	ps := PropertyShape{Path: path}
	ps.Name = literalValue(g, node, vocab.ShName)
	ps.Message = literalValue(g, node, vocab.ShMessage)
	ps.Node = iriValue(g, node, vocab.ShNode)
	ps.Datatype = iriValue(g, node, vocab.ShDatatype)
	ps.Class = iriValue(g, node, vocab.ShClass)
	ps.NodeKind = iriValue(g, node, vocab.ShNodeKind)
	ps.Severity = iriValue(g, node, vocab.ShSeverity)

	if v := literalValue(g, node, vocab.ShOrder); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			ps.Order = &f
		}
	}
	ps.MinCount = intValue(g, node, vocab.ShMinCount)
	ps.MaxCount = intValue(g, node, vocab.ShMaxCount)
	return ps, true
}

func pathString(g *graph.Graph, t graph.Term) (string, bool) {
	if t.IsIRI() {
		return t.Value, true
	}
	if !t.IsBlank() {
		return "", false
	}
	if inv, ok := g.Value(t, graph.NewIRI(vocab.ShInversePath)); ok && inv.IsIRI() {
		return "^" + inv.Value, true
	}
	// Sequence path as an RDF list.
	var steps []string
	for cell, n := t, 0; cell.IsBlank() && n < 64; n++ {
		first, ok := g.Value(cell, graph.NewIRI(vocab.RdfFirst))
		if !ok {
			return "", false
		}
		step, ok := pathString(g, first)
		if !ok {
			return "", false
		}
		steps = append(steps, step)
		cell, _ = g.Value(cell, graph.NewIRI(vocab.RdfRest))
	}
	if len(steps) == 0 {
		return "", false
	}
	return strings.Join(steps, PathSeparator), true
}

// FollowPath evaluates a path string as written by ExtractShapes starting
// at s. Results keep graph order without duplicates.
func FollowPath(g *graph.Graph, s graph.Term, path string) []graph.Term {
	current := []graph.Term{s}
	for _, step := range strings.Split(path, PathSeparator) {
		var next []graph.Term
		seen := make(map[graph.Term]bool)
		for _, node := range current {
			var found []graph.Term
			if strings.HasPrefix(step, "^") {
				found = g.Subjects(graph.NewIRI(step[1:]), node)
			} else {
				found = g.Objects(node, graph.NewIRI(step))
			}
			for _, f := range found {
				if !seen[f] {
					seen[f] = true
					next = append(next, f)
				}
			}
		}
		current = next
	}
	return current
}

func literalValue(g *graph.Graph, s graph.Term, p string) string {
	if v, ok := g.Value(s, graph.NewIRI(p)); ok && v.IsLiteral() {
		return v.Value
	}
	return ""
}

func iriValue(g *graph.Graph, s graph.Term, p string) string {
	if v, ok := g.Value(s, graph.NewIRI(p)); ok && v.IsIRI() {
		return v.Value
	}
	return ""
}

func intValue(g *graph.Graph, s graph.Term, p string) *int {
	v := literalValue(g, s, p)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}
