// Package conformance checks data graphs against structural shapes.
package conformance

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Benny93/vocab-go/internal/graph"
	"github.com/Benny93/vocab-go/internal/parsers"
	"github.com/Benny93/vocab-go/internal/profile"
	"github.com/Benny93/vocab-go/internal/vocab"
)

// Severity levels, named after their SHACL IRIs.
const (
	SeverityViolation = "Violation"
	SeverityWarning   = "Warning"
	SeverityInfo      = "Info"
)

// Violation is one validation result.
type Violation struct {
	Severity  string `json:"severity"`
	Message   string `json:"message"`
	FocusNode string `json:"focusNode,omitempty"`
	Path      string `json:"path,omitempty"`
}

// Report is the outcome of validating one data graph.
type Report struct {
	Conforms   bool        `json:"conforms"`
	Violations []Violation `json:"violations"`
}

// Summary renders the report as one line per result.
func (r *Report) Summary() string {
	if r.Conforms {
		return "conforms"
	}
	lines := make([]string, 0, len(r.Violations))
	for _, v := range r.Violations {
		lines = append(lines, fmt.Sprintf("[%s] %s %s: %s", v.Severity, v.FocusNode, v.Path, v.Message))
	}
	return strings.Join(lines, "\n")
}

// Validator checks data against shapes.
type Validator interface {
	Validate(ctx context.Context, data, shapes *graph.Graph) (*Report, error)
}

//go:embed shapes/vocpub.ttl
var defaultShapesTTL []byte

var (
	defaultShapesOnce sync.Once
	defaultShapes     *graph.Graph
	defaultShapesErr  error
)

// DefaultShapes returns the built-in vocabulary shapes. The returned graph
// is shared and must not be modified.
func DefaultShapes() (*graph.Graph, error) {
	defaultShapesOnce.Do(func() {
		doc, err := parsers.NewTurtleParser().Parse("vocpub.ttl", defaultShapesTTL)
		if err != nil {
			defaultShapesErr = fmt.Errorf("parsing built-in shapes: %w", err)
			return
		}
		defaultShapes = doc.Graph
	})
	return defaultShapes, defaultShapesErr
}

// ShapeValidator implements the core SHACL constraints used by vocabulary
// shapes: targetClass, minCount, maxCount, datatype, class, nodeKind and
// node, with per-property severity and message.
type ShapeValidator struct{}

// NewShapeValidator creates a validator.
func NewShapeValidator() *ShapeValidator {
	return &ShapeValidator{}
}

// Validate implements Validator.
func (v *ShapeValidator) Validate(ctx context.Context, data, shapes *graph.Graph) (*Report, error) {
	if shapes == nil {
		var err error
		if shapes, err = DefaultShapes(); err != nil {
			return nil, err
		}
	}
	defs := profile.ExtractShapes(shapes)
	byIRI := make(map[string]profile.ShapeDefinition, len(defs))
	for _, d := range defs {
		byIRI[d.IRI] = d
	}

	c := &checker{data: data, byIRI: byIRI}
	for _, d := range defs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, focus := range targets(data, d.TargetClasses) {
			c.checkShape(focus, d, map[string]bool{d.IRI: true})
		}
	}

	sort.SliceStable(c.results, func(i, j int) bool {
		a, b := c.results[i], c.results[j]
		if a.FocusNode != b.FocusNode {
			return a.FocusNode < b.FocusNode
		}
		return a.Path < b.Path
	})
	return &Report{Conforms: len(c.results) == 0, Violations: c.results}, nil
}

func targets(data *graph.Graph, classes []string) []graph.Term {
	var out []graph.Term
	seen := make(map[graph.Term]bool)
	for _, class := range classes {
		for _, s := range data.SubjectsOfType(class) {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

type checker struct {
	data    *graph.Graph
	byIRI   map[string]profile.ShapeDefinition
	results []Violation
}

func (c *checker) checkShape(focus graph.Term, d profile.ShapeDefinition, visiting map[string]bool) {
	for _, ps := range d.Properties {
		values := profile.FollowPath(c.data, focus, ps.Path)

		if ps.MinCount != nil && len(values) < *ps.MinCount {
			c.report(focus, ps, fmt.Sprintf("Less than %d values on %s", *ps.MinCount, ps.Path))
		}
		if ps.MaxCount != nil && len(values) > *ps.MaxCount {
			c.report(focus, ps, fmt.Sprintf("More than %d values on %s", *ps.MaxCount, ps.Path))
		}
		for _, val := range values {
			if ps.Datatype != "" && (!val.IsLiteral() || val.EffectiveDatatype() != ps.Datatype) {
				c.report(focus, ps, fmt.Sprintf("Value %s does not have datatype %s", val, ps.Datatype))
			}
			if ps.Class != "" && !c.hasClass(val, ps.Class) {
				c.report(focus, ps, fmt.Sprintf("Value %s is not an instance of %s", val, ps.Class))
			}
			if ps.NodeKind != "" && !nodeKindMatches(val, ps.NodeKind) {
				c.report(focus, ps, fmt.Sprintf("Value %s does not have node kind %s", val, ps.NodeKind))
			}
			if ps.Node != "" && !visiting[ps.Node] {
				if nested, ok := c.byIRI[ps.Node]; ok && val.IsResource() {
					visiting[ps.Node] = true
					c.checkShape(val, nested, visiting)
					delete(visiting, ps.Node)
				}
			}
		}
	}
}

func (c *checker) hasClass(t graph.Term, class string) bool {
	if !t.IsResource() {
		return false
	}
	return c.data.Has(graph.NewTriple(t, graph.NewIRI(vocab.RdfType), graph.NewIRI(class)))
}

func nodeKindMatches(t graph.Term, kind string) bool {
	switch kind {
	case vocab.ShIRI:
		return t.IsIRI()
	case vocab.ShLiteral:
		return t.IsLiteral()
	case vocab.ShBlankNode:
		return t.IsBlank()
	default:
		return true
	}
}

// report records a result; the shape's own message wins over the
// generated one.
func (c *checker) report(focus graph.Term, ps profile.PropertyShape, generated string) {
	msg := ps.Message
	if msg == "" {
		msg = generated
	}
	focusID := focus.Value
	if focus.IsBlank() {
		focusID = "_:" + focus.Value
	}
	c.results = append(c.results, Violation{
		Severity:  severityName(ps.Severity),
		Message:   msg,
		FocusNode: focusID,
		Path:      ps.Path,
	})
}

func severityName(iri string) string {
	switch iri {
	case vocab.ShWarning:
		return SeverityWarning
	case vocab.ShInfo:
		return SeverityInfo
	default:
		return SeverityViolation
	}
}
