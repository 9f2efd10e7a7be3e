package export

import (
	"encoding/json"
	"strings"

	"github.com/Benny93/vocab-go/internal/curie"
	"github.com/Benny93/vocab-go/internal/graph"
	"github.com/Benny93/vocab-go/internal/profile"
	"github.com/Benny93/vocab-go/internal/vocab"
)

// RowKind discriminates the RowValue variants.
type RowKind string

// Row value kinds.
const (
	RowLiteral  RowKind = "literal"
	RowIRI      RowKind = "iri"
	RowCompound RowKind = "compound"
)

// RowVisitor handles every RowValue variant.
type RowVisitor interface {
	VisitLiteral(LiteralValue)
	VisitIRI(IRIValue)
	VisitCompound(CompoundValue)
}

// RowValue is one value of a rendered field. It is implemented only by
// LiteralValue, IRIValue and CompoundValue.
type RowValue interface {
	Kind() RowKind
	Accept(RowVisitor)
	rowValue()
}

// LiteralValue is a scalar value.
type LiteralValue struct {
	Value    string `json:"value"`
	Language string `json:"language,omitempty"`
	Datatype string `json:"datatype,omitempty"`
}

// IRIValue is a reference to another resource with its presentation
// annotations.
type IRIValue struct {
	IRI         string   `json:"iri"`
	Identifier  string   `json:"identifier,omitempty"`
	Label       string   `json:"label,omitempty"`
	Description []string `json:"description,omitempty"`
	Link        string   `json:"link,omitempty"`
}

// CompoundValue is a structured value held by a blank node.
type CompoundValue struct {
	Rows []Row `json:"rows"`
}

func (LiteralValue) Kind() RowKind  { return RowLiteral }
func (IRIValue) Kind() RowKind      { return RowIRI }
func (CompoundValue) Kind() RowKind { return RowCompound }

func (v LiteralValue) Accept(r RowVisitor)  { r.VisitLiteral(v) }
func (v IRIValue) Accept(r RowVisitor)      { r.VisitIRI(v) }
func (v CompoundValue) Accept(r RowVisitor) { r.VisitCompound(v) }

func (LiteralValue) rowValue()  {}
func (IRIValue) rowValue()      {}
func (CompoundValue) rowValue() {}

// MarshalJSON adds the kind discriminator.
func (v LiteralValue) MarshalJSON() ([]byte, error) {
	type plain LiteralValue
	return json.Marshal(struct {
		Kind RowKind `json:"kind"`
		plain
	}{RowLiteral, plain(v)})
}

// MarshalJSON adds the kind discriminator.
func (v IRIValue) MarshalJSON() ([]byte, error) {
	type plain IRIValue
	return json.Marshal(struct {
		Kind RowKind `json:"kind"`
		plain
	}{RowIRI, plain(v)})
}

// MarshalJSON adds the kind discriminator.
func (v CompoundValue) MarshalJSON() ([]byte, error) {
	type plain CompoundValue
	return json.Marshal(struct {
		Kind RowKind `json:"kind"`
		plain
	}{RowCompound, plain(v)})
}

// Row is one rendered field.
type Row struct {
	Path     string     `json:"path"`
	Label    string     `json:"label,omitempty"`
	MinCount *int       `json:"minCount,omitempty"`
	MaxCount *int       `json:"maxCount,omitempty"`
	Values   []RowValue `json:"values"`
}

// Page is the presentation document of one focus entity.
type Page struct {
	IRI         string       `json:"iri"`
	Kind        profile.Kind `json:"kind"`
	Identifier  string       `json:"identifier,omitempty"`
	Label       string       `json:"label,omitempty"`
	Description []string     `json:"description,omitempty"`
	Link        string       `json:"link,omitempty"`
	Members     string       `json:"members,omitempty"`
	Profile     string       `json:"profile,omitempty"`
	Types       []IRIValue   `json:"types,omitempty"`
	Fields      []Row        `json:"fields"`
}

// BuildPage renders focus out of the annotated graph g. Fields named by
// entries come first in entry order; the focus's remaining predicates
// follow in the order they were first seen. Presentation predicates and
// rdf:type are surfaced in the page header instead of as fields.
func BuildPage(g *graph.Graph, focus graph.Term, kind profile.Kind, entries []profile.Entry, ns *curie.NamespaceTable) *Page {
	pb := &pageBuilder{g: g, ns: ns}
	page := &Page{
		IRI:         focus.Value,
		Kind:        kind,
		Identifier:  pb.identifier(focus),
		Label:       pb.literal(focus, vocab.PrezLabel),
		Description: pb.literals(focus, vocab.PrezDescription),
		Link:        pb.literal(focus, vocab.PrezLink),
		Members:     pb.literal(focus, vocab.PrezMembers),
	}
	if p, ok := g.Value(focus, graph.NewIRI(vocab.PrezCurrentProfile)); ok {
		if conforms, ok := g.Value(p, graph.NewIRI(vocab.DctermsConformsTo)); ok {
			page.Profile = conforms.Value
		}
	}
	for _, t := range g.Objects(focus, graph.NewIRI(vocab.RdfType)) {
		if t.IsIRI() && t.Value != vocab.PrezFocusNode {
			page.Types = append(page.Types, pb.iriValue(t))
		}
	}
	page.Fields = pb.rows(focus, entries, map[graph.Term]bool{focus: true})
	return page
}

// WritePage renders page as JSON.
func WritePage(page *Page) ([]byte, error) {
	return marshalJSON(page)
}

type pageBuilder struct {
	g  *graph.Graph
	ns *curie.NamespaceTable
}

func (pb *pageBuilder) rows(s graph.Term, entries []profile.Entry, visiting map[graph.Term]bool) []Row {
	rows := []Row{}
	declared := make(map[string]bool)
	for _, e := range entries {
		declared[e.Path] = true
		values := pb.values(profile.FollowPath(pb.g, s, e.Path), e.Nested, visiting)
		if len(values) == 0 {
			continue
		}
		rows = append(rows, Row{
			Path:     e.Path,
			Label:    pb.label(e.Path),
			MinCount: e.MinCount,
			MaxCount: e.MaxCount,
			Values:   values,
		})
	}

	var leftover []graph.Term
	seen := make(map[graph.Term]bool)
	for _, t := range pb.g.Match(s, graph.Term{}, graph.Term{}) {
		p := t.Predicate
		if seen[p] || declared[p.Value] || hidden(p.Value) {
			continue
		}
		seen[p] = true
		leftover = append(leftover, p)
	}
	for _, p := range leftover {
		values := pb.values(pb.g.Objects(s, p), nil, visiting)
		if len(values) == 0 {
			continue
		}
		rows = append(rows, Row{Path: p.Value, Label: pb.label(p.Value), Values: values})
	}
	return rows
}

// hidden reports predicates that belong in the page header.
func hidden(p string) bool {
	return p == vocab.RdfType || strings.HasPrefix(p, vocab.PREZ)
}

func (pb *pageBuilder) values(objects []graph.Term, nested []profile.Entry, visiting map[graph.Term]bool) []RowValue {
	var out []RowValue
	for _, o := range objects {
		switch o.Kind {
		case graph.KindLiteral:
			if o.Datatype == vocab.PrezIdentifier {
				continue
			}
			out = append(out, LiteralValue{Value: o.Value, Language: o.Language, Datatype: o.Datatype})
		case graph.KindIRI:
			out = append(out, pb.iriValue(o))
		case graph.KindBlank:
			if visiting[o] {
				continue
			}
			visiting[o] = true
			out = append(out, CompoundValue{Rows: pb.rows(o, nested, visiting)})
			delete(visiting, o)
		}
	}
	return out
}

func (pb *pageBuilder) iriValue(t graph.Term) IRIValue {
	return IRIValue{
		IRI:         t.Value,
		Identifier:  pb.identifier(t),
		Label:       pb.literal(t, vocab.PrezLabel),
		Description: pb.literals(t, vocab.PrezDescription),
		Link:        pb.literal(t, vocab.PrezLink),
	}
}

func (pb *pageBuilder) identifier(t graph.Term) string {
	for _, o := range pb.g.Objects(t, graph.NewIRI(vocab.DctermsIdentifier)) {
		if o.IsLiteral() && o.Datatype == vocab.PrezIdentifier {
			return o.Value
		}
	}
	if pb.ns != nil && t.IsIRI() {
		if prefix, local, ok := pb.ns.Compact(t.Value); ok {
			return prefix + ":" + local
		}
	}
	return ""
}

func (pb *pageBuilder) label(path string) string {
	if strings.HasPrefix(path, "^") || strings.Contains(path, profile.PathSeparator) {
		return ""
	}
	return pb.literal(graph.NewIRI(path), vocab.PrezLabel)
}

func (pb *pageBuilder) literal(s graph.Term, p string) string {
	if o, ok := pb.g.Value(s, graph.NewIRI(p)); ok && o.IsLiteral() {
		return o.Value
	}
	return ""
}

func (pb *pageBuilder) literals(s graph.Term, p string) []string {
	var out []string
	for _, o := range pb.g.Objects(s, graph.NewIRI(p)) {
		if o.IsLiteral() {
			out = append(out, o.Value)
		}
	}
	return out
}
