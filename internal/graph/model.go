// Package graph provides the RDF data model for the vocabulary engine.
//
// It defines the Term tagged union (IRI, blank node, literal) and the
// Triple fact that the Graph stores.
package graph

import (
	"strings"

	"github.com/Benny93/vocab-go/internal/vocab"
)

// TermKind identifies which variant of Term is populated.
type TermKind uint8

const (
	// KindIRI is a named node.
	KindIRI TermKind = iota + 1
	// KindBlank is a document-local anonymous node.
	KindBlank
	// KindLiteral is a typed or language-tagged scalar.
	KindLiteral
)

// String returns the lower-case kind name used in JSON output.
func (k TermKind) String() string {
	switch k {
	case KindIRI:
		return "iri"
	case KindBlank:
		return "blank"
	case KindLiteral:
		return "literal"
	default:
		return "any"
	}
}

// Term is a node or value in a triple.
//
// Terms are comparable and may be used as map keys. The zero Term has no
// kind and acts as a wildcard in Graph.Match.
type Term struct {
	// Kind selects the variant.
	Kind TermKind

	// Value is the IRI, the blank node id (without "_:"), or the lexical form.
	Value string

	// Language is the lower-cased language tag of a literal, if any.
	Language string

	// Datatype is the datatype IRI of a literal. Plain strings carry "".
	Datatype string
}

// NewIRI creates a named node.
func NewIRI(iri string) Term {
	return Term{Kind: KindIRI, Value: iri}
}

// NewBlank creates a blank node with the given local id.
func NewBlank(id string) Term {
	return Term{Kind: KindBlank, Value: strings.TrimPrefix(id, "_:")}
}

// NewLiteral creates a plain string literal.
func NewLiteral(value string) Term {
	return Term{Kind: KindLiteral, Value: value}
}

// NewLangLiteral creates a language-tagged literal.
func NewLangLiteral(value, lang string) Term {
	return Term{Kind: KindLiteral, Value: value, Language: strings.ToLower(lang)}
}

// NewTypedLiteral creates a literal with a datatype. The implicit string
// datatypes collapse to a plain literal so that equal values compare equal.
func NewTypedLiteral(value, datatype string) Term {
	if datatype == vocab.XsdString || datatype == vocab.RdfLangString {
		datatype = ""
	}
	return Term{Kind: KindLiteral, Value: value, Datatype: datatype}
}

// IsZero reports whether t is the wildcard term.
func (t Term) IsZero() bool { return t.Kind == 0 }

// IsIRI reports whether t is a named node.
func (t Term) IsIRI() bool { return t.Kind == KindIRI }

// IsBlank reports whether t is a blank node.
func (t Term) IsBlank() bool { return t.Kind == KindBlank }

// IsLiteral reports whether t is a literal.
func (t Term) IsLiteral() bool { return t.Kind == KindLiteral }

// IsResource reports whether t can appear in subject position.
func (t Term) IsResource() bool { return t.Kind == KindIRI || t.Kind == KindBlank }

// EffectiveDatatype returns the datatype a literal actually has, including
// the implicit xsd:string and rdf:langString.
func (t Term) EffectiveDatatype() string {
	switch {
	case t.Kind != KindLiteral:
		return ""
	case t.Language != "":
		return vocab.RdfLangString
	case t.Datatype == "":
		return vocab.XsdString
	default:
		return t.Datatype
	}
}

// String renders the term in N-Triples syntax.
func (t Term) String() string {
	switch t.Kind {
	case KindIRI:
		return "<" + escapeIRI(t.Value) + ">"
	case KindBlank:
		return "_:" + t.Value
	case KindLiteral:
		s := `"` + EscapeString(t.Value) + `"`
		if t.Language != "" {
			return s + "@" + t.Language
		}
		if t.Datatype != "" {
			return s + "^^<" + escapeIRI(t.Datatype) + ">"
		}
		return s
	default:
		return "?"
	}
}

// Triple is a single subject-predicate-object fact.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// NewTriple is shorthand for building a triple.
func NewTriple(s, p, o Term) Triple {
	return Triple{Subject: s, Predicate: p, Object: o}
}

// String renders the triple as one N-Triples statement without newline.
func (t Triple) String() string {
	return t.Subject.String() + " " + t.Predicate.String() + " " + t.Object.String() + " ."
}

// Valid reports whether the triple respects RDF position rules.
func (t Triple) Valid() bool {
	return t.Subject.IsResource() && t.Predicate.IsIRI() && !t.Object.IsZero()
}

// EscapeString escapes a lexical form for N-Triples and Turtle strings.
func EscapeString(s string) string {
	if !strings.ContainsAny(s, "\"\\\n\r\t") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func escapeIRI(s string) string {
	if !strings.ContainsAny(s, "<>\"{}|^`\\ ") {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '<', '>', '"', '{', '}', '|', '^', '`', '\\', ' ':
			b.WriteString(`\u00`)
			b.WriteString(strings.ToUpper(hex2(byte(r))))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func hex2(c byte) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[c>>4], digits[c&0x0f]})
}
