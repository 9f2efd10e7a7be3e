package parsers

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Benny93/vocab-go/internal/graph"
	"github.com/Benny93/vocab-go/internal/vocab"
)

// TurtleParser decodes Turtle documents.
type TurtleParser struct{}

// NewTurtleParser creates a Turtle parser.
func NewTurtleParser() *TurtleParser {
	return &TurtleParser{}
}

// Format implements Parser.
func (p *TurtleParser) Format() string { return FormatTurtle }

// Parse implements Parser.
func (p *TurtleParser) Parse(filePath string, content []byte) (*Document, error) {
	ast, err := turtleParser.ParseBytes(filePath, content)
	if err != nil {
		return nil, &ParseError{File: filePath, Err: err}
	}

	b := &turtleBuilder{
		g:        graph.New(),
		prefixes: make(map[string]string),
		used:     make(map[string]bool),
	}
	if err := b.build(ast); err != nil {
		return nil, &ParseError{File: filePath, Err: err}
	}

	doc := &Document{Graph: b.g, Prefixes: b.prefixes}
	if b.base != nil {
		doc.Base = b.base.String()
	}
	return doc, nil
}

// turtleBuilder turns the syntax tree into triples, resolving prefixed
// names and relative IRIs against the directives seen so far.
type turtleBuilder struct {
	g        *graph.Graph
	prefixes map[string]string
	base     *url.URL
	anon     int
	used     map[string]bool
}

func (b *turtleBuilder) build(doc *turtleDoc) error {
	for _, st := range doc.Statements {
		switch {
		case st.Prefix != nil:
			ns, err := b.resolveRef(st.Prefix.IRI)
			if err != nil {
				return err
			}
			b.prefixes[strings.TrimSuffix(st.Prefix.Name, ":")] = ns
		case st.Base != nil:
			ns, err := b.resolveRef(st.Base.IRI)
			if err != nil {
				return err
			}
			u, err := url.Parse(ns)
			if err != nil {
				return fmt.Errorf("invalid base %q: %w", ns, err)
			}
			b.base = u
		case st.Triples != nil:
			if err := b.triples(st.Triples); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *turtleBuilder) triples(block *triplesBlock) error {
	subject, err := b.node(block.Subject)
	if err != nil {
		return err
	}
	if !subject.IsResource() {
		return fmt.Errorf("%s cannot be a subject", subject)
	}
	if len(block.Predicates) == 0 && block.Subject.PropList == nil {
		return fmt.Errorf("subject %s has no predicates", subject)
	}
	return b.predicateObjects(subject, block.Predicates)
}

func (b *turtleBuilder) predicateObjects(subject graph.Term, list []*predicateObjects) error {
	for _, po := range list {
		var predicate graph.Term
		if po.Verb.A {
			predicate = graph.NewIRI(vocab.RdfType)
		} else {
			iri, err := b.iri(po.Verb.IRI)
			if err != nil {
				return err
			}
			predicate = graph.NewIRI(iri)
		}
		for _, o := range po.Objects {
			object, err := b.node(o)
			if err != nil {
				return err
			}
			b.g.AddTriple(subject, predicate, object)
		}
	}
	return nil
}

func (b *turtleBuilder) node(n *turtleNode) (graph.Term, error) {
	switch {
	case n.IRI != nil:
		iri, err := b.iri(n.IRI)
		if err != nil {
			return graph.Term{}, err
		}
		return graph.NewIRI(iri), nil
	case n.Blank != "":
		label := strings.TrimPrefix(n.Blank, "_:")
		b.used[label] = true
		return graph.NewBlank(label), nil
	case n.PropList != nil:
		bn := b.fresh()
		if err := b.predicateObjects(bn, n.PropList.Predicates); err != nil {
			return graph.Term{}, err
		}
		return bn, nil
	case n.Collection != nil:
		return b.collection(n.Collection)
	case n.Literal != nil:
		return b.literal(n.Literal)
	default:
		return graph.Term{}, fmt.Errorf("empty node")
	}
}

func (b *turtleBuilder) collection(c *collection) (graph.Term, error) {
	if len(c.Items) == 0 {
		return graph.NewIRI(vocab.RdfNil), nil
	}
	first := graph.NewIRI(vocab.RdfFirst)
	rest := graph.NewIRI(vocab.RdfRest)

	head := b.fresh()
	cell := head
	for i, item := range c.Items {
		value, err := b.node(item)
		if err != nil {
			return graph.Term{}, err
		}
		b.g.AddTriple(cell, first, value)
		next := graph.NewIRI(vocab.RdfNil)
		if i < len(c.Items)-1 {
			next = b.fresh()
		}
		b.g.AddTriple(cell, rest, next)
		cell = next
	}
	return head, nil
}

func (b *turtleBuilder) literal(l *turtleLiteral) (graph.Term, error) {
	switch {
	case l.Quoted != nil:
		value, err := unquote(l.Quoted.Value)
		if err != nil {
			return graph.Term{}, err
		}
		if l.Quoted.Suffix == nil {
			return graph.NewLiteral(value), nil
		}
		if l.Quoted.Suffix.Lang != "" {
			return graph.NewLangLiteral(value, strings.TrimPrefix(l.Quoted.Suffix.Lang, "@")), nil
		}
		dt, err := b.iri(l.Quoted.Suffix.Datatype)
		if err != nil {
			return graph.Term{}, err
		}
		return graph.NewTypedLiteral(value, dt), nil
	case l.Number != "":
		switch {
		case strings.ContainsAny(l.Number, "eE"):
			return graph.NewTypedLiteral(l.Number, vocab.XsdDouble), nil
		case strings.Contains(l.Number, "."):
			return graph.NewTypedLiteral(l.Number, vocab.XsdDecimal), nil
		default:
			return graph.NewTypedLiteral(l.Number, vocab.XsdInteger), nil
		}
	default:
		return graph.NewTypedLiteral(l.Boolean, vocab.XsdBoolean), nil
	}
}

func (b *turtleBuilder) iri(i *turtleIRI) (string, error) {
	if i.Ref != "" {
		return b.resolveRef(i.Ref)
	}
	prefix, local, _ := strings.Cut(i.PName, ":")
	ns, ok := b.prefixes[prefix]
	if !ok {
		return "", fmt.Errorf("undefined prefix %q", prefix)
	}
	return ns + unescapeLocal(local), nil
}

// resolveRef unwraps an <...> token and resolves it against the base.
func (b *turtleBuilder) resolveRef(ref string) (string, error) {
	raw, err := unescapeNumeric(strings.TrimSuffix(strings.TrimPrefix(ref, "<"), ">"))
	if err != nil {
		return "", err
	}
	if b.base == nil || isAbsolute(raw) {
		return raw, nil
	}
	rel, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid IRI %q: %w", raw, err)
	}
	return b.base.ResolveReference(rel).String(), nil
}

func (b *turtleBuilder) fresh() graph.Term {
	for {
		b.anon++
		id := "genid" + strconv.Itoa(b.anon)
		if !b.used[id] {
			b.used[id] = true
			return graph.NewBlank(id)
		}
	}
}

func isAbsolute(iri string) bool {
	colon := strings.IndexByte(iri, ':')
	if colon <= 0 {
		return false
	}
	return !strings.ContainsAny(iri[:colon], "/?#")
}

// unquote strips the quotes of any of the four Turtle string forms and
// processes escapes.
func unquote(s string) (string, error) {
	switch {
	case strings.HasPrefix(s, `"""`), strings.HasPrefix(s, `'''`):
		s = s[3 : len(s)-3]
	default:
		s = s[1 : len(s)-1]
	}
	return unescapeString(s)
}

func unescapeString(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	var out strings.Builder
	out.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			out.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 't':
			out.WriteByte('\t')
		case 'b':
			out.WriteByte('\b')
		case 'n':
			out.WriteByte('\n')
		case 'r':
			out.WriteByte('\r')
		case 'f':
			out.WriteByte('\f')
		case '"', '\'', '\\':
			out.WriteByte(s[i])
		case 'u', 'U':
			r, n, err := decodeCodepoint(s[i:])
			if err != nil {
				return "", err
			}
			out.WriteRune(r)
			i += n - 1
		default:
			return "", fmt.Errorf("invalid escape \\%c", s[i])
		}
	}
	return out.String(), nil
}

// unescapeNumeric handles the \u and \U escapes allowed inside IRIs.
func unescapeNumeric(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	var out strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			out.WriteByte(s[i])
			continue
		}
		r, n, err := decodeCodepoint(s[i+1:])
		if err != nil {
			return "", err
		}
		out.WriteRune(r)
		i += n
	}
	return out.String(), nil
}

// decodeCodepoint reads uXXXX or UXXXXXXXX and returns the rune and the
// number of bytes consumed including the u/U.
func decodeCodepoint(s string) (rune, int, error) {
	width := 4
	if s[0] == 'U' {
		width = 8
	}
	if len(s) < width+1 {
		return 0, 0, fmt.Errorf("truncated escape \\%s", s)
	}
	v, err := strconv.ParseUint(s[1:width+1], 16, 32)
	if err != nil || !utf8.ValidRune(rune(v)) {
		return 0, 0, fmt.Errorf("invalid escape \\%s", s[:width+1])
	}
	return rune(v), width + 1, nil
}

func unescapeLocal(local string) string {
	if !strings.Contains(local, `\`) {
		return local
	}
	var out strings.Builder
	for i := 0; i < len(local); i++ {
		if local[i] == '\\' && i+1 < len(local) {
			i++
		}
		out.WriteByte(local[i])
	}
	return out.String()
}
