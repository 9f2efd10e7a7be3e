package parsers

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/piprate/json-gold/ld"

	"github.com/Benny93/vocab-go/internal/graph"
)

// NQuadsParser decodes N-Triples and N-Quads. Named graphs are merged into
// the one document graph.
type NQuadsParser struct {
	format string
}

// NewNQuadsParser creates a line-based parser for the given format name.
func NewNQuadsParser(format string) *NQuadsParser {
	return &NQuadsParser{format: format}
}

// Format implements Parser.
func (p *NQuadsParser) Format() string { return p.format }

// Parse implements Parser.
func (p *NQuadsParser) Parse(filePath string, content []byte) (*Document, error) {
	g, err := GraphFromNQuads(string(content))
	if err != nil {
		return nil, &ParseError{File: filePath, Err: err}
	}
	return &Document{Graph: g, Prefixes: map[string]string{}}, nil
}

// JSONLDParser decodes JSON-LD by converting it to N-Quads.
type JSONLDParser struct{}

// NewJSONLDParser creates a JSON-LD parser.
func NewJSONLDParser() *JSONLDParser {
	return &JSONLDParser{}
}

// Format implements Parser.
func (p *JSONLDParser) Format() string { return FormatJSONLD }

// Parse implements Parser.
func (p *JSONLDParser) Parse(filePath string, content []byte) (*Document, error) {
	var doc any
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, &ParseError{File: filePath, Err: err}
	}

	proc := ld.NewJsonLdProcessor()
	opts := ld.NewJsonLdOptions("")
	opts.Format = "application/n-quads"

	out, err := proc.ToRDF(doc, opts)
	if err != nil {
		return nil, &ParseError{File: filePath, Err: fmt.Errorf("converting JSON-LD to RDF: %w", err)}
	}
	nquads, ok := out.(string)
	if !ok {
		return nil, &ParseError{File: filePath, Err: fmt.Errorf("unexpected JSON-LD processor output %T", out)}
	}

	g, err := GraphFromNQuads(nquads)
	if err != nil {
		return nil, &ParseError{File: filePath, Err: err}
	}
	return &Document{Graph: g, Prefixes: contextPrefixes(doc)}, nil
}

// GraphFromNQuads parses N-Quads text into a graph, default graph first
// and then named graphs in name order.
func GraphFromNQuads(input string) (*graph.Graph, error) {
	dataset, err := ld.ParseNQuads(input)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(dataset.Graphs))
	for name := range dataset.Graphs {
		if name != "@default" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	names = append([]string{"@default"}, names...)

	g := graph.New()
	for _, name := range names {
		for _, q := range dataset.Graphs[name] {
			t, err := tripleFromQuad(q)
			if err != nil {
				return nil, err
			}
			g.Add(t)
		}
	}
	return g, nil
}

func tripleFromQuad(q *ld.Quad) (graph.Triple, error) {
	s, err := termFromNode(q.Subject)
	if err != nil {
		return graph.Triple{}, err
	}
	p, err := termFromNode(q.Predicate)
	if err != nil {
		return graph.Triple{}, err
	}
	o, err := termFromNode(q.Object)
	if err != nil {
		return graph.Triple{}, err
	}
	return graph.NewTriple(s, p, o), nil
}

// termFromNode converts a json-gold node. ParseNQuads yields value types;
// the pointer forms are accepted as well.
func termFromNode(n ld.Node) (graph.Term, error) {
	switch v := n.(type) {
	case ld.IRI:
		return graph.NewIRI(v.Value), nil
	case *ld.IRI:
		return graph.NewIRI(v.Value), nil
	case ld.BlankNode:
		return graph.NewBlank(v.Attribute), nil
	case *ld.BlankNode:
		return graph.NewBlank(v.Attribute), nil
	case ld.Literal:
		return literalTerm(v), nil
	case *ld.Literal:
		return literalTerm(*v), nil
	default:
		return graph.Term{}, fmt.Errorf("unsupported node type %T", n)
	}
}

func literalTerm(l ld.Literal) graph.Term {
	if l.Language != "" {
		return graph.NewLangLiteral(l.Value, l.Language)
	}
	return graph.NewTypedLiteral(l.Value, l.Datatype)
}

// contextPrefixes pulls simple string prefix definitions out of an inline
// @context so that they survive into Turtle output.
func contextPrefixes(doc any) map[string]string {
	out := map[string]string{}
	obj, ok := doc.(map[string]any)
	if !ok {
		return out
	}
	ctx, ok := obj["@context"].(map[string]any)
	if !ok {
		return out
	}
	for k, v := range ctx {
		ns, ok := v.(string)
		if !ok || len(ns) == 0 {
			continue
		}
		if last := ns[len(ns)-1]; last == '/' || last == '#' {
			out[k] = ns
		}
	}
	return out
}
