package export

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/Benny93/vocab-go/internal/curie"
	"github.com/Benny93/vocab-go/internal/graph"
	"github.com/Benny93/vocab-go/internal/vocab"
)

// localName matches the prefixed-name local parts the writer emits
// without escaping.
var localName = regexp.MustCompile(`^(?:[A-Za-z0-9_](?:[A-Za-z0-9_.\-]*[A-Za-z0-9_\-])?)?$`)

// WriteTurtle serializes g as Turtle. Only prefixes that are used are
// declared. Blank nodes that are the object of exactly one triple are
// written inline as [ ... ]; all others keep their labels.
func WriteTurtle(g *graph.Graph, ns *curie.NamespaceTable) ([]byte, error) {
	if ns == nil {
		ns = curie.DefaultNamespaces()
	}
	w := &turtleWriter{
		g:       g,
		ns:      ns,
		used:    make(map[string]bool),
		written: make(map[graph.Term]bool),
	}

	subjects := sortedSubjects(g)
	var deferred []graph.Term
	for _, s := range subjects {
		if w.inlinable(s) {
			deferred = append(deferred, s)
			continue
		}
		w.statement(s)
	}
	// Blank nodes only reachable through a cycle of single references
	// never get inlined from a top-level subject.
	for _, s := range deferred {
		if !w.written[s] {
			w.statement(s)
		}
	}

	var out bytes.Buffer
	for _, e := range ns.Sorted() {
		if w.used[e.Prefix] {
			fmt.Fprintf(&out, "@prefix %s: <%s> .\n", e.Prefix, e.IRI)
		}
	}
	if out.Len() > 0 && w.body.Len() > 0 {
		out.WriteByte('\n')
	}
	if body := bytes.TrimRight(w.body.Bytes(), "\n"); len(body) > 0 {
		out.Write(body)
		out.WriteByte('\n')
	}
	return out.Bytes(), nil
}

type turtleWriter struct {
	g       *graph.Graph
	ns      *curie.NamespaceTable
	body    bytes.Buffer
	used    map[string]bool
	written map[graph.Term]bool
}

func (w *turtleWriter) inlinable(t graph.Term) bool {
	return t.IsBlank() && w.g.ObjectCount(t) == 1
}

func (w *turtleWriter) statement(s graph.Term) {
	w.written[s] = true
	w.body.WriteString(w.subject(s) + " ")
	w.predicates(s, 1)
	w.body.WriteString(" .\n\n")
}

func (w *turtleWriter) subject(s graph.Term) string {
	if s.IsBlank() {
		return "_:" + s.Value
	}
	return w.iri(s.Value)
}

// predicates writes the predicate-object list of s at the given depth.
func (w *turtleWriter) predicates(s graph.Term, depth int) {
	indent := strings.Repeat("    ", depth)
	for i, group := range groupPredicates(w.g, s) {
		if i > 0 {
			w.body.WriteString(" ;\n" + indent)
		}
		if group.predicate.Value == vocab.RdfType {
			w.body.WriteString("a")
		} else {
			w.body.WriteString(w.iri(group.predicate.Value))
		}
		for j, o := range group.objects {
			if j == 0 {
				w.body.WriteByte(' ')
			} else {
				w.body.WriteString(", ")
			}
			w.object(o, depth)
		}
	}
}

func (w *turtleWriter) object(o graph.Term, depth int) {
	switch {
	case o.IsBlank() && w.inlinable(o) && !w.written[o]:
		w.written[o] = true
		if !w.g.HasSubject(o) {
			w.body.WriteString("[]")
			return
		}
		w.body.WriteString("[\n" + strings.Repeat("    ", depth+1))
		w.predicates(o, depth+1)
		w.body.WriteString("\n" + strings.Repeat("    ", depth) + "]")
	case o.IsBlank():
		w.body.WriteString("_:" + o.Value)
	case o.IsIRI():
		w.body.WriteString(w.iri(o.Value))
	default:
		w.body.WriteString(w.literal(o))
	}
}

func (w *turtleWriter) literal(o graph.Term) string {
	s := quote(o.Value)
	switch {
	case o.Language != "":
		return s + "@" + o.Language
	case o.Datatype != "":
		return s + "^^" + w.iri(o.Datatype)
	default:
		return s
	}
}

func (w *turtleWriter) iri(v string) string {
	if prefix, local, ok := w.ns.Compact(v); ok && localName.MatchString(local) {
		w.used[prefix] = true
		return prefix + ":" + local
	}
	return graph.NewIRI(v).String()
}

func quote(s string) string {
	if strings.ContainsAny(s, "\n\r") && !strings.Contains(s, `"""`) && !strings.HasSuffix(s, `"`) {
		return `"""` + strings.ReplaceAll(s, `\`, `\\`) + `"""`
	}
	return `"` + graph.EscapeString(s) + `"`
}
