package export

import (
	"sort"
	"strings"

	"github.com/Benny93/vocab-go/internal/graph"
)

// WriteNTriples serializes g as N-Triples with lines sorted, which makes
// the output canonical for graphs without blank nodes and stable for a
// fixed set of blank node labels.
func WriteNTriples(g *graph.Graph) []byte {
	lines := make([]string, 0, g.Size())
	for _, t := range g.Triples() {
		lines = append(lines, t.String())
	}
	sort.Strings(lines)

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}
