package export

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/piprate/json-gold/ld"

	"github.com/Benny93/vocab-go/internal/curie"
	"github.com/Benny93/vocab-go/internal/graph"
)

// WriteJSONLD serializes g as expanded JSON-LD, one node object per
// subject sorted by @id.
func WriteJSONLD(g *graph.Graph) ([]byte, error) {
	expanded, err := expand(g)
	if err != nil {
		return nil, err
	}
	return marshalJSON(expanded)
}

// WriteCompactJSONLD serializes g as compacted JSON-LD with a context
// built from the namespaces in ns.
func WriteCompactJSONLD(g *graph.Graph, ns *curie.NamespaceTable) ([]byte, error) {
	if ns == nil {
		ns = curie.DefaultNamespaces()
	}
	expanded, err := expand(g)
	if err != nil {
		return nil, err
	}

	ctx := make(map[string]any, ns.Len())
	for _, e := range ns.Sorted() {
		ctx[e.Prefix] = e.IRI
	}

	proc := ld.NewJsonLdProcessor()
	opts := ld.NewJsonLdOptions("")
	compacted, err := proc.Compact(expanded, map[string]any{"@context": ctx}, opts)
	if err != nil {
		return nil, fmt.Errorf("compacting JSON-LD: %w", err)
	}
	return marshalJSON(compacted)
}

func expand(g *graph.Graph) ([]any, error) {
	proc := ld.NewJsonLdProcessor()
	opts := ld.NewJsonLdOptions("")
	opts.Format = "application/n-quads"

	out, err := proc.FromRDF(string(WriteNTriples(g)), opts)
	if err != nil {
		return nil, fmt.Errorf("converting RDF to JSON-LD: %w", err)
	}
	nodes, ok := out.([]any)
	if !ok {
		return nil, fmt.Errorf("unexpected JSON-LD processor output %T", out)
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		return idLess(jsonldID(nodes[i]), jsonldID(nodes[j]))
	})
	return nodes, nil
}

func jsonldID(node any) string {
	if obj, ok := node.(map[string]any); ok {
		if id, ok := obj["@id"].(string); ok {
			return id
		}
	}
	return ""
}

// idLess orders IRIs before blank node identifiers.
func idLess(a, b string) bool {
	ab, bb := strings.HasPrefix(a, "_:"), strings.HasPrefix(b, "_:")
	if ab != bb {
		return bb
	}
	return a < b
}

func marshalJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
