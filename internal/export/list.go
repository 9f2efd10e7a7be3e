package export

import (
	"bytes"
	"encoding/csv"
	"sort"
	"strings"

	"github.com/Benny93/vocab-go/internal/graph"
	"github.com/Benny93/vocab-go/internal/labels"
	"github.com/Benny93/vocab-go/internal/vocab"
)

// ListItem is one row of the flattened concept list.
type ListItem struct {
	IRI     string   `json:"iri"`
	Broader []string `json:"broader"`
	Label   string   `json:"label"`
}

// TreeNode is one concept of the hierarchy view.
type TreeNode struct {
	IRI      string      `json:"iri"`
	Label    string      `json:"label"`
	Children []*TreeNode `json:"children,omitempty"`
}

// FlattenConcepts lists every concept of g sorted by IRI. Broader links
// are collected from both skos:broader and the inverse skos:narrower.
// Labels resolve against g first and background second.
func FlattenConcepts(g *graph.Graph, r *labels.Resolver, background labels.Source) []ListItem {
	if r == nil {
		r = labels.DefaultResolver()
	}
	concepts := g.SubjectsOfType(vocab.SkosConcept)
	items := make([]ListItem, 0, len(concepts))
	for _, c := range concepts {
		if !c.IsIRI() {
			continue
		}
		items = append(items, ListItem{
			IRI:     c.Value,
			Broader: broaderOf(g, c),
			Label:   r.LabelOrShortName(c, g, background).Value,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].IRI < items[j].IRI })
	return items
}

func broaderOf(g *graph.Graph, c graph.Term) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(t graph.Term) {
		if t.IsIRI() && !seen[t.Value] {
			seen[t.Value] = true
			out = append(out, t.Value)
		}
	}
	for _, b := range g.Objects(c, graph.NewIRI(vocab.SkosBroader)) {
		add(b)
	}
	for _, b := range g.Subjects(graph.NewIRI(vocab.SkosNarrower), c) {
		add(b)
	}
	sort.Strings(out)
	if out == nil {
		out = []string{}
	}
	return out
}

// WriteListJSON renders items as a JSON array.
func WriteListJSON(items []ListItem) ([]byte, error) {
	if items == nil {
		items = []ListItem{}
	}
	return marshalJSON(items)
}

// WriteListCSV renders items with the header iri,broader,label. Multiple
// broader concepts are joined with "|".
func WriteListCSV(items []ListItem) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"iri", "broader", "label"}); err != nil {
		return nil, err
	}
	for _, it := range items {
		if err := w.Write([]string{it.IRI, strings.Join(it.Broader, "|"), it.Label}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildTree arranges items into a forest. Roots are concepts with no
// broader concept inside items; siblings sort by label, then IRI. A
// concept with several parents appears under each of them. Cycles are cut
// at the first repeated concept on a path.
func BuildTree(items []ListItem) []*TreeNode {
	byIRI := make(map[string]ListItem, len(items))
	for _, it := range items {
		byIRI[it.IRI] = it
	}
	children := make(map[string][]ListItem)
	var roots []ListItem
	for _, it := range items {
		hasParent := false
		for _, b := range it.Broader {
			if _, ok := byIRI[b]; ok && b != it.IRI {
				children[b] = append(children[b], it)
				hasParent = true
			}
		}
		if !hasParent {
			roots = append(roots, it)
		}
	}

	placed := make(map[string]bool, len(items))
	var build func(it ListItem, path map[string]bool) *TreeNode
	build = func(it ListItem, path map[string]bool) *TreeNode {
		node := &TreeNode{IRI: it.IRI, Label: it.Label}
		path[it.IRI] = true
		placed[it.IRI] = true
		kids := children[it.IRI]
		sortItems(kids)
		for _, k := range kids {
			if path[k.IRI] {
				continue
			}
			node.Children = append(node.Children, build(k, path))
		}
		delete(path, it.IRI)
		return node
	}

	sortItems(roots)
	out := make([]*TreeNode, 0, len(roots))
	for _, r := range roots {
		out = append(out, build(r, make(map[string]bool)))
	}
	// Concepts whose every ancestor chain loops back never became roots.
	rest := append([]ListItem(nil), items...)
	sortItems(rest)
	for _, it := range rest {
		if !placed[it.IRI] {
			out = append(out, build(it, make(map[string]bool)))
		}
	}
	return out
}

func sortItems(items []ListItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Label != items[j].Label {
			return items[i].Label < items[j].Label
		}
		return items[i].IRI < items[j].IRI
	})
}

// WriteTreeJSON renders the hierarchy of items as JSON.
func WriteTreeJSON(items []ListItem) ([]byte, error) {
	return marshalJSON(BuildTree(items))
}
