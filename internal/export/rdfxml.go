package export

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/Benny93/vocab-go/internal/curie"
	"github.com/Benny93/vocab-go/internal/graph"
	"github.com/Benny93/vocab-go/internal/vocab"
)

var (
	ncName    = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.\-]*$`)
	nonNCName = regexp.MustCompile(`[^A-Za-z0-9_.\-]`)
)

// WriteRDFXML serializes g as RDF/XML using one rdf:Description per
// subject. Predicates whose IRI cannot be split into an XML qualified
// name with the given table get a generated namespace prefix.
func WriteRDFXML(g *graph.Graph, ns *curie.NamespaceTable) ([]byte, error) {
	if ns == nil {
		ns = curie.DefaultNamespaces()
	}
	table := ns.Clone()
	used := map[string]bool{"rdf": true}
	if _, ok := table.Namespace("rdf"); !ok {
		table.Bind("rdf", vocab.RDF)
	}

	root := &xmlquery.Node{Type: xmlquery.ElementNode, Prefix: "rdf", Data: "RDF"}
	generated := 0
	for _, s := range sortedSubjects(g) {
		desc := &xmlquery.Node{Type: xmlquery.ElementNode, Prefix: "rdf", Data: "Description"}
		if s.IsBlank() {
			addAttr(desc, "rdf:nodeID", nodeID(s))
		} else {
			addAttr(desc, "rdf:about", s.Value)
		}

		for _, group := range groupPredicates(g, s) {
			prefix, local, ok := table.Compact(group.predicate.Value)
			if !ok || !ncName.MatchString(local) {
				nsIRI, l := curie.SplitIRI(group.predicate.Value)
				if nsIRI == "" || !ncName.MatchString(l) {
					return nil, fmt.Errorf("predicate %s cannot be written as an XML name", group.predicate.Value)
				}
				if p, bound := table.PrefixFor(nsIRI); bound {
					prefix = p
				} else {
					for {
						generated++
						prefix = fmt.Sprintf("ns%d", generated)
						if _, taken := table.Namespace(prefix); !taken {
							break
						}
					}
					table.Bind(prefix, nsIRI)
				}
				local = l
			}
			used[prefix] = true

			for _, o := range group.objects {
				prop := &xmlquery.Node{Type: xmlquery.ElementNode, Prefix: prefix, Data: local}
				switch {
				case o.IsIRI():
					addAttr(prop, "rdf:resource", o.Value)
				case o.IsBlank():
					addAttr(prop, "rdf:nodeID", nodeID(o))
				default:
					if o.Language != "" {
						addAttr(prop, "xml:lang", o.Language)
					} else if o.Datatype != "" {
						addAttr(prop, "rdf:datatype", o.Datatype)
					}
					if o.Value != "" {
						xmlquery.AddChild(prop, &xmlquery.Node{Type: xmlquery.TextNode, Data: o.Value})
					}
				}
				xmlquery.AddChild(desc, prop)
			}
		}
		xmlquery.AddChild(root, desc)
	}

	for _, e := range table.Sorted() {
		if used[e.Prefix] {
			addAttr(root, "xmlns:"+e.Prefix, e.IRI)
		}
	}

	doc := &xmlquery.Node{Type: xmlquery.DocumentNode}
	decl := &xmlquery.Node{Type: xmlquery.DeclarationNode, Data: "xml"}
	addAttr(decl, "version", "1.0")
	addAttr(decl, "encoding", "UTF-8")
	xmlquery.AddChild(doc, decl)
	xmlquery.AddChild(doc, root)

	var buf bytes.Buffer
	writeXMLNode(&buf, doc, 0)
	return buf.Bytes(), nil
}

func addAttr(n *xmlquery.Node, name, value string) {
	attr := xmlquery.Attr{Name: xml.Name{Local: name}, Value: value}
	if i := strings.IndexByte(name, ':'); i > 0 {
		attr.Name = xml.Name{Space: name[:i], Local: name[i+1:]}
	}
	n.Attr = append(n.Attr, attr)
}

func writeXMLNode(w *bytes.Buffer, n *xmlquery.Node, depth int) {
	switch n.Type {
	case xmlquery.DocumentNode:
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			writeXMLNode(w, child, depth)
		}
	case xmlquery.DeclarationNode:
		w.WriteString("<?" + n.Data)
		writeXMLAttrs(w, n)
		w.WriteString("?>\n")
	case xmlquery.ElementNode:
		writeIndent(w, depth)
		name := n.Data
		if n.Prefix != "" {
			name = n.Prefix + ":" + n.Data
		}
		w.WriteString("<" + name)
		writeXMLAttrs(w, n)
		if n.FirstChild == nil {
			w.WriteString("/>\n")
			return
		}
		w.WriteByte('>')
		if n.FirstChild.Type == xmlquery.TextNode {
			_ = xml.EscapeText(w, []byte(n.FirstChild.Data))
			w.WriteString("</" + name + ">\n")
			return
		}
		w.WriteByte('\n')
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			writeXMLNode(w, child, depth+1)
		}
		writeIndent(w, depth)
		w.WriteString("</" + name + ">\n")
	}
}

func writeXMLAttrs(w *bytes.Buffer, n *xmlquery.Node) {
	for _, attr := range n.Attr {
		w.WriteByte(' ')
		if attr.Name.Space != "" {
			w.WriteString(attr.Name.Space + ":")
		}
		w.WriteString(attr.Name.Local + `="`)
		_ = xml.EscapeText(w, []byte(attr.Value))
		w.WriteByte('"')
	}
}

// nodeID turns a blank node label into an XML NCName.
func nodeID(t graph.Term) string {
	if ncName.MatchString(t.Value) {
		return t.Value
	}
	return "b" + nonNCName.ReplaceAllString(t.Value, "_")
}

func writeIndent(w *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		w.WriteString("  ")
	}
}
