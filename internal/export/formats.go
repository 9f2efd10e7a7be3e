// Package export holds the serializers. Every writer is a pure function
// of its input, never mutates it, and produces byte-identical output for
// the same input.
package export

import (
	"fmt"

	"github.com/Benny93/vocab-go/internal/annotate"
	"github.com/Benny93/vocab-go/internal/curie"
	"github.com/Benny93/vocab-go/internal/graph"
	"github.com/Benny93/vocab-go/internal/labels"
	"github.com/Benny93/vocab-go/internal/parsers"
	"github.com/Benny93/vocab-go/internal/profile"
)

// Format names.
const (
	FormatTurtle          = "turtle"
	FormatAnnotatedTurtle = "annotated-turtle"
	FormatSimpleTurtle    = "simple-turtle"
	FormatNTriples        = "ntriples"
	FormatRDFXML          = "rdfxml"
	FormatJSONLD          = "jsonld"
	FormatAnnotatedJSONLD = "annotated-jsonld"
	FormatListJSON        = "list-json"
	FormatListCSV         = "list-csv"
	FormatTreeJSON        = "tree-json"
	FormatPage            = "page"
)

// Input is everything the writers of one document may read.
type Input struct {
	// Source is the parsed input document.
	Source *graph.Graph

	// Result is the annotation of the document's focus entity.
	Result *annotate.Result

	Profile    *profile.Profile
	Resolver   *labels.Resolver
	Background labels.Source
}

// Artifact is one rendered output of a document.
type Artifact struct {
	Format string
	Suffix string
	Data   []byte
}

type writer struct {
	format string
	suffix string
	render func(Input) ([]byte, error)
}

var writers = []writer{
	{FormatTurtle, ".ttl", func(in Input) ([]byte, error) {
		return WriteTurtle(in.Source, in.namespaces())
	}},
	{FormatAnnotatedTurtle, ".annotated.ttl", func(in Input) ([]byte, error) {
		return WriteTurtle(in.Result.Graph, in.namespaces())
	}},
	{FormatSimpleTurtle, ".simple.ttl", func(in Input) ([]byte, error) {
		return WriteTurtle(in.Result.Closure, in.namespaces())
	}},
	{FormatNTriples, ".nt", func(in Input) ([]byte, error) {
		return WriteNTriples(in.Source), nil
	}},
	{FormatRDFXML, ".rdf", func(in Input) ([]byte, error) {
		return WriteRDFXML(in.Source, in.namespaces())
	}},
	{FormatJSONLD, ".jsonld", func(in Input) ([]byte, error) {
		return WriteJSONLD(in.Source)
	}},
	{FormatAnnotatedJSONLD, ".annotated.jsonld", func(in Input) ([]byte, error) {
		return WriteCompactJSONLD(in.Result.Graph, in.namespaces())
	}},
	{FormatListJSON, ".list.json", func(in Input) ([]byte, error) {
		return WriteListJSON(FlattenConcepts(in.Source, in.Resolver, in.Background))
	}},
	{FormatListCSV, ".list.csv", func(in Input) ([]byte, error) {
		return WriteListCSV(FlattenConcepts(in.Source, in.Resolver, in.Background))
	}},
	{FormatTreeJSON, ".tree.json", func(in Input) ([]byte, error) {
		return WriteTreeJSON(FlattenConcepts(in.Source, in.Resolver, in.Background))
	}},
	{FormatPage, ".page.json", func(in Input) ([]byte, error) {
		var entries []profile.Entry
		if in.Profile != nil {
			entries = in.Profile.Entries(in.Result.Kind)
		}
		page := BuildPage(in.Result.Graph, in.Result.Focus, in.Result.Kind, entries, in.namespaces())
		return WritePage(page)
	}},
}

func (in Input) namespaces() *curie.NamespaceTable {
	if in.Result != nil && in.Result.Namespaces != nil {
		return in.Result.Namespaces
	}
	return curie.DefaultNamespaces()
}

// Formats lists every format name in output order.
func Formats() []string {
	out := make([]string, len(writers))
	for i, w := range writers {
		out[i] = w.format
	}
	return out
}

// Suffix returns the file name suffix of format.
func Suffix(format string) (string, bool) {
	for _, w := range writers {
		if w.format == format {
			return w.suffix, true
		}
	}
	return "", false
}

// ValidateFormats reports the first unknown name in formats.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if _, ok := Suffix(f); !ok {
			return fmt.Errorf("unknown output format %q", f)
		}
	}
	return nil
}

// Render runs the requested writers in output order. An empty request
// means every format; the profile's allow-list filters either way.
func Render(in Input, formats []string) ([]Artifact, error) {
	if in.Source == nil || in.Result == nil {
		return nil, fmt.Errorf("render: source and annotation result are required")
	}
	if err := ValidateFormats(formats); err != nil {
		return nil, err
	}
	requested := make(map[string]bool, len(formats))
	for _, f := range formats {
		requested[f] = true
	}

	var out []Artifact
	for _, w := range writers {
		if len(requested) > 0 && !requested[w.format] {
			continue
		}
		if in.Profile != nil && !in.Profile.Allows(w.format) {
			continue
		}
		data, err := w.render(in)
		if err != nil {
			return nil, fmt.Errorf("writing %s: %w", w.format, err)
		}
		out = append(out, Artifact{Format: w.format, Suffix: w.suffix, Data: data})
	}
	return out, nil
}

// ParseJSONLD reads JSON-LD produced by WriteJSONLD or WriteCompactJSONLD
// back into a graph.
func ParseJSONLD(data []byte) (*graph.Graph, error) {
	doc, err := parsers.NewJSONLDParser().Parse("<jsonld>", data)
	if err != nil {
		return nil, err
	}
	return doc.Graph, nil
}
