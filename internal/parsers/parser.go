// Package parsers decodes RDF documents into graphs.
package parsers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Benny93/vocab-go/internal/graph"
)

// Document is a parsed RDF file.
type Document struct {
	// Graph holds the triples of the file.
	Graph *graph.Graph

	// Prefixes are the prefix declarations found in the file, if the
	// format has any.
	Prefixes map[string]string

	// Base is the last base IRI declared in the file.
	Base string
}

// Parser defines the interface for format-specific RDF parsers.
type Parser interface {
	// Parse decodes content. filePath is used for error messages only.
	Parse(filePath string, content []byte) (*Document, error)

	// Format returns the format name this parser handles.
	Format() string
}

// ParseError wraps a decode failure with the offending file.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Format names.
const (
	FormatTurtle   = "turtle"
	FormatNTriples = "ntriples"
	FormatNQuads   = "nquads"
	FormatJSONLD   = "jsonld"
)

var extensions = map[string]string{
	".ttl":    FormatTurtle,
	".turtle": FormatTurtle,
	".nt":     FormatNTriples,
	".nq":     FormatNQuads,
	".jsonld": FormatJSONLD,
}

// DetectFormat returns the format implied by a file extension, or "".
func DetectFormat(path string) string {
	return extensions[strings.ToLower(filepath.Ext(path))]
}

// ForFormat returns the parser for a format name, or nil.
func ForFormat(format string) Parser {
	switch format {
	case FormatTurtle:
		return NewTurtleParser()
	case FormatNTriples, FormatNQuads:
		return NewNQuadsParser(format)
	case FormatJSONLD:
		return NewJSONLDParser()
	default:
		return nil
	}
}

// ForFile returns the parser for the extension of path, or nil.
func ForFile(path string) Parser {
	return ForFormat(DetectFormat(path))
}

// Parse picks a parser by the extension of filePath and decodes content.
func Parse(filePath string, content []byte) (*Document, error) {
	p := ForFile(filePath)
	if p == nil {
		return nil, &ParseError{File: filePath, Err: fmt.Errorf("unsupported file extension %q", filepath.Ext(filePath))}
	}
	return p.Parse(filePath, content)
}
