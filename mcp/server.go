// Package mcp provides the MCP (Model Context Protocol) server for vocab-go.
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Benny93/vocab-go/internal/curie"
	"github.com/Benny93/vocab-go/internal/labels"
	"github.com/Benny93/vocab-go/internal/profile"
)

// Server represents the MCP server.
type Server struct {
	vocab   Vocabulary
	profile *profile.Profile
	minter  *curie.Minter
	info    *mcp.Implementation
	server  *mcp.Server
}

// Version is reported to clients during initialization.
var Version = "0.1.0"

// Vocabulary is the label store the tools read. *labels.Index implements it.
type Vocabulary interface {
	Lookup(iri string) (labels.Entry, bool)
	Search(query string, limit int) []labels.Entry
	Len() int
}

// Tool represents an MCP tool.
type Tool struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
}

// Resource represents an MCP resource.
type Resource struct {
	URI         string
	Name        string
	Description string
	MimeType    string
}

// NewServer creates a new MCP server. Identifiers minted through the
// server share one minter seeded with ns, so synthesized prefixes stay
// stable for the session.
func NewServer(vocab Vocabulary, prof *profile.Profile, ns *curie.NamespaceTable) *Server {
	if prof == nil {
		prof = profile.Compile(nil, profile.Options{IRI: profile.DefaultIRI})
	}
	if ns == nil {
		ns = curie.DefaultNamespaces()
	}
	s := &Server{
		vocab:   vocab,
		profile: prof,
		minter:  curie.NewMinter(ns),
	}

	s.info = &mcp.Implementation{Name: "vocab-go", Version: Version}
	s.server = mcp.NewServer(s.info, nil)

	return s
}

// ListTools returns all registered tools.
func (s *Server) ListTools() []Tool {
	return []Tool{
		{
			Name:        "vocab_label",
			Description: "Resolve the display label and descriptions of an IRI from the background vocabularies.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"iri": {Type: "string", Description: "IRI to resolve"},
				},
				Required: []string{"iri"},
			},
		},
		{
			Name:        "vocab_mint",
			Description: "Mint the compact prefix:local identifier of an IRI, synthesizing a prefix for unknown namespaces.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"iri": {Type: "string", Description: "IRI to compact"},
				},
				Required: []string{"iri"},
			},
		},
		{
			Name:        "vocab_expand",
			Description: "Expand a compact prefix:local identifier back into an IRI.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"curie": {Type: "string", Description: "Compact identifier"},
				},
				Required: []string{"curie"},
			},
		},
		{
			Name:        "vocab_search",
			Description: "Search background labels by word prefix. Returns matching IRIs with their labels.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"query": {Type: "string", Description: "Search query text"},
					"limit": {Type: "integer", Description: "Maximum number of results"},
				},
				Required: []string{"query"},
			},
		},
		{
			Name:        "vocab_profile",
			Description: "Show the compiled field order of every entity kind.",
			InputSchema: &jsonschema.Schema{
				Type:       "object",
				Properties: map[string]*jsonschema.Schema{},
			},
		},
	}
}

// ListResources returns all registered resources.
func (s *Server) ListResources() []Resource {
	return []Resource{
		{
			URI:         "vocab://overview",
			Name:        "Vocabulary Overview",
			Description: "Loaded labels, active profile and namespace counts",
			MimeType:    "text/plain",
		},
		{
			URI:         "vocab://profile",
			Name:        "Compiled Profile",
			Description: "The profile.json the exporters render with",
			MimeType:    "application/json",
		},
		{
			URI:         "vocab://namespaces",
			Name:        "Namespace Table",
			Description: "Prefix bindings used for compact identifiers, including synthesized ones",
			MimeType:    "text/plain",
		},
	}
}

// CallTool executes a tool with the given arguments.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	switch name {
	case "vocab_label":
		iri, _ := args["iri"].(string)
		return handleLabel(s.vocab, iri)
	case "vocab_mint":
		iri, _ := args["iri"].(string)
		return handleMint(s.minter, iri)
	case "vocab_expand":
		c, _ := args["curie"].(string)
		return handleExpand(s.minter, c)
	case "vocab_search":
		query, _ := args["query"].(string)
		limit, _ := args["limit"].(float64)
		if limit == 0 {
			limit = 20
		}
		return handleSearch(s.vocab, query, int(limit))
	case "vocab_profile":
		return handleProfile(s.profile), nil
	default:
		return "", fmt.Errorf("unknown tool: %s", name)
	}
}

// ReadResource reads a resource by URI.
func (s *Server) ReadResource(ctx context.Context, uri string) (string, error) {
	switch uri {
	case "vocab://overview":
		return getOverview(s.vocab, s.profile, s.minter), nil
	case "vocab://profile":
		data, err := s.profile.JSON()
		if err != nil {
			return "", fmt.Errorf("encoding profile: %w", err)
		}
		return string(data), nil
	case "vocab://namespaces":
		return getNamespaces(s.minter), nil
	default:
		return "", fmt.Errorf("unknown resource: %s", uri)
	}
}

// Tool Handlers

func handleLabel(vocab Vocabulary, iri string) (string, error) {
	if iri == "" {
		return "No IRI provided", nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s\n\n", iri))

	entry, found := vocab.Lookup(iri)
	switch {
	case found && entry.HasLabel:
		sb.WriteString(fmt.Sprintf("**Label:** %s", entry.Label.Value))
		if entry.Label.Language != "" {
			sb.WriteString(fmt.Sprintf(" (@%s)", entry.Label.Language))
		}
		sb.WriteString("\n")
	default:
		sb.WriteString(fmt.Sprintf("**Label:** %s (short name, no label found)\n", curie.ShortName(iri)))
	}

	if len(entry.Descriptions) > 0 {
		sb.WriteString("\n**Descriptions:**\n")
		for _, d := range entry.Descriptions {
			sb.WriteString(fmt.Sprintf("- %s\n", d.Value))
		}
	}
	return sb.String(), nil
}

func handleMint(minter *curie.Minter, iri string) (string, error) {
	if iri == "" {
		return "No IRI provided", nil
	}
	return minter.Mint(iri), nil
}

func handleExpand(minter *curie.Minter, c string) (string, error) {
	if c == "" {
		return "No identifier provided", nil
	}
	iri, ok := minter.Expand(c)
	if !ok {
		return "", fmt.Errorf("unknown prefix in %q", c)
	}
	return iri, nil
}

func handleSearch(vocab Vocabulary, query string, limit int) (string, error) {
	if query == "" {
		return "No query provided", nil
	}

	results := vocab.Search(query, limit)
	if len(results) == 0 {
		return fmt.Sprintf("No labels found for '%s'", query), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Labels matching '%s'\n\n", query))
	for i, e := range results {
		sb.WriteString(fmt.Sprintf("%d. **%s** `%s`\n", i+1, e.Label.Value, e.IRI))
		if len(e.Descriptions) > 0 {
			sb.WriteString(fmt.Sprintf("   %s\n", truncate(e.Descriptions[0].Value, 160)))
		}
	}
	return sb.String(), nil
}

func handleProfile(p *profile.Profile) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Profile %s\n", p.IRI))
	for _, kind := range profile.Kinds {
		entries := p.Entries(kind)
		sb.WriteString(fmt.Sprintf("\n## %s (%d fields)\n\n", kind, len(entries)))
		writeEntries(&sb, entries, 0)
	}
	if len(p.Formats) > 0 {
		sb.WriteString(fmt.Sprintf("\n**Formats:** %s\n", strings.Join(p.Formats, ", ")))
	}
	return sb.String()
}

func writeEntries(sb *strings.Builder, entries []profile.Entry, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("%s- `%s`%s\n", indent, e.Path, cardinality(e)))
		writeEntries(sb, e.Nested, depth+1)
	}
}

func cardinality(e profile.Entry) string {
	if e.MinCount == nil && e.MaxCount == nil {
		return ""
	}
	lo, hi := "0", "*"
	if e.MinCount != nil {
		lo = fmt.Sprint(*e.MinCount)
	}
	if e.MaxCount != nil {
		hi = fmt.Sprint(*e.MaxCount)
	}
	return fmt.Sprintf(" [%s..%s]", lo, hi)
}

// Resource Handlers

func getOverview(vocab Vocabulary, p *profile.Profile, minter *curie.Minter) string {
	var sb strings.Builder
	sb.WriteString("# vocab-go Overview\n\n")
	sb.WriteString(fmt.Sprintf("**Background labels:** %d IRIs\n", vocab.Len()))
	sb.WriteString(fmt.Sprintf("**Profile:** %s\n", p.IRI))
	sb.WriteString(fmt.Sprintf("**Namespaces:** %d\n", minter.Namespaces().Len()))
	sb.WriteString("\n## Entity Kinds\n\n")
	for _, kind := range profile.Kinds {
		sb.WriteString(fmt.Sprintf("- %s: %d fields\n", kind, len(p.Entries(kind))))
	}
	return sb.String()
}

func getNamespaces(minter *curie.Minter) string {
	var sb strings.Builder
	sb.WriteString("| Prefix | Namespace |\n")
	sb.WriteString("|--------|-----------|\n")
	for _, ns := range minter.Namespaces().Sorted() {
		sb.WriteString(fmt.Sprintf("| `%s` | %s |\n", ns.Prefix, ns.IRI))
	}
	return sb.String()
}

// Helper functions

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
