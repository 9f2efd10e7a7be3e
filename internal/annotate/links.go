package annotate

import "strings"

// LinkTemplates are the relative URL patterns for navigation links.
// Placeholders: {catalog}, {scheme}, {concept}, {collection}.
type LinkTemplates struct {
	Catalog    string `mapstructure:"catalog" json:"catalog" yaml:"catalog"`
	Scheme     string `mapstructure:"scheme" json:"scheme" yaml:"scheme"`
	Members    string `mapstructure:"members" json:"members" yaml:"members"`
	Concept    string `mapstructure:"concept" json:"concept" yaml:"concept"`
	Collection string `mapstructure:"collection" json:"collection" yaml:"collection"`
}

// DefaultLinkTemplates returns the standard catalog-rooted URL layout.
func DefaultLinkTemplates() LinkTemplates {
	return LinkTemplates{
		Catalog:    "/catalogs/{catalog}",
		Scheme:     "/catalogs/{catalog}/collections/{scheme}",
		Members:    "/catalogs/{catalog}/collections/{scheme}/items",
		Concept:    "/catalogs/{catalog}/collections/{scheme}/items/{concept}",
		Collection: "/catalogs/{catalog}/collections/{scheme}/members/{collection}",
	}
}

// withDefaults fills empty templates.
func (l LinkTemplates) withDefaults() LinkTemplates {
	d := DefaultLinkTemplates()
	if l.Catalog == "" {
		l.Catalog = d.Catalog
	}
	if l.Scheme == "" {
		l.Scheme = d.Scheme
	}
	if l.Members == "" {
		l.Members = d.Members
	}
	if l.Concept == "" {
		l.Concept = d.Concept
	}
	if l.Collection == "" {
		l.Collection = d.Collection
	}
	return l
}

// linkVars are the compact identifiers substituted into a template.
type linkVars struct {
	catalog    string
	scheme     string
	concept    string
	collection string
}

// expand fills a template. Segments whose variable is unknown are dropped
// together with their leading path component, so a run without a catalog
// yields "/collections/{scheme}" rather than "/catalogs//collections/...".
func expand(tmpl string, v linkVars) string {
	if v.catalog == "" {
		tmpl = dropSegment(tmpl, "{catalog}")
	}
	if v.scheme == "" {
		tmpl = dropSegment(tmpl, "{scheme}")
	}
	return strings.NewReplacer(
		"{catalog}", v.catalog,
		"{scheme}", v.scheme,
		"{concept}", v.concept,
		"{collection}", v.collection,
	).Replace(tmpl)
}

// dropSegment removes "/<name>/<placeholder>" from a template.
func dropSegment(tmpl, placeholder string) string {
	idx := strings.Index(tmpl, "/"+placeholder)
	if idx < 0 {
		return tmpl
	}
	start := strings.LastIndex(tmpl[:idx], "/")
	if start < 0 {
		start = 0
	}
	return tmpl[:start] + tmpl[idx+len(placeholder)+1:]
}
