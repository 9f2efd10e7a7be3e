// Package annotate builds the per-document annotated graph.
//
// For one focus entity the builder copies the entity's closure out of the
// source graph and adds synthesized presentation triples: a compact
// identifier, navigation links, a focus marker, and resolved labels and
// descriptions for the entity and every IRI it references. The result is
// the single graph all serializers read.
package annotate

import (
	"github.com/google/uuid"

	"github.com/Benny93/vocab-go/internal/curie"
	"github.com/Benny93/vocab-go/internal/graph"
	"github.com/Benny93/vocab-go/internal/labels"
	"github.com/Benny93/vocab-go/internal/profile"
	"github.com/Benny93/vocab-go/internal/vocab"
)

// Config is the routing configuration shared by every document of a run.
type Config struct {
	// Catalog is the IRI of the owning catalog. Optional.
	Catalog string

	// Profile is the IRI of the active profile.
	Profile string

	// Links are the URL templates. Empty fields use the defaults.
	Links LinkTemplates
}

// Builder produces annotated graphs. A Builder holds only read-only state
// and may be shared between goroutines as long as each document uses its
// own Minter.
type Builder struct {
	resolver   *labels.Resolver
	background labels.Source
	cfg        Config
}

// NewBuilder creates a builder. background may be nil.
func NewBuilder(resolver *labels.Resolver, background labels.Source, cfg Config) *Builder {
	if resolver == nil {
		resolver = labels.DefaultResolver()
	}
	if cfg.Profile == "" {
		cfg.Profile = profile.DefaultIRI
	}
	cfg.Links = cfg.Links.withDefaults()
	return &Builder{resolver: resolver, background: background, cfg: cfg}
}

// Result is the annotated output for one focus entity.
type Result struct {
	// Graph is the annotated graph. It must not be modified once handed
	// to a serializer.
	Graph *graph.Graph

	// Closure holds only the source triples rooted at the focus.
	Closure *graph.Graph

	// Focus is the entity the document is about.
	Focus graph.Term

	// Kind is the entity kind of Focus.
	Kind profile.Kind

	// Identifier is the minted compact identifier of Focus.
	Identifier string

	// Link is the navigation URL of Focus.
	Link string

	// Namespaces is the minter's table after annotation, including any
	// synthesized prefixes.
	Namespaces *curie.NamespaceTable
}

// Annotate annotates the first entity of kind found in src.
func (b *Builder) Annotate(src *graph.Graph, kind profile.Kind, minter *curie.Minter) (*Result, error) {
	candidates := FocusCandidates(src, kind)
	if len(candidates) == 0 {
		return nil, &MissingFocusError{Kind: kind}
	}
	return b.AnnotateFocus(src, kind, candidates[0], minter)
}

// AnnotateFocus annotates a specific entity. It fails with a
// MissingFocusError if focus is not typed as kind in src.
func (b *Builder) AnnotateFocus(src *graph.Graph, kind profile.Kind, focus graph.Term, minter *curie.Minter) (*Result, error) {
	if !isKind(src, focus, kind) {
		return nil, &MissingFocusError{Kind: kind}
	}

	d := &document{
		b:      b,
		src:    src,
		out:    graph.New(),
		minter: minter,
		kind:   kind,
		focus:  focus,
		ids:    make(map[graph.Term]string),
		done:   make(map[graph.Term]bool),
	}
	d.vars = d.linkVars()

	closure := graph.Closure(src, focus)
	d.out.AddAll(closure)

	d.identify(focus)
	d.link(focus, d.focusLink())
	if kind == profile.KindConceptScheme {
		d.members(focus)
	}
	d.out.AddTriple(focus, iri(vocab.RdfType), iri(vocab.PrezFocusNode))
	d.describe(focus, true)
	d.referenced(closure)

	switch kind {
	case profile.KindConceptScheme:
		d.schemeExtras()
	case profile.KindConcept:
		d.conceptExtras()
	case profile.KindCollection:
		d.collectionExtras()
	case profile.KindCatalog:
		d.catalogExtras()
	}

	closureGraph := graph.New()
	closureGraph.AddAll(closure)
	return &Result{
		Graph:      d.out,
		Closure:    closureGraph,
		Focus:      focus,
		Kind:       kind,
		Identifier: d.id(focus),
		Link:       d.focusLink(),
		Namespaces: minter.Namespaces(),
	}, nil
}

// FocusCandidates lists the IRI subjects of kind in src in source order.
func FocusCandidates(src *graph.Graph, kind profile.Kind) []graph.Term {
	var out []graph.Term
	seen := make(map[graph.Term]bool)
	for _, class := range kind.Classes() {
		for _, s := range src.SubjectsOfType(class) {
			if s.IsIRI() && !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// DetectKind picks the document kind from the types present in src.
// Schemes win over catalogs, then collections, then lone concepts.
func DetectKind(src *graph.Graph) (profile.Kind, bool) {
	for _, k := range []profile.Kind{
		profile.KindConceptScheme,
		profile.KindCatalog,
		profile.KindCollection,
		profile.KindConcept,
	} {
		if len(FocusCandidates(src, k)) > 0 {
			return k, true
		}
	}
	return "", false
}

// FocusNodes returns the subjects carrying the focus marker.
func FocusNodes(g *graph.Graph) []graph.Term {
	return g.SubjectsOfType(vocab.PrezFocusNode)
}

func isKind(src *graph.Graph, s graph.Term, kind profile.Kind) bool {
	for _, class := range kind.Classes() {
		if src.Has(graph.NewTriple(s, iri(vocab.RdfType), iri(class))) {
			return true
		}
	}
	return false
}

func iri(v string) graph.Term { return graph.NewIRI(v) }

// profileNode derives a reproducible blank node for the profile reference.
func profileNode(focus, profileIRI string) graph.Term {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(focus+"\x00"+profileIRI))
	return graph.NewBlank("p-" + id.String())
}
