package annotate

import (
	"github.com/Benny93/vocab-go/internal/curie"
	"github.com/Benny93/vocab-go/internal/graph"
	"github.com/Benny93/vocab-go/internal/profile"
	"github.com/Benny93/vocab-go/internal/vocab"
)

// document is the working state for one AnnotateFocus call.
type document struct {
	b      *Builder
	src    *graph.Graph
	out    *graph.Graph
	minter *curie.Minter
	kind   profile.Kind
	focus  graph.Term
	vars   linkVars

	ids  map[graph.Term]string
	done map[graph.Term]bool
}

func (d *document) id(t graph.Term) string {
	if id, ok := d.ids[t]; ok {
		return id
	}
	id := d.minter.Mint(t.Value)
	d.ids[t] = id
	return id
}

// identify adds the compact identifier triple.
func (d *document) identify(t graph.Term) {
	d.out.AddTriple(t, iri(vocab.DctermsIdentifier), graph.NewTypedLiteral(d.id(t), vocab.PrezIdentifier))
}

func (d *document) link(t graph.Term, url string) {
	if url == "" {
		return
	}
	d.out.AddTriple(t, iri(vocab.PrezLink), graph.NewLiteral(url))
}

func (d *document) members(scheme graph.Term) {
	v := d.vars
	v.scheme = d.id(scheme)
	d.out.AddTriple(scheme, iri(vocab.PrezMembers), graph.NewLiteral(expand(d.b.cfg.Links.Members, v)))
}

// describe adds label, description and, for full annotation, provenance.
// The label falls back to the IRI's short name so that every annotated
// IRI renders.
func (d *document) describe(t graph.Term, full bool) {
	if d.done[t] && !full {
		return
	}
	d.done[t] = true

	r := d.b.resolver
	d.out.AddTriple(t, iri(vocab.PrezLabel), r.LabelOrShortName(t, d.src, d.b.background))
	for _, desc := range r.ResolveDescriptions(t, d.src, d.b.background) {
		d.out.AddTriple(t, iri(vocab.PrezDescription), desc)
	}
	if full {
		for _, prov := range r.ResolveProvenance(t, d.src, d.b.background) {
			d.out.AddTriple(t, iri(vocab.PrezProvenance), prov)
		}
	}
}

// referenced annotates every IRI the closure mentions: predicates, IRI
// objects and non-string literal datatypes.
func (d *document) referenced(closure []graph.Triple) {
	for _, t := range closure {
		d.describeRef(t.Predicate)
		switch {
		case t.Object.IsIRI():
			d.describeRef(t.Object)
		case t.Object.IsLiteral() && t.Object.Datatype != "":
			d.describeRef(iri(t.Object.Datatype))
		}
	}
}

func (d *document) describeRef(t graph.Term) {
	if t == d.focus || d.done[t] {
		return
	}
	d.describe(t, false)
}

// shallow gives a related entity an identifier, a link and a label.
func (d *document) shallow(t graph.Term, url string) {
	d.identify(t)
	d.link(t, url)
	d.describe(t, false)
}

func (d *document) linkVars() linkVars {
	v := linkVars{}
	if d.b.cfg.Catalog != "" {
		v.catalog = d.id(iri(d.b.cfg.Catalog))
	}
	switch d.kind {
	case profile.KindCatalog:
		v.catalog = d.id(d.focus)
	case profile.KindConceptScheme:
		v.scheme = d.id(d.focus)
	default:
		if s, ok := d.owningScheme(d.focus); ok {
			v.scheme = d.id(s)
		}
	}
	return v
}

func (d *document) focusLink() string {
	v := d.vars
	links := d.b.cfg.Links
	switch d.kind {
	case profile.KindCatalog:
		return expand(links.Catalog, v)
	case profile.KindConceptScheme:
		return expand(links.Scheme, v)
	case profile.KindConcept:
		v.concept = d.id(d.focus)
		return expand(links.Concept, v)
	case profile.KindCollection:
		v.collection = d.id(d.focus)
		return expand(links.Collection, v)
	default:
		return ""
	}
}

func (d *document) conceptLink(c graph.Term) string {
	v := d.vars
	v.concept = d.id(c)
	return expand(d.b.cfg.Links.Concept, v)
}

// owningScheme finds the primary scheme of a concept or collection:
// inScheme first, then topConceptOf, then the only scheme in the source.
func (d *document) owningScheme(t graph.Term) (graph.Term, bool) {
	for _, p := range []string{vocab.SkosInScheme, vocab.SkosTopConceptOf} {
		for _, o := range d.src.Objects(t, iri(p)) {
			if o.IsIRI() {
				return o, true
			}
		}
	}
	schemes := FocusCandidates(d.src, profile.KindConceptScheme)
	if len(schemes) == 1 {
		return schemes[0], true
	}
	return graph.Term{}, false
}

// schemeExtras adds the catalog, the profile reference and top concept
// navigation to a scheme document.
func (d *document) schemeExtras() {
	if d.b.cfg.Catalog != "" {
		cat := iri(d.b.cfg.Catalog)
		d.shallow(cat, expand(d.b.cfg.Links.Catalog, d.vars))
		d.out.AddTriple(cat, iri(vocab.DctermsHasPart), d.focus)
	}

	prof := iri(d.b.cfg.Profile)
	node := profileNode(d.focus.Value, prof.Value)
	d.out.AddTriple(d.focus, iri(vocab.PrezCurrentProfile), node)
	d.out.AddTriple(node, iri(vocab.RdfType), iri(vocab.ProfProfile))
	d.out.AddTriple(node, iri(vocab.DctermsConformsTo), prof)
	d.out.AddTriple(node, iri(vocab.DctermsIdentifier), graph.NewTypedLiteral(d.id(prof), vocab.PrezIdentifier))

	for _, c := range d.topConcepts() {
		d.identify(c)
		d.link(c, d.conceptLink(c))
		d.describe(c, false)
	}
}

func (d *document) topConcepts() []graph.Term {
	seen := make(map[graph.Term]bool)
	var out []graph.Term
	add := func(t graph.Term) {
		if t.IsIRI() && !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	for _, c := range d.src.Objects(d.focus, iri(vocab.SkosHasTopConcept)) {
		add(c)
	}
	for _, c := range d.src.Subjects(iri(vocab.SkosTopConceptOf), d.focus) {
		add(c)
	}
	return out
}

// conceptExtras shallow-annotates narrower concepts and repeats the
// owning scheme's core fields so the concept document stands alone.
func (d *document) conceptExtras() {
	for _, n := range d.narrower(d.focus) {
		d.shallow(n, d.conceptLink(n))
	}
	d.repeatScheme()
}

func (d *document) narrower(c graph.Term) []graph.Term {
	seen := make(map[graph.Term]bool)
	var out []graph.Term
	for _, n := range d.src.Objects(c, iri(vocab.SkosNarrower)) {
		if n.IsIRI() && !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	for _, n := range d.src.Subjects(iri(vocab.SkosBroader), c) {
		if n.IsIRI() && !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func (d *document) repeatScheme() {
	scheme, ok := d.owningScheme(d.focus)
	if !ok {
		return
	}
	d.identify(scheme)
	d.link(scheme, expand(d.b.cfg.Links.Scheme, d.vars))
	d.members(scheme)
	d.describe(scheme, true)
}

// collectionExtras treats members like narrower concepts. Members of an
// ordered collection are read from its memberList in list order.
func (d *document) collectionExtras() {
	seen := make(map[graph.Term]bool)
	for _, m := range d.collectionMembers() {
		if m.IsIRI() && !seen[m] {
			seen[m] = true
			d.shallow(m, d.conceptLink(m))
		}
	}
	d.repeatScheme()
}

func (d *document) collectionMembers() []graph.Term {
	members := d.src.Objects(d.focus, iri(vocab.SkosMember))
	for _, head := range d.src.Objects(d.focus, iri(vocab.SkosMemberList)) {
		members = append(members, d.listItems(head)...)
	}
	return members
}

// listItems walks an RDF list. Cycles and malformed cells end the walk.
func (d *document) listItems(head graph.Term) []graph.Term {
	var out []graph.Term
	visited := make(map[graph.Term]bool)
	for cell := head; cell.IsResource() && cell != iri(vocab.RdfNil) && !visited[cell]; {
		visited[cell] = true
		if first, ok := d.src.Value(cell, iri(vocab.RdfFirst)); ok {
			out = append(out, first)
		}
		next, ok := d.src.Value(cell, iri(vocab.RdfRest))
		if !ok {
			break
		}
		cell = next
	}
	return out
}

// catalogExtras gives every scheme in the catalog its navigation fields.
func (d *document) catalogExtras() {
	for _, s := range d.src.Objects(d.focus, iri(vocab.DctermsHasPart)) {
		if !s.IsIRI() {
			continue
		}
		v := d.vars
		v.scheme = d.id(s)
		d.shallow(s, expand(d.b.cfg.Links.Scheme, v))
		d.out.AddTriple(s, iri(vocab.PrezMembers), graph.NewLiteral(expand(d.b.cfg.Links.Members, v)))
	}
}
