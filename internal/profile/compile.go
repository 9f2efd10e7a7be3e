package profile

// Options controls Compile.
type Options struct {
	// IRI identifies the compiled profile. Defaults to DefaultIRI.
	IRI string

	// Formats is the output allow-list carried on the profile.
	Formats []string

	// Constraints are additional cardinality sources. They are merged with
	// the bounds declared on the shapes themselves.
	Constraints [][]Constraint
}

// Compile turns shape definitions into a Profile.
//
// For each kind, the properties of every shape targeting one of the kind's
// classes are collected. If any of them declares sh:order the collected
// list, sorted by order, becomes the kind's field order; otherwise the
// built-in default order is used. Nested shapes referenced with sh:node are
// compiled onto their owning entry. Cardinality bounds from all sources
// are merged keeping the tightest bound; nested entries are merged against
// the target classes of the shape they come from.
func Compile(defs []ShapeDefinition, opts Options) *Profile {
	p := &Profile{IRI: opts.IRI, Formats: opts.Formats}
	if p.IRI == "" {
		p.IRI = DefaultIRI
	}

	byIRI := make(map[string]ShapeDefinition, len(defs))
	for _, d := range defs {
		if _, dup := byIRI[d.IRI]; !dup {
			byIRI[d.IRI] = d
		}
	}

	bounds := newBoundTable()
	for _, d := range defs {
		for _, c := range d.TargetClasses {
			for _, ps := range d.Properties {
				bounds.add(c, ps.Path, ps.MinCount, ps.MaxCount)
			}
		}
	}
	for _, src := range opts.Constraints {
		for _, c := range src {
			bounds.add(c.TargetClass, c.Path, c.MinCount, c.MaxCount)
		}
	}

	for _, kind := range Kinds {
		var props []PropertyShape
		for _, d := range defs {
			if targetsKind(d, kind) {
				props = append(props, d.Properties...)
			}
		}

		var entries []Entry
		if hasOrder(props) {
			entries = compileProperties(props, byIRI, bounds, map[string]bool{})
		} else {
			entries = defaultEntries(kind)
		}
		bounds.apply(kind.Classes(), entries)
		p.setEntries(kind, entries)
	}
	return p
}

// compileProperties builds the entries of one shape's properties. Nested
// entries take bounds declared for their own shape's target classes.
func compileProperties(props []PropertyShape, byIRI map[string]ShapeDefinition, bounds boundTable, visiting map[string]bool) []Entry {
	entries := make([]Entry, 0, len(props))
	ordered := make([]bool, 0, len(props))
	index := make(map[string]int)

	for _, ps := range props {
		if i, dup := index[ps.Path]; dup {
			// Repeated paths keep their first position; an order declared
			// later still counts.
			if !ordered[i] && ps.Order != nil {
				entries[i].Order = *ps.Order
				ordered[i] = true
			}
			continue
		}
		e := Entry{Path: ps.Path, MinCount: ps.MinCount, MaxCount: ps.MaxCount}
		if ps.Order != nil {
			e.Order = *ps.Order
		}
		if nested, ok := byIRI[ps.Node]; ok && ps.Node != "" && !visiting[ps.Node] {
			visiting[ps.Node] = true
			e.Nested = compileProperties(nested.Properties, byIRI, bounds, visiting)
			bounds.apply(nested.TargetClasses, e.Nested)
			delete(visiting, ps.Node)
		}
		index[ps.Path] = len(entries)
		entries = append(entries, e)
		ordered = append(ordered, ps.Order != nil)
	}
	return sortEntries(entries, ordered)
}

func targetsKind(d ShapeDefinition, kind Kind) bool {
	for _, c := range d.TargetClasses {
		for _, kc := range kind.Classes() {
			if c == kc {
				return true
			}
		}
	}
	return false
}

func hasOrder(props []PropertyShape) bool {
	for _, p := range props {
		if p.Order != nil {
			return true
		}
	}
	return false
}

type boundKey struct {
	class string
	path  string
}

type bound struct {
	min *int
	max *int
}

// boundTable accumulates cardinality declarations. Declarations tighten
// and never loosen: the highest minimum and the lowest maximum win.
type boundTable map[boundKey]bound

func newBoundTable() boundTable { return make(boundTable) }

func (t boundTable) add(class, path string, minCount, maxCount *int) {
	k := boundKey{class, path}
	b := t[k]
	b.min = tighterMin(b.min, minCount)
	b.max = tighterMax(b.max, maxCount)
	t[k] = b
}

func (t boundTable) merged(classes []string, path string, minCount, maxCount *int) (*int, *int) {
	for _, c := range classes {
		b := t[boundKey{c, path}]
		minCount = tighterMin(minCount, b.min)
		maxCount = tighterMax(maxCount, b.max)
	}
	return minCount, maxCount
}

// apply tightens the bounds of entries, but not of their nested entries,
// with the declarations made for classes.
func (t boundTable) apply(classes []string, entries []Entry) {
	for i := range entries {
		entries[i].MinCount, entries[i].MaxCount = t.merged(classes, entries[i].Path, entries[i].MinCount, entries[i].MaxCount)
	}
}

func tighterMin(a, b *int) *int {
	switch {
	case a == nil:
		return copyInt(b)
	case b == nil || *a >= *b:
		return copyInt(a)
	default:
		return copyInt(b)
	}
}

func tighterMax(a, b *int) *int {
	switch {
	case a == nil:
		return copyInt(b)
	case b == nil || *a <= *b:
		return copyInt(a)
	default:
		return copyInt(b)
	}
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
