package profile

import "github.com/Benny93/vocab-go/internal/vocab"

// Kind is an entity type the engine can annotate and export.
type Kind string

const (
	KindConceptScheme Kind = "conceptScheme"
	KindConcept       Kind = "concept"
	KindCatalog       Kind = "catalog"
	KindCollection    Kind = "collection"
	KindList          Kind = "list"
)

// Kinds lists the entity kinds in the order they appear in profile.json.
var Kinds = []Kind{KindConceptScheme, KindConcept, KindCatalog, KindCollection, KindList}

// Classes returns the RDF classes whose instances are of kind k.
func (k Kind) Classes() []string {
	switch k {
	case KindConceptScheme:
		return []string{vocab.SkosConceptScheme}
	case KindConcept:
		return []string{vocab.SkosConcept}
	case KindCatalog:
		return []string{vocab.DcatCatalog}
	case KindCollection:
		return []string{vocab.SkosCollection, vocab.SkosOrderedCollection}
	default:
		return nil
	}
}

// TypeName is the class local name used in user-facing messages.
func (k Kind) TypeName() string {
	switch k {
	case KindConceptScheme:
		return "ConceptScheme"
	case KindConcept:
		return "Concept"
	case KindCatalog:
		return "Catalog"
	case KindCollection:
		return "Collection"
	default:
		return string(k)
	}
}

// KindForClass maps a class IRI to its kind.
func KindForClass(class string) (Kind, bool) {
	for _, k := range Kinds {
		for _, c := range k.Classes() {
			if c == class {
				return k, true
			}
		}
	}
	return "", false
}

// ParseKind accepts the profile.json kind names.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}
