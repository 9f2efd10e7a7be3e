// Package vocab holds the IRIs of the W3C and community vocabularies that the
// annotation engine reads and writes.
//
// References:
// - SKOS: https://www.w3.org/TR/skos-reference/
// - DCAT: https://www.w3.org/TR/vocab-dcat-3/
// - Dublin Core: https://www.dublincore.org/specifications/dublin-core/dcmi-terms/
// - SHACL: https://www.w3.org/TR/shacl/
// - Profiles Vocabulary: https://www.w3.org/TR/dx-prof/
package vocab

// Namespace IRIs.
const (
	RDF     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFS    = "http://www.w3.org/2000/01/rdf-schema#"
	XSD     = "http://www.w3.org/2001/XMLSchema#"
	OWL     = "http://www.w3.org/2002/07/owl#"
	SKOS    = "http://www.w3.org/2004/02/skos/core#"
	DCTERMS = "http://purl.org/dc/terms/"
	DCAT    = "http://www.w3.org/ns/dcat#"
	SDO     = "https://schema.org/"
	SH      = "http://www.w3.org/ns/shacl#"
	PROV    = "http://www.w3.org/ns/prov#"
	PROF    = "http://www.w3.org/ns/dx/prof/"
	PREZ    = "https://prez.dev/"
)

// RDF and RDFS.
const (
	RdfType       = RDF + "type"
	RdfFirst      = RDF + "first"
	RdfRest       = RDF + "rest"
	RdfNil        = RDF + "nil"
	RdfLangString = RDF + "langString"
	RdfsLabel     = RDFS + "label"
	RdfsComment   = RDFS + "comment"
)

// XSD datatypes.
const (
	XsdString   = XSD + "string"
	XsdBoolean  = XSD + "boolean"
	XsdInteger  = XSD + "integer"
	XsdDecimal  = XSD + "decimal"
	XsdDouble   = XSD + "double"
	XsdDate     = XSD + "date"
	XsdDateTime = XSD + "dateTime"
)

// SKOS classes and properties.
const (
	SkosConceptScheme     = SKOS + "ConceptScheme"
	SkosConcept           = SKOS + "Concept"
	SkosCollection        = SKOS + "Collection"
	SkosOrderedCollection = SKOS + "OrderedCollection"

	SkosPrefLabel     = SKOS + "prefLabel"
	SkosAltLabel      = SKOS + "altLabel"
	SkosDefinition    = SKOS + "definition"
	SkosNotation      = SKOS + "notation"
	SkosInScheme      = SKOS + "inScheme"
	SkosTopConceptOf  = SKOS + "topConceptOf"
	SkosHasTopConcept = SKOS + "hasTopConcept"
	SkosBroader       = SKOS + "broader"
	SkosNarrower      = SKOS + "narrower"
	SkosRelated       = SKOS + "related"
	SkosMember        = SKOS + "member"
	SkosMemberList    = SKOS + "memberList"
	SkosHistoryNote   = SKOS + "historyNote"
)

// Dublin Core terms.
const (
	DctermsTitle       = DCTERMS + "title"
	DctermsDescription = DCTERMS + "description"
	DctermsIdentifier  = DCTERMS + "identifier"
	DctermsProvenance  = DCTERMS + "provenance"
	DctermsSource      = DCTERMS + "source"
	DctermsCreator     = DCTERMS + "creator"
	DctermsPublisher   = DCTERMS + "publisher"
	DctermsCreated     = DCTERMS + "created"
	DctermsModified    = DCTERMS + "modified"
	DctermsHasPart     = DCTERMS + "hasPart"
	DctermsConformsTo  = DCTERMS + "conformsTo"
)

// DCAT and PROV.
const (
	DcatCatalog              = DCAT + "Catalog"
	DcatQualifiedRelation    = DCAT + "qualifiedRelation"
	DcatHadRole              = DCAT + "hadRole"
	ProvQualifiedAttribution = PROV + "qualifiedAttribution"
	ProvAgent                = PROV + "agent"
)

// Schema.org.
const (
	SdoName        = SDO + "name"
	SdoDescription = SDO + "description"
)

// SHACL terms consumed by the profile compiler and the conformance checker.
const (
	ShNodeShape     = SH + "NodeShape"
	ShPropertyShape = SH + "PropertyShape"
	ShTargetClass   = SH + "targetClass"
	ShProperty      = SH + "property"
	ShPath          = SH + "path"
	ShInversePath   = SH + "inversePath"
	ShOrder         = SH + "order"
	ShMinCount      = SH + "minCount"
	ShMaxCount      = SH + "maxCount"
	ShNode          = SH + "node"
	ShDatatype      = SH + "datatype"
	ShClass         = SH + "class"
	ShNodeKind      = SH + "nodeKind"
	ShIRI           = SH + "IRI"
	ShLiteral       = SH + "Literal"
	ShBlankNode     = SH + "BlankNode"
	ShSeverity      = SH + "severity"
	ShMessage       = SH + "message"
	ShName          = SH + "name"
	ShViolation     = SH + "Violation"
	ShWarning       = SH + "Warning"
	ShInfo          = SH + "Info"
)

// Profiles vocabulary.
const (
	ProfProfile = PROF + "Profile"
)

// Presentation predicates synthesized by the annotation builder.
const (
	// PrezLabel carries the resolved display label of any annotated IRI.
	PrezLabel = PREZ + "label"

	// PrezDescription carries resolved descriptions.
	PrezDescription = PREZ + "description"

	// PrezProvenance carries resolved provenance statements.
	PrezProvenance = PREZ + "provenance"

	// PrezLink is the relative navigation URL of an entity.
	PrezLink = PREZ + "link"

	// PrezMembers is the relative URL listing a scheme's concepts.
	PrezMembers = PREZ + "members"

	// PrezFocusNode marks the single subject a document is about.
	PrezFocusNode = PREZ + "FocusNode"

	// PrezIdentifier is the datatype of compact identifier literals.
	PrezIdentifier = PREZ + "identifier"

	// PrezCurrentProfile points at the profile-reference blank node.
	PrezCurrentProfile = PREZ + "currentProfile"
)
