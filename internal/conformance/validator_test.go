package conformance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Benny93/vocab-go/internal/graph"
	"github.com/Benny93/vocab-go/internal/parsers"
	"github.com/Benny93/vocab-go/internal/vocab"
)

const prefixes = `
@prefix skos: <http://www.w3.org/2004/02/skos/core#> .
@prefix dcterms: <http://purl.org/dc/terms/> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .
@prefix sh: <http://www.w3.org/ns/shacl#> .
@prefix ex: <https://example.org/voc/> .
`

const conformingTTL = prefixes + `
ex:scheme a skos:ConceptScheme ;
    skos:prefLabel "Scheme"@en ;
    skos:definition "A scheme"@en ;
    dcterms:created "2024-01-01"^^xsd:date ;
    dcterms:creator <https://example.org/org/acme> ;
    dcterms:publisher <https://example.org/org/acme> ;
    skos:hasTopConcept ex:alpha .

ex:alpha a skos:Concept ;
    skos:prefLabel "Alpha"@en ;
    skos:definition "First"@en ;
    skos:inScheme ex:scheme .
`

func parse(t *testing.T, ttl string) *graph.Graph {
	t.Helper()
	doc, err := parsers.NewTurtleParser().Parse("test.ttl", []byte(ttl))
	require.NoError(t, err)
	return doc.Graph
}

func TestDefaultShapes(t *testing.T) {
	t.Parallel()

	shapes, err := DefaultShapes()
	require.NoError(t, err)
	for _, class := range []string{vocab.SkosConceptScheme, vocab.SkosConcept, vocab.SkosCollection, vocab.DcatCatalog} {
		assert.NotEmpty(t, shapes.Subjects(graph.NewIRI(vocab.ShTargetClass), graph.NewIRI(class)), class)
	}
}

func TestShapeValidator(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("Conforms", func(t *testing.T) {
		t.Parallel()
		report, err := NewShapeValidator().Validate(ctx, parse(t, conformingTTL), nil)
		require.NoError(t, err)
		assert.True(t, report.Conforms, report.Summary())
		assert.Empty(t, report.Violations)
		assert.Equal(t, "conforms", report.Summary())
	})

	t.Run("MissingDefinition", func(t *testing.T) {
		t.Parallel()
		data := parse(t, conformingTTL+`ex:beta a skos:Concept ; skos:prefLabel "Beta" ; skos:inScheme ex:scheme .`)

		report, err := NewShapeValidator().Validate(ctx, data, nil)
		require.NoError(t, err)
		assert.False(t, report.Conforms)
		require.Len(t, report.Violations, 1)
		v := report.Violations[0]
		assert.Equal(t, SeverityViolation, v.Severity)
		assert.Equal(t, "https://example.org/voc/beta", v.FocusNode)
		assert.Equal(t, vocab.SkosDefinition, v.Path)
		assert.Contains(t, v.Message, "definition")
	})

	t.Run("CollectionLabelAndDefinitionChecked", func(t *testing.T) {
		t.Parallel()
		data := parse(t, conformingTTL+`ex:coll a skos:Collection ; skos:member ex:alpha .`)

		report, err := NewShapeValidator().Validate(ctx, data, nil)
		require.NoError(t, err)
		assert.False(t, report.Conforms)
		var paths []string
		for _, v := range report.Violations {
			assert.Equal(t, "https://example.org/voc/coll", v.FocusNode)
			paths = append(paths, v.Path)
		}
		assert.ElementsMatch(t, []string{vocab.SkosPrefLabel, vocab.SkosDefinition}, paths)
	})

	t.Run("WarningSeverity", func(t *testing.T) {
		t.Parallel()
		data := parse(t, conformingTTL+`ex:alpha skos:notation ex:code .`)

		report, err := NewShapeValidator().Validate(ctx, data, nil)
		require.NoError(t, err)
		require.Len(t, report.Violations, 1)
		assert.Equal(t, SeverityWarning, report.Violations[0].Severity)
	})

	t.Run("CustomShapes", func(t *testing.T) {
		t.Parallel()
		shapes := parse(t, prefixes+`
ex:Shape a sh:NodeShape ;
    sh:targetClass skos:Concept ;
    sh:property [ sh:path skos:notation ; sh:datatype xsd:integer ; sh:maxCount 1 ] ,
                [ sh:path skos:broader ; sh:class skos:Concept ] ,
                [ sh:path dcterms:source ; sh:node ex:SourceShape ] .
ex:SourceShape sh:property [ sh:path dcterms:title ; sh:minCount 1 ; sh:message "Sources need a title" ] .
`)
		data := parse(t, prefixes+`
ex:a a skos:Concept ;
    skos:notation "1"^^xsd:integer , "x" ;
    skos:broader ex:unknown ;
    dcterms:source [ dcterms:description "untitled" ] .
`)
		report, err := NewShapeValidator().Validate(ctx, data, shapes)
		require.NoError(t, err)
		assert.False(t, report.Conforms)

		var messages []string
		for _, v := range report.Violations {
			messages = append(messages, v.Message)
		}
		assert.Len(t, messages, 4)
		assert.Contains(t, messages, "More than 1 values on "+vocab.SkosNotation)
		assert.Contains(t, messages, `Value "x" does not have datatype `+vocab.XsdInteger)
		assert.Contains(t, messages, "Value <https://example.org/voc/unknown> is not an instance of "+vocab.SkosConcept)
		assert.Contains(t, messages, "Sources need a title")
	})

	t.Run("Canceled", func(t *testing.T) {
		t.Parallel()
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := NewShapeValidator().Validate(cctx, parse(t, conformingTTL), nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
