package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Benny93/vocab-go/internal/annotate"
	"github.com/Benny93/vocab-go/internal/config"
	"github.com/Benny93/vocab-go/internal/ingestion"
	"github.com/Benny93/vocab-go/internal/storage"
)

const schemeTTL = `
@prefix skos: <http://www.w3.org/2004/02/skos/core#> .
@prefix dcterms: <http://purl.org/dc/terms/> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .
@prefix ex: <https://example.org/colours/> .

ex:scheme a skos:ConceptScheme ;
    skos:prefLabel "Colours"@en ;
    skos:definition "Colours used in tests"@en ;
    dcterms:created "2024-01-02"^^xsd:date ;
    dcterms:creator <https://example.org/org/acme> ;
    dcterms:publisher <https://example.org/org/acme> ;
    skos:hasTopConcept ex:red .

ex:red a skos:Concept ;
    skos:prefLabel "Red"@en ;
    skos:definition "The colour red"@en ;
    skos:inScheme ex:scheme ;
    skos:topConceptOf ex:scheme .

ex:crimson a skos:Concept ;
    skos:prefLabel "Crimson"@en ;
    skos:definition "A deep red"@en ;
    skos:inScheme ex:scheme ;
    skos:broader ex:red .
`

// badSchemeTTL lacks a definition and a creator.
const badSchemeTTL = `
@prefix skos: <http://www.w3.org/2004/02/skos/core#> .
@prefix dcterms: <http://purl.org/dc/terms/> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .
@prefix ex: <https://example.org/bad/> .

ex:scheme a skos:ConceptScheme ;
    skos:prefLabel "Bad"@en ;
    dcterms:created "2024-01-02"^^xsd:date ;
    dcterms:publisher <https://example.org/org/acme> ;
    skos:hasTopConcept ex:only .

ex:only a skos:Concept ;
    skos:prefLabel "Only"@en ;
    skos:definition "The only concept"@en ;
    skos:inScheme ex:scheme .
`

const orgLabelsTTL = `
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .

<https://example.org/org/acme> rdfs:label "ACME Corporation"@en .
`

// fixture writes files under a fresh directory and returns it.
func fixture(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return dir
}

// quietGlobals points at a config file that does not exist so that only
// defaults apply.
func quietGlobals(t *testing.T) *Globals {
	t.Helper()
	return &Globals{Config: filepath.Join(t.TempDir(), "vocab.yaml"), Quiet: true}
}

func TestBuildCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("WritesArtifacts", func(t *testing.T) {
		t.Parallel()
		in := fixture(t, map[string]string{"colours.ttl": schemeTTL})
		out := filepath.Join(t.TempDir(), "out")

		cmd := &BuildCmd{Paths: []string{in}, PipelineFlags: PipelineFlags{Out: out}}
		require.NoError(t, cmd.Run(quietGlobals(t)))

		assert.FileExists(t, filepath.Join(out, "colours.ttl"))
		assert.FileExists(t, filepath.Join(out, "colours.annotated.ttl"))
		assert.FileExists(t, filepath.Join(out, "colours.list.csv"))
		assert.FileExists(t, filepath.Join(out, "profile.json"))
		assert.FileExists(t, filepath.Join(out, ingestion.IndexFileName))
	})

	t.Run("StrictFailsOnNonconforming", func(t *testing.T) {
		t.Parallel()
		in := fixture(t, map[string]string{
			"colours.ttl": schemeTTL,
			"bad.ttl":     badSchemeTTL,
		})
		cmd := &BuildCmd{Paths: []string{in}, PipelineFlags: PipelineFlags{
			Out:    filepath.Join(t.TempDir(), "out"),
			Strict: true,
		}}

		err := cmd.Run(quietGlobals(t))
		var runErr *ingestion.RunError
		require.ErrorAs(t, err, &runErr)
		assert.Equal(t, []string{"bad.ttl"}, runErr.Nonconforming)
		assert.Empty(t, runErr.Failed)
	})

	t.Run("LenientAllowsNonconforming", func(t *testing.T) {
		t.Parallel()
		in := fixture(t, map[string]string{"bad.ttl": badSchemeTTL})
		cmd := &BuildCmd{Paths: []string{in}, PipelineFlags: PipelineFlags{
			Out: filepath.Join(t.TempDir(), "out"),
		}}

		assert.NoError(t, cmd.Run(quietGlobals(t)))
	})

	t.Run("FormatFlag", func(t *testing.T) {
		t.Parallel()
		in := fixture(t, map[string]string{"colours.ttl": schemeTTL})
		out := filepath.Join(t.TempDir(), "out")
		cmd := &BuildCmd{Paths: []string{in}, PipelineFlags: PipelineFlags{
			Out:     out,
			Formats: []string{"ntriples"},
		}}

		require.NoError(t, cmd.Run(quietGlobals(t)))
		assert.FileExists(t, filepath.Join(out, "colours.nt"))
		assert.NoFileExists(t, filepath.Join(out, "colours.ttl"))
	})

	t.Run("UnknownFormat", func(t *testing.T) {
		t.Parallel()
		in := fixture(t, map[string]string{"colours.ttl": schemeTTL})
		cmd := &BuildCmd{Paths: []string{in}, PipelineFlags: PipelineFlags{
			Out:     filepath.Join(t.TempDir(), "out"),
			Formats: []string{"docx"},
		}}

		err := cmd.Run(quietGlobals(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})

	t.Run("ConfigFile", func(t *testing.T) {
		t.Parallel()
		in := fixture(t, map[string]string{"colours.ttl": schemeTTL})
		out := filepath.Join(t.TempDir(), "out")
		cfgPath := filepath.Join(t.TempDir(), "vocab.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("output_dir: "+out+"\nformats: [list-json]\n"), 0o644))

		cmd := &BuildCmd{Paths: []string{in}}
		require.NoError(t, cmd.Run(&Globals{Config: cfgPath, Quiet: true}))
		assert.FileExists(t, filepath.Join(out, "colours.list.json"))
		assert.NoFileExists(t, filepath.Join(out, "colours.ttl"))
	})
}

func TestAnnotateCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("WritesToOutputDir", func(t *testing.T) {
		t.Parallel()
		in := fixture(t, map[string]string{"colours.ttl": schemeTTL})
		out := t.TempDir()
		cmd := &AnnotateCmd{
			File:   filepath.Join(in, "colours.ttl"),
			Format: "annotated-turtle",
			PipelineFlags: PipelineFlags{
				Out:              out,
				Formats:          []string{"annotated-turtle"},
				ConceptDocuments: true,
			},
		}

		require.NoError(t, cmd.Run(quietGlobals(t)))
		assert.FileExists(t, filepath.Join(out, "colours.annotated.ttl"))

		concepts, err := os.ReadDir(filepath.Join(out, "colours", "concepts"))
		require.NoError(t, err)
		assert.Len(t, concepts, 2)
	})

	t.Run("MissingFocus", func(t *testing.T) {
		t.Parallel()
		in := fixture(t, map[string]string{"thing.ttl": orgLabelsTTL})
		cmd := &AnnotateCmd{
			File:          filepath.Join(in, "thing.ttl"),
			Format:        "annotated-turtle",
			PipelineFlags: PipelineFlags{Out: t.TempDir()},
		}

		err := cmd.Run(quietGlobals(t))
		var missing *annotate.MissingFocusError
		require.ErrorAs(t, err, &missing)
		assert.ErrorIs(t, err, annotate.ErrFocusNotFound)
	})

	t.Run("UnknownFormat", func(t *testing.T) {
		t.Parallel()
		in := fixture(t, map[string]string{"colours.ttl": schemeTTL})
		cmd := &AnnotateCmd{File: filepath.Join(in, "colours.ttl"), Format: "docx"}

		assert.Error(t, cmd.Run(quietGlobals(t)))
	})
}

func TestValidateCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("Conforming", func(t *testing.T) {
		t.Parallel()
		in := fixture(t, map[string]string{"colours.ttl": schemeTTL})
		cmd := &ValidateCmd{Paths: []string{in}}

		assert.NoError(t, cmd.Run(quietGlobals(t)))
	})

	t.Run("Nonconforming", func(t *testing.T) {
		t.Parallel()
		in := fixture(t, map[string]string{
			"colours.ttl": schemeTTL,
			"bad.ttl":     badSchemeTTL,
		})
		cmd := &ValidateCmd{Paths: []string{in}}

		err := cmd.Run(quietGlobals(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 2 document(s)")
		assert.Contains(t, err.Error(), "bad.ttl")
	})

	t.Run("Unparseable", func(t *testing.T) {
		t.Parallel()
		in := fixture(t, map[string]string{"broken.ttl": "this is not turtle"})
		cmd := &ValidateCmd{Paths: []string{in}}

		err := cmd.Run(quietGlobals(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken.ttl")
	})
}

func TestProfileCmd_Run(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	cmd := &ProfileCmd{Out: out}
	require.NoError(t, cmd.Run(quietGlobals(t)))

	data, err := os.ReadFile(filepath.Join(out, "profile.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "conceptScheme")
}

func TestInitCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("WritesLoadableConfig", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "vocab.yaml")
		require.NoError(t, (&InitCmd{Path: path}).Run(quietGlobals(t)))

		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.NoError(t, cfg.Validate())
		assert.Equal(t, config.Default().OutputDir, cfg.OutputDir)
	})

	t.Run("RefusesOverwrite", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "vocab.json")
		require.NoError(t, (&InitCmd{Path: path}).Run(quietGlobals(t)))

		assert.Error(t, (&InitCmd{Path: path}).Run(quietGlobals(t)))
		assert.NoError(t, (&InitCmd{Path: path, Force: true}).Run(quietGlobals(t)))
	})
}

func TestCacheCmds(t *testing.T) {
	t.Parallel()

	t.Run("StatusAndClean", func(t *testing.T) {
		t.Parallel()
		in := fixture(t, map[string]string{"colours.ttl": schemeTTL})
		background := fixture(t, map[string]string{"orgs.ttl": orgLabelsTTL})
		cache := filepath.Join(t.TempDir(), "cache")

		build := &BuildCmd{Paths: []string{in}, PipelineFlags: PipelineFlags{
			Out:        filepath.Join(t.TempDir(), "out"),
			Background: background,
			CacheDir:   cache,
		}}
		require.NoError(t, build.Run(quietGlobals(t)))
		assert.Equal(t, 1, cacheEntries(t, cache))

		require.NoError(t, (&CacheStatusCmd{CacheDir: cache}).Run(quietGlobals(t)))
		require.NoError(t, (&CacheCleanCmd{CacheDir: cache, Force: true}).Run(quietGlobals(t)))
		assert.Equal(t, 0, cacheEntries(t, cache))
	})

	t.Run("StatusWithoutCache", func(t *testing.T) {
		t.Parallel()
		cmd := &CacheStatusCmd{CacheDir: filepath.Join(t.TempDir(), "missing")}
		assert.NoError(t, cmd.Run(quietGlobals(t)))
	})

	t.Run("CleanWithoutCache", func(t *testing.T) {
		t.Parallel()
		cmd := &CacheCleanCmd{CacheDir: filepath.Join(t.TempDir(), "missing"), Force: true}
		assert.Error(t, cmd.Run(quietGlobals(t)))
	})

	t.Run("NoCacheConfigured", func(t *testing.T) {
		t.Parallel()
		err := (&CacheStatusCmd{}).Run(quietGlobals(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no cache directory configured")
	})
}

func cacheEntries(t *testing.T, dir string) int {
	t.Helper()
	store := storage.NewBadgerBackend()
	require.NoError(t, store.Initialize(dir, false))
	defer func() { _ = store.Close() }()

	stats, err := store.Stats(context.Background())
	require.NoError(t, err)
	return stats.Entries
}

func TestPipelineFlags_Apply(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Exclude = []string{"drafts/"}
	flags := PipelineFlags{
		Out:     "site",
		Kind:    "concept",
		Workers: 4,
		Strict:  true,
		Exclude: []string{"*.bak"},
	}
	flags.apply(cfg)

	assert.Equal(t, "site", cfg.OutputDir)
	assert.Equal(t, "concept", cfg.Kind)
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.Strict)
	assert.Equal(t, []string{"drafts/", "*.bak"}, cfg.Exclude)
	assert.Equal(t, config.Default().Profile, cfg.Profile, "unset flags keep config values")
}

func TestCLI_Execute(t *testing.T) {
	t.Parallel()

	t.Run("Init", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "vocab.yaml")
		cfgPath := filepath.Join(t.TempDir(), "none.yaml")

		require.NoError(t, NewCLI().Execute([]string{"-q", "-c", cfgPath, "init", path}))
		assert.FileExists(t, path)
	})

	t.Run("UnknownCommand", func(t *testing.T) {
		t.Parallel()
		err := NewCLI().Execute([]string{"frobnicate"})
		assert.Error(t, err)
	})

	t.Run("RunErrorPropagates", func(t *testing.T) {
		t.Parallel()
		in := fixture(t, map[string]string{"bad.ttl": badSchemeTTL})
		out := filepath.Join(t.TempDir(), "out")
		cfgPath := filepath.Join(t.TempDir(), "none.yaml")

		err := NewCLI().Execute([]string{"-q", "-c", cfgPath, "build", in, "--out", out, "--strict"})
		var runErr *ingestion.RunError
		assert.True(t, errors.As(err, &runErr))
	})
}
