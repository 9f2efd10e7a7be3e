package ingestion

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Benny93/vocab-go/internal/annotate"
	"github.com/Benny93/vocab-go/internal/config"
	"github.com/Benny93/vocab-go/internal/conformance"
	"github.com/Benny93/vocab-go/internal/curie"
	"github.com/Benny93/vocab-go/internal/export"
	"github.com/Benny93/vocab-go/internal/graph"
	"github.com/Benny93/vocab-go/internal/logging"
	"github.com/Benny93/vocab-go/internal/parsers"
	"github.com/Benny93/vocab-go/internal/profile"
	"github.com/Benny93/vocab-go/internal/storage"
)

// IndexFileName is the SQLite concept index written into the output directory.
const IndexFileName = "index.sqlite"

// Options configures a pipeline run.
type Options struct {
	// Inputs are the files and directories to process.
	Inputs []string

	// Config is the merged configuration. Nil means defaults.
	Config *config.Config

	// Store caches background labels. Nil disables caching.
	Store storage.LabelStore
}

// DocumentResult records the outcome of one input document.
type DocumentResult struct {
	// Source is the document path relative to its input root.
	Source string

	// Path is the document path as given.
	Path string

	Kind       profile.Kind
	Focus      string
	Identifier string

	// Outputs are the files written for the document.
	Outputs []string

	// Concepts counts the per-concept documents written.
	Concepts int

	// Report is the conformance report. Nil when the document failed.
	Report *conformance.Report

	// Err is the fatal error that aborted the document, if any.
	Err error

	items []export.ListItem
}

// Failed reports whether the document was aborted.
func (r DocumentResult) Failed() bool { return r.Err != nil }

// Conforms reports whether the document passed the conformance check.
func (r DocumentResult) Conforms() bool { return r.Report != nil && r.Report.Conforms }

// PipelineResult summarizes a pipeline run.
type PipelineResult struct {
	Documents     int
	Succeeded     int
	Failed        int
	Nonconforming int

	// Results holds one entry per document in input order.
	Results []DocumentResult

	ProfilePath  string
	IndexPath    string
	DurationSecs float64
}

// RunError names the documents that make a run unsuccessful.
type RunError struct {
	Failed        []DocumentResult
	Nonconforming []string
}

func (e *RunError) Error() string {
	var parts []string
	if len(e.Failed) > 0 {
		msgs := make([]string, len(e.Failed))
		for i, r := range e.Failed {
			msgs[i] = fmt.Sprintf("%s (%v)", r.Source, r.Err)
		}
		parts = append(parts, fmt.Sprintf("%d document(s) failed: %s", len(e.Failed), strings.Join(msgs, ", ")))
	}
	if len(e.Nonconforming) > 0 {
		parts = append(parts, fmt.Sprintf("%d document(s) did not conform: %s", len(e.Nonconforming), strings.Join(e.Nonconforming, ", ")))
	}
	return strings.Join(parts, "; ")
}

// ExitError returns a *RunError when any document failed or, in strict
// mode, when any document did not conform. It returns nil otherwise.
func (r *PipelineResult) ExitError(strict bool) error {
	e := &RunError{}
	for _, res := range r.Results {
		switch {
		case res.Failed():
			e.Failed = append(e.Failed, res)
		case strict && !res.Conforms():
			e.Nonconforming = append(e.Nonconforming, res.Source)
		}
	}
	if len(e.Failed) == 0 && len(e.Nonconforming) == 0 {
		return nil
	}
	return e
}

// ProgressCallback is called with phase name and progress (0.0-1.0).
type ProgressCallback func(phase string, progress float64)

// RunPipeline processes every input document. Per-document failures are
// recorded in the result and never returned; the returned error covers
// configuration, environment and I/O problems that stop the whole run.
func RunPipeline(ctx context.Context, opts Options, progress ProgressCallback) (*PipelineResult, error) {
	start := time.Now()
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	report := progressReporter(progress)

	// Phase 1: background labels, shapes and profile
	report("Loading background and shapes", 0.0)
	env, err := NewEnvironment(ctx, cfg, opts.Store)
	if err != nil {
		return nil, err
	}
	result := &PipelineResult{}
	if result.ProfilePath, err = env.WriteProfile(cfg.OutputDir); err != nil {
		return nil, err
	}
	report("Loading background and shapes", 1.0)

	// Phase 2: inputs
	report("Walking inputs", 0.0)
	entries, err := WalkInputs(opts.Inputs, cfg.Exclude)
	if err != nil {
		return nil, err
	}
	entries = outsideDir(entries, cfg.OutputDir)
	result.Documents = len(entries)
	report("Walking inputs", 1.0)

	// Phase 3: documents
	report("Processing documents", 0.0)
	result.Results = make([]DocumentResult, len(entries))
	var (
		mu   sync.Mutex
		done int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))
	for i, entry := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result.Results[i] = env.processDocument(gctx, entry)

			mu.Lock()
			done++
			report("Processing documents", float64(done)/float64(len(entries)))
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		report("Processing documents", 1.0)
	}

	var docs []export.IndexDocument
	for _, r := range result.Results {
		switch {
		case r.Failed():
			result.Failed++
			continue
		case !r.Conforms():
			result.Nonconforming++
		}
		result.Succeeded++
		docs = append(docs, export.IndexDocument{
			Source:     r.Source,
			Focus:      r.Focus,
			Kind:       string(r.Kind),
			Identifier: r.Identifier,
			Items:      r.items,
		})
	}

	// Phase 4: index
	report("Writing index", 0.0)
	result.IndexPath = filepath.Join(cfg.OutputDir, IndexFileName)
	if err := export.WriteSQLiteIndex(ctx, result.IndexPath, docs); err != nil {
		return nil, err
	}
	report("Writing index", 1.0)

	result.DurationSecs = time.Since(start).Seconds()
	logging.Info("pipeline finished",
		"documents", result.Documents,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
		"nonconforming", result.Nonconforming,
		"duration_secs", result.DurationSecs,
	)
	return result, nil
}

// progressReporter wraps a possibly nil callback.
func progressReporter(progress ProgressCallback) ProgressCallback {
	return func(phase string, p float64) {
		if progress != nil {
			progress(phase, p)
		}
	}
}

// outsideDir drops entries located under dir so that a run never reads
// its own output.
func outsideDir(entries []FileEntry, dir string) []FileEntry {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return entries
	}
	out := entries[:0]
	for _, e := range entries {
		if !isUnder(e.Path, absDir) {
			out = append(out, e)
		}
	}
	return out
}

// processDocument annotates, writes and validates one document.
func (e *Environment) processDocument(ctx context.Context, entry FileEntry) DocumentResult {
	ctx = logging.WithDocument(ctx, entry.RelPath)
	res := DocumentResult{Source: entry.RelPath, Path: entry.Path}

	doc, err := e.AnnotateDocument(ctx, entry)
	if err != nil {
		logging.DocumentFailed(ctx, err)
		res.Err = err
		return res
	}
	res.Kind = doc.Main.Result.Kind
	res.Focus = doc.Main.Result.Focus.Value
	res.Identifier = doc.Main.Result.Identifier
	res.items = doc.Items

	stem := outputStem(entry.RelPath)
	if res.Outputs, err = writeArtifacts(e.Config.OutputDir, stem, doc.Main.Artifacts); err != nil {
		logging.DocumentFailed(ctx, err)
		res.Err = err
		return res
	}
	for _, c := range doc.Concepts {
		paths, err := writeArtifacts(e.Config.OutputDir, path.Join(stem, "concepts", c.Name), c.Artifacts)
		if err != nil {
			logging.DocumentFailed(ctx, err)
			res.Err = err
			return res
		}
		res.Outputs = append(res.Outputs, paths...)
		res.Concepts++
	}

	report, err := e.Validate(ctx, doc.Source)
	if err != nil {
		logging.DocumentFailed(ctx, err)
		res.Err = err
		return res
	}
	res.Report = report
	if !report.Conforms {
		logging.WarnContext(ctx, "document does not conform", "violations", len(report.Violations))
	}
	logging.DebugContext(ctx, "document written", "outputs", len(res.Outputs), "kind", string(res.Kind))
	return res
}

// Rendered is the export of one annotated entity.
type Rendered struct {
	// Name is the file name stem of a per-concept document.
	Name      string
	Result    *annotate.Result
	Artifacts []export.Artifact
}

// Annotated is the full export of one input document.
type Annotated struct {
	Source   *graph.Graph
	Main     Rendered
	Concepts []Rendered
	Items    []export.ListItem
}

// AnnotateDocument parses, annotates and renders one document. Unlike
// RunPipeline it returns the fatal error, such as a *annotate.MissingFocusError,
// to the caller.
func (e *Environment) AnnotateDocument(ctx context.Context, entry FileEntry) (*Annotated, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := parsers.Parse(entry.Path, entry.Content)
	if err != nil {
		return nil, err
	}

	kind, ok := e.Config.FocusKind()
	if !ok {
		if kind, ok = annotate.DetectKind(doc.Graph); !ok {
			return nil, &annotate.MissingFocusError{Kind: profile.KindConceptScheme}
		}
	}

	res, err := e.Builder.Annotate(doc.Graph, kind, e.Minter(doc.Prefixes))
	if err != nil {
		return nil, err
	}
	artifacts, err := export.Render(e.input(doc.Graph, res), e.Config.Formats)
	if err != nil {
		return nil, err
	}

	out := &Annotated{
		Source: doc.Graph,
		Main:   Rendered{Result: res, Artifacts: artifacts},
		Items:  export.FlattenConcepts(doc.Graph, e.Resolver, e.Background),
	}

	if e.Config.ConceptDocuments && kind == profile.KindConceptScheme {
		used := make(map[string]int)
		for _, c := range annotate.FocusCandidates(doc.Graph, profile.KindConcept) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			cres, err := e.Builder.AnnotateFocus(doc.Graph, profile.KindConcept, c, e.Minter(doc.Prefixes))
			if err != nil {
				return nil, err
			}
			cart, err := export.Render(e.input(cres.Closure, cres), e.Config.Formats)
			if err != nil {
				return nil, err
			}
			out.Concepts = append(out.Concepts, Rendered{
				Name:      uniqueName(fileName(c.Value), used),
				Result:    cres,
				Artifacts: cart,
			})
		}
	}
	return out, nil
}

// Validate checks g against the run's validation shapes.
func (e *Environment) Validate(ctx context.Context, g *graph.Graph) (*conformance.Report, error) {
	return e.Validator.Validate(ctx, g, e.ValidationShapes)
}

func (e *Environment) input(src *graph.Graph, res *annotate.Result) export.Input {
	return export.Input{
		Source:     src,
		Result:     res,
		Profile:    e.Profile,
		Resolver:   e.Resolver,
		Background: e.Background,
	}
}

// outputStem is the slash-separated output path of a document without
// its extension.
func outputStem(relPath string) string {
	rel := filepath.ToSlash(relPath)
	return strings.TrimSuffix(rel, path.Ext(rel))
}

// writeArtifacts writes each artifact to dir/stem+suffix and returns the
// written paths.
func writeArtifacts(dir, stem string, artifacts []export.Artifact) ([]string, error) {
	paths := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		p := filepath.Join(dir, filepath.FromSlash(stem)+a.Suffix)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
		if err := os.WriteFile(p, a.Data, 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", a.Format, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// fileName derives a file name stem from an IRI's local part.
func fileName(iri string) string {
	name := unsafeFileChars.ReplaceAllString(curie.ShortName(iri), "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "concept"
	}
	return name
}

// uniqueName suffixes repeated names with a counter.
func uniqueName(name string, used map[string]int) string {
	used[name]++
	if n := used[name]; n > 1 {
		return fmt.Sprintf("%s-%d", name, n)
	}
	return name
}
