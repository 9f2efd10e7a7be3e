// Package cmd provides CLI command implementations for vocab-go.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/Benny93/vocab-go/internal/config"
	"github.com/Benny93/vocab-go/internal/export"
	"github.com/Benny93/vocab-go/internal/ingestion"
	"github.com/Benny93/vocab-go/internal/logging"
	"github.com/Benny93/vocab-go/internal/parsers"
	"github.com/Benny93/vocab-go/internal/storage"
	"github.com/Benny93/vocab-go/mcp"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Globals are the flags shared by every command.
type Globals struct {
	Config  string `short:"c" type:"path" help:"Configuration file (default: ./vocab.yaml)"`
	Verbose bool   `short:"v" help:"Enable debug logging"`
	Quiet   bool   `short:"q" help:"Only log warnings and errors"`
}

// load reads the configuration and initializes logging from it.
func (g *Globals) load() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	switch {
	case g.Verbose:
		level = logging.LevelDebug
	case g.Quiet:
		level = logging.LevelWarn
	}
	format, err := logging.ParseFormat(cfg.Logging.Format)
	if err != nil {
		return nil, err
	}
	logging.InitLogger(level, format)
	return cfg, nil
}

// PipelineFlags override configuration values for one run.
type PipelineFlags struct {
	Out              string   `short:"o" type:"path" help:"Output directory"`
	Catalog          string   `help:"Catalog IRI"`
	Profile          string   `help:"Profile IRI"`
	Formats          []string `short:"f" help:"Output formats (default: all)"`
	Kind             string   `short:"k" help:"Focus kind (auto|conceptScheme|concept|catalog|collection)"`
	Strict           bool     `help:"Fail the run when a document does not conform"`
	Workers          int      `short:"j" help:"Documents processed concurrently"`
	ConceptDocuments bool     `help:"Also write one document per concept"`
	Background       string   `type:"path" help:"Directory of background label files"`
	Shapes           string   `type:"path" help:"Directory of profile shapes"`
	ValidationShapes string   `type:"path" help:"Directory of validation shapes"`
	CacheDir         string   `type:"path" help:"Label cache directory"`
	Exclude          []string `short:"x" help:"Gitignore-style patterns to skip"`
}

// apply copies the flags that were set onto cfg.
func (f *PipelineFlags) apply(cfg *config.Config) {
	if f.Out != "" {
		cfg.OutputDir = f.Out
	}
	if f.Catalog != "" {
		cfg.Catalog = f.Catalog
	}
	if f.Profile != "" {
		cfg.Profile = f.Profile
	}
	if len(f.Formats) > 0 {
		cfg.Formats = f.Formats
	}
	if f.Kind != "" {
		cfg.Kind = f.Kind
	}
	if f.Strict {
		cfg.Strict = true
	}
	if f.Workers > 0 {
		cfg.Workers = f.Workers
	}
	if f.ConceptDocuments {
		cfg.ConceptDocuments = true
	}
	if f.Background != "" {
		cfg.BackgroundDir = f.Background
	}
	if f.Shapes != "" {
		cfg.ShapesDir = f.Shapes
	}
	if f.ValidationShapes != "" {
		cfg.ValidationShapesDir = f.ValidationShapes
	}
	if f.CacheDir != "" {
		cfg.CacheDir = f.CacheDir
	}
	cfg.Exclude = append(cfg.Exclude, f.Exclude...)
}

// setup loads the configuration, applies the flags and opens the label cache.
// The returned closer is never nil.
func (f *PipelineFlags) setup(g *Globals) (*config.Config, storage.LabelStore, func(), error) {
	cfg, err := g.load()
	if err != nil {
		return nil, nil, nil, err
	}
	f.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}
	store, closer, err := openStore(cfg.CacheDir, false)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, store, closer, nil
}

// BuildCmd annotates every input document and writes the artifacts.
type BuildCmd struct {
	Paths []string `arg:"" optional:"" type:"path" default:"." help:"Input files or directories"`

	PipelineFlags `embed:""`
}

// Run executes the build command.
func (c *BuildCmd) Run(g *Globals) error {
	cfg, store, closer, err := c.setup(g)
	if err != nil {
		return err
	}
	defer closer()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-osSignalChannel():
			cancel()
		case <-ctx.Done():
		}
	}()

	var progress ingestion.ProgressCallback
	if !g.Quiet {
		progress = func(phase string, pct float64) {
			fmt.Printf("\r\033[K%s (%.0f%%)", phase, pct*100)
		}
	}

	result, err := ingestion.RunPipeline(ctx, ingestion.Options{
		Inputs: c.Paths,
		Config: cfg,
		Store:  store,
	}, progress)
	if err != nil {
		return fmt.Errorf("running pipeline: %w", err)
	}
	if !g.Quiet {
		fmt.Println() // Newline after progress
		printSummary(result)
	}

	return result.ExitError(cfg.Strict)
}

func printSummary(result *ingestion.PipelineResult) {
	if result.Failed == 0 && result.Nonconforming == 0 {
		color.Green("✓ Build complete")
	} else {
		color.Yellow("! Build finished with problems")
	}
	fmt.Printf("  Documents:      %d\n", result.Documents)
	fmt.Printf("  Succeeded:      %d\n", result.Succeeded)
	fmt.Printf("  Failed:         %d\n", result.Failed)
	fmt.Printf("  Nonconforming:  %d\n", result.Nonconforming)
	fmt.Printf("  Profile:        %s\n", result.ProfilePath)
	fmt.Printf("  Index:          %s\n", result.IndexPath)
	fmt.Printf("  Duration:       %.2fs\n", result.DurationSecs)

	for _, r := range result.Results {
		switch {
		case r.Failed():
			color.Red("  ✗ %s: %v", r.Source, r.Err)
		case !r.Conforms():
			color.Yellow("  ! %s: %d violation(s)", r.Source, len(r.Report.Violations))
		}
	}
}

// AnnotateCmd annotates a single document.
type AnnotateCmd struct {
	File   string `arg:"" type:"existingfile" help:"Input document"`
	Format string `short:"F" default:"annotated-turtle" help:"Format printed when no output directory is given"`

	PipelineFlags `embed:""`
}

// Run executes the annotate command.
func (c *AnnotateCmd) Run(g *Globals) error {
	ctx := context.Background()
	cfg, store, closer, err := c.setup(g)
	if err != nil {
		return err
	}
	defer closer()

	toStdout := c.Out == ""
	if toStdout {
		if _, ok := export.Suffix(c.Format); !ok {
			return fmt.Errorf("unknown output format %q", c.Format)
		}
		cfg.Formats = []string{c.Format}
	}

	env, err := ingestion.NewEnvironment(ctx, cfg, store)
	if err != nil {
		return err
	}
	entry, err := ingestion.ReadEntry(c.File)
	if err != nil {
		return fmt.Errorf("reading %s: %w", c.File, err)
	}
	doc, err := env.AnnotateDocument(ctx, entry)
	if err != nil {
		return fmt.Errorf("annotating %s: %w", c.File, err)
	}

	if toStdout {
		for _, a := range doc.Main.Artifacts {
			_, _ = os.Stdout.Write(a.Data)
		}
		return nil
	}

	stem := strings.TrimSuffix(entry.RelPath, filepath.Ext(entry.RelPath))
	var written []string
	for _, r := range append([]ingestion.Rendered{doc.Main}, doc.Concepts...) {
		name := stem
		if r.Name != "" {
			name = filepath.Join(stem, "concepts", r.Name)
		}
		for _, a := range r.Artifacts {
			p := filepath.Join(cfg.OutputDir, name+a.Suffix)
			if err := writeFile(p, a.Data); err != nil {
				return err
			}
			written = append(written, p)
		}
	}

	if !g.Quiet {
		color.Green("✓ Annotated %s (%s %s)", c.File, doc.Main.Result.Kind, doc.Main.Result.Identifier)
		for _, p := range written {
			fmt.Printf("  %s\n", p)
		}
	}
	return nil
}

// ProfileCmd prints or writes the compiled profile.
type ProfileCmd struct {
	Out     string `short:"o" type:"path" help:"Directory to write profile.json into (default: stdout)"`
	Shapes  string `type:"path" help:"Directory of profile shapes"`
	Profile string `help:"Profile IRI"`
}

// Run executes the profile command.
func (c *ProfileCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	(&PipelineFlags{Shapes: c.Shapes, Profile: c.Profile}).apply(cfg)

	env, err := ingestion.NewEnvironment(context.Background(), cfg, nil)
	if err != nil {
		return err
	}

	if c.Out == "" {
		data, err := env.Profile.JSON()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	path, err := env.WriteProfile(c.Out)
	if err != nil {
		return err
	}
	if !g.Quiet {
		color.Green("✓ Wrote %s", path)
	}
	return nil
}

// ValidateCmd checks input documents against the validation shapes
// without writing any output.
type ValidateCmd struct {
	Paths            []string `arg:"" optional:"" type:"path" default:"." help:"Input files or directories"`
	ValidationShapes string   `type:"path" help:"Directory of validation shapes"`
	Exclude          []string `short:"x" help:"Gitignore-style patterns to skip"`
}

// Run executes the validate command.
func (c *ValidateCmd) Run(g *Globals) error {
	ctx := context.Background()
	cfg, err := g.load()
	if err != nil {
		return err
	}
	(&PipelineFlags{ValidationShapes: c.ValidationShapes, Exclude: c.Exclude}).apply(cfg)

	env, err := ingestion.NewEnvironment(ctx, cfg, nil)
	if err != nil {
		return err
	}
	entries, err := ingestion.WalkInputs(c.Paths, cfg.Exclude)
	if err != nil {
		return err
	}

	var bad []string
	for _, entry := range entries {
		doc, err := parsers.Parse(entry.Path, entry.Content)
		if err != nil {
			color.Red("✗ %s: %v", entry.RelPath, err)
			bad = append(bad, entry.RelPath)
			continue
		}
		report, err := env.Validate(ctx, doc.Graph)
		if err != nil {
			return fmt.Errorf("validating %s: %w", entry.RelPath, err)
		}
		if report.Conforms {
			if !g.Quiet {
				color.Green("✓ %s", entry.RelPath)
			}
			continue
		}
		bad = append(bad, entry.RelPath)
		color.Red("✗ %s", entry.RelPath)
		for _, line := range strings.Split(report.Summary(), "\n") {
			fmt.Printf("    %s\n", line)
		}
	}

	if len(bad) > 0 {
		return fmt.Errorf("%d of %d document(s) did not conform: %s", len(bad), len(entries), strings.Join(bad, ", "))
	}
	return nil
}

// WatchCmd rebuilds whenever an input changes.
type WatchCmd struct {
	Paths    []string      `arg:"" optional:"" type:"path" default:"." help:"Input files or directories"`
	Debounce time.Duration `default:"2s" help:"Quiet period before a rebuild"`

	PipelineFlags `embed:""`
}

// Run executes the watch command.
func (c *WatchCmd) Run(g *Globals) error {
	cfg, store, closer, err := c.setup(g)
	if err != nil {
		return err
	}
	defer closer()

	fmt.Println("## Watch Mode")
	fmt.Printf("Watching %s for changes (Ctrl+C to stop)\n\n", strings.Join(c.Paths, ", "))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle Ctrl+C
	go func() {
		<-osSignalChannel()
		fmt.Println("\nStopping watch mode...")
		cancel()
	}()

	opts := ingestion.Options{Inputs: c.Paths, Config: cfg, Store: store}
	err = ingestion.WatchInputs(ctx, opts, c.Debounce, func(result *ingestion.PipelineResult, err error) {
		if err != nil {
			color.Red("✗ Build failed: %v", err)
			return
		}
		printSummary(result)
		fmt.Println()
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch error: %w", err)
	}

	fmt.Println("Watch mode stopped.")
	return nil
}

// ServeCmd starts the MCP server on stdio.
type ServeCmd struct {
	Background string `type:"path" help:"Directory of background label files"`
	Shapes     string `type:"path" help:"Directory of profile shapes"`
	CacheDir   string `type:"path" help:"Label cache directory"`
}

// Run executes the serve command.
func (c *ServeCmd) Run(g *Globals) error {
	ctx := context.Background()
	cfg, err := g.load()
	if err != nil {
		return err
	}
	(&PipelineFlags{Background: c.Background, Shapes: c.Shapes, CacheDir: c.CacheDir}).apply(cfg)

	store, closer, err := openStore(cfg.CacheDir, false)
	if err != nil {
		return err
	}
	defer closer()

	env, err := ingestion.NewEnvironment(ctx, cfg, store)
	if err != nil {
		return err
	}
	mcp.Version = Version
	server := mcp.NewServer(env.Background, env.Profile, env.Namespaces)

	// Note: No output to stdout - MCP server uses stdio for JSON-RPC only
	logging.Info("starting MCP server", "labels", env.Background.Len())
	return server.Run(ctx, os.Stdin, os.Stdout)
}

// InitCmd writes a starter configuration file.
type InitCmd struct {
	Path  string `arg:"" optional:"" type:"path" default:"vocab.yaml" help:"Configuration file to create (.yaml, .yml or .json)"`
	Force bool   `short:"f" help:"Overwrite an existing file"`
}

// Run executes the init command.
func (c *InitCmd) Run(g *Globals) error {
	if err := config.Write(config.Default(), c.Path, c.Force); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if !g.Quiet {
		color.Green("✓ Wrote %s", c.Path)
	}
	return nil
}

// FormatsCmd lists the output formats.
type FormatsCmd struct{}

// Run executes the formats command.
func (c *FormatsCmd) Run() error {
	for _, f := range export.Formats() {
		suffix, _ := export.Suffix(f)
		fmt.Printf("%-18s *%s\n", f, suffix)
	}
	return nil
}

// CacheCmd groups the label cache maintenance commands.
type CacheCmd struct {
	Status CacheStatusCmd `cmd:"" help:"Show label cache status"`
	Clean  CacheCleanCmd  `cmd:"" help:"Delete every cached label set"`
}

// CacheStatusCmd shows what the label cache holds.
type CacheStatusCmd struct {
	CacheDir string `type:"path" help:"Label cache directory"`
}

// Run executes the cache status command.
func (c *CacheStatusCmd) Run(g *Globals) error {
	ctx := context.Background()
	dir, err := cacheDir(g, c.CacheDir)
	if err != nil {
		return err
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		fmt.Printf("No label cache at %s\n", dir)
		return nil
	}

	store, closer, err := openStore(dir, true)
	if err != nil {
		return err
	}
	defer closer()

	stats, err := store.Stats(ctx)
	if err != nil {
		return err
	}
	entries, err := store.Entries(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Label cache at %s\n", dir)
	fmt.Printf("  Entries:        %d\n", stats.Entries)
	fmt.Printf("  Triples:        %d\n", stats.Triples)
	fmt.Printf("  Stored bytes:   %d\n", stats.CompressedBytes)
	for _, e := range entries {
		fmt.Printf("\n  %s\n", shortKey(e.Key))
		fmt.Printf("    Sources: %s\n", strings.Join(e.Sources, ", "))
		fmt.Printf("    Triples: %d\n", e.Triples)
		fmt.Printf("    Created: %s\n", e.CreatedAt.UTC().Format(time.RFC3339))
	}
	return nil
}

// CacheCleanCmd empties the label cache.
type CacheCleanCmd struct {
	CacheDir string `type:"path" help:"Label cache directory"`
	Force    bool   `short:"f" help:"Skip confirmation"`
}

// Run executes the cache clean command.
func (c *CacheCleanCmd) Run(g *Globals) error {
	dir, err := cacheDir(g, c.CacheDir)
	if err != nil {
		return err
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("no label cache at %s. Nothing to clean", dir)
	}

	if !c.Force {
		fmt.Printf("Delete label cache at %s? [y/N] ", dir)
		var response string
		_, _ = fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Aborted")
			return nil
		}
	}

	store, closer, err := openStore(dir, false)
	if err != nil {
		return err
	}
	defer closer()
	if err := store.Clear(context.Background()); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}

	if !g.Quiet {
		color.Green("Cleared %s", dir)
	}
	return nil
}

// CLI is the root command structure.
type CLI struct {
	Globals

	Version kong.VersionFlag `help:"Show version"`

	Build    BuildCmd    `cmd:"" help:"Annotate input documents and write every artifact"`
	Annotate AnnotateCmd `cmd:"" help:"Annotate a single document"`
	Validate ValidateCmd `cmd:"" help:"Check documents against the validation shapes"`
	Profile  ProfileCmd  `cmd:"" help:"Print the compiled profile"`
	Watch    WatchCmd    `cmd:"" help:"Rebuild when inputs change"`
	Serve    ServeCmd    `cmd:"" help:"Start the MCP server on stdio"`
	Init     InitCmd     `cmd:"" help:"Write a starter configuration file"`
	Formats  FormatsCmd  `cmd:"" help:"List the output formats"`
	Cache    CacheCmd    `cmd:"" help:"Manage the label cache"`
}

// NewCLI creates a new CLI instance.
func NewCLI() *CLI {
	return &CLI{}
}

// Execute parses args and runs the selected command.
func (c *CLI) Execute(args []string) error {
	parser, err := kong.New(c,
		kong.Name("vocab-go"),
		kong.Description("Annotates controlled vocabularies with labels, identifiers and links, and exports them."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": Version,
		},
	)
	if err != nil {
		return err
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return kongCtx.Run(&c.Globals)
}

// Helper functions

// osSignalChannel returns a channel that receives OS signals for graceful shutdown.
func osSignalChannel() <-chan os.Signal {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	return sigChan
}

// openStore opens the Badger label cache at dir. An empty dir disables
// caching and yields a nil store.
func openStore(dir string, readOnly bool) (storage.LabelStore, func(), error) {
	if dir == "" {
		return nil, func() {}, nil
	}
	if !readOnly {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}
	store := storage.NewBadgerBackend()
	if err := store.Initialize(dir, readOnly); err != nil {
		return nil, nil, fmt.Errorf("initializing storage: %w", err)
	}
	return store, func() { _ = store.Close() }, nil
}

func cacheDir(g *Globals, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	cfg, err := g.load()
	if err != nil {
		return "", err
	}
	if cfg.CacheDir == "" {
		return "", errors.New("no cache directory configured. Set cache_dir or pass --cache-dir")
	}
	return cfg.CacheDir, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func shortKey(key string) string {
	if len(key) > 16 {
		return key[:16]
	}
	return key
}
