package ingestion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Benny93/vocab-go/internal/annotate"
	"github.com/Benny93/vocab-go/internal/config"
	"github.com/Benny93/vocab-go/internal/conformance"
	"github.com/Benny93/vocab-go/internal/curie"
	"github.com/Benny93/vocab-go/internal/graph"
	"github.com/Benny93/vocab-go/internal/labels"
	"github.com/Benny93/vocab-go/internal/logging"
	"github.com/Benny93/vocab-go/internal/parsers"
	"github.com/Benny93/vocab-go/internal/profile"
	"github.com/Benny93/vocab-go/internal/storage"
)

// Environment is the read-only state shared by every document of a run.
// It is safe for concurrent use.
type Environment struct {
	Config     *config.Config
	Resolver   *labels.Resolver
	Background *labels.Index
	Profile    *profile.Profile
	Builder    *annotate.Builder

	// Namespaces is the base prefix table each document's minter copies.
	Namespaces *curie.NamespaceTable

	// ValidationShapes is the shapes graph documents are checked against.
	ValidationShapes *graph.Graph
	Validator        conformance.Validator
}

// NewEnvironment loads background labels and shapes and compiles the
// profile. store may be nil to disable the label cache.
func NewEnvironment(ctx context.Context, cfg *config.Config, store storage.LabelStore) (*Environment, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	resolver := labels.DefaultResolver()
	if len(cfg.Languages) > 0 {
		resolver.Languages = append([]string(nil), cfg.Languages...)
	}

	start := time.Now()
	background, err := LoadBackground(ctx, cfg.BackgroundDir, store, resolver)
	if err != nil {
		return nil, err
	}
	logging.PhaseDone("background", time.Since(start), "labels", background.Len())

	start = time.Now()
	shapes, err := LoadShapes(cfg.ShapesDir)
	if err != nil {
		return nil, err
	}

	var validation *graph.Graph
	if cfg.ValidationShapesDir != "" {
		if validation, err = LoadShapes(cfg.ValidationShapesDir); err != nil {
			return nil, err
		}
	} else if validation, err = conformance.DefaultShapes(); err != nil {
		return nil, err
	}

	prof := profile.Compile(profile.ExtractShapes(shapes), profile.Options{
		IRI:         cfg.Profile,
		Formats:     cfg.Formats,
		Constraints: [][]profile.Constraint{profile.ExtractConstraints(profile.ExtractShapes(validation))},
	})
	logging.PhaseDone("profile", time.Since(start), "shapes", shapes.Size())

	ns := curie.DefaultNamespaces()
	ns.BindAll(cfg.Namespaces)

	return &Environment{
		Config:           cfg,
		Resolver:         resolver,
		Background:       background,
		Profile:          prof,
		Builder:          annotate.NewBuilder(resolver, background, cfg.AnnotateConfig()),
		Namespaces:       ns,
		ValidationShapes: validation,
		Validator:        conformance.NewShapeValidator(),
	}, nil
}

// Minter returns a fresh minter for one document. Prefixes declared in the
// document are bound over the defaults; configured namespaces win over both.
func (e *Environment) Minter(prefixes map[string]string) *curie.Minter {
	table := curie.DefaultNamespaces()
	declared := make(map[string]string, len(prefixes))
	for p, ns := range prefixes {
		if p != "" {
			declared[p] = ns
		}
	}
	table.BindAll(declared)
	table.BindAll(e.Config.Namespaces)
	return curie.NewMinter(table)
}

// LoadBackground reads every RDF file under dir into a label index.
// Malformed files are logged and skipped. When store is non-nil the
// filtered labels are cached under a digest of all file contents.
func LoadBackground(ctx context.Context, dir string, store storage.LabelStore, resolver *labels.Resolver) (*labels.Index, error) {
	if dir == "" {
		return labels.BuildIndex(nil, resolver), nil
	}

	entries, err := WalkInputs([]string{dir}, nil)
	if err != nil {
		return nil, fmt.Errorf("loading background: %w", err)
	}

	var key string
	if store != nil {
		parts := make(map[string][]byte, len(entries)+1)
		for _, e := range entries {
			parts[e.RelPath] = e.Content
		}
		// The cached graph is filtered by the resolver's predicates.
		parts["\x00predicates"] = []byte(fmt.Sprint(resolver.Predicates()))
		key = storage.CacheKey(parts)

		cached, ok, err := store.LoadLabels(ctx, key)
		if err != nil {
			logging.Warn("label cache read failed", "error", err.Error())
		} else if ok {
			logging.Debug("label cache hit", "key", key, "triples", cached.Size())
			return labels.BuildIndex(cached, resolver), nil
		}
	}

	merged := graph.New()
	sources := make([]string, 0, len(entries))
	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := parsers.Parse(e.Path, e.Content)
		if err != nil {
			logging.FileSkipped(e.Path, "background", err)
			continue
		}
		merged.Merge(doc.Graph, fmt.Sprintf("f%d", i))
		sources = append(sources, e.RelPath)
	}

	index := labels.BuildIndex(merged, resolver)
	if store != nil {
		meta := storage.LabelMeta{Sources: sources, CreatedAt: time.Now().UTC()}
		if err := store.StoreLabels(ctx, key, index.Graph(), meta); err != nil {
			logging.Warn("label cache write failed", "error", err.Error())
		}
	}
	return index, nil
}

// LoadShapes merges every RDF file under dir into one shapes graph.
// Malformed files are logged and skipped. An empty dir yields an empty
// graph.
func LoadShapes(dir string) (*graph.Graph, error) {
	g := graph.New()
	if dir == "" {
		return g, nil
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("loading shapes: %w", err)
	}

	entries, err := WalkInputs([]string{dir}, nil)
	if err != nil {
		return nil, fmt.Errorf("loading shapes: %w", err)
	}
	for i, e := range entries {
		doc, err := parsers.Parse(e.Path, e.Content)
		if err != nil {
			logging.FileSkipped(e.Path, "shapes", err)
			continue
		}
		// Shapes from different files must not share property nodes.
		g.Merge(doc.Graph, fmt.Sprintf("f%d", i))
	}
	return g, nil
}

// WriteProfile writes the compiled profile as profile.json under dir.
func (e *Environment) WriteProfile(dir string) (string, error) {
	data, err := e.Profile.JSON()
	if err != nil {
		return "", fmt.Errorf("encoding profile: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, "profile.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing profile: %w", err)
	}
	return path, nil
}
