package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Benny93/vocab-go/internal/config"
	"github.com/Benny93/vocab-go/internal/logging"
)

// DefaultDebounce is the quiet period after the last change before a re-run.
const DefaultDebounce = 2 * time.Second

// RunHandler receives the outcome of each pipeline run started by WatchInputs.
type RunHandler func(result *PipelineResult, err error)

// WatchInputs runs the pipeline once and again after every batch of
// changes to the inputs, the background directory or the shapes
// directories. Blocks until the context is cancelled.
func WatchInputs(ctx context.Context, opts Options, debounce time.Duration, onRun RunHandler) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
		opts.Config = cfg
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	outDir, _ := filepath.Abs(cfg.OutputDir)
	for _, root := range watchRoots(opts.Inputs, cfg) {
		if err := addRecursive(watcher, root, outDir); err != nil {
			return fmt.Errorf("setting up watcher: %w", err)
		}
	}

	run := func() {
		result, err := RunPipeline(ctx, opts, nil)
		if onRun != nil {
			onRun(result, err)
		}
	}
	run()

	changed := make(map[string]bool)
	batchTimer := time.NewTimer(debounce)
	batchTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addRecursive(watcher, event.Name, outDir); err != nil {
						logging.Warn("watch failed", "path", event.Name, "error", err.Error())
					}
					continue
				}
			}
			if !shouldWatchFile(event.Name, outDir) {
				continue
			}
			changed[event.Name] = true
			batchTimer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn("watch error", "error", err.Error())

		case <-batchTimer.C:
			if len(changed) == 0 {
				continue
			}
			logging.Info("re-running pipeline", "changed", len(changed))
			changed = make(map[string]bool)
			run()
		}
	}
}

// watchRoots lists the directories whose changes affect a run.
func watchRoots(inputs []string, cfg *config.Config) []string {
	var roots []string
	seen := make(map[string]bool)
	add := func(p string) {
		if p == "" {
			return
		}
		info, err := os.Stat(p)
		if err != nil {
			return
		}
		if !info.IsDir() {
			p = filepath.Dir(p)
		}
		if !seen[p] {
			seen[p] = true
			roots = append(roots, p)
		}
	}
	for _, in := range inputs {
		add(in)
	}
	add(cfg.BackgroundDir)
	add(cfg.ShapesDir)
	add(cfg.ValidationShapesDir)
	return roots
}

// addRecursive watches root and every directory below it except outDir.
func addRecursive(w *fsnotify.Watcher, root, outDir string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if isUnder(path, outDir) || (path != root && d.Name() == ".git") {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

// shouldWatchFile checks if a change to path can affect a run.
func shouldWatchFile(path, outDir string) bool {
	if isUnder(path, outDir) {
		return false
	}
	return isSupportedFile(path)
}

func isUnder(path, dir string) bool {
	if dir == "" {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return abs == dir || strings.HasPrefix(abs, dir+string(filepath.Separator))
}
