// Package ingestion runs vocabulary documents through annotation, export
// and conformance checking.
package ingestion

import (
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/zeebo/blake3"

	"github.com/Benny93/vocab-go/internal/parsers"
)

// FileEntry represents an RDF file to be processed.
type FileEntry struct {
	// Path is the file path as found on disk.
	Path string

	// RelPath is the path relative to the walked root. For a file given
	// directly it is the base name.
	RelPath string

	// Format is the parser format implied by the extension.
	Format string

	// Content is the file content.
	Content []byte

	// Hash is the blake3 digest of Content, hex encoded.
	Hash string
}

// Default patterns to ignore (in addition to .gitignore and excludes).
var defaultIgnorePatterns = []string{
	".git/",
	".vocab-go/",
	"node_modules/",
	".DS_Store",
	"*.annotated.ttl",
	"*.annotated.jsonld",
	"*.simple.ttl",
}

// WalkInputs collects the RDF files named by paths. Directories are walked
// recursively honoring their .gitignore, the default ignore patterns and
// excludes; files are taken as given when their format is known. Entries
// are sorted by RelPath and each file appears once.
func WalkInputs(paths []string, excludes []string) ([]FileEntry, error) {
	var entries []FileEntry
	seen := make(map[string]bool)

	add := func(path, rel string) error {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		if seen[abs] {
			return nil
		}
		seen[abs] = true

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		entries = append(entries, FileEntry{
			Path:    path,
			RelPath: filepath.ToSlash(rel),
			Format:  parsers.DetectFormat(path),
			Content: content,
			Hash:    hashContent(content),
		})
		return nil
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}
		if !info.IsDir() {
			if !isSupportedFile(root) {
				return nil, fmt.Errorf("unsupported input %s", root)
			}
			if err := add(root, filepath.Base(root)); err != nil {
				return nil, err
			}
			continue
		}

		patterns, err := loadGitignore(root)
		if err != nil {
			return nil, fmt.Errorf("reading .gitignore: %w", err)
		}
		matcher := newMatcher(patterns, excludes)

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				if path != root && shouldSkipDir(d.Name(), path, root, matcher) {
					return filepath.SkipDir
				}
				return nil
			}

			if !isSupportedFile(d.Name()) {
				return nil
			}

			relPath, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			if matcher.Match(splitPath(relPath), false) {
				return nil
			}
			return add(path, relPath)
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", root, err)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].RelPath != entries[j].RelPath {
			return entries[i].RelPath < entries[j].RelPath
		}
		return entries[i].Path < entries[j].Path
	})
	return entries, nil
}

// ReadEntry loads a single file as a FileEntry.
func ReadEntry(path string) (FileEntry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return FileEntry{}, err
	}
	return FileEntry{
		Path:    path,
		RelPath: filepath.Base(path),
		Format:  parsers.DetectFormat(path),
		Content: content,
		Hash:    hashContent(content),
	}, nil
}

func hashContent(content []byte) string {
	sum := blake3.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func newMatcher(patterns []gitignore.Pattern, excludes []string) gitignore.Matcher {
	all := make([]gitignore.Pattern, 0, len(defaultIgnorePatterns)+len(patterns)+len(excludes))
	for _, p := range defaultIgnorePatterns {
		all = append(all, gitignore.ParsePattern(p, nil))
	}
	all = append(all, patterns...)
	for _, p := range excludes {
		if p = strings.TrimSpace(p); p != "" {
			all = append(all, gitignore.ParsePattern(p, nil))
		}
	}
	return gitignore.NewMatcher(all)
}

// loadGitignore loads .gitignore patterns from a walked root.
func loadGitignore(root string) ([]gitignore.Pattern, error) {
	content, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var patterns []gitignore.Pattern
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return patterns, nil
}

// isSupportedFile checks if a file has a parseable extension.
func isSupportedFile(filename string) bool {
	return parsers.DetectFormat(filename) != ""
}

// shouldSkipDir checks if a directory should be skipped.
func shouldSkipDir(name, path, root string, matcher gitignore.Matcher) bool {
	if name == ".git" {
		return true
	}

	relPath, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return matcher.Match(splitPath(relPath), true)
}

// splitPath splits a path into its components.
func splitPath(path string) []string {
	return strings.Split(path, string(filepath.Separator))
}
