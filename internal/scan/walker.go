// Package scan enumerates candidate source files under a project root and
// optionally down-samples them to a bounded set before extraction.
package scan

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"vibeflow/internal/errors"
	"vibeflow/internal/logging"
	"vibeflow/internal/paths"
)

// SourceExtensions lists the file extensions treated as source code.
var SourceExtensions = map[string]bool{
	".go": true, ".ts": true, ".tsx": true, ".js": true, ".jsx": true, ".mjs": true,
	".py": true, ".rs": true, ".java": true, ".kt": true, ".kts": true, ".dart": true,
	".rb": true, ".php": true, ".cs": true, ".scala": true, ".swift": true,
}

// DefaultExcludes are glob patterns removed from every scan.
var DefaultExcludes = []string{
	"**/*_test.go",
	"**/*.test.*",
	"**/*.spec.*",
	"**/testdata/**",
}

// DefaultIgnoreDirs are directory names skipped entirely during the walk.
var DefaultIgnoreDirs = []string{
	"vendor", "node_modules", ".git", "dist", "build", "target", "__pycache__",
}

// FileInfo describes one candidate source file.
type FileInfo struct {
	// Path is the repo-relative path with forward slashes
	Path string
	// AbsPath is the absolute on-disk path
	AbsPath string
	// Size is the file size in bytes
	Size int64
}

// Walker walks a project root applying include/exclude glob patterns.
type Walker struct {
	includes   []string
	excludes   []string
	ignoreDirs map[string]bool
	logger     *logging.Logger
}

// NewWalker creates a walker. Empty includes means every source file; excludes
// and ignoreDirs extend (not replace) the defaults.
func NewWalker(includes, excludes, ignoreDirs []string, logger *logging.Logger) *Walker {
	ignore := make(map[string]bool)
	for _, d := range DefaultIgnoreDirs {
		ignore[d] = true
	}
	for _, d := range ignoreDirs {
		ignore[d] = true
	}

	all := make([]string, 0, len(DefaultExcludes)+len(excludes))
	all = append(all, DefaultExcludes...)
	all = append(all, excludes...)

	if logger == nil {
		logger = logging.Nop()
	}

	return &Walker{
		includes:   includes,
		excludes:   all,
		ignoreDirs: ignore,
		logger:     logger,
	}
}

// Walk enumerates candidate files under root, sorted by path. An invalid root
// is the only fatal error; unreadable files and directories are skipped.
func (w *Walker) Walk(root string) ([]FileInfo, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, errors.New(errors.InvalidRoot, "project root is not a readable directory", err).
			WithDetails(map[string]interface{}{"root": root})
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.New(errors.InvalidRoot, "cannot resolve project root: "+root, err)
	}

	var files []FileInfo

	walkErr := filepath.WalkDir(absRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("Skipping unreadable path", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := paths.Canonicalize(path, absRoot)
		if relErr != nil {
			return nil
		}

		if d.IsDir() {
			if rel == "." {
				return nil
			}
			name := d.Name()
			if w.ignoreDirs[name] || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if !SourceExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		if !w.included(rel) || w.excluded(rel) {
			return nil
		}

		fi, statErr := d.Info()
		if statErr != nil {
			w.logger.Warn("Skipping file with failed stat", map[string]interface{}{
				"path":  rel,
				"error": statErr.Error(),
			})
			return nil
		}

		files = append(files, FileInfo{
			Path:    rel,
			AbsPath: path,
			Size:    fi.Size(),
		})
		return nil
	})

	if walkErr != nil {
		return nil, errors.New(errors.InternalError, "scan failed", walkErr)
	}

	// Deterministic hand-off order regardless of filesystem iteration
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	return files, nil
}

func (w *Walker) included(rel string) bool {
	if len(w.includes) == 0 {
		return true
	}
	for _, pattern := range w.includes {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func (w *Walker) excluded(rel string) bool {
	for _, pattern := range w.excludes {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}
