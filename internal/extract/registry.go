package extract

import (
	"path/filepath"
	"strings"
)

// Registry selects the extractor for each file by extension. Every extension
// falls back to the heuristic extractor; richer implementations (tree-sitter,
// SCIP) register themselves for the extensions they understand.
type Registry struct {
	byExt    map[string]Extractor
	fallback Extractor
}

// NewRegistry creates a registry with the heuristic fallback plus the
// tree-sitter extractor for Go when the build supports it.
func NewRegistry() *Registry {
	r := &Registry{
		byExt:    make(map[string]Extractor),
		fallback: NewHeuristicExtractor(),
	}
	if ts := NewTreeSitterExtractor(); ts != nil {
		r.Register(".go", ts)
	}
	return r
}

// Register binds an extractor to a file extension (".go", ".ts", ...)
func (r *Registry) Register(ext string, e Extractor) {
	r.byExt[strings.ToLower(ext)] = e
}

// ForFile returns the extractor responsible for a path
func (r *Registry) ForFile(path string) Extractor {
	if e, ok := r.byExt[strings.ToLower(filepath.Ext(path))]; ok {
		return e
	}
	return r.fallback
}
