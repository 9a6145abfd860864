//go:build !cgo

package extract

// TreeSitterExtractor is unavailable without cgo; the registry falls back to
// the heuristic extractor for every extension.
type TreeSitterExtractor struct{}

// NewTreeSitterExtractor returns nil when tree-sitter support is not compiled in
func NewTreeSitterExtractor() *TreeSitterExtractor {
	return nil
}

// Name implements Extractor
func (e *TreeSitterExtractor) Name() string { return "treesitter-stub" }

// Extract implements Extractor
func (e *TreeSitterExtractor) Extract(content []byte, path string) (*FileStructure, error) {
	return &FileStructure{Path: path}, nil
}
