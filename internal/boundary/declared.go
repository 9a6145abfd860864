// Package boundary loads developer-declared boundaries. Declarations pin a
// boundary: it keeps its declared name, scores full confidence and is never
// filtered out.
package boundary

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	toml "github.com/pelletier/go-toml/v2"

	"vibeflow/internal/cluster"
	"vibeflow/internal/errors"
	"vibeflow/internal/extract"
)

// Declaration is one entry in a BOUNDARIES.toml file
type Declaration struct {
	Name        string   `toml:"name"`
	Description string   `toml:"description,omitempty"`
	Files       []string `toml:"files"`
	Keywords    []string `toml:"keywords,omitempty"`
}

// File is the on-disk shape of a declared boundaries file
type File struct {
	Version    int           `toml:"version"`
	Boundaries []Declaration `toml:"boundary"`
}

// Load reads declared boundaries from path. A missing file means no
// declarations and is not an error.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.New(errors.InvalidRoot, "cannot read boundaries file "+path, err)
	}

	var file File
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, errors.New(errors.ParseFailure, "cannot parse boundaries file "+path, err)
	}

	for i, decl := range file.Boundaries {
		if decl.Name == "" {
			return nil, errors.New(errors.ParseFailure,
				fmt.Sprintf("boundary %d in %s has no name", i+1, path), nil)
		}
		if len(decl.Files) == 0 {
			return nil, errors.New(errors.ParseFailure,
				fmt.Sprintf("boundary %q in %s declares no file patterns", decl.Name, path), nil)
		}
	}

	return &file, nil
}

// Candidates converts declarations to pinned candidates over the arena.
// A declaration matching no extracted node produces no candidate.
func (f *File) Candidates(arena *extract.Arena) []*cluster.Candidate {
	if f == nil {
		return nil
	}

	var candidates []*cluster.Candidate
	for _, decl := range f.Boundaries {
		var members []int
		for i := 0; i < arena.Len(); i++ {
			if matchesAny(decl.Files, arena.Node(i).File) {
				members = append(members, i)
			}
		}
		if len(members) == 0 {
			continue
		}

		c := cluster.NewCandidate(decl.Name, "declared", members)
		c.Pinned = true
		c.Description = decl.Description
		c.Cohesion = 1.0
		for _, kw := range decl.Keywords {
			c.AddKeyword(kw)
		}
		candidates = append(candidates, c)
	}
	return candidates
}

func matchesAny(patterns []string, file string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, file); err == nil && ok {
			return true
		}
	}
	return false
}

const exampleContent = `# Declared module boundaries.
# Declared boundaries are pinned: they keep their name, score full
# confidence and are never filtered from results.
version = 1

# [[boundary]]
# name = "billing"
# description = "Invoicing and payment processing"
# files = ["internal/billing/**", "internal/invoice/**"]
# keywords = ["invoice", "payment"]
`

// WriteExample writes a commented starter file. Refuses to overwrite.
func WriteExample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(exampleContent), 0o644)
}
