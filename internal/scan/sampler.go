package scan

import (
	"sort"
	"strings"

	"vibeflow/internal/paths"
)

// Sampler selects a bounded subset of scanned files so the quadratic
// clustering stages stay tractable on large repositories. Samplers must be
// deterministic: the same input always yields the same subset.
type Sampler interface {
	// Name identifies the sampling strategy
	Name() string
	// Sample returns at most max files, sorted by path. max <= 0 disables sampling.
	Sample(files []FileInfo, max int) []FileInfo
}

// NewSampler returns the sampler for a configured strategy name.
func NewSampler(strategy string) Sampler {
	if strategy == "stride" {
		return &StrideSampler{}
	}
	return &ImportanceSampler{}
}

// StrideSampler picks every k-th file from the path-sorted input.
type StrideSampler struct{}

// Name implements Sampler
func (s *StrideSampler) Name() string { return "stride" }

// Sample implements Sampler
func (s *StrideSampler) Sample(files []FileInfo, max int) []FileInfo {
	if max <= 0 || len(files) <= max {
		return files
	}

	stride := (len(files) + max - 1) / max
	sampled := make([]FileInfo, 0, max)
	for i := 0; i < len(files) && len(sampled) < max; i += stride {
		sampled = append(sampled, files[i])
	}
	return sampled
}

// importanceKeywords are path hints that mark architecturally significant files.
var importanceKeywords = []string{
	"handler", "service", "repository", "controller", "model",
	"usecase", "domain", "api", "core",
}

// ImportanceSampler keeps the top-scoring files, preferring shallow paths,
// architectural keyword hints, and mid-sized files over generated monsters
// and near-empty stubs.
type ImportanceSampler struct{}

// Name implements Sampler
func (s *ImportanceSampler) Name() string { return "importance" }

// Sample implements Sampler
func (s *ImportanceSampler) Sample(files []FileInfo, max int) []FileInfo {
	if max <= 0 || len(files) <= max {
		return files
	}

	type scored struct {
		file  FileInfo
		score float64
	}

	ranked := make([]scored, len(files))
	for i, f := range files {
		ranked[i] = scored{file: f, score: Importance(f)}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].file.Path < ranked[j].file.Path
	})

	sampled := make([]FileInfo, 0, max)
	for _, r := range ranked[:max] {
		sampled = append(sampled, r.file)
	}
	sort.Slice(sampled, func(i, j int) bool { return sampled[i].Path < sampled[j].Path })

	return sampled
}

// Importance scores a single file; higher means more likely to be kept.
func Importance(f FileInfo) float64 {
	score := 0.4

	// Shallow files carry more architectural signal than deeply nested ones
	depth := paths.Depth(f.Path)
	switch {
	case depth <= 1:
		score += 0.15
	case depth <= 3:
		score += 0.10
	case depth > 6:
		score -= 0.10
	}

	lower := strings.ToLower(f.Path)
	for _, kw := range importanceKeywords {
		if strings.Contains(lower, kw) {
			score += 0.20
			break
		}
	}

	// Mid-sized files: big enough to hold real declarations, small enough
	// not to be generated output
	if f.Size >= 200 && f.Size <= 100_000 {
		score += 0.15
	} else if f.Size > 500_000 {
		score -= 0.25
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
