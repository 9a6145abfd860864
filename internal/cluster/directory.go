package cluster

import (
	"vibeflow/internal/extract"
	"vibeflow/internal/paths"
)

// DirectoryStrategy groups nodes by their immediate parent directory.
// Directory layout is the weakest signal, so the size floor is higher than
// for the other strategies and root-level files are never grouped.
type DirectoryStrategy struct {
	minSize int
}

// NewDirectoryStrategy creates the layout strategy
func NewDirectoryStrategy(minSize int) *DirectoryStrategy {
	return &DirectoryStrategy{minSize: minSize}
}

// Name implements Strategy
func (s *DirectoryStrategy) Name() string { return "directory" }

const directoryCohesion = 0.6

// Cluster implements Strategy
func (s *DirectoryStrategy) Cluster(arena *extract.Arena) []*Candidate {
	groups := make(map[string][]int)
	var order []string

	for i := 0; i < arena.Len(); i++ {
		dir := paths.DirName(arena.Node(i).File)
		if dir == "." {
			continue
		}
		if _, seen := groups[dir]; !seen {
			order = append(order, dir)
		}
		groups[dir] = append(groups[dir], i)
	}

	var candidates []*Candidate
	for _, dir := range order {
		members := groups[dir]
		if len(members) < s.minSize {
			continue
		}

		name := dir
		if len(name) <= 3 || IsGeneric(name) {
			weights := make(map[string]float64)
			MemberTokenWeights(arena, members, 1.0, weights)
			name = ChooseName(weights, dir)
		}

		c := NewCandidate(name, s.Name(), members)
		c.Cohesion = directoryCohesion
		candidates = append(candidates, c)
	}

	return candidates
}
