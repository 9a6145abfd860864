// Package merge collapses overlapping candidates from different strategies
// into single boundaries.
package merge

import (
	"vibeflow/internal/cluster"
	"vibeflow/internal/extract"
	"vibeflow/internal/logging"
)

// Merger unions candidates whose file sets overlap beyond a Jaccard
// threshold. Merging runs to a fixpoint, so no two surviving boundaries
// overlap above the threshold.
type Merger struct {
	threshold float64
	logger    *logging.Logger
}

// NewMerger creates a merger with the given file-overlap threshold
func NewMerger(threshold float64, logger *logging.Logger) *Merger {
	return &Merger{threshold: threshold, logger: logger}
}

// Merge collapses the candidate list. Input order is preserved for the
// surviving candidates; an absorbed candidate folds into the earlier one.
func (m *Merger) Merge(arena *extract.Arena, candidates []*cluster.Candidate) []*cluster.Candidate {
	merged := make([]*cluster.Candidate, len(candidates))
	copy(merged, candidates)

	for {
		next, changed := m.mergePass(arena, merged)
		merged = next
		if !changed {
			break
		}
	}

	if len(merged) < len(candidates) {
		m.logger.Debug("candidates merged", map[string]interface{}{
			"before": len(candidates),
			"after":  len(merged),
		})
	}
	return merged
}

func (m *Merger) mergePass(arena *extract.Arena, candidates []*cluster.Candidate) ([]*cluster.Candidate, bool) {
	var result []*cluster.Candidate
	changed := false

	for _, c := range candidates {
		absorbed := false
		for _, existing := range result {
			if cluster.FileOverlap(existing, c, arena) > m.threshold {
				m.union(arena, existing, c)
				absorbed = true
				changed = true
				break
			}
		}
		if !absorbed {
			result = append(result, c)
		}
	}

	return result, changed
}

// union folds src into dst in place
func (m *Merger) union(arena *extract.Arena, dst, src *cluster.Candidate) {
	dstSize := float64(len(dst.Members))
	srcSize := float64(len(src.Members))

	members := append(append([]int(nil), dst.Members...), src.Members...)
	rebuilt := cluster.NewCandidate(dst.Name, dst.Strategies[0], members)
	dst.Members = rebuilt.Members

	for _, s := range src.Strategies {
		dst.Strategies = appendUnique(dst.Strategies, s)
	}
	for _, kw := range src.Keywords {
		dst.AddKeyword(kw)
	}

	// Cohesion averages member-weighted; the name follows the
	// cohesion-weighted token vote across both constituents.
	mergedCohesion := (dst.Cohesion*dstSize + src.Cohesion*srcSize) / (dstSize + srcSize)

	switch {
	case dst.Pinned:
		// Declared boundaries keep their declared identity
	case src.Pinned:
		dst.Name = src.Name
		dst.Description = src.Description
		dst.Pinned = true
	default:
		weights := make(map[string]float64)
		cluster.MemberTokenWeights(arena, dst.Members, dst.Cohesion+0.1, weights)
		cluster.MemberTokenWeights(arena, src.Members, src.Cohesion+0.1, weights)

		fallback := dst.Name
		if src.Cohesion > dst.Cohesion {
			fallback = src.Name
		}
		dst.Name = cluster.ChooseName(weights, fallback)
	}

	dst.Cohesion = mergedCohesion
	if dst.Pinned {
		dst.Cohesion = 1.0
	}
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
