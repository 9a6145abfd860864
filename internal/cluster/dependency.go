package cluster

import (
	"vibeflow/internal/extract"
	"vibeflow/internal/paths"
)

// DependencyStrategy clusters nodes by pairwise reference strength. From each
// unclustered node, every remaining node whose strength exceeds the threshold
// joins its cluster in a single pass; membership is not transitive.
type DependencyStrategy struct {
	vocab     *Vocabulary
	threshold float64
	minSize   int
	maxNodes  int
}

// NewDependencyStrategy creates the reference-strength strategy
func NewDependencyStrategy(vocab *Vocabulary, threshold float64, minSize, maxNodes int) *DependencyStrategy {
	return &DependencyStrategy{vocab: vocab, threshold: threshold, minSize: minSize, maxNodes: maxNodes}
}

// Name implements Strategy
func (s *DependencyStrategy) Name() string { return "dependency" }

// Cluster implements Strategy
func (s *DependencyStrategy) Cluster(arena *extract.Arena) []*Candidate {
	indices := s.sample(arena.Len())

	tokens := make(map[int][]string, len(indices))
	for _, i := range indices {
		tokens[i] = Tokenize(arena.Node(i).Name)
	}

	clustered := make(map[int]bool, len(indices))
	var candidates []*Candidate

	for _, seed := range indices {
		if clustered[seed] {
			continue
		}
		clustered[seed] = true

		members := []int{seed}
		strengthSum := 0.0

		for _, other := range indices {
			if clustered[other] {
				continue
			}
			strength := Strength(arena.Node(seed), arena.Node(other), tokens[seed], tokens[other])
			if strength > s.threshold {
				clustered[other] = true
				members = append(members, other)
				strengthSum += strength
			}
		}

		if len(members) < s.minSize {
			continue
		}

		weights := make(map[string]float64)
		MemberTokenWeights(arena, members, 1.0, weights)

		c := NewCandidate(ChooseName(weights, "cluster"), s.Name(), members)
		if len(members) > 1 {
			c.Cohesion = strengthSum / float64(len(members)-1)
			if c.Cohesion > 1.0 {
				c.Cohesion = 1.0
			}
		} else {
			// A singleton has no joins to average over
			c.Cohesion = 0.5
		}
		for t := range weights {
			if s.vocab.Contains(t) {
				c.AddKeyword(t)
			}
		}
		candidates = append(candidates, c)
	}

	return candidates
}

// sample bounds pairwise work: above maxNodes, every k-th node is kept so the
// comparison set stays under the cap without losing file coverage.
func (s *DependencyStrategy) sample(n int) []int {
	if n <= s.maxNodes || s.maxNodes <= 0 {
		indices := make([]int, n)
		for i := range indices {
			indices[i] = i
		}
		return indices
	}

	stride := (n + s.maxNodes - 1) / s.maxNodes
	indices := make([]int, 0, s.maxNodes)
	for i := 0; i < n; i += stride {
		indices = append(indices, i)
	}
	return indices
}

// Strength scores how tightly two nodes are coupled. Signals accumulate and
// the result is capped at 1.0.
func Strength(a, b *extract.DeclarationNode, tokensA, tokensB []string) float64 {
	strength := 0.0

	if references(a, b) || references(b, a) {
		strength += 0.8
	}
	if calls(a, b) || calls(b, a) {
		strength += 0.6
	}
	if a.File == b.File {
		strength += 0.4
	} else if paths.DirName(a.File) == paths.DirName(b.File) {
		strength += 0.2
	}
	strength += 0.3 * TokenJaccard(tokensA, tokensB)

	if strength > 1.0 {
		return 1.0
	}
	return strength
}

// references reports whether a mentions b's name in its fields or receiver
func references(a, b *extract.DeclarationNode) bool {
	if a.Receiver != "" && a.Receiver == b.Name {
		return true
	}
	for _, f := range a.Fields {
		if f == b.Name {
			return true
		}
	}
	return false
}

// calls reports whether a calls an identifier matching b's name
func calls(a, b *extract.DeclarationNode) bool {
	for _, id := range a.CalledIdentifiers {
		if id == b.Name {
			return true
		}
	}
	return false
}
