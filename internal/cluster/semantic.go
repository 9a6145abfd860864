package cluster

import (
	"path"
	"strings"

	"vibeflow/internal/extract"
	"vibeflow/internal/paths"
)

// SemanticStrategy groups nodes by domain keyword. A node joins the group of
// the first vocabulary keyword found in its name or filename tokens; nodes
// with no keyword fall back to a group keyed by their parent directory.
type SemanticStrategy struct {
	vocab   *Vocabulary
	minSize int
}

// NewSemanticStrategy creates the keyword grouping strategy
func NewSemanticStrategy(vocab *Vocabulary, minSize int) *SemanticStrategy {
	return &SemanticStrategy{vocab: vocab, minSize: minSize}
}

// Name implements Strategy
func (s *SemanticStrategy) Name() string { return "semantic" }

// Cluster implements Strategy
func (s *SemanticStrategy) Cluster(arena *extract.Arena) []*Candidate {
	groups := make(map[string][]int)
	var order []string

	for i, node := range arena.Nodes() {
		tokens := Tokenize(node.Name)
		base := strings.TrimSuffix(path.Base(node.File), path.Ext(node.File))
		tokens = append(tokens, Tokenize(base)...)

		key := ""
		if kw, ok := s.vocab.Match(tokens); ok {
			key = "kw:" + kw
		} else {
			key = "dir:" + paths.DirName(node.File)
		}

		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}

	var candidates []*Candidate
	for _, key := range order {
		members := groups[key]
		if len(members) < s.minSize {
			continue
		}

		keyword, isKeyword := strings.CutPrefix(key, "kw:")
		cohesion := tokenCohesion(arena, members)
		if isKeyword {
			// Sharing a domain keyword is itself a cohesion signal
			cohesion += 0.3
			if cohesion > 1.0 {
				cohesion = 1.0
			}
		}

		name := strings.TrimPrefix(key, "dir:")
		if isKeyword {
			name = keyword
		}
		if len(name) <= 3 || IsGeneric(name) || name == "." {
			weights := make(map[string]float64)
			MemberTokenWeights(arena, members, 1.0, weights)
			name = ChooseName(weights, name)
		}

		c := NewCandidate(name, s.Name(), members)
		c.Cohesion = cohesion
		if isKeyword {
			c.AddKeyword(keyword)
		}
		s.collectKeywords(arena, c)
		candidates = append(candidates, c)
	}

	return candidates
}

// collectKeywords records every vocabulary keyword present in member names
func (s *SemanticStrategy) collectKeywords(arena *extract.Arena, c *Candidate) {
	for _, m := range c.Members {
		for _, t := range Tokenize(arena.Node(m).Name) {
			if s.vocab.Contains(t) {
				c.AddKeyword(t)
			}
		}
	}
}
