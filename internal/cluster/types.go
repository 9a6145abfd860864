package cluster

import (
	"sort"

	"vibeflow/internal/extract"
)

// Candidate is a proposed module boundary produced by one strategy (or by
// merging several). Members are indices into the shared node arena, kept
// sorted so every downstream computation is order-stable.
type Candidate struct {
	Name       string
	Strategies []string
	Members    []int
	Keywords   []string
	Cohesion   float64

	// Pinned candidates come from a declared boundaries file and bypass the
	// confidence filter.
	Pinned      bool
	Description string
}

// NewCandidate builds a candidate with sorted, deduplicated members
func NewCandidate(name, strategy string, members []int) *Candidate {
	c := &Candidate{Name: name, Strategies: []string{strategy}}
	seen := make(map[int]bool, len(members))
	for _, m := range members {
		if !seen[m] {
			seen[m] = true
			c.Members = append(c.Members, m)
		}
	}
	sort.Ints(c.Members)
	return c
}

// AddKeyword records a keyword, keeping the slice sorted and unique
func (c *Candidate) AddKeyword(kw string) {
	if kw == "" {
		return
	}
	i := sort.SearchStrings(c.Keywords, kw)
	if i < len(c.Keywords) && c.Keywords[i] == kw {
		return
	}
	c.Keywords = append(c.Keywords, "")
	copy(c.Keywords[i+1:], c.Keywords[i:])
	c.Keywords[i] = kw
}

// Files returns the sorted distinct set of files the members live in
func (c *Candidate) Files(arena *extract.Arena) []string {
	seen := make(map[string]bool)
	var files []string
	for _, m := range c.Members {
		f := arena.Node(m).File
		if !seen[f] {
			seen[f] = true
			files = append(files, f)
		}
	}
	sort.Strings(files)
	return files
}

// Tables returns the sorted distinct database tables touched by the members
func (c *Candidate) Tables(arena *extract.Arena) []string {
	seen := make(map[string]bool)
	var tables []string
	for _, m := range c.Members {
		for _, t := range arena.Node(m).Tables {
			if !seen[t] {
				seen[t] = true
				tables = append(tables, t)
			}
		}
	}
	sort.Strings(tables)
	return tables
}

// NamesByKind returns the sorted member names of one declaration kind
func (c *Candidate) NamesByKind(arena *extract.Arena, kind extract.NodeKind) []string {
	var names []string
	for _, m := range c.Members {
		if node := arena.Node(m); node.Kind == kind {
			names = append(names, node.Name)
		}
	}
	sort.Strings(names)
	return names
}

// FileOverlap computes Jaccard similarity of two candidates' file sets
func FileOverlap(a, b *Candidate, arena *extract.Arena) float64 {
	return jaccardSorted(a.Files(arena), b.Files(arena))
}

// jaccardSorted computes Jaccard similarity over two sorted distinct slices
func jaccardSorted(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	intersection := 0
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			intersection++
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}

	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// tokenCohesion is the mean pairwise token similarity of member names. A
// single member scores a neutral 0.5; disjoint names score 0.
func tokenCohesion(arena *extract.Arena, members []int) float64 {
	if len(members) < 2 {
		return 0.5
	}

	tokens := make([][]string, len(members))
	for i, m := range members {
		tokens[i] = Tokenize(arena.Node(m).Name)
	}

	sum := 0.0
	pairs := 0
	for i := 0; i < len(tokens); i++ {
		for j := i + 1; j < len(tokens); j++ {
			sum += TokenJaccard(tokens[i], tokens[j])
			pairs++
		}
	}
	return sum / float64(pairs)
}

// MemberTokenWeights accumulates token frequencies across member names,
// scaled by weight. Used for cluster naming.
func MemberTokenWeights(arena *extract.Arena, members []int, weight float64, into map[string]float64) {
	for _, m := range members {
		for _, t := range Tokenize(arena.Node(m).Name) {
			into[t] += weight
		}
	}
}
