package cluster

import (
	"vibeflow/internal/extract"
)

// DatabaseStrategy groups the functions that read or write the same table.
// Shared persistence is a strong ownership signal, so these clusters carry a
// fixed high cohesion.
type DatabaseStrategy struct {
	vocab   *Vocabulary
	minSize int
}

// NewDatabaseStrategy creates the table-access strategy
func NewDatabaseStrategy(vocab *Vocabulary, minSize int) *DatabaseStrategy {
	return &DatabaseStrategy{vocab: vocab, minSize: minSize}
}

// Name implements Strategy
func (s *DatabaseStrategy) Name() string { return "database" }

const databaseCohesion = 0.8

// Cluster implements Strategy
func (s *DatabaseStrategy) Cluster(arena *extract.Arena) []*Candidate {
	// Resolve facts back to function nodes by (file, function name)
	byFunc := make(map[string]int)
	for i := 0; i < arena.Len(); i++ {
		node := arena.Node(i)
		if node.Kind != extract.KindFunction {
			continue
		}
		key := node.File + "\x00" + node.Name
		if _, exists := byFunc[key]; !exists {
			byFunc[key] = i
		}
	}

	tables := make(map[string][]int)
	var order []string
	seen := make(map[string]map[int]bool)

	for _, fact := range arena.Facts() {
		idx, ok := byFunc[fact.File+"\x00"+fact.Function]
		if !ok {
			continue
		}
		if _, exists := tables[fact.Table]; !exists {
			order = append(order, fact.Table)
			seen[fact.Table] = make(map[int]bool)
		}
		if !seen[fact.Table][idx] {
			seen[fact.Table][idx] = true
			tables[fact.Table] = append(tables[fact.Table], idx)
		}
	}

	var candidates []*Candidate
	for _, table := range order {
		members := tables[table]
		if len(members) < s.minSize {
			continue
		}

		// Table tokens outweigh member tokens so the cluster names after its table
		weights := make(map[string]float64)
		for _, t := range Tokenize(table) {
			weights[t] += 3.0
		}
		MemberTokenWeights(arena, members, 1.0, weights)

		fallback := table
		if len(fallback) <= 3 {
			fallback = table + "-access"
		}

		c := NewCandidate(ChooseName(weights, fallback), s.Name(), members)
		c.Cohesion = databaseCohesion
		for _, t := range Tokenize(table) {
			c.AddKeyword(t)
		}
		candidates = append(candidates, c)
	}

	return candidates
}
