package cluster

import (
	"fmt"

	"vibeflow/internal/extract"
	"vibeflow/internal/logging"
)

// Strategy produces module candidates from the node arena. Strategies are
// pure: they never mutate the arena and two runs over the same arena yield
// the same candidates in the same order.
type Strategy interface {
	Name() string
	Cluster(arena *extract.Arena) []*Candidate
}

// DefaultStrategies builds the standard strategy set
func DefaultStrategies(vocab *Vocabulary, minClusterSize, minDirectorySize, maxPairwiseNodes int, dependencyThreshold float64) []Strategy {
	return []Strategy{
		NewSemanticStrategy(vocab, minClusterSize),
		NewDependencyStrategy(vocab, dependencyThreshold, minClusterSize, maxPairwiseNodes),
		NewDatabaseStrategy(vocab, minClusterSize),
		NewDirectoryStrategy(minDirectorySize),
	}
}

// RunAll executes every strategy and concatenates their candidates in
// strategy order. A panicking strategy contributes nothing; discovery
// continues on the remaining strategies.
func RunAll(arena *extract.Arena, strategies []Strategy, logger *logging.Logger) []*Candidate {
	var all []*Candidate
	for _, s := range strategies {
		candidates := runSafely(s, arena, logger)
		logger.Debug("strategy finished", map[string]interface{}{
			"strategy":   s.Name(),
			"candidates": len(candidates),
		})
		all = append(all, candidates...)
	}
	return all
}

func runSafely(s Strategy, arena *extract.Arena, logger *logging.Logger) (candidates []*Candidate) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("clustering strategy panicked", map[string]interface{}{
				"strategy": s.Name(),
				"panic":    fmt.Sprintf("%v", r),
			})
			candidates = nil
		}
	}()
	return s.Cluster(arena)
}
