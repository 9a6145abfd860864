package score

// Metrics aggregates confidence across the surviving boundaries. Each field
// is the mean of the corresponding component over all boundaries.
type Metrics struct {
	OverallConfidence   float64 `json:"overall_confidence"`
	SemanticConsistency float64 `json:"semantic_consistency"`
	StructuralCoherence float64 `json:"structural_coherence"`
	DependencyClarity   float64 `json:"dependency_clarity"`
	DatabaseAlignment   float64 `json:"database_alignment"`
}

// Aggregate summarizes a ranked boundary list. An empty list yields zero
// metrics rather than an error.
func Aggregate(ranked []Scored) Metrics {
	if len(ranked) == 0 {
		return Metrics{}
	}

	var m Metrics
	for _, r := range ranked {
		m.OverallConfidence += r.Confidence.Total
		m.SemanticConsistency += r.Confidence.Cohesion
		m.StructuralCoherence += r.Confidence.Size
		m.DependencyClarity += r.Confidence.Isolation
		m.DatabaseAlignment += r.Confidence.Database
	}

	n := float64(len(ranked))
	m.OverallConfidence /= n
	m.SemanticConsistency /= n
	m.StructuralCoherence /= n
	m.DependencyClarity /= n
	m.DatabaseAlignment /= n
	return m
}
