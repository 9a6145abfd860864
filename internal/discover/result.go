package discover

import (
	"encoding/json"

	"vibeflow/internal/output"
	"vibeflow/internal/recommend"
	"vibeflow/internal/score"
)

// Boundary is the serialized form of one discovered module boundary.
// Confidence is expressed as a 0-100 percentage.
type Boundary struct {
	Name               string   `json:"name"`
	Description        string   `json:"description,omitempty"`
	Confidence         float64  `json:"confidence"`
	Files              []string `json:"files"`
	Structs            []string `json:"structs"`
	Interfaces         []string `json:"interfaces"`
	Functions          []string `json:"functions"`
	DatabaseTables     []string `json:"database_tables"`
	Reasoning          []string `json:"reasoning"`
	SemanticKeywords   []string `json:"semantic_keywords"`
	DependencyClusters []string `json:"dependency_clusters"`
}

// BoundaryOverlap reports residual overlap between two final boundaries
type BoundaryOverlap struct {
	Boundary1            string  `json:"boundary1"`
	Boundary2            string  `json:"boundary2"`
	OverlapType          string  `json:"overlap_type"`
	OverlapStrength      float64 `json:"overlap_strength"`
	ResolutionSuggestion string  `json:"resolution_suggestion"`
}

// ClusteringAnalysis summarizes partition quality for downstream consumers
type ClusteringAnalysis struct {
	OptimalClusterCount int               `json:"optimal_cluster_count"`
	ClusterQualityScore float64           `json:"cluster_quality_score"`
	BoundaryOverlaps    []BoundaryOverlap `json:"boundary_overlaps"`
	OrphanedFiles       []string          `json:"orphaned_files"`
}

// Result is the complete output of one discovery run
type Result struct {
	RunID          string `json:"run_id"`
	Root           string `json:"root"`
	GeneratedAt    string `json:"generated_at"`
	FilesScanned   int    `json:"files_scanned"`
	NodesExtracted int    `json:"nodes_extracted"`

	// Partial marks a run aborted between stages by the caller's deadline
	Partial bool `json:"partial,omitempty"`

	DiscoveredBoundaries []Boundary                 `json:"discovered_boundaries"`
	ConfidenceMetrics    score.Metrics              `json:"confidence_metrics"`
	ClusteringAnalysis   ClusteringAnalysis         `json:"clustering_analysis"`
	Recommendations      []recommend.Recommendation `json:"recommendations"`
}

// Encode serializes the result deterministically: sorted keys, rounded
// floats, empty collections as [].
func (r *Result) Encode() ([]byte, error) {
	return output.DeterministicEncodeIndented(r, "  ")
}

// ParseResult decodes a serialized result
func ParseResult(data []byte) (*Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
