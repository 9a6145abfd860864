// Package score computes boundary confidence from cohesion, size, database
// alignment and isolation.
package score

import (
	"sort"

	"vibeflow/internal/cluster"
	"vibeflow/internal/extract"
)

// Component weights. They sum to 1.0 so confidence stays in [0, 1].
const (
	cohesionWeight  = 0.30
	sizeWeight      = 0.20
	databaseWeight  = 0.25
	isolationWeight = 0.25
)

// Breakdown holds the weighted components behind one confidence score
type Breakdown struct {
	Cohesion  float64 `json:"cohesion"`
	Size      float64 `json:"size"`
	Database  float64 `json:"database"`
	Isolation float64 `json:"isolation"`
	Total     float64 `json:"total"`
}

// Scorer ranks candidates and drops those below the confidence threshold.
// Pinned candidates always score 1.0 and are never dropped.
type Scorer struct {
	threshold float64
}

// NewScorer creates a scorer with the given keep threshold
func NewScorer(threshold float64) *Scorer {
	return &Scorer{threshold: threshold}
}

// Scored pairs a candidate with its confidence breakdown
type Scored struct {
	Candidate  *cluster.Candidate
	Confidence Breakdown
}

// Rank scores every candidate, filters below the threshold and returns the
// survivors ordered by confidence descending, name ascending on ties.
func (s *Scorer) Rank(arena *extract.Arena, candidates []*cluster.Candidate) []Scored {
	var ranked []Scored
	for i, c := range candidates {
		b := s.breakdown(arena, c, candidates, i)
		if !c.Pinned && b.Total < s.threshold {
			continue
		}
		ranked = append(ranked, Scored{Candidate: c, Confidence: b})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Confidence.Total != ranked[j].Confidence.Total {
			return ranked[i].Confidence.Total > ranked[j].Confidence.Total
		}
		return ranked[i].Candidate.Name < ranked[j].Candidate.Name
	})
	return ranked
}

func (s *Scorer) breakdown(arena *extract.Arena, c *cluster.Candidate, all []*cluster.Candidate, self int) Breakdown {
	if c.Pinned {
		return Breakdown{
			Cohesion:  1.0,
			Size:      1.0,
			Database:  1.0,
			Isolation: 1.0,
			Total:     1.0,
		}
	}

	b := Breakdown{
		Cohesion:  clamp(c.Cohesion),
		Size:      sizeScore(len(c.Members)),
		Database:  databaseScore(len(c.Tables(arena))),
		Isolation: isolationScore(arena, c, all, self),
	}
	b.Total = clamp(cohesionWeight*b.Cohesion +
		sizeWeight*b.Size +
		databaseWeight*b.Database +
		isolationWeight*b.Isolation)
	return b
}

// sizeScore rewards boundaries in a workable size band
func sizeScore(members int) float64 {
	switch {
	case members >= 5 && members <= 20:
		return 1.0
	case members >= 3 && members <= 30:
		return 0.8
	case members >= 2 && members <= 50:
		return 0.6
	default:
		return 0.3
	}
}

// databaseScore rewards focused table ownership. No table access is neutral,
// a handful of tables is a strong alignment signal, sprawl is penalized.
func databaseScore(tables int) float64 {
	switch {
	case tables == 0:
		return 0.5
	case tables <= 3:
		return 1.0
	case tables <= 5:
		return 0.7
	default:
		return 0.4
	}
}

// isolationScore is one minus the worst file overlap against any other
// surviving candidate.
func isolationScore(arena *extract.Arena, c *cluster.Candidate, all []*cluster.Candidate, self int) float64 {
	maxOverlap := 0.0
	for i, other := range all {
		if i == self {
			continue
		}
		if overlap := cluster.FileOverlap(c, other, arena); overlap > maxOverlap {
			maxOverlap = overlap
		}
	}
	return clamp(1.0 - maxOverlap)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
