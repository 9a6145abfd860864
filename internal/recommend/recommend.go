// Package recommend derives follow-up actions from the final boundary set.
package recommend

import (
	"fmt"

	"vibeflow/internal/cluster"
	"vibeflow/internal/extract"
	"vibeflow/internal/score"
)

// Recommendation proposes a structural action over discovered boundaries.
// It is advisory output only and never feeds back into clustering.
type Recommendation struct {
	Type            string   `json:"type"`
	Boundaries      []string `json:"boundaries"`
	Reason          string   `json:"reason"`
	ExpectedBenefit string   `json:"expected_benefit"`
	Difficulty      string   `json:"implementation_difficulty"`
}

// Thresholds for proposing actions. Merges fire on residual coupling that
// survived the merger; splits fire on boundaries too broad to own.
const (
	mergeOverlapThreshold = 0.3
	mergeKeywordThreshold = 0.7
	splitFileThreshold    = 20
	splitKeywordThreshold = 5
)

// Analyze walks the ranked boundaries pairwise and returns recommendations
// in deterministic order: merges first, then splits, each in boundary order.
func Analyze(arena *extract.Arena, ranked []score.Scored) []Recommendation {
	var recs []Recommendation

	for i := 0; i < len(ranked); i++ {
		for j := i + 1; j < len(ranked); j++ {
			a, b := ranked[i].Candidate, ranked[j].Candidate
			if rec, ok := mergeProposal(arena, a, b); ok {
				recs = append(recs, rec)
			}
		}
	}

	for _, r := range ranked {
		if rec, ok := splitProposal(arena, r.Candidate); ok {
			recs = append(recs, rec)
		}
	}

	return recs
}

func mergeProposal(arena *extract.Arena, a, b *cluster.Candidate) (Recommendation, bool) {
	overlap := cluster.FileOverlap(a, b, arena)
	keywords := cluster.TokenJaccard(a.Keywords, b.Keywords)

	var reason string
	switch {
	case overlap > mergeOverlapThreshold:
		reason = fmt.Sprintf("boundaries share %.0f%% of their files", overlap*100)
	case keywords > mergeKeywordThreshold:
		reason = fmt.Sprintf("boundaries share %.0f%% of their domain keywords", keywords*100)
	default:
		return Recommendation{}, false
	}

	return Recommendation{
		Type:            "merge",
		Boundaries:      []string{a.Name, b.Name},
		Reason:          reason,
		ExpectedBenefit: "one module owns the shared concern instead of two coupled ones",
		Difficulty:      "medium",
	}, true
}

func splitProposal(arena *extract.Arena, c *cluster.Candidate) (Recommendation, bool) {
	files := len(c.Files(arena))
	keywords := len(c.Keywords)

	var reason string
	switch {
	case files > splitFileThreshold:
		reason = fmt.Sprintf("boundary spans %d files", files)
	case keywords > splitKeywordThreshold:
		reason = fmt.Sprintf("boundary mixes %d domain concerns", keywords)
	default:
		return Recommendation{}, false
	}

	return Recommendation{
		Type:            "split",
		Boundaries:      []string{c.Name},
		Reason:          reason,
		ExpectedBenefit: "smaller boundaries are easier to extract and review",
		Difficulty:      "high",
	}, true
}
