package recommend

import (
	"fmt"
	"testing"

	"vibeflow/internal/cluster"
	"vibeflow/internal/extract"
	"vibeflow/internal/score"
)

func arenaOf(files map[string][]string) *extract.Arena {
	arena := extract.NewArena()
	for file, names := range files {
		fs := &extract.FileStructure{Path: file}
		for i, name := range names {
			fs.Functions = append(fs.Functions, extract.DeclarationNode{
				Kind: extract.KindFunction,
				Name: name,
				File: file,
				Line: i*4 + 1,
			})
		}
		arena.AddFile(fs)
	}
	arena.Sort()
	return arena
}

func scored(c *cluster.Candidate) score.Scored {
	return score.Scored{Candidate: c, Confidence: score.Breakdown{Total: 0.7}}
}

func TestAnalyzeProposesMergeOnFileOverlap(t *testing.T) {
	arena := arenaOf(map[string][]string{
		"shared.go": {"AlphaOne", "BetaOne"},
		"alpha.go":  {"AlphaTwo"},
	})

	// alpha.go < shared.go in arena order
	a := cluster.NewCandidate("alpha", "semantic", []int{0, 1})
	b := cluster.NewCandidate("beta", "semantic", []int{2})

	recs := Analyze(arena, []score.Scored{scored(a), scored(b)})
	if len(recs) != 1 {
		t.Fatalf("expected 1 recommendation, got %d: %v", len(recs), recs)
	}

	rec := recs[0]
	if rec.Type != "merge" {
		t.Errorf("type = %q, want merge", rec.Type)
	}
	if rec.Difficulty != "medium" {
		t.Errorf("difficulty = %q, want medium", rec.Difficulty)
	}
	if len(rec.Boundaries) != 2 {
		t.Errorf("boundaries = %v", rec.Boundaries)
	}
}

func TestAnalyzeProposesMergeOnKeywordSimilarity(t *testing.T) {
	arena := arenaOf(map[string][]string{
		"a.go": {"AlphaOne"},
		"b.go": {"BetaOne"},
	})

	a := cluster.NewCandidate("payments", "semantic", []int{0})
	a.AddKeyword("payment")
	a.AddKeyword("invoice")
	b := cluster.NewCandidate("billing", "semantic", []int{1})
	b.AddKeyword("payment")
	b.AddKeyword("invoice")

	recs := Analyze(arena, []score.Scored{scored(a), scored(b)})
	if len(recs) != 1 || recs[0].Type != "merge" {
		t.Fatalf("expected keyword-overlap merge, got %v", recs)
	}
}

func TestAnalyzeProposesSplitOnWideBoundary(t *testing.T) {
	files := map[string][]string{}
	for i := 0; i < 25; i++ {
		files[fmt.Sprintf("pkg/file%02d.go", i)] = []string{fmt.Sprintf("Handler%02d", i)}
	}
	arena := arenaOf(files)

	members := make([]int, arena.Len())
	for i := range members {
		members[i] = i
	}
	wide := cluster.NewCandidate("everything", "directory", members)

	recs := Analyze(arena, []score.Scored{scored(wide)})
	if len(recs) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(recs))
	}
	if recs[0].Type != "split" || recs[0].Difficulty != "high" {
		t.Errorf("got %+v, want high-difficulty split", recs[0])
	}
}

func TestAnalyzeQuietOnCleanBoundaries(t *testing.T) {
	arena := arenaOf(map[string][]string{
		"user.go":  {"CreateUser"},
		"order.go": {"PlaceOrder"},
	})

	a := cluster.NewCandidate("user", "semantic", []int{1})
	a.AddKeyword("user")
	b := cluster.NewCandidate("order", "semantic", []int{0})
	b.AddKeyword("order")

	recs := Analyze(arena, []score.Scored{scored(a), scored(b)})
	if len(recs) != 0 {
		t.Errorf("expected no recommendations, got %v", recs)
	}
}
