package storage

import (
	"path/filepath"
	"testing"

	"vibeflow/internal/discover"
	"vibeflow/internal/errors"
	"vibeflow/internal/logging"
	"vibeflow/internal/score"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history", "runs.db"), logging.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleResult(runID, generatedAt string) *discover.Result {
	return &discover.Result{
		RunID:          runID,
		Root:           "/src/shop",
		GeneratedAt:    generatedAt,
		FilesScanned:   12,
		NodesExtracted: 40,
		DiscoveredBoundaries: []discover.Boundary{
			{
				Name:             "billing",
				Confidence:       82.5,
				Files:            []string{"billing.go"},
				SemanticKeywords: []string{"invoice"},
			},
		},
		ConfidenceMetrics: score.Metrics{OverallConfidence: 0.825},
	}
}

func TestSaveAndLoadRun(t *testing.T) {
	store := openTestStore(t)

	saved := sampleResult("run-1", "2026-08-26T10:00:00Z")
	if err := store.SaveRun(saved); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	loaded, err := store.LoadRun("run-1")
	if err != nil {
		t.Fatalf("LoadRun: %v", err)
	}
	if loaded.RunID != saved.RunID || loaded.Root != saved.Root {
		t.Errorf("loaded = %+v, want %+v", loaded, saved)
	}
	if len(loaded.DiscoveredBoundaries) != 1 ||
		loaded.DiscoveredBoundaries[0].Name != "billing" ||
		loaded.DiscoveredBoundaries[0].Confidence != 82.5 {
		t.Errorf("boundaries = %+v", loaded.DiscoveredBoundaries)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	store := openTestStore(t)

	for _, run := range []struct{ id, at string }{
		{"run-old", "2026-08-24T10:00:00Z"},
		{"run-new", "2026-08-26T10:00:00Z"},
		{"run-mid", "2026-08-25T10:00:00Z"},
	} {
		if err := store.SaveRun(sampleResult(run.id, run.at)); err != nil {
			t.Fatalf("SaveRun(%s): %v", run.id, err)
		}
	}

	runs, err := store.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("listed %d runs, want 3", len(runs))
	}
	order := []string{runs[0].RunID, runs[1].RunID, runs[2].RunID}
	want := []string{"run-new", "run-mid", "run-old"}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("run order = %v, want %v", order, want)
			break
		}
	}
	if runs[0].Boundaries != 1 || runs[0].OverallConfidence != 0.825 {
		t.Errorf("summary = %+v", runs[0])
	}
}

func TestListRunsLimit(t *testing.T) {
	store := openTestStore(t)

	if err := store.SaveRun(sampleResult("run-1", "2026-08-25T10:00:00Z")); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveRun(sampleResult("run-2", "2026-08-26T10:00:00Z")); err != nil {
		t.Fatal(err)
	}

	runs, err := store.ListRuns(1)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].RunID != "run-2" {
		t.Errorf("runs = %+v, want only run-2", runs)
	}
}

func TestSaveRunReplacesExisting(t *testing.T) {
	store := openTestStore(t)

	if err := store.SaveRun(sampleResult("run-1", "2026-08-26T10:00:00Z")); err != nil {
		t.Fatal(err)
	}
	updated := sampleResult("run-1", "2026-08-26T11:00:00Z")
	updated.FilesScanned = 99
	if err := store.SaveRun(updated); err != nil {
		t.Fatal(err)
	}

	runs, err := store.ListRuns(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("listed %d runs after replace, want 1", len(runs))
	}

	loaded, err := store.LoadRun("run-1")
	if err != nil {
		t.Fatal(err)
	}
	if loaded.FilesScanned != 99 {
		t.Errorf("files scanned = %d, want replaced value 99", loaded.FilesScanned)
	}
}

func TestLoadMissingRun(t *testing.T) {
	store := openTestStore(t)

	_, err := store.LoadRun("no-such-run")
	if err == nil {
		t.Fatal("expected error for unknown run ID")
	}
	derr, ok := err.(*errors.DiscoveryError)
	if !ok || derr.Code != errors.StorageFailure {
		t.Errorf("error = %v, want StorageFailure code", err)
	}
}

func TestOpenNilLogger(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "runs.db"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	if err := store.SaveRun(sampleResult("run-1", "2026-08-26T10:00:00Z")); err != nil {
		t.Errorf("SaveRun with nil logger: %v", err)
	}
}

func TestOpenCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "c", "runs.db")
	store, err := Open(path, logging.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	if err := store.SaveRun(sampleResult("run-1", "2026-08-26T10:00:00Z")); err != nil {
		t.Errorf("SaveRun after nested create: %v", err)
	}
}
