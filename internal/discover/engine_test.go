package discover

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"vibeflow/internal/config"
	"vibeflow/internal/errors"
	"vibeflow/internal/logging"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Sampling.MaxFiles = 0
	cfg.Storage.Enabled = false
	return cfg
}

func writeFixture(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func discoverIn(t *testing.T, root string) *Result {
	t.Helper()
	engine := NewEngine(testConfig(), logging.Nop())
	result, err := engine.Discover(context.Background(), root)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	return result
}

// Three files with disjoint domains must come out as three boundaries, each
// owning exactly its own file.
func TestDiscoverDisjointDomains(t *testing.T) {
	root := t.TempDir()

	writeFixture(t, root, "user.go", `package app

type User struct {
	ID   int
	Name string
}

func CreateUser(name string) *User {
	return &User{Name: name}
}

func FetchUser(id int) *User {
	return &User{ID: id}
}
`)
	writeFixture(t, root, "product.go", `package app

type Product struct {
	SKU   string
	Label string
}

func ListProducts() []Product {
	return nil
}

func CountProducts() int {
	return 0
}
`)
	writeFixture(t, root, "order.go", `package app

type Order struct {
	Ref   string
	Total int
}

func PlaceOrder(ref string) *Order {
	return &Order{Ref: ref}
}

func CancelOrder(ref string) bool {
	return false
}
`)

	result := discoverIn(t, root)

	if len(result.DiscoveredBoundaries) != 3 {
		t.Fatalf("expected 3 boundaries, got %d: %+v",
			len(result.DiscoveredBoundaries), result.DiscoveredBoundaries)
	}

	byName := map[string][]string{}
	for _, b := range result.DiscoveredBoundaries {
		byName[b.Name] = b.Files
	}

	want := map[string][]string{
		"user":    {"user.go"},
		"product": {"product.go"},
		"order":   {"order.go"},
	}
	for name, files := range want {
		got, ok := byName[name]
		if !ok {
			t.Errorf("missing boundary %q, have %v", name, byName)
			continue
		}
		if !reflect.DeepEqual(got, files) {
			t.Errorf("boundary %q files = %v, want %v", name, got, files)
		}
	}
}

// Two co-located files sharing their domain and call graph must merge into a
// single boundary.
func TestDiscoverMergesCoupledFiles(t *testing.T) {
	root := t.TempDir()

	writeFixture(t, root, "invoice.go", `package app

type Invoice struct {
	Number string
	Total  int
}

func OpenInvoice(number string) *Invoice {
	inv := &Invoice{Number: number}
	SaveInvoice(inv)
	return inv
}
`)
	writeFixture(t, root, "invoice_store.go", `package app

func SaveInvoice(inv *Invoice) {
	LoadInvoice(inv.Number)
}

func LoadInvoice(number string) *Invoice {
	return nil
}
`)

	result := discoverIn(t, root)

	if len(result.DiscoveredBoundaries) != 1 {
		t.Fatalf("expected 1 merged boundary, got %d: %+v",
			len(result.DiscoveredBoundaries), result.DiscoveredBoundaries)
	}

	files := result.DiscoveredBoundaries[0].Files
	sort.Strings(files)
	want := []string{"invoice.go", "invoice_store.go"}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("boundary files = %v, want %v", files, want)
	}
}

// An empty directory yields an empty result with zero confidence, not an error.
func TestDiscoverEmptyProject(t *testing.T) {
	result := discoverIn(t, t.TempDir())

	if len(result.DiscoveredBoundaries) != 0 {
		t.Errorf("boundaries = %+v, want none", result.DiscoveredBoundaries)
	}
	if result.ConfidenceMetrics.OverallConfidence != 0 {
		t.Errorf("overall confidence = %v, want 0", result.ConfidenceMetrics.OverallConfidence)
	}
	if result.FilesScanned != 0 {
		t.Errorf("files scanned = %d, want 0", result.FilesScanned)
	}
}

// Two unrelated nodes in one small directory fall below every strategy's
// floor and produce no boundaries.
func TestDiscoverBelowAllFloors(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "widgets/alpha.go", `package widgets

func Blorp() {}
`)
	writeFixture(t, root, "widgets/beta.go", `package widgets

func Quux() {}
`)

	result := discoverIn(t, root)

	if len(result.DiscoveredBoundaries) != 0 {
		t.Errorf("expected zero boundaries, got %+v", result.DiscoveredBoundaries)
	}
	if result.NodesExtracted != 2 {
		t.Errorf("nodes extracted = %d, want 2", result.NodesExtracted)
	}
}

func TestDiscoverConfidenceInvariants(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "user.go", `package app

type User struct {
	ID int
}

func CreateUser() *User { return nil }

func FetchUser() *User { return nil }
`)
	writeFixture(t, root, "payment.go", `package app

type Payment struct {
	Amount int
}

func TakePayment() *Payment { return nil }

func RefundPayment() *Payment { return nil }
`)

	result := discoverIn(t, root)

	boundaries := result.DiscoveredBoundaries
	for i, b := range boundaries {
		if b.Confidence < 0 || b.Confidence > 100 {
			t.Errorf("boundary %q confidence = %v, out of [0,100]", b.Name, b.Confidence)
		}
		if i > 0 && boundaries[i-1].Confidence < b.Confidence {
			t.Error("boundary list is not sorted non-increasing by confidence")
		}
	}
}

func TestDiscoverIdempotent(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "user.go", `package app

type User struct {
	ID int
}

func CreateUser() *User { return nil }

func FetchUser() *User { return nil }
`)

	first := discoverIn(t, root)
	second := discoverIn(t, root)

	if len(first.DiscoveredBoundaries) != len(second.DiscoveredBoundaries) {
		t.Fatalf("boundary count changed between runs: %d vs %d",
			len(first.DiscoveredBoundaries), len(second.DiscoveredBoundaries))
	}
	for i := range first.DiscoveredBoundaries {
		a, b := first.DiscoveredBoundaries[i], second.DiscoveredBoundaries[i]
		if a.Name != b.Name || a.Confidence != b.Confidence || !reflect.DeepEqual(a.Files, b.Files) {
			t.Errorf("boundary %d differs between runs:\n%+v\n%+v", i, a, b)
		}
	}
}

func TestDiscoverDeclaredBoundaryPinned(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "widgets/alpha.go", `package widgets

func Blorp() {}
`)
	writeFixture(t, root, "widgets/beta.go", `package widgets

func Quux() {}
`)
	writeFixture(t, root, "BOUNDARIES.toml", `version = 1

[[boundary]]
name = "widgets"
description = "widget rendering"
files = ["widgets/**"]
`)

	result := discoverIn(t, root)

	if len(result.DiscoveredBoundaries) != 1 {
		t.Fatalf("expected the declared boundary, got %+v", result.DiscoveredBoundaries)
	}
	b := result.DiscoveredBoundaries[0]
	if b.Name != "widgets" || b.Confidence != 100 {
		t.Errorf("declared boundary = %+v, want widgets at 100", b)
	}
	if b.Description != "widget rendering" {
		t.Errorf("description = %q", b.Description)
	}
}

func TestDiscoverCancelledContext(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "user.go", `package app

func CreateUser() {}
`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := NewEngine(testConfig(), logging.Nop())
	result, err := engine.Discover(ctx, root)
	if err == nil {
		t.Fatal("expected a timeout error for a cancelled context")
	}
	derr, ok := err.(*errors.DiscoveryError)
	if !ok || derr.Code != errors.Timeout {
		t.Errorf("error = %v, want Timeout code", err)
	}
	if result == nil || !result.Partial {
		t.Errorf("result = %+v, want partial result", result)
	}
}

func TestResultRoundTrip(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "user.go", `package app

type User struct {
	ID int
}

func CreateUser() *User { return nil }

func FetchUser() *User { return nil }
`)

	result := discoverIn(t, root)

	encoded, err := result.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	parsed, err := ParseResult(encoded)
	if err != nil {
		t.Fatalf("ParseResult: %v", err)
	}

	reencoded, err := parsed.Encode()
	if err != nil {
		t.Fatalf("re-Encode: %v", err)
	}

	if !bytes.Equal(encoded, reencoded) {
		t.Errorf("round trip changed encoding:\n%s\n%s", encoded, reencoded)
	}
}

func TestDiscoverOrphanedFiles(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "user.go", `package app

type User struct {
	ID int
}

func CreateUser() *User { return nil }

func FetchUser() *User { return nil }
`)
	// A file whose nodes join no boundary
	writeFixture(t, root, "zz_lonely.go", `package app

func Zzzyx() {}
`)

	result := discoverIn(t, root)

	found := false
	for _, f := range result.ClusteringAnalysis.OrphanedFiles {
		if f == "zz_lonely.go" {
			found = true
		}
	}
	if !found {
		t.Errorf("orphaned files = %v, want zz_lonely.go present",
			result.ClusteringAnalysis.OrphanedFiles)
	}
}
