package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCanonicalize(t *testing.T) {
	root := t.TempDir()
	abs := filepath.Join(root, "internal", "billing", "invoice.go")
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte("package billing"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Canonicalize(abs, root)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	if got != "internal/billing/invoice.go" {
		t.Errorf("Canonicalize = %q", got)
	}
}

func TestCanonicalizeMissingPath(t *testing.T) {
	root := t.TempDir()
	got, err := Canonicalize(filepath.Join(root, "gone.go"), root)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	if got != "gone.go" {
		t.Errorf("Canonicalize = %q", got)
	}
}

func TestDir(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"internal/billing/invoice.go", "internal/billing"},
		{"main.go", "."},
		{"pkg/a.go", "pkg"},
	}
	for _, tt := range tests {
		if got := Dir(tt.path); got != tt.want {
			t.Errorf("Dir(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestDirName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"internal/billing/invoice.go", "billing"},
		{"main.go", "."},
		{"pkg/a.go", "pkg"},
	}
	for _, tt := range tests {
		if got := DirName(tt.path); got != tt.want {
			t.Errorf("DirName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestDepth(t *testing.T) {
	tests := []struct {
		path string
		want int
	}{
		{"main.go", 0},
		{"pkg/a.go", 1},
		{"a/b/c/d.go", 3},
		{"", 0},
	}
	for _, tt := range tests {
		if got := Depth(tt.path); got != tt.want {
			t.Errorf("Depth(%q) = %d, want %d", tt.path, got, tt.want)
		}
	}
}
