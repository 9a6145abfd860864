package extract

import (
	"testing"
)

type stubExtractor struct {
	name string
}

func (s *stubExtractor) Name() string { return s.name }
func (s *stubExtractor) Extract(content []byte, path string) (*FileStructure, error) {
	return &FileStructure{Path: path}, nil
}

func TestRegistryDispatchByExtension(t *testing.T) {
	r := NewRegistry()
	py := &stubExtractor{name: "python-stub"}
	r.Register(".py", py)

	if got := r.ForFile("pkg/models.py"); got != py {
		t.Errorf("ForFile(.py) = %s, want the registered extractor", got.Name())
	}
	// Extension matching ignores case
	if got := r.ForFile("pkg/MODELS.PY"); got != py {
		t.Errorf("ForFile(.PY) = %s, want the registered extractor", got.Name())
	}
}

func TestRegistryFallback(t *testing.T) {
	r := NewRegistry()

	for _, path := range []string{"notes.txt", "Makefile", "svc.rb"} {
		e := r.ForFile(path)
		if e == nil {
			t.Fatalf("ForFile(%s) = nil", path)
		}
		if e.Name() != "heuristic" {
			t.Errorf("ForFile(%s) = %s, want the heuristic fallback", path, e.Name())
		}
	}
}

func TestRegistryGoDispatch(t *testing.T) {
	// Go always resolves to a working extractor: tree-sitter when the build
	// supports it, heuristic otherwise.
	e := NewRegistry().ForFile("cmd/main.go")
	if e == nil {
		t.Fatal("ForFile(.go) = nil")
	}

	fs, err := e.Extract([]byte("package main\n\nfunc Run() {}\n"), "cmd/main.go")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(fs.Functions) != 1 || fs.Functions[0].Name != "Run" {
		t.Errorf("functions = %+v, want Run", fs.Functions)
	}
}

func TestRegistryRegisterOverride(t *testing.T) {
	r := NewRegistry()
	override := &stubExtractor{name: "override"}
	r.Register(".go", override)

	if got := r.ForFile("main.go"); got != override {
		t.Errorf("ForFile after override = %s, want override", got.Name())
	}
}
