package scan

import (
	"fmt"
	"reflect"
	"testing"
)

func filesOf(paths ...string) []FileInfo {
	files := make([]FileInfo, len(paths))
	for i, p := range paths {
		files[i] = FileInfo{Path: p, Size: 1000}
	}
	return files
}

func TestStrideSampler(t *testing.T) {
	var files []FileInfo
	for i := 0; i < 10; i++ {
		files = append(files, FileInfo{Path: fmt.Sprintf("f%02d.go", i)})
	}

	s := &StrideSampler{}
	got := s.Sample(files, 5)
	if len(got) != 5 {
		t.Fatalf("sampled %d files, want 5", len(got))
	}

	want := []string{"f00.go", "f02.go", "f04.go", "f06.go", "f08.go"}
	for i, f := range got {
		if f.Path != want[i] {
			t.Errorf("sample[%d] = %s, want %s", i, f.Path, want[i])
		}
	}
}

func TestStrideSamplerNoOp(t *testing.T) {
	files := filesOf("a.go", "b.go")
	s := &StrideSampler{}

	if got := s.Sample(files, 10); !reflect.DeepEqual(got, files) {
		t.Errorf("under-cap input must pass through unchanged")
	}
	if got := s.Sample(files, 0); !reflect.DeepEqual(got, files) {
		t.Errorf("max <= 0 must disable sampling")
	}
}

func TestImportanceSamplerPrefersSignalFiles(t *testing.T) {
	files := []FileInfo{
		{Path: "a/b/c/d/e/f/g/deep.go", Size: 1000},
		{Path: "user_service.go", Size: 1000},
		{Path: "order_handler.go", Size: 1000},
		{Path: "x/misc.go", Size: 10},
	}

	s := &ImportanceSampler{}
	got := s.Sample(files, 2)

	want := []string{"order_handler.go", "user_service.go"}
	paths := []string{got[0].Path, got[1].Path}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("Sample = %v, want %v", paths, want)
	}
}

func TestImportanceSamplerDeterministic(t *testing.T) {
	var files []FileInfo
	for i := 0; i < 30; i++ {
		files = append(files, FileInfo{Path: fmt.Sprintf("pkg/file%02d.go", i), Size: 1000})
	}

	s := &ImportanceSampler{}
	first := s.Sample(files, 10)
	second := s.Sample(files, 10)
	if !reflect.DeepEqual(first, second) {
		t.Error("importance sampling is not deterministic")
	}
}

func TestImportanceBounds(t *testing.T) {
	tests := []FileInfo{
		{Path: "service.go", Size: 1000},
		{Path: "a/b/c/d/e/f/g/h/deep.go", Size: 600_000},
		{Path: "tiny.go", Size: 1},
	}
	for _, f := range tests {
		score := Importance(f)
		if score < 0 || score > 1 {
			t.Errorf("Importance(%s) = %v, out of [0,1]", f.Path, score)
		}
	}
}
