package output

import (
	"strings"
	"testing"
)

type sample struct {
	Name     string            `json:"name"`
	Score    float64           `json:"score"`
	Files    []string          `json:"files"`
	Optional string            `json:"optional,omitempty"`
	Labels   map[string]string `json:"labels,omitempty"`
}

func TestDeterministicEncodeStable(t *testing.T) {
	v := sample{
		Name:  "billing",
		Score: 0.123456789,
		Files: []string{"a.go", "b.go"},
		Labels: map[string]string{
			"zeta":  "1",
			"alpha": "2",
		},
	}

	first, err := DeterministicEncode(v)
	if err != nil {
		t.Fatal(err)
	}
	second, err := DeterministicEncode(v)
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Errorf("encoding is not stable:\n%s\n%s", first, second)
	}

	// Map keys sorted by the JSON encoder
	out := string(first)
	if strings.Index(out, `"alpha"`) > strings.Index(out, `"zeta"`) {
		t.Errorf("map keys not sorted: %s", out)
	}
}

func TestDeterministicEncodeRoundsFloats(t *testing.T) {
	data, err := DeterministicEncode(sample{Name: "x", Score: 0.123456789})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "0.123457") {
		t.Errorf("float not rounded to 6 decimals: %s", data)
	}
	if strings.Contains(string(data), "0.123456789") {
		t.Errorf("unrounded float leaked: %s", data)
	}
}

func TestDeterministicEncodeNilSliceAsEmpty(t *testing.T) {
	data, err := DeterministicEncode(sample{Name: "x"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"files":[]`) {
		t.Errorf("nil slice must encode as []: %s", data)
	}
}

func TestDeterministicEncodeOmitEmpty(t *testing.T) {
	data, err := DeterministicEncode(sample{Name: "x"})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "optional") {
		t.Errorf("empty omitempty field present: %s", data)
	}
	if strings.Contains(string(data), "labels") {
		t.Errorf("empty omitempty map present: %s", data)
	}
}

func TestEncodeYAML(t *testing.T) {
	data, err := EncodeYAML(sample{Name: "billing", Files: []string{"a.go"}})
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "name: billing") {
		t.Errorf("unexpected YAML: %s", out)
	}
}

func TestRoundFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.1234564, 0.123456},
		{0.1234566, 0.123457},
		{1.0, 1.0},
		{0, 0},
	}
	for _, tt := range tests {
		if got := RoundFloat(tt.in); got != tt.want {
			t.Errorf("RoundFloat(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
