package vectorspace

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testArtifact() Artifact {
	return Artifact{
		Vocabulary: map[string]int{"tomato": 0, "soup": 1, "sweet": 2},
		IDF:        []float64{1, 1, 2},
		Lowercase:  true,
		Norm:       "l2",
		Rows: []SparseRow{
			{Indices: []int{0, 1}, Values: []float64{0.6, 0.8}},
			{Indices: []int{2}, Values: []float64{1}},
		},
	}
}

func TestWriteRead_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testArtifact()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	space, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if space.Rows() != 2 || space.Dim() != 3 {
		t.Fatalf("Rows=%d Dim=%d", space.Rows(), space.Dim())
	}
	if got := space.Row(0).At(1); got != 0.8 {
		t.Errorf("Row(0)[1] = %f", got)
	}

	q := space.Embed("Sweet")
	if math.Abs(q.At(2)-1) > 1e-12 || q.NNZ() != 1 {
		t.Errorf("Embed(Sweet) = %v", q)
	}
}

func TestRead_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "{"},
		{"wrong version", `{"version": 2, "vocabulary": {"a": 0}, "rows": []}`},
		{"empty vocabulary", `{"version": 1, "vocabulary": {}, "rows": []}`},
		{"row out of range", `{"version": 1, "vocabulary": {"a": 0}, "rows": [{"indices": [3], "values": [1]}]}`},
		{"row length mismatch", `{"version": 1, "vocabulary": {"a": 0}, "rows": [{"indices": [0], "values": []}]}`},
		{"bad norm", `{"version": 1, "vocabulary": {"a": 0}, "norm": "max", "rows": []}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Read(strings.NewReader(tc.data)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "space.json")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := Write(f, testArtifact()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	f.Close()

	space, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if space.Rows() != 2 {
		t.Errorf("Rows = %d", space.Rows())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
