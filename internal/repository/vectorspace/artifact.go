// Package vectorspace reads and writes the prebuilt vector space artifact.
package vectorspace

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/kailas-cloud/recipedex/internal/domain/vectorspace"
)

// FormatVersion is the artifact schema version this package reads and writes.
const FormatVersion = 1

// Artifact is the on-disk JSON form of a TF-IDF space.
type Artifact struct {
	Version      int            `json:"version"`
	Vocabulary   map[string]int `json:"vocabulary"`
	IDF          []float64      `json:"idf,omitempty"`
	Lowercase    bool           `json:"lowercase"`
	SublinearTF  bool           `json:"sublinear_tf,omitempty"`
	Norm         string         `json:"norm,omitempty"`
	NgramMax     int            `json:"ngram_max,omitempty"`
	StopWords    []string       `json:"stop_words,omitempty"`
	TokenPattern string         `json:"token_pattern,omitempty"`
	Rows         []SparseRow    `json:"rows"`
}

// SparseRow is one precomputed corpus vector.
type SparseRow struct {
	Indices []int     `json:"indices"`
	Values  []float64 `json:"values"`
}

// Load reads and validates the artifact at path.
func Load(path string) (*vectorspace.TFIDF, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read decodes and validates an artifact.
func Read(r io.Reader) (*vectorspace.TFIDF, error) {
	var a Artifact
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	if a.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported artifact version %d (want %d)", a.Version, FormatVersion)
	}

	rows := make([]vectorspace.Vector, len(a.Rows))
	for i, sr := range a.Rows {
		v, err := vectorspace.NewVector(sr.Indices, sr.Values)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows[i] = v
	}

	space, err := vectorspace.NewTFIDF(vectorspace.Params{
		Vocabulary:   a.Vocabulary,
		IDF:          a.IDF,
		Lowercase:    a.Lowercase,
		SublinearTF:  a.SublinearTF,
		Norm:         vectorspace.Norm(a.Norm),
		NgramMax:     a.NgramMax,
		StopWords:    a.StopWords,
		TokenPattern: a.TokenPattern,
	}, rows)
	if err != nil {
		return nil, fmt.Errorf("build space: %w", err)
	}
	return space, nil
}

// Write encodes a as JSON, stamping the current format version.
func Write(w io.Writer, a Artifact) error {
	a.Version = FormatVersion
	if err := json.NewEncoder(w).Encode(a); err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	return nil
}
