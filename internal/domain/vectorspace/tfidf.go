package vectorspace

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// Space is the read-only contract of a prebuilt vector space: a weighting transform
// for free text plus one precomputed vector per catalog row.
type Space interface {
	Embed(text string) Vector
	Row(i int) Vector
	Rows() int
	Dim() int
}

// Norm selects the per-vector normalization applied by the weighting transform.
type Norm string

const (
	// NormL2 scales vectors to unit Euclidean length.
	NormL2 Norm = "l2"
	// NormL1 scales vectors to unit absolute sum.
	NormL1 Norm = "l1"
	// NormNone leaves weights unscaled.
	NormNone Norm = "none"
)

// DefaultTokenPattern matches runs of two or more word characters.
const DefaultTokenPattern = `[\p{L}\p{N}_]{2,}`

// Params describes the weighting transform of a TF-IDF space.
type Params struct {
	Vocabulary   map[string]int
	IDF          []float64 // nil disables idf weighting
	Lowercase    bool
	SublinearTF  bool
	Norm         Norm
	NgramMax     int
	StopWords    []string
	TokenPattern string
}

// TFIDF is an immutable term-frequency / inverse-document-frequency vector space.
type TFIDF struct {
	vocabulary  map[string]int
	idf         []float64
	lowercase   bool
	sublinearTF bool
	norm        Norm
	ngramMax    int
	stopWords   map[string]struct{}
	token       *regexp.Regexp
	rows        []Vector
}

var _ Space = (*TFIDF)(nil)

// NewTFIDF validates params and rows and creates the space.
// Every row index must fall inside the vocabulary dimension.
func NewTFIDF(p Params, rows []Vector) (*TFIDF, error) {
	if len(p.Vocabulary) == 0 {
		return nil, fmt.Errorf("vocabulary is empty")
	}
	dim := len(p.Vocabulary)
	seen := make([]bool, dim)
	for term, idx := range p.Vocabulary {
		if idx < 0 || idx >= dim {
			return nil, fmt.Errorf("term %q index %d out of range [0,%d)", term, idx, dim)
		}
		if seen[idx] {
			return nil, fmt.Errorf("index %d assigned to more than one term", idx)
		}
		seen[idx] = true
	}
	if p.IDF != nil && len(p.IDF) != dim {
		return nil, fmt.Errorf("idf length %d does not match vocabulary size %d", len(p.IDF), dim)
	}

	norm := p.Norm
	switch norm {
	case "":
		norm = NormL2
	case NormL2, NormL1, NormNone:
	default:
		return nil, fmt.Errorf("unknown norm %q", p.Norm)
	}

	ngramMax := p.NgramMax
	if ngramMax <= 0 {
		ngramMax = 1
	}

	pattern := p.TokenPattern
	if pattern == "" {
		pattern = DefaultTokenPattern
	}
	token, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile token pattern: %w", err)
	}

	for i, r := range rows {
		if r.MaxIndex() >= dim {
			return nil, fmt.Errorf("row %d index %d exceeds dimension %d", i, r.MaxIndex(), dim)
		}
	}

	stop := make(map[string]struct{}, len(p.StopWords))
	for _, w := range p.StopWords {
		if p.Lowercase {
			w = strings.ToLower(w)
		}
		stop[w] = struct{}{}
	}

	vocab := make(map[string]int, dim)
	for k, v := range p.Vocabulary {
		vocab[k] = v
	}
	var idf []float64
	if p.IDF != nil {
		idf = make([]float64, dim)
		copy(idf, p.IDF)
	}

	return &TFIDF{
		vocabulary:  vocab,
		idf:         idf,
		lowercase:   p.Lowercase,
		sublinearTF: p.SublinearTF,
		norm:        norm,
		ngramMax:    ngramMax,
		stopWords:   stop,
		token:       token,
		rows:        append([]Vector(nil), rows...),
	}, nil
}

// Rows returns the number of precomputed row vectors.
func (s *TFIDF) Rows() int { return len(s.rows) }

// Dim returns the vocabulary dimension.
func (s *TFIDF) Dim() int { return len(s.vocabulary) }

// Row returns the precomputed vector at row i. Panics when i is out of range.
func (s *TFIDF) Row(i int) Vector { return s.rows[i] }

// Embed maps free text to a weighted vector. Out-of-vocabulary terms are ignored,
// so text sharing no terms with the vocabulary embeds to the zero vector.
func (s *TFIDF) Embed(text string) Vector {
	counts := make(map[int]float64)
	for _, term := range s.terms(text) {
		if idx, ok := s.vocabulary[term]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return Vector{}
	}

	indices := make([]int, 0, len(counts))
	values := make([]float64, 0, len(counts))
	for idx, tf := range counts {
		w := tf
		if s.sublinearTF {
			w = 1 + math.Log(tf)
		}
		if s.idf != nil {
			w *= s.idf[idx]
		}
		indices = append(indices, idx)
		values = append(values, w)
	}
	s.normalize(values)

	v, err := NewVector(indices, values)
	if err != nil {
		// unreachable: indices come from a validated vocabulary
		return Vector{}
	}
	return v
}

func (s *TFIDF) normalize(values []float64) {
	var total float64
	switch s.norm {
	case NormL2:
		for _, x := range values {
			total += x * x
		}
		total = math.Sqrt(total)
	case NormL1:
		for _, x := range values {
			total += math.Abs(x)
		}
	default:
		return
	}
	if total == 0 {
		return
	}
	for i := range values {
		values[i] /= total
	}
}

// terms tokenizes text into unigrams and word n-grams up to ngramMax.
func (s *TFIDF) terms(text string) []string {
	if s.lowercase {
		text = strings.ToLower(text)
	}
	raw := s.token.FindAllString(text, -1)
	tokens := raw[:0]
	for _, t := range raw {
		if _, stop := s.stopWords[t]; !stop {
			tokens = append(tokens, t)
		}
	}

	out := make([]string, 0, len(tokens)*s.ngramMax)
	for n := 1; n <= s.ngramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}
