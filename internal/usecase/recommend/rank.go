package recommend

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/recipedex/internal/domain"
	"github.com/kailas-cloud/recipedex/internal/domain/vectorspace"
)

// Ranked is a candidate with its cosine similarity to the query.
type Ranked struct {
	Candidate
	Score float64
}

// Rank orders candidates by descending cosine similarity between the embedded query text
// and each candidate's precomputed row. Ties keep their input order.
func Rank(c Catalog, candidates []Candidate, text string) ([]Ranked, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewValidationError("query text is empty")
	}

	q := c.Embed(text)
	out := make([]Ranked, len(candidates))
	for i, cand := range candidates {
		out[i] = Ranked{Candidate: cand, Score: vectorspace.Cosine(q, c.Row(cand.Index))}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out, nil
}
