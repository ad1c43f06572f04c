package recommend

import (
	"strings"

	"github.com/kailas-cloud/recipedex/internal/domain"
	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
)

// Candidate is a recipe that survived filtering, with its catalog row.
type Candidate struct {
	Index  int
	Recipe recipe.Recipe
}

// Filter keeps the recipes whose cleaned tags contain every tag and whose serialized
// ingredient list contains every included term and none of the excluded terms.
// Matching is case-insensitive substring containment. Output keeps catalog order.
// An empty result is domain.ErrNoMatches.
func Filter(c Catalog, tags, include, exclude []string) ([]Candidate, error) {
	tags = lowerTerms(tags)
	include = lowerTerms(include)
	exclude = lowerTerms(exclude)

	var out []Candidate
	for i := 0; i < c.Len(); i++ {
		r := c.Recipe(i)
		if !containsAll(r.TagsCleaned(), tags) {
			continue
		}
		ingredients := strings.ToLower(r.IngredientsText())
		if !containsAll(ingredients, include) || containsAny(ingredients, exclude) {
			continue
		}
		out = append(out, Candidate{Index: i, Recipe: r})
	}

	if len(out) == 0 {
		return nil, domain.ErrNoMatches
	}
	return out, nil
}

func lowerTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func containsAll(s string, terms []string) bool {
	for _, t := range terms {
		if !strings.Contains(s, t) {
			return false
		}
	}
	return true
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
