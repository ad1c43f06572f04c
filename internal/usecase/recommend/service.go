package recommend

import (
	"fmt"

	"github.com/kailas-cloud/recipedex/internal/domain"
	"github.com/kailas-cloud/recipedex/internal/domain/preference"
	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
	"github.com/kailas-cloud/recipedex/internal/domain/selection"
	"github.com/kailas-cloud/recipedex/internal/domain/substitution"
)

// Default result limits.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Limits caps the number of recommendations returned per request.
type Limits struct {
	Default int
	Max     int
}

// Request is a single recommendation request.
type Request struct {
	Query          preference.Query
	Budget         *selection.Budget // nil skips the nutrition selector
	Conditions     []substitution.Condition
	Limit          int  // 0 uses the default
	Unlimited      bool // return the whole ranked set, Limit is ignored
	RawIngredients bool // skip substitution, ingredients are returned as stored
}

// Recommendation is a ranked recipe with its ingredients rewritten for the active conditions.
type Recommendation struct {
	Ranked
	Ingredients   []string
	Substitutions []substitution.Change
}

// Service runs the filter, rank, select and substitute pipeline over a catalog.
type Service struct {
	catalog Catalog
	limits  Limits
}

// New creates a recommendation service. Zero limits fall back to the defaults.
func New(c Catalog, limits Limits) *Service {
	if limits.Default <= 0 {
		limits.Default = DefaultLimit
	}
	if limits.Max <= 0 {
		limits.Max = MaxLimit
	}
	if limits.Default > limits.Max {
		limits.Default = limits.Max
	}
	return &Service{catalog: c, limits: limits}
}

// FilterAndRank filters the catalog by the query terms and ranks the survivors by
// similarity to the query text.
func (s *Service) FilterAndRank(q preference.Query) ([]Ranked, error) {
	text := q.Text()
	if text == "" {
		return nil, domain.NewValidationError("at least one preference is required")
	}

	candidates, err := Filter(s.catalog, q.Tags(), q.Include(), q.Exclude())
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}

	ranked, err := Rank(s.catalog, candidates, text)
	if err != nil {
		return nil, fmt.Errorf("rank: %w", err)
	}
	return ranked, nil
}

// SelectWithinBudget runs the greedy nutrition selector over ranked recipes.
func (s *Service) SelectWithinBudget(ranked []Ranked, b selection.Budget) []Ranked {
	return selection.Select(ranked, func(r Ranked) recipe.Nutrition {
		return r.Recipe.Nutrition()
	}, b)
}

// ApplySubstitutions rewrites ingredients for the active conditions.
func (s *Service) ApplySubstitutions(ingredients []string, conditions []substitution.Condition) []string {
	return substitution.Apply(ingredients, conditions)
}

// Recommend runs the whole pipeline and truncates the result to the request limit.
func (s *Service) Recommend(req Request) ([]Recommendation, error) {
	limit := 0
	if !req.Unlimited {
		var err error
		if limit, err = s.limit(req.Limit); err != nil {
			return nil, err
		}
	}

	ranked, err := s.FilterAndRank(req.Query)
	if err != nil {
		return nil, err
	}
	if req.Budget != nil {
		ranked = s.SelectWithinBudget(ranked, *req.Budget)
		if len(ranked) == 0 {
			return nil, fmt.Errorf("select: %w", domain.ErrNoMatches)
		}
	}
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]Recommendation, len(ranked))
	for i, r := range ranked {
		original := r.Recipe.Ingredients()
		if req.RawIngredients {
			out[i] = Recommendation{Ranked: r, Ingredients: original}
			continue
		}
		rewritten := s.ApplySubstitutions(original, req.Conditions)
		out[i] = Recommendation{
			Ranked:        r,
			Ingredients:   rewritten,
			Substitutions: substitution.Changes(original, rewritten),
		}
	}
	return out, nil
}

// Recipe returns a catalog recipe by id.
func (s *Service) Recipe(id int) (recipe.Recipe, error) {
	return s.catalog.ByID(id)
}

func (s *Service) limit(requested int) (int, error) {
	switch {
	case requested == 0:
		return s.limits.Default, nil
	case requested < 0:
		return 0, domain.NewValidationError("limit must be positive")
	case requested > s.limits.Max:
		return 0, domain.NewValidationError(fmt.Sprintf("limit must be <= %d", s.limits.Max))
	}
	return requested, nil
}
