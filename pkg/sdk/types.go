package recipedex

import (
	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
	"github.com/kailas-cloud/recipedex/internal/domain/selection"
	"github.com/kailas-cloud/recipedex/internal/domain/substitution"
	recommenduc "github.com/kailas-cloud/recipedex/internal/usecase/recommend"
)

// Preferences is a recommendation query. "Any" and blank values are ignored.
type Preferences struct {
	Diet       string
	Cuisine    string
	Tastes     []string
	Include    []string // required ingredient substrings, also required as tags
	Exclude    []string // forbidden ingredient substrings
	Additional string   // free text, ranking only
	Conditions []string // health conditions for ingredient substitution
	Limit      int      // 0 uses the client default
}

// Budget overrides the client's nutrition budget. Nil fields keep the default.
type Budget struct {
	MaxCalories *float64
	MaxFat      *float64
	MaxSodium   *float64
	MinProtein  *float64
	MaxCount    *int
}

// Nutrition holds per-recipe nutrition values.
type Nutrition struct {
	Calories     float64
	TotalFat     float64
	Sugar        float64
	Sodium       float64
	Protein      float64
	SaturatedFat float64
	Fiber        float64
}

// Recipe is a catalog recipe.
type Recipe struct {
	ID          int
	Name        string
	Tags        string
	Category    string // main_dish, side_dish, desserts
	Ingredients []string
	Steps       []string
	Nutrition   Nutrition
}

// Substitution is one ingredient rewritten for a health condition.
type Substitution struct {
	Index    int
	Original string
	Rewrite  string
}

// Recommendation is a ranked recipe. Ingredients are rewritten for the requested
// conditions; Recipe.Ingredients keeps the originals.
type Recommendation struct {
	Recipe        Recipe
	Score         float64
	Ingredients   []string
	Substitutions []Substitution
}

func (b Budget) overrides() selection.Overrides {
	return selection.Overrides{
		MaxCalories: b.MaxCalories,
		MaxFat:      b.MaxFat,
		MaxSodium:   b.MaxSodium,
		MinProtein:  b.MinProtein,
		MaxCount:    b.MaxCount,
	}
}

func recipeFromDomain(r *recipe.Recipe) Recipe {
	n := r.Nutrition()
	return Recipe{
		ID:          r.ID(),
		Name:        r.Name(),
		Tags:        r.Tags(),
		Category:    string(r.Category()),
		Ingredients: r.Ingredients(),
		Steps:       r.Steps(),
		Nutrition: Nutrition{
			Calories:     n.Calories(),
			TotalFat:     n.TotalFat(),
			Sugar:        n.Sugar(),
			Sodium:       n.Sodium(),
			Protein:      n.Protein(),
			SaturatedFat: n.SaturatedFat(),
			Fiber:        n.Fiber(),
		},
	}
}

func recommendationsFromDomain(recs []recommenduc.Recommendation) []Recommendation {
	out := make([]Recommendation, len(recs))
	for i := range recs {
		rec := &recs[i]
		out[i] = Recommendation{
			Recipe:        recipeFromDomain(&rec.Recipe),
			Score:         rec.Score,
			Ingredients:   rec.Ingredients,
			Substitutions: substitutionsFromDomain(rec.Substitutions),
		}
	}
	return out
}

func substitutionsFromDomain(changes []substitution.Change) []Substitution {
	if len(changes) == 0 {
		return nil
	}
	out := make([]Substitution, len(changes))
	for i, c := range changes {
		out[i] = Substitution{Index: c.Index, Original: c.Original, Rewrite: c.Rewrite}
	}
	return out
}
