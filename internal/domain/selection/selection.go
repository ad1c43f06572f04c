// Package selection picks a nutrition-constrained subset of candidates with a single
// greedy pass ordered by protein density. It approximates a multi-constraint knapsack
// and is not guaranteed to find the calorie- or protein-maximizing subset.
package selection

import (
	"fmt"
	"sort"

	"github.com/kailas-cloud/recipedex/internal/domain"
	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
)

// Default thresholds.
const (
	DefaultMaxCalories = 500
	DefaultMaxFat      = 15
	DefaultMaxSodium   = 10
	DefaultMinProtein  = 5
	DefaultMaxCount    = 10
)

// Budget bounds the greedy selection.
type Budget struct {
	maxCalories float64
	maxFat      float64
	maxSodium   float64
	minProtein  float64
	maxCount    int
}

// DefaultBudget returns the default thresholds.
func DefaultBudget() Budget {
	return Budget{
		maxCalories: DefaultMaxCalories,
		maxFat:      DefaultMaxFat,
		maxSodium:   DefaultMaxSodium,
		minProtein:  DefaultMinProtein,
		maxCount:    DefaultMaxCount,
	}
}

// NewBudget validates and creates a Budget.
func NewBudget(maxCalories, maxFat, maxSodium, minProtein float64, maxCount int) (Budget, error) {
	switch {
	case maxCalories < 0:
		return Budget{}, fmt.Errorf("%w: max_calories must be >= 0", domain.ErrInvalidBudget)
	case maxFat < 0:
		return Budget{}, fmt.Errorf("%w: max_fat must be >= 0", domain.ErrInvalidBudget)
	case maxSodium < 0:
		return Budget{}, fmt.Errorf("%w: max_sodium must be >= 0", domain.ErrInvalidBudget)
	case minProtein < 0:
		return Budget{}, fmt.Errorf("%w: min_protein must be >= 0", domain.ErrInvalidBudget)
	case maxCount < 1:
		return Budget{}, fmt.Errorf("%w: max_count must be >= 1", domain.ErrInvalidBudget)
	}
	return Budget{
		maxCalories: maxCalories,
		maxFat:      maxFat,
		maxSodium:   maxSodium,
		minProtein:  minProtein,
		maxCount:    maxCount,
	}, nil
}

// Overrides holds optional per-field replacements for a Budget.
type Overrides struct {
	MaxCalories *float64
	MaxFat      *float64
	MaxSodium   *float64
	MinProtein  *float64
	MaxCount    *int
}

// Apply merges non-nil overrides onto b and validates the result.
func (b Budget) Apply(o Overrides) (Budget, error) {
	if o.MaxCalories != nil {
		b.maxCalories = *o.MaxCalories
	}
	if o.MaxFat != nil {
		b.maxFat = *o.MaxFat
	}
	if o.MaxSodium != nil {
		b.maxSodium = *o.MaxSodium
	}
	if o.MinProtein != nil {
		b.minProtein = *o.MinProtein
	}
	if o.MaxCount != nil {
		b.maxCount = *o.MaxCount
	}
	return NewBudget(b.maxCalories, b.maxFat, b.maxSodium, b.minProtein, b.maxCount)
}

// MaxCalories returns the cumulative calorie cap.
func (b Budget) MaxCalories() float64 { return b.maxCalories }

// MaxFat returns the per-item fat cap.
func (b Budget) MaxFat() float64 { return b.maxFat }

// MaxSodium returns the per-item sodium cap.
func (b Budget) MaxSodium() float64 { return b.maxSodium }

// MinProtein returns the per-item protein floor.
func (b Budget) MinProtein() float64 { return b.minProtein }

// MaxCount returns the result size cap.
func (b Budget) MaxCount() int { return b.maxCount }

// Admits reports whether a single item satisfies the per-item limits with the given
// remaining calories.
func (b Budget) Admits(n recipe.Nutrition, remainingCalories float64) bool {
	return n.Calories() <= remainingCalories &&
		n.TotalFat() <= b.maxFat &&
		n.Sodium() <= b.maxSodium &&
		n.Protein() >= b.minProtein
}

// Select walks candidates by descending protein density (stable) and admits each one
// that fits the budget, subtracting its calories from the remaining allowance.
// The stop condition is checked after each candidate: the walk ends once calories are
// exhausted or maxCount items are selected.
// The input slice is not modified.
func Select[T any](candidates []T, nutrition func(T) recipe.Nutrition, b Budget) []T {
	type scored struct {
		item    T
		n       recipe.Nutrition
		density float64
	}

	sorted := make([]scored, len(candidates))
	for i, c := range candidates {
		n := nutrition(c)
		sorted[i] = scored{item: c, n: n, density: n.ProteinDensity()}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].density > sorted[j].density
	})

	var out []T
	remaining := b.maxCalories
	for _, s := range sorted {
		if b.Admits(s.n, remaining) {
			out = append(out, s.item)
			remaining -= s.n.Calories()
		}
		if remaining <= 0 || len(out) >= b.maxCount {
			break
		}
	}
	return out
}
