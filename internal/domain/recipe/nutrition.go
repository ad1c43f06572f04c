package recipe

import (
	"math"
	"strings"

	"github.com/goccy/go-json"
)

// NutritionFields is the fixed number of nutrition components.
const NutritionFields = 7

// Nutrition holds (calories, total_fat, sugar, sodium, protein, saturated_fat, fiber).
type Nutrition [NutritionFields]float64

// NewNutrition builds a tuple from any number of values: missing components are zero,
// extra ones are dropped, negative or non-finite values are clamped to zero.
func NewNutrition(values ...float64) Nutrition {
	var n Nutrition
	for i := 0; i < NutritionFields && i < len(values); i++ {
		v := values[i]
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			v = 0
		}
		n[i] = v
	}
	return n
}

// ParseNutrition parses a serialized numeric list such as "[300, 5]".
// Single quotes are accepted. Anything unparsable yields the zero tuple and ok=false;
// the caller decides whether to log, the value is always usable.
func ParseNutrition(s string) (n Nutrition, ok bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "'", `"`))
	if s == "" {
		return Nutrition{}, false
	}
	var values []float64
	if err := json.Unmarshal([]byte(s), &values); err != nil {
		return Nutrition{}, false
	}
	return NewNutrition(values...), true
}

// Calories returns the energy content.
func (n Nutrition) Calories() float64 { return n[0] }

// TotalFat returns the total fat value.
func (n Nutrition) TotalFat() float64 { return n[1] }

// Sugar returns the sugar value.
func (n Nutrition) Sugar() float64 { return n[2] }

// Sodium returns the sodium value.
func (n Nutrition) Sodium() float64 { return n[3] }

// Protein returns the protein value.
func (n Nutrition) Protein() float64 { return n[4] }

// SaturatedFat returns the saturated fat value.
func (n Nutrition) SaturatedFat() float64 { return n[5] }

// Fiber returns the fiber value.
func (n Nutrition) Fiber() float64 { return n[6] }

// ProteinDensity returns protein / (calories + 1).
func (n Nutrition) ProteinDensity() float64 {
	return n.Protein() / (n.Calories() + 1)
}
