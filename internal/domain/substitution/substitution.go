package substitution

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/recipedex/internal/domain"
)

// Condition is a health condition that overlays extra substitutions.
type Condition string

const (
	// Diabetes restricts simple sugars.
	Diabetes Condition = "Diabetes"
	// HeartCondition restricts sodium and saturated fat.
	HeartCondition Condition = "Heart Condition"
)

// Conditions lists every condition in overlay order. Later overlays win on key collisions.
var Conditions = []Condition{Diabetes, HeartCondition}

var base = map[string]string{
	"sugar":       "honey",
	"white sugar": "honey",
	"brown sugar": "honey",
	"butter":      "olive oil",
	"margarine":   "avocado oil",
	"salt":        "herbs or potassium salt",
	"flour":       "almond flour",
	"white flour": "whole wheat flour",
	"pasta":       "zucchini noodles",
	"rice":        "quinoa",
	"bread":       "whole grain bread",
	"cheese":      "low-fat cheese",
	"milk":        "almond milk",
	"cream":       "coconut cream",
	"mayonnaise":  "greek yogurt",
	"sour cream":  "cottage cheese",
	"red meat":    "lean chicken or fish",
	"fried food":  "grilled alternative",
}

var overlays = map[Condition]map[string]string{
	Diabetes: {
		"sugar":       "stevia",
		"white sugar": "stevia",
		"brown sugar": "stevia",
		"honey":       "monk fruit sweetener",
		"white bread": "whole grain bread",
		"pasta":       "chickpea pasta",
		"rice":        "cauliflower rice",
	},
	HeartCondition: {
		"butter":     "olive oil",
		"margarine":  "avocado oil",
		"salt":       "herbs or potassium salt",
		"fried food": "baked or grilled food",
	},
}

// ParseCondition resolves a condition name case-insensitively.
// Spaces, hyphens and underscores are interchangeable ("heart_condition").
func ParseCondition(s string) (Condition, error) {
	norm := strings.NewReplacer("_", " ", "-", " ").Replace(strings.ToLower(strings.TrimSpace(s)))
	for _, c := range Conditions {
		if strings.ToLower(string(c)) == norm {
			return c, nil
		}
	}
	return "", domain.NewValidationError(fmt.Sprintf("unknown health condition %q", s))
}

// ParseConditions resolves a list of condition names, dropping duplicates and blanks.
func ParseConditions(names []string) ([]Condition, error) {
	var out []Condition
	seen := make(map[Condition]bool)
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		c, err := ParseCondition(n)
		if err != nil {
			return nil, err
		}
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out, nil
}

// Table returns the merged mapping for the active conditions: the base table with each
// active overlay applied in Conditions order.
func Table(active []Condition) map[string]string {
	on := make(map[Condition]bool, len(active))
	for _, c := range active {
		on[c] = true
	}

	merged := make(map[string]string, len(base))
	for k, v := range base {
		merged[k] = v
	}
	for _, c := range Conditions {
		if !on[c] {
			continue
		}
		for k, v := range overlays[c] {
			merged[k] = v
		}
	}
	return merged
}

// Apply rewrites each ingredient through the merged table, matching whole names
// case-insensitively. Unmapped ingredients pass through. Output has the input's length.
func Apply(ingredients []string, active []Condition) []string {
	table := Table(active)
	out := make([]string, len(ingredients))
	for i, ing := range ingredients {
		if sub, ok := table[strings.ToLower(ing)]; ok {
			out[i] = sub
		} else {
			out[i] = ing
		}
	}
	return out
}

// Change is a single rewritten ingredient.
type Change struct {
	Index    int
	Original string
	Rewrite  string
}

// Changes lists the positions where rewritten differs from original, ignoring case.
func Changes(original, rewritten []string) []Change {
	var out []Change
	for i := 0; i < len(original) && i < len(rewritten); i++ {
		if !strings.EqualFold(original[i], rewritten[i]) {
			out = append(out, Change{Index: i, Original: original[i], Rewrite: rewritten[i]})
		}
	}
	return out
}
