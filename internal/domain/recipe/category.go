package recipe

import "strings"

// Category is the display grouping of a recipe.
type Category string

const (
	// MainDish is the default grouping.
	MainDish Category = "main_dish"
	// SideDish groups side courses.
	SideDish Category = "side_dish"
	// Desserts groups cakes, pastries and desserts.
	Desserts Category = "desserts"
)

// Categories lists the groupings in display order.
var Categories = []Category{MainDish, SideDish, Desserts}

var categoryRules = []struct {
	category Category
	markers  []string
}{
	{MainDish, []string{"main-dish", "main course"}},
	{SideDish, []string{"side-dish", "side course"}},
	{Desserts, []string{"desserts", "cake", "pastry"}},
}

// Categorize derives the grouping from whitespace-delimited cleaned tags.
// Rules are checked in order, the first marker present wins. Markers containing a
// space can never equal a single token, which matches the historical behavior.
func Categorize(tagsCleaned string) Category {
	tokens := make(map[string]struct{})
	for _, t := range strings.Fields(strings.ToLower(tagsCleaned)) {
		tokens[t] = struct{}{}
	}
	for _, rule := range categoryRules {
		for _, m := range rule.markers {
			if _, ok := tokens[m]; ok {
				return rule.category
			}
		}
	}
	return MainDish
}
