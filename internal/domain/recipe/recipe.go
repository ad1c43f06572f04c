package recipe

import (
	"fmt"
	"strings"
)

// Recipe is a single catalog entry (immutable value object).
type Recipe struct {
	id          int
	name        string
	tagsCleaned string
	tags        string
	ingredients []string
	steps       []string
	nutrition   Nutrition

	ingredientsText string
}

// New validates and creates a Recipe.
// Name must be non-empty. tagsCleaned is lowercased and whitespace-normalized.
func New(
	id int, name, tagsCleaned, tags string,
	ingredients, steps []string, nutrition Nutrition,
) (Recipe, error) {
	if strings.TrimSpace(name) == "" {
		return Recipe{}, fmt.Errorf("recipe %d: name is required", id)
	}
	return Recipe{
		id:              id,
		name:            name,
		tagsCleaned:     strings.Join(strings.Fields(strings.ToLower(tagsCleaned)), " "),
		tags:            tags,
		ingredients:     cloneStrings(ingredients),
		steps:           cloneStrings(steps),
		nutrition:       nutrition,
		ingredientsText: FormatList(ingredients),
	}, nil
}

// ID returns the catalog identifier.
func (r *Recipe) ID() int { return r.id }

// Name returns the display name.
func (r *Recipe) Name() string { return r.name }

// TagsCleaned returns the normalized token string used for filtering.
func (r *Recipe) TagsCleaned() string { return r.tagsCleaned }

// Tags returns the human-readable tag description.
func (r *Recipe) Tags() string { return r.tags }

// Ingredients returns a copy of the ingredient names.
func (r *Recipe) Ingredients() []string { return cloneStrings(r.ingredients) }

// Steps returns a copy of the instruction steps.
func (r *Recipe) Steps() []string { return cloneStrings(r.steps) }

// Nutrition returns the parsed nutrition tuple.
func (r *Recipe) Nutrition() Nutrition { return r.nutrition }

// IngredientsText returns the ingredient list serialized as a JSON array.
// Filtering matches against this text, so a term may span two adjacent entries.
func (r *Recipe) IngredientsText() string { return r.ingredientsText }

// Category returns the display grouping derived from the cleaned tags.
func (r *Recipe) Category() Category {
	return Categorize(r.tagsCleaned)
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
