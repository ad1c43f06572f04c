package selection

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
)

// snapshot is the JSON-serializable form of a saved recipe, stored as one hash field.
type snapshot struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	TagsCleaned string     `json:"tags_cleaned"`
	Tags        string     `json:"tags"`
	Ingredients []string   `json:"ingredients"`
	Steps       []string   `json:"steps"`
	Nutrition   [7]float64 `json:"nutrition"`
}

func encodeRecipe(r recipe.Recipe) (string, error) {
	data, err := json.Marshal(snapshot{
		ID:          r.ID(),
		Name:        r.Name(),
		TagsCleaned: r.TagsCleaned(),
		Tags:        r.Tags(),
		Ingredients: r.Ingredients(),
		Steps:       r.Steps(),
		Nutrition:   r.Nutrition(),
	})
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	return string(data), nil
}

func decodeRecipe(raw string) (recipe.Recipe, error) {
	var s snapshot
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return recipe.Recipe{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return recipe.New(s.ID, s.Name, s.TagsCleaned, s.Tags, s.Ingredients, s.Steps,
		recipe.NewNutrition(s.Nutrition[:]...))
}
