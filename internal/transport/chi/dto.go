package chi

import (
	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
	"github.com/kailas-cloud/recipedex/internal/domain/selection"
	"github.com/kailas-cloud/recipedex/internal/domain/substitution"
	recommenduc "github.com/kailas-cloud/recipedex/internal/usecase/recommend"
)

type errorCode string

const (
	codeBadRequest       errorCode = "bad_request"
	codeValidationFailed errorCode = "validation_failed"
	codeUnauthorized     errorCode = "unauthorized"
	codeNotFound         errorCode = "not_found"
	codeNoMatches        errorCode = "no_matches"
	codeStoreUnavailable errorCode = "store_unavailable"
	codeInternalError    errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// legacyRequest is the body of POST /recommend. Field names are kept as published.
type legacyRequest struct {
	Preference  string `json:"preference"`
	Cuisine     string `json:"Cuisine"`
	Taste       string `json:"taste"` // comma-separated
	Ingredients string `json:"ingredients"`
}

type legacyItem struct {
	Name        string   `json:"name"`
	Tags        string   `json:"tags"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
	PosterURL   string   `json:"poster_url"`
}

type preferenceRequest struct {
	Diet       string   `json:"diet"`
	Cuisine    string   `json:"cuisine"`
	Tastes     []string `json:"tastes"`
	Include    []string `json:"include"`
	Exclude    []string `json:"exclude"`
	Additional string   `json:"additional"`
	Conditions []string `json:"conditions"`
	Limit      int      `json:"limit"`
}

type budgetRequest struct {
	MaxCalories *float64 `json:"max_calories"`
	MaxFat      *float64 `json:"max_fat"`
	MaxSodium   *float64 `json:"max_sodium"`
	MinProtein  *float64 `json:"min_protein"`
	MaxCount    *int     `json:"max_count"`
}

type healthyRequest struct {
	preferenceRequest
	Budget *budgetRequest `json:"budget"`
}

type ingredientsRequest struct {
	Ingredients []string `json:"ingredients"`
	Limit       int      `json:"limit"`
}

type nutritionItem struct {
	Calories     float64 `json:"calories"`
	TotalFat     float64 `json:"total_fat"`
	Sugar        float64 `json:"sugar"`
	Sodium       float64 `json:"sodium"`
	Protein      float64 `json:"protein"`
	SaturatedFat float64 `json:"saturated_fat"`
	Fiber        float64 `json:"fiber"`
}

type substitutionItem struct {
	Index    int    `json:"index"`
	Original string `json:"original"`
	Rewrite  string `json:"rewrite"`
}

type recipeItem struct {
	ID            int                `json:"id"`
	Name          string             `json:"name"`
	Tags          string             `json:"tags"`
	Category      string             `json:"category"`
	Score         *float64           `json:"score,omitempty"`
	Ingredients   []string           `json:"ingredients"`
	Substitutions []substitutionItem `json:"substitutions,omitempty"`
	Steps         []string           `json:"steps"`
	Nutrition     nutritionItem      `json:"nutrition"`
	PosterURL     string             `json:"poster_url,omitempty"`
}

type listResponse struct {
	Items []recipeItem `json:"items"`
	Total int          `json:"total"`
}

type sessionResponse struct {
	Session string `json:"session"`
}

func (b *budgetRequest) overrides() selection.Overrides {
	if b == nil {
		return selection.Overrides{}
	}
	return selection.Overrides{
		MaxCalories: b.MaxCalories,
		MaxFat:      b.MaxFat,
		MaxSodium:   b.MaxSodium,
		MinProtein:  b.MinProtein,
		MaxCount:    b.MaxCount,
	}
}

func nutritionToItem(n recipe.Nutrition) nutritionItem {
	return nutritionItem{
		Calories:     n.Calories(),
		TotalFat:     n.TotalFat(),
		Sugar:        n.Sugar(),
		Sodium:       n.Sodium(),
		Protein:      n.Protein(),
		SaturatedFat: n.SaturatedFat(),
		Fiber:        n.Fiber(),
	}
}

func recipeToItem(r *recipe.Recipe) recipeItem {
	return recipeItem{
		ID:          r.ID(),
		Name:        r.Name(),
		Tags:        r.Tags(),
		Category:    string(r.Category()),
		Ingredients: r.Ingredients(),
		Steps:       r.Steps(),
		Nutrition:   nutritionToItem(r.Nutrition()),
	}
}

func recommendationToItem(rec *recommenduc.Recommendation) recipeItem {
	item := recipeToItem(&rec.Recipe)
	score := rec.Score
	item.Score = &score
	item.Ingredients = rec.Ingredients
	item.Substitutions = changesToItems(rec.Substitutions)
	return item
}

func changesToItems(changes []substitution.Change) []substitutionItem {
	if len(changes) == 0 {
		return nil
	}
	out := make([]substitutionItem, len(changes))
	for i, c := range changes {
		out[i] = substitutionItem{Index: c.Index, Original: c.Original, Rewrite: c.Rewrite}
	}
	return out
}
