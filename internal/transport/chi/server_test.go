package chi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recipedex/internal/domain"
	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
	"github.com/kailas-cloud/recipedex/internal/domain/selection"
	"github.com/kailas-cloud/recipedex/internal/domain/substitution"
	healthuc "github.com/kailas-cloud/recipedex/internal/usecase/health"
	posteruc "github.com/kailas-cloud/recipedex/internal/usecase/poster"
	recommenduc "github.com/kailas-cloud/recipedex/internal/usecase/recommend"
	"github.com/kailas-cloud/recipedex/internal/version"
)

// --- Mocks ---

type mockRecommender struct {
	recs    []recommenduc.Recommendation
	err     error
	last    *recommenduc.Request
	recipes map[int]recipe.Recipe
}

func (m *mockRecommender) Recommend(req recommenduc.Request) ([]recommenduc.Recommendation, error) {
	m.last = &req
	if m.err != nil {
		return nil, m.err
	}
	return m.recs, nil
}

func (m *mockRecommender) Recipe(id int) (recipe.Recipe, error) {
	r, ok := m.recipes[id]
	if !ok {
		return recipe.Recipe{}, fmt.Errorf("recipe %d: %w", id, domain.ErrNotFound)
	}
	return r, nil
}

type mockPosters struct {
	calls int
}

func (m *mockPosters) Resolve(_ context.Context, targets []posteruc.Target) []string {
	m.calls++
	out := make([]string, len(targets))
	for i, t := range targets {
		out[i] = fmt.Sprintf("https://img.example/%d.jpg", t.ID)
	}
	return out
}

type mockSelections struct {
	saved map[int]recipe.Recipe
	err   error
}

func (m *mockSelections) NewSession() string { return "session-1" }

func (m *mockSelections) List(_ context.Context, session string) ([]recipe.Recipe, error) {
	if session == "bad session" {
		return nil, domain.NewValidationError("invalid session")
	}
	if m.err != nil {
		return nil, m.err
	}
	var out []recipe.Recipe
	for _, r := range m.saved {
		out = append(out, r)
	}
	return out, nil
}

func (m *mockSelections) Save(_ context.Context, _ string, id int) (recipe.Recipe, error) {
	if m.err != nil {
		return recipe.Recipe{}, m.err
	}
	r, ok := m.saved[id]
	if !ok {
		return recipe.Recipe{}, domain.ErrNotFound
	}
	return r, nil
}

func (m *mockSelections) Remove(_ context.Context, _ string, _ int) error { return m.err }

func (m *mockSelections) Clear(_ context.Context, _ string) error { return m.err }

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report { return m.report }

// --- Helpers ---

type testEnv struct {
	rec     *mockRecommender
	posters *mockPosters
	sel     *mockSelections
	health  *mockHealth
	router  chi.Router
}

func newTestRecipe(t *testing.T, id int, name string, ingredients ...string) recipe.Recipe {
	t.Helper()
	r, err := recipe.New(id, name, "vegetarian italian main-dish", "['vegetarian', 'italian']",
		ingredients, []string{"cook"}, recipe.NewNutrition(300, 5, 1, 2, 20, 1, 3))
	if err != nil {
		t.Fatalf("recipe.New: %v", err)
	}
	return r
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	pasta := newTestRecipe(t, 1, "Pasta Primavera", "pasta", "butter", "salt")
	salad := newTestRecipe(t, 2, "Green Salad", "lettuce")

	env := &testEnv{
		rec: &mockRecommender{
			recs: []recommenduc.Recommendation{
				{
					Ranked:      recommenduc.Ranked{Candidate: recommenduc.Candidate{Index: 0, Recipe: pasta}, Score: 0.9},
					Ingredients: []string{"pasta", "olive oil", "herbs or potassium salt"},
					Substitutions: []substitution.Change{
						{Index: 1, Original: "butter", Rewrite: "olive oil"},
						{Index: 2, Original: "salt", Rewrite: "herbs or potassium salt"},
					},
				},
				{
					Ranked:      recommenduc.Ranked{Candidate: recommenduc.Candidate{Index: 1, Recipe: salad}, Score: 0.4},
					Ingredients: []string{"lettuce"},
				},
			},
			recipes: map[int]recipe.Recipe{1: pasta, 2: salad},
		},
		posters: &mockPosters{},
		sel:     &mockSelections{saved: map[int]recipe.Recipe{1: pasta}},
		health:  &mockHealth{report: healthuc.Report{Status: healthuc.Healthy, Checks: map[string]healthuc.CheckResult{"catalog": healthuc.CheckOK}}},
	}

	srv := NewServer(env.rec, env.posters, env.sel, env.health, selection.DefaultBudget(), zap.NewNop())
	r := chi.NewRouter()
	srv.Routes(r)
	env.router = r
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rr.Body.String())
	}
	return v
}

// --- Legacy endpoint ---

func TestLegacyRecommend_OK(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, "POST", "/recommend",
		`{"preference":"vegetarian","Cuisine":"italian","taste":"sweet, spicy","ingredients":""}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rr.Code, rr.Body.String())
	}

	got := env.rec.last.Query.Tags()
	want := []string{"vegetarian", "italian", "sweet", "spicy"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("tags = %v, want %v", got, want)
	}
	if !env.rec.last.Unlimited {
		t.Error("legacy endpoint must return the whole ranked set")
	}

	items := decode[[]legacyItem](t, rr)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Name != "Pasta Primavera" || items[0].PosterURL != "https://img.example/1.jpg" {
		t.Errorf("unexpected first item: %+v", items[0])
	}
	if items[0].Ingredients[1] != "butter" {
		t.Errorf("legacy items must carry original ingredients, got %v", items[0].Ingredients)
	}
}

func TestLegacyRecommend_NoMatches(t *testing.T) {
	env := newTestEnv(t)
	env.rec.err = fmt.Errorf("filter: %w", domain.ErrNoMatches)

	rr := env.do(t, "POST", "/recommend", `{"preference":"martian"}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status %d", rr.Code)
	}
	body := decode[map[string]string](t, rr)
	if body["message"] != noMatchesMessage {
		t.Errorf("message = %q", body["message"])
	}
}

func TestLegacyRecommend_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		recErr  error
		status  int
		errText string
	}{
		{"empty preferences", `{}`, nil, http.StatusBadRequest, "at least one preference is required"},
		{"bad json", `{`, nil, http.StatusBadRequest, "invalid request body"},
		{"internal", `{"preference":"vegan"}`, errors.New("boom"), http.StatusInternalServerError, "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.rec.err = tt.recErr

			rr := env.do(t, "POST", "/recommend", tt.body)
			if rr.Code != tt.status {
				t.Fatalf("status %d, want %d", rr.Code, tt.status)
			}
			body := decode[map[string]string](t, rr)
			if body["error"] != tt.errText {
				t.Errorf("error = %q, want %q", body["error"], tt.errText)
			}
		})
	}
}

// --- Recommendations ---

func TestRecommend_OK(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, "POST", "/recommendations", `{
		"diet": "Vegetarian", "cuisine": "Any", "tastes": ["savory"],
		"include": ["pasta"], "exclude": ["nuts"], "additional": "quick",
		"conditions": ["heart_condition"], "limit": 5
	}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rr.Code, rr.Body.String())
	}

	req := env.rec.last
	if got := strings.Join(req.Query.Tags(), "|"); got != "Vegetarian|savory|pasta" {
		t.Errorf("tags = %q", got)
	}
	if got := strings.Join(req.Query.Exclude(), "|"); got != "nuts" {
		t.Errorf("exclude = %q", got)
	}
	if len(req.Conditions) != 1 || req.Conditions[0] != substitution.HeartCondition {
		t.Errorf("conditions = %v", req.Conditions)
	}
	if req.Limit != 5 || req.Budget != nil {
		t.Errorf("limit = %d, budget = %v", req.Limit, req.Budget)
	}

	resp := decode[listResponse](t, rr)
	if resp.Total != 2 {
		t.Fatalf("total = %d", resp.Total)
	}
	first := resp.Items[0]
	if first.Score == nil || *first.Score != 0.9 {
		t.Errorf("score = %v", first.Score)
	}
	if len(first.Substitutions) != 2 || first.Ingredients[1] != "olive oil" {
		t.Errorf("unexpected substitutions %+v / ingredients %v", first.Substitutions, first.Ingredients)
	}
	if first.Category != string(recipe.MainDish) {
		t.Errorf("category = %q", first.Category)
	}
	if first.Nutrition.Calories != 300 || first.Nutrition.Protein != 20 {
		t.Errorf("nutrition = %+v", first.Nutrition)
	}
	if first.PosterURL == "" {
		t.Error("expected poster url")
	}
}

func TestRecommend_SkipPosters(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, "POST", "/recommendations?posters=false", `{"diet":"vegetarian"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	if env.posters.calls != 0 {
		t.Errorf("expected no poster lookups, got %d", env.posters.calls)
	}
	resp := decode[listResponse](t, rr)
	if resp.Items[0].PosterURL != "" {
		t.Errorf("poster url = %q", resp.Items[0].PosterURL)
	}
}

func TestRecommend_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		recErr error
		status int
		code   errorCode
	}{
		{"bad json", `[`, nil, http.StatusBadRequest, codeBadRequest},
		{"empty query", `{"diet":"Any"}`, nil, http.StatusBadRequest, codeValidationFailed},
		{"unknown condition", `{"diet":"vegan","conditions":["gout"]}`, nil, http.StatusBadRequest, codeValidationFailed},
		{"no matches", `{"diet":"vegan"}`, domain.ErrNoMatches, http.StatusNotFound, codeNoMatches},
		{"bad limit", `{"diet":"vegan"}`, domain.NewValidationError("limit must be <= 100"),
			http.StatusBadRequest, codeValidationFailed},
		{"internal", `{"diet":"vegan"}`, errors.New("boom"), http.StatusInternalServerError, codeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.rec.err = tt.recErr

			rr := env.do(t, "POST", "/recommendations", tt.body)
			if rr.Code != tt.status {
				t.Fatalf("status %d, want %d (body %s)", rr.Code, tt.status, rr.Body.String())
			}
			if resp := decode[errorResponse](t, rr); resp.Code != tt.code {
				t.Errorf("code = %q, want %q", resp.Code, tt.code)
			}
		})
	}
}

func TestRecommendHealthy_BudgetOverrides(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, "POST", "/recommendations/healthy",
		`{"diet":"vegetarian","budget":{"max_calories":400,"max_count":3}}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rr.Code, rr.Body.String())
	}

	b := env.rec.last.Budget
	if b == nil {
		t.Fatal("expected budget")
	}
	def := selection.DefaultBudget()
	if b.MaxCalories() != 400 || b.MaxCount() != 3 {
		t.Errorf("overrides not applied: calories %v count %d", b.MaxCalories(), b.MaxCount())
	}
	if b.MaxFat() != def.MaxFat() || b.MinProtein() != def.MinProtein() {
		t.Errorf("defaults not kept: fat %v protein %v", b.MaxFat(), b.MinProtein())
	}
}

func TestRecommendHealthy_DefaultBudget(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, "POST", "/recommendations/healthy", `{"diet":"vegetarian"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	if b := env.rec.last.Budget; b == nil || *b != selection.DefaultBudget() {
		t.Errorf("expected default budget, got %v", b)
	}
}

func TestRecommendHealthy_InvalidBudget(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, "POST", "/recommendations/healthy", `{"diet":"vegetarian","budget":{"max_count":0}}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rr.Code)
	}
	resp := decode[errorResponse](t, rr)
	if !strings.Contains(resp.Message, "max_count") {
		t.Errorf("message = %q", resp.Message)
	}
	if env.rec.last != nil {
		t.Error("recommender must not run with an invalid budget")
	}
}

func TestRecommendByIngredients(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, "POST", "/recommendations/by-ingredients", `{"ingredients":["pasta"," tomato "]}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	q := env.rec.last.Query
	if len(q.Tags()) != 0 {
		t.Errorf("tags = %v", q.Tags())
	}
	if got := strings.Join(q.Include(), "|"); got != "pasta|tomato" {
		t.Errorf("include = %q", got)
	}
	if !env.rec.last.RawIngredients || len(env.rec.last.Conditions) != 0 {
		t.Errorf("ingredient search must skip substitutions: %+v", env.rec.last)
	}
}

// --- Recipes ---

func TestGetRecipe(t *testing.T) {
	tests := []struct {
		path   string
		status int
	}{
		{"/recipes/1", http.StatusOK},
		{"/recipes/99", http.StatusNotFound},
		{"/recipes/abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			env := newTestEnv(t)
			rr := env.do(t, "GET", tt.path, "")
			if rr.Code != tt.status {
				t.Fatalf("status %d, want %d", rr.Code, tt.status)
			}
			if tt.status != http.StatusOK {
				return
			}
			item := decode[recipeItem](t, rr)
			if item.ID != 1 || item.Score != nil || item.PosterURL != "https://img.example/1.jpg" {
				t.Errorf("unexpected item %+v", item)
			}
		})
	}
}

// --- Sessions ---

func TestCreateSession(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, "POST", "/sessions", "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("status %d", rr.Code)
	}
	if resp := decode[sessionResponse](t, rr); resp.Session != "session-1" {
		t.Errorf("session = %q", resp.Session)
	}
}

func TestSelections(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		err    error
		status int
	}{
		{"list", "GET", "/sessions/abc/selections", nil, http.StatusOK},
		{"save", "PUT", "/sessions/abc/selections/1", nil, http.StatusOK},
		{"save unknown", "PUT", "/sessions/abc/selections/42", nil, http.StatusNotFound},
		{"save bad id", "PUT", "/sessions/abc/selections/x", nil, http.StatusBadRequest},
		{"remove", "DELETE", "/sessions/abc/selections/1", nil, http.StatusNoContent},
		{"clear", "DELETE", "/sessions/abc/selections", nil, http.StatusNoContent},
		{"store down", "GET", "/sessions/abc/selections", domain.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{"store down save", "PUT", "/sessions/abc/selections/1",
			fmt.Errorf("save selection: %w", domain.ErrStoreUnavailable), http.StatusServiceUnavailable},
		{"bad session", "GET", "/sessions/bad%20session/selections", nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.sel.err = tt.err

			rr := env.do(t, tt.method, tt.path, "")
			if rr.Code != tt.status {
				t.Fatalf("status %d, want %d (body %s)", rr.Code, tt.status, rr.Body.String())
			}
		})
	}
}

func TestListSelections_Body(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, "GET", "/sessions/abc/selections", "")
	resp := decode[listResponse](t, rr)
	if resp.Total != 1 || resp.Items[0].Name != "Pasta Primavera" {
		t.Errorf("unexpected list %+v", resp)
	}
	if resp.Items[0].Ingredients[1] != "butter" {
		t.Errorf("saved selections keep original ingredients, got %v", resp.Items[0].Ingredients)
	}
}

// --- Health ---

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		status healthuc.Status
		code   int
	}{
		{healthuc.Healthy, http.StatusOK},
		{healthuc.Degraded, http.StatusOK},
		{healthuc.Unhealthy, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			env := newTestEnv(t)
			env.health.report = healthuc.Report{
				Status: tt.status,
				Checks: map[string]healthuc.CheckResult{"store": healthuc.CheckOK},
			}

			rr := env.do(t, "GET", "/health", "")
			if rr.Code != tt.code {
				t.Fatalf("status %d, want %d", rr.Code, tt.code)
			}
			resp := decode[healthResponse](t, rr)
			if resp.Status != string(tt.status) || resp.Checks["store"] != "ok" {
				t.Errorf("unexpected body %+v", resp)
			}
		})
	}
}

func TestHome(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, "GET", "/", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	body := decode[map[string]string](t, rr)
	if body["name"] != "recipedex" {
		t.Errorf("name = %q", body["name"])
	}
	if body["version"] != version.Version {
		t.Errorf("version = %q, want %q", body["version"], version.Version)
	}
	if !strings.Contains(body["message"], "/recommend") {
		t.Errorf("message = %q", body["message"])
	}
}
