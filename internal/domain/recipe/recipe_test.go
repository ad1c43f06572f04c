package recipe

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/recipedex/internal/domain"
)

func TestNew_Valid(t *testing.T) {
	r, err := New(42, "Chili", "  Vegetarian   SPICY ", "Vegetarian, spicy",
		[]string{"beans", "chili"}, []string{"cook"}, NewNutrition(400, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.ID() != 42 {
		t.Errorf("ID() = %d", r.ID())
	}
	if r.Name() != "Chili" {
		t.Errorf("Name() = %q", r.Name())
	}
	if r.TagsCleaned() != "vegetarian spicy" {
		t.Errorf("TagsCleaned() = %q", r.TagsCleaned())
	}
	if r.Tags() != "Vegetarian, spicy" {
		t.Errorf("Tags() = %q", r.Tags())
	}
	if r.Nutrition().Calories() != 400 {
		t.Errorf("Calories() = %f", r.Nutrition().Calories())
	}
}

func TestNew_EmptyName(t *testing.T) {
	if _, err := New(1, "  ", "", "", nil, nil, Nutrition{}); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestRecipe_CopiesSlices(t *testing.T) {
	ingredients := []string{"salt"}
	r, err := New(1, "x", "", "", ingredients, nil, Nutrition{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ingredients[0] = "sugar"
	if got := r.Ingredients()[0]; got != "salt" {
		t.Errorf("input mutation leaked: %q", got)
	}

	out := r.Ingredients()
	out[0] = "pepper"
	if got := r.Ingredients()[0]; got != "salt" {
		t.Errorf("output mutation leaked: %q", got)
	}
}

func TestIngredientsText(t *testing.T) {
	tests := []struct {
		ingredients []string
		want        string
	}{
		{[]string{"fish & chips", "salt"}, `["fish & chips","salt"]`},
		{[]string{"<cream>", "a > b"}, `["<cream>","a > b"]`},
		{nil, `[]`},
	}
	for _, tc := range tests {
		r, _ := New(1, "x", "", "", tc.ingredients, nil, Nutrition{})
		if got := r.IngredientsText(); got != tc.want {
			t.Errorf("IngredientsText() = %q, want %q", got, tc.want)
		}
	}
}

func TestParseNutrition(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   Nutrition
		wantOK bool
	}{
		{"full", "[51.5, 0.0, 13.0, 0.0, 2.0, 0.0, 4.0]", Nutrition{51.5, 0, 13, 0, 2, 0, 4}, true},
		{"short is padded", "[300, 5]", Nutrition{300, 5, 0, 0, 0, 0, 0}, true},
		{"long is truncated", "[1,2,3,4,5,6,7,8,9]", Nutrition{1, 2, 3, 4, 5, 6, 7}, true},
		{"single quotes", "['1', 2]", Nutrition{}, false},
		{"empty", "", Nutrition{}, false},
		{"garbage", "not a list", Nutrition{}, false},
		{"object", `{"calories": 1}`, Nutrition{}, false},
		{"negative clamped", "[-5, 3]", Nutrition{0, 3, 0, 0, 0, 0, 0}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseNutrition(tc.in)
			if ok != tc.wantOK {
				t.Errorf("ok = %v, want %v", ok, tc.wantOK)
			}
			if got != tc.want {
				t.Errorf("ParseNutrition(%q) = %v, want %v", tc.in, got, tc.want)
			}
			if len(got) != NutritionFields {
				t.Errorf("len = %d", len(got))
			}
		})
	}
}

func TestNutrition_ProteinDensity(t *testing.T) {
	n := NewNutrition(0, 0, 0, 0, 10)
	if got := n.ProteinDensity(); got != 10 {
		t.Errorf("ProteinDensity() = %f, want 10", got)
	}
	n = NewNutrition(399, 0, 0, 0, 20)
	if got := n.ProteinDensity(); got != 0.05 {
		t.Errorf("ProteinDensity() = %f, want 0.05", got)
	}
}

func TestParseList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"json", `["a", "b c"]`, []string{"a", "b c"}},
		{"python", `['winter squash', 'mexican seasoning']`, []string{"winter squash", "mexican seasoning"}},
		{"mixed quotes", `['a', "b's"]`, []string{"a", "b's"}},
		{"escaped quote", `['it\'s']`, []string{"it's"}},
		{"empty", `[]`, []string{}},
		{"empty python", ` [ ] `, []string{}},
		{"trailing comma", `['a',]`, []string{"a"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseList(tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("[%d] = %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestParseList_Malformed(t *testing.T) {
	inputs := []string{
		"",
		"null",
		"a, b",
		"['a'",
		"['a' 'b']",
		"[1, 2]",
		"['a'] extra",
		"__import__('os')",
		"['unterminated]",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := ParseList(in)
			if err == nil {
				t.Fatalf("expected error for %q", in)
			}
			if !errors.Is(err, domain.ErrMalformedList) {
				t.Errorf("expected ErrMalformedList, got %v", err)
			}
		})
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		tags string
		want Category
	}{
		{"60-minutes-or-less main-dish beef", MainDish},
		{"side-dish vegetables", SideDish},
		{"desserts chocolate", Desserts},
		{"cake easy", Desserts},
		{"main-dish desserts", MainDish},
		{"side-dish cake", SideDish},
		{"breakfast", MainDish},
		{"", MainDish},
	}
	for _, tc := range tests {
		if got := Categorize(tc.tags); got != tc.want {
			t.Errorf("Categorize(%q) = %q, want %q", tc.tags, got, tc.want)
		}
	}
}
