package substitution

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/recipedex/internal/domain"
)

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestApply(t *testing.T) {
	tests := []struct {
		name       string
		in         []string
		conditions []Condition
		want       []string
	}{
		{"heart condition", []string{"sugar", "salt"}, []Condition{HeartCondition},
			[]string{"honey", "herbs or potassium salt"}},
		{"base only", []string{"Butter", "rice", "tomato"}, nil,
			[]string{"olive oil", "quinoa", "tomato"}},
		{"diabetes overrides base", []string{"Sugar", "rice", "honey"}, []Condition{Diabetes},
			[]string{"stevia", "cauliflower rice", "monk fruit sweetener"}},
		{"both overlays", []string{"fried food", "pasta"}, []Condition{HeartCondition, Diabetes},
			[]string{"baked or grilled food", "chickpea pasta"}},
		{"whole name only", []string{"sugar snap peas"}, []Condition{Diabetes},
			[]string{"sugar snap peas"}},
		{"empty", []string{}, []Condition{Diabetes}, []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Apply(tc.in, tc.conditions)
			if !equal(got, tc.want) {
				t.Errorf("Apply(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestApply_OneToOne(t *testing.T) {
	inputs := [][]string{
		nil,
		{"salt"},
		{"salt", "salt", "unknown", "", "MILK"},
	}
	for _, in := range inputs {
		for _, conds := range [][]Condition{nil, {Diabetes}, {HeartCondition}, Conditions} {
			if got := Apply(in, conds); len(got) != len(in) {
				t.Errorf("len(Apply(%v, %v)) = %d, want %d", in, conds, len(got), len(in))
			}
		}
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	in := []string{"salt"}
	_ = Apply(in, nil)
	if in[0] != "salt" {
		t.Errorf("input mutated: %v", in)
	}
}

func TestTable_OverlayDoesNotLeak(t *testing.T) {
	_ = Table([]Condition{Diabetes})
	if got := Table(nil)["sugar"]; got != "honey" {
		t.Errorf("base table mutated by overlay: sugar -> %q", got)
	}
}

func TestParseCondition(t *testing.T) {
	tests := []struct {
		in   string
		want Condition
	}{
		{"Diabetes", Diabetes},
		{" diabetes ", Diabetes},
		{"heart condition", HeartCondition},
		{"HEART_CONDITION", HeartCondition},
		{"heart-condition", HeartCondition},
	}
	for _, tc := range tests {
		got, err := ParseCondition(tc.in)
		if err != nil {
			t.Errorf("ParseCondition(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseCondition(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	if _, err := ParseCondition("gout"); !errors.Is(err, domain.ErrInvalidQuery) {
		t.Errorf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestParseConditions(t *testing.T) {
	got, err := ParseConditions([]string{"diabetes", "", "Diabetes", "heart condition"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != Diabetes || got[1] != HeartCondition {
		t.Errorf("ParseConditions = %v", got)
	}
}

func TestChanges(t *testing.T) {
	original := []string{"Salt", "tomato", "Milk"}
	rewritten := Apply(original, []Condition{HeartCondition})

	changes := Changes(original, rewritten)
	if len(changes) != 2 {
		t.Fatalf("expected 2 changes, got %v", changes)
	}
	if changes[0].Index != 0 || changes[0].Rewrite != "herbs or potassium salt" {
		t.Errorf("changes[0] = %+v", changes[0])
	}
	if changes[1].Index != 2 || changes[1].Original != "Milk" || changes[1].Rewrite != "almond milk" {
		t.Errorf("changes[1] = %+v", changes[1])
	}
}
