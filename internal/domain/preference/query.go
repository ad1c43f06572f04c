package preference

import (
	"strings"

	"github.com/kailas-cloud/recipedex/internal/domain"
)

// MaxTerms is the maximum number of terms per list.
const MaxTerms = 32

// MaxFreeTextLength is the maximum free-text length in bytes.
const MaxFreeTextLength = 4096

// anyValue is the form placeholder meaning "no preference".
const anyValue = "any"

// Query is a validated, per-request preference set.
type Query struct {
	tags     []string
	include  []string
	exclude  []string
	freeText string
}

// New normalizes and validates preference terms.
// Terms are trimmed, blanks and "Any" placeholders dropped. A query with no tags,
// no included ingredients and no free text is rejected with domain.ErrInvalidQuery.
func New(tags, include, exclude []string, freeText string) (Query, error) {
	q := Query{
		tags:     clean(tags),
		include:  clean(include),
		exclude:  clean(exclude),
		freeText: strings.TrimSpace(freeText),
	}

	for _, group := range [][]string{q.tags, q.include, q.exclude} {
		if len(group) > MaxTerms {
			return Query{}, domain.NewValidationError("too many terms (max 32 per list)")
		}
	}
	if len(q.freeText) > MaxFreeTextLength {
		return Query{}, domain.NewValidationError("additional preferences too long")
	}
	if q.Text() == "" {
		return Query{}, domain.NewValidationError("at least one preference is required")
	}
	return q, nil
}

// Tags returns the required tag tokens.
func (q Query) Tags() []string { return q.tags }

// Include returns the required ingredient substrings.
func (q Query) Include() []string { return q.include }

// Exclude returns the excluded ingredient substrings.
func (q Query) Exclude() []string { return q.exclude }

// FreeText returns the additional free-form text.
func (q Query) FreeText() string { return q.freeText }

// Text joins tags, included ingredients and free text into the ranking query.
func (q Query) Text() string {
	parts := make([]string, 0, len(q.tags)+len(q.include)+1)
	parts = append(parts, q.tags...)
	parts = append(parts, q.include...)
	if q.freeText != "" {
		parts = append(parts, q.freeText)
	}
	return strings.Join(parts, " ")
}

// Form is the preference form. Diet, cuisine and tastes are required tags; included
// ingredients are required both as tags and as ingredient substrings.
type Form struct {
	Diet       string
	Cuisine    string
	Tastes     []string
	Include    []string
	Exclude    []string
	Additional string
}

// Query validates the form and builds the ranking query.
func (f Form) Query() (Query, error) {
	tags := make([]string, 0, 2+len(f.Tastes)+len(f.Include))
	tags = append(tags, f.Diet, f.Cuisine)
	tags = append(tags, f.Tastes...)
	tags = append(tags, f.Include...)
	return New(tags, f.Include, f.Exclude, f.Additional)
}

// SplitList splits a comma-separated form value into trimmed non-empty terms.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func clean(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" || strings.EqualFold(t, anyValue) {
			continue
		}
		out = append(out, t)
	}
	return out
}
