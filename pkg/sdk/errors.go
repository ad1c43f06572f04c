package recipedex

import "github.com/kailas-cloud/recipedex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound          = domain.ErrNotFound
	ErrNoMatches         = domain.ErrNoMatches
	ErrInvalidQuery      = domain.ErrInvalidQuery
	ErrInvalidBudget     = domain.ErrInvalidBudget
	ErrCatalogMisaligned = domain.ErrCatalogMisaligned
	ErrMalformedList     = domain.ErrMalformedList
)
