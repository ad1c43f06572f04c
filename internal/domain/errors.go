package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrNoMatches signals that filtering left no candidates. It is a normal outcome.
	ErrNoMatches = errors.New("no recipes match the given preferences")
	// ErrInvalidQuery signals a request without any usable preference terms.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidBudget signals a nutrition budget with out-of-range limits.
	ErrInvalidBudget = errors.New("invalid nutrition budget")
	// ErrCatalogMisaligned signals a corpus and vector space with different row counts.
	ErrCatalogMisaligned = errors.New("catalog misaligned")
	// ErrMalformedList signals an ingredient or step column that is not a string list.
	ErrMalformedList = errors.New("malformed list")
	// ErrPosterUnavailable signals that no poster image could be resolved.
	ErrPosterUnavailable = errors.New("poster unavailable")
	// ErrStoreUnavailable signals a selection store failure.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError wraps ErrInvalidQuery with a user-facing reason.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidQuery.Error(), e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidQuery }

// NewValidationError creates an invalid query error carrying reason.
func NewValidationError(reason string) error {
	return &ValidationError{Reason: reason}
}
