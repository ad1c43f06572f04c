package selection

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"

	"github.com/kailas-cloud/recipedex/internal/domain"
	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
)

var sessionRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Service manages per-session saved recipes.
type Service struct {
	repo    Repository
	recipes RecipeReader
}

// New creates a selection service.
func New(repo Repository, recipes RecipeReader) *Service {
	return &Service{repo: repo, recipes: recipes}
}

// NewSession returns a fresh session id.
func (s *Service) NewSession() string {
	return uuid.NewString()
}

// List returns the saved recipes of a session.
func (s *Service) List(ctx context.Context, session string) ([]recipe.Recipe, error) {
	if err := validateSession(session); err != nil {
		return nil, err
	}
	recs, err := s.repo.List(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("list selections: %w", err)
	}
	return recs, nil
}

// Save snapshots the catalog recipe into the session. A recipe with the same name
// replaces the earlier one.
func (s *Service) Save(ctx context.Context, session string, id int) (recipe.Recipe, error) {
	if err := validateSession(session); err != nil {
		return recipe.Recipe{}, err
	}
	rec, err := s.recipes.ByID(id)
	if err != nil {
		return recipe.Recipe{}, fmt.Errorf("save selection: %w", err)
	}
	if err := s.repo.Save(ctx, session, rec); err != nil {
		return recipe.Recipe{}, fmt.Errorf("save selection: %w", err)
	}
	return rec, nil
}

// Remove deletes the catalog recipe from the session.
func (s *Service) Remove(ctx context.Context, session string, id int) error {
	if err := validateSession(session); err != nil {
		return err
	}
	rec, err := s.recipes.ByID(id)
	if err != nil {
		return fmt.Errorf("remove selection: %w", err)
	}
	if err := s.repo.Remove(ctx, session, rec.Name()); err != nil {
		return fmt.Errorf("remove selection: %w", err)
	}
	return nil
}

// Clear deletes every saved recipe of the session.
func (s *Service) Clear(ctx context.Context, session string) error {
	if err := validateSession(session); err != nil {
		return err
	}
	if err := s.repo.Clear(ctx, session); err != nil {
		return fmt.Errorf("clear selections: %w", err)
	}
	return nil
}

func validateSession(session string) error {
	if !sessionRe.MatchString(session) {
		return domain.NewValidationError("session id must be 1-64 characters of [A-Za-z0-9_-]")
	}
	return nil
}
