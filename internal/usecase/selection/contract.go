package selection

import (
	"context"

	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
)

// Repository defines the storage contract for saved selections.
type Repository interface {
	Save(ctx context.Context, session string, r recipe.Recipe) error
	List(ctx context.Context, session string) ([]recipe.Recipe, error)
	Remove(ctx context.Context, session, name string) error
	Clear(ctx context.Context, session string) error
}

// RecipeReader resolves catalog recipes by id.
type RecipeReader interface {
	ByID(id int) (recipe.Recipe, error)
}
