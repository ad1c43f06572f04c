package domain

import "context"

// PosterFinder resolves a display image URL for a recipe.
// It returns ErrPosterUnavailable when the recipe has no image.
type PosterFinder interface {
	FindPoster(ctx context.Context, id int, name string) (string, error)
}
