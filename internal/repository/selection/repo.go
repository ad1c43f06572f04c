package selection

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recipedex/internal/domain"
	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
)

// store is the consumer interface for saved selections (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HDel(ctx context.Context, key string, fields ...string) error
	Del(ctx context.Context, key string) error
}

// Repo implements usecase/selection.Repository.
// Each session is one hash keyed by recipe name; saving a recipe with an existing
// name replaces the earlier snapshot.
type Repo struct {
	store  store
	prefix string
	logger *zap.Logger
}

// New creates a selection repository.
func New(s store, prefix string, logger *zap.Logger) *Repo {
	return &Repo{store: s, prefix: prefix, logger: logger}
}

// Save stores a recipe snapshot under the session.
func (r *Repo) Save(ctx context.Context, session string, rec recipe.Recipe) error {
	raw, err := encodeRecipe(rec)
	if err != nil {
		return err
	}
	if err := r.store.HSet(ctx, r.key(session), map[string]string{rec.Name(): raw}); err != nil {
		return fmt.Errorf("%w: save selection: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// List returns the saved recipes of a session ordered by name.
// Snapshots that fail to decode are skipped and logged.
func (r *Repo) List(ctx context.Context, session string) ([]recipe.Recipe, error) {
	m, err := r.store.HGetAll(ctx, r.key(session))
	if err != nil {
		return nil, fmt.Errorf("%w: list selections: %w", domain.ErrStoreUnavailable, err)
	}

	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]recipe.Recipe, 0, len(names))
	for _, name := range names {
		rec, err := decodeRecipe(m[name])
		if err != nil {
			r.logger.Warn("Skipping corrupt selection",
				zap.String("session", session), zap.String("name", name), zap.Error(err))
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// Remove deletes a saved recipe by name. Removing a missing name is a no-op.
func (r *Repo) Remove(ctx context.Context, session, name string) error {
	if err := r.store.HDel(ctx, r.key(session), name); err != nil {
		return fmt.Errorf("%w: remove selection: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Clear deletes every saved recipe of a session.
func (r *Repo) Clear(ctx context.Context, session string) error {
	if err := r.store.Del(ctx, r.key(session)); err != nil {
		return fmt.Errorf("%w: clear selections: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *Repo) key(session string) string {
	return r.prefix + "session:" + session + ":selections"
}
