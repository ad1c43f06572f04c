package selection

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hashes map[string]map[string]string
	err    error
}

func newMockStore() *mockStore {
	return &mockStore{hashes: map[string]map[string]string{}}
}

func (m *mockStore) HSet(_ context.Context, key string, fields map[string]string) error {
	if m.err != nil {
		return m.err
	}
	h, ok := m.hashes[key]
	if !ok {
		h = map[string]string{}
		m.hashes[key] = h
	}
	for k, v := range fields {
		h[k] = v
	}
	return nil
}

func (m *mockStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := map[string]string{}
	for k, v := range m.hashes[key] {
		out[k] = v
	}
	return out, nil
}

func (m *mockStore) HDel(_ context.Context, key string, fields ...string) error {
	if m.err != nil {
		return m.err
	}
	for _, f := range fields {
		delete(m.hashes[key], f)
	}
	return nil
}

func (m *mockStore) Del(_ context.Context, key string) error {
	if m.err != nil {
		return m.err
	}
	delete(m.hashes, key)
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := newMockStore()
	return New(ms, "test:", zap.NewNop()), ms
}

func testRecipe(t *testing.T, id int, name string) recipe.Recipe {
	t.Helper()
	r, err := recipe.New(id, name, "vegetarian quick", "Vegetarian, quick",
		[]string{"tomato", "basil"}, []string{"chop", "serve"},
		recipe.NewNutrition(300, 5, 1, 2, 12, 1, 3))
	if err != nil {
		t.Fatalf("recipe.New: %v", err)
	}
	return r
}
