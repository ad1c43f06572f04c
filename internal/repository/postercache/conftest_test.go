package postercache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recipedex/internal/db"
)

type mockFinder struct {
	url   string
	err   error
	calls int
}

func (m *mockFinder) FindPoster(_ context.Context, _ int, _ string) (string, error) {
	m.calls++
	return m.url, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func (m *mockKVStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKVStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func newTestCache(t *testing.T, inner *mockFinder) (*Cache, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
	return New(inner, ms, "test:", time.Hour, nil, zap.NewNop()), ms
}
