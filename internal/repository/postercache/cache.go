package postercache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recipedex/internal/db"
	"github.com/kailas-cloud/recipedex/internal/domain"
)

// store is the consumer interface for the poster cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache caches poster URLs in a key-value store.
// A recipe without an image is cached as an empty value so it is not scraped again
// until the entry expires.
type Cache struct {
	inner      domain.PosterFinder
	store      store
	prefix     string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

var _ domain.PosterFinder = (*Cache)(nil)

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.PosterFinder,
	s store,
	prefix string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Cache {
	return &Cache{
		inner:      inner,
		store:      s,
		prefix:     prefix + "poster:",
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// FindPoster returns a cached URL or calls the inner finder.
func (c *Cache) FindPoster(ctx context.Context, id int, name string) (string, error) {
	key := c.prefix + strconv.Itoa(id)

	if url, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		if url == "" {
			return "", domain.ErrPosterUnavailable
		}
		return url, nil
	}

	c.incCache("miss")

	url, err := c.inner.FindPoster(ctx, id, name)
	if err != nil {
		if errors.Is(err, domain.ErrPosterUnavailable) {
			c.putToCache(ctx, key, "")
		}
		return "", fmt.Errorf("find poster: %w", err)
	}

	c.putToCache(ctx, key, url)
	return url, nil
}

func (c *Cache) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *Cache) getFromCache(ctx context.Context, key string) (string, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached poster", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return string(data), true
}

func (c *Cache) putToCache(ctx context.Context, key, url string) {
	if err := c.store.SetWithTTL(ctx, key, []byte(url), c.ttl); err != nil {
		c.logger.Warn("Failed to cache poster", zap.String("key", key), zap.Error(err))
	}
}
