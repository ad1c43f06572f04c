package poster

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/recipedex/internal/domain"
)

// DefaultPlaceholder is returned for recipes without a resolvable poster.
const DefaultPlaceholder = "https://via.placeholder.com/500"

// Target identifies a recipe whose poster is wanted.
type Target struct {
	ID   int
	Name string
}

// Config holds lookup settings.
type Config struct {
	Placeholder string
	Timeout     time.Duration // per lookup
	Deadline    time.Duration // whole Resolve call
	Concurrency int
}

// Service resolves poster URLs best-effort. It never fails: any lookup error yields
// the placeholder.
type Service struct {
	finder domain.PosterFinder
	cfg    Config
	logger *zap.Logger
}

// New creates a poster service. A nil finder disables lookups.
func New(finder domain.PosterFinder, cfg Config, logger *zap.Logger) *Service {
	if cfg.Placeholder == "" {
		cfg.Placeholder = DefaultPlaceholder
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Deadline <= 0 {
		cfg.Deadline = 15 * time.Second
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &Service{finder: finder, cfg: cfg, logger: logger}
}

// Resolve returns one URL per target, in target order. It returns by the configured
// deadline; targets still pending at that point keep the placeholder.
func (s *Service) Resolve(ctx context.Context, targets []Target) []string {
	out := make([]string, len(targets))
	for i := range out {
		out[i] = s.cfg.Placeholder
	}
	if s.finder == nil || len(targets) == 0 {
		return out
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Deadline)
	defer cancel()

	type found struct {
		index int
		url   string
	}
	// buffered so lookups finishing after the deadline never block
	results := make(chan found, len(targets))

	go func() {
		defer close(results)
		var g errgroup.Group
		g.SetLimit(s.cfg.Concurrency)
		for i, t := range targets {
			if ctx.Err() != nil {
				break
			}
			g.Go(func() error {
				if ctx.Err() != nil {
					return nil
				}
				if url, ok := s.lookup(ctx, t); ok {
					results <- found{index: i, url: url}
				}
				return nil
			})
		}
		_ = g.Wait()
	}()

	for {
		select {
		case f, ok := <-results:
			if !ok {
				return out
			}
			out[f.index] = f.url
		case <-ctx.Done():
			s.logger.Debug("Poster deadline reached", zap.Int("targets", len(targets)), zap.Error(ctx.Err()))
			return out
		}
	}
}

// Placeholder returns the configured fallback URL.
func (s *Service) Placeholder() string { return s.cfg.Placeholder }

func (s *Service) lookup(ctx context.Context, t Target) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	url, err := s.finder.FindPoster(ctx, t.ID, t.Name)
	if err != nil {
		if !errors.Is(err, domain.ErrPosterUnavailable) {
			s.logger.Debug("Poster lookup failed", zap.Int("id", t.ID), zap.Error(err))
		}
		return "", false
	}
	if url == "" {
		return "", false
	}
	return url, true
}
