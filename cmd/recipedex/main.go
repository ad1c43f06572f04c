package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recipedex/internal/config"
	"github.com/kailas-cloud/recipedex/internal/db"
	dbBolt "github.com/kailas-cloud/recipedex/internal/db/bolt"
	dbRedis "github.com/kailas-cloud/recipedex/internal/db/redis"
	"github.com/kailas-cloud/recipedex/internal/domain"
	"github.com/kailas-cloud/recipedex/internal/domain/catalog"
	domsel "github.com/kailas-cloud/recipedex/internal/domain/selection"
	logpkg "github.com/kailas-cloud/recipedex/internal/logger"
	"github.com/kailas-cloud/recipedex/internal/metrics"
	"github.com/kailas-cloud/recipedex/internal/repository/corpus"
	"github.com/kailas-cloud/recipedex/internal/repository/postercache"
	selectionrepo "github.com/kailas-cloud/recipedex/internal/repository/selection"
	spacerepo "github.com/kailas-cloud/recipedex/internal/repository/vectorspace"
	chiTransport "github.com/kailas-cloud/recipedex/internal/transport/chi"
	"github.com/kailas-cloud/recipedex/internal/transport/foodcom"
	healthuc "github.com/kailas-cloud/recipedex/internal/usecase/health"
	posteruc "github.com/kailas-cloud/recipedex/internal/usecase/poster"
	recommenduc "github.com/kailas-cloud/recipedex/internal/usecase/recommend"
	selectionuc "github.com/kailas-cloud/recipedex/internal/usecase/selection"
	"github.com/kailas-cloud/recipedex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting recipedex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.Bool("posters", cfg.Poster.Enabled),
	)

	// Catalog: corpus rows and vector space rows must align
	cat, err := loadCatalog(cfg.Catalog, logger)
	if err != nil {
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}
	logger.Info("Catalog loaded", zap.Int("recipes", cat.Len()), zap.Int("dim", cat.Dim()))

	budget, err := domsel.DefaultBudget().Apply(domsel.Overrides{
		MaxCalories: cfg.Recommend.Budget.MaxCalories,
		MaxFat:      cfg.Recommend.Budget.MaxFat,
		MaxSodium:   cfg.Recommend.Budget.MaxSodium,
		MinProtein:  cfg.Recommend.Budget.MinProtein,
		MaxCount:    cfg.Recommend.Budget.MaxCount,
	})
	if err != nil {
		logger.Fatal("Invalid default budget", zap.Error(err))
	}

	// Selection store. An unreachable store degrades selections and poster caching
	// but never blocks recommendations.
	ctx := context.Background()
	store := openStore(ctx, cfg.Storage, logger)
	defer store.Close()

	// Register metrics explicitly (no init())
	metrics.Register()

	// Poster chain: food.com -> cache. Disabled posters always resolve to the placeholder.
	var (
		finder  domain.PosterFinder
		breaker healthuc.BreakerReporter
	)
	if cfg.Poster.Enabled {
		client := foodcom.New(foodcom.Config{
			BaseURL:   cfg.Poster.BaseURL,
			Timeout:   time.Duration(cfg.Poster.TimeoutSec) * time.Second,
			UserAgent: cfg.Poster.UserAgent,
			Breaker: foodcom.BreakerConfig{
				MaxRequests:      cfg.Poster.Breaker.MaxRequests,
				Interval:         time.Duration(cfg.Poster.Breaker.IntervalSec) * time.Second,
				Timeout:          time.Duration(cfg.Poster.Breaker.OpenTimeoutSec) * time.Second,
				FailureThreshold: cfg.Poster.Breaker.FailureThreshold,
			},
			Logger: logger,
		})
		breaker = client
		finder = postercache.New(client, store, cfg.Storage.KeyPrefix,
			time.Duration(cfg.Poster.CacheTTLSec)*time.Second, metrics.PosterCacheTotal, logger)
	}

	// Create use case services
	recommendSvc := recommenduc.New(cat, recommenduc.Limits{
		Default: cfg.Recommend.DefaultLimit,
		Max:     cfg.Recommend.MaxLimit,
	})
	posterSvc := posteruc.New(finder, posteruc.Config{
		Placeholder: cfg.Poster.Placeholder,
		Timeout:     time.Duration(cfg.Poster.TimeoutSec) * time.Second,
		Deadline:    time.Duration(cfg.Poster.DeadlineSec) * time.Second,
		Concurrency: cfg.Poster.Concurrency,
	}, logger)
	selectionSvc := selectionuc.New(selectionrepo.New(store, cfg.Storage.KeyPrefix, logger), cat)
	healthSvc := healthuc.New(cat, store, breaker)

	// Create chi server
	server := chiTransport.NewServer(recommendSvc, posterSvc, selectionSvc, healthSvc, budget, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// openStore creates the store for the configured driver. Failures are logged and
// yield a db.Unavailable, so dependent endpoints answer 503 while the rest serve.
func openStore(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) db.Store {
	var (
		store db.Store
		err   error
	)
	switch cfg.Driver {
	case "redis":
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
	case "bolt":
		store, err = dbBolt.NewStore(dbBolt.Config{
			Path: cfg.BoltPath,
		})
	default:
		err = fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
	if err != nil {
		logger.Warn("Store unavailable, selections disabled", zap.String("driver", cfg.Driver), zap.Error(err))
		return db.NewUnavailable(err)
	}

	// The redis client reconnects on its own, so a slow start only degrades.
	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		logger.Warn("Store not ready, continuing degraded", zap.String("driver", cfg.Driver), zap.Error(err))
		return store
	}
	logger.Info("Connected to store", zap.String("driver", cfg.Driver))
	return store
}

// loadCatalog reads the corpus and the fitted vector space and pairs them.
func loadCatalog(cfg config.CatalogConfig, logger *zap.Logger) (*catalog.Catalog, error) {
	recipes, err := corpus.New(logger).Load(cfg.CorpusPath)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	space, err := spacerepo.Load(cfg.ArtifactPath)
	if err != nil {
		return nil, fmt.Errorf("load vector space: %w", err)
	}
	cat, err := catalog.New(recipes, space)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	return cat, nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
