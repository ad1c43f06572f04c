package recipedex

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
	"github.com/kailas-cloud/recipedex/internal/domain/vectorspace"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	corpusPath   string
	artifactPath string

	recipes []recipe.Recipe
	space   vectorspace.Space

	defaultLimit int
	maxLimit     int
	budget       Budget

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithCorpus sets the recipe corpus file (.csv or .parquet).
func WithCorpus(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.corpusPath = path
	})
}

// WithArtifact sets the prebuilt TF-IDF artifact file.
func WithArtifact(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.artifactPath = path
	})
}

// withCatalog injects an already loaded corpus and space (tests).
func withCatalog(recipes []recipe.Recipe, space vectorspace.Space) Option {
	return optionFunc(func(c *clientConfig) {
		c.recipes = recipes
		c.space = space
	})
}

// WithLimits sets the default and maximum number of recommendations per call.
// Defaults: 10 and 100.
func WithLimits(defaultLimit, maxLimit int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultLimit = defaultLimit
		c.maxLimit = maxLimit
	})
}

// WithBudget overrides the default nutrition budget used by RecommendHealthy.
// Defaults: 500 kcal, 15 fat, 10 sodium, 5 protein, 10 recipes.
func WithBudget(b Budget) Option {
	return optionFunc(func(c *clientConfig) {
		c.budget = b
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
