package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the recipedex API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Storage   StorageConfig   `yaml:"storage"`
	Poster    PosterConfig    `yaml:"poster"`
	Recommend RecommendConfig `yaml:"recommend"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CatalogConfig points at the recipe corpus and its fitted vector space.
type CatalogConfig struct {
	CorpusPath   string `yaml:"corpus_path"`   // .csv or .parquet
	ArtifactPath string `yaml:"artifact_path"` // tfidf JSON artifact
}

// StorageConfig holds selection store and cache settings.
type StorageConfig struct {
	Driver           string   `yaml:"driver"` // redis, bolt (default: bolt)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	BoltPath         string   `yaml:"bolt_path"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// PosterConfig holds poster lookup settings.
type PosterConfig struct {
	Enabled     bool          `yaml:"enabled"`
	BaseURL     string        `yaml:"base_url"`
	UserAgent   string        `yaml:"user_agent"`
	TimeoutSec  int           `yaml:"timeout_sec"`  // per lookup
	DeadlineSec int           `yaml:"deadline_sec"` // all lookups of one request
	Placeholder string        `yaml:"placeholder"`
	CacheTTLSec int           `yaml:"cache_ttl_sec"` // 0 = no expiry
	Concurrency int           `yaml:"concurrency"`
	Breaker     BreakerConfig `yaml:"breaker"`
}

// BreakerConfig holds circuit breaker settings for poster lookups.
type BreakerConfig struct {
	FailureThreshold uint32 `yaml:"failure_threshold"`
	MaxRequests      uint32 `yaml:"half_open_max_requests"`
	IntervalSec      int    `yaml:"interval_sec"`
	OpenTimeoutSec   int    `yaml:"open_timeout_sec"`
}

// RecommendConfig holds result limits and the default nutrition budget.
type RecommendConfig struct {
	DefaultLimit int          `yaml:"default_limit"`
	MaxLimit     int          `yaml:"max_limit"`
	Budget       BudgetConfig `yaml:"budget"`
}

// BudgetConfig overrides the built-in nutrition budget. Unset fields keep their defaults.
type BudgetConfig struct {
	MaxCalories *float64 `yaml:"max_calories"`
	MaxFat      *float64 `yaml:"max_fat"`
	MaxSodium   *float64 `yaml:"max_sodium"`
	MinProtein  *float64 `yaml:"min_protein"`
	MaxCount    *int     `yaml:"max_count"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "bolt"
	}
	if c.Storage.BoltPath == "" {
		c.Storage.BoltPath = "data/recipedex.db"
	}
	if c.Storage.ReadinessTimeout <= 0 {
		c.Storage.ReadinessTimeout = 10
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "recipedex:"
	}
	if c.Poster.BaseURL == "" {
		c.Poster.BaseURL = "https://www.food.com"
	}
	if c.Poster.TimeoutSec <= 0 {
		c.Poster.TimeoutSec = 10
	}
	if c.Poster.DeadlineSec <= 0 {
		c.Poster.DeadlineSec = 15
	}
	if c.Poster.Placeholder == "" {
		c.Poster.Placeholder = "https://via.placeholder.com/500"
	}
	if c.Poster.Concurrency <= 0 {
		c.Poster.Concurrency = 4
	}
	if c.Poster.Breaker.FailureThreshold == 0 {
		c.Poster.Breaker.FailureThreshold = 5
	}
	if c.Poster.Breaker.MaxRequests == 0 {
		c.Poster.Breaker.MaxRequests = 1
	}
	if c.Poster.Breaker.OpenTimeoutSec <= 0 {
		c.Poster.Breaker.OpenTimeoutSec = 30
	}
	if c.Recommend.DefaultLimit <= 0 {
		c.Recommend.DefaultLimit = 10
	}
	if c.Recommend.MaxLimit <= 0 {
		c.Recommend.MaxLimit = 100
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Catalog.CorpusPath == "" {
		return fmt.Errorf("catalog.corpus_path is required")
	}
	if c.Catalog.ArtifactPath == "" {
		return fmt.Errorf("catalog.artifact_path is required")
	}
	switch c.Storage.Driver {
	case "redis":
		if len(c.Storage.Addrs) == 0 {
			return fmt.Errorf("storage.addrs is required for the redis driver")
		}
	case "bolt":
		// bolt_path has a default
	default:
		return fmt.Errorf("storage.driver must be \"redis\" or \"bolt\", got %q", c.Storage.Driver)
	}
	if c.Recommend.DefaultLimit > c.Recommend.MaxLimit {
		return fmt.Errorf("recommend.default_limit (%d) must not exceed recommend.max_limit (%d)",
			c.Recommend.DefaultLimit, c.Recommend.MaxLimit)
	}
	if c.Poster.DeadlineSec >= c.HTTP.WriteTimeoutSec {
		return fmt.Errorf("poster.deadline_sec (%d) must be below http.write_timeout_sec (%d)",
			c.Poster.DeadlineSec, c.HTTP.WriteTimeoutSec)
	}
	if c.Poster.CacheTTLSec < 0 {
		return fmt.Errorf("poster.cache_ttl_sec must be >= 0, got %d", c.Poster.CacheTTLSec)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
