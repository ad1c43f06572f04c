// Package foodcom resolves recipe poster images by scraping food.com recipe pages.
package foodcom

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/kailas-cloud/recipedex/internal/domain"
	"github.com/kailas-cloud/recipedex/internal/metrics"
)

// DefaultBaseURL is the public food.com origin.
const DefaultBaseURL = "https://www.food.com"

// BreakerConfig configures the circuit breaker around page fetches.
type BreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// Config holds the scraper settings.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Breaker   BreakerConfig
	Logger    *zap.Logger
}

// Client implements domain.PosterFinder against food.com.
type Client struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker[string]
	logger  *zap.Logger
}

var _ domain.PosterFinder = (*Client)(nil)

// New creates a food.com client.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Breaker.FailureThreshold == 0 {
		cfg.Breaker.FailureThreshold = 5
	}
	if cfg.Breaker.Timeout <= 0 {
		cfg.Breaker.Timeout = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}

	c := &Client{http: client, logger: logger}
	c.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "foodcom",
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    cfg.Breaker.Interval,
		Timeout:     cfg.Breaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.Breaker.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrPosterUnavailable)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name), zap.String("from", from.String()), zap.String("to", to.String()))
			metrics.BreakerState.WithLabelValues(name).Set(float64(to))
		},
	})
	return c
}

// FindPoster fetches the recipe page and extracts the primary image URL.
func (c *Client) FindPoster(ctx context.Context, id int, name string) (string, error) {
	path := "/recipe/" + Slug(name) + "-" + strconv.Itoa(id)

	url, err := c.breaker.Execute(func() (string, error) {
		return c.fetch(ctx, path)
	})
	switch {
	case err == nil:
		metrics.PosterLookupsTotal.WithLabelValues("found").Inc()
		return url, nil
	case errors.Is(err, domain.ErrPosterUnavailable):
		metrics.PosterLookupsTotal.WithLabelValues("placeholder").Inc()
		return "", err
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.PosterLookupsTotal.WithLabelValues("breaker_open").Inc()
		return "", fmt.Errorf("food.com %s: %w", path, err)
	default:
		metrics.PosterLookupsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("food.com %s: %w", path, err)
	}
}

// BreakerState reports the circuit breaker state ("closed", "half-open", "open").
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

func (c *Client) fetch(ctx context.Context, path string) (string, error) {
	start := time.Now()
	resp, err := c.http.R().SetContext(ctx).Get(path)
	metrics.PosterLookupDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusOK:
	case code >= http.StatusInternalServerError || code == http.StatusTooManyRequests:
		return "", fmt.Errorf("unexpected status %d", code)
	default:
		return "", fmt.Errorf("status %d: %w", code, domain.ErrPosterUnavailable)
	}

	doc, err := html.Parse(bytes.NewReader(resp.Body()))
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}
	url := primaryImage(doc)
	if url == "" {
		return "", fmt.Errorf("no primary image: %w", domain.ErrPosterUnavailable)
	}
	return url, nil
}

// Slug converts a recipe name to its food.com URL form: lowercase, words joined by "-".
func Slug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// primaryImage returns the first image URL under a div with class "primary-image":
// the first srcset candidate if present, else src.
func primaryImage(doc *html.Node) string {
	div := findNode(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "div" && hasClass(n, "primary-image")
	})
	if div == nil {
		return ""
	}
	img := findNode(div, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "img"
	})
	if img == nil {
		return ""
	}
	if srcset, ok := attr(img, "srcset"); ok {
		if fields := strings.Fields(srcset); len(fields) > 0 {
			return fields[0]
		}
	}
	src, _ := attr(img, "src")
	return strings.TrimSpace(src)
}

func findNode(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findNode(child, match); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	v, ok := attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}
