package recipedex

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recipedex/internal/domain/catalog"
	"github.com/kailas-cloud/recipedex/internal/domain/preference"
	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
	"github.com/kailas-cloud/recipedex/internal/domain/selection"
	"github.com/kailas-cloud/recipedex/internal/domain/substitution"
	"github.com/kailas-cloud/recipedex/internal/repository/corpus"
	spacerepo "github.com/kailas-cloud/recipedex/internal/repository/vectorspace"
	recommenduc "github.com/kailas-cloud/recipedex/internal/usecase/recommend"
)

// recommendUseCase is the internal interface for the recommendation pipeline.
type recommendUseCase interface {
	Recommend(req recommenduc.Request) ([]recommenduc.Recommendation, error)
	Recipe(id int) (recipe.Recipe, error)
}

// Client is the recipedex SDK entry point. Safe for concurrent use.
type Client struct {
	size   int
	svc    recommendUseCase
	budget selection.Budget
	obs    *observer
}

// New loads the catalog and creates a Client.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	recipes, space := cfg.recipes, cfg.space
	if space == nil {
		if cfg.corpusPath == "" || cfg.artifactPath == "" {
			return nil, errors.New("recipedex: corpus and artifact paths required (use WithCorpus and WithArtifact)")
		}
		var err error
		recipes, err = corpus.New(zap.NewNop()).Load(cfg.corpusPath)
		if err != nil {
			return nil, fmt.Errorf("recipedex: load corpus: %w", err)
		}
		space, err = spacerepo.Load(cfg.artifactPath)
		if err != nil {
			return nil, fmt.Errorf("recipedex: load artifact: %w", err)
		}
	}

	cat, err := catalog.New(recipes, space)
	if err != nil {
		return nil, fmt.Errorf("recipedex: %w", err)
	}

	budget, err := selection.DefaultBudget().Apply(cfg.budget.overrides())
	if err != nil {
		return nil, fmt.Errorf("recipedex: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{
		size:   cat.Len(),
		svc:    recommenduc.New(cat, recommenduc.Limits{Default: cfg.defaultLimit, Max: cfg.maxLimit}),
		budget: budget,
		obs:    obs,
	}, nil
}

// Len returns the number of catalog recipes.
func (c *Client) Len() int { return c.size }

// Recommend filters and ranks the catalog by preferences.
func (c *Client) Recommend(p Preferences) (_ []Recommendation, err error) {
	start := time.Now()
	defer func() { c.obs.observe("recommend", start, err) }()

	req, err := p.request()
	if err != nil {
		return nil, err
	}
	return c.run(req)
}

// RecommendHealthy ranks by preferences, then greedily selects recipes within the budget.
func (c *Client) RecommendHealthy(p Preferences, b Budget) (_ []Recommendation, err error) {
	start := time.Now()
	defer func() { c.obs.observe("recommend_healthy", start, err) }()

	req, err := p.request()
	if err != nil {
		return nil, err
	}
	budget, err := c.budget.Apply(b.overrides())
	if err != nil {
		return nil, fmt.Errorf("recipedex: %w", err)
	}
	req.Budget = &budget
	return c.run(req)
}

// RecommendByIngredients ranks the recipes containing every ingredient.
// Ingredients are returned as stored, without substitutions.
func (c *Client) RecommendByIngredients(ingredients []string, limit int) (_ []Recommendation, err error) {
	start := time.Now()
	defer func() { c.obs.observe("recommend_by_ingredients", start, err) }()

	q, err := preference.New(nil, ingredients, nil, "")
	if err != nil {
		return nil, fmt.Errorf("recipedex: %w", err)
	}
	return c.run(recommenduc.Request{Query: q, Limit: limit, RawIngredients: true})
}

// Recipe returns a catalog recipe by id.
func (c *Client) Recipe(id int) (_ Recipe, err error) {
	start := time.Now()
	defer func() { c.obs.observe("recipe", start, err) }()

	r, err := c.svc.Recipe(id)
	if err != nil {
		return Recipe{}, fmt.Errorf("recipedex: %w", err)
	}
	return recipeFromDomain(&r), nil
}

// Substitute rewrites ingredients for the named health conditions, one output per input.
func Substitute(ingredients []string, conditions ...string) ([]string, error) {
	active, err := substitution.ParseConditions(conditions)
	if err != nil {
		return nil, fmt.Errorf("recipedex: %w", err)
	}
	return substitution.Apply(ingredients, active), nil
}

func (c *Client) run(req recommenduc.Request) ([]Recommendation, error) {
	recs, err := c.svc.Recommend(req)
	if err != nil {
		return nil, fmt.Errorf("recipedex: %w", err)
	}
	return recommendationsFromDomain(recs), nil
}

func (p Preferences) request() (recommenduc.Request, error) {
	q, err := preference.Form{
		Diet:       p.Diet,
		Cuisine:    p.Cuisine,
		Tastes:     p.Tastes,
		Include:    p.Include,
		Exclude:    p.Exclude,
		Additional: p.Additional,
	}.Query()
	if err != nil {
		return recommenduc.Request{}, fmt.Errorf("recipedex: %w", err)
	}
	conditions, err := substitution.ParseConditions(p.Conditions)
	if err != nil {
		return recommenduc.Request{}, fmt.Errorf("recipedex: %w", err)
	}
	return recommenduc.Request{Query: q, Conditions: conditions, Limit: p.Limit}, nil
}
