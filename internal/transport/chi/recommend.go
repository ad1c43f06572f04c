package chi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recipedex/internal/domain"
	"github.com/kailas-cloud/recipedex/internal/domain/preference"
	"github.com/kailas-cloud/recipedex/internal/domain/selection"
	"github.com/kailas-cloud/recipedex/internal/domain/substitution"
	"github.com/kailas-cloud/recipedex/internal/metrics"
	posteruc "github.com/kailas-cloud/recipedex/internal/usecase/poster"
	recommenduc "github.com/kailas-cloud/recipedex/internal/usecase/recommend"
)

// Recommendation modes, used as metric labels.
const (
	modeLegacy      = "legacy"
	modeRanked      = "ranked"
	modeHealthy     = "healthy"
	modeIngredients = "ingredients"
)

// LegacyRecommend handles POST /recommend.
// Every non-empty field becomes a required tag; taste is split on commas.
// The whole ranked set is returned.
func (s *Server) LegacyRecommend(w http.ResponseWriter, r *http.Request) {
	var req legacyRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	tags := []string{req.Preference, req.Cuisine}
	tags = append(tags, preference.SplitList(req.Taste)...)
	tags = append(tags, req.Ingredients)

	q, err := preference.New(tags, nil, nil, "")
	if err != nil {
		recordOutcome(modeLegacy, err, 0)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": safeDomainMessage(err)})
		return
	}

	recs, err := s.recommender.Recommend(recommenduc.Request{Query: q, Unlimited: true})
	recordOutcome(modeLegacy, err, len(recs))
	switch {
	case errors.Is(err, domain.ErrNoMatches):
		writeJSON(w, http.StatusNotFound, map[string]string{"message": noMatchesMessage})
		return
	case err != nil:
		s.logger.Error("legacy recommend failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	urls := s.resolvePosters(r.Context(), recommendationTargets(recs))
	items := make([]legacyItem, len(recs))
	for i := range recs {
		rec := &recs[i].Recipe
		items[i] = legacyItem{
			Name:        rec.Name(),
			Tags:        rec.Tags(),
			Ingredients: rec.Ingredients(),
			Steps:       rec.Steps(),
			PosterURL:   urls[i],
		}
	}
	writeJSON(w, http.StatusOK, items)
}

// Recommend handles POST /recommendations.
func (s *Server) Recommend(w http.ResponseWriter, r *http.Request) {
	var req preferenceRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	rreq, err := req.toRequest()
	if err != nil {
		recordOutcome(modeRanked, err, 0)
		s.handleDomainError(w, r, err)
		return
	}
	s.serveRecommendations(w, r, modeRanked, rreq)
}

// RecommendHealthy handles POST /recommendations/healthy.
// Request budget fields override the configured default budget.
func (s *Server) RecommendHealthy(w http.ResponseWriter, r *http.Request) {
	var req healthyRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	rreq, err := req.toRequest()
	if err == nil {
		var b selection.Budget
		b, err = s.budget.Apply(req.Budget.overrides())
		rreq.Budget = &b
	}
	if err != nil {
		recordOutcome(modeHealthy, err, 0)
		s.handleDomainError(w, r, err)
		return
	}
	s.serveRecommendations(w, r, modeHealthy, rreq)
}

// RecommendByIngredients handles POST /recommendations/by-ingredients.
// Ingredients are returned as stored, without substitutions.
func (s *Server) RecommendByIngredients(w http.ResponseWriter, r *http.Request) {
	var req ingredientsRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	q, err := preference.New(nil, req.Ingredients, nil, "")
	if err != nil {
		recordOutcome(modeIngredients, err, 0)
		s.handleDomainError(w, r, err)
		return
	}
	s.serveRecommendations(w, r, modeIngredients, recommenduc.Request{
		Query:          q,
		Limit:          req.Limit,
		RawIngredients: true,
	})
}

// GetRecipe handles GET /recipes/{id}.
func (s *Server) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	rec, err := s.recommender.Recipe(id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	item := recipeToItem(&rec)
	if wantPosters(r) {
		item.PosterURL = s.resolvePosters(r.Context(), []posteruc.Target{{ID: rec.ID(), Name: rec.Name()}})[0]
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) serveRecommendations(w http.ResponseWriter, r *http.Request, mode string, req recommenduc.Request) {
	recs, err := s.recommender.Recommend(req)
	recordOutcome(mode, err, len(recs))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]recipeItem, len(recs))
	for i := range recs {
		items[i] = recommendationToItem(&recs[i])
	}
	if wantPosters(r) {
		for i, url := range s.resolvePosters(r.Context(), recommendationTargets(recs)) {
			items[i].PosterURL = url
		}
	}

	writeJSON(w, http.StatusOK, listResponse{Items: items, Total: len(items)})
}

func (s *Server) resolvePosters(ctx context.Context, targets []posteruc.Target) []string {
	if s.posters == nil {
		return make([]string, len(targets))
	}
	return s.posters.Resolve(ctx, targets)
}

func (req *preferenceRequest) toRequest() (recommenduc.Request, error) {
	q, err := preference.Form{
		Diet:       req.Diet,
		Cuisine:    req.Cuisine,
		Tastes:     req.Tastes,
		Include:    req.Include,
		Exclude:    req.Exclude,
		Additional: req.Additional,
	}.Query()
	if err != nil {
		return recommenduc.Request{}, err //nolint:wrapcheck // validation error
	}
	conditions, err := substitution.ParseConditions(req.Conditions)
	if err != nil {
		return recommenduc.Request{}, err //nolint:wrapcheck // validation error
	}
	return recommenduc.Request{Query: q, Conditions: conditions, Limit: req.Limit}, nil
}

func recommendationTargets(recs []recommenduc.Recommendation) []posteruc.Target {
	targets := make([]posteruc.Target, len(recs))
	for i := range recs {
		rec := &recs[i].Recipe
		targets[i] = posteruc.Target{ID: rec.ID(), Name: rec.Name()}
	}
	return targets
}

// wantPosters reports whether poster lookups are requested. Defaults to true.
func wantPosters(r *http.Request) bool {
	v := r.URL.Query().Get("posters")
	if v == "" {
		return true
	}
	ok, err := strconv.ParseBool(v)
	return err != nil || ok
}

func idParam(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, domain.NewValidationError("recipe id must be an integer")
	}
	return id, nil
}

func recordOutcome(mode string, err error, size int) {
	outcome := "ok"
	switch {
	case err == nil:
		metrics.RecommendResultSize.WithLabelValues(mode).Observe(float64(size))
	case errors.Is(err, domain.ErrNoMatches):
		outcome = "no_matches"
	case errors.Is(err, domain.ErrInvalidQuery), errors.Is(err, domain.ErrInvalidBudget):
		outcome = "invalid"
	default:
		outcome = "error"
	}
	metrics.RecommendOutcomeTotal.WithLabelValues(mode, outcome).Inc()
}
