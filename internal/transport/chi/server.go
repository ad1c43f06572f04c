package chi

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recipedex/internal/domain"
	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
	"github.com/kailas-cloud/recipedex/internal/domain/selection"
	healthuc "github.com/kailas-cloud/recipedex/internal/usecase/health"
	posteruc "github.com/kailas-cloud/recipedex/internal/usecase/poster"
	recommenduc "github.com/kailas-cloud/recipedex/internal/usecase/recommend"
	"github.com/kailas-cloud/recipedex/internal/version"
)

const maxBodyBytes = 1 << 20

const noMatchesMessage = "No recipes found matching your preferences."

// Recommender runs the recommendation pipeline.
type Recommender interface {
	Recommend(req recommenduc.Request) ([]recommenduc.Recommendation, error)
	Recipe(id int) (recipe.Recipe, error)
}

// PosterResolver resolves poster URLs, one per target.
type PosterResolver interface {
	Resolve(ctx context.Context, targets []posteruc.Target) []string
}

// Selections manages per-session saved recipes.
type Selections interface {
	NewSession() string
	List(ctx context.Context, session string) ([]recipe.Recipe, error)
	Save(ctx context.Context, session string, id int) (recipe.Recipe, error)
	Remove(ctx context.Context, session string, id int) error
	Clear(ctx context.Context, session string) error
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the recipe HTTP API.
type Server struct {
	recommender   Recommender
	posters       PosterResolver
	selections    Selections
	health        HealthChecker
	budget        selection.Budget
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. budget is the default nutrition budget that
// request overrides are merged onto.
func NewServer(
	recommender Recommender,
	posters PosterResolver,
	selections Selections,
	health HealthChecker,
	budget selection.Budget,
	logger *zap.Logger,
) *Server {
	s := &Server{
		recommender: recommender,
		posters:     posters,
		selections:  selections,
		health:      health,
		budget:      budget,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		validationHandler,
		sentinelHandler(domain.ErrInvalidBudget, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrNoMatches, http.StatusNotFound, codeNoMatches),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, codeStoreUnavailable),
	}
	return s
}

// Routes mounts every API route on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.Home)
	r.Post("/recommend", s.LegacyRecommend)

	r.Route("/recommendations", func(r chi.Router) {
		r.Post("/", s.Recommend)
		r.Post("/healthy", s.RecommendHealthy)
		r.Post("/by-ingredients", s.RecommendByIngredients)
	})

	r.Get("/recipes/{id}", s.GetRecipe)

	r.Post("/sessions", s.CreateSession)
	r.Route("/sessions/{session}/selections", func(r chi.Router) {
		r.Get("/", s.ListSelections)
		r.Delete("/", s.ClearSelections)
		r.Put("/{id}", s.SaveSelection)
		r.Delete("/{id}", s.RemoveSelection)
	})

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Home handles GET /.
func (s *Server) Home(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"name":    "recipedex",
		"version": version.Version,
		"message": "Welcome to the Recipe Recommendation API! Use the '/recommend' endpoint to get recommendations.",
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return err //nolint:wrapcheck // surfaced to client as bad_request
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-facing message without exposing internals.
func safeDomainMessage(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Reason
	}
	if errors.Is(err, domain.ErrNoMatches) {
		return noMatchesMessage
	}
	if errors.Is(err, domain.ErrInvalidBudget) {
		return err.Error()
	}
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrStoreUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// validationHandler handles ErrInvalidQuery, with the validation reason when present.
func validationHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrInvalidQuery) {
		return false
	}
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		msg = domain.ErrInvalidQuery.Error()
	}
	writeError(w, http.StatusBadRequest, codeValidationFailed, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.logger.With(zap.String("path", r.URL.Path))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			log.Debug("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
