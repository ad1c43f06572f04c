package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CreateSession handles POST /sessions.
func (s *Server) CreateSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusCreated, sessionResponse{Session: s.selections.NewSession()})
}

// ListSelections handles GET /sessions/{session}/selections.
func (s *Server) ListSelections(w http.ResponseWriter, r *http.Request) {
	recs, err := s.selections.List(r.Context(), chi.URLParam(r, "session"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]recipeItem, len(recs))
	for i := range recs {
		items[i] = recipeToItem(&recs[i])
	}
	writeJSON(w, http.StatusOK, listResponse{Items: items, Total: len(items)})
}

// SaveSelection handles PUT /sessions/{session}/selections/{id}.
func (s *Server) SaveSelection(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	rec, err := s.selections.Save(r.Context(), chi.URLParam(r, "session"), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recipeToItem(&rec))
}

// RemoveSelection handles DELETE /sessions/{session}/selections/{id}.
func (s *Server) RemoveSelection(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	if err := s.selections.Remove(r.Context(), chi.URLParam(r, "session"), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearSelections handles DELETE /sessions/{session}/selections.
func (s *Server) ClearSelections(w http.ResponseWriter, r *http.Request) {
	if err := s.selections.Clear(r.Context(), chi.URLParam(r, "session")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
