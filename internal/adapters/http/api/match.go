// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/volunteerhub/beacon/internal/domain/model"
)

// MatchDependencies defines the interface for matching read operations.
type MatchDependencies interface {
	Volunteers(ctx context.Context) ([]model.Volunteer, error)
	Events(ctx context.Context) ([]model.Event, error)
	Rank(ctx context.Context, volunteerID string, topN int) ([]Match, error)
}

// MatchHandler handles matching catalog and ranking requests.
type MatchHandler struct {
	deps MatchDependencies
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(deps MatchDependencies) *MatchHandler {
	return &MatchHandler{deps: deps}
}

// HandleListVolunteers handles GET /match/volunteers requests.
func (h *MatchHandler) HandleListVolunteers(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_volunteers"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	vols, err := h.deps.Volunteers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, vols)
}

// HandleListEvents handles GET /match/events requests.
func (h *MatchHandler) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_events"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	events, err := h.deps.Events(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// HandleGetMatches handles GET /match/volunteer/{volunteer_id}?topN=N requests.
func (h *MatchHandler) HandleGetMatches(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_matches"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/match/volunteer/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	topN := 0
	if raw := r.URL.Query().Get("topN"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		topN = n
	}

	matches, err := h.deps.Rank(r.Context(), id, topN)
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, matches)
}
