// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/volunteerhub/beacon/internal/adapters/repository"
	"github.com/volunteerhub/beacon/internal/app"
	"github.com/volunteerhub/beacon/internal/bus"
	"github.com/volunteerhub/beacon/internal/domain/model"
	"github.com/volunteerhub/beacon/internal/domain/ranking"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Read operations expose the matching catalog.
	Volunteers(ctx context.Context) ([]model.Volunteer, error)
	Events(ctx context.Context) ([]model.Event, error)
	Rank(ctx context.Context, volunteerID string, topN int) ([]Match, error)

	// Assign runs the assignment workflow end to end.
	Assign(ctx context.Context, volunteerID, eventID string) (model.Assignment, model.Notice, error)

	// Notice operations back the notifications surface.
	Notify(ctx context.Context, volunteerID, title, body, typ string) (model.Notice, error)
	Notices(ctx context.Context, volunteerID string) ([]model.Notice, error)
	ClearNotices(ctx context.Context, volunteerID string) (int, error)

	// Live delivery for the SSE gateway.
	SubscribeNotices(volunteerID string) (*bus.Subscription, <-chan model.Notice)
	Unsubscribe(sub *bus.Subscription)
}

// Match mirrors the read shape returned by ranking queries.
type Match = ranking.Match

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler        *HealthHandler
	statsHandler         *StatsHandler
	matchHandler         *MatchHandler
	assignHandler        *AssignHandler
	notificationsHandler *NotificationsHandler
	streamHandler        *StreamHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:        NewHealthHandler(),
		statsHandler:         NewStatsHandler(statsProvider),
		matchHandler:         NewMatchHandler(deps),
		assignHandler:        NewAssignHandler(deps),
		notificationsHandler: NewNotificationsHandler(deps),
		streamHandler:        NewStreamHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/match/volunteers", MetricsMiddleware(s.matchHandler.HandleListVolunteers, "match_volunteers"))
	mux.HandleFunc("/match/events", MetricsMiddleware(s.matchHandler.HandleListEvents, "match_events"))
	mux.HandleFunc("/match/volunteer/", MetricsMiddleware(s.matchHandler.HandleGetMatches, "match_volunteer"))
	mux.HandleFunc("/match/assign", MetricsMiddleware(s.assignHandler.HandleAssign, "match_assign"))
	mux.HandleFunc("/notifications/list/", MetricsMiddleware(s.notificationsHandler.HandleList, "notifications_list"))
	mux.HandleFunc("/notifications/clear/", MetricsMiddleware(s.notificationsHandler.HandleClear, "notifications_clear"))
	mux.HandleFunc("/notifications/send", MetricsMiddleware(s.notificationsHandler.HandleSend, "notifications_send"))
	// The stream endpoint is long-lived; latency metrics would only measure
	// connection lifetime, so it records its own open counter instead.
	mux.HandleFunc("/notifications/stream/", s.streamHandler.HandleStream)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates workflow errors into the API's status and
// code taxonomy.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrMissingField) || errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case repository.IsNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", err)
	case repository.IsConflict(err):
		writeError(w, http.StatusConflict, "conflict", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
