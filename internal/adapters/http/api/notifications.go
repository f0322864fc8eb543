// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/volunteerhub/beacon/internal/domain/model"
)

// NotificationDependencies defines the interface for notice operations.
type NotificationDependencies interface {
	Notify(ctx context.Context, volunteerID, title, body, typ string) (model.Notice, error)
	Notices(ctx context.Context, volunteerID string) ([]model.Notice, error)
	ClearNotices(ctx context.Context, volunteerID string) (int, error)
}

// NotificationsHandler handles notice backlog and direct-send requests.
type NotificationsHandler struct {
	deps NotificationDependencies
}

// NewNotificationsHandler creates a new notifications handler.
func NewNotificationsHandler(deps NotificationDependencies) *NotificationsHandler {
	return &NotificationsHandler{deps: deps}
}

// sendRequest mirrors the request schema for POST /notifications/send.
type sendRequest struct {
	VolunteerID string `json:"volunteerId" validate:"required"`
	Title       string `json:"title"       validate:"required"`
	Body        string `json:"body"`
	Type        string `json:"type"`
}

// clearResponse reports how many notices a clear removed.
type clearResponse struct {
	Cleared int `json:"cleared"`
}

// HandleList handles GET /notifications/list/{volunteer_id} requests.
func (h *NotificationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_notices"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/notifications/list/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	notices, err := h.deps.Notices(r.Context(), id)
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	// An empty backlog is a valid resource, not an error.
	if notices == nil {
		notices = []model.Notice{}
	}
	writeJSON(w, http.StatusOK, notices)
}

// HandleClear handles DELETE /notifications/clear/{volunteer_id} requests.
func (h *NotificationsHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	const op = "api.clear_notices"
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/notifications/clear/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	n, err := h.deps.ClearNotices(r.Context(), id)
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, clearResponse{Cleared: n})
}

// HandleSend handles POST /notifications/send requests.
func (h *NotificationsHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	const op = "api.send_notice"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	notice, err := h.deps.Notify(r.Context(), req.VolunteerID, req.Title, req.Body, req.Type)
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, notice)
}
