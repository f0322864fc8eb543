// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/volunteerhub/beacon/internal/domain/model"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// AssignDependencies defines the interface for the assignment workflow.
type AssignDependencies interface {
	Assign(ctx context.Context, volunteerID, eventID string) (model.Assignment, model.Notice, error)
}

// AssignHandler handles assignment requests.
type AssignHandler struct {
	deps AssignDependencies
}

// NewAssignHandler creates a new assign handler.
func NewAssignHandler(deps AssignDependencies) *AssignHandler {
	return &AssignHandler{deps: deps}
}

// assignRequest mirrors the request schema for POST /match/assign.
type assignRequest struct {
	VolunteerID string `json:"volunteerId" validate:"required"`
	EventID     string `json:"eventId"     validate:"required"`
}

// assignResponse carries the created assignment and its notice.
type assignResponse struct {
	Assignment model.Assignment `json:"assignment"`
	Notice     model.Notice     `json:"notice"`
}

// HandleAssign handles POST /match/assign requests.
func (h *AssignHandler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	const op = "api.assign"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	asg, notice, err := h.deps.Assign(r.Context(), req.VolunteerID, req.EventID)
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, assignResponse{Assignment: asg, Notice: notice})
}
