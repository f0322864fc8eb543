// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-contrib/sse"

	"github.com/volunteerhub/beacon/internal/bus"
	"github.com/volunteerhub/beacon/internal/domain/model"
	"github.com/volunteerhub/beacon/pkg/logger"
	"github.com/volunteerhub/beacon/pkg/metrics"
)

// noticeEvent names the SSE event type clients subscribe to.
const noticeEvent = "notice"

// StreamDependencies defines the interface for the SSE gateway.
type StreamDependencies interface {
	Notices(ctx context.Context, volunteerID string) ([]model.Notice, error)
	SubscribeNotices(volunteerID string) (*bus.Subscription, <-chan model.Notice)
	Unsubscribe(sub *bus.Subscription)
}

// StreamHandler serves per-volunteer notice streams over SSE.
type StreamHandler struct {
	deps StreamDependencies
}

// NewStreamHandler creates a new stream handler.
func NewStreamHandler(deps StreamDependencies) *StreamHandler {
	return &StreamHandler{deps: deps}
}

// HandleStream handles GET /notifications/stream/{volunteer_id} requests.
//
// The session replays the persisted backlog first, then attaches a live
// subscription and forwards published notices until the client goes away.
// Subscribing only after the replay finishes keeps the two phases ordered
// on the wire; a notice published during replay is missed by the stream
// but remains in the backlog for the next connection.
func (h *StreamHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	const op = "api.stream"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/notifications/stream/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal_error", NewKind(op, ErrStream))
		return
	}
	log := logger.Get().Named(op)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// Backlog replay is best-effort: a failing read degrades the stream to
	// live-only instead of tearing it down.
	backlog, err := h.deps.Notices(r.Context(), id)
	if err != nil {
		metrics.RecordBacklogReplayFailure()
		log.Error(r.Context(), "backlog replay failed, continuing live-only",
			logger.String("volunteer_id", id),
			logger.Error(err))
	}
	for _, n := range backlog {
		if err := encodeNotice(w, n); err != nil {
			return
		}
	}
	flusher.Flush()

	sub, ch := h.deps.SubscribeNotices(id)
	defer h.deps.Unsubscribe(sub)
	metrics.RecordStreamOpened()
	log.Debug(r.Context(), "stream opened",
		logger.String("volunteer_id", id),
		logger.Int("backlog", len(backlog)))

	for {
		select {
		case <-r.Context().Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			if err := encodeNotice(w, n); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func encodeNotice(w io.Writer, n model.Notice) error {
	return sse.Encode(w, sse.Event{
		Id:    n.ID,
		Event: noticeEvent,
		Data:  n,
	})
}
