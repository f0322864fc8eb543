// Package app wires the matching domain, the notice store and the
// notification bus into the workflow the transport layer exposes.
package app

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/volunteerhub/beacon/internal/adapters/noticestore"
	"github.com/volunteerhub/beacon/internal/adapters/repository"
	"github.com/volunteerhub/beacon/internal/bus"
	"github.com/volunteerhub/beacon/internal/domain/model"
	"github.com/volunteerhub/beacon/internal/domain/ranking"
	"github.com/volunteerhub/beacon/internal/domain/scoring"
	"github.com/volunteerhub/beacon/pkg/logger"
	"github.com/volunteerhub/beacon/pkg/metrics"
)

const defaultStreamBuffer = 256

// Service orchestrates ranking, assignment and notification delivery.
type Service struct {
	mu      sync.RWMutex
	started bool

	directory   repository.Directory
	catalog     repository.Catalog
	assignments repository.Assignments
	notices     noticestore.Store
	bus         *bus.Bus
	ranker      *ranking.Service

	weights      scoring.Weights
	streamBuffer int
	maxTopN      int
	logger       logger.Logger
}

// New creates a Service. Backends not supplied via options are filled
// with in-memory implementations on Start.
func New(opts ...Option) *Service {
	s := &Service{
		weights:      scoring.DefaultWeights(),
		streamBuffer: defaultStreamBuffer,
		logger:       logger.Get().Named("app"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start finalizes wiring. It is safe to call once; subsequent calls
// are no-ops.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	if s.directory == nil {
		s.directory = repository.NewMemoryDirectory()
	}
	if s.catalog == nil {
		s.catalog = repository.NewMemoryCatalog()
	}
	if s.assignments == nil {
		s.assignments = repository.NewMemoryAssignments()
	}
	if s.notices == nil {
		s.notices = noticestore.NewMemoryStore()
	}
	if s.bus == nil {
		s.bus = bus.New(bus.WithLogger(s.logger.Named("bus")))
	}
	engine := scoring.New(scoring.WithWeights(s.weights))
	s.ranker = ranking.New(s.directory, s.catalog, engine)
	s.started = true
	s.logger.Info(ctx, "service started")
	return nil
}

// Stop releases resources held by backends that need closing.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil
	}
	s.started = false
	if c, ok := s.notices.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("close notice store: %w", err)
		}
	}
	s.logger.Info(ctx, "service stopped")
	return nil
}

// Volunteers lists all registered volunteers.
func (s *Service) Volunteers(ctx context.Context) ([]model.Volunteer, error) {
	return s.directory.Volunteers(ctx)
}

// Events lists all registered events.
func (s *Service) Events(ctx context.Context) ([]model.Event, error) {
	return s.catalog.Events(ctx)
}

// Rank scores every event for the volunteer and returns positive
// matches in descending score order. topN <= 0 means the full filtered
// list; explicit values are capped at the configured maximum.
func (s *Service) Rank(ctx context.Context, volunteerID string, topN int) ([]ranking.Match, error) {
	if volunteerID == "" {
		return nil, fmt.Errorf("volunteer id: %w", ErrMissingField)
	}
	if topN > 0 && s.maxTopN > 0 && topN > s.maxTopN {
		topN = s.maxTopN
	}
	start := time.Now()
	matches, err := s.ranker.Rank(ctx, volunteerID, topN)
	if err != nil {
		return nil, err
	}
	metrics.RecordRankDuration(float64(time.Since(start).Milliseconds()))
	return matches, nil
}

// Assign records a volunteer/event assignment and emits the
// corresponding notice. The pair is checked before any write: an
// existing assignment yields repository.ErrAssignmentExists and
// leaves both stores untouched. A notice-store failure after the
// assignment is persisted returns the assignment together with a
// non-nil error; nothing is published on the bus in that case.
func (s *Service) Assign(ctx context.Context, volunteerID, eventID string) (model.Assignment, model.Notice, error) {
	if volunteerID == "" {
		return model.Assignment{}, model.Notice{}, fmt.Errorf("volunteer id: %w", ErrMissingField)
	}
	if eventID == "" {
		return model.Assignment{}, model.Notice{}, fmt.Errorf("event id: %w", ErrMissingField)
	}

	if _, err := s.directory.Volunteer(ctx, volunteerID); err != nil {
		return model.Assignment{}, model.Notice{}, fmt.Errorf("resolve volunteer %q: %w", volunteerID, err)
	}
	ev, err := s.catalog.Event(ctx, eventID)
	if err != nil {
		return model.Assignment{}, model.Notice{}, fmt.Errorf("resolve event %q: %w", eventID, err)
	}

	asg, err := s.assignments.Create(ctx, volunteerID, eventID)
	if err != nil {
		if repository.IsConflict(err) {
			metrics.RecordAssignmentConflict()
		}
		return model.Assignment{}, model.Notice{}, fmt.Errorf("create assignment: %w", err)
	}
	metrics.RecordAssignmentCreated()

	notice, err := s.notices.Create(ctx, volunteerID, noticestore.Draft{
		Title: "Assigned: " + ev.Name,
		Body:  ev.Location + " • " + ev.Date.Format(time.RFC1123),
		Type:  string(model.NoticeSuccess),
	})
	if err != nil {
		// The assignment already stands; surface the store failure so the
		// caller does not mistake a hollow notice for a delivered one.
		s.logger.Error(ctx, "assignment notice not persisted",
			logger.String("assignment_id", asg.ID),
			logger.String("volunteer_id", volunteerID),
			logger.String("event_id", eventID),
			logger.Error(err))
		return asg, model.Notice{}, fmt.Errorf("assignment %s created, notice not persisted: %w", asg.ID, err)
	}
	metrics.RecordNoticeCreated()

	s.bus.Publish(ctx, model.NoticeChannel(volunteerID), notice)
	return asg, notice, nil
}

// Notify persists an ad-hoc notice for the volunteer and publishes it
// on their channel. Unknown types normalize to "info".
func (s *Service) Notify(ctx context.Context, volunteerID, title, body, typ string) (model.Notice, error) {
	if volunteerID == "" {
		return model.Notice{}, fmt.Errorf("volunteer id: %w", ErrMissingField)
	}
	if title == "" {
		return model.Notice{}, fmt.Errorf("title: %w", ErrMissingField)
	}
	notice, err := s.notices.Create(ctx, volunteerID, noticestore.Draft{
		Title: title,
		Body:  body,
		Type:  typ,
	})
	if err != nil {
		return model.Notice{}, fmt.Errorf("create notice: %w", err)
	}
	metrics.RecordNoticeCreated()
	s.bus.Publish(ctx, model.NoticeChannel(volunteerID), notice)
	return notice, nil
}

// Notices returns the volunteer's backlog in creation order.
func (s *Service) Notices(ctx context.Context, volunteerID string) ([]model.Notice, error) {
	if volunteerID == "" {
		return nil, fmt.Errorf("volunteer id: %w", ErrMissingField)
	}
	return s.notices.List(ctx, volunteerID)
}

// ClearNotices removes the volunteer's backlog and reports how many
// notices were deleted.
func (s *Service) ClearNotices(ctx context.Context, volunteerID string) (int, error) {
	if volunteerID == "" {
		return 0, fmt.Errorf("volunteer id: %w", ErrMissingField)
	}
	return s.notices.Clear(ctx, volunteerID)
}

// SubscribeNotices attaches a live subscription for the volunteer and
// returns a buffered channel of notices published after the call. The
// handler never blocks the bus: when the subscriber falls behind the
// buffer, notices are dropped and counted.
func (s *Service) SubscribeNotices(volunteerID string) (*bus.Subscription, <-chan model.Notice) {
	ch := make(chan model.Notice, s.streamBuffer)
	sub := s.bus.Subscribe(model.NoticeChannel(volunteerID), func(n model.Notice) {
		select {
		case ch <- n:
		default:
			metrics.RecordBusDrop()
			s.logger.Warn(context.Background(), "subscriber buffer full, notice dropped",
				logger.String("volunteer_id", volunteerID),
				logger.String("notice_id", n.ID))
		}
	})
	return sub, ch
}

// Unsubscribe detaches a live subscription. Nil and already-removed
// subscriptions are ignored.
func (s *Service) Unsubscribe(sub *bus.Subscription) {
	s.bus.Unsubscribe(sub)
}

// SubscriberCount reports currently attached live subscriptions.
func (s *Service) SubscriberCount() int {
	if s.bus == nil {
		return 0
	}
	return s.bus.SubscriberCount()
}

// GetStats returns a snapshot of service counters for the stats
// endpoint.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()

	stats := map[string]any{
		"started":     started,
		"subscribers": s.SubscriberCount(),
	}
	if vols, err := s.directory.Volunteers(ctx); err == nil {
		stats["volunteers"] = len(vols)
	}
	if evs, err := s.catalog.Events(ctx); err == nil {
		stats["events"] = len(evs)
	}
	stats["assignments"] = s.assignments.Count(ctx)
	return stats
}
