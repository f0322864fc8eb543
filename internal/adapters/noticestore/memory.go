package noticestore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/volunteerhub/beacon/internal/domain/model"
)

// MemoryStore implements Store with per-volunteer slices. One lock covers
// every volunteer; critical sections are short enough that list calls for
// one volunteer never observe a half-cleared state for another.
type MemoryStore struct {
	mu      sync.RWMutex
	notices map[string][]model.Notice
	lastTS  map[string]time.Time
}

// NewMemoryStore creates an empty in-memory notice store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		notices: make(map[string][]model.Notice),
		lastTS:  make(map[string]time.Time),
	}
}

// Create appends a notice and returns the stored record.
func (s *MemoryStore) Create(_ context.Context, volunteerID string, d Draft) (model.Notice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := model.Notice{
		ID:          uuid.NewString(),
		VolunteerID: volunteerID,
		Title:       d.Title,
		Body:        d.Body,
		Type:        model.NormalizeNoticeType(d.Type),
		CreatedAt:   monotonicNow(s.lastTS[volunteerID]),
	}
	s.lastTS[volunteerID] = n.CreatedAt
	s.notices[volunteerID] = append(s.notices[volunteerID], n)
	return n, nil
}

// List returns the volunteer's notices ascending by creation time.
func (s *MemoryStore) List(_ context.Context, volunteerID string) ([]model.Notice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.notices[volunteerID]
	out := make([]model.Notice, len(stored))
	copy(out, stored)
	return out, nil
}

// Clear removes every notice for the volunteer and reports the count.
func (s *MemoryStore) Clear(_ context.Context, volunteerID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.notices[volunteerID])
	delete(s.notices, volunteerID)
	return n, nil
}

// monotonicNow returns the current time, bumped past last when the clock
// has not advanced, so per-volunteer creation times are strictly increasing.
func monotonicNow(last time.Time) time.Time {
	now := time.Now().UTC()
	if !now.After(last) {
		now = last.Add(time.Nanosecond)
	}
	return now
}
