package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/volunteerhub/beacon/internal/domain/model"
)

// MemoryDirectory implements Directory over an in-memory snapshot.
type MemoryDirectory struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]model.Volunteer
}

// NewMemoryDirectory creates an empty in-memory volunteer directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{byID: make(map[string]model.Volunteer)}
}

// Put inserts or replaces a volunteer. Skills and availability are
// deduplicated on the way in so downstream scoring sees proper sets.
func (d *MemoryDirectory) Put(v model.Volunteer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v.Skills = dedupe(v.Skills)
	v.Availability = dedupe(v.Availability)
	if _, ok := d.byID[v.ID]; !ok {
		d.order = append(d.order, v.ID)
	}
	d.byID[v.ID] = v
}

// Volunteer resolves one volunteer or returns ErrVolunteerNotFound.
func (d *MemoryDirectory) Volunteer(_ context.Context, id string) (model.Volunteer, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.byID[id]
	if !ok {
		return model.Volunteer{}, ErrVolunteerNotFound
	}
	return v, nil
}

// Volunteers lists every volunteer in insertion order.
func (d *MemoryDirectory) Volunteers(_ context.Context) ([]model.Volunteer, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]model.Volunteer, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.byID[id])
	}
	return out, nil
}

// MemoryCatalog implements Catalog over an in-memory snapshot.
type MemoryCatalog struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]model.Event
}

// NewMemoryCatalog creates an empty in-memory event catalog.
func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{byID: make(map[string]model.Event)}
}

// Put inserts or replaces an event.
func (c *MemoryCatalog) Put(ev model.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ev.RequiredSkills = dedupe(ev.RequiredSkills)
	if _, ok := c.byID[ev.ID]; !ok {
		c.order = append(c.order, ev.ID)
	}
	c.byID[ev.ID] = ev
}

// Event resolves one event or returns ErrEventNotFound.
func (c *MemoryCatalog) Event(_ context.Context, id string) (model.Event, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ev, ok := c.byID[id]
	if !ok {
		return model.Event{}, ErrEventNotFound
	}
	return ev, nil
}

// Events lists the catalog in insertion order.
func (c *MemoryCatalog) Events(_ context.Context) ([]model.Event, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Event, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out, nil
}

// MemoryAssignments implements Assignments in memory. The pair index and the
// record list are mutated under one lock so Find/Create stay consistent.
type MemoryAssignments struct {
	mu     sync.RWMutex
	byPair map[pairKey]model.Assignment
}

type pairKey struct {
	volunteerID string
	eventID     string
}

// NewMemoryAssignments creates an empty in-memory assignment store.
func NewMemoryAssignments() *MemoryAssignments {
	return &MemoryAssignments{byPair: make(map[pairKey]model.Assignment)}
}

// Find returns the assignment for the pair or ErrAssignmentNotFound.
func (a *MemoryAssignments) Find(_ context.Context, volunteerID, eventID string) (model.Assignment, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	asg, ok := a.byPair[pairKey{volunteerID, eventID}]
	if !ok {
		return model.Assignment{}, ErrAssignmentNotFound
	}
	return asg, nil
}

// Create persists a new assignment or rejects the duplicate pair.
func (a *MemoryAssignments) Create(_ context.Context, volunteerID, eventID string) (model.Assignment, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	key := pairKey{volunteerID, eventID}
	if _, ok := a.byPair[key]; ok {
		return model.Assignment{}, ErrAssignmentExists
	}
	asg := model.Assignment{
		ID:          uuid.NewString(),
		VolunteerID: volunteerID,
		EventID:     eventID,
		CreatedAt:   time.Now().UTC(),
	}
	a.byPair[key] = asg
	return asg, nil
}

// Count reports the number of stored assignments.
func (a *MemoryAssignments) Count(_ context.Context) int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.byPair)
}

// dedupe removes duplicate labels preserving first-seen order.
func dedupe(labels []string) []string {
	if len(labels) == 0 {
		return labels
	}
	seen := make(map[string]struct{}, len(labels))
	out := labels[:0]
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
