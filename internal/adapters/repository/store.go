// Package repository holds the core's external collaborators: the volunteer
// directory, the event catalog and the assignment persistence. The core only
// sees the narrow interfaces below; the in-memory implementations back a
// standalone deployment and every test.
package repository

import (
	"context"

	"github.com/volunteerhub/beacon/internal/domain/model"
)

// Directory is the read-only volunteer directory.
type Directory interface {
	// Volunteer resolves one volunteer or returns ErrVolunteerNotFound.
	Volunteer(ctx context.Context, id string) (model.Volunteer, error)

	// Volunteers lists the directory in stable insertion order.
	Volunteers(ctx context.Context) ([]model.Volunteer, error)
}

// Catalog is the read-only event catalog.
type Catalog interface {
	// Event resolves one event or returns ErrEventNotFound.
	Event(ctx context.Context, id string) (model.Event, error)

	// Events lists the catalog in stable insertion order. Ranking ties are
	// broken by this order, so it must not change between calls.
	Events(ctx context.Context) ([]model.Event, error)
}

// Assignments persists volunteer-to-event assignments.
type Assignments interface {
	// Find returns the assignment for the pair or ErrAssignmentNotFound.
	Find(ctx context.Context, volunteerID, eventID string) (model.Assignment, error)

	// Create persists a new assignment. Returns ErrAssignmentExists when the
	// pair is already assigned; the duplicate is rejected, never merged.
	Create(ctx context.Context, volunteerID, eventID string) (model.Assignment, error)

	// Count reports the number of stored assignments.
	Count(ctx context.Context) int
}
