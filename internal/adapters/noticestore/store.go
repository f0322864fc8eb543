// Package noticestore persists per-volunteer notification records.
//
// Two backends exist: an in-memory store for tests and embedded use, and a
// Pebble-backed store for deployments that must keep notices across
// restarts. Both enforce the same contract: list order is ascending and
// stable in creation time, creation timestamps are strictly monotonic per
// volunteer, and clear is atomic with respect to concurrent lists.
package noticestore

import (
	"context"

	"github.com/volunteerhub/beacon/internal/domain/model"
)

// Draft is the caller-supplied part of a notice. The store assigns id,
// timestamp and the normalized type.
type Draft struct {
	Title string
	Body  string
	Type  string
}

// Store is the notice persistence contract.
type Store interface {
	// Create appends a notice for the volunteer and returns the stored
	// record with its generated id and timestamp. Missing or unrecognized
	// draft types normalize to info.
	Create(ctx context.Context, volunteerID string, d Draft) (model.Notice, error)

	// List returns the volunteer's notices ascending by creation time.
	List(ctx context.Context, volunteerID string) ([]model.Notice, error)

	// Clear permanently removes every notice for the volunteer and reports
	// how many were removed. There is no soft-delete; a concurrent List
	// observes either all or none of them.
	Clear(ctx context.Context, volunteerID string) (int, error)
}
