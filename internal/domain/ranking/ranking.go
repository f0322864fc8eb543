// Package ranking orders an event catalog for one volunteer by match score.
package ranking

import (
	"context"
	"fmt"
	"sort"

	"github.com/volunteerhub/beacon/internal/domain/model"
	"github.com/volunteerhub/beacon/internal/domain/scoring"
)

// Epsilon below which a score counts as zero and is dropped from results.
const scoreEpsilon = 1e-9

// Directory resolves volunteers by id. Implementations return the volunteer
// directory's not-found sentinel when the id does not resolve.
type Directory interface {
	Volunteer(ctx context.Context, id string) (model.Volunteer, error)
}

// Catalog enumerates the full event catalog in its stable listing order.
type Catalog interface {
	Events(ctx context.Context) ([]model.Event, error)
}

// Match pairs an event with its computed score.
type Match struct {
	Event model.Event `json:"event"`
	Score float64     `json:"score"`
}

// Service ranks catalog events for a volunteer.
type Service struct {
	directory Directory
	catalog   Catalog
	engine    *scoring.Engine
}

// New creates a ranking service over the given collaborators.
func New(directory Directory, catalog Catalog, engine *scoring.Engine) *Service {
	return &Service{
		directory: directory,
		catalog:   catalog,
		engine:    engine,
	}
}

// Rank scores every catalog event for the volunteer, drops zero scores,
// sorts descending and truncates to topN when topN > 0.
//
// The sort is stable: score ties keep catalog order, so reordering between
// requests can only come from catalog or score changes.
func (s *Service) Rank(ctx context.Context, volunteerID string, topN int) ([]Match, error) {
	v, err := s.directory.Volunteer(ctx, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("ranking: resolve volunteer %q: %w", volunteerID, err)
	}

	events, err := s.catalog.Events(ctx)
	if err != nil {
		return nil, fmt.Errorf("ranking: list events: %w", err)
	}

	matches := make([]Match, 0, len(events))
	for _, ev := range events {
		score := s.engine.Score(v, ev)
		if score <= scoreEpsilon {
			continue
		}
		matches = append(matches, Match{Event: ev, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if topN > 0 && topN < len(matches) {
		matches = matches[:topN]
	}
	return matches, nil
}
