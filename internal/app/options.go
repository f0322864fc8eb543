package app

import (
	"github.com/volunteerhub/beacon/internal/adapters/noticestore"
	"github.com/volunteerhub/beacon/internal/adapters/repository"
	"github.com/volunteerhub/beacon/internal/bus"
	"github.com/volunteerhub/beacon/internal/domain/scoring"
	"github.com/volunteerhub/beacon/pkg/logger"
)

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger used by the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithWeights sets the scoring weights used by the ranking engine.
func WithWeights(w scoring.Weights) Option {
	return func(s *Service) {
		s.weights = w
	}
}

// WithStreamBuffer sets the per-subscriber delivery buffer size.
func WithStreamBuffer(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.streamBuffer = n
		}
	}
}

// WithMaxTopN caps the number of matches a ranking request may ask for.
func WithMaxTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxTopN = n
		}
	}
}

// WithDirectory sets the volunteer directory backend.
func WithDirectory(d repository.Directory) Option {
	return func(s *Service) {
		if d != nil {
			s.directory = d
		}
	}
}

// WithCatalog sets the event catalog backend.
func WithCatalog(c repository.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithAssignments sets the assignment store backend.
func WithAssignments(a repository.Assignments) Option {
	return func(s *Service) {
		if a != nil {
			s.assignments = a
		}
	}
}

// WithNoticeStore sets the notice persistence backend.
func WithNoticeStore(st noticestore.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.notices = st
		}
	}
}

// WithBus sets the notification bus.
func WithBus(b *bus.Bus) Option {
	return func(s *Service) {
		if b != nil {
			s.bus = b
		}
	}
}
