package destinations

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ESSAFI01/Morocco-Tour-Guide/internal/apperror"
)

// catalogCacheTTL bounds how long the in-process copy of the catalog is
// served without hitting MariaDB. The catalog only changes via migrations,
// so staleness is a non-issue; the TTL just keeps restarts unnecessary.
const catalogCacheTTL = 5 * time.Minute

// Service serves the destination catalog with a small in-process cache.
type Service struct {
	repo   Repository
	logger *slog.Logger

	mu       sync.Mutex
	cached   []Destination
	cachedAt time.Time
}

// NewService creates the destinations service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger.With("plugin", "destinations")}
}

// List returns the catalog in display order, serving from cache when fresh.
func (s *Service) List(ctx context.Context) ([]Destination, error) {
	s.mu.Lock()
	if s.cached != nil && time.Since(s.cachedAt) < catalogCacheTTL {
		out := s.cached
		s.mu.Unlock()
		return out, nil
	}
	s.mu.Unlock()

	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	s.mu.Lock()
	s.cached = list
	s.cachedAt = time.Now()
	s.mu.Unlock()

	return list, nil
}

// GetBySlug returns one destination or a 404 for unknown slugs.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*Destination, error) {
	d, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NewNotFound("destination not found")
		}
		return nil, apperror.NewInternal(err)
	}
	return d, nil
}
