// Package favorites keeps the learner's persisted set of favorite cards.
package favorites

import (
	"context"
	"log/slog"
	"sync"

	"github.com/phrazzld/lingodeck/internal/domain"
	"github.com/phrazzld/lingodeck/internal/store"
)

// Set is the persisted favorites list. It is safe for concurrent use.
type Set struct {
	mu     sync.Mutex
	ids    domain.Favorites
	record *store.Record[domain.Favorites]
	logger *slog.Logger
}

func empty() domain.Favorites {
	return domain.Favorites{}
}

// NewSet loads the stored favorites from kv.
// If logger is nil, a default logger will be used.
func NewSet(ctx context.Context, kv store.KV, logger *slog.Logger) *Set {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "favorites"))

	rec := store.NewRecord(kv, store.KeyFavorites, empty, logger)
	ids := rec.Load(ctx).Dedupe()

	return &Set{
		ids:    ids,
		record: rec,
		logger: logger,
	}
}

// Contains reports whether cardID is a favorite.
func (s *Set) Contains(cardID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ids.Contains(cardID)
}

// Add marks cardID as a favorite. It reports whether the set changed.
func (s *Set) Add(ctx context.Context, cardID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ids.Add(cardID) {
		return false
	}
	s.record.Flush(ctx, s.ids)
	return true
}

// Remove unmarks cardID. It reports whether the set changed.
func (s *Set) Remove(ctx context.Context, cardID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ids.Remove(cardID) {
		return false
	}
	s.record.Flush(ctx, s.ids)
	return true
}

// Toggle flips cardID's favorite status and returns the new status.
func (s *Set) Toggle(ctx context.Context, cardID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	var now bool
	if s.ids.Contains(cardID) {
		s.ids.Remove(cardID)
	} else {
		s.ids.Add(cardID)
		now = true
	}
	s.record.Flush(ctx, s.ids)
	return now
}

// List returns the favorite IDs in insertion order.
func (s *Set) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}
