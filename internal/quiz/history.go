package quiz

import (
	"context"
	"log/slog"
	"sync"

	"github.com/phrazzld/lingodeck/internal/domain"
	"github.com/phrazzld/lingodeck/internal/store"
)

// History is the persisted list of finished quiz sessions, newest first and
// capped at a fixed length. It is safe for concurrent use.
type History struct {
	mu      sync.Mutex
	entries domain.QuizHistory
	limit   int
	record  *store.Record[domain.QuizHistory]
	logger  *slog.Logger
}

// NewHistory loads the stored history from kv. A non-positive limit uses
// domain.DefaultQuizHistoryLimit. If logger is nil, a default logger will be used.
func NewHistory(ctx context.Context, kv store.KV, limit int, logger *slog.Logger) *History {
	if logger == nil {
		logger = slog.Default()
	}
	if limit <= 0 {
		limit = domain.DefaultQuizHistoryLimit
	}
	logger = logger.With(slog.String("component", "quiz_history"))

	rec := store.NewRecord(kv, store.KeyQuizHistory, func() domain.QuizHistory {
		return domain.QuizHistory{}
	}, logger)

	entries := rec.Load(ctx)
	if len(entries) > limit {
		logger.Info("truncating stored quiz history",
			slog.Int("stored", len(entries)),
			slog.Int("limit", limit))
		entries = entries[:limit]
	}
	if entries == nil {
		entries = domain.QuizHistory{}
	}

	return &History{
		entries: entries,
		limit:   limit,
		record:  rec,
		logger:  logger,
	}
}

// Record prepends entry, evicts the oldest entries beyond the limit and
// persists the result.
func (h *History) Record(ctx context.Context, entry domain.QuizHistoryEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = h.entries.Prepend(entry, h.limit)
	h.record.Flush(ctx, h.entries)
}

// List returns the entries, newest first.
func (h *History) List() []domain.QuizHistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]domain.QuizHistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}
