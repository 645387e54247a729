// Package mastery tracks per-card answer statistics and the learner's
// aggregate progress, persisting the whole record after every mutation.
package mastery

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/lingodeck/internal/domain"
	"github.com/phrazzld/lingodeck/internal/store"
)

// Tracker owns the learner's Progress. It is safe for concurrent use.
type Tracker struct {
	mu       sync.Mutex
	progress *domain.Progress
	record   *store.Record[*domain.Progress]
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the time source used for last-seen timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// NewTracker loads the stored progress from kv, or starts empty when nothing
// usable is stored. If logger is nil, a default logger will be used.
func NewTracker(ctx context.Context, kv store.KV, logger *slog.Logger, opts ...Option) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "mastery"))

	t := &Tracker{
		record: store.NewRecord(kv, store.KeyProgress, domain.NewProgress, logger),
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(t)
	}

	p := t.record.Load(ctx)
	if p == nil {
		p = domain.NewProgress()
	}
	p.Normalize()
	if p.Totals.Total != p.LevelTotal() {
		logger.Warn("stored progress totals disagree with level totals",
			slog.Int("total", p.Totals.Total),
			slog.Int("level_total", p.LevelTotal()))
	}
	t.progress = p

	return t
}

// RecordAnswer applies one answer for cardID at level and persists the
// result. Persistence failures are logged, never returned.
func (t *Tracker) RecordAnswer(ctx context.Context, cardID string, correct bool, level domain.Level) domain.CardStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	stats := t.progress.RecordAnswer(cardID, correct, level, t.now().UTC())
	t.record.Flush(ctx, t.progress)

	t.logger.Debug("answer recorded",
		slog.String("card_id", cardID),
		slog.Bool("correct", correct),
		slog.Int("level", int(level)),
		slog.Int("streak", t.progress.Totals.Streak))

	return stats
}

// Snapshot returns a deep copy of the current progress.
func (t *Tracker) Snapshot() *domain.Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress.Clone()
}

// Stats returns a card's statistics, if it has been answered.
func (t *Tracker) Stats(cardID string) (domain.CardStats, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress.Stats(cardID)
}

// Mastery returns correct minus wrong for cardID; unseen cards score zero.
func (t *Tracker) Mastery(cardID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress.Mastery(cardID)
}

// Reset discards all progress and persists the empty record.
func (t *Tracker) Reset(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.progress = domain.NewProgress()
	t.record.Clear(ctx)
	t.logger.Info("progress reset")
}
