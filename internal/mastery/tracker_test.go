package mastery_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/lingodeck/internal/domain"
	"github.com/phrazzld/lingodeck/internal/mastery"
	"github.com/phrazzld/lingodeck/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// failingKV accepts reads of nothing and rejects every write.
type failingKV struct {
	store.KV
}

func (failingKV) Get(context.Context, string) ([]byte, error) { return nil, store.ErrNotFound }
func (failingKV) Set(context.Context, string, []byte) error   { return errors.New("disk full") }
func (failingKV) Delete(context.Context, string) error        { return errors.New("disk full") }

func TestRecordAnswerUpdatesStatsAndTotals(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tr := mastery.NewTracker(ctx, store.NewMemoryKV(), nil, mastery.WithClock(fixedClock))

	stats := tr.RecordAnswer(ctx, "c1", true, 2)
	assert.Equal(t, domain.CardStats{Correct: 1, Wrong: 0, Seen: 1, LastSeenAt: fixedNow}, stats)

	tr.RecordAnswer(ctx, "c1", true, 2)
	stats = tr.RecordAnswer(ctx, "c1", false, 2)
	assert.Equal(t, 3, stats.Seen)
	assert.Equal(t, 2, stats.Correct)
	assert.Equal(t, 1, stats.Wrong)
	assert.Equal(t, 1, tr.Mastery("c1"))

	snap := tr.Snapshot()
	assert.Equal(t, domain.Totals{Total: 3, Correct: 2, Streak: 0}, snap.Totals)
	assert.Equal(t, domain.LevelTotals{Total: 3, Correct: 2}, snap.Levels[2])
	assert.Equal(t, snap.Totals.Total, snap.LevelTotal())
}

func TestStreak(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tr := mastery.NewTracker(ctx, store.NewMemoryKV(), nil)

	for _, correct := range []bool{true, true, true} {
		tr.RecordAnswer(ctx, "c", correct, 1)
	}
	assert.Equal(t, 3, tr.Snapshot().Totals.Streak)

	tr.RecordAnswer(ctx, "c", false, 1)
	assert.Equal(t, 0, tr.Snapshot().Totals.Streak)

	tr.RecordAnswer(ctx, "c", true, 1)
	assert.Equal(t, 1, tr.Snapshot().Totals.Streak)
}

func TestUnseenCard(t *testing.T) {
	t.Parallel()

	tr := mastery.NewTracker(context.Background(), store.NewMemoryKV(), nil)

	_, ok := tr.Stats("never")
	assert.False(t, ok)
	assert.Equal(t, 0, tr.Mastery("never"))
}

func TestProgressSurvivesReload(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	kv := store.NewMemoryKV()
	tr := mastery.NewTracker(ctx, kv, nil, mastery.WithClock(fixedClock))
	tr.RecordAnswer(ctx, "a", true, 1)
	tr.RecordAnswer(ctx, "b", false, 4)

	reloaded := mastery.NewTracker(ctx, kv, nil)

	assert.Equal(t, tr.Snapshot(), reloaded.Snapshot())
	stats, ok := reloaded.Stats("b")
	require.True(t, ok)
	assert.Equal(t, 1, stats.Wrong)
	assert.True(t, stats.LastSeenAt.Equal(fixedNow))
}

func TestCorruptProgressFallsBackToEmpty(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, store.KeyProgress, []byte("not json")))
	require.NoError(t, kv.Set(ctx, store.KeyFavorites, []byte(`["x"]`)))

	tr := mastery.NewTracker(ctx, kv, nil)
	assert.Equal(t, domain.NewProgress(), tr.Snapshot())

	// Other records are untouched.
	raw, err := kv.Get(ctx, store.KeyFavorites)
	require.NoError(t, err)
	assert.JSONEq(t, `["x"]`, string(raw))
}

func TestNullProgressFallsBackToEmpty(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, store.KeyProgress, []byte("null")))

	tr := mastery.NewTracker(ctx, kv, nil)
	tr.RecordAnswer(ctx, "c", true, 3)
	assert.Equal(t, 1, tr.Snapshot().Levels[3].Total)
}

func TestReset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	kv := store.NewMemoryKV()
	tr := mastery.NewTracker(ctx, kv, nil)
	tr.RecordAnswer(ctx, "c", true, 1)

	tr.Reset(ctx)

	assert.Equal(t, domain.NewProgress(), tr.Snapshot())
	assert.Equal(t, domain.NewProgress(), mastery.NewTracker(ctx, kv, nil).Snapshot())

	_, err := kv.Get(ctx, store.KeyProgress)
	assert.ErrorIs(t, err, store.ErrNotFound, "reset removes the stored record")
}

func TestWriteFailuresAreSwallowed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tr := mastery.NewTracker(ctx, failingKV{}, nil)

	assert.NotPanics(t, func() {
		stats := tr.RecordAnswer(ctx, "c", true, 1)
		assert.Equal(t, 1, stats.Seen)
		tr.Reset(ctx)
	})
}

func TestSnapshotIsIsolated(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tr := mastery.NewTracker(ctx, store.NewMemoryKV(), nil)
	tr.RecordAnswer(ctx, "c", true, 1)

	snap := tr.Snapshot()
	snap.Cards["c"] = domain.CardStats{Correct: 100}
	snap.Totals.Total = 99

	stats, _ := tr.Stats("c")
	assert.Equal(t, 1, stats.Correct)
	assert.Equal(t, 1, tr.Snapshot().Totals.Total)
}

func TestConcurrentAnswers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tr := mastery.NewTracker(ctx, store.NewMemoryKV(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tr.RecordAnswer(ctx, "c", i%2 == 0, domain.Level(i%5+1))
		}(i)
	}
	wg.Wait()

	snap := tr.Snapshot()
	assert.Equal(t, 50, snap.Totals.Total)
	assert.Equal(t, 25, snap.Totals.Correct)
	assert.Equal(t, 50, snap.LevelTotal())
	assert.Equal(t, 50, snap.Cards["c"].Seen)
}
