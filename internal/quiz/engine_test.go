package quiz_test

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/lingodeck/internal/catalog"
	"github.com/phrazzld/lingodeck/internal/domain"
	"github.com/phrazzld/lingodeck/internal/mastery"
	"github.com/phrazzld/lingodeck/internal/quiz"
	"github.com/phrazzld/lingodeck/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeScheduler records schedules and fires them only when told to.
type fakeScheduler struct {
	mu        sync.Mutex
	schedules []*schedule
}

type schedule struct {
	fn        func()
	cancelled bool
}

func (f *fakeScheduler) Every(_ time.Duration, fn func()) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := &schedule{fn: fn}
	f.schedules = append(f.schedules, s)
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		s.cancelled = true
	}
}

// Tick fires every schedule that has not been cancelled.
func (f *fakeScheduler) Tick() {
	f.mu.Lock()
	var live []func()
	for _, s := range f.schedules {
		if !s.cancelled {
			live = append(live, s.fn)
		}
	}
	f.mu.Unlock()

	for _, fn := range live {
		fn()
	}
}

// Active returns the number of schedules not yet cancelled.
func (f *fakeScheduler) Active() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.schedules {
		if !s.cancelled {
			n++
		}
	}
	return n
}

// Schedule returns the i-th schedule's callback, cancelled or not.
func (f *fakeScheduler) Schedule(i int) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.schedules[i].fn
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	engine    *quiz.Engine
	tracker   *mastery.Tracker
	history   *quiz.History
	scheduler *fakeScheduler
	clock     *fakeClock
	finished  []domain.QuizHistoryEntry
	mu        sync.Mutex
}

func (f *fixture) finishedEntries() []domain.QuizHistoryEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.QuizHistoryEntry(nil), f.finished...)
}

func distinctCards(level domain.Level, category domain.Category, n int) []domain.Card {
	cards := make([]domain.Card, n)
	for i := range cards {
		cards[i] = domain.Card{
			ID:       fmt.Sprintf("card-%d-%d", level, i),
			Level:    level,
			Category: category,
			Source:   fmt.Sprintf("source %d", i),
			Target:   fmt.Sprintf("target %d", i),
		}
	}
	return cards
}

func newFixture(t *testing.T, cards []domain.Card) *fixture {
	t.Helper()
	ctx := context.Background()

	kv := store.NewMemoryKV()
	f := &fixture{
		tracker:   mastery.NewTracker(ctx, kv, nil),
		history:   quiz.NewHistory(ctx, kv, 0, nil),
		scheduler: &fakeScheduler{},
		clock:     newFakeClock(),
	}
	f.engine = quiz.NewEngine(catalog.New(cards, nil), f.tracker, f.history, nil,
		quiz.WithRand(rand.New(rand.NewPCG(7, 11))),
		quiz.WithScheduler(f.scheduler),
		quiz.WithClock(f.clock.Now),
		quiz.WithFinishHook(func(_ context.Context, e domain.QuizHistoryEntry) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.finished = append(f.finished, e)
		}),
	)
	t.Cleanup(f.engine.Close)
	return f
}

func TestNewEngineIsIdle(t *testing.T) {
	t.Parallel()

	f := newFixture(t, distinctCards(1, domain.CategoryDaily, 5))

	state := f.engine.State()
	assert.Equal(t, quiz.StatusIdle, state.Status)
	assert.Nil(t, state.Question)
	assert.Empty(t, state.SessionID)
}

func TestCountModeFinishesAfterLimit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t, distinctCards(2, domain.CategoryCloud, 8))

	state, err := f.engine.Start(ctx, quiz.Config{Level: 2, Mode: domain.QuizModeCount})
	require.NoError(t, err)
	assert.Equal(t, quiz.StatusRunning, state.Status)
	assert.Equal(t, domain.DefaultQuizQuestionLimit, state.RemainingQuestions)
	assert.Equal(t, 0, f.scheduler.Active(), "count mode has no countdown")

	for i := 0; i < domain.DefaultQuizQuestionLimit; i++ {
		state = f.engine.State()
		require.Equal(t, quiz.StatusRunning, state.Status, "question %d", i+1)
		require.NotNil(t, state.Question)
		assert.Equal(t, i+1, state.Question.Number)

		// Alternate right and wrong answers.
		choice := "definitely wrong"
		if i%2 == 0 {
			choice = state.Question.Answer()
		}
		_, err := f.engine.Submit(ctx, choice)
		require.NoError(t, err)
	}

	state = f.engine.State()
	assert.Equal(t, quiz.StatusFinished, state.Status)
	assert.Equal(t, 10, state.Total)
	assert.Equal(t, 5, state.Correct)
	assert.Equal(t, 0, state.RemainingQuestions)
	assert.Nil(t, state.Question)
	require.NotNil(t, state.Result)
	assert.Equal(t, 50, state.Result.Accuracy)

	history := f.history.List()
	require.Len(t, history, 1)
	assert.Equal(t, domain.QuizModeCount, history[0].Mode)
	assert.Equal(t, domain.Level(2), history[0].Level)
	assert.Equal(t, 10, history[0].Total)
	assert.Equal(t, 5, history[0].Correct)

	progress := f.tracker.Snapshot()
	assert.Equal(t, 10, progress.Totals.Total)
	assert.Equal(t, 10, progress.Levels[2].Total)

	assert.Len(t, f.finishedEntries(), 1)

	_, err = f.engine.Submit(ctx, "late")
	assert.ErrorIs(t, err, quiz.ErrQuizNotRunning)
}

func TestSubmitReportsOutcome(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t, distinctCards(1, domain.CategoryDaily, 6))

	state, err := f.engine.Start(ctx, quiz.Config{Level: 1, Mode: domain.QuizModeCount, QuestionLimit: 3})
	require.NoError(t, err)
	q := state.Question

	res, err := f.engine.Submit(ctx, q.Answer())
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, q.Answer(), res.CorrectAnswer)
	assert.Equal(t, q.CardID, res.CardID)
	assert.Equal(t, 1, res.Stats.Correct)
	assert.Equal(t, 1, res.State.Correct)
	assert.Equal(t, 2, res.State.RemainingQuestions)

	next := res.State.Question
	require.NotNil(t, next)
	res, err = f.engine.Submit(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, res.Correct)
	assert.Equal(t, next.Answer(), res.CorrectAnswer)
	assert.Equal(t, 0, f.tracker.Snapshot().Totals.Streak)
}

func TestSubmitWithoutRunningQuiz(t *testing.T) {
	t.Parallel()

	f := newFixture(t, distinctCards(1, domain.CategoryDaily, 4))

	_, err := f.engine.Submit(context.Background(), "anything")
	assert.ErrorIs(t, err, quiz.ErrQuizNotRunning)
}

func TestDurationModeFinishesAtZero(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t, distinctCards(3, domain.CategoryData, 6))

	state, err := f.engine.Start(ctx, quiz.Config{Level: 3, Duration: 3 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, domain.QuizModeDuration, state.Mode)
	assert.Equal(t, 3, state.RemainingSeconds)
	assert.Equal(t, 1, f.scheduler.Active())

	_, err = f.engine.Submit(ctx, state.Question.Answer())
	require.NoError(t, err)

	f.clock.Advance(time.Second)
	f.scheduler.Tick()
	assert.Equal(t, 2, f.engine.State().RemainingSeconds)

	f.clock.Advance(time.Second)
	f.scheduler.Tick()
	f.clock.Advance(time.Second)
	f.scheduler.Tick()

	state = f.engine.State()
	assert.Equal(t, quiz.StatusFinished, state.Status)
	assert.Equal(t, 0, state.RemainingSeconds)
	assert.Equal(t, 3, state.ElapsedSeconds)
	assert.Equal(t, 0, f.scheduler.Active(), "countdown cancelled on finish")

	history := f.history.List()
	require.Len(t, history, 1)
	assert.Equal(t, 1, history[0].Total)
	assert.Equal(t, 100, history[0].Accuracy)
	assert.Equal(t, 3, history[0].DurationSeconds)
	assert.Len(t, f.finishedEntries(), 1)
}

func TestDefaultDuration(t *testing.T) {
	t.Parallel()

	f := newFixture(t, distinctCards(1, domain.CategoryDaily, 4))

	state, err := f.engine.Start(context.Background(), quiz.Config{Level: 1})
	require.NoError(t, err)
	assert.Equal(t, 60, state.RemainingSeconds)
}

func TestStaleTicksAreIgnored(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t, distinctCards(1, domain.CategoryDaily, 4))

	_, err := f.engine.Start(ctx, quiz.Config{Level: 1, Duration: 2 * time.Second})
	require.NoError(t, err)
	oldTick := f.scheduler.Schedule(0)

	_, err = f.engine.Restart(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, f.scheduler.Active(), "previous countdown cancelled")

	// A tick from the first session that was already in flight.
	oldTick()
	oldTick()
	oldTick()

	state := f.engine.State()
	assert.Equal(t, quiz.StatusRunning, state.Status)
	assert.Equal(t, 2, state.RemainingSeconds)
	assert.Empty(t, f.history.List(), "abandoned session is not recorded")
}

func TestStartWithoutCards(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t, distinctCards(1, domain.CategoryDaily, 4))

	_, err := f.engine.Start(ctx, quiz.Config{Level: 4})
	assert.ErrorIs(t, err, quiz.ErrNoCardsAvailable)
	assert.Equal(t, quiz.StatusIdle, f.engine.State().Status)

	_, err = f.engine.Start(ctx, quiz.Config{Level: 1, Category: domain.CategoryTravel})
	assert.ErrorIs(t, err, quiz.ErrNoCardsAvailable)

	// A finished session stays finished.
	_, err = f.engine.Start(ctx, quiz.Config{Level: 1, Mode: domain.QuizModeCount, QuestionLimit: 1})
	require.NoError(t, err)
	_, err = f.engine.Submit(ctx, "x")
	require.NoError(t, err)
	_, err = f.engine.Start(ctx, quiz.Config{Level: 5})
	assert.ErrorIs(t, err, quiz.ErrNoCardsAvailable)
	assert.Equal(t, quiz.StatusFinished, f.engine.State().Status)
}

func TestStartRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  quiz.Config
	}{
		{name: "level zero", cfg: quiz.Config{Level: 0}},
		{name: "level too high", cfg: quiz.Config{Level: 6}},
		{name: "unknown category", cfg: quiz.Config{Level: 1, Category: "Cooking"}},
		{name: "unknown mode", cfg: quiz.Config{Level: 1, Mode: "sprint"}},
		{name: "negative limit", cfg: quiz.Config{Level: 1, QuestionLimit: -1}},
		{name: "sub-second duration", cfg: quiz.Config{Level: 1, Duration: time.Millisecond}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, distinctCards(1, domain.CategoryDaily, 4))

			_, err := f.engine.Start(context.Background(), tt.cfg)
			assert.ErrorIs(t, err, quiz.ErrInvalidConfig)
			assert.Equal(t, quiz.StatusIdle, f.engine.State().Status)
		})
	}
}

func TestAccuracyIsRounded(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t, distinctCards(1, domain.CategoryDaily, 6))

	_, err := f.engine.Start(ctx, quiz.Config{Level: 1, Mode: domain.QuizModeCount, QuestionLimit: 4})
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		q := f.engine.State().Question
		choice := q.Answer()
		if i == 3 {
			choice = "wrong"
		}
		_, err := f.engine.Submit(ctx, choice)
		require.NoError(t, err)
	}

	history := f.history.List()
	require.Len(t, history, 1)
	assert.Equal(t, 3, history[0].Correct)
	assert.Equal(t, 4, history[0].Total)
	assert.Equal(t, 75, history[0].Accuracy)
}

func TestStop(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t, distinctCards(1, domain.CategoryDaily, 4))

	_, err := f.engine.Stop(ctx)
	assert.ErrorIs(t, err, quiz.ErrQuizNotRunning)

	_, err = f.engine.Start(ctx, quiz.Config{Level: 1})
	require.NoError(t, err)

	state, err := f.engine.Stop(ctx)
	require.NoError(t, err)
	assert.Equal(t, quiz.StatusFinished, state.Status)
	assert.Equal(t, 0, f.scheduler.Active())

	history := f.history.List()
	require.Len(t, history, 1)
	assert.Equal(t, 0, history[0].Total)
	assert.Equal(t, 0, history[0].Accuracy)

	_, err = f.engine.Stop(ctx)
	assert.ErrorIs(t, err, quiz.ErrQuizNotRunning)
}

func TestRestart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t, distinctCards(2, domain.CategoryMeetings, 5))

	_, err := f.engine.Restart(ctx)
	assert.ErrorIs(t, err, quiz.ErrQuizNotStarted)

	first, err := f.engine.Start(ctx, quiz.Config{
		Level:         2,
		Category:      domain.CategoryMeetings,
		Mode:          domain.QuizModeCount,
		QuestionLimit: 2,
	})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := f.engine.Submit(ctx, "x")
		require.NoError(t, err)
	}
	require.Equal(t, quiz.StatusFinished, f.engine.State().Status)

	again, err := f.engine.Restart(ctx)
	require.NoError(t, err)
	assert.Equal(t, quiz.StatusRunning, again.Status)
	assert.NotEqual(t, first.SessionID, again.SessionID)
	assert.Equal(t, domain.CategoryMeetings, again.Category)
	assert.Equal(t, domain.QuizModeCount, again.Mode)
	assert.Equal(t, 2, again.RemainingQuestions)
	assert.Equal(t, 0, again.Total)
	assert.Nil(t, again.Result)
	assert.Len(t, f.history.List(), 1)
}

func TestQuestionOptions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t, distinctCards(1, domain.CategoryDaily, 10))

	_, err := f.engine.Start(ctx, quiz.Config{Level: 1, Mode: domain.QuizModeCount, QuestionLimit: 50})
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		q := f.engine.State().Question
		require.NotNil(t, q)
		assert.Len(t, q.Options, 4)
		assert.Contains(t, q.Options, q.Answer())
		assert.Len(t, uniq(q.Options), 4, "options are distinct")
		_, err := f.engine.Submit(ctx, q.Answer())
		require.NoError(t, err)
	}
}

func TestQuestionDegradesWithFewDistinctAnswers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cards := distinctCards(1, domain.CategoryDaily, 3)
	cards[2].Target = cards[1].Target

	f := newFixture(t, cards)

	_, err := f.engine.Start(ctx, quiz.Config{Level: 1, Mode: domain.QuizModeCount, QuestionLimit: 20})
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		q := f.engine.State().Question
		require.NotNil(t, q)
		assert.Len(t, q.Options, 2)
		assert.Len(t, uniq(q.Options), 2)
		assert.Contains(t, q.Options, q.Answer())
		_, err := f.engine.Submit(ctx, q.Answer())
		require.NoError(t, err)
	}
}

func TestSingleCardQuiz(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t, distinctCards(5, domain.CategorySecurity, 1))

	state, err := f.engine.Start(ctx, quiz.Config{Level: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"target 0"}, state.Question.Options)
}

func TestSnapshotQuestionIsACopy(t *testing.T) {
	t.Parallel()

	f := newFixture(t, distinctCards(1, domain.CategoryDaily, 4))

	state, err := f.engine.Start(context.Background(), quiz.Config{Level: 1})
	require.NoError(t, err)

	q := state.Question
	q.Options[0] = "mutated"
	assert.NotEqual(t, "mutated", f.engine.State().Question.Options[0])
}

func uniq(s []string) map[string]struct{} {
	m := make(map[string]struct{}, len(s))
	for _, v := range s {
		m[v] = struct{}{}
	}
	return m
}

func TestAnswerHookRunsBeforeFinishHook(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	kv := store.NewMemoryKV()
	var (
		mu    sync.Mutex
		calls []string
	)
	record := func(s string) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, s)
	}

	var answered []quiz.AnswerResult
	e := quiz.NewEngine(catalog.New(distinctCards(3, domain.CategoryDaily, 5), nil),
		mastery.NewTracker(ctx, kv, nil), quiz.NewHistory(ctx, kv, 0, nil), nil,
		quiz.WithRand(rand.New(rand.NewPCG(1, 2))),
		quiz.WithScheduler(&fakeScheduler{}),
		quiz.WithAnswerHook(func(_ context.Context, res quiz.AnswerResult) {
			answered = append(answered, res)
			record(fmt.Sprintf("answer %d", res.State.Total))
		}),
		quiz.WithFinishHook(func(_ context.Context, entry domain.QuizHistoryEntry) {
			record(fmt.Sprintf("finish %d", entry.Total))
		}),
	)
	t.Cleanup(e.Close)

	_, err := e.Start(ctx, quiz.Config{Level: 3, Mode: domain.QuizModeCount, QuestionLimit: 2})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := e.Submit(ctx, "nope")
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"answer 1", "answer 2", "finish 2"}, calls)
	require.Len(t, answered, 2)
	assert.Equal(t, domain.Level(3), answered[1].Level)
	assert.GreaterOrEqual(t, answered[1].Stats.Wrong, 1)
	assert.Equal(t, quiz.StatusFinished, answered[1].State.Status)
}

func TestAnswerHookSkipsRejectedSubmissions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	kv := store.NewMemoryKV()
	called := false
	e := quiz.NewEngine(catalog.New(distinctCards(1, domain.CategoryDaily, 3), nil),
		mastery.NewTracker(ctx, kv, nil), quiz.NewHistory(ctx, kv, 0, nil), nil,
		quiz.WithScheduler(&fakeScheduler{}),
		quiz.WithAnswerHook(func(context.Context, quiz.AnswerResult) { called = true }),
	)

	_, err := e.Submit(ctx, "anything")
	require.ErrorIs(t, err, quiz.ErrQuizNotRunning)
	assert.False(t, called)
}
