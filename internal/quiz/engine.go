package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingodeck/internal/domain"
	"github.com/phrazzld/lingodeck/internal/selection"
)

// Status is the engine's lifecycle state.
type Status string

// Engine states
const (
	StatusIdle     Status = "idle"
	StatusRunning  Status = "running"
	StatusFinished Status = "finished"
)

const tickInterval = time.Second

// CardSource supplies the candidate cards for a level and category filter.
type CardSource interface {
	Cards(level domain.Level, category domain.Category) []domain.Card
}

// AnswerRecorder records an answered card, the same way a flashcard answer is recorded.
type AnswerRecorder interface {
	RecordAnswer(ctx context.Context, cardID string, correct bool, level domain.Level) domain.CardStats
}

// HistoryRecorder stores finished sessions.
type HistoryRecorder interface {
	Record(ctx context.Context, entry domain.QuizHistoryEntry)
}

// Config describes a quiz session. Zero Duration and QuestionLimit take the
// engine's defaults; an empty Mode means duration mode.
type Config struct {
	Level         domain.Level    `json:"level"`
	Category      domain.Category `json:"category"`
	Mode          domain.QuizMode `json:"mode"`
	Duration      time.Duration   `json:"-"`
	QuestionLimit int             `json:"question_limit"`
}

// Validate checks c after defaults have been applied.
func (c Config) Validate() error {
	if !c.Level.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, domain.ErrInvalidLevel)
	}
	if !c.Category.IsAll() && !c.Category.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, domain.ErrInvalidCategory)
	}
	if !c.Mode.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, domain.ErrInvalidQuizMode)
	}
	if c.Duration < tickInterval {
		return fmt.Errorf("%w: duration must be at least %s", ErrInvalidConfig, tickInterval)
	}
	if c.QuestionLimit <= 0 {
		return fmt.Errorf("%w: question limit must be positive", ErrInvalidConfig)
	}
	return nil
}

// Snapshot is a point-in-time view of the engine. Question never carries the
// correct answer.
type Snapshot struct {
	Status             Status                   `json:"status"`
	SessionID          string                   `json:"session_id,omitempty"`
	Level              domain.Level             `json:"level,omitempty"`
	Category           domain.Category          `json:"category,omitempty"`
	Mode               domain.QuizMode          `json:"mode,omitempty"`
	Correct            int                      `json:"correct"`
	Total              int                      `json:"total"`
	RemainingSeconds   int                      `json:"remaining_seconds"`
	RemainingQuestions int                      `json:"remaining_questions"`
	ElapsedSeconds     int                      `json:"elapsed_seconds"`
	Question           *Question                `json:"question,omitempty"`
	Result             *domain.QuizHistoryEntry `json:"result,omitempty"`
}

// AnswerResult is the outcome of Submit.
type AnswerResult struct {
	Correct       bool             `json:"correct"`
	CorrectAnswer string           `json:"correct_answer"`
	CardID        string           `json:"card_id"`
	Level         domain.Level     `json:"level"`
	Stats         domain.CardStats `json:"stats"`
	State         Snapshot         `json:"state"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source for question generation.
func WithRand(rng selection.RandSource) Option {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// WithScheduler sets the scheduler driving the duration countdown.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) {
		if s != nil {
			e.scheduler = s
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithDefaults sets the duration and question limit used when a Config
// leaves them zero.
func WithDefaults(duration time.Duration, questionLimit int) Option {
	return func(e *Engine) {
		if duration > 0 {
			e.defaultDuration = duration
		}
		if questionLimit > 0 {
			e.defaultLimit = questionLimit
		}
	}
}

// WithFinishHook registers fn to be called, without the engine lock held,
// each time a session finishes.
func WithFinishHook(fn func(ctx context.Context, entry domain.QuizHistoryEntry)) Option {
	return func(e *Engine) {
		e.onFinish = fn
	}
}

// WithAnswerHook registers fn to be called, without the engine lock held,
// after each accepted answer. For the answer that ends a session it runs
// before the finish hook.
func WithAnswerHook(fn func(ctx context.Context, res AnswerResult)) Option {
	return func(e *Engine) {
		e.onAnswer = fn
	}
}

// Engine runs one quiz session at a time. It is safe for concurrent use.
type Engine struct {
	cards     CardSource
	answers   AnswerRecorder
	history   HistoryRecorder
	scheduler Scheduler
	rng       selection.RandSource
	now       func() time.Time
	logger    *slog.Logger
	onAnswer  func(ctx context.Context, res AnswerResult)
	onFinish  func(ctx context.Context, entry domain.QuizHistoryEntry)

	defaultDuration time.Duration
	defaultLimit    int

	mu         sync.Mutex
	status     Status
	cfg        Config
	session    uuid.UUID
	pool       []domain.Card
	startedAt  time.Time
	finishedAt time.Time
	correct    int
	total      int
	remainSecs int
	remainQs   int
	current    *Question
	cancelTick func()
	result     *domain.QuizHistoryEntry
}

// NewEngine creates an idle Engine. If logger is nil, a default logger will be used.
func NewEngine(cards CardSource, answers AnswerRecorder, history HistoryRecorder, logger *slog.Logger, opts ...Option) *Engine {
	if cards == nil || answers == nil || history == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("quiz: cards, answers and history cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		cards:           cards,
		answers:         answers,
		history:         history,
		scheduler:       NewTickerScheduler(),
		rng:             selection.DefaultSource(),
		now:             time.Now,
		logger:          logger.With(slog.String("component", "quiz")),
		defaultDuration: domain.DefaultQuizDuration,
		defaultLimit:    domain.DefaultQuizQuestionLimit,
		status:          StatusIdle,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start begins a new session with cfg. A running session is abandoned
// without being recorded. If no card matches, ErrNoCardsAvailable is
// returned and the engine is left as it was.
func (e *Engine) Start(ctx context.Context, cfg Config) (Snapshot, error) {
	cfg = e.withDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return Snapshot{}, err
	}

	pool := e.cards.Cards(cfg.Level, cfg.Category)
	if len(pool) == 0 {
		return Snapshot{}, ErrNoCardsAvailable
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.begin(ctx, cfg, pool)
	return e.snapshotLocked(), nil
}

// Restart tears down the current session, running or finished, and starts
// again with the same configuration.
func (e *Engine) Restart(ctx context.Context) (Snapshot, error) {
	e.mu.Lock()
	if e.status == StatusIdle {
		e.mu.Unlock()
		return Snapshot{}, ErrQuizNotStarted
	}
	cfg := e.cfg
	e.mu.Unlock()

	return e.Start(ctx, cfg)
}

// Submit answers the current question with choice.
func (e *Engine) Submit(ctx context.Context, choice string) (AnswerResult, error) {
	e.mu.Lock()

	if e.status != StatusRunning {
		e.mu.Unlock()
		return AnswerResult{}, ErrQuizNotRunning
	}

	q := e.current
	correct := choice == q.answer
	e.total++
	if correct {
		e.correct++
	}
	stats := e.answers.RecordAnswer(ctx, q.CardID, correct, q.Level)

	var finished *domain.QuizHistoryEntry
	if e.cfg.Mode == domain.QuizModeCount {
		e.remainQs--
	}
	if e.cfg.Mode == domain.QuizModeCount && e.remainQs <= 0 {
		finished = e.finishLocked(ctx)
	} else {
		e.current = newQuestion(e.pool, e.rng, e.total+1)
	}

	res := AnswerResult{
		Correct:       correct,
		CorrectAnswer: q.answer,
		CardID:        q.CardID,
		Level:         q.Level,
		Stats:         stats,
		State:         e.snapshotLocked(),
	}
	e.mu.Unlock()

	if e.onAnswer != nil {
		e.onAnswer(ctx, res)
	}
	e.notify(ctx, finished)
	return res, nil
}

// Stop finishes a running session early and records it.
func (e *Engine) Stop(ctx context.Context) (Snapshot, error) {
	e.mu.Lock()
	if e.status != StatusRunning {
		e.mu.Unlock()
		return Snapshot{}, ErrQuizNotRunning
	}
	finished := e.finishLocked(ctx)
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.notify(ctx, finished)
	return snap, nil
}

// State returns a snapshot of the engine.
func (e *Engine) State() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Close cancels any running countdown. The session is not recorded.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopTickLocked()
}

func (e *Engine) withDefaults(cfg Config) Config {
	if cfg.Mode == "" {
		cfg.Mode = domain.QuizModeDuration
	}
	if cfg.Category == "" {
		cfg.Category = domain.CategoryAll
	}
	if cfg.Duration == 0 {
		cfg.Duration = e.defaultDuration
	}
	if cfg.QuestionLimit == 0 {
		cfg.QuestionLimit = e.defaultLimit
	}
	return cfg
}

func (e *Engine) begin(ctx context.Context, cfg Config, pool []domain.Card) {
	if e.status == StatusRunning {
		e.logger.Info("abandoning running quiz", slog.String("session_id", e.session.String()))
	}
	e.stopTickLocked()

	e.cfg = cfg
	e.pool = pool
	e.session = uuid.New()
	e.status = StatusRunning
	e.startedAt = e.now()
	e.finishedAt = time.Time{}
	e.correct = 0
	e.total = 0
	e.remainSecs = int(cfg.Duration / time.Second)
	e.remainQs = cfg.QuestionLimit
	e.result = nil
	e.current = newQuestion(pool, e.rng, 1)

	if cfg.Mode == domain.QuizModeDuration {
		session := e.session
		tickCtx := context.WithoutCancel(ctx)
		e.cancelTick = e.scheduler.Every(tickInterval, func() {
			e.tick(tickCtx, session)
		})
	}

	e.logger.Info("quiz started",
		slog.String("session_id", e.session.String()),
		slog.String("mode", string(cfg.Mode)),
		slog.Int("level", int(cfg.Level)),
		slog.String("category", string(cfg.Category)),
		slog.Int("candidates", len(pool)))
}

// tick advances the countdown of session. Ticks for any other session are
// ignored.
func (e *Engine) tick(ctx context.Context, session uuid.UUID) {
	e.mu.Lock()
	if e.status != StatusRunning || e.session != session {
		e.mu.Unlock()
		return
	}

	e.remainSecs--
	var finished *domain.QuizHistoryEntry
	if e.remainSecs <= 0 {
		e.remainSecs = 0
		finished = e.finishLocked(ctx)
	}
	e.mu.Unlock()

	e.notify(ctx, finished)
}

func (e *Engine) finishLocked(ctx context.Context) *domain.QuizHistoryEntry {
	e.stopTickLocked()

	e.status = StatusFinished
	e.finishedAt = e.now()
	e.current = nil

	entry := domain.NewQuizHistoryEntry(e.cfg.Mode, e.cfg.Level, e.correct, e.total,
		e.finishedAt.Sub(e.startedAt), e.finishedAt.UTC())
	e.history.Record(ctx, entry)
	e.result = &entry

	e.logger.Info("quiz finished",
		slog.String("session_id", e.session.String()),
		slog.Int("correct", entry.Correct),
		slog.Int("total", entry.Total),
		slog.Int("accuracy", entry.Accuracy))

	return &entry
}

func (e *Engine) stopTickLocked() {
	if e.cancelTick != nil {
		e.cancelTick()
		e.cancelTick = nil
	}
}

func (e *Engine) notify(ctx context.Context, entry *domain.QuizHistoryEntry) {
	if entry != nil && e.onFinish != nil {
		e.onFinish(ctx, *entry)
	}
}

func (e *Engine) snapshotLocked() Snapshot {
	s := Snapshot{
		Status:  e.status,
		Correct: e.correct,
		Total:   e.total,
	}
	if e.status == StatusIdle {
		return s
	}

	s.SessionID = e.session.String()
	s.Level = e.cfg.Level
	s.Category = e.cfg.Category
	s.Mode = e.cfg.Mode
	if e.cfg.Mode == domain.QuizModeDuration {
		s.RemainingSeconds = e.remainSecs
	} else {
		s.RemainingQuestions = e.remainQs
	}

	end := e.now()
	if e.status == StatusFinished {
		end = e.finishedAt
	}
	s.ElapsedSeconds = int(end.Sub(e.startedAt).Round(time.Second) / time.Second)

	if e.current != nil {
		s.Question = e.current.clone()
	}
	if e.result != nil {
		r := *e.result
		s.Result = &r
	}
	return s
}
