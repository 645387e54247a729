// Package app wires the learning components into a single application state
// object. Every caller reaches the catalog, progress, favorites, settings,
// card selection and quiz through an App.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/lingodeck/internal/catalog"
	"github.com/phrazzld/lingodeck/internal/domain"
	"github.com/phrazzld/lingodeck/internal/events"
	"github.com/phrazzld/lingodeck/internal/favorites"
	"github.com/phrazzld/lingodeck/internal/mastery"
	"github.com/phrazzld/lingodeck/internal/quiz"
	"github.com/phrazzld/lingodeck/internal/selection"
	"github.com/phrazzld/lingodeck/internal/settings"
	"github.com/phrazzld/lingodeck/internal/store"
)

// ErrCardNotFound is returned when a card ID is not in the catalog.
var ErrCardNotFound = errors.New("card not found")

// Options tune an App. Zero values select the production defaults.
type Options struct {
	// Rand drives card selection and quiz generation.
	Rand selection.RandSource
	// Scheduler drives the quiz countdown.
	Scheduler quiz.Scheduler
	// Clock is the time source for answers and quiz timing.
	Clock func() time.Time
	// QuizDuration is the default length of a duration-mode quiz.
	QuizDuration time.Duration
	// QuestionLimit is the default length of a count-mode quiz.
	QuestionLimit int
	// HistoryLimit caps the stored quiz history.
	HistoryLimit int
	// Emitter receives domain events. Nil uses an in-memory emitter that logs them.
	Emitter events.EventEmitter
}

// App is the application state. It is safe for concurrent use; each
// component serializes its own mutations.
type App struct {
	catalog   *catalog.Catalog
	mastery   *mastery.Tracker
	favorites *favorites.Set
	settings  *settings.Manager
	selector  *selection.Selector
	history   *quiz.History
	quiz      *quiz.Engine
	emitter   events.EventEmitter
	logger    *slog.Logger
}

// New loads the learner's records from kv and builds an App over cat.
// If logger is nil, a default logger will be used.
func New(ctx context.Context, cat *catalog.Catalog, kv store.KV, logger *slog.Logger, opts Options) *App {
	if cat == nil {
		cat = catalog.Empty()
	}
	if kv == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("app: kv cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Rand == nil {
		opts.Rand = selection.DefaultSource()
	}
	if opts.Emitter == nil {
		emitter := events.NewInMemoryEventEmitter(logger)
		emitter.RegisterHandler(events.NewLogHandler(logger))
		opts.Emitter = emitter
	}

	var trackerOpts []mastery.Option
	if opts.Clock != nil {
		trackerOpts = append(trackerOpts, mastery.WithClock(opts.Clock))
	}

	a := &App{
		catalog:   cat,
		mastery:   mastery.NewTracker(ctx, kv, logger, trackerOpts...),
		favorites: favorites.NewSet(ctx, kv, logger),
		settings:  settings.NewManager(ctx, kv, logger),
		history:   quiz.NewHistory(ctx, kv, opts.HistoryLimit, logger),
		emitter:   opts.Emitter,
		logger:    logger.With(slog.String("component", "app")),
	}
	a.selector = selection.NewSelector(cat, a.mastery, a.favorites, opts.Rand)

	quizOpts := []quiz.Option{
		quiz.WithRand(opts.Rand),
		quiz.WithDefaults(opts.QuizDuration, opts.QuestionLimit),
		quiz.WithAnswerHook(a.quizAnswered),
		quiz.WithFinishHook(a.quizFinished),
	}
	if opts.Scheduler != nil {
		quizOpts = append(quizOpts, quiz.WithScheduler(opts.Scheduler))
	}
	if opts.Clock != nil {
		quizOpts = append(quizOpts, quiz.WithClock(opts.Clock))
	}
	a.quiz = quiz.NewEngine(cat, a.mastery, a.history, logger, quizOpts...)

	return a
}

// Close stops any running quiz countdown.
func (a *App) Close() {
	a.quiz.Close()
}

// Catalog returns the loaded vocabulary.
func (a *App) Catalog() *catalog.Catalog {
	return a.catalog
}

// ResolveFilter fills a zero level or empty category from the settings and
// validates the result.
func (a *App) ResolveFilter(level domain.Level, category domain.Category) (domain.Level, domain.Category, error) {
	s := a.settings.Get()
	if level == 0 {
		level = s.Level
	}
	if category == "" {
		category = s.Category
	}
	if !level.Valid() {
		return 0, "", domain.ErrInvalidLevel
	}
	if !category.IsAll() && !category.Valid() {
		return 0, "", domain.ErrInvalidCategory
	}
	return level, category, nil
}

// Cards lists the catalog cards matching the filter.
func (a *App) Cards(level domain.Level, category domain.Category) ([]domain.Card, error) {
	level, category, err := a.ResolveFilter(level, category)
	if err != nil {
		return nil, err
	}
	return a.catalog.Cards(level, category), nil
}

// LevelCounts returns the number of catalog cards per level.
func (a *App) LevelCounts() map[domain.Level]int {
	return a.catalog.LevelCounts()
}

// NextCard selects the next flashcard. The bool is false when no card matches.
func (a *App) NextCard(level domain.Level, category domain.Category) (domain.Card, bool, error) {
	level, category, err := a.ResolveFilter(level, category)
	if err != nil {
		return domain.Card{}, false, err
	}
	card, ok := a.selector.Select(level, category)
	return card, ok, nil
}

// AnswerCard records a flashcard answer for cardID.
func (a *App) AnswerCard(ctx context.Context, cardID string, correct bool) (domain.CardStats, error) {
	card, ok := a.catalog.Card(cardID)
	if !ok {
		return domain.CardStats{}, fmt.Errorf("%w: %s", ErrCardNotFound, cardID)
	}

	stats := a.mastery.RecordAnswer(ctx, card.ID, correct, card.Level)
	a.emit(ctx, events.TypeCardAnswered, events.CardAnswered{
		CardID:  card.ID,
		Level:   card.Level,
		Correct: correct,
		Stats:   stats,
		Source:  events.SourceFlashcard,
	})
	return stats, nil
}

// CardStats returns the statistics of one card, if it has been answered.
func (a *App) CardStats(cardID string) (domain.CardStats, bool) {
	return a.mastery.Stats(cardID)
}

// IsFavorite reports whether cardID is a favorite.
func (a *App) IsFavorite(cardID string) bool {
	return a.favorites.Contains(cardID)
}

// Progress returns a copy of the learner's progress.
func (a *App) Progress() *domain.Progress {
	return a.mastery.Snapshot()
}

// ResetProgress clears all recorded answers.
func (a *App) ResetProgress(ctx context.Context) {
	a.mastery.Reset(ctx)
}

// Favorites lists favorite card IDs in the order they were added.
func (a *App) Favorites() []string {
	return a.favorites.List()
}

// AddFavorite marks a catalog card as a favorite.
func (a *App) AddFavorite(ctx context.Context, cardID string) error {
	if _, ok := a.catalog.Card(cardID); !ok {
		return fmt.Errorf("%w: %s", ErrCardNotFound, cardID)
	}
	a.favorites.Add(ctx, cardID)
	return nil
}

// RemoveFavorite unmarks cardID. Removing a card that is not a favorite is a no-op.
func (a *App) RemoveFavorite(ctx context.Context, cardID string) {
	a.favorites.Remove(ctx, cardID)
}

// ToggleFavorite flips a catalog card's favorite status and returns the new status.
func (a *App) ToggleFavorite(ctx context.Context, cardID string) (bool, error) {
	if _, ok := a.catalog.Card(cardID); !ok {
		return false, fmt.Errorf("%w: %s", ErrCardNotFound, cardID)
	}
	return a.favorites.Toggle(ctx, cardID), nil
}

// Settings returns the current settings.
func (a *App) Settings() domain.Settings {
	return a.settings.Get()
}

// UpdateSettings validates and stores s.
func (a *App) UpdateSettings(ctx context.Context, s domain.Settings) (domain.Settings, error) {
	return a.settings.Update(ctx, s)
}

// StartQuiz starts a quiz. A zero level, empty category or empty mode is
// taken from the settings.
func (a *App) StartQuiz(ctx context.Context, cfg quiz.Config) (quiz.Snapshot, error) {
	s := a.settings.Get()
	if cfg.Level == 0 {
		cfg.Level = s.Level
	}
	if cfg.Category == "" {
		cfg.Category = s.Category
	}
	if cfg.Mode == "" {
		cfg.Mode = s.QuizMode
	}
	return a.quiz.Start(ctx, cfg)
}

// SubmitQuizAnswer answers the current quiz question.
func (a *App) SubmitQuizAnswer(ctx context.Context, choice string) (quiz.AnswerResult, error) {
	return a.quiz.Submit(ctx, choice)
}

// RestartQuiz restarts the quiz with its previous configuration.
func (a *App) RestartQuiz(ctx context.Context) (quiz.Snapshot, error) {
	return a.quiz.Restart(ctx)
}

// StopQuiz finishes the running quiz early.
func (a *App) StopQuiz(ctx context.Context) (quiz.Snapshot, error) {
	return a.quiz.Stop(ctx)
}

// QuizState returns the quiz snapshot.
func (a *App) QuizState() quiz.Snapshot {
	return a.quiz.State()
}

// QuizHistory lists finished quizzes, newest first.
func (a *App) QuizHistory() []domain.QuizHistoryEntry {
	return a.history.List()
}

func (a *App) quizAnswered(ctx context.Context, res quiz.AnswerResult) {
	a.emit(ctx, events.TypeCardAnswered, events.CardAnswered{
		CardID:  res.CardID,
		Level:   res.Level,
		Correct: res.Correct,
		Stats:   res.Stats,
		Source:  events.SourceQuiz,
	})
}

func (a *App) quizFinished(ctx context.Context, entry domain.QuizHistoryEntry) {
	a.emit(ctx, events.TypeQuizFinished, events.QuizFinished{Entry: entry})
}

func (a *App) emit(ctx context.Context, eventType string, payload any) {
	event, err := events.NewEvent(eventType, payload)
	if err != nil {
		a.logger.Error("failed to build event", slog.String("event_type", eventType), slog.String("error", err.Error()))
		return
	}
	if err := a.emitter.EmitEvent(ctx, event); err != nil {
		a.logger.Warn("event handler failed", slog.String("event_type", eventType), slog.String("error", err.Error()))
	}
}
