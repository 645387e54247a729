package api

import (
	"context"

	"github.com/phrazzld/lingodeck/internal/domain"
	"github.com/phrazzld/lingodeck/internal/quiz"
)

// CardService is the flashcard side of the application.
type CardService interface {
	Cards(level domain.Level, category domain.Category) ([]domain.Card, error)
	LevelCounts() map[domain.Level]int
	NextCard(level domain.Level, category domain.Category) (domain.Card, bool, error)
	AnswerCard(ctx context.Context, cardID string, correct bool) (domain.CardStats, error)
	ResolveFilter(level domain.Level, category domain.Category) (domain.Level, domain.Category, error)
	CardStats(cardID string) (domain.CardStats, bool)
	IsFavorite(cardID string) bool
}

// LearnerService holds the learner's persisted records.
type LearnerService interface {
	Progress() *domain.Progress
	ResetProgress(ctx context.Context)
	Favorites() []string
	AddFavorite(ctx context.Context, cardID string) error
	RemoveFavorite(ctx context.Context, cardID string)
	ToggleFavorite(ctx context.Context, cardID string) (bool, error)
	Settings() domain.Settings
	UpdateSettings(ctx context.Context, s domain.Settings) (domain.Settings, error)
}

// QuizService runs quizzes.
type QuizService interface {
	StartQuiz(ctx context.Context, cfg quiz.Config) (quiz.Snapshot, error)
	SubmitQuizAnswer(ctx context.Context, choice string) (quiz.AnswerResult, error)
	RestartQuiz(ctx context.Context) (quiz.Snapshot, error)
	StopQuiz(ctx context.Context) (quiz.Snapshot, error)
	QuizState() quiz.Snapshot
	QuizHistory() []domain.QuizHistoryEntry
}

// Service is everything the router needs. *app.App implements it.
type Service interface {
	CardService
	LearnerService
	QuizService
}
