package api

import (
	"time"

	"github.com/phrazzld/lingodeck/internal/domain"
	"github.com/phrazzld/lingodeck/internal/quiz"
)

// CardResponse is a card together with the learner's state for it.
type CardResponse struct {
	ID       string            `json:"id"`
	Level    domain.Level      `json:"level"`
	Category domain.Category   `json:"category"`
	Source   string            `json:"source"`
	Target   string            `json:"target"`
	Hint     string            `json:"hint,omitempty"`
	Tags     []string          `json:"tags,omitempty"`
	Favorite bool              `json:"favorite"`
	Stats    *domain.CardStats `json:"stats,omitempty"`
}

// CatalogResponse lists cards. LevelCounts covers the whole catalog,
// regardless of the filter.
type CatalogResponse struct {
	Level       domain.Level         `json:"level"`
	Category    domain.Category      `json:"category"`
	Count       int                  `json:"count"`
	LevelCounts map[domain.Level]int `json:"level_counts"`
	Cards       []CardResponse       `json:"cards"`
}

// AnswerCardRequest is the body of POST /api/cards/{id}/answer.
type AnswerCardRequest struct {
	Correct *bool `json:"correct" validate:"required"`
}

// CardStatsResponse is the updated statistics after an answer.
type CardStatsResponse struct {
	CardID     string    `json:"card_id"`
	Correct    int       `json:"correct"`
	Wrong      int       `json:"wrong"`
	Seen       int       `json:"seen"`
	Mastery    int       `json:"mastery"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

// LevelProgressResponse is the progress for a single level.
type LevelProgressResponse struct {
	Total    int `json:"total"`
	Correct  int `json:"correct"`
	Accuracy int `json:"accuracy"`
}

// ProgressResponse is the learner's aggregate progress.
type ProgressResponse struct {
	Total    int                                    `json:"total"`
	Correct  int                                    `json:"correct"`
	Streak   int                                    `json:"streak"`
	Accuracy int                                    `json:"accuracy"`
	Levels   map[domain.Level]LevelProgressResponse `json:"levels"`
	Cards    map[string]domain.CardStats            `json:"cards"`
}

// FavoritesResponse lists favorite card IDs in the order they were added.
type FavoritesResponse struct {
	CardIDs []string `json:"card_ids"`
}

// ToggleFavoriteResponse is the result of POST /api/favorites/{id}/toggle.
type ToggleFavoriteResponse struct {
	CardID   string   `json:"card_id"`
	Favorite bool     `json:"favorite"`
	CardIDs  []string `json:"card_ids"`
}

// StartQuizRequest is the body of POST /api/quiz/start. Every field is
// optional; missing values come from the settings and quiz defaults.
type StartQuizRequest struct {
	Level           int    `json:"level"            validate:"omitempty,gte=1,lte=5"`
	Category        string `json:"category"`
	Mode            string `json:"mode"             validate:"omitempty,oneof=duration count"`
	DurationSeconds int    `json:"duration_seconds" validate:"omitempty,gte=1,lte=3600"`
	QuestionLimit   int    `json:"question_limit"   validate:"omitempty,gte=1,lte=200"`
}

func (r StartQuizRequest) config() quiz.Config {
	return quiz.Config{
		Level:         domain.Level(r.Level),
		Category:      domain.Category(r.Category),
		Mode:          domain.QuizMode(r.Mode),
		Duration:      time.Duration(r.DurationSeconds) * time.Second,
		QuestionLimit: r.QuestionLimit,
	}
}

// QuizAnswerRequest is the body of POST /api/quiz/answer.
type QuizAnswerRequest struct {
	Choice string `json:"choice" validate:"required"`
}

// QuizHistoryResponse lists finished quizzes, newest first.
type QuizHistoryResponse struct {
	Entries []domain.QuizHistoryEntry `json:"entries"`
}

func progressToResponse(p *domain.Progress) ProgressResponse {
	levels := make(map[domain.Level]LevelProgressResponse, len(p.Levels))
	for l, lt := range p.Levels {
		levels[l] = LevelProgressResponse{
			Total:    lt.Total,
			Correct:  lt.Correct,
			Accuracy: domain.Accuracy(lt.Correct, lt.Total),
		}
	}
	return ProgressResponse{
		Total:    p.Totals.Total,
		Correct:  p.Totals.Correct,
		Streak:   p.Totals.Streak,
		Accuracy: domain.Accuracy(p.Totals.Correct, p.Totals.Total),
		Levels:   levels,
		Cards:    p.Cards,
	}
}

func statsToResponse(cardID string, s domain.CardStats) CardStatsResponse {
	return CardStatsResponse{
		CardID:     cardID,
		Correct:    s.Correct,
		Wrong:      s.Wrong,
		Seen:       s.Seen,
		Mastery:    s.Mastery(),
		LastSeenAt: s.LastSeenAt,
	}
}
