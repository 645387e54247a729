package domain

import (
	"time"

	"github.com/google/uuid"
)

// QuizMode selects how a quiz session terminates.
type QuizMode string

// Quiz modes
const (
	// QuizModeDuration ends the quiz when the countdown reaches zero.
	QuizModeDuration QuizMode = "duration"
	// QuizModeCount ends the quiz after a fixed number of questions.
	QuizModeCount QuizMode = "count"
)

// Quiz defaults
const (
	DefaultQuizDuration      = 60 * time.Second
	DefaultQuizQuestionLimit = 10
	DefaultQuizHistoryLimit  = 30
)

// Valid reports whether m is a known quiz mode.
func (m QuizMode) Valid() bool {
	return m == QuizModeDuration || m == QuizModeCount
}

// QuizHistoryEntry summarizes one finished quiz session.
type QuizHistoryEntry struct {
	ID              uuid.UUID `json:"id"`
	Timestamp       time.Time `json:"timestamp"`
	Mode            QuizMode  `json:"mode"`
	Level           Level     `json:"level"`
	Correct         int       `json:"correct"`
	Total           int       `json:"total"`
	Accuracy        int       `json:"accuracy"`
	DurationSeconds int       `json:"duration_seconds"`
}

// NewQuizHistoryEntry builds an entry and derives its accuracy.
func NewQuizHistoryEntry(mode QuizMode, level Level, correct, total int, elapsed time.Duration, now time.Time) QuizHistoryEntry {
	return QuizHistoryEntry{
		ID:              uuid.New(),
		Timestamp:       now,
		Mode:            mode,
		Level:           level,
		Correct:         correct,
		Total:           total,
		Accuracy:        Accuracy(correct, total),
		DurationSeconds: int(elapsed.Round(time.Second) / time.Second),
	}
}

// QuizHistory is the list of finished sessions, newest first.
type QuizHistory []QuizHistoryEntry

// Prepend adds entry as the newest item and evicts the oldest entries so
// that at most limit remain. A non-positive limit falls back to
// DefaultQuizHistoryLimit.
func (h QuizHistory) Prepend(entry QuizHistoryEntry, limit int) QuizHistory {
	if limit <= 0 {
		limit = DefaultQuizHistoryLimit
	}
	out := make(QuizHistory, 0, min(len(h)+1, limit))
	out = append(out, entry)
	for _, e := range h {
		if len(out) == limit {
			break
		}
		out = append(out, e)
	}
	return out
}
