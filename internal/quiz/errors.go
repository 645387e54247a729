package quiz

import "errors"

var (
	// ErrNoCardsAvailable is returned by Start when no card matches the
	// requested level and category.
	ErrNoCardsAvailable = errors.New("no cards available for quiz")

	// ErrQuizNotRunning is returned when an operation needs a running quiz.
	ErrQuizNotRunning = errors.New("quiz is not running")

	// ErrQuizNotStarted is returned by Restart before any quiz has been started.
	ErrQuizNotStarted = errors.New("quiz has not been started")

	// ErrInvalidConfig is returned by Start for an unusable configuration.
	ErrInvalidConfig = errors.New("invalid quiz configuration")
)
