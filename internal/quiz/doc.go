// Package quiz implements the multiple-choice quiz: question generation,
// scoring, the duration countdown and the persisted session history.
//
// An Engine moves through idle, running and finished. Starting picks the
// candidate cards for a level and category, and every submitted answer is
// recorded with the mastery tracker exactly like a flashcard answer. A
// session ends when its question limit is reached, when its countdown hits
// zero, or when it is stopped; finishing appends a domain.QuizHistoryEntry to
// the History.
package quiz
