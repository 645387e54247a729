package quiz

import (
	"github.com/phrazzld/lingodeck/internal/domain"
	"github.com/phrazzld/lingodeck/internal/selection"
)

const (
	// optionCount is the number of choices in a full question.
	optionCount = 4

	// maxDistractorAttempts bounds distractor sampling when the candidate
	// pool has fewer distinct answers than optionCount.
	maxDistractorAttempts = 50
)

// Question is one multiple-choice prompt. The correct answer is kept
// unexported so a Question can be handed to clients as is.
type Question struct {
	CardID   string       `json:"card_id"`
	Level    domain.Level `json:"level"`
	Prompt   string       `json:"prompt"`
	Hint     string       `json:"hint,omitempty"`
	Options  []string     `json:"options"`
	Number   int          `json:"number"`
	answer   string
}

// Answer returns the correct option.
func (q Question) Answer() string {
	return q.answer
}

func (q Question) clone() *Question {
	c := q
	c.Options = append([]string(nil), q.Options...)
	return &c
}

// newQuestion draws an answer card from pool and up to optionCount-1
// distractors with distinct target texts, then shuffles the options.
// pool must not be empty.
func newQuestion(pool []domain.Card, rng selection.RandSource, number int) *Question {
	answer := pool[rng.IntN(len(pool))]

	options := make([]string, 0, optionCount)
	options = append(options, answer.Target)
	seen := map[string]struct{}{answer.Target: {}}

	for attempt := 0; len(options) < optionCount && attempt < maxDistractorAttempts; attempt++ {
		c := pool[rng.IntN(len(pool))]
		if _, dup := seen[c.Target]; dup {
			continue
		}
		seen[c.Target] = struct{}{}
		options = append(options, c.Target)
	}

	shuffle(options, rng)

	return &Question{
		CardID:  answer.ID,
		Level:   answer.Level,
		Prompt:  answer.Source,
		Hint:    answer.Hint,
		Options: options,
		Number:  number,
		answer:  answer.Target,
	}
}

// shuffle is a Fisher-Yates shuffle over rng.
func shuffle(s []string, rng selection.RandSource) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
