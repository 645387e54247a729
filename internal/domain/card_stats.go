package domain

import "time"

// CardStats tracks how a learner has fared on a single card.
// A CardStats is created lazily the first time the card is answered.
type CardStats struct {
	Correct    int       `json:"correct"`
	Wrong      int       `json:"wrong"`
	Seen       int       `json:"seen"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

// Mastery is the derived score used to bias card selection.
func (s CardStats) Mastery() int {
	return s.Correct - s.Wrong
}

// record applies a single answer at time now.
func (s CardStats) record(correct bool, now time.Time) CardStats {
	s.Seen++
	if correct {
		s.Correct++
	} else {
		s.Wrong++
	}
	s.LastSeenAt = now
	return s
}
