package domain

import (
	"math"
	"time"
)

// Totals are the aggregate answer counters across all levels.
type Totals struct {
	Total   int `json:"total"`
	Correct int `json:"correct"`
	Streak  int `json:"streak"`
}

// LevelTotals are the answer counters for a single level.
type LevelTotals struct {
	Total   int `json:"total"`
	Correct int `json:"correct"`
}

// Progress is the learner's full answer history in aggregate form.
//
// Invariants maintained by RecordAnswer:
//   - Totals.Total equals the sum of Levels[*].Total
//   - Totals.Streak is zero after any wrong answer and grows by one per correct answer
//   - every key of Cards is the ID of a card that was answered at least once
type Progress struct {
	Totals Totals                `json:"totals"`
	Levels map[Level]LevelTotals `json:"levels"`
	Cards  map[string]CardStats  `json:"cards"`
}

// NewProgress returns an empty Progress with every level present.
func NewProgress() *Progress {
	p := &Progress{}
	p.Normalize()
	return p
}

// Normalize fills in maps that may be missing after decoding older or partial
// records, so callers never have to nil-check.
func (p *Progress) Normalize() {
	if p.Levels == nil {
		p.Levels = make(map[Level]LevelTotals, MaxLevel)
	}
	for _, l := range Levels() {
		if _, ok := p.Levels[l]; !ok {
			p.Levels[l] = LevelTotals{}
		}
	}
	if p.Cards == nil {
		p.Cards = make(map[string]CardStats)
	}
}

// RecordAnswer applies one answer to the card and to the aggregate and level
// totals, and returns the card's updated statistics.
func (p *Progress) RecordAnswer(cardID string, correct bool, level Level, now time.Time) CardStats {
	p.Normalize()

	stats := p.Cards[cardID].record(correct, now)
	p.Cards[cardID] = stats

	lt := p.Levels[level]
	lt.Total++
	p.Totals.Total++
	if correct {
		lt.Correct++
		p.Totals.Correct++
		p.Totals.Streak++
	} else {
		p.Totals.Streak = 0
	}
	p.Levels[level] = lt

	return stats
}

// Stats returns the statistics for a card, if it has been answered.
func (p *Progress) Stats(cardID string) (CardStats, bool) {
	s, ok := p.Cards[cardID]
	return s, ok
}

// Mastery returns correct minus wrong for a card; unseen cards score zero.
func (p *Progress) Mastery(cardID string) int {
	return p.Cards[cardID].Mastery()
}

// LevelTotal returns the sum of per-level totals.
func (p *Progress) LevelTotal() int {
	sum := 0
	for _, lt := range p.Levels {
		sum += lt.Total
	}
	return sum
}

// Clone returns a deep copy of p.
func (p *Progress) Clone() *Progress {
	c := &Progress{
		Totals: p.Totals,
		Levels: make(map[Level]LevelTotals, len(p.Levels)),
		Cards:  make(map[string]CardStats, len(p.Cards)),
	}
	for k, v := range p.Levels {
		c.Levels[k] = v
	}
	for k, v := range p.Cards {
		c.Cards[k] = v
	}
	c.Normalize()
	return c
}

// Accuracy returns correct/total as a whole percentage, rounded half away
// from zero. A total of zero yields zero.
func Accuracy(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}
