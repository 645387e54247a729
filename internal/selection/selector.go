package selection

import (
	"sync"

	"github.com/phrazzld/lingodeck/internal/domain"
)

// CardSource supplies the candidate cards for a level and category filter.
type CardSource interface {
	Cards(level domain.Level, category domain.Category) []domain.Card
}

// MasteryLookup reports a card's mastery score.
type MasteryLookup interface {
	Mastery(cardID string) int
}

// FavoriteLookup reports whether a card is favorited.
type FavoriteLookup interface {
	Contains(cardID string) bool
}

// Selector chooses the next flashcard. It is safe for concurrent use.
type Selector struct {
	cards     CardSource
	mastery   MasteryLookup
	favorites FavoriteLookup

	mu  sync.Mutex
	rng RandSource
}

// NewSelector creates a Selector. A nil rng uses DefaultSource.
func NewSelector(cards CardSource, mastery MasteryLookup, favorites FavoriteLookup, rng RandSource) *Selector {
	if cards == nil || mastery == nil || favorites == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("selection: cards, mastery and favorites cannot be nil")
	}
	if rng == nil {
		rng = DefaultSource()
	}
	return &Selector{
		cards:     cards,
		mastery:   mastery,
		favorites: favorites,
		rng:       rng,
	}
}

// Candidate is a card with its computed selection weight.
type Candidate struct {
	Card   domain.Card
	Weight int
}

// Candidates returns the filtered cards with their current weights.
func (s *Selector) Candidates(level domain.Level, category domain.Category) []Candidate {
	cards := s.cards.Cards(level, category)
	out := make([]Candidate, len(cards))
	for i, c := range cards {
		out[i] = Candidate{
			Card:   c,
			Weight: Weight(s.mastery.Mastery(c.ID), s.favorites.Contains(c.ID)),
		}
	}
	return out
}

// Select draws the next card for level and category. The second result is
// false when no card matches the filter.
func (s *Selector) Select(level domain.Level, category domain.Category) (domain.Card, bool) {
	candidates := s.Candidates(level, category)
	if len(candidates) == 0 {
		return domain.Card{}, false
	}

	weights := make([]int, len(candidates))
	for i, c := range candidates {
		weights[i] = c.Weight
	}

	s.mu.Lock()
	i := Pick(weights, s.rng)
	s.mu.Unlock()

	return candidates[i].Card, true
}
