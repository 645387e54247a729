// Package selection picks the next flashcard with a weighted-random policy
// that favors weakly mastered and favorited cards.
package selection

import (
	"math/rand/v2"
	"sort"
)

// Weighting constants.
const (
	// BaseWeight is the weight of an unseen, non-favorited card.
	BaseWeight = 6
	// FavoriteBonus is added to the weight of a favorited card.
	FavoriteBonus = 2
	// MinWeight is the floor every candidate keeps, however well mastered.
	MinWeight = 1
)

// RandSource draws integers uniformly from [0, n). *rand.Rand satisfies it.
type RandSource interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// DefaultSource returns a RandSource backed by the math/rand/v2 global generator.
func DefaultSource() RandSource {
	return globalSource{}
}

// Weight returns the selection weight for a card with the given mastery
// (correct minus wrong) and favorite status. It is never below MinWeight.
func Weight(mastery int, favorite bool) int {
	w := BaseWeight - mastery
	if favorite {
		w += FavoriteBonus
	}
	return max(MinWeight, w)
}

// Pick returns an index into weights drawn with probability proportional to
// its weight, or -1 when weights is empty. Non-positive weights are never
// chosen unless every weight is non-positive, in which case index 0 is used.
func Pick(weights []int, rng RandSource) int {
	if len(weights) == 0 {
		return -1
	}

	prefix := make([]int, len(weights))
	total := 0
	for i, w := range weights {
		if w > 0 {
			total += w
		}
		prefix[i] = total
	}
	if total <= 0 {
		return 0
	}

	r := rng.IntN(total)
	i := sort.Search(len(prefix), func(i int) bool { return prefix[i] > r })
	if i >= len(prefix) {
		return 0
	}
	return i
}
