package equity

import (
	"github.com/lox/holdem-advisor/internal/deck"
	"github.com/lox/holdem-advisor/internal/evaluator"
)

// Distribution holds the exact, mutually exclusive probability (0-1) of
// the best five-card hand landing in each category, indexed by Category.
type Distribution [evaluator.HighCard + 1]float64

// At returns the probability for one category.
func (d Distribution) At(c evaluator.Category) float64 {
	if c < evaluator.RoyalFlush || c > evaluator.HighCard {
		return 0
	}
	return d[c]
}

// Distribution enumerates every completion of the board and counts the
// best achievable category for each, so stronger hands are never
// double-counted into weaker categories. With an empty board this walks
// all C(50,5) = 2,118,760 runouts.
func (e *Engine) Distribution(hole, board []deck.Card) (Distribution, bool) {
	var dist Distribution
	if len(hole) != 2 || len(board) > 5 || deck.HasDuplicates(hole, board) {
		return dist, false
	}

	known := make([]deck.Card, 0, 7)
	known = append(known, board...)
	known = append(known, hole...)

	need := 5 - len(board)
	if need <= 0 {
		cat, ok := evaluator.Categorize(known)
		if !ok {
			return dist, false
		}
		dist[cat] = 1
		return dist, true
	}

	remaining := remainingCards(hole, board)
	var counts [evaluator.HighCard + 1]int
	total := 0

	hand := make([]deck.Card, len(known), 7)
	copy(hand, known)
	forEachCombination(remaining, need, func(combo []deck.Card) {
		hand = append(hand[:len(known)], combo...)
		if cat, ok := evaluator.Categorize(hand); ok {
			counts[cat]++
			total++
		}
	})

	if total == 0 {
		return dist, false
	}
	for cat := evaluator.RoyalFlush; cat <= evaluator.HighCard; cat++ {
		dist[cat] = float64(counts[cat]) / float64(total)
	}
	return dist, true
}

// forEachCombination calls fn for every k-subset of cards. The slice
// passed to fn is reused between calls.
func forEachCombination(cards []deck.Card, k int, fn func([]deck.Card)) {
	combo := make([]deck.Card, k)
	var recurse func(start, depth int)
	recurse = func(start, depth int) {
		if depth == k {
			fn(combo)
			return
		}
		for i := start; i <= len(cards)-(k-depth); i++ {
			combo[depth] = cards[i]
			recurse(i+1, depth+1)
		}
	}
	recurse(0, 0)
}
