// Package evaluator ranks poker hands. It has two tiers: Categorize maps a
// 5-7 card set to one of ten exclusive categories (the surface used for
// probability reporting), and Evaluate produces a fully ordered rank with
// kicker tie-breaks (the surface used to settle showdowns).
package evaluator

import (
	"math/bits"

	"github.com/lox/holdem-advisor/internal/deck"
)

// Category is an exclusive hand category. Lower is stronger.
type Category int

const (
	RoyalFlush Category = iota + 1
	StraightFlush
	FourOfAKind
	FullHouse
	Flush
	Straight
	ThreeOfAKind
	TwoPair
	OnePair
	HighCard
)

// String returns the readable name of the category
func (c Category) String() string {
	switch c {
	case RoyalFlush:
		return "Royal Flush"
	case StraightFlush:
		return "Straight Flush"
	case FourOfAKind:
		return "Four of a Kind"
	case FullHouse:
		return "Full House"
	case Flush:
		return "Flush"
	case Straight:
		return "Straight"
	case ThreeOfAKind:
		return "Three of a Kind"
	case TwoPair:
		return "Two Pair"
	case OnePair:
		return "One Pair"
	case HighCard:
		return "High Card"
	default:
		return "Unknown"
	}
}

// Categories lists all ten categories from strongest to weakest.
func Categories() []Category {
	cats := make([]Category, 0, 10)
	for c := RoyalFlush; c <= HighCard; c++ {
		cats = append(cats, c)
	}
	return cats
}

// Rank bitmasks: bit i represents rank i+2, so bit 0 = Two ... bit 12 = Ace.
const (
	royalWindow uint16 = 0x1F00 // T J Q K A
	wheelWindow uint16 = 0x100F // A 2 3 4 5
)

// straightWindows holds the nine consecutive 5-rank windows (6-high through
// A-high) plus the wheel. Checked by mask intersection; no sorting needed.
var straightWindows = buildStraightWindows()

func buildStraightWindows() []uint16 {
	windows := make([]uint16, 0, 10)
	for shift := 8; shift >= 0; shift-- { // A-high first
		windows = append(windows, 0x1F<<shift)
	}
	return append(windows, wheelWindow)
}

// handBits is the frequency/bitmask decomposition shared by both tiers.
type handBits struct {
	rankCounts [15]int // indexed by deck.Rank (2..14)
	suitMasks  [4]uint16
	suitCounts [4]int
	rankMask   uint16
}

func analyze(cards []deck.Card) handBits {
	var hb handBits
	for _, c := range cards {
		bit := uint16(1) << (c.Rank - deck.Two)
		hb.rankCounts[c.Rank]++
		hb.suitMasks[c.Suit] |= bit
		hb.suitCounts[c.Suit]++
		hb.rankMask |= bit
	}
	return hb
}

// flushMask returns the rank mask of a suit with 5+ cards, or 0.
func (hb *handBits) flushMask() uint16 {
	for s := range hb.suitMasks {
		if hb.suitCounts[s] >= 5 {
			return hb.suitMasks[s]
		}
	}
	return 0
}

// straightHigh returns the top rank of the best straight in the mask, or 0.
// The wheel counts as a 5-high straight.
func straightHigh(mask uint16) deck.Rank {
	for _, w := range straightWindows {
		if mask&w == w {
			if w == wheelWindow {
				return deck.Five
			}
			high := 15 - bits.LeadingZeros16(w)
			return deck.Rank(high + 2)
		}
	}
	return 0
}

// valid reports whether cards form a legal evaluation set: 5-7 cards with no
// duplicates.
func valid(cards []deck.Card) bool {
	if len(cards) < 5 || len(cards) > 7 {
		return false
	}
	return !deck.HasDuplicates(cards)
}

// Categorize maps a set of 5, 6 or 7 cards to its best exclusive category.
// Works directly on the frequency/bitmask decomposition; it never enumerates
// the C(7,5) five-card subsets. Returns ok=false for invalid input.
//
// Categorize deliberately carries no kicker information: two hands of the
// same category compare equal at this tier. Use Evaluate to settle a
// showdown.
func Categorize(cards []deck.Card) (Category, bool) {
	if !valid(cards) {
		return 0, false
	}
	hb := analyze(cards)

	if flush := hb.flushMask(); flush != 0 {
		if flush&royalWindow == royalWindow {
			return RoyalFlush, true
		}
		if straightHigh(flush) != 0 {
			return StraightFlush, true
		}
		// fall through: flush checked again below the paired categories
	}

	var quads, trips, pairs int
	for _, n := range hb.rankCounts {
		switch {
		case n >= 4:
			quads++
		case n == 3:
			trips++
		case n == 2:
			pairs++
		}
	}

	switch {
	case quads > 0:
		return FourOfAKind, true
	case trips > 0 && (pairs > 0 || trips > 1):
		return FullHouse, true
	case hb.flushMask() != 0:
		return Flush, true
	case straightHigh(hb.rankMask) != 0:
		return Straight, true
	case trips > 0:
		return ThreeOfAKind, true
	case pairs >= 2:
		return TwoPair, true
	case pairs == 1:
		return OnePair, true
	}
	return HighCard, true
}
