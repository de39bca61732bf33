package evaluator

import (
	"sort"

	"github.com/lox/holdem-advisor/internal/deck"
)

// Rank is a fully ordered hand strength: category in the high bits, up to
// five kicker ranks packed as nibbles below. Higher is stronger. Two hands
// with equal Rank are an exact chop.
type Rank uint32

const kickerBits = 20

// Category returns the hand's exclusive category.
func (r Rank) Category() Category {
	return Category(11 - int(r>>kickerBits))
}

// Compare returns 1 if r is stronger than other, -1 if weaker, 0 if equal.
func (r Rank) Compare(other Rank) int {
	if r > other {
		return 1
	}
	if r < other {
		return -1
	}
	return 0
}

// String returns the readable name of the hand's category
func (r Rank) String() string {
	return r.Category().String()
}

func packRank(cat Category, kickers ...deck.Rank) Rank {
	r := Rank(11-int(cat)) << kickerBits
	shift := 16
	for _, k := range kickers {
		r |= Rank(k) << shift
		shift -= 4
	}
	return r
}

// topRanks returns up to n ranks present in mask, strongest first.
func topRanks(mask uint16, n int) []deck.Rank {
	out := make([]deck.Rank, 0, n)
	for bit := 12; bit >= 0 && len(out) < n; bit-- {
		if mask&(1<<bit) != 0 {
			out = append(out, deck.Rank(bit+2))
		}
	}
	return out
}

// Evaluate maps a set of 5, 6 or 7 cards to a fully ordered Rank including
// kicker tie-breaks. Returns ok=false for invalid input.
func Evaluate(cards []deck.Card) (Rank, bool) {
	if !valid(cards) {
		return 0, false
	}
	hb := analyze(cards)

	if flush := hb.flushMask(); flush != 0 {
		if high := straightHigh(flush); high != 0 {
			cat := StraightFlush
			if high == deck.Ace {
				cat = RoyalFlush
			}
			return packRank(cat, high), true
		}
	}

	// Rank frequency groups, strongest rank first within each group.
	var quadRank, tripRank, secondTripRank deck.Rank
	var pairRanks []deck.Rank
	for rank := deck.Ace; rank >= deck.Two; rank-- {
		switch hb.rankCounts[rank] {
		case 4:
			if quadRank == 0 {
				quadRank = rank
			}
		case 3:
			if tripRank == 0 {
				tripRank = rank
			} else if secondTripRank == 0 {
				secondTripRank = rank
			}
		case 2:
			pairRanks = append(pairRanks, rank)
		}
	}

	if quadRank != 0 {
		kicker := bestExcluding(hb.rankMask, quadRank)
		return packRank(FourOfAKind, quadRank, kicker), true
	}

	if tripRank != 0 {
		// Second trip doubles as the full-house pair.
		pair := secondTripRank
		if len(pairRanks) > 0 && pairRanks[0] > pair {
			pair = pairRanks[0]
		}
		if pair != 0 {
			return packRank(FullHouse, tripRank, pair), true
		}
	}

	if flush := hb.flushMask(); flush != 0 {
		return packRank(Flush, topRanks(flush, 5)...), true
	}

	if high := straightHigh(hb.rankMask); high != 0 {
		return packRank(Straight, high), true
	}

	if tripRank != 0 {
		kickers := kickersExcluding(hb.rankMask, 2, tripRank)
		return packRank(ThreeOfAKind, append([]deck.Rank{tripRank}, kickers...)...), true
	}

	if len(pairRanks) >= 2 {
		kicker := bestExcluding(hb.rankMask, pairRanks[0], pairRanks[1])
		return packRank(TwoPair, pairRanks[0], pairRanks[1], kicker), true
	}

	if len(pairRanks) == 1 {
		kickers := kickersExcluding(hb.rankMask, 3, pairRanks[0])
		return packRank(OnePair, append([]deck.Rank{pairRanks[0]}, kickers...)...), true
	}

	return packRank(HighCard, topRanks(hb.rankMask, 5)...), true
}

func bestExcluding(mask uint16, exclude ...deck.Rank) deck.Rank {
	ks := kickersExcluding(mask, 1, exclude...)
	if len(ks) == 0 {
		return 0
	}
	return ks[0]
}

func kickersExcluding(mask uint16, n int, exclude ...deck.Rank) []deck.Rank {
	for _, e := range exclude {
		mask &^= 1 << (e - deck.Two)
	}
	return topRanks(mask, n)
}

// Best returns the winning seats among the given hole-card hands on a
// complete 5-card board, using full kicker ordering. Ties return every
// chopping seat.
func Best(board []deck.Card, holes map[int][]deck.Card) ([]int, map[int]Rank) {
	ranks := make(map[int]Rank, len(holes))
	var winners []int
	var best Rank
	for seat, hole := range holes {
		cards := make([]deck.Card, 0, 7)
		cards = append(cards, hole...)
		cards = append(cards, board...)
		rank, ok := Evaluate(cards)
		if !ok {
			continue
		}
		ranks[seat] = rank
		switch {
		case len(winners) == 0 || rank > best:
			best = rank
			winners = []int{seat}
		case rank == best:
			winners = append(winners, seat)
		}
	}
	sort.Ints(winners)
	return winners, ranks
}
