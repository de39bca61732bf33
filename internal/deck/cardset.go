package deck

// CardSet represents a set of cards as a 52-bit bitset.
// Each card maps to a bit: index = (rank-2)*4 + suit.
type CardSet uint64

func cardIndex(card Card) int {
	return int(card.Rank-Two)*4 + int(card.Suit)
}

// Add adds a card to the set
func (cs *CardSet) Add(card Card) {
	*cs |= 1 << cardIndex(card)
}

// Contains checks if a card is in the set
func (cs CardSet) Contains(card Card) bool {
	return cs&(1<<cardIndex(card)) != 0
}

// NewCardSet creates a CardSet from a slice of cards
func NewCardSet(cards []Card) CardSet {
	var cs CardSet
	for _, card := range cards {
		cs.Add(card)
	}
	return cs
}

// HasDuplicates reports whether any card appears more than once across the
// given groups. Hole cards, board and opponent hands must never share a card.
func HasDuplicates(groups ...[]Card) bool {
	var cs CardSet
	for _, group := range groups {
		for _, card := range group {
			if cs.Contains(card) {
				return true
			}
			cs.Add(card)
		}
	}
	return false
}
