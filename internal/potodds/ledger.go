// Package potodds tracks per-street betting contributions and converts an
// equity estimate into an actionable verdict using pot-odds break-even math
// and a tunable aggression profile.
package potodds

import (
	"github.com/lox/holdem-advisor/internal/game"
)

// StreetBets holds what each side has put in on one street. Heads-up view:
// everything that is not the hero's money is the opponent's.
type StreetBets struct {
	Opponent int `json:"opponent"`
	Hero     int `json:"hero"`
}

// Ledger is manually-adjustable pot bookkeeping for bets entered out of
// band, by voice or a manual UI, rather than through the table machine.
// When a table machine is running it is the single source of truth and
// callers use its derived view instead (see PotView). Amounts are cents.
type Ledger struct {
	StartingPot int        `json:"starting_pot"`
	Preflop     StreetBets `json:"preflop"`
	Flop        StreetBets `json:"flop"`
	Turn        StreetBets `json:"turn"`
	River       StreetBets `json:"river"`
}

// NewLedger returns an empty ledger seeded with the given starting pot.
func NewLedger(startingPot int) *Ledger {
	return &Ledger{StartingPot: startingPot}
}

// DefaultLedger returns a ledger for a fresh 10c/20c hand: blinds in the
// pot and the big blind standing as the preflop bet to match.
func DefaultLedger() *Ledger {
	l := NewLedger(30)
	l.Preflop.Opponent = 20
	return l
}

// Reset clears every street and replaces the starting pot. Called on hand
// reset alongside the table machine.
func (l *Ledger) Reset(startingPot int) {
	*l = Ledger{StartingPot: startingPot}
}

func (l *Ledger) bets(street game.Street) *StreetBets {
	switch street {
	case game.Preflop:
		return &l.Preflop
	case game.Flop:
		return &l.Flop
	case game.Turn:
		return &l.Turn
	default:
		return &l.River
	}
}

// SetOpponent records the opponent's total contribution for a street.
func (l *Ledger) SetOpponent(street game.Street, cents int) {
	l.bets(street).Opponent = cents
}

// SetHero records the hero's total contribution for a street.
func (l *Ledger) SetHero(street game.Street, cents int) {
	l.bets(street).Hero = cents
}

// CumulativePotAfter returns the total pot at the end of the given street,
// after both sides have put in their bets.
func (l *Ledger) CumulativePotAfter(street game.Street) int {
	total := l.StartingPot
	for s := game.Preflop; s <= street; s++ {
		b := l.bets(s)
		total += b.Opponent + b.Hero
	}
	return total
}

// PotBeforeCall returns the pot as it stands while the hero is deciding:
// the opponent's bet this street is in, the hero's call is not.
func (l *Ledger) PotBeforeCall(street game.Street) int {
	total := l.StartingPot
	for s := game.Preflop; s < street; s++ {
		b := l.bets(s)
		total += b.Opponent + b.Hero
	}
	return total + l.bets(street).Opponent
}

// AmountToCall returns what the hero still owes this street, zero if the
// hero has already matched.
func (l *Ledger) AmountToCall(street game.Street) int {
	b := l.bets(street)
	if owed := b.Opponent - b.Hero; owed > 0 {
		return owed
	}
	return 0
}

// PotAfterCall returns the pot size once the hero calls, the pot-odds
// denominator.
func (l *Ledger) PotAfterCall(street game.Street) int {
	return l.PotBeforeCall(street) + l.AmountToCall(street)
}

// RequiredEquityPct returns the break-even equity percentage to call this
// street, or false when nothing is owed.
func (l *Ledger) RequiredEquityPct(street game.Street) (float64, bool) {
	return requiredEquity(l, street)
}
