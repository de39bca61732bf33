package session

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/coder/quartz"

	"github.com/lox/holdem-advisor/internal/deck"
)

type intakeSlot int

const (
	slotHole intakeSlot = iota
	slotFlop
	slotTurn
	slotRiver
	slotDone
)

func (s intakeSlot) String() string {
	return [...]string{"hole", "flop", "turn", "river", "done"}[s]
}

func (s intakeSlot) capacity() int {
	switch s {
	case slotHole:
		return 2
	case slotFlop:
		return 3
	case slotTurn, slotRiver:
		return 1
	}
	return 0
}

// cardIntake sequences detected cards into hole, flop, turn and river
// slots. Card recognition is noisy, so a detected set must stay stable
// for the dwell window before it locks into the current slot.
type cardIntake struct {
	clock quartz.Clock
	dwell time.Duration

	slot  intakeSlot
	hole  []deck.Card
	flop  []deck.Card
	turn  []deck.Card
	river []deck.Card

	pendingKey  string
	stableSince time.Time
}

func newCardIntake(clock quartz.Clock, dwell time.Duration) *cardIntake {
	return &cardIntake{clock: clock, dwell: dwell}
}

func (in *cardIntake) reset() {
	in.slot = slotHole
	in.hole = nil
	in.flop = nil
	in.turn = nil
	in.river = nil
	in.pendingKey = ""
}

// observe feeds one detection frame. Cards already locked are ignored;
// the remainder locks into the current slot once it exactly fills the
// slot and has been stable for the dwell window. Returns true when a
// slot locked.
func (in *cardIntake) observe(detected []deck.Card) bool {
	if in.slot == slotDone {
		return false
	}

	locked := deck.NewCardSet(in.locked())
	seen := deck.CardSet(0)
	candidate := make([]deck.Card, 0, len(detected))
	for _, c := range detected {
		if locked.Contains(c) || seen.Contains(c) {
			continue
		}
		seen.Add(c)
		candidate = append(candidate, c)
	}

	if len(candidate) != in.slot.capacity() {
		in.pendingKey = ""
		return false
	}

	key := intakeKey(candidate)
	now := in.clock.Now()
	if key != in.pendingKey {
		in.pendingKey = key
		in.stableSince = now
		return false
	}
	if now.Sub(in.stableSince) < in.dwell {
		return false
	}

	in.lock(candidate)
	return true
}

func (in *cardIntake) lock(cards []deck.Card) {
	switch in.slot {
	case slotHole:
		in.hole = cards
	case slotFlop:
		in.flop = cards
	case slotTurn:
		in.turn = cards
	case slotRiver:
		in.river = cards
	}
	in.slot++
	in.pendingKey = ""
}

// set replaces one slot wholesale, for manual entry. The slot pointer
// advances to the first unfilled slot.
func (in *cardIntake) set(slot intakeSlot, cards []deck.Card) error {
	if slot == slotDone {
		return fmt.Errorf("no such slot")
	}
	if len(cards) != slot.capacity() {
		return fmt.Errorf("%s takes %d cards, got %d", slot, slot.capacity(), len(cards))
	}

	hole, flop, turn, river := in.hole, in.flop, in.turn, in.river
	switch slot {
	case slotHole:
		hole = cards
	case slotFlop:
		flop = cards
	case slotTurn:
		turn = cards
	case slotRiver:
		river = cards
	}
	if deck.HasDuplicates(hole, flop, turn, river) {
		return fmt.Errorf("duplicate card across slots")
	}

	in.hole, in.flop, in.turn, in.river = hole, flop, turn, river
	in.pendingKey = ""

	// Advance past every filled slot.
	in.slot = slotHole
	for in.slot < slotDone && len(in.slotCards(in.slot)) == in.slot.capacity() {
		in.slot++
	}
	return nil
}

func (in *cardIntake) slotCards(slot intakeSlot) []deck.Card {
	switch slot {
	case slotHole:
		return in.hole
	case slotFlop:
		return in.flop
	case slotTurn:
		return in.turn
	case slotRiver:
		return in.river
	}
	return nil
}

func (in *cardIntake) locked() []deck.Card {
	out := make([]deck.Card, 0, 7)
	out = append(out, in.hole...)
	out = append(out, in.flop...)
	out = append(out, in.turn...)
	out = append(out, in.river...)
	return out
}

// board returns the locked community cards in street order.
func (in *cardIntake) board() []deck.Card {
	out := make([]deck.Card, 0, 5)
	out = append(out, in.flop...)
	out = append(out, in.turn...)
	out = append(out, in.river...)
	return out
}

func intakeKey(cards []deck.Card) string {
	notations := make([]string, len(cards))
	for i, c := range cards {
		notations[i] = c.Notation()
	}
	sort.Strings(notations)
	return strings.Join(notations, " ")
}
