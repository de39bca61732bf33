// Package bot automates seats: it composes the table machine, equity
// engine and odds policy into a "what should this seat do" call and runs
// complete hands where every non-hero seat acts on its own verdicts.
package bot

import (
	"github.com/lox/holdem-advisor/internal/deck"
	"github.com/lox/holdem-advisor/internal/equity"
	"github.com/lox/holdem-advisor/internal/game"
	"github.com/lox/holdem-advisor/internal/potodds"
)

// Decision is what a seat should do, with the amount already sized.
type Decision struct {
	Action game.Action
	Amount int
	Reason string
}

// betView adapts a single seat's cost-to-call and the running pot to the
// odds policy's read surface.
type betView struct {
	pot    int
	toCall int
}

func (v betView) AmountToCall(game.Street) int  { return v.toCall }
func (v betView) PotBeforeCall(game.Street) int { return v.pot }

// Decide computes one seat's action. The board slice holds only the
// cards revealed for the current street. A raise is sized at half pot,
// floored at minBet; call and raise amounts are capped to the stack.
func Decide(engine *equity.Engine, hole, board []deck.Card, street game.Street,
	pot, toCall, stack, minBet, players int, profile potodds.Profile) Decision {

	pct, ok := engine.Equity(hole, board, players)
	verdict := potodds.Recommend(betView{pot: pot, toCall: toCall}, street, pct, ok, profile)

	d := Decision{Action: verdict.Action, Reason: verdict.Reason}
	switch verdict.Action {
	case game.Call:
		d.Amount = min(toCall, stack)
	case game.Raise:
		d.Amount = potodds.BetSize(pot, minBet, stack)
	}
	return d
}
