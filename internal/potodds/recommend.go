package potodds

import (
	"fmt"

	"github.com/lox/holdem-advisor/internal/game"
)

// PotView is the read surface Recommend needs over whichever pot
// bookkeeping is authoritative: a manual Ledger, or a table-backed
// adapter when the state machine is running.
type PotView interface {
	AmountToCall(street game.Street) int
	PotBeforeCall(street game.Street) int
}

// Verdict is a recommended action with a human-readable justification.
// Amount is the cents to call when Action is Call; raise sizing is the
// caller's concern (see BetSize), since it depends on stack depth.
type Verdict struct {
	Action game.Action
	Amount int
	Reason string
}

// Below this equity a no-bet spot is a plain check rather than a
// check-or-small-bet.
const mediumEquityPct = 30

func requiredEquity(view PotView, street game.Street) (float64, bool) {
	toCall := view.AmountToCall(street)
	if toCall <= 0 {
		return 0, false
	}
	potAfter := view.PotBeforeCall(street) + toCall
	if potAfter <= 0 {
		return 0, false
	}
	return 100 * float64(toCall) / float64(potAfter), true
}

// Recommend turns the current bet state and an equity estimate into a
// verdict. equityOK is false when the equity engine returned no result;
// the safe action is recommended in that case, fold when money is owed
// and check otherwise.
func Recommend(view PotView, street game.Street, equityPct float64, equityOK bool, profile Profile) Verdict {
	toCall := view.AmountToCall(street)

	if toCall <= 0 {
		switch {
		case !equityOK:
			return Verdict{Action: game.Check, Reason: "Equity unknown. Check or bet small."}
		case equityPct >= profile.RaiseNoBet:
			return Verdict{
				Action: game.Raise,
				Reason: fmt.Sprintf("Strong hand (%.1f%% equity). Bet half to two-thirds pot for value.", equityPct),
			}
		case equityPct >= mediumEquityPct:
			return Verdict{
				Action: game.Check,
				Reason: fmt.Sprintf("Medium equity (%.1f%%). Check or small bet.", equityPct),
			}
		default:
			return Verdict{
				Action: game.Check,
				Reason: fmt.Sprintf("Weak hand (%.1f%%). Check.", equityPct),
			}
		}
	}

	required, ok := requiredEquity(view, street)
	if !ok {
		return Verdict{Action: game.Check, Reason: "Could not compute required equity."}
	}
	required += profile.CallBuffer

	if !equityOK {
		return Verdict{
			Action: game.Fold,
			Reason: fmt.Sprintf("Equity unknown. You need ~%.1f%% to call (pot odds). Fold unless you know you're ahead.", required),
		}
	}
	if equityPct < required {
		return Verdict{
			Action: game.Fold,
			Reason: fmt.Sprintf("Equity %.1f%% < required %.1f%% (pot odds), fold.", equityPct, required),
		}
	}
	if equityPct >= profile.RaiseFacingBet {
		return Verdict{
			Action: game.Raise,
			Reason: fmt.Sprintf("Equity %.1f%% well above required %.1f%%. Raise for value.", equityPct, required),
		}
	}
	return Verdict{
		Action: game.Call,
		Amount: toCall,
		Reason: fmt.Sprintf("Equity %.1f%% >= required %.1f%% (pot odds), call is profitable.", equityPct, required),
	}
}

// SizingGuide returns a short bet-sizing line for the given equity,
// shown per street alongside the numeric verdict.
func SizingGuide(equityPct float64, ok bool) string {
	switch {
	case !ok:
		return "-"
	case equityPct >= 70:
		return "Value bet: 2/3 to 1x pot"
	case equityPct >= 55:
		return "Bet: 1/2 to 2/3 pot"
	case equityPct >= 45:
		return "Check or small bet: 1/3 pot"
	case equityPct >= 30:
		return "Check/call or fold if raised"
	default:
		return "Check/fold"
	}
}

// BetSize returns a value-bet or raise size of half the pot, floored at
// the minimum bet and capped to the remaining stack.
func BetSize(pot, minBet, stack int) int {
	size := pot / 2
	if size < minBet {
		size = minBet
	}
	if size > stack {
		size = stack
	}
	return size
}
