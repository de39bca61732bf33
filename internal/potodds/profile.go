package potodds

import "strings"

// Profile is a named set of thresholds controlling how readily the policy
// recommends calling or raising relative to bare pot-odds break-even.
// CallBuffer is added to the break-even required equity: negative buffers
// call with less margin, positive buffers demand more. The raise thresholds
// are equity percentages.
type Profile struct {
	Name           string
	CallBuffer     float64
	RaiseNoBet     float64
	RaiseFacingBet float64
}

var (
	Aggressive   = Profile{Name: "aggressive", CallBuffer: -12, RaiseNoBet: 30, RaiseFacingBet: 34}
	Neutral      = Profile{Name: "neutral", CallBuffer: 0, RaiseNoBet: 40, RaiseFacingBet: 44}
	Conservative = Profile{Name: "conservative", CallBuffer: 3, RaiseNoBet: 50, RaiseFacingBet: 54}
)

// ProfileByName resolves an aggression level by name, defaulting to neutral
// for unknown input.
func ProfileByName(name string) Profile {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "aggressive":
		return Aggressive
	case "conservative":
		return Conservative
	default:
		return Neutral
	}
}
