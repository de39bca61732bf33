package game

import "strings"

// Street represents the betting round
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
)

func (s Street) String() string {
	return [...]string{"preflop", "flop", "turn", "river"}[s]
}

// ParseStreet maps a street name to its Street value.
func ParseStreet(s string) (Street, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "preflop":
		return Preflop, true
	case "flop":
		return Flop, true
	case "turn":
		return Turn, true
	case "river":
		return River, true
	}
	return 0, false
}

// Action represents a player action
type Action int

const (
	Fold Action = iota
	Check
	Call
	Raise
)

func (a Action) String() string {
	return [...]string{"fold", "check", "call", "raise"}[a]
}

// ParseAction maps an action name to its Action value. Input is
// adapter-facing (manual UI, voice) so it is case and space insensitive.
func ParseAction(s string) (Action, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fold":
		return Fold, true
	case "check":
		return Check, true
	case "call":
		return Call, true
	case "raise", "bet":
		return Raise, true
	}
	return 0, false
}
