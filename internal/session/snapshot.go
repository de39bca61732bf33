package session

import (
	"os"

	"github.com/lox/holdem-advisor/internal/deck"
	"github.com/lox/holdem-advisor/internal/fileutil"
	"github.com/lox/holdem-advisor/internal/game"
	"github.com/lox/holdem-advisor/internal/potodds"
)

// Snapshot is the read-only view handed to the presentation layer. It is
// a value copy; holding one never blocks the session.
type Snapshot struct {
	HandNumber     int         `json:"hand_number"`
	Street         string      `json:"street"`
	CurrentActor   int         `json:"current_actor"`
	HeroSeat       int         `json:"hero_seat"`
	HeroPosition   string      `json:"hero_position,omitempty"`
	Pot            int         `json:"pot"`
	CurrentBet     int         `json:"current_bet"`
	CostToCall     int         `json:"cost_to_call"`
	PlayersInHand  []int       `json:"players_in_hand"`
	BetsThisStreet map[int]int `json:"bets_this_street"`
	Stacks         []int       `json:"stacks"`

	HoleCards []string `json:"hole_cards"`
	Flop      []string `json:"flop"`
	Turn      string   `json:"turn,omitempty"`
	River     string   `json:"river,omitempty"`

	EquityPreflop *float64 `json:"equity_preflop,omitempty"`
	EquityFlop    *float64 `json:"equity_flop,omitempty"`
	EquityTurn    *float64 `json:"equity_turn,omitempty"`
	EquityRiver   *float64 `json:"equity_river,omitempty"`

	Verdict       string `json:"verdict"`
	VerdictAmount int    `json:"verdict_amount,omitempty"`
	Reason        string `json:"reason"`

	BetRecommendations map[string]string `json:"bet_recommendations"`
}

// tableView adapts the table machine to the PotView surface the odds
// policy reads, keeping the table the single source of pot truth.
type tableView struct {
	table *game.Table
	hero  int
}

func (v tableView) AmountToCall(game.Street) int { return v.table.CostToCall(v.hero) }
func (v tableView) PotBeforeCall(game.Street) int { return v.table.Pot() }

// Snapshot returns the current state, verdict included.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	state := s.table.State()
	hero := s.table.HeroSeat()

	snap := Snapshot{
		HandNumber:     state.HandNumber,
		Street:         state.Street.String(),
		CurrentActor:   state.CurrentActor,
		HeroSeat:       hero,
		Pot:            state.Pot,
		CurrentBet:     state.CurrentBet,
		CostToCall:     s.table.CostToCall(hero),
		PlayersInHand:  state.PlayersInHand,
		BetsThisStreet: state.BetsThisStreet,
		Stacks:         state.Stacks,
		HoleCards:      notations(s.intake.hole),
		Flop:           notations(s.intake.flop),
	}
	if hero >= 0 {
		snap.HeroPosition = s.table.HeroPosition()
	}
	if len(s.intake.turn) == 1 {
		snap.Turn = s.intake.turn[0].Notation()
	}
	if len(s.intake.river) == 1 {
		snap.River = s.intake.river[0].Notation()
	}

	snap.EquityPreflop = equityPtr(s.equities[game.Preflop])
	snap.EquityFlop = equityPtr(s.equities[game.Flop])
	snap.EquityTurn = equityPtr(s.equities[game.Turn])
	snap.EquityRiver = equityPtr(s.equities[game.River])

	eq := s.equities[state.Street]
	verdict := potodds.Recommend(
		tableView{table: s.table, hero: hero},
		state.Street, eq.pct, eq.known, s.cfg.Profile,
	)
	snap.Verdict = verdict.Action.String()
	snap.VerdictAmount = verdict.Amount
	snap.Reason = verdict.Reason

	snap.BetRecommendations = map[string]string{
		game.Preflop.String(): sizingFor(s.equities[game.Preflop]),
		game.Flop.String():    sizingFor(s.equities[game.Flop]),
		game.Turn.String():    sizingFor(s.equities[game.Turn]),
		game.River.String():   sizingFor(s.equities[game.River]),
	}
	return snap
}

func sizingFor(eq streetEquity) string {
	return potodds.SizingGuide(eq.pct, eq.known)
}

func equityPtr(eq streetEquity) *float64 {
	if !eq.known {
		return nil
	}
	pct := eq.pct
	return &pct
}

func notations(cards []deck.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Notation()
	}
	return out
}

// cardLogEntry mirrors the card state file consumed by external tools.
type cardLogEntry struct {
	HoleCards   []string `json:"hole_cards"`
	Flop        []string `json:"flop"`
	Turn        string   `json:"turn,omitempty"`
	River       string   `json:"river,omitempty"`
	EquityFlop  *float64 `json:"equity_flop,omitempty"`
	EquityTurn  *float64 `json:"equity_turn,omitempty"`
	EquityRiver *float64 `json:"equity_river,omitempty"`
}

// writeStateFileLocked persists the current cards and equities. Best
// effort: the engine stays correct without the file, so failures are
// logged and swallowed. Caller holds s.mu.
func (s *Session) writeStateFileLocked() {
	if s.cfg.StateFile == "" {
		return
	}
	entry := cardLogEntry{
		HoleCards:   notations(s.intake.hole),
		Flop:        notations(s.intake.flop),
		EquityFlop:  equityPtr(s.equities[game.Flop]),
		EquityTurn:  equityPtr(s.equities[game.Turn]),
		EquityRiver: equityPtr(s.equities[game.River]),
	}
	if len(s.intake.turn) == 1 {
		entry.Turn = s.intake.turn[0].Notation()
	}
	if len(s.intake.river) == 1 {
		entry.River = s.intake.river[0].Notation()
	}
	if err := fileutil.WriteJSONAtomic(s.cfg.StateFile, entry, os.FileMode(0644)); err != nil {
		s.logger.Warn("failed to write state file", "path", s.cfg.StateFile, "err", err)
	}
}
