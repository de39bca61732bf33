// Package session ties the table state machine, equity engine and odds
// policy together behind one lock. Request handlers, the card intake and
// the bot loop all call in concurrently; every mutation and every
// read-modify-write runs under the session mutex, and callers get
// immutable snapshots back.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdem-advisor/internal/deck"
	"github.com/lox/holdem-advisor/internal/equity"
	"github.com/lox/holdem-advisor/internal/game"
	"github.com/lox/holdem-advisor/internal/potodds"
	"github.com/lox/holdem-advisor/internal/voice"
)

// Config describes one advisory session.
type Config struct {
	Table   game.Config
	Profile potodds.Profile
	// StateFile, when set, receives an atomically-written JSON snapshot
	// of the current hand's cards and equities on every change.
	StateFile string
	// Dwell is how long a detected card set must stay stable before it
	// locks into a street slot.
	Dwell time.Duration
	// Seed fixes the equity sampling sequence; zero means wall clock.
	Seed int64
}

// DefaultConfig returns a neutral-profile session over a default table
// with a one second detection dwell.
func DefaultConfig() Config {
	return Config{
		Table:   game.DefaultConfig(),
		Profile: potodds.Neutral,
		Dwell:   time.Second,
	}
}

type streetEquity struct {
	pct   float64
	known bool
}

// Session owns all mutable hand state. Safe for concurrent use.
type Session struct {
	logger *log.Logger
	clock  quartz.Clock
	cfg    Config

	mu         sync.Mutex
	table      *game.Table
	engine     *equity.Engine
	intake     *cardIntake
	equities   [game.River + 1]streetEquity
	generation int

	// OnUpdate, when set, receives a snapshot after an asynchronous
	// equity result lands. Invoked without the session lock held.
	OnUpdate func(Snapshot)
}

// New creates a session. A nil clock means the real clock.
func New(cfg Config, logger *log.Logger, clock quartz.Clock) (*Session, error) {
	if logger == nil {
		logger = log.New(nil)
	}
	if clock == nil {
		clock = quartz.NewReal()
	}
	if cfg.Profile.Name == "" {
		cfg.Profile = potodds.Neutral
	}

	table, err := game.NewTable(cfg.Table, logger)
	if err != nil {
		return nil, fmt.Errorf("session table: %w", err)
	}

	var engine *equity.Engine
	if cfg.Seed != 0 {
		engine = equity.NewEngineSeeded(logger, cfg.Seed)
	} else {
		engine = equity.NewEngine(logger)
	}

	s := &Session{
		logger: logger.WithPrefix("session"),
		clock:  clock,
		cfg:    cfg,
		table:  table,
		engine: engine,
		intake: newCardIntake(clock, cfg.Dwell),
	}
	// Fired from inside StartNewHand / RecordAction, so the session
	// lock is already held.
	table.OnHandStarted = func(game.HandState) { s.handStartedLocked() }
	return s, nil
}

// handStartedLocked clears all per-hand state. Caller holds s.mu.
func (s *Session) handStartedLocked() {
	s.intake.reset()
	s.engine.Reset()
	s.equities = [game.River + 1]streetEquity{}
	s.generation++
	s.writeStateFileLocked()
}

// StartHand starts the first hand (later hands start themselves when the
// previous one ends).
func (s *Session) StartHand() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table.StartNewHand()
	return s.snapshotLocked()
}

// RecordAction applies one betting action. Invalid actions return ok
// false and change nothing.
func (s *Session) RecordAction(seat int, action game.Action, amount int) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.table.RecordAction(seat, action, amount); !ok {
		return Snapshot{}, false
	}
	return s.snapshotLocked(), true
}

// RecordVoiceEvent applies a voice-parsed action for a seat. All-in maps
// to a raise of the seat's remaining stack.
func (s *Session) RecordVoiceEvent(seat int, ev voice.Event) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	amount := ev.Amount
	if ev.AllIn {
		amount = s.table.Stack(seat)
	}
	if _, ok := s.table.RecordAction(seat, ev.Action, amount); !ok {
		return Snapshot{}, false
	}
	return s.snapshotLocked(), true
}

// ObserveCards feeds one card-detection frame. When the debounced set
// locks into a street slot, an equity recomputation is kicked off in the
// background; OnUpdate fires when it lands.
func (s *Session) ObserveCards(detected []deck.Card) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.intake.observe(detected) {
		s.logger.Debug("cards locked",
			"hole", intakeKey(s.intake.hole), "board", intakeKey(s.intake.board()))
		s.writeStateFileLocked()
		s.recomputeAsyncLocked()
	}
}

// SetHole through SetRiver lock cards manually, bypassing the debounce.
func (s *Session) SetHole(cards []deck.Card) error { return s.setSlot(slotHole, cards) }

// SetFlop locks the three flop cards.
func (s *Session) SetFlop(cards []deck.Card) error { return s.setSlot(slotFlop, cards) }

// SetTurn locks the turn card.
func (s *Session) SetTurn(card deck.Card) error { return s.setSlot(slotTurn, []deck.Card{card}) }

// SetRiver locks the river card.
func (s *Session) SetRiver(card deck.Card) error { return s.setSlot(slotRiver, []deck.Card{card}) }

func (s *Session) setSlot(slot intakeSlot, cards []deck.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.intake.set(slot, cards); err != nil {
		return err
	}
	s.writeStateFileLocked()
	s.recomputeAsyncLocked()
	return nil
}

// ComputeEquities recomputes every available street synchronously and
// returns the resulting snapshot.
func (s *Session) ComputeEquities() Snapshot {
	s.mu.Lock()
	hole := append([]deck.Card(nil), s.intake.hole...)
	flop := append([]deck.Card(nil), s.intake.flop...)
	turn := append([]deck.Card(nil), s.intake.turn...)
	river := append([]deck.Card(nil), s.intake.river...)
	players := s.playersLocked()
	s.mu.Unlock()

	computed := computeStreetEquities(s.engine, hole, flop, turn, river, players)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.equities = computed
	s.writeStateFileLocked()
	return s.snapshotLocked()
}

// recomputeAsyncLocked snapshots the inputs under the lock and samples on
// a worker. The generation tag discards results whose cards are no
// longer current by the time they land.
func (s *Session) recomputeAsyncLocked() {
	gen := s.generation
	hole := append([]deck.Card(nil), s.intake.hole...)
	flop := append([]deck.Card(nil), s.intake.flop...)
	turn := append([]deck.Card(nil), s.intake.turn...)
	river := append([]deck.Card(nil), s.intake.river...)
	players := s.playersLocked()

	go func() {
		computed := computeStreetEquities(s.engine, hole, flop, turn, river, players)

		s.mu.Lock()
		if s.generation != gen {
			s.mu.Unlock()
			s.logger.Debug("discarding stale equity result", "generation", gen)
			return
		}
		s.equities = computed
		s.writeStateFileLocked()
		snap := s.snapshotLocked()
		cb := s.OnUpdate
		s.mu.Unlock()

		if cb != nil {
			cb(snap)
		}
	}()
}

func computeStreetEquities(engine *equity.Engine, hole, flop, turn, river []deck.Card, players int) [game.River + 1]streetEquity {
	var out [game.River + 1]streetEquity
	if len(hole) != 2 {
		return out
	}

	set := func(street game.Street, board []deck.Card) {
		if pct, ok := engine.Equity(hole, board, players); ok {
			out[street] = streetEquity{pct: pct, known: true}
		}
	}

	set(game.Preflop, nil)
	if len(flop) == 3 {
		board := append([]deck.Card(nil), flop...)
		set(game.Flop, board)
		if len(turn) == 1 {
			board = append(board, turn...)
			set(game.Turn, board)
			if len(river) == 1 {
				board = append(board, river...)
				set(game.River, board)
			}
		}
	}
	return out
}

func (s *Session) playersLocked() int {
	if n := len(s.table.PlayersInHand()); n >= 2 {
		return n
	}
	return s.cfg.Table.NumPlayers
}

// Profile returns the session's aggression profile.
func (s *Session) Profile() potodds.Profile {
	return s.cfg.Profile
}
