package bot

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-advisor/internal/deck"
	"github.com/lox/holdem-advisor/internal/equity"
	"github.com/lox/holdem-advisor/internal/evaluator"
	"github.com/lox/holdem-advisor/internal/game"
	"github.com/lox/holdem-advisor/internal/potodds"
	"github.com/lox/holdem-advisor/internal/randutil"
)

// Config describes a bot game. The hero is always seat 0.
type Config struct {
	NumPlayers int
	Profile    potodds.Profile
	BuyIn      int
	Seed       int64
}

// DefaultConfig returns a 6-max neutral game with 10.00 stacks.
func DefaultConfig() Config {
	return Config{
		NumPlayers: 6,
		Profile:    potodds.Neutral,
		BuyIn:      1000,
		Seed:       1,
	}
}

// Showdown records how a hand ended. Winners is every seat that shared
// the pot; Hands exposes only the hole cards that went to showdown.
type Showdown struct {
	Winners  []int            `json:"winners"`
	Hands    map[int][]string `json:"hands"`
	Board    []string         `json:"board"`
	Rankings map[int]string   `json:"rankings,omitempty"`
	Pot      int              `json:"pot"`
}

// Game runs hands where every non-hero seat acts automatically. Stacks
// persist across hands; the pot is awarded at showdown.
type Game struct {
	mu     sync.Mutex
	logger *log.Logger
	cfg    Config

	table  *game.Table
	engine *equity.Engine
	dealer *deck.Deck

	holes    map[int][]deck.Card
	board    []deck.Card
	showdown *Showdown
	ended    *game.HandState
}

const heroSeat = 0

// NewGame creates the game and starts the first hand.
func NewGame(cfg Config, logger *log.Logger) (*Game, error) {
	if logger == nil {
		logger = log.New(nil)
	}
	if cfg.Profile.Name == "" {
		cfg.Profile = potodds.Neutral
	}

	tableCfg := game.DefaultConfig()
	tableCfg.NumPlayers = cfg.NumPlayers
	tableCfg.HeroSeat = heroSeat
	if cfg.BuyIn > 0 {
		tableCfg.BuyIn = cfg.BuyIn
	}
	// Stacks persist across hands; winnings come back via AwardPot.
	tableCfg.ResetStacksEachHand = false

	table, err := game.NewTable(tableCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("bot game: %w", err)
	}

	g := &Game{
		logger: logger.WithPrefix("botgame"),
		cfg:    cfg,
		table:  table,
		engine: equity.NewEngineSeeded(logger, cfg.Seed),
		dealer: deck.New(randutil.New(cfg.Seed)),
	}
	table.OnHandStarted = func(game.HandState) { g.dealLocked() }
	table.OnHandEnded = func(s game.HandState) { g.handEndedLocked(s) }

	g.mu.Lock()
	table.StartNewHand()
	g.mu.Unlock()
	return g, nil
}

// dealLocked shuffles and deals fresh holes and a full board. The board
// is revealed street by street. The previous hand's showdown stays
// readable until the next one settles. Caller holds g.mu (callbacks fire
// inside table mutations, which only happen under the lock).
func (g *Game) dealLocked() {
	g.engine.Reset()

	g.dealer.Reset()
	g.dealer.Shuffle()
	g.holes = make(map[int][]deck.Card, g.cfg.NumPlayers)
	for seat := 0; seat < g.cfg.NumPlayers; seat++ {
		g.holes[seat] = g.dealer.DealN(2)
	}
	g.board = g.dealer.DealN(5)
}

// handEndedLocked settles the pot before the table rolls into the next
// hand. Caller holds g.mu.
func (g *Game) handEndedLocked(state game.HandState) {
	g.ended = &state
	live := state.PlayersInHand

	sd := &Showdown{
		Hands: make(map[int][]string, len(live)),
		Board: cardNames(g.board),
		Pot:   state.Pot,
	}

	if len(live) == 1 {
		sd.Winners = []int{live[0]}
		sd.Hands[live[0]] = cardNames(g.holes[live[0]])
	} else {
		holes := make(map[int][]deck.Card, len(live))
		for _, seat := range live {
			holes[seat] = g.holes[seat]
			sd.Hands[seat] = cardNames(g.holes[seat])
		}
		winners, ranks := evaluator.Best(g.board, holes)
		sd.Winners = winners
		sd.Rankings = make(map[int]string, len(ranks))
		for seat, rank := range ranks {
			sd.Rankings[seat] = rank.Category().String()
		}
	}

	g.awardLocked(sd.Winners, state.Pot)
	g.showdown = sd
	g.logger.Debug("hand settled", "hand", state.HandNumber, "winners", sd.Winners, "pot", state.Pot)
}

// awardLocked splits the pot among the winners, remainder to the seat
// closest to the button.
func (g *Game) awardLocked(winners []int, pot int) {
	if len(winners) == 0 {
		return
	}
	share := pot / len(winners)
	remainder := pot - share*len(winners)
	for i, seat := range winners {
		amount := share
		if i == 0 {
			amount += remainder
		}
		g.table.AwardPot(seat, amount)
	}
}

// StepBot runs one automated action if a bot is due to act. It reports
// whether a bot acted, so callers can pace the loop for display.
func (g *Game) StepBot() (Decision, int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	seat := g.table.CurrentActor()
	if seat == -1 || seat == heroSeat {
		return Decision{}, -1, false
	}

	street := g.table.Street()
	d := Decide(
		g.engine,
		g.holes[seat],
		g.revealedBoardLocked(street),
		street,
		g.table.Pot(),
		g.table.CostToCall(seat),
		g.table.Stack(seat),
		g.table.Config().BigBlind,
		len(g.table.PlayersInHand()),
		g.cfg.Profile,
	)

	if _, ok := g.table.RecordAction(seat, d.Action, d.Amount); !ok {
		g.logger.Warn("bot produced invalid action", "seat", seat, "action", d.Action)
		return Decision{}, seat, false
	}
	return d, seat, true
}

// HeroAction applies the hero's move. Call amounts are floored to the
// cost to call; raises to the big blind.
func (g *Game) HeroAction(action game.Action, amount int) (game.HandState, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.table.CurrentActor() != heroSeat {
		return game.HandState{}, false
	}
	switch action {
	case game.Call:
		amount = max(amount, g.table.CostToCall(heroSeat))
	case game.Raise:
		amount = max(amount, g.table.Config().BigBlind)
	}
	return g.table.RecordAction(heroSeat, action, amount)
}

// RunHand drives bots until the hero must act again. The step cap only
// matters when the hero is felted and can never rejoin the action.
func (g *Game) RunHand() int {
	const maxSteps = 200
	steps := 0
	for steps < maxSteps {
		if _, _, ok := g.StepBot(); !ok {
			break
		}
		steps++
	}
	return steps
}

// LastHand returns the final state of the most recently settled hand.
func (g *Game) LastHand() *game.HandState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ended
}

// HeroHole returns the hero's cards for display.
func (g *Game) HeroHole() []deck.Card {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]deck.Card(nil), g.holes[heroSeat]...)
}

// RevealedBoard returns the community cards visible on the current
// street.
func (g *Game) RevealedBoard() []deck.Card {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]deck.Card(nil), g.revealedBoardLocked(g.table.Street())...)
}

func (g *Game) revealedBoardLocked(street game.Street) []deck.Card {
	switch street {
	case game.Preflop:
		return nil
	case game.Flop:
		return g.board[:3]
	case game.Turn:
		return g.board[:4]
	default:
		return g.board[:5]
	}
}

// Showdown returns how the last hand ended, nil while one is running.
func (g *Game) Showdown() *Showdown {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.showdown
}

// State returns the live table state.
func (g *Game) State() game.HandState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.table.State()
}

// Table exposes the underlying table for read-only queries.
func (g *Game) Table() *game.Table {
	return g.table
}

func cardNames(cards []deck.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Notation()
	}
	return out
}
