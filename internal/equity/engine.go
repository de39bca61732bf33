// Package equity computes win probability for a hole-card pair against
// random opponent hands, by exact enumeration of board completions or by
// Monte-Carlo sampling, with results memoized per engine instance.
package equity

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-advisor/internal/deck"
)

const (
	// PreflopTrials is the Monte-Carlo sample count with no board.
	PreflopTrials = 500
	// PostflopTrials is the Monte-Carlo sample count once a flop exists.
	PostflopTrials = 300
)

// Engine owns an equity cache scoped to one session. It is safe for
// concurrent use; the cache is the only shared state.
type Engine struct {
	logger *log.Logger
	seed   int64

	mu    sync.Mutex
	cache map[cacheKey]float64
}

type cacheKey struct {
	hole    string
	board   string
	players int
}

// NewEngine returns an engine seeded from the wall clock.
func NewEngine(logger *log.Logger) *Engine {
	return NewEngineSeeded(logger, time.Now().UnixNano())
}

// NewEngineSeeded returns an engine with a fixed sampling seed, for
// reproducible results.
func NewEngineSeeded(logger *log.Logger, seed int64) *Engine {
	if logger == nil {
		logger = log.New(nil)
	}
	return &Engine{
		logger: logger.WithPrefix("equity"),
		seed:   seed,
		cache:  make(map[cacheKey]float64),
	}
}

// Reset clears the cache. Called on hand reset: every cached key refers
// to cards from the finished hand.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	clear(e.cache)
}

// Equity estimates the hero's win percentage (0-100, one decimal) against
// players-1 random hands. The board must hold 0, 3, 4 or 5 cards; trial
// count is PreflopTrials with no board and PostflopTrials otherwise.
// Returns false for malformed input rather than a bogus number.
func (e *Engine) Equity(hole, board []deck.Card, players int) (float64, bool) {
	if !validInput(hole, board, players) {
		e.logger.Debug("equity query rejected",
			"hole", len(hole), "board", len(board), "players", players)
		return 0, false
	}

	key := cacheKey{hole: sortedKey(hole), board: sortedKey(board), players: players}
	e.mu.Lock()
	if pct, ok := e.cache[key]; ok {
		e.mu.Unlock()
		return pct, true
	}
	e.mu.Unlock()

	trials := PostflopTrials
	if len(board) == 0 {
		trials = PreflopTrials
	}
	pct := e.simulate(hole, board, players-1, trials)

	e.mu.Lock()
	e.cache[key] = pct
	e.mu.Unlock()
	return pct, true
}

func validInput(hole, board []deck.Card, players int) bool {
	if len(hole) != 2 || players < 2 || players > 10 {
		return false
	}
	switch len(board) {
	case 0, 3, 4, 5:
	default:
		return false
	}
	if deck.HasDuplicates(hole, board) {
		return false
	}
	// 10-handed preflop needs 5 board cards plus 18 opponent cards from
	// the 50 remaining, so this only trips on future rule changes.
	need := (5 - len(board)) + 2*(players-1)
	return need <= 52-len(hole)-len(board)
}

// remainingCards returns the deck minus the given known cards.
func remainingCards(known ...[]deck.Card) []deck.Card {
	var used deck.CardSet
	for _, group := range known {
		for _, c := range group {
			used.Add(c)
		}
	}
	out := make([]deck.Card, 0, 52)
	for _, c := range deck.AllCards() {
		if !used.Contains(c) {
			out = append(out, c)
		}
	}
	return out
}

func sortedKey(cards []deck.Card) string {
	notations := make([]string, len(cards))
	for i, c := range cards {
		notations[i] = c.Notation()
	}
	sort.Strings(notations)
	return strings.Join(notations, "")
}
