package equity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-advisor/internal/deck"
	"github.com/lox/holdem-advisor/internal/evaluator"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngineSeeded(nil, 42)
}

func TestEquityPocketAcesHeadsUp(t *testing.T) {
	e := testEngine(t)

	eq, ok := e.Equity(deck.MustParseCards("As Ah"), nil, 2)
	require.True(t, ok)
	assert.Greater(t, eq, 75.0, "aces win most heads-up pots")
	assert.LessOrEqual(t, eq, 100.0)
}

func TestEquitySevenTwoIsWeak(t *testing.T) {
	e := testEngine(t)

	strong, ok := e.Equity(deck.MustParseCards("As Ah"), nil, 2)
	require.True(t, ok)
	weak, ok := e.Equity(deck.MustParseCards("7c 2d"), nil, 2)
	require.True(t, ok)

	assert.Less(t, weak, 55.0)
	assert.Less(t, weak, strong)
}

func TestEquityDropsWithMoreOpponents(t *testing.T) {
	e := testEngine(t)
	hole := deck.MustParseCards("Kd Qd")

	headsUp, ok := e.Equity(hole, nil, 2)
	require.True(t, ok)
	nineWay, ok := e.Equity(hole, nil, 10)
	require.True(t, ok)

	assert.Less(t, nineWay, headsUp)
}

func TestEquityNutsOnRiverIsCertain(t *testing.T) {
	e := testEngine(t)

	// Hero holds the royal flush; no opponent hand can beat or tie it.
	eq, ok := e.Equity(
		deck.MustParseCards("Ah Kh"),
		deck.MustParseCards("Qh Jh Th 2s 8d"),
		6,
	)
	require.True(t, ok)
	assert.Equal(t, 100.0, eq)
}

func TestEquityBoardPlaysIsSplit(t *testing.T) {
	e := testEngine(t)

	// The board royal flush is everyone's hand; every trial ties, so the
	// fractional share credit makes heads-up equity exactly half.
	eq, ok := e.Equity(
		deck.MustParseCards("2c 3d"),
		deck.MustParseCards("Ah Kh Qh Jh Th"),
		2,
	)
	require.True(t, ok)
	assert.Equal(t, 50.0, eq)
}

func TestEquityRoundedToOneDecimal(t *testing.T) {
	e := testEngine(t)

	eq, ok := e.Equity(deck.MustParseCards("9c 9d"), deck.MustParseCards("2h 7s Kd"), 3)
	require.True(t, ok)
	assert.Equal(t, math.Round(eq*10)/10, eq)
	assert.GreaterOrEqual(t, eq, 0.0)
	assert.LessOrEqual(t, eq, 100.0)
}

func TestEquityRejectsBadInput(t *testing.T) {
	e := testEngine(t)
	hole := deck.MustParseCards("As Ah")

	_, ok := e.Equity(deck.MustParseCards("As As"), nil, 2)
	assert.False(t, ok, "duplicate hole cards")

	_, ok = e.Equity(hole, deck.MustParseCards("As 2c 3c"), 2)
	assert.False(t, ok, "board reuses a hole card")

	_, ok = e.Equity(hole, deck.MustParseCards("2c 3c"), 2)
	assert.False(t, ok, "two-card boards do not exist")

	_, ok = e.Equity(hole, nil, 1)
	assert.False(t, ok)
	_, ok = e.Equity(hole, nil, 11)
	assert.False(t, ok)
}

func TestEquityCachedPerKey(t *testing.T) {
	e := testEngine(t)
	hole := deck.MustParseCards("Jc Js")

	first, ok := e.Equity(hole, nil, 2)
	require.True(t, ok)
	again, ok := e.Equity(hole, nil, 2)
	require.True(t, ok)
	assert.Equal(t, first, again)
	assert.Len(t, e.cache, 1)

	// Card order does not change the key.
	_, ok = e.Equity(deck.MustParseCards("Js Jc"), nil, 2)
	require.True(t, ok)
	assert.Len(t, e.cache, 1)

	e.Reset()
	assert.Empty(t, e.cache)
}

func TestDistributionCompleteBoard(t *testing.T) {
	e := testEngine(t)

	dist, ok := e.Distribution(
		deck.MustParseCards("Ah Kh"),
		deck.MustParseCards("Th Jh Qh 2s 8d"),
	)
	require.True(t, ok)
	assert.Equal(t, 1.0, dist.At(evaluator.RoyalFlush))
	assert.Equal(t, 0.0, dist.At(evaluator.Flush))
}

func TestDistributionOneCardToCome(t *testing.T) {
	e := testEngine(t)

	// Pocket deuces on a dry board: of the 46 river cards, two make
	// trips, twelve pair the board for two pair, the rest stay one pair.
	dist, ok := e.Distribution(
		deck.MustParseCards("2c 2d"),
		deck.MustParseCards("5h 8s Jc Qd"),
	)
	require.True(t, ok)

	assert.InDelta(t, 2.0/46, dist.At(evaluator.ThreeOfAKind), 1e-12)
	assert.InDelta(t, 12.0/46, dist.At(evaluator.TwoPair), 1e-12)
	assert.InDelta(t, 32.0/46, dist.At(evaluator.OnePair), 1e-12)
	assert.Equal(t, 0.0, dist.At(evaluator.FourOfAKind))
	assert.Equal(t, 0.0, dist.At(evaluator.FullHouse))

	sum := 0.0
	for cat := evaluator.RoyalFlush; cat <= evaluator.HighCard; cat++ {
		sum += dist.At(cat)
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestDistributionRejectsBadInput(t *testing.T) {
	e := testEngine(t)

	_, ok := e.Distribution(deck.MustParseCards("As"), nil)
	assert.False(t, ok, "need exactly two hole cards")

	_, ok = e.Distribution(deck.MustParseCards("As Ah"), deck.MustParseCards("As 2c 3c"))
	assert.False(t, ok, "duplicates rejected")
}
