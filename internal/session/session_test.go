package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-advisor/internal/deck"
	"github.com/lox/holdem-advisor/internal/game"
	"github.com/lox/holdem-advisor/internal/potodds"
	"github.com/lox/holdem-advisor/internal/voice"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Table.NumPlayers = 3
	cfg.Table.HeroSeat = 0
	cfg.Seed = 42
	return cfg
}

func TestObserveCardsDebounce(t *testing.T) {
	mock := quartz.NewMock(t)
	cfg := testConfig()
	cfg.Dwell = 500 * time.Millisecond

	s, err := New(cfg, nil, mock)
	require.NoError(t, err)
	s.StartHand()

	hole := deck.MustParseCards("As Kd")

	// First sighting arms the debounce, nothing locks yet.
	s.ObserveCards(hole)
	assert.Empty(t, s.Snapshot().HoleCards)

	// Still inside the dwell window.
	mock.Advance(200 * time.Millisecond)
	s.ObserveCards(hole)
	assert.Empty(t, s.Snapshot().HoleCards)

	mock.Advance(300 * time.Millisecond)
	s.ObserveCards(hole)
	assert.Equal(t, []string{"As", "Kd"}, s.Snapshot().HoleCards)
}

func TestObserveCardsUnstableDetectionRearms(t *testing.T) {
	mock := quartz.NewMock(t)
	cfg := testConfig()
	cfg.Dwell = 500 * time.Millisecond

	s, err := New(cfg, nil, mock)
	require.NoError(t, err)
	s.StartHand()

	s.ObserveCards(deck.MustParseCards("As Kd"))
	mock.Advance(400 * time.Millisecond)

	// Detection flickers to a different set; the window restarts.
	s.ObserveCards(deck.MustParseCards("As Qh"))
	mock.Advance(400 * time.Millisecond)
	s.ObserveCards(deck.MustParseCards("As Qh"))
	assert.Empty(t, s.Snapshot().HoleCards, "second set has not dwelled long enough")

	mock.Advance(100 * time.Millisecond)
	s.ObserveCards(deck.MustParseCards("As Qh"))
	assert.Equal(t, []string{"As", "Qh"}, s.Snapshot().HoleCards)
}

func TestObserveCardsSequencesStreets(t *testing.T) {
	mock := quartz.NewMock(t)
	cfg := testConfig()
	cfg.Dwell = 0

	s, err := New(cfg, nil, mock)
	require.NoError(t, err)
	s.StartHand()

	// Dwell zero still needs two stable sightings.
	lock := func(cards string) {
		s.ObserveCards(deck.MustParseCards(cards))
		s.ObserveCards(deck.MustParseCards(cards))
	}

	lock("As Kd")
	// The flop frame still contains the hole cards; they are already
	// locked and ignored.
	lock("As Kd 7h 8h 9h")
	lock("2c")
	lock("Jd")

	snap := s.Snapshot()
	assert.Equal(t, []string{"As", "Kd"}, snap.HoleCards)
	assert.Equal(t, []string{"7h", "8h", "9h"}, snap.Flop)
	assert.Equal(t, "2c", snap.Turn)
	assert.Equal(t, "Jd", snap.River)
}

func TestManualSlotEntry(t *testing.T) {
	s, err := New(testConfig(), nil, quartz.NewMock(t))
	require.NoError(t, err)
	s.StartHand()

	require.NoError(t, s.SetHole(deck.MustParseCards("Ah Kh")))
	require.NoError(t, s.SetFlop(deck.MustParseCards("Qh Jh Th")))

	assert.Error(t, s.SetHole(deck.MustParseCards("Ah")), "hole takes two cards")
	assert.Error(t, s.SetTurn(deck.MustParseCards("Ah")[0]), "card already locked")

	snap := s.ComputeEquities()
	require.NotNil(t, snap.EquityPreflop)
	require.NotNil(t, snap.EquityFlop)
	assert.Equal(t, 100.0, *snap.EquityFlop, "flopped royal flush never loses")
	assert.Nil(t, snap.EquityTurn)
}

func TestSnapshotVerdict(t *testing.T) {
	s, err := New(testConfig(), nil, quartz.NewMock(t))
	require.NoError(t, err)
	s.StartHand()

	// Hero owes the big blind with no equity computed yet: fold is the
	// safe default.
	snap := s.Snapshot()
	assert.Equal(t, 20, snap.CostToCall)
	assert.Equal(t, "CO", snap.HeroPosition, "dealer 1 on the second hand")
	assert.Equal(t, "fold", snap.Verdict)
	assert.Contains(t, snap.Reason, "Equity unknown")

	// With a monster the verdict flips.
	require.NoError(t, s.SetHole(deck.MustParseCards("As Ah")))
	snap = s.ComputeEquities()
	require.NotNil(t, snap.EquityPreflop)
	assert.Equal(t, "raise", snap.Verdict)
}

func TestHandResetClearsCardsAndEquity(t *testing.T) {
	s, err := New(testConfig(), nil, quartz.NewMock(t))
	require.NoError(t, err)
	s.StartHand()

	require.NoError(t, s.SetHole(deck.MustParseCards("As Ah")))
	s.ComputeEquities()
	require.NotNil(t, s.Snapshot().EquityPreflop)

	// Hero folds; the hand ends and the next one starts clean.
	snap, ok := s.RecordAction(0, game.Fold, 0)
	require.True(t, ok)
	assert.Equal(t, 2, snap.HandNumber)
	assert.Empty(t, snap.HoleCards)
	assert.Nil(t, snap.EquityPreflop)
}

func TestRecordActionInvalid(t *testing.T) {
	s, err := New(testConfig(), nil, quartz.NewMock(t))
	require.NoError(t, err)
	s.StartHand()

	_, ok := s.RecordAction(1, game.Call, 0)
	assert.False(t, ok, "seat 1 is not the current actor")
}

func TestStateFileWritten(t *testing.T) {
	cfg := testConfig()
	cfg.StateFile = filepath.Join(t.TempDir(), "card_log.json")

	s, err := New(cfg, nil, quartz.NewMock(t))
	require.NoError(t, err)
	s.StartHand()
	require.NoError(t, s.SetHole(deck.MustParseCards("As Kd")))

	data, err := os.ReadFile(cfg.StateFile)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.ElementsMatch(t, []any{"As", "Kd"}, entry["hole_cards"])
}

func TestAsyncEquityUpdate(t *testing.T) {
	cfg := testConfig()
	cfg.Dwell = 0

	s, err := New(cfg, nil, quartz.NewMock(t))
	require.NoError(t, err)

	updates := make(chan Snapshot, 4)
	s.OnUpdate = func(snap Snapshot) { updates <- snap }

	s.StartHand()
	s.ObserveCards(deck.MustParseCards("As Ah"))
	s.ObserveCards(deck.MustParseCards("As Ah"))

	select {
	case snap := <-updates:
		require.NotNil(t, snap.EquityPreflop)
		assert.Greater(t, *snap.EquityPreflop, 40.0)
	case <-time.After(10 * time.Second):
		t.Fatal("no equity update arrived")
	}
}

func TestRecordVoiceEventAllIn(t *testing.T) {
	s, err := New(testConfig(), nil, quartz.NewMock(t))
	require.NoError(t, err)
	s.StartHand()

	ev, ok := voice.ParsePhrase("all in")
	require.True(t, ok)
	snap, ok := s.RecordVoiceEvent(0, ev)
	require.True(t, ok)

	assert.Equal(t, 0, snap.Stacks[0], "all-in commits the whole stack")
	assert.Equal(t, 30+1000, snap.Pot)
}

func TestProfileDefaultsToNeutral(t *testing.T) {
	cfg := testConfig()
	cfg.Profile = potodds.Profile{}
	s, err := New(cfg, nil, quartz.NewMock(t))
	require.NoError(t, err)
	assert.Equal(t, potodds.Neutral, s.Profile())
}
