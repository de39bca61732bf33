package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionStatsCountsWins(t *testing.T) {
	stats := NewSessionStats(1000)

	stats.RecordHand(&Showdown{
		Winners: []int{0},
		Hands:   map[int][]string{0: {"Ah", "Ad"}, 3: {"Kc", "Kd"}},
		Pot:     200,
	}, 0, 1100)
	stats.RecordHand(&Showdown{
		Winners: []int{2},
		Hands:   map[int][]string{2: {"Qh", "Qd"}},
		Pot:     60,
	}, 0, 1080)
	stats.RecordHand(nil, 0, 1060)

	sum := stats.Summary()
	assert.Equal(t, 3, sum.Hands)
	assert.Equal(t, 1, sum.HandsWon)
	assert.Equal(t, 1, sum.Showdowns, "single revealed hand is not a showdown")
	assert.Equal(t, 60, sum.Net)
}

func TestSessionStatsSplitPotWin(t *testing.T) {
	stats := NewSessionStats(1000)
	stats.RecordHand(&Showdown{
		Winners: []int{0, 4},
		Hands:   map[int][]string{0: {"Ah", "Kd"}, 4: {"Ad", "Kc"}},
		Pot:     400,
	}, 0, 1100)

	sum := stats.Summary()
	assert.Equal(t, 1, sum.HandsWon)
	assert.Equal(t, 100, sum.Net)
}
