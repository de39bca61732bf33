package bot

import "sync"

// SessionStats accumulates per-hand results for a simulated session.
// Safe for concurrent use.
type SessionStats struct {
	mu        sync.Mutex
	buyIn     int
	hands     int
	handsWon  int
	showdowns int
	net       int
}

// StatsSummary is a point-in-time copy of the counters.
type StatsSummary struct {
	Hands     int `json:"hands"`
	HandsWon  int `json:"hands_won"`
	Showdowns int `json:"showdowns"`
	Net       int `json:"net"`
}

// NewSessionStats tracks results against a starting stack.
func NewSessionStats(buyIn int) *SessionStats {
	return &SessionStats{buyIn: buyIn}
}

// RecordHand logs the outcome of one settled hand. The showdown may be
// nil when the hand ended before one player remained unchallenged.
func (s *SessionStats) RecordHand(sd *Showdown, hero, heroStack int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hands++
	s.net = heroStack - s.buyIn
	if sd == nil {
		return
	}
	if len(sd.Hands) > 1 {
		s.showdowns++
	}
	for _, seat := range sd.Winners {
		if seat == hero {
			s.handsWon++
			break
		}
	}
}

// Summary returns the counters so far.
func (s *SessionStats) Summary() StatsSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StatsSummary{
		Hands:     s.hands,
		HandsWon:  s.handsWon,
		Showdowns: s.showdowns,
		Net:       s.net,
	}
}
