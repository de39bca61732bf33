package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/lox/holdem-advisor/internal/deck"
	"github.com/lox/holdem-advisor/internal/game"
	"github.com/lox/holdem-advisor/internal/voice"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, format string, args ...any) {
	writeJSON(w, status, errorResponse{Error: fmt.Sprintf(format, args...)})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

type actionRequest struct {
	Seat   int    `json:"seat"`
	Action string `json:"action"`
	Amount int    `json:"amount"`
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: %v", err)
		return
	}
	action, ok := game.ParseAction(req.Action)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown action %q", req.Action)
		return
	}
	snap, ok := s.session.RecordAction(req.Seat, action, req.Amount)
	if !ok {
		writeError(w, http.StatusConflict, "action rejected for seat %d", req.Seat)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type voiceRequest struct {
	Seat   int    `json:"seat"`
	Phrase string `json:"phrase"`
}

func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req voiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: %v", err)
		return
	}
	ev, ok := voice.ParsePhrase(req.Phrase)
	if !ok {
		writeError(w, http.StatusBadRequest, "no action in %q", req.Phrase)
		return
	}
	snap, ok := s.session.RecordVoiceEvent(req.Seat, ev)
	if !ok {
		writeError(w, http.StatusConflict, "action rejected for seat %d", req.Seat)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.session.StartHand())
}

// cardsRequest carries either explicit street assignments or a raw
// detection frame for the dwell filter.
type cardsRequest struct {
	Detected []string `json:"detected,omitempty"`
	Hole     []string `json:"hole,omitempty"`
	Flop     []string `json:"flop,omitempty"`
	Turn     string   `json:"turn,omitempty"`
	River    string   `json:"river,omitempty"`
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req cardsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: %v", err)
		return
	}

	if len(req.Detected) > 0 {
		cards, err := parseNotations(req.Detected)
		if err != nil {
			writeError(w, http.StatusBadRequest, "%v", err)
			return
		}
		s.session.ObserveCards(cards)
		writeJSON(w, http.StatusOK, s.session.Snapshot())
		return
	}

	if len(req.Hole) > 0 {
		cards, err := parseNotations(req.Hole)
		if err != nil {
			writeError(w, http.StatusBadRequest, "%v", err)
			return
		}
		if err := s.session.SetHole(cards); err != nil {
			writeError(w, http.StatusBadRequest, "%v", err)
			return
		}
	}
	if len(req.Flop) > 0 {
		cards, err := parseNotations(req.Flop)
		if err != nil {
			writeError(w, http.StatusBadRequest, "%v", err)
			return
		}
		if err := s.session.SetFlop(cards); err != nil {
			writeError(w, http.StatusBadRequest, "%v", err)
			return
		}
	}
	if req.Turn != "" {
		card, err := deck.ParseCard(req.Turn)
		if err != nil {
			writeError(w, http.StatusBadRequest, "%v", err)
			return
		}
		if err := s.session.SetTurn(card); err != nil {
			writeError(w, http.StatusBadRequest, "%v", err)
			return
		}
	}
	if req.River != "" {
		card, err := deck.ParseCard(req.River)
		if err != nil {
			writeError(w, http.StatusBadRequest, "%v", err)
			return
		}
		if err := s.session.SetRiver(card); err != nil {
			writeError(w, http.StatusBadRequest, "%v", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, s.session.ComputeEquities())
}

func parseNotations(notations []string) ([]deck.Card, error) {
	cards := make([]deck.Card, 0, len(notations))
	for _, n := range notations {
		card, err := deck.ParseCard(n)
		if err != nil {
			return nil, fmt.Errorf("bad card %q: %w", n, err)
		}
		cards = append(cards, card)
	}
	return cards, nil
}
