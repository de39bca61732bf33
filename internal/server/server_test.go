package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-advisor/internal/deck"
	"github.com/lox/holdem-advisor/internal/session"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := DefaultConfig()
	sessCfg := cfg.SessionConfig()
	sessCfg.Seed = 42
	sessCfg.Dwell = 0
	sess, err := session.New(sessCfg, nil, nil)
	require.NoError(t, err)
	srv := NewServer(cfg, sess, nil)
	go srv.run()
	t.Cleanup(srv.cancel)
	return srv
}

func getState(t *testing.T, ts *httptest.Server) session.Snapshot {
	t.Helper()
	resp, err := http.Get(ts.URL + "/api/table/state")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap session.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	return snap
}

func postJSON(t *testing.T, ts *httptest.Server, path string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStateEndpoint(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler())
	defer ts.Close()

	snap := getState(t, ts)
	assert.Equal(t, 1, snap.HandNumber)
	assert.Equal(t, "preflop", snap.Street)
	assert.Equal(t, 30, snap.Pot, "small plus big blind")
	assert.Len(t, snap.PlayersInHand, 6)
}

func TestActionEndpoint(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler())
	defer ts.Close()

	actor := getState(t, ts).CurrentActor
	resp := postJSON(t, ts, "/api/table/action", actionRequest{Seat: actor, Action: "call"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap session.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, 50, snap.Pot)
	assert.NotEqual(t, actor, snap.CurrentActor)
}

func TestActionEndpointRejectsUnknownAction(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler())
	defer ts.Close()

	resp := postJSON(t, ts, "/api/table/action", actionRequest{Seat: 3, Action: "shove"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestActionEndpointRejectsWrongSeat(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler())
	defer ts.Close()

	wrong := (getState(t, ts).CurrentActor + 1) % 6
	resp := postJSON(t, ts, "/api/table/action", actionRequest{Seat: wrong, Action: "fold"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestVoiceEndpoint(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler())
	defer ts.Close()

	actor := getState(t, ts).CurrentActor
	resp := postJSON(t, ts, "/api/table/voice", voiceRequest{Seat: actor, Phrase: "I fold"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap session.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.NotContains(t, snap.PlayersInHand, actor)
}

func TestVoiceEndpointNoAction(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler())
	defer ts.Close()

	resp := postJSON(t, ts, "/api/table/voice", voiceRequest{Seat: 3, Phrase: "nice river"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCardsEndpointManualEntry(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler())
	defer ts.Close()

	resp := postJSON(t, ts, "/api/cards", cardsRequest{
		Hole: []string{"As", "Ks"},
		Flop: []string{"Qs", "Js", "10s"},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap session.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, []string{"As", "Ks"}, snap.HoleCards)
	require.NotNil(t, snap.EquityFlop)
	assert.Equal(t, 100.0, *snap.EquityFlop, "flopped royal flush")
}

func TestCardsEndpointRejectsBadCard(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler())
	defer ts.Close()

	resp := postJSON(t, ts, "/api/cards", cardsRequest{Hole: []string{"As", "Zx"}})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCardsEndpointDetectionFrames(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler())
	defer ts.Close()

	// Dwell is zero, so two identical frames lock the hole cards.
	for i := 0; i < 2; i++ {
		resp := postJSON(t, ts, "/api/cards", cardsRequest{Detected: []string{"Ah", "Kd"}})
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	snap := getState(t, ts)
	assert.Equal(t, []string{"Ah", "Kd"}, snap.HoleCards)
}

func TestResetEndpoint(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler())
	defer ts.Close()

	resp := postJSON(t, ts, "/api/table/reset", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap session.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, 2, snap.HandNumber)
}

func TestWebSocketInitialSnapshot(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var snap session.Snapshot
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, 1, snap.HandNumber)
}

func TestWebSocketBroadcastOnUpdate(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	var snap session.Snapshot
	require.NoError(t, conn.ReadJSON(&snap))

	// Locking hole cards triggers an async equity run whose result is
	// pushed to subscribers.
	require.NoError(t, srv.session.SetHole(deck.MustParseCards("Ah Ad")))
	require.NoError(t, conn.ReadJSON(&snap))
	require.NotNil(t, snap.EquityPreflop)
	assert.Greater(t, *snap.EquityPreflop, 50.0)
}

func TestWebSocketConnectAfterShutdown(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	srv.cancel()

	// The upgrade still succeeds, but the connection must be closed
	// promptly instead of leaving the handler goroutine parked.
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	// Depending on timing one initial snapshot may still arrive; the
	// connection must error out shortly after either way.
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for i := 0; i < 3; i++ {
		if _, _, err = conn.ReadMessage(); err != nil {
			break
		}
	}
	assert.Error(t, err)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.hcl"))
	require.NoError(t, err)
	assert.Equal(t, 8093, cfg.Server.Port)
	assert.Equal(t, 6, cfg.Table.NumPlayers)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "advisor.hcl")
	content := `
server {
  port       = 9000
  aggression = "aggressive"
}

table {
  num_players = 3
  small_blind = 25
  big_blind   = 50
}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "aggressive", cfg.Server.Aggression)
	assert.Equal(t, 3, cfg.Table.NumPlayers)
	assert.Equal(t, 50, cfg.Table.BigBlind)
	assert.Equal(t, "localhost", cfg.Server.Address, "defaulted")
	assert.Equal(t, 1000, cfg.Table.BuyIn, "defaulted")
	require.NoError(t, cfg.Validate())

	sc := cfg.SessionConfig()
	assert.Equal(t, "aggressive", sc.Profile.Name)
	assert.Equal(t, 50, sc.Table.MinRaise)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Table.NumPlayers = 1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Table.BigBlind = 10
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Table.HeroSeat = 6
	assert.Error(t, cfg.Validate())
}
