// Package server exposes the advisory session over HTTP and pushes
// snapshots to websocket subscribers as the hand evolves.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/holdem-advisor/internal/session"
)

// Server serves the HTTP API and the websocket snapshot feed for one
// advisory session.
type Server struct {
	cfg     *Config
	logger  *log.Logger
	session *session.Session

	upgrader websocket.Upgrader

	connections map[*websocket.Conn]bool
	register    chan *websocket.Conn
	unregister  chan *websocket.Conn
	broadcast   chan session.Snapshot

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	httpServer *http.Server
}

// NewServer creates a server around an existing session. The server
// takes over the session's OnUpdate hook to feed the websocket clients.
func NewServer(cfg *Config, sess *session.Session, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(nil)
	}
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		cfg:     cfg,
		logger:  logger.WithPrefix("server"),
		session: sess,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // local tool, any origin
			},
		},
		connections: make(map[*websocket.Conn]bool),
		register:    make(chan *websocket.Conn),
		unregister:  make(chan *websocket.Conn),
		broadcast:   make(chan session.Snapshot, 16),
		ctx:         ctx,
		cancel:      cancel,
	}

	sess.OnUpdate = func(snap session.Snapshot) {
		select {
		case s.broadcast <- snap:
		default:
			// Feed is best-effort; a slow client gets the next one.
		}
	}
	return s
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/table/state", s.handleState)
	mux.HandleFunc("/api/table/action", s.handleAction)
	mux.HandleFunc("/api/table/voice", s.handleVoice)
	mux.HandleFunc("/api/table/reset", s.handleReset)
	mux.HandleFunc("/api/cards", s.handleCards)
	return mux
}

// Start begins serving. Blocks until Shutdown or a listen error.
func (s *Server) Start() error {
	go s.run()

	s.mu.Lock()
	s.httpServer = &http.Server{
		Addr:    s.cfg.Addr(),
		Handler: s.Handler(),
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Info("listening", "addr", s.cfg.Addr())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server listen: %w", err)
	}
	return nil
}

// Shutdown stops the HTTP listener and closes all websocket clients.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()

	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// run owns the connection set. All websocket writes happen here so a
// single goroutine talks to each connection.
func (s *Server) run() {
	for {
		select {
		case <-s.ctx.Done():
			for conn := range s.connections {
				conn.Close()
			}
			return

		case conn := <-s.register:
			s.connections[conn] = true
			s.logger.Debug("client connected", "clients", len(s.connections))
			if err := conn.WriteJSON(s.session.Snapshot()); err != nil {
				s.dropConnection(conn)
			}

		case conn := <-s.unregister:
			s.dropConnection(conn)

		case snap := <-s.broadcast:
			for conn := range s.connections {
				if err := conn.WriteJSON(snap); err != nil {
					s.dropConnection(conn)
				}
			}
		}
	}
}

func (s *Server) dropConnection(conn *websocket.Conn) {
	if _, ok := s.connections[conn]; !ok {
		return
	}
	delete(s.connections, conn)
	conn.Close()
	s.logger.Debug("client disconnected", "clients", len(s.connections))
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	select {
	case s.register <- conn:
	case <-s.ctx.Done():
		conn.Close()
		return
	}

	// Clients never send anything; the read loop only notices closes.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				select {
				case s.unregister <- conn:
				case <-s.ctx.Done():
				}
				return
			}
		}
	}()
}
