package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	rand "math/rand/v2"

	"github.com/lox/kittens/internal/game"
	"github.com/lox/kittens/internal/identity"
)

// Server is the WebSocket front of a kittens deployment: it upgrades
// connections and hands them to the game service.
type Server struct {
	logger      *log.Logger
	upgrader    websocket.Upgrader
	service     *GameService
	clock       quartz.Clock
	httpServer  *http.Server
	mu          sync.Mutex
	connections map[*Connection]bool
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithClock injects the clock used for connection idle timeouts.
func WithClock(clock quartz.Clock) ServerOption {
	return func(s *Server) { s.clock = clock }
}

// NewServer creates a server hosting the given modes. The party mode is
// always available; extra modes usually come from configuration.
func NewServer(logger *log.Logger, rng *rand.Rand, modes []*game.Mode, opts ...ServerOption) *Server {
	dir := identity.NewDirectory()

	engineOpts := []game.Option{}
	if rng != nil {
		engineOpts = append(engineOpts, game.WithRand(rng))
	}
	for _, m := range modes {
		engineOpts = append(engineOpts, game.WithMode(m))
	}
	engine := game.NewEngine(dir, logger, engineOpts...)

	s := &Server{
		logger: logger.WithPrefix("server"),
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		service:     NewGameService(engine, dir, logger),
		clock:       quartz.NewReal(),
		connections: make(map[*Connection]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Service exposes the game service, mainly for tests.
func (s *Server) Service() *GameService { return s.service }

// Start serves WebSocket and health endpoints until Shutdown.
func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/debug/rooms/", s.handleRoomSnapshot)

	s.httpServer = &http.Server{Addr: addr, Handler: mux}
	s.logger.Info("starting WebSocket server", "addr", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting connections and closes the live ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// handleWebSocket handles WebSocket upgrade requests.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.logger, s.service, s.clock)
	s.mu.Lock()
	s.connections[client] = true
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("client connected", "total", total)

	client.Start()
	go func() {
		<-client.Done()
		s.mu.Lock()
		delete(s.connections, client)
		total := len(s.connections)
		s.mu.Unlock()
		s.logger.Info("client disconnected", "total", total)
	}()
}

// handleRoomSnapshot serves the full state of one room as JSON. Debug only;
// the snapshot includes hands and the deck order.
func (s *Server) handleRoomSnapshot(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimPrefix(r.URL.Path, "/debug/rooms/")
	room, ok := s.service.Engine().Registry().Lookup(code)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(room.Snapshot()); err != nil {
		s.logger.Error("failed to encode room snapshot", "room", code, "err", err)
	}
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "OK")
}
