package server

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/lox/kittens/internal/game"
	"github.com/lox/kittens/internal/identity"
)

// GameService bridges connections and the game engine: it assigns player
// ids, routes inbound actions and delivers the resulting events back to
// whichever connections are live.
type GameService struct {
	logger *log.Logger
	engine *game.Engine
	dir    *identity.Directory

	nextID atomic.Int64

	mu    sync.RWMutex
	conns map[int64]*Connection

	notifier *Notifier
}

// NewGameService wires a service around the given engine and directory.
func NewGameService(engine *game.Engine, dir *identity.Directory, logger *log.Logger) *GameService {
	s := &GameService{
		logger: logger.WithPrefix("service"),
		engine: engine,
		dir:    dir,
		conns:  make(map[int64]*Connection),
	}
	s.notifier = NewNotifier(dir, s, logger)
	return s
}

// Engine exposes the game engine, for the debug endpoints and tests.
func (s *GameService) Engine() *game.Engine { return s.engine }

// Hello registers a new player for the connection and replies with the
// assigned id. An empty name falls back to a generated one.
func (s *GameService) Hello(c *Connection, name string) {
	name = strings.TrimSpace(name)
	id := c.PlayerID()
	if id == 0 {
		id = s.nextID.Add(1)
		c.SetPlayerID(id)
		s.mu.Lock()
		s.conns[id] = c
		s.mu.Unlock()
	}
	s.dir.Register(id, name)
	s.logger.Info("player connected", "player", id, "name", s.dir.DisplayName(id))

	msg, err := NewMessage(MessageTypeWelcome, WelcomeData{PlayerID: id, Name: s.dir.DisplayName(id)})
	if err != nil {
		s.logger.Error("failed to encode welcome", "err", err)
		return
	}
	c.SendMessage(msg)

	// Greet with the entry prompt straight away.
	s.notifier.Dispatch(s.engine.Apply(game.Action{Type: game.ActionStart, PlayerID: id}))
}

// HandleAction applies one inbound action. The player id always comes from
// the connection, never from the payload.
func (s *GameService) HandleAction(c *Connection, a game.Action) {
	id := c.PlayerID()
	if id == 0 {
		c.sendError("not_registered", "Send hello first")
		return
	}
	a.PlayerID = id
	s.notifier.Dispatch(s.engine.Apply(a))
}

// Detach removes a disconnected player. They leave whatever room they were
// in, exactly as if they had sent exit.
func (s *GameService) Detach(c *Connection) {
	id := c.PlayerID()
	if id == 0 {
		return
	}
	s.mu.Lock()
	delete(s.conns, id)
	s.mu.Unlock()

	if _, inRoom := s.dir.CurrentRoom(id); inRoom {
		s.notifier.Dispatch(s.engine.Apply(game.Action{Type: game.ActionExit, PlayerID: id}))
	}
	s.logger.Info("player disconnected", "player", id)
}

// Send implements Sender. Messages for players who are no longer connected
// are dropped.
func (s *GameService) Send(playerID int64, msg *Message) {
	s.mu.RLock()
	c, ok := s.conns[playerID]
	s.mu.RUnlock()
	if !ok {
		return
	}
	c.SendMessage(msg)
}
