package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"github.com/lox/kittens/internal/game"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 8192

	// Connections that send nothing for this long are dropped, which also
	// removes the player from their room.
	idleTimeout = 30 * time.Minute
)

var ErrConnectionClosed = websocket.ErrCloseSent

// Connection represents a WebSocket connection to a client.
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	playerID  int64
	closeOnce sync.Once
	service   *GameService
	clock     quartz.Clock
	idle      *quartz.Timer
}

// NewConnection creates a connection wrapper. The clock drives the idle
// timeout and is injectable for tests.
func NewConnection(conn *websocket.Conn, logger *log.Logger, service *GameService, clock quartz.Clock) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:    conn,
		send:    make(chan *Message, 256),
		logger:  logger.WithPrefix("conn"),
		ctx:     ctx,
		cancel:  cancel,
		service: service,
		clock:   clock,
	}
}

// Start begins handling the connection.
func (c *Connection) Start() {
	c.idle = c.clock.AfterFunc(idleTimeout, func() {
		c.logger.Info("closing idle connection", "player", c.PlayerID())
		_ = c.Close()
	})
	go c.writePump()
	go c.readPump()
}

// Close closes the connection.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		if c.idle != nil {
			c.idle.Stop()
		}
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// Done is closed when the connection shuts down.
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// SendMessage queues a message to the client.
func (c *Connection) SendMessage(msg *Message) {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, expected during shutdown.
			c.logger.Debug("send on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
	case <-c.ctx.Done():
	default:
		c.logger.Warn("send buffer full, closing connection", "player", c.PlayerID())
		_ = c.Close()
	}
}

// SetPlayerID associates this connection with a player.
func (c *Connection) SetPlayerID(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerID = id
}

// PlayerID returns the associated player id, 0 before hello.
func (c *Connection) PlayerID() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

// readPump handles incoming messages from the client.
func (c *Connection) readPump() {
	defer func() {
		_ = c.Close()
		c.service.Detach(c)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("websocket error", "error", err)
			}
			return
		}
		c.idle.Reset(idleTimeout)
		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes one inbound message.
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("received message", "type", msg.Type, "player", c.PlayerID())

	switch msg.Type {
	case MessageTypeHello:
		var data HelloData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse hello data")
			return
		}
		c.service.Hello(c, data.Name)

	case MessageTypeAction:
		var a game.Action
		if err := json.Unmarshal(msg.Data, &a); err != nil {
			c.sendError("invalid_message", "Failed to parse action data")
			return
		}
		c.service.HandleAction(c, a)

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

// sendError sends an error message to the client.
func (c *Connection) sendError(code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{Code: code, Message: message})
	if err != nil {
		c.logger.Error("failed to create error message", "error", err)
		return
	}
	c.SendMessage(errorMsg)
}
