package server

import (
	"encoding/json"
	"time"

	"github.com/lox/kittens/internal/card"
	"github.com/lox/kittens/internal/game"
)

// MessageType identifies a WebSocket message.
type MessageType string

func (mt MessageType) String() string { return string(mt) }

const (
	// Client → server.
	MessageTypeHello  MessageType = "hello"
	MessageTypeAction MessageType = "action"

	// Server → client.
	MessageTypeWelcome MessageType = "welcome"
	MessageTypeNotice  MessageType = "notice"
	MessageTypeHand    MessageType = "hand"
	MessageTypePrompt  MessageType = "prompt"
	MessageTypeError   MessageType = "error"
)

// Message is the base WebSocket message structure.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a message with the current timestamp.
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Decode unmarshals the message payload into v.
func (m *Message) Decode(v interface{}) error {
	return json.Unmarshal(m.Data, v)
}

// HelloData introduces a client. The server assigns the player id.
type HelloData struct {
	Name string `json:"name"`
}

// WelcomeData acknowledges a hello.
type WelcomeData struct {
	PlayerID int64  `json:"player_id"`
	Name     string `json:"name"`
}

// The action payload is a game.Action verbatim: prompts embed the exact
// action to echo back, so clients never construct actions from scratch
// except for the free-form ones (start, join, exit).

// NoticeData is a plain text message.
type NoticeData struct {
	Text string `json:"text"`
}

// HandData carries the player's current hand, with a rendered fallback for
// line-based clients.
type HandData struct {
	Cards []card.Type `json:"cards"`
	Text  string      `json:"text"`
}

// PromptData carries a question plus the choices that answer it.
type PromptData struct {
	Text    string        `json:"text"`
	Choices []game.Choice `json:"choices"`
}

// ErrorData reports a protocol-level failure.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
