package server

import (
	"github.com/charmbracelet/log"

	"github.com/lox/kittens/internal/game"
)

// Sender delivers one message to one player, if they are connected.
type Sender interface {
	Send(playerID int64, msg *Message)
}

// NameResolver resolves player ids to display names.
type NameResolver interface {
	DisplayName(playerID int64) string
}

// Notifier renders engine events into WebSocket messages. Room broadcasts
// are fanned out per recipient with the actor's display name prefixed.
type Notifier struct {
	names  NameResolver
	sender Sender
	format game.EventFormatter
	logger *log.Logger
}

// NewNotifier creates a notifier delivering through the given sender.
func NewNotifier(names NameResolver, sender Sender, logger *log.Logger) *Notifier {
	return &Notifier{
		names:  names,
		sender: sender,
		logger: logger.WithPrefix("notifier"),
	}
}

// Dispatch delivers every event to its recipients.
func (n *Notifier) Dispatch(events []game.Event) {
	for _, ev := range events {
		switch e := ev.(type) {
		case game.Tell:
			if len(e.Choices) > 0 {
				n.send(e.PlayerID, MessageTypePrompt, PromptData{Text: e.Text, Choices: e.Choices})
			} else {
				n.send(e.PlayerID, MessageTypeNotice, NoticeData{Text: e.Text})
			}

		case game.Broadcast:
			text := e.Text
			if e.ActorID != 0 {
				text = n.names.DisplayName(e.ActorID) + " " + text
			}
			for _, id := range e.Recipients {
				n.send(id, MessageTypeNotice, NoticeData{Text: text})
			}

		case game.ShowHand:
			n.send(e.PlayerID, MessageTypeHand, HandData{Cards: e.Hand, Text: n.format.FormatHand(e.Hand)})

		case game.Menu:
			n.send(e.PlayerID, MessageTypePrompt, PromptData{Text: e.Prompt, Choices: e.Choices})

		default:
			n.logger.Warn("unhandled event", "type", ev.EventType())
		}
	}
}

func (n *Notifier) send(playerID int64, t MessageType, data interface{}) {
	msg, err := NewMessage(t, data)
	if err != nil {
		n.logger.Error("failed to encode message", "type", t, "err", err)
		return
	}
	n.sender.Send(playerID, msg)
}
