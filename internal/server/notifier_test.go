package server

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/kittens/internal/card"
	"github.com/lox/kittens/internal/game"
	"github.com/lox/kittens/internal/identity"
)

type capturingSender struct {
	sent []captured
}

type captured struct {
	playerID int64
	msg      *Message
}

func (c *capturingSender) Send(playerID int64, msg *Message) {
	c.sent = append(c.sent, captured{playerID, msg})
}

func newTestNotifier() (*Notifier, *capturingSender, *identity.Directory) {
	dir := identity.NewDirectory()
	sender := &capturingSender{}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	return NewNotifier(dir, sender, logger), sender, dir
}

func TestNotifierTellBecomesNoticeOrPrompt(t *testing.T) {
	t.Parallel()
	n, sender, _ := newTestNotifier()

	n.Dispatch([]game.Event{
		game.Tell{PlayerID: 1, Text: "plain"},
		game.Tell{PlayerID: 2, Text: "question", Choices: []game.Choice{
			{Label: "Draw", Action: game.Action{Type: game.ActionDraw}},
		}},
	})

	require.Len(t, sender.sent, 2)
	assert.Equal(t, MessageTypeNotice, sender.sent[0].msg.Type)
	assert.Equal(t, int64(1), sender.sent[0].playerID)

	assert.Equal(t, MessageTypePrompt, sender.sent[1].msg.Type)
	var prompt PromptData
	require.NoError(t, json.Unmarshal(sender.sent[1].msg.Data, &prompt))
	assert.Equal(t, "question", prompt.Text)
	require.Len(t, prompt.Choices, 1)
	assert.Equal(t, game.ActionDraw, prompt.Choices[0].Action.Type)
}

func TestNotifierBroadcastPrefixesActor(t *testing.T) {
	t.Parallel()
	n, sender, dir := newTestNotifier()
	dir.Register(7, "alice")

	n.Dispatch([]game.Event{
		game.Broadcast{ActorID: 7, Text: "played Skip", Recipients: []int64{7, 8}},
	})

	require.Len(t, sender.sent, 2)
	for _, s := range sender.sent {
		var notice NoticeData
		require.NoError(t, json.Unmarshal(s.msg.Data, &notice))
		assert.Equal(t, "alice played Skip", notice.Text)
	}
}

func TestNotifierShowHand(t *testing.T) {
	t.Parallel()
	n, sender, _ := newTestNotifier()

	n.Dispatch([]game.Event{
		game.ShowHand{PlayerID: 3, Hand: []card.Type{card.Skip, card.Skip}},
	})

	require.Len(t, sender.sent, 1)
	assert.Equal(t, MessageTypeHand, sender.sent[0].msg.Type)
	var hand HandData
	require.NoError(t, json.Unmarshal(sender.sent[0].msg.Data, &hand))
	assert.Len(t, hand.Cards, 2)
	assert.Contains(t, hand.Text, "2 Skip")
}
