package game

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/lox/kittens/internal/card"
	"github.com/lox/kittens/internal/deck"
	"github.com/lox/kittens/internal/identity"
	"github.com/lox/kittens/internal/randutil"
)

func testEngine(seed int64) (*Engine, *identity.Directory) {
	dir := identity.NewDirectory()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	return NewEngine(dir, logger, WithRand(randutil.New(seed))), dir
}

// startParty hosts a party room with the given players and starts the game.
func startParty(t *testing.T, e *Engine, dir *identity.Directory, ids ...int64) *Room {
	t.Helper()
	require.GreaterOrEqual(t, len(ids), 2)

	for _, id := range ids {
		dir.Register(id, fmt.Sprintf("player-%d", id))
	}
	e.Apply(Action{Type: ActionHost, PlayerID: ids[0], Mode: "party"})
	code, ok := dir.CurrentRoom(ids[0])
	require.True(t, ok)
	for _, id := range ids[1:] {
		e.Apply(Action{Type: ActionJoin, PlayerID: id, Code: code})
	}
	e.Apply(Action{Type: ActionStartGame, PlayerID: ids[0]})

	room, ok := e.Registry().Lookup(code)
	require.True(t, ok)
	require.True(t, room.Running)
	return room
}

// rig pins a running room to an exact deck and exact hands so tests don't
// depend on the shuffle. The deck slice is bottom-first; its last card is
// drawn next. The conservation total is recomputed to match.
func rig(room *Room, deckCards []card.Type, hands map[int64][]card.Type) {
	room.Deck = deck.New(append([]card.Type(nil), deckCards...))
	for _, p := range room.Players {
		p.Hand = append([]card.Type(nil), hands[p.ID]...)
	}
	room.Discarded = 0
	room.Pending = nil
	total := room.Deck.Len()
	for _, p := range room.Players {
		total += len(p.Hand)
	}
	room.TotalCards = total
}

func tellsTo(events []Event, id int64) []Tell {
	var out []Tell
	for _, ev := range events {
		if tell, ok := ev.(Tell); ok && tell.PlayerID == id {
			out = append(out, tell)
		}
	}
	return out
}

func hasTellContaining(events []Event, id int64, substr string) bool {
	for _, tell := range tellsTo(events, id) {
		if strings.Contains(tell.Text, substr) {
			return true
		}
	}
	return false
}

func hasBroadcastContaining(events []Event, substr string) bool {
	for _, ev := range events {
		if b, ok := ev.(Broadcast); ok && strings.Contains(b.Text, substr) {
			return true
		}
	}
	return false
}

func requireConserved(t *testing.T, room *Room) {
	t.Helper()
	require.NoError(t, room.conservationError())
}
