package game

import (
	"fmt"

	"github.com/lox/kittens/internal/card"
)

// exit removes a player from their room, during the lobby or mid-game. A
// running game is rebalanced: the leaver's hand is discarded, one Exploding
// Kitten leaves the deck so the kitten count matches the reduced player
// count, and any effect waiting on the leaver is resolved or abandoned.
func (e *Engine) exit(room *Room, a Action) ([]Event, error) {
	idx := room.playerIndex(a.PlayerID)
	if idx < 0 {
		return nil, ErrNotInRoom
	}
	leaver := room.Players[idx]
	room.Players = append(room.Players[:idx], room.Players[idx+1:]...)
	e.dir.ClearCurrentRoom(a.PlayerID)
	e.logger.Info("player left", "room", room.Code, "player", a.PlayerID)

	events := []Event{Tell{PlayerID: a.PlayerID, Text: "You left the room."}}

	if len(room.Players) == 0 {
		room.Running = false
		room.Pending = nil
		e.registry.Destroy(room.Code)
		return events, nil
	}
	if leaver.Host && !room.Running {
		return append(events, e.destroyRoomLocked(room, "The host left. Send start to play a new game.")...), nil
	}

	text := fmt.Sprintf("left the room. [%d/%d] players.", len(room.Players), room.Mode.MaxPlayers())
	if !room.Running {
		return append(events, e.broadcast(room, a.PlayerID, text)), nil
	}

	// The removal shifted everything after idx down by one.
	wasCurrent := idx == room.Current
	if idx < room.Current {
		room.Current--
	}

	if leaver.Alive {
		fallback, kittenInFlight := e.settleLeaverPending(room, leaver)
		events = append(events, fallback...)

		// The leaver's cards leave play with them.
		room.Discarded += len(leaver.Hand)
		leaver.Hand = nil

		// One fewer player means one fewer kitten. A kitten the leaver had
		// just defused counts as the removed one.
		if kittenInFlight {
			room.Discarded++
		} else if room.Deck.RemoveFirst(card.ExplodingKitten) {
			room.Discarded++
			text += "\nAn Exploding Kitten was removed from the deck."
		}
	}
	events = append(events, e.broadcast(room, a.PlayerID, text))

	if endEvents, over := e.checkEndGame(room); over {
		return append(events, endEvents...), nil
	}

	if wasCurrent {
		// It was the leaver's turn. Step back so advancing lands on the
		// player who would have been next.
		room.Current = idx - 1
		room.TurnCredits = 0
		events = append(events, e.endTurn(room, 1)...)
	}
	return events, nil
}

// settleLeaverPending resolves a pending action the leaver was part of. It
// reports whether the leaver owned a kitten placement, so the caller can
// account for the in-flight kitten.
func (e *Engine) settleLeaverPending(room *Room, leaver *Player) ([]Event, bool) {
	p := room.Pending
	if p == nil {
		return nil, false
	}

	// A favor target who leaves surrenders a random card first.
	if p.Kind == PendingFavor && p.Stage == StageChooseCard && p.TargetID == leaver.ID {
		room.Pending = nil
		owner := room.PlayerByID(p.OwnerID)
		if owner == nil || len(leaver.Hand) == 0 {
			return nil, false
		}
		c := leaver.RemoveAt(room.rng.IntN(len(leaver.Hand)))
		owner.AddAtRandom(room.rng, c)
		return []Event{
			Tell{PlayerID: owner.ID, Text: fmt.Sprintf("You received %s", c)},
			ShowHand{PlayerID: owner.ID, Hand: handCopy(owner)},
			e.cardMenu(room),
		}, false
	}

	// A cat combo aimed at the leaver fizzles; the spent cards stay spent.
	if p.Kind == PendingCat && p.TargetID == leaver.ID && p.OwnerID != leaver.ID {
		room.Pending = nil
		return []Event{
			Tell{PlayerID: p.OwnerID, Text: "Your target left the room."},
			e.cardMenu(room),
		}, false
	}

	if p.OwnerID == leaver.ID {
		room.Pending = nil
		return nil, p.Kind == PendingPlacement
	}
	return nil, false
}
