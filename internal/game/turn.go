package game

import "fmt"

// endTurn retires one turn credit and advances the cursor when the current
// player is done. An attack (bonus > 1) forces advancement even if the
// attacker still had credits left; the bonus is added after moving, so
// leftover credits accumulate onto the next player.
func (e *Engine) endTurn(room *Room, bonus int) []Event {
	room.TurnCredits--

	// A dead or removed player cannot hold credits.
	cp := room.CurrentPlayer()
	if cp == nil || !cp.Alive || room.TurnCredits < 0 {
		room.TurnCredits = 0
	}

	if room.TurnCredits == 0 || bonus > 1 {
		// Guaranteed to terminate: the game ends before zero players remain
		// alive, so there is always a next alive player.
		for {
			room.Current++
			if room.Current >= len(room.Players) {
				room.Current = 0
			}
			if room.Players[room.Current].Alive {
				break
			}
		}
		room.TurnCredits += bonus
	}

	return e.announceTurn(room)
}

// announceTurn broadcasts whose turn it is and sends the active player
// their playable-card menu.
func (e *Engine) announceTurn(room *Room) []Event {
	cp := room.CurrentPlayer()
	text := fmt.Sprintf("turn.\nPlayer has %s.\n%s left.\n%s left in the deck.",
		cardCountText(len(cp.Hand)),
		turnCountText(room.TurnCredits),
		cardCountText(room.Deck.Len()))

	return []Event{
		e.broadcast(room, cp.ID, text),
		e.cardMenu(room),
	}
}

// cardMenu builds the active player's menu: draw, plus one entry per
// distinct card type held.
func (e *Engine) cardMenu(room *Room) Event {
	cp := room.CurrentPlayer()
	choices := []Choice{{Label: "Draw", Action: Action{Type: ActionDraw}}}
	for _, t := range cp.DistinctTypes() {
		choices = append(choices, Choice{Label: t.String(), Action: Action{Type: ActionPlayCard, Card: t}})
	}
	return Menu{PlayerID: cp.ID, Prompt: "Choose a card", Choices: choices}
}
