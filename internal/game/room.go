package game

import (
	"fmt"
	rand "math/rand/v2"
	"sync"

	"github.com/lox/kittens/internal/card"
	"github.com/lox/kittens/internal/deck"
)

// Room is one isolated game session: mode, deck, players in join order
// (which is turn order), the turn cursor and credits, and at most one
// pending action. All mutation happens under mu with the engine holding the
// lock for the whole of one inbound action.
type Room struct {
	mu  sync.Mutex
	rng *rand.Rand

	Code        string
	Mode        *Mode
	Deck        *deck.Deck
	Players     []*Player
	Current     int
	TurnCredits int
	Running     bool
	Pending     *PendingAction

	// Discarded counts cards permanently out of play; TotalCards is fixed at
	// game start. Together they anchor the conservation invariant.
	Discarded  int
	TotalCards int
}

// NewRoom creates a lobby room. The RNG is owned exclusively by this room.
func NewRoom(code string, mode *Mode, rng *rand.Rand) *Room {
	return &Room{
		Code:        code,
		Mode:        mode,
		rng:         rng,
		TurnCredits: 1,
	}
}

// CurrentPlayer returns the player holding the turn, nil outside a game.
func (r *Room) CurrentPlayer() *Player {
	if r.Current < 0 || r.Current >= len(r.Players) {
		return nil
	}
	return r.Players[r.Current]
}

// PlayerByID returns the player with the given id, or nil.
func (r *Room) PlayerByID(id int64) *Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *Room) playerIndex(id int64) int {
	for i, p := range r.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// AliveCount returns how many players are still in the game.
func (r *Room) AliveCount() int {
	n := 0
	for _, p := range r.Players {
		if p.Alive {
			n++
		}
	}
	return n
}

// LastAlive returns the sole surviving player, nil unless exactly one.
func (r *Room) LastAlive() *Player {
	var last *Player
	for _, p := range r.Players {
		if !p.Alive {
			continue
		}
		if last != nil {
			return nil
		}
		last = p
	}
	return last
}

// EligibleTargets lists alive players other than the actor who hold at
// least one card, in turn order.
func (r *Room) EligibleTargets(actorID int64) []*Player {
	var out []*Player
	for _, p := range r.Players {
		if p.ID != actorID && p.Alive && len(p.Hand) > 0 {
			out = append(out, p)
		}
	}
	return out
}

// MemberIDs returns every player id in the room, for broadcast recipients.
func (r *Room) MemberIDs() []int64 {
	out := make([]int64, len(r.Players))
	for i, p := range r.Players {
		out[i] = p.ID
	}
	return out
}

// conservationError checks the card-conservation invariant: deck plus hands
// plus discards (plus one kitten awaiting placement) must equal the cards
// dealt at game start. A violation is a programming error, not a player one.
func (r *Room) conservationError() error {
	if !r.Running {
		return nil
	}

	have := r.Deck.Len() + r.Discarded
	for _, p := range r.Players {
		have += len(p.Hand)
	}
	if r.Pending != nil && r.Pending.Kind == PendingPlacement {
		have++ // the defused kitten is in flight
	}

	if have != r.TotalCards {
		return fmt.Errorf("card conservation violated in room %s: have %d, want %d", r.Code, have, r.TotalCards)
	}
	return nil
}

// Snapshot is the JSON-serializable capture of a room's entire state.
type Snapshot struct {
	Code        string         `json:"code"`
	Mode        string         `json:"mode"`
	Running     bool           `json:"running"`
	Deck        []card.Type    `json:"deck"`
	Players     []Player       `json:"players"`
	Current     int            `json:"current"`
	TurnCredits int            `json:"turn_credits"`
	Pending     *PendingAction `json:"pending,omitempty"`
	Discarded   int            `json:"discarded"`
	TotalCards  int            `json:"total_cards"`
}

// Snapshot captures the room state under the room lock.
func (r *Room) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Snapshot{
		Code:        r.Code,
		Mode:        r.Mode.ID(),
		Running:     r.Running,
		Current:     r.Current,
		TurnCredits: r.TurnCredits,
		Discarded:   r.Discarded,
		TotalCards:  r.TotalCards,
	}
	if r.Deck != nil {
		s.Deck = r.Deck.Cards()
	}
	for _, p := range r.Players {
		cp := *p
		cp.Hand = append([]card.Type(nil), p.Hand...)
		s.Players = append(s.Players, cp)
	}
	if r.Pending != nil {
		cp := *r.Pending
		cp.Selections = append([]Selection(nil), r.Pending.Selections...)
		s.Pending = &cp
	}
	return s
}
