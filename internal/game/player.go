package game

import (
	rand "math/rand/v2"

	"github.com/lox/kittens/internal/card"
)

// Player is one room participant. The hand is ordered but semantically
// unordered: every insertion lands at a uniformly random position so card
// indexes leak nothing about draw order.
type Player struct {
	ID    int64       `json:"id"`
	Host  bool        `json:"host"`
	Alive bool        `json:"alive"`
	Hand  []card.Type `json:"hand"`
}

// NewPlayer creates an alive player with an empty hand.
func NewPlayer(id int64, host bool) *Player {
	return &Player{ID: id, Host: host, Alive: true}
}

// CardIndex returns the index of the first card of type t, or -1.
func (p *Player) CardIndex(t card.Type) int {
	for i, c := range p.Hand {
		if c == t {
			return i
		}
	}
	return -1
}

// HasCard reports whether the player holds a card of type t.
func (p *Player) HasCard(t card.Type) bool {
	return p.CardIndex(t) >= 0
}

// RemoveCard removes one card of type t and reports whether it was held.
func (p *Player) RemoveCard(t card.Type) bool {
	i := p.CardIndex(t)
	if i < 0 {
		return false
	}
	p.RemoveAt(i)
	return true
}

// RemoveAt removes and returns the card at index i.
func (p *Player) RemoveAt(i int) card.Type {
	c := p.Hand[i]
	p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
	return c
}

// AddAtRandom inserts a card at a uniformly random hand position.
func (p *Player) AddAtRandom(rng *rand.Rand, c card.Type) {
	pos := rng.IntN(len(p.Hand) + 1)
	p.Hand = append(p.Hand, "")
	copy(p.Hand[pos+1:], p.Hand[pos:])
	p.Hand[pos] = c
}

// CountMatching counts cards usable in a combo of the specific variant want,
// split into exact matches and wild substitutes.
func (p *Player) CountMatching(want card.Type) (specific, wild int) {
	for _, c := range p.Hand {
		switch {
		case c == want:
			specific++
		case c.IsWild():
			wild++
		}
	}
	return specific, wild
}

// DistinctTypes returns the distinct card types held, in catalog order.
func (p *Player) DistinctTypes() []card.Type {
	held := make(map[card.Type]bool, len(p.Hand))
	for _, c := range p.Hand {
		held[c] = true
	}
	out := make([]card.Type, 0, len(held))
	for _, t := range card.Types() {
		if held[t] {
			out = append(out, t)
		}
	}
	return out
}
