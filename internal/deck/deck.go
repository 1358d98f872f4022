package deck

import (
	rand "math/rand/v2"

	"github.com/lox/kittens/internal/card"
)

// Deck is an ordered sequence of cards. The last element is the top of the
// deck, the next card to be drawn; index 0 is the bottom.
type Deck struct {
	cards []card.Type
}

// New creates a deck holding the given cards in order (first card at the
// bottom).
func New(cards []card.Type) *Deck {
	d := &Deck{cards: make([]card.Type, len(cards))}
	copy(d.cards, cards)
	return d
}

// Shuffle randomizes the deck in place with a Fisher-Yates permutation.
func (d *Deck) Shuffle(rng *rand.Rand) {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top card.
func (d *Deck) Draw() (card.Type, bool) {
	if len(d.cards) == 0 {
		return "", false
	}
	c := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return c, true
}

// DrawBottom removes and returns the bottom card.
func (d *Deck) DrawBottom() (card.Type, bool) {
	if len(d.cards) == 0 {
		return "", false
	}
	c := d.cards[0]
	d.cards = d.cards[1:]
	return c, true
}

// PeekTop returns up to n cards from the top without removing them, ordered
// top first.
func (d *Deck) PeekTop(n int) []card.Type {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	out := make([]card.Type, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, d.cards[len(d.cards)-1-i])
	}
	return out
}

// InsertAt inserts a card at the given position. Position 0 is the bottom;
// position Len() is the top.
func (d *Deck) InsertAt(pos int, c card.Type) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(d.cards) {
		pos = len(d.cards)
	}
	d.cards = append(d.cards, "")
	copy(d.cards[pos+1:], d.cards[pos:])
	d.cards[pos] = c
}

// SetFromTop overwrites the slot i cards below the top (0 = the top card).
func (d *Deck) SetFromTop(i int, c card.Type) {
	d.cards[len(d.cards)-1-i] = c
}

// RemoveFirst removes the lowest card of the given type and reports whether
// one was found.
func (d *Deck) RemoveFirst(t card.Type) bool {
	for i, c := range d.cards {
		if c == t {
			d.cards = append(d.cards[:i], d.cards[i+1:]...)
			return true
		}
	}
	return false
}

// Append adds cards on top of the deck.
func (d *Deck) Append(cards ...card.Type) {
	d.cards = append(d.cards, cards...)
}

// Count returns how many cards of the given type remain.
func (d *Deck) Count(t card.Type) int {
	n := 0
	for _, c := range d.cards {
		if c == t {
			n++
		}
	}
	return n
}

// Len returns the number of cards remaining.
func (d *Deck) Len() int {
	return len(d.cards)
}

// Cards returns a copy of the deck from bottom to top.
func (d *Deck) Cards() []card.Type {
	out := make([]card.Type, len(d.cards))
	copy(out, d.cards)
	return out
}
