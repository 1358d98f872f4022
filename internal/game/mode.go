package game

import (
	"fmt"

	"github.com/lox/kittens/internal/card"
)

// Band holds how many copies of a card type go into the deck for small (<4
// players), medium (<8) and large games.
type Band struct {
	Small  int
	Medium int
	Large  int
}

func (b Band) forPlayers(n int) int {
	switch {
	case n < 4:
		return b.Small
	case n < 8:
		return b.Medium
	default:
		return b.Large
	}
}

// Mode is the static configuration a room is created with: deck composition
// per player count, player limit and opening hand size. Modes are immutable
// after construction.
type Mode struct {
	id          string
	description string
	maxPlayers  int
	handSize    int
	counts      map[card.Type]Band
	catalog     []card.Type
}

// NewMode builds a mode from a composition table. Exploding kittens and
// defuses are never part of the table; MissingCardsFor supplies them.
func NewMode(id, description string, maxPlayers, handSize int, counts map[card.Type]Band) (*Mode, error) {
	if id == "" {
		return nil, fmt.Errorf("mode id is required")
	}
	if maxPlayers < 2 {
		return nil, fmt.Errorf("mode %s: max players must be at least 2, got %d", id, maxPlayers)
	}
	if handSize < 1 {
		return nil, fmt.Errorf("mode %s: hand size must be at least 1, got %d", id, handSize)
	}
	for t := range counts {
		if !t.Valid() || t == card.ExplodingKitten || t == card.Defuse {
			return nil, fmt.Errorf("mode %s: card type %q not allowed in composition", id, t)
		}
	}

	m := &Mode{
		id:          id,
		description: description,
		maxPlayers:  maxPlayers,
		handSize:    handSize,
		counts:      counts,
	}

	// Requestable catalog: defuse plus every composed type, catalog order.
	m.catalog = append(m.catalog, card.Defuse)
	for _, t := range card.Types() {
		if _, ok := counts[t]; ok {
			m.catalog = append(m.catalog, t)
		}
	}
	return m, nil
}

// ID returns the mode identifier used by host actions.
func (m *Mode) ID() string { return m.id }

// Description returns the human-readable mode name.
func (m *Mode) Description() string { return m.description }

// MaxPlayers returns the player limit.
func (m *Mode) MaxPlayers() int { return m.maxPlayers }

// HandSize returns how many cards are dealt on top of the starting defuse.
func (m *Mode) HandSize() int { return m.handSize }

// Catalog lists the card types a request combo may name.
func (m *Mode) Catalog() []card.Type {
	out := make([]card.Type, len(m.catalog))
	copy(out, m.catalog)
	return out
}

// CardsFor returns the base deck for the given player count, before dealing
// and before the kitten/defuse supplement.
func (m *Mode) CardsFor(players int) []card.Type {
	var cards []card.Type
	for _, t := range card.Types() {
		band, ok := m.counts[t]
		if !ok {
			continue
		}
		for i := 0; i < band.forPlayers(players); i++ {
			cards = append(cards, t)
		}
	}
	return cards
}

// MissingCardsFor returns the supplement shuffled in after dealing: one
// exploding kitten fewer than there are players, and one defuse per two
// players.
func (m *Mode) MissingCardsFor(players int) []card.Type {
	var cards []card.Type
	for i := 0; i < players-1; i++ {
		cards = append(cards, card.ExplodingKitten)
	}
	for i := 0; i < players/2; i++ {
		cards = append(cards, card.Defuse)
	}
	return cards
}

// TotalCardsFor returns every card a running game accounts for: the base
// deck, the dealt defuses and the supplement.
func (m *Mode) TotalCardsFor(players int) int {
	return len(m.CardsFor(players)) + players + len(m.MissingCardsFor(players))
}

// PartyMode is the built-in party-pack composition for up to 10 players.
func PartyMode() *Mode {
	m, err := NewMode("party", "Party pack", 10, 6, map[card.Type]Band{
		card.Attack:         {Small: 4, Medium: 7, Large: 11},
		card.Skip:           {Small: 4, Medium: 6, Large: 10},
		card.SeeFuture:      {Small: 3, Medium: 3, Large: 6},
		card.AlterFuture:    {Small: 2, Medium: 4, Large: 6},
		card.Shuffle:        {Small: 2, Medium: 4, Large: 6},
		card.DrawBottom:     {Small: 3, Medium: 4, Large: 7},
		card.Favor:          {Small: 2, Medium: 4, Large: 6},
		card.FeralCat:       {Small: 2, Medium: 4, Large: 6},
		card.Tacocat:        {Small: 3, Medium: 4, Large: 7},
		card.Cattermelon:    {Small: 3, Medium: 4, Large: 7},
		card.HairyPotatoCat: {Small: 3, Medium: 4, Large: 7},
		card.BeardCat:       {Small: 3, Medium: 4, Large: 7},
		card.RainbowCat:     {Small: 3, Medium: 4, Large: 7},
	})
	if err != nil {
		panic(err) // built-in composition is statically valid
	}
	return m
}
