package deck

import (
	"testing"

	"github.com/lox/kittens/internal/card"
	"github.com/lox/kittens/internal/randutil"
)

func TestDrawOrder(t *testing.T) {
	t.Parallel()
	d := New([]card.Type{card.Skip, card.Attack, card.Favor})

	c, ok := d.Draw()
	if !ok || c != card.Favor {
		t.Fatalf("expected favor from the top, got %s", c)
	}
	c, ok = d.DrawBottom()
	if !ok || c != card.Skip {
		t.Fatalf("expected skip from the bottom, got %s", c)
	}
	if d.Len() != 1 {
		t.Errorf("expected 1 card left, got %d", d.Len())
	}
}

func TestDrawEmpty(t *testing.T) {
	t.Parallel()
	d := New(nil)
	if _, ok := d.Draw(); ok {
		t.Error("draw from empty deck should fail")
	}
	if _, ok := d.DrawBottom(); ok {
		t.Error("bottom draw from empty deck should fail")
	}
}

func TestPeekTop(t *testing.T) {
	t.Parallel()
	d := New([]card.Type{card.Skip, card.Attack, card.Favor})

	top := d.PeekTop(2)
	if len(top) != 2 || top[0] != card.Favor || top[1] != card.Attack {
		t.Errorf("unexpected peek order: %v", top)
	}
	if d.Len() != 3 {
		t.Error("peek should not remove cards")
	}

	// Asking past the end clamps.
	if got := d.PeekTop(10); len(got) != 3 {
		t.Errorf("expected 3 cards, got %d", len(got))
	}
}

func TestInsertAt(t *testing.T) {
	t.Parallel()
	d := New([]card.Type{card.Skip, card.Attack})

	d.InsertAt(0, card.ExplodingKitten)
	if got := d.Cards(); got[0] != card.ExplodingKitten {
		t.Errorf("expected kitten at the bottom, got %v", got)
	}

	d.InsertAt(d.Len(), card.Defuse)
	if c, _ := d.Draw(); c != card.Defuse {
		t.Errorf("expected defuse on top, got %s", c)
	}
}

func TestSetFromTop(t *testing.T) {
	t.Parallel()
	d := New([]card.Type{card.Skip, card.Attack, card.Favor})
	d.SetFromTop(0, card.Shuffle)
	d.SetFromTop(2, card.Defuse)
	if got := d.Cards(); got[2] != card.Shuffle || got[0] != card.Defuse {
		t.Errorf("unexpected deck after SetFromTop: %v", got)
	}
}

func TestRemoveFirstAndCount(t *testing.T) {
	t.Parallel()
	d := New([]card.Type{card.ExplodingKitten, card.Skip, card.ExplodingKitten})
	if d.Count(card.ExplodingKitten) != 2 {
		t.Fatalf("expected 2 kittens, got %d", d.Count(card.ExplodingKitten))
	}
	if !d.RemoveFirst(card.ExplodingKitten) {
		t.Fatal("expected a kitten to be removed")
	}
	if d.Count(card.ExplodingKitten) != 1 {
		t.Errorf("expected 1 kitten left, got %d", d.Count(card.ExplodingKitten))
	}
	if d.RemoveFirst(card.Favor) {
		t.Error("removing an absent type should report false")
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	t.Parallel()
	cards := []card.Type{card.Skip, card.Attack, card.Favor, card.Shuffle, card.Defuse}
	d := New(cards)
	d.Shuffle(randutil.New(42))

	if d.Len() != len(cards) {
		t.Fatalf("shuffle changed deck size: %d", d.Len())
	}
	for _, c := range cards {
		if d.Count(c) != 1 {
			t.Errorf("card %s lost or duplicated by shuffle", c)
		}
	}
}

func TestShuffleDeterministic(t *testing.T) {
	t.Parallel()
	cards := []card.Type{card.Skip, card.Attack, card.Favor, card.Shuffle, card.Defuse}

	a := New(cards)
	a.Shuffle(randutil.New(7))
	b := New(cards)
	b.Shuffle(randutil.New(7))

	ac, bc := a.Cards(), b.Cards()
	for i := range ac {
		if ac[i] != bc[i] {
			t.Fatalf("same seed produced different orders at %d: %s vs %s", i, ac[i], bc[i])
		}
	}
}
