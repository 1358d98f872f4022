package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/kittens/internal/card"
)

func TestFavorWithTargetChoice(t *testing.T) {
	t.Parallel()
	e, dir := testEngine(1)
	room := startParty(t, e, dir, 10, 20, 30)
	rig(room, []card.Type{card.ExplodingKitten, card.ExplodingKitten, card.Skip}, map[int64][]card.Type{
		10: {card.Favor},
		20: {card.Skip, card.Shuffle},
		30: {card.Attack},
	})

	events := e.Apply(Action{Type: ActionPlayCard, PlayerID: 10, Card: card.Favor})
	require.NotNil(t, room.Pending)
	assert.Equal(t, PendingFavor, room.Pending.Kind)
	assert.True(t, hasTellContaining(events, 10, "Whom do you ask?"))

	events = e.Apply(Action{Type: ActionChooseTarget, PlayerID: 10, TargetID: 20})
	assert.True(t, hasTellContaining(events, 20, "asks you for a favor"))

	e.Apply(Action{Type: ActionChooseCardType, PlayerID: 20, Card: card.Skip})
	assert.Nil(t, room.Pending)
	assert.True(t, room.PlayerByID(10).HasCard(card.Skip))
	assert.Equal(t, []card.Type{card.Shuffle}, room.PlayerByID(20).Hand)
	assert.Equal(t, 1, room.Discarded)
	assert.Equal(t, 0, room.Current, "favor does not end the turn")
	requireConserved(t, room)
}

func TestFavorAutoResolvesSingleTargetSingleCard(t *testing.T) {
	t.Parallel()
	e, dir := testEngine(1)
	room := startParty(t, e, dir, 10, 20)
	rig(room, []card.Type{card.ExplodingKitten}, map[int64][]card.Type{
		10: {card.Favor},
		20: {card.Skip},
	})

	events := e.Apply(Action{Type: ActionPlayCard, PlayerID: 10, Card: card.Favor})
	assert.Nil(t, room.Pending, "only one target with one card, nothing to choose")
	assert.True(t, hasTellContaining(events, 10, "You received Skip"))
	assert.True(t, room.PlayerByID(10).HasCard(card.Skip))
	assert.Empty(t, room.PlayerByID(20).Hand)
	requireConserved(t, room)
}

func TestFavorWithoutTargetsBouncesBack(t *testing.T) {
	t.Parallel()
	e, dir := testEngine(1)
	room := startParty(t, e, dir, 10, 20)
	rig(room, []card.Type{card.ExplodingKitten}, map[int64][]card.Type{
		10: {card.Favor},
		20: {},
	})

	events := e.Apply(Action{Type: ActionPlayCard, PlayerID: 10, Card: card.Favor})
	assert.True(t, hasTellContaining(events, 10, "No player you can target"))
	assert.Nil(t, room.Pending)
	assert.True(t, room.PlayerByID(10).HasCard(card.Favor))
	assert.Equal(t, 0, room.Discarded)
	requireConserved(t, room)
}

func TestFavorTargetLeavingSurrendersACard(t *testing.T) {
	t.Parallel()
	e, dir := testEngine(1)
	room := startParty(t, e, dir, 10, 20, 30)
	rig(room, []card.Type{card.ExplodingKitten, card.ExplodingKitten, card.Skip}, map[int64][]card.Type{
		10: {card.Favor},
		20: {card.Skip, card.Shuffle},
		30: {card.Attack},
	})
	e.Apply(Action{Type: ActionPlayCard, PlayerID: 10, Card: card.Favor})
	e.Apply(Action{Type: ActionChooseTarget, PlayerID: 10, TargetID: 20})
	require.NotNil(t, room.Pending)

	events := e.Apply(Action{Type: ActionExit, PlayerID: 20})
	assert.Nil(t, room.Pending)
	assert.True(t, hasTellContaining(events, 10, "You received"))
	assert.Len(t, room.PlayerByID(10).Hand, 1)
	assert.Len(t, room.Players, 2)
	requireConserved(t, room)
}

func TestCatComboStealsBlind(t *testing.T) {
	t.Parallel()
	e, dir := testEngine(1)
	room := startParty(t, e, dir, 10, 20)
	rig(room, []card.Type{card.ExplodingKitten}, map[int64][]card.Type{
		10: {card.Tacocat, card.Tacocat, card.Skip},
		20: {card.Favor, card.Shuffle},
	})

	events := e.Apply(Action{Type: ActionPlayCard, PlayerID: 10, Card: card.Tacocat})
	require.NotNil(t, room.Pending)
	assert.Equal(t, StageChooseCombo, room.Pending.Stage)
	assert.True(t, hasTellContaining(events, 10, "How do you play"))

	events = e.Apply(Action{Type: ActionChooseCombo, PlayerID: 10, Size: 2})
	require.NotNil(t, room.Pending)
	assert.Equal(t, CatSteal, room.Pending.Mode)
	assert.True(t, hasTellContaining(events, 10, "Pick one of"))

	e.Apply(Action{Type: ActionChooseCardIndex, PlayerID: 10, Index: 1})
	assert.Nil(t, room.Pending)
	assert.True(t, room.PlayerByID(10).HasCard(card.Shuffle))
	assert.Equal(t, []card.Type{card.Favor}, room.PlayerByID(20).Hand)
	assert.Equal(t, 2, room.Discarded, "both combo cards are gone")
	requireConserved(t, room)
}

func TestCatComboRequestHit(t *testing.T) {
	t.Parallel()
	e, dir := testEngine(1)
	room := startParty(t, e, dir, 10, 20)
	rig(room, []card.Type{card.ExplodingKitten}, map[int64][]card.Type{
		10: {card.Tacocat, card.Tacocat, card.FeralCat},
		20: {card.Skip},
	})

	e.Apply(Action{Type: ActionPlayCard, PlayerID: 10, Card: card.Tacocat})
	events := e.Apply(Action{Type: ActionChooseCombo, PlayerID: 10, Size: 3})
	require.NotNil(t, room.Pending)
	assert.Equal(t, CatRequest, room.Pending.Mode)
	assert.Equal(t, 2, room.Pending.SpentSpecific, "specific copies are spent before wilds")
	assert.Equal(t, 1, room.Pending.SpentWild)
	assert.True(t, hasTellContaining(events, 10, "Name the card"))

	e.Apply(Action{Type: ActionChooseCardType, PlayerID: 10, Card: card.Skip})
	assert.Nil(t, room.Pending)
	assert.Equal(t, []card.Type{card.Skip}, room.PlayerByID(10).Hand)
	assert.Empty(t, room.PlayerByID(20).Hand)
	assert.Equal(t, 3, room.Discarded)
	requireConserved(t, room)
}

func TestCatComboRequestMiss(t *testing.T) {
	t.Parallel()
	e, dir := testEngine(1)
	room := startParty(t, e, dir, 10, 20)
	rig(room, []card.Type{card.ExplodingKitten}, map[int64][]card.Type{
		10: {card.Tacocat, card.Tacocat, card.Tacocat},
		20: {card.Skip},
	})

	e.Apply(Action{Type: ActionPlayCard, PlayerID: 10, Card: card.Tacocat})
	e.Apply(Action{Type: ActionChooseCombo, PlayerID: 10, Size: 3})
	events := e.Apply(Action{Type: ActionChooseCardType, PlayerID: 10, Card: card.Favor})

	assert.Nil(t, room.Pending)
	assert.True(t, hasBroadcastContaining(events, "got nothing"))
	assert.Equal(t, []card.Type{card.Skip}, room.PlayerByID(20).Hand, "a miss costs the combo anyway")
	assert.Equal(t, 3, room.Discarded)
	requireConserved(t, room)
}

func TestCatComboCancelRefunds(t *testing.T) {
	t.Parallel()
	e, dir := testEngine(1)
	room := startParty(t, e, dir, 10, 20)
	rig(room, []card.Type{card.ExplodingKitten}, map[int64][]card.Type{
		10: {card.Tacocat, card.FeralCat},
		20: {card.Skip},
	})

	e.Apply(Action{Type: ActionPlayCard, PlayerID: 10, Card: card.Tacocat})
	require.NotNil(t, room.Pending)

	e.Apply(Action{Type: ActionCancel, PlayerID: 10})
	assert.Nil(t, room.Pending)
	p := room.PlayerByID(10)
	assert.Len(t, p.Hand, 2)
	assert.True(t, p.HasCard(card.Tacocat))
	assert.True(t, p.HasCard(card.FeralCat))
	assert.Equal(t, 0, room.Discarded)
	requireConserved(t, room)
}

func TestCatComboWithoutTargetsRefunds(t *testing.T) {
	t.Parallel()
	e, dir := testEngine(1)
	room := startParty(t, e, dir, 10, 20)
	rig(room, []card.Type{card.ExplodingKitten}, map[int64][]card.Type{
		10: {card.Tacocat, card.Tacocat},
		20: {},
	})

	e.Apply(Action{Type: ActionPlayCard, PlayerID: 10, Card: card.Tacocat})
	events := e.Apply(Action{Type: ActionChooseCombo, PlayerID: 10, Size: 2})

	assert.True(t, hasTellContaining(events, 10, "No player you can target"))
	assert.Nil(t, room.Pending)
	assert.Len(t, room.PlayerByID(10).Hand, 2)
	assert.Equal(t, 0, room.Discarded)
	requireConserved(t, room)
}

func TestCatWithoutAMatchRejected(t *testing.T) {
	t.Parallel()
	e, dir := testEngine(1)
	room := startParty(t, e, dir, 10, 20)
	rig(room, []card.Type{card.ExplodingKitten}, map[int64][]card.Type{
		10: {card.Tacocat, card.Skip},
		20: {card.Favor},
	})

	events := e.Apply(Action{Type: ActionPlayCard, PlayerID: 10, Card: card.Tacocat})
	assert.True(t, hasTellContaining(events, 10, "Not enough matching cards"))
	assert.Nil(t, room.Pending)
	assert.Len(t, room.PlayerByID(10).Hand, 2)
	requireConserved(t, room)
}

func TestFeralCatsComboTogether(t *testing.T) {
	t.Parallel()
	e, dir := testEngine(1)
	room := startParty(t, e, dir, 10, 20)
	rig(room, []card.Type{card.ExplodingKitten}, map[int64][]card.Type{
		10: {card.FeralCat, card.FeralCat},
		20: {card.Skip},
	})

	e.Apply(Action{Type: ActionPlayCard, PlayerID: 10, Card: card.FeralCat})
	require.NotNil(t, room.Pending)

	// One target holding one card: the steal resolves without prompting.
	e.Apply(Action{Type: ActionChooseCombo, PlayerID: 10, Size: 2})
	assert.Nil(t, room.Pending)
	assert.True(t, room.PlayerByID(10).HasCard(card.Skip))
	requireConserved(t, room)
}

func TestAlterFutureConfirm(t *testing.T) {
	t.Parallel()
	e, dir := testEngine(1)
	room := startParty(t, e, dir, 10, 20)
	rig(room, []card.Type{card.ExplodingKitten, card.Favor, card.Shuffle, card.Skip}, map[int64][]card.Type{
		10: {card.AlterFuture},
		20: {},
	})

	events := e.Apply(Action{Type: ActionPlayCard, PlayerID: 10, Card: card.AlterFuture})
	require.NotNil(t, room.Pending)
	assert.Equal(t, 3, room.Pending.Window)
	assert.True(t, hasTellContaining(events, 10, "Choose the new top card"))

	// New order: Favor first, Skip second, the leftover Shuffle auto-fills.
	e.Apply(Action{Type: ActionChoosePosition, PlayerID: 10, Index: 2})
	events = e.Apply(Action{Type: ActionChoosePosition, PlayerID: 10, Index: 0})
	assert.Equal(t, StageConfirm, room.Pending.Stage)
	assert.True(t, hasTellContaining(events, 10, "Alter the future?"))

	e.Apply(Action{Type: ActionConfirm, PlayerID: 10, Confirm: true})
	assert.Nil(t, room.Pending)
	assert.Equal(t, []card.Type{card.Favor, card.Skip, card.Shuffle}, room.Deck.PeekTop(3))
	assert.Equal(t, 0, room.Current, "altering the future does not end the turn")
	assert.Equal(t, 1, room.Discarded)
	requireConserved(t, room)
}

func TestAlterFutureStartOver(t *testing.T) {
	t.Parallel()
	e, dir := testEngine(1)
	room := startParty(t, e, dir, 10, 20)
	rig(room, []card.Type{card.ExplodingKitten, card.Favor, card.Shuffle, card.Skip}, map[int64][]card.Type{
		10: {card.AlterFuture},
		20: {},
	})
	e.Apply(Action{Type: ActionPlayCard, PlayerID: 10, Card: card.AlterFuture})
	e.Apply(Action{Type: ActionChoosePosition, PlayerID: 10, Index: 2})
	e.Apply(Action{Type: ActionChoosePosition, PlayerID: 10, Index: 0})
	require.Equal(t, StageConfirm, room.Pending.Stage)

	events := e.Apply(Action{Type: ActionConfirm, PlayerID: 10, Confirm: false})
	require.NotNil(t, room.Pending)
	assert.Equal(t, StageSelect, room.Pending.Stage)
	assert.Empty(t, room.Pending.Selections)
	assert.True(t, hasTellContaining(events, 10, "Choose the new top card"))
	assert.Equal(t, []card.Type{card.Skip, card.Shuffle, card.Favor}, room.Deck.PeekTop(3), "nothing applied yet")
	requireConserved(t, room)
}

func TestAlterFutureShortDeck(t *testing.T) {
	t.Parallel()
	e, dir := testEngine(1)
	room := startParty(t, e, dir, 10, 20)
	rig(room, []card.Type{card.Skip}, map[int64][]card.Type{
		10: {card.AlterFuture},
		20: {card.Favor},
	})

	e.Apply(Action{Type: ActionPlayCard, PlayerID: 10, Card: card.AlterFuture})
	require.NotNil(t, room.Pending)
	assert.Equal(t, 1, room.Pending.Window)
	assert.Equal(t, StageConfirm, room.Pending.Stage, "a single card has only one order")

	e.Apply(Action{Type: ActionConfirm, PlayerID: 10, Confirm: true})
	assert.Nil(t, room.Pending)
	assert.Equal(t, []card.Type{card.Skip}, room.Deck.PeekTop(1))
	requireConserved(t, room)
}

func TestPendingGatesOtherActions(t *testing.T) {
	t.Parallel()
	e, dir := testEngine(1)
	room := startParty(t, e, dir, 10, 20, 30)
	rig(room, []card.Type{card.ExplodingKitten, card.ExplodingKitten, card.Skip}, map[int64][]card.Type{
		10: {card.Favor, card.Shuffle},
		20: {card.Skip, card.Attack},
		30: {card.Attack},
	})
	e.Apply(Action{Type: ActionPlayCard, PlayerID: 10, Card: card.Favor})
	e.Apply(Action{Type: ActionChooseTarget, PlayerID: 10, TargetID: 20})
	require.NotNil(t, room.Pending)

	// The owner cannot act while the effect waits on the target.
	events := e.Apply(Action{Type: ActionDraw, PlayerID: 10})
	assert.True(t, hasTellContaining(events, 10, "Wrong action"))

	// Nor can a bystander advance someone else's step.
	events = e.Apply(Action{Type: ActionChooseCardType, PlayerID: 30, Card: card.Attack})
	assert.True(t, hasTellContaining(events, 30, "Wrong action"))
	require.NotNil(t, room.Pending)

	// The re-prompt goes to whoever the effect is actually waiting on.
	events = e.Apply(Action{Type: ActionChooseCardType, PlayerID: 20, Card: card.Favor})
	assert.True(t, hasTellContaining(events, 20, "Card not found"))
	assert.True(t, hasTellContaining(events, 20, "Choose a card to give"))
	requireConserved(t, room)
}
