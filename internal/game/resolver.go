package game

import (
	"fmt"
	"strconv"

	"github.com/lox/kittens/internal/card"
)

// pendingPrompt rebuilds the prompt for the current stage of the pending
// action. It never mutates the room, so it doubles as the recovery prompt
// after a rejected action.
func (e *Engine) pendingPrompt(room *Room) []Event {
	p := room.Pending
	if p == nil {
		return nil
	}
	switch p.Kind {
	case PendingPlacement:
		return e.placementPrompt(room, p)
	case PendingAlterFuture:
		if p.Stage == StageConfirm {
			return e.alterConfirmPrompt(p)
		}
		return e.alterSelectPrompt(room, p)
	case PendingFavor:
		if p.Stage == StageChooseTarget {
			return e.targetPrompt(room, p, "Whom do you ask?")
		}
		return e.givePrompt(room, p)
	case PendingCat:
		switch p.Stage {
		case StageChooseCombo:
			return e.comboPrompt(room, p)
		case StageChooseTarget:
			return e.targetPrompt(room, p, "Whom do you target?")
		default:
			if p.Mode == CatSteal {
				return e.stealPrompt(room, p)
			}
			return e.requestPrompt(room, p)
		}
	}
	return nil
}

// choosePosition advances the two position-driven protocols: hiding a
// defused kitten, and picking the next card while altering the future.
func (e *Engine) choosePosition(room *Room, a Action) ([]Event, error) {
	p := room.Pending
	if p == nil || p.OwnerID != a.PlayerID {
		return nil, ErrWrongPendingAction
	}
	switch {
	case p.Kind == PendingPlacement && p.Stage == StagePlace:
		if a.Index < 0 || a.Index > room.Deck.Len() {
			return nil, ErrWrongPendingAction
		}
		return e.placeKitten(room, a.Index), nil

	case p.Kind == PendingAlterFuture && p.Stage == StageSelect:
		if a.Index < 0 || a.Index >= p.Window || p.selected(a.Index) {
			return nil, ErrWrongPendingAction
		}
		top := room.Deck.PeekTop(p.Window)
		p.Selections = append(p.Selections, Selection{Position: a.Index, Card: top[a.Index]})
		e.autoFillSelections(room)
		return e.pendingPrompt(room), nil
	}
	return nil, ErrWrongPendingAction
}

// autoFillSelections completes an alter-the-future ordering once only one
// slot is left unchosen, then moves to confirmation.
func (e *Engine) autoFillSelections(room *Room) {
	p := room.Pending
	if p == nil || p.Kind != PendingAlterFuture || p.Stage != StageSelect {
		return
	}
	if len(p.Selections) < p.Window-1 {
		return
	}
	top := room.Deck.PeekTop(p.Window)
	for pos := 0; pos < p.Window; pos++ {
		if !p.selected(pos) {
			p.Selections = append(p.Selections, Selection{Position: pos, Card: top[pos]})
		}
	}
	p.Stage = StageConfirm
}

// confirm applies or restarts an alter-the-future ordering. Declining resets
// the picks at any stage.
func (e *Engine) confirm(room *Room, a Action) ([]Event, error) {
	p := room.Pending
	if p == nil || p.Kind != PendingAlterFuture || p.OwnerID != a.PlayerID {
		return nil, ErrWrongPendingAction
	}
	if !a.Confirm {
		p.Selections = p.Selections[:0]
		p.Stage = StageSelect
		e.autoFillSelections(room)
		return e.pendingPrompt(room), nil
	}
	if p.Stage != StageConfirm || len(p.Selections) != p.Window {
		return nil, ErrWrongPendingAction
	}
	// Every window slot was picked exactly once, so rewriting in place is a
	// permutation of the same cards.
	for i, s := range p.Selections {
		room.Deck.SetFromTop(i, s.Card)
	}
	room.Pending = nil
	return []Event{
		Tell{PlayerID: a.PlayerID, Text: "The future was altered."},
		e.cardMenu(room),
	}, nil
}

// chooseCombo fixes the size of a cat combo: two cards to steal blind,
// three to request a card by name. The extra cards are spent here.
func (e *Engine) chooseCombo(room *Room, a Action) ([]Event, error) {
	p := room.Pending
	if p == nil || p.Kind != PendingCat || p.Stage != StageChooseCombo || p.OwnerID != a.PlayerID {
		return nil, ErrWrongPendingAction
	}
	if a.Size != 2 && a.Size != 3 {
		return nil, ErrWrongPendingAction
	}
	owner := room.PlayerByID(a.PlayerID)
	specific, wild := owner.CountMatching(p.CatType)
	if 1+specific+wild < a.Size {
		return nil, ErrInsufficientCards
	}

	for i := 0; i < a.Size-1; i++ {
		if owner.RemoveCard(p.CatType) {
			p.SpentSpecific++
		} else if removeWild(owner) {
			p.SpentWild++
		}
		room.Discarded++
	}
	if a.Size == 2 {
		p.Mode = CatSteal
	} else {
		p.Mode = CatRequest
	}
	p.Stage = StageChooseTarget

	targets := room.EligibleTargets(owner.ID)
	if len(targets) == 0 {
		// Nobody to target: the whole combo bounces back.
		for _, c := range p.spentCards() {
			owner.AddAtRandom(room.rng, c)
		}
		room.Discarded -= p.SpentSpecific + p.SpentWild
		room.Pending = nil
		return []Event{ShowHand{PlayerID: owner.ID, Hand: handCopy(owner)}}, ErrInvalidTarget
	}

	events := []Event{ShowHand{PlayerID: owner.ID, Hand: handCopy(owner)}}
	if len(targets) == 1 {
		more, err := e.chooseTarget(room, Action{Type: ActionChooseTarget, PlayerID: owner.ID, TargetID: targets[0].ID})
		return append(events, more...), err
	}
	return append(events, e.pendingPrompt(room)...), nil
}

func removeWild(p *Player) bool {
	for i, c := range p.Hand {
		if c.IsWild() {
			p.RemoveAt(i)
			return true
		}
	}
	return false
}

// cancel abandons a cat combo before its size was chosen and refunds the
// led card.
func (e *Engine) cancel(room *Room, a Action) ([]Event, error) {
	p := room.Pending
	if p == nil || p.Kind != PendingCat || p.Stage != StageChooseCombo || p.OwnerID != a.PlayerID {
		return nil, ErrWrongPendingAction
	}
	owner := room.PlayerByID(a.PlayerID)
	for _, c := range p.spentCards() {
		owner.AddAtRandom(room.rng, c)
	}
	room.Discarded -= p.SpentSpecific + p.SpentWild
	room.Pending = nil
	return []Event{
		ShowHand{PlayerID: owner.ID, Hand: handCopy(owner)},
		e.cardMenu(room),
	}, nil
}

// chooseTarget locks in the victim of a favor or cat combo. Single-card
// hands resolve immediately instead of prompting.
func (e *Engine) chooseTarget(room *Room, a Action) ([]Event, error) {
	p := room.Pending
	if p == nil || p.Stage != StageChooseTarget || p.OwnerID != a.PlayerID {
		return nil, ErrWrongPendingAction
	}
	target := room.PlayerByID(a.TargetID)
	if target == nil || !target.Alive || target.ID == p.OwnerID || len(target.Hand) == 0 {
		return nil, ErrInvalidTarget
	}
	p.TargetID = target.ID
	p.Stage = StageChooseCard
	name := e.dir.DisplayName(target.ID)

	switch p.Kind {
	case PendingFavor:
		events := []Event{e.broadcast(room, p.OwnerID, fmt.Sprintf("asked %s for a favor", name))}
		if len(target.Hand) == 1 {
			return append(events, e.giveFavorCard(room, target, target.Hand[0])...), nil
		}
		return append(events, e.pendingPrompt(room)...), nil

	case PendingCat:
		if p.Mode == CatSteal {
			events := []Event{e.broadcast(room, p.OwnerID, fmt.Sprintf("%s Stealing a card from %s.", catComboText(p), name))}
			if len(target.Hand) == 1 {
				return append(events, e.stealCard(room, 0)...), nil
			}
			return append(events, e.pendingPrompt(room)...), nil
		}
		events := []Event{e.broadcast(room, p.OwnerID, fmt.Sprintf("%s Asking %s for a card.", catComboText(p), name))}
		return append(events, e.pendingPrompt(room)...), nil
	}
	return nil, ErrWrongPendingAction
}

// chooseCardIndex resolves a blind steal: the owner picked one of the
// target's face-down cards.
func (e *Engine) chooseCardIndex(room *Room, a Action) ([]Event, error) {
	p := room.Pending
	if p == nil || p.Kind != PendingCat || p.Mode != CatSteal || p.Stage != StageChooseCard || p.OwnerID != a.PlayerID {
		return nil, ErrWrongPendingAction
	}
	target := room.PlayerByID(p.TargetID)
	if target == nil || len(target.Hand) == 0 {
		room.Pending = nil
		return nil, ErrInvalidTarget
	}
	if a.Index < 0 || a.Index >= len(target.Hand) {
		return nil, ErrWrongPendingAction
	}
	return e.stealCard(room, a.Index), nil
}

func (e *Engine) stealCard(room *Room, idx int) []Event {
	p := room.Pending
	owner := room.PlayerByID(p.OwnerID)
	target := room.PlayerByID(p.TargetID)
	room.Pending = nil

	c := target.RemoveAt(idx)
	owner.AddAtRandom(room.rng, c)
	return []Event{
		Tell{PlayerID: target.ID, Text: fmt.Sprintf("%s was stolen from you", c)},
		ShowHand{PlayerID: target.ID, Hand: handCopy(target)},
		Tell{PlayerID: owner.ID, Text: fmt.Sprintf("You stole %s", c)},
		ShowHand{PlayerID: owner.ID, Hand: handCopy(owner)},
		e.cardMenu(room),
	}
}

// chooseCardType resolves two protocols named by card type: the favor
// target picking what to give, and the requester naming what they want.
func (e *Engine) chooseCardType(room *Room, a Action) ([]Event, error) {
	p := room.Pending
	if p == nil || p.Stage != StageChooseCard {
		return nil, ErrWrongPendingAction
	}

	switch {
	case p.Kind == PendingFavor && a.PlayerID == p.TargetID:
		target := room.PlayerByID(p.TargetID)
		if target == nil || !a.Card.Valid() || !target.HasCard(a.Card) {
			return nil, ErrCardNotFound
		}
		return e.giveFavorCard(room, target, a.Card), nil

	case p.Kind == PendingCat && p.Mode == CatRequest && a.PlayerID == p.OwnerID:
		if !a.Card.Valid() || a.Card == card.ExplodingKitten {
			return nil, ErrCardNotFound
		}
		owner := room.PlayerByID(p.OwnerID)
		target := room.PlayerByID(p.TargetID)
		room.Pending = nil
		name := e.dir.DisplayName(p.TargetID)

		if target != nil && target.RemoveCard(a.Card) {
			owner.AddAtRandom(room.rng, a.Card)
			return []Event{
				e.broadcast(room, p.OwnerID, fmt.Sprintf("got %s from %s", a.Card, name)),
				ShowHand{PlayerID: target.ID, Hand: handCopy(target)},
				ShowHand{PlayerID: owner.ID, Hand: handCopy(owner)},
				e.cardMenu(room),
			}, nil
		}
		return []Event{
			e.broadcast(room, p.OwnerID, fmt.Sprintf("asked %s for %s and got nothing", name, a.Card)),
			e.cardMenu(room),
		}, nil
	}
	return nil, ErrWrongPendingAction
}

// giveFavorCard transfers the chosen card from the favor target to the
// owner and closes the favor.
func (e *Engine) giveFavorCard(room *Room, target *Player, c card.Type) []Event {
	p := room.Pending
	owner := room.PlayerByID(p.OwnerID)
	room.Pending = nil

	target.RemoveCard(c)
	owner.AddAtRandom(room.rng, c)
	return []Event{
		Tell{PlayerID: target.ID, Text: fmt.Sprintf("You gave %s", c)},
		ShowHand{PlayerID: target.ID, Hand: handCopy(target)},
		Tell{PlayerID: owner.ID, Text: fmt.Sprintf("You received %s", c)},
		ShowHand{PlayerID: owner.ID, Hand: handCopy(owner)},
		e.cardMenu(room),
	}
}

func catComboText(p *PendingAction) string {
	text := fmt.Sprintf("played %d %s", p.SpentSpecific, p.CatType)
	if p.SpentWild > 0 {
		text += fmt.Sprintf(" and %d %s", p.SpentWild, card.FeralCat)
	}
	return text + "."
}

// placementPrompt offers every deck position for the defused kitten,
// labelled by how many draws until it comes up.
func (e *Engine) placementPrompt(room *Room, p *PendingAction) []Event {
	n := room.Deck.Len()
	choices := make([]Choice, 0, n+1)
	choices = append(choices, Choice{Label: "Top", Action: Action{Type: ActionChoosePosition, Index: n}})
	for k := 2; k <= n; k++ {
		choices = append(choices, Choice{Label: strconv.Itoa(k), Action: Action{Type: ActionChoosePosition, Index: n + 1 - k}})
	}
	choices = append(choices, Choice{Label: "Bottom", Action: Action{Type: ActionChoosePosition, Index: 0}})
	return []Event{Tell{PlayerID: p.OwnerID, Text: "Where do you hide the Exploding Kitten?", Choices: choices}}
}

func (e *Engine) targetPrompt(room *Room, p *PendingAction, prompt string) []Event {
	targets := room.EligibleTargets(p.OwnerID)
	choices := make([]Choice, 0, len(targets))
	for _, t := range targets {
		choices = append(choices, Choice{
			Label:  fmt.Sprintf("%s (%s)", e.dir.DisplayName(t.ID), cardCountText(len(t.Hand))),
			Action: Action{Type: ActionChooseTarget, TargetID: t.ID},
		})
	}
	return []Event{Tell{PlayerID: p.OwnerID, Text: prompt, Choices: choices}}
}

func (e *Engine) givePrompt(room *Room, p *PendingAction) []Event {
	target := room.PlayerByID(p.TargetID)
	if target == nil {
		return nil
	}
	types := target.DistinctTypes()
	choices := make([]Choice, 0, len(types))
	for _, t := range types {
		choices = append(choices, Choice{Label: t.String(), Action: Action{Type: ActionChooseCardType, Card: t}})
	}
	text := fmt.Sprintf("%s asks you for a favor. Choose a card to give.", e.dir.DisplayName(p.OwnerID))
	return []Event{Tell{PlayerID: target.ID, Text: text, Choices: choices}}
}

func (e *Engine) stealPrompt(room *Room, p *PendingAction) []Event {
	target := room.PlayerByID(p.TargetID)
	if target == nil {
		return nil
	}
	choices := make([]Choice, 0, len(target.Hand))
	for i := range target.Hand {
		choices = append(choices, Choice{Label: strconv.Itoa(i + 1), Action: Action{Type: ActionChooseCardIndex, Index: i}})
	}
	text := fmt.Sprintf("Pick one of %s's cards.", e.dir.DisplayName(p.TargetID))
	return []Event{Tell{PlayerID: p.OwnerID, Text: text, Choices: choices}}
}

func (e *Engine) requestPrompt(room *Room, p *PendingAction) []Event {
	catalog := room.Mode.Catalog()
	choices := make([]Choice, 0, len(catalog))
	for _, t := range catalog {
		choices = append(choices, Choice{Label: t.String(), Action: Action{Type: ActionChooseCardType, Card: t}})
	}
	return []Event{Tell{PlayerID: p.OwnerID, Text: "Name the card you want.", Choices: choices}}
}

func (e *Engine) comboPrompt(room *Room, p *PendingAction) []Event {
	owner := room.PlayerByID(p.OwnerID)
	specific, wild := owner.CountMatching(p.CatType)

	choices := []Choice{{Label: "Use 2: steal a card", Action: Action{Type: ActionChooseCombo, Size: 2}}}
	if 1+specific+wild >= 3 {
		choices = append(choices, Choice{Label: "Use 3: request a card", Action: Action{Type: ActionChooseCombo, Size: 3}})
	}
	choices = append(choices, Choice{Label: "Cancel", Action: Action{Type: ActionCancel}})
	return []Event{Tell{PlayerID: p.OwnerID, Text: fmt.Sprintf("How do you play %s?", p.CatType), Choices: choices}}
}

func (e *Engine) alterSelectPrompt(room *Room, p *PendingAction) []Event {
	top := room.Deck.PeekTop(p.Window)
	text := "Choose the new top card:"
	if len(p.Selections) > 0 {
		text = "New order so far:"
		for i, s := range p.Selections {
			text += fmt.Sprintf("\n%d. %s", i+1, s.Card)
		}
		text += "\nChoose the next card:"
	}
	choices := make([]Choice, 0, p.Window)
	for pos := 0; pos < p.Window; pos++ {
		if !p.selected(pos) {
			choices = append(choices, Choice{Label: top[pos].String(), Action: Action{Type: ActionChoosePosition, Index: pos}})
		}
	}
	return []Event{Tell{PlayerID: p.OwnerID, Text: text, Choices: choices}}
}

func (e *Engine) alterConfirmPrompt(p *PendingAction) []Event {
	text := "New order:"
	for i, s := range p.Selections {
		text += fmt.Sprintf("\n%d. %s", i+1, s.Card)
	}
	text += "\nAlter the future?"
	return []Event{Tell{PlayerID: p.OwnerID, Text: text, Choices: []Choice{
		{Label: "Confirm", Action: Action{Type: ActionConfirm, Confirm: true}},
		{Label: "Start over", Action: Action{Type: ActionConfirm, Confirm: false}},
	}}}
}
