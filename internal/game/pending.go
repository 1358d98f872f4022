package game

import "github.com/lox/kittens/internal/card"

// PendingKind identifies which multi-step card effect is in flight.
type PendingKind string

const (
	PendingAlterFuture PendingKind = "alter_future"
	PendingFavor       PendingKind = "favor"
	PendingCat         PendingKind = "cat"
	PendingPlacement   PendingKind = "kitten_placement"
)

// PendingStage identifies the next step the designated actor must take.
type PendingStage string

const (
	StageChooseCombo  PendingStage = "choose_combo"
	StageChooseTarget PendingStage = "choose_target"
	StageChooseCard   PendingStage = "choose_card"
	StageSelect       PendingStage = "select"
	StageConfirm      PendingStage = "confirm"
	StagePlace        PendingStage = "place"
)

// CatMode distinguishes the two cat combos.
type CatMode string

const (
	CatSteal   CatMode = "steal"
	CatRequest CatMode = "request"
)

// Selection is one alter-the-future pick: the offset from the top of the
// deck and the card that was there when it was picked.
type Selection struct {
	Position int       `json:"position"`
	Card     card.Type `json:"card"`
}

// PendingAction is the live multi-step resolution state for a card whose
// effect spans several inbound events. At most one is live per room; it
// gates which actions are legal until it resolves.
type PendingAction struct {
	Kind    PendingKind  `json:"kind"`
	Stage   PendingStage `json:"stage"`
	OwnerID int64        `json:"owner_id"`

	// Favor and cat combos.
	TargetID int64 `json:"target_id,omitempty"`

	// Cat combo bookkeeping: the specific variant played, the chosen combo
	// mode, and how many specific/wild cards have been spent so far.
	CatType       card.Type `json:"cat_type,omitempty"`
	Mode          CatMode   `json:"mode,omitempty"`
	SpentSpecific int       `json:"spent_specific,omitempty"`
	SpentWild     int       `json:"spent_wild,omitempty"`

	// Alter-the-future: how many top cards the window covers and the picks
	// made so far, in new top-to-bottom order.
	Window     int         `json:"window,omitempty"`
	Selections []Selection `json:"selections,omitempty"`
}

// expects reports whether the given player may advance the pending action at
// its current stage. The favor give step is the only one advanced by the
// target rather than the owner.
func (p *PendingAction) expects(playerID int64) bool {
	if p.Kind == PendingFavor && p.Stage == StageChooseCard {
		return p.TargetID == playerID
	}
	return p.OwnerID == playerID
}

// selected reports whether a deck offset is already part of the selections.
func (p *PendingAction) selected(pos int) bool {
	for _, s := range p.Selections {
		if s.Position == pos {
			return true
		}
	}
	return false
}

// spentCards returns the cards consumed by a cat combo so far, specific
// variants first, for refunds.
func (p *PendingAction) spentCards() []card.Type {
	out := make([]card.Type, 0, p.SpentSpecific+p.SpentWild)
	for i := 0; i < p.SpentSpecific; i++ {
		out = append(out, p.CatType)
	}
	for i := 0; i < p.SpentWild; i++ {
		out = append(out, card.FeralCat)
	}
	return out
}
