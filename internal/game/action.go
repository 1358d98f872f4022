package game

import "github.com/lox/kittens/internal/card"

// ActionType identifies an inbound player action.
type ActionType string

const (
	ActionStart           ActionType = "start"
	ActionHost            ActionType = "host"
	ActionJoin            ActionType = "join"
	ActionStartGame       ActionType = "start_game"
	ActionCancelGame      ActionType = "cancel_game"
	ActionExit            ActionType = "exit"
	ActionDraw            ActionType = "draw"
	ActionPlayCard        ActionType = "play_card"
	ActionChoosePosition  ActionType = "choose_position"
	ActionChooseTarget    ActionType = "choose_target"
	ActionChooseCardIndex ActionType = "choose_card_index"
	ActionChooseCardType  ActionType = "choose_card_type"
	ActionChooseCombo     ActionType = "choose_combo"
	ActionConfirm         ActionType = "confirm"
	ActionCancel          ActionType = "cancel"
)

// Action is one inbound event from a player. Choice menus embed the exact
// Action the client echoes back, so unused fields stay zero.
type Action struct {
	Type     ActionType `json:"type"`
	PlayerID int64      `json:"player_id,omitempty"`
	Mode     string     `json:"mode,omitempty"`
	Code     string     `json:"code,omitempty"`
	Card     card.Type  `json:"card,omitempty"`
	Index    int        `json:"index"`
	TargetID int64      `json:"target_id,omitempty"`
	Size     int        `json:"size,omitempty"`
	Confirm  bool       `json:"confirm"`
}
