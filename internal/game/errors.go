package game

import "errors"

// Expected, locally recoverable failures. They are reported back to the
// acting player as a notification and never abort the room.
var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrNotInRoom           = errors.New("not in a room")
	ErrModeNotFound        = errors.New("mode not found")
	ErrRoomFull            = errors.New("room is full")
	ErrRoomAlreadyRunning  = errors.New("room is already running")
	ErrGameNotStarted      = errors.New("game has not started")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrCardNotFound        = errors.New("card not found")
	ErrWrongPendingAction  = errors.New("wrong pending action")
	ErrInvalidTarget       = errors.New("no valid target")
	ErrInsufficientCards   = errors.New("not enough matching cards")
	ErrInvalidCardForState = errors.New("card cannot be used now")
	ErrNotEnoughPlayers    = errors.New("not enough players")
	ErrNotHost             = errors.New("only the host can do that")
	ErrAlreadyInRoom       = errors.New("already in a room")
)

// errorText maps an expected error to the single clarifying message sent to
// the actor.
func errorText(err error) string {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return "Room not found."
	case errors.Is(err, ErrNotInRoom):
		return "Send start to begin."
	case errors.Is(err, ErrModeNotFound):
		return "Unknown game mode."
	case errors.Is(err, ErrRoomFull):
		return "The room is full."
	case errors.Is(err, ErrRoomAlreadyRunning):
		return "The game is already running."
	case errors.Is(err, ErrGameNotStarted):
		return "The game has not started yet."
	case errors.Is(err, ErrNotYourTurn):
		return "Wait for your turn."
	case errors.Is(err, ErrCardNotFound):
		return "Card not found"
	case errors.Is(err, ErrWrongPendingAction):
		return "Wrong action."
	case errors.Is(err, ErrInvalidTarget):
		return "No player you can target."
	case errors.Is(err, ErrInsufficientCards):
		return "Not enough matching cards."
	case errors.Is(err, ErrInvalidCardForState):
		return "You can't use this card"
	case errors.Is(err, ErrNotEnoughPlayers):
		return "Not enough players to start."
	case errors.Is(err, ErrNotHost):
		return "Only the host can do that."
	case errors.Is(err, ErrAlreadyInRoom):
		return "You are already in a room. Exit it first."
	default:
		return "Something went wrong."
	}
}
