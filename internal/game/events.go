package game

import (
	"fmt"
	"strings"

	"github.com/lox/kittens/internal/card"
)

// EventType represents an outbound event type.
type EventType string

const (
	EventTypeTell      EventType = "tell"
	EventTypeBroadcast EventType = "broadcast"
	EventTypeShowHand  EventType = "show_hand"
	EventTypeMenu      EventType = "menu"
)

// String returns the string representation of the event type.
func (et EventType) String() string { return string(et) }

// Event is one outbound notification request. Events are observational: the
// room state already reflects the transition by the time they are emitted.
type Event interface {
	EventType() EventType
}

// Choice is one selectable option attached to a prompt. The transport echoes
// the embedded action back verbatim when the player picks it.
type Choice struct {
	Label  string `json:"label"`
	Action Action `json:"action"`
}

// Tell carries a private message to one player, optionally with choices.
type Tell struct {
	PlayerID int64
	Text     string
	Choices  []Choice
}

func (e Tell) EventType() EventType { return EventTypeTell }

// Broadcast carries a message for every recipient in a room. When ActorID is
// set the notifier prefixes the actor's display name. Recipients are captured
// at emit time so delivery survives room destruction.
type Broadcast struct {
	Code       string
	ActorID    int64
	Text       string
	Recipients []int64
}

func (e Broadcast) EventType() EventType { return EventTypeBroadcast }

// ShowHand asks the notifier to render the player's current hand.
type ShowHand struct {
	PlayerID int64
	Hand     []card.Type
}

func (e ShowHand) EventType() EventType { return EventTypeShowHand }

// Menu prompts one player with their next legal moves.
type Menu struct {
	PlayerID int64
	Prompt   string
	Choices  []Choice
}

func (e Menu) EventType() EventType { return EventTypeMenu }

// EventFormatter renders events into plain text for transports that speak
// lines rather than structured payloads.
type EventFormatter struct{}

// FormatHand renders a hand as grouped counts, one card type per line.
func (EventFormatter) FormatHand(hand []card.Type) string {
	if len(hand) == 0 {
		return "You don't have cards"
	}

	counts := make(map[card.Type]int, len(hand))
	for _, c := range hand {
		counts[c]++
	}

	var b strings.Builder
	b.WriteString("You have:\n")
	for _, t := range card.Types() {
		if n := counts[t]; n > 0 {
			fmt.Fprintf(&b, "%d %s\n", n, t)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatChoices renders a numbered choice list.
func (EventFormatter) FormatChoices(choices []Choice) string {
	var b strings.Builder
	for i, c := range choices {
		fmt.Fprintf(&b, "  [%d] %s\n", i+1, c.Label)
	}
	return strings.TrimRight(b.String(), "\n")
}

// cardCountText pluralises a card count, matching the room announcements.
func cardCountText(n int) string {
	if n == 1 {
		return "1 card"
	}
	return fmt.Sprintf("%d cards", n)
}

func turnCountText(n int) string {
	if n == 1 {
		return "1 turn"
	}
	return fmt.Sprintf("%d turns", n)
}
