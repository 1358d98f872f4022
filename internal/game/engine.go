package game

import (
	"fmt"
	"sync"
	"time"

	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/kittens/internal/card"
	"github.com/lox/kittens/internal/deck"
	"github.com/lox/kittens/internal/randutil"
	"github.com/lox/kittens/internal/roomcode"
)

// Directory resolves player identities and tracks which room each player is
// currently in. Implemented by identity.Directory.
type Directory interface {
	DisplayName(playerID int64) string
	CurrentRoom(playerID int64) (string, bool)
	SetCurrentRoom(playerID int64, code string)
	ClearCurrentRoom(playerID int64)
}

// Engine owns every room and applies player actions to them. It is safe for
// concurrent use: actions on different rooms proceed in parallel, actions on
// the same room are serialized by the room's lock.
type Engine struct {
	logger   *log.Logger
	dir      Directory
	registry *Registry

	modes     map[string]*Mode
	modeOrder []string

	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the seed source used to derive per-room generators.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithMode registers an additional game mode. Modes are offered in
// registration order.
func WithMode(m *Mode) Option {
	return func(e *Engine) { e.addMode(m) }
}

// NewEngine builds an engine with the party mode registered.
func NewEngine(dir Directory, logger *log.Logger, opts ...Option) *Engine {
	e := &Engine{
		logger: logger.WithPrefix("engine"),
		dir:    dir,
		modes:  make(map[string]*Mode),
	}
	e.addMode(PartyMode())
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = randutil.New(time.Now().UnixNano())
	}
	e.registry = NewRegistry(roomcode.NewGenerator(lockedSource{e}))
	return e
}

func (e *Engine) addMode(m *Mode) {
	if _, ok := e.modes[m.ID()]; !ok {
		e.modeOrder = append(e.modeOrder, m.ID())
	}
	e.modes[m.ID()] = m
}

// Registry exposes the room registry, mainly for the transport layer and
// tests.
func (e *Engine) Registry() *Registry { return e.registry }

// Modes returns the registered modes in offer order.
func (e *Engine) Modes() []*Mode {
	out := make([]*Mode, 0, len(e.modeOrder))
	for _, id := range e.modeOrder {
		out = append(out, e.modes[id])
	}
	return out
}

// lockedSource serializes room-code generation over the engine's shared
// seed generator.
type lockedSource struct{ e *Engine }

func (s lockedSource) IntN(n int) int {
	s.e.rngMu.Lock()
	defer s.e.rngMu.Unlock()
	return s.e.rng.IntN(n)
}

// newRoomRNG derives an independent generator for a single room so rooms
// never contend on a shared source.
func (e *Engine) newRoomRNG() *rand.Rand {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return randutil.New(e.rng.Int64())
}

// Apply runs one player action and returns the notifications it produced.
// Expected failures never escape: they are converted into a message to the
// actor plus a re-prompt of whatever the actor was supposed to be doing.
func (e *Engine) Apply(a Action) []Event {
	switch a.Type {
	case ActionStart:
		return e.start(a)
	case ActionHost:
		events, err := e.host(a)
		if err != nil {
			return e.errorEvents(nil, a.PlayerID, err)
		}
		return events
	case ActionJoin:
		return e.joinRoom(a)
	case ActionStartGame:
		return e.withRoom(a, e.startGame)
	case ActionCancelGame:
		return e.withRoom(a, e.cancelGame)
	case ActionExit:
		return e.withRoom(a, e.exit)
	case ActionDraw:
		return e.withRoom(a, func(room *Room, a Action) ([]Event, error) {
			return e.draw(room, a, false)
		})
	case ActionPlayCard:
		return e.withRoom(a, e.playCard)
	case ActionChoosePosition:
		return e.withRoom(a, e.choosePosition)
	case ActionChooseTarget:
		return e.withRoom(a, e.chooseTarget)
	case ActionChooseCardIndex:
		return e.withRoom(a, e.chooseCardIndex)
	case ActionChooseCardType:
		return e.withRoom(a, e.chooseCardType)
	case ActionChooseCombo:
		return e.withRoom(a, e.chooseCombo)
	case ActionConfirm:
		return e.withRoom(a, e.confirm)
	case ActionCancel:
		return e.withRoom(a, e.cancel)
	default:
		e.logger.Warn("unknown action", "type", a.Type, "player", a.PlayerID)
		return e.errorEvents(nil, a.PlayerID, ErrWrongPendingAction)
	}
}

// withRoom resolves the actor's current room, runs fn under the room lock
// and verifies card conservation afterwards.
func (e *Engine) withRoom(a Action, fn func(*Room, Action) ([]Event, error)) []Event {
	code, ok := e.dir.CurrentRoom(a.PlayerID)
	if !ok {
		return e.errorEvents(nil, a.PlayerID, ErrNotInRoom)
	}
	room, ok := e.registry.Lookup(code)
	if !ok {
		e.dir.ClearCurrentRoom(a.PlayerID)
		return e.errorEvents(nil, a.PlayerID, ErrNotInRoom)
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	events, err := fn(room, a)
	if err != nil {
		return append(events, e.errorEvents(room, a.PlayerID, err)...)
	}
	if cerr := room.conservationError(); cerr != nil {
		e.logger.Error("card conservation violated, aborting room", "room", room.Code, "err", cerr)
		events = append(events, e.destroyRoomLocked(room, "The game was aborted because of an internal error.")...)
	}
	return events
}

// errorEvents converts an expected error into the actor-facing message plus
// a recovery prompt so the actor is never left without buttons. The room may
// be nil; if given, its lock must be held.
func (e *Engine) errorEvents(room *Room, playerID int64, err error) []Event {
	events := []Event{Tell{PlayerID: playerID, Text: errorText(err)}}
	if room == nil || !room.Running {
		return events
	}
	if room.Pending != nil {
		if room.Pending.expects(playerID) {
			return append(events, e.pendingPrompt(room)...)
		}
		return events
	}
	if cp := room.CurrentPlayer(); cp != nil && cp.ID == playerID {
		events = append(events, e.cardMenu(room))
	}
	return events
}

func (e *Engine) broadcast(room *Room, actorID int64, text string) Event {
	return Broadcast{Code: room.Code, ActorID: actorID, Text: text, Recipients: room.MemberIDs()}
}

// destroyRoomLocked announces the end of the room, detaches every member
// and removes the room from the registry. Room lock must be held.
func (e *Engine) destroyRoomLocked(room *Room, text string) []Event {
	events := []Event{e.broadcast(room, 0, text)}
	for _, p := range room.Players {
		e.dir.ClearCurrentRoom(p.ID)
	}
	room.Running = false
	room.Pending = nil
	e.registry.Destroy(room.Code)
	e.logger.Info("room destroyed", "room", room.Code)
	return events
}

// start is the entry point: show the player their room, or offer to host.
func (e *Engine) start(a Action) []Event {
	if code, ok := e.dir.CurrentRoom(a.PlayerID); ok {
		if room, found := e.registry.Lookup(code); found {
			room.mu.Lock()
			defer room.mu.Unlock()
			text := fmt.Sprintf("You are in room %s. [%d/%d] players.", code, len(room.Players), room.Mode.MaxPlayers())
			if room.Running {
				return []Event{Tell{PlayerID: a.PlayerID, Text: text}}
			}
			p := room.PlayerByID(a.PlayerID)
			return []Event{Tell{PlayerID: a.PlayerID, Text: text, Choices: lobbyChoices(p != nil && p.Host)}}
		}
		e.dir.ClearCurrentRoom(a.PlayerID)
	}
	choices := make([]Choice, 0, len(e.modeOrder))
	for _, id := range e.modeOrder {
		m := e.modes[id]
		choices = append(choices, Choice{
			Label:  fmt.Sprintf("%s, up to %d players", m.Description(), m.MaxPlayers()),
			Action: Action{Type: ActionHost, Mode: id},
		})
	}
	return []Event{Tell{
		PlayerID: a.PlayerID,
		Text:     "Welcome to Exploding Kittens!\nHost a new game, or join one with its room code.",
		Choices:  choices,
	}}
}

func lobbyChoices(host bool) []Choice {
	choices := []Choice{{Label: "Start game", Action: Action{Type: ActionStartGame}}}
	if host {
		choices = append(choices, Choice{Label: "Cancel game", Action: Action{Type: ActionCancelGame}})
	}
	return choices
}

func (e *Engine) host(a Action) ([]Event, error) {
	if _, ok := e.dir.CurrentRoom(a.PlayerID); ok {
		return nil, ErrAlreadyInRoom
	}
	mode, ok := e.modes[a.Mode]
	if !ok {
		return nil, ErrModeNotFound
	}

	room := e.registry.Create(mode, e.newRoomRNG())
	room.mu.Lock()
	defer room.mu.Unlock()

	room.Players = append(room.Players, NewPlayer(a.PlayerID, true))
	e.dir.SetCurrentRoom(a.PlayerID, room.Code)
	e.logger.Info("room created", "room", room.Code, "mode", mode.ID(), "host", a.PlayerID)

	text := fmt.Sprintf("Room %s created. Share the code so others can join.\n[1/%d] players.", room.Code, mode.MaxPlayers())
	return []Event{Tell{PlayerID: a.PlayerID, Text: text, Choices: lobbyChoices(true)}}, nil
}

func (e *Engine) joinRoom(a Action) []Event {
	events, err := e.join(a)
	if err != nil {
		return e.errorEvents(nil, a.PlayerID, err)
	}
	return events
}

func (e *Engine) join(a Action) ([]Event, error) {
	if _, ok := e.dir.CurrentRoom(a.PlayerID); ok {
		return nil, ErrAlreadyInRoom
	}
	room, ok := e.registry.Lookup(a.Code)
	if !ok {
		return nil, ErrRoomNotFound
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	// The room may have been destroyed between lookup and lock.
	if _, still := e.registry.Lookup(a.Code); !still {
		return nil, ErrRoomNotFound
	}
	if room.Running {
		return nil, ErrRoomAlreadyRunning
	}
	if len(room.Players) >= room.Mode.MaxPlayers() {
		return nil, ErrRoomFull
	}

	room.Players = append(room.Players, NewPlayer(a.PlayerID, false))
	e.dir.SetCurrentRoom(a.PlayerID, room.Code)

	text := fmt.Sprintf("joined the room. [%d/%d] players.", len(room.Players), room.Mode.MaxPlayers())
	return []Event{
		e.broadcast(room, a.PlayerID, text),
		Tell{PlayerID: a.PlayerID, Text: "Waiting for the game to start.", Choices: lobbyChoices(false)},
	}, nil
}

// startGame deals the opening hands and opens the first turn. Any member
// may start the game once enough players joined.
func (e *Engine) startGame(room *Room, a Action) ([]Event, error) {
	if room.Running {
		return nil, ErrRoomAlreadyRunning
	}
	if len(room.Players) < 2 {
		return nil, ErrNotEnoughPlayers
	}
	n := len(room.Players)

	base := room.Mode.CardsFor(n)
	if len(base) < n*room.Mode.HandSize() {
		return nil, fmt.Errorf("mode %s has too few cards for %d players", room.Mode.ID(), n)
	}

	room.Running = true
	room.Deck = deck.New(base)
	room.Deck.Shuffle(room.rng)

	// Everyone starts with one Defuse; kittens and the remaining defuses
	// only enter the deck after the deal.
	for _, p := range room.Players {
		p.Hand = append(p.Hand[:0], card.Defuse)
		for i := 0; i < room.Mode.HandSize(); i++ {
			c, _ := room.Deck.Draw()
			p.Hand = append(p.Hand, c)
		}
		shuffleHand(room.rng, p.Hand)
	}
	room.Deck.Append(room.Mode.MissingCardsFor(n)...)
	room.Deck.Shuffle(room.rng)

	room.Current = 0
	room.TurnCredits = 1
	room.Discarded = 0
	room.TotalCards = room.Mode.TotalCardsFor(n)
	e.logger.Info("game started", "room", room.Code, "players", n)

	events := []Event{e.broadcast(room, a.PlayerID, fmt.Sprintf("started the game. [%d/%d] players.", n, room.Mode.MaxPlayers()))}
	for _, p := range room.Players {
		events = append(events, ShowHand{PlayerID: p.ID, Hand: handCopy(p)})
	}
	return append(events, e.announceTurn(room)...), nil
}

func shuffleHand(rng *rand.Rand, hand []card.Type) {
	rng.Shuffle(len(hand), func(i, j int) {
		hand[i], hand[j] = hand[j], hand[i]
	})
}

func handCopy(p *Player) []card.Type {
	out := make([]card.Type, len(p.Hand))
	copy(out, p.Hand)
	return out
}

// cancelGame tears down a lobby. Only the host may cancel, and only before
// the game starts.
func (e *Engine) cancelGame(room *Room, a Action) ([]Event, error) {
	if room.Running {
		return nil, ErrRoomAlreadyRunning
	}
	p := room.PlayerByID(a.PlayerID)
	if p == nil || !p.Host {
		return nil, ErrNotHost
	}
	return e.destroyRoomLocked(room, "Game cancelled by the host. Send start to play a new game."), nil
}

// checkEndGame ends the room once fewer than two players remain alive.
func (e *Engine) checkEndGame(room *Room) ([]Event, bool) {
	if room.AliveCount() >= 2 {
		return nil, false
	}
	var events []Event
	if winner := room.LastAlive(); winner != nil {
		events = append(events, e.broadcast(room, winner.ID, "won the game \U0001F451\U0001F451\U0001F408"))
	} else {
		events = append(events, e.broadcast(room, 0, "Everyone exploded. The game is a draw."))
	}
	return append(events, e.destroyRoomLocked(room, "Game ended. Send start to play a new game.")...), true
}

// draw takes the next card. Drawing ends the turn unless the card is an
// Exploding Kitten, which must be defused or suffered first.
func (e *Engine) draw(room *Room, a Action, fromBottom bool) ([]Event, error) {
	if !room.Running {
		return nil, ErrGameNotStarted
	}
	if room.Pending != nil {
		return nil, ErrWrongPendingAction
	}
	cp := room.CurrentPlayer()
	if cp == nil || cp.ID != a.PlayerID {
		return nil, ErrNotYourTurn
	}
	// A drawn kitten must be defused or suffered before anything else.
	if cp.HasCard(card.ExplodingKitten) {
		return nil, ErrWrongPendingAction
	}

	var c card.Type
	var ok bool
	if fromBottom {
		c, ok = room.Deck.DrawBottom()
	} else {
		c, ok = room.Deck.Draw()
	}
	if !ok {
		return nil, fmt.Errorf("draw from empty deck in room %s", room.Code)
	}
	cp.AddAtRandom(room.rng, c)

	events := []Event{Tell{PlayerID: cp.ID, Text: fmt.Sprintf("You drew %s", c)}}
	if c == card.ExplodingKitten {
		events = append(events, e.broadcast(room, cp.ID, "drew an Exploding Kitten \U0001F4A3"))
		if cp.HasCard(card.Defuse) {
			events = append(events, Tell{PlayerID: cp.ID, Text: "Do you want to defuse it?", Choices: []Choice{
				{Label: "Defuse", Action: Action{Type: ActionPlayCard, Card: card.Defuse}},
				{Label: "Explode", Action: Action{Type: ActionPlayCard, Card: card.ExplodingKitten}},
			}})
			return events, nil
		}
		more, err := e.playCard(room, Action{Type: ActionPlayCard, PlayerID: cp.ID, Card: card.ExplodingKitten})
		return append(events, more...), err
	}

	events = append(events,
		e.broadcast(room, cp.ID, "drew a card"),
		ShowHand{PlayerID: cp.ID, Hand: handCopy(cp)},
	)
	return append(events, e.endTurn(room, 1)...), nil
}

// playCard removes the named card from the current player's hand and applies
// its effect. Cards that turn out to be unplayable are put back before the
// error is reported.
func (e *Engine) playCard(room *Room, a Action) ([]Event, error) {
	if !room.Running {
		return nil, ErrGameNotStarted
	}
	if room.Pending != nil {
		return nil, ErrWrongPendingAction
	}
	cp := room.CurrentPlayer()
	if cp == nil || cp.ID != a.PlayerID {
		return nil, ErrNotYourTurn
	}
	if cp.HasCard(card.ExplodingKitten) && a.Card != card.Defuse && a.Card != card.ExplodingKitten {
		return nil, ErrInvalidCardForState
	}
	idx := cp.CardIndex(a.Card)
	if idx < 0 {
		return nil, ErrCardNotFound
	}
	played := cp.RemoveAt(idx)

	switch {
	case played == card.ExplodingKitten:
		return e.explode(room, cp)
	case played == card.Defuse:
		return e.playDefuse(room, cp)
	case played == card.Attack:
		room.Discarded++
		events := []Event{
			e.broadcast(room, cp.ID, "played an Attack ⚔️"),
			ShowHand{PlayerID: cp.ID, Hand: handCopy(cp)},
		}
		return append(events, e.endTurn(room, card.AttackTurns)...), nil
	case played == card.Skip:
		room.Discarded++
		events := []Event{
			e.broadcast(room, cp.ID, "played Skip"),
			ShowHand{PlayerID: cp.ID, Hand: handCopy(cp)},
		}
		return append(events, e.endTurn(room, 1)...), nil
	case played == card.SeeFuture:
		room.Discarded++
		events := []Event{
			e.broadcast(room, cp.ID, "played See the future \U0001F52E"),
			ShowHand{PlayerID: cp.ID, Hand: handCopy(cp)},
			Tell{PlayerID: cp.ID, Text: futureText(room.Deck.PeekTop(card.FutureWindow))},
			e.cardMenu(room),
		}
		return events, nil
	case played == card.AlterFuture:
		return e.playAlterFuture(room, cp)
	case played == card.Shuffle:
		room.Discarded++
		room.Deck.Shuffle(room.rng)
		events := []Event{
			e.broadcast(room, cp.ID, "played Shuffle \U0001F500"),
			ShowHand{PlayerID: cp.ID, Hand: handCopy(cp)},
			e.cardMenu(room),
		}
		return events, nil
	case played == card.DrawBottom:
		room.Discarded++
		events := []Event{
			e.broadcast(room, cp.ID, "played Draw from the bottom"),
			ShowHand{PlayerID: cp.ID, Hand: handCopy(cp)},
		}
		more, err := e.draw(room, a, true)
		return append(events, more...), err
	case played == card.Favor:
		return e.playFavor(room, cp)
	case played.IsCat():
		return e.playCat(room, cp, played)
	default:
		cp.AddAtRandom(room.rng, played)
		return nil, ErrInvalidCardForState
	}
}

func futureText(top []card.Type) string {
	text := "Top of the deck:"
	for i, c := range top {
		text += fmt.Sprintf("\n%d. %s", i+1, c)
	}
	return text
}

// explode eliminates the current player. Their remaining hand is discarded
// with them.
func (e *Engine) explode(room *Room, cp *Player) ([]Event, error) {
	room.Discarded += 1 + len(cp.Hand)
	cp.Hand = nil
	cp.Alive = false
	e.logger.Info("player exploded", "room", room.Code, "player", cp.ID)

	events := []Event{e.broadcast(room, cp.ID, "exploded \U0001F4A5\U0001F4A5\U0001F4A5")}
	if endEvents, over := e.checkEndGame(room); over {
		return append(events, endEvents...), nil
	}
	return append(events, e.endTurn(room, 1)...), nil
}

// playDefuse discards a Defuse together with a held Exploding Kitten and
// asks the player where to hide the kitten in the deck.
func (e *Engine) playDefuse(room *Room, cp *Player) ([]Event, error) {
	kitten := cp.CardIndex(card.ExplodingKitten)
	if kitten < 0 {
		cp.AddAtRandom(room.rng, card.Defuse)
		return nil, ErrInvalidCardForState
	}
	cp.RemoveAt(kitten)
	room.Discarded++ // the defuse; the kitten stays in flight until placed
	room.Pending = &PendingAction{Kind: PendingPlacement, Stage: StagePlace, OwnerID: cp.ID}

	events := []Event{
		e.broadcast(room, cp.ID, "defused the Exploding Kitten \U0001F63C"),
		ShowHand{PlayerID: cp.ID, Hand: handCopy(cp)},
	}

	// Nothing to choose when every remaining deck card is a kitten.
	if room.Deck.Count(card.ExplodingKitten) == room.Deck.Len() {
		return append(events, e.placeKitten(room, 0)...), nil
	}
	return append(events, e.pendingPrompt(room)...), nil
}

// placeKitten reinserts the defused kitten at the chosen deck position and
// ends the turn. Position 0 is the bottom, Deck.Len() the top.
func (e *Engine) placeKitten(room *Room, pos int) []Event {
	ownerID := room.Pending.OwnerID
	room.Deck.InsertAt(pos, card.ExplodingKitten)
	room.Pending = nil
	events := []Event{e.broadcast(room, ownerID, "put the Exploding Kitten back into the deck")}
	return append(events, e.endTurn(room, 1)...)
}

// playAlterFuture opens the reordering protocol over the top of the deck.
func (e *Engine) playAlterFuture(room *Room, cp *Player) ([]Event, error) {
	window := card.FutureWindow
	if n := room.Deck.Len(); n < window {
		window = n
	}
	if window == 0 {
		cp.AddAtRandom(room.rng, card.AlterFuture)
		return nil, ErrInvalidCardForState
	}
	room.Discarded++
	room.Pending = &PendingAction{Kind: PendingAlterFuture, Stage: StageSelect, OwnerID: cp.ID, Window: window}
	e.autoFillSelections(room)

	events := []Event{
		e.broadcast(room, cp.ID, "played Alter the future \U0001F52E"),
		ShowHand{PlayerID: cp.ID, Hand: handCopy(cp)},
	}
	return append(events, e.pendingPrompt(room)...), nil
}

// playFavor asks another player to hand over a card of their choice.
func (e *Engine) playFavor(room *Room, cp *Player) ([]Event, error) {
	targets := room.EligibleTargets(cp.ID)
	if len(targets) == 0 {
		cp.AddAtRandom(room.rng, card.Favor)
		return nil, ErrInvalidTarget
	}
	room.Discarded++
	room.Pending = &PendingAction{Kind: PendingFavor, Stage: StageChooseTarget, OwnerID: cp.ID}

	events := []Event{
		e.broadcast(room, cp.ID, "played Favor \U0001F64F"),
		ShowHand{PlayerID: cp.ID, Hand: handCopy(cp)},
	}
	if len(targets) == 1 {
		more, err := e.chooseTarget(room, Action{Type: ActionChooseTarget, PlayerID: cp.ID, TargetID: targets[0].ID})
		return append(events, more...), err
	}
	return append(events, e.pendingPrompt(room)...), nil
}

// playCat opens a cat combo. The combo size (two to steal blind, three to
// request by name) is chosen in the next step; until then only the led card
// is committed.
func (e *Engine) playCat(room *Room, cp *Player, played card.Type) ([]Event, error) {
	specific, wild := cp.CountMatching(played)
	if specific+wild+1 < 2 {
		cp.AddAtRandom(room.rng, played)
		return nil, ErrInsufficientCards
	}
	room.Discarded++
	room.Pending = &PendingAction{
		Kind:          PendingCat,
		Stage:         StageChooseCombo,
		OwnerID:       cp.ID,
		CatType:       played,
		SpentSpecific: 1,
	}

	events := []Event{
		e.broadcast(room, cp.ID, fmt.Sprintf("is playing %s \U0001F431", played)),
		ShowHand{PlayerID: cp.ID, Hand: handCopy(cp)},
	}
	return append(events, e.pendingPrompt(room)...), nil
}
