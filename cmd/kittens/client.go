package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/gorilla/websocket"

	"github.com/lox/kittens/cmd/kittens/shared"
	"github.com/lox/kittens/internal/game"
	"github.com/lox/kittens/internal/roomcode"
	"github.com/lox/kittens/internal/server"
)

// ClientCmd is a line-based interactive client. Prompts arrive with
// numbered choices; typing the number echoes the embedded action back.
type ClientCmd struct {
	Server string `kong:"default='ws://localhost:8080/ws',help='WebSocket server URL'"`
	Name   string `kong:"default='',help='Display name (defaults to $USER or \"Player\")'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
}

var (
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	choiceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("117"))
	handStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
)

func (c *ClientCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	name := strings.TrimSpace(c.Name)
	if name == "" {
		name = os.Getenv("USER")
	}
	if name == "" {
		name = "Player"
	}

	conn, _, err := websocket.DefaultDialer.Dial(strings.TrimSpace(c.Server), nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer func() { _ = conn.Close() }()
	logger.Debug("connected", "server", c.Server)

	session := &clientSession{conn: conn}
	if err := session.sendMessage(server.MessageTypeHello, server.HelloData{Name: name}); err != nil {
		return err
	}

	done := make(chan struct{})
	go session.readLoop(done)

	fmt.Println(noticeStyle.Render("Type a choice number, or: start, join <code>, draw, exit, quit"))

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		select {
		case <-done:
			return nil
		default:
		}
		if quit := session.handleInput(strings.TrimSpace(scanner.Text())); quit {
			return nil
		}
	}
	return scanner.Err()
}

// clientSession is the live connection state: the socket, a write lock and
// the choices offered by the most recent prompt.
type clientSession struct {
	conn *websocket.Conn

	writeMu sync.Mutex

	mu      sync.Mutex
	choices []game.Choice
}

func (s *clientSession) sendMessage(t server.MessageType, data interface{}) error {
	msg, err := server.NewMessage(t, data)
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(msg)
}

func (s *clientSession) sendAction(a game.Action) {
	if err := s.sendMessage(server.MessageTypeAction, a); err != nil {
		fmt.Println(errorStyle.Render("send failed: " + err.Error()))
	}
}

func (s *clientSession) setChoices(choices []game.Choice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.choices = choices
}

func (s *clientSession) takeChoice(n int) (game.Choice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 1 || n > len(s.choices) {
		return game.Choice{}, false
	}
	return s.choices[n-1], true
}

// handleInput processes one line of user input, returning true on quit.
func (s *clientSession) handleInput(line string) bool {
	if line == "" {
		return false
	}

	if n, err := strconv.Atoi(line); err == nil {
		choice, ok := s.takeChoice(n)
		if !ok {
			fmt.Println(errorStyle.Render("no such choice"))
			return false
		}
		s.sendAction(choice.Action)
		return false
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case "quit":
		s.sendAction(game.Action{Type: game.ActionExit})
		return true
	case "start":
		s.sendAction(game.Action{Type: game.ActionStart})
	case "draw":
		s.sendAction(game.Action{Type: game.ActionDraw})
	case "exit":
		s.sendAction(game.Action{Type: game.ActionExit})
	case "join":
		if len(fields) != 2 {
			fmt.Println(errorStyle.Render("usage: join <code>"))
			return false
		}
		if err := roomcode.Validate(fields[1]); err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			return false
		}
		s.sendAction(game.Action{Type: game.ActionJoin, Code: fields[1]})
	default:
		fmt.Println(errorStyle.Render("commands: start, join <code>, draw, exit, quit, or a choice number"))
	}
	return false
}

// readLoop renders server messages until the connection drops.
func (s *clientSession) readLoop(done chan<- struct{}) {
	defer close(done)
	var format game.EventFormatter

	for {
		var msg server.Message
		if err := s.conn.ReadJSON(&msg); err != nil {
			fmt.Println(noticeStyle.Render("disconnected"))
			return
		}

		switch msg.Type {
		case server.MessageTypeWelcome:
			var data server.WelcomeData
			if decode(msg, &data) {
				fmt.Println(noticeStyle.Render(fmt.Sprintf("Connected as %s", data.Name)))
			}

		case server.MessageTypeNotice:
			var data server.NoticeData
			if decode(msg, &data) {
				fmt.Println(noticeStyle.Render(data.Text))
			}

		case server.MessageTypeHand:
			var data server.HandData
			if decode(msg, &data) {
				fmt.Println(handStyle.Render(data.Text))
			}

		case server.MessageTypePrompt:
			var data server.PromptData
			if decode(msg, &data) {
				s.setChoices(data.Choices)
				fmt.Println(promptStyle.Render(data.Text))
				fmt.Println(choiceStyle.Render(format.FormatChoices(data.Choices)))
			}

		case server.MessageTypeError:
			var data server.ErrorData
			if decode(msg, &data) {
				fmt.Println(errorStyle.Render(data.Message))
			}
		}
	}
}

func decode(msg server.Message, v interface{}) bool {
	if err := msg.Decode(v); err != nil {
		fmt.Println(errorStyle.Render("bad message from server"))
		return false
	}
	return true
}
