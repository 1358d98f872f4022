package identity

import (
	"fmt"
	"sync"
	"testing"
)

func TestRegisterAndDisplayName(t *testing.T) {
	t.Parallel()
	d := NewDirectory()

	d.Register(1, "alice")
	if got := d.DisplayName(1); got != "alice" {
		t.Errorf("DisplayName = %q, want alice", got)
	}
	if !d.Known(1) || d.Known(2) {
		t.Error("Known reported wrong registration state")
	}

	// Re-registering refreshes the name.
	d.Register(1, "alice2")
	if got := d.DisplayName(1); got != "alice2" {
		t.Errorf("DisplayName after rename = %q, want alice2", got)
	}

	if got := d.DisplayName(99); got != "player 99" {
		t.Errorf("unknown player name = %q", got)
	}
}

func TestRoomPointer(t *testing.T) {
	t.Parallel()
	d := NewDirectory()
	d.Register(1, "alice")

	if _, ok := d.CurrentRoom(1); ok {
		t.Error("new player should not be in a room")
	}

	d.SetCurrentRoom(1, "123456")
	if code, ok := d.CurrentRoom(1); !ok || code != "123456" {
		t.Errorf("CurrentRoom = %q/%v, want 123456/true", code, ok)
	}

	d.ClearCurrentRoom(1)
	if _, ok := d.CurrentRoom(1); ok {
		t.Error("room pointer should be cleared")
	}

	// Pointers for unregistered players are ignored.
	d.SetCurrentRoom(2, "123456")
	if _, ok := d.CurrentRoom(2); ok {
		t.Error("unregistered player should have no room")
	}
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()
	d := NewDirectory()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int64) {
			defer wg.Done()
			d.Register(n, fmt.Sprintf("bot-%d", n))
			d.SetCurrentRoom(n, "111111")
			d.DisplayName(n)
			d.CurrentRoom(n)
			d.ClearCurrentRoom(n)
		}(int64(i))
	}
	wg.Wait()
}
