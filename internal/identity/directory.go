// Package identity tracks registered players and which room each one is in.
// It is shared process-wide state; every entry is only ever written by the
// room the player currently belongs to, but reads happen from any room.
package identity

import (
	"fmt"
	"sync"
)

type entry struct {
	name string
	room string
}

// Directory maps player ids to display names and current-room pointers.
type Directory struct {
	mu    sync.RWMutex
	users map[int64]*entry
}

// NewDirectory creates an empty directory.
func NewDirectory() *Directory {
	return &Directory{users: make(map[int64]*entry)}
}

// Register creates the player if unknown and refreshes the display name
// otherwise.
func (d *Directory) Register(id int64, name string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if e, ok := d.users[id]; ok {
		e.name = name
		return
	}
	d.users[id] = &entry{name: name}
}

// Known reports whether the player has registered.
func (d *Directory) Known(id int64) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.users[id]
	return ok
}

// DisplayName returns the player's name, or a placeholder for unknown ids.
func (d *Directory) DisplayName(id int64) string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if e, ok := d.users[id]; ok && e.name != "" {
		return e.name
	}
	return fmt.Sprintf("player %d", id)
}

// CurrentRoom returns the code of the room the player is in, if any.
func (d *Directory) CurrentRoom(id int64) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	e, ok := d.users[id]
	if !ok || e.room == "" {
		return "", false
	}
	return e.room, true
}

// SetCurrentRoom points the player at a room.
func (d *Directory) SetCurrentRoom(id int64, code string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if e, ok := d.users[id]; ok {
		e.room = code
	}
}

// ClearCurrentRoom removes the player's room pointer.
func (d *Directory) ClearCurrentRoom(id int64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if e, ok := d.users[id]; ok {
		e.room = ""
	}
}
