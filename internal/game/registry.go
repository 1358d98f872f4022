package game

import (
	"fmt"
	rand "math/rand/v2"
	"sync"

	"github.com/lox/kittens/internal/roomcode"
)

// maxCodeAttempts bounds the collision retry loop. With a 900k code space
// and far fewer live rooms, hitting it means the generator is broken.
const maxCodeAttempts = 1_000_000

// Registry owns the room collection. It is the only structure shared across
// rooms and serializes create, lookup and destroy.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	codes *roomcode.Generator
}

// NewRegistry creates an empty registry using the given code generator.
func NewRegistry(codes *roomcode.Generator) *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
		codes: codes,
	}
}

// Create makes a new lobby room under a code not currently in use.
func (r *Registry) Create(mode *Mode, rng *rand.Rand) *Room {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := 0; i < maxCodeAttempts; i++ {
		code := r.codes.Generate()
		if _, taken := r.rooms[code]; taken {
			continue
		}
		room := NewRoom(code, mode, rng)
		r.rooms[code] = room
		return room
	}
	panic(fmt.Sprintf("room code generation failed after %d attempts", maxCodeAttempts))
}

// Lookup returns the room with the given code.
func (r *Registry) Lookup(code string) (*Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[code]
	return room, ok
}

// Destroy removes the room. Idempotent on unknown codes.
func (r *Registry) Destroy(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, code)
}

// Len returns the number of live rooms.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
