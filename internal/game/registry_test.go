package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/kittens/internal/randutil"
	"github.com/lox/kittens/internal/roomcode"
)

func TestRegistryCreateLookupDestroy(t *testing.T) {
	t.Parallel()
	r := NewRegistry(roomcode.NewGenerator(randutil.New(1)))
	mode := PartyMode()

	room := r.Create(mode, randutil.New(2))
	require.NoError(t, roomcode.Validate(room.Code))

	got, ok := r.Lookup(room.Code)
	require.True(t, ok)
	assert.Same(t, room, got)
	assert.Equal(t, 1, r.Len())

	r.Destroy(room.Code)
	_, ok = r.Lookup(room.Code)
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())

	// Destroying twice is fine.
	r.Destroy(room.Code)
}

func TestRegistryCodesAreUnique(t *testing.T) {
	t.Parallel()
	r := NewRegistry(roomcode.NewGenerator(randutil.New(1)))
	mode := PartyMode()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		room := r.Create(mode, randutil.New(int64(i)))
		assert.False(t, seen[room.Code])
		seen[room.Code] = true
	}
	assert.Equal(t, 100, r.Len())
}
