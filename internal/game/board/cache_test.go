package board_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/skirmish/internal/game/board"
)

func newCache(t *testing.T) *board.Cache {
	t.Helper()
	return board.NewCache(loadSmallBoard(t))
}

func TestCache_Occupancy(t *testing.T) {
	c := newCache(t)
	p := board.Position{X: 0, Y: 0}

	_, occupied := c.OccupantAt(p)
	assert.False(t, occupied)

	c.SetOccupant(p, "alice")
	id, occupied := c.OccupantAt(p)
	require.True(t, occupied)
	assert.Equal(t, "alice", id)

	to := board.Position{X: 1, Y: 0}
	c.MoveOccupant(p, to, "alice")
	_, occupied = c.OccupantAt(p)
	assert.False(t, occupied, "old tile must be vacated")
	id, occupied = c.OccupantAt(to)
	require.True(t, occupied)
	assert.Equal(t, "alice", id)

	c.ClearOccupant(to)
	_, occupied = c.OccupantAt(to)
	assert.False(t, occupied)
}

// TestCache_ToggleDoor_Identity verifies toggle-of-toggle restores the
// original door state, and that non-door tiles are silent no-ops.
func TestCache_ToggleDoor_Identity(t *testing.T) {
	c := newCache(t)
	door := board.Position{X: 2, Y: 1}

	kind, err := c.KindAt(door)
	require.NoError(t, err)
	require.Equal(t, board.TileDoorClosed, kind)

	open, toggled := c.ToggleDoor(door)
	require.True(t, toggled)
	assert.True(t, open)

	open, toggled = c.ToggleDoor(door)
	require.True(t, toggled)
	assert.False(t, open)

	kind, err = c.KindAt(door)
	require.NoError(t, err)
	assert.Equal(t, board.TileDoorClosed, kind, "double toggle is identity")

	// Non-door tile: no change, no error.
	_, toggled = c.ToggleDoor(board.Position{X: 0, Y: 0})
	assert.False(t, toggled)

	// Out of bounds: no change, no error.
	_, toggled = c.ToggleDoor(board.Position{X: -1, Y: 9})
	assert.False(t, toggled)
}

func TestCache_ToggleDoor_DoesNotMutateBoard(t *testing.T) {
	b := loadSmallBoard(t)
	c := board.NewCache(b)
	door := board.Position{X: 2, Y: 1}

	_, toggled := c.ToggleDoor(door)
	require.True(t, toggled)
	assert.Equal(t, board.TileDoorClosed, b.KindAt(door), "shared board must stay pristine")
}

func TestCache_Neighbors(t *testing.T) {
	c := newCache(t)

	corner := c.Neighbors(board.Position{X: 0, Y: 0})
	assert.Len(t, corner, 2)

	center := c.Neighbors(board.Position{X: 1, Y: 1})
	assert.Len(t, center, 4)
	for _, n := range center {
		assert.True(t, c.InBounds(n))
		assert.NotEqual(t, board.Position{X: 1, Y: 1}, n)
	}
}

func TestCache_Enterable(t *testing.T) {
	c := newCache(t)

	assert.True(t, c.Enterable(board.Position{X: 0, Y: 0}))
	assert.False(t, c.Enterable(board.Position{X: 1, Y: 1}), "wall")
	assert.False(t, c.Enterable(board.Position{X: 2, Y: 1}), "closed door")
	assert.True(t, c.Enterable(board.Position{X: 1, Y: 2}), "water is walkable")
	assert.False(t, c.Enterable(board.Position{X: -1, Y: 0}), "out of bounds")

	c.SetOccupant(board.Position{X: 0, Y: 0}, "bob")
	assert.False(t, c.Enterable(board.Position{X: 0, Y: 0}), "occupied")

	_, toggled := c.ToggleDoor(board.Position{X: 2, Y: 1})
	require.True(t, toggled)
	assert.True(t, c.Enterable(board.Position{X: 2, Y: 1}), "open door")
}

func TestCache_TeleportExit(t *testing.T) {
	c := newCache(t)
	a := board.Position{X: 2, Y: 2}
	b := board.Position{X: 0, Y: 3}

	exit, ok := c.TeleportExit(a)
	require.True(t, ok)
	assert.Equal(t, b, exit)

	exit, ok = c.TeleportExit(b)
	require.True(t, ok)
	assert.Equal(t, a, exit, "pairing wraps around")

	_, ok = c.TeleportExit(board.Position{X: 0, Y: 0})
	assert.False(t, ok, "not a teleport tile")
}

func TestCache_Objects(t *testing.T) {
	c := newCache(t)
	flagPos := board.Position{X: 3, Y: 0}

	obj, ok := c.ObjectAt(flagPos)
	require.True(t, ok)
	assert.Equal(t, board.ObjectFlag, obj.Kind)

	c.RemoveObject(flagPos)
	_, ok = c.ObjectAt(flagPos)
	assert.False(t, ok)

	c.PlaceObject(obj)
	got, ok := c.ObjectAt(flagPos)
	require.True(t, ok)
	assert.Equal(t, obj, got)
}
