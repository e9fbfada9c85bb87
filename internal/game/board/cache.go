package board

import "fmt"

// Cache is the per-session spatial index over one board: mutable door
// state, tile occupancy, and placed objects, all with O(1) lookup.
//
// Cache is NOT safe for concurrent use on its own. All callers mutate it
// while holding the owning session's lock, which serializes every timer
// and command targeting the session.
type Cache struct {
	size      int
	tiles     [][]TileKind
	occupants map[Position]string
	objects   map[Position]Object
	teleports []Position
}

// NewCache builds a Cache from a validated board. The board's tile grid is
// copied so door toggles never leak into the shared Board.
//
// Precondition: b must be non-nil and validated.
func NewCache(b *Board) *Cache {
	tiles := make([][]TileKind, len(b.Tiles))
	var teleports []Position
	for y, row := range b.Tiles {
		tiles[y] = make([]TileKind, len(row))
		copy(tiles[y], row)
		for x, kind := range row {
			if kind == TileTeleport {
				teleports = append(teleports, Position{X: x, Y: y})
			}
		}
	}

	objects := make(map[Position]Object, len(b.Objects))
	for _, obj := range b.Objects {
		objects[obj.Pos] = obj
	}

	return &Cache{
		size:      b.Size,
		tiles:     tiles,
		occupants: make(map[Position]string),
		objects:   objects,
		teleports: teleports,
	}
}

// InBounds reports whether p lies on the board.
func (c *Cache) InBounds(p Position) bool {
	return p.X >= 0 && p.X < c.size && p.Y >= 0 && p.Y < c.size
}

// KindAt returns the current tile kind at p, reflecting door toggles.
//
// Postcondition: Returns an error only for out-of-bounds positions.
func (c *Cache) KindAt(p Position) (TileKind, error) {
	if !c.InBounds(p) {
		return 0, fmt.Errorf("position %s is out of bounds", p)
	}
	return c.tiles[p.Y][p.X], nil
}

// OccupantAt returns the player occupying p.
//
// Postcondition: Returns (id, true) if occupied, or ("", false) otherwise.
func (c *Cache) OccupantAt(p Position) (string, bool) {
	id, ok := c.occupants[p]
	return id, ok
}

// SetOccupant records playerID as the occupant of p.
//
// Precondition: p must be in bounds and unoccupied.
func (c *Cache) SetOccupant(p Position, playerID string) {
	c.occupants[p] = playerID
}

// ClearOccupant removes any occupant record at p.
func (c *Cache) ClearOccupant(p Position) {
	delete(c.occupants, p)
}

// MoveOccupant relocates playerID from one tile to another.
//
// Precondition: playerID currently occupies from.
// Postcondition: from is vacant and to is occupied by playerID.
func (c *Cache) MoveOccupant(from, to Position, playerID string) {
	delete(c.occupants, from)
	c.occupants[to] = playerID
}

// ObjectAt returns the placed object at p, if any.
func (c *Cache) ObjectAt(p Position) (Object, bool) {
	obj, ok := c.objects[p]
	return obj, ok
}

// RemoveObject deletes the object at p (e.g. a picked-up flag).
func (c *Cache) RemoveObject(p Position) {
	delete(c.objects, p)
}

// PlaceObject records obj at obj.Pos (e.g. a dropped flag).
func (c *Cache) PlaceObject(obj Object) {
	c.objects[obj.Pos] = obj
}

// FindObject returns the position of the first object of the given kind.
// The scan order is unspecified; boards carry at most one flag, which is
// the kind this is used for.
//
// Postcondition: Returns (pos, true) if such an object exists.
func (c *Cache) FindObject(kind ObjectKind) (Position, bool) {
	for pos, obj := range c.objects {
		if obj.Kind == kind {
			return pos, true
		}
	}
	return Position{}, false
}

// ToggleDoor flips the door at p between open and closed.
//
// Any non-door tile kind or out-of-bounds position is a silent no-op, by
// policy, not an error.
//
// Postcondition: Returns (open, true) with the new state when a door was
// toggled, or (false, false) when nothing changed.
func (c *Cache) ToggleDoor(p Position) (open bool, toggled bool) {
	kind, err := c.KindAt(p)
	if err != nil {
		return false, false
	}
	switch kind {
	case TileDoorClosed:
		c.tiles[p.Y][p.X] = TileDoorOpen
		return true, true
	case TileDoorOpen:
		c.tiles[p.Y][p.X] = TileDoorClosed
		return false, true
	default:
		return false, false
	}
}

// Neighbors returns the orthogonally adjacent in-bounds positions of p in
// up, down, left, right order.
func (c *Cache) Neighbors(p Position) []Position {
	candidates := [4]Position{
		{X: p.X, Y: p.Y - 1},
		{X: p.X, Y: p.Y + 1},
		{X: p.X - 1, Y: p.Y},
		{X: p.X + 1, Y: p.Y},
	}
	neighbors := make([]Position, 0, 4)
	for _, cand := range candidates {
		if c.InBounds(cand) {
			neighbors = append(neighbors, cand)
		}
	}
	return neighbors
}

// Enterable reports whether a player may step onto p right now: in bounds,
// a walkable tile kind, and unoccupied.
func (c *Cache) Enterable(p Position) bool {
	kind, err := c.KindAt(p)
	if err != nil || !kind.Walkable() {
		return false
	}
	_, occupied := c.OccupantAt(p)
	return !occupied
}

// TeleportExit returns the destination for a player entering the teleport
// at p: the next teleport tile in row-major order, wrapping around.
//
// Postcondition: Returns (exit, true) when p is a teleport and the board
// has at least two, or (Position{}, false) otherwise.
func (c *Cache) TeleportExit(p Position) (Position, bool) {
	if len(c.teleports) < 2 {
		return Position{}, false
	}
	for i, tp := range c.teleports {
		if tp == p {
			return c.teleports[(i+1)%len(c.teleports)], true
		}
	}
	return Position{}, false
}
