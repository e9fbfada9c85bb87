// Package board provides the tile-grid board model for skirmish matches:
// tile kinds, placed objects, YAML loading, and the per-session spatial
// cache that gives O(1) occupancy and tile-kind lookups.
package board

import (
	"fmt"
	"strings"
)

// TileKind identifies what a tile fundamentally is. Door state is part of
// the kind so a toggle is a kind flip.
type TileKind int

const (
	TileOpen TileKind = iota
	TileWall
	TileDoorClosed
	TileDoorOpen
	TileWater
	TileTeleport
)

// String returns the human-readable tile kind name.
func (k TileKind) String() string {
	switch k {
	case TileOpen:
		return "open"
	case TileWall:
		return "wall"
	case TileDoorClosed:
		return "door-closed"
	case TileDoorOpen:
		return "door-open"
	case TileWater:
		return "water"
	case TileTeleport:
		return "teleport"
	default:
		return "unknown"
	}
}

// IsDoor reports whether the kind is a door in either state.
func (k TileKind) IsDoor() bool {
	return k == TileDoorClosed || k == TileDoorOpen
}

// Walkable reports whether a player may stand on a tile of this kind.
// Water is walkable but carries a combat penalty; closed doors and walls
// block movement.
func (k TileKind) Walkable() bool {
	switch k {
	case TileOpen, TileDoorOpen, TileWater, TileTeleport:
		return true
	}
	return false
}

// ObjectKind identifies a placed object on the board.
type ObjectKind int

const (
	ObjectStartPoint ObjectKind = iota
	ObjectFlag
	ObjectHealSanctuary
	ObjectFightSanctuary
	ObjectBoat
)

// String returns the human-readable object kind name.
func (k ObjectKind) String() string {
	switch k {
	case ObjectStartPoint:
		return "start-point"
	case ObjectFlag:
		return "flag"
	case ObjectHealSanctuary:
		return "heal-sanctuary"
	case ObjectFightSanctuary:
		return "fight-sanctuary"
	case ObjectBoat:
		return "boat"
	default:
		return "unknown"
	}
}

// Position is a tile coordinate. X is the column, Y the row; (0,0) is the
// top-left corner.
type Position struct {
	X int
	Y int
}

// String returns "(x,y)".
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// ManhattanDistance returns |dx| + |dy| between p and other.
func (p Position) ManhattanDistance(other Position) int {
	return abs(p.X-other.X) + abs(p.Y-other.Y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Object is a placed object occupying a tile.
type Object struct {
	ID   string
	Kind ObjectKind
	Pos  Position
}

// Board is an immutable square tile grid plus its placed objects. Mutable
// per-match state (door toggles, occupancy, object removal) lives in Cache.
type Board struct {
	ID      string
	Size    int
	Tiles   [][]TileKind // Tiles[y][x]
	Objects []Object
}

// InBounds reports whether p lies on the board.
func (b *Board) InBounds(p Position) bool {
	return p.X >= 0 && p.X < b.Size && p.Y >= 0 && p.Y < b.Size
}

// KindAt returns the tile kind at p.
//
// Precondition: p must be in bounds.
func (b *Board) KindAt(p Position) TileKind {
	return b.Tiles[p.Y][p.X]
}

// StartPoints returns all start-point objects in declaration order.
func (b *Board) StartPoints() []Object {
	var points []Object
	for _, obj := range b.Objects {
		if obj.Kind == ObjectStartPoint {
			points = append(points, obj)
		}
	}
	return points
}

// FlagPosition returns the flag object position.
//
// Postcondition: Returns (pos, true) if the board has a flag, or
// (Position{}, false) otherwise.
func (b *Board) FlagPosition() (Position, bool) {
	for _, obj := range b.Objects {
		if obj.Kind == ObjectFlag {
			return obj.Pos, true
		}
	}
	return Position{}, false
}

// Validate checks structural invariants: positive size, a full Size×Size
// grid, all objects in bounds on walkable tiles, and unique object ids.
//
// Postcondition: Returns nil if the board is valid, or an error describing
// all violations.
func (b *Board) Validate() error {
	var errs []string

	if b.ID == "" {
		errs = append(errs, "board id must not be empty")
	}
	if b.Size < 2 {
		errs = append(errs, fmt.Sprintf("board size must be >= 2, got %d", b.Size))
	}
	if len(b.Tiles) != b.Size {
		errs = append(errs, fmt.Sprintf("expected %d rows, got %d", b.Size, len(b.Tiles)))
	} else {
		for y, row := range b.Tiles {
			if len(row) != b.Size {
				errs = append(errs, fmt.Sprintf("row %d has %d tiles, expected %d", y, len(row), b.Size))
			}
		}
	}

	seen := make(map[string]bool)
	for _, obj := range b.Objects {
		if obj.ID == "" {
			errs = append(errs, fmt.Sprintf("object at %s has empty id", obj.Pos))
		} else if seen[obj.ID] {
			errs = append(errs, fmt.Sprintf("duplicate object id %q", obj.ID))
		}
		seen[obj.ID] = true

		if !b.InBounds(obj.Pos) {
			errs = append(errs, fmt.Sprintf("object %q at %s is out of bounds", obj.ID, obj.Pos))
			continue
		}
		if !b.KindAt(obj.Pos).Walkable() {
			errs = append(errs, fmt.Sprintf("object %q at %s sits on unwalkable tile %s", obj.ID, obj.Pos, b.KindAt(obj.Pos)))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("board validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
