// Package turn provides the one-time-per-match initialization: turn-order
// computation and start-point assignment.
package turn

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cory-johannsen/skirmish/internal/game/board"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/session"
)

// ErrNotEnoughStartPoints is fatal to session creation: the match must not
// start with fewer start points than players.
var ErrNotEnoughStartPoints = errors.New("not enough start points for all players")

// ComputeOrder returns the turn order for the given players: descending by
// speed, with a uniform shuffle inside each group of equal speed.
//
// Precondition: src must be non-nil.
// Postcondition: The result is a permutation of the input player ids; any
// player strictly faster than another never appears after it.
func ComputeOrder(players []*session.Player, src dice.Source) []string {
	sorted := make([]*session.Player, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Speed > sorted[j].Speed
	})

	// Shuffle each run of equal speed independently.
	start := 0
	for start < len(sorted) {
		end := start + 1
		for end < len(sorted) && sorted[end].Speed == sorted[start].Speed {
			end++
		}
		group := sorted[start:end]
		dice.Shuffle(len(group), src, func(i, j int) {
			group[i], group[j] = group[j], group[i]
		})
		start = end
	}

	order := make([]string, len(sorted))
	for i, p := range sorted {
		order[i] = p.ID
	}
	return order
}

// AssignStartPoints shuffles the available start points and assigns one to
// each player in turn-order sequence, writing the player's position and
// start-point reference and recording occupancy in the spatial cache.
//
// Precondition: s.TurnOrder must be computed; s.Cache must be non-nil.
// Postcondition: On success every player stands on a distinct start point
// and s.StartPoints holds the assigned objects in turn order. With fewer
// points than players, returns ErrNotEnoughStartPoints before mutating any
// player state.
func AssignStartPoints(s *session.Session, points []board.Object, src dice.Source) error {
	if len(points) < len(s.TurnOrder) {
		return fmt.Errorf("%w: %d players, %d start points", ErrNotEnoughStartPoints, len(s.TurnOrder), len(points))
	}

	shuffled := make([]board.Object, len(points))
	copy(shuffled, points)
	dice.Shuffle(len(shuffled), src, func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	assigned := make([]board.Object, 0, len(s.TurnOrder))
	for i, playerID := range s.TurnOrder {
		p, ok := s.Player(playerID)
		if !ok {
			return fmt.Errorf("turn order references unknown player %q", playerID)
		}
		point := shuffled[i]
		p.Pos = point.Pos
		p.StartPointID = point.ID
		p.StartPos = point.Pos
		s.Cache.SetOccupant(point.Pos, p.ID)
		assigned = append(assigned, point)
	}
	s.StartPoints = assigned
	return nil
}
