package action

import (
	"github.com/cory-johannsen/skirmish/internal/game/board"
	"github.com/cory-johannsen/skirmish/internal/game/event"
	"github.com/cory-johannsen/skirmish/internal/game/session"
)

// Move steps the player one tile in the requested direction, consuming one
// movement point. Zero movement budget, a dead or unknown player, and a
// blocked destination are all silent no-ops.
//
// Postcondition: Returns true iff the player moved; on success the player
// position and cache occupancy changed together and TopicPlayerMoved was
// published.
func (r *Resolver) Move(s *session.Session, playerID string, dir board.Direction) bool {
	s.Lock()
	moved, events := r.step(s, playerID, func(p *session.Player) (board.Position, bool) {
		return dir.Apply(p.Pos), true
	})
	s.Unlock()

	r.publish(s.ID, events)
	return moved
}

// MoveTowardOneStep steps the player one tile toward target, greedily
// picking the enterable neighbor that minimizes the remaining Manhattan
// distance. Already standing on the target, zero budget, and no usable
// step are silent no-ops.
//
// Postcondition: Returns true iff the player moved.
func (r *Resolver) MoveTowardOneStep(s *session.Session, playerID string, target board.Position) bool {
	s.Lock()
	moved, events := r.step(s, playerID, func(p *session.Player) (board.Position, bool) {
		if p.Pos == target {
			return board.Position{}, false
		}
		return r.bestStepToward(s, p.Pos, target)
	})
	s.Unlock()

	r.publish(s.ID, events)
	return moved
}

// step validates the shared movement preconditions, asks pick for a
// destination, and applies the move. Callers hold the session lock.
func (r *Resolver) step(s *session.Session, playerID string, pick func(p *session.Player) (board.Position, bool)) (bool, []pending) {
	p, ok := s.Player(playerID)
	if !ok || !p.Alive() || p.MovementRemaining <= 0 {
		return false, nil
	}
	to, ok := pick(p)
	if !ok || !s.Cache.Enterable(to) {
		return false, nil
	}

	from := p.Pos
	p.SpendMovement()
	s.Cache.MoveOccupant(from, to, p.ID)
	p.Pos = to

	teleported := false
	if kind, err := s.Cache.KindAt(to); err == nil && kind == board.TileTeleport {
		if exit, found := s.Cache.TeleportExit(to); found && s.Cache.Enterable(exit) {
			s.Cache.MoveOccupant(to, exit, p.ID)
			p.Pos = exit
			teleported = true
		}
	}

	return true, []pending{{
		topic: event.TopicPlayerMoved,
		payload: event.PlayerMoved{
			PlayerID:   p.ID,
			From:       from,
			To:         p.Pos,
			Teleported: teleported,
		},
	}}
}

// bestStepToward returns the enterable neighbor of from with the smallest
// Manhattan distance to target, strictly closer than from itself.
func (r *Resolver) bestStepToward(s *session.Session, from, target board.Position) (board.Position, bool) {
	best := from
	bestDist := from.ManhattanDistance(target)
	found := false
	for _, dir := range board.Directions {
		cand := dir.Apply(from)
		if !s.Cache.Enterable(cand) {
			continue
		}
		if d := cand.ManhattanDistance(target); d < bestDist {
			best, bestDist = cand, d
			found = true
		}
	}
	return best, found
}
