// Package vp implements the virtual-player strategist: AI-controlled
// players that issue the same commands as humans through the action
// resolver, driven by domain events rather than a local loop.
//
// Each decision works from a worldState snapshot taken under the session
// lock, so planning never races with timers or human commands. The
// resulting command is issued after the lock is released; the resolver
// re-validates everything, so a stale decision degrades to a no-op.
package vp

import (
	"github.com/cory-johannsen/skirmish/internal/game/board"
	"github.com/cory-johannsen/skirmish/internal/game/session"
)

// enemyState is a living opponent as seen by the planner.
type enemyState struct {
	ID           string
	Pos          board.Position
	CarryingFlag bool
}

// sanctuaryState is a sanctuary object as seen by the planner.
type sanctuaryState struct {
	ID   string
	Pos  board.Position
	Kind board.ObjectKind
}

// worldState is everything the planner may consult for one decision,
// snapshotted under the session lock.
type worldState struct {
	Mode  session.Mode
	Style session.VirtualStyle

	SelfID       string
	SelfPos      board.Position
	StartPos     board.Position
	Movement     int
	Actions      int
	CarryingFlag bool

	// Enemies holds the living opponents in turn order.
	Enemies []enemyState
	// AdjacentSanctuaries holds unused sanctuaries at Manhattan distance 1.
	AdjacentSanctuaries []sanctuaryState
	// StepDirs holds the enterable neighbor tile per direction.
	StepDirs map[board.Direction]board.Position
	// FlagPos is set when the flag still sits on the board.
	FlagPos    board.Position
	FlagOnLand bool
	// InCombat is true while an encounter is unresolved.
	InCombat bool
}

// snapshot captures the planner's view of the session for the given
// player. Callers hold the session lock.
//
// Postcondition: Returns nil when the player is not the living, active
// virtual player.
func snapshot(s *session.Session, playerID string) *worldState {
	p, ok := s.Player(playerID)
	if !ok || !p.Alive() || !p.IsVirtual() || s.Turn.ActivePlayerID != playerID {
		return nil
	}

	ws := &worldState{
		Mode:         s.Mode,
		Style:        p.Style,
		SelfID:       p.ID,
		SelfPos:      p.Pos,
		StartPos:     p.StartPos,
		Movement:     p.MovementRemaining,
		Actions:      p.ActionsRemaining,
		CarryingFlag: p.CarryingFlag,
		StepDirs:     make(map[board.Direction]board.Position, 4),
		InCombat:     s.Combat != nil && !s.Combat.Over,
	}

	for _, enemy := range s.LivingOpponents(p) {
		ws.Enemies = append(ws.Enemies, enemyState{
			ID:           enemy.ID,
			Pos:          enemy.Pos,
			CarryingFlag: enemy.CarryingFlag,
		})
	}

	for _, dir := range board.Directions {
		dest := dir.Apply(p.Pos)
		if s.Cache.Enterable(dest) {
			ws.StepDirs[dir] = dest
		}
		if obj, found := s.Cache.ObjectAt(dest); found && !p.UsedSanctuaries[obj.ID] {
			if obj.Kind == board.ObjectHealSanctuary || obj.Kind == board.ObjectFightSanctuary {
				ws.AdjacentSanctuaries = append(ws.AdjacentSanctuaries, sanctuaryState{
					ID:   obj.ID,
					Pos:  dest,
					Kind: obj.Kind,
				})
			}
		}
	}

	if pos, found := s.Cache.FindObject(board.ObjectFlag); found {
		ws.FlagPos = pos
		ws.FlagOnLand = true
	}
	return ws
}

// adjacentEnemy returns the first living enemy at Manhattan distance 1.
func (ws *worldState) adjacentEnemy() (enemyState, bool) {
	for _, enemy := range ws.Enemies {
		if ws.SelfPos.ManhattanDistance(enemy.Pos) == 1 {
			return enemy, true
		}
	}
	return enemyState{}, false
}

// enemy returns the enemy with the given id.
func (ws *worldState) enemy(id string) (enemyState, bool) {
	for _, enemy := range ws.Enemies {
		if enemy.ID == id {
			return enemy, true
		}
	}
	return enemyState{}, false
}

// nearestEnemy returns the living enemy closest by Manhattan distance,
// breaking ties by turn order.
func (ws *worldState) nearestEnemy() (enemyState, bool) {
	best := -1
	var nearest enemyState
	for _, enemy := range ws.Enemies {
		d := ws.SelfPos.ManhattanDistance(enemy.Pos)
		if best == -1 || d < best {
			best = d
			nearest = enemy
		}
	}
	return nearest, best != -1
}

// enemyCarrier returns the enemy currently carrying the flag.
func (ws *worldState) enemyCarrier() (enemyState, bool) {
	for _, enemy := range ws.Enemies {
		if enemy.CarryingFlag {
			return enemy, true
		}
	}
	return enemyState{}, false
}

// enemyWithin reports whether any living enemy is at Manhattan distance
// <= radius.
func (ws *worldState) enemyWithin(radius int) bool {
	for _, enemy := range ws.Enemies {
		if ws.SelfPos.ManhattanDistance(enemy.Pos) <= radius {
			return true
		}
	}
	return false
}
