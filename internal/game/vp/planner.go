package vp

import (
	"github.com/cory-johannsen/skirmish/internal/game/board"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/session"
)

// goal is the agent's persisted intent, carried between scheduler ticks.
type goal int

const (
	goalIdle goal = iota
	goalHunt
	goalFlee
	goalWander
	goalCarryHome
	goalChaseCarrier
	goalFetchFlag
	goalGuard
)

// String returns the human-readable goal name.
func (g goal) String() string {
	switch g {
	case goalIdle:
		return "idle"
	case goalHunt:
		return "hunt"
	case goalFlee:
		return "flee"
	case goalWander:
		return "wander"
	case goalCarryHome:
		return "carry-home"
	case goalChaseCarrier:
		return "chase-carrier"
	case goalFetchFlag:
		return "fetch-flag"
	case goalGuard:
		return "guard"
	default:
		return "unknown"
	}
}

// agentState is one virtual player's planning context, persisted between
// scheduler ticks so a delayed step works from explicit state rather than
// values captured when it was scheduled.
type agentState struct {
	SessionID string
	PlayerID  string
	Goal      goal
	// TargetID is the enemy this agent is hunting or chasing, kept while
	// the target lives.
	TargetID string

	cancel func()
}

// decisionKind classifies the planner's next command.
type decisionKind int

const (
	// decideWait issues nothing; an external event will reschedule.
	decideWait decisionKind = iota
	decideAttack
	decideSanctuary
	decideMoveToward
	decideMoveDir
	decidePickUpFlag
	decideReturnFlag
	decideEndTurn
)

// decision is one planned command for the action resolver.
type decision struct {
	Kind     decisionKind
	TargetID string
	Pos      board.Position
	Dir      board.Direction
}

// retreatRadius is the enemy distance at which a defensive player
// prefers retreating over wandering.
const retreatRadius = 3

// plan chooses the agent's next command from a world snapshot. It is
// pure apart from src, which feeds the wander direction, and mutates only
// the agent's persisted goal and target.
//
// Precondition: ws must be a snapshot for the agent's player; src must be
// non-nil.
func plan(ws *worldState, agent *agentState, src dice.Source) decision {
	if ws.InCombat {
		// The combat timer drives the rounds; the agent resumes on the
		// combat-resolved event.
		agent.Goal = goalIdle
		return decision{Kind: decideWait}
	}

	if ws.Mode == session.ModeCaptureTheFlag {
		return planCaptureTheFlag(ws, agent)
	}
	if ws.Style == session.StyleDefensive {
		return planDefensive(ws, agent, src)
	}
	return planOffensive(ws, agent)
}

// planOffensive is the classic offensive tree: attack an adjacent enemy,
// else take an adjacent sanctuary, else close on the nearest enemy.
func planOffensive(ws *worldState, agent *agentState) decision {
	if ws.Actions > 0 {
		if enemy, ok := ws.adjacentEnemy(); ok {
			agent.Goal = goalHunt
			agent.TargetID = enemy.ID
			return decision{Kind: decideAttack, TargetID: enemy.ID, Pos: enemy.Pos}
		}
		if len(ws.AdjacentSanctuaries) > 0 {
			return decision{Kind: decideSanctuary, Pos: ws.AdjacentSanctuaries[0].Pos}
		}
	}

	if ws.Movement > 0 {
		target, ok := ws.enemy(agent.TargetID)
		if !ok {
			target, ok = ws.nearestEnemy()
		}
		if ok {
			agent.Goal = goalHunt
			agent.TargetID = target.ID
			return decision{Kind: decideMoveToward, TargetID: target.ID, Pos: target.Pos}
		}
	}

	agent.Goal = goalIdle
	return decision{Kind: decideEndTurn}
}

// planDefensive is the classic defensive tree: sanctuaries first, retreat
// from close enemies, otherwise wander.
func planDefensive(ws *worldState, agent *agentState, src dice.Source) decision {
	if ws.Actions > 0 && len(ws.AdjacentSanctuaries) > 0 {
		return decision{Kind: decideSanctuary, Pos: ws.AdjacentSanctuaries[0].Pos}
	}

	if ws.Movement > 0 {
		if ws.enemyWithin(retreatRadius) {
			if dir, ok := retreatStep(ws); ok {
				agent.Goal = goalFlee
				return decision{Kind: decideMoveDir, Dir: dir}
			}
		} else if dir, ok := wanderStep(ws, src); ok {
			agent.Goal = goalWander
			return decision{Kind: decideMoveDir, Dir: dir}
		}
	}

	agent.Goal = goalIdle
	return decision{Kind: decideEndTurn}
}

// planCaptureTheFlag is the CTF tree shared by both styles: bring a
// carried flag home, intercept an enemy carrier, or go get the flag. The
// defensive style guards the flag instead of fetching it.
func planCaptureTheFlag(ws *worldState, agent *agentState) decision {
	if ws.CarryingFlag {
		agent.Goal = goalCarryHome
		if ws.SelfPos == ws.StartPos {
			return decision{Kind: decideReturnFlag}
		}
		if ws.Movement > 0 {
			return decision{Kind: decideMoveToward, Pos: ws.StartPos}
		}
		agent.Goal = goalIdle
		return decision{Kind: decideEndTurn}
	}

	if carrier, ok := ws.enemyCarrier(); ok {
		agent.Goal = goalChaseCarrier
		agent.TargetID = carrier.ID
		if ws.Actions > 0 && ws.SelfPos.ManhattanDistance(carrier.Pos) == 1 {
			return decision{Kind: decideAttack, TargetID: carrier.ID, Pos: carrier.Pos}
		}
		if ws.Movement > 0 {
			return decision{Kind: decideMoveToward, TargetID: carrier.ID, Pos: carrier.Pos}
		}
		agent.Goal = goalIdle
		return decision{Kind: decideEndTurn}
	}

	if ws.FlagOnLand {
		if ws.Style == session.StyleDefensive {
			// Hold a guard post next to the flag instead of taking it.
			agent.Goal = goalGuard
			if ws.Movement > 0 && ws.SelfPos.ManhattanDistance(ws.FlagPos) > 1 {
				return decision{Kind: decideMoveToward, Pos: ws.FlagPos}
			}
			agent.Goal = goalIdle
			return decision{Kind: decideEndTurn}
		}

		agent.Goal = goalFetchFlag
		if ws.SelfPos == ws.FlagPos && ws.Actions > 0 {
			return decision{Kind: decidePickUpFlag}
		}
		if ws.Movement > 0 && ws.SelfPos != ws.FlagPos {
			return decision{Kind: decideMoveToward, Pos: ws.FlagPos}
		}
	}

	agent.Goal = goalIdle
	return decision{Kind: decideEndTurn}
}

// retreatStep picks the enterable direction maximizing the minimum
// distance to all living enemies, greedy one-step lookahead. Ties break
// in direction order.
func retreatStep(ws *worldState) (board.Direction, bool) {
	best := -1
	var bestDir board.Direction
	for _, dir := range board.Directions {
		dest, ok := ws.StepDirs[dir]
		if !ok {
			continue
		}
		closest := -1
		for _, enemy := range ws.Enemies {
			d := dest.ManhattanDistance(enemy.Pos)
			if closest == -1 || d < closest {
				closest = d
			}
		}
		if closest > best {
			best = closest
			bestDir = dir
		}
	}
	return bestDir, best != -1
}

// wanderStep picks a uniformly random enterable direction.
func wanderStep(ws *worldState, src dice.Source) (board.Direction, bool) {
	var open []board.Direction
	for _, dir := range board.Directions {
		if _, ok := ws.StepDirs[dir]; ok {
			open = append(open, dir)
		}
	}
	if len(open) == 0 {
		return 0, false
	}
	return open[src.Intn(len(open))], true
}
