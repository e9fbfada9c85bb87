// Package session provides the match session model and the in-memory
// session store: players, turn state, and per-session serialization of
// every mutating operation.
package session

import (
	"github.com/cory-johannsen/skirmish/internal/game/board"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// VirtualStyle marks a player as AI-controlled and selects its behavior.
type VirtualStyle int

const (
	StyleNone VirtualStyle = iota // human-controlled
	StyleOffensive
	StyleDefensive
)

// String returns the human-readable style name.
func (s VirtualStyle) String() string {
	switch s {
	case StyleNone:
		return "none"
	case StyleOffensive:
		return "offensive"
	case StyleDefensive:
		return "defensive"
	default:
		return "unknown"
	}
}

// Player is one participant in a session, human or virtual.
type Player struct {
	// ID is the unique player identifier within the session.
	ID string
	// Name is the display name.
	Name string
	// Pos is the player's current tile.
	Pos board.Position
	// Speed determines turn-order rank and per-turn movement budget.
	Speed int
	// CurrentHealth and MaxHealth bound the player's hit points.
	CurrentHealth int
	MaxHealth     int
	// Attack and Defense are the base combat stats.
	Attack  int
	Defense int
	// AttackDie and DefenseDie are the dice rolled on top of the stats.
	AttackDie  dice.Die
	DefenseDie dice.Die
	// MovementRemaining is the movement budget left this turn.
	MovementRemaining int
	// ActionsRemaining is the action budget left this turn.
	ActionsRemaining int
	// StartPointID references the start-point object assigned at match start.
	StartPointID string
	// StartPos is the assigned start point's tile.
	StartPos board.Position
	// Team is the optional team name; empty outside team modes.
	Team string
	// Style is StyleNone for humans, otherwise the virtual behavior.
	Style VirtualStyle
	// AttackBonus is a one-time bonus from a fight sanctuary, consumed by
	// the next combat.
	AttackBonus int
	// UsedSanctuaries records sanctuary object ids already used by this
	// player; each sanctuary grants its bonus at most once per player.
	UsedSanctuaries map[string]bool
	// CarryingFlag is true while this player holds the flag (CTF only).
	CarryingFlag bool
	// Wins counts combats won, for match statistics.
	Wins int
}

// Alive reports whether the player can still act.
//
// A dead player (health <= 0) may not initiate movement, attack, or
// sanctuary actions.
func (p *Player) Alive() bool {
	return p.CurrentHealth > 0
}

// IsVirtual reports whether the player is AI-controlled.
func (p *Player) IsVirtual() bool {
	return p.Style != StyleNone
}

// ResetTurnBudget restores movement and action budgets at turn start.
//
// Postcondition: MovementRemaining == Speed; ActionsRemaining == actions.
func (p *Player) ResetTurnBudget(actions int) {
	p.MovementRemaining = p.Speed
	p.ActionsRemaining = actions
}

// SpendMovement consumes one movement point.
//
// Postcondition: MovementRemaining never goes negative; returns false when
// no budget was available.
func (p *Player) SpendMovement() bool {
	if p.MovementRemaining <= 0 {
		return false
	}
	p.MovementRemaining--
	return true
}

// SpendAction consumes one action.
//
// Postcondition: ActionsRemaining never goes negative; returns false when
// no budget was available.
func (p *Player) SpendAction() bool {
	if p.ActionsRemaining <= 0 {
		return false
	}
	p.ActionsRemaining--
	return true
}

// ApplyDamage reduces CurrentHealth by amount, flooring at zero.
//
// Precondition: amount >= 0.
// Postcondition: CurrentHealth >= 0.
func (p *Player) ApplyDamage(amount int) {
	p.CurrentHealth -= amount
	if p.CurrentHealth < 0 {
		p.CurrentHealth = 0
	}
}

// Heal raises CurrentHealth by amount, capped at MaxHealth.
//
// Precondition: amount >= 0.
// Postcondition: CurrentHealth <= MaxHealth.
func (p *Player) Heal(amount int) {
	p.CurrentHealth += amount
	if p.CurrentHealth > p.MaxHealth {
		p.CurrentHealth = p.MaxHealth
	}
}

// ConsumeAttackBonus returns the pending one-time attack bonus and clears it.
func (p *Player) ConsumeAttackBonus() int {
	bonus := p.AttackBonus
	p.AttackBonus = 0
	return bonus
}
