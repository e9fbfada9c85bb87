// Package combat implements round-based combat resolution between two
// players: posture selection, dice-based damage, evades, and victory or
// draw determination.
package combat

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// Posture is a combatant's per-round stance.
type Posture int

const (
	PostureOffensive Posture = iota
	PostureDefensive
)

// String returns the human-readable posture name.
func (p Posture) String() string {
	switch p {
	case PostureOffensive:
		return "offensive"
	case PostureDefensive:
		return "defensive"
	default:
		return "unknown"
	}
}

// attackMod returns the attack-total modifier for the posture.
func (p Posture) attackMod() int {
	if p == PostureOffensive {
		return 1
	}
	return -1
}

// defenseMod returns the defense-total modifier for the posture.
func (p Posture) defenseMod() int {
	if p == PostureDefensive {
		return 1
	}
	return -1
}

// WaterPenalty is subtracted from both attack and defense totals of a
// combatant standing on water.
const WaterPenalty = 2

// EvadesPerCombat is the number of evade attempts each combatant gets.
const EvadesPerCombat = 2

// Combatant is one side of an encounter: a lightweight combat view over a
// session player. The action resolver builds it at combat start and writes
// health back as rounds resolve.
type Combatant struct {
	ID         string
	Name       string
	MaxHealth  int
	Health     int
	Attack     int
	Defense    int
	AttackDie  dice.Die
	DefenseDie dice.Die
	// AttackBonus is a one-time sanctuary bonus consumed by the first round.
	AttackBonus int
	// OnWater applies WaterPenalty to both totals while true.
	OnWater bool
	// Posture is the stance for the upcoming round.
	Posture Posture
	// EvadesLeft counts remaining evade attempts.
	EvadesLeft int
}

// IsDown reports whether the combatant has reached zero health.
func (c *Combatant) IsDown() bool {
	return c.Health <= 0
}

// ChoosePosture applies the default stance rule: defensive at or below
// half health, offensive otherwise. Callers may overwrite Posture for an
// explicit player choice before the round resolves.
func (c *Combatant) ChoosePosture() {
	if c.Health*2 <= c.MaxHealth {
		c.Posture = PostureDefensive
	} else {
		c.Posture = PostureOffensive
	}
}

// Encounter is the live state of one combat between two players.
type Encounter struct {
	// InitiatorID started the combat; TargetID was attacked.
	InitiatorID string
	TargetID    string
	// Combatants maps combatant id to state.
	Combatants map[string]*Combatant
	// Round counts resolved rounds, starting at 0.
	Round int
	// Over is true when a winner, draw, or escape has been determined.
	Over bool
	// WinnerID is set when the encounter ended in a victory.
	WinnerID string
	// Draw is true when the encounter ended with no winner.
	Draw bool
	// EscapedID is set when a successful evade ended the encounter.
	EscapedID string
}

// NewEncounter creates an encounter between initiator and target.
//
// Precondition: initiator and target must be non-nil with distinct ids.
func NewEncounter(initiator, target *Combatant) (*Encounter, error) {
	if initiator.ID == target.ID {
		return nil, fmt.Errorf("combatants must be distinct, both are %q", initiator.ID)
	}
	initiator.EvadesLeft = EvadesPerCombat
	target.EvadesLeft = EvadesPerCombat
	return &Encounter{
		InitiatorID: initiator.ID,
		TargetID:    target.ID,
		Combatants: map[string]*Combatant{
			initiator.ID: initiator,
			target.ID:    target,
		},
	}, nil
}

// Combatant returns the combatant with the given id.
//
// Postcondition: Returns (combatant, true) if id is part of the encounter.
func (e *Encounter) Combatant(id string) (*Combatant, bool) {
	c, ok := e.Combatants[id]
	return c, ok
}

// Opponent returns the other combatant.
//
// Precondition: id must be one of the two combatant ids.
func (e *Encounter) Opponent(id string) *Combatant {
	if id == e.InitiatorID {
		return e.Combatants[e.TargetID]
	}
	return e.Combatants[e.InitiatorID]
}

// ConcludeDraw force-ends the encounter with no winner, used when a forced
// transition must terminate combat without another round.
//
// Postcondition: Over is true and Draw is true.
func (e *Encounter) ConcludeDraw() {
	e.Over = true
	e.Draw = true
}
