package combat

import "github.com/cory-johannsen/skirmish/internal/game/dice"

// Outcome classifies how a resolved round left the encounter.
type Outcome int

const (
	OutcomeContinue Outcome = iota
	OutcomeWin
	OutcomeDraw
)

// String returns the human-readable outcome label.
func (o Outcome) String() string {
	switch o {
	case OutcomeContinue:
		return "continue"
	case OutcomeWin:
		return "win"
	case OutcomeDraw:
		return "draw"
	default:
		return "unknown"
	}
}

// RoundResult records everything that happened in one resolved round.
type RoundResult struct {
	// Round is the 1-based round number.
	Round int
	// AttackRolls and DefenseRolls hold each combatant's audit trail,
	// keyed by combatant id.
	AttackRolls  map[string]dice.RollResult
	DefenseRolls map[string]dice.RollResult
	// DamageTaken maps combatant id to the health lost this round.
	DamageTaken map[string]int
	// Outcome classifies the round; WinnerID is set for OutcomeWin.
	Outcome  Outcome
	WinnerID string
}

// attackTotal computes a combatant's full attack value for the round:
// attack die + base attack + posture modifier + one-time sanctuary bonus,
// minus the water penalty when standing on water.
func attackTotal(c *Combatant, src dice.Source) dice.RollResult {
	modifier := c.Attack + c.Posture.attackMod() + c.AttackBonus
	if c.OnWater {
		modifier -= WaterPenalty
	}
	return dice.RollResult{
		Die:      c.AttackDie,
		Value:    c.AttackDie.Roll(src),
		Modifier: modifier,
	}
}

// defenseTotal computes a combatant's full defense value for the round:
// defense die + base defense + posture modifier, minus the water penalty
// when standing on water.
func defenseTotal(c *Combatant, src dice.Source) dice.RollResult {
	modifier := c.Defense + c.Posture.defenseMod()
	if c.OnWater {
		modifier -= WaterPenalty
	}
	return dice.RollResult{
		Die:      c.DefenseDie,
		Value:    c.DefenseDie.Roll(src),
		Modifier: modifier,
	}
}

// ResolveRound resolves one simultaneous exchange: each side's attack
// total is compared against the other side's defense total, and the
// positive difference is dealt as damage, clamped to zero. One-time attack
// bonuses are consumed by the exchange. The encounter ends in a win when
// exactly one side reaches zero health, and in a draw when both do.
//
// Precondition: e must not be Over; src must be non-nil.
// Postcondition: Returns a fully populated RoundResult; health changes and
// encounter termination are applied in place.
func ResolveRound(e *Encounter, src dice.Source) RoundResult {
	e.Round++

	a := e.Combatants[e.InitiatorID]
	b := e.Combatants[e.TargetID]

	result := RoundResult{
		Round:        e.Round,
		AttackRolls:  make(map[string]dice.RollResult, 2),
		DefenseRolls: make(map[string]dice.RollResult, 2),
		DamageTaken:  make(map[string]int, 2),
	}

	result.AttackRolls[a.ID] = attackTotal(a, src)
	result.AttackRolls[b.ID] = attackTotal(b, src)
	result.DefenseRolls[a.ID] = defenseTotal(a, src)
	result.DefenseRolls[b.ID] = defenseTotal(b, src)
	a.AttackBonus = 0
	b.AttackBonus = 0

	result.DamageTaken[b.ID] = clampDamage(result.AttackRolls[a.ID].Total() - result.DefenseRolls[b.ID].Total())
	result.DamageTaken[a.ID] = clampDamage(result.AttackRolls[b.ID].Total() - result.DefenseRolls[a.ID].Total())

	applyDamage(a, result.DamageTaken[a.ID])
	applyDamage(b, result.DamageTaken[b.ID])

	switch {
	case a.IsDown() && b.IsDown():
		e.Over = true
		e.Draw = true
		result.Outcome = OutcomeDraw
	case a.IsDown():
		e.Over = true
		e.WinnerID = b.ID
		result.Outcome = OutcomeWin
		result.WinnerID = b.ID
	case b.IsDown():
		e.Over = true
		e.WinnerID = a.ID
		result.Outcome = OutcomeWin
		result.WinnerID = a.ID
	default:
		result.Outcome = OutcomeContinue
	}
	return result
}

// EvadeResult records one evade attempt.
type EvadeResult struct {
	// Attempted is false when the combatant had no evades left.
	Attempted bool
	// Roll is the evade die audit trail when Attempted.
	Roll dice.RollResult
	// Success is true when the evade ended the encounter.
	Success bool
}

// evadeThreshold is the minimum d6 value for a successful evade.
const evadeThreshold = 4

// Evade performs one evade attempt for the combatant with the given id.
// A success ends the encounter in a draw with no health change, recording
// the escaper. With no attempts left, the call is a no-op.
//
// Precondition: e must not be Over; id must be a combatant id.
// Postcondition: EvadesLeft never goes negative.
func Evade(e *Encounter, id string, src dice.Source) EvadeResult {
	c, ok := e.Combatants[id]
	if !ok || c.EvadesLeft <= 0 {
		return EvadeResult{}
	}
	c.EvadesLeft--

	roll := dice.RollResult{Die: dice.D6, Value: dice.D6.Roll(src)}
	result := EvadeResult{Attempted: true, Roll: roll}
	if roll.Total() >= evadeThreshold {
		result.Success = true
		e.Over = true
		e.Draw = true
		e.EscapedID = id
	}
	return result
}

func clampDamage(d int) int {
	if d < 0 {
		return 0
	}
	return d
}

func applyDamage(c *Combatant, amount int) {
	c.Health -= amount
	if c.Health < 0 {
		c.Health = 0
	}
}
