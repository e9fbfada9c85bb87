// Package dice provides the core randomness abstraction for the skirmish
// match engine: typed dice, roll auditing, and uniform shuffling. Every
// random decision in the engine (combat rolls, turn-order tie-breaks,
// start-point assignment, sanctuary chance, virtual-player pacing) flows
// through a Source so tests can substitute a deterministic implementation.
package dice

import (
	"fmt"
	"strings"
)

// Die identifies a die by its number of sides.
type Die int

const (
	D4  Die = 4
	D6  Die = 6
	D20 Die = 20
)

// Valid reports whether d is one of the supported dice.
func (d Die) Valid() bool {
	switch d {
	case D4, D6, D20:
		return true
	}
	return false
}

// String returns the conventional notation, e.g. "d6".
func (d Die) String() string {
	return fmt.Sprintf("d%d", int(d))
}

// ParseDie parses conventional die notation ("d4", "D6", "d20").
//
// Postcondition: Returns a valid Die or a non-nil error.
func ParseDie(s string) (Die, error) {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	var sides int
	if _, err := fmt.Sscanf(trimmed, "d%d", &sides); err != nil {
		return 0, fmt.Errorf("parsing die notation %q: %w", s, err)
	}
	d := Die(sides)
	if !d.Valid() {
		return 0, fmt.Errorf("unsupported die %q: must be one of d4, d6, d20", s)
	}
	return d, nil
}

// Roll rolls the die once using src.
//
// Precondition: d must be valid; src must be non-nil.
// Postcondition: Returns a value in [1, Sides].
func (d Die) Roll(src Source) int {
	return src.Intn(int(d)) + 1
}

// RollResult holds the audit trail for a single evaluated roll.
//
// Postcondition: Total() == Value + Modifier.
type RollResult struct {
	Die      Die
	Value    int // raw die result
	Modifier int // flat modifier (may be negative)
}

// Total returns the die value plus the modifier.
func (r RollResult) Total() int {
	return r.Value + r.Modifier
}

// String returns a human-readable audit string, e.g. "d6 → 4 +2 = 6".
func (r RollResult) String() string {
	return fmt.Sprintf("%s → %d %+d = %d", r.Die, r.Value, r.Modifier, r.Total())
}
