package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged dice rolling.
// Rolls are logged at debug level with die, raw value, modifier, and total.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Roll rolls die with a flat modifier and logs the audit trail.
//
// Precondition: die must be valid.
// Postcondition: Returns a fully populated RollResult.
func (r *Roller) Roll(die Die, modifier int) RollResult {
	result := RollResult{
		Die:      die,
		Value:    die.Roll(r.src),
		Modifier: modifier,
	}
	r.logger.Debug("dice roll",
		zap.String("die", die.String()),
		zap.Int("value", result.Value),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	return result
}

// Source returns the underlying randomness source, for callers that need
// raw Intn access (shuffles, chance checks) with the same provider.
func (r *Roller) Source() Source {
	return r.src
}
