package action

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/board"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/event"
	"github.com/cory-johannsen/skirmish/internal/game/session"
)

const (
	// sanctuaryThreshold is the minimum d6 value for the bonus to land.
	sanctuaryThreshold = 3
	// healAmount is the health restored by a successful heal sanctuary.
	healAmount = 2
	// fightBonus is the one-time attack bonus from a fight sanctuary.
	fightBonus = 1
)

// ApplySanctuary attempts the chance-based bonus of the sanctuary at
// (x, y) for the player. The player must be alive, adjacent to the
// sanctuary, have an action remaining, and not have used this sanctuary
// before. The attempt consumes the action and the player's one use of the
// sanctuary whether or not the roll succeeds.
//
// A position without a sanctuary object, a non-adjacent sanctuary, or an
// exhausted player is a silent no-op.
//
// Postcondition: Returns true iff the roll succeeded and the bonus was
// granted; every attempt publishes TopicSanctuaryApplied.
func (r *Resolver) ApplySanctuary(s *session.Session, playerID string, x, y int) bool {
	pos := board.Position{X: x, Y: y}

	s.Lock()
	success, events := r.applySanctuary(s, playerID, pos)
	s.Unlock()

	r.publish(s.ID, events)
	return success
}

func (r *Resolver) applySanctuary(s *session.Session, playerID string, pos board.Position) (bool, []pending) {
	p, ok := s.Player(playerID)
	if !ok || !p.Alive() || p.ActionsRemaining <= 0 {
		return false, nil
	}
	if p.Pos.ManhattanDistance(pos) != 1 {
		return false, nil
	}
	obj, found := s.Cache.ObjectAt(pos)
	if !found || (obj.Kind != board.ObjectHealSanctuary && obj.Kind != board.ObjectFightSanctuary) {
		return false, nil
	}
	if p.UsedSanctuaries[obj.ID] {
		return false, nil
	}

	p.SpendAction()
	s.Turn.ActionUsed = true
	if p.UsedSanctuaries == nil {
		p.UsedSanctuaries = make(map[string]bool)
	}
	p.UsedSanctuaries[obj.ID] = true

	roll := r.roller.Roll(dice.D6, 0)
	success := roll.Total() >= sanctuaryThreshold
	amount := 0
	if success {
		switch obj.Kind {
		case board.ObjectHealSanctuary:
			amount = healAmount
			p.Heal(amount)
		case board.ObjectFightSanctuary:
			amount = fightBonus
			p.AttackBonus += amount
		}
	}

	r.logger.Debug("sanctuary attempted",
		zap.String("session_id", s.ID),
		zap.String("player_id", p.ID),
		zap.String("object_id", obj.ID),
		zap.Bool("success", success),
	)
	return success, []pending{{
		topic: event.TopicSanctuaryApplied,
		payload: event.SanctuaryApplied{
			PlayerID: p.ID,
			ObjectID: obj.ID,
			Kind:     obj.Kind,
			Success:  success,
			Amount:   amount,
		},
	}}
}
