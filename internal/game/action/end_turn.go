package action

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/event"
	"github.com/cory-johannsen/skirmish/internal/game/session"
)

// EndTurn ends the given player's turn and activates the next living
// player in turn order, wrapping around, with a fresh movement and action
// budget. forced marks timer-driven transitions.
//
// A caller that is no longer the active player is a silent no-op: the
// premise of a delayed end-turn may have been invalidated by the time it
// runs.
//
// Postcondition: Returns the new active player id, or "" when the turn
// did not change or no living successor exists. On success exactly one
// player is active and TopicTurnEnded then TopicTurnStarted were
// published.
func (r *Resolver) EndTurn(s *session.Session, playerID string, forced bool) string {
	s.Lock()
	next, events := r.endTurn(s, playerID, forced)
	s.Unlock()

	r.publish(s.ID, events)
	return next
}

func (r *Resolver) endTurn(s *session.Session, playerID string, forced bool) (string, []pending) {
	if playerID != s.Turn.ActivePlayerID {
		return "", nil
	}
	if s.Combat != nil && !s.Combat.Over {
		// A turn cannot end mid-combat; the combat conclusion drives it.
		return "", nil
	}

	ended := s.Turn
	nextID, ok := s.NextLivingPlayer(playerID)
	if !ok {
		return "", []pending{{
			topic:   event.TopicTurnEnded,
			payload: event.TurnEnded{TurnNumber: ended.Number, PlayerID: playerID, Forced: forced},
		}}
	}

	next, _ := s.Player(nextID)
	next.ResetTurnBudget(r.actionsPerTurn)
	s.Turn = session.Turn{
		Number:         ended.Number + 1,
		ActivePlayerID: nextID,
	}

	r.logger.Debug("turn advanced",
		zap.String("session_id", s.ID),
		zap.Int("turn", s.Turn.Number),
		zap.String("active_player_id", nextID),
		zap.Bool("forced", forced),
	)
	return nextID, []pending{
		{
			topic:   event.TopicTurnEnded,
			payload: event.TurnEnded{TurnNumber: ended.Number, PlayerID: playerID, Forced: forced},
		},
		{
			topic:   event.TopicTurnStarted,
			payload: event.TurnStarted{TurnNumber: s.Turn.Number, PlayerID: nextID},
		},
	}
}
