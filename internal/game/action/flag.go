package action

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/board"
	"github.com/cory-johannsen/skirmish/internal/game/event"
	"github.com/cory-johannsen/skirmish/internal/game/session"
)

// PickUpFlag picks up the flag under the player. The player must stand
// exactly on the flag's tile and have at least one action remaining.
//
// Postcondition: On success the flag object leaves the board, the player
// carries it, and TopicFlagPickedUp was published.
func (r *Resolver) PickUpFlag(s *session.Session, playerID string) error {
	s.Lock()
	events, err := r.pickUpFlag(s, playerID)
	s.Unlock()

	r.publish(s.ID, events)
	return err
}

func (r *Resolver) pickUpFlag(s *session.Session, playerID string) ([]pending, error) {
	if s.Mode != session.ModeCaptureTheFlag {
		return nil, ErrNotCaptureTheFlag
	}
	p, ok := s.Player(playerID)
	if !ok {
		return nil, fmt.Errorf("player %q: %w", playerID, ErrPlayerNotFound)
	}
	if !p.Alive() || p.ActionsRemaining <= 0 {
		return nil, nil
	}

	obj, found := s.Cache.ObjectAt(p.Pos)
	if !found || obj.Kind != board.ObjectFlag {
		return nil, nil
	}

	p.SpendAction()
	s.Turn.ActionUsed = true
	s.Cache.RemoveObject(p.Pos)
	p.CarryingFlag = true

	return []pending{{
		topic:   event.TopicFlagPickedUp,
		payload: event.FlagPickedUp{PlayerID: p.ID, Pos: p.Pos},
	}}, nil
}

// ReturnFlag returns the carried flag to the player's own base. The
// player must stand exactly on their assigned start point, not merely
// adjacent to it.
//
// Postcondition: Returns true iff the flag was returned; the match
// conclusion is the game-over subscriber's concern.
func (r *Resolver) ReturnFlag(s *session.Session, playerID string) (bool, error) {
	s.Lock()
	returned, events, err := r.returnFlag(s, playerID)
	s.Unlock()

	r.publish(s.ID, events)
	return returned, err
}

func (r *Resolver) returnFlag(s *session.Session, playerID string) (bool, []pending, error) {
	if s.Mode != session.ModeCaptureTheFlag {
		return false, nil, ErrNotCaptureTheFlag
	}
	p, ok := s.Player(playerID)
	if !ok {
		return false, nil, fmt.Errorf("player %q: %w", playerID, ErrPlayerNotFound)
	}
	if !p.Alive() || !p.CarryingFlag {
		return false, nil, nil
	}
	if p.Pos != p.StartPos {
		return false, nil, nil
	}

	p.CarryingFlag = false

	return true, []pending{{
		topic:   event.TopicFlagReturned,
		payload: event.FlagReturned{PlayerID: p.ID, Team: p.Team},
	}}, nil
}
