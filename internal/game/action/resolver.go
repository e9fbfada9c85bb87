// Package action implements the shared command surface of a match: every
// player action, human or virtual, is validated and applied here against
// the session and its spatial cache. Successful applications publish
// domain events; the transport layer and the virtual-player strategist are
// both ordinary subscribers with no privileged path.
package action

import (
	"errors"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/board"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/event"
	"github.com/cory-johannsen/skirmish/internal/game/session"
)

// ErrPlayerNotFound signals a command referencing a player unknown to the
// session: a desynchronized caller. The single command is rejected; the
// session is untouched.
var ErrPlayerNotFound = errors.New("player not found in session")

// ErrNoOccupant signals an attack on a tile with no living occupant.
var ErrNoOccupant = errors.New("no occupant at target tile")

// ErrPlayerDead signals a dead player attempting to initiate an action.
var ErrPlayerDead = errors.New("player is dead")

// ErrNotCaptureTheFlag signals a flag command outside CTF mode.
var ErrNotCaptureTheFlag = errors.New("session is not in capture-the-flag mode")

// ErrNoCombat signals a combat command with no encounter in progress.
var ErrNoCombat = errors.New("no combat in progress")

// Kind classifies a contextual action offered to a player.
type Kind int

const (
	KindAttack Kind = iota
	KindDoor
	KindHealSanctuary
	KindFightSanctuary
)

// String returns the human-readable action kind name.
func (k Kind) String() string {
	switch k {
	case KindAttack:
		return "attack"
	case KindDoor:
		return "door"
	case KindHealSanctuary:
		return "heal-sanctuary"
	case KindFightSanctuary:
		return "fight-sanctuary"
	default:
		return "unknown"
	}
}

// Option is one currently-available contextual action.
type Option struct {
	Kind Kind
	Pos  board.Position
	// TargetID is the occupant's player id for KindAttack.
	TargetID string
}

// ComputedActions is the payload for event.TopicActionsComputed.
type ComputedActions struct {
	PlayerID string
	Options  []Option
}

// Resolver validates and applies player commands. It holds no per-session
// state of its own; all state lives in the session passed to each call.
//
// Every method takes the session lock for the mutation and publishes its
// events only after releasing it, so synchronous subscribers may issue
// follow-up commands without deadlocking.
type Resolver struct {
	bus    *event.Bus
	roller *dice.Roller
	logger *zap.Logger
	// actionsPerTurn is the action budget granted at each turn start.
	actionsPerTurn int
}

// NewResolver creates a Resolver.
//
// Precondition: bus, roller, and logger must be non-nil; actionsPerTurn >= 1.
func NewResolver(bus *event.Bus, roller *dice.Roller, logger *zap.Logger, actionsPerTurn int) *Resolver {
	return &Resolver{
		bus:            bus,
		roller:         roller,
		logger:         logger,
		actionsPerTurn: actionsPerTurn,
	}
}

// ActionsPerTurn returns the per-turn action budget.
func (r *Resolver) ActionsPerTurn() int {
	return r.actionsPerTurn
}

// pending is an event collected under the session lock and published
// after it is released.
type pending struct {
	topic   event.Topic
	payload any
}

func (r *Resolver) publish(sessionID string, events []pending) {
	for _, p := range events {
		r.bus.Publish(p.topic, sessionID, p.payload)
	}
}

// AvailableActions computes the contextual actions currently available to
// the player: for each orthogonally adjacent tile, an attack on a living
// occupant, a door toggle, or an unused sanctuary. Lookups that fail for
// edge positions are skipped, not propagated.
//
// The computed list is also published on TopicActionsComputed for
// observers such as UI highlighting.
//
// Postcondition: Returns an empty slice for unknown players and players
// with zero actions remaining; never offers the player's own tile or an
// off-board tile.
func (r *Resolver) AvailableActions(s *session.Session, playerID string) []Option {
	s.Lock()
	options := r.collectOptions(s, playerID)
	s.Unlock()

	r.bus.Publish(event.TopicActionsComputed, s.ID, ComputedActions{
		PlayerID: playerID,
		Options:  options,
	})
	return options
}

func (r *Resolver) collectOptions(s *session.Session, playerID string) []Option {
	options := []Option{}
	p, ok := s.Player(playerID)
	if !ok || p.ActionsRemaining <= 0 || !p.Alive() {
		return options
	}

	for _, pos := range s.Cache.Neighbors(p.Pos) {
		kind, err := s.Cache.KindAt(pos)
		if err != nil {
			continue
		}

		if occupantID, occupied := s.Cache.OccupantAt(pos); occupied {
			occupant, known := s.Player(occupantID)
			if known && occupant.ID != p.ID && occupant.Alive() {
				options = append(options, Option{Kind: KindAttack, Pos: pos, TargetID: occupant.ID})
			}
			continue
		}

		if kind.IsDoor() {
			options = append(options, Option{Kind: KindDoor, Pos: pos})
			continue
		}

		if obj, found := s.Cache.ObjectAt(pos); found && !p.UsedSanctuaries[obj.ID] {
			switch obj.Kind {
			case board.ObjectHealSanctuary:
				options = append(options, Option{Kind: KindHealSanctuary, Pos: pos})
			case board.ObjectFightSanctuary:
				options = append(options, Option{Kind: KindFightSanctuary, Pos: pos})
			}
		}
	}
	return options
}

// ToggleDoor flips the door at (x, y). Any other tile kind, an off-board
// position, or a missing tile is a silent no-op by policy, never an error.
//
// Postcondition: Publishes TopicDoorToggled only when a door changed state.
func (r *Resolver) ToggleDoor(s *session.Session, playerID string, x, y int) {
	pos := board.Position{X: x, Y: y}

	s.Lock()
	open, toggled := false, false
	if _, ok := s.Player(playerID); ok {
		open, toggled = s.Cache.ToggleDoor(pos)
	}
	s.Unlock()

	if !toggled {
		return
	}
	r.logger.Debug("door toggled",
		zap.String("session_id", s.ID),
		zap.String("player_id", playerID),
		zap.Stringer("pos", pos),
		zap.Bool("open", open),
	)
	r.bus.Publish(event.TopicDoorToggled, s.ID, event.DoorToggled{
		PlayerID: playerID,
		Pos:      pos,
		Open:     open,
	})
}
