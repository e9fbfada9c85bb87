package session

import (
	"sync"

	"github.com/cory-johannsen/skirmish/internal/game/board"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

// Mode selects the rule set for a session.
type Mode int

const (
	ModeClassic Mode = iota
	ModeCaptureTheFlag
)

// String returns the human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeClassic:
		return "classic"
	case ModeCaptureTheFlag:
		return "capture-the-flag"
	default:
		return "unknown"
	}
}

// Turn describes the session's current turn.
type Turn struct {
	// Number counts turns from 1.
	Number int
	// ActivePlayerID is the player whose turn it is.
	//
	// Invariant: always a member of the session's TurnOrder.
	ActivePlayerID string
	// ActionUsed is true once the active player has used an action this turn.
	ActionUsed bool
}

// Session is the live state of one match. It is created once at match
// start, mutated continuously by the action resolver, timer engine, and
// virtual-player strategist, and discarded when the match ends.
//
// All mutation happens while holding the session lock; multiple
// independently scheduled timers target the same session, and the lock is
// what serializes them.
type Session struct {
	mu sync.Mutex

	// ID is the unique session identifier.
	ID string
	// MapID names the board this session is played on.
	MapID string
	// Size is the board edge length.
	Size int
	// Mode is the active rule set.
	Mode Mode
	// Players maps player id to player state.
	Players map[string]*Player
	// Turn is the current turn descriptor.
	//
	// Invariant: Turn.ActivePlayerID is a member of TurnOrder; exactly one
	// player is active at a time.
	Turn Turn
	// TurnOrder is the full ordering of player ids computed once at start.
	//
	// Invariant: a permutation of all player ids with no duplicates.
	TurnOrder []string
	// StartPoints are the assigned spawn objects, one per player.
	StartPoints []board.Object
	// AdminMode relaxes debugging restrictions; no gameplay rule depends
	// on it.
	AdminMode bool
	// Cache is the session's spatial index over its board.
	Cache *board.Cache
	// Combat is the in-progress encounter, or nil outside combat.
	Combat *combat.Encounter
}

// Lock acquires the session's mutation lock.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session's mutation lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// Player returns the player with the given id.
//
// Postcondition: Returns (player, true) if found, or (nil, false) otherwise.
func (s *Session) Player(id string) (*Player, bool) {
	p, ok := s.Players[id]
	return p, ok
}

// ActivePlayer returns the player whose turn it is.
//
// Postcondition: Returns (player, true) unless the session has no valid
// active player.
func (s *Session) ActivePlayer() (*Player, bool) {
	return s.Player(s.Turn.ActivePlayerID)
}

// LivingOpponents returns all living players that are valid combat targets
// for the given player: everyone else in classic mode, the other teams'
// players in team modes.
func (s *Session) LivingOpponents(of *Player) []*Player {
	var opponents []*Player
	for _, id := range s.TurnOrder {
		p, ok := s.Players[id]
		if !ok || p.ID == of.ID || !p.Alive() {
			continue
		}
		if of.Team != "" && p.Team == of.Team {
			continue
		}
		opponents = append(opponents, p)
	}
	return opponents
}

// NextLivingPlayer returns the id of the next living player in turn order
// after the given id, wrapping around.
//
// Postcondition: Returns ("", false) when no other living player exists.
func (s *Session) NextLivingPlayer(afterID string) (string, bool) {
	start := -1
	for i, id := range s.TurnOrder {
		if id == afterID {
			start = i
			break
		}
	}
	if start == -1 {
		return "", false
	}
	for step := 1; step <= len(s.TurnOrder); step++ {
		id := s.TurnOrder[(start+step)%len(s.TurnOrder)]
		if p, ok := s.Players[id]; ok && p.Alive() && id != afterID {
			return id, true
		}
	}
	return "", false
}

// LivingCount returns the number of players still alive.
func (s *Session) LivingCount() int {
	n := 0
	for _, p := range s.Players {
		if p.Alive() {
			n++
		}
	}
	return n
}

// FlagCarrier returns the player currently carrying the flag.
//
// Postcondition: Returns (player, true) if a carrier exists, or
// (nil, false) otherwise.
func (s *Session) FlagCarrier() (*Player, bool) {
	for _, p := range s.Players {
		if p.CarryingFlag {
			return p, true
		}
	}
	return nil, false
}
