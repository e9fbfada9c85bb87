package event

import (
	"github.com/cory-johannsen/skirmish/internal/game/board"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

// TurnStarted is the payload for TopicTurnStarted.
type TurnStarted struct {
	TurnNumber int
	PlayerID   string
}

// TurnEnded is the payload for TopicTurnEnded. Forced is true when a timer
// expiry ended the turn rather than the player.
type TurnEnded struct {
	TurnNumber int
	PlayerID   string
	Forced     bool
}

// PlayerMoved is the payload for TopicPlayerMoved. Teleported is true when
// the step ended on a teleport tile and the player was relocated.
type PlayerMoved struct {
	PlayerID   string
	From       board.Position
	To         board.Position
	Teleported bool
}

// DoorToggled is the payload for TopicDoorToggled.
type DoorToggled struct {
	PlayerID string
	Pos      board.Position
	Open     bool
}

// CombatStarted is the payload for TopicCombatStarted.
type CombatStarted struct {
	AttackerID string
	DefenderID string
}

// CombatRound is the payload for TopicCombatRound.
type CombatRound struct {
	Result combat.RoundResult
}

// CombatResolved is the payload for TopicCombatResolved. Exactly one of
// WinnerID, Draw describes the conclusion; EscapedID is set for evades.
type CombatResolved struct {
	WinnerID  string
	LoserID   string
	Draw      bool
	EscapedID string
}

// FlagPickedUp is the payload for TopicFlagPickedUp.
type FlagPickedUp struct {
	PlayerID string
	Pos      board.Position
}

// FlagTransferred is the payload for TopicFlagTransferred.
type FlagTransferred struct {
	FromPlayerID string
	ToPlayerID   string
}

// FlagReturned is the payload for TopicFlagReturned; the carrier's team
// wins the match.
type FlagReturned struct {
	PlayerID string
	Team     string
}

// SanctuaryApplied is the payload for TopicSanctuaryApplied.
type SanctuaryApplied struct {
	PlayerID string
	ObjectID string
	Kind     board.ObjectKind
	Success  bool
	Amount   int
}

// TurnClock is the payload for TopicTurnClock, published once per
// countdown second.
type TurnClock struct {
	Remaining int
}

// GameOver is the payload for TopicGameOver.
type GameOver struct {
	WinnerID string
	Team     string
}
