package action

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/board"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/event"
	"github.com/cory-johannsen/skirmish/internal/game/session"
)

// Attack starts combat between the attacker and the occupant of (x, y).
//
// An unknown attacker or an empty target tile is a not-found condition:
// the command is rejected and the session left untouched. An attacker
// with zero actions remaining is a silent no-op by policy.
//
// Postcondition: On success the session carries a live encounter and
// TopicCombatStarted was published.
func (r *Resolver) Attack(s *session.Session, attackerID string, x, y int) error {
	pos := board.Position{X: x, Y: y}

	s.Lock()
	events, err := r.startCombat(s, attackerID, pos)
	s.Unlock()

	r.publish(s.ID, events)
	return err
}

func (r *Resolver) startCombat(s *session.Session, attackerID string, pos board.Position) ([]pending, error) {
	attacker, ok := s.Player(attackerID)
	if !ok {
		return nil, fmt.Errorf("attacker %q: %w", attackerID, ErrPlayerNotFound)
	}
	if !attacker.Alive() {
		return nil, fmt.Errorf("attacker %q: %w", attackerID, ErrPlayerDead)
	}
	if attacker.ActionsRemaining <= 0 {
		return nil, nil
	}
	if s.Combat != nil && !s.Combat.Over {
		return nil, fmt.Errorf("combat already in progress between %q and %q", s.Combat.InitiatorID, s.Combat.TargetID)
	}

	occupantID, occupied := s.Cache.OccupantAt(pos)
	if !occupied {
		return nil, fmt.Errorf("tile %s: %w", pos, ErrNoOccupant)
	}
	target, ok := s.Player(occupantID)
	if !ok || !target.Alive() {
		return nil, fmt.Errorf("tile %s: %w", pos, ErrNoOccupant)
	}

	attacker.SpendAction()
	s.Turn.ActionUsed = true

	encounter, err := combat.NewEncounter(r.buildCombatant(s, attacker), r.buildCombatant(s, target))
	if err != nil {
		return nil, err
	}
	s.Combat = encounter

	r.logger.Info("combat started",
		zap.String("session_id", s.ID),
		zap.String("attacker_id", attacker.ID),
		zap.String("defender_id", target.ID),
	)
	return []pending{{
		topic:   event.TopicCombatStarted,
		payload: event.CombatStarted{AttackerID: attacker.ID, DefenderID: target.ID},
	}}, nil
}

// buildCombatant snapshots a player into its combat view. The one-time
// sanctuary attack bonus moves into the encounter here. Callers hold the
// session lock.
func (r *Resolver) buildCombatant(s *session.Session, p *session.Player) *combat.Combatant {
	onWater := false
	if kind, err := s.Cache.KindAt(p.Pos); err == nil {
		onWater = kind == board.TileWater
	}
	return &combat.Combatant{
		ID:          p.ID,
		Name:        p.Name,
		MaxHealth:   p.MaxHealth,
		Health:      p.CurrentHealth,
		Attack:      p.Attack,
		Defense:     p.Defense,
		AttackDie:   p.AttackDie,
		DefenseDie:  p.DefenseDie,
		AttackBonus: p.ConsumeAttackBonus(),
		OnWater:     onWater,
	}
}

// FightRound resolves one combat round: both combatants take their
// default posture for their current health, the exchange is rolled, and
// health is written back to the session players.
//
// Postcondition: Publishes TopicCombatRound, and TopicCombatResolved when
// the round concluded the encounter.
func (r *Resolver) FightRound(s *session.Session) (combat.RoundResult, error) {
	s.Lock()
	if s.Combat == nil || s.Combat.Over {
		s.Unlock()
		return combat.RoundResult{}, ErrNoCombat
	}
	encounter := s.Combat
	for _, c := range encounter.Combatants {
		c.ChoosePosture()
	}

	result := combat.ResolveRound(encounter, r.roller.Source())

	for id, c := range encounter.Combatants {
		if p, ok := s.Player(id); ok {
			p.CurrentHealth = c.Health
		}
	}

	events := []pending{{topic: event.TopicCombatRound, payload: event.CombatRound{Result: result}}}
	if encounter.Over {
		events = append(events, r.finishEncounter(s, encounter)...)
	}
	s.Unlock()

	r.publish(s.ID, events)
	return result, nil
}

// EvadeCombat spends one of the player's evade attempts. A success ends
// the encounter in a draw with no health change.
//
// Postcondition: Publishes TopicCombatResolved on success; an exhausted
// evade budget is a silent no-op.
func (r *Resolver) EvadeCombat(s *session.Session, playerID string) (combat.EvadeResult, error) {
	s.Lock()
	if s.Combat == nil || s.Combat.Over {
		s.Unlock()
		return combat.EvadeResult{}, ErrNoCombat
	}
	encounter := s.Combat
	if _, ok := encounter.Combatant(playerID); !ok {
		s.Unlock()
		return combat.EvadeResult{}, fmt.Errorf("combatant %q: %w", playerID, ErrPlayerNotFound)
	}

	result := combat.Evade(encounter, playerID, r.roller.Source())

	var events []pending
	if encounter.Over {
		events = r.finishEncounter(s, encounter)
	}
	s.Unlock()

	r.publish(s.ID, events)
	return result, nil
}

// finishEncounter applies the encounter conclusion to the session: win
// statistics, flag transfer from a defeated carrier, and clearing the
// combat state. Callers hold the session lock.
func (r *Resolver) finishEncounter(s *session.Session, encounter *combat.Encounter) []pending {
	resolved := event.CombatResolved{
		WinnerID:  encounter.WinnerID,
		Draw:      encounter.Draw,
		EscapedID: encounter.EscapedID,
	}

	var events []pending
	if encounter.WinnerID != "" {
		loser := encounter.Opponent(encounter.WinnerID)
		resolved.LoserID = loser.ID

		if winner, ok := s.Player(encounter.WinnerID); ok {
			winner.Wins++
			if loserPlayer, found := s.Player(loser.ID); found && loserPlayer.CarryingFlag {
				loserPlayer.CarryingFlag = false
				winner.CarryingFlag = true
				events = append(events, pending{
					topic:   event.TopicFlagTransferred,
					payload: event.FlagTransferred{FromPlayerID: loser.ID, ToPlayerID: winner.ID},
				})
			}
		}
	}

	s.Combat = nil
	return append([]pending{{topic: event.TopicCombatResolved, payload: resolved}}, events...)
}
