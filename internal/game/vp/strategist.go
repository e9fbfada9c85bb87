package vp

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/action"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/event"
	"github.com/cory-johannsen/skirmish/internal/game/session"
)

// Config holds the strategist's pacing knobs. The initial delay is UX
// pacing only; no gameplay rule depends on it.
type Config struct {
	// MinInitialDelay and MaxInitialDelay bound the uniform thinking
	// pause before the first decision of a turn.
	MinInitialDelay time.Duration
	MaxInitialDelay time.Duration
	// StepDelay is the fixed pause between consecutive decisions.
	StepDelay time.Duration
}

// Strategist drives every virtual player. It subscribes to turn and
// combat events, schedules decision steps on timers, and issues commands
// through the action resolver exactly like a human caller.
//
// Every scheduled step re-validates its premise against live session
// state before acting; a step whose premise no longer holds degrades to a
// no-op.
type Strategist struct {
	store    session.Store
	resolver *action.Resolver
	bus      *event.Bus
	src      dice.Source
	logger   *zap.Logger
	cfg      Config

	mu      sync.Mutex
	agents  map[agentKey]*agentState
	unsubs  []func()
	started bool
	stopped bool
}

type agentKey struct {
	sessionID string
	playerID  string
}

// NewStrategist creates a Strategist. Subscriptions are not registered
// until Start.
//
// Precondition: all arguments must be non-nil.
func NewStrategist(store session.Store, resolver *action.Resolver, bus *event.Bus, src dice.Source, logger *zap.Logger, cfg Config) *Strategist {
	return &Strategist{
		store:    store,
		resolver: resolver,
		bus:      bus,
		src:      src,
		logger:   logger,
		cfg:      cfg,
		agents:   make(map[agentKey]*agentState),
	}
}

// Start registers the event subscriptions. Calling Start twice is a no-op.
func (v *Strategist) Start() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.started {
		return
	}
	v.started = true
	v.unsubs = append(v.unsubs,
		v.bus.Subscribe(event.TopicTurnStarted, v.onTurnStarted),
		v.bus.Subscribe(event.TopicCombatResolved, v.onCombatResolved),
	)
}

// Stop unsubscribes and cancels every pending decision step.
//
// Postcondition: No further commands are issued; in-flight steps degrade
// to no-ops.
func (v *Strategist) Stop() {
	v.mu.Lock()
	unsubs := v.unsubs
	v.unsubs = nil
	v.stopped = true
	for key, agent := range v.agents {
		if agent.cancel != nil {
			agent.cancel()
		}
		delete(v.agents, key)
	}
	v.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
}

// onTurnStarted wakes the agent for a virtual active player and retires
// any leftover agents of the same session.
func (v *Strategist) onTurnStarted(e event.Event) {
	payload, ok := e.Payload.(event.TurnStarted)
	if !ok {
		return
	}

	s, err := v.store.Get(e.SessionID)
	if err != nil {
		return
	}
	s.Lock()
	p, found := s.Player(payload.PlayerID)
	virtual := found && p.IsVirtual() && p.Alive()
	s.Unlock()

	v.mu.Lock()
	if v.stopped {
		v.mu.Unlock()
		return
	}
	for key, agent := range v.agents {
		if key.sessionID == e.SessionID {
			if agent.cancel != nil {
				agent.cancel()
			}
			delete(v.agents, key)
		}
	}
	if !virtual {
		v.mu.Unlock()
		return
	}

	key := agentKey{sessionID: e.SessionID, playerID: payload.PlayerID}
	agent := &agentState{SessionID: e.SessionID, PlayerID: payload.PlayerID}
	v.agents[key] = agent
	v.scheduleLocked(key, agent, v.initialDelay())
	v.mu.Unlock()

	v.logger.Debug("virtual player woken",
		zap.String("session_id", e.SessionID),
		zap.String("player_id", payload.PlayerID),
	)
}

// onCombatResolved resumes the active virtual player's turn once its
// encounter has concluded.
func (v *Strategist) onCombatResolved(e event.Event) {
	s, err := v.store.Get(e.SessionID)
	if err != nil {
		return
	}
	s.Lock()
	p, found := s.ActivePlayer()
	virtual := found && p.IsVirtual() && p.Alive()
	playerID := s.Turn.ActivePlayerID
	s.Unlock()
	if !virtual {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.stopped {
		return
	}
	key := agentKey{sessionID: e.SessionID, playerID: playerID}
	agent, ok := v.agents[key]
	if !ok {
		agent = &agentState{SessionID: e.SessionID, PlayerID: playerID}
		v.agents[key] = agent
	}
	v.scheduleLocked(key, agent, v.cfg.StepDelay)
}

// initialDelay draws the pre-turn thinking pause uniformly from the
// configured range.
func (v *Strategist) initialDelay() time.Duration {
	min, max := v.cfg.MinInitialDelay, v.cfg.MaxInitialDelay
	if max <= min {
		return min
	}
	return min + time.Duration(v.src.Intn(int(max-min)+1))
}

// scheduleLocked arms the agent's next decision step, superseding any
// pending one. Callers hold v.mu.
func (v *Strategist) scheduleLocked(key agentKey, agent *agentState, delay time.Duration) {
	if agent.cancel != nil {
		agent.cancel()
	}
	timer := time.AfterFunc(delay, func() { v.step(key) })
	agent.cancel = func() { timer.Stop() }
}

// drop retires the agent and cancels its pending step.
func (v *Strategist) drop(key agentKey) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if agent, ok := v.agents[key]; ok {
		if agent.cancel != nil {
			agent.cancel()
		}
		delete(v.agents, key)
	}
}

// reschedule arms the agent's next step if it is still registered.
func (v *Strategist) reschedule(key agentKey) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.stopped {
		return
	}
	if agent, ok := v.agents[key]; ok {
		v.scheduleLocked(key, agent, v.cfg.StepDelay)
	}
}

// step runs one scheduled decision: snapshot, plan, execute. The premise
// is re-checked from live state; a stale step retires the agent without
// side effects.
func (v *Strategist) step(key agentKey) {
	v.mu.Lock()
	agent, ok := v.agents[key]
	stopped := v.stopped
	v.mu.Unlock()
	if !ok || stopped {
		return
	}

	s, err := v.store.Get(key.sessionID)
	if err != nil {
		v.drop(key)
		return
	}

	s.Lock()
	ws := snapshot(s, key.playerID)
	s.Unlock()
	if ws == nil {
		v.drop(key)
		return
	}

	d := plan(ws, agent, v.src)
	v.logger.Debug("virtual player decision",
		zap.String("session_id", key.sessionID),
		zap.String("player_id", key.playerID),
		zap.String("goal", agent.Goal.String()),
	)
	v.execute(s, key, d)
}

// execute issues the planned command and arranges the follow-up: another
// scheduled step, a wait for the combat outcome, or end of turn.
func (v *Strategist) execute(s *session.Session, key agentKey, d decision) {
	switch d.Kind {
	case decideWait:
		// The combat-resolved event reschedules.

	case decideAttack:
		if err := v.resolver.Attack(s, key.playerID, d.Pos.X, d.Pos.Y); err != nil {
			v.logger.Debug("virtual attack rejected",
				zap.String("player_id", key.playerID),
				zap.Error(err),
			)
			v.endTurn(s, key)
			return
		}
		// Combat now runs on its own timer; resume on resolution.

	case decideSanctuary:
		v.resolver.ApplySanctuary(s, key.playerID, d.Pos.X, d.Pos.Y)
		v.reschedule(key)

	case decideMoveToward:
		if !v.resolver.MoveTowardOneStep(s, key.playerID, d.Pos) {
			v.endTurn(s, key)
			return
		}
		v.reschedule(key)

	case decideMoveDir:
		if !v.resolver.Move(s, key.playerID, d.Dir) {
			v.endTurn(s, key)
			return
		}
		v.reschedule(key)

	case decidePickUpFlag:
		if err := v.resolver.PickUpFlag(s, key.playerID); err != nil {
			v.endTurn(s, key)
			return
		}
		v.reschedule(key)

	case decideReturnFlag:
		returned, err := v.resolver.ReturnFlag(s, key.playerID)
		if err != nil || !returned {
			v.endTurn(s, key)
			return
		}
		// Returning the flag ends the match; the game-over flow owns the
		// rest.
		v.drop(key)

	case decideEndTurn:
		v.endTurn(s, key)
	}
}

func (v *Strategist) endTurn(s *session.Session, key agentKey) {
	v.drop(key)
	v.resolver.EndTurn(s, key.playerID, false)
}
