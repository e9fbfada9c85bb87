// Package matchserver wires the match engine together: it owns the
// session store, event bus, action resolver, virtual-player strategist,
// and the per-session timers, and exposes the operations a transport
// adapter calls to run matches.
package matchserver

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/action"
	"github.com/cory-johannsen/skirmish/internal/game/board"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/event"
	"github.com/cory-johannsen/skirmish/internal/game/session"
	"github.com/cory-johannsen/skirmish/internal/game/timer"
	"github.com/cory-johannsen/skirmish/internal/game/turn"
	"github.com/cory-johannsen/skirmish/internal/game/vp"
)

// ErrUnknownMap signals a StartMatch request naming a board that was not
// loaded.
var ErrUnknownMap = errors.New("unknown map")

// ErrNoPlayers signals a StartMatch request with an empty roster.
var ErrNoPlayers = errors.New("match needs at least one player")

// PlayerSpec describes one player of a new match. Zero-valued stats are
// filled with the standard profile.
type PlayerSpec struct {
	Name       string
	Team       string
	Style      session.VirtualStyle
	Speed      int
	MaxHealth  int
	Attack     int
	Defense    int
	AttackDie  dice.Die
	DefenseDie dice.Die
}

// The standard player profile.
const (
	defaultSpeed     = 3
	defaultMaxHealth = 10
	defaultAttack    = 4
	defaultDefense   = 2
)

func (p PlayerSpec) withDefaults() PlayerSpec {
	if p.Speed == 0 {
		p.Speed = defaultSpeed
	}
	if p.MaxHealth == 0 {
		p.MaxHealth = defaultMaxHealth
	}
	if p.Attack == 0 {
		p.Attack = defaultAttack
	}
	if p.Defense == 0 {
		p.Defense = defaultDefense
	}
	if !p.AttackDie.Valid() {
		p.AttackDie = dice.D6
	}
	if !p.DefenseDie.Valid() {
		p.DefenseDie = dice.D4
	}
	return p
}

// StartRequest describes a new match.
type StartRequest struct {
	MapID     string
	Mode      session.Mode
	AdminMode bool
	Players   []PlayerSpec
}

// matchTimers bundles the timers targeting one session.
type matchTimers struct {
	turn     *timer.TurnTimer
	combat   *timer.CombatTimer
	gameOver *timer.GameOverTimer
	finished bool
}

// Service runs matches. It implements server.Service so the lifecycle
// manager can own it.
type Service struct {
	cfg        config.MatchConfig
	store      session.Store
	bus        *event.Bus
	resolver   *action.Resolver
	strategist *vp.Strategist
	roller     *dice.Roller
	boards     map[string]*board.Board
	logger     *zap.Logger

	// tickInterval is the wall-clock length of one timer second.
	tickInterval time.Duration

	mu      sync.Mutex
	timers  map[string]*matchTimers
	unsubs  []func()
	done    chan struct{}
	stopped bool
}

// NewService creates a Service over the given collaborators.
//
// Precondition: all arguments must be non-nil; boards must hold every map
// StartMatch may name.
func NewService(cfg config.MatchConfig, store session.Store, bus *event.Bus, resolver *action.Resolver, strategist *vp.Strategist, roller *dice.Roller, boards map[string]*board.Board, logger *zap.Logger) *Service {
	return &Service{
		cfg:          cfg,
		store:        store,
		bus:          bus,
		resolver:     resolver,
		strategist:   strategist,
		roller:       roller,
		boards:       boards,
		logger:       logger,
		tickInterval: time.Second,
		timers:       make(map[string]*matchTimers),
		done:         make(chan struct{}),
	}
}

// Start registers the event subscriptions, starts the strategist, and
// blocks until Stop.
func (m *Service) Start() error {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return errors.New("service already stopped")
	}
	m.unsubs = append(m.unsubs,
		m.bus.Subscribe(event.TopicTurnStarted, m.onTurnStarted),
		m.bus.Subscribe(event.TopicCombatStarted, m.onCombatStarted),
		m.bus.Subscribe(event.TopicCombatRound, m.onCombatRound),
		m.bus.Subscribe(event.TopicCombatResolved, m.onCombatResolved),
		m.bus.Subscribe(event.TopicFlagReturned, m.onFlagReturned),
	)
	m.mu.Unlock()

	m.strategist.Start()
	m.logger.Info("match service started", zap.Int("boards", len(m.boards)))

	<-m.done
	return nil
}

// Stop shuts the service down: strategist, subscriptions, and every
// session timer.
func (m *Service) Stop() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	unsubs := m.unsubs
	m.unsubs = nil
	for id, t := range m.timers {
		stopTimers(t)
		delete(m.timers, id)
	}
	close(m.done)
	m.mu.Unlock()

	m.strategist.Stop()
	for _, unsub := range unsubs {
		unsub()
	}
	m.logger.Info("match service stopped")
}

func stopTimers(t *matchTimers) {
	if t.turn != nil {
		t.turn.Stop()
	}
	if t.combat != nil {
		t.combat.Stop()
	}
	if t.gameOver != nil {
		t.gameOver.Stop()
	}
}

// StartMatch creates a session on the named board, rolls the turn order,
// assigns start points, and opens the first turn.
//
// Postcondition: On success the session is registered, exactly one player
// is active with a fresh budget, the turn timer is running, and
// TopicTurnStarted was published. Too few start points is fatal: no
// session is registered.
func (m *Service) StartMatch(req StartRequest) (string, error) {
	b, ok := m.boards[req.MapID]
	if !ok {
		return "", fmt.Errorf("map %q: %w", req.MapID, ErrUnknownMap)
	}
	if len(req.Players) == 0 {
		return "", ErrNoPlayers
	}

	s := &session.Session{
		ID:        uuid.NewString(),
		MapID:     b.ID,
		Size:      b.Size,
		Mode:      req.Mode,
		AdminMode: req.AdminMode,
		Players:   make(map[string]*session.Player, len(req.Players)),
		Cache:     board.NewCache(b),
	}

	roster := make([]*session.Player, 0, len(req.Players))
	for _, spec := range req.Players {
		spec = spec.withDefaults()
		p := &session.Player{
			ID:            uuid.NewString(),
			Name:          spec.Name,
			Team:          spec.Team,
			Style:         spec.Style,
			Speed:         spec.Speed,
			CurrentHealth: spec.MaxHealth,
			MaxHealth:     spec.MaxHealth,
			Attack:        spec.Attack,
			Defense:       spec.Defense,
			AttackDie:     spec.AttackDie,
			DefenseDie:    spec.DefenseDie,
		}
		s.Players[p.ID] = p
		roster = append(roster, p)
	}

	s.TurnOrder = turn.ComputeOrder(roster, m.roller.Source())
	if err := turn.AssignStartPoints(s, b.StartPoints(), m.roller.Source()); err != nil {
		return "", fmt.Errorf("starting match on %q: %w", req.MapID, err)
	}

	first, _ := s.Player(s.TurnOrder[0])
	first.ResetTurnBudget(m.resolver.ActionsPerTurn())
	s.Turn = session.Turn{Number: 1, ActivePlayerID: first.ID}

	if err := m.store.Create(s); err != nil {
		return "", err
	}

	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		m.store.Delete(s.ID)
		return "", errors.New("service already stopped")
	}
	m.timers[s.ID] = &matchTimers{turn: m.newTurnTimer(s.ID)}
	m.mu.Unlock()

	m.logger.Info("match started",
		zap.String("session_id", s.ID),
		zap.String("map_id", s.MapID),
		zap.String("mode", s.Mode.String()),
		zap.Int("players", len(roster)),
	)

	// The turn-started handler arms the turn timer and wakes a virtual
	// first player.
	m.bus.Publish(event.TopicTurnStarted, s.ID, event.TurnStarted{
		TurnNumber: 1,
		PlayerID:   first.ID,
	})
	return s.ID, nil
}

// EndMatch tears the session down immediately, without the game-over
// grace period.
func (m *Service) EndMatch(sessionID string) {
	m.mu.Lock()
	if t, ok := m.timers[sessionID]; ok {
		stopTimers(t)
		delete(m.timers, sessionID)
	}
	m.mu.Unlock()

	m.store.Delete(sessionID)
	m.logger.Info("match ended", zap.String("session_id", sessionID))
}

func (m *Service) newTurnTimer(sessionID string) *timer.TurnTimer {
	onTick := func(remaining int) {
		m.bus.Publish(event.TopicTurnClock, sessionID, event.TurnClock{Remaining: remaining})
	}
	onExpire := func() {
		m.forceEndTurn(sessionID)
	}
	return timer.NewTurnTimer(m.cfg.TurnSeconds, m.tickInterval, onTick, onExpire)
}

// lookupTimers returns the live timer bundle for the session.
func (m *Service) lookupTimers(sessionID string) *matchTimers {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.timers[sessionID]
	if !ok || t.finished {
		return nil
	}
	return t
}

// onTurnStarted (re)arms the session's turn timer for the new turn.
func (m *Service) onTurnStarted(e event.Event) {
	t := m.lookupTimers(e.SessionID)
	if t == nil {
		return
	}
	t.turn.Stop()
	t.turn.Start()
}

// onCombatStarted freezes the turn clock and opens the combat-round clock.
func (m *Service) onCombatStarted(e event.Event) {
	t := m.lookupTimers(e.SessionID)
	if t == nil {
		return
	}
	t.turn.Pause()

	seconds := m.combatSeconds(e.SessionID)
	m.mu.Lock()
	if t.combat != nil {
		t.combat.Stop()
	}
	t.combat = timer.NewCombatTimer(seconds, m.tickInterval, func() {
		m.forceCombatRound(e.SessionID)
	})
	m.mu.Unlock()
	t.combat.Start()
}

// onCombatRound restarts the round clock for the next round, shortening
// it once nobody can evade.
func (m *Service) onCombatRound(e event.Event) {
	t := m.lookupTimers(e.SessionID)
	if t == nil || t.combat == nil {
		return
	}
	t.combat.Reset(m.combatSeconds(e.SessionID))
}

// onCombatResolved closes the round clock, resumes the turn clock, and
// checks whether the match is decided.
func (m *Service) onCombatResolved(e event.Event) {
	t := m.lookupTimers(e.SessionID)
	if t != nil {
		m.mu.Lock()
		if t.combat != nil {
			t.combat.Stop()
			t.combat = nil
		}
		m.mu.Unlock()
		t.turn.Resume()
	}

	s, err := m.store.Get(e.SessionID)
	if err != nil {
		return
	}
	s.Lock()
	living := s.LivingCount()
	var winnerID, team string
	if living == 1 {
		for _, p := range s.Players {
			if p.Alive() {
				winnerID, team = p.ID, p.Team
			}
		}
	}
	s.Unlock()

	if living <= 1 {
		m.finishMatch(e.SessionID, winnerID, team)
	}
}

// onFlagReturned concludes a capture-the-flag match.
func (m *Service) onFlagReturned(e event.Event) {
	payload, ok := e.Payload.(event.FlagReturned)
	if !ok {
		return
	}
	m.finishMatch(e.SessionID, payload.PlayerID, payload.Team)
}

// combatSeconds returns the round duration: the shorter value once no
// combatant has an evade attempt left.
func (m *Service) combatSeconds(sessionID string) int {
	s, err := m.store.Get(sessionID)
	if err != nil {
		return m.cfg.CombatTurnSeconds
	}
	s.Lock()
	defer s.Unlock()
	if s.Combat == nil {
		return m.cfg.CombatTurnSeconds
	}
	for _, c := range s.Combat.Combatants {
		if c.EvadesLeft > 0 {
			return m.cfg.CombatTurnSeconds
		}
	}
	return m.cfg.CombatTurnSecondsNoEvades
}

// forceEndTurn is the turn timer's expiry path. It must never fail: any
// panic is recovered and logged, leaving the session to the next timer.
func (m *Service) forceEndTurn(sessionID string) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("forced end of turn panicked",
				zap.String("session_id", sessionID),
				zap.Any("panic", r),
			)
		}
	}()

	s, err := m.store.Get(sessionID)
	if err != nil {
		return
	}
	s.Lock()
	active := s.Turn.ActivePlayerID
	s.Unlock()

	m.logger.Debug("turn clock expired",
		zap.String("session_id", sessionID),
		zap.String("player_id", active),
	)
	m.resolver.EndTurn(s, active, true)
}

// forceCombatRound is the combat timer's expiry path: the round resolves
// with default postures when nobody acted in time.
func (m *Service) forceCombatRound(sessionID string) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("forced combat round panicked",
				zap.String("session_id", sessionID),
				zap.Any("panic", r),
			)
		}
	}()

	s, err := m.store.Get(sessionID)
	if err != nil {
		return
	}
	if _, err := m.resolver.FightRound(s); err != nil && !errors.Is(err, action.ErrNoCombat) {
		m.logger.Warn("forced combat round failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
	}
}

// finishMatch announces the outcome, freezes the session's clocks, and
// arms the teardown timer.
func (m *Service) finishMatch(sessionID, winnerID, team string) {
	m.mu.Lock()
	t, ok := m.timers[sessionID]
	if !ok || t.finished {
		m.mu.Unlock()
		return
	}
	t.finished = true
	if t.turn != nil {
		t.turn.Stop()
	}
	if t.combat != nil {
		t.combat.Stop()
		t.combat = nil
	}
	grace := time.Duration(m.cfg.GameOverSeconds) * m.tickInterval
	t.gameOver = timer.NewGameOverTimer(grace, func() {
		m.EndMatch(sessionID)
	})
	m.mu.Unlock()

	m.logger.Info("match decided",
		zap.String("session_id", sessionID),
		zap.String("winner_id", winnerID),
		zap.String("team", team),
	)
	m.bus.Publish(event.TopicGameOver, sessionID, event.GameOver{WinnerID: winnerID, Team: team})
}
