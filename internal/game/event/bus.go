// Package event provides the typed in-process event channel carrying
// domain events between the action resolver, timer engine, virtual-player
// strategist, and transport adapters. Delivery is synchronous and
// at-least-once per publish: Publish returns only after every subscriber
// handler has run.
package event

import (
	"sync"

	"go.uber.org/zap"
)

// Topic names a domain event stream.
type Topic string

const (
	TopicTurnStarted      Topic = "turn.started"
	TopicTurnEnded        Topic = "turn.ended"
	TopicPlayerMoved      Topic = "player.moved"
	TopicDoorToggled      Topic = "door.toggled"
	TopicCombatStarted    Topic = "combat.started"
	TopicCombatRound      Topic = "combat.round"
	TopicCombatResolved   Topic = "combat.resolved"
	TopicFlagPickedUp     Topic = "flag.picked-up"
	TopicFlagTransferred  Topic = "flag.transferred"
	TopicFlagReturned     Topic = "flag.returned"
	TopicSanctuaryApplied Topic = "sanctuary.applied"
	TopicActionsComputed  Topic = "actions.computed"
	TopicTurnClock        Topic = "turn.clock"
	TopicGameOver         Topic = "game.over"
)

// Event is one published domain event.
type Event struct {
	Topic     Topic
	SessionID string
	Payload   any
}

// Handler processes one event. Handlers run synchronously on the
// publisher's goroutine and must be short; anything slow schedules its own
// work and returns.
type Handler func(e Event)

// Bus is the in-process publish/subscribe channel.
// All methods are safe for concurrent use.
type Bus struct {
	mu       sync.RWMutex
	logger   *zap.Logger
	handlers map[Topic][]*subscription
}

type subscription struct {
	handler Handler
}

// NewBus creates an empty Bus.
//
// Precondition: logger must be non-nil.
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		logger:   logger,
		handlers: make(map[Topic][]*subscription),
	}
}

// Subscribe registers h for topic and returns an unsubscribe function.
// Calling unsubscribe more than once is safe.
//
// Precondition: h must be non-nil.
func (b *Bus) Subscribe(topic Topic, h Handler) (unsubscribe func()) {
	sub := &subscription{handler: h}

	b.mu.Lock()
	b.handlers[topic] = append(b.handlers[topic], sub)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			subs := b.handlers[topic]
			for i, s := range subs {
				if s == sub {
					b.handlers[topic] = append(subs[:i:i], subs[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish delivers the event to every subscriber of its topic, in
// subscription order, on the calling goroutine. A panicking handler is
// recovered and logged so one subscriber cannot break delivery to the rest.
//
// Publishers must not hold a session lock while publishing: handlers may
// take the lock themselves.
func (b *Bus) Publish(topic Topic, sessionID string, payload any) {
	b.mu.RLock()
	subs := make([]*subscription, len(b.handlers[topic]))
	copy(subs, b.handlers[topic])
	b.mu.RUnlock()

	e := Event{Topic: topic, SessionID: sessionID, Payload: payload}
	for _, sub := range subs {
		b.deliver(sub, e)
	}
}

func (b *Bus) deliver(sub *subscription, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("topic", string(e.Topic)),
				zap.String("session_id", e.SessionID),
				zap.Any("panic", r),
			)
		}
	}()
	sub.handler(e)
}
