// Package timer implements the independent countdowns that drive forced
// transitions in a match: the per-turn timer, the combat-round timer, and
// the one-shot game-over timer. Each timer runs its own goroutine; expiry
// callbacks fire on that goroutine and must re-validate their
// preconditions against the session before acting.
package timer

import (
	"sync"
	"time"
)

// TurnTimer counts down in whole-second steps from a configured duration.
// Reaching the last second stops the timer and fires the expiry callback.
// It supports pause (freezing the remainder, rounded down one second so a
// resume cannot expire instantly) and resume.
//
// All methods are safe for concurrent use.
type TurnTimer struct {
	mu        sync.Mutex
	seconds   int
	interval  time.Duration
	remaining int
	active    bool
	paused    bool
	done      chan struct{}
	onTick    func(remaining int)
	onExpire  func()
}

// NewTurnTimer creates a stopped TurnTimer. interval is the real-time
// length of one countdown second (injected so tests can compress time).
// onTick may be nil; onExpire must not be nil.
//
// Precondition: seconds >= 2; interval > 0.
func NewTurnTimer(seconds int, interval time.Duration, onTick func(remaining int), onExpire func()) *TurnTimer {
	if onTick == nil {
		onTick = func(int) {}
	}
	return &TurnTimer{
		seconds:  seconds,
		interval: interval,
		onTick:   onTick,
		onExpire: onExpire,
	}
}

// Start begins the countdown from the full duration. Starting an active
// timer restarts it.
//
// Postcondition: Remaining() == seconds and Active() == true.
func (t *TurnTimer) Start() {
	t.mu.Lock()
	t.stopLocked()
	t.remaining = t.seconds
	t.active = true
	t.paused = false
	t.done = make(chan struct{})
	done := t.done
	t.mu.Unlock()

	go t.run(done)
}

// Pause freezes the countdown. The frozen remainder is rounded down by one
// second (floored at one) so resuming never re-expires instantly.
//
// Pausing an inactive or already-paused timer is a no-op.
func (t *TurnTimer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active || t.paused {
		return
	}
	t.stopLocked()
	t.remaining--
	if t.remaining < 1 {
		t.remaining = 1
	}
	t.paused = true
}

// Resume restarts ticking from the frozen remainder.
//
// Resuming a timer that is not paused is a no-op.
func (t *TurnTimer) Resume() {
	t.mu.Lock()
	if !t.active || !t.paused {
		t.mu.Unlock()
		return
	}
	t.paused = false
	t.done = make(chan struct{})
	done := t.done
	t.mu.Unlock()

	go t.run(done)
}

// Stop halts the countdown without firing the expiry callback. Safe to
// call multiple times.
func (t *TurnTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	t.active = false
	t.paused = false
}

// Remaining returns the seconds left on the countdown.
func (t *TurnTimer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Active reports whether the countdown is running or paused.
func (t *TurnTimer) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// stopLocked closes the run goroutine's done channel if one is live.
// Callers must hold t.mu.
func (t *TurnTimer) stopLocked() {
	if t.done != nil {
		close(t.done)
		t.done = nil
	}
}

func (t *TurnTimer) run(done chan struct{}) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if expired := t.tick(done); expired {
				t.onExpire()
				return
			}
		case <-done:
			return
		}
	}
}

// tick decrements the countdown. Reaching the last second zeroes the
// remainder, deactivates the timer, and reports expiry.
func (t *TurnTimer) tick(done chan struct{}) (expired bool) {
	t.mu.Lock()
	if t.done != done {
		// A restart or stop superseded this goroutine.
		t.mu.Unlock()
		return false
	}
	t.remaining--
	if t.remaining <= 1 {
		t.remaining = 0
		t.active = false
		t.done = nil
		t.mu.Unlock()
		return true
	}
	remaining := t.remaining
	t.mu.Unlock()
	t.onTick(remaining)
	return false
}
