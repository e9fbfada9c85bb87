package timer

import (
	"sync"
	"time"
)

// CombatTimer counts down from a fixed per-round duration. On expiry it
// fires the callback and resets to the full duration, modeling successive
// combat rounds, until explicitly stopped on combat conclusion.
//
// All methods are safe for concurrent use.
type CombatTimer struct {
	mu        sync.Mutex
	seconds   int
	interval  time.Duration
	remaining int
	active    bool
	done      chan struct{}
	onExpire  func()
}

// NewCombatTimer creates a stopped CombatTimer. interval is the real-time
// length of one countdown second.
//
// Precondition: seconds >= 1; interval > 0; onExpire must not be nil.
func NewCombatTimer(seconds int, interval time.Duration, onExpire func()) *CombatTimer {
	return &CombatTimer{
		seconds:  seconds,
		interval: interval,
		onExpire: onExpire,
	}
}

// Start begins the countdown from the full round duration. Starting an
// active timer restarts the current round.
func (t *CombatTimer) Start() {
	t.Reset(t.seconds)
}

// Reset restarts the countdown with a new per-round duration, which also
// becomes the duration future rounds reset to. Used when the round length
// changes mid-combat (e.g. a combatant running out of evades).
//
// Precondition: seconds >= 1.
func (t *CombatTimer) Reset(seconds int) {
	t.mu.Lock()
	t.stopLocked()
	t.seconds = seconds
	t.remaining = seconds
	t.active = true
	t.done = make(chan struct{})
	done := t.done
	t.mu.Unlock()

	go t.run(done)
}

// Stop halts the countdown; the callback will not fire again. Safe to
// call multiple times.
func (t *CombatTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	t.active = false
	t.remaining = 0
}

// Remaining returns the seconds left in the current round.
func (t *CombatTimer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Active reports whether the countdown is running.
func (t *CombatTimer) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// stopLocked closes the run goroutine's done channel if one is live.
// Callers must hold t.mu.
func (t *CombatTimer) stopLocked() {
	if t.done != nil {
		close(t.done)
		t.done = nil
	}
}

func (t *CombatTimer) run(done chan struct{}) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if expired := t.tick(done); expired {
				t.onExpire()
			}
		case <-done:
			return
		}
	}
}

// tick decrements the countdown. On reaching zero it reports expiry and
// resets the remainder to the full duration; unlike the turn timer, the
// countdown keeps running.
func (t *CombatTimer) tick(done chan struct{}) (expired bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done != done {
		return false
	}
	t.remaining--
	if t.remaining <= 0 {
		t.remaining = t.seconds
		return true
	}
	return false
}
