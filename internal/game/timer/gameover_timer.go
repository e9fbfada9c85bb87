package timer

import (
	"sync"
	"time"
)

// GameOverTimer is a one-shot countdown that fires a single terminal side
// effect (cleanup, redirect) on expiry. It cannot be paused or resumed.
//
// All methods are safe for concurrent use.
type GameOverTimer struct {
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewGameOverTimer creates and starts a timer that calls onFire after
// duration. onFire is called in a separate goroutine.
//
// Precondition: duration > 0; onFire must not be nil.
// Postcondition: onFire will be called exactly once unless Stop is called
// first.
func NewGameOverTimer(duration time.Duration, onFire func()) *GameOverTimer {
	gt := &GameOverTimer{}
	gt.timer = time.AfterFunc(duration, func() {
		gt.mu.Lock()
		stopped := gt.stopped
		gt.stopped = true
		gt.mu.Unlock()
		if !stopped {
			onFire()
		}
	})
	return gt
}

// Stop prevents the callback from firing. Safe to call multiple times.
//
// Postcondition: onFire will not be called after Stop returns.
func (gt *GameOverTimer) Stop() {
	gt.mu.Lock()
	defer gt.mu.Unlock()
	gt.stopped = true
	gt.timer.Stop()
}
