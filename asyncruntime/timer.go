package asyncruntime

import (
	"sync"
	"time"
)

// Timer is a one-shot timer bound to the pool it was created against; its
// completion callback is always delivered through that pool, never
// inline. Construct with Runtime.CreateTimer.
type Timer struct {
	pool *pool

	mu      sync.Mutex
	deadline time.Duration
	pending  *pendingWait
}

type pendingWait struct {
	timer  *time.Timer
	cancel chan struct{}
}

// ExpiresAfter arms a relative deadline. Any wait already registered via
// AsyncWait is cancelled (its callback fires with ok=false) — arming a
// timer a second time before it fires replaces the deadline.
func (t *Timer) ExpiresAfter(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelPendingLocked()
	t.deadline = d
}

// AsyncWait registers cb to run, through the timer's pool, once the
// current deadline elapses (cb(true)) or the wait is cancelled by Cancel
// or a subsequent ExpiresAfter (cb(false)). Only one wait is outstanding
// per Timer; registering a new one cancels whatever wait preceded it.
func (t *Timer) AsyncWait(cb func(ok bool)) {
	t.mu.Lock()
	t.cancelPendingLocked()
	pw := &pendingWait{
		timer:  time.NewTimer(t.deadline),
		cancel: make(chan struct{}),
	}
	t.pending = pw
	t.mu.Unlock()

	go func() {
		select {
		case <-pw.timer.C:
			t.mu.Lock()
			if t.pending == pw {
				t.pending = nil
			}
			t.mu.Unlock()
			t.pool.post(func() {
				if cb != nil {
					cb(true)
				}
			})
		case <-pw.cancel:
			t.pool.post(func() {
				if cb != nil {
					cb(false)
				}
			})
		}
	}()
}

// Cancel completes any pending wait with ok=false. A no-op if no wait is
// outstanding.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelPendingLocked()
}

func (t *Timer) cancelPendingLocked() {
	if t.pending == nil {
		return
	}
	t.pending.timer.Stop()
	close(t.pending.cancel)
	t.pending = nil
}
