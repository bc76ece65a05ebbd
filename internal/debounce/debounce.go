// Package debounce delays an action until input has been quiet for a fixed period.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs only the most recent of a burst of triggered actions.
// A trigger arriving before the delay elapses cancels the pending one.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Delay returns the quiet period.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Trigger schedules fn after the quiet period, replacing any pending action.
// With a non-positive delay fn runs synchronously.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.delay <= 0 {
		d.mu.Unlock()
		fn()
		return
	}

	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// a timer that already fired may race with a newer Trigger
		current := gen == d.gen
		if current {
			d.timer = nil
		}
		d.mu.Unlock()

		if current {
			fn()
		}
	})
	d.mu.Unlock()
}

// Stop cancels the pending action, if any. It reports whether one was cancelled.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	return true
}

// Pending reports whether an action is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
