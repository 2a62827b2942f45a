// Package schedule provides the timing primitives the core relies on
// instead of ambient timers: a debouncer for coalescing edit bursts into
// one sync compilation, a throttler for pan/zoom settle detection, and a
// TTL cache for label results. Keeping these explicit makes the sync
// policy unit-testable.
package schedule

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid successive triggers into a single callback
// after a quiet period. Every trigger cancels and reschedules the timer,
// which guarantees the coalescing window.
//
// All methods are safe for concurrent use. The callback never runs
// concurrently with itself from the debouncer.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	pending bool
	seq     uint64 // invalidates stale timer callbacks
	fn      func()
}

// NewDebouncer creates a debouncer that runs fn once no trigger has
// arrived for at least delay.
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger schedules the callback, restarting the quiet-period timer.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = true
	d.seq++
	seq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if !d.pending || d.seq != seq || d.fn == nil {
			d.mu.Unlock()
			return
		}
		d.pending = false
		d.mu.Unlock()
		d.fn()
	})
}

// Flush runs the callback immediately if a trigger is pending, canceling
// the scheduled run.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	if !d.pending || d.fn == nil {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.mu.Unlock()
	d.fn()
}

// Cancel drops any pending trigger without running the callback.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	d.pending = false
}

// Pending returns true if a trigger is waiting on the quiet period.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Throttler runs its callback at most once per interval, on the trailing
// edge. It is used to detect when a pan/zoom burst has settled enough to
// justify recomputing frames.
type Throttler struct {
	mu    sync.Mutex
	every time.Duration
	last  time.Time
	timer *time.Timer
	seq   uint64
	fn    func()
}

// NewThrottler creates a trailing-edge throttler.
func NewThrottler(every time.Duration, fn func()) *Throttler {
	return &Throttler{every: every, fn: fn}
}

// Trigger requests a callback run, respecting the interval.
func (t *Throttler) Trigger() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		return // already scheduled
	}
	wait := t.every - time.Since(t.last)
	if wait < 0 {
		wait = 0
	}
	t.seq++
	seq := t.seq
	t.timer = time.AfterFunc(wait, func() {
		t.mu.Lock()
		if t.seq != seq {
			t.mu.Unlock()
			return
		}
		t.last = time.Now()
		t.timer = nil
		t.mu.Unlock()
		t.fn()
	})
}

// Cancel drops any scheduled run.
func (t *Throttler) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.seq++
}
