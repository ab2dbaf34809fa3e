// Package autosave provides the cancellable debounced task used for draft
// auto-saving: arm on edit, cancel-and-rearm on the next edit, and fire to
// completion only if still armed when the delay elapses.
package autosave

import (
	"sync"
	"time"
)

type task struct {
	timer *time.Timer
	fn    func()
}

// Debouncer schedules at most one pending task per key.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	pending map[int64]*task
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:   delay,
		pending: make(map[int64]*task),
	}
}

// Arm schedules fn to run after the debounce delay, superseding any task
// already pending for the same key.
func (d *Debouncer) Arm(key int64, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.pending[key]; ok {
		t.timer.Stop()
	}

	t := &task{fn: fn}
	t.timer = time.AfterFunc(d.delay, func() { d.fire(key, t) })
	d.pending[key] = t
}

func (d *Debouncer) fire(key int64, t *task) {
	d.mu.Lock()
	if cur, ok := d.pending[key]; !ok || cur != t {
		// Superseded or cancelled between timer expiry and lock acquisition.
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	d.mu.Unlock()
	t.fn()
}

// Cancel drops any pending task for key, reporting whether one was pending.
func (d *Debouncer) Cancel(key int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.pending[key]
	if ok {
		t.timer.Stop()
		delete(d.pending, key)
	}
	return ok
}

// Flush runs any pending task for key immediately, reporting whether one ran.
func (d *Debouncer) Flush(key int64) bool {
	d.mu.Lock()
	t, ok := d.pending[key]
	if ok {
		t.timer.Stop()
		delete(d.pending, key)
	}
	d.mu.Unlock()
	if ok {
		t.fn()
	}
	return ok
}

// Pending reports whether a task is armed for key.
func (d *Debouncer) Pending(key int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.pending[key]
	return ok
}

// Stop cancels all pending tasks.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, t := range d.pending {
		t.timer.Stop()
		delete(d.pending, key)
	}
}
