package editor

import (
	"sync"
	"time"
)

// DefaultAutosaveDebounce is the trailing-edge window between the last
// keystroke and the autosave it triggers.
const DefaultAutosaveDebounce = 1000 * time.Millisecond

// Debouncer coalesces rapid Schedule calls into a single trailing-edge
// invocation. Only the most recently scheduled function ever runs; each
// Schedule resets the timer.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	fn    func()
}

func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultAutosaveDebounce
	}
	return &Debouncer{delay: delay}
}

// Schedule arms the debouncer with fn, replacing any pending invocation
// and restarting the window.
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.fn = fn
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	fn := d.fn
	d.fn = nil
	d.timer = nil
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// CancelPending drops any pending invocation. It reports whether one was
// pending.
func (d *Debouncer) CancelPending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	pending := d.fn != nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.fn = nil
	return pending
}

// FlushNow cancels the timer and runs the pending invocation synchronously,
// if there is one.
func (d *Debouncer) FlushNow() {
	d.mu.Lock()
	fn := d.fn
	d.fn = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Pending reports whether an invocation is armed.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fn != nil
}
