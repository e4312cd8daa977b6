// ABOUTME: Trailing-edge debouncer driven by loop timers
// ABOUTME: Each trigger restarts the quiet period; only the last value fires

package panel

import "time"

// Debouncer runs its callback once input has been quiet for the delay.
type Debouncer struct {
	loop  *Loop
	delay time.Duration
	stop  func()
	gen   uint64
}

// NewDebouncer creates a debouncer on loop.
func NewDebouncer(loop *Loop, delay time.Duration) *Debouncer {
	return &Debouncer{loop: loop, delay: delay}
}

// Trigger restarts the quiet period with fn as the pending action.
func (d *Debouncer) Trigger(fn func()) {
	if d.stop != nil {
		d.stop()
	}
	d.gen++
	gen := d.gen
	d.stop = d.loop.After(d.delay, func() {
		// A timer that fired before Stop could still be queued.
		if gen != d.gen {
			return
		}
		d.stop = nil
		fn()
	})
}

// Cancel drops the pending action.
func (d *Debouncer) Cancel() {
	if d.stop != nil {
		d.stop()
		d.stop = nil
	}
	d.gen++
}
