package state

import (
	"sync"
	"time"
)

// Timer is the part of *time.Timer the debouncer needs.
type Timer interface {
	Stop() bool
}

// Scheduler runs f after d. time.AfterFunc satisfies it via AfterFunc.
type Scheduler func(d time.Duration, f func()) Timer

// AfterFunc schedules with the real clock.
func AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer delivers only the last value triggered within a quiet period.
// Every Trigger cancels the pending delivery and schedules a new one.
type Debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	schedule Scheduler
	fire     func(string)
	timer    Timer
	gen      uint64
}

// NewDebouncer calls fire with the latest value once delay passes without a
// new Trigger. A nil schedule uses the real clock.
func NewDebouncer(delay time.Duration, schedule Scheduler, fire func(string)) *Debouncer {
	if schedule == nil {
		schedule = AfterFunc
	}
	return &Debouncer{delay: delay, schedule: schedule, fire: fire}
}

// Trigger restarts the quiet period with value.
func (d *Debouncer) Trigger(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.schedule(d.delay, func() { d.deliver(gen, value) })
}

// Cancel drops any pending delivery.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

// Pending reports whether a delivery is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// deliver runs on the timer goroutine. A timer that fired after being
// superseded sees a newer generation and does nothing.
func (d *Debouncer) deliver(gen uint64, value string) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()
	if d.fire != nil {
		d.fire(value)
	}
}
