package panels

import (
	"log/slog"
	"time"

	"github.com/regenrek/paneldeck/internal/geometry"
)

// MotionEventCoalescer rate-limits pointer motion. Positions are stored as
// they arrive and a callback fires at a fixed period, but only when a new
// position came in since the previous fire.
type MotionEventCoalescer struct {
	sched  Scheduler
	cb     func()
	period time.Duration

	// timeoutID is the armed timer, or -1 when stopped.
	timeoutID int
	queued    bool
	pos       geometry.Point

	// sync bypasses the timer and runs the callback on every stored
	// position. Used by tests.
	sync bool
}

// NewMotionEventCoalescer panics if cb is nil or period is not positive.
func NewMotionEventCoalescer(sched Scheduler, cb func(), period time.Duration) *MotionEventCoalescer {
	if cb == nil {
		panic("panels: coalescer needs a callback")
	}
	if period <= 0 {
		panic("panels: coalescer period must be positive")
	}
	return &MotionEventCoalescer{
		sched:     sched,
		cb:        cb,
		period:    period,
		timeoutID: -1,
		pos:       geometry.Pt(-1, -1),
	}
}

// Position returns the most recently stored position.
func (c *MotionEventCoalescer) Position() geometry.Point { return c.pos }

// SetSynchronous makes StorePosition invoke the callback directly instead
// of waiting for the timer.
func (c *MotionEventCoalescer) SetSynchronous(sync bool) { c.sync = sync }

// IsRunning reports whether the timer is armed.
func (c *MotionEventCoalescer) IsRunning() bool { return c.timeoutID >= 0 }

// Start arms the timer and discards any stale position.
func (c *MotionEventCoalescer) Start() {
	if c.timeoutID >= 0 {
		slog.Warn("panels: ignoring start of coalescer whose timer is already running")
		return
	}
	if !c.sync {
		c.timeoutID = c.sched.AddTimeout(c.handleTimeout, 0, c.period)
	}
	c.queued = false
	c.pos = geometry.Pt(-1, -1)
}

// Stop disarms the timer, running the callback one final time if a
// position arrived after the last fire.
func (c *MotionEventCoalescer) Stop() {
	if !c.sync {
		c.stop(true)
	}
}

// Close disarms the timer without the final callback. Callers use it while
// tearing down state the callback would touch.
func (c *MotionEventCoalescer) Close() {
	if c.IsRunning() {
		c.stop(false)
	}
}

// StorePosition records a motion event. Repeats of the current position
// are dropped.
func (c *MotionEventCoalescer) StorePosition(pt geometry.Point) {
	if pt == c.pos {
		return
	}
	c.pos = pt
	c.queued = true
	if c.sync {
		c.handleTimeout()
	}
}

func (c *MotionEventCoalescer) stop(maybeRunCallback bool) {
	if c.timeoutID < 0 {
		slog.Warn("panels: ignoring stop of coalescer whose timer is not running")
		return
	}
	c.sched.RemoveTimeout(c.timeoutID)
	c.timeoutID = -1

	// Catch any position that came in after the final timer fire.
	if maybeRunCallback {
		c.handleTimeout()
	}
}

func (c *MotionEventCoalescer) handleTimeout() {
	if c.queued {
		c.cb()
		c.queued = false
	}
}
