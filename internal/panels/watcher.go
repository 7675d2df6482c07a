package panels

import (
	"time"

	"github.com/regenrek/paneldeck/internal/geometry"
)

// pointerWatchPeriod is how often a watcher polls the pointer position.
const pointerWatchPeriod = 200 * time.Millisecond

// PointerQuerier reports the pointer's current position in screen
// coordinates.
type PointerQuerier interface {
	QueryPointer() geometry.Point
}

// PointerPositionWatcher polls the pointer until it enters or leaves a
// target rectangle, then fires a callback once and disarms itself.
//
// Polling exists for two reasons. A window opened under the pointer may
// miss its crossing event when the pointer has already moved away by the
// time the window exists, and watching a region without an input window
// avoids stealing events from whatever is underneath. Polling costs
// wakeups, so watchers are only created when the pointer is expected to
// cross the target soon.
type PointerPositionWatcher struct {
	sched      Scheduler
	pointer    PointerQuerier
	cb         func()
	watchEnter bool
	target     geometry.Rect

	// timeoutID is the armed poll timer, or -1 once fired or stopped.
	timeoutID int
}

// NewPointerPositionWatcher starts polling immediately. watchEnter selects
// whether the callback fires on the pointer entering target, as opposed to
// leaving it. The callback may stop or replace the watcher freely.
func NewPointerPositionWatcher(sched Scheduler, pointer PointerQuerier, cb func(), watchEnter bool, target geometry.Rect) *PointerPositionWatcher {
	return newPointerPositionWatcher(sched, pointer, cb, watchEnter, target, pointerWatchPeriod)
}

func newPointerPositionWatcher(sched Scheduler, pointer PointerQuerier, cb func(), watchEnter bool, target geometry.Rect, period time.Duration) *PointerPositionWatcher {
	if sched == nil || pointer == nil || cb == nil {
		panic("panels: pointer watcher needs a scheduler, a pointer source, and a callback")
	}
	if period <= 0 {
		period = pointerWatchPeriod
	}
	w := &PointerPositionWatcher{
		sched:      sched,
		pointer:    pointer,
		cb:         cb,
		watchEnter: watchEnter,
		target:     target,
		timeoutID:  -1,
	}
	w.timeoutID = sched.AddTimeout(w.handleTimeout, 0, period)
	return w
}

// IsActive reports whether the watcher is still polling.
func (w *PointerPositionWatcher) IsActive() bool { return w.timeoutID >= 0 }

// Stop disarms the watcher without running the callback. Stopping an
// already-fired watcher is a no-op.
func (w *PointerPositionWatcher) Stop() {
	if w.timeoutID >= 0 {
		w.sched.RemoveTimeout(w.timeoutID)
		w.timeoutID = -1
	}
}

// Trigger checks the pointer immediately instead of waiting for the next
// poll. Tests use it to avoid real timers.
func (w *PointerPositionWatcher) Trigger() {
	w.handleTimeout()
}

func (w *PointerPositionWatcher) handleTimeout() {
	inTarget := w.target.Contains(w.pointer.QueryPointer())
	if inTarget != w.watchEnter {
		return
	}

	// Disarm before the callback so it can safely drop or replace this
	// watcher.
	w.Stop()
	w.cb()
}
