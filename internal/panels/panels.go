// Package panels implements the panel engine: small auxiliary windows that
// pack along the bottom edge of the screen, float freely to its left, dock
// against the side edges, and follow the pointer while dragged.
//
// The engine is single-threaded by contract. Every entry point must be
// called from one dispatch goroutine (the daemon's event loop or the
// simulator's update loop); scheduler callbacks fire on that same
// goroutine.
package panels

import (
	"time"

	"github.com/regenrek/paneldeck/internal/geometry"
	"github.com/regenrek/paneldeck/internal/wm"
)

// Source describes how a panel arrives at a container.
type Source int

const (
	// SourceNew is a freshly created panel.
	SourceNew Source = iota
	// SourceDragged is a panel entering mid-drag; it is already under the
	// pointer and must not animate into place.
	SourceDragged
	// SourceDropped is a panel released outside every container and
	// falling back to the bar.
	SourceDropped
)

func (s Source) String() string {
	switch s {
	case SourceNew:
		return "new"
	case SourceDragged:
		return "dragged"
	case SourceDropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// Scheduler arms callbacks on the dispatch goroutine. A recurring interval
// of zero makes the timeout one-shot. The event loop implements this; the
// simulator adapts its frame ticker to it.
type Scheduler interface {
	AddTimeout(fn func(), initial, recurring time.Duration) int
	RemoveTimeout(id int)
}

// StateStore persists a panel's expanded flag across sessions, keyed by
// panel title.
type StateStore interface {
	Get(title string) (expanded, ok bool)
	Set(title string, expanded bool) error
}

// Notifier tells a panel's owning process about state the engine imposed
// on it, mirroring the messages the owner would send the other way.
type Notifier interface {
	NotifyPanelState(content wm.WindowID, expanded bool) error
}

// Container is a screen region that owns panels: the bottom bar or one of
// the side docks. The manager routes per-panel traffic to whichever
// container currently holds the panel.
type Container interface {
	// InputWindowIDs lists the container's own input windows so the
	// manager can route presses and crossings back to it.
	InputWindowIDs() []wm.WindowID

	AddPanel(p *Panel, source Source)
	RemovePanel(p *Panel)

	// ShouldAddDraggedPanel reports whether a free panel dragged to pt
	// is close enough to be captured by this container.
	ShouldAddDraggedPanel(p *Panel, pt geometry.Point) bool

	// HandlePanelDragged positions an owned panel for a drag to pt. A
	// false return refuses the drag: the manager detaches the panel.
	HandlePanelDragged(p *Panel, pt geometry.Point) bool
	HandlePanelDragComplete(p *Panel)

	HandlePanelButtonPress(p *Panel, button int, t time.Time)
	HandlePanelTitlebarPointerEnter(p *Panel, t time.Time)
	HandleSetPanelState(p *Panel, expand bool)
	HandleFocusPanel(p *Panel, t time.Time)
	HandlePanelResizeRequest(p *Panel, s geometry.Size)
	HandlePanelResizeByUser(p *Panel)
	HandlePanelUrgencyChange(p *Panel)
	HandleScreenResize()

	HandleInputWindowButtonPress(id wm.WindowID, pt, rootPt geometry.Point, button int, t time.Time)
	HandleInputWindowButtonRelease(id wm.WindowID, pt, rootPt geometry.Point, button int, t time.Time)
	HandleInputWindowPointerEnter(id wm.WindowID, pt, rootPt geometry.Point, t time.Time)
	HandleInputWindowPointerLeave(id wm.WindowID, pt, rootPt geometry.Point, t time.Time)

	// TakeFocus focuses some panel in the container, returning false
	// when it has none to offer.
	TakeFocus(t time.Time) bool
}
