// Package wm defines the narrow window-system surface the panel engine
// drives: per-window mutators, input-only windows, decorations, focus and
// stacking. The simulator implements it against an in-memory window table;
// engine tests use fakes.
package wm

import (
	"fmt"
	"time"

	"github.com/regenrek/paneldeck/internal/geometry"
)

// WindowID identifies a window on the window-system connection. Zero is
// never a valid id.
type WindowID uint32

// None is the zero WindowID.
const None WindowID = 0

func (id WindowID) String() string { return fmt.Sprintf("0x%x", uint32(id)) }

// Layer is a coarse stacking slot. The constants are ordered from the top
// of the stack down: a window restacked at the top of its layer still sits
// below every window in the layers above it.
type Layer int

const (
	LayerFullscreen Layer = iota
	LayerDraggedPanel
	LayerBarInput
	LayerPackedPanelInBar
	LayerFloatingPanelInBar
	LayerPackedPanelInDock
	LayerDock
	LayerBackground
)

func (l Layer) String() string {
	switch l {
	case LayerFullscreen:
		return "fullscreen"
	case LayerDraggedPanel:
		return "dragged-panel"
	case LayerBarInput:
		return "bar-input"
	case LayerPackedPanelInBar:
		return "packed-panel-in-bar"
	case LayerFloatingPanelInBar:
		return "floating-panel-in-bar"
	case LayerPackedPanelInDock:
		return "packed-panel-in-dock"
	case LayerDock:
		return "dock"
	case LayerBackground:
		return "background"
	default:
		return fmt.Sprintf("layer-%d", int(l))
	}
}

// Window is one client window. Position and opacity mutators animate over
// the given duration; zero applies immediately.
type Window interface {
	ID() WindowID
	Title() string

	Move(p geometry.Point, anim time.Duration)
	MoveX(x int, anim time.Duration)
	MoveY(y int, anim time.Duration)
	Resize(s geometry.Size, g geometry.Gravity)
	SetOpacity(opacity float64, anim time.Duration)
	SetShadowOpacity(opacity float64, anim time.Duration)
	Show()
	Hide()
	StackAtTopOfLayer(l Layer)

	// ClientSize is the size most recently requested by the window's
	// owner, consulted before the engine has assigned bounds of its own.
	ClientSize() geometry.Size

	// SizeHints returns the owner's min/max size constraints. Zero
	// components leave that axis unconstrained; ok reports whether the
	// owner supplied hints at all.
	SizeHints() (min, max geometry.Size, ok bool)

	// IsUrgent reports the owner's urgency flag.
	IsUrgent() bool

	// TypeParams is the owner-supplied hint vector attached to a content
	// window: [titlebar id, expanded, focus on open, creator content id,
	// user resizable]. Short vectors are legal; missing entries take
	// documented defaults.
	TypeParams() []int
}

// Decoration is a display-only element (separators, dock backgrounds, the
// bar's anchor) that stacks like a window but receives no input and has no
// owning client.
type Decoration interface {
	Bounds() geometry.Rect
	Move(p geometry.Point, anim time.Duration)
	MoveX(x int, anim time.Duration)
	MoveY(y int, anim time.Duration)
	Resize(s geometry.Size)
	Scale(sx, sy float64, anim time.Duration)
	SetOpacity(opacity float64, anim time.Duration)
	Show()
	Hide()
	StackAtTopOfLayer(l Layer)
	Destroy()
}

// Conn is the window-system connection: operations not tied to a single
// client window.
type Conn interface {
	// CreateInputWindow makes an invisible input-only window that
	// delivers press/release/motion events to the engine. It carries a
	// passive button grab, so a press also captures the pointer until
	// RemovePointerGrab or the matching release.
	CreateInputWindow(name string, r geometry.Rect) WindowID
	ConfigureInputWindow(id WindowID, r geometry.Rect)

	// MoveInputWindowOffscreen parks an input window where it cannot see
	// events without destroying it.
	MoveInputWindowOffscreen(id WindowID)

	// StackInputWindowBelow slots an input window directly below a client
	// window, outside the layer system.
	StackInputWindowBelow(id, sibling WindowID)

	// StackInputWindowAtTopOfLayer slots an input window at the top of a
	// stacking layer.
	StackInputWindowAtTopOfLayer(id WindowID, l Layer)
	DestroyInputWindow(id WindowID)

	CreateDecoration(name string, r geometry.Rect) Decoration

	// RemovePointerGrab releases an active pointer capture; replay makes
	// the window system re-deliver the swallowed press to whatever
	// window is under the pointer.
	RemovePointerGrab(replay bool)
	QueryPointer() geometry.Point

	// Now is the window-system timestamp source.
	Now() time.Time
}

// FocusHandler assigns the input focus.
type FocusHandler interface {
	// FocusWindow gives w the focus. Nil drops the focus entirely.
	FocusWindow(w Window, t time.Time)
	// FocusedWindow returns the window holding the focus, or nil.
	FocusedWindow() Window
}

// Screen is the root geometry panels are laid out against. The host
// mutates Bounds on resolution change and then notifies the engine.
type Screen struct {
	Bounds geometry.Rect
}

func (s *Screen) Width() int  { return s.Bounds.Width }
func (s *Screen) Height() int { return s.Bounds.Height }
