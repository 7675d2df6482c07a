package panels

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/regenrek/paneldeck/internal/geometry"
	"github.com/regenrek/paneldeck/internal/wm"
)

const (
	// resizeBorderWidth is the width of the invisible border drawn around
	// a panel for grabbing resizes, in pixels.
	resizeBorderWidth = 3

	// resizeCornerSize is the edge length of the corner pieces of the
	// resize border.
	//
	//       C              W is resizeBorderWidth
	//   +-------+----      C is resizeCornerSize
	//   |       | W
	// C |   +---+----
	//   |   |
	//   +---+  titlebar window
	//   | W |
	resizeCornerSize = 20

	// resizeUpdatePeriod is how often a panel's size is recomputed while
	// one of its handles is being dragged.
	resizeUpdatePeriod = 25 * time.Millisecond

	// resizeBoxOpacity is the opacity of the preview box shown while a
	// panel is resized non-opaquely.
	resizeBoxOpacity = 0.4
)

// ResizePolicy is a content window's fifth type parameter: the axes along
// which its owner lets the user resize the panel.
type ResizePolicy int

const (
	ResizeBoth ResizePolicy = iota
	ResizeHorizontal
	ResizeVertical
	ResizeNone
)

// Panel is a pop-up window pair: a content window and a titlebar window
// drawn above it, right-aligned with each other. The titlebar is all that
// remains visible while the panel is collapsed.
//
// A panel knows nothing about its siblings. Containers decide where it
// goes and call Move; the panel keeps its two windows, its separator
// decoration, and its five resize handles consistent.
type Panel struct {
	mgr *PanelManager

	content  wm.Window
	titlebar wm.Window

	expanded   bool
	fullscreen bool

	// urgent shadows the content window's urgency hint so changes to the
	// hint can be detected.
	urgent bool

	// Saved bounds of the two windows. These can differ from the windows'
	// actual configuration: while the panel is fullscreen, position and
	// size changes land here and are applied when fullscreen ends.
	contentBounds  geometry.Rect
	titlebarBounds geometry.Rect

	// stackingLayer restores the panel's stacking when it leaves
	// fullscreen.
	stackingLayer wm.Layer

	// separator is drawn along the seam between titlebar and content.
	separator wm.Decoration

	// Resize handles. Disallowed handles are parked offscreen rather than
	// destroyed so re-enabling resize later is cheap.
	topInput      wm.WindowID
	topLeftInput  wm.WindowID
	topRightInput wm.WindowID
	leftInput     wm.WindowID
	rightInput    wm.WindowID

	resizable        bool
	horizontalResize bool
	verticalResize   bool

	minContentSize geometry.Size
	maxContentSize geometry.Size

	// shownOnce records that Move has configured and shown the windows.
	// They stay untouched until the first Move.
	shownOnce bool

	// beingDragged suppresses handle reconfiguration during a positional
	// drag; HandleDragEnd reconfigures once at the end.
	beingDragged bool

	// Resize drag session. resizeDragID is the handle being dragged, or
	// wm.None when no resize is in progress.
	resizeDragID    wm.WindowID
	resizeGravity   geometry.Gravity
	resizeStart     geometry.Point
	resizeOrig      geometry.Size
	resizeLast      geometry.Size
	resizeCoalescer *MotionEventCoalescer

	// resizeBox is the translucent preview shown while resizing
	// non-opaquely; nil otherwise.
	resizeBox wm.Decoration

	// transients are dialog windows owned by the content window, stacked
	// above the panel and dismissed whenever it moves or collapses.
	transients []wm.Window
}

// newPanel wires up a freshly mapped content/titlebar pair. The windows
// remain hidden and unpositioned until the first Move call.
func newPanel(mgr *PanelManager, content, titlebar wm.Window, expanded bool) *Panel {
	if content == nil || titlebar == nil {
		panic("panels: panel needs content and titlebar windows")
	}
	p := &Panel{
		mgr:              mgr,
		content:          content,
		titlebar:         titlebar,
		expanded:         expanded,
		urgent:           content.IsUrgent(),
		resizable:        false,
		horizontalResize: true,
		verticalResize:   true,
		resizeDragID:     wm.None,
		resizeOrig:       geometry.Sz(1, 1),
		resizeLast:       geometry.Sz(1, 1),
	}
	p.resizeCoalescer = NewMotionEventCoalescer(mgr.sched, p.applyResize, resizeUpdatePeriod)

	off := geometry.NewRect(-1, -1, 1, 1)
	p.topInput = p.conn().CreateInputWindow(fmt.Sprintf("top resize handle for panel %s", p.id()), off)
	p.topLeftInput = p.conn().CreateInputWindow(fmt.Sprintf("top-left resize handle for panel %s", p.id()), off)
	p.topRightInput = p.conn().CreateInputWindow(fmt.Sprintf("top-right resize handle for panel %s", p.id()), off)
	p.leftInput = p.conn().CreateInputWindow(fmt.Sprintf("left resize handle for panel %s", p.id()), off)
	p.rightInput = p.conn().CreateInputWindow(fmt.Sprintf("right resize handle for panel %s", p.id()), off)

	content.Hide()
	titlebar.Hide()

	if params := content.TypeParams(); len(params) >= 5 {
		switch ResizePolicy(params[4]) {
		case ResizeBoth:
			p.horizontalResize, p.verticalResize = true, true
		case ResizeHorizontal:
			p.horizontalResize, p.verticalResize = true, false
		case ResizeVertical:
			p.horizontalResize, p.verticalResize = false, true
		case ResizeNone:
			p.horizontalResize, p.verticalResize = false, false
		default:
			slog.Warn("panels: unhandled user-resize setting",
				slog.Int("setting", params[4]),
				slog.String("panel", p.id()))
		}
	}

	// Pull the content window inside its allowed size range before
	// recording bounds.
	p.updateSizeLimits()
	size := content.ClientSize()
	capped := p.capSize(size)
	if capped != size {
		content.Resize(capped, geometry.GravityNW)
	}
	p.contentBounds = geometry.Rect{Width: capped.Width, Height: capped.Height}
	tbSize := titlebar.ClientSize()
	p.titlebarBounds = geometry.Rect{Width: tbSize.Width, Height: tbSize.Height}

	p.separator = p.conn().CreateDecoration(
		fmt.Sprintf("separator for panel %s", p.id()),
		geometry.NewRect(0, 0, p.ContentWidth(), 0))

	// Tell the owner which state the panel starts in so both sides agree
	// even after a restart mid-session.
	if err := p.notifyState(); err != nil {
		slog.Warn("panels: notifying initial panel state failed",
			slog.String("panel", p.id()), slog.Any("err", err))
	}
	return p
}

// destroy releases the panel's windows and decorations. The content and
// titlebar windows themselves belong to their owner and are only hidden.
func (p *Panel) destroy() {
	if p.resizeDragID != wm.None {
		p.conn().RemovePointerGrab(false)
		p.resizeDragID = wm.None
	}
	p.resizeCoalescer.Close()
	if p.resizeBox != nil {
		p.resizeBox.Destroy()
		p.resizeBox = nil
	}
	p.closeTransients()
	p.conn().DestroyInputWindow(p.topInput)
	p.conn().DestroyInputWindow(p.topLeftInput)
	p.conn().DestroyInputWindow(p.topRightInput)
	p.conn().DestroyInputWindow(p.leftInput)
	p.conn().DestroyInputWindow(p.rightInput)
	p.separator.Destroy()
	p.content.Hide()
	p.titlebar.Hide()
}

func (p *Panel) conn() wm.Conn { return p.mgr.conn }

// id labels the panel in logs by its content window.
func (p *Panel) id() string { return p.content.ID().String() }

func (p *Panel) IsExpanded() bool   { return p.expanded }
func (p *Panel) IsFullscreen() bool { return p.fullscreen }
func (p *Panel) IsUrgent() bool     { return p.urgent }

// SetUrgent is called by the manager when the content window's urgency
// hint changes.
func (p *Panel) SetUrgent(urgent bool) { p.urgent = urgent }

func (p *Panel) Content() wm.Window     { return p.content }
func (p *Panel) Titlebar() wm.Window    { return p.titlebar }
func (p *Panel) ContentID() wm.WindowID { return p.content.ID() }

// Title is the content window's title, the key under which the panel's
// state is persisted.
func (p *Panel) Title() string { return p.content.Title() }

// Right is one pixel beyond the shared right edge of both windows.
func (p *Panel) Right() int { return p.ContentX() + p.ContentWidth() }

func (p *Panel) ContentX() int      { return p.contentBounds.X }
func (p *Panel) TitlebarX() int     { return p.titlebarBounds.X }
func (p *Panel) ContentCenter() int { return p.ContentX() + p.ContentWidth()/2 }
func (p *Panel) TitlebarY() int     { return p.titlebarBounds.Y }
func (p *Panel) ContentY() int      { return p.contentBounds.Y }

func (p *Panel) ContentWidth() int   { return p.contentBounds.Width }
func (p *Panel) TitlebarWidth() int  { return p.titlebarBounds.Width }
func (p *Panel) ContentHeight() int  { return p.contentBounds.Height }
func (p *Panel) TitlebarHeight() int { return p.titlebarBounds.Height }

// TotalHeight covers the titlebar and the content below it.
func (p *Panel) TotalHeight() int { return p.ContentHeight() + p.TitlebarHeight() }

func (p *Panel) IsFocused() bool { return p.mgr.focus.FocusedWindow() == p.content }

// IsBeingResized reports whether a resize handle drag is in progress.
func (p *Panel) IsBeingResized() bool { return p.resizeDragID != wm.None }

// InputWindowIDs lists the panel's resize handles in arbitrary order.
func (p *Panel) InputWindowIDs() []wm.WindowID {
	return []wm.WindowID{
		p.topInput, p.topLeftInput, p.topRightInput, p.leftInput, p.rightInput,
	}
}

// Move places the panel with its shared right edge at right and the top of
// its titlebar at y. A 10-pixel-wide panel with right=10 occupies columns
// 0 through 9.
//
// The first Move also shows the windows; until then they stay wherever
// the map handler left them.
func (p *Panel) Move(right, y int, anim time.Duration) {
	p.titlebarBounds.X = right - p.titlebarBounds.Width
	p.titlebarBounds.Y = y
	p.contentBounds.X = right - p.contentBounds.Width
	p.contentBounds.Y = y + p.titlebarBounds.Height

	p.closeTransients()

	if p.canConfigureWindows() {
		p.titlebar.Move(p.titlebarBounds.Origin(), anim)
		p.content.Move(p.contentBounds.Origin(), anim)
		p.separator.Move(p.contentBounds.Origin(), anim)
		if !p.shownOnce {
			p.titlebar.Show()
			p.content.Show()
			p.separator.Show()
			p.shownOnce = true
		}
		if !p.beingDragged {
			p.configureInputWindows()
		}
	}
}

// MoveX moves only the shared right edge.
func (p *Panel) MoveX(right int, anim time.Duration) {
	if !p.shownOnce {
		slog.Warn("panels: MoveX before initial Move", slog.String("panel", p.id()))
	}
	p.titlebarBounds.X = right - p.titlebarBounds.Width
	p.contentBounds.X = right - p.contentBounds.Width

	p.closeTransients()

	if p.canConfigureWindows() {
		p.titlebar.MoveX(p.titlebarBounds.X, anim)
		p.content.MoveX(p.contentBounds.X, anim)
		p.separator.MoveX(p.contentBounds.X, anim)
		if !p.beingDragged {
			p.configureInputWindows()
		}
	}
}

// MoveY moves only the titlebar top.
func (p *Panel) MoveY(y int, anim time.Duration) {
	if !p.shownOnce {
		slog.Warn("panels: MoveY before initial Move", slog.String("panel", p.id()))
	}
	p.titlebarBounds.Y = y
	p.contentBounds.Y = y + p.titlebarBounds.Height

	p.closeTransients()

	if p.canConfigureWindows() {
		p.titlebar.MoveY(p.titlebarBounds.Y, anim)
		p.content.MoveY(p.contentBounds.Y, anim)
		p.separator.MoveY(p.contentBounds.Y, anim)
		if !p.beingDragged {
			p.configureInputWindows()
		}
	}
}

// SetTitlebarWidth resizes the titlebar while keeping it right-aligned
// with the content window.
func (p *Panel) SetTitlebarWidth(width int) {
	if width <= 0 {
		panic("panels: titlebar width must be positive")
	}
	p.titlebarBounds = p.titlebarBounds.Resize(
		geometry.Sz(width, p.titlebarBounds.Height), geometry.GravityNE)
	if p.canConfigureWindows() {
		p.titlebar.Resize(
			geometry.Sz(width, p.titlebar.ClientSize().Height), geometry.GravityNE)
	}
}

// SetShadowOpacity fades the drop shadows of both windows.
func (p *Panel) SetShadowOpacity(opacity float64, anim time.Duration) {
	p.titlebar.SetShadowOpacity(opacity, anim)
	p.content.SetShadowOpacity(opacity, anim)
}

// SetResizable toggles the resize handles. Containers disable them for
// collapsed panels.
func (p *Panel) SetResizable(resizable bool) {
	if resizable != p.resizable {
		p.resizable = resizable
		p.configureInputWindows()
	}
}

// StackAtTopOfLayer restacks both windows, the separator, and the resize
// handles. While fullscreen, only the target layer is recorded.
func (p *Panel) StackAtTopOfLayer(layer wm.Layer) {
	p.stackingLayer = layer
	if p.canConfigureWindows() {
		// Bottom to top: content, separator, titlebar.
		p.content.StackAtTopOfLayer(layer)
		p.separator.StackAtTopOfLayer(layer)
		p.titlebar.StackAtTopOfLayer(layer)
		p.stackInputWindows()
	}
}

// SetExpandedState records whether the panel is expanded and tells the
// owner and the state store. The local flag is updated even when either
// notification fails.
func (p *Panel) SetExpandedState(expanded bool) error {
	if expanded == p.expanded {
		return nil
	}
	p.expanded = expanded
	if !p.expanded {
		p.closeTransients()
	}
	return p.notifyState()
}

// TakeFocus gives the content window the focus.
func (p *Panel) TakeFocus(t time.Time) {
	p.mgr.focus.FocusWindow(p.content, t)
}

// ResizeContent resizes the content window, clamped to the panel's size
// limits. The titlebar follows the content's width and, when the height
// changes, is moved to sit on top of it again. grav names the corner that
// stays put.
func (p *Panel) ResizeContent(size geometry.Size, grav geometry.Gravity, configureInputs bool) {
	capped := p.capSize(size)
	if capped != size {
		slog.Warn("panels: capped resize",
			slog.String("panel", p.id()),
			slog.String("requested", size.String()),
			slog.String("granted", capped.String()))
		size = capped
	}

	if size == p.contentBounds.Size() {
		return
	}
	changingHeight := size.Height != p.contentBounds.Height

	p.contentBounds = p.contentBounds.Resize(size, grav)
	p.titlebarBounds = p.titlebarBounds.Resize(
		geometry.Sz(size.Width, p.titlebarBounds.Height), grav)
	if changingHeight {
		p.titlebarBounds.Y = p.contentBounds.Y - p.titlebarBounds.Height
	}

	p.closeTransients()

	if p.canConfigureWindows() {
		p.content.Resize(size, grav)
		p.titlebar.Resize(geometry.Sz(size.Width, p.titlebarBounds.Height), grav)
		p.separator.Move(p.contentBounds.Origin(), 0)
		p.separator.Resize(geometry.Sz(p.ContentWidth(), 0))
		if changingHeight {
			p.titlebar.Move(p.titlebarBounds.Origin(), 0)
		}
	}

	if configureInputs {
		p.configureInputWindows()
	}
}

// SetFullscreenState grows the content window over the whole screen or
// puts it back. Position, size, and stacking changes made while
// fullscreen are recorded and replayed on the way out.
func (p *Panel) SetFullscreenState(fullscreen bool) {
	if fullscreen == p.fullscreen {
		return
	}
	slog.Debug("panels: setting fullscreen state",
		slog.String("panel", p.id()), slog.Bool("fullscreen", fullscreen))
	p.fullscreen = fullscreen

	p.closeTransients()

	if fullscreen {
		p.content.StackAtTopOfLayer(wm.LayerFullscreen)
		p.content.Move(geometry.Pt(0, 0), 0)
		p.content.Resize(p.mgr.screen.Bounds.Size(), geometry.GravityNW)
		if !p.IsFocused() {
			slog.Warn("panels: fullscreening unfocused panel, giving it the focus",
				slog.String("panel", p.id()))
			p.TakeFocus(p.conn().Now())
		}
	} else {
		p.content.Resize(p.contentBounds.Size(), geometry.GravityNW)
		p.content.Move(p.contentBounds.Origin(), 0)
		p.titlebar.Resize(p.titlebarBounds.Size(), geometry.GravityNW)
		p.titlebar.Move(p.titlebarBounds.Origin(), 0)
		p.separator.Move(p.contentBounds.Origin(), 0)
		p.separator.Resize(geometry.Sz(p.ContentWidth(), 0))
		p.StackAtTopOfLayer(p.stackingLayer)
	}
}

// HandleScreenResize keeps a fullscreen panel covering the screen. Other
// panels are repositioned by their containers.
func (p *Panel) HandleScreenResize() {
	if p.fullscreen {
		slog.Debug("panels: resizing fullscreen panel to match screen",
			slog.String("panel", p.id()),
			slog.String("size", p.mgr.screen.Bounds.Size().String()))
		p.content.Resize(p.mgr.screen.Bounds.Size(), geometry.GravityNW)
	}
}

// HandleSizeHintsChange refreshes the panel's size limits after the
// content window's hints changed. The window is not resized.
func (p *Panel) HandleSizeHintsChange() {
	p.updateSizeLimits()
}

// HandleDragStart marks the beginning of a positional drag. Handle
// reconfiguration is suppressed until HandleDragEnd to cut down on
// per-motion window-system traffic.
func (p *Panel) HandleDragStart() {
	if p.beingDragged {
		return
	}
	p.beingDragged = true
}

// HandleDragEnd finishes a positional drag and settles the handles.
func (p *Panel) HandleDragEnd() {
	if !p.beingDragged {
		return
	}
	p.beingDragged = false
	p.configureInputWindows()
}

// HandleTransientWindowMap adopts a dialog owned by the content window,
// centers it over the panel, and focuses it if the panel was focused.
// The dialog is kept onscreen even when the panel itself is not.
func (p *Panel) HandleTransientWindowMap(win wm.Window) {
	size := win.ClientSize()
	win.Move(p.clampOnscreen(geometry.Pt(
		p.contentBounds.X+(p.contentBounds.Width-size.Width)/2,
		p.contentBounds.Y+(p.contentBounds.Height-size.Height)/2), size), 0)
	win.StackAtTopOfLayer(p.stackingLayer)
	win.Show()
	wasFocused := p.IsFocused()
	p.transients = append(p.transients, win)
	if wasFocused {
		p.mgr.focus.FocusWindow(win, p.conn().Now())
	}
}

func (p *Panel) clampOnscreen(pt geometry.Point, size geometry.Size) geometry.Point {
	pt.X = min(max(pt.X, 0), p.mgr.screen.Width()-size.Width)
	pt.Y = min(max(pt.Y, 0), p.mgr.screen.Height()-size.Height)
	return pt
}

// HandleTransientWindowUnmap drops a transient, handing the focus back to
// the content window if the transient held it.
func (p *Panel) HandleTransientWindowUnmap(win wm.Window) {
	for i, t := range p.transients {
		if t == win {
			p.transients = append(p.transients[:i], p.transients[i+1:]...)
			break
		}
	}
	if p.mgr.focus.FocusedWindow() == win {
		p.TakeFocus(p.conn().Now())
	}
}

// HandleTransientWindowButtonPress focuses the pressed transient.
func (p *Panel) HandleTransientWindowButtonPress(win wm.Window, button int, t time.Time) {
	p.mgr.focus.FocusWindow(win, t)
}

// HandleTransientWindowConfigureRequest applies a transient's requested
// size and keeps it centered over the content window.
func (p *Panel) HandleTransientWindowConfigureRequest(win wm.Window, size geometry.Size) {
	if !p.OwnsTransient(win) {
		slog.Warn("panels: configure request for transient this panel does not own",
			slog.String("panel", p.id()), slog.String("window", win.ID().String()))
		return
	}
	win.Resize(size, geometry.GravityNW)
	win.Move(p.clampOnscreen(geometry.Pt(
		p.contentBounds.X+(p.contentBounds.Width-size.Width)/2,
		p.contentBounds.Y+(p.contentBounds.Height-size.Height)/2), size), 0)
}

// OwnsTransient reports whether win is a transient of this panel.
func (p *Panel) OwnsTransient(win wm.Window) bool {
	for _, t := range p.transients {
		if t == win {
			return true
		}
	}
	return false
}

// closeTransients dismisses all transients. Dialogs make no sense over a
// panel that is moving, collapsing, or going fullscreen.
func (p *Panel) closeTransients() {
	for _, t := range p.transients {
		t.Hide()
	}
	p.transients = nil
}

// canConfigureWindows is false while the panel is fullscreen; bounds and
// stacking changes are then only recorded.
func (p *Panel) canConfigureWindows() bool { return !p.fullscreen }

// notifyState reports the expanded flag to the owner and persists it.
func (p *Panel) notifyState() error {
	var errs []error
	if err := p.mgr.notify.NotifyPanelState(p.content.ID(), p.expanded); err != nil {
		errs = append(errs, err)
	}
	if err := p.mgr.store.Set(p.Title(), p.expanded); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// configureInputWindows lays the five resize handles out around the
// panel, or parks them offscreen when resizing is not allowed.
func (p *Panel) configureInputWindows() {
	conn := p.conn()
	if !p.resizable || (!p.horizontalResize && !p.verticalResize) {
		conn.MoveInputWindowOffscreen(p.topInput)
		conn.MoveInputWindowOffscreen(p.topLeftInput)
		conn.MoveInputWindowOffscreen(p.topRightInput)
		conn.MoveInputWindowOffscreen(p.leftInput)
		conn.MoveInputWindowOffscreen(p.rightInput)
		return
	}

	// The top edge is shortened on both ends by the corner pieces when
	// corners are present.
	topEdgeWidth := p.ContentWidth()
	if p.horizontalResize {
		topEdgeWidth += 2 * (resizeBorderWidth - resizeCornerSize)
	}
	if !p.verticalResize || topEdgeWidth <= 0 {
		conn.MoveInputWindowOffscreen(p.topInput)
	} else {
		conn.ConfigureInputWindow(p.topInput, geometry.NewRect(
			p.ContentX()-(topEdgeWidth-p.ContentWidth())/2,
			p.TitlebarY()-resizeBorderWidth,
			topEdgeWidth,
			resizeBorderWidth))
	}

	if !(p.verticalResize && p.horizontalResize) {
		conn.MoveInputWindowOffscreen(p.topLeftInput)
		conn.MoveInputWindowOffscreen(p.topRightInput)
	} else {
		conn.ConfigureInputWindow(p.topLeftInput, geometry.NewRect(
			p.ContentX()-resizeBorderWidth,
			p.TitlebarY()-resizeBorderWidth,
			resizeCornerSize,
			resizeCornerSize))
		conn.ConfigureInputWindow(p.topRightInput, geometry.NewRect(
			p.Right()+resizeBorderWidth-resizeCornerSize,
			p.TitlebarY()-resizeBorderWidth,
			resizeCornerSize,
			resizeCornerSize))
	}

	sideEdgeHeight := p.TotalHeight()
	if p.verticalResize {
		sideEdgeHeight += resizeBorderWidth - resizeCornerSize
	}
	if !p.horizontalResize || sideEdgeHeight <= 0 {
		conn.MoveInputWindowOffscreen(p.leftInput)
		conn.MoveInputWindowOffscreen(p.rightInput)
	} else {
		conn.ConfigureInputWindow(p.leftInput, geometry.NewRect(
			p.ContentX()-resizeBorderWidth,
			p.TitlebarY()+p.TotalHeight()-sideEdgeHeight,
			resizeBorderWidth,
			sideEdgeHeight))
		conn.ConfigureInputWindow(p.rightInput, geometry.NewRect(
			p.Right(),
			p.TitlebarY()+p.TotalHeight()-sideEdgeHeight,
			resizeBorderWidth,
			sideEdgeHeight))
	}
}

// stackInputWindows tucks the handles directly below the content window
// so the corner pieces cannot occlude the titlebar.
func (p *Panel) stackInputWindows() {
	conn := p.conn()
	below := p.content.ID()
	conn.StackInputWindowBelow(p.topInput, below)
	conn.StackInputWindowBelow(p.topLeftInput, below)
	conn.StackInputWindowBelow(p.topRightInput, below)
	conn.StackInputWindowBelow(p.leftInput, below)
	conn.StackInputWindowBelow(p.rightInput, below)
}
