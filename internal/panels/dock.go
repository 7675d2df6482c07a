package panels

import (
	"log/slog"
	"slices"
	"time"

	"github.com/regenrek/paneldeck/internal/geometry"
	"github.com/regenrek/paneldeck/internal/wm"
)

const (
	// dockDetachThreshold is how far inward from the dock edge a docked
	// panel must be dragged before it detaches. Larger than the attach
	// threshold so a panel hovering near the edge does not flutter in and
	// out.
	dockDetachThreshold = 50

	// dockAttachThreshold is how close to the dock edge a free panel must
	// be dragged before the dock captures it.
	dockAttachThreshold = 20

	// backgroundAnim is the duration for sliding the dock background in or
	// out. Zero: the slide briefly exposed the area behind the background.
	backgroundAnim = 0

	// panelShadowAnim fades a panel's shadow as it detaches from or
	// attaches to the dock.
	panelShadowAnim = 150 * time.Millisecond

	packPanelsAnim = 150 * time.Millisecond
)

// DockSide names the screen edge a dock is pinned to.
type DockSide int

const (
	DockLeft DockSide = iota
	DockRight
)

func (s DockSide) String() string {
	if s == DockRight {
		return "right"
	}
	return "left"
}

// dockPanelInfo is the dock's bookkeeping for one panel.
type dockPanelInfo struct {
	// snappedY is the panel's resting offset from the top of the dock,
	// the sum of the heights of the panels above it.
	snappedY int
}

// PanelDock is a fixed-width container pinned to the left or right screen
// edge. Panels stack top-to-bottom with no gaps and are resized to the
// dock's width when dropped into it. The dock's background slides in with
// its first panel and out with its last.
type PanelDock struct {
	mgr  *PanelManager
	side DockSide

	// Dock geometry. x tracks the screen's width for a right dock.
	x      int
	y      int
	width  int
	height int

	// panels is ordered top-to-bottom.
	panels []*Panel
	infos  map[*Panel]*dockPanelInfo

	// totalPanelHeight is the stacked height of all docked panels.
	totalPanelHeight int

	draggedPanel *Panel

	bg       wm.Decoration
	bgShadow wm.Decoration

	// bgNatural is the background's created size; resizes scale relative
	// to it.
	bgNatural geometry.Size

	bgInput wm.WindowID
}

// NewPanelDock builds a hidden dock against the given edge.
func NewPanelDock(mgr *PanelManager, side DockSide, width int) *PanelDock {
	d := &PanelDock{
		mgr:    mgr,
		side:   side,
		width:  width,
		height: mgr.screen.Height(),
		infos:  make(map[*Panel]*dockPanelInfo),
	}
	if side == DockRight {
		d.x = mgr.screen.Width() - width
	}

	d.bgInput = d.conn().CreateInputWindow(
		"panel dock background input window", geometry.NewRect(-1, -1, 1, 1))
	d.conn().StackInputWindowAtTopOfLayer(d.bgInput, wm.LayerDock)

	// The background starts parked just offscreen past the dock's edge.
	bgX := d.offscreenBackgroundX()
	d.bgNatural = geometry.Sz(d.width, d.height)
	d.bgShadow = d.conn().CreateDecoration("panel dock background shadow",
		geometry.NewRect(bgX, d.y, d.width, d.height))
	d.bgShadow.SetOpacity(0, 0)
	d.bgShadow.Show()
	d.bgShadow.StackAtTopOfLayer(wm.LayerDock)

	d.bg = d.conn().CreateDecoration("panel dock background",
		geometry.NewRect(bgX, d.y, d.width, d.height))
	d.bg.Show()
	d.bg.StackAtTopOfLayer(wm.LayerDock)
	return d
}

func (d *PanelDock) conn() wm.Conn { return d.mgr.conn }

func (d *PanelDock) destroy() {
	d.conn().DestroyInputWindow(d.bgInput)
	d.bgInput = wm.None
	d.bg.Destroy()
	d.bgShadow.Destroy()
	d.draggedPanel = nil
}

// Side reports which screen edge the dock hugs.
func (d *PanelDock) Side() DockSide { return d.side }

// X is the dock's left edge.
func (d *PanelDock) X() int { return d.x }

// Width is the dock's fixed width.
func (d *PanelDock) Width() int { return d.width }

// IsVisible reports whether the dock holds any panels; an empty dock
// takes no screen space.
func (d *PanelDock) IsVisible() bool { return len(d.panels) > 0 }

// offscreenBackgroundX is where the background parks while the dock is
// hidden: just past the screen edge the dock hangs from.
func (d *PanelDock) offscreenBackgroundX() int {
	if d.side == DockLeft {
		return d.x - d.width
	}
	return d.x + d.width
}

// panelRightEdge is the right edge a panel gets when moved into the dock.
// A right dock aligns panels with its own right edge; a left dock pins
// their left edge to its left edge.
func (d *PanelDock) panelRightEdge(p *Panel) int {
	if d.side == DockRight {
		return d.x + d.width
	}
	return d.x + p.ContentWidth()
}

// InputWindowIDs is part of the Container interface.
func (d *PanelDock) InputWindowIDs() []wm.WindowID {
	return []wm.WindowID{d.bgInput}
}

// AddPanel is part of the Container interface. The panel keeps its own
// width until the drag completes; resizing it mid-drag would make the
// drag positions reported for it inconsistent between the old and new
// dimensions.
func (d *PanelDock) AddPanel(p *Panel, source Source) {
	if _, ok := d.infos[p]; ok {
		panic("panels: dock already holds panel " + p.id())
	}
	d.infos[p] = &dockPanelInfo{snappedY: d.totalPanelHeight}
	d.panels = append(d.panels, p)
	d.totalPanelHeight += p.TotalHeight()
	if source == SourceDragged {
		d.reorderPanel(p)
	}

	if len(d.panels) == 1 {
		d.conn().ConfigureInputWindow(d.bgInput,
			geometry.NewRect(d.x, d.y, d.width, d.height))
		d.bg.MoveX(d.x, backgroundAnim)
		d.bgShadow.MoveX(d.x, backgroundAnim)
		d.bgShadow.SetOpacity(1, backgroundAnim)
		d.mgr.HandleDockVisibilityChange(d)
	}

	if source == SourceDragged {
		p.StackAtTopOfLayer(wm.LayerDraggedPanel)
	} else {
		p.StackAtTopOfLayer(wm.LayerPackedPanelInDock)
	}

	// Pull the panel fully inside the dock's vertical extent.
	panelY := p.TitlebarY()
	if panelY+p.TotalHeight() > d.y+d.height {
		panelY = d.y + d.height - p.TotalHeight()
	}
	if panelY < d.y {
		panelY = d.y
	}
	p.Move(d.panelRightEdge(p), panelY, 0)
}

// RemovePanel is part of the Container interface.
func (d *PanelDock) RemovePanel(p *Panel) {
	if d.draggedPanel == p {
		d.draggedPanel = nil
	}

	idx := slices.Index(d.panels, p)
	if idx < 0 {
		slog.Warn("panels: dock asked to remove panel it is not holding",
			slog.String("panel", p.id()))
		return
	}
	d.panels = slices.Delete(d.panels, idx, idx+1)
	delete(d.infos, p)

	if len(d.panels) == 0 {
		bgX := d.offscreenBackgroundX()
		d.conn().MoveInputWindowOffscreen(d.bgInput)
		d.bg.MoveX(bgX, backgroundAnim)
		d.bgShadow.MoveX(bgX, backgroundAnim)
		d.bgShadow.SetOpacity(0, backgroundAnim)
		d.totalPanelHeight = 0
		d.mgr.HandleDockVisibilityChange(d)
	} else {
		d.packPanels(d.draggedPanel)
	}
}

// ShouldAddDraggedPanel is part of the Container interface. The drag
// position is the panel's right edge.
func (d *PanelDock) ShouldAddDraggedPanel(p *Panel, pt geometry.Point) bool {
	if d.side == DockRight {
		return pt.X >= d.x+d.width-dockAttachThreshold
	}
	return pt.X-p.ContentWidth() <= d.x+dockAttachThreshold
}

// HandlePanelButtonPress is part of the Container interface.
func (d *PanelDock) HandlePanelButtonPress(p *Panel, button int, t time.Time) {
	p.TakeFocus(t)
}

// HandleSetPanelState is part of the Container interface. Docked panels
// do not expand or collapse.
func (d *PanelDock) HandleSetPanelState(p *Panel, expand bool) {
	slog.Warn("panels: ignoring state change for docked panel",
		slog.String("panel", p.id()), slog.Bool("expand", expand))
}

// HandlePanelDragged is part of the Container interface.
func (d *PanelDock) HandlePanelDragged(p *Panel, pt geometry.Point) bool {
	if d.side == DockRight {
		if pt.X <= d.x+d.width-dockDetachThreshold {
			return false
		}
	} else {
		if pt.X-p.ContentWidth() >= d.x+dockDetachThreshold {
			return false
		}
	}

	if d.draggedPanel != p {
		d.draggedPanel = p
		p.StackAtTopOfLayer(wm.LayerDraggedPanel)
		p.SetShadowOpacity(1, panelShadowAnim)
	}

	// Cap the drag within the dock's vertical extent.
	dragY := pt.Y
	if dragY+p.TotalHeight() > d.y+d.height {
		dragY = d.y + d.height - p.TotalHeight()
	}
	if dragY < d.y {
		dragY = d.y
	}

	p.MoveY(dragY, 0)
	d.reorderPanel(p)
	return true
}

// HandlePanelDragComplete is part of the Container interface. The panel
// is resized to the dock's width now that its drag coordinates no longer
// matter.
func (d *PanelDock) HandlePanelDragComplete(p *Panel) {
	if d.draggedPanel != p {
		return
	}
	p.Move(p.Right(), p.TitlebarY(), 0)
	if p.ContentWidth() != d.width {
		grav := geometry.GravityNW
		if d.side == DockRight {
			grav = geometry.GravityNE
		}
		p.ResizeContent(geometry.Sz(d.width, p.ContentHeight()), grav, true)
	}
	p.SetShadowOpacity(0, panelShadowAnim)
	p.StackAtTopOfLayer(wm.LayerPackedPanelInDock)
	d.draggedPanel = nil
	d.packPanels(nil)
}

// HandleFocusPanel is part of the Container interface.
func (d *PanelDock) HandleFocusPanel(p *Panel, t time.Time) {
	p.TakeFocus(t)
}

// HandlePanelTitlebarPointerEnter is part of the Container interface;
// docked panels have nothing to reveal.
func (d *PanelDock) HandlePanelTitlebarPointerEnter(p *Panel, t time.Time) {}

// HandlePanelResizeRequest is part of the Container interface. Width is
// pinned to the dock; height changes apply and repack the column.
func (d *PanelDock) HandlePanelResizeRequest(p *Panel, size geometry.Size) {
	if size.Width != p.ContentWidth() {
		slog.Warn("panels: ignoring width change for docked panel",
			slog.String("panel", p.id()),
			slog.String("current", p.contentBounds.Size().String()),
			slog.String("requested", size.String()))
		size.Width = p.ContentWidth()
	}
	p.ResizeContent(size, geometry.GravityNW, true)
	d.packPanels(d.draggedPanel)
}

// HandlePanelResizeByUser is part of the Container interface. Docked
// panels never get resize handles.
func (d *PanelDock) HandlePanelResizeByUser(p *Panel) {
	slog.Error("panels: docked panel reported a user resize",
		slog.String("panel", p.id()))
}

// HandleScreenResize is part of the Container interface.
func (d *PanelDock) HandleScreenResize() {
	d.height = d.mgr.screen.Height()
	if d.side == DockRight {
		d.x = d.mgr.screen.Width() - d.width
	}

	bgX := d.x
	if len(d.panels) == 0 {
		bgX = d.offscreenBackgroundX()
	}
	d.resizeBackground(d.width, d.height)
	d.bg.Move(geometry.Pt(bgX, d.y), 0)
	d.bgShadow.Resize(geometry.Sz(d.width, d.height))
	d.bgShadow.Move(geometry.Pt(bgX, d.y), 0)
	if len(d.panels) > 0 {
		d.conn().ConfigureInputWindow(d.bgInput,
			geometry.NewRect(d.x, d.y, d.width, d.height))
	}

	// A right dock's panels ride along with the screen edge.
	if d.side == DockRight {
		for _, p := range d.panels {
			p.MoveX(d.x+d.width, 0)
		}
	}
}

// HandlePanelUrgencyChange is part of the Container interface; docked
// panels show urgency through their titlebars alone.
func (d *PanelDock) HandlePanelUrgencyChange(p *Panel) {}

// HandleInputWindowButtonPress is part of the Container interface.
func (d *PanelDock) HandleInputWindowButtonPress(id wm.WindowID, pt, rootPt geometry.Point, button int, t time.Time) {
}

// HandleInputWindowButtonRelease is part of the Container interface.
func (d *PanelDock) HandleInputWindowButtonRelease(id wm.WindowID, pt, rootPt geometry.Point, button int, t time.Time) {
}

// HandleInputWindowPointerEnter is part of the Container interface.
func (d *PanelDock) HandleInputWindowPointerEnter(id wm.WindowID, pt, rootPt geometry.Point, t time.Time) {
}

// HandleInputWindowPointerLeave is part of the Container interface.
func (d *PanelDock) HandleInputWindowPointerLeave(id wm.WindowID, pt, rootPt geometry.Point, t time.Time) {
}

// TakeFocus is part of the Container interface: the topmost panel gets
// the focus.
func (d *PanelDock) TakeFocus(t time.Time) bool {
	if len(d.panels) == 0 {
		return false
	}
	d.panels[0].TakeFocus(t)
	return true
}

// reorderPanel moves a dragged panel within the column once its edge
// crosses a neighbor's midpoint: the top edge going up, the bottom edge
// going down. Crossing a midpoint is the hysteresis that keeps neighbors
// from swapping back and forth under small movements.
func (d *PanelDock) reorderPanel(fixed *Panel) {
	srcIdx := slices.Index(d.panels, fixed)
	if srcIdx < 0 {
		return
	}

	destIdx := srcIdx
	if fixed.TitlebarY() < d.infos[fixed].snappedY {
		// Above the snapped spot: furthest panel whose midpoint our top
		// edge has passed.
		for i := srcIdx - 1; i >= 0; i-- {
			p := d.panels[i]
			if fixed.TitlebarY() <= p.TitlebarY()+p.TotalHeight()/2 {
				destIdx = i
			} else {
				break
			}
		}
	} else {
		// Below: same check against our bottom edge.
		for i := srcIdx + 1; i < len(d.panels); i++ {
			p := d.panels[i]
			if fixed.TitlebarY()+fixed.TotalHeight() > p.TitlebarY()+p.TotalHeight()/2 {
				destIdx = i
			} else {
				break
			}
		}
	}

	if destIdx != srcIdx {
		movePanel(d.panels, srcIdx, destIdx)
		d.packPanels(fixed)
	}
}

// packPanels stacks the column from the top, assigning each panel its
// snapped offset and animating any panel not already there. The panel
// being dragged keeps its position but still claims its slot.
func (d *PanelDock) packPanels(fixed *Panel) {
	totalHeight := 0
	for _, p := range d.panels {
		info := d.infos[p]
		info.snappedY = totalHeight
		if p != fixed && p.TitlebarY() != info.snappedY {
			p.MoveY(info.snappedY, packPanelsAnim)
		}
		totalHeight += p.TotalHeight()
	}
	d.totalPanelHeight = totalHeight
}

// resizeBackground scales the background relative to its created size.
func (d *PanelDock) resizeBackground(w, h int) {
	d.bg.Scale(float64(w)/float64(d.bgNatural.Width),
		float64(h)/float64(d.bgNatural.Height), 0)
}
