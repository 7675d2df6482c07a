package panels

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/regenrek/paneldeck/internal/geometry"
	"github.com/regenrek/paneldeck/internal/wm"
)

// HandleInputWindowButtonPress starts a resize drag on one of the panel's
// handles. Only button 1 resizes.
func (p *Panel) HandleInputWindowButtonPress(id wm.WindowID, pt geometry.Point, button int, t time.Time) {
	if button != 1 {
		return
	}
	if p.resizeDragID != wm.None {
		slog.Warn("panels: ignoring press during active resize drag",
			slog.String("panel", p.id()),
			slog.String("window", id.String()),
			slog.String("drag", p.resizeDragID.String()))
		return
	}

	p.resizeDragID = id
	p.resizeStart = pt
	p.resizeOrig = p.contentBounds.Size()
	p.resizeLast = p.resizeOrig
	p.resizeCoalescer.Start()

	if !p.mgr.opaqueResize {
		p.resizeBox = p.conn().CreateDecoration(
			fmt.Sprintf("resize box for panel %s", p.id()),
			geometry.NewRect(p.TitlebarX(), p.TitlebarY(), p.ContentWidth(), p.TotalHeight()))
		p.resizeBox.SetOpacity(resizeBoxOpacity, 0)
		p.resizeBox.StackAtTopOfLayer(wm.LayerDraggedPanel)
		p.resizeBox.Show()
	}
}

// HandleInputWindowButtonRelease finishes a resize drag.
func (p *Panel) HandleInputWindowButtonRelease(id wm.WindowID, pt geometry.Point, button int, t time.Time) {
	if button != 1 {
		return
	}
	if id != p.resizeDragID {
		slog.Warn("panels: ignoring release for unexpected input window",
			slog.String("panel", p.id()),
			slog.String("window", id.String()),
			slog.String("drag", p.resizeDragID.String()))
		return
	}

	// The press's pointer capture would otherwise survive until all
	// buttons are up, letting the user transfer the grab from one button
	// to another. End it on the first release instead.
	p.conn().RemovePointerGrab(false)
	p.resizeCoalescer.StorePosition(pt)
	p.resizeCoalescer.Stop()
	p.resizeDragID = wm.None

	if p.mgr.opaqueResize {
		p.configureInputWindows()
	} else {
		if p.resizeBox != nil {
			p.resizeBox.Destroy()
			p.resizeBox = nil
		}
		p.ResizeContent(p.resizeLast, p.resizeGravity, true)
	}

	p.mgr.HandlePanelResizeByUser(p)
}

// HandleInputWindowPointerMotion records a resize drag position. The work
// happens later, when the coalescer fires.
func (p *Panel) HandleInputWindowPointerMotion(id wm.WindowID, pt geometry.Point) {
	if id != p.resizeDragID {
		slog.Warn("panels: ignoring motion for unexpected input window",
			slog.String("panel", p.id()),
			slog.String("window", id.String()),
			slog.String("drag", p.resizeDragID.String()))
		return
	}
	p.resizeCoalescer.StorePosition(pt)
}

// applyResize runs on the coalescer's cadence during a resize drag. The
// active handle decides the gravity and which axes the pointer delta
// applies to: dragging the top edge grows the panel upward, the left edge
// grows it leftward, and corners combine both.
func (p *Panel) applyResize() {
	pos := p.resizeCoalescer.Position()
	dx := pos.X - p.resizeStart.X
	dy := pos.Y - p.resizeStart.Y
	p.resizeGravity = geometry.GravityNW

	switch p.resizeDragID {
	case p.topInput:
		p.resizeGravity = geometry.GravitySW
		dx = 0
		dy = -dy
	case p.topLeftInput:
		p.resizeGravity = geometry.GravitySE
		dx = -dx
		dy = -dy
	case p.topRightInput:
		p.resizeGravity = geometry.GravitySW
		dy = -dy
	case p.leftInput:
		p.resizeGravity = geometry.GravityNE
		dx = -dx
		dy = 0
	case p.rightInput:
		p.resizeGravity = geometry.GravityNW
		dy = 0
	}

	p.resizeLast = p.capSize(geometry.Sz(p.resizeOrig.Width+dx, p.resizeOrig.Height+dy))

	if p.mgr.opaqueResize {
		// Leave the input windows alone until the drag ends; moving them
		// mid-drag would shift the coordinates of subsequent motion
		// events.
		p.ResizeContent(p.resizeLast, p.resizeGravity, false)
		return
	}

	if p.resizeBox == nil {
		return
	}
	x := p.TitlebarX()
	if p.resizeGravity == geometry.GravitySE || p.resizeGravity == geometry.GravityNE {
		x -= p.resizeLast.Width - p.resizeOrig.Width
	}
	y := p.TitlebarY()
	if p.resizeGravity == geometry.GravitySW || p.resizeGravity == geometry.GravitySE {
		y -= p.resizeLast.Height - p.resizeOrig.Height
	}
	p.resizeBox.Move(geometry.Pt(x, y), 0)
	p.resizeBox.Resize(geometry.Sz(p.resizeLast.Width, p.resizeLast.Height+p.TitlebarHeight()))
}

// capSize clamps a requested content size to the panel's limits.
func (p *Panel) capSize(s geometry.Size) geometry.Size {
	return geometry.Sz(
		min(max(s.Width, p.minContentSize.Width), p.maxContentSize.Width),
		min(max(s.Height, p.minContentSize.Height), p.maxContentSize.Height))
}

// updateSizeLimits derives the content window's allowed size range from
// its owner's hints. The floor keeps the panel wide enough that the
// resize corners cannot overlap and tall enough that the side handles
// keep positive height.
func (p *Panel) updateSizeLimits() {
	minHint, maxHint, ok := p.content.SizeHints()
	if !ok {
		minHint, maxHint = geometry.Size{}, geometry.Size{}
	}

	p.minContentSize = geometry.Sz(
		max(minHint.Width, 2*(resizeCornerSize-resizeBorderWidth)+1),
		max(minHint.Height, resizeCornerSize-resizeBorderWidth+1))

	p.maxContentSize = geometry.Sz(math.MaxInt, math.MaxInt)
	if maxHint.Width > 0 {
		p.maxContentSize.Width = maxHint.Width
	}
	if maxHint.Height > 0 {
		p.maxContentSize.Height = maxHint.Height
	}
}
