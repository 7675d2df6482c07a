package sim

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/regenrek/paneldeck/internal/geometry"
	"github.com/regenrek/paneldeck/internal/panels"
	"github.com/regenrek/paneldeck/internal/wm"
)

// dragMode says where a held primary button's events are routed, standing
// in for the window system's pointer grab.
type dragMode int

const (
	dragNone dragMode = iota
	// dragTitlebar synthesizes the owner-side drag protocol: positions
	// for the panel's top-right corner, then a completion.
	dragTitlebar
	// dragInput holds a press on an engine input window (resize handles,
	// bar strip, dock background) until release.
	dragInput
)

type dragState struct {
	mode   dragMode
	target wm.WindowID
	panel  *panels.Panel
	offX   int
	offY   int
	sent   bool
}

// handleMouse maps a terminal cell event onto the simulated screen and
// drives the engine with it. Hit tests run against the whole cell rect,
// not the cell's center, so sub-cell targets like the bar's one-pixel
// show strip stay reachable.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	cx, cy := msg.X, msg.Y-headerRows
	onBoard := cx >= 0 && cx < m.boardCols() && cy >= 0 && cy < m.boardRows()

	// Cell center in screen pixels; off-board rows land outside the
	// simulated screen, which is exactly what crossing out of the bar
	// region should look like to the pointer watchers.
	root := geometry.Pt(cx*m.scaleX+m.scaleX/2, cy*m.scaleY+m.scaleY/2)
	now := m.board.Now()

	switch msg.Action {
	case tea.MouseActionMotion:
		m.handlePointerMotion(root, cx, cy, onBoard, now)
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		m.handlePointerPress(root, cx, cy, onBoard, now)
	case tea.MouseActionRelease:
		m.handlePointerRelease(root, now)
	}
}

func (m *Model) handlePointerMotion(root geometry.Point, cx, cy int, onBoard bool, now time.Time) {
	switch m.drag.mode {
	case dragTitlebar:
		m.board.pointer = root
		pos := geometry.Pt(root.X+m.drag.offX, root.Y+m.drag.offY)
		m.mgr.HandleNotifyPanelDragged(m.drag.panel.ContentID(), pos)
		m.drag.sent = true
	case dragInput:
		m.board.pointer = root
		m.mgr.HandlePointerMotion(m.drag.target, root)
	default:
		if !onBoard {
			m.board.pointer = root
			m.clearHover(root, now)
			return
		}
		target, ok := m.board.hitTest(m.cellRect(cx, cy))
		if !ok {
			m.board.pointer = root
			m.clearHover(root, now)
			return
		}
		pt := clampInto(root, target.rect)
		m.board.pointer = pt
		if target.id != m.hovered {
			m.clearHover(pt, now)
			m.hovered = target.id
			m.mgr.HandlePointerEnter(target.id, pt, pt, now)
		}
	}
}

func (m *Model) handlePointerPress(root geometry.Point, cx, cy int, onBoard bool, now time.Time) {
	if !onBoard || m.drag.mode != dragNone {
		return
	}
	target, ok := m.board.hitTest(m.cellRect(cx, cy))
	if !ok {
		return
	}
	pt := clampInto(root, target.rect)
	m.board.pointer = pt

	if target.input {
		m.drag = dragState{mode: dragInput, target: target.id}
		m.mgr.HandleButtonPress(target.id, pt, pt, 1, now)
		return
	}
	if p := m.mgr.PanelByWindow(target.id); p != nil && target.id == p.Titlebar().ID() {
		m.drag = dragState{
			mode:   dragTitlebar,
			target: target.id,
			panel:  p,
			offX:   p.Right() - pt.X,
			offY:   p.TitlebarY() - pt.Y,
		}
	}
	m.mgr.HandleButtonPress(target.id, pt, pt, 1, now)
}

func (m *Model) handlePointerRelease(root geometry.Point, now time.Time) {
	drag := m.drag
	m.drag = dragState{}
	switch drag.mode {
	case dragTitlebar:
		m.board.pointer = root
		if drag.sent {
			m.mgr.HandleNotifyPanelDragComplete(drag.panel.ContentID())
		}
	case dragInput:
		m.board.pointer = root
		m.mgr.HandleButtonRelease(drag.target, root, root, 1, now)
	}
}

func (m *Model) clearHover(pt geometry.Point, now time.Time) {
	if m.hovered == wm.None {
		return
	}
	id := m.hovered
	m.hovered = wm.None
	m.mgr.HandlePointerLeave(id, pt, pt, now)
}

// cellRect is the screen-pixel rectangle covered by one terminal cell.
func (m *Model) cellRect(cx, cy int) geometry.Rect {
	return geometry.NewRect(cx*m.scaleX, cy*m.scaleY, m.scaleX, m.scaleY)
}

// clampInto nudges p to the nearest point inside r, used when a cell's
// center misses the sub-cell rect the cell actually hit.
func clampInto(p geometry.Point, r geometry.Rect) geometry.Point {
	if r.IsEmpty() {
		return p
	}
	if p.X < r.X {
		p.X = r.X
	} else if p.X >= r.Right() {
		p.X = r.Right() - 1
	}
	if p.Y < r.Y {
		p.Y = r.Y
	} else if p.Y >= r.Bottom() {
		p.Y = r.Bottom() - 1
	}
	return p
}
