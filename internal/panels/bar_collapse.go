package panels

import (
	"log/slog"
	"time"

	"github.com/regenrek/paneldeck/internal/geometry"
	"github.com/regenrek/paneldeck/internal/wm"
)

const (
	// showCollapsedPanelsDistance is the height of the strip along the
	// bottom of the screen that reveals hidden collapsed panels.
	showCollapsedPanelsDistance = 1

	// hideCollapsedPanelsDistance is how far the pointer must move up
	// from the bottom of the screen before revealed panels hide again.
	hideCollapsedPanelsDistance = 30

	// hiddenCollapsedPanelHeight is how many pixels of a hidden collapsed
	// panel's titlebar stay onscreen.
	hiddenCollapsedPanelHeight = 3

	// showCollapsedPanelsDelay is how long the pointer must rest on the
	// strip before hidden panels are revealed.
	showCollapsedPanelsDelay = 200 * time.Millisecond

	hideCollapsedPanelsAnim = 100 * time.Millisecond
	anchorFadeAnim          = 150 * time.Millisecond

	anchorWidth  = 36
	anchorHeight = 24
)

// collapsedPanelState tracks whether collapsed panels' titlebars are
// slid down almost offscreen.
type collapsedPanelState int

const (
	collapsedPanelsHidden collapsedPanelState = iota

	// Pointer is resting on the strip at the bottom of the screen; panels
	// appear when the delay timer fires.
	collapsedPanelsWaitingToShow

	collapsedPanelsShown

	// Panels would hide but one of them is mid-drag; they hide when the
	// drag completes.
	collapsedPanelsWaitingToHide
)

func (s collapsedPanelState) String() string {
	switch s {
	case collapsedPanelsHidden:
		return "hidden"
	case collapsedPanelsWaitingToShow:
		return "waiting-to-show"
	case collapsedPanelsShown:
		return "shown"
	case collapsedPanelsWaitingToHide:
		return "waiting-to-hide"
	default:
		return "unknown"
	}
}

func (b *PanelBar) collapsedPanelsAreHidden() bool {
	return b.collapsedState == collapsedPanelsHidden ||
		b.collapsedState == collapsedPanelsWaitingToShow
}

// computePanelY is where a panel's titlebar top belongs given its
// expanded state and the collapsed-panel visibility. Urgent collapsed
// panels stay fully visible even while their peers are hidden.
func (b *PanelBar) computePanelY(p *Panel) int {
	if p.IsExpanded() {
		return b.mgr.screen.Height() - p.TotalHeight()
	}
	if b.collapsedPanelsAreHidden() && !p.IsUrgent() {
		return b.mgr.screen.Height() - hiddenCollapsedPanelHeight
	}
	return b.mgr.screen.Height() - p.TitlebarHeight()
}

// HandleInputWindowButtonPress is part of the Container interface. A
// click on the anchor collapses the anchored panel.
func (b *PanelBar) HandleInputWindowButtonPress(id wm.WindowID, pt, rootPt geometry.Point, button int, t time.Time) {
	if id != b.anchorInput || button != 1 {
		return
	}
	slog.Debug("panels: button press in anchor window")
	p := b.anchorPanel
	b.destroyAnchor()
	if p != nil {
		b.collapsePanel(p, panelStateAnim)
	} else {
		slog.Warn("panels: anchor panel no longer exists")
	}
}

// HandleInputWindowButtonRelease is part of the Container interface. The
// bar's input windows act on presses only.
func (b *PanelBar) HandleInputWindowButtonRelease(id wm.WindowID, pt, rootPt geometry.Point, button int, t time.Time) {
}

// HandleInputWindowPointerEnter is part of the Container interface.
func (b *PanelBar) HandleInputWindowPointerEnter(id wm.WindowID, pt, rootPt geometry.Point, t time.Time) {
	if id != b.showInput {
		return
	}
	slog.Debug("panels: pointer entered show-collapsed-panels window")
	if rootPt.X >= b.mgr.screen.Width()-b.packedWidth {
		// A pointer moved quickly to the bottom of the screen can end up
		// under a collapsed panel without its titlebar ever seeing an
		// enter event. Show immediately in that case.
		b.showCollapsedPanels()
	} else if b.collapsedState != collapsedPanelsShown &&
		b.collapsedState != collapsedPanelsWaitingToShow {
		b.collapsedState = collapsedPanelsWaitingToShow
		if b.showTimeoutID >= 0 {
			slog.Warn("panels: show-collapsed-panels timeout already armed")
			b.disableShowCollapsedPanelsTimeout()
		}
		b.showTimeoutID = b.mgr.sched.AddTimeout(
			b.handleShowCollapsedPanelsTimeout, b.mgr.showDelay, 0)
	}
}

// HandleInputWindowPointerLeave is part of the Container interface.
func (b *PanelBar) HandleInputWindowPointerLeave(id wm.WindowID, pt, rootPt geometry.Point, t time.Time) {
	if id != b.showInput {
		return
	}
	slog.Debug("panels: pointer left show-collapsed-panels window")
	if b.collapsedState == collapsedPanelsWaitingToShow {
		b.collapsedState = collapsedPanelsHidden
		b.disableShowCollapsedPanelsTimeout()
	}
}

// HandlePanelTitlebarPointerEnter is part of the Container interface.
// Touching a collapsed panel's titlebar reveals the whole collapsed set.
func (b *PanelBar) HandlePanelTitlebarPointerEnter(p *Panel, t time.Time) {
	slog.Debug("panels: pointer entered panel titlebar", slog.String("panel", p.id()))
	if b.collapsedState != collapsedPanelsShown && !p.IsExpanded() {
		b.showCollapsedPanels()
	}
}

// expandPanel slides a collapsed panel up to its expanded position.
// createAnchor shows the anchor under it, giving the pointer a target
// that collapses the panel again.
func (b *PanelBar) expandPanel(p *Panel, createAnchor bool, anim time.Duration) {
	if p.IsExpanded() {
		slog.Warn("panels: ignoring request to expand already-expanded panel",
			slog.String("panel", p.id()))
		return
	}

	if err := p.SetExpandedState(true); err != nil {
		slog.Warn("panels: recording expanded state failed",
			slog.String("panel", p.id()), slog.Any("err", err))
	}
	p.MoveY(b.computePanelY(p), anim)
	p.SetResizable(true)
	if createAnchor {
		b.createAnchor(p)
	}

	if b.collapsedCount() == 0 {
		b.configureShowCollapsedPanelsInputWindow(false)
	}
}

// collapsePanel slides an expanded panel down so only its titlebar shows.
func (b *PanelBar) collapsePanel(p *Panel, anim time.Duration) {
	if !p.IsExpanded() {
		slog.Warn("panels: ignoring request to collapse already-collapsed panel",
			slog.String("panel", p.id()))
		return
	}

	// Pick a focus fallback while this panel still counts as expanded.
	focusTarget := b.nearestExpandedPanel(p)

	if b.anchorPanel == p {
		b.destroyAnchor()
	}

	if err := p.SetExpandedState(false); err != nil {
		slog.Warn("panels: recording collapsed state failed",
			slog.String("panel", p.id()), slog.Any("err", err))
	}
	p.MoveY(b.computePanelY(p), anim)
	p.SetResizable(false)

	if p.IsFocused() {
		b.desiredFocus = focusTarget
		now := b.conn().Now()
		if !b.TakeFocus(now) {
			b.mgr.fallbackFocus(now)
		}
	}

	if b.collapsedCount() == 1 {
		b.configureShowCollapsedPanelsInputWindow(true)
	}
}

// createAnchor drops the anchor under the pointer at the bottom of the
// screen and starts polling for the pointer leaving it.
func (b *PanelBar) createAnchor(p *Panel) {
	pointer := b.conn().QueryPointer()
	x := min(max(pointer.X-anchorWidth/2, 0), b.mgr.screen.Width()-anchorWidth)
	y := b.mgr.screen.Height() - anchorHeight

	b.conn().ConfigureInputWindow(b.anchorInput,
		geometry.NewRect(x, y, anchorWidth, anchorHeight))
	b.anchorPanel = p
	b.anchor.Move(geometry.Pt(x, y), 0)
	b.anchor.SetOpacity(1, anchorFadeAnim)

	// Poll instead of trusting a leave event: the pointer may already be
	// gone by the time the input window exists, and other windows stacked
	// over the anchor can swallow the crossing.
	if b.anchorWatcher != nil {
		b.anchorWatcher.Stop()
	}
	b.anchorWatcher = NewPointerPositionWatcher(
		b.mgr.sched, b.conn(), b.destroyAnchor, false,
		geometry.NewRect(x, y, anchorWidth, anchorHeight))
}

// destroyAnchor fades the anchor out and forgets its panel.
func (b *PanelBar) destroyAnchor() {
	b.conn().MoveInputWindowOffscreen(b.anchorInput)
	b.anchor.SetOpacity(0, anchorFadeAnim)
	b.anchorPanel = nil
	if b.anchorWatcher != nil {
		b.anchorWatcher.Stop()
		b.anchorWatcher = nil
	}
}

// configureShowCollapsedPanelsInputWindow moves the reveal strip onto the
// bottom row of pixels, or parks it offscreen when no collapsed panels
// remain.
func (b *PanelBar) configureShowCollapsedPanelsInputWindow(onscreen bool) {
	slog.Debug("panels: configuring show-collapsed-panels input window",
		slog.String("window", b.showInput.String()),
		slog.Bool("onscreen", onscreen))
	if onscreen {
		b.conn().ConfigureInputWindow(b.showInput, geometry.NewRect(
			0, b.mgr.screen.Height()-showCollapsedPanelsDistance,
			b.mgr.screen.Width(), showCollapsedPanelsDistance))
	} else {
		b.conn().MoveInputWindowOffscreen(b.showInput)
	}
}

// startHideCollapsedPanelsWatcher polls for the pointer leaving the band
// along the bottom of the screen, hiding the revealed panels when it
// does.
func (b *PanelBar) startHideCollapsedPanelsWatcher() {
	if b.hideWatcher != nil {
		b.hideWatcher.Stop()
	}
	b.hideWatcher = newPointerPositionWatcher(
		b.mgr.sched, b.conn(), b.hideCollapsedPanels, false,
		geometry.NewRect(
			0, b.mgr.screen.Height()-hideCollapsedPanelsDistance,
			b.mgr.screen.Width(), hideCollapsedPanelsDistance),
		b.mgr.hideDelay)
}

// showCollapsedPanels raises every collapsed titlebar fully onscreen.
func (b *PanelBar) showCollapsedPanels() {
	slog.Debug("panels: showing collapsed panels")
	b.disableShowCollapsedPanelsTimeout()
	b.collapsedState = collapsedPanelsShown

	for p := range b.infos {
		if p.IsExpanded() {
			continue
		}
		if y := b.computePanelY(p); p.TitlebarY() != y {
			p.MoveY(y, hideCollapsedPanelsAnim)
		}
	}

	b.configureShowCollapsedPanelsInputWindow(false)
	b.startHideCollapsedPanelsWatcher()
}

// hideCollapsedPanels slides collapsed titlebars back down to the bottom
// edge. If a collapsed panel is mid-drag the hide is deferred until the
// drag completes.
func (b *PanelBar) hideCollapsedPanels() {
	slog.Debug("panels: hiding collapsed panels")
	b.disableShowCollapsedPanelsTimeout()

	if b.draggedPanel != nil && !b.draggedPanel.IsExpanded() {
		slog.Debug("panels: deferring hide, collapsed panel is being dragged",
			slog.String("panel", b.draggedPanel.id()))
		b.collapsedState = collapsedPanelsWaitingToHide
		return
	}

	b.collapsedState = collapsedPanelsHidden
	for p := range b.infos {
		if p.IsExpanded() {
			continue
		}
		if y := b.computePanelY(p); p.TitlebarY() != y {
			p.MoveY(y, hideCollapsedPanelsAnim)
		}
	}

	if b.collapsedCount() > 0 {
		b.configureShowCollapsedPanelsInputWindow(true)
	}
	if b.hideWatcher != nil {
		b.hideWatcher.Stop()
		b.hideWatcher = nil
	}
}

func (b *PanelBar) disableShowCollapsedPanelsTimeout() {
	if b.showTimeoutID >= 0 {
		b.mgr.sched.RemoveTimeout(b.showTimeoutID)
		b.showTimeoutID = -1
	}
}

func (b *PanelBar) handleShowCollapsedPanelsTimeout() {
	b.disableShowCollapsedPanelsTimeout()
	b.showCollapsedPanels()
}
