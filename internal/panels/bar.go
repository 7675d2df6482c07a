package panels

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/regenrek/paneldeck/internal/geometry"
	"github.com/regenrek/paneldeck/internal/wm"
)

const (
	// barRightPadding separates the rightmost packed panel from the screen
	// edge.
	barRightPadding = 24

	// barPanelGap separates neighboring panels in the bar.
	barPanelGap = 6

	// floatingPanelThreshold is how far left of the packed group a panel
	// must be dragged before it starts floating.
	floatingPanelThreshold = 30

	// panelAttachThreshold is how close to the bar a free panel must be
	// dragged before the bar captures it.
	panelAttachThreshold = 20

	// panelDetachThreshold is how far above its bar position a panel must
	// be dragged before it detaches.
	panelDetachThreshold = 50

	panelArrangeAnim = 150 * time.Millisecond
	panelStateAnim   = 150 * time.Millisecond
	droppedPanelAnim = 50 * time.Millisecond
)

// barPanelInfo is the bar's bookkeeping for one panel.
type barPanelInfo struct {
	// desiredRight is where the panel's right edge wants to be. Packed
	// panels get this assigned by arrangePanels; floating panels keep the
	// spot the user dragged them to.
	desiredRight int

	floating bool
}

// PanelBar is the container along the bottom edge of the screen. Panels
// pack right-to-left against the right screen edge; panels dragged away
// from the group float freely to its left. Collapsed panels can slide
// almost entirely offscreen and reveal themselves when the pointer
// reaches the bottom row of pixels.
type PanelBar struct {
	mgr *PanelManager

	// infos tracks every panel in the bar, packed or floating.
	infos map[*Panel]*barPanelInfo

	// packed is ordered left-to-right; the rightmost panel sits against
	// the screen edge. floating panels are ordered left-to-right too but
	// keep user-chosen positions.
	packed   []*Panel
	floating []*Panel

	// packedWidth is the total width of the packed group including the
	// padding between panels and to the screen edge.
	packedWidth int

	draggedPanel *Panel

	// draggingHorizontally is decided once per drag from the drag's first
	// displacement and never revisited.
	draggingHorizontally bool

	// Anchor: a small decoration shown under a panel expanded via its
	// titlebar, collapsing the panel when clicked or abandoned.
	anchorInput   wm.WindowID
	anchorPanel   *Panel
	anchor        wm.Decoration
	anchorWatcher *PointerPositionWatcher

	// desiredFocus remembers which panel should get the focus next time
	// the bar is asked to take it.
	desiredFocus *Panel

	collapsedState collapsedPanelState

	// showInput is the full-width strip along the bottom row of pixels
	// that reveals hidden collapsed panels on pointer enter.
	showInput     wm.WindowID
	showTimeoutID int
	hideWatcher   *PointerPositionWatcher
}

// NewPanelBar creates the bar's input windows and anchor decoration. Both
// input windows start offscreen.
func NewPanelBar(mgr *PanelManager) *PanelBar {
	b := &PanelBar{
		mgr:            mgr,
		infos:          make(map[*Panel]*barPanelInfo),
		collapsedState: collapsedPanelsHidden,
		showTimeoutID:  -1,
	}
	off := geometry.NewRect(-1, -1, 1, 1)
	b.anchorInput = b.conn().CreateInputWindow("panel anchor input window", off)
	b.showInput = b.conn().CreateInputWindow("show-collapsed-panels input window", off)

	b.anchor = b.conn().CreateDecoration("panel anchor",
		geometry.NewRect(0, 0, anchorWidth, anchorHeight))
	b.anchor.SetOpacity(0, 0)
	b.anchor.StackAtTopOfLayer(wm.LayerBarInput)

	// The anchor input window goes above the show-collapsed-panels strip
	// so the strip cannot feed us spurious leave events.
	b.conn().StackInputWindowAtTopOfLayer(b.showInput, wm.LayerBarInput)
	b.conn().StackInputWindowAtTopOfLayer(b.anchorInput, wm.LayerBarInput)
	return b
}

func (b *PanelBar) conn() wm.Conn { return b.mgr.conn }

func (b *PanelBar) destroy() {
	b.disableShowCollapsedPanelsTimeout()
	if b.anchorWatcher != nil {
		b.anchorWatcher.Stop()
		b.anchorWatcher = nil
	}
	if b.hideWatcher != nil {
		b.hideWatcher.Stop()
		b.hideWatcher = nil
	}
	b.conn().DestroyInputWindow(b.anchorInput)
	b.anchorInput = wm.None
	b.conn().DestroyInputWindow(b.showInput)
	b.showInput = wm.None
	b.anchor.Destroy()
}

// InputWindowIDs is part of the Container interface.
func (b *PanelBar) InputWindowIDs() []wm.WindowID {
	return []wm.WindowID{b.anchorInput, b.showInput}
}

// AddPanel is part of the Container interface. New panels slide up from
// the bottom of the screen into the packed group; dragged panels are
// slotted wherever the pointer has them; dropped panels glide to their
// packed spot.
func (b *PanelBar) AddPanel(p *Panel, source Source) {
	if _, ok := b.infos[p]; ok {
		panic(fmt.Sprintf("panels: bar already holds panel %s", p.id()))
	}

	padding := barPanelGap
	if len(b.packed) == 0 {
		padding = barRightPadding
	}
	info := &barPanelInfo{
		desiredRight: b.mgr.screen.Width() - b.packedWidth - padding,
	}
	b.infos[p] = info

	// The owner can ask for a new panel to open immediately left of the
	// panel that created it.
	insertIdx := 0
	if params := p.content.TypeParams(); source == SourceNew && len(params) >= 4 && params[3] != 0 {
		creatorID := wm.WindowID(params[3])
		idx := findPanelIndexByWindowID(b.packed, creatorID)
		if idx < 0 {
			slog.Warn("panels: bar cannot find creator for new panel",
				slog.String("creator", creatorID.String()),
				slog.String("panel", p.id()))
		} else {
			padding = barPanelGap
			creator := b.packed[idx]
			info.desiredRight = b.infos[creator].desiredRight - creator.ContentWidth() - padding
			insertIdx = idx
		}
	}

	b.packed = slices.Insert(b.packed, insertIdx, p)
	b.packedWidth += p.ContentWidth() + padding

	if source == SourceDragged {
		if b.draggedPanel != nil {
			slog.Warn("panels: bar got dragged panel while another drag is active",
				slog.String("panel", p.id()),
				slog.String("dragged", b.draggedPanel.id()))
		}
		b.draggedPanel = p
		b.draggingHorizontally = true
		reorderPanelInSlice(p, b.packed)
	}

	if source == SourceDragged {
		p.StackAtTopOfLayer(wm.LayerDraggedPanel)
	} else {
		p.StackAtTopOfLayer(wm.LayerPackedPanelInBar)
	}

	finalY := b.computePanelY(p)
	switch source {
	case SourceNew:
		// Slide in from the bottom of the screen.
		p.Move(info.desiredRight, b.mgr.screen.Height(), 0)
		p.MoveY(finalY, panelStateAnim)
	case SourceDragged:
		p.MoveY(finalY, 0)
	case SourceDropped:
		p.Move(info.desiredRight, finalY, droppedPanelAnim)
	}

	b.arrangePanels(true, nil)
	p.SetResizable(p.IsExpanded())

	// Focus the panel if it asked for the focus, if it already had it
	// (it keeps the focus across a detach and reattach), or if nothing
	// else is focused.
	params := p.content.TypeParams()
	focusRequested := source == SourceNew && (len(params) < 3 || params[2] != 0)
	if p.IsExpanded() &&
		(focusRequested || p.IsFocused() || b.mgr.focus.FocusedWindow() == nil) {
		b.focusPanel(p, b.conn().Now())
	}

	// The first collapsed panel turns on the strip that watches for the
	// pointer reaching the bottom of the screen.
	if !p.IsExpanded() && b.collapsedCount() == 1 {
		b.configureShowCollapsedPanelsInputWindow(true)
	}
}

// RemovePanel is part of the Container interface.
func (b *PanelBar) RemovePanel(p *Panel) {
	if _, ok := b.infos[p]; !ok {
		panic(fmt.Sprintf("panels: bar asked to remove unknown panel %s", p.id()))
	}

	if b.anchorPanel == p {
		b.destroyAnchor()
	}
	if b.draggedPanel == p {
		b.draggedPanel = nil
	}
	// If the removed panel was next in line for the focus, line up a
	// neighbor instead.
	if b.desiredFocus == p {
		b.desiredFocus = b.nearestExpandedPanel(p)
	}

	wasCollapsed := !p.IsExpanded()
	delete(b.infos, p)
	if idx := slices.Index(b.packed, p); idx >= 0 {
		b.packed = slices.Delete(b.packed, idx, idx+1)
	} else if idx := slices.Index(b.floating, p); idx >= 0 {
		b.floating = slices.Delete(b.floating, idx, idx+1)
	} else {
		slog.Warn("panels: bar asked to remove panel it is not holding",
			slog.String("panel", p.id()))
		return
	}

	// Recomputes the packed width as a side effect.
	b.arrangePanels(true, nil)

	if b.draggedPanel != nil && !b.infos[b.draggedPanel].floating {
		if reorderPanelInSlice(b.draggedPanel, b.packed) {
			b.arrangePanels(false, nil)
		}
	}

	if wasCollapsed && b.collapsedCount() == 0 {
		b.configureShowCollapsedPanelsInputWindow(false)
	}
}

// ShouldAddDraggedPanel is part of the Container interface: the bar takes
// a panel whose bottom edge is dragged close enough to the bottom of the
// screen.
func (b *PanelBar) ShouldAddDraggedPanel(p *Panel, pt geometry.Point) bool {
	return pt.Y+p.TotalHeight() > b.mgr.screen.Height()-panelAttachThreshold
}

// HandlePanelButtonPress is part of the Container interface.
func (b *PanelBar) HandlePanelButtonPress(p *Panel, button int, t time.Time) {
	slog.Debug("panels: button press in panel, giving it the focus",
		slog.String("panel", p.id()))
	b.focusPanel(p, t)
}

// HandleSetPanelState is part of the Container interface.
func (b *PanelBar) HandleSetPanelState(p *Panel, expand bool) {
	if expand {
		b.expandPanel(p, true, panelStateAnim)
	} else {
		b.collapsePanel(p, panelStateAnim)
	}
}

// HandlePanelDragged is part of the Container interface. The first call
// of a drag decides whether the drag is horizontal (rearranging panels
// within the bar) or vertical (expanding or collapsing the panel); the
// decision sticks for the whole drag.
func (b *PanelBar) HandlePanelDragged(p *Panel, pt geometry.Point) bool {
	slog.Debug("panels: bar notified about drag",
		slog.String("panel", p.id()),
		slog.String("pos", pt.String()))

	if !b.mgr.disableDetach {
		threshold := b.mgr.screen.Height() - p.TotalHeight() - panelDetachThreshold
		if pt.Y <= threshold {
			return false
		}
	}

	if b.draggedPanel != p {
		if b.draggedPanel != nil {
			slog.Warn("panels: abandoning dragged panel",
				slog.String("abandoned", b.draggedPanel.id()),
				slog.String("panel", p.id()))
			b.HandlePanelDragComplete(b.draggedPanel)
		}

		slog.Debug("panels: starting drag", slog.String("panel", p.id()))
		b.draggedPanel = p
		b.draggingHorizontally =
			abs(pt.X-p.Right()) > abs(pt.Y-p.TitlebarY())
		p.StackAtTopOfLayer(wm.LayerDraggedPanel)
	}

	if !b.draggingHorizontally {
		// Cap between the highest and lowest positions the panel can take
		// while in the bar.
		cappedY := max(
			min(pt.Y, b.mgr.screen.Height()-p.TitlebarHeight()),
			b.mgr.screen.Height()-p.TotalHeight())
		p.MoveY(cappedY, 0)
		return true
	}

	p.MoveX(pt.X, 0)
	info := b.infos[p]

	// Keep the panel in the vector matching its position. The boundary is
	// the total width of the other packed panels plus the padding that
	// would sit to this panel's right.
	packedWidthWithPadding := b.packedWidth
	if !info.floating {
		packedWidthWithPadding -= p.ContentWidth()
	} else if len(b.packed) == 0 {
		packedWidthWithPadding += barRightPadding
	} else {
		packedWidthWithPadding += barPanelGap
	}

	floatingThreshold :=
		b.mgr.screen.Width() - packedWidthWithPadding - floatingPanelThreshold

	movedToOtherVector := false
	if pt.X < floatingThreshold {
		movedToOtherVector = b.movePanelToFloating(p, info)
		info.desiredRight = pt.X
		b.arrangePanels(false, nil)
	} else {
		movedToOtherVector = b.movePanelToPacked(p, info)
		b.arrangePanels(false, nil)
	}

	if !movedToOtherVector {
		// Same vector; just check the ordering.
		vec := b.packed
		if info.floating {
			vec = b.floating
		}
		if reorderPanelInSlice(p, vec) && !info.floating {
			b.arrangePanels(false, nil)
		}
	}
	return true
}

// HandlePanelDragComplete is part of the Container interface.
func (b *PanelBar) HandlePanelDragComplete(p *Panel) {
	slog.Debug("panels: bar notified that drag is complete",
		slog.String("panel", p.id()))
	if b.draggedPanel != p {
		return
	}

	info := b.infos[p]
	b.draggedPanel = nil

	if b.draggingHorizontally {
		var fixed *Panel
		if info.floating {
			fixed = p
		}
		b.arrangePanels(true, fixed)
	} else {
		// Snap back to a settled Y position, expanding or collapsing when
		// the drag ended past the midpoint. Half the usual animation; the
		// panel is already at least halfway there.
		mostlyVisible :=
			p.TitlebarY() < b.mgr.screen.Height()-p.TotalHeight()/2
		anim := panelStateAnim / 2
		switch {
		case mostlyVisible && !p.IsExpanded():
			b.expandPanel(p, false, anim)
			b.focusPanel(p, b.conn().Now())
		case !mostlyVisible && p.IsExpanded():
			b.collapsePanel(p, anim)
		default:
			p.MoveY(b.computePanelY(p), anim)
		}
	}

	if info.floating {
		p.StackAtTopOfLayer(wm.LayerFloatingPanelInBar)
	} else {
		p.StackAtTopOfLayer(wm.LayerPackedPanelInBar)
	}

	if b.collapsedState == collapsedPanelsWaitingToHide {
		// The pointer left the bottom of the screen mid-drag. Hide now
		// unless it came back down before the drop.
		if b.conn().QueryPointer().Y <
			b.mgr.screen.Height()-hideCollapsedPanelsDistance {
			b.hideCollapsedPanels()
		} else {
			b.collapsedState = collapsedPanelsShown
			b.startHideCollapsedPanelsWatcher()
		}
	}
}

// HandleFocusPanel is part of the Container interface.
func (b *PanelBar) HandleFocusPanel(p *Panel, t time.Time) {
	if !p.IsExpanded() {
		b.expandPanel(p, false, panelStateAnim)
	}
	b.focusPanel(p, t)
}

// HandlePanelResizeRequest is part of the Container interface. Owner
// requests hold the bottom-right corner in place so the panel stays
// attached to the bar.
func (b *PanelBar) HandlePanelResizeRequest(p *Panel, size geometry.Size) {
	p.ResizeContent(size, geometry.GravitySE, true)
	b.arrangePanels(true, nil)
}

// HandlePanelResizeByUser is part of the Container interface. A floating
// panel that was just resized is pinned where the user left it while its
// neighbors shuffle around it.
func (b *PanelBar) HandlePanelResizeByUser(p *Panel) {
	var fixed *Panel
	info := b.infos[p]
	if info.floating {
		info.desiredRight = p.Right()
		fixed = p
	}
	b.arrangePanels(true, fixed)
}

// HandleScreenResize is part of the Container interface. Panels jump to
// their new Y positions and then animate into their new X positions.
func (b *PanelBar) HandleScreenResize() {
	for p := range b.infos {
		p.MoveY(b.computePanelY(p), 0)
	}
	if b.draggedPanel != nil && !b.infos[b.draggedPanel].floating {
		reorderPanelInSlice(b.draggedPanel, b.packed)
	}
	b.arrangePanels(true, nil)
}

// HandlePanelUrgencyChange is part of the Container interface. An urgent
// collapsed panel pops its titlebar up even while collapsed panels are
// hidden.
func (b *PanelBar) HandlePanelUrgencyChange(p *Panel) {
	if !p.IsExpanded() {
		if y := b.computePanelY(p); p.TitlebarY() != y {
			p.MoveY(y, hideCollapsedPanelsAnim)
		}
	}
}

// TakeFocus is part of the Container interface.
func (b *PanelBar) TakeFocus(t time.Time) bool {
	if b.desiredFocus != nil {
		b.focusPanel(b.desiredFocus, t)
		return true
	}

	// Just take the first onscreen expanded panel.
	for _, p := range b.floating {
		if p.IsExpanded() && p.Right() > 0 {
			b.focusPanel(p, t)
			return true
		}
	}
	for _, p := range b.packed {
		if p.IsExpanded() && p.Right() > 0 {
			b.focusPanel(p, t)
			return true
		}
	}
	return false
}

func (b *PanelBar) focusPanel(p *Panel, t time.Time) {
	p.TakeFocus(t)
	b.desiredFocus = p
}

func (b *PanelBar) collapsedCount() int {
	count := 0
	for p := range b.infos {
		if !p.IsExpanded() {
			count++
		}
	}
	return count
}

// movePanelToPacked shifts a floating panel into the packed vector.
// Returns false if the panel was already packed.
func (b *PanelBar) movePanelToPacked(p *Panel, info *barPanelInfo) bool {
	if !info.floating {
		return false
	}
	slog.Debug("panels: moving panel to packed vector", slog.String("panel", p.id()))
	idx := slices.Index(b.floating, p)
	b.floating = slices.Delete(b.floating, idx, idx+1)
	// A panel dragged out of the floating group at the left is likely to
	// land at the left end of the packed group.
	b.packed = slices.Insert(b.packed, 0, p)
	info.floating = false
	reorderPanelInSlice(p, b.packed)
	return true
}

// movePanelToFloating shifts a packed panel into the floating vector.
// Returns false if the panel was already floating.
func (b *PanelBar) movePanelToFloating(p *Panel, info *barPanelInfo) bool {
	if info.floating {
		return false
	}
	slog.Debug("panels: moving panel to floating vector", slog.String("panel", p.id()))
	idx := slices.Index(b.packed, p)
	b.packed = slices.Delete(b.packed, idx, idx+1)
	b.floating = append(b.floating, p)
	info.floating = true
	reorderPanelInSlice(p, b.floating)
	return true
}

// nearestExpandedPanel finds the expanded panel closest to p, measured
// between facing edges, or by center distance when they overlap.
func (b *PanelBar) nearestExpandedPanel(p *Panel) *Panel {
	if p == nil || !p.IsExpanded() {
		return nil
	}
	var nearest *Panel
	best := math.MaxInt
	for other := range b.infos {
		if other == p || !other.IsExpanded() {
			continue
		}
		var distance int
		switch {
		case other.Right() <= p.ContentX():
			distance = p.ContentX() - other.Right()
		case other.ContentX() >= p.Right():
			distance = other.ContentX() - p.Right()
		default:
			distance = abs(other.ContentCenter() - p.ContentCenter())
		}
		if distance < best {
			best = distance
			nearest = other
		}
	}
	return nearest
}

// arrangePanels lays the bar out. The packed group is packed against the
// right screen edge; the floating panels then claim their desired spots
// in the remaining space, pushed left as needed so nothing overlaps. A
// non-nil fixed panel (one being interactively resized) keeps its place
// while its floating neighbors shift around it.
func (b *PanelBar) arrangePanels(arrangeFloating bool, fixed *Panel) {
	b.packedWidth = 0
	for i := len(b.packed) - 1; i >= 0; i-- {
		padding := barPanelGap
		if i == len(b.packed)-1 {
			padding = barRightPadding
		}
		p := b.packed[i]
		info := b.infos[p]

		info.desiredRight = b.mgr.screen.Width() - b.packedWidth - padding
		if p != b.draggedPanel && p.Right() != info.desiredRight {
			p.MoveX(info.desiredRight, panelArrangeAnim)
		}

		b.packedWidth += p.ContentWidth() + padding
	}

	if !arrangeFloating {
		return
	}

	rightBoundary := b.mgr.screen.Width() - b.packedWidth - barPanelGap
	if b.packedWidth == 0 {
		rightBoundary = b.mgr.screen.Width() - barRightPadding
	}

	if fixed != nil {
		b.shiftFloatingPanelsAroundFixedPanel(fixed, rightBoundary)
	}

	for i := len(b.floating) - 1; i >= 0; i-- {
		p := b.floating[i]
		info := b.infos[p]

		if p != b.draggedPanel {
			right := min(info.desiredRight, rightBoundary)
			if p.Right() != right {
				p.MoveX(right, panelArrangeAnim)
			}
		}
		rightBoundary = p.ContentX() - barPanelGap
	}
}

// shiftFloatingPanelsAroundFixedPanel reorders the floating vector so the
// fixed panel's neighbors fit around it, disturbing as few panels as
// possible. Panels that no longer fit to the fixed panel's right are
// shifted to its left by moving the fixed panel right in the vector; if
// the right side has room to spare, panels from the left that want to be
// further right are let through instead.
func (b *PanelBar) shiftFloatingPanelsAroundFixedPanel(fixed *Panel, rightBoundary int) {
	if fixed.Right() > rightBoundary {
		fixed.MoveX(rightBoundary, panelArrangeAnim)
	}

	fixedIdx := slices.Index(b.floating, fixed)
	if fixedIdx < 0 {
		return
	}

	spaceToRight := rightBoundary - fixed.Right()
	widthToRight := 0
	for _, p := range b.floating[fixedIdx+1:] {
		widthToRight += p.ContentWidth() + barPanelGap
	}

	newFixedIdx := fixedIdx
	for i := fixedIdx + 1; i < len(b.floating); i++ {
		if widthToRight <= spaceToRight {
			break
		}
		newFixedIdx = i
		widthToRight -= b.floating[i].ContentWidth() + barPanelGap
	}

	if newFixedIdx == fixedIdx && fixedIdx > 0 {
		for i := fixedIdx - 1; i >= 0; i-- {
			p := b.floating[i]
			info := b.infos[p]
			if info.desiredRight-p.ContentWidth()/2 < fixed.ContentX() {
				break
			}
			newWidthToRight := widthToRight + p.ContentWidth() + barPanelGap
			if newWidthToRight > spaceToRight {
				break
			}
			newFixedIdx = i
			widthToRight = newWidthToRight
		}
	}

	if newFixedIdx != fixedIdx {
		movePanel(b.floating, fixedIdx, newFixedIdx)
	}

	// The panels right of the fixed panel's new position may overlap it
	// or each other; walk them left-to-right pushing desired positions
	// right as needed. arrangePanels' final pass pulls anything past the
	// boundary back in.
	leftEdge := fixed.Right() + barPanelGap
	for _, p := range b.floating[newFixedIdx+1:] {
		info := b.infos[p]
		if info.desiredRight-p.ContentWidth() < leftEdge {
			info.desiredRight = leftEdge + p.ContentWidth()
		}
		leftEdge = info.desiredRight + barPanelGap
	}
}

// reorderPanelInSlice moves p to the position within panels matching its
// current screen position: the rightmost slot whose current occupant's
// center p's right edge has passed. The hysteresis keeps small jitters
// from swapping neighbors back and forth. Returns true if p moved.
func reorderPanelInSlice(p *Panel, panels []*Panel) bool {
	srcIdx := slices.Index(panels, p)
	if srcIdx < 0 {
		return false
	}

	// Find the leftmost panel whose midpoint our left edge is left of and
	// the rightmost panel whose midpoint our right edge is right of.
	minIdx := len(panels) - 1
	maxIdx := 0
	for i, other := range panels {
		if other == p {
			continue
		}
		if p.ContentX() <= other.ContentCenter() {
			minIdx = min(minIdx, i)
		}
		if p.Right() > other.ContentCenter() {
			maxIdx = max(maxIdx, i)
		}
	}

	if maxIdx >= minIdx && maxIdx != srcIdx {
		movePanel(panels, srcIdx, maxIdx)
		return true
	}
	return false
}

// movePanel moves the element at from to to, shifting the elements in
// between by one.
func movePanel(panels []*Panel, from, to int) {
	p := panels[from]
	if to > from {
		copy(panels[from:], panels[from+1:to+1])
	} else {
		copy(panels[to+1:], panels[to:from])
	}
	panels[to] = p
}

// findPanelIndexByWindowID finds the panel owning the given content or
// titlebar window, or -1.
func findPanelIndexByWindowID(panels []*Panel, id wm.WindowID) int {
	for i, p := range panels {
		if p.content.ID() == id || p.titlebar.ID() == id {
			return i
		}
	}
	return -1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
