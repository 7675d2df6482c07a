package panels

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/regenrek/paneldeck/internal/geometry"
	"github.com/regenrek/paneldeck/internal/wm"
)

const (
	// dockWidth is the fixed width of the side docks. Chosen because
	// 1280 - 256 = 1024.
	dockWidth = 256

	// dragUpdatePeriod caps how often a dragged panel is laid out; drag
	// messages can arrive much faster than layout is worth doing.
	dragUpdatePeriod = 25 * time.Millisecond

	// detachAnim slides a freshly detached panel from its container slot
	// to the pointer.
	detachAnim = 100 * time.Millisecond
)

// AreaChangeListener is notified when the screen area reserved for docks
// changes, so outside layout can reflow around them.
type AreaChangeListener interface {
	HandlePanelAreaChange()
}

// Config carries the dependencies and policy knobs for a PanelManager.
// Conn, Focus, Screen, and Sched are required.
type Config struct {
	Conn   wm.Conn
	Focus  wm.FocusHandler
	Screen *wm.Screen
	Sched  Scheduler

	// Store persists expanded flags across sessions; nil disables
	// persistence.
	Store StateStore

	// Notify reports engine-imposed state changes back to panel owners;
	// nil discards them.
	Notify Notifier

	// DisableDocks leaves the side screen edges free: panels can only
	// live in the bar or float.
	DisableDocks bool

	// DisableDetach pins panels to the bar: drags can still reorder,
	// expand, and collapse them but never pull them out.
	DisableDetach bool

	// OpaqueResize resizes panel contents live during a resize drag
	// instead of dragging an outline box.
	OpaqueResize bool

	// ShowDelay overrides how long the pointer must rest at the bottom
	// edge before hidden collapsed titlebars slide up. Zero keeps the
	// built-in delay.
	ShowDelay time.Duration

	// HideDelay overrides how quickly revealed collapsed titlebars react
	// to the pointer moving away. Zero keeps the built-in period.
	HideDelay time.Duration

	// FocusFallback receives the focus when no panel can take it, after
	// the focused panel goes away or collapses.
	FocusFallback func(t time.Time)
}

// ownedTransient ties a dialog window to the panel it belongs to.
type ownedTransient struct {
	win   wm.Window
	owner *Panel
}

// PanelManager owns every panel and container, routes per-window traffic
// to whichever container holds the panel, and runs the drag and
// fullscreen lifecycles that cross container boundaries.
type PanelManager struct {
	conn   wm.Conn
	focus  wm.FocusHandler
	screen *wm.Screen
	sched  Scheduler
	store  StateStore
	notify Notifier

	opaqueResize  bool
	disableDetach bool
	showDelay     time.Duration
	hideDelay     time.Duration
	focusFallback func(t time.Time)

	bar        *PanelBar
	leftDock   *PanelDock
	rightDock  *PanelDock
	containers []Container

	panelByContent   map[wm.WindowID]*Panel
	panelByTitlebar  map[wm.WindowID]*Panel
	containerByPanel map[*Panel]Container
	panelInputs      map[wm.WindowID]*Panel
	containerInputs  map[wm.WindowID]Container
	transients       map[wm.WindowID]ownedTransient

	// draggedPanel is the panel being positionally dragged, if any.
	// Motion for it funnels through dragCoalescer.
	draggedPanel  *Panel
	dragCoalescer *MotionEventCoalescer

	fullscreenPanel *Panel

	areaListeners map[AreaChangeListener]struct{}
}

// NewPanelManager builds the bar and, unless disabled, the two docks.
func NewPanelManager(cfg Config) *PanelManager {
	if cfg.Conn == nil || cfg.Focus == nil || cfg.Screen == nil || cfg.Sched == nil {
		panic("panels: manager needs Conn, Focus, Screen, and Sched")
	}
	m := &PanelManager{
		conn:             cfg.Conn,
		focus:            cfg.Focus,
		screen:           cfg.Screen,
		sched:            cfg.Sched,
		store:            cfg.Store,
		notify:           cfg.Notify,
		opaqueResize:     cfg.OpaqueResize,
		disableDetach:    cfg.DisableDetach,
		showDelay:        cfg.ShowDelay,
		hideDelay:        cfg.HideDelay,
		focusFallback:    cfg.FocusFallback,
		panelByContent:   make(map[wm.WindowID]*Panel),
		panelByTitlebar:  make(map[wm.WindowID]*Panel),
		containerByPanel: make(map[*Panel]Container),
		panelInputs:      make(map[wm.WindowID]*Panel),
		containerInputs:  make(map[wm.WindowID]Container),
		transients:       make(map[wm.WindowID]ownedTransient),
		areaListeners:    make(map[AreaChangeListener]struct{}),
	}
	if m.store == nil {
		m.store = nopStore{}
	}
	if m.notify == nil {
		m.notify = nopNotifier{}
	}
	if m.showDelay <= 0 {
		m.showDelay = showCollapsedPanelsDelay
	}
	if m.hideDelay <= 0 {
		m.hideDelay = pointerWatchPeriod
	}
	m.dragCoalescer = NewMotionEventCoalescer(
		m.sched, m.handlePeriodicPanelDragMotion, dragUpdatePeriod)

	m.bar = NewPanelBar(m)
	m.registerContainer(m.bar)
	if !cfg.DisableDocks {
		m.leftDock = NewPanelDock(m, DockLeft, dockWidth)
		m.rightDock = NewPanelDock(m, DockRight, dockWidth)
		m.registerContainer(m.leftDock)
		m.registerContainer(m.rightDock)
	}
	return m
}

// Close tears down every panel, the containers, and the drag machinery.
func (m *PanelManager) Close() {
	m.dragCoalescer.Close()
	m.draggedPanel = nil
	m.fullscreenPanel = nil
	for _, p := range m.panelByContent {
		p.destroy()
	}
	m.panelByContent = make(map[wm.WindowID]*Panel)
	m.panelByTitlebar = make(map[wm.WindowID]*Panel)
	m.containerByPanel = make(map[*Panel]Container)
	m.panelInputs = make(map[wm.WindowID]*Panel)
	m.transients = make(map[wm.WindowID]ownedTransient)

	m.bar.destroy()
	if m.leftDock != nil {
		m.leftDock.destroy()
	}
	if m.rightDock != nil {
		m.rightDock.destroy()
	}
	m.containerInputs = make(map[wm.WindowID]Container)
	m.containers = nil
}

func (m *PanelManager) registerContainer(c Container) {
	for _, id := range c.InputWindowIDs() {
		if _, ok := m.containerInputs[id]; ok {
			panic("panels: container input window " + id.String() + " registered twice")
		}
		m.containerInputs[id] = c
	}
	m.containers = append(m.containers, c)
}

// AddPanel builds a panel from a content/titlebar window pair and hands
// it to the bar. The content window's TypeParams supply the initial
// state; a persisted expanded flag for the same title overrides the
// hint.
func (m *PanelManager) AddPanel(content, titlebar wm.Window, source Source) (*Panel, error) {
	if content == nil {
		panic("panels: AddPanel needs a content window")
	}
	if titlebar == nil {
		return nil, fmt.Errorf("%w: content %s", ErrMissingTitlebar, content.ID())
	}
	if _, ok := m.panelByContent[content.ID()]; ok {
		return nil, fmt.Errorf("%w: content %s", ErrDuplicateWindow, content.ID())
	}
	if _, ok := m.panelByTitlebar[titlebar.ID()]; ok {
		return nil, fmt.Errorf("%w: titlebar %s", ErrDuplicateWindow, titlebar.ID())
	}

	expanded := false
	if params := content.TypeParams(); len(params) >= 2 {
		expanded = params[1] != 0
	}
	if stored, ok := m.store.Get(content.Title()); ok {
		expanded = stored
	}
	slog.Debug("panels: adding panel",
		slog.String("content", content.ID().String()),
		slog.String("titlebar", titlebar.ID().String()),
		slog.Bool("expanded", expanded),
		slog.String("source", source.String()))

	p := newPanel(m, content, titlebar, expanded)
	p.SetTitlebarWidth(p.ContentWidth())

	for _, id := range p.InputWindowIDs() {
		m.panelInputs[id] = p
	}
	m.panelByContent[content.ID()] = p
	m.panelByTitlebar[titlebar.ID()] = p

	m.addPanelToContainer(p, m.bar, source)
	return p, nil
}

// RemovePanel tears a panel down after its content window goes away. An
// in-progress drag ends first so the drag machinery never references the
// dead panel.
func (m *PanelManager) RemovePanel(p *Panel) {
	if p == m.draggedPanel {
		m.handlePanelDragComplete(p, true)
	}
	if c := m.containerByPanel[p]; c != nil {
		delete(m.containerByPanel, p)
		c.RemovePanel(p)
	}
	if p == m.fullscreenPanel {
		m.fullscreenPanel = nil
	}

	if p.IsFocused() {
		m.fallbackFocus(m.conn.Now())
	}

	for _, id := range p.InputWindowIDs() {
		delete(m.panelInputs, id)
	}
	for id, rec := range m.transients {
		if rec.owner == p {
			delete(m.transients, id)
		}
	}
	delete(m.panelByTitlebar, p.Titlebar().ID())
	delete(m.panelByContent, p.ContentID())
	p.destroy()
}

// PanelByWindow looks a panel up by its content or titlebar window.
func (m *PanelManager) PanelByWindow(id wm.WindowID) *Panel {
	if p, ok := m.panelByContent[id]; ok {
		return p
	}
	return m.panelByTitlebar[id]
}

// NumPanels is the number of live panels.
func (m *PanelManager) NumPanels() int { return len(m.panelByContent) }

// ContainerOf returns the container currently holding p, or nil while p
// is detached mid-drag.
func (m *PanelManager) ContainerOf(p *Panel) Container {
	return m.containerByPanel[p]
}

// Bar returns the bottom panel bar.
func (m *PanelManager) Bar() *PanelBar { return m.bar }

// IsInputWindow reports whether id is one of the engine's own input
// windows, so the dispatcher can route its events here.
func (m *PanelManager) IsInputWindow(id wm.WindowID) bool {
	if _, ok := m.containerInputs[id]; ok {
		return true
	}
	_, ok := m.panelInputs[id]
	return ok
}

// AddTransientWindow attaches a dialog window to the panel owning owner.
// The owner may itself be another transient of the panel.
func (m *PanelManager) AddTransientWindow(win wm.Window, owner wm.WindowID) {
	if win == nil {
		panic("panels: AddTransientWindow needs a window")
	}
	p := m.PanelByWindow(owner)
	if p == nil {
		p = m.transients[owner].owner
	}
	if p == nil {
		slog.Warn("panels: ignoring transient window with no owning panel",
			slog.String("window", win.ID().String()),
			slog.String("owner", owner.String()))
		return
	}
	m.transients[win.ID()] = ownedTransient{win: win, owner: p}
	p.HandleTransientWindowMap(win)
}

// RemoveTransientWindow detaches a dialog window that went away.
func (m *PanelManager) RemoveTransientWindow(id wm.WindowID) {
	rec, ok := m.transients[id]
	if !ok {
		return
	}
	delete(m.transients, id)
	rec.owner.HandleTransientWindowUnmap(rec.win)
}

// HandleWindowConfigureRequest applies a size change requested by a
// window's owner. Only content windows and transients resize this way;
// a panel mid-resize keeps its drag geometry.
func (m *PanelManager) HandleWindowConfigureRequest(id wm.WindowID, size geometry.Size) {
	if rec, ok := m.transients[id]; ok {
		rec.owner.HandleTransientWindowConfigureRequest(rec.win, size)
		return
	}

	p := m.PanelByWindow(id)
	if p == nil {
		return
	}
	if id != p.ContentID() {
		slog.Warn("panels: ignoring configure request for non-content window",
			slog.String("window", id.String()), slog.String("panel", p.id()))
		return
	}
	c := m.containerByPanel[p]
	if c == nil {
		slog.Warn("panels: ignoring configure request for panel outside any container",
			slog.String("panel", p.id()))
		return
	}
	if p.IsBeingResized() {
		slog.Warn("panels: ignoring configure request during a manual resize",
			slog.String("panel", p.id()))
		return
	}
	if size != p.contentBounds.Size() {
		c.HandlePanelResizeRequest(p, size)
	}
}

// HandleButtonPress routes a press by window: container input windows,
// panel input windows, panel client windows, then transients.
func (m *PanelManager) HandleButtonPress(id wm.WindowID, pt, rootPt geometry.Point, button int, t time.Time) {
	if c, ok := m.containerInputs[id]; ok {
		c.HandleInputWindowButtonPress(id, pt, rootPt, button, t)
		return
	}
	if p, ok := m.panelInputs[id]; ok {
		p.HandleInputWindowButtonPress(id, pt, button, t)
		return
	}
	if p := m.PanelByWindow(id); p != nil {
		if c := m.containerByPanel[p]; c != nil {
			c.HandlePanelButtonPress(p, button, t)
		}
		return
	}
	if rec, ok := m.transients[id]; ok {
		rec.owner.HandleTransientWindowButtonPress(rec.win, button, t)
	}
}

// HandleButtonRelease routes a release. Only input windows care;
// containers never need releases on their panels' client windows.
func (m *PanelManager) HandleButtonRelease(id wm.WindowID, pt, rootPt geometry.Point, button int, t time.Time) {
	if c, ok := m.containerInputs[id]; ok {
		c.HandleInputWindowButtonRelease(id, pt, rootPt, button, t)
		return
	}
	if p, ok := m.panelInputs[id]; ok {
		p.HandleInputWindowButtonRelease(id, pt, button, t)
	}
}

// HandlePointerEnter routes a crossing into container input windows and
// panel titlebars.
func (m *PanelManager) HandlePointerEnter(id wm.WindowID, pt, rootPt geometry.Point, t time.Time) {
	if c, ok := m.containerInputs[id]; ok {
		c.HandleInputWindowPointerEnter(id, pt, rootPt, t)
		return
	}
	if p := m.PanelByWindow(id); p != nil && id == p.Titlebar().ID() {
		if c := m.containerByPanel[p]; c != nil {
			c.HandlePanelTitlebarPointerEnter(p, t)
		}
	}
}

// HandlePointerLeave routes a crossing out of a container input window.
func (m *PanelManager) HandlePointerLeave(id wm.WindowID, pt, rootPt geometry.Point, t time.Time) {
	if c, ok := m.containerInputs[id]; ok {
		c.HandleInputWindowPointerLeave(id, pt, rootPt, t)
	}
}

// HandlePointerMotion routes motion inside a panel's resize handles.
func (m *PanelManager) HandlePointerMotion(id wm.WindowID, pt geometry.Point) {
	if p, ok := m.panelInputs[id]; ok {
		p.HandleInputWindowPointerMotion(id, pt)
	}
}

// HandleSetPanelState expands or collapses a panel at its owner's
// request.
func (m *PanelManager) HandleSetPanelState(id wm.WindowID, expand bool) {
	p := m.PanelByWindow(id)
	if p == nil {
		slog.Warn("panels: ignoring state change for unknown window",
			slog.String("window", id.String()))
		return
	}
	if c := m.containerByPanel[p]; c != nil {
		c.HandleSetPanelState(p, expand)
	}
}

// HandleFocusPanel focuses a panel at its owner's request.
func (m *PanelManager) HandleFocusPanel(id wm.WindowID, t time.Time) {
	p := m.PanelByWindow(id)
	if p == nil {
		slog.Warn("panels: ignoring focus request for unknown window",
			slog.String("window", id.String()))
		return
	}
	if c := m.containerByPanel[p]; c != nil {
		c.HandleFocusPanel(p, t)
	}
}

// HandleNotifyPanelDragged feeds one drag position into the coalescer.
// pos is the content window's right edge and the titlebar's top. A drag
// message for a different panel first completes the current drag.
func (m *PanelManager) HandleNotifyPanelDragged(id wm.WindowID, pos geometry.Point) {
	p := m.PanelByWindow(id)
	if p == nil {
		slog.Warn("panels: ignoring drag for unknown window",
			slog.String("window", id.String()))
		return
	}
	if m.draggedPanel != nil && p != m.draggedPanel {
		m.handlePanelDragComplete(m.draggedPanel, false)
	}
	if p != m.draggedPanel {
		m.draggedPanel = p
		p.HandleDragStart()
	}
	if !m.dragCoalescer.IsRunning() {
		m.dragCoalescer.Start()
	}
	m.dragCoalescer.StorePosition(pos)
}

// HandleNotifyPanelDragComplete ends the drag of the named panel.
func (m *PanelManager) HandleNotifyPanelDragComplete(id wm.WindowID) {
	p := m.PanelByWindow(id)
	if p == nil {
		slog.Warn("panels: ignoring drag completion for unknown window",
			slog.String("window", id.String()))
		return
	}
	m.handlePanelDragComplete(p, false)
}

// handlePeriodicPanelDragMotion lays the dragged panel out at the newest
// coalesced position: the owning container places it, or releases it to
// us and we offer it around, or it free-moves with the pointer.
func (m *PanelManager) handlePeriodicPanelDragMotion() {
	p := m.draggedPanel
	if p == nil {
		slog.Warn("panels: drag motion fired with no dragged panel")
		return
	}
	pos := m.dragCoalescer.Position()

	handled := false
	detached := false
	if c := m.containerByPanel[p]; c != nil {
		if c.HandlePanelDragged(p, pos) {
			handled = true
		} else {
			slog.Debug("panels: container released dragged panel",
				slog.String("panel", p.id()), slog.String("pos", pos.String()))
			m.removePanelFromContainer(p, c)
			detached = true
		}
	}
	if handled {
		return
	}

	if detached {
		p.SetTitlebarWidth(p.ContentWidth())
		p.StackAtTopOfLayer(wm.LayerDraggedPanel)
	}

	for _, c := range m.containers {
		if c.ShouldAddDraggedPanel(p, pos) {
			slog.Debug("panels: container capturing dragged panel",
				slog.String("panel", p.id()), slog.String("pos", pos.String()))
			m.addPanelToContainer(p, c, SourceDragged)
			if !c.HandlePanelDragged(p, pos) {
				panic("panels: container captured a dragged panel and then refused the drag")
			}
			return
		}
	}

	anim := time.Duration(0)
	if detached {
		anim = detachAnim
	}
	p.Move(pos.X, pos.Y, anim)
}

// handlePanelDragComplete settles the drag: the owning container packs
// the panel, or a free panel falls back into the bar. removed means the
// panel is going away and must not be re-attached.
func (m *PanelManager) handlePanelDragComplete(p *Panel, removed bool) {
	if m.draggedPanel != p {
		return
	}
	p.HandleDragEnd()
	if m.dragCoalescer.IsRunning() {
		m.dragCoalescer.Stop()
	}
	m.draggedPanel = nil

	if removed {
		return
	}
	if c := m.containerByPanel[p]; c != nil {
		c.HandlePanelDragComplete(p)
	} else {
		slog.Debug("panels: attaching dropped panel to the bar",
			slog.String("panel", p.id()))
		m.addPanelToContainer(p, m.bar, SourceDropped)
	}
}

func (m *PanelManager) addPanelToContainer(p *Panel, c Container, source Source) {
	if _, ok := m.containerByPanel[p]; ok {
		panic("panels: panel " + p.id() + " is already in a container")
	}
	m.containerByPanel[p] = c
	c.AddPanel(p, source)
}

// removePanelFromContainer detaches p mid-drag. Free panels are always
// expanded, carry their own shadow, and cannot be resized.
func (m *PanelManager) removePanelFromContainer(p *Panel, c Container) {
	delete(m.containerByPanel, p)
	c.RemovePanel(p)
	p.SetResizable(false)
	p.SetShadowOpacity(1, detachAnim)
	if err := p.SetExpandedState(true); err != nil {
		slog.Warn("panels: expanding detached panel failed",
			slog.String("panel", p.id()), slog.Any("err", err))
	}
}

// HandlePanelResizeByUser tells the owning container a manual resize
// finished so it can re-pack around the new size.
func (m *PanelManager) HandlePanelResizeByUser(p *Panel) {
	if c := m.containerByPanel[p]; c != nil {
		c.HandlePanelResizeByUser(p)
	}
}

// HandlePanelFullscreenChange raises a panel over everything or puts it
// back. At most one panel is fullscreen at a time.
func (m *PanelManager) HandlePanelFullscreenChange(id wm.WindowID, fullscreen bool) {
	p := m.PanelByWindow(id)
	if p == nil {
		slog.Warn("panels: ignoring fullscreen change for unknown window",
			slog.String("window", id.String()))
		return
	}
	if fullscreen {
		m.makePanelFullscreen(p)
	} else {
		m.restoreFullscreenPanel(p)
	}
}

func (m *PanelManager) makePanelFullscreen(p *Panel) {
	if p.IsFullscreen() {
		slog.Warn("panels: ignoring request to fullscreen already-fullscreen panel",
			slog.String("panel", p.id()))
		return
	}
	if m.fullscreenPanel != nil {
		m.restoreFullscreenPanel(m.fullscreenPanel)
	}
	p.SetFullscreenState(true)
	m.fullscreenPanel = p
}

func (m *PanelManager) restoreFullscreenPanel(p *Panel) {
	if !p.IsFullscreen() {
		slog.Warn("panels: ignoring request to restore non-fullscreen panel",
			slog.String("panel", p.id()))
		return
	}
	p.SetFullscreenState(false)
	if m.fullscreenPanel == p {
		m.fullscreenPanel = nil
	}
}

// HandleFocusChange reacts to the focus moving anywhere on the screen: a
// fullscreen panel that loses the focus leaves fullscreen.
func (m *PanelManager) HandleFocusChange() {
	if m.fullscreenPanel != nil && !m.fullscreenPanel.IsFocused() {
		m.restoreFullscreenPanel(m.fullscreenPanel)
	}
}

// HandleWindowUrgencyChange re-reads a content window's urgency flag and
// lets the owning container react.
func (m *PanelManager) HandleWindowUrgencyChange(id wm.WindowID) {
	p := m.PanelByWindow(id)
	if p == nil || id != p.ContentID() {
		return
	}
	urgent := p.Content().IsUrgent()
	if urgent == p.IsUrgent() {
		return
	}
	p.SetUrgent(urgent)
	if c := m.containerByPanel[p]; c != nil {
		c.HandlePanelUrgencyChange(p)
	}
}

// HandleWindowSizeHintsChange re-reads a content window's size limits.
func (m *PanelManager) HandleWindowSizeHintsChange(id wm.WindowID) {
	p := m.PanelByWindow(id)
	if p == nil || id != p.ContentID() {
		return
	}
	p.HandleSizeHintsChange()
}

// HandleScreenResize re-lays every container and panel out against the
// new screen bounds.
func (m *PanelManager) HandleScreenResize() {
	for _, c := range m.containers {
		c.HandleScreenResize()
	}
	for _, p := range m.panelByContent {
		p.HandleScreenResize()
	}
}

// TakeFocus offers the focus to the containers, bar first. False means
// no panel wanted it.
func (m *PanelManager) TakeFocus(t time.Time) bool {
	for _, c := range m.containers {
		if c.TakeFocus(t) {
			return true
		}
	}
	return false
}

// fallbackFocus moves the focus off a dying or collapsing panel: any
// container that wants it, else the host's fallback.
func (m *PanelManager) fallbackFocus(t time.Time) {
	if m.TakeFocus(t) {
		return
	}
	if m.focusFallback != nil {
		m.focusFallback(t)
	}
}

// Area reports the horizontal screen space the docks reserve on each
// side. An empty dock reserves nothing.
func (m *PanelManager) Area() (leftWidth, rightWidth int) {
	if m.leftDock != nil && m.leftDock.IsVisible() {
		leftWidth = m.leftDock.Width()
	}
	if m.rightDock != nil && m.rightDock.IsVisible() {
		rightWidth = m.rightDock.Width()
	}
	return leftWidth, rightWidth
}

// HandleDockVisibilityChange fans a dock's visibility flip out to the
// area listeners.
func (m *PanelManager) HandleDockVisibilityChange(d *PanelDock) {
	for l := range m.areaListeners {
		l.HandlePanelAreaChange()
	}
}

// RegisterAreaChangeListener subscribes l to dock visibility changes.
func (m *PanelManager) RegisterAreaChangeListener(l AreaChangeListener) {
	if _, ok := m.areaListeners[l]; ok {
		slog.Warn("panels: area change listener registered twice")
		return
	}
	m.areaListeners[l] = struct{}{}
}

// UnregisterAreaChangeListener removes l.
func (m *PanelManager) UnregisterAreaChangeListener(l AreaChangeListener) {
	if _, ok := m.areaListeners[l]; !ok {
		slog.Warn("panels: removing unregistered area change listener")
		return
	}
	delete(m.areaListeners, l)
}

type nopStore struct{}

func (nopStore) Get(string) (bool, bool) { return false, false }
func (nopStore) Set(string, bool) error  { return nil }

type nopNotifier struct{}

func (nopNotifier) NotifyPanelState(wm.WindowID, bool) error { return nil }
