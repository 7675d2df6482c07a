package sim

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"gopkg.in/yaml.v3"

	"github.com/regenrek/paneldeck/internal/geometry"
	"github.com/regenrek/paneldeck/internal/panelcfg"
	"github.com/regenrek/paneldeck/internal/panels"
	"github.com/regenrek/paneldeck/internal/scene"
	"github.com/regenrek/paneldeck/internal/wm"
)

// viewState selects which surface owns the keyboard.
type viewState int

const (
	stateBoard viewState = iota
	stateNewPanel
	stateJump
	statePicker
)

const (
	headerRows  = 1
	statusRows  = 1
	logPaneRows = 8

	// frameTick is the granularity engine timers are serviced at. It
	// matches the drag and resize coalescer periods, so one tick never
	// delays a coalesced layout pass by more than its own cadence.
	frameTick = 25 * time.Millisecond
)

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(frameTick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// sceneReloadMsg reports a changed scene file on disk.
type sceneReloadMsg struct {
	path string
}

// Model is the simulator: the panel engine wired to an in-memory board,
// rendered as a cell grid, and driven by synthesized pointer events.
// bubbletea's update goroutine is the engine's dispatch thread.
type Model struct {
	cfg     panelcfg.Config
	version string
	keys    simKeyMap
	pal     palette

	board *board
	sched *tickScheduler
	mgr   *panels.PanelManager

	panelsByTitle map[string]*panels.Panel
	titleOrder    []string

	scenePath string
	sceneDir  string
	sceneName string
	watch     *sceneWatcher

	width  int
	height int
	scaleX int
	scaleY int

	state     viewState
	status    string
	statusErr bool

	ring    *logRing
	logGen  uint64
	logView viewport.Model
	showLog bool

	form     *panelForm
	jump     jumpPrompt
	picker   list.Model
	hasScene bool

	hovered   wm.WindowID
	drag      dragState
	tickArmed bool
}

// NewModel builds the simulator around a validated scene. The board
// starts at the scene's screen size; the first WindowSizeMsg rescales it
// to the real terminal.
func NewModel(opts Options, scn *scene.Scene, scenePath string, ring *logRing, watch *sceneWatcher, dark bool) Model {
	m := Model{
		cfg:           opts.Config,
		version:       opts.Version,
		keys:          newSimKeyMap(),
		pal:           newPalette(dark),
		board:         newBoard(scn.Screen.Width, scn.Screen.Height),
		sched:         newTickScheduler(),
		panelsByTitle: make(map[string]*panels.Panel),
		scenePath:     scenePath,
		sceneDir:      opts.SceneDir,
		watch:         watch,
		scaleX:        opts.Config.Sim.ScaleX,
		scaleY:        opts.Config.Sim.ScaleY,
		ring:          ring,
		logView:       viewport.New(0, 0),
	}
	if m.scaleX <= 0 || m.scaleY <= 0 {
		def := panelcfg.Defaults()
		m.scaleX, m.scaleY = def.Sim.ScaleX, def.Sim.ScaleY
	}
	m.mgr = panels.NewPanelManager(panels.Config{
		Conn:         m.board,
		Focus:        m.board,
		Screen:       m.board.screen,
		Sched:        m.sched,
		DisableDocks: !opts.Config.Panels.Docks(),
		OpaqueResize: opts.Config.Panels.OpaqueResize,
		ShowDelay:    opts.Config.Panels.ShowDelay(),
		HideDelay:    opts.Config.Panels.HideDelay(),
	})
	m.applyScene(scn, scenePath)

	m.picker = newScenePicker()
	if m.sceneDir != "" && scenePath == "" {
		m.openPicker()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.watch != nil {
		return m.waitReloadCmd()
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.applyWindowSize(msg.Width, msg.Height)
	case tickMsg:
		m.tickArmed = false
		m.sched.Advance(time.Time(msg))
	case sceneReloadMsg:
		m.handleSceneReload(msg.path)
		cmds = append(cmds, m.waitReloadCmd())
	default:
		var cmd tea.Cmd
		switch m.state {
		case stateNewPanel:
			m, cmd = m.updateForm(msg)
		case stateJump:
			m, cmd = m.updateJump(msg)
		case statePicker:
			m, cmd = m.updatePicker(msg)
		default:
			m, cmd = m.updateBoard(msg)
		}
		cmds = append(cmds, cmd)
	}

	m.syncLogPane()
	if m.sched.Pending() && !m.tickArmed {
		m.tickArmed = true
		cmds = append(cmds, tickCmd())
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateBoard(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleBoardKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	}
	if m.showLog {
		var cmd tea.Cmd
		m.logView, cmd = m.logView.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleBoardKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.newPanel):
		return m.openNewPanelForm()
	case key.Matches(msg, m.keys.closePanel):
		m.closeFocusedPanel()
	case key.Matches(msg, m.keys.toggle):
		if p := m.focusedPanel(); p != nil {
			m.mgr.HandleSetPanelState(p.ContentID(), !p.IsExpanded())
		}
	case key.Matches(msg, m.keys.fullscreen):
		if p := m.focusedPanel(); p != nil {
			m.mgr.HandlePanelFullscreenChange(p.ContentID(), !p.IsFullscreen())
		}
	case key.Matches(msg, m.keys.urgent):
		m.toggleFocusedUrgency()
	case key.Matches(msg, m.keys.jump):
		return m.openJump()
	case key.Matches(msg, m.keys.copyScene):
		m.copySceneToClipboard()
	case key.Matches(msg, m.keys.log):
		m.showLog = !m.showLog
		m.logGen = 0
		m.applyWindowSize(m.width, m.height)
	case key.Matches(msg, m.keys.cycleFocus):
		m.focusNextPanel()
	case key.Matches(msg, m.keys.scenes):
		if m.sceneDir != "" {
			m.openPicker()
		}
	default:
		if m.showLog {
			var cmd tea.Cmd
			m.logView, cmd = m.logView.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// applyWindowSize rescales the simulated screen to the terminal and lets
// the engine re-lay everything out. Toggling the log pane reuses it,
// since the pane steals board rows.
func (m *Model) applyWindowSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	m.width, m.height = width, height
	cols, rows := m.boardCols(), m.boardRows()
	m.board.screen.Bounds = geometry.NewRect(0, 0, cols*m.scaleX, rows*m.scaleY)
	m.mgr.HandleScreenResize()

	m.picker.SetSize(width, max(height-headerRows, 1))
	m.logView.Width = width
	m.logView.Height = logPaneRows - 1
	m.logGen = 0
	m.syncLogPane()
}

func (m *Model) boardCols() int { return max(m.width, 1) }

func (m *Model) boardRows() int {
	rows := m.height - headerRows - statusRows
	if m.showLog {
		rows -= logPaneRows
	}
	return max(rows, 3)
}

func (m *Model) syncLogPane() {
	if !m.showLog || m.ring == nil {
		return
	}
	gen := m.ring.Gen()
	if gen == m.logGen {
		return
	}
	m.logGen = gen
	m.logView.SetContent(strings.Join(m.ring.Lines(), "\n"))
	m.logView.GotoBottom()
}

func (m *Model) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

// addSpec carries one panel request, shaped like a scene entry.
type addSpec struct {
	title          string
	width          int
	titlebarHeight int
	contentHeight  int
	expanded       bool
	focus          bool
	urgent         bool
	creator        string
}

// addPanel creates the titlebar/content window pair and hands it to the
// engine.
func (m *Model) addPanel(spec addSpec) (*panels.Panel, error) {
	title := strings.TrimSpace(spec.title)
	if title == "" {
		return nil, errors.New("sim: panel title is required")
	}
	if _, ok := m.panelsByTitle[title]; ok {
		return nil, fmt.Errorf("sim: panel %q already exists", title)
	}
	if spec.width <= 0 || spec.titlebarHeight <= 0 || spec.contentHeight <= 0 {
		return nil, fmt.Errorf("sim: panel %q has a non-positive size", title)
	}
	creator := wm.None
	if spec.creator != "" {
		cp, ok := m.panelsByTitle[spec.creator]
		if !ok {
			return nil, fmt.Errorf("sim: creator %q does not exist", spec.creator)
		}
		creator = cp.ContentID()
	}

	titlebar := m.board.createWindow(title+" titlebar", kindTitlebar,
		geometry.Sz(spec.width, spec.titlebarHeight), nil)
	content := m.board.createWindow(title, kindContent,
		geometry.Sz(spec.width, spec.contentHeight), []int{
			int(titlebar.id),
			boolToInt(spec.expanded),
			boolToInt(spec.focus),
			int(creator),
			int(panels.ResizeBoth),
		})

	p, err := m.mgr.AddPanel(content, titlebar, panels.SourceNew)
	if err != nil {
		m.board.destroyWindow(content.id)
		m.board.destroyWindow(titlebar.id)
		return nil, err
	}
	if spec.urgent {
		content.urgent = true
		m.mgr.HandleWindowUrgencyChange(content.id)
	}

	m.panelsByTitle[title] = p
	m.titleOrder = append(m.titleOrder, title)
	return p, nil
}

// closePanel removes a panel and its windows.
func (m *Model) closePanel(title string) error {
	p, ok := m.panelsByTitle[title]
	if !ok {
		return fmt.Errorf("sim: unknown panel %q", title)
	}
	contentID := p.ContentID()
	titlebarID := p.Titlebar().ID()
	m.mgr.RemovePanel(p)
	m.board.destroyWindow(contentID)
	m.board.destroyWindow(titlebarID)

	delete(m.panelsByTitle, title)
	for i, t := range m.titleOrder {
		if t == title {
			m.titleOrder = append(m.titleOrder[:i], m.titleOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Model) closeFocusedPanel() {
	p := m.focusedPanel()
	if p == nil {
		m.setStatus("no focused panel to close")
		return
	}
	title := p.Title()
	if err := m.closePanel(title); err != nil {
		m.setError(err)
		return
	}
	m.setStatus("closed %q", title)
}

// applyScene replaces the current panel population with the scene's. A
// rejected panel is logged and skipped; the rest still applies.
func (m *Model) applyScene(scn *scene.Scene, path string) {
	for _, title := range append([]string{}, m.titleOrder...) {
		if err := m.closePanel(title); err != nil {
			slog.Warn("sim: closing panel during scene swap failed",
				slog.String("title", title), slog.Any("err", err))
		}
	}
	for _, sp := range scn.Panels {
		_, err := m.addPanel(addSpec{
			title:          sp.Title,
			width:          sp.Width,
			titlebarHeight: sp.TitlebarHeight,
			contentHeight:  sp.ContentHeight,
			expanded:       sp.Expanded,
			focus:          sp.Focus,
			urgent:         sp.Urgent,
			creator:        sp.Creator,
		})
		if err != nil {
			slog.Error("sim: scene panel rejected",
				slog.String("title", sp.Title), slog.Any("err", err))
		}
	}
	m.scenePath = path
	m.sceneName = sceneDisplayName(path)
	m.hasScene = true
	slog.Info("sim: scene applied",
		slog.String("scene", m.sceneName),
		slog.Int("panels", m.mgr.NumPanels()))
}

func (m *Model) handleSceneReload(path string) {
	if path != m.scenePath || path == "" {
		return
	}
	scn, err := scene.LoadFile(path)
	if err != nil {
		m.setError(err)
		return
	}
	if err := scn.CheckAppVersion(m.version); err != nil {
		m.setError(err)
		return
	}
	m.applyScene(scn, path)
	m.setStatus("scene %s reloaded", m.sceneName)
}

func (m *Model) focusedPanel() *panels.Panel {
	for _, title := range m.titleOrder {
		if p := m.panelsByTitle[title]; p != nil && p.IsFocused() {
			return p
		}
	}
	return nil
}

func (m *Model) focusNextPanel() {
	if len(m.titleOrder) == 0 {
		return
	}
	next := 0
	if p := m.focusedPanel(); p != nil {
		for i, title := range m.titleOrder {
			if m.panelsByTitle[title] == p {
				next = (i + 1) % len(m.titleOrder)
				break
			}
		}
	}
	target := m.panelsByTitle[m.titleOrder[next]]
	m.mgr.HandleFocusPanel(target.ContentID(), m.board.Now())
}

func (m *Model) focusPanelByTitle(title string) {
	p, ok := m.panelsByTitle[title]
	if !ok {
		return
	}
	m.mgr.HandleFocusPanel(p.ContentID(), m.board.Now())
}

// toggleFocusedUrgency flips the urgency hint the way a panel's owner
// would, then tells the engine.
func (m *Model) toggleFocusedUrgency() {
	p := m.focusedPanel()
	if p == nil {
		m.setStatus("no focused panel")
		return
	}
	w, ok := p.Content().(*simWindow)
	if !ok {
		return
	}
	w.urgent = !w.urgent
	m.mgr.HandleWindowUrgencyChange(w.id)
	m.setStatus("%q urgent=%v", p.Title(), w.urgent)
}

// copySceneToClipboard serializes the live layout as a scene document.
func (m *Model) copySceneToClipboard() {
	out := scene.Scene{
		Version: 1,
		Screen: scene.Screen{
			Width:  m.board.screen.Width(),
			Height: m.board.screen.Height(),
		},
	}
	for _, title := range m.titleOrder {
		p := m.panelsByTitle[title]
		out.Panels = append(out.Panels, scene.Panel{
			Title:          title,
			Width:          p.ContentWidth(),
			TitlebarHeight: p.TitlebarHeight(),
			ContentHeight:  p.ContentHeight(),
			Expanded:       p.IsExpanded(),
			Focus:          p.IsFocused(),
			Urgent:         p.IsUrgent(),
		})
	}
	data, err := yaml.Marshal(&out)
	if err != nil {
		m.setError(err)
		return
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		m.setError(fmt.Errorf("sim: copy scene: %w", err))
		return
	}
	m.setStatus("scene copied (%d panels)", len(out.Panels))
}

func (m *Model) waitReloadCmd() tea.Cmd {
	w := m.watch
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		path, ok := <-w.Changes()
		if !ok {
			return nil
		}
		return sceneReloadMsg{path: path}
	}
}

func sceneDisplayName(path string) string {
	if path == "" {
		return "demo (embedded)"
	}
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
