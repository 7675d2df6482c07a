package panels

import (
	"fmt"
	"testing"
	"time"

	"github.com/regenrek/paneldeck/internal/geometry"
	"github.com/regenrek/paneldeck/internal/wm"
)

// offscreenParking is where fake input windows sit while parked, matching
// the rect the engine creates them with.
var offscreenParking = geometry.NewRect(-1, -1, 1, 1)

type fakeScheduler struct {
	nextID   int
	timeouts map[int]func()
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{nextID: 1, timeouts: make(map[int]func())}
}

func (s *fakeScheduler) AddTimeout(fn func(), initial, recurring time.Duration) int {
	id := s.nextID
	s.nextID++
	s.timeouts[id] = fn
	return id
}

func (s *fakeScheduler) RemoveTimeout(id int) {
	delete(s.timeouts, id)
}

func (s *fakeScheduler) armed(id int) bool {
	_, ok := s.timeouts[id]
	return ok
}

// fire runs an armed timeout by hand; recurring timeouts stay armed.
func (s *fakeScheduler) fire(t *testing.T, id int) {
	t.Helper()
	fn, ok := s.timeouts[id]
	if !ok {
		t.Fatalf("timeout %d is not armed", id)
	}
	fn()
}

type fakeInputWindow struct {
	name      string
	rect      geometry.Rect
	layer     wm.Layer
	below     wm.WindowID
	destroyed bool
}

func (in *fakeInputWindow) isOffscreen() bool {
	return in.rect == offscreenParking
}

type fakeConn struct {
	nextInput   wm.WindowID
	inputs      map[wm.WindowID]*fakeInputWindow
	decorations []*fakeDecoration
	pointer     geometry.Point
	now         time.Time

	grabReleases int
	lastReplay   bool

	stackSeq int
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		nextInput: 0x1000,
		inputs:    make(map[wm.WindowID]*fakeInputWindow),
		now:       time.Unix(1234567890, 0),
	}
}

func (c *fakeConn) input(t *testing.T, id wm.WindowID) *fakeInputWindow {
	t.Helper()
	in, ok := c.inputs[id]
	if !ok {
		t.Fatalf("no input window %s", id)
	}
	return in
}

func (c *fakeConn) CreateInputWindow(name string, r geometry.Rect) wm.WindowID {
	id := c.nextInput
	c.nextInput++
	c.inputs[id] = &fakeInputWindow{name: name, rect: r}
	return id
}

func (c *fakeConn) ConfigureInputWindow(id wm.WindowID, r geometry.Rect) {
	c.inputs[id].rect = r
}

func (c *fakeConn) MoveInputWindowOffscreen(id wm.WindowID) {
	c.inputs[id].rect = offscreenParking
}

func (c *fakeConn) StackInputWindowBelow(id, sibling wm.WindowID) {
	c.inputs[id].below = sibling
}

func (c *fakeConn) StackInputWindowAtTopOfLayer(id wm.WindowID, l wm.Layer) {
	c.inputs[id].layer = l
}

func (c *fakeConn) DestroyInputWindow(id wm.WindowID) {
	c.inputs[id].destroyed = true
}

func (c *fakeConn) CreateDecoration(name string, r geometry.Rect) wm.Decoration {
	d := &fakeDecoration{conn: c, name: name, bounds: r, opacity: 1, scaleX: 1, scaleY: 1}
	c.decorations = append(c.decorations, d)
	return d
}

func (c *fakeConn) RemovePointerGrab(replay bool) {
	c.grabReleases++
	c.lastReplay = replay
}

func (c *fakeConn) QueryPointer() geometry.Point { return c.pointer }

func (c *fakeConn) Now() time.Time { return c.now }

func (c *fakeConn) nextStackSeq() int {
	c.stackSeq++
	return c.stackSeq
}

type fakeWindow struct {
	conn  *fakeConn
	id    wm.WindowID
	title string

	bounds        geometry.Rect
	shown         bool
	opacity       float64
	shadowOpacity float64
	layer         wm.Layer
	stackSeq      int

	urgent     bool
	typeParams []int

	minHint  geometry.Size
	maxHint  geometry.Size
	hasHints bool
}

func (w *fakeWindow) ID() wm.WindowID { return w.id }
func (w *fakeWindow) Title() string   { return w.title }

func (w *fakeWindow) Move(p geometry.Point, anim time.Duration) {
	w.bounds.X, w.bounds.Y = p.X, p.Y
}

func (w *fakeWindow) MoveX(x int, anim time.Duration) { w.bounds.X = x }
func (w *fakeWindow) MoveY(y int, anim time.Duration) { w.bounds.Y = y }

func (w *fakeWindow) Resize(s geometry.Size, g geometry.Gravity) {
	w.bounds = w.bounds.Resize(s, g)
}

func (w *fakeWindow) SetOpacity(opacity float64, anim time.Duration) {
	w.opacity = opacity
}

func (w *fakeWindow) SetShadowOpacity(opacity float64, anim time.Duration) {
	w.shadowOpacity = opacity
}

func (w *fakeWindow) Show() { w.shown = true }
func (w *fakeWindow) Hide() { w.shown = false }

func (w *fakeWindow) StackAtTopOfLayer(l wm.Layer) {
	w.layer = l
	w.stackSeq = w.conn.nextStackSeq()
}

func (w *fakeWindow) ClientSize() geometry.Size { return w.bounds.Size() }

func (w *fakeWindow) SizeHints() (min, max geometry.Size, ok bool) {
	return w.minHint, w.maxHint, w.hasHints
}

func (w *fakeWindow) IsUrgent() bool    { return w.urgent }
func (w *fakeWindow) TypeParams() []int { return w.typeParams }

type fakeDecoration struct {
	conn *fakeConn
	name string

	bounds    geometry.Rect
	shown     bool
	opacity   float64
	scaleX    float64
	scaleY    float64
	layer     wm.Layer
	stackSeq  int
	destroyed bool
}

func (d *fakeDecoration) Bounds() geometry.Rect { return d.bounds }

func (d *fakeDecoration) Move(p geometry.Point, anim time.Duration) {
	d.bounds.X, d.bounds.Y = p.X, p.Y
}

func (d *fakeDecoration) MoveX(x int, anim time.Duration) { d.bounds.X = x }
func (d *fakeDecoration) MoveY(y int, anim time.Duration) { d.bounds.Y = y }

func (d *fakeDecoration) Resize(s geometry.Size) {
	d.bounds.Width, d.bounds.Height = s.Width, s.Height
}

func (d *fakeDecoration) Scale(sx, sy float64, anim time.Duration) {
	d.scaleX, d.scaleY = sx, sy
}

func (d *fakeDecoration) SetOpacity(opacity float64, anim time.Duration) {
	d.opacity = opacity
}

func (d *fakeDecoration) Show() { d.shown = true }
func (d *fakeDecoration) Hide() { d.shown = false }

func (d *fakeDecoration) StackAtTopOfLayer(l wm.Layer) {
	d.layer = l
	d.stackSeq = d.conn.nextStackSeq()
}

func (d *fakeDecoration) Destroy() { d.destroyed = true }

type fakeFocus struct {
	focused wm.Window
}

func (f *fakeFocus) FocusWindow(w wm.Window, t time.Time) { f.focused = w }
func (f *fakeFocus) FocusedWindow() wm.Window             { return f.focused }

type fakeStore struct {
	data map[string]bool
	err  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]bool)}
}

func (s *fakeStore) Get(title string) (bool, bool) {
	v, ok := s.data[title]
	return v, ok
}

func (s *fakeStore) Set(title string, expanded bool) error {
	if s.err != nil {
		return s.err
	}
	s.data[title] = expanded
	return nil
}

type stateNote struct {
	content  wm.WindowID
	expanded bool
}

type fakeNotifier struct {
	notes []stateNote
	err   error
}

func (n *fakeNotifier) NotifyPanelState(content wm.WindowID, expanded bool) error {
	if n.err != nil {
		return n.err
	}
	n.notes = append(n.notes, stateNote{content: content, expanded: expanded})
	return nil
}

// testEnv wires a PanelManager to fakes. The drag coalescer runs
// synchronously so dragPanel lays the panel out before returning.
type testEnv struct {
	t      *testing.T
	conn   *fakeConn
	focus  *fakeFocus
	sched  *fakeScheduler
	store  *fakeStore
	notify *fakeNotifier
	screen *wm.Screen
	mgr    *PanelManager

	fallbackCalls int

	nextWindowID wm.WindowID
	panelCount   int

	// Knobs applied to the next createPanel call.
	newPanelsExpanded  bool
	newPanelsTakeFocus bool
	newPanelPolicy     ResizePolicy
	newPanelCreator    wm.WindowID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		t:                  t,
		conn:               newFakeConn(),
		focus:              &fakeFocus{},
		sched:              newFakeScheduler(),
		store:              newFakeStore(),
		notify:             &fakeNotifier{},
		screen:             &wm.Screen{Bounds: geometry.NewRect(0, 0, 1024, 768)},
		nextWindowID:       0x100,
		newPanelsExpanded:  true,
		newPanelsTakeFocus: true,
		newPanelPolicy:     ResizeBoth,
	}
	env.mgr = NewPanelManager(Config{
		Conn:   env.conn,
		Focus:  env.focus,
		Screen: env.screen,
		Sched:  env.sched,
		Store:  env.store,
		Notify: env.notify,
		FocusFallback: func(t time.Time) {
			env.fallbackCalls++
			env.focus.focused = nil
		},
	})
	env.mgr.dragCoalescer.SetSynchronous(true)
	return env
}

func (env *testEnv) newWindow(title string, r geometry.Rect) *fakeWindow {
	id := env.nextWindowID
	env.nextWindowID++
	return &fakeWindow{conn: env.conn, id: id, title: title, bounds: r}
}

// createPanel maps a titlebar/content pair sized like a panel owner would
// request and hands it to the manager.
func (env *testEnv) createPanel(width, titlebarHeight, contentHeight int) *Panel {
	env.t.Helper()
	env.panelCount++
	titlebar := env.newWindow(
		fmt.Sprintf("titlebar-%d", env.panelCount),
		geometry.NewRect(0, 0, width, titlebarHeight))
	content := env.newWindow(
		fmt.Sprintf("panel-%d", env.panelCount),
		geometry.NewRect(0, 0, width, contentHeight))
	content.typeParams = []int{
		int(titlebar.id),
		boolToInt(env.newPanelsExpanded),
		boolToInt(env.newPanelsTakeFocus),
		int(env.newPanelCreator),
		int(env.newPanelPolicy),
	}
	p, err := env.mgr.AddPanel(content, titlebar, SourceNew)
	if err != nil {
		env.t.Fatalf("AddPanel() error: %v", err)
	}
	return p
}

func (env *testEnv) dragPanel(p *Panel, x, y int) {
	env.mgr.HandleNotifyPanelDragged(p.ContentID(), geometry.Pt(x, y))
}

func (env *testEnv) completeDrag(p *Panel) {
	env.mgr.HandleNotifyPanelDragComplete(p.ContentID())
}

func (env *testEnv) pressHandle(id wm.WindowID, pt geometry.Point) {
	env.mgr.HandleButtonPress(id, pt, pt, 1, env.conn.Now())
}

func (env *testEnv) moveHandle(id wm.WindowID, pt geometry.Point) {
	env.mgr.HandlePointerMotion(id, pt)
}

func (env *testEnv) releaseHandle(id wm.WindowID, pt geometry.Point) {
	env.mgr.HandleButtonRelease(id, pt, pt, 1, env.conn.Now())
}

func contentWin(p *Panel) *fakeWindow  { return p.content.(*fakeWindow) }
func titlebarWin(p *Panel) *fakeWindow { return p.titlebar.(*fakeWindow) }

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func checkRect(t *testing.T, what string, got, want geometry.Rect) {
	t.Helper()
	if got != want {
		t.Fatalf("%s = %v, want %v", what, got, want)
	}
}
