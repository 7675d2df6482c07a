package panelsd

import (
	"time"

	"github.com/regenrek/paneldeck/internal/geometry"
	"github.com/regenrek/paneldeck/internal/wm"
)

// offscreenRect is where parked input windows sit, matching the rect the
// engine creates them with.
var offscreenRect = geometry.NewRect(-1, -1, 1, 1)

// windowTable is the daemon's in-memory window system: just enough of
// wm.Conn to host the engine without a display. Everything here is
// loop-confined; the request bridge is the only way in.
type windowTable struct {
	screen   *wm.Screen
	nextID   wm.WindowID
	windows  map[wm.WindowID]*headlessWindow
	inputs   map[wm.WindowID]*inputRegion
	focused  wm.Window
	pointer  geometry.Point
	stackSeq int
}

func newWindowTable(width, height int) *windowTable {
	return &windowTable{
		screen:  &wm.Screen{Bounds: geometry.NewRect(0, 0, width, height)},
		nextID:  1,
		windows: make(map[wm.WindowID]*headlessWindow),
		inputs:  make(map[wm.WindowID]*inputRegion),
	}
}

// createWindow allocates a client window. The owner-requested size lands
// in both the initial bounds and the sticky ClientSize hint.
func (t *windowTable) createWindow(title string, size geometry.Size, params []int) *headlessWindow {
	id := t.nextID
	t.nextID++
	w := &headlessWindow{
		table:      t,
		id:         id,
		title:      title,
		bounds:     geometry.NewRect(0, 0, size.Width, size.Height),
		clientSize: size,
		typeParams: params,
		opacity:    1,
	}
	t.windows[id] = w
	return w
}

func (t *windowTable) destroyWindow(id wm.WindowID) {
	delete(t.windows, id)
	if t.focused != nil && t.focused.ID() == id {
		t.focused = nil
	}
}

// title returns the window's title, or "" for an unknown id.
func (t *windowTable) title(id wm.WindowID) string {
	if w, ok := t.windows[id]; ok {
		return w.title
	}
	return ""
}

type inputRegion struct {
	name  string
	rect  geometry.Rect
	layer wm.Layer
	below wm.WindowID
}

func (t *windowTable) CreateInputWindow(name string, r geometry.Rect) wm.WindowID {
	id := t.nextID
	t.nextID++
	t.inputs[id] = &inputRegion{name: name, rect: r}
	return id
}

func (t *windowTable) ConfigureInputWindow(id wm.WindowID, r geometry.Rect) {
	if in, ok := t.inputs[id]; ok {
		in.rect = r
	}
}

func (t *windowTable) MoveInputWindowOffscreen(id wm.WindowID) {
	if in, ok := t.inputs[id]; ok {
		in.rect = offscreenRect
	}
}

func (t *windowTable) StackInputWindowBelow(id, sibling wm.WindowID) {
	if in, ok := t.inputs[id]; ok {
		in.below = sibling
	}
}

func (t *windowTable) StackInputWindowAtTopOfLayer(id wm.WindowID, l wm.Layer) {
	if in, ok := t.inputs[id]; ok {
		in.layer = l
	}
}

func (t *windowTable) DestroyInputWindow(id wm.WindowID) {
	delete(t.inputs, id)
}

func (t *windowTable) CreateDecoration(name string, r geometry.Rect) wm.Decoration {
	return &headlessDecoration{table: t, name: name, bounds: r, opacity: 1, scaleX: 1, scaleY: 1}
}

// RemovePointerGrab is a no-op: no pointer is ever grabbed headlessly.
func (t *windowTable) RemovePointerGrab(replay bool) {}

func (t *windowTable) QueryPointer() geometry.Point { return t.pointer }

func (t *windowTable) Now() time.Time { return time.Now() }

func (t *windowTable) FocusWindow(w wm.Window, _ time.Time) { t.focused = w }
func (t *windowTable) FocusedWindow() wm.Window             { return t.focused }

func (t *windowTable) nextStackSeq() int {
	t.stackSeq++
	return t.stackSeq
}

// headlessWindow records the mutations the engine applies; animation
// durations collapse to immediate moves.
type headlessWindow struct {
	table *windowTable
	id    wm.WindowID
	title string

	bounds        geometry.Rect
	clientSize    geometry.Size
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

func (w *headlessWindow) ID() wm.WindowID { return w.id }
func (w *headlessWindow) Title() string   { return w.title }

func (w *headlessWindow) Move(p geometry.Point, anim time.Duration) {
	w.bounds.X, w.bounds.Y = p.X, p.Y
}

func (w *headlessWindow) MoveX(x int, anim time.Duration) { w.bounds.X = x }
func (w *headlessWindow) MoveY(y int, anim time.Duration) { w.bounds.Y = y }

func (w *headlessWindow) Resize(s geometry.Size, g geometry.Gravity) {
	w.bounds = w.bounds.Resize(s, g)
}

func (w *headlessWindow) SetOpacity(opacity float64, anim time.Duration) {
	w.opacity = opacity
}

func (w *headlessWindow) SetShadowOpacity(opacity float64, anim time.Duration) {
	w.shadowOpacity = opacity
}

func (w *headlessWindow) Show() { w.shown = true }
func (w *headlessWindow) Hide() { w.shown = false }

func (w *headlessWindow) StackAtTopOfLayer(l wm.Layer) {
	w.layer = l
	w.stackSeq = w.table.nextStackSeq()
}

func (w *headlessWindow) ClientSize() geometry.Size { return w.clientSize }

func (w *headlessWindow) SizeHints() (min, max geometry.Size, ok bool) {
	return w.minHint, w.maxHint, w.hasHints
}

func (w *headlessWindow) IsUrgent() bool    { return w.urgent }
func (w *headlessWindow) TypeParams() []int { return w.typeParams }

type headlessDecoration struct {
	table *windowTable
	name  string

	bounds   geometry.Rect
	shown    bool
	opacity  float64
	scaleX   float64
	scaleY   float64
	layer    wm.Layer
	stackSeq int
}

func (d *headlessDecoration) Bounds() geometry.Rect { return d.bounds }

func (d *headlessDecoration) Move(p geometry.Point, anim time.Duration) {
	d.bounds.X, d.bounds.Y = p.X, p.Y
}

func (d *headlessDecoration) MoveX(x int, anim time.Duration) { d.bounds.X = x }
func (d *headlessDecoration) MoveY(y int, anim time.Duration) { d.bounds.Y = y }

func (d *headlessDecoration) Resize(s geometry.Size) {
	d.bounds.Width, d.bounds.Height = s.Width, s.Height
}

func (d *headlessDecoration) Scale(sx, sy float64, anim time.Duration) {
	d.scaleX, d.scaleY = sx, sy
}

func (d *headlessDecoration) SetOpacity(opacity float64, anim time.Duration) {
	d.opacity = opacity
}

func (d *headlessDecoration) Show() { d.shown = true }
func (d *headlessDecoration) Hide() { d.shown = false }

func (d *headlessDecoration) StackAtTopOfLayer(l wm.Layer) {
	d.layer = l
	d.stackSeq = d.table.nextStackSeq()
}

func (d *headlessDecoration) Destroy() {}
