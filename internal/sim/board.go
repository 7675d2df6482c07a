package sim

import (
	"sort"
	"time"

	"github.com/regenrek/paneldeck/internal/geometry"
	"github.com/regenrek/paneldeck/internal/wm"
)

// offscreenRect is where parked input windows sit, matching the rect the
// engine creates them with.
var offscreenRect = geometry.NewRect(-1, -1, 1, 1)

// windowKind tells the renderer how to paint a client window.
type windowKind int

const (
	kindContent windowKind = iota
	kindTitlebar
)

// board is the simulator's window system: the same in-memory table the
// daemon hosts the engine on, plus the two things a visible screen needs
// that a headless one does not: stacking-aware hit tests for the pointer
// and a bottom-to-top paint list for the renderer.
type board struct {
	screen   *wm.Screen
	nextID   wm.WindowID
	windows  map[wm.WindowID]*simWindow
	inputs   map[wm.WindowID]*inputRegion
	decos    map[wm.WindowID]*simDecoration
	focused  wm.Window
	pointer  geometry.Point
	stackSeq int
}

func newBoard(width, height int) *board {
	return &board{
		screen:  &wm.Screen{Bounds: geometry.NewRect(0, 0, width, height)},
		nextID:  1,
		windows: make(map[wm.WindowID]*simWindow),
		inputs:  make(map[wm.WindowID]*inputRegion),
		decos:   make(map[wm.WindowID]*simDecoration),
	}
}

// createWindow allocates a client window. The owner-requested size lands
// in both the initial bounds and the sticky ClientSize hint.
func (b *board) createWindow(title string, kind windowKind, size geometry.Size, params []int) *simWindow {
	id := b.nextID
	b.nextID++
	w := &simWindow{
		board:      b,
		id:         id,
		title:      title,
		kind:       kind,
		bounds:     geometry.NewRect(0, 0, size.Width, size.Height),
		clientSize: size,
		typeParams: params,
		opacity:    1,
	}
	b.windows[id] = w
	return w
}

func (b *board) destroyWindow(id wm.WindowID) {
	delete(b.windows, id)
	if b.focused != nil && b.focused.ID() == id {
		b.focused = nil
	}
}

type inputRegion struct {
	name  string
	rect  geometry.Rect
	layer wm.Layer
	seq   int
	below wm.WindowID
}

func (b *board) CreateInputWindow(name string, r geometry.Rect) wm.WindowID {
	id := b.nextID
	b.nextID++
	b.inputs[id] = &inputRegion{name: name, rect: r}
	return id
}

func (b *board) ConfigureInputWindow(id wm.WindowID, r geometry.Rect) {
	if in, ok := b.inputs[id]; ok {
		in.rect = r
	}
}

func (b *board) MoveInputWindowOffscreen(id wm.WindowID) {
	if in, ok := b.inputs[id]; ok {
		in.rect = offscreenRect
	}
}

func (b *board) StackInputWindowBelow(id, sibling wm.WindowID) {
	if in, ok := b.inputs[id]; ok {
		in.below = sibling
	}
}

func (b *board) StackInputWindowAtTopOfLayer(id wm.WindowID, l wm.Layer) {
	if in, ok := b.inputs[id]; ok {
		in.layer = l
		in.seq = b.nextStackSeq()
		in.below = wm.None
	}
}

func (b *board) DestroyInputWindow(id wm.WindowID) {
	delete(b.inputs, id)
}

func (b *board) CreateDecoration(name string, r geometry.Rect) wm.Decoration {
	id := b.nextID
	b.nextID++
	d := &simDecoration{board: b, id: id, name: name, bounds: r, opacity: 1, scaleX: 1, scaleY: 1}
	b.decos[id] = d
	return d
}

// RemovePointerGrab is a no-op: the simulator's grab is the drag state in
// the model, which already routes held-button motion to the press target.
func (b *board) RemovePointerGrab(replay bool) {}

func (b *board) QueryPointer() geometry.Point { return b.pointer }

func (b *board) Now() time.Time { return time.Now() }

func (b *board) FocusWindow(w wm.Window, _ time.Time) { b.focused = w }
func (b *board) FocusedWindow() wm.Window             { return b.focused }

func (b *board) nextStackSeq() int {
	b.stackSeq++
	return b.stackSeq
}

// stackKey orders windows and input regions for hit testing. Lower layer
// values are nearer the top of the stack; within a layer a later restack
// wins. An input slotted below a sibling window inherits the sibling's
// slot with the sub flag set, so the sibling is always found first.
type stackKey struct {
	layer wm.Layer
	seq   int
	sub   int
}

func (k stackKey) above(o stackKey) bool {
	if k.layer != o.layer {
		return k.layer < o.layer
	}
	if k.seq != o.seq {
		return k.seq > o.seq
	}
	return k.sub < o.sub
}

func (b *board) inputKey(in *inputRegion) stackKey {
	if in.below != wm.None {
		if sib, ok := b.windows[in.below]; ok {
			return stackKey{layer: sib.layer, seq: sib.stackSeq, sub: 1}
		}
	}
	return stackKey{layer: in.layer, seq: in.seq}
}

// hitTarget is what the pointer found under a cell.
type hitTarget struct {
	id    wm.WindowID
	rect  geometry.Rect
	input bool
	key   stackKey
}

// hitTest finds the topmost window or input region intersecting the given
// screen-pixel rect. Testing a whole cell rect instead of a point keeps
// sub-cell targets such as the bar's one-pixel show strip reachable.
func (b *board) hitTest(r geometry.Rect) (hitTarget, bool) {
	var best hitTarget
	found := false
	consider := func(t hitTarget) {
		if t.rect.IsEmpty() || !t.rect.Intersects(r) {
			return
		}
		if !found || t.key.above(best.key) {
			best = t
			found = true
		}
	}
	for id, w := range b.windows {
		if !w.shown {
			continue
		}
		consider(hitTarget{
			id:   id,
			rect: w.bounds,
			key:  stackKey{layer: w.layer, seq: w.stackSeq},
		})
	}
	for id, in := range b.inputs {
		consider(hitTarget{
			id:    id,
			rect:  in.rect,
			input: true,
			key:   b.inputKey(in),
		})
	}
	return best, found
}

// drawItem is one paintable entity, already in bottom-to-top order when
// returned by drawList.
type drawItem struct {
	bounds  geometry.Rect
	key     stackKey
	kind    windowKind
	deco    bool
	name    string
	title   string
	focused bool
	urgent  bool
	opacity float64
}

// drawList returns the shown windows and decorations sorted for the
// painter: background layers first, top layers last.
func (b *board) drawList() []drawItem {
	// Focus lands on content windows; light up the paired titlebar too.
	var focusedTitlebar wm.WindowID
	if fw, ok := b.focused.(*simWindow); ok && fw.kind == kindContent && len(fw.typeParams) > 0 {
		focusedTitlebar = wm.WindowID(fw.typeParams[0])
	}

	var items []drawItem
	for _, w := range b.windows {
		if !w.shown || w.opacity <= 0 {
			continue
		}
		items = append(items, drawItem{
			bounds:  w.bounds,
			key:     stackKey{layer: w.layer, seq: w.stackSeq},
			kind:    w.kind,
			title:   w.title,
			focused: b.focused == w || w.id == focusedTitlebar,
			urgent:  w.urgent,
			opacity: w.opacity,
		})
	}
	for _, d := range b.decos {
		if !d.shown || d.opacity <= 0 {
			continue
		}
		items = append(items, drawItem{
			bounds:  d.bounds,
			key:     stackKey{layer: d.layer, seq: d.stackSeq},
			deco:    true,
			name:    d.name,
			opacity: d.opacity,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[j].key.above(items[i].key)
	})
	return items
}

// simWindow records the mutations the engine applies; animation durations
// collapse to immediate moves, as they do in the daemon's table.
type simWindow struct {
	board *board
	id    wm.WindowID
	title string
	kind  windowKind

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

func (w *simWindow) ID() wm.WindowID { return w.id }
func (w *simWindow) Title() string   { return w.title }

func (w *simWindow) Move(p geometry.Point, anim time.Duration) {
	w.bounds.X, w.bounds.Y = p.X, p.Y
}

func (w *simWindow) MoveX(x int, anim time.Duration) { w.bounds.X = x }
func (w *simWindow) MoveY(y int, anim time.Duration) { w.bounds.Y = y }

func (w *simWindow) Resize(s geometry.Size, g geometry.Gravity) {
	w.bounds = w.bounds.Resize(s, g)
}

func (w *simWindow) SetOpacity(opacity float64, anim time.Duration) {
	w.opacity = opacity
}

func (w *simWindow) SetShadowOpacity(opacity float64, anim time.Duration) {
	w.shadowOpacity = opacity
}

func (w *simWindow) Show() { w.shown = true }
func (w *simWindow) Hide() { w.shown = false }

func (w *simWindow) StackAtTopOfLayer(l wm.Layer) {
	w.layer = l
	w.stackSeq = w.board.nextStackSeq()
}

func (w *simWindow) ClientSize() geometry.Size { return w.clientSize }

func (w *simWindow) SizeHints() (min, max geometry.Size, ok bool) {
	return w.minHint, w.maxHint, w.hasHints
}

func (w *simWindow) IsUrgent() bool    { return w.urgent }
func (w *simWindow) TypeParams() []int { return w.typeParams }

type simDecoration struct {
	board *board
	id    wm.WindowID
	name  string

	bounds   geometry.Rect
	shown    bool
	opacity  float64
	scaleX   float64
	scaleY   float64
	layer    wm.Layer
	stackSeq int
}

func (d *simDecoration) Bounds() geometry.Rect { return d.bounds }

func (d *simDecoration) Move(p geometry.Point, anim time.Duration) {
	d.bounds.X, d.bounds.Y = p.X, p.Y
}

func (d *simDecoration) MoveX(x int, anim time.Duration) { d.bounds.X = x }
func (d *simDecoration) MoveY(y int, anim time.Duration) { d.bounds.Y = y }

func (d *simDecoration) Resize(s geometry.Size) {
	d.bounds.Width, d.bounds.Height = s.Width, s.Height
}

func (d *simDecoration) Scale(sx, sy float64, anim time.Duration) {
	d.scaleX, d.scaleY = sx, sy
}

func (d *simDecoration) SetOpacity(opacity float64, anim time.Duration) {
	d.opacity = opacity
}

func (d *simDecoration) Show() { d.shown = true }
func (d *simDecoration) Hide() { d.shown = false }

func (d *simDecoration) StackAtTopOfLayer(l wm.Layer) {
	d.layer = l
	d.stackSeq = d.board.nextStackSeq()
}

func (d *simDecoration) Destroy() {
	delete(d.board.decos, d.id)
}
