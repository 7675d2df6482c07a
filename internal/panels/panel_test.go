package panels

import (
	"testing"

	"github.com/regenrek/paneldeck/internal/geometry"
	"github.com/regenrek/paneldeck/internal/wm"
)

func TestPanelInputWindowLayout(t *testing.T) {
	env := newTestEnv(t)
	p := env.createPanel(200, 20, 400)

	// The panel packs at the right edge of the bar: right edge at 1000,
	// titlebar top at 768-420=348.
	if got := p.Right(); got != 1000 {
		t.Fatalf("Right() = %d, want 1000", got)
	}
	if got := p.TitlebarY(); got != 348 {
		t.Fatalf("TitlebarY() = %d, want 348", got)
	}

	checkRect(t, "top handle", env.conn.input(t, p.topInput).rect,
		geometry.NewRect(817, 345, 166, 3))
	checkRect(t, "top-left handle", env.conn.input(t, p.topLeftInput).rect,
		geometry.NewRect(797, 345, 20, 20))
	checkRect(t, "top-right handle", env.conn.input(t, p.topRightInput).rect,
		geometry.NewRect(983, 345, 20, 20))
	checkRect(t, "left handle", env.conn.input(t, p.leftInput).rect,
		geometry.NewRect(797, 365, 3, 403))
	checkRect(t, "right handle", env.conn.input(t, p.rightInput).rect,
		geometry.NewRect(1000, 365, 3, 403))

	// Disabling resize parks every handle; re-enabling restores them.
	p.SetResizable(false)
	for _, id := range p.InputWindowIDs() {
		if !env.conn.input(t, id).isOffscreen() {
			t.Fatalf("handle %s onscreen while resize disabled", id)
		}
	}
	p.SetResizable(true)
	checkRect(t, "top handle after re-enable", env.conn.input(t, p.topInput).rect,
		geometry.NewRect(817, 345, 166, 3))
}

func TestPanelInputWindowLayoutByPolicy(t *testing.T) {
	env := newTestEnv(t)

	env.newPanelPolicy = ResizeVertical
	p := env.createPanel(200, 20, 400)
	checkRect(t, "top handle", env.conn.input(t, p.topInput).rect,
		geometry.NewRect(800, 345, 200, 3))
	for _, id := range []wm.WindowID{p.topLeftInput, p.topRightInput, p.leftInput, p.rightInput} {
		if !env.conn.input(t, id).isOffscreen() {
			t.Fatalf("handle %s onscreen for vertical-only panel", id)
		}
	}

	env.newPanelPolicy = ResizeHorizontal
	p = env.createPanel(200, 20, 400)
	// Second panel packs to the left of the first: right edge at 794.
	checkRect(t, "left handle", env.conn.input(t, p.leftInput).rect,
		geometry.NewRect(591, 348, 3, 420))
	checkRect(t, "right handle", env.conn.input(t, p.rightInput).rect,
		geometry.NewRect(794, 348, 3, 420))
	for _, id := range []wm.WindowID{p.topInput, p.topLeftInput, p.topRightInput} {
		if !env.conn.input(t, id).isOffscreen() {
			t.Fatalf("handle %s onscreen for horizontal-only panel", id)
		}
	}

	env.newPanelPolicy = ResizeNone
	p = env.createPanel(200, 20, 400)
	for _, id := range p.InputWindowIDs() {
		if !env.conn.input(t, id).isOffscreen() {
			t.Fatalf("handle %s onscreen for non-resizable panel", id)
		}
	}
}

func TestPanelResizeDrag(t *testing.T) {
	env := newTestEnv(t)
	p := env.createPanel(200, 20, 400)

	env.pressHandle(p.topLeftInput, geometry.Pt(0, 0))
	if !p.IsBeingResized() {
		t.Fatalf("IsBeingResized() = false after press")
	}
	if p.resizeBox == nil {
		t.Fatalf("no resize box after press")
	}
	box := p.resizeBox.(*fakeDecoration)
	checkRect(t, "resize box", box.bounds, geometry.NewRect(800, 348, 200, 420))
	if box.opacity != resizeBoxOpacity {
		t.Fatalf("resize box opacity = %v, want %v", box.opacity, resizeBoxOpacity)
	}
	if box.layer != wm.LayerDraggedPanel {
		t.Fatalf("resize box layer = %v, want %v", box.layer, wm.LayerDraggedPanel)
	}
	if !box.shown {
		t.Fatalf("resize box not shown")
	}

	// Presses with other buttons or on other handles don't disturb the
	// drag in progress.
	env.mgr.HandleButtonPress(p.rightInput, geometry.Pt(0, 0), geometry.Pt(0, 0), 3, env.conn.Now())
	env.pressHandle(p.rightInput, geometry.Pt(0, 0))
	if p.resizeDragID != p.topLeftInput {
		t.Fatalf("resize drag moved to %s", p.resizeDragID)
	}

	// Motion is coalesced; the box only moves when the timer fires.
	env.moveHandle(p.topLeftInput, geometry.Pt(-2, -4))
	checkRect(t, "resize box before tick", box.bounds, geometry.NewRect(800, 348, 200, 420))
	env.sched.fire(t, p.resizeCoalescer.timeoutID)
	checkRect(t, "resize box after tick", box.bounds, geometry.NewRect(798, 344, 202, 424))

	// The panel itself has not been touched yet.
	if got := p.ContentWidth(); got != 200 {
		t.Fatalf("ContentWidth() = %d mid-drag, want 200", got)
	}

	env.releaseHandle(p.topLeftInput, geometry.Pt(-5, -6))
	if p.IsBeingResized() {
		t.Fatalf("IsBeingResized() = true after release")
	}
	if env.conn.grabReleases != 1 || env.conn.lastReplay {
		t.Fatalf("grab releases = %d (replay %v), want 1 (replay false)",
			env.conn.grabReleases, env.conn.lastReplay)
	}
	if !box.destroyed {
		t.Fatalf("resize box not destroyed after release")
	}
	checkRect(t, "content", contentWin(p).bounds, geometry.NewRect(795, 362, 205, 406))
	checkRect(t, "titlebar", titlebarWin(p).bounds, geometry.NewRect(795, 342, 205, 20))
	if got := p.Right(); got != 1000 {
		t.Fatalf("Right() = %d after top-left resize, want 1000", got)
	}
}

func TestPanelResizeSizeLimits(t *testing.T) {
	env := newTestEnv(t)
	titlebar := env.newWindow("titlebar-limits", geometry.NewRect(0, 0, 20, 20))
	content := env.newWindow("panel-limits", geometry.NewRect(0, 0, 20, 20))
	content.minHint = geometry.Sz(150, 100)
	content.maxHint = geometry.Sz(300, 250)
	content.hasHints = true
	content.typeParams = []int{int(titlebar.id), 1, 1, 0, int(ResizeBoth)}
	p, err := env.mgr.AddPanel(content, titlebar, SourceNew)
	if err != nil {
		t.Fatalf("AddPanel() error: %v", err)
	}

	// The requested 20x20 content is grown to the minimum at creation.
	if p.ContentWidth() != 150 || p.ContentHeight() != 100 {
		t.Fatalf("content = %dx%d at creation, want 150x100",
			p.ContentWidth(), p.ContentHeight())
	}

	// Shrinking below the minimum leaves the panel at the minimum.
	env.pressHandle(p.topLeftInput, geometry.Pt(0, 0))
	env.releaseHandle(p.topLeftInput, geometry.Pt(5, 5))
	if p.ContentWidth() != 150 || p.ContentHeight() != 100 {
		t.Fatalf("content = %dx%d after shrink below min, want 150x100",
			p.ContentWidth(), p.ContentHeight())
	}

	// Growing past the maximum stops at the maximum.
	env.pressHandle(p.topLeftInput, geometry.Pt(0, 0))
	env.releaseHandle(p.topLeftInput, geometry.Pt(-300, -300))
	if p.ContentWidth() != 300 || p.ContentHeight() != 250 {
		t.Fatalf("content = %dx%d after grow past max, want 300x250",
			p.ContentWidth(), p.ContentHeight())
	}
	if got := p.Right(); got != 1000 {
		t.Fatalf("Right() = %d after capped resize, want 1000", got)
	}

	// Configure requests are clamped the same way.
	env.mgr.HandleWindowConfigureRequest(p.ContentID(), geometry.Sz(500, 500))
	if p.ContentWidth() != 300 || p.ContentHeight() != 250 {
		t.Fatalf("content = %dx%d after oversized request, want 300x250",
			p.ContentWidth(), p.ContentHeight())
	}
	env.mgr.HandleWindowConfigureRequest(p.ContentID(), geometry.Sz(50, 50))
	if p.ContentWidth() != 150 || p.ContentHeight() != 100 {
		t.Fatalf("content = %dx%d after undersized request, want 150x100",
			p.ContentWidth(), p.ContentHeight())
	}
}

func TestPanelSizeHintsReload(t *testing.T) {
	env := newTestEnv(t)
	p := env.createPanel(200, 20, 400)

	// New hints don't resize the panel by themselves.
	contentWin(p).minHint = geometry.Sz(300, 250)
	contentWin(p).hasHints = true
	env.mgr.HandleWindowSizeHintsChange(p.ContentID())
	if p.ContentWidth() != 200 || p.ContentHeight() != 400 {
		t.Fatalf("content = %dx%d after hints change, want 200x400",
			p.ContentWidth(), p.ContentHeight())
	}

	// The next configure request is clamped against them.
	env.mgr.HandleWindowConfigureRequest(p.ContentID(), geometry.Sz(230, 220))
	if p.ContentWidth() != 300 || p.ContentHeight() != 250 {
		t.Fatalf("content = %dx%d after clamped request, want 300x250",
			p.ContentWidth(), p.ContentHeight())
	}
}

func TestPanelSeparator(t *testing.T) {
	env := newTestEnv(t)
	p := env.createPanel(200, 20, 400)
	sep := p.separator.(*fakeDecoration)

	if !sep.shown {
		t.Fatalf("separator not shown after packing")
	}
	checkRect(t, "separator", sep.bounds, geometry.NewRect(800, 368, 200, 0))

	// Stacked between content and titlebar, in the panel's layer.
	c, tb := contentWin(p), titlebarWin(p)
	if !(c.stackSeq < sep.stackSeq && sep.stackSeq < tb.stackSeq) {
		t.Fatalf("stacking order content=%d separator=%d titlebar=%d, want ascending",
			c.stackSeq, sep.stackSeq, tb.stackSeq)
	}
	if sep.layer != wm.LayerPackedPanelInBar {
		t.Fatalf("separator layer = %v, want %v", sep.layer, wm.LayerPackedPanelInBar)
	}

	// The separator follows the content across resizes.
	env.mgr.HandleWindowConfigureRequest(p.ContentID(), geometry.Sz(300, 500))
	checkRect(t, "separator after resize", sep.bounds, geometry.NewRect(700, 268, 300, 0))
}

func TestPanelStateNotifications(t *testing.T) {
	env := newTestEnv(t)
	env.newPanelsExpanded = false
	env.newPanelsTakeFocus = false
	p := env.createPanel(200, 20, 400)

	want := []stateNote{{p.ContentID(), false}}
	if len(env.notify.notes) != 1 || env.notify.notes[0] != want[0] {
		t.Fatalf("notes = %#v after creation, want %#v", env.notify.notes, want)
	}
	if v, ok := env.store.Get(p.Title()); !ok || v {
		t.Fatalf("store = %v, %v after creation, want false, true", v, ok)
	}

	env.mgr.HandleSetPanelState(p.ContentID(), true)
	if !p.IsExpanded() {
		t.Fatalf("IsExpanded() = false after expand message")
	}
	env.mgr.HandleSetPanelState(p.ContentID(), false)
	if p.IsExpanded() {
		t.Fatalf("IsExpanded() = true after collapse message")
	}

	want = append(want, stateNote{p.ContentID(), true}, stateNote{p.ContentID(), false})
	if len(env.notify.notes) != 3 {
		t.Fatalf("notes = %#v, want %#v", env.notify.notes, want)
	}
	for i := range want {
		if env.notify.notes[i] != want[i] {
			t.Fatalf("notes[%d] = %#v, want %#v", i, env.notify.notes[i], want[i])
		}
	}
	if v, ok := env.store.Get(p.Title()); !ok || v {
		t.Fatalf("store = %v, %v after collapse, want false, true", v, ok)
	}
}

func TestPanelExpandedStateRestoredFromStore(t *testing.T) {
	env := newTestEnv(t)

	// A stored expanded state wins over the creation hint.
	env.store.data["panel-1"] = true
	env.newPanelsExpanded = false
	p := env.createPanel(200, 20, 400)
	if !p.IsExpanded() {
		t.Fatalf("IsExpanded() = false, want stored state to override hint")
	}

	env.store.data["panel-2"] = false
	env.newPanelsExpanded = true
	p = env.createPanel(200, 20, 400)
	if p.IsExpanded() {
		t.Fatalf("IsExpanded() = true, want stored state to override hint")
	}
}

func TestPanelShadowOpacity(t *testing.T) {
	env := newTestEnv(t)
	p := env.createPanel(200, 20, 400)

	p.SetShadowOpacity(0, 0)
	if contentWin(p).shadowOpacity != 0 || titlebarWin(p).shadowOpacity != 0 {
		t.Fatalf("shadow opacity = %v/%v, want 0/0",
			contentWin(p).shadowOpacity, titlebarWin(p).shadowOpacity)
	}
	p.SetShadowOpacity(1, 0)
	if contentWin(p).shadowOpacity != 1 || titlebarWin(p).shadowOpacity != 1 {
		t.Fatalf("shadow opacity = %v/%v, want 1/1",
			contentWin(p).shadowOpacity, titlebarWin(p).shadowOpacity)
	}
}
