package sim

import (
	"testing"

	"github.com/regenrek/paneldeck/internal/geometry"
	"github.com/regenrek/paneldeck/internal/wm"
)

func placeWindow(b *board, title string, l wm.Layer, r geometry.Rect) *simWindow {
	w := b.createWindow(title, kindContent, r.Size(), nil)
	w.Move(r.Origin(), 0)
	w.StackAtTopOfLayer(l)
	w.Show()
	return w
}

func TestBoardHitTestPrefersHigherLayer(t *testing.T) {
	b := newBoard(1024, 768)

	// A packed titlebar along the bottom edge and the bar's one-pixel
	// show strip over the same cells.
	win := placeWindow(b, "titlebar", wm.LayerPackedPanelInBar,
		geometry.NewRect(0, 765, 1024, 3))
	strip := b.CreateInputWindow("strip", geometry.NewRect(0, 767, 1024, 1))
	b.StackInputWindowAtTopOfLayer(strip, wm.LayerBarInput)

	hit, ok := b.hitTest(geometry.NewRect(0, 752, 8, 16))
	if !ok {
		t.Fatal("hitTest() found nothing over the strip")
	}
	if !hit.input || hit.id != strip {
		t.Errorf("hitTest() = window %v (input=%v), want strip %v", hit.id, hit.input, strip)
	}

	// Off the strip's row the titlebar is on top again.
	hit, ok = b.hitTest(geometry.NewRect(0, 760, 8, 5))
	if !ok || hit.id != win.id {
		t.Errorf("hitTest() above the strip = %v, want window %v", hit.id, win.id)
	}
}

func TestBoardHitTestKeepsBelowSiblingInputsUnderneath(t *testing.T) {
	b := newBoard(1024, 768)

	win := placeWindow(b, "content", wm.LayerPackedPanelInBar,
		geometry.NewRect(100, 100, 200, 200))
	handle := b.CreateInputWindow("handle", geometry.NewRect(97, 100, 3, 200))
	b.StackInputWindowBelow(handle, win.id)

	// Where the handle pokes out past the window's left edge it is
	// hittable.
	hit, ok := b.hitTest(geometry.NewRect(90, 150, 8, 16))
	if !ok || !hit.input || hit.id != handle {
		t.Fatalf("hitTest() beside the window = %+v ok=%v, want handle", hit, ok)
	}

	// Where both overlap, the sibling window wins.
	hit, ok = b.hitTest(geometry.NewRect(96, 150, 8, 16))
	if !ok || hit.id != win.id {
		t.Errorf("hitTest() over the window = %v, want window %v", hit.id, win.id)
	}
}

func TestBoardHitTestLaterRestackWinsWithinLayer(t *testing.T) {
	b := newBoard(1024, 768)

	first := placeWindow(b, "first", wm.LayerPackedPanelInBar,
		geometry.NewRect(0, 0, 100, 100))
	second := placeWindow(b, "second", wm.LayerPackedPanelInBar,
		geometry.NewRect(0, 0, 100, 100))

	hit, _ := b.hitTest(geometry.NewRect(10, 10, 8, 16))
	if hit.id != second.id {
		t.Fatalf("hitTest() = %v, want the later-stacked window %v", hit.id, second.id)
	}

	first.StackAtTopOfLayer(wm.LayerPackedPanelInBar)
	hit, _ = b.hitTest(geometry.NewRect(10, 10, 8, 16))
	if hit.id != first.id {
		t.Errorf("hitTest() after restack = %v, want %v", hit.id, first.id)
	}
}

func TestBoardHitTestIgnoresHiddenWindowsAndParkedInputs(t *testing.T) {
	b := newBoard(1024, 768)

	win := placeWindow(b, "hidden", wm.LayerPackedPanelInBar,
		geometry.NewRect(0, 0, 100, 100))
	win.Hide()

	in := b.CreateInputWindow("parked", geometry.NewRect(0, 0, 100, 100))
	b.StackInputWindowAtTopOfLayer(in, wm.LayerBarInput)
	b.MoveInputWindowOffscreen(in)

	if hit, ok := b.hitTest(geometry.NewRect(0, 0, 8, 16)); ok {
		t.Errorf("hitTest() = %+v, want no hit", hit)
	}
}

func TestBoardDestroyWindowClearsFocus(t *testing.T) {
	b := newBoard(1024, 768)

	win := placeWindow(b, "focused", wm.LayerPackedPanelInBar,
		geometry.NewRect(0, 0, 100, 100))
	b.FocusWindow(win, b.Now())
	if b.FocusedWindow() != win {
		t.Fatal("FocusWindow() did not take")
	}

	b.destroyWindow(win.id)
	if b.FocusedWindow() != nil {
		t.Error("FocusedWindow() != nil after the focused window was destroyed")
	}
}

func TestBoardDrawListOrdersBottomToTop(t *testing.T) {
	b := newBoard(1024, 768)

	deco := b.CreateDecoration("panel dock background", geometry.NewRect(0, 0, 256, 768))
	deco.StackAtTopOfLayer(wm.LayerBackground)
	deco.Show()

	packed := placeWindow(b, "packed", wm.LayerPackedPanelInBar,
		geometry.NewRect(100, 100, 200, 200))
	dragged := placeWindow(b, "dragged", wm.LayerDraggedPanel,
		geometry.NewRect(120, 120, 200, 200))

	items := b.drawList()
	if len(items) != 3 {
		t.Fatalf("drawList() returned %d items, want 3", len(items))
	}
	if !items[0].deco {
		t.Errorf("drawList()[0] = %+v, want the background decoration", items[0])
	}
	if items[1].title != packed.title {
		t.Errorf("drawList()[1].title = %q, want %q", items[1].title, packed.title)
	}
	if items[2].title != dragged.title {
		t.Errorf("drawList()[2].title = %q, want %q", items[2].title, dragged.title)
	}
}

func TestBoardDrawListMarksPairedTitlebarFocused(t *testing.T) {
	b := newBoard(1024, 768)

	titlebar := b.createWindow("chat titlebar", kindTitlebar, geometry.Sz(200, 20), nil)
	titlebar.Move(geometry.Pt(0, 0), 0)
	titlebar.StackAtTopOfLayer(wm.LayerPackedPanelInBar)
	titlebar.Show()

	content := b.createWindow("chat", kindContent, geometry.Sz(200, 400),
		[]int{int(titlebar.id), 1, 1, 0, 0})
	content.Move(geometry.Pt(0, 20), 0)
	content.StackAtTopOfLayer(wm.LayerPackedPanelInBar)
	content.Show()

	b.FocusWindow(content, b.Now())

	for _, it := range b.drawList() {
		if !it.focused {
			t.Errorf("drawList() item %q not marked focused", it.title)
		}
	}
}
