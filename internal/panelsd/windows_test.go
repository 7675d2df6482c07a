package panelsd

import (
	"testing"

	"github.com/regenrek/paneldeck/internal/geometry"
	"github.com/regenrek/paneldeck/internal/wm"
)

func TestWindowTableCreateAndDestroy(t *testing.T) {
	table := newWindowTable(800, 600)
	if got := table.screen.Width(); got != 800 {
		t.Fatalf("screen width = %d, want 800", got)
	}

	w1 := table.createWindow("one", geometry.Sz(100, 50), nil)
	w2 := table.createWindow("two", geometry.Sz(120, 60), []int{1, 0})
	if w1.id == w2.id {
		t.Fatalf("window ids collide: %v", w1.id)
	}
	if w1.id == wm.None || w2.id == wm.None {
		t.Fatalf("window ids must not be None: %v %v", w1.id, w2.id)
	}
	if got := table.title(w2.id); got != "two" {
		t.Fatalf("title(%v) = %q, want two", w2.id, got)
	}
	if got := w1.ClientSize(); got != geometry.Sz(100, 50) {
		t.Fatalf("ClientSize = %v", got)
	}
	if got := w1.bounds; got != geometry.NewRect(0, 0, 100, 50) {
		t.Fatalf("initial bounds = %v", got)
	}

	table.destroyWindow(w1.id)
	if got := table.title(w1.id); got != "" {
		t.Fatalf("title after destroy = %q, want empty", got)
	}
}

func TestWindowTableDestroyClearsFocus(t *testing.T) {
	table := newWindowTable(800, 600)
	w := table.createWindow("focused", geometry.Sz(100, 50), nil)
	table.FocusWindow(w, table.Now())
	if table.FocusedWindow() != w {
		t.Fatalf("FocusedWindow = %v, want %v", table.FocusedWindow(), w)
	}
	table.destroyWindow(w.id)
	if table.FocusedWindow() != nil {
		t.Fatalf("FocusedWindow after destroy = %v, want nil", table.FocusedWindow())
	}
}

func TestWindowTableInputWindows(t *testing.T) {
	table := newWindowTable(800, 600)
	id := table.CreateInputWindow("handle", geometry.NewRect(10, 20, 30, 40))
	in, ok := table.inputs[id]
	if !ok {
		t.Fatalf("input window %v not tracked", id)
	}
	if in.rect != geometry.NewRect(10, 20, 30, 40) {
		t.Fatalf("input rect = %v", in.rect)
	}

	table.ConfigureInputWindow(id, geometry.NewRect(1, 2, 3, 4))
	if in.rect != geometry.NewRect(1, 2, 3, 4) {
		t.Fatalf("configured rect = %v", in.rect)
	}

	table.MoveInputWindowOffscreen(id)
	if in.rect != offscreenRect {
		t.Fatalf("offscreen rect = %v, want %v", in.rect, offscreenRect)
	}

	table.DestroyInputWindow(id)
	if _, ok := table.inputs[id]; ok {
		t.Fatalf("input window %v survived destroy", id)
	}
}

func TestWindowTableClientSizeSticky(t *testing.T) {
	table := newWindowTable(800, 600)
	w := table.createWindow("content", geometry.Sz(200, 300), nil)
	w.Resize(geometry.Sz(250, 350), geometry.GravityNW)
	if got := w.bounds.Size(); got != geometry.Sz(250, 350) {
		t.Fatalf("bounds after resize = %v", got)
	}
	// The owner-requested size hint does not follow engine resizes.
	if got := w.ClientSize(); got != geometry.Sz(200, 300) {
		t.Fatalf("ClientSize after resize = %v, want 200x300", got)
	}
}

func TestWindowTableStackSeqOrdersRaises(t *testing.T) {
	table := newWindowTable(800, 600)
	w1 := table.createWindow("a", geometry.Sz(10, 10), nil)
	w2 := table.createWindow("b", geometry.Sz(10, 10), nil)
	w1.StackAtTopOfLayer(wm.LayerPackedPanelInBar)
	w2.StackAtTopOfLayer(wm.LayerPackedPanelInBar)
	w1.StackAtTopOfLayer(wm.LayerDraggedPanel)
	if !(w1.stackSeq > w2.stackSeq) {
		t.Fatalf("stackSeq: w1=%d w2=%d, want w1 raised last", w1.stackSeq, w2.stackSeq)
	}
}
