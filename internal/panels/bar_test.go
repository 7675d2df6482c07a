package panels

import (
	"testing"

	"github.com/regenrek/paneldeck/internal/geometry"
)

func TestBarPanelPlacement(t *testing.T) {
	env := newTestEnv(t)

	// The titlebar is stretched to the content width when the panel is
	// packed; its height is kept.
	titlebar := env.newWindow("titlebar-narrow", geometry.NewRect(0, 0, 100, 20))
	content := env.newWindow("panel-wide", geometry.NewRect(0, 0, 200, 400))
	content.typeParams = []int{int(titlebar.id), 1, 1, 0, int(ResizeBoth)}
	p, err := env.mgr.AddPanel(content, titlebar, SourceNew)
	if err != nil {
		t.Fatalf("AddPanel() error: %v", err)
	}
	if p.TitlebarWidth() != 200 {
		t.Fatalf("TitlebarWidth() = %d, want 200", p.TitlebarWidth())
	}
	checkRect(t, "titlebar", titlebar.bounds, geometry.NewRect(800, 348, 200, 20))
	checkRect(t, "content", content.bounds, geometry.NewRect(800, 368, 200, 400))
	if !titlebar.shown || !content.shown {
		t.Fatalf("windows shown = %v/%v, want true/true", titlebar.shown, content.shown)
	}
	if env.focus.focused != p.content {
		t.Fatalf("focused = %v, want the new panel's content", env.focus.focused)
	}

	// A collapsed panel that asks to stay unfocused doesn't steal the
	// focus.
	env.newPanelsExpanded = false
	env.newPanelsTakeFocus = false
	env.createPanel(200, 20, 400)
	if env.focus.focused != p.content {
		t.Fatalf("focused = %v after collapsed panel, want the first panel", env.focus.focused)
	}
}

func TestBarActiveWindowMessage(t *testing.T) {
	env := newTestEnv(t)
	env.newPanelsExpanded = false
	env.newPanelsTakeFocus = false
	p := env.createPanel(200, 20, 400)
	if p.TitlebarY() != 765 {
		t.Fatalf("TitlebarY() = %d for hidden collapsed panel, want 765", p.TitlebarY())
	}

	// Asking for the panel expands and focuses it.
	env.mgr.HandleFocusPanel(p.ContentID(), env.conn.Now())
	if !p.IsExpanded() {
		t.Fatalf("IsExpanded() = false after focus message")
	}
	if p.TitlebarY() != 348 {
		t.Fatalf("TitlebarY() = %d after expanding, want 348", p.TitlebarY())
	}
	if env.focus.focused != p.content {
		t.Fatalf("focused = %v, want the panel's content", env.focus.focused)
	}
}

func TestBarFocusNewPanel(t *testing.T) {
	env := newTestEnv(t)
	p := env.createPanel(200, 20, 400)
	if env.mgr.bar.desiredFocus != p {
		t.Fatalf("desiredFocus = %v, want the new panel", env.mgr.bar.desiredFocus)
	}

	env.mgr.RemovePanel(p)
	if env.mgr.bar.desiredFocus != nil {
		t.Fatalf("desiredFocus = %v after removal, want nil", env.mgr.bar.desiredFocus)
	}
	if len(env.mgr.bar.packed) != 0 {
		t.Fatalf("%d packed panels after removal, want 0", len(env.mgr.bar.packed))
	}
	if env.fallbackCalls != 1 || env.focus.focused != nil {
		t.Fatalf("fallback calls = %d focused = %v, want 1, nil",
			env.fallbackCalls, env.focus.focused)
	}
}

func TestBarAvoidInitialFocus(t *testing.T) {
	env := newTestEnv(t)

	// Even a panel that asks to stay unfocused is focused when nothing
	// else holds the focus.
	env.newPanelsTakeFocus = false
	p1 := env.createPanel(200, 20, 400)
	if env.focus.focused != p1.content {
		t.Fatalf("focused = %v, want the only panel", env.focus.focused)
	}

	p2 := env.createPanel(200, 20, 400)
	if env.focus.focused != p1.content {
		t.Fatalf("focused = %v after second panel, want the first panel", env.focus.focused)
	}

	env.newPanelsTakeFocus = true
	p3 := env.createPanel(200, 20, 400)
	if env.focus.focused != p3.content {
		t.Fatalf("focused = %v, want the focus-requesting panel", env.focus.focused)
	}
	_ = p2
}

func TestBarOpenPanelNextToCreator(t *testing.T) {
	env := newTestEnv(t)
	p1 := env.createPanel(200, 20, 400)
	p2 := env.createPanel(200, 20, 400)
	p3 := env.createPanel(200, 20, 400)
	if p1.Right() != 1000 || p2.Right() != 794 || p3.Right() != 588 {
		t.Fatalf("rights = %d/%d/%d, want 1000/794/588", p1.Right(), p2.Right(), p3.Right())
	}

	// A panel naming its creator opens immediately to the creator's left.
	env.newPanelCreator = p1.ContentID()
	p4 := env.createPanel(200, 20, 400)
	if p4.Right() != p1.ContentX()-barPanelGap {
		t.Fatalf("p4 right = %d, want %d (left of its creator)",
			p4.Right(), p1.ContentX()-barPanelGap)
	}
	if p2.Right() != p4.ContentX()-barPanelGap || p3.Right() != p2.ContentX()-barPanelGap {
		t.Fatalf("p2/p3 rights = %d/%d after insertion, want %d/%d",
			p2.Right(), p3.Right(), p4.ContentX()-barPanelGap, p2.ContentX()-barPanelGap)
	}

	env.newPanelCreator = p2.ContentID()
	p5 := env.createPanel(200, 20, 400)
	if p5.Right() != p2.ContentX()-barPanelGap {
		t.Fatalf("p5 right = %d, want %d (left of its creator)",
			p5.Right(), p2.ContentX()-barPanelGap)
	}

	// An unknown creator falls back to the leftmost slot.
	env.newPanelCreator = 0x424242
	p6 := env.createPanel(200, 20, 400)
	if p6.Right() != p3.ContentX()-barPanelGap {
		t.Fatalf("p6 right = %d, want leftmost %d", p6.Right(), p3.ContentX()-barPanelGap)
	}
}

func TestBarReorderPanels(t *testing.T) {
	env := newTestEnv(t)
	env.newPanelsExpanded = false
	env.newPanelsTakeFocus = false
	p1 := env.createPanel(200, 20, 400)
	p2 := env.createPanel(200, 20, 400)
	if p1.Right() != 1000 || p2.Right() != 794 {
		t.Fatalf("rights = %d/%d, want 1000/794", p1.Right(), p2.Right())
	}

	// Dragging the rightmost panel off the right edge moves nothing else.
	env.dragPanel(p1, 1100, 767)
	if p1.Right() != 1100 || p2.Right() != 794 {
		t.Fatalf("rights = %d/%d, want 1100/794", p1.Right(), p2.Right())
	}

	// Dragging left swaps the panels only once p1's left edge crosses
	// p2's center.
	env.dragPanel(p1, 895, 767)
	if p2.Right() != 794 {
		t.Fatalf("p2 right = %d one pixel before the midpoint, want 794", p2.Right())
	}
	env.dragPanel(p1, 894, 767)
	if p2.Right() != 1000 {
		t.Fatalf("p2 right = %d past the midpoint, want 1000", p2.Right())
	}

	// Another pixel doesn't swap them back.
	env.dragPanel(p1, 893, 767)
	if p2.Right() != 1000 {
		t.Fatalf("p2 right = %d after one more pixel, want 1000", p2.Right())
	}

	// Far to the left the panel leaves the packed group and floats where
	// it was dropped.
	env.dragPanel(p1, 40, 767)
	if !env.mgr.bar.infos[p1].floating {
		t.Fatalf("p1 still packed after dragging far left")
	}
	if p1.Right() != 40 || p2.Right() != 1000 {
		t.Fatalf("rights = %d/%d, want 40/1000", p1.Right(), p2.Right())
	}

	// Dragging back toward the group packs it again, into the left slot.
	env.dragPanel(p1, 794, 767)
	if env.mgr.bar.infos[p1].floating {
		t.Fatalf("p1 still floating after dragging back")
	}
	env.completeDrag(p1)
	if p1.Right() != 794 || p2.Right() != 1000 {
		t.Fatalf("rights = %d/%d after drop, want 794/1000", p1.Right(), p2.Right())
	}
}

func TestBarReorderDifferentlySizedPanels(t *testing.T) {
	env := newTestEnv(t)
	env.newPanelsExpanded = false
	env.newPanelsTakeFocus = false
	small := env.createPanel(200, 20, 400)
	big := env.createPanel(500, 20, 400)
	if small.Right() != 1000 || big.Right() != 794 {
		t.Fatalf("rights = %d/%d, want 1000/794", small.Right(), big.Right())
	}

	// Drag the small panel partway left, not enough to swap with the big
	// one: its left edge is one pixel right of the big panel's center.
	env.dragPanel(small, 745, 767)
	if small.Right() != 745 || big.Right() != 794 {
		t.Fatalf("rights = %d/%d, want 745/794", small.Right(), big.Right())
	}

	// One more pixel swaps them.
	env.dragPanel(small, 744, 767)
	if small.Right() != 744 || big.Right() != 1000 {
		t.Fatalf("rights = %d/%d, want 744/1000", small.Right(), big.Right())
	}

	// And another pixel leaves them alone.
	env.dragPanel(small, 743, 767)
	if big.Right() != 1000 {
		t.Fatalf("big right = %d after extra pixel, want 1000", big.Right())
	}

	// Dragging back right swaps them back once the small panel's right
	// edge crosses the big panel's new center.
	env.dragPanel(small, 751, 767)
	if small.Right() != 751 || big.Right() != 794 {
		t.Fatalf("rights = %d/%d, want 751/794", small.Right(), big.Right())
	}

	// Far to the left the small panel floats and the big one takes the
	// rightmost slot.
	env.dragPanel(small, 10, 767)
	if small.Right() != 10 || big.Right() != 1000 {
		t.Fatalf("rights = %d/%d, want 10/1000", small.Right(), big.Right())
	}

	// Dropped at the leftmost packed position it packs there.
	env.dragPanel(small, 494, 767)
	env.completeDrag(small)
	if small.Right() != 494 || big.Right() != 1000 {
		t.Fatalf("rights = %d/%d after drop, want 494/1000", small.Right(), big.Right())
	}

	// The same midpoint rule applies when dragging the big panel across
	// the small one.
	env.dragPanel(big, 895, 767)
	if small.Right() != 494 || big.Right() != 895 {
		t.Fatalf("rights = %d/%d, want 494/895", small.Right(), big.Right())
	}
	env.dragPanel(big, 894, 767)
	if small.Right() != 1000 || big.Right() != 894 {
		t.Fatalf("rights = %d/%d, want 1000/894", small.Right(), big.Right())
	}
	env.dragPanel(big, 901, 767)
	if small.Right() != 494 || big.Right() != 901 {
		t.Fatalf("rights = %d/%d, want 494/901", small.Right(), big.Right())
	}
	env.completeDrag(big)
	if small.Right() != 494 || big.Right() != 1000 {
		t.Fatalf("rights = %d/%d after drop, want 494/1000", small.Right(), big.Right())
	}
}

func TestBarPackPanelsAfterPanelResize(t *testing.T) {
	env := newTestEnv(t)
	env.newPanelsExpanded = false
	env.newPanelsTakeFocus = false
	p1 := env.createPanel(200, 20, 400)
	p2 := env.createPanel(200, 20, 400)
	p3 := env.createPanel(200, 20, 400)
	if p1.Right() != 1000 || p2.Right() != 794 || p3.Right() != 588 {
		t.Fatalf("rights = %d/%d/%d, want 1000/794/588", p1.Right(), p2.Right(), p3.Right())
	}

	// Resize the middle panel by 200 in both directions via its top-left
	// handle.
	env.pressHandle(p2.topLeftInput, geometry.Pt(0, 0))
	env.releaseHandle(p2.topLeftInput, geometry.Pt(-200, -200))
	if p2.ContentWidth() != 400 || p2.ContentHeight() != 600 {
		t.Fatalf("p2 = %dx%d after resize, want 400x600", p2.ContentWidth(), p2.ContentHeight())
	}

	// Panels right of it keep their right edges; the panel to its left is
	// pushed out by the added width.
	if p1.Right() != 1000 || p2.Right() != 794 {
		t.Fatalf("rights = %d/%d after resize, want 1000/794", p1.Right(), p2.Right())
	}
	if p3.Right() != 388 {
		t.Fatalf("p3 right = %d after resize, want 388", p3.Right())
	}
}

func TestBarDragPanelVertically(t *testing.T) {
	env := newTestEnv(t)
	p := env.createPanel(200, 20, 400)

	// A drag that starts mostly vertical moves the panel up and down
	// only.
	env.dragPanel(p, 994, 358)
	if p.Right() != 1000 || p.TitlebarY() != 358 {
		t.Fatalf("panel at right=%d y=%d, want 1000, 358", p.Right(), p.TitlebarY())
	}

	// Horizontal movement is ignored for the rest of the drag.
	env.dragPanel(p, 600, 400)
	if p.Right() != 1000 || p.TitlebarY() != 400 {
		t.Fatalf("panel at right=%d y=%d, want 1000, 400", p.Right(), p.TitlebarY())
	}

	// The panel can't be dragged above its expanded position or below
	// its titlebar-only position.
	env.dragPanel(p, 994, 200)
	if p.TitlebarY() != 348 {
		t.Fatalf("TitlebarY() = %d after dragging past top, want 348", p.TitlebarY())
	}
	env.dragPanel(p, 994, 800)
	if p.TitlebarY() != 748 {
		t.Fatalf("TitlebarY() = %d after dragging past bottom, want 748", p.TitlebarY())
	}

	// Released while mostly visible, the panel snaps back to expanded.
	env.dragPanel(p, 994, 448)
	env.completeDrag(p)
	if !p.IsExpanded() || p.TitlebarY() != 348 {
		t.Fatalf("expanded=%v y=%d after drop, want true, 348", p.IsExpanded(), p.TitlebarY())
	}

	// Released past the midpoint, it collapses.
	env.dragPanel(p, 994, 559)
	env.completeDrag(p)
	if p.IsExpanded() || p.TitlebarY() != 765 {
		t.Fatalf("expanded=%v y=%d after drop, want false, 765", p.IsExpanded(), p.TitlebarY())
	}

	// Dragged back up and released, it expands and takes the focus.
	env.dragPanel(p, 994, 557)
	env.completeDrag(p)
	if !p.IsExpanded() || p.TitlebarY() != 348 {
		t.Fatalf("expanded=%v y=%d after drop, want true, 348", p.IsExpanded(), p.TitlebarY())
	}
	if env.focus.focused != p.content {
		t.Fatalf("focused = %v after expanding drop, want the panel", env.focus.focused)
	}

	// Dragged high enough, the panel detaches at the exact position.
	env.dragPanel(p, 612, 0)
	if c := env.mgr.containerByPanel[p]; c != nil {
		t.Fatalf("container = %v after detaching, want none", c)
	}
	if p.Right() != 612 || p.TitlebarY() != 0 {
		t.Fatalf("panel at right=%d y=%d, want 612, 0", p.Right(), p.TitlebarY())
	}

	// Dragged back into the bar it reattaches in a horizontal drag: the
	// Y pins to the expanded position while X keeps following.
	env.dragPanel(p, 612, 767)
	if c := env.mgr.containerByPanel[p]; c != env.mgr.bar {
		t.Fatalf("container = %v after reattaching, want the bar", c)
	}
	if p.Right() != 612 || p.TitlebarY() != 348 {
		t.Fatalf("panel at right=%d y=%d, want 612, 348", p.Right(), p.TitlebarY())
	}
	env.dragPanel(p, 994, 767)
	if p.Right() != 994 || p.TitlebarY() != 348 {
		t.Fatalf("panel at right=%d y=%d, want 994, 348", p.Right(), p.TitlebarY())
	}
	env.completeDrag(p)
	if p.Right() != 1000 || p.TitlebarY() != 348 {
		t.Fatalf("panel at right=%d y=%d after drop, want 1000, 348", p.Right(), p.TitlebarY())
	}
}

func TestBarFloatingPanels(t *testing.T) {
	env := newTestEnv(t)
	p1 := env.createPanel(200, 20, 300)
	p2 := env.createPanel(200, 20, 300)
	p3 := env.createPanel(200, 20, 300)
	if p1.Right() != 1000 || p2.Right() != 794 || p3.Right() != 588 {
		t.Fatalf("rights = %d/%d/%d, want 1000/794/588", p1.Right(), p2.Right(), p3.Right())
	}
	dragY := p3.TitlebarY()

	// Dragged exactly to the floating threshold, the panel snaps back to
	// its packed spot.
	env.dragPanel(p3, 558, dragY)
	env.completeDrag(p3)
	if p3.Right() != 588 {
		t.Fatalf("p3 right = %d after borderline drag, want 588", p3.Right())
	}

	// Dragged past the threshold but brought back before the drop, it
	// snaps back too.
	env.dragPanel(p3, 538, dragY)
	env.dragPanel(p3, 558, dragY)
	env.completeDrag(p3)
	if p3.Right() != 588 {
		t.Fatalf("p3 right = %d after round trip, want 588", p3.Right())
	}

	// One pixel past the threshold it floats where it was dropped.
	env.dragPanel(p3, 557, dragY)
	env.completeDrag(p3)
	if p3.Right() != 557 {
		t.Fatalf("p3 right = %d after floating drop, want 557", p3.Right())
	}

	// Drop p2 overlapping p3's right edge: p3 is pushed left to make
	// room.
	env.dragPanel(p2, 754, dragY)
	env.completeDrag(p2)
	if p2.Right() != 754 {
		t.Fatalf("p2 right = %d, want 754", p2.Right())
	}
	if p3.Right() != p2.ContentX()-barPanelGap {
		t.Fatalf("p3 right = %d, want %d (pushed left of p2)",
			p3.Right(), p2.ContentX()-barPanelGap)
	}

	// Drop p2 further left, with room to p2's right: p3 jumps over to
	// that side.
	env.dragPanel(p2, 494, dragY)
	env.completeDrag(p2)
	if p2.Right() != 494 {
		t.Fatalf("p2 right = %d, want 494", p2.Right())
	}
	if p3.ContentX() != p2.Right()+barPanelGap {
		t.Fatalf("p3 contentX = %d, want %d (right of p2)",
			p3.ContentX(), p2.Right()+barPanelGap)
	}

	// A new packed panel pushes both floating panels left.
	p4 := env.createPanel(200, 20, 300)
	if p1.Right() != 1000 || p4.Right() != p1.ContentX()-barPanelGap {
		t.Fatalf("p1/p4 rights = %d/%d, want 1000/%d",
			p1.Right(), p4.Right(), p1.ContentX()-barPanelGap)
	}
	if p3.Right() != p4.ContentX()-barPanelGap || p2.Right() != p3.ContentX()-barPanelGap {
		t.Fatalf("p3/p2 rights = %d/%d, want %d/%d", p3.Right(), p2.Right(),
			p4.ContentX()-barPanelGap, p3.ContentX()-barPanelGap)
	}

	// Dragging p4 far left frees the space again; p2 and p3 snap back to
	// their previous spots.
	env.dragPanel(p4, 200, dragY)
	env.completeDrag(p4)
	if p4.Right() != 200 {
		t.Fatalf("p4 right = %d, want 200", p4.Right())
	}
	if p2.Right() != 494 || p3.ContentX() != p2.Right()+barPanelGap {
		t.Fatalf("p2 right = %d p3 contentX = %d, want 494, %d",
			p2.Right(), p3.ContentX(), p2.Right()+barPanelGap)
	}

	// Dragging p3 to the right packs it mid-drag, displacing p1.
	env.dragPanel(p3, 974, dragY)
	if p3.Right() != 974 {
		t.Fatalf("p3 right = %d mid-drag, want 974", p3.Right())
	}
	if p1.Right() != 794 {
		t.Fatalf("p1 right = %d while p3 repacks, want 794", p1.Right())
	}
	if p2.Right() != 494 {
		t.Fatalf("p2 right = %d while p3 repacks, want 494", p2.Right())
	}
	env.completeDrag(p3)
	if p3.Right() != 1000 {
		t.Fatalf("p3 right = %d after drop, want 1000", p3.Right())
	}

	// Close p4, then drag p1 left in small steps: it pushes p2 left
	// until p1's left edge passes the midpoint of p2's desired spot,
	// when p2 jumps to p1's right.
	env.mgr.RemovePanel(p4)
	env.dragPanel(p1, 595, dragY)
	env.completeDrag(p1)
	if p1.Right() != 595 {
		t.Fatalf("p1 right = %d, want 595", p1.Right())
	}
	if p2.Right() != p1.ContentX()-barPanelGap {
		t.Fatalf("p2 right = %d, want %d (pushed left of p1)",
			p2.Right(), p1.ContentX()-barPanelGap)
	}

	env.dragPanel(p1, 494, dragY)
	env.completeDrag(p1)
	if p1.Right() != 494 {
		t.Fatalf("p1 right = %d, want 494", p1.Right())
	}
	if p2.ContentX() != p1.Right()+barPanelGap {
		t.Fatalf("p2 contentX = %d, want %d (right of p1)",
			p2.ContentX(), p1.Right()+barPanelGap)
	}
}
