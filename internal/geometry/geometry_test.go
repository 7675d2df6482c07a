package geometry

import "testing"

func TestRectResizeGravity(t *testing.T) {
	base := NewRect(100, 200, 40, 30)
	tests := []struct {
		name    string
		gravity Gravity
		size    Size
		want    Rect
	}{
		{"nw grow", GravityNW, Size{60, 50}, Rect{100, 200, 60, 50}},
		{"nw shrink", GravityNW, Size{20, 10}, Rect{100, 200, 20, 10}},
		{"ne grow", GravityNE, Size{60, 50}, Rect{80, 200, 60, 50}},
		{"ne shrink", GravityNE, Size{20, 10}, Rect{120, 200, 20, 10}},
		{"sw grow", GravitySW, Size{60, 50}, Rect{100, 180, 60, 50}},
		{"sw shrink", GravitySW, Size{20, 10}, Rect{100, 220, 20, 10}},
		{"se grow", GravitySE, Size{60, 50}, Rect{80, 180, 60, 50}},
		{"se shrink", GravitySE, Size{20, 10}, Rect{120, 220, 20, 10}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := base.Resize(tc.size, tc.gravity)
			if got != tc.want {
				t.Fatalf("Resize(%v, %v) = %v, want %v", tc.size, tc.gravity, got, tc.want)
			}
		})
	}
}

func TestRectResizeKeepsPinnedCorner(t *testing.T) {
	r := NewRect(10, 20, 100, 80)
	resized := r.Resize(Size{55, 33}, GravitySE)
	if resized.Right() != r.Right() {
		t.Fatalf("right edge moved: got %d, want %d", resized.Right(), r.Right())
	}
	if resized.Bottom() != r.Bottom() {
		t.Fatalf("bottom edge moved: got %d, want %d", resized.Bottom(), r.Bottom())
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 20)
	inside := []Point{{10, 10}, {29, 29}, {15, 20}}
	for _, p := range inside {
		if !r.Contains(p) {
			t.Errorf("Contains(%v) = false, want true", p)
		}
	}
	outside := []Point{{30, 10}, {10, 30}, {9, 10}, {10, 9}, {30, 30}}
	for _, p := range outside {
		if r.Contains(p) {
			t.Errorf("Contains(%v) = true, want false", p)
		}
	}
}

func TestRectIntersects(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	if !a.Intersects(NewRect(5, 5, 10, 10)) {
		t.Fatal("overlapping rects reported disjoint")
	}
	if a.Intersects(NewRect(10, 0, 10, 10)) {
		t.Fatal("edge-adjacent rects reported overlapping")
	}
	if a.Intersects(Rect{}) {
		t.Fatal("empty rect reported overlapping")
	}
}

func TestRectString(t *testing.T) {
	r := NewRect(-5, 7, 640, 480)
	if got, want := r.String(), "640x480+-5+7"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
