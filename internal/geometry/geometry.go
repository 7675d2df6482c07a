// Package geometry provides the integer pixel types shared by the panel
// engine: points, sizes, rectangles, and the gravity rules that decide which
// corner of a rectangle stays pinned during a resize.
package geometry

import "fmt"

// Gravity names the corner of a rectangle that keeps its position while the
// rectangle's size changes.
type Gravity uint8

const (
	GravityNW Gravity = iota
	GravityNE
	GravitySW
	GravitySE
)

func (g Gravity) String() string {
	switch g {
	case GravityNW:
		return "nw"
	case GravityNE:
		return "ne"
	case GravitySW:
		return "sw"
	case GravitySE:
		return "se"
	default:
		return fmt.Sprintf("gravity(%d)", uint8(g))
	}
}

// Point is a pixel position.
type Point struct {
	X int
	Y int
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns p shifted by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the offset from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Size is a pixel extent. Either dimension may be zero.
type Size struct {
	Width  int
	Height int
}

// Sz is shorthand for Size{Width: w, Height: h}.
func Sz(w, h int) Size {
	return Size{Width: w, Height: h}
}

// IsEmpty reports whether the size covers no area.
func (s Size) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Rect is a pixel rectangle with its origin at the top-left corner.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// NewRect builds a rect from origin and extent.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Size returns the extent.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Right returns the x coordinate one past the right edge.
func (r Rect) Right() int {
	return r.X + r.Width
}

// Bottom returns the y coordinate one past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// IsEmpty reports whether the rect covers no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether p falls inside r. Edges are half-open: the left
// and top edges are inside, the right and bottom edges are not.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Intersects reports whether r and o share any area.
func (r Rect) Intersects(o Rect) bool {
	if r.IsEmpty() || o.IsEmpty() {
		return false
	}
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Resize returns r with the new size, keeping the corner named by g pinned.
// Eastern gravities shift the origin left as the rect widens; southern
// gravities shift it up as the rect grows taller.
func (r Rect) Resize(s Size, g Gravity) Rect {
	out := r
	if g == GravityNE || g == GravitySE {
		out.X += r.Width - s.Width
	}
	if g == GravitySW || g == GravitySE {
		out.Y += r.Height - s.Height
	}
	out.Width = s.Width
	out.Height = s.Height
	return out
}

// MoveTo returns r with its origin at p.
func (r Rect) MoveTo(p Point) Rect {
	r.X = p.X
	r.Y = p.Y
	return r
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}
