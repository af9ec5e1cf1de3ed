// Package geom holds the coordinate primitives shared by buffer
// addressing and canvas resizing. Components are non-negative by
// contract: constructing an XY or Rect with negative fields is a
// caller bug, not something the consumers re-check.
package geom

// XY is a 2D coordinate or dimension pair.
type XY struct {
	X, Y int
}

// Pt is a convenience constructor for XY.
func Pt(x, y int) XY {
	return XY{X: x, Y: y}
}

// Rect is an axis-aligned region given as origin plus size, in the
// coordinate space of the buffer it clips.
type Rect struct {
	X, Y int
	W, H int
}

// RectOf is a convenience constructor for Rect.
func RectOf(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Empty reports whether the rect covers no pixels.
func (r Rect) Empty() bool {
	return r.W == 0 || r.H == 0
}
