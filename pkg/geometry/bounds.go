package geometry

import "math"

// MinSize is the smallest width or height a resize operation may produce.
// Anything below this becomes impossible to grab again with a pointer.
const MinSize = 5.0

// Bounds is an axis-aligned rectangle anchored at its top-left corner.
// Width and Height are expected to be non-negative; constructors in this
// package guarantee it, external callers must clamp.
type Bounds struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// BoundsFromPoints builds the bounding rectangle of two free-form corner
// points, in any order.
func BoundsFromPoints(a, b Point) Bounds {
	return Bounds{
		X:      math.Min(a.X, b.X),
		Y:      math.Min(a.Y, b.Y),
		Width:  math.Abs(a.X - b.X),
		Height: math.Abs(a.Y - b.Y),
	}
}

// Left returns the left edge X coordinate.
func (b Bounds) Left() float64 { return b.X }

// Right returns the right edge X coordinate.
func (b Bounds) Right() float64 { return b.X + b.Width }

// Top returns the top edge Y coordinate.
func (b Bounds) Top() float64 { return b.Y }

// Bottom returns the bottom edge Y coordinate.
func (b Bounds) Bottom() float64 { return b.Y + b.Height }

// Center returns the center point of the rectangle.
func (b Bounds) Center() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Area returns the rectangle's area.
func (b Bounds) Area() float64 { return b.Width * b.Height }

// Translate returns b shifted by (dx, dy).
func (b Bounds) Translate(dx, dy float64) Bounds {
	return Bounds{X: b.X + dx, Y: b.Y + dy, Width: b.Width, Height: b.Height}
}

// Contains reports whether inner lies entirely within b.
// Comparisons are closed: an inner rectangle flush against an edge of b
// still counts as contained.
func (b Bounds) Contains(inner Bounds) bool {
	return inner.Left() >= b.Left() &&
		inner.Top() >= b.Top() &&
		inner.Right() <= b.Right() &&
		inner.Bottom() <= b.Bottom()
}

// ContainsPoint reports whether p lies within b (edges inclusive).
func (b Bounds) ContainsPoint(p Point) bool {
	return p.X >= b.Left() && p.X <= b.Right() &&
		p.Y >= b.Top() && p.Y <= b.Bottom()
}

// Overlaps reports whether b and o share any area. Comparisons are open:
// rectangles that merely touch along an edge do not overlap. This is
// intentionally stricter than Contains on the boundary; see the package
// documentation in pkg/frame for how the two tests are combined.
func (b Bounds) Overlaps(o Bounds) bool {
	return b.Left() < o.Right() && b.Right() > o.Left() &&
		b.Top() < o.Bottom() && b.Bottom() > o.Top()
}

// Union returns the minimal rectangle containing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	left := math.Min(b.Left(), o.Left())
	top := math.Min(b.Top(), o.Top())
	right := math.Max(b.Right(), o.Right())
	bottom := math.Max(b.Bottom(), o.Bottom())
	return Bounds{X: left, Y: top, Width: right - left, Height: bottom - top}
}

// Intersect returns the overlapping region of b and o. The second return
// value is false when the rectangles share no area, in which case the
// returned bounds are zero.
func (b Bounds) Intersect(o Bounds) (Bounds, bool) {
	left := math.Max(b.Left(), o.Left())
	top := math.Max(b.Top(), o.Top())
	right := math.Min(b.Right(), o.Right())
	bottom := math.Min(b.Bottom(), o.Bottom())
	if right <= left || bottom <= top {
		return Bounds{}, false
	}
	return Bounds{X: left, Y: top, Width: right - left, Height: bottom - top}, true
}

// Sanitize replaces non-finite fields with zero and clamps negative sizes.
// Call it after arithmetic that may have divided by a zero dimension.
func (b Bounds) Sanitize() Bounds {
	b.X = finiteOr(b.X, 0)
	b.Y = finiteOr(b.Y, 0)
	b.Width = math.Max(finiteOr(b.Width, 0), 0)
	b.Height = math.Max(finiteOr(b.Height, 0), 0)
	return b
}

// finiteOr returns v unless it is NaN or infinite, in which case it
// returns fallback.
func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// Lerp linearly interpolates between a and b by factor t.
// t=0 returns a, t=1 returns b.
func Lerp(a, b, t float64) float64 { return a + (b-a)*t }
