package geometry

import "math"

// ResizeBounds returns b resized so that the edges named by side move to p
// while the opposite edges stay anchored. Horizontal and vertical edges are
// evaluated independently, so a single edge flag produces an edge drag and
// two perpendicular flags produce a corner drag.
//
// Dragging past the opposite edge flips the rectangle instead of producing a
// negative size: the min/abs formulation makes the opposite edge the new
// anchor automatically, with no special-casing.
func ResizeBounds(b Bounds, side Side, p Point) Bounds {
	result := b

	if side.Has(SideLeft) {
		result.X = math.Min(p.X, b.Right())
		result.Width = math.Abs(b.Right() - p.X)
	}
	if side.Has(SideRight) {
		result.X = math.Min(p.X, b.X)
		result.Width = math.Abs(p.X - b.X)
	}
	if side.Has(SideTop) {
		result.Y = math.Min(p.Y, b.Bottom())
		result.Height = math.Abs(b.Bottom() - p.Y)
	}
	if side.Has(SideBottom) {
		result.Y = math.Min(p.Y, b.Y)
		result.Height = math.Abs(p.Y - b.Y)
	}

	return result.Sanitize()
}
