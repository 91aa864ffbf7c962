// Package snap implements pointer constraint helpers: shift-constrained
// angles and squares, aspect-ratio-locked resizing, and the connection
// points used to attach arrow endpoints to layers.
//
// Like pkg/geometry, everything here is a pure computation over value
// types, safe to call on every pointer-move event.
package snap

import (
	"math"

	"github.com/boardkit/boardkit/pkg/geometry"
)

// angleStep is the snap increment for constrained lines: 45 degrees.
const angleStep = math.Pi / 4

// ConstrainToAngle snaps the vector origin→current to the nearest 45
// degree increment, preserving the vector's magnitude. Used for
// shift-constrained line and arrow drawing. A zero-length vector is
// returned unchanged.
func ConstrainToAngle(origin, current geometry.Point) geometry.Point {
	dx := current.X - origin.X
	dy := current.Y - origin.Y
	magnitude := math.Hypot(dx, dy)
	if magnitude == 0 {
		return current
	}

	angle := math.Atan2(dy, dx)
	snapped := math.Round(angle/angleStep) * angleStep

	return geometry.Point{
		X: origin.X + magnitude*math.Cos(snapped),
		Y: origin.Y + magnitude*math.Sin(snapped),
	}
}

// ConstrainToSquare forces the vector origin→current to equal extents on
// both axes, using the smaller magnitude and preserving each axis's sign.
// Used for shift-constrained rectangle and ellipse creation.
func ConstrainToSquare(origin, current geometry.Point) geometry.Point {
	dx := current.X - origin.X
	dy := current.Y - origin.Y
	size := math.Min(math.Abs(dx), math.Abs(dy))

	return geometry.Point{
		X: origin.X + math.Copysign(size, dx),
		Y: origin.Y + math.Copysign(size, dy),
	}
}

// ConstrainResizeToAspectRatio resizes bounds as geometry.ResizeBounds
// does, then corrects whichever dimension the drag changed less so that
// width/height equals ratio. Edges not covered by side stay anchored; a
// drag from the top or left repositions the box so the bottom/right edge
// holds still. Results are floored at geometry.MinSize per axis by scaling
// both dimensions together, so the ratio survives the floor.
func ConstrainResizeToAspectRatio(b geometry.Bounds, side geometry.Side, p geometry.Point, ratio float64) geometry.Bounds {
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		ratio = 1
	}

	r := geometry.ResizeBounds(b, side, p)

	widthDelta := math.Abs(r.Width - b.Width)
	heightDelta := math.Abs(r.Height - b.Height)
	if widthDelta >= heightDelta {
		r.Height = r.Width / ratio
	} else {
		r.Width = r.Height * ratio
	}

	// Scale both axes up together if either fell below the floor.
	scale := math.Max(1, math.Max(geometry.MinSize/math.Max(r.Width, 1e-9), geometry.MinSize/math.Max(r.Height, 1e-9)))
	r.Width *= scale
	r.Height *= scale

	// Re-anchor the edges the drag is not moving.
	if side.Has(geometry.SideLeft) {
		r.X = b.Right() - r.Width
	} else {
		r.X = b.X
	}
	if side.Has(geometry.SideTop) {
		r.Y = b.Bottom() - r.Height
	} else {
		r.Y = b.Y
	}

	return r.Sanitize()
}
