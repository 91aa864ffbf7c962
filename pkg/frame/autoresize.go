package frame

import (
	"math"

	"github.com/boardkit/boardkit/pkg/board"
	"github.com/boardkit/boardkit/pkg/geometry"
)

// =============================================================================
// Defaults - Single Source of Truth for CLI, API, and caller tick loops
// =============================================================================

const (
	// MinFrameWidth is the smallest width auto-resize may produce.
	MinFrameWidth = 100.0

	// MinFrameHeight is the smallest height auto-resize may produce.
	MinFrameHeight = 80.0

	// DefaultPadding is the base padding between content and frame edge.
	DefaultPadding = 40.0

	// DefaultThreshold is the hysteresis threshold for ShouldResize.
	// Deltas below it (summed per axis) are treated as noise.
	DefaultThreshold = 10.0

	// DefaultInterpolationFactor is the per-tick lerp factor for animated
	// resizing.
	DefaultInterpolationFactor = 0.3

	// TargetAspectRatio is the width/height ratio enforced when
	// PreserveAspectRatio is set (16:10).
	TargetAspectRatio = 16.0 / 10.0
)

// densityReferenceArea normalizes content area for the smart-padding
// density factor: one layer per this many square units counts as density 1.
const densityReferenceArea = 100000.0

// OptimalOptions configures OptimalBounds.
type OptimalOptions struct {
	// MinPadding is the base padding around content. Zero means
	// DefaultPadding.
	MinPadding float64

	// SmartPadding scales padding by content density and nudges it by
	// content type: sparse frames get tighter padding, dense ones get more
	// breathing room, text-only content 0.8x, shape-heavy content 1.2x.
	SmartPadding bool

	// PreserveAspectRatio grows the smaller dimension until the result
	// matches TargetAspectRatio.
	PreserveAspectRatio bool

	// FrameRef, when set, clips each child's contribution to its
	// intersection with this reference frame, so only the visible in-frame
	// portion of partially-overlapping children drives the result.
	FrameRef *geometry.Bounds
}

// OptimalBounds computes the bounds a frame should adopt to fit the given
// child layers: the union of their boxes plus padding, floored at the frame
// minimum size. With no children (or no children intersecting FrameRef) it
// returns the minimum-size frame at the reference origin.
func OptimalBounds(layers []board.Layer, opts OptimalOptions) geometry.Bounds {
	padding := opts.MinPadding
	if padding <= 0 {
		padding = DefaultPadding
	}

	var union geometry.Bounds
	count := 0
	textual, shapes := 0, 0

	for i := range layers {
		lb := layers[i].Bounds()
		if opts.FrameRef != nil {
			clipped, ok := lb.Intersect(*opts.FrameRef)
			if !ok {
				continue
			}
			lb = clipped
		}
		if count == 0 {
			union = lb
		} else {
			union = union.Union(lb)
		}
		count++
		if layers[i].IsTextual() {
			textual++
		}
		if layers[i].IsShape() {
			shapes++
		}
	}

	if count == 0 {
		origin := geometry.Point{}
		if opts.FrameRef != nil {
			origin = geometry.Point{X: opts.FrameRef.X, Y: opts.FrameRef.Y}
		}
		return geometry.Bounds{X: origin.X, Y: origin.Y, Width: MinFrameWidth, Height: MinFrameHeight}
	}

	if opts.SmartPadding {
		padding *= smartPaddingFactor(union, count, textual, shapes)
	}

	result := geometry.Bounds{
		X:      union.X - padding,
		Y:      union.Y - padding,
		Width:  union.Width + 2*padding,
		Height: union.Height + 2*padding,
	}

	result.Width = math.Max(result.Width, MinFrameWidth)
	result.Height = math.Max(result.Height, MinFrameHeight)

	if opts.PreserveAspectRatio {
		result = growToAspectRatio(result, TargetAspectRatio)
	}

	return result.Sanitize()
}

// smartPaddingFactor derives a padding multiplier from content density and
// composition. Density is layer count per normalized area, clamped to
// [0.5, 2] so extreme boards cannot collapse or explode the padding.
func smartPaddingFactor(union geometry.Bounds, count, textual, shapes int) float64 {
	normalizedArea := math.Max(union.Area()/densityReferenceArea, 1)
	density := float64(count) / normalizedArea
	factor := math.Min(math.Max(density, 0.5), 2)

	switch {
	case textual == count:
		factor *= 0.8 // text blocks read fine with tighter margins
	case shapes*2 > count:
		factor *= 1.2
	}
	return factor
}

// growToAspectRatio grows the smaller dimension of b (around its center on
// that axis) until width/height equals ratio. It never shrinks.
func growToAspectRatio(b geometry.Bounds, ratio float64) geometry.Bounds {
	if b.Height <= 0 || ratio <= 0 {
		return b
	}
	current := b.Width / b.Height
	if current < ratio {
		target := b.Height * ratio
		b.X -= (target - b.Width) / 2
		b.Width = target
	} else if current > ratio {
		target := b.Width / ratio
		b.Y -= (target - b.Height) / 2
		b.Height = target
	}
	return b
}

// ShouldResize is the hysteresis gate for frame auto-resize: it reports
// whether the frame should adopt the optimal bounds. It fires only when the
// frame has auto-resize enabled and either the summed positional delta or
// the summed size delta exceeds the threshold (<=0 means
// DefaultThreshold). Sub-threshold deltas, typically rounding noise from
// interactive dragging, are ignored to prevent resize churn.
//
// This is the single authoritative resize decision; callers must not add
// their own boundary checks on top.
func ShouldResize(f board.Layer, optimal geometry.Bounds, threshold float64) bool {
	if !f.AutoResize() {
		return false
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	current := f.Bounds()
	posDelta := math.Abs(current.X-optimal.X) + math.Abs(current.Y-optimal.Y)
	sizeDelta := math.Abs(current.Width-optimal.Width) + math.Abs(current.Height-optimal.Height)

	return posDelta > threshold || sizeDelta > threshold
}

// Interpolate moves current toward target by the given factor per field.
// Callers invoke it once per animation tick until the remaining delta is
// visually negligible; factor<=0 means DefaultInterpolationFactor, and a
// factor of 1 snaps to the target immediately.
func Interpolate(current, target geometry.Bounds, factor float64) geometry.Bounds {
	if factor <= 0 {
		factor = DefaultInterpolationFactor
	}
	if factor > 1 {
		factor = 1
	}
	return geometry.Bounds{
		X:      geometry.Lerp(current.X, target.X, factor),
		Y:      geometry.Lerp(current.Y, target.Y, factor),
		Width:  geometry.Lerp(current.Width, target.Width, factor),
		Height: geometry.Lerp(current.Height, target.Height, factor),
	}.Sanitize()
}
