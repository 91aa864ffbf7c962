// Package geometry provides the 2D primitives for canvas layout computation.
//
// All types are immutable value types: functions take bounds and points by
// value and return new values, never mutating their inputs. This keeps every
// operation deterministic, which collaborative callers rely on to keep
// replicas convergent after applying the same function to the same inputs.
//
// # Coordinate Space
//
// All coordinates live in a single canvas space with X growing right and Y
// growing down (screen convention). A Bounds is an axis-aligned rectangle
// anchored at its top-left corner with non-negative width and height.
//
// # Degenerate Input
//
// Functions in this package never panic or return errors. Degenerate input
// (zero-size rectangles, coincident drag points) is handled by clamping:
// sizes are floored, division denominators are guarded, and non-finite
// intermediate values are replaced before they can propagate. This code runs
// inline during interactive dragging, so a best-effort geometric result is
// always preferable to a failure.
package geometry
