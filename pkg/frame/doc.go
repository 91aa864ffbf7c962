// Package frame resolves frame containment, hierarchy, render order, and
// frame auto-resize for board snapshots.
//
// # Two Notions of Membership
//
// A layer relates to a frame in two distinct ways, and the two are not
// required to agree:
//
//   - Overlap membership is geometric and recomputed on demand. It is
//     deliberately permissive (any shared area counts) so that a layer being
//     dragged halfway into a frame already participates in auto-resize.
//     Overlap uses open intervals: a layer flush against a frame edge is
//     not yet inside.
//   - List membership is the Children list on the frame payload. It is the
//     authoritative hierarchy used for coordinate conversion and movement
//     inheritance, and only changes on explicit membership commits made by
//     the caller.
//
// Containment (closed intervals) is stricter than overlap and is used only
// where full enclosure matters, such as marquee selection of frames.
//
// # Auto-Resize
//
// Frames with auto-resize enabled adapt to their content. The engine is
// driven externally: the caller computes [OptimalBounds] whenever content
// changes, gates the decision through [ShouldResize] (a hysteresis check
// that suppresses churn from sub-pixel deltas), and animates toward the
// target with repeated [Interpolate] calls on its own tick loop. Nothing in
// this package keeps timers or state between calls.
package frame
