package frame

import (
	"slices"

	"github.com/boardkit/boardkit/pkg/board"
	"github.com/boardkit/boardkit/pkg/geometry"
)

// LayersInFrame returns the IDs of every layer overlapping the given frame,
// in snapshot z-order. The frame itself is excluded. The test is overlap,
// not containment: a layer dragged partway into the frame already counts.
// Returns nil if frameID does not name a frame.
func LayersInFrame(frameID board.LayerID, snap board.Snapshot) []board.LayerID {
	f, ok := snap.Layer(frameID)
	if !ok || !f.IsFrame() {
		return nil
	}
	fb := f.Bounds()

	var inside []board.LayerID
	for _, id := range snap.Order() {
		if id == frameID {
			continue
		}
		l, ok := snap.Layer(id)
		if !ok {
			continue
		}
		if l.Bounds().Overlaps(fb) {
			inside = append(inside, id)
		}
	}
	return inside
}

// SortForRendering orders layer IDs so that frames paint behind their
// content. Frames sort before all non-frames; among frames, a frame
// containing another sorts first. Frames with no containment relationship
// keep their original relative order.
//
// The result satisfies two invariants regardless of input order:
// no non-frame layer ever precedes a frame, and no parent frame ever
// follows a frame it contains.
func SortForRendering(ids []board.LayerID, snap board.Snapshot) []board.LayerID {
	var frames, rest []board.LayerID
	for _, id := range ids {
		l, ok := snap.Layer(id)
		if ok && l.IsFrame() {
			frames = append(frames, id)
		} else {
			rest = append(rest, id)
		}
	}

	slices.SortStableFunc(frames, func(a, b board.LayerID) int {
		la, okA := snap.Layer(a)
		lb, okB := snap.Layer(b)
		if !okA || !okB {
			return 0
		}
		ba, bb := la.Bounds(), lb.Bounds()
		switch {
		case ba.Contains(bb):
			return -1
		case bb.Contains(ba):
			return 1
		default:
			// No nesting relation: preserve snapshot order.
			return snap.Index(a) - snap.Index(b)
		}
	})

	return append(frames, rest...)
}

// ParentFrame returns the immediate parent frame of the given layer,
// walking the authoritative Children membership lists. The second return
// value is false when no frame lists the layer as a child.
func ParentFrame(id board.LayerID, snap board.Snapshot) (board.LayerID, bool) {
	for _, candidate := range snap.Order() {
		l, ok := snap.Layer(candidate)
		if !ok || !l.IsFrame() {
			continue
		}
		if slices.Contains(l.Children(), id) {
			return candidate, true
		}
	}
	return "", false
}

// Hierarchy returns the chain of ancestor frames for a layer, nearest
// parent first. The chain stops at the root or at the first cycle
// encountered in the membership lists (malformed input is tolerated, not
// reported).
func Hierarchy(id board.LayerID, snap board.Snapshot) []board.LayerID {
	var chain []board.LayerID
	visited := map[board.LayerID]bool{id: true}

	current := id
	for {
		parent, ok := ParentFrame(current, snap)
		if !ok || visited[parent] {
			return chain
		}
		visited[parent] = true
		chain = append(chain, parent)
		current = parent
	}
}

// EffectivePosition returns the absolute canvas position of a layer whose
// stored coordinates may be relative to an ancestor frame. Ancestor offsets
// accumulate child to root.
func EffectivePosition(id board.LayerID, snap board.Snapshot) geometry.Point {
	l, ok := snap.Layer(id)
	if !ok {
		return geometry.Point{}
	}
	pos := geometry.Point{X: l.X, Y: l.Y}
	for _, ancestor := range Hierarchy(id, snap) {
		f, ok := snap.Layer(ancestor)
		if !ok {
			continue
		}
		pos.X += f.X
		pos.Y += f.Y
	}
	return pos
}

// RelativeToAbsolute converts a frame-relative point to canvas space.
func RelativeToAbsolute(p geometry.Point, frame board.Layer) geometry.Point {
	return geometry.Point{X: p.X + frame.X, Y: p.Y + frame.Y}
}

// AbsoluteToRelative converts a canvas-space point to frame-relative
// coordinates. Exact inverse of [RelativeToAbsolute].
func AbsoluteToRelative(p geometry.Point, frame board.Layer) geometry.Point {
	return geometry.Point{X: p.X - frame.X, Y: p.Y - frame.Y}
}

// MovesIndependently reports whether a drag should move the layer on its
// own rather than letting it inherit movement from a dragged ancestor.
// A layer moves independently when it is itself selected, or when none of
// its ancestor frames are selected. Otherwise moving it again would
// double-apply the ancestor's translation.
func MovesIndependently(id board.LayerID, selected map[board.LayerID]bool, snap board.Snapshot) bool {
	if selected[id] {
		return true
	}
	for _, ancestor := range Hierarchy(id, snap) {
		if selected[ancestor] {
			return false
		}
	}
	return true
}
