package frame

import (
	"github.com/boardkit/boardkit/pkg/board"
	"github.com/boardkit/boardkit/pkg/geometry"
)

// IntersectingLayerIDs returns the layers a marquee selection built from
// two free-form corner points should pick up, in snapshot z-order.
//
// The selection policy differs by layer kind: frames are selected only when
// the marquee fully contains them, every other kind is selected on any
// overlap. Without the asymmetry, sweeping across a frame's contents would
// constantly grab the frame itself.
func IntersectingLayerIDs(snap board.Snapshot, a, b geometry.Point) []board.LayerID {
	marquee := geometry.BoundsFromPoints(a, b)

	var selected []board.LayerID
	for _, id := range snap.Order() {
		l, ok := snap.Layer(id)
		if !ok {
			continue
		}
		lb := l.Bounds()
		if l.IsFrame() {
			if marquee.Contains(lb) {
				selected = append(selected, id)
			}
			continue
		}
		if marquee.Overlaps(lb) {
			selected = append(selected, id)
		}
	}
	return selected
}
