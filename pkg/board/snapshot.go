package board

// Snapshot is an immutable view of a board's layers at a point in time.
// The geometry engine computes over snapshots and never writes back to
// them; proposed changes are returned to the caller as new values.
//
// Construction copies both the layer map and the order slice, so a
// snapshot stays valid even if the caller keeps mutating its own copies.
type Snapshot struct {
	layers map[LayerID]Layer
	order  []LayerID
}

// NewSnapshot builds a snapshot from a layer map and the board's z-order.
// IDs present in order but missing from layers are dropped. Layers absent
// from the order list are unreachable through the snapshot; callers are
// expected to pass a complete order.
func NewSnapshot(layers map[LayerID]Layer, order []LayerID) Snapshot {
	m := make(map[LayerID]Layer, len(layers))
	for id, l := range layers {
		m[id] = l
	}
	o := make([]LayerID, 0, len(order))
	for _, id := range order {
		if _, ok := m[id]; ok {
			o = append(o, id)
		}
	}
	return Snapshot{layers: m, order: o}
}

// Layer returns the layer with the given ID.
func (s Snapshot) Layer(id LayerID) (Layer, bool) {
	l, ok := s.layers[id]
	return l, ok
}

// Order returns a copy of the z-ordered layer ID list.
func (s Snapshot) Order() []LayerID {
	out := make([]LayerID, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of layers in the snapshot.
func (s Snapshot) Len() int { return len(s.order) }

// Index returns the position of id in the z-order, or -1 if absent.
// Used as the stable tiebreaker when sorting for rendering.
func (s Snapshot) Index(id LayerID) int {
	for i, o := range s.order {
		if o == id {
			return i
		}
	}
	return -1
}

// Layers returns the layers in z-order.
func (s Snapshot) Layers() []Layer {
	out := make([]Layer, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.layers[id])
	}
	return out
}
