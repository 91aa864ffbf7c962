package geometry

// Side is a bitmask identifying which edges of a rectangle are being dragged
// during a resize. Combining two perpendicular sides (e.g. SideTop|SideLeft)
// identifies a corner handle.
type Side uint8

// Edge flags. Values match the wire representation used by pointer events.
const (
	SideTop    Side = 1
	SideBottom Side = 2
	SideLeft   Side = 4
	SideRight  Side = 8
)

// Has reports whether s includes the given edge.
func (s Side) Has(edge Side) bool { return s&edge != 0 }

// CornerPoint returns the point of b that the given side bitmask drags.
// For a single edge the point lies at the midpoint of that edge; for a
// corner it is the corner itself.
func CornerPoint(b Bounds, s Side) Point {
	p := Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
	if s.Has(SideLeft) {
		p.X = b.X
	}
	if s.Has(SideRight) {
		p.X = b.X + b.Width
	}
	if s.Has(SideTop) {
		p.Y = b.Y
	}
	if s.Has(SideBottom) {
		p.Y = b.Y + b.Height
	}
	return p
}

// String returns a readable name like "top|left" for debugging output.
func (s Side) String() string {
	names := ""
	appendName := func(n string) {
		if names != "" {
			names += "|"
		}
		names += n
	}
	if s.Has(SideTop) {
		appendName("top")
	}
	if s.Has(SideBottom) {
		appendName("bottom")
	}
	if s.Has(SideLeft) {
		appendName("left")
	}
	if s.Has(SideRight) {
		appendName("right")
	}
	if names == "" {
		return "none"
	}
	return names
}
