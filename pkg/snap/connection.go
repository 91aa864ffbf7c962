package snap

import "github.com/boardkit/boardkit/pkg/geometry"

const (
	// ConnectionMargin is how far connector handles float outside a
	// layer's edge midpoints.
	ConnectionMargin = 35.0

	// DefaultSnapDistance is the radius within which an arrow endpoint
	// snaps to a connection point.
	DefaultSnapDistance = 50.0
)

// ConnectionPoint is a spot on a layer's perimeter that an arrow endpoint
// can attach to.
type ConnectionPoint struct {
	Side  geometry.Side  `json:"side" bson:"side"`
	Point geometry.Point `json:"point" bson:"point"`
}

// ConnectionPoints returns the four connection points of a rectangle: the
// midpoint of each side, offset outward by ConnectionMargin.
func ConnectionPoints(b geometry.Bounds) [4]ConnectionPoint {
	cx, cy := b.Center().X, b.Center().Y
	return [4]ConnectionPoint{
		{Side: geometry.SideTop, Point: geometry.Point{X: cx, Y: b.Top() - ConnectionMargin}},
		{Side: geometry.SideBottom, Point: geometry.Point{X: cx, Y: b.Bottom() + ConnectionMargin}},
		{Side: geometry.SideLeft, Point: geometry.Point{X: b.Left() - ConnectionMargin, Y: cy}},
		{Side: geometry.SideRight, Point: geometry.Point{X: b.Right() + ConnectionMargin, Y: cy}},
	}
}

// NearestConnection finds the connection point closest to an arrow
// endpoint, provided it lies within snapDistance (<=0 means
// DefaultSnapDistance) and the endpoint is not already snapped to
// something. The second return value reports whether a snap applies.
func NearestConnection(endpoint geometry.Point, points []ConnectionPoint, snapDistance float64, alreadySnapped bool) (ConnectionPoint, bool) {
	if alreadySnapped || len(points) == 0 {
		return ConnectionPoint{}, false
	}
	if snapDistance <= 0 {
		snapDistance = DefaultSnapDistance
	}

	best := -1
	bestDist := snapDistance
	for i, cp := range points {
		if d := endpoint.Distance(cp.Point); d <= bestDist {
			best = i
			bestDist = d
		}
	}
	if best < 0 {
		return ConnectionPoint{}, false
	}
	return points[best], true
}
