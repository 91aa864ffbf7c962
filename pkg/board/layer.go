package board

import (
	"github.com/google/uuid"

	"github.com/boardkit/boardkit/pkg/geometry"
)

// LayerID is an opaque key into a board's layer map.
type LayerID string

// NewLayerID mints a fresh random layer ID.
func NewLayerID() LayerID { return LayerID(uuid.NewString()) }

// Kind discriminates layer variants.
type Kind string

// Layer kinds.
const (
	KindRectangle Kind = "rectangle"
	KindEllipse   Kind = "ellipse"
	KindNote      Kind = "note"
	KindText      Kind = "text"
	KindPath      Kind = "path"
	KindArrow     Kind = "arrow"
	KindLine      Kind = "line"
	KindFrame     Kind = "frame"
	KindImage     Kind = "image"
	KindVideo     Kind = "video"
	KindFile      Kind = "file"
)

// validKinds is the set of kinds accepted during deserialization.
var validKinds = map[Kind]bool{
	KindRectangle: true, KindEllipse: true, KindNote: true, KindText: true,
	KindPath: true, KindArrow: true, KindLine: true, KindFrame: true,
	KindImage: true, KindVideo: true, KindFile: true,
}

// Layer is the unified layer type for all serialization contexts.
//
// This is a discriminated union - check Kind to determine which payload
// fields are populated:
//
//	Frame ("frame"):
//	  - Frame: children membership and auto-resize flag
//
//	Arrow ("arrow"):
//	  - Arrow: endpoints and snap targets
//
//	Path ("path"):
//	  - Points: freehand stroke points, relative to (X, Y)
//
// Every variant carries position and size. Width and Height must be
// non-negative; deserialization rejects anything else.
type Layer struct {
	ID   LayerID `json:"id" bson:"id"`
	Kind Kind    `json:"kind" bson:"kind"`

	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`

	// Presentation
	Fill  string `json:"fill,omitempty" bson:"fill,omitempty"`
	Value string `json:"value,omitempty" bson:"value,omitempty"` // text/note content

	// Variant payloads
	Frame  *FrameData       `json:"frame,omitempty" bson:"frame,omitempty"`
	Arrow  *ArrowData       `json:"arrow,omitempty" bson:"arrow,omitempty"`
	Points []geometry.Point `json:"points,omitempty" bson:"points,omitempty"`
}

// FrameData is the frame-only payload. The Children list is the
// authoritative membership used for hierarchy walks; it is distinct from
// the overlap-derived "layers inside frame" set, which is recomputed on
// demand and only folded back into Children on explicit membership commits
// (an external responsibility).
type FrameData struct {
	Title      string    `json:"title,omitempty" bson:"title,omitempty"`
	Children   []LayerID `json:"children,omitempty" bson:"children,omitempty"`
	AutoResize bool      `json:"auto_resize,omitempty" bson:"auto_resize,omitempty"`
}

// ArrowData is the arrow-only payload. Start and End are absolute canvas
// points; StartLayer/EndLayer record which layer each endpoint is snapped
// to, if any.
type ArrowData struct {
	Start      geometry.Point `json:"start" bson:"start"`
	End        geometry.Point `json:"end" bson:"end"`
	StartLayer LayerID        `json:"start_layer,omitempty" bson:"start_layer,omitempty"`
	EndLayer   LayerID        `json:"end_layer,omitempty" bson:"end_layer,omitempty"`
}

// IsFrame reports whether the layer is a frame.
func (l *Layer) IsFrame() bool { return l.Kind == KindFrame }

// IsTextual reports whether the layer is text-like content (text or note).
// Used by the auto-resize padding heuristics.
func (l *Layer) IsTextual() bool { return l.Kind == KindText || l.Kind == KindNote }

// IsShape reports whether the layer is a plain geometric shape.
func (l *Layer) IsShape() bool { return l.Kind == KindRectangle || l.Kind == KindEllipse }

// Bounds returns the layer's bounding box.
func (l *Layer) Bounds() geometry.Bounds {
	return geometry.Bounds{X: l.X, Y: l.Y, Width: l.Width, Height: l.Height}
}

// WithBounds returns a copy of the layer moved and sized to b.
// Layers are value types; the receiver is not modified.
func (l Layer) WithBounds(b geometry.Bounds) Layer {
	l.X, l.Y, l.Width, l.Height = b.X, b.Y, b.Width, b.Height
	return l
}

// Children returns the frame's children list, or nil for non-frames.
func (l *Layer) Children() []LayerID {
	if l.Frame == nil {
		return nil
	}
	return l.Frame.Children
}

// AutoResize reports whether the layer is a frame with auto-resize enabled.
func (l *Layer) AutoResize() bool {
	return l.Frame != nil && l.Frame.AutoResize
}
