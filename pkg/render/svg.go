package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/boardkit/boardkit/pkg/board"
	"github.com/boardkit/boardkit/pkg/frame"
	"github.com/boardkit/boardkit/pkg/geometry"
)

// Layer colors used when a layer carries no fill of its own.
const (
	defaultShapeFill = "#e8eaed"
	defaultNoteFill  = "#fff9c4"
	frameStroke      = "#9aa0a6"
	strokeColor      = "#202124"
)

// canvasMargin is the whitespace added around the content bounding box.
const canvasMargin = 40.0

type RenderOption func(*renderer)

type renderer struct {
	background string
	showTitles bool
}

// WithBackground sets the canvas background color. Default is white.
func WithBackground(color string) RenderOption {
	return func(r *renderer) { r.background = color }
}

// WithFrameTitles draws each frame's title above its outline.
func WithFrameTitles() RenderOption {
	return func(r *renderer) { r.showTitles = true }
}

// RenderSVG draws a board snapshot as a standalone SVG document.
//
// Layers paint in canvas order: frames first, parent frames before the
// frames they contain, then everything else in z-order. The viewBox is the
// union of all layer bounds plus a margin, so the output is cropped to the
// content rather than some fixed canvas size.
func RenderSVG(snap board.Snapshot, opts ...RenderOption) []byte {
	r := renderer{background: "white"}
	for _, opt := range opts {
		opt(&r)
	}

	order := frame.SortForRendering(snap.Order(), snap)

	viewBox := contentBounds(snap, order)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		viewBox.X, viewBox.Y, viewBox.Width, viewBox.Height, viewBox.Width, viewBox.Height)
	fmt.Fprintf(&buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
		viewBox.X, viewBox.Y, viewBox.Width, viewBox.Height, html.EscapeString(r.background))
	buf.WriteString(arrowheadDefs)

	for _, id := range order {
		l, ok := snap.Layer(id)
		if !ok {
			continue
		}
		renderLayer(&buf, &r, l)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

const arrowheadDefs = `  <defs>
    <marker id="arrowhead" markerWidth="10" markerHeight="7" refX="9" refY="3.5" orient="auto">
      <polygon points="0 0, 10 3.5, 0 7" fill="#202124"/>
    </marker>
  </defs>
`

func contentBounds(snap board.Snapshot, order []board.LayerID) geometry.Bounds {
	var bbox geometry.Bounds
	first := true
	for _, id := range order {
		l, ok := snap.Layer(id)
		if !ok {
			continue
		}
		if first {
			bbox = l.Bounds()
			first = false
			continue
		}
		bbox = bbox.Union(l.Bounds())
	}

	bbox.X -= canvasMargin
	bbox.Y -= canvasMargin
	bbox.Width += 2 * canvasMargin
	bbox.Height += 2 * canvasMargin
	return bbox.Sanitize()
}

func renderLayer(buf *bytes.Buffer, r *renderer, l board.Layer) {
	switch l.Kind {
	case board.KindFrame:
		renderFrame(buf, r, l)
	case board.KindEllipse:
		b := l.Bounds()
		fmt.Fprintf(buf, `  <ellipse cx="%.1f" cy="%.1f" rx="%.1f" ry="%.1f" fill="%s" stroke="%s"/>`+"\n",
			b.Center().X, b.Center().Y, b.Width/2, b.Height/2, fill(l, defaultShapeFill), strokeColor)
	case board.KindNote:
		fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s"/>`+"\n",
			l.X, l.Y, l.Width, l.Height, fill(l, defaultNoteFill), strokeColor)
		renderText(buf, l)
	case board.KindText:
		renderText(buf, l)
	case board.KindLine:
		fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2"/>`+"\n",
			l.X, l.Y, l.X+l.Width, l.Y+l.Height, strokeColor)
	case board.KindArrow:
		renderArrow(buf, l)
	case board.KindPath:
		renderPath(buf, l)
	default:
		// rectangle, image, video, file: a plain box is the honest fallback
		fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s"/>`+"\n",
			l.X, l.Y, l.Width, l.Height, fill(l, defaultShapeFill), strokeColor)
	}
}

func renderFrame(buf *bytes.Buffer, r *renderer, l board.Layer) {
	fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="%s" stroke-width="1.5" stroke-dasharray="6 3"/>`+"\n",
		l.X, l.Y, l.Width, l.Height, frameStroke)
	if r.showTitles && l.Frame != nil && l.Frame.Title != "" {
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="12" fill="%s">%s</text>`+"\n",
			l.X, l.Y-6, frameStroke, html.EscapeString(l.Frame.Title))
	}
}

func renderText(buf *bytes.Buffer, l board.Layer) {
	if l.Value == "" {
		return
	}
	b := l.Bounds()
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="14" text-anchor="middle" dominant-baseline="middle" fill="%s">%s</text>`+"\n",
		b.Center().X, b.Center().Y, strokeColor, html.EscapeString(l.Value))
}

func renderArrow(buf *bytes.Buffer, l board.Layer) {
	start := geometry.Point{X: l.X, Y: l.Y}
	end := geometry.Point{X: l.X + l.Width, Y: l.Y + l.Height}
	if l.Arrow != nil {
		start, end = l.Arrow.Start, l.Arrow.End
	}
	fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2" marker-end="url(#arrowhead)"/>`+"\n",
		start.X, start.Y, end.X, end.Y, strokeColor)
}

func renderPath(buf *bytes.Buffer, l board.Layer) {
	if len(l.Points) == 0 {
		return
	}
	var pts bytes.Buffer
	for i, p := range l.Points {
		if i > 0 {
			pts.WriteByte(' ')
		}
		// Stroke points are stored relative to the layer origin.
		fmt.Fprintf(&pts, "%.1f,%.1f", l.X+p.X, l.Y+p.Y)
	}
	fmt.Fprintf(buf, `  <polyline points="%s" fill="none" stroke="%s" stroke-width="2" stroke-linecap="round" stroke-linejoin="round"/>`+"\n",
		pts.String(), strokeColor)
}

func fill(l board.Layer, fallback string) string {
	if l.Fill != "" {
		return html.EscapeString(l.Fill)
	}
	return fallback
}
