package render

import (
	"strings"
	"testing"

	"github.com/boardkit/boardkit/pkg/board"
	"github.com/boardkit/boardkit/pkg/geometry"
)

func testSnapshot() board.Snapshot {
	layers := map[board.LayerID]board.Layer{
		"frame": {
			ID: "frame", Kind: board.KindFrame,
			X: 0, Y: 0, Width: 400, Height: 300,
			Frame: &board.FrameData{Title: "Sprint 12", Children: []board.LayerID{"note"}},
		},
		"note": {
			ID: "note", Kind: board.KindNote,
			X: 20, Y: 20, Width: 120, Height: 80,
			Value: "ship it",
		},
		"circle": {
			ID: "circle", Kind: board.KindEllipse,
			X: 500, Y: 50, Width: 100, Height: 100,
			Fill: "#ff8888",
		},
		"stroke": {
			ID: "stroke", Kind: board.KindPath,
			X: 600, Y: 200,
			Points: []geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 5}, {X: 20, Y: 0}},
		},
		"link": {
			ID: "link", Kind: board.KindArrow,
			Arrow: &board.ArrowData{
				Start: geometry.Point{X: 140, Y: 60},
				End:   geometry.Point{X: 500, Y: 100},
			},
		},
	}
	// Frame deliberately last: paint order must not depend on input order.
	order := []board.LayerID{"note", "circle", "stroke", "link", "frame"}
	return board.NewSnapshot(layers, order)
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(testSnapshot(), WithFrameTitles()))

	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg"`) {
		t.Fatalf("missing svg root: %s", svg[:60])
	}
	if !strings.HasSuffix(strings.TrimSpace(svg), "</svg>") {
		t.Error("unterminated document")
	}

	for _, want := range []string{
		"stroke-dasharray", // frame outline
		"Sprint 12",        // frame title
		"ship it",          // note text
		"<ellipse",
		`fill="#ff8888"`,
		"<polyline",
		"marker-end=\"url(#arrowhead)\"",
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("output missing %q", want)
		}
	}

	// The frame must paint before the note it contains.
	if strings.Index(svg, "stroke-dasharray") > strings.Index(svg, "ship it") {
		t.Error("frame painted after its content")
	}
}

func TestRenderSVGEscapesText(t *testing.T) {
	layers := map[board.LayerID]board.Layer{
		"t": {ID: "t", Kind: board.KindText, X: 0, Y: 0, Width: 100, Height: 20, Value: `<script>alert("x")</script>`},
	}
	svg := string(RenderSVG(board.NewSnapshot(layers, []board.LayerID{"t"})))

	if strings.Contains(svg, "<script>") {
		t.Error("text content not escaped")
	}
	if !strings.Contains(svg, "&lt;script&gt;") {
		t.Error("expected escaped text content")
	}
}

func TestRenderSVGDeterministic(t *testing.T) {
	snap := testSnapshot()
	a := RenderSVG(snap)
	b := RenderSVG(snap)
	if string(a) != string(b) {
		t.Error("same snapshot rendered differently")
	}
}

func TestRenderSVGEmptySnapshot(t *testing.T) {
	svg := string(RenderSVG(board.NewSnapshot(nil, nil)))
	if !strings.Contains(svg, "<svg") || !strings.Contains(svg, "</svg>") {
		t.Errorf("empty snapshot should still yield a document: %s", svg)
	}
	if strings.Contains(svg, "NaN") {
		t.Error("non-finite values leaked into output")
	}
}

func TestHierarchyDOT(t *testing.T) {
	dot := HierarchyDOT(testSnapshot(), DOTOptions{})

	if !strings.HasPrefix(dot, "digraph board {") {
		t.Fatalf("unexpected header: %s", dot[:30])
	}
	if !strings.Contains(dot, `"frame" -> "note"`) {
		t.Error("missing frame -> note edge")
	}
	if !strings.Contains(dot, `"canvas" -> "circle"`) {
		t.Error("free layers should hang off the canvas root")
	}
	if strings.Contains(dot, `"canvas" -> "note"`) {
		t.Error("contained layer should not also hang off the canvas root")
	}

	// Detailed labels include kind and geometry.
	detailed := HierarchyDOT(testSnapshot(), DOTOptions{Detailed: true})
	if !strings.Contains(detailed, "kind: ellipse") || !strings.Contains(detailed, "size: 100x100") {
		t.Error("detailed labels missing metadata")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="8pt" height="6pt" viewBox="0.00 0.00 80.50 60.25" xmlns="http://www.w3.org/2000/svg">rest</svg>`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 80.50 60.25"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="80" height="60"`) {
		t.Errorf("dimensions not set from viewBox: %s", out)
	}

	// SVG without a viewBox passes through untouched.
	plain := []byte(`<svg>no box</svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("svg without viewBox should be unchanged")
	}
}
