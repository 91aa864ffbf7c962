package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/boardkit/boardkit/pkg/board"
	"github.com/boardkit/boardkit/pkg/frame"
)

// DOTOptions configures hierarchy diagram generation.
type DOTOptions struct {
	// Detailed includes layer kind and bounds in node labels.
	// When false, only the layer's display name is shown.
	Detailed bool
}

// HierarchyDOT converts a snapshot's frame containment tree to Graphviz DOT
// format. Each frame points at its children; layers outside any frame hang
// off a synthetic canvas root. The resulting DOT string can be rendered
// with [RenderDOT].
func HierarchyDOT(snap board.Snapshot, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph board {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	buf.WriteString("  \"canvas\" [label=\"canvas\", fillcolor=lightgrey];\n")
	for _, id := range snap.Order() {
		l, ok := snap.Layer(id)
		if !ok {
			continue
		}
		label := fmtLabel(l, opts.Detailed)
		attrs := fmtAttrs(l, label)
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, id := range snap.Order() {
		parent, ok := frame.ParentFrame(id, snap)
		if !ok {
			fmt.Fprintf(&buf, "  \"canvas\" -> %q;\n", id)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", parent, id)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(l board.Layer, detailed bool) string {
	name := displayName(l)
	if !detailed {
		return name
	}

	parts := []string{
		fmt.Sprintf("kind: %s", l.Kind),
		fmt.Sprintf("at: %.0f,%.0f", l.X, l.Y),
		fmt.Sprintf("size: %.0fx%.0f", l.Width, l.Height),
	}
	return name + "\n" + strings.Join(parts, "\n")
}

func displayName(l board.Layer) string {
	if l.IsFrame() && l.Frame != nil && l.Frame.Title != "" {
		return l.Frame.Title
	}
	if l.Value != "" {
		return l.Value
	}
	return string(l.ID)
}

func fmtAttrs(l board.Layer, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if l.IsFrame() {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightyellow")
	}
	return attrs
}

// RenderDOT renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with
// [ToPDF] or [ToPNG].
func RenderDOT(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
