// Package render turns board snapshots into visual outputs.
//
// # Overview
//
// Two renderers live here:
//
//   - Board SVG: draws every layer of a snapshot in canvas paint order, so
//     frames sit behind their contents and nested frames behind their
//     children. See [RenderSVG].
//   - Hierarchy diagrams: draws the frame containment tree as a directed
//     graph using Graphviz. See [HierarchyDOT] and [RenderDOT].
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both renderers share them.
//
//	svg := render.RenderSVG(snap)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
package render
