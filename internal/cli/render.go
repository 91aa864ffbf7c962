package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/boardkit/boardkit/pkg/board"
	"github.com/boardkit/boardkit/pkg/errors"
	"github.com/boardkit/boardkit/pkg/observability"
	"github.com/boardkit/boardkit/pkg/render"
)

const defaultPNGScale = 2.0 // raster scale factor for PNG export

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // output file path (or base path for multiple outputs)
	formats    []string // output formats: "svg", "png", "pdf", "dot", "json"
	titles     bool     // draw frame titles above frame rectangles
	background string   // canvas background color
	detailed   bool     // include kind and size labels in DOT output
	scale      float64  // raster scale for PNG output
}

// renderCommand creates the render command for generating board artifacts.
// It renders the board itself (SVG and rasterizations of it) or the frame
// hierarchy as a Graphviz node-link diagram.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		titles: true,
		scale:  defaultPNGScale,
	}

	cmd := &cobra.Command{
		Use:   "render [board.json]",
		Short: "Render a board to SVG, PNG, PDF, or DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.titles, "titles", opts.titles, "draw frame titles")
	cmd.Flags().StringVar(&opts.background, "background", "", "canvas background color (default transparent)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include kind and size labels in DOT output")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "raster scale factor for PNG output")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{"svg"}
	}
	return strings.Split(s, ",")
}

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{"svg": true, "png": true, "pdf": true, "dot": true, "json": true}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return fmt.Errorf("invalid format: %s (must be 'svg', 'png', 'pdf', 'dot', or 'json')", f)
		}
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output has a
// format extension, it strips that extension. Used when generating multiple
// files (e.g., board.svg, board.png).
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// runRender loads the board and renders it to the requested formats.
func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	c.Logger.Infof("Rendering %s", input)

	b, err := board.ReadBoardFile(input)
	if err != nil {
		return err
	}
	snap := b.Snapshot()
	c.Logger.Infof("Loaded board: %d layers", snap.Len())

	if len(opts.formats) == 1 {
		outputPath := opts.output
		if outputPath == "" {
			outputPath = basePath("", input) + "." + opts.formats[0]
		}
		return c.renderAndWrite(ctx, b, opts.formats[0], outputPath, opts)
	}

	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		path := fmt.Sprintf("%s.%s", base, format)
		if err := c.renderAndWrite(ctx, b, format, path, opts); err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}
	}
	return nil
}

// renderAndWrite renders one format and writes it to path.
func (c *CLI) renderAndWrite(ctx context.Context, b board.Board, format, path string, opts *renderOpts) error {
	observability.Engine().OnRenderStart(ctx, format)
	start := time.Now()
	data, err := c.renderBoard(b, format, opts)
	observability.Engine().OnRenderComplete(ctx, format, time.Since(start), err)
	if err != nil {
		return err
	}
	c.Logger.Debugf("Generated %s: %d bytes", format, len(data))

	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return err
	}

	c.Logger.Infof("Generated %s", path)
	return nil
}

// renderBoard dispatches to the appropriate renderer based on format.
// PNG and PDF rasterize through rsvg-convert, which can take a moment on
// large boards, so those run under a spinner.
func (c *CLI) renderBoard(b board.Board, format string, opts *renderOpts) ([]byte, error) {
	snap := b.Snapshot()

	svgOpts := []render.RenderOption{}
	if opts.titles {
		svgOpts = append(svgOpts, render.WithFrameTitles())
	}
	if opts.background != "" {
		svgOpts = append(svgOpts, render.WithBackground(opts.background))
	}

	switch format {
	case "svg":
		return render.RenderSVG(snap, svgOpts...), nil
	case "png":
		svg := render.RenderSVG(snap, svgOpts...)
		spin := newSpinner("Rasterizing PNG")
		spin.Start()
		data, err := render.ToPNG(svg, opts.scale)
		spin.Stop()
		return data, err
	case "pdf":
		svg := render.RenderSVG(snap, svgOpts...)
		spin := newSpinner("Rasterizing PDF")
		spin.Start()
		data, err := render.ToPDF(svg)
		spin.Stop()
		return data, err
	case "dot":
		return []byte(render.HierarchyDOT(snap, render.DOTOptions{Detailed: opts.detailed})), nil
	case "json":
		return board.MarshalBoard(b)
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// =============================================================================
// Output Helpers
// =============================================================================

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	return os.Create(path)
}
