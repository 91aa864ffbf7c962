package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/boardkit/boardkit/pkg/board"
	"github.com/boardkit/boardkit/pkg/config"
	"github.com/boardkit/boardkit/pkg/engine"
	"github.com/boardkit/boardkit/pkg/errors"
	"github.com/boardkit/boardkit/pkg/geometry"
	"github.com/boardkit/boardkit/pkg/masonry"
)

// geometryOpts holds the flags shared by all geometry commands.
type geometryOpts struct {
	output  string   // result JSON path, empty for stdout
	apply   string   // board path to write with the result applied
	targets []string // layer IDs to restrict the operation to
	noCache bool     // disable the layout cache
	refresh bool     // recompute even on a cache hit
}

// addGeometryFlags registers the shared flags on a geometry command.
func addGeometryFlags(cmd *cobra.Command, g *geometryOpts) {
	cmd.Flags().StringVarP(&g.output, "output", "o", "", "write the result JSON to this file (default: stdout)")
	cmd.Flags().StringVar(&g.apply, "apply", "", "write a board with the result applied to this file")
	cmd.Flags().StringSliceVar(&g.targets, "targets", nil, "restrict the operation to these layer IDs")
	cmd.Flags().BoolVar(&g.noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().BoolVar(&g.refresh, "refresh", false, "recompute even when a cached result exists")
}

// =============================================================================
// Commands
// =============================================================================

// masonryCommand creates the masonry command. Grid settings come from three
// layers: built-in defaults, the [masonry] config section, and flags, each
// overriding the previous.
func (c *CLI) masonryCommand() *cobra.Command {
	var g geometryOpts
	var settings masonry.Settings
	var align string
	var configPath string

	cmd := &cobra.Command{
		Use:   "masonry [board.json]",
		Short: "Pack layers into a column-balanced grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("columns") {
				settings.Columns = cfg.Masonry.Columns
			}
			if !cmd.Flags().Changed("gap-x") {
				settings.GapX = cfg.Masonry.GapX
			}
			if !cmd.Flags().Changed("gap-y") {
				settings.GapY = cfg.Masonry.GapY
			}
			settings.Alignment = masonry.Alignment(align)
			opts := engine.Options{
				Op:      engine.OpMasonry,
				Targets: layerIDs(g.targets),
				Masonry: settings,
				Refresh: g.refresh,
			}
			return c.runGeometry(cmd.Context(), args[0], opts, g)
		},
	}

	cmd.Flags().IntVar(&settings.Columns, "columns", 0, "number of columns (default 3)")
	cmd.Flags().Float64Var(&settings.GapX, "gap-x", 0, "horizontal gap between items (default 16)")
	cmd.Flags().Float64Var(&settings.GapY, "gap-y", 0, "vertical gap between items (default 16)")
	cmd.Flags().BoolVar(&settings.NormalizeWidth, "normalize", false, "resize items to the column width")
	cmd.Flags().StringVar(&align, "align", "", "grid alignment: left (default), center, right")
	cmd.Flags().StringVar(&configPath, "config", "boardkit.toml", "config file with [masonry] defaults")
	addGeometryFlags(cmd, &g)

	return cmd
}

// sortCommand creates the sort command.
func (c *CLI) sortCommand() *cobra.Command {
	var g geometryOpts

	cmd := &cobra.Command{
		Use:   "sort [board.json]",
		Short: "Compute canvas paint order (frames behind content)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := engine.Options{
				Op:      engine.OpSort,
				Targets: layerIDs(g.targets),
				Refresh: g.refresh,
			}
			return c.runGeometry(cmd.Context(), args[0], opts, g)
		},
	}

	addGeometryFlags(cmd, &g)
	return cmd
}

// autoresizeCommand creates the autoresize command. Tuning layers the same
// way masonry settings do: built-in defaults, then the [autoresize] config
// section, then flags.
func (c *CLI) autoresizeCommand() *cobra.Command {
	var g geometryOpts
	var configPath string
	opts := engine.Options{Op: engine.OpAutoResize}

	cmd := &cobra.Command{
		Use:   "autoresize [board.json]",
		Short: "Propose new bounds for auto-resizing frames",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("padding") {
				opts.Padding = cfg.AutoResize.Padding
			}
			if !cmd.Flags().Changed("threshold") {
				opts.Threshold = cfg.AutoResize.Threshold
			}
			if !cmd.Flags().Changed("factor") {
				opts.Factor = cfg.AutoResize.Factor
			}
			opts.Targets = layerIDs(g.targets)
			opts.Refresh = g.refresh
			return c.runGeometry(cmd.Context(), args[0], opts, g)
		},
	}

	cmd.Flags().Float64Var(&opts.Padding, "padding", 0, "minimum padding around frame content (default 40)")
	cmd.Flags().BoolVar(&opts.SmartPadding, "smart-padding", false, "scale padding with content density and kind")
	cmd.Flags().BoolVar(&opts.PreserveAspectRatio, "aspect", false, "preserve a 16:10 aspect ratio")
	cmd.Flags().Float64Var(&opts.Threshold, "threshold", 0, "minimum bounds delta before a resize fires (default 10)")
	cmd.Flags().Float64Var(&opts.Factor, "factor", 0, "interpolation factor per tick, in (0,1] (default 0.3)")
	cmd.Flags().BoolVar(&opts.ClipToFrame, "clip", false, "count only the in-frame portion of each child")
	cmd.Flags().StringVar(&configPath, "config", "boardkit.toml", "config file with [autoresize] defaults")
	addGeometryFlags(cmd, &g)

	return cmd
}

// selectCommand creates the select command.
func (c *CLI) selectCommand() *cobra.Command {
	var g geometryOpts
	var from, to string

	cmd := &cobra.Command{
		Use:   "select [board.json]",
		Short: "Resolve a marquee rectangle to the layers it picks up",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := parsePoint(from)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			b, err := parsePoint(to)
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}
			opts := engine.Options{
				Op:         engine.OpSelection,
				SelectionA: a,
				SelectionB: b,
				Refresh:    g.refresh,
			}
			return c.runGeometry(cmd.Context(), args[0], opts, g)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "marquee corner as x,y (required)")
	cmd.Flags().StringVar(&to, "to", "", "opposite marquee corner as x,y (required)")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	addGeometryFlags(cmd, &g)

	return cmd
}

// =============================================================================
// Execution
// =============================================================================

// runGeometry loads the board, executes the operation, prints a summary,
// and writes the requested outputs.
func (c *CLI) runGeometry(ctx context.Context, path string, opts engine.Options, g geometryOpts) error {
	b, err := board.ReadBoardFile(path)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(g.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, b, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Computed %s over %d layers", opts.Op, result.Stats.LayerCount))
	printLayerStats(result.Stats.LayerCount, result.CacheInfo.LayoutHit)

	if g.apply != "" {
		if err := errors.ValidatePath(g.apply); err != nil {
			return err
		}
		applied := applyResult(b, result)
		if err := board.WriteBoardFile(applied, g.apply); err != nil {
			return err
		}
		printFile(g.apply)
	}

	return writeResultJSON(result, g.output)
}

// applyResult folds an engine result back into the board document.
// Placements move (and optionally resize) layers, a computed order reorders
// the layer slice, and gated frame resizes take their next interpolated
// bounds. Selection results have nothing to apply.
func applyResult(b board.Board, result *engine.Result) board.Board {
	byID := make(map[board.LayerID]int, len(b.Layers))
	for i, l := range b.Layers {
		byID[l.ID] = i
	}

	for _, p := range result.Placements {
		i, ok := byID[p.ID]
		if !ok {
			continue
		}
		b.Layers[i].X = p.X
		b.Layers[i].Y = p.Y
		if p.Width != nil {
			b.Layers[i].Width = *p.Width
		}
		if p.Height != nil {
			b.Layers[i].Height = *p.Height
		}
	}

	if len(result.Order) == len(b.Layers) {
		reordered := make([]board.Layer, 0, len(b.Layers))
		for _, id := range result.Order {
			if i, ok := byID[id]; ok {
				reordered = append(reordered, b.Layers[i])
			}
		}
		if len(reordered) == len(b.Layers) {
			b.Layers = reordered
		}
	}

	for _, fr := range result.FrameResizes {
		i, ok := byID[fr.ID]
		if !ok || !fr.Resize {
			continue
		}
		b.Layers[i] = b.Layers[i].WithBounds(fr.Next)
	}

	return b
}

// writeResultJSON writes the result as indented JSON to path or stdout.
func writeResultJSON(result *engine.Result, path string) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// =============================================================================
// Flag Parsing
// =============================================================================

// layerIDs converts the --targets flag values to layer IDs.
func layerIDs(targets []string) []board.LayerID {
	ids := make([]board.LayerID, 0, len(targets))
	for _, t := range targets {
		ids = append(ids, board.LayerID(t))
	}
	return ids
}

// parsePoint parses an "x,y" flag value into a point.
func parsePoint(s string) (geometry.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geometry.Point{}, fmt.Errorf("expected x,y but got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geometry.Point{}, fmt.Errorf("invalid x coordinate %q", parts[0])
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geometry.Point{}, fmt.Errorf("invalid y coordinate %q", parts[1])
	}
	return geometry.Point{X: x, Y: y}, nil
}
