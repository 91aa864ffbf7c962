// Package engine provides the core layout engine for Boardkit.
//
// This package implements the board → compute → result pipeline shared by
// the CLI and the API server. Centralizing it keeps caching, validation,
// and instrumentation identical across entry points.
//
// # Operations
//
// The engine runs one operation per call:
//
//   - masonry: pack selected layers into a column-balanced grid
//   - sort: compute canvas paint order (frames behind content)
//   - autoresize: propose new bounds for auto-resizing frames
//   - selection: resolve a marquee rectangle to the layers it picks up
//
// # Usage
//
// Create a Runner and execute an operation:
//
//	runner := engine.NewRunner(cache, nil, logger)
//	opts := engine.Options{Op: engine.OpMasonry}
//	result, err := runner.Execute(ctx, b, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	placements := result.Placements
package engine

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/boardkit/boardkit/pkg/board"
	"github.com/boardkit/boardkit/pkg/cache"
	"github.com/boardkit/boardkit/pkg/errors"
	"github.com/boardkit/boardkit/pkg/frame"
	"github.com/boardkit/boardkit/pkg/geometry"
	"github.com/boardkit/boardkit/pkg/masonry"
)

// Operation names.
const (
	OpMasonry    = "masonry"
	OpSort       = "sort"
	OpAutoResize = "autoresize"
	OpSelection  = "selection"
)

// ValidOps is the set of supported operations.
var ValidOps = map[string]bool{
	OpMasonry:    true,
	OpSort:       true,
	OpAutoResize: true,
	OpSelection:  true,
}

// ValidateOp checks that an operation name is valid.
func ValidateOp(op string) error {
	if !ValidOps[op] {
		return fmt.Errorf("invalid op: %q (must be one of: masonry, sort, autoresize, selection)", op)
	}
	return nil
}

// =============================================================================
// Options - Engine Configuration
// =============================================================================

// Options contains all configuration for one engine run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Op selects the operation to run.
	Op string `json:"op"`

	// Targets restricts the operation to these layer IDs. Empty means all
	// layers (for masonry, all non-frame layers).
	Targets []board.LayerID `json:"targets,omitempty"`

	// Masonry settings, used by the masonry op.
	Masonry masonry.Settings `json:"masonry"`

	// SelectionA and SelectionB are the marquee corners for the selection
	// op. Any two opposite corners work.
	SelectionA geometry.Point `json:"selection_a"`
	SelectionB geometry.Point `json:"selection_b"`

	// Auto-resize tuning. Zero values mean the frame package defaults.
	Padding             float64 `json:"padding,omitempty"`
	SmartPadding        bool    `json:"smart_padding,omitempty"`
	PreserveAspectRatio bool    `json:"preserve_aspect_ratio,omitempty"`
	Threshold           float64 `json:"threshold,omitempty"`
	Factor              float64 `json:"factor,omitempty"`

	// ClipToFrame restricts each child's auto-resize contribution to its
	// intersection with the frame's current bounds, so content hanging far
	// outside is ignored instead of dragging the frame after it. Off by
	// default: the optimal bounds cover the full child extent.
	ClipToFrame bool `json:"clip_to_frame,omitempty"`

	// Refresh bypasses the cache for this run.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent: calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := ValidateOp(o.Op); err != nil {
		return err
	}

	for _, id := range o.Targets {
		if err := errors.ValidateLayerID(string(id)); err != nil {
			return err
		}
	}

	if o.Op == OpMasonry {
		o.Masonry.SetDefaults()
		if err := o.Masonry.Validate(); err != nil {
			return err
		}
	}

	if o.Threshold < 0 {
		return fmt.Errorf("threshold must be non-negative, got %g", o.Threshold)
	}
	if o.Factor < 0 || o.Factor > 1 {
		if o.Factor != 0 {
			return fmt.Errorf("factor must be in (0, 1], got %g", o.Factor)
		}
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// LayoutKeyOpts returns cache key options for this run. Everything that can
// change the computed result participates.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	opts := cache.LayoutKeyOpts{
		Operation: o.Op,
		Targets:   encodeTargets(o.Targets),
		Threshold: o.Threshold,
		Factor:    o.Factor,
	}
	switch o.Op {
	case OpMasonry:
		opts.Columns = o.Masonry.Columns
		opts.GapX = o.Masonry.GapX
		opts.GapY = o.Masonry.GapY
		opts.Normalize = o.Masonry.NormalizeWidth
		opts.Alignment = string(o.Masonry.Alignment)
	case OpAutoResize:
		opts.Padding = o.Padding
		opts.Smart = o.SmartPadding
		opts.Aspect = o.PreserveAspectRatio
		opts.Clip = o.ClipToFrame
	case OpSelection:
		opts.Selection = fmt.Sprintf("%g,%g,%g,%g",
			o.SelectionA.X, o.SelectionA.Y, o.SelectionB.X, o.SelectionB.Y)
	}
	return opts
}

// encodeTargets flattens the target list into a single key component.
func encodeTargets(targets []board.LayerID) string {
	if len(targets) == 0 {
		return ""
	}
	ids := make([]string, len(targets))
	for i, t := range targets {
		ids[i] = string(t)
	}
	return strings.Join(ids, ",")
}

// =============================================================================
// Result - Engine Output
// =============================================================================

// FrameResize is one auto-resize proposal.
type FrameResize struct {
	// ID names the frame.
	ID board.LayerID `json:"id"`

	// Resize is the hysteresis gate decision. When false, Target and Next
	// are informational only and the frame should keep its bounds.
	Resize bool `json:"resize"`

	// Target is the optimal bounds the frame should converge to.
	Target geometry.Bounds `json:"target"`

	// Next is the bounds after one interpolation tick from the frame's
	// current bounds toward Target.
	Next geometry.Bounds `json:"next"`
}

// Result contains the outputs of an engine run. Only the fields relevant to
// the executed operation are populated.
type Result struct {
	// BoardHash is the content hash of the input board.
	BoardHash string `json:"board_hash"`

	// Placements holds masonry placements (masonry op).
	Placements []masonry.Placement `json:"placements,omitempty"`

	// Order holds the computed paint order (sort op).
	Order []board.LayerID `json:"order,omitempty"`

	// FrameResizes holds auto-resize proposals (autoresize op).
	FrameResizes []FrameResize `json:"frame_resizes,omitempty"`

	// Selected holds the marquee result (selection op).
	Selected []board.LayerID `json:"selected,omitempty"`

	// Stats contains timing and size information.
	Stats Stats `json:"stats"`

	// CacheInfo tracks whether the computation came from cache.
	CacheInfo CacheInfo `json:"cache_info"`
}

// Stats contains engine execution statistics.
type Stats struct {
	LayerCount  int           `json:"layer_count"`
	ComputeTime time.Duration `json:"compute_time"`
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	LayoutHit bool `json:"layout_hit"` // Whether the result came from cache
}

// =============================================================================
// Operation Implementations
// =============================================================================

// compute runs the selected operation over a snapshot. It is pure: all
// caching and instrumentation happens in the Runner.
func compute(snap board.Snapshot, opts Options) (*Result, error) {
	result := &Result{}

	switch opts.Op {
	case OpMasonry:
		layers := targetLayers(snap, opts.Targets)
		placements, err := masonry.Apply(layers, opts.Masonry)
		if err != nil {
			return nil, err
		}
		result.Placements = placements

	case OpSort:
		ids := opts.Targets
		if len(ids) == 0 {
			ids = snap.Order()
		}
		result.Order = frame.SortForRendering(ids, snap)

	case OpAutoResize:
		result.FrameResizes = autoResize(snap, opts)

	case OpSelection:
		result.Selected = frame.IntersectingLayerIDs(snap, opts.SelectionA, opts.SelectionB)

	default:
		return nil, ValidateOp(opts.Op)
	}

	return result, nil
}

// targetLayers resolves the operation's working set. Without explicit
// targets, masonry works over every non-frame layer on the board.
func targetLayers(snap board.Snapshot, targets []board.LayerID) []board.Layer {
	var layers []board.Layer
	if len(targets) > 0 {
		for _, id := range targets {
			if l, ok := snap.Layer(id); ok {
				layers = append(layers, l)
			}
		}
		return layers
	}
	for _, l := range snap.Layers() {
		if !l.IsFrame() {
			layers = append(layers, l)
		}
	}
	return layers
}

// autoResize evaluates every auto-resizing frame on the board (or the
// targeted subset) and proposes new bounds.
func autoResize(snap board.Snapshot, opts Options) []FrameResize {
	ids := opts.Targets
	if len(ids) == 0 {
		ids = snap.Order()
	}

	var proposals []FrameResize
	for _, id := range ids {
		f, ok := snap.Layer(id)
		if !ok || !f.IsFrame() || !f.AutoResize() {
			continue
		}

		ref := f.Bounds()
		var children []board.Layer
		for _, childID := range frame.LayersInFrame(id, snap) {
			if child, ok := snap.Layer(childID); ok {
				children = append(children, child)
			}
		}

		var frameRef *geometry.Bounds
		if opts.ClipToFrame {
			frameRef = &ref
		}
		target := frame.OptimalBounds(children, frame.OptimalOptions{
			MinPadding:          opts.Padding,
			SmartPadding:        opts.SmartPadding,
			PreserveAspectRatio: opts.PreserveAspectRatio,
			FrameRef:            frameRef,
		})

		proposal := FrameResize{
			ID:     id,
			Resize: frame.ShouldResize(f, target, opts.Threshold),
			Target: target,
		}
		if proposal.Resize {
			proposal.Next = frame.Interpolate(ref, target, opts.Factor)
		} else {
			proposal.Next = ref
		}
		proposals = append(proposals, proposal)
	}
	return proposals
}
