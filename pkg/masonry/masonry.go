// Package masonry packs a selection of layers into a column-balanced
// grid layout, the way photo walls arrange images of mixed heights.
//
// The packer is greedy: layers are visited in reading order and each one
// drops into the currently shortest column. Input layers are never
// mutated; the result is a list of proposed placements the caller applies.
package masonry

import (
	"fmt"
	"math"
	"slices"

	"github.com/boardkit/boardkit/pkg/board"
)

// Alignment controls where the packed grid sits inside the selection's
// original bounding box.
type Alignment string

// Grid alignments.
const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// Defaults applied by Settings.SetDefaults.
const (
	DefaultColumns = 3
	DefaultGap     = 16.0
)

// Settings configures a masonry pass. It is a plain configuration value
// supplied per call, not persisted state.
type Settings struct {
	// Columns is the number of columns to pack into (minimum 1).
	Columns int `json:"columns" bson:"columns"`

	// GapX and GapY are the horizontal and vertical gaps between items.
	GapX float64 `json:"gap_x" bson:"gap_x"`
	GapY float64 `json:"gap_y" bson:"gap_y"`

	// NormalizeWidth resizes every item to the column width, scaling
	// height to preserve the item's aspect ratio.
	NormalizeWidth bool `json:"normalize_width" bson:"normalize_width"`

	// Alignment positions the grid inside the selection bounding box.
	Alignment Alignment `json:"alignment" bson:"alignment"`
}

// SetDefaults fills zero values with usable defaults.
func (s *Settings) SetDefaults() {
	if s.Columns == 0 {
		s.Columns = DefaultColumns
	}
	if s.GapX == 0 {
		s.GapX = DefaultGap
	}
	if s.GapY == 0 {
		s.GapY = DefaultGap
	}
	if s.Alignment == "" {
		s.Alignment = AlignLeft
	}
}

// Validate checks the settings for values the packer cannot work with.
func (s Settings) Validate() error {
	if s.Columns < 1 {
		return fmt.Errorf("columns must be at least 1, got %d", s.Columns)
	}
	if s.GapX < 0 || s.GapY < 0 {
		return fmt.Errorf("gaps must be non-negative, got %g/%g", s.GapX, s.GapY)
	}
	switch s.Alignment {
	case AlignLeft, AlignCenter, AlignRight:
		return nil
	default:
		return fmt.Errorf("invalid alignment: %q", s.Alignment)
	}
}

// Placement is a proposed position (and optionally size) for one layer.
// Width and Height are nil when the layer keeps its original size.
type Placement struct {
	ID     board.LayerID `json:"id" bson:"id"`
	X      float64       `json:"x" bson:"x"`
	Y      float64       `json:"y" bson:"y"`
	Width  *float64      `json:"width,omitempty" bson:"width,omitempty"`
	Height *float64      `json:"height,omitempty" bson:"height,omitempty"`
}

// Apply packs the given layers and returns one placement per layer.
// Settings are validated and defaulted internally; an invalid
// configuration yields an error rather than a garbage layout.
//
// Layers are first sorted into a human-intuitive reading order: rows
// top-to-bottom with a fuzzy row test (two layers belong to the same row
// when their vertical offset is under half the first layer's height), then
// left-to-right within a row. Each layer then drops into the shortest
// column, ties going to the leftmost.
func Apply(layers []board.Layer, settings Settings) ([]Placement, error) {
	settings.SetDefaults()
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if len(layers) == 0 {
		return nil, nil
	}

	sorted := make([]board.Layer, len(layers))
	copy(sorted, layers)
	slices.SortStableFunc(sorted, compareReadingOrder)

	// Overall bounding box of the selection.
	bbox := sorted[0].Bounds()
	for i := 1; i < len(sorted); i++ {
		bbox = bbox.Union(sorted[i].Bounds())
	}

	cols := settings.Columns
	colWidth := (bbox.Width - settings.GapX*float64(cols-1)) / float64(cols)
	if colWidth < 1 {
		colWidth = 1
	}

	gridWidth := colWidth*float64(cols) + settings.GapX*float64(cols-1)
	startX := bbox.X
	switch settings.Alignment {
	case AlignCenter:
		startX = bbox.X + (bbox.Width-gridWidth)/2
	case AlignRight:
		startX = bbox.X + bbox.Width - gridWidth
	}

	heights := make([]float64, cols)
	placements := make([]Placement, 0, len(sorted))

	for _, l := range sorted {
		col := shortestColumn(heights)

		p := Placement{
			ID: l.ID,
			X:  startX + float64(col)*(colWidth+settings.GapX),
			Y:  bbox.Y + heights[col],
		}

		itemHeight := l.Height
		if settings.NormalizeWidth {
			w, h := normalizeSize(l, colWidth)
			p.Width, p.Height = &w, &h
			itemHeight = h
		}

		heights[col] += itemHeight + settings.GapY
		placements = append(placements, p)
	}

	return placements, nil
}

// compareReadingOrder sorts by fuzzy rows then by X. Two layers share a
// row when their vertical difference is under half of a's own height, so
// hand-placed rows with slightly uneven tops keep their visual order.
func compareReadingOrder(a, b board.Layer) int {
	rowTolerance := a.Height / 2
	dy := a.Y - b.Y
	if math.Abs(dy) < rowTolerance {
		switch {
		case a.X < b.X:
			return -1
		case a.X > b.X:
			return 1
		default:
			return 0
		}
	}
	if dy < 0 {
		return -1
	}
	return 1
}

// shortestColumn returns the index of the lowest column, leftmost on ties.
func shortestColumn(heights []float64) int {
	best := 0
	for i, h := range heights {
		if h < heights[best] {
			best = i
		}
	}
	return best
}

// normalizeSize scales a layer to the column width, preserving its aspect
// ratio. Zero-width layers fall back to a 1:1 ratio instead of dividing
// by zero.
func normalizeSize(l board.Layer, colWidth float64) (w, h float64) {
	origWidth := math.Max(l.Width, 1)
	scale := colWidth / origWidth
	height := l.Height * scale
	if height < 1 || math.IsNaN(height) || math.IsInf(height, 0) {
		height = colWidth
	}
	return colWidth, height
}
