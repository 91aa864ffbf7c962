package board

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Board is the canonical serialization format for a board document.
// Slice order is the board's z-order (earlier layers paint first).
type Board struct {
	Layers []Layer `json:"layers" bson:"layers"`
}

// Snapshot builds the immutable view the geometry engine computes over.
func (b Board) Snapshot() Snapshot {
	layers := make(map[LayerID]Layer, len(b.Layers))
	order := make([]LayerID, 0, len(b.Layers))
	for _, l := range b.Layers {
		layers[l.ID] = l
		order = append(order, l.ID)
	}
	return NewSnapshot(layers, order)
}

// Validate checks structural invariants of the board document:
// non-empty unique IDs, known kinds, non-negative sizes, and frame
// children referencing layers that exist.
func (b Board) Validate() error {
	seen := make(map[LayerID]bool, len(b.Layers))
	for i, l := range b.Layers {
		if l.ID == "" {
			return fmt.Errorf("layer %d: empty id", i)
		}
		if seen[l.ID] {
			return fmt.Errorf("layer %d: duplicate id %q", i, l.ID)
		}
		seen[l.ID] = true

		if !validKinds[l.Kind] {
			return fmt.Errorf("layer %q: unknown kind %q", l.ID, l.Kind)
		}
		if l.Width < 0 || l.Height < 0 {
			return fmt.Errorf("layer %q: negative size %gx%g", l.ID, l.Width, l.Height)
		}
		if l.Frame != nil && l.Kind != KindFrame {
			return fmt.Errorf("layer %q: frame payload on %s layer", l.ID, l.Kind)
		}
		if l.Arrow != nil && l.Kind != KindArrow {
			return fmt.Errorf("layer %q: arrow payload on %s layer", l.ID, l.Kind)
		}
	}

	for _, l := range b.Layers {
		if l.Frame == nil {
			continue
		}
		for _, child := range l.Frame.Children {
			if !seen[child] {
				return fmt.Errorf("frame %q: unknown child %q", l.ID, child)
			}
			if child == l.ID {
				return fmt.Errorf("frame %q: lists itself as child", l.ID)
			}
		}
	}

	return nil
}

// =============================================================================
// Serialization API
// =============================================================================

// MarshalBoard serializes a board to pretty-printed JSON bytes.
// Layer order is preserved, so output is deterministic.
func MarshalBoard(b Board) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeBoardTo(b, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBoard deserializes JSON bytes into a validated board.
func UnmarshalBoard(data []byte) (Board, error) {
	return readBoardFrom(bytes.NewReader(data))
}

// WriteBoardFile writes a board to a JSON file with 0644 permissions.
func WriteBoardFile(b Board, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeBoardTo(b, f)
}

// ReadBoardFile reads and validates a board from a JSON file.
func ReadBoardFile(path string) (Board, error) {
	f, err := os.Open(path)
	if err != nil {
		return Board{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readBoardFrom(f)
}

// WriteBoard writes a board as JSON to an io.Writer.
func WriteBoard(b Board, w io.Writer) error {
	return writeBoardTo(b, w)
}

// ReadBoard decodes and validates a JSON board from an io.Reader.
func ReadBoard(r io.Reader) (Board, error) {
	return readBoardFrom(r)
}

func writeBoardTo(b Board, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readBoardFrom(r io.Reader) (Board, error) {
	var b Board
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return Board{}, fmt.Errorf("decode: %w", err)
	}
	if err := b.Validate(); err != nil {
		return Board{}, fmt.Errorf("invalid board: %w", err)
	}
	return b, nil
}
