package board

import (
	"strings"
	"testing"
)

func testBoard() Board {
	return Board{Layers: []Layer{
		{ID: "frame-1", Kind: KindFrame, X: 0, Y: 0, Width: 400, Height: 300,
			Frame: &FrameData{Title: "Sprint", Children: []LayerID{"note-1"}, AutoResize: true}},
		{ID: "note-1", Kind: KindNote, X: 20, Y: 20, Width: 100, Height: 100, Value: "todo"},
		{ID: "rect-1", Kind: KindRectangle, X: 500, Y: 50, Width: 80, Height: 60, Fill: "#ffcc00"},
	}}
}

func TestBoardRoundTrip(t *testing.T) {
	b := testBoard()

	data, err := MarshalBoard(b)
	if err != nil {
		t.Fatalf("MarshalBoard: %v", err)
	}

	got, err := UnmarshalBoard(data)
	if err != nil {
		t.Fatalf("UnmarshalBoard: %v", err)
	}

	if len(got.Layers) != len(b.Layers) {
		t.Fatalf("layer count = %d, want %d", len(got.Layers), len(b.Layers))
	}
	for i := range got.Layers {
		if got.Layers[i].ID != b.Layers[i].ID {
			t.Errorf("layer %d id = %q, want %q (order must survive round-trip)", i, got.Layers[i].ID, b.Layers[i].ID)
		}
	}

	frame := got.Layers[0]
	if frame.Frame == nil || !frame.Frame.AutoResize || len(frame.Frame.Children) != 1 {
		t.Errorf("frame payload did not survive round-trip: %+v", frame.Frame)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	b := testBoard()
	first, err := MarshalBoard(b)
	if err != nil {
		t.Fatalf("MarshalBoard: %v", err)
	}
	second, err := MarshalBoard(b)
	if err != nil {
		t.Fatalf("MarshalBoard: %v", err)
	}
	if string(first) != string(second) {
		t.Error("MarshalBoard is not deterministic")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Board)
		wantErr string
	}{
		{"valid", func(b *Board) {}, ""},
		{"empty id", func(b *Board) { b.Layers[1].ID = "" }, "empty id"},
		{"duplicate id", func(b *Board) { b.Layers[2].ID = "note-1" }, "duplicate id"},
		{"unknown kind", func(b *Board) { b.Layers[1].Kind = "sticker" }, "unknown kind"},
		{"negative size", func(b *Board) { b.Layers[2].Width = -1 }, "negative size"},
		{"frame payload on note", func(b *Board) { b.Layers[1].Frame = &FrameData{} }, "frame payload"},
		{"unknown child", func(b *Board) { b.Layers[0].Frame.Children = []LayerID{"ghost"} }, "unknown child"},
		{"self child", func(b *Board) { b.Layers[0].Frame.Children = []LayerID{"frame-1"} }, "itself"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testBoard()
			tt.mutate(&b)
			err := b.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSnapshotIsolation(t *testing.T) {
	b := testBoard()
	snap := b.Snapshot()

	// Mutating the source board must not affect the snapshot.
	b.Layers[1].X = 9999

	l, ok := snap.Layer("note-1")
	if !ok {
		t.Fatal("note-1 missing from snapshot")
	}
	if l.X != 20 {
		t.Errorf("snapshot layer X = %v, want 20 (snapshot must be isolated)", l.X)
	}

	order := snap.Order()
	order[0] = "tampered"
	if snap.Order()[0] == "tampered" {
		t.Error("Order must return a copy")
	}
}

func TestSnapshotIndex(t *testing.T) {
	snap := testBoard().Snapshot()
	if got := snap.Index("rect-1"); got != 2 {
		t.Errorf("Index(rect-1) = %d, want 2", got)
	}
	if got := snap.Index("missing"); got != -1 {
		t.Errorf("Index(missing) = %d, want -1", got)
	}
}

func TestNewLayerID(t *testing.T) {
	a, b := NewLayerID(), NewLayerID()
	if a == "" || b == "" {
		t.Fatal("NewLayerID returned empty id")
	}
	if a == b {
		t.Error("NewLayerID returned duplicate ids")
	}
}
