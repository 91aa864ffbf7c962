package snap

import (
	"math"
	"testing"

	"github.com/boardkit/boardkit/pkg/geometry"
)

const epsilon = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestConstrainToAngle(t *testing.T) {
	origin := geometry.Point{X: 0, Y: 0}

	tests := []struct {
		name    string
		current geometry.Point
		want    geometry.Point
	}{
		// 4/10 is under the 22.5 degree bucket boundary: snaps to 0.
		{"shallow snaps to horizontal", geometry.Point{X: 10, Y: 4}, geometry.Point{X: math.Sqrt(116), Y: 0}},
		{"exact diagonal stays", geometry.Point{X: 10, Y: 10}, geometry.Point{X: 10, Y: 10}},
		{"steep snaps to vertical", geometry.Point{X: 2, Y: 10}, geometry.Point{X: 0, Y: math.Sqrt(104)}},
		{"negative quadrant", geometry.Point{X: -10, Y: -4}, geometry.Point{X: -math.Sqrt(116), Y: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConstrainToAngle(origin, tt.current)
			if !approx(got.X, tt.want.X) || !approx(got.Y, tt.want.Y) {
				t.Errorf("ConstrainToAngle(%v) = %v, want %v", tt.current, got, tt.want)
			}

			// Magnitude is preserved.
			wantMag := origin.Distance(tt.current)
			if gotMag := origin.Distance(got); !approx(gotMag, wantMag) {
				t.Errorf("magnitude = %v, want %v", gotMag, wantMag)
			}
		})
	}

	// Zero-length vector passes through untouched.
	if got := ConstrainToAngle(origin, origin); got != origin {
		t.Errorf("zero vector = %v, want origin", got)
	}
}

func TestConstrainToSquare(t *testing.T) {
	origin := geometry.Point{X: 100, Y: 100}

	tests := []struct {
		name    string
		current geometry.Point
		want    geometry.Point
	}{
		{"wider than tall", geometry.Point{X: 180, Y: 130}, geometry.Point{X: 130, Y: 130}},
		{"taller than wide", geometry.Point{X: 120, Y: 190}, geometry.Point{X: 120, Y: 120}},
		{"up-left drag keeps signs", geometry.Point{X: 40, Y: 70}, geometry.Point{X: 70, Y: 70}},
		{"down-left drag", geometry.Point{X: 60, Y: 150}, geometry.Point{X: 60, Y: 140}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConstrainToSquare(origin, tt.current)
			if !approx(got.X, tt.want.X) || !approx(got.Y, tt.want.Y) {
				t.Errorf("ConstrainToSquare(%v) = %v, want %v", tt.current, got, tt.want)
			}
		})
	}
}

func TestConstrainResizeToAspectRatio(t *testing.T) {
	b := geometry.Bounds{X: 100, Y: 100, Width: 200, Height: 100}
	ratios := []float64{2, 1, 16.0 / 10.0, 0.5}
	sides := []geometry.Side{
		geometry.SideRight,
		geometry.SideBottom,
		geometry.SideBottom | geometry.SideRight,
		geometry.SideTop | geometry.SideLeft,
	}
	points := []geometry.Point{
		{X: 400, Y: 300},
		{X: 120, Y: 110},
		{X: 90, Y: 95},
	}

	for _, ratio := range ratios {
		for _, side := range sides {
			for _, p := range points {
				got := ConstrainResizeToAspectRatio(b, side, p, ratio)
				if got.Height <= 0 {
					t.Fatalf("ratio %v side %v point %v: zero height %v", ratio, side, p, got)
				}
				if gotRatio := got.Width / got.Height; !approx(gotRatio, ratio) {
					t.Errorf("ratio %v side %v point %v: got ratio %v (%v)", ratio, side, p, gotRatio, got)
				}
				if got.Width < geometry.MinSize-epsilon || got.Height < geometry.MinSize/2-epsilon {
					// The floor scales both axes together, so only the
					// larger axis is guaranteed the full MinSize.
					t.Errorf("ratio %v side %v point %v: below size floor %v", ratio, side, p, got)
				}
			}
		}
	}
}

func TestConstrainResizeAnchors(t *testing.T) {
	b := geometry.Bounds{X: 100, Y: 100, Width: 200, Height: 100}

	// Dragging bottom-right: top-left must stay put.
	got := ConstrainResizeToAspectRatio(b, geometry.SideBottom|geometry.SideRight, geometry.Point{X: 500, Y: 400}, 2)
	if got.X != b.X || got.Y != b.Y {
		t.Errorf("bottom-right drag moved anchor: %v", got)
	}

	// Dragging top-left: bottom-right must stay put.
	got = ConstrainResizeToAspectRatio(b, geometry.SideTop|geometry.SideLeft, geometry.Point{X: 0, Y: 0}, 2)
	if !approx(got.Right(), b.Right()) || !approx(got.Bottom(), b.Bottom()) {
		t.Errorf("top-left drag moved opposite corner: %v (want right=%v bottom=%v)", got, b.Right(), b.Bottom())
	}
}

func TestConstrainResizeBadRatio(t *testing.T) {
	b := geometry.Bounds{X: 0, Y: 0, Width: 100, Height: 100}
	for _, ratio := range []float64{0, -3, math.NaN(), math.Inf(1)} {
		got := ConstrainResizeToAspectRatio(b, geometry.SideRight, geometry.Point{X: 150, Y: 0}, ratio)
		if gotRatio := got.Width / got.Height; !approx(gotRatio, 1) {
			t.Errorf("ratio %v: fell back to %v, want 1", ratio, gotRatio)
		}
	}
}
