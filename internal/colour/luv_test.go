package colour

import (
	"math"
	"testing"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestLuvFromRGB(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    Luv
		tol     float64
	}{
		{name: "black", r: 0, g: 0, b: 0, want: Luv{L: 0, U: 0, V: 0}, tol: 1e-9},
		{name: "white", r: 255, g: 255, b: 255, want: Luv{L: 100, U: 0, V: 0}, tol: 0.1},
		// Mid grey lands near 53.6 only when gamma is removed first.
		{name: "mid grey", r: 128, g: 128, b: 128, want: Luv{L: 53.59, U: 0, V: 0}, tol: 0.1},
		{name: "red", r: 255, g: 0, b: 0, want: Luv{L: 53.24, U: 175.01, V: 37.76}, tol: 0.5},
		{name: "blue", r: 0, g: 0, b: 255, want: Luv{L: 32.30, U: -9.40, V: -130.34}, tol: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LuvFromRGB(tt.r, tt.g, tt.b)
			if !approxEqual(got.L, tt.want.L, tt.tol) ||
				!approxEqual(got.U, tt.want.U, tt.tol) ||
				!approxEqual(got.V, tt.want.V, tt.tol) {
				t.Errorf("LuvFromRGB(%d, %d, %d) = %+v, want %+v (±%g)", tt.r, tt.g, tt.b, got, tt.want, tt.tol)
			}
		})
	}
}

func TestHybridDistance(t *testing.T) {
	a := Luv{L: 50, U: 10, V: 10}
	b := Luv{L: 40, U: 13, V: 14}

	// |50-40| + sqrt(3^2 + 4^2)
	if got := a.HybridDistance(b); !approxEqual(got, 15, 1e-9) {
		t.Errorf("HybridDistance() = %v, want 15", got)
	}
	if a.HybridDistance(b) != b.HybridDistance(a) {
		t.Error("HybridDistance is not commutative")
	}
	if got := a.HybridDistance(a); got != 0 {
		t.Errorf("HybridDistance(self) = %v, want 0", got)
	}
}

func TestHybridDistanceDistinctColours(t *testing.T) {
	red := LuvFromRGB(255, 0, 0)
	blue := LuvFromRGB(0, 0, 255)
	if d := red.HybridDistance(blue); d < 100 {
		t.Errorf("red/blue distance = %v, expected well above the merge threshold", d)
	}

	near := LuvFromRGB(200, 100, 50)
	nearer := LuvFromRGB(202, 100, 50)
	if d := near.HybridDistance(nearer); d >= DefaultMergeThreshold {
		t.Errorf("near-identical colours distance = %v, expected below %v", d, DefaultMergeThreshold)
	}
}

func TestMidpoint(t *testing.T) {
	got := Luv{L: 10, U: -20, V: 30}.Midpoint(Luv{L: 30, U: 20, V: 10})
	want := Luv{L: 20, U: 0, V: 20}
	if got != want {
		t.Errorf("Midpoint() = %+v, want %+v", got, want)
	}
}
