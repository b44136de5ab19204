package imageutil

import (
	"math"
	"testing"
)

func TestDistanceSinglePixel(t *testing.T) {
	m := NewMask(7, 7)
	m.Set(3, 3, true)
	dist := DistanceTransform(m)

	if dist.At(3, 3) != 0 {
		t.Errorf("Ink pixel should be 0, got %f", dist.At(3, 3))
	}

	tests := []struct {
		dx, dy int
		want   float32
	}{
		{0, -1, 1.0}, {1, 0, 1.0}, {0, 1, 1.0}, {-1, 0, 1.0},
		{1, -1, 1.414}, {1, 1, 1.414}, {-1, 1, 1.414}, {-1, -1, 1.414},
	}
	for _, tt := range tests {
		got := dist.At(3+tt.dx, 3+tt.dy)
		if math.Abs(float64(got-tt.want)) > 0.01 {
			t.Errorf("Offset (%d,%d): expected %.3f, got %.3f", tt.dx, tt.dy, tt.want, got)
		}
	}
}

func TestDistanceEmpty(t *testing.T) {
	dist := DistanceTransform(NewMask(6, 4))
	for i, v := range dist.Pix {
		if v != Infinity {
			t.Fatalf("Pixel %d: expected Infinity, got %f", i, v)
		}
	}
}

func TestDistanceFull(t *testing.T) {
	m := NewMask(6, 4)
	for i := range m.Pix {
		m.Pix[i] = true
	}
	dist := DistanceTransform(m)
	for i, v := range dist.Pix {
		if v != 0 {
			t.Fatalf("Pixel %d: expected 0, got %f", i, v)
		}
	}
}

// The chamfer transform is an approximation: it never underestimates the
// Euclidean distance by more than rounding and overestimates by under 9%.
func TestDistanceBoundedError(t *testing.T) {
	const size = 41
	cx, cy := 20, 20
	m := NewMask(size, size)
	m.Set(cx, cy, true)
	dist := DistanceTransform(m)

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			exact := math.Hypot(float64(x-cx), float64(y-cy))
			got := float64(dist.At(x, y))
			if got < exact*0.999 || got > exact*1.09 {
				t.Errorf("(%d,%d): chamfer %.3f too far from Euclidean %.3f", x, y, got, exact)
			}
		}
	}
}

func TestDistanceTwoSeeds(t *testing.T) {
	m := NewMask(11, 1)
	m.Set(0, 0, true)
	m.Set(10, 0, true)
	dist := DistanceTransform(m)

	for x := 0; x <= 10; x++ {
		want := float32(min(x, 10-x))
		if dist.At(x, 0) != want {
			t.Errorf("x=%d: expected %.0f, got %f", x, want, dist.At(x, 0))
		}
	}
}
