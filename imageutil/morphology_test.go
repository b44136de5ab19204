package imageutil

import (
	"image"
	"testing"
)

func TestDilateSinglePixel(t *testing.T) {
	m := NewMask(5, 5)
	m.Set(2, 2, true)

	d := Dilate(m, 1)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			want := abs(x-2) <= 1 && abs(y-2) <= 1
			if d.At(x, y) != want {
				t.Errorf("(%d,%d): expected %v, got %v", x, y, want, d.At(x, y))
			}
		}
	}
	if d.Count() != 9 {
		t.Errorf("Expected 9 ink pixels, got %d", d.Count())
	}
	for _, c := range []image.Point{{0, 0}, {4, 0}, {0, 4}, {4, 4}} {
		if d.At(c.X, c.Y) {
			t.Errorf("Corner %v should stay background", c)
		}
	}
}

func TestDilateIterations(t *testing.T) {
	m := NewMask(9, 9)
	m.Set(4, 4, true)

	d := Dilate(m, 3)
	if d.Count() != 49 {
		t.Errorf("Expected 7x7 square after 3 iterations, got %d pixels", d.Count())
	}
	if m.Count() != 1 {
		t.Error("Dilate should not modify its input")
	}
}

func TestErodeSinglePixel(t *testing.T) {
	m := NewMask(5, 5)
	m.Set(2, 2, true)

	e := Erode(m, 1)
	if e.Any() {
		t.Errorf("Isolated pixel should vanish, got %d ink pixels", e.Count())
	}
}

func TestErodeBlock(t *testing.T) {
	m := CreateRectMask(5, 5, image.Rect(1, 1, 4, 4))

	e := Erode(m, 1)
	if e.Count() != 1 || !e.At(2, 2) {
		t.Errorf("Expected only the center to remain, got %d pixels", e.Count())
	}
}

func TestErodeBorder(t *testing.T) {
	// Out of bounds counts as background, so a full mask loses its edge.
	m := CreateRectMask(5, 5, image.Rect(0, 0, 5, 5))

	e := Erode(m, 1)
	if e.Count() != 9 {
		t.Errorf("Expected 3x3 interior, got %d pixels", e.Count())
	}
	if e.At(0, 0) || e.At(4, 2) {
		t.Error("Border pixels should erode")
	}
}

func TestMorphologyZeroIterations(t *testing.T) {
	m := CreateRingMask(8, 8, image.Rect(1, 1, 7, 7))

	for name, got := range map[string]*Mask{
		"dilate": Dilate(m, 0),
		"erode":  Erode(m, 0),
	} {
		if got == m {
			t.Errorf("%s: expected a copy, got the input", name)
		}
		if CountMaskDiff(got, m) != 0 {
			t.Errorf("%s: zero iterations should not change the mask", name)
		}
	}
}

func TestMorphologyEmpty(t *testing.T) {
	m := NewMask(0, 0)
	if d := Dilate(m, 2); d.Width != 0 || d.Height != 0 {
		t.Errorf("Expected 0x0, got %dx%d", d.Width, d.Height)
	}
	if e := Erode(m, 2); e.Width != 0 || e.Height != 0 {
		t.Errorf("Expected 0x0, got %dx%d", e.Width, e.Height)
	}
}
