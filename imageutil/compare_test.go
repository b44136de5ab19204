package imageutil

import (
	"image"
	"testing"
)

func TestOverlap(t *testing.T) {
	a := CreateRectMask(10, 10, image.Rect(0, 0, 5, 10))
	b := CreateRectMask(10, 10, image.Rect(3, 0, 8, 10))

	inter, union := Overlap(a, b)
	if inter != 20 {
		t.Errorf("Expected intersection 20, got %d", inter)
	}
	if union != 80 {
		t.Errorf("Expected union 80, got %d", union)
	}
}

func TestIntersectionOverUnion(t *testing.T) {
	a := CreateRectMask(10, 10, image.Rect(2, 2, 8, 8))

	if iou := IntersectionOverUnion(a, a.Clone()); iou < 0.999 {
		t.Errorf("Identical masks should have IoU ~1, got %f", iou)
	}

	b := CreateRectMask(10, 10, image.Rect(0, 0, 2, 2))
	if iou := IntersectionOverUnion(a, b); iou != 0 {
		t.Errorf("Disjoint masks should have IoU 0, got %f", iou)
	}

	empty := NewMask(10, 10)
	if iou := IntersectionOverUnion(empty, empty); iou != 0 {
		t.Errorf("Empty masks should have IoU 0, got %f", iou)
	}
}

func TestSampleDistances(t *testing.T) {
	ref := NewMask(10, 1)
	ref.Set(0, 0, true)
	dist := DistanceTransform(ref)

	m := NewMask(10, 1)
	m.Set(3, 0, true)
	m.Set(7, 0, true)

	got := SampleDistances(m, dist)
	want := []float64{3, 7}
	if len(got) != len(want) {
		t.Fatalf("Expected %d samples, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Sample %d: expected %f, got %f", i, want[i], got[i])
		}
	}
}
