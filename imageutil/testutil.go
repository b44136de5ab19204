package imageutil

import "image"

// CreateStripedField creates a white field with horizontal black stripes.
// Stripes are thickness rows tall, repeat every period rows and stay
// margin pixels clear of every edge.
func CreateStripedField(width, height, period, thickness, margin int) *Field {
	f := NewField(width, height, 1)
	for y := margin; y < height-margin; y++ {
		if (y-margin)%period >= thickness {
			continue
		}
		for x := margin; x < width-margin; x++ {
			f.Pix[y*width+x] = 0
		}
	}
	return f
}

// CreateRectMask creates a mask with the pixels inside r set to ink.
func CreateRectMask(width, height int, r image.Rectangle) *Mask {
	m := NewMask(width, height)
	r = r.Intersect(image.Rect(0, 0, width, height))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			m.Pix[y*width+x] = true
		}
	}
	return m
}

// CreateRingMask creates a mask with the outline of r set to ink.
func CreateRingMask(width, height int, r image.Rectangle) *Mask {
	m := NewMask(width, height)
	for x := r.Min.X; x < r.Max.X; x++ {
		m.Set(x, r.Min.Y, true)
		m.Set(x, r.Max.Y-1, true)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		m.Set(r.Min.X, y, true)
		m.Set(r.Max.X-1, y, true)
	}
	return m
}

// CreateGlyphImage creates a white grayscale image with a black filled
// rectangle, useful as a stand-in for a scanned drawing.
func CreateGlyphImage(width, height int, ink image.Rectangle) *GrayImage {
	img := NewUniformGray(width, height, 255)
	ink = ink.Intersect(img.Bounds())
	for y := ink.Min.Y; y < ink.Max.Y; y++ {
		for x := ink.Min.X; x < ink.Max.X; x++ {
			img.Gray.Pix[y*img.Stride+x] = 0
		}
	}
	return img
}

// MaskToField converts a mask to a grayscale field, ink 0 and background 1.
func MaskToField(m *Mask) *Field {
	f := NewField(m.Width, m.Height, 1)
	for i, v := range m.Pix {
		if v {
			f.Pix[i] = 0
		}
	}
	return f
}

// CountMaskDiff returns the number of pixels that differ between two
// masks of the same size, or -1 if the sizes differ.
func CountMaskDiff(a, b *Mask) int {
	if a.Width != b.Width || a.Height != b.Height {
		return -1
	}
	diff := 0
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			diff++
		}
	}
	return diff
}

// MaxFieldDiff returns the largest absolute difference between two fields
// of the same size, ignoring cells where either is Infinity.
func MaxFieldDiff(a, b *Field) float32 {
	if a.Width != b.Width || a.Height != b.Height {
		return Infinity
	}
	var maxDiff float32
	for i := range a.Pix {
		if a.Pix[i] == Infinity || b.Pix[i] == Infinity {
			continue
		}
		d := a.Pix[i] - b.Pix[i]
		if d < 0 {
			d = -d
		}
		if d > maxDiff {
			maxDiff = d
		}
	}
	return maxDiff
}
