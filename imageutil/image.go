// Package imageutil provides pure Go raster utilities for stroke analysis:
// binary masks, distance fields, morphology and skeletonization.
package imageutil

import (
	"image"
	"image/color"
	"math"
)

// Infinity is the distance reported for cells that have no ink pixel to
// measure against, and for out-of-range lookups on a Field.
const Infinity = float32(math.MaxFloat32)

// Point is a pixel coordinate.
type Point struct {
	X, Y int
}

// Mask is a row-major binary raster. A true pixel is ink.
type Mask struct {
	Width, Height int
	Pix           []bool
}

// NewMask creates an all-background mask with the specified dimensions.
func NewMask(width, height int) *Mask {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Mask{
		Width:  width,
		Height: height,
		Pix:    make([]bool, width*height),
	}
}

// At returns the pixel at (x, y). Out of range pixels are background.
func (m *Mask) At(x, y int) bool {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return false
	}
	return m.Pix[y*m.Width+x]
}

// Set sets the pixel at (x, y). Out of range writes are ignored.
func (m *Mask) Set(x, y int, v bool) {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return
	}
	m.Pix[y*m.Width+x] = v
}

// Count returns the number of ink pixels.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v {
			n++
		}
	}
	return n
}

// Any reports whether the mask has at least one ink pixel.
func (m *Mask) Any() bool {
	for _, v := range m.Pix {
		if v {
			return true
		}
	}
	return false
}

// Clone creates a deep copy of the mask.
func (m *Mask) Clone() *Mask {
	clone := NewMask(m.Width, m.Height)
	copy(clone.Pix, m.Pix)
	return clone
}

// Field is a row-major float raster holding either grayscale intensities
// in [0, 1] or distances in pixel units.
type Field struct {
	Width, Height int
	Pix           []float32
}

// NewField creates a field with every cell set to fill.
func NewField(width, height int, fill float32) *Field {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	f := &Field{
		Width:  width,
		Height: height,
		Pix:    make([]float32, width*height),
	}
	if fill != 0 {
		for i := range f.Pix {
			f.Pix[i] = fill
		}
	}
	return f
}

// At returns the value at (x, y). Out of range lookups return Infinity.
func (f *Field) At(x, y int) float32 {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return Infinity
	}
	return f.Pix[y*f.Width+x]
}

// Binarize returns a mask of the cells whose value is below threshold.
// Drawings are dark on light, so low values are ink.
func Binarize(f *Field, threshold float32) *Mask {
	m := NewMask(f.Width, f.Height)
	for i, v := range f.Pix {
		m.Pix[i] = v < threshold
	}
	return m
}

// ToGray renders a mask as an 8-bit image, ink black on white.
func (m *Mask) ToGray() *GrayImage {
	img := NewGrayImage(m.Width, m.Height)
	for i, v := range m.Pix {
		if v {
			img.Gray.Pix[(i/m.Width)*img.Stride+i%m.Width] = 0
		} else {
			img.Gray.Pix[(i/m.Width)*img.Stride+i%m.Width] = 255
		}
	}
	return img
}

// GrayImage wraps image.Gray for single-channel images.
type GrayImage struct {
	*image.Gray
}

// NewGrayImage creates a new GrayImage with the specified dimensions.
func NewGrayImage(width, height int) *GrayImage {
	return &GrayImage{
		Gray: image.NewGray(image.Rect(0, 0, width, height)),
	}
}

// NewUniformGray creates a GrayImage with every pixel set to v.
func NewUniformGray(width, height int, v uint8) *GrayImage {
	img := NewGrayImage(width, height)
	for i := range img.Gray.Pix {
		img.Gray.Pix[i] = v
	}
	return img
}

// Width returns the image width.
func (img *GrayImage) Width() int {
	return img.Bounds().Dx()
}

// Height returns the image height.
func (img *GrayImage) Height() int {
	return img.Bounds().Dy()
}

// GetGray returns the grayscale value at (x, y).
func (img *GrayImage) GetGray(x, y int) uint8 {
	return img.GrayAt(x, y).Y
}

// SetGrayValue sets the grayscale value at (x, y).
func (img *GrayImage) SetGrayValue(x, y int, v uint8) {
	img.Gray.SetGray(x, y, color.Gray{Y: v})
}

// Clone creates a deep copy of the image.
func (img *GrayImage) Clone() *GrayImage {
	clone := NewGrayImage(img.Width(), img.Height())
	origin := img.Bounds().Min
	for y := 0; y < clone.Height(); y++ {
		src := img.PixOffset(origin.X, origin.Y+y)
		copy(clone.Pix[y*clone.Stride:(y+1)*clone.Stride], img.Pix[src:src+clone.Width()])
	}
	return clone
}
