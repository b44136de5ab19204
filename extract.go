package tracescore

import (
	"math"

	"github.com/wbrown/tracescore/imageutil"
)

const (
	// CanvasSize is the side length of the square canvas every character
	// is normalized onto before comparison.
	CanvasSize = 128

	// InkThreshold is the 8-bit intensity below which a pixel counts as
	// drawn. Drawings are dark on light.
	InkThreshold = 200

	// CanvasPadding is the fraction of the canvas left empty on each side.
	CanvasPadding = 0.1
)

// ExtractCharacter crops img to the bounding box of its ink, scales the
// crop to fit the padded canvas while keeping its aspect ratio, and
// centers it on a CanvasSize x CanvasSize field. Values are intensities in
// [0, 1], background 1. An image with no ink yields a blank canvas.
//
// Scaling uses nearest-neighbor lookup: each canvas pixel maps back to a
// single source pixel. The result is binarized downstream, so the aliasing
// this introduces does not matter. img may have any origin, such as a
// sub-image of a larger page.
func ExtractCharacter(img *imageutil.GrayImage) *imageutil.Field {
	out := imageutil.NewField(CanvasSize, CanvasSize, 1)

	origin := img.Bounds().Min
	gray := func(x, y int) uint8 { return img.GetGray(origin.X+x, origin.Y+y) }

	width, height := img.Width(), img.Height()
	minX, minY := width, height
	maxX, maxY := -1, -1
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if gray(x, y) >= InkThreshold {
				continue
			}
			minX = min(minX, x)
			maxX = max(maxX, x)
			minY = min(minY, y)
			maxY = max(maxY, y)
		}
	}
	if maxX < 0 {
		return out
	}

	regionWidth := maxX - minX + 1
	regionHeight := maxY - minY + 1

	available := math.Floor(CanvasSize * (1 - 2*CanvasPadding))
	scale := min(available/float64(regionWidth), available/float64(regionHeight))

	newWidth := max(int(float64(regionWidth)*scale), 1)
	newHeight := max(int(float64(regionHeight)*scale), 1)
	xOffset := (CanvasSize - newWidth) / 2
	yOffset := (CanvasSize - newHeight) / 2

	for ty := 0; ty < newHeight; ty++ {
		srcY := minY + int(float64(ty)/scale)
		if srcY >= height {
			continue
		}
		for tx := 0; tx < newWidth; tx++ {
			srcX := minX + int(float64(tx)/scale)
			if srcX >= width {
				continue
			}
			out.Pix[(yOffset+ty)*CanvasSize+xOffset+tx] = float32(gray(srcX, srcY)) / 255
		}
	}

	return out
}
