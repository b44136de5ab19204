package imageutil

import (
	"image"

	"golang.org/x/image/draw"
)

// GrayImageFromImage converts any image.Image to a GrayImage with its
// origin at (0, 0). Transparent regions are composited onto white first,
// so a canvas export with a transparent background reads as blank paper
// rather than black ink.
func GrayImageFromImage(img image.Image) *GrayImage {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	flat := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(flat, flat.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(flat, flat.Bounds(), img, bounds.Min, draw.Over)

	gray := NewGrayImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := flat.RGBAAt(x, y)
			// Standard luminance formula (BT.601)
			lum := (299*int(c.R) + 587*int(c.G) + 114*int(c.B) + 500) / 1000
			if lum > 255 {
				lum = 255
			}
			gray.Gray.Pix[y*gray.Stride+x] = uint8(lum)
		}
	}
	return gray
}

// ToField converts a grayscale image to a Field with values in [0, 1].
// The field is indexed from (0, 0) whatever the image origin.
func ToField(img *GrayImage) *Field {
	width, height := img.Width(), img.Height()
	origin := img.Bounds().Min
	f := NewField(width, height, 0)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			f.Pix[y*width+x] = float32(img.GetGray(origin.X+x, origin.Y+y)) / 255
		}
	}
	return f
}

// FromField converts a Field with values in [0, 1] back to 8-bit grayscale.
func FromField(f *Field) *GrayImage {
	img := NewGrayImage(f.Width, f.Height)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			img.Gray.Pix[y*img.Stride+x] = toUint8(float64(f.Pix[y*f.Width+x]) * 255)
		}
	}
	return img
}

// toUint8 clamps a float64 to [0, 255] and converts to uint8.
func toUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
