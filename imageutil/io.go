package imageutil

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"os"

	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// PNGSignature is the fixed 8-byte header every PNG stream starts with.
var PNGSignature = []byte{137, 80, 78, 71, 13, 10, 26, 10}

// MaxImageSide is the largest width or height Decode accepts. A few
// kilobytes of compressed input can declare gigapixel dimensions, so the
// header is checked before any pixels are allocated.
const MaxImageSide = 4096

// ErrImageTooLarge is returned by Decode for images wider or taller than
// MaxImageSide.
var ErrImageTooLarge = errors.New("image dimensions exceed limit")

// Decode decodes an encoded image and converts it to grayscale.
// Supports PNG, JPEG, GIF, BMP, TIFF and WebP.
func Decode(data []byte) (*GrayImage, string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	if cfg.Width > MaxImageSide || cfg.Height > MaxImageSide {
		return nil, "", fmt.Errorf("%w: %dx%d, max %d per side",
			ErrImageTooLarge, cfg.Width, cfg.Height, MaxImageSide)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return GrayImageFromImage(img), format, nil
}

// EncodePNG encodes an image as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// SavePNG saves an image as PNG to the specified path.
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	return png.Encode(f, img)
}
