package tracescore

import (
	"fmt"
	"image"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/wbrown/tracescore/imageutil"
	"golang.org/x/image/font"
)

const (
	// ReferenceSize is the side length of the reference glyph image
	// rendered for scoring.
	ReferenceSize = 200

	// glyphScale is the font size as a fraction of the image size.
	glyphScale = 0.75
)

// ParseFont parses TrueType font data.
func ParseFont(fontData []byte) (*truetype.Font, error) {
	f, err := freetype.ParseFont(fontData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFontParse, err)
	}
	return f, nil
}

// RenderReference renders a character as a size x size grayscale PNG,
// black on white and centered. Only the first character of the string is
// used.
func RenderReference(character string, fontData []byte, size int) ([]byte, error) {
	r, err := FirstRune(character)
	if err != nil {
		return nil, err
	}
	f, err := ParseFont(fontData)
	if err != nil {
		return nil, err
	}
	return RenderReferenceFont(f, r, size)
}

// RenderReferenceFont is RenderReference for an already parsed font.
func RenderReferenceFont(f *truetype.Font, r rune, size int) ([]byte, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: image size must be positive, got %d", ErrEncode, size)
	}
	return encodeReference(RenderGlyph(f, r, size))
}

// RenderGlyph renders r onto a white size x size grayscale image at a
// font size of 0.75 x size pixels, centered on the glyph's pixel bounds.
// Runes the font has no glyph for, and glyphs with no ink such as space,
// produce a blank image.
//
// Rendering is unhinted: hinting snaps outlines to the pixel grid, which
// helps small text but distorts large reference shapes.
func RenderGlyph(f *truetype.Font, r rune, size int) *imageutil.GrayImage {
	img := imageutil.NewUniformGray(size, size, 255)

	if f.Index(r) == 0 {
		Logger().Warn("font has no glyph for character", "rune", string(r))
		return img
	}

	fontSize := float64(size) * glyphScale
	face := truetype.NewFace(f, &truetype.Options{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	defer face.Close()

	bounds, _, ok := face.GlyphBounds(r)
	if !ok {
		return img
	}
	minX, minY := bounds.Min.X.Floor(), bounds.Min.Y.Floor()
	glyphWidth := bounds.Max.X.Ceil() - minX
	glyphHeight := bounds.Max.Y.Ceil() - minY
	if glyphWidth <= 0 || glyphHeight <= 0 {
		return img
	}

	// Place the origin so the glyph's pixel bounds are centered.
	originX := (size-glyphWidth)/2 - minX
	originY := (size-glyphHeight)/2 - minY

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(f)
	ctx.SetFontSize(fontSize)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img.Gray)
	ctx.SetSrc(image.Black)
	ctx.SetHinting(font.HintingNone)

	if _, err := ctx.DrawString(string(r), freetype.Pt(originX, originY)); err != nil {
		Logger().Warn("failed to draw glyph", "rune", string(r), "err", err)
	}

	return img
}

func encodeReference(img *imageutil.GrayImage) ([]byte, error) {
	data, err := imageutil.EncodePNG(img.Gray)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return data, nil
}
