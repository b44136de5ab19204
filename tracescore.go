// Package tracescore scores a freehand drawing of a character against the
// same character rendered from a font.
//
// Both images are cropped to their ink and centered on a fixed canvas, and
// their strokes are redrawn at a common width so pen thickness does not
// matter. Three metrics are then computed: coverage (how much of the
// letter was traced), accuracy (how much of the drawing stays near the
// letter) and stroke similarity (overlap plus average stroke distance).
// They combine into a 0-100 score and a 1-5 star rating.
//
// Every call is a pure function of its inputs and safe to run
// concurrently.
package tracescore

import (
	"encoding/base64"
	"fmt"
	"image"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/golang/freetype/truetype"
	"github.com/wbrown/tracescore/imageutil"
)

// Result is the outcome of scoring one drawing.
type Result struct {
	Score    uint8  `json:"score"`
	Stars    uint8  `json:"stars"`
	Feedback string `json:"feedback"`

	// Sub-metrics as percentages rounded to whole numbers.
	Coverage   float64 `json:"coverage"`
	Accuracy   float64 `json:"accuracy"`
	Similarity float64 `json:"similarity"`

	// Reference is the rendered reference glyph as PNG, for display
	// next to the score.
	Reference []byte `json:"-"`
}

// NewResult builds a Result from raw metrics and the encoded reference.
func NewResult(m Metrics, reference []byte) *Result {
	score := Combine(m)
	stars, feedback := StarRating(score)
	return &Result{
		Score:      score,
		Stars:      stars,
		Feedback:   feedback,
		Coverage:   percent(m.Coverage),
		Accuracy:   percent(m.Accuracy),
		Similarity: percent(m.Similarity),
		Reference:  reference,
	}
}

// Score decodes a drawing, renders character from fontData and scores the
// drawing against it. Only the first character of the string is used.
func Score(drawing []byte, character string, fontData []byte) (*Result, error) {
	r, err := FirstRune(character)
	if err != nil {
		return nil, err
	}
	img, format, err := imageutil.Decode(drawing)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	Logger().Debug("decoded drawing", "format", format,
		"width", img.Width(), "height", img.Height())

	f, err := ParseFont(fontData)
	if err != nil {
		return nil, err
	}
	return ScoreImage(img, r, f)
}

// ScoreImage scores an already decoded drawing against r rendered from f.
func ScoreImage(drawing image.Image, r rune, f *truetype.Font) (*Result, error) {
	gray, ok := drawing.(*imageutil.GrayImage)
	if !ok {
		gray = imageutil.GrayImageFromImage(drawing)
	}

	reference := RenderGlyph(f, r, ReferenceSize)
	m := Compare(ExtractCharacter(gray), ExtractCharacter(reference))
	Logger().Debug("scored drawing", "rune", string(r),
		"coverage", m.Coverage, "accuracy", m.Accuracy, "similarity", m.Similarity)

	png, err := encodeReference(reference)
	if err != nil {
		return nil, err
	}
	return NewResult(m, png), nil
}

// FirstRune returns the first character of s. Any further characters are
// ignored.
func FirstRune(s string) (rune, error) {
	if s == "" {
		return 0, ErrEmptyCharacter
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// DecodeDataURL decodes base64 image data, either raw or wrapped in a
// data URL such as "data:image/png;base64,....".
func DecodeDataURL(s string) ([]byte, error) {
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64: %v", ErrDecode, err)
	}
	return data, nil
}

// EncodeDataURL wraps PNG bytes in a data URL.
func EncodeDataURL(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}

func percent(v float64) float64 {
	return math.Round(v * 100)
}
