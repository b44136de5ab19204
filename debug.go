package tracescore

import (
	"github.com/golang/freetype/truetype"
	"github.com/wbrown/tracescore/imageutil"
)

// Debug holds the intermediate images a score is computed from, ink black
// on white, for display next to a result.
type Debug struct {
	DrawnCentered       *imageutil.GrayImage
	ReferenceCentered   *imageutil.GrayImage
	DrawnUnsanded       *imageutil.GrayImage
	DrawnSanded         *imageutil.GrayImage
	ReferenceNormalized *imageutil.GrayImage
}

// DebugImages reruns the extraction and normalization steps of ScoreImage
// for drawing and r and returns every stage.
func DebugImages(drawing *imageutil.GrayImage, r rune, f *truetype.Font) *Debug {
	drawn := ExtractCharacter(drawing)
	reference := ExtractCharacter(RenderGlyph(f, r, ReferenceSize))

	drawnInk := imageutil.Binarize(drawn, BinarizeLevel)
	strokes := NormalizeStrokes(drawn, reference)

	return &Debug{
		DrawnCentered:       imageutil.FromField(drawn),
		ReferenceCentered:   imageutil.FromField(reference),
		DrawnUnsanded:       imageutil.NormalizeThickness(drawnInk, StrokeThickness, false).ToGray(),
		DrawnSanded:         strokes.Drawn.ToGray(),
		ReferenceNormalized: strokes.Reference.ToGray(),
	}
}

// Images returns the debug images keyed by a file-friendly stage name.
func (d *Debug) Images() map[string]*imageutil.GrayImage {
	return map[string]*imageutil.GrayImage{
		"drawn_centered":       d.DrawnCentered,
		"reference_centered":   d.ReferenceCentered,
		"drawn_unsanded":       d.DrawnUnsanded,
		"drawn_sanded":         d.DrawnSanded,
		"reference_normalized": d.ReferenceNormalized,
	}
}
