package tracescore

import (
	"math"

	"github.com/wbrown/tracescore/imageutil"
	"gonum.org/v1/gonum/stat"
)

// Comparison parameters. Distances are in canvas pixels.
const (
	// BinarizeLevel splits a normalized field into ink (below) and paper.
	BinarizeLevel = 0.5

	// StrokeThickness is the width both drawings are redrawn at before
	// they are compared.
	StrokeThickness = 5

	// CoverageTolerance is how far a reference pixel may be from the
	// nearest drawn pixel and still count as traced.
	CoverageTolerance = 4

	// AccuracyZone is the number of dilation steps applied to the
	// reference to build the area a drawing may stray into.
	AccuracyZone = 5

	// ChamferMaxDistance controls how fast the chamfer score decays: an
	// average distance of ChamferMaxDistance/3 scores 1/e.
	ChamferMaxDistance = 20.0
)

// Metric weights for the final score.
const (
	coverageWeight   = 0.35
	accuracyWeight   = 0.35
	similarityWeight = 0.30

	iouWeight     = 0.4
	chamferWeight = 0.6
)

// Metrics holds the three sub-scores of a comparison, each in [0, 1].
type Metrics struct {
	Coverage   float64
	Accuracy   float64
	Similarity float64
}

// Strokes holds a drawing and its reference as thickness-normalized masks
// of equal size.
type Strokes struct {
	Drawn     *imageutil.Mask
	Reference *imageutil.Mask
}

// NormalizeStrokes binarizes two normalized character fields and redraws
// both at StrokeThickness. The drawing is sanded to clean up freehand
// artifacts; the font-rendered reference is not.
func NormalizeStrokes(drawn, reference *imageutil.Field) Strokes {
	return Strokes{
		Drawn:     imageutil.NormalizeThickness(imageutil.Binarize(drawn, BinarizeLevel), StrokeThickness, true),
		Reference: imageutil.NormalizeThickness(imageutil.Binarize(reference, BinarizeLevel), StrokeThickness, false),
	}
}

// Compare normalizes two character fields and computes all three metrics.
func Compare(drawn, reference *imageutil.Field) Metrics {
	return NormalizeStrokes(drawn, reference).Metrics()
}

// Metrics computes coverage, accuracy and stroke similarity.
func (s Strokes) Metrics() Metrics {
	return Metrics{
		Coverage:   s.Coverage(),
		Accuracy:   s.Accuracy(),
		Similarity: s.Similarity(),
	}
}

// Coverage returns the fraction of reference pixels that lie within
// CoverageTolerance of a drawn pixel: how much of the letter was traced.
// It is 0 when either mask is empty.
func (s Strokes) Coverage() float64 {
	refPixels := s.Reference.Count()
	if refPixels == 0 || !s.Drawn.Any() {
		return 0
	}

	drawnDist := imageutil.DistanceTransform(s.Drawn)
	covered := 0
	for i, isRef := range s.Reference.Pix {
		if isRef && drawnDist.Pix[i] <= CoverageTolerance {
			covered++
		}
	}
	return math.Min(float64(covered)/float64(refPixels), 1)
}

// Accuracy returns the fraction of drawn pixels that fall inside the
// reference dilated by AccuracyZone steps: whether the drawing stayed on
// the lines. It is 0 when the drawing is empty.
func (s Strokes) Accuracy() float64 {
	drawnPixels := s.Drawn.Count()
	if drawnPixels == 0 {
		return 0
	}

	zone := imageutil.Dilate(s.Reference, AccuracyZone)
	within, _ := imageutil.Overlap(s.Drawn, zone)
	return math.Min(float64(within)/float64(drawnPixels), 1)
}

// Similarity blends the intersection-over-union of the two masks (40%)
// with a chamfer score (60%). The chamfer score decays exponentially with
// the symmetric average distance between the strokes. It is 0 when either
// mask is empty.
func (s Strokes) Similarity() float64 {
	if !s.Drawn.Any() || !s.Reference.Any() {
		return 0
	}

	iou := imageutil.IntersectionOverUnion(s.Drawn, s.Reference)

	refDist := imageutil.DistanceTransform(s.Reference)
	drawnDist := imageutil.DistanceTransform(s.Drawn)
	drawnToRef := stat.Mean(imageutil.SampleDistances(s.Drawn, refDist), nil)
	refToDrawn := stat.Mean(imageutil.SampleDistances(s.Reference, drawnDist), nil)

	chamfer := (drawnToRef + refToDrawn) / 2
	chamferScore := math.Exp(-chamfer / (ChamferMaxDistance / 3))

	return clamp01(iou*iouWeight + chamferScore*chamferWeight)
}

// Combine weights the metrics into a percentage score in [0, 100].
func Combine(m Metrics) uint8 {
	combined := m.Coverage*coverageWeight + m.Accuracy*accuracyWeight + m.Similarity*similarityWeight
	return uint8(math.Round(clamp01(combined) * 100))
}

// Feedback strings, one per star rating.
const (
	FeedbackFiveStars  = "Amazing! Perfect!"
	FeedbackFourStars  = "Great job!"
	FeedbackThreeStars = "Good work!"
	FeedbackTwoStars   = "Nice try!"
	FeedbackOneStar    = "Keep practicing!"
)

// StarRating maps a percentage score to a 1-5 star rating and its
// feedback message.
func StarRating(score uint8) (stars uint8, feedback string) {
	switch {
	case score >= 80:
		return 5, FeedbackFiveStars
	case score >= 65:
		return 4, FeedbackFourStars
	case score >= 50:
		return 3, FeedbackThreeStars
	case score >= 30:
		return 2, FeedbackTwoStars
	default:
		return 1, FeedbackOneStar
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
