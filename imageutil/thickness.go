package imageutil

// Sanding parameters used by NormalizeThickness for freehand input.
const (
	SandingGap             = 10
	SandingPruneIterations = 8
	SandingPruneFraction   = 0.15
)

// NormalizeThickness redraws the strokes of m at a uniform width of
// roughly targetThickness pixels, independent of the pen width used to
// draw them.
//
// The mask is thinned to its skeleton first. With sanding enabled the
// skeleton is also cleaned up for hand-drawn input: small gaps between
// stroke ends are bridged and short spurs are pruned. Font-rendered
// strokes are already clean and skip this step. When targetThickness is
// greater than 1 the skeleton is regrown by thresholding its own distance
// field at targetThickness/2; otherwise the skeleton itself is returned.
func NormalizeThickness(m *Mask, targetThickness int, sanding bool) *Mask {
	if !m.Any() {
		return m.Clone()
	}

	skel := Skeletonize(m)
	if sanding {
		BridgeGaps(skel, SandingGap)
		PruneBranches(skel, SandingPruneIterations, SandingPruneFraction)
	}

	if targetThickness <= 1 {
		return skel
	}
	if !skel.Any() {
		return m.Clone()
	}

	dist := DistanceTransform(skel)
	radius := float32(targetThickness) / 2
	out := NewMask(m.Width, m.Height)
	for i, d := range dist.Pix {
		out.Pix[i] = d <= radius
	}
	return out
}
