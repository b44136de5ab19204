package imageutil

// Overlap returns the number of pixels that are ink in both masks and in
// either mask. Masks must have the same dimensions.
func Overlap(a, b *Mask) (intersection, union int) {
	for i := range a.Pix {
		if a.Pix[i] && b.Pix[i] {
			intersection++
		}
		if a.Pix[i] || b.Pix[i] {
			union++
		}
	}
	return intersection, union
}

// IntersectionOverUnion returns the Jaccard index of two masks. Two empty
// masks have nothing in common and score 0.
func IntersectionOverUnion(a, b *Mask) float64 {
	intersection, union := Overlap(a, b)
	return float64(intersection) / (float64(union) + 1e-8)
}

// SampleDistances returns dist at every ink pixel of m, in row-major
// order.
func SampleDistances(m *Mask, dist *Field) []float64 {
	samples := make([]float64, 0, m.Count())
	for i, v := range m.Pix {
		if v {
			samples = append(samples, float64(dist.Pix[i]))
		}
	}
	return samples
}
