package imageutil

// Chamfer step costs for the distance transform.
const (
	axisStep     = float32(1.0)
	diagonalStep = float32(1.414)
)

// DistanceTransform computes, for every pixel, the distance in pixels to
// the nearest ink pixel of m. Ink pixels are 0.
//
// This is a two-pass 3x3 chamfer transform, not an exact Euclidean one:
// a forward raster scan propagates from the left and upper neighbors, a
// backward scan from the right and lower neighbors. Distances are exact
// along axis and diagonal directions and overestimate by at most about 8%
// elsewhere. A mask with no ink yields Infinity everywhere.
func DistanceTransform(m *Mask) *Field {
	width, height := m.Width, m.Height
	dist := NewField(width, height, Infinity)

	// Forward pass
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			if m.Pix[idx] {
				dist.Pix[idx] = 0
				continue
			}
			d := Infinity
			if x > 0 {
				d = minStep(d, dist.Pix[idx-1], axisStep)
			}
			if y > 0 {
				d = minStep(d, dist.Pix[idx-width], axisStep)
				if x > 0 {
					d = minStep(d, dist.Pix[idx-width-1], diagonalStep)
				}
				if x < width-1 {
					d = minStep(d, dist.Pix[idx-width+1], diagonalStep)
				}
			}
			dist.Pix[idx] = d
		}
	}

	// Backward pass
	for y := height - 1; y >= 0; y-- {
		for x := width - 1; x >= 0; x-- {
			idx := y*width + x
			d := dist.Pix[idx]
			if x < width-1 {
				d = minStep(d, dist.Pix[idx+1], axisStep)
			}
			if y < height-1 {
				d = minStep(d, dist.Pix[idx+width], axisStep)
				if x < width-1 {
					d = minStep(d, dist.Pix[idx+width+1], diagonalStep)
				}
				if x > 0 {
					d = minStep(d, dist.Pix[idx+width-1], diagonalStep)
				}
			}
			dist.Pix[idx] = d
		}
	}

	return dist
}

// minStep returns min(d, neighbor+step). An Infinity neighbor never
// propagates, which keeps the sentinel from overflowing.
func minStep(d, neighbor, step float32) float32 {
	if neighbor == Infinity {
		return d
	}
	if c := neighbor + step; c < d {
		return c
	}
	return d
}
