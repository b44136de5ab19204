package imageutil

// Dilate grows the ink of a mask with a 3x3 square structuring element,
// applied iterations times. Pixels outside the mask count as background.
func Dilate(m *Mask, iterations int) *Mask {
	return morph(m, iterations, true)
}

// Erode shrinks the ink of a mask with a 3x3 square structuring element,
// applied iterations times. Pixels outside the mask count as background,
// so ink touching the image border always erodes.
func Erode(m *Mask, iterations int) *Mask {
	return morph(m, iterations, false)
}

// morph runs dilation (grow) or erosion (!grow). Each iteration reads only
// the previous iteration's buffer and writes the other one.
func morph(m *Mask, iterations int, grow bool) *Mask {
	width, height := m.Width, m.Height
	current := m.Clone()
	if width == 0 || height == 0 {
		return current
	}
	next := NewMask(width, height)

	for i := 0; i < iterations; i++ {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				if grow {
					next.Pix[y*width+x] = anyNeighbor(current, x, y)
				} else {
					next.Pix[y*width+x] = allNeighbors(current, x, y)
				}
			}
		}
		current, next = next, current
	}

	return current
}

// anyNeighbor reports whether (x, y) or any of its 8 neighbors is ink.
func anyNeighbor(m *Mask, x, y int) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if m.At(x+dx, y+dy) {
				return true
			}
		}
	}
	return false
}

// allNeighbors reports whether (x, y) and all of its 8 neighbors are ink.
// A neighbor outside the mask is background.
func allNeighbors(m *Mask, x, y int) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if !m.At(x+dx, y+dy) {
				return false
			}
		}
	}
	return true
}
