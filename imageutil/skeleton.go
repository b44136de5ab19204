package imageutil

// Skeletonize thins the ink of m to a 1-pixel-wide centerline using the
// Zhang-Suen algorithm. The 1-pixel border of the mask is never modified.
//
// Each sub-iteration evaluates every pixel against the mask as it was at
// the start of that sub-iteration and removes the marked pixels together,
// so the result does not depend on scan order. Thinning stops after the
// first full pass that removes nothing.
func Skeletonize(m *Mask) *Mask {
	current := m.Clone()
	if current.Width < 3 || current.Height < 3 {
		return current
	}

	var toRemove []int
	for {
		removed := 0
		for step := 0; step < 2; step++ {
			toRemove = toRemove[:0]
			for y := 1; y < current.Height-1; y++ {
				for x := 1; x < current.Width-1; x++ {
					idx := y*current.Width + x
					if current.Pix[idx] && removable(neighborhood(current, x, y), step) {
						toRemove = append(toRemove, idx)
					}
				}
			}
			for _, idx := range toRemove {
				current.Pix[idx] = false
			}
			removed += len(toRemove)
		}
		if removed == 0 {
			return current
		}
	}
}

// neighborhood returns the 8 neighbors of (x, y) clockwise from the top:
// top, top-right, right, bottom-right, bottom, bottom-left, left, top-left.
// The removal rules index into this order, so it must not change.
func neighborhood(m *Mask, x, y int) [8]bool {
	return [8]bool{
		m.At(x, y-1),
		m.At(x+1, y-1),
		m.At(x+1, y),
		m.At(x+1, y+1),
		m.At(x, y+1),
		m.At(x-1, y+1),
		m.At(x-1, y),
		m.At(x-1, y-1),
	}
}

// neighborCount returns the number of ink pixels in a neighborhood.
func neighborCount(n [8]bool) int {
	count := 0
	for _, v := range n {
		if v {
			count++
		}
	}
	return count
}

// transitionCount returns the number of background-to-ink transitions
// walking the neighborhood circularly.
func transitionCount(n [8]bool) int {
	count := 0
	for i := 0; i < 8; i++ {
		if !n[i] && n[(i+1)%8] {
			count++
		}
	}
	return count
}

// removable applies the Zhang-Suen deletion test for sub-iteration step
// (0 or 1) to a pixel with neighborhood n.
func removable(n [8]bool, step int) bool {
	b := neighborCount(n)
	if b < 2 || b > 6 || transitionCount(n) != 1 {
		return false
	}
	const top, right, bottom, left = 0, 2, 4, 6
	if step == 0 {
		return !(n[top] && n[right] && n[bottom]) &&
			!(n[right] && n[bottom] && n[left])
	}
	return !(n[top] && n[right] && n[left]) &&
		!(n[top] && n[bottom] && n[left])
}
