package imageutil

import "math"

// FindEndpoints returns the interior skeleton pixels that have exactly
// one ink neighbor, in row-major order.
func FindEndpoints(skel *Mask) []Point {
	var endpoints []Point
	for y := 1; y < skel.Height-1; y++ {
		for x := 1; x < skel.Width-1; x++ {
			if skel.Pix[y*skel.Width+x] && neighborCount(neighborhood(skel, x, y)) == 1 {
				endpoints = append(endpoints, Point{X: x, Y: y})
			}
		}
	}
	return endpoints
}

// BridgeGaps connects skeleton endpoints to the nearest other ink pixel
// within maxGap pixels (Euclidean), drawing a straight line between them.
// The immediate 3x3 neighborhood of an endpoint is not considered, since
// those pixels are already connected to it.
//
// skel is modified in place. The endpoints are found once up front, but
// each search sees the lines drawn for earlier endpoints.
func BridgeGaps(skel *Mask, maxGap int) {
	if maxGap < 2 {
		return
	}
	limit := float64(maxGap)

	for _, e := range FindEndpoints(skel) {
		var target Point
		found := false
		best := math.Inf(1)

		for dy := -maxGap; dy <= maxGap; dy++ {
			for dx := -maxGap; dx <= maxGap; dx++ {
				if abs(dx) <= 1 && abs(dy) <= 1 {
					continue
				}
				if !skel.At(e.X+dx, e.Y+dy) {
					continue
				}
				d := math.Sqrt(float64(dx*dx + dy*dy))
				if d <= limit && d < best {
					best = d
					target = Point{X: e.X + dx, Y: e.Y + dy}
					found = true
				}
			}
		}

		if found {
			DrawLine(skel, e, target)
		}
	}
}

// DrawLine sets every pixel on the Bresenham line from p0 to p1,
// endpoints included. Pixels outside the mask are skipped.
func DrawLine(m *Mask, p0, p1 Point) {
	dx := abs(p1.X - p0.X)
	dy := -abs(p1.Y - p0.Y)
	sx, sy := 1, 1
	if p0.X > p1.X {
		sx = -1
	}
	if p0.Y > p1.Y {
		sy = -1
	}
	err := dx + dy

	x, y := p0.X, p0.Y
	for {
		m.Set(x, y, true)
		if x == p1.X && y == p1.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// PruneBranches trims short spurs by removing every current endpoint,
// up to maxIterations rounds. At most maxRemovalFraction of the initial
// ink pixels are removed in total; the round that reaches that budget
// removes only as many endpoints (in scan order) as fit. skel is modified
// in place and the number of removed pixels is returned.
func PruneBranches(skel *Mask, maxIterations int, maxRemovalFraction float64) int {
	budget := int(float64(skel.Count()) * maxRemovalFraction)
	removed := 0

	for i := 0; i < maxIterations && removed < budget; i++ {
		endpoints := FindEndpoints(skel)
		if len(endpoints) == 0 {
			break
		}
		if n := budget - removed; len(endpoints) > n {
			endpoints = endpoints[:n]
		}
		for _, p := range endpoints {
			skel.Pix[p.Y*skel.Width+p.X] = false
		}
		removed += len(endpoints)
	}

	return removed
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
