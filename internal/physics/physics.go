// Package physics provides overlap tests for axis-aligned boxes and circles.
package physics

import "math"

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// RectsOverlap checks if two axis-aligned boxes, given by center and half extents, overlap.
// Boxes that only share an edge do not overlap.
func RectsOverlap(x1, y1, hw1, hh1, x2, y2, hw2, hh2 float64) bool {
	return math.Abs(x1-x2) < hw1+hw2 && math.Abs(y1-y2) < hh1+hh2
}

// CircleRectOverlap checks if a circle overlaps an axis-aligned box given by center and half extents.
func CircleRectOverlap(cx, cy, r, rx, ry, hw, hh float64) bool {
	// Closest point on the box to the circle center
	nx := clamp(cx, rx-hw, rx+hw)
	ny := clamp(cy, ry-hh, ry+hh)
	return DistanceSquared(cx, cy, nx, ny) < r*r
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
