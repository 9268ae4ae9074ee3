package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Extent returns the smallest axis-aligned box containing every point in pts.
// An empty slice gives the zero box.
func Extent(pts []r3.Vec) r3.Box {
	if len(pts) == 0 {
		return r3.Box{}
	}

	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		lo.X, hi.X = math.Min(lo.X, p.X), math.Max(hi.X, p.X)
		lo.Y, hi.Y = math.Min(lo.Y, p.Y), math.Max(hi.Y, p.Y)
		lo.Z, hi.Z = math.Min(lo.Z, p.Z), math.Max(hi.Z, p.Z)
	}
	return r3.Box{Min: lo, Max: hi}
}

// PadBox grows b by pad on every side.
func PadBox(b r3.Box, pad float64) r3.Box {
	d := r3.Vec{X: pad, Y: pad, Z: pad}
	return r3.Box{Min: r3.Sub(b.Min, d), Max: r3.Add(b.Max, d)}
}

// BoxContains returns true if p lies inside b, boundaries included.
func BoxContains(b r3.Box, p r3.Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// BoxesIntersect returns true if the two boxes share at least one point.
func BoxesIntersect(b1, b2 r3.Box) bool {
	return b1.Min.X <= b2.Max.X && b2.Min.X <= b1.Max.X &&
		b1.Min.Y <= b2.Max.Y && b2.Min.Y <= b1.Max.Y &&
		b1.Min.Z <= b2.Max.Z && b2.Min.Z <= b1.Max.Z
}

// Dist returns the Euclidean distance between two points.
func Dist(a, b r3.Vec) float64 {
	return r3.Norm(r3.Sub(a, b))
}

func axis(v r3.Vec, dim int) float64 {
	switch dim {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}
