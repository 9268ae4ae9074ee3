package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// MaxBuckets caps the number of buckets along each axis. Larger bucket
	// widths only cost query time, never correctness.
	MaxBuckets = 128
)

// Search is a uniform N x N x N bucket grid over a set of tagged points. It
// answers radius queries by scanning only those buckets that a query sphere
// can reach.
//
// A Search is a snapshot: moving the points it was built from after insertion
// has no effect on it.
type Search struct {
	box     r3.Box
	n       int
	bw      [3]float64
	g       Grid
	buckets [][]int
	points  []r3.Vec
	tags    []int
}

// NewSearch returns an empty Search over the given box with n buckets per
// axis.
func NewSearch(box r3.Box, n int) *Search {
	s := &Search{box: box}
	s.Reinit(n)
	return s
}

// NewSearchN returns a Search containing pts whose box is the extent of pts
// padded by pad, with n buckets per axis. If tags is nil, every point is
// tagged with its position in pts.
func NewSearchN(pts []r3.Vec, n int, tags []int, pad float64) *Search {
	s := NewSearch(PadBox(Extent(pts), pad), n)
	s.AddPoints(pts, tags)
	return s
}

// NewSearchDist is identical to NewSearchN, except that the bucket count is
// chosen so that bucket widths are close to the characteristic distance d.
func NewSearchDist(pts []r3.Vec, d float64, tags []int, pad float64) *Search {
	box := PadBox(Extent(pts), pad)
	s := NewSearch(box, BucketsFor(box, d))
	s.AddPoints(pts, tags)
	return s
}

// BucketsFor returns the number of buckets per axis needed for the widest
// side of box to be split into buckets of width at most d.
func BucketsFor(box r3.Box, d float64) int {
	if d <= 0 || math.IsNaN(d) {
		panic(fmt.Sprintf("Characteristic distance must be positive, not %g.", d))
	}

	size := r3.Sub(box.Max, box.Min)
	w := math.Max(size.X, math.Max(size.Y, size.Z))
	n := int(math.Ceil(w / d))
	if n < 1 {
		return 1
	} else if n > MaxBuckets {
		return MaxBuckets
	}
	return n
}

// Reinit redistributes every point into a fresh grid of n buckets per axis.
func (s *Search) Reinit(n int) {
	if n < 1 {
		panic(fmt.Sprintf("Bucket count must be positive, not %d.", n))
	}

	s.n = n
	s.g.Init([3]int{0, 0, 0}, [3]int{n, n, n})
	for d := 0; d < 3; d++ {
		s.bw[d] = (axis(s.box.Max, d) - axis(s.box.Min, d)) / float64(n)
	}

	s.buckets = make([][]int, s.g.Volume)
	for i := range s.points {
		s.file(i)
	}
}

// AddPoint appends p with the given tag.
func (s *Search) AddPoint(p r3.Vec, tag int) {
	s.points = append(s.points, p)
	s.tags = append(s.tags, tag)
	s.file(len(s.points) - 1)
}

// AddPoints appends every point in pts. If tags is nil, every point is tagged
// with its position in pts.
func (s *Search) AddPoints(pts []r3.Vec, tags []int) {
	if tags != nil && len(tags) != len(pts) {
		panic(fmt.Sprintf(
			"Got %d tags for %d points.", len(tags), len(pts),
		))
	}

	for i, p := range pts {
		if tags == nil {
			s.AddPoint(p, i)
		} else {
			s.AddPoint(p, tags[i])
		}
	}
}

func (s *Search) file(i int) {
	x, y, z := s.PointBucket(s.points[i])
	idx := s.g.Idx(x, y, z)
	s.buckets[idx] = append(s.buckets[idx], i)
}

// cell returns the unclamped bucket coordinate of x along dim as a float so
// that far-away query points cannot overflow an int.
func (s *Search) cell(dim int, x float64) float64 {
	if s.bw[dim] == 0 {
		return 0
	}
	return math.Floor((x - axis(s.box.Min, dim)) / s.bw[dim])
}

// clampCell limits a bucket coordinate along dim to the grid. c is narrowed
// to just outside the grid before conversion so that it always fits in an
// int.
func (s *Search) clampCell(dim int, c float64) int {
	if math.IsNaN(c) {
		c = -1
	}
	c = math.Max(-1, math.Min(c, float64(s.n)))
	return s.g.Clamp(dim, int(c))
}

// PointBucket returns the bucket containing p. Points outside the grid are
// assigned to the nearest boundary bucket.
func (s *Search) PointBucket(p r3.Vec) (i, j, k int) {
	return s.clampCell(0, s.cell(0, p.X)),
		s.clampCell(1, s.cell(1, p.Y)),
		s.clampCell(2, s.cell(2, p.Z))
}

// IsPointWithinGrid returns true if p lies inside the grid's box.
func (s *Search) IsPointWithinGrid(p r3.Vec) bool {
	return BoxContains(s.box, p)
}

// bucketRange returns the inclusive range of bucket coordinates which could
// hold a point within dmax of c.
func (s *Search) bucketRange(c r3.Vec, dmax float64) (lo, hi [3]int) {
	for d := 0; d < 3; d++ {
		if s.bw[d] == 0 {
			lo[d], hi[d] = 0, s.n-1
			continue
		}
		k := s.cell(d, axis(c, d))
		e := math.Ceil(dmax / s.bw[d])
		lo[d], hi[d] = s.clampCell(d, k-e), s.clampCell(d, k+e)
	}
	return lo, hi
}

// PointsWithin returns the indices of every point p with dmin <= |p - c| <=
// dmax. If byTag is true, the tags of those points are returned instead, and
// a tag shared by several points appears once per point.
func (s *Search) PointsWithin(c r3.Vec, dmin, dmax float64, byTag bool) []int {
	out := []int{}
	s.visit(c, dmin, dmax, func(i int) {
		if byTag {
			out = append(out, s.tags[i])
		} else {
			out = append(out, i)
		}
	})
	return out
}

// NumPointsWithin returns the number of points p with dmin <= |p - c| <= dmax.
func (s *Search) NumPointsWithin(c r3.Vec, dmin, dmax float64) int {
	n := 0
	s.visit(c, dmin, dmax, func(int) { n++ })
	return n
}

func (s *Search) visit(c r3.Vec, dmin, dmax float64, f func(i int)) {
	if len(s.points) == 0 || dmax < 0 || dmin > dmax {
		return
	}

	lo, hi := s.bucketRange(c, dmax)
	for z := lo[2]; z <= hi[2]; z++ {
		for y := lo[1]; y <= hi[1]; y++ {
			for x := lo[0]; x <= hi[0]; x++ {
				for _, i := range s.buckets[s.g.Idx(x, y, z)] {
					d := Dist(s.points[i], c)
					if d >= dmin && d <= dmax {
						f(i)
					}
				}
			}
		}
	}
}

// Overlaps returns true if this grid's box, grown by pad, intersects the box
// of other.
func (s *Search) Overlaps(other *Search, pad float64) bool {
	return BoxesIntersect(PadBox(s.box, pad), other.box)
}

// Len returns the number of points in the grid.
func (s *Search) Len() int { return len(s.points) }

// Point returns the i-th inserted point.
func (s *Search) Point(i int) r3.Vec { return s.points[i] }

// Tag returns the tag of the i-th inserted point.
func (s *Search) Tag(i int) int { return s.tags[i] }

// Box returns the extent of the grid.
func (s *Search) Box() r3.Box { return s.box }

// Buckets returns the number of buckets along each axis.
func (s *Search) Buckets() int { return s.n }

// BucketWidths returns the width of a bucket along each axis.
func (s *Search) BucketWidths() [3]float64 { return s.bw }
