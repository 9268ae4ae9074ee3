package geom

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// TaggedSearch is a Search whose points carry values of an arbitrary type
// instead of bare integer tags.
type TaggedSearch[T any] struct {
	*Search
	vals []T
}

// NewTaggedSearch returns an empty TaggedSearch over box with n buckets per
// axis.
func NewTaggedSearch[T any](box r3.Box, n int) *TaggedSearch[T] {
	return &TaggedSearch[T]{Search: NewSearch(box, n)}
}

// NewTaggedSearchDist returns a TaggedSearch holding pts, where pts[i] is
// tagged with vals[i]. Bucket widths are close to d.
func NewTaggedSearchDist[T any](
	pts []r3.Vec, d float64, vals []T, pad float64,
) *TaggedSearch[T] {
	if len(pts) != len(vals) {
		panic(fmt.Sprintf("Got %d values for %d points.", len(vals), len(pts)))
	}

	box := PadBox(Extent(pts), pad)
	s := NewTaggedSearch[T](box, BucketsFor(box, d))
	for i := range pts {
		s.AddPoint(pts[i], vals[i])
	}
	return s
}

// AddPoint appends p tagged with v.
func (s *TaggedSearch[T]) AddPoint(p r3.Vec, v T) {
	s.Search.AddPoint(p, len(s.vals))
	s.vals = append(s.vals, v)
}

// TagOf returns the value attached to the i-th inserted point.
func (s *TaggedSearch[T]) TagOf(i int) T {
	return s.vals[s.Search.Tag(i)]
}

// TagsWithin returns the values of every point p with dmin <= |p - c| <= dmax,
// one entry per point.
func (s *TaggedSearch[T]) TagsWithin(c r3.Vec, dmin, dmax float64) []T {
	idxs := s.Search.PointsWithin(c, dmin, dmax, true)
	out := make([]T, len(idxs))
	for i, j := range idxs {
		out[i] = s.vals[j]
	}
	return out
}

// IndicesWithin returns the point indices of every point p with
// dmin <= |p - c| <= dmax.
func (s *TaggedSearch[T]) IndicesWithin(c r3.Vec, dmin, dmax float64) []int {
	return s.Search.PointsWithin(c, dmin, dmax, false)
}
