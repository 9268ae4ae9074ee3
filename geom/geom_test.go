package geom

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	testSeed = 1337
)

func randomVec(gen *rand.Rand, lo, hi float64) r3.Vec {
	w := hi - lo
	return r3.Vec{
		X: lo + gen.Float64()*w,
		Y: lo + gen.Float64()*w,
		Z: lo + gen.Float64()*w,
	}
}

func randomVecs(gen *rand.Rand, n int, lo, hi float64) []r3.Vec {
	vs := make([]r3.Vec, n)
	for i := range vs {
		vs[i] = randomVec(gen, lo, hi)
	}
	return vs
}

func bruteWithin(pts []r3.Vec, c r3.Vec, dmin, dmax float64) []int {
	out := []int{}
	for i, p := range pts {
		d := Dist(p, c)
		if d >= dmin && d <= dmax {
			out = append(out, i)
		}
	}
	return out
}

func sorted(xs []int) []int {
	out := append([]int{}, xs...)
	sort.Ints(out)
	return out
}

func TestGridIdxClamp(t *testing.T) {
	g := &Grid{}
	g.Init([3]int{0, 0, 0}, [3]int{4, 5, 6})
	require.Equal(t, 120, g.Volume)

	seen := map[int]bool{}
	for z := 0; z < 6; z++ {
		for y := 0; y < 5; y++ {
			for x := 0; x < 4; x++ {
				idx := g.Idx(x, y, z)
				require.True(t, idx >= 0 && idx < g.Volume, "index %d", idx)
				assert.False(t, seen[idx], "index %d reused", idx)
				seen[idx] = true
			}
		}
	}
	assert.Len(t, seen, g.Volume)

	assert.Equal(t, 0, g.Clamp(0, -7))
	assert.Equal(t, 3, g.Clamp(0, 9))
	assert.Equal(t, 2, g.Clamp(1, 2))
	assert.Equal(t, 5, g.Clamp(2, 5))

	g.Init([3]int{-2, 0, 0}, [3]int{4, 4, 4})
	assert.Equal(t, -2, g.Clamp(0, -3))
	assert.Equal(t, 1, g.Clamp(0, 2))
	assert.Equal(t, 0, g.Idx(-2, 0, 0))
}

func TestPointsWithinExhaustive(t *testing.T) {
	gen := rand.New(rand.NewSource(testSeed))
	pts := randomVecs(gen, 2000, -20, 20)

	for _, n := range []int{1, 3, 7, 20, 64} {
		s := NewSearchN(pts, n, nil, 0)
		require.Equal(t, len(pts), s.Len())

		for q := 0; q < 200; q++ {
			// Some centers are well outside the grid.
			c := randomVec(gen, -30, 30)
			dmax := gen.Float64() * 12
			dmin := 0.0
			if q%3 == 0 {
				dmin = gen.Float64() * dmax
			}

			exp := bruteWithin(pts, c, dmin, dmax)
			got := sorted(s.PointsWithin(c, dmin, dmax, false))
			assert.Equal(t, exp, got, "n = %d, query %d", n, q)
			assert.Equal(t, len(exp), s.NumPointsWithin(c, dmin, dmax))
		}
	}
}

func TestPointsWithinBucketBoundaries(t *testing.T) {
	// A lattice whose points sit exactly on bucket walls, queried with radii
	// that are exact multiples of the bucket width.
	pts := []r3.Vec{}
	for x := 0; x <= 10; x++ {
		for y := 0; y <= 10; y++ {
			for z := 0; z <= 10; z++ {
				pts = append(pts, r3.Vec{X: float64(x), Y: float64(y), Z: float64(z)})
			}
		}
	}

	s := NewSearchN(pts, 10, nil, 0)
	assert.Equal(t, [3]float64{1, 1, 1}, s.BucketWidths())

	for ci := 0; ci < len(pts); ci += 7 {
		c := pts[ci]
		for _, dmax := range []float64{0, 1, 2, 3.5} {
			exp := bruteWithin(pts, c, 0, dmax)
			got := sorted(s.PointsWithin(c, 0, dmax, false))
			assert.Equal(t, exp, got, "center %v, dmax %g", c, dmax)
		}
	}
}

func TestInsertionOrderIndependence(t *testing.T) {
	gen := rand.New(rand.NewSource(testSeed + 1))
	pts := randomVecs(gen, 500, 0, 30)
	tags := make([]int, len(pts))
	for i := range tags {
		tags[i] = 1000 + i
	}

	perm := gen.Perm(len(pts))
	shuffled := make([]r3.Vec, len(pts))
	shuffledTags := make([]int, len(pts))
	for i, j := range perm {
		shuffled[i], shuffledTags[i] = pts[j], tags[j]
	}

	s1 := NewSearchN(pts, 8, tags, 0)
	s2 := NewSearchN(shuffled, 8, shuffledTags, 0)

	for q := 0; q < 100; q++ {
		c := randomVec(gen, 0, 30)
		dmax := gen.Float64() * 8
		assert.Equal(t,
			sorted(s1.PointsWithin(c, 0, dmax, true)),
			sorted(s2.PointsWithin(c, 0, dmax, true)),
		)
	}
}

func TestPointsOutsideGrid(t *testing.T) {
	box := r3.Box{Min: r3.Vec{}, Max: r3.Vec{X: 10, Y: 10, Z: 10}}
	s := NewSearch(box, 5)

	outside := []r3.Vec{
		{X: -4, Y: 5, Z: 5},
		{X: 15, Y: 15, Z: 15},
		{X: 5, Y: 5, Z: 100},
	}
	for i, p := range outside {
		assert.False(t, s.IsPointWithinGrid(p))
		s.AddPoint(p, i)
	}
	s.AddPoint(r3.Vec{X: 5, Y: 5, Z: 5}, 3)
	assert.True(t, s.IsPointWithinGrid(r3.Vec{X: 5, Y: 5, Z: 5}))

	i, j, k := s.PointBucket(r3.Vec{X: 15, Y: 15, Z: 15})
	assert.Equal(t, [3]int{4, 4, 4}, [3]int{i, j, k})
	i, j, k = s.PointBucket(r3.Vec{X: -4, Y: 5, Z: 5})
	assert.Equal(t, [3]int{0, 2, 2}, [3]int{i, j, k})
	i, j, k = s.PointBucket(r3.Vec{X: 1e300, Y: -1e300, Z: math.NaN()})
	assert.Equal(t, [3]int{4, 0, 0}, [3]int{i, j, k})

	assert.Equal(t, []int{0}, s.PointsWithin(r3.Vec{X: -4.5, Y: 5, Z: 5}, 0, 1, true))
	assert.Equal(t, []int{1}, s.PointsWithin(r3.Vec{X: 16, Y: 15, Z: 15}, 0, 1.5, true))
	assert.Equal(t, []int{2}, s.PointsWithin(r3.Vec{X: 5, Y: 5, Z: 99}, 0, 2, true))
	assert.Empty(t, s.PointsWithin(r3.Vec{X: 50, Y: 50, Z: 50}, 0, 5, true))
}

func TestDegenerateExtent(t *testing.T) {
	// Every point on one plane: the z axis has zero width.
	pts := []r3.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 3, Y: 3}}
	s := NewSearchDist(pts, 1, nil, 0)

	assert.Equal(t, []int{0, 1, 2}, sorted(s.PointsWithin(r3.Vec{}, 0, 1, false)))
	assert.Equal(t, []int{3}, s.PointsWithin(r3.Vec{X: 3, Y: 3, Z: 0.5}, 0, 1, false))

	single := NewSearchDist([]r3.Vec{{X: 2, Y: 2, Z: 2}}, 3, nil, 0)
	assert.Equal(t, 1, single.Buckets())
	assert.Equal(t, []int{0}, single.PointsWithin(r3.Vec{X: 2, Y: 2, Z: 4}, 0, 2, false))
	assert.Empty(t, single.PointsWithin(r3.Vec{X: 2, Y: 2, Z: 4}, 0, 1.9, false))
}

func TestSearchRanges(t *testing.T) {
	pts := []r3.Vec{{}, {X: 1}, {X: 2}, {X: 3}}
	s := NewSearchN(pts, 2, nil, 1)

	table := []struct {
		dmin, dmax float64
		out        []int
	}{
		{0, 0, []int{0}},
		{0, 1, []int{0, 1}},
		{1, 2, []int{1, 2}},
		{1.5, 10, []int{2, 3}},
		{2, 1, []int{}},
		{-1, -0.5, []int{}},
	}

	for i, line := range table {
		got := sorted(s.PointsWithin(r3.Vec{}, line.dmin, line.dmax, false))
		if len(got) != len(line.out) {
			t.Errorf("%d) Expected out = %v. Got out = %v.", i, line.out, got)
			continue
		}
		assert.Equal(t, line.out, got, "%d)", i)
	}
}

func TestBucketsFor(t *testing.T) {
	box := r3.Box{Max: r3.Vec{X: 10, Y: 4, Z: 1}}
	assert.Equal(t, 4, BucketsFor(box, 3))
	assert.Equal(t, 10, BucketsFor(box, 1))
	assert.Equal(t, 1, BucketsFor(box, 100))
	assert.Equal(t, MaxBuckets, BucketsFor(box, 1e-4))
	assert.Panics(t, func() { BucketsFor(box, 0) })
}

func TestReinit(t *testing.T) {
	gen := rand.New(rand.NewSource(testSeed + 2))
	pts := randomVecs(gen, 300, 0, 10)
	s := NewSearchN(pts, 2, nil, 0)
	c := r3.Vec{X: 5, Y: 5, Z: 5}
	before := sorted(s.PointsWithin(c, 0, 3, false))

	s.Reinit(9)
	assert.Equal(t, 9, s.Buckets())
	assert.Equal(t, before, sorted(s.PointsWithin(c, 0, 3, false)))
	assert.Panics(t, func() { s.Reinit(0) })
}

func TestAddPointsTagMismatch(t *testing.T) {
	s := NewSearch(r3.Box{Max: r3.Vec{X: 1, Y: 1, Z: 1}}, 2)
	assert.Panics(t, func() {
		s.AddPoints([]r3.Vec{{}, {}}, []int{1})
	})
}

func TestOverlaps(t *testing.T) {
	a := NewSearchN([]r3.Vec{{}, {X: 2, Y: 2, Z: 2}}, 2, nil, 0)
	b := NewSearchN([]r3.Vec{{X: 3, Y: 3, Z: 3}, {X: 5, Y: 5, Z: 5}}, 2, nil, 0)
	c := NewSearchN([]r3.Vec{{X: 1, Y: 1, Z: 1}, {X: 4, Y: 4, Z: 4}}, 2, nil, 0)

	assert.False(t, a.Overlaps(b, 0))
	assert.True(t, a.Overlaps(b, 1))
	assert.True(t, a.Overlaps(c, 0))
	assert.True(t, c.Overlaps(b, 0))
}

func TestTaggedSearch(t *testing.T) {
	type rot struct {
		res, idx int
	}

	pts := []r3.Vec{{}, {X: 1}, {X: 5}, {X: 5.5}}
	vals := []rot{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	s := NewTaggedSearchDist(pts, 2, vals, 0)

	assert.Equal(t, rot{1, 1}, s.TagOf(3))
	assert.ElementsMatch(t, []rot{{0, 0}, {0, 1}}, s.TagsWithin(r3.Vec{}, 0, 1.5))
	assert.ElementsMatch(t, []int{2, 3}, s.IndicesWithin(r3.Vec{X: 5.2}, 0, 1))

	s.AddPoint(r3.Vec{X: 20}, rot{2, 0})
	assert.Equal(t, []rot{{2, 0}}, s.TagsWithin(r3.Vec{X: 19}, 0, 1))
	assert.Panics(t, func() {
		NewTaggedSearchDist(pts, 2, vals[:2], 0)
	})
}

func BenchmarkPointsWithin(b *testing.B) {
	gen := rand.New(rand.NewSource(testSeed))
	pts := randomVecs(gen, 40000, 0, 100)
	s := NewSearchDist(pts, 5, nil, 0)
	cs := randomVecs(gen, 1024, 0, 100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.PointsWithin(cs[i%len(cs)], 0, 5, false)
	}
}

func BenchmarkBuild(b *testing.B) {
	gen := rand.New(rand.NewSource(testSeed))
	pts := randomVecs(gen, 40000, 0, 100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		NewSearchDist(pts, 3, nil, 0)
	}
}
