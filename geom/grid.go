package geom

// Grid provides an interface for reasoning over a 1D slice of buckets as if it
// were a 3D grid.
type Grid struct {
	CellBounds
	Length, Area, Volume int
	uBounds              [3]int
}

// CellBounds represents a bounding box aligned to grid cells.
type CellBounds struct {
	Origin, Width [3]int
}

// Init initializes a Grid instance.
func (g *Grid) Init(origin [3]int, width [3]int) {
	g.Origin = origin
	g.Width = width

	g.Length = width[0]
	g.Area = width[0] * width[1]
	g.Volume = width[0] * width[1] * width[2]

	for i := 0; i < 3; i++ {
		g.uBounds[i] = g.Origin[i] + g.Width[i]
	}
}

// Idx returns the grid index corresponding to a set of coordinates.
func (g *Grid) Idx(x, y, z int) int {
	return ((x - g.Origin[0]) + (y-g.Origin[1])*g.Length +
		(z-g.Origin[2])*g.Area)
}

// Clamp limits a cell coordinate along the given axis to the grid.
func (g *Grid) Clamp(dim, x int) int {
	if x < g.Origin[dim] {
		return g.Origin[dim]
	}
	if x >= g.uBounds[dim] {
		return g.uBounds[dim] - 1
	}
	return x
}
