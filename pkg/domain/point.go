package domain

import "fmt"

// Origin is where every route starts.
var Origin = Point{}

// Point is an ordered integer pair (x, y).
// Points are not required to be non-negative nor to lie inside a grid.
type Point struct {
	X int `json:"x" yaml:"x" mapstructure:"x"`
	Y int `json:"y" yaml:"y" mapstructure:"y"`
}

// P is a convenience constructor for Point.
func P(x, y int) Point {
	return Point{X: x, Y: y}
}

// Equal reports pairwise equality.
func (p Point) Equal(other Point) bool {
	return p.X == other.X && p.Y == other.Y
}

// Manhattan returns the sum of absolute coordinate differences.
func (p Point) Manhattan(other Point) int {
	dx := p.X - other.X
	dy := p.Y - other.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// String renders the point as "(x, y)".
func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Grid is a rectangular collection of (row, col) cells in row-major order.
// A zero Grid is the empty grid and contains nothing.
type Grid struct {
	Rows  int       `json:"rows"`
	Cols  int       `json:"cols"`
	Cells [][]Point `json:"-"`
}

// Len returns the number of cells.
func (g Grid) Len() int {
	n := 0
	for _, row := range g.Cells {
		n += len(row)
	}
	return n
}

// IsEmpty reports whether the grid has no cells.
func (g Grid) IsEmpty() bool {
	return g.Len() == 0
}

// PointSet holds the target list in input order.
// Visiting order is computed elsewhere; the set only answers membership.
type PointSet struct {
	points []Point
}

// NewPointSet copies the given points into a new set.
func NewPointSet(points ...Point) *PointSet {
	s := &PointSet{points: make([]Point, len(points))}
	copy(s.points, points)
	return s
}

// Points returns a copy of the stored points in input order.
func (s *PointSet) Points() []Point {
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out
}

// Includes reports whether p is one of the stored points.
func (s *PointSet) Includes(p Point) bool {
	for _, q := range s.points {
		if q.Equal(p) {
			return true
		}
	}
	return false
}

// Len returns the number of stored points, duplicates included.
func (s *PointSet) Len() int {
	return len(s.points)
}
