package geom

// Point is an integer 2D vector. It is used for tile coordinates,
// sub-tile offsets and absolute pixel positions.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p multiplied by n on both axes.
func (p Point) Scale(n int) Point {
	return Point{X: p.X * n, Y: p.Y * n}
}

// IsZero reports whether both components are zero.
func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// Step returns the neighbouring tile in direction d.
func (p Point) Step(d Direction) Point {
	return p.Add(d.Delta(1))
}

// Abs returns the absolute value of n.
func Abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
