package geom

import "math"

// Point is a position in the plane.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Scale returns p multiplied by f.
func (p Point) Scale(f float64) Point { return Point{X: p.X * f, Y: p.Y * f} }

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	x := a.X - b.X
	y := a.Y - b.Y
	return math.Sqrt(x*x + y*y)
}

// CCW reports whether the turn p1 → p2 → p3 is counterclockwise.
// Collinear points return false.
func CCW(p1, p2, p3 Point) bool {
	return (p3.Y-p1.Y)*(p2.X-p1.X) > (p2.Y-p1.Y)*(p3.X-p1.X)
}

// SegmentsIntersect reports whether segment a1-a2 crosses segment b1-b2.
// The endpoints of each segment must lie on opposite sides of the other.
func SegmentsIntersect(a1, a2, b1, b2 Point) bool {
	return CCW(a1, b1, b2) != CCW(a2, b1, b2) &&
		CCW(a1, a2, b1) != CCW(a1, a2, b2)
}

// Direction returns the unit vector for an angle given in whole degrees.
func Direction(deg int) Point {
	rad := float64(deg) / 180 * math.Pi
	return Point{X: math.Cos(rad), Y: math.Sin(rad)}
}

// Polar returns the point at distance r from center along deg degrees.
func Polar(center Point, deg int, r float64) Point {
	return center.Add(Direction(deg).Scale(r))
}
