// Package geom holds the small amount of plane geometry the lock needs:
// distances, segment shortening and arrowhead triangles.
package geom

import (
	"errors"
	"math"
)

// ErrDegenerateGeometry is returned when a ratio of a zero distance would be
// taken, i.e. two inputs that must differ are the same point.
var ErrDegenerateGeometry = errors.New("degenerate geometry: coincident points")

// Point is a position in widget-local coordinates.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p scaled by k.
func (p Point) Scale(k float64) Point { return Point{p.X * k, p.Y * k} }

// Triangle is a closed three-vertex polygon. For arrowheads the apex is
// stored first.
type Triangle [3]Point

// Distance returns the Euclidean distance between p1 and p2.
func Distance(p1, p2 Point) float64 {
	return math.Hypot(p1.X-p2.X, p1.Y-p2.Y)
}

// Shorten moves both endpoints of start→end offset units toward each other.
func Shorten(start, end Point, offset float64) (Point, Point, error) {
	d := Distance(start, end)
	if d == 0 {
		return start, end, ErrDegenerateGeometry
	}
	step := end.Sub(start).Scale(offset / d)
	return start.Add(step), end.Sub(step), nil
}

// Arrowhead returns an isosceles triangle with its apex at to, pointing along
// from→to. height is the distance from apex to base, halfBase is half the
// base width.
func Arrowhead(from, to Point, height, halfBase float64) (Triangle, error) {
	d := Distance(from, to)
	if d == 0 {
		return Triangle{}, ErrDegenerateGeometry
	}
	dx := to.X - from.X // signed
	dy := to.Y - from.Y
	base := Point{to.X - height/d*dx, to.Y - height/d*dy}
	k := halfBase / d
	return Triangle{
		to,
		{base.X + k*dy, base.Y - k*dx},
		{base.X - k*dy, base.Y + k*dx},
	}, nil
}

func cross(o, a, b Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// Contains reports whether p lies inside t or on its edge.
func (t Triangle) Contains(p Point) bool {
	d1 := cross(t[0], t[1], p)
	d2 := cross(t[1], t[2], p)
	d3 := cross(t[2], t[0], p)
	neg := d1 < 0 || d2 < 0 || d3 < 0
	pos := d1 > 0 || d2 > 0 || d3 > 0
	return !(neg && pos)
}
