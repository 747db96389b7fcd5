package lock

import (
	"errors"
	"fmt"
	"math"

	"github.com/ingyamilmolinar/patternlock/core/geom"
)

// GridSize is the number of targets per row and column.
const GridSize = 3

// PointCount is the number of targets on the grid.
const PointCount = GridSize * GridSize

// ErrInvalidSize is returned by Layout for sizes that cannot hold a grid.
var ErrInvalidSize = errors.New("invalid layout size")

// GridPoint is one circular target. Index runs 1..9 in reading order and
// never changes; only Status is mutable.
type GridPoint struct {
	Index  int
	Center geom.Point
	Status Status
}

// Grid owns the nine targets and the radii derived from the square size.
type Grid struct {
	points      [PointCount]GridPoint
	size        float64
	strokeWidth float64
	outerRadius float64
	innerRadius float64
}

// NewGrid returns a grid with indices assigned and no layout yet.
func NewGrid() *Grid {
	g := &Grid{}
	for i := range g.points {
		g.points[i].Index = i + 1
	}
	return g
}

// Layout places the nine centers on a 3x3 grid dividing squareSize evenly
// and derives the ring radii from the cell width:
//
//	outer = cell/4  - stroke/2
//	inner = cell/12 - stroke/2
//
// Radii are clamped at zero. Point statuses are left untouched.
func (g *Grid) Layout(squareSize, strokeWidth float64) error {
	if !(squareSize > 0) || math.IsInf(squareSize, 0) {
		return fmt.Errorf("%w: square size %v", ErrInvalidSize, squareSize)
	}
	if strokeWidth < 0 || math.IsNaN(strokeWidth) {
		return fmt.Errorf("%w: stroke width %v", ErrInvalidSize, strokeWidth)
	}
	cell := squareSize / GridSize
	for row := 0; row < GridSize; row++ {
		for col := 0; col < GridSize; col++ {
			p := &g.points[row*GridSize+col]
			p.Center = geom.Pt(cell/2+float64(col)*cell, cell/2+float64(row)*cell)
		}
	}
	g.size = squareSize
	g.strokeWidth = strokeWidth
	g.outerRadius = math.Max(0, cell/4-strokeWidth/2)
	g.innerRadius = math.Max(0, cell/12-strokeWidth/2)
	return nil
}

// HitTest returns the lowest-indexed point whose center lies strictly within
// the outer radius of (x, y).
func (g *Grid) HitTest(x, y float64) (*GridPoint, bool) {
	if g.size == 0 {
		return nil, false
	}
	touch := geom.Pt(x, y)
	for i := range g.points {
		if geom.Distance(touch, g.points[i].Center) < g.outerRadius {
			return &g.points[i], true
		}
	}
	return nil, false
}

// ResetAll sets every point back to StatusNormal.
func (g *Grid) ResetAll() {
	for i := range g.points {
		g.points[i].Status = StatusNormal
	}
}

// Point returns the point with the given 1-based index.
func (g *Grid) Point(index int) (*GridPoint, bool) {
	if index < 1 || index > PointCount {
		return nil, false
	}
	return &g.points[index-1], true
}

// Points returns the nine points in index order.
func (g *Grid) Points() []*GridPoint {
	out := make([]*GridPoint, PointCount)
	for i := range g.points {
		out[i] = &g.points[i]
	}
	return out
}

func (g *Grid) Size() float64        { return g.size }
func (g *Grid) StrokeWidth() float64 { return g.strokeWidth }
func (g *Grid) OuterRadius() float64 { return g.outerRadius }
func (g *Grid) InnerRadius() float64 { return g.innerRadius }

// Ready reports whether Layout has succeeded at least once.
func (g *Grid) Ready() bool { return g.size > 0 }
