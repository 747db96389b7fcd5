package tty

import (
	"image/color"
	"math"

	"github.com/ingyamilmolinar/patternlock/core/geom"
	"github.com/ingyamilmolinar/patternlock/core/lock"
)

// Frame space is measured in sub-cell pixels. A terminal cell is roughly
// twice as tall as it is wide.
const (
	pxPerCol = 4
	pxPerRow = 8
)

const (
	runeOuter = '·'
	runeInner = 'o'
	runeFill  = '#'
)

// Cell is one rasterized terminal cell. A zero Rune is empty.
type Cell struct {
	Rune  rune
	Color color.RGBA
}

// Canvas holds a frame rasterized to terminal cells.
type Canvas struct {
	W, H  int
	cells []Cell
}

func NewCanvas(w, h int) *Canvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Canvas{W: w, H: h, cells: make([]Cell, w*h)}
}

// At returns the cell at column x, row y, or an empty cell out of range.
func (c *Canvas) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= c.W || y >= c.H {
		return Cell{}
	}
	return c.cells[y*c.W+x]
}

func (c *Canvas) set(x, y int, r rune, clr color.RGBA) {
	if x < 0 || y < 0 || x >= c.W || y >= c.H {
		return
	}
	c.cells[y*c.W+x] = Cell{Rune: r, Color: clr}
}

// cellOf maps a frame-space point to the cell containing it.
func cellOf(p geom.Point) (int, int) {
	return int(math.Floor(p.X / pxPerCol)), int(math.Floor(p.Y / pxPerRow))
}

// cellCenter is the frame-space centre of a cell.
func cellCenter(x, y int) geom.Point {
	return geom.Pt((float64(x)+0.5)*pxPerCol, (float64(y)+0.5)*pxPerRow)
}

// Rasterize draws f onto a cols x rows canvas in frame order: circles, then
// segments, then arrows.
func Rasterize(f lock.Frame, cols, rows int) *Canvas {
	c := NewCanvas(cols, rows)
	for _, circle := range f.Circles {
		c.circle(circle)
	}
	for _, s := range f.Segments {
		c.line(s.From, s.To, s.Paint.Color)
	}
	for _, a := range f.Arrows {
		c.triangle(a.Triangle, a.Paint.Color)
	}
	return c
}

func (c *Canvas) circle(ci lock.Circle) {
	r := runeOuter
	if ci.Ring == lock.RingInner {
		r = runeInner
		x, y := cellOf(ci.Center)
		c.set(x, y, r, ci.Paint.Color)
	}
	n := int(math.Ceil(2 * math.Pi * ci.Radius / (pxPerCol / 2)))
	if n < 12 {
		n = 12
	}
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		p := geom.Pt(ci.Center.X+ci.Radius*math.Cos(a), ci.Center.Y+ci.Radius*math.Sin(a))
		x, y := cellOf(p)
		c.set(x, y, r, ci.Paint.Color)
	}
}

func (c *Canvas) line(from, to geom.Point, clr color.RGBA) {
	r := lineRune(from, to)
	d := geom.Distance(from, to)
	steps := int(math.Ceil(d))
	if steps == 0 {
		x, y := cellOf(from)
		c.set(x, y, r, clr)
		return
	}
	for i := 0; i <= steps; i++ {
		p := from.Add(to.Sub(from).Scale(float64(i) / float64(steps)))
		x, y := cellOf(p)
		c.set(x, y, r, clr)
	}
}

func (c *Canvas) triangle(t geom.Triangle, clr color.RGBA) {
	minX, minY := cellOf(t[0])
	maxX, maxY := minX, minY
	for _, p := range t[1:] {
		x, y := cellOf(p)
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
	}
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if t.Contains(cellCenter(x, y)) {
				c.set(x, y, runeFill, clr)
			}
		}
	}
	// small arrowheads cover no cell centre; the apex always shows direction
	base := t[1].Add(t[2]).Scale(0.5)
	x, y := cellOf(t[0])
	c.set(x, y, arrowRune(base, t[0]), clr)
}

// lineRune picks the box character closest to the direction from→to as it
// appears on screen.
func lineRune(from, to geom.Point) rune {
	dx := (to.X - from.X) / pxPerCol
	dy := (to.Y - from.Y) / pxPerRow
	deg := math.Atan2(dy, dx) * 180 / math.Pi
	if deg < 0 {
		deg += 180
	}
	switch {
	case deg < 22.5 || deg >= 157.5:
		return '-'
	case deg < 67.5:
		return '\\'
	case deg < 112.5:
		return '|'
	default:
		return '/'
	}
}

func arrowRune(from, to geom.Point) rune {
	dx := (to.X - from.X) / pxPerCol
	dy := (to.Y - from.Y) / pxPerRow
	if math.Abs(dx) >= math.Abs(dy) {
		if dx >= 0 {
			return '>'
		}
		return '<'
	}
	if dy >= 0 {
		return 'v'
	}
	return '^'
}
