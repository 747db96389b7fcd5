package lock

import (
	"fmt"
	"image/color"

	"github.com/ingyamilmolinar/patternlock/core/geom"
)

// Paint is the style a host applies to one primitive: stroke colour and
// width for rings and segments, fill colour for arrows.
type Paint struct {
	Color color.RGBA
	Width float64
}

// Palette maps every status to its paint.
type Palette map[Status]Paint

// DefaultPalette is gray / blue / red / green at the given stroke width.
func DefaultPalette(strokeWidth float64) Palette {
	return Palette{
		StatusNormal:   {Color: color.RGBA{0x88, 0x88, 0x88, 0xff}, Width: strokeWidth},
		StatusSelected: {Color: color.RGBA{0x00, 0x00, 0xff, 0xff}, Width: strokeWidth},
		StatusError:    {Color: color.RGBA{0xff, 0x00, 0x00, 0xff}, Width: strokeWidth},
		StatusSuccess:  {Color: color.RGBA{0x00, 0xff, 0x00, 0xff}, Width: strokeWidth},
	}
}

// For returns the paint for s, falling back to the normal paint.
func (p Palette) For(s Status) Paint {
	if paint, ok := p[s]; ok {
		return paint
	}
	return p[StatusNormal]
}

// Ring tells the outer target circle from the inner dot ring.
type Ring int

const (
	RingOuter Ring = iota
	RingInner
)

type Circle struct {
	Center geom.Point
	Radius float64
	Ring   Ring
	Status Status
	Paint  Paint
}

type Segment struct {
	From, To   geom.Point
	Status     Status
	Paint      Paint
	RubberBand bool
}

type Arrow struct {
	Triangle geom.Triangle
	Status   Status
	Paint    Paint
}

// Frame is everything a host needs to draw one frame, in draw order:
// circles, then segments, then arrows.
type Frame struct {
	Size     float64
	Circles  []Circle
	Segments []Segment
	Arrows   []Arrow
}

// BuildFrame derives the draw primitives for the current grid and path. It
// has no side effects. The rubber band to the touch is omitted while the
// touch is within 2*inner of the last selected centre.
func BuildFrame(g *Grid, t *Tracker, palette Palette) (Frame, error) {
	f := Frame{Size: g.Size()}
	if !g.Ready() {
		return f, nil
	}
	outer, inner := g.OuterRadius(), g.InnerRadius()

	f.Circles = make([]Circle, 0, 2*PointCount)
	for _, p := range g.Points() {
		paint := palette.For(p.Status)
		f.Circles = append(f.Circles,
			Circle{Center: p.Center, Radius: outer, Ring: RingOuter, Status: p.Status, Paint: paint},
			Circle{Center: p.Center, Radius: inner, Ring: RingInner, Status: p.Status, Paint: paint},
		)
	}

	path := t.Points()
	for i := 1; i < len(path); i++ {
		prev, cur := path[i-1], path[i]
		seg, arrow, err := connector(prev.Center, cur.Center, inner, palette.For(cur.Status), cur.Status)
		if err != nil {
			return f, fmt.Errorf("connector %d→%d: %w", prev.Index, cur.Index, err)
		}
		f.Segments = append(f.Segments, seg)
		f.Arrows = append(f.Arrows, arrow)
	}

	if len(path) == 0 || t.Terminal() {
		return f, nil
	}
	last := path[len(path)-1]
	// A finger still inside the inner ring leaves nothing to draw once both
	// ends are pulled in by the inner radius.
	if geom.Distance(last.Center, t.Touch()) <= 2*inner {
		return f, nil
	}
	seg, arrow, err := connector(last.Center, t.Touch(), inner, palette.For(StatusSelected), StatusSelected)
	if err != nil {
		return f, fmt.Errorf("rubber band from %d: %w", last.Index, err)
	}
	seg.RubberBand = true
	f.Segments = append(f.Segments, seg)
	f.Arrows = append(f.Arrows, arrow)
	return f, nil
}

// connector shortens from→to by inner at both ends and puts an arrowhead on
// the shortened end.
func connector(from, to geom.Point, inner float64, paint Paint, status Status) (Segment, Arrow, error) {
	start, end, err := geom.Shorten(from, to, inner)
	if err != nil {
		return Segment{}, Arrow{}, err
	}
	tri, err := geom.Arrowhead(start, end, inner, inner/2)
	if err != nil {
		return Segment{}, Arrow{}, err
	}
	return Segment{From: start, To: end, Status: status, Paint: paint},
		Arrow{Triangle: tri, Status: status, Paint: paint}, nil
}
