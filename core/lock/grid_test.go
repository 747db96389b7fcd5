package lock

import (
	"errors"
	"math"
	"testing"

	"github.com/ingyamilmolinar/patternlock/core/geom"
)

func TestLayoutRadiiMatchFormula(t *testing.T) {
	g := NewGrid()
	if err := g.Layout(300, 2); err != nil {
		t.Fatalf("layout: %v", err)
	}
	if math.Abs(g.OuterRadius()-24) > 1e-9 {
		t.Fatalf("outer=%f want 24", g.OuterRadius())
	}
	if want := 300.0/36 - 1; math.Abs(g.InnerRadius()-want) > 1e-9 {
		t.Fatalf("inner=%f want %f", g.InnerRadius(), want)
	}
}

func TestLayoutRegularGrid(t *testing.T) {
	for _, size := range []float64{30, 99, 300, 1234.5} {
		g := NewGrid()
		if err := g.Layout(size, 2); err != nil {
			t.Fatalf("layout %v: %v", size, err)
		}
		cell := size / 3
		seen := map[geom.Point]bool{}
		for i, p := range g.Points() {
			if p.Index != i+1 {
				t.Fatalf("size %v: point %d has index %d", size, i, p.Index)
			}
			row, col := i/3, i%3
			want := geom.Pt(cell/2+float64(col)*cell, cell/2+float64(row)*cell)
			if geom.Distance(p.Center, want) > 1e-9 {
				t.Fatalf("size %v: center[%d]=%v want %v", size, p.Index, p.Center, want)
			}
			if seen[p.Center] {
				t.Fatalf("size %v: duplicate center %v", size, p.Center)
			}
			seen[p.Center] = true
		}
		if len(seen) != PointCount {
			t.Fatalf("size %v: %d distinct centers", size, len(seen))
		}
		if size >= 99 && !(g.OuterRadius() > g.InnerRadius() && g.InnerRadius() >= 0) {
			t.Fatalf("size %v: outer=%f inner=%f", size, g.OuterRadius(), g.InnerRadius())
		}
	}
}

func TestLayoutIsIdempotentAndKeepsStatus(t *testing.T) {
	g := NewGrid()
	_ = g.Layout(300, 2)
	p, _ := g.Point(5)
	p.Status = StatusSelected
	before := g.Points()[4].Center
	_ = g.Layout(300, 2)
	if g.Points()[4].Center != before {
		t.Fatalf("center moved on identical relayout")
	}
	if p.Status != StatusSelected {
		t.Fatalf("status=%v want selected after relayout", p.Status)
	}
}

func TestLayoutRejectsBadSizes(t *testing.T) {
	g := NewGrid()
	_ = g.Layout(300, 2)
	for _, size := range []float64{0, -10, math.NaN(), math.Inf(1)} {
		if err := g.Layout(size, 2); !errors.Is(err, ErrInvalidSize) {
			t.Fatalf("Layout(%v) err=%v want ErrInvalidSize", size, err)
		}
	}
	if err := g.Layout(300, -1); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("negative stroke err=%v", err)
	}
	if g.Size() != 300 {
		t.Fatalf("failed layout changed size to %v", g.Size())
	}
}

func TestLayoutClampsTinyRadii(t *testing.T) {
	g := NewGrid()
	if err := g.Layout(6, 4); err != nil {
		t.Fatalf("layout: %v", err)
	}
	if g.OuterRadius() != 0 || g.InnerRadius() != 0 {
		t.Fatalf("outer=%f inner=%f want clamped to 0", g.OuterRadius(), g.InnerRadius())
	}
}

func TestHitTest(t *testing.T) {
	g := NewGrid()
	_ = g.Layout(300, 2)
	cases := []struct {
		x, y float64
		want int // 0 means no hit
	}{
		{50, 50, 1},
		{150, 50, 2},
		{250, 250, 9},
		{150 + 23.9, 150, 5},
		{150 + 24, 150, 0}, // on the ring edge: strict
		{100, 100, 0},      // between cells
		{-50, -50, 0},
	}
	for _, c := range cases {
		p, ok := g.HitTest(c.x, c.y)
		if c.want == 0 {
			if ok {
				t.Fatalf("HitTest(%v,%v)=%d want none", c.x, c.y, p.Index)
			}
			continue
		}
		if !ok || p.Index != c.want {
			t.Fatalf("HitTest(%v,%v)=%v,%v want %d", c.x, c.y, p, ok, c.want)
		}
		again, _ := g.HitTest(c.x, c.y)
		if again != p {
			t.Fatalf("HitTest not idempotent at (%v,%v)", c.x, c.y)
		}
	}
}

func TestHitTestBeforeLayout(t *testing.T) {
	if _, ok := NewGrid().HitTest(0, 0); ok {
		t.Fatalf("hit on a grid that was never laid out")
	}
}

func TestResetAll(t *testing.T) {
	g := NewGrid()
	for _, p := range g.Points() {
		p.Status = StatusError
	}
	g.ResetAll()
	for _, p := range g.Points() {
		if p.Status != StatusNormal {
			t.Fatalf("point %d status=%v", p.Index, p.Status)
		}
	}
}

func TestPointLookup(t *testing.T) {
	g := NewGrid()
	if _, ok := g.Point(0); ok {
		t.Fatalf("index 0 resolved")
	}
	if _, ok := g.Point(10); ok {
		t.Fatalf("index 10 resolved")
	}
	if p, ok := g.Point(9); !ok || p.Index != 9 {
		t.Fatalf("Point(9)=%v,%v", p, ok)
	}
}
