package lock

import (
	"strconv"
	"strings"

	"github.com/ingyamilmolinar/patternlock/core/geom"
)

// Tracker records the ordered, duplicate-free list of visited points and the
// latest touch position.
type Tracker struct {
	grid  *Grid
	path  []int
	touch geom.Point
}

func NewTracker(g *Grid) *Tracker {
	return &Tracker{grid: g, path: make([]int, 0, PointCount)}
}

// Terminal reports whether the visited points carry an Error or Success
// status. All path points share one status once terminal, so the first one
// decides.
func (t *Tracker) Terminal() bool {
	if len(t.path) == 0 {
		return false
	}
	p, _ := t.grid.Point(t.path[0])
	return p.Status.Terminal()
}

// RecordTouch stores the pointer position unless the path is terminal.
func (t *Tracker) RecordTouch(x, y float64) {
	if t.Terminal() {
		return
	}
	t.touch = geom.Pt(x, y)
}

// TryAppend hit-tests (x, y) and appends the point found, marking it
// Selected. It reports whether the path grew.
func (t *Tracker) TryAppend(x, y float64) bool {
	if t.Terminal() || t.Full() {
		return false
	}
	p, ok := t.grid.HitTest(x, y)
	if !ok || p.Status.Terminal() || t.Contains(p.Index) {
		return false
	}
	p.Status = StatusSelected
	t.path = append(t.path, p.Index)
	return true
}

// Contains reports whether index is already on the path.
func (t *Tracker) Contains(index int) bool {
	for _, i := range t.path {
		if i == index {
			return true
		}
	}
	return false
}

// Path returns a copy of the visited indices in order.
func (t *Tracker) Path() []int { return append([]int(nil), t.path...) }

// Points returns the visited grid points in order.
func (t *Tracker) Points() []*GridPoint {
	out := make([]*GridPoint, 0, len(t.path))
	for _, i := range t.path {
		p, _ := t.grid.Point(i)
		out = append(out, p)
	}
	return out
}

// Code concatenates the visited indices, e.g. [1 2 3] → "123".
func (t *Tracker) Code() string {
	var sb strings.Builder
	for _, i := range t.path {
		sb.WriteString(strconv.Itoa(i))
	}
	return sb.String()
}

func (t *Tracker) Touch() geom.Point { return t.touch }
func (t *Tracker) Len() int          { return len(t.path) }
func (t *Tracker) Full() bool        { return len(t.path) >= PointCount }

// Clear empties the path. Only the state machine calls it.
func (t *Tracker) Clear() { t.path = t.path[:0] }
