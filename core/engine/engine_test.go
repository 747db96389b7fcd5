package engine

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/ingyamilmolinar/patternlock/core/lock"
	game_log "github.com/ingyamilmolinar/patternlock/internal/log"
)

func newTestEngine(t *testing.T, delay time.Duration) *Engine {
	t.Helper()
	e, err := New(lock.Options{Secret: "5236", ResetDelay: delay}, game_log.New(io.Discard, game_log.LevelError))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	t.Cleanup(e.Close)
	if err := e.Resize(300, 300); err != nil {
		t.Fatalf("resize: %v", err)
	}
	return e
}

func center(index int) (float64, float64) {
	i := index - 1
	return 50 + float64(i%3)*100, 50 + float64(i/3)*100
}

func gesture(t *testing.T, e *Engine, indices ...int) {
	t.Helper()
	for i, idx := range indices {
		x, y := center(idx)
		kind := lock.InputMove
		if i == 0 {
			kind = lock.InputDown
		}
		if err := e.Submit(Input{Kind: kind, X: x, Y: y}); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	x, y := center(indices[len(indices)-1])
	if err := e.Submit(Input{Kind: lock.InputUp, X: x, Y: y}); err != nil {
		t.Fatalf("submit: %v", err)
	}
}

func waitOutcome(t *testing.T, e *Engine) Outcome {
	t.Helper()
	select {
	case o := <-e.Outcomes():
		return o
	case <-time.After(2 * time.Second):
		t.Fatalf("no outcome")
	}
	return 0
}

func TestEngineReportsSuccess(t *testing.T) {
	e := newTestEngine(t, 10*time.Millisecond)
	gesture(t, e, 5, 2, 3, 6)
	if o := waitOutcome(t, e); o != OutcomeSuccess {
		t.Fatalf("outcome=%v want success", o)
	}
	st, err := e.State()
	if err != nil || st != lock.StateIdle {
		t.Fatalf("state=%v err=%v want idle after reset", st, err)
	}
}

func TestEngineReportsFail(t *testing.T) {
	e := newTestEngine(t, 10*time.Millisecond)
	gesture(t, e, 5, 2, 3, 9)
	if o := waitOutcome(t, e); o != OutcomeFail {
		t.Fatalf("outcome=%v want fail", o)
	}
	select {
	case o := <-e.Outcomes():
		t.Fatalf("second outcome %v for one gesture", o)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEngineStateIsTerminalBeforeDelay(t *testing.T) {
	e := newTestEngine(t, time.Hour)
	gesture(t, e, 5, 2, 3, 6)
	st, err := e.State()
	if err != nil || st != lock.StateSuccess {
		t.Fatalf("state=%v err=%v want success", st, err)
	}
}

func TestEngineFramesFollowInput(t *testing.T) {
	e := newTestEngine(t, time.Hour)
	x, y := center(1)
	if err := e.Submit(Input{Kind: lock.InputDown, X: x, Y: y}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := e.State(); err != nil { // flush the loop
		t.Fatalf("state: %v", err)
	}
	select {
	case f := <-e.Frames():
		if len(f.Circles) != 2*lock.PointCount {
			t.Fatalf("circles=%d", len(f.Circles))
		}
		if f.Circles[0].Status != lock.StatusSelected {
			t.Fatalf("point 1 status=%v want selected", f.Circles[0].Status)
		}
	case <-time.After(time.Second):
		t.Fatalf("no frame")
	}
}

func TestEngineCloseCancelsReset(t *testing.T) {
	e, err := New(lock.Options{Secret: "5236", ResetDelay: 20 * time.Millisecond}, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := e.Resize(300, 300); err != nil {
		t.Fatalf("resize: %v", err)
	}
	gesture(t, e, 5, 2, 3, 6)
	if _, err := e.State(); err != nil {
		t.Fatalf("state: %v", err)
	}
	e.Close()
	time.Sleep(40 * time.Millisecond)
	if o, ok := <-e.Outcomes(); ok {
		t.Fatalf("outcome %v after Close", o)
	}
	if err := e.Submit(Input{Kind: lock.InputDown}); !errors.Is(err, ErrClosed) {
		t.Fatalf("submit after close err=%v", err)
	}
	if err := e.Resize(10, 10); !errors.Is(err, ErrClosed) {
		t.Fatalf("resize after close err=%v", err)
	}
}

func TestEngineErrors(t *testing.T) {
	e := newTestEngine(t, time.Second)
	if err := e.Resize(0, 10); !errors.Is(err, lock.ErrInvalidSize) {
		t.Fatalf("err=%v want ErrInvalidSize", err)
	}
	if err := e.SetSecret("abc"); !errors.Is(err, lock.ErrInvalidSecret) {
		t.Fatalf("err=%v want ErrInvalidSecret", err)
	}
	if _, err := New(lock.Options{Secret: "0"}, nil); !errors.Is(err, lock.ErrInvalidSecret) {
		t.Fatalf("err=%v want ErrInvalidSecret", err)
	}
}

func waitIdle(t *testing.T, e *Engine) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		st, err := e.State()
		if err != nil {
			t.Fatalf("state: %v", err)
		}
		if st == lock.StateIdle {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("state=%v never returned to idle", st)
		}
		time.Sleep(time.Millisecond)
	}
}

// fillOutcomes runs gestures until the outcome buffer is full and one more
// outcome is pending in the loop.
func fillOutcomes(t *testing.T, e *Engine) []Outcome {
	t.Helper()
	var want []Outcome
	for i := 0; i < cap(e.outcomes); i++ {
		if i%2 == 0 {
			gesture(t, e, 5, 2, 3, 6)
			want = append(want, OutcomeSuccess)
		} else {
			gesture(t, e, 1, 2)
			want = append(want, OutcomeFail)
		}
		waitIdle(t, e)
	}
	gesture(t, e, 7, 8, 9)
	return append(want, OutcomeFail)
}

func TestEngineKeepsOutcomesForSlowReader(t *testing.T) {
	e := newTestEngine(t, time.Millisecond)
	want := fillOutcomes(t, e)
	time.Sleep(20 * time.Millisecond)
	for i, w := range want {
		if o := waitOutcome(t, e); o != w {
			t.Fatalf("outcome %d=%v want %v", i, o, w)
		}
	}
	if st, err := e.State(); err != nil || st != lock.StateIdle {
		t.Fatalf("state=%v err=%v want idle once drained", st, err)
	}
}

func TestEngineCloseWithUnreadOutcomes(t *testing.T) {
	e := newTestEngine(t, time.Millisecond)
	fillOutcomes(t, e)
	time.Sleep(20 * time.Millisecond)
	closed := make(chan struct{})
	go func() {
		e.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatalf("close blocked on an unread outcome")
	}
}
