package tty

import (
	"io"
	"math"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ingyamilmolinar/patternlock/core/engine"
	"github.com/ingyamilmolinar/patternlock/core/geom"
	"github.com/ingyamilmolinar/patternlock/core/lock"
	"github.com/ingyamilmolinar/patternlock/internal/audio"
	game_log "github.com/ingyamilmolinar/patternlock/internal/log"
)

var testLogger = game_log.New(io.Discard, game_log.LevelError)

// audioLog records what the host asked the audio package to do.
type audioLog struct {
	ids     []string
	vols    []float64
	resumes int
}

func newTestHost(t *testing.T, cols, rows int) (*Host, tcell.SimulationScreen, *audioLog) {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	s.SetSize(cols, rows)
	h, err := New(s, Options{
		Lock:   lock.Options{Secret: "5236", ResetDelay: 10 * time.Millisecond},
		Toast:  time.Second,
		Sound:  true,
		Volume: 0.3,
	}, testLogger)
	if err != nil {
		t.Fatalf("new host: %v", err)
	}
	sounds := &audioLog{}
	origPlay, origResume := playSound, resumeAudio
	playSound = func(id string, vol float64) {
		sounds.ids = append(sounds.ids, id)
		sounds.vols = append(sounds.vols, vol)
	}
	resumeAudio = func() { sounds.resumes++ }
	t.Cleanup(func() {
		playSound, resumeAudio = origPlay, origResume
		h.Close()
		s.Fini()
	})
	h.resize()
	return h, s, sounds
}

// cellFor is the terminal cell over point index on a 160px square at the
// top-left corner.
func cellFor(index int) (int, int) {
	step := 160.0 / 3
	i := index - 1
	return cellOf(geom.Pt(step/2+float64(i%3)*step, step/2+float64(i/3)*step))
}

func mouse(h *Host, index int, buttons tcell.ButtonMask) {
	x, y := cellFor(index)
	h.handle(tcell.NewEventMouse(x, y, buttons, tcell.ModNone))
}

func rowText(s tcell.SimulationScreen, y, n int) string {
	var out []rune
	for x := 0; x < n; x++ {
		r, _, _, _ := s.GetContent(x, y)
		out = append(out, r)
	}
	return string(out)
}

func TestResizeFitsSquare(t *testing.T) {
	h, _, _ := newTestHost(t, 40, 21)
	if h.side != 160 || h.origin.X != 0 || h.origin.Y != 0 {
		t.Fatalf("side=%d origin=%v want 160 at (0,0)", h.side, h.origin)
	}

	h2, _, _ := newTestHost(t, 100, 21)
	if h2.side != 160 || h2.origin.X != 30 {
		t.Fatalf("side=%d origin=%v want 160 at x=30", h2.side, h2.origin)
	}
	p := h2.toFrame(30, 0)
	if math.Abs(p.X-2) > 1e-9 || math.Abs(p.Y-4) > 1e-9 {
		t.Fatalf("toFrame(30,0)=%v want (2,4)", p)
	}
}

func TestTinyTerminalSkipsLayout(t *testing.T) {
	h, _, _ := newTestHost(t, 1, 1)
	if h.side != 0 {
		t.Fatalf("side=%d want 0", h.side)
	}
	h.draw()
}

func TestMouseDragUnlocks(t *testing.T) {
	h, s, sounds := newTestHost(t, 40, 21)
	mouse(h, 5, tcell.Button1)
	for _, idx := range []int{2, 3, 6} {
		mouse(h, idx, tcell.Button1)
	}
	mouse(h, 6, tcell.ButtonNone)
	if st, err := h.Engine().State(); err != nil || st != lock.StateSuccess {
		t.Fatalf("state=%v err=%v want success", st, err)
	}

	select {
	case o := <-h.Engine().Outcomes():
		if o != engine.OutcomeSuccess {
			t.Fatalf("outcome=%v", o)
		}
		h.onOutcome(o)
	case <-time.After(2 * time.Second):
		t.Fatalf("no outcome")
	}
	h.draw()
	if got := rowText(s, 20, len(msgUnlocked)); got != msgUnlocked {
		t.Fatalf("status line=%q want %q", got, msgUnlocked)
	}
	if len(sounds.ids) != 1 || sounds.ids[0] != audio.Unlock {
		t.Fatalf("sounds=%v", sounds.ids)
	}
	if sounds.vols[0] != 0.3 || sounds.resumes != 1 {
		t.Fatalf("volume=%v resumes=%d want 0.3 and 1", sounds.vols[0], sounds.resumes)
	}
}

func TestWrongDragShowsFailure(t *testing.T) {
	h, s, sounds := newTestHost(t, 40, 21)
	mouse(h, 1, tcell.Button1)
	mouse(h, 2, tcell.Button1)
	mouse(h, 2, tcell.ButtonNone)
	select {
	case o := <-h.Engine().Outcomes():
		h.onOutcome(o)
	case <-time.After(2 * time.Second):
		t.Fatalf("no outcome")
	}
	h.draw()
	if got := rowText(s, 20, len(msgWrong)); got != msgWrong {
		t.Fatalf("status line=%q want %q", got, msgWrong)
	}
	if len(sounds.ids) != 1 || sounds.ids[0] != audio.Reject {
		t.Fatalf("sounds=%v", sounds.ids)
	}
}

func TestMotionWithoutButtonIsIgnored(t *testing.T) {
	h, _, _ := newTestHost(t, 40, 21)
	mouse(h, 1, tcell.ButtonNone)
	mouse(h, 2, tcell.ButtonNone)
	if st, _ := h.Engine().State(); st != lock.StateIdle {
		t.Fatalf("state=%v want idle", st)
	}
	if h.down {
		t.Fatalf("button tracked as down")
	}
}

func TestDrawRendersFrame(t *testing.T) {
	h, s, _ := newTestHost(t, 40, 21)
	select {
	case f := <-h.Engine().Frames():
		h.frame = f
	case <-time.After(2 * time.Second):
		t.Fatalf("no frame after resize")
	}
	h.draw()
	x, y := cellFor(1)
	if r, _, _, _ := s.GetContent(x, y); r != runeInner {
		t.Fatalf("point 1 cell=%q want %q", r, runeInner)
	}
	if got := rowText(s, 20, 4); got != "drag" {
		t.Fatalf("status line=%q want the hint", got)
	}
}

func TestQuitKeys(t *testing.T) {
	h, _, _ := newTestHost(t, 40, 21)
	if !h.handle(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Fatalf("q did not quit")
	}
	if !h.handle(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Fatalf("esc did not quit")
	}
	if h.handle(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)) {
		t.Fatalf("x quit")
	}
}

func TestAudioOpensOnFirstPressOnly(t *testing.T) {
	h, _, sounds := newTestHost(t, 40, 21)
	mouse(h, 1, tcell.ButtonNone)
	if sounds.resumes != 0 {
		t.Fatalf("audio opened without a press")
	}
	mouse(h, 1, tcell.Button1)
	mouse(h, 1, tcell.ButtonNone)
	mouse(h, 2, tcell.Button1)
	mouse(h, 2, tcell.ButtonNone)
	if sounds.resumes != 1 {
		t.Fatalf("resumes=%d want 1", sounds.resumes)
	}
}
