// Package tty hosts the pattern lock in a terminal through tcell. Mouse drags
// drive the lock; frames are rasterized to cells.
package tty

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ingyamilmolinar/patternlock/core/engine"
	"github.com/ingyamilmolinar/patternlock/core/geom"
	"github.com/ingyamilmolinar/patternlock/core/lock"
	"github.com/ingyamilmolinar/patternlock/internal/audio"
	game_log "github.com/ingyamilmolinar/patternlock/internal/log"
)

// playSound and resumeAudio drive the feedback tones. Overridden in tests.
var (
	playSound   = audio.PlayVol
	resumeAudio = audio.Resume
)

const (
	msgUnlocked = "Unlocked"
	msgWrong    = "Wrong pattern"
	hintText    = "drag with the mouse · q quits"
)

type Options struct {
	Lock   lock.Options // Scheduler is supplied by the engine
	Toast  time.Duration
	Sound  bool
	Volume float64 // 0..1, zero is silent
}

type toast struct {
	msg   string
	ok    bool
	until time.Time
}

// Host owns the screen and an engine running the lock. Run's goroutine is
// the only one touching Host state.
type Host struct {
	screen tcell.Screen
	eng    *engine.Engine
	logger *game_log.Logger
	opts   Options
	now    func() time.Time

	origin image.Point // top-left cell of the square
	side   int         // square side in frame pixels

	down       bool
	audioReady bool
	frame      lock.Frame
	toast      toast
}

// New wraps an initialized screen.
func New(screen tcell.Screen, opts Options, logger *game_log.Logger) (*Host, error) {
	if logger == nil {
		logger = game_log.Nop()
	}
	if opts.Toast <= 0 {
		opts.Toast = 1500 * time.Millisecond
	}
	eng, err := engine.New(opts.Lock, logger)
	if err != nil {
		return nil, fmt.Errorf("start engine: %w", err)
	}
	return &Host{
		screen: screen,
		eng:    eng,
		logger: logger.With("tty"),
		opts:   opts,
		now:    time.Now,
	}, nil
}

// Engine exposes the lock's event loop.
func (h *Host) Engine() *engine.Engine { return h.eng }

// Run draws and handles events until the user quits or ctx ends.
func (h *Host) Run(ctx context.Context) error {
	h.screen.EnableMouse()
	h.resize()

	done := make(chan struct{})
	defer close(done)
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if h.handle(ev) {
				return nil
			}
		case f, ok := <-h.eng.Frames():
			if !ok {
				return nil
			}
			h.frame = f
			h.draw()
		case o, ok := <-h.eng.Outcomes():
			if !ok {
				return nil
			}
			h.onOutcome(o)
			h.draw()
		case <-ticker.C:
			if h.toast.msg != "" && !h.now().Before(h.toast.until) {
				h.toast = toast{}
				h.draw()
			}
		}
	}
}

// Close stops the engine. The caller still owns the screen.
func (h *Host) Close() { h.eng.Close() }

// handle processes one terminal event and reports whether to quit.
func (h *Host) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return true
		}
	case *tcell.EventResize:
		h.resize()
		h.screen.Sync()
	case *tcell.EventMouse:
		x, y := ev.Position()
		p := h.toFrame(x, y)
		pressed := ev.Buttons()&tcell.Button1 != 0
		var kind lock.InputKind
		switch {
		case pressed && !h.down:
			kind = lock.InputDown
			h.warmAudio()
		case pressed && h.down:
			kind = lock.InputMove
		case !pressed && h.down:
			kind = lock.InputUp
		default:
			return false
		}
		h.down = pressed
		if err := h.eng.Submit(engine.Input{Kind: kind, X: p.X, Y: p.Y}); err != nil {
			h.logger.Errorf("submit %s: %v", kind, err)
		}
	}
	return false
}

// warmAudio opens the audio device on the first press.
func (h *Host) warmAudio() {
	if !h.opts.Sound || h.audioReady {
		return
	}
	h.audioReady = true
	resumeAudio()
}

// resize fits the square above the status line.
func (h *Host) resize() {
	cols, rows := h.screen.Size()
	rows-- // status line
	side := min(cols*pxPerCol, rows*pxPerRow)
	if side <= 0 {
		h.logger.Warnf("terminal too small: %dx%d", cols, rows+1)
		return
	}
	h.side = side
	h.origin = image.Pt((cols-side/pxPerCol)/2, (rows-side/pxPerRow)/2)
	if err := h.eng.Resize(float64(side), float64(side)); err != nil {
		h.logger.Errorf("resize: %v", err)
	}
}

// toFrame maps a cell to the frame-space centre of that cell.
func (h *Host) toFrame(x, y int) geom.Point {
	return cellCenter(x-h.origin.X, y-h.origin.Y)
}

func (h *Host) onOutcome(o engine.Outcome) {
	msg, ok, sound := msgWrong, false, audio.Reject
	if o == engine.OutcomeSuccess {
		msg, ok, sound = msgUnlocked, true, audio.Unlock
	}
	h.toast = toast{msg: msg, ok: ok, until: h.now().Add(h.opts.Toast)}
	h.logger.Infof("toast: %s", msg)
	if h.opts.Sound {
		playSound(sound, h.opts.Volume)
	}
}

func tcellColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func (h *Host) draw() {
	h.screen.Clear()
	if h.side > 0 {
		canvas := Rasterize(h.frame, h.side/pxPerCol, h.side/pxPerRow)
		for y := 0; y < canvas.H; y++ {
			for x := 0; x < canvas.W; x++ {
				cell := canvas.At(x, y)
				if cell.Rune == 0 {
					continue
				}
				style := tcell.StyleDefault.Foreground(tcellColor(cell.Color))
				h.screen.SetContent(h.origin.X+x, h.origin.Y+y, cell.Rune, nil, style)
			}
		}
	}

	_, rows := h.screen.Size()
	msg, style := hintText, tcell.StyleDefault.Foreground(tcell.ColorGray)
	if h.toast.msg != "" {
		msg = h.toast.msg
		style = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkRed)
		if h.toast.ok {
			style = style.Background(tcell.ColorDarkGreen)
		}
	}
	h.printAt(h.origin.X, rows-1, msg, style)
	h.screen.Show()
}

func (h *Host) printAt(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		h.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
