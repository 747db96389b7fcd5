// Package lock implements the 3x3 pattern unlock control: grid layout and
// hit testing, the visited path, the idle → in-progress → error/success →
// idle state machine and the per-frame draw description.
//
// A Lock is not safe for concurrent use. Hosts drive it from one goroutine:
// pointer events, reset timers and Frame calls all happen on that goroutine.
package lock

import (
	"errors"
	"fmt"
	"time"

	game_log "github.com/ingyamilmolinar/patternlock/internal/log"
)

// DefaultResetDelay is how long an error or success stays on screen.
const DefaultResetDelay = 1000 * time.Millisecond

// DefaultStrokeWidth is the ring and line width when none is configured.
const DefaultStrokeWidth = 2.0

var ErrNoScheduler = errors.New("lock: a scheduler is required")

// Scheduler runs fn once after d on the host's UI goroutine. The returned
// func cancels the callback if it has not run yet.
type Scheduler interface {
	ScheduleOnce(d time.Duration, fn func()) (cancel func())
}

// Callbacks receive the outcome of a gesture after the reset delay.
type Callbacks struct {
	OnSuccess func()
	OnFail    func()
}

// InputKind is the pointer event type forwarded by the host.
type InputKind int

const (
	InputDown InputKind = iota
	InputMove
	InputUp
)

func (k InputKind) String() string {
	switch k {
	case InputDown:
		return "down"
	case InputMove:
		return "move"
	case InputUp:
		return "up"
	default:
		return "unknown"
	}
}

type Options struct {
	Secret      string        // defaults to DefaultSecret
	StrokeWidth float64       // defaults to DefaultStrokeWidth
	ResetDelay  time.Duration // defaults to DefaultResetDelay
	Palette     Palette       // defaults to DefaultPalette(StrokeWidth)
	Scheduler   Scheduler
	Logger      *game_log.Logger
}

type Lock struct {
	grid    *Grid
	tracker *Tracker
	state   State

	secret      string
	strokeWidth float64
	resetDelay  time.Duration
	palette     Palette
	callbacks   Callbacks

	sched       Scheduler
	cancelReset func()
	closed      bool

	logger *game_log.Logger
}

func New(opts Options) (*Lock, error) {
	if opts.Scheduler == nil {
		return nil, ErrNoScheduler
	}
	if opts.Secret == "" {
		opts.Secret = DefaultSecret
	}
	if err := ValidateSecret(opts.Secret); err != nil {
		return nil, err
	}
	if opts.StrokeWidth <= 0 {
		opts.StrokeWidth = DefaultStrokeWidth
	}
	if opts.ResetDelay <= 0 {
		opts.ResetDelay = DefaultResetDelay
	}
	if opts.Palette == nil {
		opts.Palette = DefaultPalette(opts.StrokeWidth)
	}
	if opts.Logger == nil {
		opts.Logger = game_log.Nop()
	}
	g := NewGrid()
	return &Lock{
		grid:        g,
		tracker:     NewTracker(g),
		secret:      opts.Secret,
		strokeWidth: opts.StrokeWidth,
		resetDelay:  opts.ResetDelay,
		palette:     opts.Palette,
		sched:       opts.Scheduler,
		logger:      opts.Logger.With("lock"),
	}, nil
}

func (l *Lock) Grid() *Grid       { return l.grid }
func (l *Lock) Tracker() *Tracker { return l.tracker }
func (l *Lock) State() State      { return l.state }
func (l *Lock) Palette() Palette  { return l.palette }

// SetSecret replaces the comparison target. A gesture already in progress is
// compared against whatever secret is set when it ends.
func (l *Lock) SetSecret(secret string) error {
	if err := ValidateSecret(secret); err != nil {
		return err
	}
	l.secret = secret
	l.logger.Debugf("secret replaced (len=%d)", len(secret))
	return nil
}

func (l *Lock) SetCallback(cb Callbacks) { l.callbacks = cb }

// OnSizeChanged lays the grid out in the largest square that fits w x h.
func (l *Lock) OnSizeChanged(w, h float64) error {
	side := w
	if h < side {
		side = h
	}
	if l.grid.Ready() && side == l.grid.Size() {
		return nil
	}
	if err := l.grid.Layout(side, l.strokeWidth); err != nil {
		return fmt.Errorf("resize to %vx%v: %w", w, h, err)
	}
	l.logger.Debugf("layout: side=%.1f outer=%.2f inner=%.2f", side, l.grid.OuterRadius(), l.grid.InnerRadius())
	return nil
}

// HandleInput forwards one pointer event. Everything is ignored while the
// lock shows an error or success, and after Close.
func (l *Lock) HandleInput(kind InputKind, x, y float64) {
	if l.closed || l.state.Terminal() {
		return
	}
	switch kind {
	case InputDown, InputMove:
		l.tracker.RecordTouch(x, y)
		if l.tracker.TryAppend(x, y) {
			l.state = StateInProgress
			l.logger.Debugf("%s: path=%s", kind, l.tracker.Code())
		}
		if l.tracker.Full() {
			l.OnGestureEnd()
		}
	case InputUp:
		l.tracker.RecordTouch(x, y)
		l.OnGestureEnd()
	}
}

// OnGestureEnd compares the visited code with the secret, colours the path
// and schedules the reset. A release with nothing visited is ignored.
func (l *Lock) OnGestureEnd() {
	if l.state.Terminal() {
		return
	}
	if l.tracker.Len() == 0 {
		l.state = StateIdle
		return
	}
	code := l.tracker.Code()
	status := StatusError
	l.state = StateError
	if code == l.secret {
		status = StatusSuccess
		l.state = StateSuccess
	}
	for _, p := range l.tracker.Points() {
		p.Status = status
	}
	l.logger.Zerolog().Info().
		Stringer("state", l.state).
		Int("len", len(code)).
		Int("secret_len", len(l.secret)).
		Msg("gesture ended")
	l.cancelReset = l.sched.ScheduleOnce(l.resetDelay, l.OnResetTimerFired)
}

// OnResetTimerFired clears the gesture and reports its outcome. Calls
// outside an error or success state do nothing, so each gesture reports
// exactly once.
func (l *Lock) OnResetTimerFired() {
	if !l.state.Terminal() || l.closed {
		return
	}
	prior := l.state
	l.tracker.Clear()
	l.grid.ResetAll()
	l.state = StateIdle
	l.cancelReset = nil
	l.logger.Debugf("reset after %s", prior)

	switch prior {
	case StateSuccess:
		if l.callbacks.OnSuccess != nil {
			l.callbacks.OnSuccess()
		}
	case StateError:
		if l.callbacks.OnFail != nil {
			l.callbacks.OnFail()
		}
	}
}

// Frame returns the draw description for the current state.
func (l *Lock) Frame() (Frame, error) {
	return BuildFrame(l.grid, l.tracker, l.palette)
}

// Close cancels a pending reset. The lock ignores all input afterwards.
func (l *Lock) Close() {
	if l.cancelReset != nil {
		l.cancelReset()
		l.cancelReset = nil
	}
	l.closed = true
}
