package ui

import (
	"fmt"
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ingyamilmolinar/patternlock/core/geom"
	"github.com/ingyamilmolinar/patternlock/core/lock"
	"github.com/ingyamilmolinar/patternlock/core/sched"
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
	hintText    = "Draw the pattern. Esc quits."
)

// Options configures the ebiten host.
type Options struct {
	Lock      lock.Options // Scheduler is supplied by the game
	Toast     time.Duration
	Sound     bool
	Volume    float64 // 0..1, zero is silent
	OnSuccess func()
	OnFail    func()
}

type toast struct {
	msg   string
	ok    bool
	until time.Time
}

// Game hosts a pattern lock in an ebiten window. All lock calls happen on
// ebiten's update goroutine; Draw only reads the frame built there.
type Game struct {
	lock   *lock.Lock
	sched  *sched.TickScheduler
	logger *game_log.Logger
	opts   Options
	now    func() time.Time

	square image.Rectangle
	frame  lock.Frame

	leftPrev    bool
	mouseActive bool
	touching    bool
	touchID     ebiten.TouchID
	touchAt     geom.Point
	audioReady  bool

	toast toast
}

func New(opts Options, logger *game_log.Logger) (*Game, error) {
	if logger == nil {
		logger = game_log.Nop()
	}
	if opts.Toast <= 0 {
		opts.Toast = 1500 * time.Millisecond
	}
	g := &Game{
		sched:  sched.NewTickScheduler(),
		logger: logger.With("ui"),
		opts:   opts,
		now:    time.Now,
	}
	lo := opts.Lock
	lo.Scheduler = g.sched
	if lo.Logger == nil {
		lo.Logger = logger
	}
	l, err := lock.New(lo)
	if err != nil {
		return nil, fmt.Errorf("create lock: %w", err)
	}
	l.SetCallback(lock.Callbacks{OnSuccess: g.onSuccess, OnFail: g.onFail})
	g.lock = l
	return g, nil
}

// SetNowFunc replaces the clock used for toasts and reset timers.
func (g *Game) SetNowFunc(f func() time.Time) {
	g.now = f
	g.sched.SetNowFunc(f)
}

// Lock exposes the hosted lock, e.g. to change the secret.
func (g *Game) Lock() *lock.Lock { return g.lock }

func (g *Game) Layout(w, h int) (int, int) {
	sq := squareIn(w, h)
	if sq != g.square || !g.lock.Grid().Ready() {
		if err := g.lock.OnSizeChanged(float64(w), float64(h)); err != nil {
			g.logger.Errorf("layout %dx%d: %v", w, h, err)
			return w, h
		}
		g.square = sq
		g.logger.Debugf("layout: window=%dx%d square=%v", w, h, sq)
		g.refreshFrame()
	}
	return w, h
}

func (g *Game) Update() error {
	if isKeyPressed(ebiten.KeyEscape) {
		g.lock.Close()
		g.sched.Stop()
		return ebiten.Termination
	}
	g.sched.Tick()
	g.handleMouse()
	g.handleTouch()
	if g.toast.msg != "" && !g.now().Before(g.toast.until) {
		g.toast = toast{}
	}
	g.refreshFrame()
	return nil
}

// local converts window coordinates into the lock's square.
func (g *Game) local(x, y int) (float64, float64) {
	return float64(x - g.square.Min.X), float64(y - g.square.Min.Y)
}

func (g *Game) handleMouse() {
	left := isMouseButtonPressed(ebiten.MouseButtonLeft)
	mx, my := cursorPosition()
	x, y := g.local(mx, my)
	switch {
	case left && !g.leftPrev:
		// a press in the margin around the square is not a gesture
		g.mouseActive = pt(mx, my, g.square)
		if g.mouseActive {
			g.warmAudio()
			g.lock.HandleInput(lock.InputDown, x, y)
		}
	case left && g.mouseActive:
		g.lock.HandleInput(lock.InputMove, x, y)
	case !left && g.mouseActive:
		g.lock.HandleInput(lock.InputUp, x, y)
		g.mouseActive = false
	}
	g.leftPrev = left
}

// handleTouch follows the first finger down and ignores the rest.
func (g *Game) handleTouch() {
	if !g.touching {
		ids := justPressedTouchIDs(nil)
		if len(ids) == 0 {
			return
		}
		tx, ty := touchPosition(ids[0])
		if !pt(tx, ty, g.square) {
			return
		}
		g.warmAudio()
		g.touching = true
		g.touchID = ids[0]
		x, y := g.local(tx, ty)
		g.touchAt = geom.Pt(x, y)
		g.lock.HandleInput(lock.InputDown, x, y)
		return
	}
	if isTouchJustReleased(g.touchID) {
		g.touching = false
		g.lock.HandleInput(lock.InputUp, g.touchAt.X, g.touchAt.Y)
		return
	}
	tx, ty := touchPosition(g.touchID)
	x, y := g.local(tx, ty)
	g.touchAt = geom.Pt(x, y)
	g.lock.HandleInput(lock.InputMove, x, y)
}

// warmAudio opens the audio device on the first press so the first tone
// is not held up by device start-up.
func (g *Game) warmAudio() {
	if !g.opts.Sound || g.audioReady {
		return
	}
	g.audioReady = true
	resumeAudio()
}

func (g *Game) refreshFrame() {
	f, err := g.lock.Frame()
	if err != nil {
		// keep the last good frame
		g.logger.Errorf("frame: %v", err)
		return
	}
	g.frame = f
}

func (g *Game) onSuccess() {
	g.showToast(msgUnlocked, true)
	if g.opts.Sound {
		playSound(audio.Unlock, g.opts.Volume)
	}
	if g.opts.OnSuccess != nil {
		g.opts.OnSuccess()
	}
}

func (g *Game) onFail() {
	g.showToast(msgWrong, false)
	if g.opts.Sound {
		playSound(audio.Reject, g.opts.Volume)
	}
	if g.opts.OnFail != nil {
		g.opts.OnFail()
	}
}

func (g *Game) showToast(msg string, ok bool) {
	g.toast = toast{msg: msg, ok: ok, until: g.now().Add(g.opts.Toast)}
	g.logger.Infof("toast: %s", msg)
}

func (g *Game) Draw(screen *ebiten.Image) {
	fillScreen(screen, colBackground)
	off := geom.Pt(float64(g.square.Min.X), float64(g.square.Min.Y))

	for _, c := range g.frame.Circles {
		strokeCircle(screen, c.Center.Add(off), c.Radius, c.Paint.Width, c.Paint.Color)
	}
	for _, s := range g.frame.Segments {
		strokeLine(screen, s.From.Add(off), s.To.Add(off), s.Paint.Width, s.Paint.Color)
	}
	for _, a := range g.frame.Arrows {
		var tri geom.Triangle
		for i, p := range a.Triangle {
			tri[i] = p.Add(off)
		}
		fillTriangle(screen, tri, a.Paint.Color)
	}

	debugPrint(screen, hintText, g.square.Min.X+4, g.square.Min.Y+4)
	if g.toast.msg != "" {
		g.drawToast(screen)
	}
}

func (g *Game) drawToast(screen *ebiten.Image) {
	w := len(g.toast.msg)*glyphW + 16
	h := glyphH + 8
	x := g.square.Min.X + (g.square.Dx()-w)/2
	y := g.square.Max.Y - h - 12
	bg := colToastFail
	if g.toast.ok {
		bg = colToastOK
	}
	drawRect(screen, image.Rect(x, y, x+w, y+h), bg, true)
	drawRect(screen, image.Rect(x, y, x+w, y+h), colHint, false)
	debugPrint(screen, g.toast.msg, x+8, y+4)
}
