// Package engine runs a lock.Lock on its own goroutine for hosts whose input
// arrives on several goroutines. Reset timers post back into the same loop,
// so the lock itself never sees concurrent calls.
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/ingyamilmolinar/patternlock/core/lock"
	game_log "github.com/ingyamilmolinar/patternlock/internal/log"
)

var ErrClosed = errors.New("engine: closed")

// Input is one pointer event in widget coordinates.
type Input struct {
	Kind lock.InputKind
	X, Y float64
}

// Outcome is published once per evaluated gesture, after the reset delay.
type Outcome int

const (
	OutcomeFail Outcome = iota
	OutcomeSuccess
)

func (o Outcome) String() string {
	if o == OutcomeSuccess {
		return "success"
	}
	return "fail"
}

// Engine owns a Lock and serializes every call to it.
type Engine struct {
	lock     *lock.Lock
	cmds     chan func()
	frames   chan lock.Frame
	outcomes chan Outcome

	timers  map[uint64]*time.Timer
	nextID  uint64
	afterFn func(time.Duration, func()) *time.Timer

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	logger *game_log.Logger
}

// New creates the lock described by opts and starts the run loop. Any
// Scheduler in opts is replaced by the engine's own timers.
func New(opts lock.Options, logger *game_log.Logger) (*Engine, error) {
	if logger == nil {
		logger = game_log.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		cmds:     make(chan func(), 64),
		frames:   make(chan lock.Frame, 1),
		outcomes: make(chan Outcome, 8),
		timers:   make(map[uint64]*time.Timer),
		afterFn:  time.AfterFunc,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
		logger:   logger.With("engine"),
	}
	opts.Scheduler = e
	if opts.Logger == nil {
		opts.Logger = logger
	}
	l, err := lock.New(opts)
	if err != nil {
		cancel()
		return nil, err
	}
	l.SetCallback(lock.Callbacks{
		OnSuccess: func() { e.publishOutcome(OutcomeSuccess) },
		OnFail:    func() { e.publishOutcome(OutcomeFail) },
	})
	e.lock = l

	go e.run()
	return e, nil
}

func (e *Engine) run() {
	defer close(e.done)
	defer close(e.frames)
	defer close(e.outcomes)
	for {
		select {
		case fn := <-e.cmds:
			fn()
		case <-e.ctx.Done():
			e.lock.Close()
			for id, t := range e.timers {
				t.Stop()
				delete(e.timers, id)
			}
			return
		}
	}
}

// post queues fn for the loop. It reports false once the engine is closed.
func (e *Engine) post(fn func()) bool {
	select {
	case <-e.ctx.Done():
		return false
	default:
	}
	select {
	case e.cmds <- fn:
		return true
	case <-e.ctx.Done():
		return false
	}
}

// call runs fn on the loop and waits for its result.
func (e *Engine) call(fn func() error) error {
	reply := make(chan error, 1)
	if !e.post(func() { reply <- fn() }) {
		return ErrClosed
	}
	select {
	case err := <-reply:
		return err
	case <-e.done:
		return ErrClosed
	}
}

// ScheduleOnce implements lock.Scheduler. It is only called from the loop.
func (e *Engine) ScheduleOnce(d time.Duration, fn func()) func() {
	e.nextID++
	id := e.nextID
	e.timers[id] = e.afterFn(d, func() {
		e.post(func() {
			if _, ok := e.timers[id]; !ok {
				return
			}
			delete(e.timers, id)
			fn()
			e.publishFrame()
		})
	})
	return func() {
		if t, ok := e.timers[id]; ok {
			t.Stop()
			delete(e.timers, id)
		}
	}
}

// Submit forwards a pointer event. It does not wait for the loop.
func (e *Engine) Submit(in Input) error {
	ok := e.post(func() {
		e.lock.HandleInput(in.Kind, in.X, in.Y)
		e.publishFrame()
	})
	if !ok {
		return ErrClosed
	}
	return nil
}

// Resize lays the grid out for a w x h area and publishes a fresh frame.
func (e *Engine) Resize(w, h float64) error {
	return e.call(func() error {
		if err := e.lock.OnSizeChanged(w, h); err != nil {
			return err
		}
		e.publishFrame()
		return nil
	})
}

func (e *Engine) SetSecret(secret string) error {
	return e.call(func() error { return e.lock.SetSecret(secret) })
}

// State returns the lock state as seen by the loop.
func (e *Engine) State() (lock.State, error) {
	var st lock.State
	err := e.call(func() error {
		st = e.lock.State()
		return nil
	})
	return st, err
}

// Frames delivers the latest frame after every change. Stale frames are
// replaced, never queued. The channel closes with the engine.
func (e *Engine) Frames() <-chan lock.Frame { return e.frames }

// Outcomes delivers one value per evaluated gesture, in order. The channel
// closes with the engine. Once eight outcomes are unread the loop waits for
// the reader, so callers must keep draining it.
func (e *Engine) Outcomes() <-chan Outcome { return e.outcomes }

// Close stops the loop, cancels pending resets and waits for the goroutine.
func (e *Engine) Close() {
	e.cancel()
	<-e.done
}

func (e *Engine) publishFrame() {
	f, err := e.lock.Frame()
	if err != nil {
		e.logger.Errorf("frame: %v", err)
		return
	}
	select {
	case e.frames <- f:
		return
	default:
	}
	select {
	case <-e.frames:
	default:
	}
	select {
	case e.frames <- f:
	default:
	}
}

func (e *Engine) publishOutcome(o Outcome) {
	select {
	case e.outcomes <- o:
	default:
		e.logger.Debugf("outcome %s waiting for a reader", o)
		select {
		case e.outcomes <- o:
		case <-e.ctx.Done():
		}
	}
}
