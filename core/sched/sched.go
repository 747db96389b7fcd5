// Package sched provides one-shot delayed callbacks for hosts that already
// run a frame loop. Callbacks run inside Tick, on the caller's goroutine.
package sched

import (
	"sort"
	"time"
)

type task struct {
	id  uint64
	due time.Time
	fn  func()
}

// TickScheduler collects delayed callbacks and fires them from Tick once
// their deadline has passed.
type TickScheduler struct {
	now     func() time.Time
	nextID  uint64
	pending []task
}

func NewTickScheduler() *TickScheduler {
	return &TickScheduler{now: time.Now}
}

// ScheduleOnce queues fn to run on the first Tick at or after now+d. The
// returned func removes it if it has not run yet.
func (s *TickScheduler) ScheduleOnce(d time.Duration, fn func()) func() {
	s.nextID++
	id := s.nextID
	s.pending = append(s.pending, task{id: id, due: s.now().Add(d), fn: fn})
	return func() { s.cancel(id) }
}

func (s *TickScheduler) cancel(id uint64) {
	for i, t := range s.pending {
		if t.id == id {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}

// Tick runs every due callback in deadline order and returns how many ran.
// Callbacks scheduled from inside a callback wait for a later Tick.
func (s *TickScheduler) Tick() int {
	if len(s.pending) == 0 {
		return 0
	}
	now := s.now()
	var due []task
	keep := s.pending[:0]
	for _, t := range s.pending {
		if !t.due.After(now) {
			due = append(due, t)
		} else {
			keep = append(keep, t)
		}
	}
	s.pending = keep
	sort.SliceStable(due, func(i, j int) bool { return due[i].due.Before(due[j].due) })
	for _, t := range due {
		t.fn()
	}
	return len(due)
}

// Pending returns the number of callbacks still waiting.
func (s *TickScheduler) Pending() int { return len(s.pending) }

// Stop drops every pending callback. Hosts call it on teardown.
func (s *TickScheduler) Stop() { s.pending = nil }

// SetNowFunc replaces the scheduler's clock.
func (s *TickScheduler) SetNowFunc(f func() time.Time) { s.now = f }
