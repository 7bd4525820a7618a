package anim

import (
	"time"
)

// Scope groups the timers of one animation sequence so the whole sequence
// can be cancelled in a single step. A callback scheduled through a scope
// checks scope validity before running, so a timer that already left the
// scheduler when the scope was cancelled becomes a no-op instead of
// mutating state out of a dead sequence.
//
// Scopes are loop-confined: all methods must run on the loop goroutine.
type Scope struct {
	sched  Scheduler
	valid  bool
	timers []Timer
}

func NewScope(s Scheduler) *Scope {
	return &Scope{sched: s, valid: true}
}

// After schedules fn to run after d, bound to the scope. Scheduling on a
// cancelled scope is a no-op.
func (sc *Scope) After(d time.Duration, fn func()) {
	if !sc.valid {
		return
	}
	t := sc.sched.AfterFunc(d, func() {
		if !sc.valid {
			return
		}
		fn()
	})
	sc.timers = append(sc.timers, t)
}

// Cancel invalidates the scope and stops every timer scheduled through it.
// Cancelling twice is harmless.
func (sc *Scope) Cancel() {
	if !sc.valid {
		return
	}
	sc.valid = false
	for _, t := range sc.timers {
		t.Stop()
	}
	sc.timers = nil
}

// Active reports whether the scope has not been cancelled.
func (sc *Scope) Active() bool {
	return sc.valid
}
