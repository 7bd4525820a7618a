package anim

import (
	"time"
)

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop prevents the callback from firing. It reports whether the stop
	// happened before the callback was delivered. A callback that already
	// left the timer but has not yet run on the loop is caught by the
	// owning Scope's validity check instead.
	Stop() bool
}

// Scheduler schedules one-shot callbacks. The real implementation delivers
// them onto the run loop; tests substitute a ManualScheduler driven by
// virtual time.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// LoopScheduler schedules wall-clock timers that deliver onto a Loop.
type LoopScheduler struct {
	loop *Loop
}

func NewLoopScheduler(loop *Loop) *LoopScheduler {
	return &LoopScheduler{loop: loop}
}

func (s *LoopScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	t := time.AfterFunc(d, func() {
		s.loop.Post(fn)
	})
	return realTimer{t: t}
}

type realTimer struct {
	t *time.Timer
}

func (r realTimer) Stop() bool {
	return r.t.Stop()
}
