package anim

import (
	"time"
)

// ManualScheduler is a Scheduler driven by virtual time. Advance fires due
// callbacks synchronously on the caller's goroutine, which lets tests step
// through multi-phase choreography deterministically.
type ManualScheduler struct {
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	at      time.Duration
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (m *ManualScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	t := &manualTimer{at: m.now + d, seq: m.seq, fn: fn}
	m.seq++
	m.timers = append(m.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped && !t.fired
	t.stopped = true
	return was
}

// Advance moves virtual time forward by d, firing every due timer in order
// of deadline (FIFO on ties). Callbacks may schedule further timers; those
// fire too if they fall within the window.
func (m *ManualScheduler) Advance(d time.Duration) {
	target := m.now + d
	for {
		next := m.nextDue(target)
		if next == nil {
			break
		}
		if next.at > m.now {
			m.now = next.at
		}
		next.fired = true
		next.fn()
	}
	m.now = target
}

func (m *ManualScheduler) nextDue(target time.Duration) *manualTimer {
	var best *manualTimer
	for _, t := range m.timers {
		if t.stopped || t.fired || t.at > target {
			continue
		}
		if best == nil || t.at < best.at || (t.at == best.at && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

// Pending counts timers that are scheduled but neither fired nor stopped.
func (m *ManualScheduler) Pending() int {
	n := 0
	for _, t := range m.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Now returns the current virtual time.
func (m *ManualScheduler) Now() time.Duration {
	return m.now
}
