package anim

import (
	"math"
	"testing"
	"time"
)

func TestManualSchedulerOrder(t *testing.T) {
	m := NewManualScheduler()

	var fired []string
	m.AfterFunc(300*time.Millisecond, func() { fired = append(fired, "c") })
	m.AfterFunc(100*time.Millisecond, func() { fired = append(fired, "a") })
	m.AfterFunc(100*time.Millisecond, func() { fired = append(fired, "b") })

	m.Advance(50 * time.Millisecond)
	if len(fired) != 0 {
		t.Fatalf("nothing should fire before the first deadline, got %v", fired)
	}

	m.Advance(250 * time.Millisecond)
	if got := len(fired); got != 3 {
		t.Fatalf("expected 3 callbacks, got %d", got)
	}
	// Deadline order, FIFO on equal deadlines.
	if fired[0] != "a" || fired[1] != "b" || fired[2] != "c" {
		t.Errorf("wrong firing order: %v", fired)
	}
}

func TestManualSchedulerNestedTimers(t *testing.T) {
	m := NewManualScheduler()

	var fired []time.Duration
	m.AfterFunc(100*time.Millisecond, func() {
		fired = append(fired, m.Now())
		m.AfterFunc(100*time.Millisecond, func() {
			fired = append(fired, m.Now())
		})
	})

	m.Advance(250 * time.Millisecond)
	if len(fired) != 2 {
		t.Fatalf("expected nested timer to fire within the window, got %v", fired)
	}
	if fired[0] != 100*time.Millisecond || fired[1] != 200*time.Millisecond {
		t.Errorf("wrong fire times: %v", fired)
	}
}

func TestScopeCancelStopsAllTimers(t *testing.T) {
	m := NewManualScheduler()
	sc := NewScope(m)

	count := 0
	sc.After(100*time.Millisecond, func() { count++ })
	sc.After(200*time.Millisecond, func() { count++ })
	sc.After(300*time.Millisecond, func() { count++ })

	m.Advance(150 * time.Millisecond)
	if count != 1 {
		t.Fatalf("expected 1 callback before cancel, got %d", count)
	}

	sc.Cancel()
	if m.Pending() != 0 {
		t.Errorf("expected no pending timers after cancel, got %d", m.Pending())
	}

	m.Advance(time.Second)
	if count != 1 {
		t.Errorf("cancelled timers must not fire, count=%d", count)
	}
	if sc.Active() {
		t.Error("scope should be inactive after cancel")
	}
}

func TestScopeStaleCallbackNoOp(t *testing.T) {
	m := NewManualScheduler()
	sc := NewScope(m)

	count := 0
	sc.After(100*time.Millisecond, func() {
		// Cancelling mid-callback must suppress the sibling timer due at
		// the same instant, even though it is already past Stop.
		count++
		sc.Cancel()
	})
	sc.After(100*time.Millisecond, func() { count++ })

	m.Advance(100 * time.Millisecond)
	if count != 1 {
		t.Errorf("stale sibling callback ran, count=%d", count)
	}
}

func TestScopeAfterCancelIsNoOp(t *testing.T) {
	m := NewManualScheduler()
	sc := NewScope(m)
	sc.Cancel()
	sc.Cancel() // idempotent

	sc.After(time.Millisecond, func() { t.Error("scheduled on a dead scope") })
	if m.Pending() != 0 {
		t.Errorf("dead scope scheduled a timer, pending=%d", m.Pending())
	}
	m.Advance(time.Second)
}

func TestEasing(t *testing.T) {
	if EaseOutCubic(0) != 0 || EaseOutCubic(1) != 1 {
		t.Error("ease-out-cubic must be anchored at 0 and 1")
	}
	if EaseInOutCubic(0) != 0 || EaseInOutCubic(1) != 1 {
		t.Error("ease-in-out-cubic must be anchored at 0 and 1")
	}
	if math.Abs(EaseInOutCubic(0.5)-0.5) > 1e-9 {
		t.Errorf("ease-in-out-cubic midpoint: %f", EaseInOutCubic(0.5))
	}

	// Monotonic over the range; the count-up display relies on this.
	prev := -1.0
	for i := 0; i <= 100; i++ {
		v := EaseOutCubic(float64(i) / 100)
		if v < prev {
			t.Fatalf("ease-out-cubic not monotonic at step %d", i)
		}
		prev = v
	}

	if Lerp(10, 20, 0.5) != 15 {
		t.Errorf("lerp midpoint: %f", Lerp(10, 20, 0.5))
	}
}
