package engine

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/ivlev/slidemotion/internal/anim"
	"github.com/ivlev/slidemotion/internal/deck"
)

// revealContent reveals the slide's animated elements in document order
// with a stagger (each element's own delay plus index times the stagger
// increment) and starts the count-up displays. Everything is scheduled on
// one reveal scope so a preempting navigation cancels the lot.
func (e *Engine) revealContent(index int) {
	s := &e.dk.Slides[index]
	if e.reveal != nil {
		e.reveal.Cancel()
	}
	e.reveal = anim.NewScope(e.sched)

	for i, am := range s.Animated {
		sel := am.Selector
		el, ok := e.doc.Query(sel)
		if !ok {
			e.log.Debug("animated element missing", zap.String("selector", sel))
			continue
		}
		// Reset so a revisited slide animates again.
		el.RemoveClass("revealed")
		delay := time.Duration(am.DelayMS)*time.Millisecond + time.Duration(i)*e.opts.Stagger
		e.reveal.After(delay, func() {
			el.AddClass("revealed")
		})
	}

	for _, cu := range s.CountUps {
		e.startCountUp(cu)
	}
}

// startCountUp animates a numeric display from 0 to its target with an
// ease-out-cubic curve. The displayed value is formatted with locale
// thousands separators on every frame, never decreases, and lands exactly
// on the target at the end.
func (e *Engine) startCountUp(cu deck.CountUp) {
	el, ok := e.doc.Query(cu.Selector)
	if !ok {
		e.log.Debug("count-up element missing", zap.String("selector", cu.Selector))
		return
	}

	sc := e.reveal
	total := e.opts.CountUpDuration
	step := e.opts.FrameInterval
	el.SetText(e.formatInt(0))

	shown := 0
	var elapsed time.Duration
	var tick func()
	tick = func() {
		elapsed += step
		if elapsed >= total {
			el.SetText(e.formatInt(cu.Target))
			return
		}
		t := float64(elapsed) / float64(total)
		v := int(math.Round(float64(cu.Target) * anim.EaseOutCubic(t)))
		if v < shown {
			v = shown
		}
		shown = v
		el.SetText(e.formatInt(v))
		sc.After(step, tick)
	}
	sc.After(step, tick)
}

func (e *Engine) formatInt(v int) string {
	return e.printer.Sprintf("%d", v)
}
