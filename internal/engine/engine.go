// Package engine implements the slide navigation state machine. It owns
// the only mutable navigation record (current index + transitioning flag),
// resolves every navigation request to either a registered special
// sequence or the generic transition, and guarantees the visible slide set
// re-converges to exactly one slide no matter how navigation is
// interrupted.
package engine

import (
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ivlev/slidemotion/internal/anim"
	"github.com/ivlev/slidemotion/internal/deck"
	"github.com/ivlev/slidemotion/internal/dom"
	"github.com/ivlev/slidemotion/internal/line"
)

// Effect selects the generic transition visual.
type Effect string

const (
	EffectFade  Effect = "fade"
	EffectSlide Effect = "slide"
	EffectZoom  Effect = "zoom"
)

// Selectors of the derived-UI elements the engine updates.
const (
	SelProgressIndex = "#progress-index"
	SelNavPrev       = "#nav-prev"
	SelNavNext       = "#nav-next"
	SelEdgePrev      = "#edge-prev"
	SelEdgeNext      = "#edge-next"
	SelEdgeTop       = "#edge-top"
	SelRailThumb     = ".rail-thumb"
)

// Options tunes the engine. Zero values fall back to defaults.
type Options struct {
	Loop       bool
	Effect     Effect
	ClickZones bool

	TransitionDuration time.Duration // generic effect duration (400ms)
	SafetyMargin       time.Duration // liveness bound past the duration (500ms)
	Stagger            time.Duration // content reveal increment (100ms)
	CountUpDuration    time.Duration // count-up animation length (1.5s)
	FrameInterval      time.Duration // count-up frame step (16ms)
	ResizeDebounce     time.Duration // resize recompute window (200ms)

	SwipeThreshold float64 // horizontal px to count as a swipe (50)
	EdgeZone       float64 // side hover zone width (80)
	TopZone        float64 // top hover zone height (60)

	Locale string // BCP 47 tag for count-up formatting ("en")
}

func (o *Options) fillDefaults() {
	if o.Effect == "" {
		o.Effect = EffectFade
	}
	if o.TransitionDuration <= 0 {
		o.TransitionDuration = 400 * time.Millisecond
	}
	if o.SafetyMargin <= 0 {
		o.SafetyMargin = 500 * time.Millisecond
	}
	if o.Stagger <= 0 {
		o.Stagger = 100 * time.Millisecond
	}
	if o.CountUpDuration <= 0 {
		o.CountUpDuration = 1500 * time.Millisecond
	}
	if o.FrameInterval <= 0 {
		o.FrameInterval = 16 * time.Millisecond
	}
	if o.ResizeDebounce <= 0 {
		o.ResizeDebounce = 200 * time.Millisecond
	}
	if o.SwipeThreshold <= 0 {
		o.SwipeThreshold = 50
	}
	if o.EdgeZone <= 0 {
		o.EdgeZone = 80
	}
	if o.TopZone <= 0 {
		o.TopZone = 60
	}
	if o.Locale == "" {
		o.Locale = "en"
	}
}

// Engine is the navigation state machine. All methods are loop-confined.
type Engine struct {
	doc   dom.Document
	dk    *deck.Deck
	ln    *line.Animator // nil when the line markup is absent
	sched anim.Scheduler
	log   *zap.Logger
	opts  Options

	printer *message.Printer

	slides []dom.Element

	// Navigation state. current is authoritative only while transitioning
	// is false; it is updated pessimistically, in the settle path only.
	current       int
	transitioning bool
	target        int
	from          int
	swapped       bool

	active   line.Sequence
	specials map[line.Pair]line.Sequence

	trans  *anim.Scope
	reveal *anim.Scope
	resize *anim.Scope

	onNavigated  []func(index int)
	onFullscreen func()

	touchActive bool
	touchStartX float64
}

// New builds the engine over an already-loaded document. When any slide
// container is missing the engine logs the problem and comes up inert:
// every navigation call is then a no-op rather than a crash.
func New(doc dom.Document, dk *deck.Deck, ln *line.Animator, sched anim.Scheduler, opts Options, log *zap.Logger) *Engine {
	opts.fillDefaults()
	e := &Engine{
		doc:     doc,
		dk:      dk,
		ln:      ln,
		sched:   sched,
		log:     log,
		opts:    opts,
		printer: message.NewPrinter(language.Make(opts.Locale)),
	}

	slides := make([]dom.Element, 0, len(dk.Slides))
	for i := range dk.Slides {
		el, ok := doc.Query(dk.Slides[i].Selector)
		if !ok {
			log.Error("slide container missing, engine disabled",
				zap.Int("index", i), zap.String("selector", dk.Slides[i].Selector))
			return e
		}
		slides = append(slides, el)
	}
	e.slides = slides

	if ln != nil {
		e.specials = ln.Registry()
	} else {
		log.Warn("no line animator, all line behavior skipped")
	}

	for i, s := range e.slides {
		s.SetHidden(i != 0)
	}
	if e.ln != nil {
		e.ln.UpdatePath(0, false)
	}
	e.updateDerivedUI()
	// The first slide is arrived at, not navigated to; its content still
	// reveals and counts up like any other arrival.
	if len(e.slides) > 0 {
		e.revealContent(0)
	}
	return e
}

// SlideCount returns the number of slides the engine drives.
func (e *Engine) SlideCount() int {
	return len(e.slides)
}

// Current returns the authoritative slide index.
func (e *Engine) Current() int {
	return e.current
}

// Transitioning reports whether a transition is in flight.
func (e *Engine) Transitioning() bool {
	return e.transitioning
}

// OnNavigated registers a listener for navigation-completed notifications.
// Listeners run on the loop after the engine settles on the new index. The
// listener is also invoked once immediately with the current index, so a
// collaborator registered at startup builds its state for the slide
// already on screen.
func (e *Engine) OnNavigated(fn func(index int)) {
	e.onNavigated = append(e.onNavigated, fn)
	if len(e.slides) > 0 {
		fn(e.current)
	}
}

// OnFullscreenRequest registers the callback for the fullscreen toggle key.
func (e *Engine) OnFullscreenRequest(fn func()) {
	e.onFullscreen = fn
}

// Next advances one slide, wrapping only when loop is enabled.
func (e *Engine) Next() {
	if len(e.slides) == 0 {
		return
	}
	base := e.current
	if e.transitioning {
		base = e.target
	}
	n := base + 1
	if n >= len(e.slides) {
		if !e.opts.Loop {
			return
		}
		n = 0
	}
	e.GoTo(n)
}

// Prev goes back one slide, wrapping only when loop is enabled.
func (e *Engine) Prev() {
	if len(e.slides) == 0 {
		return
	}
	base := e.current
	if e.transitioning {
		base = e.target
	}
	n := base - 1
	if n < 0 {
		if !e.opts.Loop {
			return
		}
		n = len(e.slides) - 1
	}
	e.GoTo(n)
}

// First jumps to the first slide.
func (e *Engine) First() {
	e.GoTo(0)
}

// Last jumps to the last slide.
func (e *Engine) Last() {
	e.GoTo(len(e.slides) - 1)
}

// GoTo navigates to target. The index is clamped, never wrapped. While
// idle, navigating to the current slide is a no-op. While transitioning,
// a repeat of the in-flight target is debounced and any other target
// preempts: the in-flight sequence is cancelled synchronously and the new
// transition starts from the currently visible slide. Requests are never
// queued; the most recent one wins.
func (e *Engine) GoTo(target int) {
	if len(e.slides) == 0 {
		return
	}
	if target < 0 {
		target = 0
	}
	if target >= len(e.slides) {
		target = len(e.slides) - 1
	}

	if e.transitioning {
		if target == e.target {
			return
		}
		e.preempt()
		if target == e.current {
			// Preempted back onto the slide still on screen: no new
			// transition, but the arrival work the aborted transition
			// cancelled still has to run.
			e.rearrive()
			return
		}
	}
	if target == e.current {
		return
	}

	from := e.current
	e.transitioning = true
	e.from = from
	e.target = target
	e.swapped = false
	if e.reveal != nil {
		e.reveal.Cancel()
		e.reveal = nil
	}

	if seq, ok := e.specials[line.Pair{From: from, To: target}]; ok {
		e.active = seq
		seq.Start(from, target, e.swapVisibility, e.settleFromSpecial)
		return
	}
	e.runGeneric(from, target)
}

// preempt force-cancels the in-flight transition: all owned timers are
// cleared, every slide outside the previous from/to pair is hidden, and
// the currently visible slide of the pair becomes the authoritative index.
func (e *Engine) preempt() {
	if e.active != nil {
		e.active.Cancel()
		e.active = nil
	} else if e.ln != nil {
		e.ln.CancelAll()
	}
	if e.trans != nil {
		e.trans.Cancel()
		e.trans = nil
	}
	if e.reveal != nil {
		e.reveal.Cancel()
		e.reveal = nil
	}

	visible := e.from
	if e.swapped {
		visible = e.target
	}
	for i, s := range e.slides {
		s.SetHidden(i != visible)
		s.ClearStyles()
	}
	e.current = visible
	e.transitioning = false
	e.swapped = false
}

// swapVisibility makes the destination slide visible. Special sequences
// call it at their defined checkpoint so the destination becomes
// interactable promptly; the generic transition calls it up front.
func (e *Engine) swapVisibility() {
	if e.swapped {
		return
	}
	e.swapped = true
	e.slides[e.target].SetHidden(false)
}

func (e *Engine) settleFromSpecial() {
	e.settle(true)
}

// settle finalizes a transition: pessimistic index update, defensive
// re-convergence to a single visible slide, derived UI refresh, content
// reveal, and the navigation-completed notification.
func (e *Engine) settle(fromSpecial bool) {
	e.active = nil
	if e.trans != nil {
		e.trans.Cancel()
		e.trans = nil
	}
	e.transitioning = false
	e.current = e.target
	e.swapped = false

	for i, s := range e.slides {
		s.SetHidden(i != e.current)
	}
	if e.ln != nil && !fromSpecial {
		e.ln.UpdatePath(e.current, true)
	}
	e.updateDerivedUI()
	e.revealContent(e.current)

	for _, fn := range e.onNavigated {
		fn(e.current)
	}
}

// rearrive restores steady state on the current slide after a preempt
// resolved in place: line geometry re-converges, derived UI and content
// reveal rerun, and listeners hear the completed navigation.
func (e *Engine) rearrive() {
	if e.ln != nil {
		e.ln.UpdatePath(e.current, true)
	}
	e.updateDerivedUI()
	e.revealContent(e.current)
	for _, fn := range e.onNavigated {
		fn(e.current)
	}
}

// runGeneric runs the fallback crossfade/slide/zoom effect. The
// destination is unhidden before the effect starts. Completion is bounded
// by a safety timer at duration+margin scheduled ahead of the primary
// completion timer; whichever fires first settles, the other becomes a
// no-op through the shared scope.
func (e *Engine) runGeneric(from, to int) {
	e.trans = anim.NewScope(e.sched)
	src, dst := e.slides[from], e.slides[to]

	e.swapVisibility()
	applyEffectStart(e.opts.Effect, dst, from < to)

	d := e.opts.TransitionDuration
	e.trans.After(d+e.opts.SafetyMargin, func() {
		e.completeGeneric(src, dst)
	})
	// Arm the end styles one frame after the start styles so the
	// CSS-level transition actually runs.
	e.trans.After(e.opts.FrameInterval, func() {
		applyEffectEnd(e.opts.Effect, src, dst, from < to, d)
	})
	e.trans.After(e.opts.FrameInterval+d, func() {
		e.completeGeneric(src, dst)
	})
}

func (e *Engine) completeGeneric(src, dst dom.Element) {
	src.SetHidden(true)
	src.ClearStyles()
	dst.ClearStyles()
	e.settle(false)
}

// updateDerivedUI refreshes the progress indicator, the prev/next
// affordances, and the thumbnail-rail highlight. Missing elements degrade
// silently.
func (e *Engine) updateDerivedUI() {
	if el, ok := e.doc.Query(SelProgressIndex); ok {
		el.SetText(e.printer.Sprintf("%d / %d", e.current+1, len(e.slides)))
	}
	if el, ok := e.doc.Query(SelNavPrev); ok {
		el.SetHidden(e.current == 0 && !e.opts.Loop)
	}
	if el, ok := e.doc.Query(SelNavNext); ok {
		el.SetHidden(e.current == len(e.slides)-1 && !e.opts.Loop)
	}
	for i, th := range e.doc.QueryAll(SelRailThumb) {
		if i == e.current {
			th.AddClass("active")
		} else {
			th.RemoveClass("active")
		}
	}
}

// HandleResize recomputes the active slide's path without animation after
// the debounce window. A step-reveal running on the displayed slide is
// forced to its final static state first.
func (e *Engine) HandleResize() {
	if len(e.slides) == 0 || e.ln == nil {
		return
	}
	if e.resize != nil {
		e.resize.Cancel()
	}
	e.resize = anim.NewScope(e.sched)
	e.resize.After(e.opts.ResizeDebounce, func() {
		if e.transitioning {
			if e.active == nil || !e.swapped {
				return
			}
			// Mid-choreography on the already-displayed destination:
			// force the final state rather than leaving a partial drawing.
			e.active.Cancel()
			e.settle(true)
		}
		e.ln.UpdatePath(e.current, false)
	})
}

func applyEffectStart(eff Effect, dst dom.Element, forward bool) {
	dst.SetStyle("transition", "none")
	switch eff {
	case EffectSlide:
		if forward {
			dst.SetStyle("transform", "translateX(100%)")
		} else {
			dst.SetStyle("transform", "translateX(-100%)")
		}
	case EffectZoom:
		dst.SetStyle("opacity", "0")
		dst.SetStyle("transform", "scale(1.1)")
	default:
		dst.SetStyle("opacity", "0")
	}
}

func applyEffectEnd(eff Effect, src, dst dom.Element, forward bool, d time.Duration) {
	ms := d.Milliseconds()
	switch eff {
	case EffectSlide:
		dst.SetStyle("transition", transition("transform", ms))
		src.SetStyle("transition", transition("transform", ms))
		dst.SetStyle("transform", "translateX(0)")
		if forward {
			src.SetStyle("transform", "translateX(-100%)")
		} else {
			src.SetStyle("transform", "translateX(100%)")
		}
	case EffectZoom:
		dst.SetStyle("transition", transition("opacity", ms)+", "+transition("transform", ms))
		src.SetStyle("transition", transition("opacity", ms))
		dst.SetStyle("opacity", "1")
		dst.SetStyle("transform", "scale(1)")
		src.SetStyle("opacity", "0")
	default:
		dst.SetStyle("transition", transition("opacity", ms))
		src.SetStyle("transition", transition("opacity", ms))
		dst.SetStyle("opacity", "1")
		src.SetStyle("opacity", "0")
	}
}

func transition(prop string, ms int64) string {
	return prop + " " + (time.Duration(ms) * time.Millisecond).String() + " ease"
}
