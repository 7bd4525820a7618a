// Package line owns the progress-line SVG elements and every special
// slide-pair choreography. The engine never touches line geometry directly;
// it requests path updates and starts registered sequences through the
// Animator, and all timers the choreography schedules live in per-sequence
// cancellation scopes.
package line

import (
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ivlev/slidemotion/internal/anim"
	"github.com/ivlev/slidemotion/internal/deck"
	"github.com/ivlev/slidemotion/internal/dom"
	"github.com/ivlev/slidemotion/internal/geom"
)

// Selectors of the line elements inside the deck markup.
const (
	SelPrimary       = "#progress-line"
	SelSecondary     = "#progress-line-secondary"
	SelOverlayTop    = "#reveal-overlay-top"
	SelOverlayBottom = "#reveal-overlay-bottom"
)

// DefaultUpdateDuration is the standard geometry transition for generic
// path updates.
const DefaultUpdateDuration = 400 * time.Millisecond

// Animator owns the primary path, the secondary path used by the split
// sequences, and the two overlay panels that mask content during a split.
type Animator struct {
	doc   dom.Document
	dk    *deck.Deck
	sched anim.Scheduler
	log   *zap.Logger

	update time.Duration

	primary       dom.Element
	secondary     dom.Element
	overlayTop    dom.Element
	overlayBottom dom.Element

	scopes      map[deck.Kind]*anim.Scope
	timelineIdx int
}

// New looks up the line elements. The primary path is required; without it
// the caller should run with no line animator at all. Secondary path and
// overlays are optional — sequences that need them are simply not
// registered when they are missing.
func New(doc dom.Document, dk *deck.Deck, sched anim.Scheduler, update time.Duration, log *zap.Logger) (*Animator, error) {
	if update <= 0 {
		update = DefaultUpdateDuration
	}
	a := &Animator{
		doc:         doc,
		dk:          dk,
		sched:       sched,
		log:         log,
		update:      update,
		scopes:      make(map[deck.Kind]*anim.Scope),
		timelineIdx: -1,
	}

	var err error
	if el, ok := doc.Query(SelPrimary); ok {
		a.primary = el
	} else {
		err = multierr.Append(err, fmt.Errorf("primary line %s not found", SelPrimary))
	}
	if el, ok := doc.Query(SelSecondary); ok {
		a.secondary = el
	} else {
		err = multierr.Append(err, fmt.Errorf("secondary line %s not found", SelSecondary))
	}
	if el, ok := doc.Query(SelOverlayTop); ok {
		a.overlayTop = el
	} else {
		err = multierr.Append(err, fmt.Errorf("overlay %s not found", SelOverlayTop))
	}
	if el, ok := doc.Query(SelOverlayBottom); ok {
		a.overlayBottom = el
	} else {
		err = multierr.Append(err, fmt.Errorf("overlay %s not found", SelOverlayBottom))
	}

	if a.primary == nil {
		return nil, err
	}
	if err != nil {
		log.Warn("line animator degraded, some elements missing", zap.Error(err))
	}

	for i := range dk.Slides {
		if dk.Slides[i].Timeline != nil {
			a.timelineIdx = i
			break
		}
	}

	return a, nil
}

// UpdatePath recomputes the resting path for a slide from live layout and
// applies it, animated over the standard duration or instantly. Any update
// made while no step-reveal is running re-shows every timeline marker, so a
// half-revealed timeline can never leak onto another slide.
func (a *Animator) UpdatePath(slide int, animate bool) {
	if r := a.ruleFor(slide); r != nil {
		if path, ok := geom.LinePath(a.doc, *r, slide); ok {
			if animate {
				a.animatePath(a.primary, path, a.update)
			} else {
				a.setPath(a.primary, path)
			}
		} else {
			a.log.Debug("line anchor not measurable, path kept",
				zap.Int("slide", slide), zap.String("anchor", r.Anchor))
		}
	}
	if !a.scopeActive(deck.KindTimeline) {
		a.ShowAllMarkers()
	}
}

// CancelAll cancels every pending sequence timer and resets all owned
// visual state to its defined rest: overlays collapsed, secondary cleared.
func (a *Animator) CancelAll() {
	for k, sc := range a.scopes {
		sc.Cancel()
		delete(a.scopes, k)
	}
	a.resetOverlays()
	a.clearSecondary()
}

// ShowAllMarkers force-reveals every timeline marker regardless of reveal
// progress.
func (a *Animator) ShowAllMarkers() {
	if a.timelineIdx < 0 {
		return
	}
	for _, sel := range a.dk.Slides[a.timelineIdx].Timeline.Markers {
		if el, ok := a.doc.Query(sel); ok {
			el.SetHidden(false)
			el.AddClass("revealed")
		}
	}
}

// begin is the cancel-before-start discipline: every other sequence's
// timers are cancelled and visuals reset before the new scope is created.
// Only one choreography can be in flight at a time.
func (a *Animator) begin(kind deck.Kind) *anim.Scope {
	a.CancelAll()
	sc := anim.NewScope(a.sched)
	a.scopes[kind] = sc
	return sc
}

// finish retires a completed sequence's scope so later path updates see
// no choreography in flight.
func (a *Animator) finish(kind deck.Kind) {
	if sc, ok := a.scopes[kind]; ok {
		sc.Cancel()
		delete(a.scopes, kind)
	}
}

func (a *Animator) scopeActive(kind deck.Kind) bool {
	sc, ok := a.scopes[kind]
	return ok && sc.Active()
}

func (a *Animator) ruleFor(slide int) *geom.Rule {
	if slide < 0 || slide >= len(a.dk.Slides) {
		return nil
	}
	return a.dk.Slides[slide].Line
}

func (a *Animator) pathFor(slide int) (string, bool) {
	r := a.ruleFor(slide)
	if r == nil {
		return "", false
	}
	return geom.LinePath(a.doc, *r, slide)
}

func (a *Animator) setPath(el dom.Element, d string) {
	el.SetStyle("transition", "none")
	el.SetAttr("d", d)
}

func (a *Animator) animatePath(el dom.Element, d string, dur time.Duration) {
	el.SetStyle("transition", fmt.Sprintf("d %dms ease", dur.Milliseconds()))
	el.SetAttr("d", d)
}

func (a *Animator) resetOverlays() {
	for _, ov := range []dom.Element{a.overlayTop, a.overlayBottom} {
		if ov == nil {
			continue
		}
		ov.SetStyle("transition", "none")
		ov.SetStyle("height", "0px")
		ov.SetStyle("opacity", "0")
	}
}

func (a *Animator) clearSecondary() {
	if a.secondary != nil {
		a.setPath(a.secondary, "")
	}
}

// Pair is an ordered (from, to) slide index pair.
type Pair struct {
	From, To int
}

// Sequence is the uniform contract of a special transition. Start fires
// onSwap as soon as slide visibility should change and onSettled once the
// choreography is visually at rest; Cancel clears pending timers and
// resets owned visual state, and is safe to call at any time.
type Sequence interface {
	Start(from, to int, onSwap, onSettled func())
	Cancel()
}

// Registry builds the special-transition table from the deck. Adding or
// removing a special transition is a deck data change, not a code change.
// Kinds whose required elements are missing from the document are skipped
// so the engine falls back to the generic transition for those pairs.
func (a *Animator) Registry() map[Pair]Sequence {
	out := make(map[Pair]Sequence, len(a.dk.Transitions))
	for _, t := range a.dk.Transitions {
		if !a.supports(t.Kind) {
			a.log.Warn("special transition unavailable, falling back to generic",
				zap.Int("from", t.From), zap.Int("to", t.To), zap.String("kind", string(t.Kind)))
			continue
		}
		out[Pair{From: t.From, To: t.To}] = &sequence{a: a, kind: t.Kind}
	}
	return out
}

func (a *Animator) supports(k deck.Kind) bool {
	switch k {
	case deck.KindSplit, deck.KindSplitReverse:
		return a.secondary != nil && a.overlayTop != nil && a.overlayBottom != nil
	default:
		return true
	}
}

type sequence struct {
	a    *Animator
	kind deck.Kind
}

func (s *sequence) Start(from, to int, onSwap, onSettled func()) {
	switch s.kind {
	case deck.KindSwoop:
		s.a.startSwoop(to, onSwap, onSettled)
	case deck.KindTimeline:
		s.a.startTimelineReveal(to, onSwap, onSettled)
	case deck.KindSwoopExpand:
		s.a.startSwoopExpand(from, to, onSwap, onSettled)
	case deck.KindExpand:
		s.a.startExpandContract(to, onSwap, onSettled)
	case deck.KindSplit:
		s.a.startSplit(to, onSwap, onSettled)
	case deck.KindSplitReverse:
		s.a.startSplitReverse(from, to, onSwap, onSettled)
	}
}

func (s *sequence) Cancel() {
	if sc, ok := s.a.scopes[s.kind]; ok {
		sc.Cancel()
		delete(s.a.scopes, s.kind)
	}
	s.a.resetOverlays()
	s.a.clearSecondary()
}
