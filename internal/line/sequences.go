package line

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ivlev/slidemotion/internal/deck"
	"github.com/ivlev/slidemotion/internal/dom"
	"github.com/ivlev/slidemotion/internal/geom"
)

// Phase durations of the special sequences. These are fixed choreography
// timings, not user configuration.
const (
	swoopDur    = 600 * time.Millisecond
	contractDur = 300 * time.Millisecond
	expandPause = 250 * time.Millisecond
	expandDur   = 500 * time.Millisecond

	defaultSegmentDur = 800 * time.Millisecond
	defaultMarkerLag  = 300 * time.Millisecond

	splitCollapseDur = 300 * time.Millisecond
	splitWidenDur    = 400 * time.Millisecond
	splitDivergeDur  = 500 * time.Millisecond

	revExitDur   = 400 * time.Millisecond
	revExpandDur = 400 * time.Millisecond

	placeholderWidth = 60.0
)

// startSwoop interpolates the path to the destination header underline in
// one motion. The swap callback fires at 30% of the motion so the
// destination slide becomes interactable mid-swoop.
func (a *Animator) startSwoop(to int, onSwap, onSettled func()) {
	sc := a.begin(deck.KindSwoop)
	if path, ok := a.pathFor(to); ok {
		a.animatePath(a.primary, path, swoopDur)
	}
	sc.After(swoopDur*3/10, onSwap)
	sc.After(swoopDur, func() {
		a.finish(deck.KindSwoop)
		onSettled()
	})
}

// startTimelineReveal draws the timeline line segment by segment, revealing
// each milestone marker shortly after its connecting segment lands. The
// intermediate multi-segment scratch path is consolidated into one static
// full path at the end.
func (a *Animator) startTimelineReveal(to int, onSwap, onSettled func()) {
	tl := a.slideTimeline(to)
	if tl == nil {
		onSwap()
		onSettled()
		return
	}
	sc := a.begin(deck.KindTimeline)
	// The line draws on the destination slide, so swap first.
	onSwap()

	segDur := defaultSegmentDur
	if tl.SegmentMS > 0 {
		segDur = time.Duration(tl.SegmentMS) * time.Millisecond
	}
	markerLag := defaultMarkerLag
	if tl.MarkerDelayMS > 0 {
		markerLag = time.Duration(tl.MarkerDelayMS) * time.Millisecond
	}

	pts := a.timelinePoints(to, tl)
	a.setPath(a.primary, "")
	for _, sel := range tl.Markers {
		if el, ok := a.doc.Query(sel); ok {
			el.RemoveClass("revealed")
			el.SetHidden(true)
		}
	}

	var t time.Duration
	for i := 0; i+1 < len(pts); i++ {
		step := i
		sc.After(t, func() {
			a.animatePath(a.primary, scratchPath(pts[:step+2]), segDur)
		})
		if step < len(tl.Markers) {
			sel := tl.Markers[step]
			sc.After(t+segDur+markerLag, func() {
				a.revealMarker(sel)
			})
		}
		t += segDur
	}

	sc.After(t+markerLag, func() {
		a.finish(deck.KindTimeline)
		a.ShowAllMarkers()
		a.setPath(a.primary, geom.HLine(pts[0].X, pts[0].Y, pts[len(pts)-1].X))
		onSettled()
	})
}

// startSwoopExpand leaves the timeline slide: the path snaps to the
// timeline's trailing segment, swoops to a small left-aligned placeholder
// under the destination anchor, then expands to the full destination line.
func (a *Animator) startSwoopExpand(from, to int, onSwap, onSettled func()) {
	sc := a.begin(deck.KindSwoopExpand)

	if tl := a.slideTimeline(from); tl != nil {
		pts := a.timelinePoints(from, tl)
		if n := len(pts); n >= 2 {
			a.setPath(a.primary, geom.HLine(pts[n-2].X, pts[n-2].Y, pts[n-1].X))
		}
	}
	a.ShowAllMarkers()

	if start, y, ok := a.anchorOrigin(to); ok {
		a.animatePath(a.primary, geom.HLine(start, y, start+placeholderWidth), swoopDur)
	}
	sc.After(swoopDur*3/10, onSwap)
	sc.After(swoopDur, func() {
		if path, ok := a.pathFor(to); ok {
			a.animatePath(a.primary, path, expandDur)
		}
	})
	sc.After(swoopDur+expandDur, func() {
		a.finish(deck.KindSwoopExpand)
		onSettled()
	})
}

// startExpandContract shrinks the path to a small centered placeholder,
// holds it, then expands it outward to the destination's resting geometry.
func (a *Animator) startExpandContract(to int, onSwap, onSettled func()) {
	sc := a.begin(deck.KindExpand)
	onSwap()

	cx, y, ok := a.anchorCenter(to)
	if !ok {
		onSettled()
		return
	}
	a.animatePath(a.primary, geom.PlaceholderPath(cx, y, placeholderWidth), contractDur)
	sc.After(contractDur+expandPause, func() {
		if path, ok := a.pathFor(to); ok {
			a.animatePath(a.primary, path, expandDur)
		}
	})
	sc.After(contractDur+expandPause+expandDur, func() {
		a.finish(deck.KindExpand)
		onSettled()
	})
}

// startSplit runs the split/reveal choreography: overlays mask the
// destination's middle region, the line collapses to a centered stub,
// widens to full width, then the primary and secondary paths diverge to
// the lower and upper resting positions while the overlays shrink away.
// Content reveal waits for the divergence, so onSettled fires last.
func (a *Animator) startSplit(to int, onSwap, onSettled func()) {
	sp := a.slideSplit(to)
	if sp == nil {
		onSwap()
		onSettled()
		return
	}
	sc := a.begin(deck.KindSplit)

	region := a.splitRegion(sp)
	a.maskRegion(region)
	onSwap()

	midY := region.CenterY()
	vw, _ := a.doc.Viewport()
	margin := sp.Lower.Extent.Margin
	wide := geom.HLine(margin, midY, vw-margin)

	a.animatePath(a.primary, geom.PlaceholderPath(vw/2, midY, placeholderWidth), splitCollapseDur)
	sc.After(splitCollapseDur, func() {
		a.animatePath(a.primary, wide, splitWidenDur)
	})
	sc.After(splitCollapseDur+splitWidenDur, func() {
		upper, upOK := geom.LinePath(a.doc, sp.Upper, to)
		lower, lowOK := geom.LinePath(a.doc, sp.Lower, to)
		if a.secondary != nil && upOK {
			a.setPath(a.secondary, wide)
			a.animatePath(a.secondary, upper, splitDivergeDur)
		}
		if lowOK {
			a.animatePath(a.primary, lower, splitDivergeDur)
		}
		a.collapseOverlays(splitDivergeDur)
	})
	sc.After(splitCollapseDur+splitWidenDur+splitDivergeDur, func() {
		a.finish(deck.KindSplit)
		onSettled()
	})
}

// startSplitReverse undoes the split: overlays reset instantly, the lower
// (primary) line slides off-screen while the upper (secondary) shrinks to
// a stub, the stub re-expands into the destination's single header line,
// and finally the primary takes over that geometry so steady state is
// always "primary holds the line, secondary is clear".
func (a *Animator) startSplitReverse(from, to int, onSwap, onSettled func()) {
	sc := a.begin(deck.KindSplitReverse)
	a.resetOverlays()
	onSwap()

	vw, vh := a.doc.Viewport()
	exitY := vh / 2
	if sp := a.slideSplit(from); sp != nil {
		if b, ok := a.doc.Bounds(sp.Lower.Anchor); ok {
			exitY = b.Bottom() + sp.Lower.Offset
		}
	}
	a.animatePath(a.primary, geom.HLine(vw+40, exitY, vw+40+placeholderWidth), revExitDur)

	if a.secondary != nil {
		if cx, y, ok := a.anchorCenter(to); ok {
			a.animatePath(a.secondary, geom.PlaceholderPath(cx, y, placeholderWidth), revExitDur)
		}
		sc.After(revExitDur, func() {
			if path, ok := a.pathFor(to); ok {
				a.animatePath(a.secondary, path, revExpandDur)
			}
		})
	}
	sc.After(revExitDur+revExpandDur, func() {
		a.finish(deck.KindSplitReverse)
		if path, ok := a.pathFor(to); ok {
			a.setPath(a.primary, path)
		}
		a.clearSecondary()
		onSettled()
	})
}

func (a *Animator) slideTimeline(i int) *deck.Timeline {
	if i < 0 || i >= len(a.dk.Slides) {
		return nil
	}
	return a.dk.Slides[i].Timeline
}

func (a *Animator) slideSplit(i int) *deck.Split {
	if i < 0 || i >= len(a.dk.Slides) {
		return nil
	}
	return a.dk.Slides[i].Split
}

// anchorOrigin returns the left edge and line height of a slide's anchor.
func (a *Animator) anchorOrigin(slide int) (x, y float64, ok bool) {
	r := a.ruleFor(slide)
	if r == nil {
		return 0, 0, false
	}
	b, found := a.doc.Bounds(r.Anchor)
	if !found {
		return 0, 0, false
	}
	return b.X, b.Bottom() + r.Offset, true
}

// anchorCenter returns the horizontal center and line height of a slide's
// anchor.
func (a *Animator) anchorCenter(slide int) (cx, y float64, ok bool) {
	r := a.ruleFor(slide)
	if r == nil {
		return 0, 0, false
	}
	b, found := a.doc.Bounds(r.Anchor)
	if !found {
		return 0, 0, false
	}
	return b.CenterX(), b.Bottom() + r.Offset, true
}

// timelinePoints computes the polyline the step-reveal draws through: the
// line's start point followed by one point per marker. Markers that cannot
// be measured fall back to even spacing over the line extent, so a missing
// marker never stalls the geometry of later steps.
func (a *Animator) timelinePoints(slide int, tl *deck.Timeline) []geom.Point {
	vw, vh := a.doc.Viewport()
	x1, x2 := vw*0.1, vw*0.9
	y := vh / 2
	if r := a.ruleFor(slide); r != nil {
		if b, ok := a.doc.Bounds(r.Anchor); ok {
			w := geom.ExtentWidth(r.Extent, vw, slide)
			y = b.Bottom() + r.Offset
			if r.Align == "left" {
				x1 = b.X
			} else {
				x1 = b.CenterX() - w/2
			}
			x2 = x1 + w
		}
	}

	pts := make([]geom.Point, 0, len(tl.Markers)+1)
	pts = append(pts, geom.Point{X: x1, Y: y})
	n := len(tl.Markers)
	for i, sel := range tl.Markers {
		if b, ok := a.doc.Bounds(sel); ok {
			pts = append(pts, geom.Point{X: b.CenterX(), Y: y})
		} else {
			pts = append(pts, geom.Point{X: x1 + (x2-x1)*float64(i+1)/float64(n), Y: y})
		}
	}
	return pts
}

func (a *Animator) revealMarker(selector string) {
	el, ok := a.doc.Query(selector)
	if !ok {
		a.log.Debug("timeline marker missing, step skipped", zap.String("selector", selector))
		return
	}
	el.SetHidden(false)
	el.AddClass("revealed")
}

func (a *Animator) splitRegion(sp *deck.Split) geom.Rect {
	if r, ok := a.doc.Bounds(sp.Region); ok {
		return r
	}
	// Fall back to the middle band of the viewport.
	vw, vh := a.doc.Viewport()
	return geom.Rect{X: 0, Y: vh * 0.3, W: vw, H: vh * 0.4}
}

func (a *Animator) maskRegion(r geom.Rect) {
	half := r.H / 2
	if a.overlayTop != nil {
		setOverlay(a.overlayTop, r.X, r.Y, r.W, half)
	}
	if a.overlayBottom != nil {
		setOverlay(a.overlayBottom, r.X, r.Y+half, r.W, half)
	}
}

func setOverlay(ov dom.Element, x, y, w, h float64) {
	ov.SetStyle("transition", "none")
	ov.SetStyle("left", px(x))
	ov.SetStyle("top", px(y))
	ov.SetStyle("width", px(w))
	ov.SetStyle("height", px(h))
	ov.SetStyle("opacity", "1")
}

func (a *Animator) collapseOverlays(dur time.Duration) {
	for _, ov := range []dom.Element{a.overlayTop, a.overlayBottom} {
		if ov == nil {
			continue
		}
		ov.SetStyle("transition", fmt.Sprintf("height %dms ease", dur.Milliseconds()))
		ov.SetStyle("height", "0px")
	}
}

func px(v float64) string {
	return fmt.Sprintf("%.1fpx", v)
}

func scratchPath(pts []geom.Point) string {
	var p geom.Path
	for i := 0; i+1 < len(pts); i++ {
		p.MoveTo(pts[i].X, pts[i].Y)
		p.LineTo(pts[i+1].X, pts[i+1].Y)
	}
	return p.String()
}
