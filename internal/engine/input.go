package engine

import (
	"math"
)

// Key is a keyboard input as reported by the page.
type Key string

const (
	KeyArrowRight Key = "ArrowRight"
	KeyArrowLeft  Key = "ArrowLeft"
	KeySpace      Key = " "
	KeyPageDown   Key = "PageDown"
	KeyPageUp     Key = "PageUp"
	KeyHome       Key = "Home"
	KeyEnd        Key = "End"
	KeyFullscreen Key = "f"
)

// HandleKey maps keyboard input onto navigation.
func (e *Engine) HandleKey(k Key) {
	switch k {
	case KeyArrowRight, KeySpace, KeyPageDown:
		e.Next()
	case KeyArrowLeft, KeyPageUp:
		e.Prev()
	case KeyHome:
		e.First()
	case KeyEnd:
		e.Last()
	case KeyFullscreen:
		if e.onFullscreen != nil {
			e.onFullscreen()
		}
	}
}

// HandleTouchStart records the start of a horizontal swipe.
func (e *Engine) HandleTouchStart(x float64) {
	e.touchActive = true
	e.touchStartX = x
}

// HandleTouchEnd resolves a swipe: displacement past the threshold
// navigates, direction-dependent.
func (e *Engine) HandleTouchEnd(x float64) {
	if !e.touchActive {
		return
	}
	e.touchActive = false
	dx := x - e.touchStartX
	if math.Abs(dx) < e.opts.SwipeThreshold {
		return
	}
	if dx < 0 {
		e.Next()
	} else {
		e.Prev()
	}
}

// HandleClick resolves the optional click zones: left half previous,
// right half next. Disabled by default and always suppressed when the
// click landed on an interactive element.
func (e *Engine) HandleClick(x float64, interactive bool) {
	if !e.opts.ClickZones || interactive || len(e.slides) == 0 {
		return
	}
	vw, _ := e.doc.Viewport()
	if x < vw/2 {
		e.Prev()
	} else {
		e.Next()
	}
}

// HandlePointerMove shows or hides the persistent edge controls based on
// pointer proximity to the viewport edges.
func (e *Engine) HandlePointerMove(x, y float64) {
	if len(e.slides) == 0 {
		return
	}
	vw, _ := e.doc.Viewport()
	e.setZone(SelEdgePrev, x <= e.opts.EdgeZone)
	e.setZone(SelEdgeNext, x >= vw-e.opts.EdgeZone)
	e.setZone(SelEdgeTop, y <= e.opts.TopZone)
}

func (e *Engine) setZone(sel string, show bool) {
	if el, ok := e.doc.Query(sel); ok {
		el.SetHidden(!show)
	}
}

// HandleThumbClick jumps to an arbitrary slide from the thumbnail rail.
func (e *Engine) HandleThumbClick(index int) {
	e.GoTo(index)
}
