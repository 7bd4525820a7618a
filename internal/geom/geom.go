// Package geom computes progress-line path geometry from live layout
// measurements. Everything here is pure and synchronous: callers pass a
// Layout and get a path string back, and nothing is cached between calls,
// so a resize or content change is picked up on the next invocation.
package geom

// Point is a position in viewport pixel coordinates.
type Point struct {
	X, Y float64
}

// Rect is an element bounding box in viewport pixel coordinates.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Right() float64 {
	return r.X + r.W
}

func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

func (r Rect) CenterX() float64 {
	return r.X + r.W/2
}

func (r Rect) CenterY() float64 {
	return r.Y + r.H/2
}

// Layout provides live element measurements. The rendered document
// satisfies it; tests inject an in-memory implementation.
type Layout interface {
	// Bounds returns the bounding box of the first element matching the
	// selector, or false if no such element exists.
	Bounds(selector string) (Rect, bool)
	// Viewport returns the viewport size in pixels.
	Viewport() (w, h float64)
}
