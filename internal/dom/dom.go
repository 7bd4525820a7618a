// Package dom is the seam between the navigation core and the rendered
// page. The engine and line animator mutate slides and line elements only
// through these interfaces; a chromedp-backed implementation drives a real
// browser and an in-memory one backs the tests.
package dom

import (
	"github.com/ivlev/slidemotion/internal/geom"
)

// Element is one mutable node of the rendered page.
type Element interface {
	// SetHidden toggles the element's hidden state. The aria-hidden
	// attribute mirrors it.
	SetHidden(hidden bool)
	Hidden() bool

	AddClass(name string)
	RemoveClass(name string)
	HasClass(name string) bool

	SetAttr(name, value string)
	Attr(name string) string

	SetStyle(name, value string)
	Style(name string) string
	// ClearStyles removes every inline style override set through SetStyle.
	ClearStyles()

	SetText(text string)
	Text() string

	// SetHTML replaces the element's content with markup. Used only by the
	// chart/map collaborators to inject their rendered output.
	SetHTML(html string)
	HTML() string

	// Bounds measures the element's current bounding box. False when the
	// element cannot be measured (detached, display:none).
	Bounds() (geom.Rect, bool)
}

// Document is a queryable view of the rendered page. It also satisfies
// geom.Layout so path geometry can measure through it directly.
type Document interface {
	// Query returns the first element matching the selector.
	Query(selector string) (Element, bool)
	// QueryAll returns every element matching the selector in document
	// order.
	QueryAll(selector string) []Element
	// Bounds measures the first element matching the selector.
	Bounds(selector string) (geom.Rect, bool)
	// Viewport returns the viewport size in pixels.
	Viewport() (w, h float64)
}
