package dom

import (
	"github.com/ivlev/slidemotion/internal/geom"
)

// MemDoc is an in-memory Document. Elements are registered under the
// selector they answer to; multiple registrations under one selector model
// a selector matching several elements in document order.
type MemDoc struct {
	viewW, viewH float64
	nodes        map[string][]*MemElement
}

func NewMemDoc(viewW, viewH float64) *MemDoc {
	return &MemDoc{
		viewW: viewW,
		viewH: viewH,
		nodes: make(map[string][]*MemElement),
	}
}

// Add registers a fresh element under selector and returns it.
func (d *MemDoc) Add(selector string) *MemElement {
	n := &MemElement{
		attrs:   make(map[string]string),
		classes: make(map[string]bool),
		styles:  make(map[string]string),
	}
	d.nodes[selector] = append(d.nodes[selector], n)
	return n
}

func (d *MemDoc) Query(selector string) (Element, bool) {
	ns := d.nodes[selector]
	if len(ns) == 0 {
		return nil, false
	}
	return ns[0], true
}

func (d *MemDoc) QueryAll(selector string) []Element {
	ns := d.nodes[selector]
	out := make([]Element, len(ns))
	for i, n := range ns {
		out[i] = n
	}
	return out
}

func (d *MemDoc) Bounds(selector string) (geom.Rect, bool) {
	ns := d.nodes[selector]
	if len(ns) == 0 {
		return geom.Rect{}, false
	}
	return ns[0].Bounds()
}

func (d *MemDoc) Viewport() (w, h float64) {
	return d.viewW, d.viewH
}

// Resize changes the viewport reported to geometry code.
func (d *MemDoc) Resize(w, h float64) {
	d.viewW, d.viewH = w, h
}

// MemElement is the in-memory Element.
type MemElement struct {
	hidden    bool
	attrs     map[string]string
	classes   map[string]bool
	styles    map[string]string
	text      string
	html      string
	bounds    geom.Rect
	hasBounds bool
}

func (n *MemElement) SetHidden(hidden bool) {
	n.hidden = hidden
	if hidden {
		n.attrs["aria-hidden"] = "true"
	} else {
		n.attrs["aria-hidden"] = "false"
	}
}

func (n *MemElement) Hidden() bool {
	return n.hidden
}

func (n *MemElement) AddClass(name string) {
	n.classes[name] = true
}

func (n *MemElement) RemoveClass(name string) {
	delete(n.classes, name)
}

func (n *MemElement) HasClass(name string) bool {
	return n.classes[name]
}

func (n *MemElement) SetAttr(name, value string) {
	n.attrs[name] = value
}

func (n *MemElement) Attr(name string) string {
	return n.attrs[name]
}

func (n *MemElement) SetStyle(name, value string) {
	n.styles[name] = value
}

func (n *MemElement) Style(name string) string {
	return n.styles[name]
}

func (n *MemElement) ClearStyles() {
	n.styles = make(map[string]string)
}

func (n *MemElement) SetText(text string) {
	n.text = text
}

func (n *MemElement) Text() string {
	return n.text
}

func (n *MemElement) SetHTML(html string) {
	n.html = html
}

func (n *MemElement) HTML() string {
	return n.html
}

func (n *MemElement) Bounds() (geom.Rect, bool) {
	if !n.hasBounds {
		return geom.Rect{}, false
	}
	return n.bounds, true
}

// SetBounds fixes the box reported by Bounds.
func (n *MemElement) SetBounds(r geom.Rect) {
	n.bounds = r
	n.hasBounds = true
}
