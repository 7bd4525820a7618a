// Package browser drives the real presentation page over the DevTools
// protocol. It implements the same document interface the in-memory
// double does, so everything above it is oblivious to which one it runs
// against.
package browser

import (
	"context"
	"fmt"
	"strconv"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/ivlev/slidemotion/internal/dom"
	"github.com/ivlev/slidemotion/internal/geom"
)

// Document is the chromedp-backed dom.Document.
type Document struct {
	ctx context.Context
	log *zap.Logger
}

var _ dom.Document = (*Document)(nil)

// Open launches a browser, navigates to the presentation page, and waits
// for its body to be visible. The returned cancel tears the browser down.
func Open(ctx context.Context, url string, headless bool, log *zap.Logger) (*Document, context.CancelFunc, error) {
	opts := chromedp.DefaultExecAllocatorOptions[:]
	if headless {
		opts = append(opts, chromedp.Headless)
	} else {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	bctx, cancelCtx := chromedp.NewContext(allocCtx)
	cancel := func() {
		cancelCtx()
		cancelAlloc()
	}

	err := chromedp.Run(bctx,
		chromedp.Navigate(url),
		chromedp.WaitVisible("body", chromedp.ByQuery),
	)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("open page %s: %w", url, err)
	}
	log.Info("page loaded", zap.String("url", url))
	return &Document{ctx: bctx, log: log}, cancel, nil
}

// eval runs a JS expression, decoding its JSON result into out when out
// is non-nil. Failures are logged and swallowed; DOM writes are best
// effort by design of the interface.
func (d *Document) eval(js string, out interface{}) bool {
	if err := chromedp.Run(d.ctx, chromedp.Evaluate(js, out)); err != nil {
		d.log.Debug("evaluate failed", zap.Error(err))
		return false
	}
	return true
}

func (d *Document) Query(selector string) (dom.Element, bool) {
	var found bool
	js := fmt.Sprintf("document.querySelector(%s) !== null", strconv.Quote(selector))
	if !d.eval(js, &found) || !found {
		return nil, false
	}
	return &cdpElement{
		d:    d,
		node: fmt.Sprintf("document.querySelector(%s)", strconv.Quote(selector)),
	}, true
}

func (d *Document) QueryAll(selector string) []dom.Element {
	var n int
	js := fmt.Sprintf("document.querySelectorAll(%s).length", strconv.Quote(selector))
	if !d.eval(js, &n) {
		return nil
	}
	out := make([]dom.Element, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &cdpElement{
			d:    d,
			node: fmt.Sprintf("document.querySelectorAll(%s)[%d]", strconv.Quote(selector), i),
		})
	}
	return out
}

func (d *Document) Bounds(selector string) (geom.Rect, bool) {
	el, ok := d.Query(selector)
	if !ok {
		return geom.Rect{}, false
	}
	return el.Bounds()
}

func (d *Document) Viewport() (w, h float64) {
	var v []float64
	if !d.eval("[window.innerWidth, window.innerHeight]", &v) || len(v) != 2 {
		return 0, 0
	}
	return v[0], v[1]
}

// cdpElement addresses one page node by a querySelector expression. It is
// re-resolved on every call, so a re-rendered node is never stale.
type cdpElement struct {
	d    *Document
	node string
}

var _ dom.Element = (*cdpElement)(nil)

// do runs a statement with `n` bound to the node, skipping when the node
// is gone.
func (e *cdpElement) do(stmt string) {
	js := fmt.Sprintf("(() => { const n = %s; if (!n) return; %s })()", e.node, stmt)
	e.d.eval(js, nil)
}

// get evaluates an expression of `n` into out, with fallback when the
// node is gone.
func (e *cdpElement) get(expr, fallback string, out interface{}) bool {
	js := fmt.Sprintf("(() => { const n = %s; return n ? (%s) : (%s); })()", e.node, expr, fallback)
	return e.d.eval(js, out)
}

func (e *cdpElement) SetHidden(hidden bool) {
	e.do(fmt.Sprintf("n.classList.toggle('hidden', %t); n.setAttribute('aria-hidden', '%t');", hidden, hidden))
}

func (e *cdpElement) Hidden() bool {
	var v bool
	e.get("n.classList.contains('hidden')", "false", &v)
	return v
}

func (e *cdpElement) AddClass(name string) {
	e.do(fmt.Sprintf("n.classList.add(%s);", strconv.Quote(name)))
}

func (e *cdpElement) RemoveClass(name string) {
	e.do(fmt.Sprintf("n.classList.remove(%s);", strconv.Quote(name)))
}

func (e *cdpElement) HasClass(name string) bool {
	var v bool
	e.get(fmt.Sprintf("n.classList.contains(%s)", strconv.Quote(name)), "false", &v)
	return v
}

func (e *cdpElement) SetAttr(name, value string) {
	e.do(fmt.Sprintf("n.setAttribute(%s, %s);", strconv.Quote(name), strconv.Quote(value)))
}

func (e *cdpElement) Attr(name string) string {
	var v string
	e.get(fmt.Sprintf("n.getAttribute(%s) || ''", strconv.Quote(name)), "''", &v)
	return v
}

func (e *cdpElement) SetStyle(name, value string) {
	if value == "" {
		e.do(fmt.Sprintf("n.style.removeProperty(%s);", strconv.Quote(name)))
		return
	}
	e.do(fmt.Sprintf("n.style.setProperty(%s, %s);", strconv.Quote(name), strconv.Quote(value)))
}

func (e *cdpElement) Style(name string) string {
	var v string
	e.get(fmt.Sprintf("n.style.getPropertyValue(%s)", strconv.Quote(name)), "''", &v)
	return v
}

func (e *cdpElement) ClearStyles() {
	e.do("n.removeAttribute('style');")
}

func (e *cdpElement) SetText(text string) {
	e.do(fmt.Sprintf("n.textContent = %s;", strconv.Quote(text)))
}

func (e *cdpElement) Text() string {
	var v string
	e.get("n.textContent", "''", &v)
	return v
}

func (e *cdpElement) SetHTML(html string) {
	e.do(fmt.Sprintf("n.innerHTML = %s;", strconv.Quote(html)))
}

func (e *cdpElement) HTML() string {
	var v string
	e.get("n.innerHTML", "''", &v)
	return v
}

type rectJSON struct {
	OK     bool    `json:"ok"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (e *cdpElement) Bounds() (geom.Rect, bool) {
	var r rectJSON
	expr := "(() => { const b = n.getBoundingClientRect(); return {ok: true, x: b.x, y: b.y, width: b.width, height: b.height}; })()"
	if !e.get(expr, "{ok: false}", &r) || !r.OK {
		return geom.Rect{}, false
	}
	if r.Width == 0 && r.Height == 0 {
		return geom.Rect{}, false
	}
	return geom.Rect{X: r.X, Y: r.Y, W: r.Width, H: r.Height}, true
}
