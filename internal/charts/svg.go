package charts

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ivlev/slidemotion/internal/deck"
	"github.com/ivlev/slidemotion/internal/dom"
)

// SVGRenderer draws bar charts as inline SVG in the chart container.
type SVGRenderer struct {
	doc dom.Document
	log *zap.Logger
}

func NewSVGRenderer(doc dom.Document, log *zap.Logger) *SVGRenderer {
	return &SVGRenderer{doc: doc, log: log}
}

func (s *SVGRenderer) Render(slideID string, spec *deck.Chart) (Handle, error) {
	el, ok := s.doc.Query(spec.Container)
	if !ok {
		return nil, containerError(slideID, spec.Container)
	}
	w, h := 600.0, 300.0
	if b, ok := el.Bounds(); ok && b.W > 0 && b.H > 0 {
		w, h = b.W, b.H
	}

	var svg string
	if spec.Mode == "hbars" {
		svg = buildHBarSVG(spec, w, h)
	} else {
		svg = buildBarSVG(spec, w, h)
	}
	el.SetHTML(svg)
	return &svgHandle{el: el}, nil
}

type svgHandle struct {
	el dom.Element
}

func (h *svgHandle) Destroy() {
	h.el.SetHTML("")
}

const (
	chartPad   = 24.0
	barGap     = 12.0
	labelSpace = 28.0
)

// buildBarSVG draws vertical bars scaled against the series maximum, with
// the label under each bar and the value above it.
func buildBarSVG(spec *deck.Chart, w, h float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg viewBox="0 0 %.0f %.0f" xmlns="http://www.w3.org/2000/svg">`, w, h)

	n := len(spec.Series)
	if n > 0 {
		max := seriesMax(spec.Series)
		plotH := h - 2*chartPad - labelSpace
		barW := (w - 2*chartPad - float64(n-1)*barGap) / float64(n)
		for i, p := range spec.Series {
			x := chartPad + float64(i)*(barW+barGap)
			bh := 0.0
			if max > 0 {
				bh = plotH * (p.Value / max)
			}
			y := chartPad + (plotH - bh)
			fmt.Fprintf(&b, `<rect class="chart-bar" x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`, x, y, barW, bh)
			fmt.Fprintf(&b, `<text class="chart-value" x="%.1f" y="%.1f" text-anchor="middle">%s</text>`,
				x+barW/2, y-6, formatValue(p.Value, spec.Percent))
			fmt.Fprintf(&b, `<text class="chart-label" x="%.1f" y="%.1f" text-anchor="middle">%s</text>`,
				x+barW/2, h-chartPad, escape(p.Label))
		}
	}

	b.WriteString(`</svg>`)
	return b.String()
}

// buildHBarSVG draws horizontal bars, label left of each bar and the value
// at the bar's end.
func buildHBarSVG(spec *deck.Chart, w, h float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg viewBox="0 0 %.0f %.0f" xmlns="http://www.w3.org/2000/svg">`, w, h)

	n := len(spec.Series)
	if n > 0 {
		max := seriesMax(spec.Series)
		labelW := w * 0.25
		plotW := w - 2*chartPad - labelW
		barH := (h - 2*chartPad - float64(n-1)*barGap) / float64(n)
		for i, p := range spec.Series {
			y := chartPad + float64(i)*(barH+barGap)
			bw := 0.0
			if max > 0 {
				bw = plotW * (p.Value / max)
			}
			x := chartPad + labelW
			fmt.Fprintf(&b, `<text class="chart-label" x="%.1f" y="%.1f" text-anchor="end">%s</text>`,
				x-8, y+barH/2+4, escape(p.Label))
			fmt.Fprintf(&b, `<rect class="chart-bar" x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`, x, y, bw, barH)
			fmt.Fprintf(&b, `<text class="chart-value" x="%.1f" y="%.1f">%s</text>`,
				x+bw+6, y+barH/2+4, formatValue(p.Value, spec.Percent))
		}
	}

	b.WriteString(`</svg>`)
	return b.String()
}

func seriesMax(pts []deck.SeriesPoint) float64 {
	max := 0.0
	for _, p := range pts {
		if p.Value > max {
			max = p.Value
		}
	}
	return max
}

func formatValue(v float64, percent bool) string {
	if percent {
		return fmt.Sprintf("%.0f%%", v)
	}
	if v == float64(int64(v)) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
