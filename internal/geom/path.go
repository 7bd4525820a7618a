package geom

import (
	"fmt"
	"strings"
)

// Path builds an SVG path string out of move/line instructions. Each MoveTo
// starts a new disjoint segment.
type Path struct {
	buf strings.Builder
}

func (p *Path) MoveTo(x, y float64) *Path {
	if p.buf.Len() > 0 {
		p.buf.WriteByte(' ')
	}
	fmt.Fprintf(&p.buf, "M %.1f,%.1f", x, y)
	return p
}

func (p *Path) LineTo(x, y float64) *Path {
	if p.buf.Len() > 0 {
		p.buf.WriteByte(' ')
	}
	fmt.Fprintf(&p.buf, "L %.1f,%.1f", x, y)
	return p
}

func (p *Path) String() string {
	return p.buf.String()
}

// HLine returns a single horizontal segment at height y.
func HLine(x1, y, x2 float64) string {
	var p Path
	return p.MoveTo(x1, y).LineTo(x2, y).String()
}
