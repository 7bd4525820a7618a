package geom

import (
	"github.com/ivlev/slidemotion/internal/anim"
)

// ExtentKind selects how the horizontal extent of a slide's line is derived.
type ExtentKind string

const (
	// ExtentFixed uses Width as-is.
	ExtentFixed ExtentKind = "fixed"
	// ExtentFraction takes a fraction of the viewport width.
	ExtentFraction ExtentKind = "fraction"
	// ExtentProgressive interpolates monotonically from MinWidth up to the
	// full available width as the slide index moves through
	// [RangeStart, RangeEnd].
	ExtentProgressive ExtentKind = "progressive"
)

// Extent is the horizontal extent rule of a slide's progress line.
type Extent struct {
	Kind       ExtentKind `yaml:"kind"`
	Width      float64    `yaml:"width,omitempty"`
	Fraction   float64    `yaml:"fraction,omitempty"`
	MinWidth   float64    `yaml:"min_width,omitempty"`
	Margin     float64    `yaml:"margin,omitempty"`
	RangeStart int        `yaml:"range_start,omitempty"`
	RangeEnd   int        `yaml:"range_end,omitempty"`
}

// Rule describes where a slide's progress line rests: which element anchors
// it, how wide it is, and how far below the anchor's bottom edge it sits.
type Rule struct {
	Anchor string  `yaml:"anchor"`
	Extent Extent  `yaml:"extent"`
	Offset float64 `yaml:"offset,omitempty"`
	Align  string  `yaml:"align,omitempty"` // "left" or "center" (default)
}

// ExtentWidth resolves an extent rule to pixels for the given slide index.
func ExtentWidth(e Extent, viewportW float64, slide int) float64 {
	switch e.Kind {
	case ExtentFraction:
		return viewportW * e.Fraction
	case ExtentProgressive:
		full := viewportW - 2*e.Margin
		if e.RangeEnd <= e.RangeStart {
			return full
		}
		t := anim.Clamp01(float64(slide-e.RangeStart) / float64(e.RangeEnd-e.RangeStart))
		return anim.Lerp(e.MinWidth, full, t)
	default:
		return e.Width
	}
}

// LinePath computes the resting path for a slide from live measurements.
// Returns false when the anchor element cannot be measured.
func LinePath(l Layout, r Rule, slide int) (string, bool) {
	b, ok := l.Bounds(r.Anchor)
	if !ok {
		return "", false
	}
	vw, _ := l.Viewport()
	w := ExtentWidth(r.Extent, vw, slide)
	y := b.Bottom() + r.Offset
	var x1 float64
	switch r.Align {
	case "left":
		x1 = b.X
	default:
		x1 = b.CenterX() - w/2
	}
	return HLine(x1, y, x1+w), true
}

// PlaceholderPath returns the small collapsed line used between phases of
// the multi-step sequences, centered on cx at height y.
func PlaceholderPath(cx, y, width float64) string {
	return HLine(cx-width/2, y, cx+width/2)
}
