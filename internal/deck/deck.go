// Package deck defines the presentation deck model: the fixed, ordered
// slide sequence, each slide's geometry anchors and animated content
// markers, and the table of special slide-pair transitions.
package deck

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/ivlev/slidemotion/internal/geom"
)

// Deck is a complete presentation description.
type Deck struct {
	Version     string       `yaml:"version"`
	ShareURL    string       `yaml:"share_url,omitempty"`
	Slides      []Slide      `yaml:"slides"`
	Transitions []Transition `yaml:"transitions,omitempty"`
}

// Slide describes one content panel. Slides are defined at load time and
// never created or destroyed at runtime; only visibility and reveal state
// change.
type Slide struct {
	ID       string `yaml:"id"`
	Tag      string `yaml:"tag,omitempty"` // classification: title, chapter, timeline, takeaways, split, chart, map, closing
	Selector string `yaml:"selector"`

	Line     *geom.Rule `yaml:"line,omitempty"`
	Animated []Animated `yaml:"animated,omitempty"`
	CountUps []CountUp  `yaml:"countups,omitempty"`
	Timeline *Timeline  `yaml:"timeline,omitempty"`
	Split    *Split     `yaml:"split,omitempty"`
	Chart    *Chart     `yaml:"chart,omitempty"`
	Map      *Map       `yaml:"map,omitempty"`
}

// Animated marks a child element revealed with the staggered entrance
// animation. Delay adds on top of the index-based stagger.
type Animated struct {
	Selector string `yaml:"selector"`
	DelayMS  int    `yaml:"delay_ms,omitempty"`
}

// CountUp marks a numeric display animated from 0 to Target on arrival.
type CountUp struct {
	Selector string `yaml:"selector"`
	Target   int    `yaml:"target"`
}

// Timeline configures the step-reveal choreography of a timeline slide:
// marker selectors in reveal order plus the per-segment timing.
type Timeline struct {
	Markers       []string `yaml:"markers"`
	SegmentMS     int      `yaml:"segment_ms,omitempty"`      // default 800
	MarkerDelayMS int      `yaml:"marker_delay_ms,omitempty"` // default 300
}

// Split configures a two-line split layout: the content region masked by
// the overlay panels and the resting geometry of the upper and lower lines.
type Split struct {
	Region string    `yaml:"region"`
	Upper  geom.Rule `yaml:"upper"`
	Lower  geom.Rule `yaml:"lower"`
}

// Chart is the data handed to the external chart collaborator when its
// slide is reached.
type Chart struct {
	Container string        `yaml:"container"`
	Mode      string        `yaml:"mode,omitempty"` // "bars" (vertical, default) or "hbars"
	Percent   bool          `yaml:"percent,omitempty"`
	Series    []SeriesPoint `yaml:"series"`
}

// SeriesPoint is one labeled value of a chart series.
type SeriesPoint struct {
	Label string  `yaml:"label"`
	Value float64 `yaml:"value"`
}

// Map is the feature data handed to the external choropleth collaborator.
type Map struct {
	Container string    `yaml:"container"`
	Features  []Feature `yaml:"features"`
}

// Feature is one geographic feature value.
type Feature struct {
	ID    string  `yaml:"id"`
	Value float64 `yaml:"value"`
}

// Kind names a special transition choreography.
type Kind string

const (
	KindSwoop        Kind = "swoop"
	KindTimeline     Kind = "timeline"
	KindSwoopExpand  Kind = "swoop-expand"
	KindExpand       Kind = "expand"
	KindSplit        Kind = "split"
	KindSplitReverse Kind = "split-reverse"
)

// Transition binds one ordered slide-index pair to a special sequence.
// Pairs not listed here fall back to the generic transition.
type Transition struct {
	From int  `yaml:"from"`
	To   int  `yaml:"to"`
	Kind Kind `yaml:"kind"`
}

var knownKinds = map[Kind]bool{
	KindSwoop:        true,
	KindTimeline:     true,
	KindSwoopExpand:  true,
	KindExpand:       true,
	KindSplit:        true,
	KindSplitReverse: true,
}

// Validate checks internal consistency and reports every problem at once.
func (d *Deck) Validate() error {
	var err error
	if len(d.Slides) == 0 {
		err = multierr.Append(err, fmt.Errorf("deck has no slides"))
	}
	seen := make(map[string]bool)
	for i, s := range d.Slides {
		if s.ID == "" {
			err = multierr.Append(err, fmt.Errorf("slide %d: missing id", i))
		} else if seen[s.ID] {
			err = multierr.Append(err, fmt.Errorf("slide %d: duplicate id %q", i, s.ID))
		}
		seen[s.ID] = true
		if s.Selector == "" {
			err = multierr.Append(err, fmt.Errorf("slide %d: missing selector", i))
		}
		if s.Timeline != nil && len(s.Timeline.Markers) == 0 {
			err = multierr.Append(err, fmt.Errorf("slide %d: timeline with no markers", i))
		}
	}
	for i, t := range d.Transitions {
		if !knownKinds[t.Kind] {
			err = multierr.Append(err, fmt.Errorf("transition %d: unknown kind %q", i, t.Kind))
		}
		if t.From < 0 || t.From >= len(d.Slides) || t.To < 0 || t.To >= len(d.Slides) {
			err = multierr.Append(err, fmt.Errorf("transition %d: pair %d->%d out of range", i, t.From, t.To))
		}
		if t.From == t.To {
			err = multierr.Append(err, fmt.Errorf("transition %d: pair maps a slide to itself", i))
		}
	}
	return err
}
