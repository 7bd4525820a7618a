// Package config holds the runtime configuration: where the deck and the
// page live, which generic effect to use, and the timing knobs.
package config

import (
	"fmt"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DeckPath string `yaml:"deck"`
	PageURL  string `yaml:"page_url"`
	Headless bool   `yaml:"headless"`

	Effect     string `yaml:"effect"` // fade, slide, zoom
	Loop       bool   `yaml:"loop"`
	ClickZones bool   `yaml:"click_zones"`

	TransitionMS     int `yaml:"transition_ms"`
	StaggerMS        int `yaml:"stagger_ms"`
	CountUpMS        int `yaml:"countup_ms"`
	ResizeDebounceMS int `yaml:"resize_debounce_ms"`

	SwipeThresholdPx float64 `yaml:"swipe_threshold_px"`
	EdgeZonePx       float64 `yaml:"edge_zone_px"`
	TopZonePx        float64 `yaml:"top_zone_px"`

	Locale string `yaml:"locale"`

	Thumbnails bool   `yaml:"thumbnails"`
	ThumbWidth int    `yaml:"thumb_width"`
	ShareURL   string `yaml:"share_url"`
}

func Default() *Config {
	return &Config{
		DeckPath:   "deck.yaml",
		Headless:   false,
		Effect:     "fade",
		Locale:     "en",
		ThumbWidth: 160,
	}
}

var knownEffects = map[string]bool{"fade": true, "slide": true, "zoom": true}

func (c *Config) Validate() error {
	var err error
	if c.DeckPath == "" {
		err = multierr.Append(err, fmt.Errorf("deck path is empty"))
	}
	if !knownEffects[c.Effect] {
		err = multierr.Append(err, fmt.Errorf("unknown effect %q", c.Effect))
	}
	for _, d := range []struct {
		name string
		v    int
	}{
		{"transition_ms", c.TransitionMS},
		{"stagger_ms", c.StaggerMS},
		{"countup_ms", c.CountUpMS},
		{"resize_debounce_ms", c.ResizeDebounceMS},
	} {
		if d.v < 0 {
			err = multierr.Append(err, fmt.Errorf("%s is negative", d.name))
		}
	}
	return err
}

// Load reads a YAML config over the defaults. Validation errors are
// collected and reported together.
func Load(path string) (*Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return c, nil
}
