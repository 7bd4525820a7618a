package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverDefaults(t *testing.T) {
	path := writeConfig(t, `
deck: presentations/q3.yaml
page_url: http://localhost:8080/deck.html
effect: slide
loop: true
transition_ms: 250
locale: de
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.DeckPath != "presentations/q3.yaml" || c.Effect != "slide" || !c.Loop {
		t.Errorf("overrides not applied: %+v", c)
	}
	if c.TransitionMS != 250 || c.Locale != "de" {
		t.Errorf("overrides not applied: %+v", c)
	}
	// Untouched fields keep their defaults.
	if c.ThumbWidth != 160 {
		t.Errorf("ThumbWidth = %d, want default 160", c.ThumbWidth)
	}
}

func TestLoadCollectsValidationErrors(t *testing.T) {
	path := writeConfig(t, `
deck: ""
effect: sparkle
transition_ms: -5
countup_ms: -1
`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	msg := err.Error()
	for _, want := range []string{"deck path", "unknown effect", "transition_ms", "countup_ms"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q missing %q", msg, want)
		}
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := writeConfig(t, "deck: [unterminated")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}
