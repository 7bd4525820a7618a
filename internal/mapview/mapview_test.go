package mapview

import (
	"testing"

	"go.uber.org/zap"

	"github.com/ivlev/slidemotion/internal/deck"
	"github.com/ivlev/slidemotion/internal/dom"
)

func mapDeck() *deck.Deck {
	return &deck.Deck{
		Slides: []deck.Slide{
			{ID: "title", Selector: "#slide-0"},
			{ID: "regions", Selector: "#slide-1",
				Map: &deck.Map{
					Container: "#map",
					Features: []deck.Feature{
						{ID: "DE", Value: 100},
						{ID: "FR", Value: 50},
						{ID: "IT", Value: 0},
					},
				}},
		},
	}
}

func TestShadeAndRestore(t *testing.T) {
	doc := dom.NewMemDoc(1000, 800)
	doc.Add("#map")
	de := doc.Add("#map .feature-de")
	fr := doc.Add("#map .feature-fr")
	it := doc.Add("#map .feature-it")

	reg := NewRegistry(mapDeck(), NewShadeRenderer(doc, zap.NewNop()), zap.NewNop())
	reg.HandleNavigated(1)
	if !reg.Live("regions") {
		t.Fatal("map not created on arrival")
	}

	if de.Style("fill-opacity") != "1.00" {
		t.Errorf("max feature opacity = %q, want 1.00", de.Style("fill-opacity"))
	}
	if fr.Style("fill-opacity") != "0.57" {
		t.Errorf("mid feature opacity = %q, want 0.57", fr.Style("fill-opacity"))
	}
	if it.Style("fill-opacity") != "0.15" {
		t.Errorf("zero feature opacity = %q, want 0.15", it.Style("fill-opacity"))
	}
	if !de.HasClass("shaded") {
		t.Error("feature not marked shaded")
	}

	reg.HandleNavigated(0)
	if reg.Live("regions") {
		t.Fatal("map kept alive after leaving the slide")
	}
	if de.HasClass("shaded") || de.Style("fill-opacity") != "" {
		t.Error("feature shading not restored on destroy")
	}
}

func TestMissingFeatureSkipped(t *testing.T) {
	doc := dom.NewMemDoc(1000, 800)
	doc.Add("#map")
	de := doc.Add("#map .feature-de")
	// FR and IT have no elements; rendering must still succeed.
	reg := NewRegistry(mapDeck(), NewShadeRenderer(doc, zap.NewNop()), zap.NewNop())
	reg.HandleNavigated(1)
	if !reg.Live("regions") {
		t.Fatal("map not created with partial features")
	}
	if !de.HasClass("shaded") {
		t.Error("present feature not shaded")
	}
}
