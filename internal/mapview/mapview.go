// Package mapview is the choropleth collaborator. Like the chart registry
// it follows navigation and keeps at most the displayed slide's map alive,
// but the actual drawing is behind an opaque Renderer so a real map
// library can be dropped in without touching the navigation side.
package mapview

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ivlev/slidemotion/internal/deck"
	"github.com/ivlev/slidemotion/internal/dom"
)

// Handle is one live map instance.
type Handle interface {
	Destroy()
}

// Renderer builds a map instance inside its slide's container.
type Renderer interface {
	Render(slideID string, spec *deck.Map) (Handle, error)
}

// Registry keeps the displayed slide's map alive and nothing else.
type Registry struct {
	dk      *deck.Deck
	r       Renderer
	log     *zap.Logger
	handles map[string]Handle
}

func NewRegistry(dk *deck.Deck, r Renderer, log *zap.Logger) *Registry {
	return &Registry{
		dk:      dk,
		r:       r,
		log:     log,
		handles: make(map[string]Handle),
	}
}

// HandleNavigated is the navigation-completed listener.
func (g *Registry) HandleNavigated(index int) {
	if index < 0 || index >= len(g.dk.Slides) {
		return
	}
	cur := &g.dk.Slides[index]

	for id, h := range g.handles {
		if id == cur.ID {
			continue
		}
		h.Destroy()
		delete(g.handles, id)
	}

	if cur.Map == nil || g.handles[cur.ID] != nil {
		return
	}
	h, err := g.r.Render(cur.ID, cur.Map)
	if err != nil {
		g.log.Warn("map render failed",
			zap.String("slide", cur.ID), zap.Error(err))
		return
	}
	g.handles[cur.ID] = h
	g.log.Debug("map created", zap.String("slide", cur.ID))
}

// Live reports whether the slide currently holds a map instance.
func (g *Registry) Live(slideID string) bool {
	return g.handles[slideID] != nil
}

// Close destroys every live map.
func (g *Registry) Close() {
	for id, h := range g.handles {
		h.Destroy()
		delete(g.handles, id)
	}
}

// ShadeRenderer is the built-in Renderer: it shades the container's
// pre-drawn feature elements by their normalized value instead of drawing
// geography itself. Each feature id maps to a child with class
// "feature-<id>".
type ShadeRenderer struct {
	doc dom.Document
	log *zap.Logger
}

func NewShadeRenderer(doc dom.Document, log *zap.Logger) *ShadeRenderer {
	return &ShadeRenderer{doc: doc, log: log}
}

func (s *ShadeRenderer) Render(slideID string, spec *deck.Map) (Handle, error) {
	if _, ok := s.doc.Query(spec.Container); !ok {
		return nil, fmt.Errorf("slide %s: map container %q not found", slideID, spec.Container)
	}

	max := 0.0
	for _, f := range spec.Features {
		if f.Value > max {
			max = f.Value
		}
	}

	shaded := make([]dom.Element, 0, len(spec.Features))
	for _, f := range spec.Features {
		sel := featureSelector(spec.Container, f.ID)
		el, ok := s.doc.Query(sel)
		if !ok {
			s.log.Debug("map feature missing", zap.String("selector", sel))
			continue
		}
		t := 0.0
		if max > 0 {
			t = f.Value / max
		}
		el.SetStyle("fill-opacity", fmt.Sprintf("%.2f", 0.15+0.85*t))
		el.AddClass("shaded")
		shaded = append(shaded, el)
	}
	return &shadeHandle{els: shaded}, nil
}

type shadeHandle struct {
	els []dom.Element
}

func (h *shadeHandle) Destroy() {
	for _, el := range h.els {
		el.RemoveClass("shaded")
		el.SetStyle("fill-opacity", "")
	}
}

func featureSelector(container, id string) string {
	return container + " .feature-" + strings.ToLower(id)
}
