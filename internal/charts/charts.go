// Package charts is the chart collaborator. It owns the slide-to-chart
// mapping, follows navigation-completed notifications, and builds or
// destroys chart instances lazily so only the displayed slide ever holds
// a live chart.
package charts

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ivlev/slidemotion/internal/deck"
)

// Handle is one live chart instance.
type Handle interface {
	Destroy()
}

// Renderer builds a chart instance inside its slide's container.
type Renderer interface {
	Render(slideID string, spec *deck.Chart) (Handle, error)
}

// Registry tracks which slides carry charts and keeps at most the
// displayed slide's chart alive.
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

// HandleNavigated is the navigation-completed listener: charts on slides
// no longer displayed are destroyed, the displayed slide's chart is built
// if it has one and is not live yet. A render failure is logged and the
// slide simply shows no chart.
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

	if cur.Chart == nil || g.handles[cur.ID] != nil {
		return
	}
	h, err := g.r.Render(cur.ID, cur.Chart)
	if err != nil {
		g.log.Warn("chart render failed",
			zap.String("slide", cur.ID), zap.Error(err))
		return
	}
	g.handles[cur.ID] = h
	g.log.Debug("chart created", zap.String("slide", cur.ID))
}

// Live reports whether the slide currently holds a chart instance.
func (g *Registry) Live(slideID string) bool {
	return g.handles[slideID] != nil
}

// Close destroys every live chart.
func (g *Registry) Close() {
	for id, h := range g.handles {
		h.Destroy()
		delete(g.handles, id)
	}
}

func containerError(slideID, selector string) error {
	return fmt.Errorf("slide %s: chart container %q not found", slideID, selector)
}
