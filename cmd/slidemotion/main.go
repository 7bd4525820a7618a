package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/slidemotion/internal/anim"
	"github.com/ivlev/slidemotion/internal/browser"
	"github.com/ivlev/slidemotion/internal/charts"
	"github.com/ivlev/slidemotion/internal/config"
	"github.com/ivlev/slidemotion/internal/deck"
	"github.com/ivlev/slidemotion/internal/engine"
	"github.com/ivlev/slidemotion/internal/line"
	"github.com/ivlev/slidemotion/internal/mapview"
	"github.com/ivlev/slidemotion/internal/share"
	"github.com/ivlev/slidemotion/internal/system"
)

func main() {
	configPtr := flag.String("config", "", "Path to YAML config (optional, flags override it)")
	deckPtr := flag.String("deck", "", "Path to the deck YAML")
	urlPtr := flag.String("url", "", "URL of the presentation page")
	effectPtr := flag.String("effect", "", "Generic transition effect: fade, slide, zoom")
	loopPtr := flag.Bool("loop", false, "Wrap navigation at the deck ends")
	clickPtr := flag.Bool("click-zones", false, "Enable half-screen click navigation")
	headlessPtr := flag.Bool("headless", false, "Run the browser headless")
	thumbsPtr := flag.Bool("thumbs", false, "Capture slide thumbnails into the rail")
	sharePtr := flag.String("share", "", "Share URL for the QR code (overrides the deck)")
	localePtr := flag.String("locale", "", "BCP 47 locale for number formatting")
	debugPtr := flag.Bool("debug", false, "Debug logging")

	flag.Parse()

	log := newLogger(*debugPtr)
	defer log.Sync()

	cfg, err := loadConfig(*configPtr)
	if err != nil {
		log.Fatal("config", zap.Error(err))
	}
	if *deckPtr != "" {
		cfg.DeckPath = *deckPtr
	}
	if *urlPtr != "" {
		cfg.PageURL = *urlPtr
	}
	if *effectPtr != "" {
		cfg.Effect = *effectPtr
	}
	if *loopPtr {
		cfg.Loop = true
	}
	if *clickPtr {
		cfg.ClickZones = true
	}
	if *headlessPtr {
		cfg.Headless = true
	}
	if *thumbsPtr {
		cfg.Thumbnails = true
	}
	if *sharePtr != "" {
		cfg.ShareURL = *sharePtr
	}
	if *localePtr != "" {
		cfg.Locale = *localePtr
	}
	if cfg.PageURL == "" {
		log.Fatal("no page URL, pass -url or set page_url in the config")
	}

	system.InitResourceLimits(log)
	if err := system.Preflight(log); err != nil {
		log.Fatal("preflight", zap.Error(err))
	}

	dk, err := deck.Read(cfg.DeckPath)
	if err != nil {
		log.Fatal("deck", zap.Error(err))
	}
	log.Info("deck loaded",
		zap.String("path", cfg.DeckPath),
		zap.Int("slides", len(dk.Slides)),
		zap.Int("transitions", len(dk.Transitions)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	doc, closeBrowser, err := browser.Open(ctx, cfg.PageURL, cfg.Headless, log)
	if err != nil {
		log.Fatal("browser", zap.Error(err))
	}
	defer closeBrowser()

	if cfg.Thumbnails {
		if err := doc.CaptureThumbnails(dk, cfg.ThumbWidth); err != nil {
			log.Warn("thumbnails", zap.Error(err))
		}
	}

	shareURL := cfg.ShareURL
	if shareURL == "" {
		shareURL = dk.ShareURL
	}
	if err := share.Attach(doc, shareURL, log); err != nil {
		log.Warn("share QR", zap.Error(err))
	}

	loop := anim.NewLoop()
	sched := anim.NewLoopScheduler(loop)

	ln, err := line.New(doc, dk, sched, 0, log)
	if err != nil {
		log.Warn("line animator disabled", zap.Error(err))
		ln = nil
	}

	eng := engine.New(doc, dk, ln, sched, engine.Options{
		Loop:               cfg.Loop,
		Effect:             engine.Effect(cfg.Effect),
		ClickZones:         cfg.ClickZones,
		TransitionDuration: time.Duration(cfg.TransitionMS) * time.Millisecond,
		Stagger:            time.Duration(cfg.StaggerMS) * time.Millisecond,
		CountUpDuration:    time.Duration(cfg.CountUpMS) * time.Millisecond,
		ResizeDebounce:     time.Duration(cfg.ResizeDebounceMS) * time.Millisecond,
		SwipeThreshold:     cfg.SwipeThresholdPx,
		EdgeZone:           cfg.EdgeZonePx,
		TopZone:            cfg.TopZonePx,
		Locale:             cfg.Locale,
	}, log)

	chartReg := charts.NewRegistry(dk, charts.NewSVGRenderer(doc, log), log)
	defer chartReg.Close()
	mapReg := mapview.NewRegistry(dk, mapview.NewShadeRenderer(doc, log), log)
	defer mapReg.Close()
	eng.OnNavigated(chartReg.HandleNavigated)
	eng.OnNavigated(mapReg.HandleNavigated)

	err = doc.PumpEvents(func(ev browser.Event) {
		loop.Post(func() { dispatch(eng, ev) })
	})
	if err != nil {
		log.Fatal("event pump", zap.Error(err))
	}

	log.Info("presentation running", zap.Int("slides", eng.SlideCount()))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return loop.Run(ctx)
	})
	if err := g.Wait(); err != nil && err != context.Canceled {
		log.Fatal("run loop", zap.Error(err))
	}
	log.Info("shutting down")
}

// dispatch translates page events into engine calls. Runs on the loop.
func dispatch(eng *engine.Engine, ev browser.Event) {
	switch ev.Type {
	case "key":
		eng.HandleKey(engine.Key(ev.Key))
	case "touchstart":
		eng.HandleTouchStart(ev.X)
	case "touchend":
		eng.HandleTouchEnd(ev.X)
	case "click":
		eng.HandleClick(ev.X, ev.Interactive)
	case "pointermove":
		eng.HandlePointerMove(ev.X, ev.Y)
	case "resize":
		eng.HandleResize()
	case "thumb":
		eng.HandleThumbClick(ev.Index)
	}
}

func newLogger(debug bool) *zap.Logger {
	if debug {
		log, _ := zap.NewDevelopment()
		return log
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	log, _ := cfg.Build()
	return log
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}
