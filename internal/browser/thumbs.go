package browser

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"strconv"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/slidemotion/internal/deck"
	"github.com/ivlev/slidemotion/internal/system"
)

// CaptureThumbnails screenshots every slide once, downscales the shots to
// width pixels, and installs them into the thumbnail rail. Meant to run
// at startup before the run loop takes over; each slide is briefly
// unhidden for its shot.
func (d *Document) CaptureThumbnails(dk *deck.Deck, width int) error {
	shots := make([][]byte, len(dk.Slides))
	for i := range dk.Slides {
		sel := dk.Slides[i].Selector
		var buf []byte
		err := chromedp.Run(d.ctx,
			chromedp.Evaluate(showOnly(sel), nil),
			chromedp.Screenshot(sel, &buf, chromedp.ByQuery),
		)
		if err != nil {
			d.log.Warn("thumbnail capture failed",
				zap.Int("slide", i), zap.Error(err))
			continue
		}
		shots[i] = buf
	}
	// Leave the first slide visible, the engine starts there.
	if len(dk.Slides) > 0 {
		if err := chromedp.Run(d.ctx, chromedp.Evaluate(showOnly(dk.Slides[0].Selector), nil)); err != nil {
			return fmt.Errorf("restore first slide: %w", err)
		}
	}

	uris := make([]string, len(shots))
	var g errgroup.Group
	for i := range shots {
		if shots[i] == nil {
			continue
		}
		i := i
		g.Go(func() error {
			uri, err := downscale(shots[i], width)
			if err != nil {
				return fmt.Errorf("thumbnail %d: %w", i, err)
			}
			uris[i] = uri
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, uri := range uris {
		if uri == "" {
			continue
		}
		js := fmt.Sprintf(
			"(() => { const t = document.querySelectorAll('.rail-thumb img')[%d]; if (t) t.src = %s; })()",
			i, strconv.Quote(uri))
		d.eval(js, nil)
	}
	return nil
}

func showOnly(sel string) string {
	return fmt.Sprintf(
		"document.querySelectorAll('.slide').forEach(s => s.classList.toggle('hidden', !s.matches(%s)))",
		strconv.Quote(sel))
}

// downscale resizes a PNG shot to the given width preserving aspect,
// through the pooled RGBA buffers.
func downscale(shot []byte, width int) (string, error) {
	src, err := png.Decode(bytes.NewReader(shot))
	if err != nil {
		return "", err
	}
	sb := src.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 {
		return "", fmt.Errorf("empty screenshot")
	}
	height := width * sb.Dy() / sb.Dx()
	if height < 1 {
		height = 1
	}

	dst := system.GetImage(image.Rect(0, 0, width, height))
	defer system.PutImage(dst)
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, sb, draw.Src, nil)

	var out bytes.Buffer
	if err := png.Encode(&out, dst); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(out.Bytes()), nil
}
