package browser

import (
	"encoding/json"
	"fmt"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Event is one input event forwarded from the page.
type Event struct {
	Type        string  `json:"type"` // key, touchstart, touchend, click, pointermove, resize, thumb
	Key         string  `json:"key,omitempty"`
	X           float64 `json:"x,omitempty"`
	Y           float64 `json:"y,omitempty"`
	Index       int     `json:"index,omitempty"`
	Interactive bool    `json:"interactive,omitempty"`
}

const eventTag = "__slidemotion"

// hookScript installs page-side listeners that forward input events over
// console.debug, which the DevTools session observes without any page
// round trip. Interactive click targets are detected page-side so the
// click-zone suppression rule has the information it needs.
const hookScript = `(() => {
	if (window.__slidemotionHooked) return;
	window.__slidemotionHooked = true;
	const send = (e) => console.debug('` + eventTag + `', JSON.stringify(e));
	addEventListener('keydown', (e) => send({type: 'key', key: e.key}));
	addEventListener('touchstart', (e) => send({type: 'touchstart', x: e.touches[0].clientX}), {passive: true});
	addEventListener('touchend', (e) => send({type: 'touchend', x: e.changedTouches[0].clientX}), {passive: true});
	addEventListener('click', (e) => {
		const t = e.target.closest('a, button, input, select, textarea, [data-interactive]');
		const th = e.target.closest('.rail-thumb');
		if (th) {
			send({type: 'thumb', index: [...th.parentNode.children].indexOf(th)});
			return;
		}
		send({type: 'click', x: e.clientX, interactive: t !== null});
	});
	addEventListener('pointermove', (e) => send({type: 'pointermove', x: e.clientX, y: e.clientY}));
	addEventListener('resize', () => send({type: 'resize'}));
})()`

// PumpEvents installs the page hooks and forwards every page input event
// to fn. fn is called from the DevTools message handler goroutine; the
// caller is expected to post into its run loop.
func (d *Document) PumpEvents(fn func(Event)) error {
	if err := chromedp.Run(d.ctx, chromedp.Evaluate(hookScript, nil)); err != nil {
		return fmt.Errorf("install event hooks: %w", err)
	}

	chromedp.ListenTarget(d.ctx, func(ev interface{}) {
		c, ok := ev.(*runtime.EventConsoleAPICalled)
		if !ok || c.Type != runtime.APITypeDebug || len(c.Args) < 2 {
			return
		}
		var tag string
		if json.Unmarshal(c.Args[0].Value, &tag) != nil || tag != eventTag {
			return
		}
		var payload string
		if err := json.Unmarshal(c.Args[1].Value, &payload); err != nil {
			return
		}
		var e Event
		if err := json.Unmarshal([]byte(payload), &e); err != nil {
			d.log.Debug("bad page event", zap.String("payload", payload), zap.Error(err))
			return
		}
		fn(e)
	})
	return nil
}
