package engine

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ivlev/slidemotion/internal/anim"
	"github.com/ivlev/slidemotion/internal/deck"
	"github.com/ivlev/slidemotion/internal/dom"
	"github.com/ivlev/slidemotion/internal/geom"
	"github.com/ivlev/slidemotion/internal/line"
)

const (
	genericSettleAt = 416*time.Millisecond + time.Millisecond // frame interval + duration
	safetyAt        = 900 * time.Millisecond                  // duration + margin
)

func testDeck() *deck.Deck {
	return &deck.Deck{
		Version: "1",
		Slides: []deck.Slide{
			{ID: "title", Selector: "#slide-0",
				Line: &geom.Rule{Anchor: "#head-0", Extent: geom.Extent{Kind: geom.ExtentFixed, Width: 200}, Offset: 10}},
			{ID: "chapter", Selector: "#slide-1",
				Line:     &geom.Rule{Anchor: "#head-1", Extent: geom.Extent{Kind: geom.ExtentFixed, Width: 200}, Offset: 10},
				Animated: []deck.Animated{{Selector: "#a1"}, {Selector: "#a2", DelayMS: 150}},
				CountUps: []deck.CountUp{{Selector: "#num", Target: 1234}}},
			{ID: "facts", Selector: "#slide-2"},
			{ID: "more", Selector: "#slide-3"},
			{ID: "extra", Selector: "#slide-4"},
			{ID: "closing", Selector: "#slide-5"},
		},
		Transitions: []deck.Transition{
			{From: 0, To: 1, Kind: deck.KindSwoop},
		},
	}
}

type fixture struct {
	doc    *dom.MemDoc
	sched  *anim.ManualScheduler
	eng    *Engine
	slides []*dom.MemElement
	navs   []int
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	doc := dom.NewMemDoc(1000, 800)
	f := &fixture{doc: doc, sched: anim.NewManualScheduler()}

	for i := 0; i < 6; i++ {
		f.slides = append(f.slides, doc.Add("#slide-"+string(rune('0'+i))))
	}
	doc.Add("#head-0").SetBounds(geom.Rect{X: 400, Y: 80, W: 200, H: 40})
	doc.Add("#head-1").SetBounds(geom.Rect{X: 300, Y: 90, W: 400, H: 40})
	doc.Add(line.SelPrimary)
	doc.Add("#a1")
	doc.Add("#a2")
	doc.Add("#num")
	doc.Add(SelProgressIndex)
	doc.Add(SelNavPrev)
	doc.Add(SelNavNext)
	doc.Add(SelEdgePrev)
	doc.Add(SelEdgeNext)
	doc.Add(SelEdgeTop)
	for i := 0; i < 6; i++ {
		doc.Add(SelRailThumb)
	}

	dk := testDeck()
	ln, err := line.New(doc, dk, f.sched, 0, zap.NewNop())
	if err != nil {
		t.Fatalf("line.New: %v", err)
	}
	f.eng = New(doc, dk, ln, f.sched, opts, zap.NewNop())
	f.eng.OnNavigated(func(i int) { f.navs = append(f.navs, i) })
	f.navs = nil // registration delivers the initial index; tests track navigations
	return f
}

func (f *fixture) visible(t *testing.T) []int {
	t.Helper()
	var out []int
	for i, s := range f.slides {
		if !s.Hidden() {
			out = append(out, i)
		}
	}
	return out
}

func (f *fixture) assertOnlyVisible(t *testing.T, want int) {
	t.Helper()
	vis := f.visible(t)
	if len(vis) != 1 || vis[0] != want {
		t.Fatalf("visible slides = %v, want [%d]", vis, want)
	}
}

func TestInitialState(t *testing.T) {
	f := newFixture(t, Options{})
	f.assertOnlyVisible(t, 0)
	if f.eng.Current() != 0 || f.eng.Transitioning() {
		t.Errorf("current=%d transitioning=%v", f.eng.Current(), f.eng.Transitioning())
	}
	idx, _ := f.doc.Query(SelProgressIndex)
	if idx.Text() != "1 / 6" {
		t.Errorf("progress = %q, want %q", idx.Text(), "1 / 6")
	}
	prev, _ := f.doc.Query(SelNavPrev)
	if !prev.Hidden() {
		t.Error("prev affordance shown on the first slide without loop")
	}
}

func TestInitialSlideArrivalWork(t *testing.T) {
	doc := dom.NewMemDoc(1000, 800)
	sched := anim.NewManualScheduler()
	doc.Add("#slide-0")
	doc.Add("#slide-1")
	intro := doc.Add("#intro")
	num := doc.Add("#count")

	dk := &deck.Deck{
		Slides: []deck.Slide{
			{ID: "title", Selector: "#slide-0",
				Animated: []deck.Animated{{Selector: "#intro"}},
				CountUps: []deck.CountUp{{Selector: "#count", Target: 42}}},
			{ID: "closing", Selector: "#slide-1"},
		},
	}
	eng := New(doc, dk, nil, sched, Options{}, zap.NewNop())

	// A collaborator registered at startup hears about the slide already
	// on screen.
	var got []int
	eng.OnNavigated(func(i int) { got = append(got, i) })
	if len(got) != 1 || got[0] != 0 {
		t.Errorf("registration delivery = %v, want [0]", got)
	}

	sched.Advance(2 * time.Second)
	if !intro.HasClass("revealed") {
		t.Error("initial slide animated element not revealed")
	}
	if num.Text() != "42" {
		t.Errorf("initial slide count-up = %q, want 42", num.Text())
	}
}

func TestPreemptBackToOriginRearrives(t *testing.T) {
	f := newFixture(t, Options{})
	f.eng.GoTo(1) // swoop, origin stays visible until the checkpoint
	f.sched.Advance(100 * time.Millisecond)

	f.eng.GoTo(0) // preempt resolves onto the still-visible origin
	if f.eng.Transitioning() || f.eng.Current() != 0 {
		t.Fatalf("current=%d transitioning=%v", f.eng.Current(), f.eng.Transitioning())
	}
	f.assertOnlyVisible(t, 0)
	if len(f.navs) != 1 || f.navs[0] != 0 {
		t.Errorf("notifications = %v, want [0]", f.navs)
	}

	// The line re-converges to the origin's resting geometry instead of
	// staying wherever the aborted swoop left it.
	primary, _ := f.doc.Query(line.SelPrimary)
	if got := primary.Attr("d"); got != "M 400.0,130.0 L 600.0,130.0" {
		t.Errorf("path = %q, want origin resting path", got)
	}

	f.sched.Advance(2 * time.Second)
	if len(f.navs) != 1 {
		t.Errorf("stale timers fired after the preempt: %v", f.navs)
	}
}

func TestGenericTransitionSettles(t *testing.T) {
	f := newFixture(t, Options{})
	f.eng.GoTo(3)
	if !f.eng.Transitioning() {
		t.Fatal("not transitioning after GoTo")
	}
	if f.eng.Current() != 0 {
		t.Errorf("index updated optimistically: current=%d", f.eng.Current())
	}
	// Destination is interactable right away; the source fades underneath.
	if f.slides[3].Hidden() {
		t.Error("destination hidden during generic transition")
	}

	f.sched.Advance(genericSettleAt)
	if f.eng.Transitioning() || f.eng.Current() != 3 {
		t.Fatalf("current=%d transitioning=%v", f.eng.Current(), f.eng.Transitioning())
	}
	f.assertOnlyVisible(t, 3)
	if len(f.navs) != 1 || f.navs[0] != 3 {
		t.Errorf("notifications = %v, want [3]", f.navs)
	}

	// The safety timer must be dead; nothing further may fire.
	f.sched.Advance(safetyAt)
	if len(f.navs) != 1 {
		t.Errorf("extra notifications after settle: %v", f.navs)
	}
}

func TestTransitionBoundedBySafetyTimer(t *testing.T) {
	f := newFixture(t, Options{})
	f.eng.GoTo(2)
	// Whatever happens with the effect timers, duration+margin is the hard
	// bound on reaching steady state.
	f.sched.Advance(safetyAt)
	if f.eng.Transitioning() {
		t.Fatal("still transitioning past duration+margin")
	}
	f.assertOnlyVisible(t, 2)
}

func TestGoToSameSlideIsNoOp(t *testing.T) {
	f := newFixture(t, Options{})
	f.eng.GoTo(0)
	if f.eng.Transitioning() {
		t.Fatal("navigating to the current slide started a transition")
	}
	if f.sched.Pending() != 0 {
		t.Errorf("pending timers = %d", f.sched.Pending())
	}
}

func TestRepeatTargetDebounced(t *testing.T) {
	f := newFixture(t, Options{})
	f.eng.GoTo(3)
	f.sched.Advance(100 * time.Millisecond)
	f.eng.GoTo(3) // duplicate of the in-flight target
	f.sched.Advance(2 * time.Second)
	if len(f.navs) != 1 {
		t.Errorf("notifications = %v, want exactly one", f.navs)
	}
	f.assertOnlyVisible(t, 3)
}

func TestPreemptRestartsFromVisible(t *testing.T) {
	f := newFixture(t, Options{})
	f.eng.GoTo(3)
	f.sched.Advance(100 * time.Millisecond)

	f.eng.GoTo(2) // different target preempts
	if !f.eng.Transitioning() {
		t.Fatal("preempting navigation did not start")
	}
	f.sched.Advance(2 * time.Second)
	if f.eng.Current() != 2 {
		t.Errorf("current = %d, want 2", f.eng.Current())
	}
	f.assertOnlyVisible(t, 2)
	// The aborted transition never reports completion.
	if len(f.navs) != 1 || f.navs[0] != 2 {
		t.Errorf("notifications = %v, want [2]", f.navs)
	}
}

func TestGoToClamps(t *testing.T) {
	f := newFixture(t, Options{})
	f.eng.GoTo(99)
	f.sched.Advance(2 * time.Second)
	if f.eng.Current() != 5 {
		t.Errorf("current = %d, want 5", f.eng.Current())
	}
	f.eng.GoTo(-7)
	f.sched.Advance(2 * time.Second)
	if f.eng.Current() != 0 {
		t.Errorf("current = %d, want 0", f.eng.Current())
	}
}

func TestNextStopsAtEndWithoutLoop(t *testing.T) {
	f := newFixture(t, Options{})
	for i := 0; i < 5; i++ {
		f.eng.Next()
		f.sched.Advance(2 * time.Second)
	}
	if f.eng.Current() != 5 {
		t.Fatalf("current = %d, want 5", f.eng.Current())
	}
	f.eng.Next() // at the end, must be a no-op
	if f.eng.Transitioning() {
		t.Fatal("Next past the end started a transition")
	}
	f.assertOnlyVisible(t, 5)
}

func TestNextWrapsWithLoop(t *testing.T) {
	f := newFixture(t, Options{Loop: true})
	f.eng.GoTo(5)
	f.sched.Advance(2 * time.Second)
	f.eng.Next()
	f.sched.Advance(2 * time.Second)
	if f.eng.Current() != 0 {
		t.Errorf("current = %d, want 0 after wrap", f.eng.Current())
	}
	f.eng.Prev()
	f.sched.Advance(2 * time.Second)
	if f.eng.Current() != 5 {
		t.Errorf("current = %d, want 5 after reverse wrap", f.eng.Current())
	}
}

func TestRapidNextUsesInFlightTarget(t *testing.T) {
	f := newFixture(t, Options{})
	// Three rapid presses must land on slide 3, not restart from 0 each time.
	f.eng.Next()
	f.eng.Next()
	f.eng.Next()
	f.sched.Advance(2 * time.Second)
	if f.eng.Current() != 3 {
		t.Errorf("current = %d, want 3", f.eng.Current())
	}
	f.assertOnlyVisible(t, 3)
}

func TestSpecialSequenceDispatch(t *testing.T) {
	f := newFixture(t, Options{})
	f.eng.GoTo(1) // registered swoop pair

	// Swap happens at the sequence's checkpoint, not instantly.
	if !f.slides[1].Hidden() {
		t.Fatal("destination visible before the swoop checkpoint")
	}
	f.sched.Advance(180 * time.Millisecond)
	if f.slides[1].Hidden() {
		t.Fatal("destination hidden after the swoop checkpoint")
	}

	f.sched.Advance(420 * time.Millisecond)
	if f.eng.Current() != 1 || f.eng.Transitioning() {
		t.Fatalf("current=%d transitioning=%v", f.eng.Current(), f.eng.Transitioning())
	}
	f.assertOnlyVisible(t, 1)
	if len(f.navs) != 1 || f.navs[0] != 1 {
		t.Errorf("notifications = %v, want [1]", f.navs)
	}
}

func TestPreemptMidSpecial(t *testing.T) {
	f := newFixture(t, Options{})
	f.eng.GoTo(1)
	f.sched.Advance(200 * time.Millisecond) // past the swap checkpoint

	f.eng.GoTo(4)
	f.sched.Advance(2 * time.Second)
	if f.eng.Current() != 4 {
		t.Errorf("current = %d, want 4", f.eng.Current())
	}
	f.assertOnlyVisible(t, 4)
	if f.sched.Pending() != 0 {
		t.Errorf("pending timers = %d", f.sched.Pending())
	}
}

func TestDerivedUIFollowsNavigation(t *testing.T) {
	f := newFixture(t, Options{})
	f.eng.GoTo(5)
	f.sched.Advance(2 * time.Second)

	idx, _ := f.doc.Query(SelProgressIndex)
	if idx.Text() != "6 / 6" {
		t.Errorf("progress = %q, want %q", idx.Text(), "6 / 6")
	}
	next, _ := f.doc.Query(SelNavNext)
	if !next.Hidden() {
		t.Error("next affordance shown on the last slide without loop")
	}
	thumbs := f.doc.QueryAll(SelRailThumb)
	for i, th := range thumbs {
		if th.HasClass("active") != (i == 5) {
			t.Errorf("thumb %d active = %v", i, th.HasClass("active"))
		}
	}
}

func TestResizeDebounce(t *testing.T) {
	f := newFixture(t, Options{})
	primary, _ := f.doc.Query(line.SelPrimary)
	before := primary.Attr("d")

	// Move the anchor; the path must only recompute after the debounce.
	anchor, _ := f.doc.Query("#head-0")
	anchor.(*dom.MemElement).SetBounds(geom.Rect{X: 100, Y: 80, W: 200, H: 40})

	f.eng.HandleResize()
	f.sched.Advance(100 * time.Millisecond)
	if primary.Attr("d") != before {
		t.Fatal("path recomputed before the debounce window")
	}
	f.eng.HandleResize() // restarts the window
	f.sched.Advance(150 * time.Millisecond)
	if primary.Attr("d") != before {
		t.Fatal("path recomputed before the restarted window elapsed")
	}
	f.sched.Advance(50 * time.Millisecond)
	want := "M 100.0,130.0 L 300.0,130.0"
	if got := primary.Attr("d"); got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}

func TestResizeMidSpecialForcesFinalState(t *testing.T) {
	f := newFixture(t, Options{})
	f.eng.GoTo(1)
	f.sched.Advance(200 * time.Millisecond) // swapped, choreography running

	f.eng.HandleResize()
	f.sched.Advance(200 * time.Millisecond) // debounce elapses mid-flight
	if f.eng.Transitioning() {
		t.Fatal("resize did not force the transition to its final state")
	}
	if f.eng.Current() != 1 {
		t.Errorf("current = %d, want 1", f.eng.Current())
	}
	f.assertOnlyVisible(t, 1)
}
