package drag

import (
	"testing"

	"gridboard/internal/board"
	"gridboard/internal/grid"
	"gridboard/internal/store"
)

type testHandle struct {
	frame board.Rect
	sets  int
}

func (h *testHandle) Frame() board.Rect { return h.frame }
func (h *testHandle) SetFrame(r board.Rect) {
	h.frame = r
	h.sets++
}

type testGeo struct {
	bounds map[string]board.Rect
}

func (g *testGeo) CanvasBounds(canvasID string) (board.Rect, bool) {
	r, ok := g.bounds[canvasID]
	return r, ok
}

func (g *testGeo) CanvasAt(p board.Point) (string, bool) {
	for id, r := range g.bounds {
		if r.Contains(p) {
			return id, true
		}
	}
	return "", false
}

// manualScheduler defers flushes until the test pumps them, modeling a
// display-refresh boundary.
type manualScheduler struct {
	pending []func()
}

func (m *manualScheduler) Schedule(fn func()) (cancel func()) {
	m.pending = append(m.pending, fn)
	idx := len(m.pending) - 1
	return func() { m.pending[idx] = nil }
}

func (m *manualScheduler) pump() {
	for _, fn := range m.pending {
		if fn != nil {
			fn()
		}
	}
	m.pending = nil
}

type fixture struct {
	st   *store.Store
	conv *grid.Converter
	geo  *testGeo
	pipe *Pipeline
}

// newFixture builds a 1000x800 canvas "main" with 20px units on both axes
// and one 10x6-unit item at the origin.
func newFixture(t *testing.T, sched FrameScheduler, hooks Hooks) *fixture {
	t.Helper()
	st := store.New(nil)
	st.AddCanvas(&board.Canvas{ID: "main"})
	if _, ok := st.AddItem(&board.Item{
		ID:       "a",
		CanvasID: "main",
		Type:     "widget",
		Wide:     board.Layout{X: 0, Y: 0, Width: 10, Height: 6},
	}); !ok {
		t.Fatal("seed item failed")
	}

	conv := grid.NewConverter(grid.Config{}, nil)
	conv.SetCanvasWidth("main", 1000)
	geo := &testGeo{bounds: map[string]board.Rect{
		"main": {X: 0, Y: 0, Width: 1000, Height: 800},
	}}
	pipe := New(conv, st, geo, sched, Config{}, hooks, nil)
	return &fixture{st: st, conv: conv, geo: geo, pipe: pipe}
}

func (f *fixture) itemHandle() *testHandle {
	// wide {0,0,10,6} -> 0,0 / 200x120px
	return &testHandle{frame: board.Rect{X: 0, Y: 0, Width: 200, Height: 120}}
}

func TestDragSnapScenario(t *testing.T) {
	// Item at {0,0,10,6}, drag delta (155,77), 20px units both axes ->
	// snapped commit x=8 (160px), y=4 (80px).
	f := newFixture(t, nil, Hooks{})
	h := f.itemHandle()

	if !f.pipe.StartDrag("a", h, board.ModeWide) {
		t.Fatal("StartDrag refused")
	}
	f.pipe.Update(155, 77)
	res, ok := f.pipe.EndGesture()
	if !ok || !res.Committed {
		t.Fatalf("result = %+v (ok=%v), want committed", res, ok)
	}
	if res.After.X != 8 || res.After.Y != 4 {
		t.Fatalf("committed position = (%d,%d), want (8,4)", res.After.X, res.After.Y)
	}
	item, _ := f.st.GetItem("a")
	if item.Wide.X != 8 || item.Wide.Y != 4 {
		t.Fatalf("stored wide = %+v, want x=8 y=4", item.Wide)
	}
	if item.Wide.Width != 10 || item.Wide.Height != 6 {
		t.Fatalf("drag changed size: %+v", item.Wide)
	}
}

func TestSyncSchedulerFlushesInline(t *testing.T) {
	// With the synchronous scheduler every Update must flush to the handle
	// before returning; the flush re-enters the pipeline, so this also
	// guards against Update holding its lock across the schedule call.
	f := newFixture(t, SyncScheduler{}, Hooks{})
	h := f.itemHandle()

	f.pipe.StartDrag("a", h, board.ModeWide)
	for i := 1; i <= 10; i++ {
		f.pipe.Update(i*10, i*5)
		want := board.Rect{X: i * 10, Y: i * 5, Width: 200, Height: 120}
		if h.frame != want {
			t.Fatalf("after update %d: handle frame = %+v, want %+v", i, h.frame, want)
		}
	}
	if h.sets != 10 {
		t.Fatalf("handle written %d times, want 10", h.sets)
	}
	res, ok := f.pipe.EndGesture()
	if !ok || !res.Committed {
		t.Fatalf("result = %+v (ok=%v), want committed", res, ok)
	}
}

func TestDragMidGestureNeverMutatesStore(t *testing.T) {
	f := newFixture(t, nil, Hooks{})
	h := f.itemHandle()

	notifications := 0
	f.st.Subscribe(store.SectionCanvases, func(store.Event) { notifications++ })

	f.pipe.StartDrag("a", h, board.ModeWide)
	for i := 1; i <= 50; i++ {
		f.pipe.Update(i*3, i*2)
	}
	if notifications != 0 {
		t.Fatalf("store notified %d times mid-gesture, want 0", notifications)
	}
	f.pipe.EndGesture()
	if notifications != 1 {
		t.Fatalf("store notified %d times, want exactly 1 at end", notifications)
	}
}

func TestDragEdgeMagnetism(t *testing.T) {
	cases := []struct {
		name   string
		dx, dy int
		wantX  int
		wantY  int
	}{
		// 15px from the left edge: snaps to unit 1 (20px), inside the 20px
		// threshold, magnetized to exactly 0.
		{"left edge", 15, 200, 0, 10},
		// 785px: snaps to 780, leaving a 20px right gap -> magnetized to
		// canvasWidth-itemWidth = 800px = unit 40.
		{"right edge", 785, 200, 40, 10},
		// 5px from the top: snaps to 0 already.
		{"top edge", 400, 5, 20, 0},
		// 670px: snaps to 680, bottom gap 0 -> 800-120 = 680px = unit 34.
		{"bottom edge", 400, 670, 20, 34},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, nil, Hooks{})
			h := f.itemHandle()
			f.pipe.StartDrag("a", h, board.ModeWide)
			f.pipe.Update(tc.dx, tc.dy)
			res, _ := f.pipe.EndGesture()
			if !res.Committed {
				t.Fatalf("not committed: %+v", res)
			}
			if res.After.X != tc.wantX || res.After.Y != tc.wantY {
				t.Fatalf("committed = (%d,%d), want (%d,%d)",
					res.After.X, res.After.Y, tc.wantX, tc.wantY)
			}
		})
	}
}

func TestDragClampedInsideCanvas(t *testing.T) {
	f := newFixture(t, nil, Hooks{})
	h := f.itemHandle()

	f.pipe.StartDrag("a", h, board.ModeWide)
	f.pipe.Update(-500, 5000)
	res, _ := f.pipe.EndGesture()

	if res.After.X != 0 {
		t.Fatalf("x = %d, want clamped to 0", res.After.X)
	}
	// Bottom clamp: 800-120 = 680px = unit 34.
	if res.After.Y != 34 {
		t.Fatalf("y = %d, want clamped to 34", res.After.Y)
	}
}

func TestDragCrossCanvasAbortsLocalHandling(t *testing.T) {
	f := newFixture(t, nil, Hooks{})
	f.geo.bounds["side"] = board.Rect{X: 1100, Y: 0, Width: 1000, Height: 800}
	h := f.itemHandle()

	before, _ := f.st.GetItem("a")
	f.pipe.StartDrag("a", h, board.ModeWide)
	f.pipe.Update(1300, 100) // centroid lands in "side"
	res, _ := f.pipe.EndGesture()

	if !res.CrossCanvas || res.TargetCanvasID != "side" {
		t.Fatalf("result = %+v, want cross-canvas to side", res)
	}
	if res.Committed {
		t.Fatal("cross-canvas drop must not commit locally")
	}
	after, _ := f.st.GetItem("a")
	if after.Wide != before.Wide || after.CanvasID != "main" {
		t.Fatalf("store mutated on cross-canvas drop: %+v", after)
	}
}

func TestDragUnresolvableCanvasDiscards(t *testing.T) {
	f := newFixture(t, nil, Hooks{})
	h := f.itemHandle()

	f.pipe.StartDrag("a", h, board.ModeWide)
	f.pipe.Update(100, 100)
	delete(f.geo.bounds, "main") // canvas unmounts mid-gesture
	res, ok := f.pipe.EndGesture()

	if !ok {
		t.Fatal("gesture should still end")
	}
	if res.Committed || res.CrossCanvas {
		t.Fatalf("result = %+v, want discarded", res)
	}
	item, _ := f.st.GetItem("a")
	if item.Wide.X != 0 || item.Wide.Y != 0 {
		t.Fatalf("store mutated despite discard: %+v", item.Wide)
	}
}

func TestNarrowCommitBackfillsAndCustomizes(t *testing.T) {
	f := newFixture(t, nil, Hooks{})
	h := f.itemHandle()

	f.pipe.StartDrag("a", h, board.ModeNarrow)
	f.pipe.Update(40, 40)
	res, _ := f.pipe.EndGesture()

	if !res.Committed {
		t.Fatalf("not committed: %+v", res)
	}
	if res.HadNarrow {
		t.Fatal("HadNarrow should be false for a first narrow commit")
	}
	item, _ := f.st.GetItem("a")
	if item.Narrow == nil {
		t.Fatal("narrow layout not written")
	}
	if !item.Narrow.Customized {
		t.Fatal("narrow commit must set Customized")
	}
	if item.Narrow.Width != 10 || item.Narrow.Height != 6 {
		t.Fatalf("narrow size = %dx%d, want backfilled 10x6 from wide",
			item.Narrow.Width, item.Narrow.Height)
	}
	if item.Wide.X != 0 || item.Wide.Y != 0 {
		t.Fatalf("wide layout touched by narrow commit: %+v", item.Wide)
	}
}

func TestCoalescingAppliesOnlyLatest(t *testing.T) {
	sched := &manualScheduler{}
	f := newFixture(t, sched, Hooks{})
	h := f.itemHandle()

	f.pipe.StartDrag("a", h, board.ModeWide)
	f.pipe.Update(10, 0)
	f.pipe.Update(20, 0)
	f.pipe.Update(30, 0)

	if h.sets != 0 {
		t.Fatalf("handle written %d times before refresh, want 0", h.sets)
	}
	sched.pump()
	if h.sets != 1 {
		t.Fatalf("handle written %d times after refresh, want 1 (coalesced)", h.sets)
	}
	if h.frame.X != 30 {
		t.Fatalf("flushed frame x = %d, want latest 30", h.frame.X)
	}
}

func TestStaleFlushNeverSupersedesNewer(t *testing.T) {
	// A flush whose cancel was lost (timer already fired) must still be
	// discarded by the generation check.
	var captured []func()
	leaky := schedulerFunc(func(fn func()) func() {
		captured = append(captured, fn)
		return func() {} // cancel does nothing
	})
	f := newFixture(t, leaky, Hooks{})
	h := f.itemHandle()

	f.pipe.StartDrag("a", h, board.ModeWide)
	f.pipe.Update(10, 0)
	f.pipe.Update(50, 0)

	captured[1]() // newest flush runs first
	captured[0]() // stale flush fires late
	if h.frame.X != 50 {
		t.Fatalf("frame x = %d, stale flush overwrote newer state", h.frame.X)
	}
}

type schedulerFunc func(fn func()) func()

func (f schedulerFunc) Schedule(fn func()) (cancel func()) { return f(fn) }

func TestEndGestureAppliesFinalFrame(t *testing.T) {
	sched := &manualScheduler{}
	f := newFixture(t, sched, Hooks{})
	h := f.itemHandle()

	f.pipe.StartDrag("a", h, board.ModeWide)
	f.pipe.Update(155, 77)
	f.pipe.EndGesture() // pending flush cancelled, final frame applied directly

	if h.frame.X != 155 || h.frame.Y != 77 {
		t.Fatalf("final frame = %+v, want (155,77)", h.frame)
	}
	sched.pump() // cancelled flush must not fire
	if h.sets != 1 {
		t.Fatalf("handle written %d times, want 1", h.sets)
	}
}

func TestStartRefusedWhileGestureActive(t *testing.T) {
	f := newFixture(t, nil, Hooks{})
	h := f.itemHandle()

	f.pipe.StartDrag("a", h, board.ModeWide)
	if f.pipe.StartDrag("a", h, board.ModeWide) {
		t.Fatal("second StartDrag should be refused mid-gesture")
	}
	if f.pipe.StartResize("a", h, board.ModeWide, GripSE) {
		t.Fatal("StartResize should be refused mid-gesture")
	}
}

func TestDestroyMidGestureIsSafe(t *testing.T) {
	sched := &manualScheduler{}
	f := newFixture(t, sched, Hooks{})
	h := f.itemHandle()

	f.pipe.StartDrag("a", h, board.ModeWide)
	f.pipe.Update(100, 100)
	f.pipe.Destroy()
	f.pipe.Destroy() // double-cleanup must not panic

	sched.pump()
	if h.sets != 0 {
		t.Fatalf("visual flush ran after destroy (%d writes)", h.sets)
	}
	if _, ok := f.pipe.EndGesture(); ok {
		t.Fatal("EndGesture after destroy should report no gesture")
	}
	item, _ := f.st.GetItem("a")
	if item.Wide.X != 0 {
		t.Fatalf("store mutated by destroyed gesture: %+v", item.Wide)
	}
}

func TestGestureHooks(t *testing.T) {
	var started, moved int
	var ended []Result
	hooks := Hooks{
		Started: func(Kind, string) { started++ },
		Moved:   func(Kind, string, board.Rect) { moved++ },
		Ended:   func(r Result) { ended = append(ended, r) },
	}
	sched := &manualScheduler{}
	f := newFixture(t, sched, hooks)
	h := f.itemHandle()

	f.pipe.StartDrag("a", h, board.ModeWide)
	f.pipe.Update(10, 0)
	f.pipe.Update(20, 0)
	sched.pump()
	f.pipe.EndGesture()

	if started != 1 {
		t.Fatalf("started hooks = %d, want 1", started)
	}
	if moved != 1 {
		t.Fatalf("moved hooks = %d, want 1 (rate-limited by the flush)", moved)
	}
	if len(ended) != 1 || !ended[0].Committed {
		t.Fatalf("ended hooks = %+v, want one committed result", ended)
	}
}
