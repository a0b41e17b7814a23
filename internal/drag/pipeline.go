package drag

import (
	"log/slog"
	"sync"
	"time"

	"gridboard/internal/board"
	"gridboard/internal/grid"
	"gridboard/internal/store"
)

const (
	defaultEdgeSnapPx  = 20
	defaultMinWidthPx  = 100
	defaultMinHeightPx = 80
)

// Kind distinguishes the two gesture types.
type Kind int

const (
	KindMove Kind = iota
	KindResize
)

func (k Kind) String() string {
	if k == KindResize {
		return "resize"
	}
	return "move"
}

// VisualHandle is the opaque surface the pipeline manipulates during a
// gesture. Implementations apply the frame however their platform renders —
// a CSS transform, a terminal cell overlay, a native view. Nothing else in
// the pipeline assumes a rendering technology.
type VisualHandle interface {
	Frame() board.Rect
	SetFrame(board.Rect)
}

// CanvasGeometry resolves canvas pixel bounds in the same viewport-relative
// space as visual frames. Supplied by the embedding layer.
type CanvasGeometry interface {
	CanvasBounds(canvasID string) (board.Rect, bool)
	CanvasAt(p board.Point) (string, bool)
}

// Config tunes gesture commit behavior.
type Config struct {
	EdgeSnapPx  int // magnetism threshold; default 20
	MinWidthPx  int // resize floor; default 100
	MinHeightPx int // resize floor; default 80
}

func (c Config) withDefaults() Config {
	if c.EdgeSnapPx <= 0 {
		c.EdgeSnapPx = defaultEdgeSnapPx
	}
	if c.MinWidthPx <= 0 {
		c.MinWidthPx = defaultMinWidthPx
	}
	if c.MinHeightPx <= 0 {
		c.MinHeightPx = defaultMinHeightPx
	}
	return c
}

// Result reports what a gesture ended with. The pipeline issues at most one
// store mutation per gesture; the caller wraps Before/After into a command
// and pushes it onto the history.
type Result struct {
	Kind           Kind
	ItemID         string
	Mode           board.ViewportMode
	Committed      bool
	CrossCanvas    bool   // drag ended over a foreign canvas; no local commit
	TargetCanvasID string // set when CrossCanvas
	Before         board.Layout
	After          board.Layout
	HadNarrow      bool // a customized narrow layout existed before commit
	Duration       time.Duration
}

// Hooks are optional gesture event taps for palettes, plugins, and
// telemetry. Moved fires from the coalesced flush, so it is already limited
// to one call per refresh.
type Hooks struct {
	Started func(kind Kind, itemID string)
	Moved   func(kind Kind, itemID string, frame board.Rect)
	Ended   func(result Result)
}

// gesture is the transient state owned between start and end. The gesture
// owns its item exclusively; no store mutation touches the item until end.
type gesture struct {
	kind      Kind
	itemID    string
	canvasID  string
	mode      board.ViewportMode
	handle    VisualHandle
	base      board.Rect
	frame     board.Rect
	grip      Grip
	startedAt time.Time
}

// Pipeline runs pointer-driven move/resize gestures: direct visual feedback
// during the gesture, one authoritative store mutation at the end.
type Pipeline struct {
	mu    sync.Mutex
	log   *slog.Logger
	conv  *grid.Converter
	st    *store.Store
	geo   CanvasGeometry
	sched FrameScheduler
	cfg   Config
	hooks Hooks

	active        *gesture
	pendingCancel func()
	flushGen      uint64
	destroyed     bool
}

// New wires a pipeline. A nil scheduler gets SyncScheduler; a nil logger
// slog.Default.
func New(conv *grid.Converter, st *store.Store, geo CanvasGeometry, sched FrameScheduler, cfg Config, hooks Hooks, log *slog.Logger) *Pipeline {
	if sched == nil {
		sched = SyncScheduler{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		log:   log,
		conv:  conv,
		st:    st,
		geo:   geo,
		sched: sched,
		cfg:   cfg.withDefaults(),
		hooks: hooks,
	}
}

// StartDrag begins a move gesture on the item. The handle's current frame is
// captured as the base; refused while another gesture is active.
func (p *Pipeline) StartDrag(itemID string, handle VisualHandle, mode board.ViewportMode) bool {
	return p.start(KindMove, itemID, handle, mode, GripNone)
}

// StartResize begins a resize gesture anchored at the given grip.
func (p *Pipeline) StartResize(itemID string, handle VisualHandle, mode board.ViewportMode, g Grip) bool {
	if g == GripNone {
		return false
	}
	return p.start(KindResize, itemID, handle, mode, g)
}

func (p *Pipeline) start(kind Kind, itemID string, handle VisualHandle, mode board.ViewportMode, g Grip) bool {
	item, ok := p.st.GetItem(itemID)
	if !ok {
		p.log.Warn("drag: gesture start on unknown item", "item", itemID)
		return false
	}
	p.mu.Lock()
	if p.destroyed || p.active != nil {
		p.mu.Unlock()
		return false
	}
	base := handle.Frame()
	p.active = &gesture{
		kind:      kind,
		itemID:    itemID,
		canvasID:  item.CanvasID,
		mode:      mode,
		handle:    handle,
		base:      base,
		frame:     base,
		grip:      g,
		startedAt: time.Now(),
	}
	p.mu.Unlock()

	if p.hooks.Started != nil {
		p.hooks.Started(kind, itemID)
	}
	return true
}

// Update feeds cumulative pointer deltas (relative to the gesture origin)
// into the active gesture. The new frame is written to the visual handle
// only, coalesced to at most one flush per refresh; no state mutation, no
// grid snapping happens here.
func (p *Pipeline) Update(dx, dy int) {
	p.mu.Lock()
	g := p.active
	if g == nil || p.destroyed {
		p.mu.Unlock()
		return
	}
	switch g.kind {
	case KindMove:
		g.frame = board.Rect{
			X:      g.base.X + dx,
			Y:      g.base.Y + dy,
			Width:  g.base.Width,
			Height: g.base.Height,
		}
	case KindResize:
		// The floor here is visual hinting only; the commit-time clamp in
		// EndGesture is authoritative.
		g.frame = applyGrip(g.base, g.grip, dx, dy, p.cfg.MinWidthPx, p.cfg.MinHeightPx)
	}
	frame := g.frame
	kind := g.kind
	itemID := g.itemID
	handle := g.handle

	cancelPrev := p.pendingCancel
	p.pendingCancel = nil
	p.flushGen++
	gen := p.flushGen
	p.mu.Unlock()

	// Schedule outside the lock: a synchronous scheduler runs the flush
	// inline, and flush re-acquires p.mu for its staleness check.
	if cancelPrev != nil {
		cancelPrev()
	}
	cancel := p.sched.Schedule(func() {
		p.flush(gen, handle, frame, kind, itemID)
	})

	p.mu.Lock()
	if gen == p.flushGen && p.pendingCancel == nil && p.active != nil {
		p.pendingCancel = cancel
	} else if cancel != nil {
		// A newer update or end-of-gesture raced in; this flush is stale.
		cancel()
	}
	p.mu.Unlock()
}

// flush applies a coalesced visual update. The generation check discards
// flushes that were superseded after their timer already fired.
func (p *Pipeline) flush(gen uint64, handle VisualHandle, frame board.Rect, kind Kind, itemID string) {
	p.mu.Lock()
	stale := p.destroyed || p.active == nil || gen != p.flushGen
	if !stale {
		p.pendingCancel = nil
	}
	p.mu.Unlock()
	if stale {
		return
	}
	handle.SetFrame(frame)
	if p.hooks.Moved != nil {
		p.hooks.Moved(kind, itemID, frame)
	}
}

// EndGesture finishes the active gesture: the final frame is snapped,
// clamped, and committed as exactly one store mutation. Returns false when
// no gesture is active.
func (p *Pipeline) EndGesture() (Result, bool) {
	p.mu.Lock()
	g := p.active
	if g == nil {
		p.mu.Unlock()
		return Result{}, false
	}
	p.active = nil
	if p.pendingCancel != nil {
		p.pendingCancel()
		p.pendingCancel = nil
	}
	p.flushGen++ // orphan any in-flight flush
	p.mu.Unlock()

	// The final frame always reaches the handle, even if its coalesced
	// flush was still pending.
	g.handle.SetFrame(g.frame)

	var res Result
	switch g.kind {
	case KindMove:
		res = p.commitMove(g)
	case KindResize:
		res = p.commitResize(g)
	}
	res.Duration = time.Since(g.startedAt)
	if p.hooks.Ended != nil {
		p.hooks.Ended(res)
	}
	return res, true
}

// Active reports whether a gesture is in flight.
func (p *Pipeline) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active != nil
}

// Destroy cancels any pending visual flush and abandons the active gesture
// without committing. Safe to call repeatedly, including mid-gesture.
func (p *Pipeline) Destroy() {
	p.mu.Lock()
	p.destroyed = true
	p.active = nil
	if p.pendingCancel != nil {
		p.pendingCancel()
		p.pendingCancel = nil
	}
	p.flushGen++
	p.mu.Unlock()
}

// commitMove implements drag end: cross-canvas detection, grid snap, bounds
// clamp, edge magnetism, then one layout write.
func (p *Pipeline) commitMove(g *gesture) Result {
	res := Result{Kind: KindMove, ItemID: g.itemID, Mode: g.mode}

	// Cross-canvas drops are owned by the embedding layer; this pipeline is
	// single-canvas.
	if target, ok := p.geo.CanvasAt(g.frame.Center()); ok && target != g.canvasID {
		res.CrossCanvas = true
		res.TargetCanvasID = target
		return res
	}

	bounds, ok := p.geo.CanvasBounds(g.canvasID)
	if !ok {
		p.log.Warn("drag: canvas unresolved at commit, discarding gesture", "canvas", g.canvasID)
		return res
	}
	item, ok := p.st.GetItem(g.itemID)
	if !ok {
		p.log.Warn("drag: item vanished mid-gesture, discarding", "item", g.itemID)
		return res
	}

	localX := g.frame.X - bounds.X
	localY := g.frame.Y - bounds.Y

	// Snap both axes to the nearest grid line.
	x := p.conv.UnitsToPixelsX(p.conv.PixelsToUnitsX(localX, g.canvasID), g.canvasID)
	y := p.conv.UnitsToPixelsY(p.conv.PixelsToUnitsY(localY))

	x = clampInt(x, 0, maxInt(0, bounds.Width-g.frame.Width))
	y = clampInt(y, 0, maxInt(0, bounds.Height-g.frame.Height))

	// Edge magnetism: force exact alignment near a canvas edge.
	if x <= p.cfg.EdgeSnapPx {
		x = 0
	} else if bounds.Width-(x+g.frame.Width) <= p.cfg.EdgeSnapPx {
		x = bounds.Width - g.frame.Width
	}
	if y <= p.cfg.EdgeSnapPx {
		y = 0
	} else if bounds.Height-(y+g.frame.Height) <= p.cfg.EdgeSnapPx {
		y = bounds.Height - g.frame.Height
	}

	before := item.ActiveLayout(g.mode)
	res.HadNarrow = item.Narrow != nil
	after := board.Layout{
		X:          p.conv.PixelsToUnitsX(x, g.canvasID),
		Y:          p.conv.PixelsToUnitsY(y),
		Width:      before.Width,
		Height:     before.Height,
		Customized: g.mode == board.ModeNarrow,
	}
	if !p.st.SetLayout(g.itemID, g.mode, after) {
		return res
	}
	res.Committed = true
	res.Before = before
	res.After = after
	return res
}

// commitResize implements resize end: viewport-to-canvas conversion,
// independent snapping of position and dimensions, bounds clamp, and the
// authoritative minimum-size floor.
func (p *Pipeline) commitResize(g *gesture) Result {
	res := Result{Kind: KindResize, ItemID: g.itemID, Mode: g.mode}

	bounds, ok := p.geo.CanvasBounds(g.canvasID)
	if !ok {
		p.log.Warn("drag: canvas unresolved at commit, discarding gesture", "canvas", g.canvasID)
		return res
	}
	item, ok := p.st.GetItem(g.itemID)
	if !ok {
		p.log.Warn("drag: item vanished mid-gesture, discarding", "item", g.itemID)
		return res
	}

	localX := g.frame.X - bounds.X
	localY := g.frame.Y - bounds.Y
	w := maxInt(g.frame.Width, p.cfg.MinWidthPx)
	h := maxInt(g.frame.Height, p.cfg.MinHeightPx)

	// Snap position and dimensions independently; only at gesture end.
	ux := p.conv.PixelsToUnitsX(localX, g.canvasID)
	uy := p.conv.PixelsToUnitsY(localY)
	uw := p.conv.PixelsToUnitsX(w, g.canvasID)
	uh := p.conv.PixelsToUnitsY(h)

	// Nearest-unit rounding may dip back under the pixel floor.
	if p.conv.UnitsToPixelsX(uw, g.canvasID) < p.cfg.MinWidthPx {
		uw++
	}
	if p.conv.UnitsToPixelsY(uh) < p.cfg.MinHeightPx {
		uh++
	}

	x := clampInt(p.conv.UnitsToPixelsX(ux, g.canvasID), 0, maxInt(0, bounds.Width-p.conv.UnitsToPixelsX(uw, g.canvasID)))
	y := clampInt(p.conv.UnitsToPixelsY(uy), 0, maxInt(0, bounds.Height-p.conv.UnitsToPixelsY(uh)))
	ux = p.conv.PixelsToUnitsX(x, g.canvasID)
	uy = p.conv.PixelsToUnitsY(y)

	before := item.ActiveLayout(g.mode)
	res.HadNarrow = item.Narrow != nil
	after := board.Layout{
		X:          ux,
		Y:          uy,
		Width:      uw,
		Height:     uh,
		Customized: g.mode == board.ModeNarrow,
	}
	if !p.st.SetLayout(g.itemID, g.mode, after) {
		return res
	}
	res.Committed = true
	res.Before = before
	res.After = after
	return res
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
