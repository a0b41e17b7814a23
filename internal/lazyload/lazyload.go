package lazyload

import (
	"log/slog"
	"sync"

	"gridboard/internal/board"
)

const (
	// DefaultMarginFraction pre-renders items within 20% of the viewport
	// size, trading memory for pop-in smoothness.
	DefaultMarginFraction = 0.2
	// DefaultMarginPx is the fixed fallback when the viewport has no usable
	// dimension yet.
	DefaultMarginPx = 200
)

// Handle exposes the visual bounding box of a tracked element, in the same
// coordinate space as the published viewport.
type Handle interface {
	Bounds() board.Rect
}

// Callback receives visibility transitions. It fires once when the element
// enters the pre-render margin (materialize) and again on exit so callers
// may pause non-essential work; the scheduler itself never tears anything
// down once materialized.
type Callback func(visible bool)

// Intersector is the viewport-intersection primitive the scheduler delegates
// to. margin is in pixels.
type Intersector interface {
	Intersects(element, viewport board.Rect, margin int) bool
}

// IntersectorFunc adapts a function to the Intersector interface.
type IntersectorFunc func(element, viewport board.Rect, margin int) bool

func (f IntersectorFunc) Intersects(element, viewport board.Rect, margin int) bool {
	return f(element, viewport, margin)
}

// RectIntersector is the built-in primitive: margin-expanded rectangle
// overlap.
func RectIntersector() Intersector {
	return IntersectorFunc(func(element, viewport board.Rect, margin int) bool {
		return element.Intersects(viewport.Expand(margin))
	})
}

// Config tunes the pre-render margin.
type Config struct {
	MarginFraction float64 // fraction of the viewport's larger dimension
	MarginPx       int     // fixed fallback
}

type entry struct {
	handle       Handle
	cb           Callback
	visible      bool
	materialized bool
	cancels      []func()
}

// Scheduler drives deferred initialization of expensive per-item resources:
// an item's callback fires the first time its bounds come within the margin
// of the viewport. Visibility is evaluated only when a new viewport is
// published, never by polling element bounds per frame.
//
// When constructed without an intersection primitive the scheduler degrades
// to treating every observed element as immediately visible.
type Scheduler struct {
	mu        sync.Mutex
	log       *slog.Logger
	cfg       Config
	intersect Intersector
	viewport  board.Rect
	hasView   bool
	entries   map[string]*entry
	destroyed bool
}

// New creates a scheduler. A nil intersector selects the degraded
// always-visible mode; a nil logger falls back to slog.Default.
func New(cfg Config, intersect Intersector, log *slog.Logger) *Scheduler {
	if cfg.MarginFraction <= 0 {
		cfg.MarginFraction = DefaultMarginFraction
	}
	if cfg.MarginPx <= 0 {
		cfg.MarginPx = DefaultMarginPx
	}
	if log == nil {
		log = slog.Default()
	}
	if intersect == nil {
		log.Warn("lazyload: no intersection primitive, degrading to always-visible")
	}
	return &Scheduler{
		log:       log,
		cfg:       cfg,
		intersect: intersect,
		entries:   make(map[string]*entry),
	}
}

// Observe registers an element for visibility tracking. The callback fires
// on transitions only; if the element is already within the margin of the
// current viewport (or the scheduler is degraded) it fires immediately.
// Re-observing an id replaces its handle and callback but keeps its
// materialized state and registered resources.
func (s *Scheduler) Observe(h Handle, id string, cb Callback) {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return
	}
	e, ok := s.entries[id]
	if !ok {
		e = &entry{}
		s.entries[id] = e
	}
	e.handle = h
	e.cb = cb

	var fire bool
	if s.intersect == nil {
		fire = !e.visible
		e.visible = true
		e.materialized = true
	} else if s.hasView {
		visible := s.intersect.Intersects(h.Bounds(), s.viewport, s.margin())
		fire = visible != e.visible
		e.visible = visible
		if visible {
			e.materialized = true
		}
	}
	visible := e.visible
	s.mu.Unlock()

	if fire && cb != nil {
		cb(visible)
	}
}

// Unobserve stops tracking an id and cancels every resource registered for
// it. Unknown ids are a no-op.
func (s *Scheduler) Unobserve(id string) {
	s.mu.Lock()
	e, ok := s.entries[id]
	if ok {
		delete(s.entries, id)
	}
	s.mu.Unlock()
	if !ok {
		return
	}
	for _, cancel := range e.cancels {
		cancel()
	}
}

// RegisterResource attaches a cancel function — a polling timer, a fetch
// loop — to a tracked id. It runs on Unobserve and Destroy. Registering
// against an untracked id cancels immediately to avoid leaking the resource.
func (s *Scheduler) RegisterResource(id string, cancel func()) {
	s.mu.Lock()
	e, ok := s.entries[id]
	if ok && !s.destroyed {
		e.cancels = append(e.cancels, cancel)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	s.log.Warn("lazyload: resource registered for untracked id, cancelling", "id", id)
	cancel()
}

// SetViewport publishes a new viewport rectangle and re-evaluates every
// tracked element against it, firing transition callbacks.
func (s *Scheduler) SetViewport(viewport board.Rect) {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return
	}
	s.viewport = viewport
	s.hasView = true
	if s.intersect == nil {
		s.mu.Unlock()
		return
	}
	margin := s.margin()
	type transition struct {
		cb      Callback
		visible bool
	}
	var fires []transition
	for _, e := range s.entries {
		if e.handle == nil {
			continue
		}
		visible := s.intersect.Intersects(e.handle.Bounds(), viewport, margin)
		if visible == e.visible {
			continue
		}
		e.visible = visible
		if visible {
			e.materialized = true
		}
		if e.cb != nil {
			fires = append(fires, transition{cb: e.cb, visible: visible})
		}
	}
	s.mu.Unlock()

	for _, tr := range fires {
		tr.cb(tr.visible)
	}
}

// Materialized reports whether the id has ever been visible. Materialization
// is append-only: it never resets while the id stays tracked.
func (s *Scheduler) Materialized(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	return ok && e.materialized
}

// Visible reports whether the id is currently within the margined viewport.
func (s *Scheduler) Visible(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	return ok && e.visible
}

// Destroy releases every tracked element and cancels all registered
// resources. Safe to call more than once.
func (s *Scheduler) Destroy() {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return
	}
	s.destroyed = true
	entries := s.entries
	s.entries = make(map[string]*entry)
	s.mu.Unlock()

	for _, e := range entries {
		for _, cancel := range e.cancels {
			cancel()
		}
	}
}

// margin derives the pixel margin from the current viewport. Callers hold mu.
func (s *Scheduler) margin() int {
	dim := s.viewport.Width
	if s.viewport.Height > dim {
		dim = s.viewport.Height
	}
	m := int(float64(dim) * s.cfg.MarginFraction)
	if m <= 0 {
		m = s.cfg.MarginPx
	}
	return m
}
