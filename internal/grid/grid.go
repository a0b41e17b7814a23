package grid

import (
	"log/slog"
	"math"
	"sync"
)

const (
	defaultHorizontalPercent = 0.02
	defaultRowHeightPx       = 20
)

// Config controls the two grid axes. The horizontal unit is responsive (a
// percentage of the canvas's rendered width, optionally clamped to a pixel
// range); the vertical unit is a fixed pixel height.
type Config struct {
	HorizontalPercent float64 // fraction of canvas width per unit; default 0.02
	MinUnitPx         int     // 0 disables the lower clamp
	MaxUnitPx         int     // 0 disables the upper clamp
	RowHeightPx       int     // default 20
}

func (c Config) withDefaults() Config {
	if c.HorizontalPercent <= 0 {
		c.HorizontalPercent = defaultHorizontalPercent
	}
	if c.RowHeightPx <= 0 {
		c.RowHeightPx = defaultRowHeightPx
	}
	return c
}

// Converter maps between grid units and pixels per canvas. Horizontal
// conversions depend on the canvas's rendered width, which callers register
// via SetCanvasWidth; the derived unit size is cached until the width changes.
type Converter struct {
	mu     sync.RWMutex
	cfg    Config
	log    *slog.Logger
	widths map[string]int
	units  map[string]float64 // cached horizontal unit size per canvas
}

// NewConverter builds a converter with the given axis configuration. A nil
// logger falls back to slog.Default.
func NewConverter(cfg Config, log *slog.Logger) *Converter {
	if log == nil {
		log = slog.Default()
	}
	return &Converter{
		cfg:    cfg.withDefaults(),
		log:    log,
		widths: make(map[string]int),
		units:  make(map[string]float64),
	}
}

// SetCanvasWidth records the rendered pixel width of a canvas and invalidates
// its cached unit size. Callers own triggering this on every resize.
func (c *Converter) SetCanvasWidth(canvasID string, px int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.widths[canvasID] = px
	delete(c.units, canvasID)
}

// Invalidate drops the cached unit size for one canvas.
func (c *Converter) Invalidate(canvasID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.units, canvasID)
}

// InvalidateAll drops every cached unit size.
func (c *Converter) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.units = make(map[string]float64)
}

// Forget removes a canvas from the converter entirely.
func (c *Converter) Forget(canvasID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.widths, canvasID)
	delete(c.units, canvasID)
}

// HorizontalUnitSize returns the pixel size of one horizontal unit on the
// named canvas. Unknown canvases yield 0 with a diagnostic; conversions may
// legitimately be attempted before a canvas is mounted, so this is non-fatal.
func (c *Converter) HorizontalUnitSize(canvasID string) float64 {
	c.mu.RLock()
	if unit, ok := c.units[canvasID]; ok {
		c.mu.RUnlock()
		return unit
	}
	width, ok := c.widths[canvasID]
	c.mu.RUnlock()
	if !ok {
		c.log.Warn("grid: unknown canvas for horizontal conversion", "canvas", canvasID)
		return 0
	}

	unit := float64(width) * c.cfg.HorizontalPercent
	if c.cfg.MinUnitPx > 0 && unit < float64(c.cfg.MinUnitPx) {
		unit = float64(c.cfg.MinUnitPx)
	}
	if c.cfg.MaxUnitPx > 0 && unit > float64(c.cfg.MaxUnitPx) {
		unit = float64(c.cfg.MaxUnitPx)
	}

	c.mu.Lock()
	c.units[canvasID] = unit
	c.mu.Unlock()
	return unit
}

// UnitsToPixelsX converts horizontal grid units to pixels on the named
// canvas, rounded to the nearest pixel. Unknown canvases yield 0.
func (c *Converter) UnitsToPixelsX(units int, canvasID string) int {
	unit := c.HorizontalUnitSize(canvasID)
	if unit == 0 {
		return 0
	}
	return int(math.Round(float64(units) * unit))
}

// PixelsToUnitsX converts pixels to the nearest horizontal grid unit on the
// named canvas. Unknown canvases yield 0.
func (c *Converter) PixelsToUnitsX(px int, canvasID string) int {
	unit := c.HorizontalUnitSize(canvasID)
	if unit == 0 {
		return 0
	}
	return int(math.Round(float64(px) / unit))
}

// UnitsToPixelsY converts vertical grid units to pixels.
func (c *Converter) UnitsToPixelsY(units int) int {
	return units * c.cfg.RowHeightPx
}

// PixelsToUnitsY converts pixels to the nearest vertical grid unit.
func (c *Converter) PixelsToUnitsY(px int) int {
	return int(math.Round(float64(px) / float64(c.cfg.RowHeightPx)))
}

// RowHeightPx exposes the fixed vertical unit size.
func (c *Converter) RowHeightPx() int {
	return c.cfg.RowHeightPx
}

// CanvasWidth returns the registered rendered width of a canvas.
func (c *Converter) CanvasWidth(canvasID string) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	w, ok := c.widths[canvasID]
	return w, ok
}
