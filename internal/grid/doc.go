// Package grid implements the engine's coordinate system: bidirectional
// conversion between grid units and pixels.
//
// The two axes are independent. Horizontal units are responsive — a fixed
// percentage of the owning canvas's rendered width, optionally clamped to a
// pixel range — so layouts reflow with the canvas. Vertical units are a fixed
// pixel height, independent of width.
//
// The derived horizontal unit size is cached per canvas id because it is read
// on every conversion during a gesture. Callers invalidate the cache (via
// SetCanvasWidth or Invalidate) whenever a canvas's rendered width changes;
// the converter never observes resizes itself.
//
// Conversions against a canvas the converter has never seen return 0 and log
// a diagnostic rather than failing: conversions are routinely attempted
// before a canvas is mounted, and interrupting a live gesture for it would
// trade a harmless blank for a broken interaction.
package grid
