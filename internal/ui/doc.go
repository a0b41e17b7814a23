// Package ui is the Bubble Tea front-end for the board engine.
//
// The terminal is mapped onto the engine's pixel space at a fixed
// cells-per-pixel scale, so grid conversion, drag commits, and lazy
// materialization run on the same arithmetic a graphical embedding would
// use. Canvases render as bordered panels, items as filled blocks, and an
// in-flight gesture as a dashed ghost outline driven by the drag pipeline's
// coalesced frame flushes.
package ui
