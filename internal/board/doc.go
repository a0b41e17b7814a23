// Package board defines the data model shared by the layout engine: canvases,
// items, per-viewport layouts, and pixel geometry.
//
// Values handed across package boundaries are deep copies. The store keeps the
// only live graph; everything else (commands, events, UI) works on clones, so
// a snapshot taken for undo can never be mutated behind the history's back.
package board
