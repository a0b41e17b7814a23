// Package drag is the direct-manipulation pipeline for move and resize
// gestures.
//
// # Gesture lifecycle
//
// Each gesture runs idle → start → update* → end. On start the item's visual
// frame and owning canvas are captured as the base. During updates the new
// frame is computed from cumulative pointer deltas and written straight to
// the visual handle — no store mutation, no grid snapping, no re-render.
// Sub-frame feedback is the whole point: the authoritative state does not
// move until the pointer is released.
//
// # Coalescing
//
// Visual flushes are rate-limited to one per display refresh with a
// cancel-pending, schedule-latest scheme. Every update cancels the
// previously scheduled flush and schedules the newest frame; a generation
// counter discards any flush whose timer fired after it was superseded. A
// stale frame can therefore never land on the handle after a newer one.
//
// # Commit
//
// Exactly one store mutation happens at gesture end. Drags hit-test their
// final centroid against all canvases first — a drop over a foreign canvas
// aborts local handling and reports CrossCanvas for the embedding layer to
// route. Otherwise the final rectangle is snapped to the grid, clamped
// inside the canvas, and pulled onto an edge when within the magnetism
// threshold. Resizes snap position and dimensions independently and enforce
// the minimum-size floor at commit; mid-gesture flooring is visual hinting
// only.
//
// Narrow-mode commits mark the layout Customized and backfill width/height
// from the wide layout when no customized narrow layout existed.
//
// The caller owns history: the returned Result carries before/after
// snapshots to wrap into a command.
//
// An unresolvable canvas or item at commit discards the gesture's final
// state without mutating the store. Destroying the pipeline mid-gesture
// cancels the pending flush and abandons the gesture; double destroy is
// safe.
package drag
