// Package history implements command-pattern undo/redo with bounded memory.
//
// The timeline is linear: a cursor partitions the command sequence into past
// and future, and pushing a new command discards any redoable future. Once
// the sequence exceeds its capacity the oldest commands are evicted from the
// front and the cursor shifts with them, so eviction can shrink how far back
// undo reaches but never corrupts the cursor.
//
// Commands own deep snapshots of only the data they touch — never live
// references into the store — so replaying them is independent of whatever
// has happened to the live objects since. Each constructor wraps a mutation
// that has already been applied; Push records it, Undo/Redo replay it.
//
// Undo and Redo are cheap no-ops when not applicable, guarded by the same
// checks CanUndo/CanRedo expose. They never fail.
package history
