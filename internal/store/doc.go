// Package store is the single source of truth for the canvas/item graph.
//
// # Ownership
//
// The store exclusively owns the live objects. Every item or canvas passed in
// is cloned before it is indexed, and every value handed out — through
// getters, patches, or events — is a clone. Commands and UI layers can hold
// onto snapshots indefinitely without risk of aliasing the live graph.
//
// # Notification
//
// Change notification is synchronous: subscribers run, in registration order,
// after the state transition completes and before the mutating call returns.
// Subscriptions are keyed by section (canvases vs selection) so subscribers
// avoid recomputing unrelated derived state, and events are a typed tagged
// union rather than name strings.
//
// Subscribers are invoked outside the state lock, so they may freely read
// back from the store. They must not mutate it re-entrantly from inside a
// notification.
//
// # Batch operations
//
// AddItemsBatch, DeleteItemsBatch, and UpdateConfigsBatch apply as one atomic
// transition and emit exactly one notification each. This is what keeps a
// bulk import of hundreds of items from causing hundreds of re-renders or
// hundreds of undo steps: the caller wraps the whole batch in one command.
//
// # Z-index
//
// Each canvas carries a monotonic z-index counter. Adds take
// canvas.ZIndexCounter++ and the counter never decreases, even across
// deletions and undo — restore paths only ever push it forward. Z-indexes are
// therefore never reused within a canvas.
//
// # Failure policy
//
// Resolution failures (unknown canvas or item) degrade to a no-op plus a
// slog diagnostic. Gestures and bulk operations run in real time; an
// unresolvable reference is not worth interrupting them for.
package store
