// Package lazyload schedules deferred materialization of expensive per-item
// resources.
//
// Large layouts cannot afford to fully initialize every item up front.
// Callers observe each item's visual handle; the first time its bounds come
// within a configurable margin of the viewport the callback fires and the
// item materializes. Exit transitions are still delivered so callers can
// pause polling or animation, but the scheduler never forcibly de-initializes
// anything — visibility is append-only.
//
// Intersection is delegated to an injected primitive and evaluated when a
// viewport is published, not by polling bounds on every scroll tick. If no
// primitive is available the scheduler degrades to always-visible rather
// than failing.
//
// Per-item timers and similar resources registered via RegisterResource are
// the one lifecycle-sensitive shared state here: they are cancelled on
// Unobserve and Destroy so an abandoned item cannot leak its poll loop.
package lazyload
