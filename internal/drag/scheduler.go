package drag

import "time"

// FrameScheduler defers a visual flush to the next display refresh. Schedule
// returns a cancel handle; the pipeline cancels any pending flush before
// scheduling a newer one, so a superseded flush can never run after its
// replacement ("cancel-pending, schedule-latest").
type FrameScheduler interface {
	Schedule(fn func()) (cancel func())
}

// SyncScheduler runs flushes immediately. Suitable for hosts that already
// rate-limit their input stream, and for tests.
type SyncScheduler struct{}

func (SyncScheduler) Schedule(fn func()) (cancel func()) {
	fn()
	return func() {}
}

// TickScheduler coalesces flushes to at most one per refresh interval by
// deferring each to a timer. Cancelling stops the timer; a flush that fires
// anyway is discarded by the pipeline's generation check.
type TickScheduler struct {
	interval time.Duration
}

// NewTickScheduler creates a scheduler for the given refresh interval.
// Non-positive intervals default to roughly one display frame.
func NewTickScheduler(interval time.Duration) *TickScheduler {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	return &TickScheduler{interval: interval}
}

func (t *TickScheduler) Schedule(fn func()) (cancel func()) {
	timer := time.AfterFunc(t.interval, fn)
	return func() { timer.Stop() }
}
