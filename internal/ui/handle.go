package ui

import (
	"sync"

	"gridboard/internal/board"
)

// ghostHandle is the visual handle the drag pipeline writes coalesced frames
// to. Flushes arrive from the frame scheduler's goroutine while the renderer
// reads from the program loop, hence the mutex.
type ghostHandle struct {
	mu    sync.Mutex
	frame board.Rect
}

func newGhostHandle(frame board.Rect) *ghostHandle {
	return &ghostHandle{frame: frame}
}

func (h *ghostHandle) Frame() board.Rect {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frame
}

func (h *ghostHandle) SetFrame(r board.Rect) {
	h.mu.Lock()
	h.frame = r
	h.mu.Unlock()
}
