package history

import (
	"log/slog"
	"sync"

	"gridboard/internal/store"
)

// DefaultCapacity bounds the undo stack when no explicit capacity is given.
const DefaultCapacity = 50

// Command is a self-contained, reversible unit of state change. A command
// carries deep snapshots of everything it touches; Apply and Revert never
// consult state outside the store they are handed.
type Command interface {
	Name() string
	Apply(s *store.Store)
	Revert(s *store.Store)
}

// History is a bounded, linear undo/redo stack. The cursor partitions the
// command sequence into past (undoable) and future (redoable); pushing
// truncates the future — there is no branching timeline.
type History struct {
	mu       sync.Mutex
	log      *slog.Logger
	store    *store.Store
	capacity int
	commands []Command
	position int
}

// New creates a history bound to the store it replays commands against.
// capacity <= 0 selects DefaultCapacity. A nil logger uses slog.Default.
func New(st *store.Store, capacity int, log *slog.Logger) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if log == nil {
		log = slog.Default()
	}
	return &History{log: log, store: st, capacity: capacity}
}

// Push records a command that has already been applied. Any redoable future
// is discarded; once the sequence exceeds capacity the oldest entries are
// evicted and the cursor shifts back with them.
func (h *History) Push(cmd Command) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.commands = append(h.commands[:h.position], cmd)
	h.position = len(h.commands)

	if over := len(h.commands) - h.capacity; over > 0 {
		h.commands = append(h.commands[:0:0], h.commands[over:]...)
		h.position -= over
		if h.position < 0 {
			h.position = 0
		}
	}
}

// Undo reverts the command behind the cursor. A cheap no-op when nothing is
// undoable.
func (h *History) Undo() bool {
	h.mu.Lock()
	if h.position == 0 {
		h.mu.Unlock()
		return false
	}
	h.position--
	cmd := h.commands[h.position]
	h.mu.Unlock()

	h.log.Debug("history: undo", "command", cmd.Name())
	cmd.Revert(h.store)
	return true
}

// Redo re-applies the command ahead of the cursor. A cheap no-op when nothing
// is redoable.
func (h *History) Redo() bool {
	h.mu.Lock()
	if h.position >= len(h.commands) {
		h.mu.Unlock()
		return false
	}
	cmd := h.commands[h.position]
	h.position++
	h.mu.Unlock()

	h.log.Debug("history: redo", "command", cmd.Name())
	cmd.Apply(h.store)
	return true
}

// CanUndo reports whether the cursor has a past.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.position > 0
}

// CanRedo reports whether the cursor has a future.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.position < len(h.commands)
}

// Clear drops the whole timeline.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.commands = nil
	h.position = 0
}

// Len reports the number of recorded commands.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.commands)
}
