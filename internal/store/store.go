package store

import (
	"log/slog"
	"sync"

	"gridboard/internal/board"
)

// Patch is a partial item update. Nil fields are left untouched; ClearNarrow
// resets the narrow layout to its auto-derived state. A non-nil Config
// replaces the item's configuration record wholesale.
type Patch struct {
	Type        *string
	Wide        *board.Layout
	Narrow      *board.Layout
	ClearNarrow bool
	Config      map[string]any
}

// Placement pins an item to an exact position in a canvas's order. Used by
// undo/redo so reinsertions land at the original index, not at the end.
type Placement struct {
	Item  *board.Item
	Index int
}

// Store holds the canonical canvas/item graph and broadcasts changes. It is
// the single owner of the live objects: every value entering or leaving the
// store is deep-copied, so callers can never mutate state behind its back.
type Store struct {
	mu       sync.RWMutex
	log      *slog.Logger
	canvases []*board.Canvas
	byCanvas map[string]*board.Canvas
	byItem   map[string]*board.Item
	selItem  string
	selCanv  string

	subMu   sync.Mutex
	subs    map[Section][]*subscription
	nextSub uint64
}

type subscription struct {
	id     uint64
	fn     func(Event)
	active bool
}

// New creates an empty store. A nil logger falls back to slog.Default.
func New(log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		log:      log,
		byCanvas: make(map[string]*board.Canvas),
		byItem:   make(map[string]*board.Item),
		subs:     make(map[Section][]*subscription),
	}
}

// Subscribe registers fn for synchronous notification whenever the named
// section changes. The returned handle removes the subscription.
func (s *Store) Subscribe(section Section, fn func(Event)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.nextSub++
	sub := &subscription{id: s.nextSub, fn: fn, active: true}
	s.subs[section] = append(s.subs[section], sub)
	return func() {
		s.subMu.Lock()
		sub.active = false
		s.subMu.Unlock()
	}
}

// notify runs subscribers for the event's section, in registration order,
// outside the state lock. Inactive subscriptions are compacted away.
func (s *Store) notify(ev Event) {
	s.subMu.Lock()
	section := ev.Section()
	live := s.subs[section][:0]
	for _, sub := range s.subs[section] {
		if sub.active {
			live = append(live, sub)
		}
	}
	s.subs[section] = live
	targets := make([]*subscription, len(live))
	copy(targets, live)
	s.subMu.Unlock()

	for _, sub := range targets {
		sub.fn(ev)
	}
}

// AddCanvas registers a canvas. Items already on it are indexed as-is.
func (s *Store) AddCanvas(c *board.Canvas) {
	clone := c.Clone()
	s.mu.Lock()
	if _, exists := s.byCanvas[clone.ID]; exists {
		s.mu.Unlock()
		s.log.Warn("store: duplicate canvas ignored", "canvas", clone.ID)
		return
	}
	s.canvases = append(s.canvases, clone)
	s.byCanvas[clone.ID] = clone
	for _, it := range clone.Items {
		s.byItem[it.ID] = it
	}
	s.mu.Unlock()
	s.notify(CanvasAdded{Canvas: clone.Clone()})
}

// RemoveCanvas drops a canvas and every item on it.
func (s *Store) RemoveCanvas(canvasID string) (*board.Canvas, bool) {
	s.mu.Lock()
	canvas, ok := s.byCanvas[canvasID]
	if !ok {
		s.mu.Unlock()
		s.log.Warn("store: remove of unknown canvas", "canvas", canvasID)
		return nil, false
	}
	for i, c := range s.canvases {
		if c.ID == canvasID {
			s.canvases = append(s.canvases[:i], s.canvases[i+1:]...)
			break
		}
	}
	delete(s.byCanvas, canvasID)
	for _, it := range canvas.Items {
		delete(s.byItem, it.ID)
	}
	selChanged := s.clearSelectionIfCanvasLocked(canvasID)
	s.mu.Unlock()

	removed := canvas.Clone()
	s.notify(CanvasRemoved{Canvas: removed})
	if selChanged {
		s.notify(SelectionChanged{})
	}
	return removed, true
}

// AddItem appends an item to its canvas, assigning the canvas's next z-index.
// Returns the stored clone, or false when the canvas cannot be resolved.
func (s *Store) AddItem(item *board.Item) (*board.Item, bool) {
	clone := item.Clone()
	s.mu.Lock()
	canvas, ok := s.byCanvas[clone.CanvasID]
	if !ok {
		s.mu.Unlock()
		s.log.Warn("store: add item to unknown canvas", "canvas", clone.CanvasID, "item", clone.ID)
		return nil, false
	}
	clone.ZIndex = canvas.ZIndexCounter
	canvas.ZIndexCounter++
	canvas.Items = append(canvas.Items, clone)
	s.byItem[clone.ID] = clone
	s.mu.Unlock()

	out := clone.Clone()
	s.notify(ItemAdded{Item: out.Clone()})
	return out, true
}

// RestoreItem reinserts a previously removed item at an exact index with its
// original z-index. The canvas's z counter only ever moves forward.
func (s *Store) RestoreItem(item *board.Item, index int) bool {
	clone := item.Clone()
	s.mu.Lock()
	canvas, ok := s.byCanvas[clone.CanvasID]
	if !ok {
		s.mu.Unlock()
		s.log.Warn("store: restore item to unknown canvas", "canvas", clone.CanvasID, "item", clone.ID)
		return false
	}
	insertItemAt(canvas, clone, index)
	if canvas.ZIndexCounter <= clone.ZIndex {
		canvas.ZIndexCounter = clone.ZIndex + 1
	}
	s.byItem[clone.ID] = clone
	s.mu.Unlock()

	s.notify(ItemAdded{Item: clone.Clone()})
	return true
}

// RemoveItem deletes an item, reporting its former index so undo can put it
// back in place. Removing the selected item clears the selection.
func (s *Store) RemoveItem(itemID string) (*board.Item, int, bool) {
	s.mu.Lock()
	item, ok := s.byItem[itemID]
	if !ok {
		s.mu.Unlock()
		s.log.Warn("store: remove of unknown item", "item", itemID)
		return nil, 0, false
	}
	canvas := s.byCanvas[item.CanvasID]
	index := canvas.IndexOf(itemID)
	canvas.Items = append(canvas.Items[:index], canvas.Items[index+1:]...)
	delete(s.byItem, itemID)
	selChanged := s.clearSelectionIfItemLocked(itemID)
	s.mu.Unlock()

	removed := item.Clone()
	s.notify(ItemRemoved{Item: removed.Clone(), Index: index})
	if selChanged {
		s.notify(SelectionChanged{})
	}
	return removed, index, true
}

// UpdateItem applies a partial update. Returns the resulting clone.
func (s *Store) UpdateItem(itemID string, p Patch) (*board.Item, bool) {
	s.mu.Lock()
	item, ok := s.byItem[itemID]
	if !ok {
		s.mu.Unlock()
		s.log.Warn("store: update of unknown item", "item", itemID)
		return nil, false
	}
	applyPatch(item, p)
	out := item.Clone()
	s.mu.Unlock()

	s.notify(ItemUpdated{Item: out.Clone()})
	return out, true
}

// SetLayout writes one viewport mode's layout on an item.
func (s *Store) SetLayout(itemID string, mode board.ViewportMode, l board.Layout) bool {
	s.mu.Lock()
	item, ok := s.byItem[itemID]
	if !ok {
		s.mu.Unlock()
		s.log.Warn("store: layout write to unknown item", "item", itemID)
		return false
	}
	if mode == board.ModeNarrow {
		nl := l
		item.Narrow = &nl
	} else {
		item.Wide = l
	}
	out := item.Clone()
	s.mu.Unlock()

	s.notify(ItemUpdated{Item: out})
	return true
}

// ClearNarrow resets an item's narrow layout to auto-derived.
func (s *Store) ClearNarrow(itemID string) bool {
	s.mu.Lock()
	item, ok := s.byItem[itemID]
	if !ok {
		s.mu.Unlock()
		return false
	}
	item.Narrow = nil
	out := item.Clone()
	s.mu.Unlock()

	s.notify(ItemUpdated{Item: out})
	return true
}

// MoveItem transfers an item to another canvas, appending it and assigning a
// fresh z-index from the target's counter.
func (s *Store) MoveItem(itemID, targetCanvasID string) (*board.Item, bool) {
	s.mu.Lock()
	item, ok := s.byItem[itemID]
	if !ok {
		s.mu.Unlock()
		s.log.Warn("store: move of unknown item", "item", itemID)
		return nil, false
	}
	target, ok := s.byCanvas[targetCanvasID]
	if !ok {
		s.mu.Unlock()
		s.log.Warn("store: move to unknown canvas", "canvas", targetCanvasID, "item", itemID)
		return nil, false
	}
	from := item.CanvasID
	if from == targetCanvasID {
		out := item.Clone()
		s.mu.Unlock()
		return out, true
	}
	source := s.byCanvas[from]
	idx := source.IndexOf(itemID)
	source.Items = append(source.Items[:idx], source.Items[idx+1:]...)

	item.CanvasID = targetCanvasID
	item.ZIndex = target.ZIndexCounter
	target.ZIndexCounter++
	target.Items = append(target.Items, item)
	out := item.Clone()
	s.mu.Unlock()

	s.notify(ItemMoved{Item: out.Clone(), FromCanvasID: from, ToCanvasID: targetCanvasID})
	return out, true
}

// PlaceItem moves an item to an exact canvas/index/z-index triple. Used by
// undo to return a moved item to precisely where it came from.
func (s *Store) PlaceItem(itemID, canvasID string, index, zIndex int) bool {
	s.mu.Lock()
	item, ok := s.byItem[itemID]
	if !ok {
		s.mu.Unlock()
		return false
	}
	target, ok := s.byCanvas[canvasID]
	if !ok {
		s.mu.Unlock()
		return false
	}
	from := item.CanvasID
	source := s.byCanvas[from]
	if idx := source.IndexOf(itemID); idx >= 0 {
		source.Items = append(source.Items[:idx], source.Items[idx+1:]...)
	}
	item.CanvasID = canvasID
	item.ZIndex = zIndex
	insertItemAt(target, item, index)
	if target.ZIndexCounter <= zIndex {
		target.ZIndexCounter = zIndex + 1
	}
	out := item.Clone()
	s.mu.Unlock()

	s.notify(ItemMoved{Item: out, FromCanvasID: from, ToCanvasID: canvasID})
	return true
}

// GetItem returns a clone of the named item.
func (s *Store) GetItem(itemID string) (*board.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.byItem[itemID]
	if !ok {
		return nil, false
	}
	return item.Clone(), true
}

// GetCanvas returns a clone of the named canvas and its items.
func (s *Store) GetCanvas(canvasID string) (*board.Canvas, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	canvas, ok := s.byCanvas[canvasID]
	if !ok {
		return nil, false
	}
	return canvas.Clone(), true
}

// Canvases returns clones of every canvas in registration order.
func (s *Store) Canvases() []*board.Canvas {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*board.Canvas, len(s.canvases))
	for i, c := range s.canvases {
		out[i] = c.Clone()
	}
	return out
}

// ItemCount reports the total number of items across all canvases.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byItem)
}

// Select records the current selection. Not undoable.
func (s *Store) Select(itemID, canvasID string) {
	s.mu.Lock()
	if s.selItem == itemID && s.selCanv == canvasID {
		s.mu.Unlock()
		return
	}
	s.selItem = itemID
	s.selCanv = canvasID
	s.mu.Unlock()
	s.notify(SelectionChanged{ItemID: itemID, CanvasID: canvasID})
}

// Selection returns the selected item and canvas ids; either may be empty.
func (s *Store) Selection() (itemID, canvasID string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selItem, s.selCanv
}

// ClearSelection drops any current selection.
func (s *Store) ClearSelection() {
	s.Select("", "")
}

func (s *Store) clearSelectionIfItemLocked(itemID string) bool {
	if s.selItem != "" && s.selItem == itemID {
		s.selItem = ""
		s.selCanv = ""
		return true
	}
	return false
}

func (s *Store) clearSelectionIfCanvasLocked(canvasID string) bool {
	if s.selCanv != "" && s.selCanv == canvasID {
		s.selItem = ""
		s.selCanv = ""
		return true
	}
	return false
}

func insertItemAt(canvas *board.Canvas, item *board.Item, index int) {
	if index < 0 || index > len(canvas.Items) {
		index = len(canvas.Items)
	}
	canvas.Items = append(canvas.Items, nil)
	copy(canvas.Items[index+1:], canvas.Items[index:])
	canvas.Items[index] = item
}

func applyPatch(item *board.Item, p Patch) {
	if p.Type != nil {
		item.Type = *p.Type
	}
	if p.Wide != nil {
		item.Wide = *p.Wide
	}
	if p.Narrow != nil {
		nl := *p.Narrow
		item.Narrow = &nl
	}
	if p.ClearNarrow {
		item.Narrow = nil
	}
	if p.Config != nil {
		item.Config = board.CloneConfig(p.Config)
	}
}
