package store

import "gridboard/internal/board"

// Section names a top-level slice of store state. Subscriptions are keyed by
// section so subscribers can skip recomputing unrelated derived state.
type Section int

const (
	SectionCanvases Section = iota
	SectionSelection
)

func (s Section) String() string {
	if s == SectionSelection {
		return "selection"
	}
	return "canvases"
}

// Event is the tagged union of store change notifications. Payloads carry
// clones; subscribers may retain them freely.
type Event interface {
	Section() Section
}

// ItemAdded fires when a single item lands on a canvas.
type ItemAdded struct {
	Item *board.Item
}

// ItemRemoved fires when a single item leaves the store. Index is the item's
// former position in its canvas's order.
type ItemRemoved struct {
	Item  *board.Item
	Index int
}

// ItemUpdated fires after a partial update to one item.
type ItemUpdated struct {
	Item *board.Item
}

// ItemMoved fires when an item changes owning canvas.
type ItemMoved struct {
	Item         *board.Item
	FromCanvasID string
	ToCanvasID   string
}

// ItemsBatchAdded fires exactly once per AddItemsBatch call.
type ItemsBatchAdded struct {
	Items []*board.Item
}

// ItemsBatchDeleted fires exactly once per DeleteItemsBatch call.
type ItemsBatchDeleted struct {
	Items []*board.Item
}

// ConfigsBatchUpdated fires exactly once per UpdateConfigsBatch call.
type ConfigsBatchUpdated struct {
	Items []*board.Item
}

// CanvasAdded fires when a canvas is registered.
type CanvasAdded struct {
	Canvas *board.Canvas
}

// CanvasRemoved fires when a canvas and its items are dropped.
type CanvasRemoved struct {
	Canvas *board.Canvas
}

// SelectionChanged fires when the selected item or canvas changes. Selection
// is tracked alongside the graph but is not undoable.
type SelectionChanged struct {
	ItemID   string
	CanvasID string
}

func (ItemAdded) Section() Section           { return SectionCanvases }
func (ItemRemoved) Section() Section         { return SectionCanvases }
func (ItemUpdated) Section() Section         { return SectionCanvases }
func (ItemMoved) Section() Section           { return SectionCanvases }
func (ItemsBatchAdded) Section() Section     { return SectionCanvases }
func (ItemsBatchDeleted) Section() Section   { return SectionCanvases }
func (ConfigsBatchUpdated) Section() Section { return SectionCanvases }
func (CanvasAdded) Section() Section         { return SectionCanvases }
func (CanvasRemoved) Section() Section       { return SectionCanvases }
func (SelectionChanged) Section() Section    { return SectionSelection }
