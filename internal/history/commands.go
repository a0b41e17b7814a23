package history

import (
	"gridboard/internal/board"
	"gridboard/internal/store"
)

// AddItemCommand records a single item creation. The snapshot carries the
// item as stored (id and z-index already assigned).
type AddItemCommand struct {
	item  *board.Item
	index int
}

// NewAddItem wraps an already-applied AddItem. item is the stored clone;
// index its position in the canvas order.
func NewAddItem(item *board.Item, index int) *AddItemCommand {
	return &AddItemCommand{item: item.Clone(), index: index}
}

func (c *AddItemCommand) Name() string { return "add-item" }

func (c *AddItemCommand) Apply(s *store.Store) {
	s.RestoreItem(c.item, c.index)
}

func (c *AddItemCommand) Revert(s *store.Store) {
	s.RemoveItem(c.item.ID)
}

// DeleteItemCommand records a single item deletion, preserving the original
// index so undo reinserts in place rather than at the end.
type DeleteItemCommand struct {
	item  *board.Item
	index int
}

// NewDeleteItem wraps an already-applied RemoveItem.
func NewDeleteItem(removed *board.Item, index int) *DeleteItemCommand {
	return &DeleteItemCommand{item: removed.Clone(), index: index}
}

func (c *DeleteItemCommand) Name() string { return "delete-item" }

func (c *DeleteItemCommand) Apply(s *store.Store) {
	s.RemoveItem(c.item.ID)
}

func (c *DeleteItemCommand) Revert(s *store.Store) {
	s.RestoreItem(c.item, c.index)
}

// LayoutCommand records a position/size change to one viewport mode's layout
// of one item — the commit of a drag or resize gesture.
type LayoutCommand struct {
	name      string
	itemID    string
	mode      board.ViewportMode
	before    board.Layout
	after     board.Layout
	hadNarrow bool // whether a customized narrow layout existed before
}

// NewMove wraps a committed drag gesture.
func NewMove(itemID string, mode board.ViewportMode, before, after board.Layout, hadNarrow bool) *LayoutCommand {
	return &LayoutCommand{name: "move", itemID: itemID, mode: mode, before: before, after: after, hadNarrow: hadNarrow}
}

// NewResize wraps a committed resize gesture.
func NewResize(itemID string, mode board.ViewportMode, before, after board.Layout, hadNarrow bool) *LayoutCommand {
	return &LayoutCommand{name: "resize", itemID: itemID, mode: mode, before: before, after: after, hadNarrow: hadNarrow}
}

func (c *LayoutCommand) Name() string { return c.name }

func (c *LayoutCommand) Apply(s *store.Store) {
	s.SetLayout(c.itemID, c.mode, c.after)
}

func (c *LayoutCommand) Revert(s *store.Store) {
	// A narrow commit over a previously auto-derived layout reverts to
	// auto-derived, not to a frozen copy of the wide layout.
	if c.mode == board.ModeNarrow && !c.hadNarrow {
		s.ClearNarrow(c.itemID)
		return
	}
	s.SetLayout(c.itemID, c.mode, c.before)
}

// ItemPlace pins the canvas/index/z-index an item occupied on one side of a
// cross-canvas move.
type ItemPlace struct {
	CanvasID string
	Index    int
	ZIndex   int
}

// MoveCanvasCommand records a cross-canvas item move.
type MoveCanvasCommand struct {
	itemID string
	from   ItemPlace
	to     ItemPlace
}

// NewMoveCanvas wraps an already-applied cross-canvas move.
func NewMoveCanvas(itemID string, from, to ItemPlace) *MoveCanvasCommand {
	return &MoveCanvasCommand{itemID: itemID, from: from, to: to}
}

func (c *MoveCanvasCommand) Name() string { return "move-canvas" }

func (c *MoveCanvasCommand) Apply(s *store.Store) {
	s.PlaceItem(c.itemID, c.to.CanvasID, c.to.Index, c.to.ZIndex)
}

func (c *MoveCanvasCommand) Revert(s *store.Store) {
	s.PlaceItem(c.itemID, c.from.CanvasID, c.from.Index, c.from.ZIndex)
}

// BatchAddCommand records a batch add as one undo step: a single Revert
// removes every item, a single Apply brings them all back with their
// original ids and z-indexes.
type BatchAddCommand struct {
	items []*board.Item
}

// NewBatchAdd wraps an already-applied AddItemsBatch; items are the stored
// clones it returned.
func NewBatchAdd(items []*board.Item) *BatchAddCommand {
	snap := make([]*board.Item, len(items))
	for i, it := range items {
		snap[i] = it.Clone()
	}
	return &BatchAddCommand{items: snap}
}

func (c *BatchAddCommand) Name() string { return "batch-add" }

func (c *BatchAddCommand) Apply(s *store.Store) {
	// The batch originally appended, so appending again after an undo
	// reproduces the original positions.
	placements := make([]store.Placement, len(c.items))
	for i, it := range c.items {
		placements[i] = store.Placement{Item: it, Index: -1}
	}
	s.RestoreItemsBatch(placements)
}

func (c *BatchAddCommand) Revert(s *store.Store) {
	ids := make([]string, len(c.items))
	for i, it := range c.items {
		ids[i] = it.ID
	}
	s.DeleteItemsBatch(ids)
}

// BatchDeleteCommand records a batch delete as one undo step.
type BatchDeleteCommand struct {
	placements []store.Placement
}

// NewBatchDelete wraps an already-applied DeleteItemsBatch; placements are
// what it returned, in removal order.
func NewBatchDelete(placements []store.Placement) *BatchDeleteCommand {
	snap := make([]store.Placement, len(placements))
	for i, pl := range placements {
		snap[i] = store.Placement{Item: pl.Item.Clone(), Index: pl.Index}
	}
	return &BatchDeleteCommand{placements: snap}
}

func (c *BatchDeleteCommand) Name() string { return "batch-delete" }

func (c *BatchDeleteCommand) Apply(s *store.Store) {
	ids := make([]string, len(c.placements))
	for i, pl := range c.placements {
		ids[i] = pl.Item.ID
	}
	s.DeleteItemsBatch(ids)
}

func (c *BatchDeleteCommand) Revert(s *store.Store) {
	// Reinsert in reverse removal order so each recorded index resolves
	// against the same canvas order it was captured in.
	reversed := make([]store.Placement, len(c.placements))
	for i, pl := range c.placements {
		reversed[len(c.placements)-1-i] = pl
	}
	s.RestoreItemsBatch(reversed)
}

// ConfigChangeCommand records a replacement of one item's configuration.
type ConfigChangeCommand struct {
	itemID string
	before map[string]any
	after  map[string]any
}

// NewConfigChange snapshots both sides of a config replacement.
func NewConfigChange(itemID string, before, after map[string]any) *ConfigChangeCommand {
	return &ConfigChangeCommand{
		itemID: itemID,
		before: board.CloneConfig(before),
		after:  board.CloneConfig(after),
	}
}

func (c *ConfigChangeCommand) Name() string { return "config-change" }

func (c *ConfigChangeCommand) Apply(s *store.Store) {
	s.UpdateItem(c.itemID, store.Patch{Config: nonNilConfig(c.after)})
}

func (c *ConfigChangeCommand) Revert(s *store.Store) {
	s.UpdateItem(c.itemID, store.Patch{Config: nonNilConfig(c.before)})
}

// BatchConfigCommand records a batch config update as one undo step.
type BatchConfigCommand struct {
	before map[string]map[string]any
	after  map[string]map[string]any
}

// NewBatchConfig snapshots both sides of an UpdateConfigsBatch: before holds
// each touched item's prior config, after the replacements.
func NewBatchConfig(before, after map[string]map[string]any) *BatchConfigCommand {
	return &BatchConfigCommand{before: cloneConfigSet(before), after: cloneConfigSet(after)}
}

func (c *BatchConfigCommand) Name() string { return "batch-config" }

func (c *BatchConfigCommand) Apply(s *store.Store) {
	s.UpdateConfigsBatch(c.after)
}

func (c *BatchConfigCommand) Revert(s *store.Store) {
	s.UpdateConfigsBatch(c.before)
}

// nonNilConfig keeps Patch.Config meaningful: a nil map would mean "leave
// untouched", but a command reverting to an empty config must still write.
func nonNilConfig(cfg map[string]any) map[string]any {
	if cfg == nil {
		return map[string]any{}
	}
	return board.CloneConfig(cfg)
}

func cloneConfigSet(set map[string]map[string]any) map[string]map[string]any {
	out := make(map[string]map[string]any, len(set))
	for id, cfg := range set {
		out[id] = board.CloneConfig(cfg)
	}
	return out
}
