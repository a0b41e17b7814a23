package store

import "gridboard/internal/board"

// AddItemsBatch adds every item as a single atomic transition: one lock
// acquisition, one ItemsBatchAdded notification. Items whose canvas cannot
// be resolved are skipped with a diagnostic. Returns the stored clones with
// their assigned z-indexes.
func (s *Store) AddItemsBatch(items []*board.Item) []*board.Item {
	if len(items) == 0 {
		return nil
	}
	added := make([]*board.Item, 0, len(items))
	s.mu.Lock()
	for _, item := range items {
		canvas, ok := s.byCanvas[item.CanvasID]
		if !ok {
			s.log.Warn("store: batch add to unknown canvas", "canvas", item.CanvasID, "item", item.ID)
			continue
		}
		clone := item.Clone()
		clone.ZIndex = canvas.ZIndexCounter
		canvas.ZIndexCounter++
		canvas.Items = append(canvas.Items, clone)
		s.byItem[clone.ID] = clone
		added = append(added, clone.Clone())
	}
	s.mu.Unlock()

	if len(added) == 0 {
		return nil
	}
	s.notify(ItemsBatchAdded{Items: cloneItems(added)})
	return added
}

// RestoreItemsBatch reinserts previously removed items at their recorded
// indexes with their original z-indexes, as a single transition with one
// notification. To undo a sequence of removals, pass the placements in
// reverse removal order so each index resolves against the same order it was
// recorded in. Out-of-range indexes append.
func (s *Store) RestoreItemsBatch(placements []Placement) []*board.Item {
	if len(placements) == 0 {
		return nil
	}
	restored := make([]*board.Item, 0, len(placements))
	s.mu.Lock()
	for _, pl := range placements {
		canvas, ok := s.byCanvas[pl.Item.CanvasID]
		if !ok {
			s.log.Warn("store: batch restore to unknown canvas", "canvas", pl.Item.CanvasID, "item", pl.Item.ID)
			continue
		}
		clone := pl.Item.Clone()
		insertItemAt(canvas, clone, pl.Index)
		if canvas.ZIndexCounter <= clone.ZIndex {
			canvas.ZIndexCounter = clone.ZIndex + 1
		}
		s.byItem[clone.ID] = clone
		restored = append(restored, clone.Clone())
	}
	s.mu.Unlock()

	if len(restored) == 0 {
		return nil
	}
	s.notify(ItemsBatchAdded{Items: cloneItems(restored)})
	return restored
}

// DeleteItemsBatch removes every named item as a single transition with one
// ItemsBatchDeleted notification. The returned placements record each item's
// former index so a batch undo can reinsert them in place. Deleting the
// selected item clears the selection.
func (s *Store) DeleteItemsBatch(itemIDs []string) []Placement {
	if len(itemIDs) == 0 {
		return nil
	}
	removed := make([]Placement, 0, len(itemIDs))
	selChanged := false
	s.mu.Lock()
	for _, id := range itemIDs {
		item, ok := s.byItem[id]
		if !ok {
			s.log.Warn("store: batch delete of unknown item", "item", id)
			continue
		}
		canvas := s.byCanvas[item.CanvasID]
		index := canvas.IndexOf(id)
		canvas.Items = append(canvas.Items[:index], canvas.Items[index+1:]...)
		delete(s.byItem, id)
		if s.clearSelectionIfItemLocked(id) {
			selChanged = true
		}
		removed = append(removed, Placement{Item: item.Clone(), Index: index})
	}
	s.mu.Unlock()

	if len(removed) == 0 {
		return nil
	}
	items := make([]*board.Item, len(removed))
	for i, pl := range removed {
		items[i] = pl.Item.Clone()
	}
	s.notify(ItemsBatchDeleted{Items: items})
	if selChanged {
		s.notify(SelectionChanged{})
	}
	return removed
}

// UpdateConfigsBatch replaces the configuration record of every named item as
// a single transition with one ConfigsBatchUpdated notification. Returns the
// resulting clones.
func (s *Store) UpdateConfigsBatch(configs map[string]map[string]any) []*board.Item {
	if len(configs) == 0 {
		return nil
	}
	updated := make([]*board.Item, 0, len(configs))
	s.mu.Lock()
	for id, cfg := range configs {
		item, ok := s.byItem[id]
		if !ok {
			s.log.Warn("store: batch config update of unknown item", "item", id)
			continue
		}
		item.Config = board.CloneConfig(cfg)
		updated = append(updated, item.Clone())
	}
	s.mu.Unlock()

	if len(updated) == 0 {
		return nil
	}
	s.notify(ConfigsBatchUpdated{Items: cloneItems(updated)})
	return updated
}

func cloneItems(items []*board.Item) []*board.Item {
	out := make([]*board.Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}
