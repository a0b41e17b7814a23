package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"gridboard/internal/board"
	"gridboard/internal/drag"
	"gridboard/internal/history"
)

// Toolbar zone ids.
const (
	zoneAdd      = "btn-add"
	zoneUndo     = "btn-undo"
	zoneRedo     = "btn-redo"
	zoneMode     = "btn-mode"
	zoneSave     = "btn-save"
	zoneCopy     = "btn-copy"
	zoneSnapshot = "btn-snapshot"
)

// handleMouse routes pointer input: wheel scrolls the board, presses start
// gestures on items, motion feeds the pipeline, releases either end the
// gesture or resolve to a toolbar click.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.naming || m.showHelp {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return m.scrollBy(-1)
	case tea.MouseButtonWheelDown:
		return m.scrollBy(1)
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			return m.handlePress(msg)
		}
	case tea.MouseActionMotion:
		if m.pipeline.Active() {
			dx := (msg.X - m.pressCellX) * cellPxX
			dy := (msg.Y - m.pressCellY) * cellPxY
			m.pipeline.Update(dx, dy)
		}
	case tea.MouseActionRelease:
		if m.pipeline.Active() {
			return m.handleGestureEnd()
		}
		return m.handleToolbarClick(msg)
	}
	return m, nil
}

func (m Model) scrollBy(rows int) (tea.Model, tea.Cmd) {
	if m.pipeline.Active() {
		return m, nil
	}
	m.scrollRows += rows
	if m.scrollRows < 0 {
		m.scrollRows = 0
	}
	m.lazy.SetViewport(m.viewportPx())
	return m, nil
}

// handlePress hit-tests the board cell under the pointer. Landing on an
// item selects it and starts a move, or a resize when the press is on the
// item's border.
func (m Model) handlePress(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Y < topRows {
		return m, nil // toolbar handled on release
	}
	cellX := msg.X
	cellY := msg.Y - topRows + m.scrollRows

	f, ok := m.geo.frameAtCell(cellX, cellY)
	if !ok {
		m.st.ClearSelection()
		return m, nil
	}
	canvas, ok := m.st.GetCanvas(f.id)
	if !ok {
		return m, nil
	}

	// Topmost item wins.
	var hit *board.Item
	var hitRect board.Rect
	for _, it := range canvas.Items {
		r := m.itemCellRect(f, it)
		p := board.Point{X: cellX, Y: cellY}
		if !r.Contains(p) {
			continue
		}
		if hit == nil || it.ZIndex > hit.ZIndex {
			hit = it
			hitRect = r
		}
	}
	if hit == nil {
		m.st.ClearSelection()
		return m, nil
	}

	m.st.Select(hit.ID, f.id)
	m.pressCellX = msg.X
	m.pressCellY = msg.Y
	m.ghost = newGhostHandle(m.itemPxRect(f, hit))

	if g := gripAt(hitRect, cellX, cellY); g != drag.GripNone {
		m.pipeline.StartResize(hit.ID, m.ghost, m.mode, g)
	} else {
		m.pipeline.StartDrag(hit.ID, m.ghost, m.mode)
	}
	return m, nil
}

// gripAt maps a press on an item's border cells to a resize grip. Presses
// in the interior mean a move.
func gripAt(r board.Rect, x, y int) drag.Grip {
	onW := x == r.X
	onE := x == r.X+r.Width-1
	onN := y == r.Y
	onS := y == r.Y+r.Height-1
	switch {
	case onN && onW:
		return drag.GripNW
	case onN && onE:
		return drag.GripNE
	case onS && onW:
		return drag.GripSW
	case onS && onE:
		return drag.GripSE
	case onN:
		return drag.GripN
	case onS:
		return drag.GripS
	case onW:
		return drag.GripW
	case onE:
		return drag.GripE
	}
	return drag.GripNone
}

// handleGestureEnd commits the active gesture and records it on the
// history. Cross-canvas drops are resolved here, outside the pipeline.
func (m Model) handleGestureEnd() (tea.Model, tea.Cmd) {
	res, ok := m.pipeline.EndGesture()
	ghost := m.ghost
	m.ghost = nil
	if !ok {
		return m, nil
	}

	switch {
	case res.CrossCanvas:
		return m.commitCrossCanvas(res, ghost)
	case res.Committed:
		if res.Kind == drag.KindResize {
			m.hist.Push(history.NewResize(res.ItemID, res.Mode, res.Before, res.After, res.HadNarrow))
		} else {
			m.hist.Push(history.NewMove(res.ItemID, res.Mode, res.Before, res.After, res.HadNarrow))
		}
		m.relayout()
	default:
		m.relayout() // discarded gesture still needs the ghost cleared
	}
	return m, nil
}

// commitCrossCanvas finishes a drag that ended over a foreign canvas: the
// item is re-homed to the target, positioned where it was dropped, and the
// move is recorded as one undo step.
func (m Model) commitCrossCanvas(res drag.Result, ghost *ghostHandle) (tea.Model, tea.Cmd) {
	item, ok := m.st.GetItem(res.ItemID)
	if !ok {
		return m, nil
	}
	fromCanvas, ok := m.st.GetCanvas(item.CanvasID)
	if !ok {
		return m, nil
	}
	from := history.ItemPlace{
		CanvasID: item.CanvasID,
		Index:    fromCanvas.IndexOf(item.ID),
		ZIndex:   item.ZIndex,
	}

	moved, ok := m.st.MoveItem(res.ItemID, res.TargetCanvasID)
	if !ok {
		return m, nil
	}

	// Position inside the target from where the ghost landed.
	if ghost != nil {
		if bounds, ok := m.geo.CanvasBounds(res.TargetCanvasID); ok {
			frame := ghost.Frame()
			l := item.ActiveLayout(res.Mode)
			l.X = m.conv.PixelsToUnitsX(frame.X-bounds.X, res.TargetCanvasID)
			l.Y = m.conv.PixelsToUnitsY(frame.Y - bounds.Y)
			if l.X < 0 {
				l.X = 0
			}
			if l.Y < 0 {
				l.Y = 0
			}
			l.Customized = res.Mode == board.ModeNarrow
			m.st.SetLayout(res.ItemID, res.Mode, l)
		}
	}

	toCanvas, ok := m.st.GetCanvas(res.TargetCanvasID)
	if !ok {
		return m, nil
	}
	to := history.ItemPlace{
		CanvasID: res.TargetCanvasID,
		Index:    toCanvas.IndexOf(moved.ID),
		ZIndex:   moved.ZIndex,
	}
	m.hist.Push(history.NewMoveCanvas(res.ItemID, from, to))
	m.relayout()
	return m, m.setStatus("moved to %s", toCanvas.Name)
}

// handleToolbarClick resolves a plain click against the marked toolbar
// zones.
func (m Model) handleToolbarClick(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	inZone := func(id string) bool {
		z := m.zones.Get(id)
		return z != nil && z.InBounds(msg)
	}
	switch {
	case inZone(zoneAdd):
		return m.doAddItem()
	case inZone(zoneUndo):
		return m.doUndo()
	case inZone(zoneRedo):
		return m.doRedo()
	case inZone(zoneMode):
		return m.doToggleMode()
	case inZone(zoneSave):
		return m.doSaveLayout(m.layout)
	case inZone(zoneCopy):
		return m.doCopyJSON()
	case inZone(zoneSnapshot):
		return m.doSnapshot()
	}
	return m, nil
}
