package ui

import (
	"io"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"gridboard/internal/board"
	"gridboard/internal/config"
	"gridboard/internal/drag"
	"gridboard/internal/grid"
	"gridboard/internal/history"
	"gridboard/internal/lazyload"
	"gridboard/internal/store"
)

// newTestModel builds a model over real services with a synchronous frame
// scheduler, sized to an 80x30 terminal.
func newTestModel(t *testing.T) (Model, *store.Store, *history.History) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.New(log)
	conv := grid.NewConverter(grid.Config{}, log)
	hist := history.New(st, 50, log)
	lazy := lazyload.New(lazyload.Config{}, lazyload.RectIntersector(), log)
	t.Cleanup(lazy.Destroy)

	m := New(Options{
		Config:  config.Default(),
		Log:     log,
		Store:   st,
		Grid:    conv,
		History: hist,
		Lazy:    lazy,
		Frames:  drag.SyncScheduler{},
	})
	t.Cleanup(m.Close)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return next.(Model), st, hist
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestAddItemKeyCreatesCanvasAndItem(t *testing.T) {
	m, st, hist := newTestModel(t)

	m = update(t, m, keyMsg("a"))

	canvases := st.Canvases()
	if len(canvases) != 1 {
		t.Fatalf("canvases = %d, want 1", len(canvases))
	}
	if len(canvases[0].Items) != 1 {
		t.Fatalf("items = %d, want 1", len(canvases[0].Items))
	}
	if sel, _ := st.Selection(); sel != canvases[0].Items[0].ID {
		t.Fatal("new item should be selected")
	}
	if !hist.CanUndo() {
		t.Fatal("add should be undoable")
	}

	m = update(t, m, keyMsg("u"))
	if len(st.Canvases()[0].Items) != 0 {
		t.Fatal("undo should remove the item")
	}
	_ = m
}

func TestDeleteSelectedItem(t *testing.T) {
	m, st, hist := newTestModel(t)
	m = update(t, m, keyMsg("a"))

	m = update(t, m, keyMsg("d"))
	if len(st.Canvases()[0].Items) != 0 {
		t.Fatal("delete should remove the selected item")
	}

	m = update(t, m, keyMsg("u"))
	if len(st.Canvases()[0].Items) != 1 {
		t.Fatal("undo should restore the deleted item")
	}
	if !hist.CanRedo() {
		t.Fatal("redo should be available after undo")
	}
	_ = m
}

func TestModeToggleRestacksCanvases(t *testing.T) {
	m, st, _ := newTestModel(t)
	st.AddCanvas(&board.Canvas{ID: "main", Name: "Main"})
	st.AddCanvas(&board.Canvas{ID: "side", Name: "Side"})
	m.relayout()

	m = update(t, m, keyMsg("n"))
	if m.mode != board.ModeNarrow {
		t.Fatalf("mode = %v, want narrow", m.mode)
	}
	if m.status != "narrow mode" {
		t.Fatalf("status = %q, want %q", m.status, "narrow mode")
	}
	main, _ := m.geo.frame("main")
	side, _ := m.geo.frame("side")
	if side.cellY <= main.cellY {
		t.Fatal("narrow mode should stack canvases")
	}

	m = update(t, m, keyMsg("n"))
	if m.mode != board.ModeWide {
		t.Fatalf("mode = %v, want wide", m.mode)
	}
}

func TestTabCyclesSelection(t *testing.T) {
	m, st, _ := newTestModel(t)
	st.AddCanvas(&board.Canvas{ID: "main", Name: "Main"})
	a, _ := st.AddItem(&board.Item{ID: "a", CanvasID: "main", Type: "chart", Wide: board.Layout{Width: 4, Height: 2}})
	b, _ := st.AddItem(&board.Item{ID: "b", CanvasID: "main", Type: "note", Wide: board.Layout{Y: 4, Width: 4, Height: 2}})

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if sel, _ := st.Selection(); sel != a.ID {
		t.Fatalf("first tab selects %q, want %q", sel, a.ID)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if sel, _ := st.Selection(); sel != b.ID {
		t.Fatalf("second tab selects %q, want %q", sel, b.ID)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if sel, _ := st.Selection(); sel != a.ID {
		t.Fatal("tab should wrap around")
	}
	_ = m
}

func TestNudgeMovesSelectedItemOneUnit(t *testing.T) {
	m, st, hist := newTestModel(t)
	st.AddCanvas(&board.Canvas{ID: "main", Name: "Main"})
	it, _ := st.AddItem(&board.Item{ID: "a", CanvasID: "main", Type: "chart", Wide: board.Layout{X: 2, Y: 2, Width: 4, Height: 2}})
	st.Select(it.ID, "main")
	m.relayout()

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	got, _ := st.GetItem("a")
	if got.Wide.X != 3 {
		t.Fatalf("X = %d, want 3", got.Wide.X)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	got, _ = st.GetItem("a")
	if got.Wide.Y != 1 {
		t.Fatalf("Y = %d, want 1", got.Wide.Y)
	}

	if !hist.CanUndo() {
		t.Fatal("nudges should be undoable")
	}
	m = update(t, m, keyMsg("u"))
	m = update(t, m, keyMsg("u"))
	got, _ = st.GetItem("a")
	if got.Wide.X != 2 || got.Wide.Y != 2 {
		t.Fatalf("after undo layout = %+v, want X=2 Y=2", got.Wide)
	}
	_ = m
}

func TestNudgeStopsAtOrigin(t *testing.T) {
	m, st, hist := newTestModel(t)
	st.AddCanvas(&board.Canvas{ID: "main", Name: "Main"})
	it, _ := st.AddItem(&board.Item{ID: "a", CanvasID: "main", Type: "chart", Wide: board.Layout{Width: 4, Height: 2}})
	st.Select(it.ID, "main")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	got, _ := st.GetItem("a")
	if got.Wide.X != 0 {
		t.Fatalf("X = %d, want 0", got.Wide.X)
	}
	if hist.CanUndo() {
		t.Fatal("refused nudge should not reach the history")
	}
	_ = m
}
