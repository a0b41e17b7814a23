package ui

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"gridboard/internal/board"
	"gridboard/internal/config"
	"gridboard/internal/docstore"
	"gridboard/internal/drag"
	"gridboard/internal/export"
	"gridboard/internal/grid"
	"gridboard/internal/history"
	"gridboard/internal/lazyload"
	"gridboard/internal/store"
)

// Rows reserved above and below the canvas area.
const (
	topRows    = 2 // header + toolbar
	footerRows = 1
)

const statusTimeout = 3 * time.Second

// itemTypes cycle as new items are added.
var itemTypes = []string{"chart", "table", "note", "metric"}

// Options configure the UI runtime.
type Options struct {
	Context context.Context
	Config  config.Config
	Log     *slog.Logger
	Store   *store.Store
	Grid    *grid.Converter
	History *history.History
	Lazy    *lazyload.Scheduler
	Docs    *docstore.Store // nil disables persistence
	Layout  string
	Frames  drag.FrameScheduler
}

// Messages

type storeEventMsg struct{ event store.Event }

type statusExpireMsg struct{ seq int }

// Model is the root application state for Bubble Tea.
type Model struct {
	cfg    config.Config
	log    *slog.Logger
	st     *store.Store
	conv   *grid.Converter
	hist   *history.History
	lazy   *lazyload.Scheduler
	docs   *docstore.Store
	layout string

	zones    *zone.Manager
	theme    Theme
	styles   Styles
	keys     keyMap
	help     help.Model
	geo      *boardGeometry
	pipeline *drag.Pipeline

	width      int
	height     int
	ready      bool
	mode       board.ViewportMode
	scrollRows int

	// Active gesture. The ghost handle receives coalesced frames and the
	// renderer draws it as an outline until the gesture commits.
	ghost      *ghostHandle
	pressCellX int
	pressCellY int

	// Save-as prompt
	naming    bool
	nameInput textinput.Model

	showHelp  bool
	status    string
	statusSeq int

	observed map[string]bool
	added    int // items added this session, cycles itemTypes
}

// New creates the root model and wires the drag pipeline against the
// screen geometry.
func New(opts Options) Model {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	geo := newBoardGeometry()
	pipeline := drag.New(opts.Grid, opts.Store, geo, opts.Frames, drag.Config{
		EdgeSnapPx:  opts.Config.Drag.EdgeSnapPx,
		MinWidthPx:  opts.Config.Drag.MinWidthPx,
		MinHeightPx: opts.Config.Drag.MinHeightPx,
	}, drag.Hooks{}, log)

	ti := textinput.New()
	ti.Placeholder = "layout name"
	ti.CharLimit = 64

	theme := GetTheme(opts.Config.UI.Theme)
	return Model{
		cfg:       opts.Config,
		log:       log,
		st:        opts.Store,
		conv:      opts.Grid,
		hist:      opts.History,
		lazy:      opts.Lazy,
		docs:      opts.Docs,
		layout:    opts.Layout,
		zones:     zone.New(),
		theme:     theme,
		styles:    theme.Styles(),
		keys:      defaultKeyMap(),
		help:      help.New(),
		geo:       geo,
		pipeline:  pipeline,
		mode:      board.ModeWide,
		nameInput: ti,
		observed:  make(map[string]bool),
	}
}

// Close releases the pipeline and zone manager. Called once the program
// loop has exited.
func (m Model) Close() {
	m.pipeline.Destroy()
	m.zones.Close()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		m.relayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case storeEventMsg:
		if msg.event.Section() == store.SectionCanvases {
			m.relayout()
		}
		return m, nil

	case statusExpireMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil
	}
	return m, nil
}

// relayout recomputes canvas frames for the current size and mode, feeds
// canvas widths to the grid converter, and republishes the viewport to the
// lazy scheduler.
func (m *Model) relayout() {
	if !m.ready {
		return
	}
	canvases := m.st.Canvases()
	visible := m.height - topRows - footerRows
	m.geo.relayout(canvases, m.width, visible, m.mode, m.itemBottomRow)
	for _, c := range canvases {
		if f, ok := m.geo.frame(c.ID); ok {
			m.conv.SetCanvasWidth(c.ID, f.cellW*cellPxX)
		}
	}
	m.syncObservations(canvases)
	m.lazy.SetViewport(m.viewportPx())
}

func (m *Model) itemBottomRow(it *board.Item) int {
	l := it.ActiveLayout(m.mode)
	py := m.conv.UnitsToPixelsY(l.Y + l.Height)
	return (py + cellPxY - 1) / cellPxY
}

// viewportPx is the visible board region in engine pixel space; scrolling
// shifts it down while canvas frames stay put.
func (m *Model) viewportPx() board.Rect {
	visible := m.height - topRows - footerRows
	if visible < 0 {
		visible = 0
	}
	return board.Rect{
		X:      0,
		Y:      m.scrollRows * cellPxY,
		Width:  m.width * cellPxX,
		Height: visible * cellPxY,
	}
}

type itemHandle struct{ rect board.Rect }

func (h itemHandle) Bounds() board.Rect { return h.rect }

// syncObservations keeps the lazy scheduler's element set matched to the
// store: new items observed at their current bounds, removed ones dropped.
func (m *Model) syncObservations(canvases []*board.Canvas) {
	seen := make(map[string]bool, len(m.observed))
	for _, c := range canvases {
		f, ok := m.geo.frame(c.ID)
		if !ok {
			continue
		}
		for _, it := range c.Items {
			seen[it.ID] = true
			m.lazy.Observe(itemHandle{rect: m.itemPxRect(f, it)}, it.ID, func(bool) {})
		}
	}
	for id := range m.observed {
		if !seen[id] {
			m.lazy.Unobserve(id)
		}
	}
	m.observed = seen
}

// itemPxRect is the item's bounds in engine pixel space (canvas origin plus
// grid-converted layout).
func (m *Model) itemPxRect(f *canvasFrame, it *board.Item) board.Rect {
	l := it.ActiveLayout(m.mode)
	return board.Rect{
		X:      f.px.X + m.conv.UnitsToPixelsX(l.X, f.id),
		Y:      f.px.Y + m.conv.UnitsToPixelsY(l.Y),
		Width:  m.conv.UnitsToPixelsX(l.Width, f.id),
		Height: m.conv.UnitsToPixelsY(l.Height),
	}
}

// itemCellRect is the item's bounds in board cells.
func (m *Model) itemCellRect(f *canvasFrame, it *board.Item) board.Rect {
	l := it.ActiveLayout(m.mode)
	cells := pxRectToCells(board.Rect{
		X:      m.conv.UnitsToPixelsX(l.X, f.id),
		Y:      m.conv.UnitsToPixelsY(l.Y),
		Width:  m.conv.UnitsToPixelsX(l.Width, f.id),
		Height: m.conv.UnitsToPixelsY(l.Height),
	})
	cells.X += f.cellX
	cells.Y += f.cellY
	return cells
}

func (m *Model) setStatus(format string, args ...any) tea.Cmd {
	m.status = fmt.Sprintf(format, args...)
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return statusExpireMsg{seq: seq}
	})
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.naming {
		return m.handleNamingKey(msg)
	}
	if m.showHelp {
		m.showHelp = false
		m.help.ShowAll = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		m.help.ShowAll = true
		return m, nil

	case key.Matches(msg, m.keys.Undo):
		return m.doUndo()

	case key.Matches(msg, m.keys.Redo):
		return m.doRedo()

	case key.Matches(msg, m.keys.AddItem):
		return m.doAddItem()

	case key.Matches(msg, m.keys.DeleteItem):
		return m.doDeleteItem()

	case key.Matches(msg, m.keys.Mode):
		return m.doToggleMode()

	case key.Matches(msg, m.keys.CopyJSON):
		return m.doCopyJSON()

	case key.Matches(msg, m.keys.Snapshot):
		return m.doSnapshot()

	case key.Matches(msg, m.keys.SaveLayout):
		return m.doSaveLayout(m.layout)

	case key.Matches(msg, m.keys.SaveAs):
		m.naming = true
		m.nameInput.SetValue(m.layout)
		m.nameInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.NextItem):
		m.cycleSelection(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevItem):
		m.cycleSelection(-1)
		return m, nil

	case key.Matches(msg, m.keys.Nudge):
		return m.doNudge(msg.String())

	case key.Matches(msg, m.keys.Deselect):
		m.st.ClearSelection()
		return m, nil
	}
	return m, nil
}

func (m Model) handleNamingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		name := m.nameInput.Value()
		m.naming = false
		m.nameInput.Blur()
		if name == "" {
			return m, nil
		}
		m.layout = name
		return m.doSaveLayout(name)
	case "esc":
		m.naming = false
		m.nameInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m Model) doUndo() (tea.Model, tea.Cmd) {
	if !m.hist.Undo() {
		return m, m.setStatus("nothing to undo")
	}
	m.relayout()
	return m, m.setStatus("undo")
}

func (m Model) doRedo() (tea.Model, tea.Cmd) {
	if !m.hist.Redo() {
		return m, m.setStatus("nothing to redo")
	}
	m.relayout()
	return m, m.setStatus("redo")
}

// doAddItem appends a new item to the selected canvas, creating a first
// canvas when the board is empty.
func (m Model) doAddItem() (tea.Model, tea.Cmd) {
	canvasID := m.targetCanvas()
	if canvasID == "" {
		c := &board.Canvas{ID: board.NewID(), Name: "Canvas 1"}
		m.st.AddCanvas(c)
		canvasID = c.ID
	}

	row := 0
	if c, ok := m.st.GetCanvas(canvasID); ok {
		for _, it := range c.Items {
			l := it.ActiveLayout(m.mode)
			if bottom := l.Y + l.Height; bottom > row {
				row = bottom
			}
		}
	}

	kind := itemTypes[m.added%len(itemTypes)]
	m.added++
	item := &board.Item{
		ID:       board.NewID(),
		CanvasID: canvasID,
		Type:     kind,
		Wide:     board.Layout{X: 0, Y: row, Width: 10, Height: 6},
	}
	stored, ok := m.st.AddItem(item)
	if !ok {
		return m, m.setStatus("add failed")
	}
	index := 0
	if c, ok := m.st.GetCanvas(canvasID); ok {
		index = c.IndexOf(stored.ID)
	}
	m.hist.Push(history.NewAddItem(stored, index))
	m.st.Select(stored.ID, canvasID)
	m.relayout()
	return m, m.setStatus("added %s", kind)
}

func (m Model) doDeleteItem() (tea.Model, tea.Cmd) {
	itemID, _ := m.st.Selection()
	if itemID == "" {
		return m, m.setStatus("nothing selected")
	}
	removed, index, ok := m.st.RemoveItem(itemID)
	if !ok {
		return m, nil
	}
	m.hist.Push(history.NewDeleteItem(removed, index))
	m.relayout()
	return m, m.setStatus("deleted %s", removed.Type)
}

func (m Model) doToggleMode() (tea.Model, tea.Cmd) {
	if m.mode == board.ModeWide {
		m.mode = board.ModeNarrow
	} else {
		m.mode = board.ModeWide
	}
	m.scrollRows = 0
	m.relayout()
	return m, m.setStatus("%s mode", m.mode)
}

func (m Model) doCopyJSON() (tea.Model, tea.Cmd) {
	data, err := export.EncodeJSON(export.Snapshot(m.st))
	if err != nil {
		return m, m.setStatus("export: %v", err)
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		return m, m.setStatus("clipboard: %v", err)
	}
	return m, m.setStatus("board copied as JSON")
}

func (m Model) doSnapshot() (tea.Model, tea.Cmd) {
	dir := filepath.Dir(m.cfg.UI.LayoutDB)
	path := filepath.Join(dir, fmt.Sprintf("board-%s.png", time.Now().Format("20060102-150405")))
	if err := export.WritePNG(m.st, m.conv, path); err != nil {
		return m, m.setStatus("snapshot: %v", err)
	}
	return m, m.setStatus("snapshot %s", filepath.Base(path))
}

func (m Model) doSaveLayout(name string) (tea.Model, tea.Cmd) {
	if m.docs == nil {
		return m, m.setStatus("persistence disabled")
	}
	if err := m.docs.Save(name, export.Snapshot(m.st)); err != nil {
		return m, m.setStatus("save: %v", err)
	}
	return m, m.setStatus("saved layout %q", name)
}

// doNudge moves the selected item one grid unit.
func (m Model) doNudge(dir string) (tea.Model, tea.Cmd) {
	itemID, _ := m.st.Selection()
	if itemID == "" {
		return m, nil
	}
	item, ok := m.st.GetItem(itemID)
	if !ok {
		return m, nil
	}
	before := item.ActiveLayout(m.mode)
	after := before
	switch dir {
	case "up":
		after.Y--
	case "down":
		after.Y++
	case "left":
		after.X--
	case "right":
		after.X++
	}
	if after.X < 0 || after.Y < 0 {
		return m, nil
	}
	after.Customized = m.mode == board.ModeNarrow
	if !m.st.SetLayout(itemID, m.mode, after) {
		return m, nil
	}
	m.hist.Push(history.NewMove(itemID, m.mode, before, after, item.Narrow != nil))
	m.relayout()
	return m, nil
}

// targetCanvas is the canvas new items land on: the selection's canvas,
// else the first one.
func (m *Model) targetCanvas() string {
	if _, canvasID := m.st.Selection(); canvasID != "" {
		return canvasID
	}
	canvases := m.st.Canvases()
	if len(canvases) > 0 {
		return canvases[0].ID
	}
	return ""
}

// cycleSelection steps through every item on the board in canvas order.
func (m *Model) cycleSelection(step int) {
	type ref struct{ itemID, canvasID string }
	var all []ref
	for _, c := range m.st.Canvases() {
		for _, it := range c.Items {
			all = append(all, ref{itemID: it.ID, canvasID: c.ID})
		}
	}
	if len(all) == 0 {
		return
	}
	current, _ := m.st.Selection()
	idx := -1
	for i, r := range all {
		if r.itemID == current {
			idx = i
			break
		}
	}
	idx = (idx + step + len(all)) % len(all)
	m.st.Select(all[idx].itemID, all[idx].canvasID)
}

var _ lazyload.Handle = itemHandle{}
