package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gridboard/internal/board"
)

// Cell paint classes for the board buffer. Runs of the same class render
// with one lipgloss style.
type paint uint8

const (
	paintBlank paint = iota
	paintBorder
	paintBorderFocus
	paintTitle
	paintItem
	paintItemSelected
	paintItemLabel
	paintPlaceholder
	paintGhost
)

type cell struct {
	ch rune
	p  paint
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.renderHeader()
	toolbar := m.renderToolbar()

	var body string
	if m.showHelp {
		body = lipgloss.Place(m.width, m.boardRows(), lipgloss.Center, lipgloss.Center, m.help.View(m.keys))
	} else {
		body = m.renderBoard()
	}

	out := lipgloss.JoinVertical(lipgloss.Left, header, toolbar, body, m.renderFooter())
	return m.zones.Scan(out)
}

func (m Model) boardRows() int {
	rows := m.height - topRows - footerRows
	if rows < 0 {
		rows = 0
	}
	return rows
}

func (m Model) renderHeader() string {
	mode := m.mode.String()
	title := fmt.Sprintf("gridboard  %s  [%s]", m.layout, mode)
	right := fmt.Sprintf("%d canvases", len(m.st.Canvases()))
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return m.styles.Header.Width(m.width).Render(title + strings.Repeat(" ", gap) + right)
}

// renderToolbar draws the clickable button row; every button is marked as a
// mouse zone.
func (m Model) renderToolbar() string {
	btn := func(id, label string) string {
		return m.zones.Mark(id, m.styles.Button.Render(label))
	}
	active := func(id, label string, on bool) string {
		style := m.styles.Button
		if on {
			style = m.styles.ButtonActive
		}
		return m.zones.Mark(id, style.Render(label))
	}
	parts := []string{
		btn(zoneAdd, "+ add"),
		btn(zoneUndo, "undo"),
		btn(zoneRedo, "redo"),
		active(zoneMode, "narrow", m.mode == board.ModeNarrow),
		btn(zoneSave, "save"),
		btn(zoneCopy, "copy"),
		btn(zoneSnapshot, "png"),
	}
	return lipgloss.NewStyle().Width(m.width).Render(strings.Join(parts, " "))
}

func (m Model) renderFooter() string {
	if m.naming {
		return m.styles.Footer.Width(m.width).Render("save as: " + m.nameInput.View())
	}
	if m.status != "" {
		return m.styles.Status.Width(m.width).Render(m.status)
	}
	return m.styles.Footer.Width(m.width).Render(m.help.View(m.keys))
}

// renderBoard paints canvases, items, and the drag ghost into a cell buffer
// and converts it to styled lines. Scrolling offsets the buffer against
// board rows.
func (m Model) renderBoard() string {
	rows := m.boardRows()
	if rows == 0 || m.width == 0 {
		return ""
	}
	buf := make([][]cell, rows)
	for y := range buf {
		buf[y] = make([]cell, m.width)
		for x := range buf[y] {
			buf[y][x] = cell{ch: ' ', p: paintBlank}
		}
	}

	selectedItem, selectedCanvas := m.st.Selection()
	for _, c := range m.st.Canvases() {
		f, ok := m.geo.frame(c.ID)
		if !ok {
			continue
		}
		m.paintCanvas(buf, f, c, c.ID == selectedCanvas, selectedItem)
	}
	m.paintGhostFrame(buf)

	return m.bufferToString(buf)
}

func (m Model) paintCanvas(buf [][]cell, f *canvasFrame, c *board.Canvas, focused bool, selectedItem string) {
	border := paintBorder
	if focused {
		border = paintBorderFocus
	}

	x0, y0 := f.cellX-1, f.cellY-1
	x1, y1 := f.cellX+f.cellW, f.cellY+f.cellH
	for x := x0 + 1; x < x1; x++ {
		m.put(buf, x, y0, '─', border)
		m.put(buf, x, y1, '─', border)
	}
	m.put(buf, x0, y0, '┌', border)
	m.put(buf, x1, y0, '┐', border)
	m.put(buf, x0, y1, '└', border)
	m.put(buf, x1, y1, '┘', border)
	for y := y0 + 1; y < y1; y++ {
		m.put(buf, x0, y, '│', border)
		m.put(buf, x1, y, '│', border)
	}

	// Canvas name sits in the top border.
	title := " " + c.Name + " "
	for i, ch := range []rune(title) {
		if x0+2+i >= x1 {
			break
		}
		m.put(buf, x0+2+i, y0, ch, paintTitle)
	}

	// Painter's order: lowest z first.
	items := append([]*board.Item(nil), c.Items...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].ZIndex < items[j].ZIndex })
	for _, it := range items {
		m.paintItem(buf, f, it, it.ID == selectedItem)
	}
}

func (m Model) paintItem(buf [][]cell, f *canvasFrame, it *board.Item, selected bool) {
	r := m.itemCellRect(f, it)
	fill := paintItem
	if selected {
		fill = paintItemSelected
	}
	ch := ' '
	if !m.lazy.Materialized(it.ID) {
		fill = paintPlaceholder
		ch = '░'
	}
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			m.put(buf, x, y, ch, fill)
		}
	}
	if fill == paintPlaceholder {
		return
	}
	label := it.Type
	for i, lch := range []rune(label) {
		if r.X+1+i >= r.X+r.Width-1 {
			break
		}
		m.put(buf, r.X+1+i, r.Y, lch, paintItemLabel)
	}
}

// paintGhostFrame overlays the in-flight gesture's frame as an outline.
func (m Model) paintGhostFrame(buf [][]cell) {
	if m.ghost == nil || !m.pipeline.Active() {
		return
	}
	r := pxRectToCells(m.ghost.Frame())
	for x := r.X; x < r.X+r.Width; x++ {
		m.put(buf, x, r.Y, '┄', paintGhost)
		m.put(buf, x, r.Y+r.Height-1, '┄', paintGhost)
	}
	for y := r.Y; y < r.Y+r.Height; y++ {
		m.put(buf, r.X, y, '┆', paintGhost)
		m.put(buf, r.X+r.Width-1, y, '┆', paintGhost)
	}
}

// put writes one board cell into the buffer, translating board rows to
// screen rows through the scroll offset.
func (m Model) put(buf [][]cell, x, y int, ch rune, p paint) {
	sy := y - m.scrollRows
	if sy < 0 || sy >= len(buf) || x < 0 || x >= m.width {
		return
	}
	buf[sy][x] = cell{ch: ch, p: p}
}

// bufferToString emits the buffer as styled lines, batching runs of the
// same paint class.
func (m Model) bufferToString(buf [][]cell) string {
	styles := m.paintStyles()
	var b strings.Builder
	for y, row := range buf {
		if y > 0 {
			b.WriteByte('\n')
		}
		var run strings.Builder
		current := row[0].p
		for _, cl := range row {
			if cl.p != current {
				b.WriteString(styles[current].Render(run.String()))
				run.Reset()
				current = cl.p
			}
			run.WriteRune(cl.ch)
		}
		b.WriteString(styles[current].Render(run.String()))
	}
	return b.String()
}

func (m Model) paintStyles() map[paint]lipgloss.Style {
	t := m.theme
	return map[paint]lipgloss.Style{
		paintBlank:        lipgloss.NewStyle(),
		paintBorder:       lipgloss.NewStyle().Foreground(lipgloss.Color(t.Border)),
		paintBorderFocus:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.BorderFocus)),
		paintTitle:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)).Bold(true),
		paintItem:         lipgloss.NewStyle().Background(lipgloss.Color(t.ItemFill)),
		paintItemSelected: lipgloss.NewStyle().Background(lipgloss.Color(t.ItemSelected)).Foreground(lipgloss.Color(t.Background)),
		paintItemLabel:    lipgloss.NewStyle().Background(lipgloss.Color(t.ItemFill)).Foreground(lipgloss.Color(t.Text)),
		paintPlaceholder:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		paintGhost:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.Ghost)).Bold(true),
	}
}
