package ui

import (
	"sync"

	"gridboard/internal/board"
)

// The terminal is mapped onto the engine's pixel space at a fixed scale:
// one cell column is cellPxX pixels and one cell row is cellPxY pixels, so
// a grid row (20px) is exactly one terminal row.
const (
	cellPxX = 10
	cellPxY = 20
)

// canvasFrame places one canvas on the board. Cell coordinates are
// board-relative (scroll is applied at render time); the pixel rect is the
// same region in engine pixel space.
type canvasFrame struct {
	id    string
	cellX int
	cellY int
	cellW int
	cellH int
	px    board.Rect
}

// boardGeometry lays canvases out side by side and resolves between screen
// cells and engine pixels. It is the pipeline's view of canvas bounds, so
// it must stay consistent with what the renderer draws.
type boardGeometry struct {
	mu     sync.RWMutex
	frames []*canvasFrame
	byID   map[string]*canvasFrame
}

func newBoardGeometry() *boardGeometry {
	return &boardGeometry{byID: make(map[string]*canvasFrame)}
}

// relayout recomputes canvas placement for the given terminal size. Wide
// mode puts canvases side by side with an equal share of the width; narrow
// mode stacks them full-width. The logical canvas height grows past the
// visible rows when items extend below the fold.
func (g *boardGeometry) relayout(canvases []*board.Canvas, widthCells, visibleRows int, mode board.ViewportMode, rowOf func(*board.Item) int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.frames = g.frames[:0]
	g.byID = make(map[string]*canvasFrame, len(canvases))
	if len(canvases) == 0 || widthCells < 4 || visibleRows < 3 {
		return
	}

	panelW := widthCells
	if mode == board.ModeWide {
		panelW = widthCells / len(canvases)
		if panelW < 8 {
			panelW = 8
		}
	}
	contentRows := visibleRows - 2 // panel borders
	nextY := 1
	for i, c := range canvases {
		cellH := contentRows
		for _, item := range c.Items {
			if bottom := rowOf(item); bottom > cellH {
				cellH = bottom
			}
		}
		f := &canvasFrame{
			id:    c.ID,
			cellW: panelW - 2,
			cellH: cellH,
		}
		if mode == board.ModeWide {
			f.cellX = i*panelW + 1
			f.cellY = 1
		} else {
			f.cellX = 1
			f.cellY = nextY
			nextY += cellH + 2
		}
		f.px = board.Rect{
			X:      f.cellX * cellPxX,
			Y:      f.cellY * cellPxY,
			Width:  f.cellW * cellPxX,
			Height: f.cellH * cellPxY,
		}
		g.frames = append(g.frames, f)
		g.byID[c.ID] = f
	}
}

// CanvasBounds returns a canvas's content rect in engine pixel space.
func (g *boardGeometry) CanvasBounds(canvasID string) (board.Rect, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	f, ok := g.byID[canvasID]
	if !ok {
		return board.Rect{}, false
	}
	return f.px, true
}

// CanvasAt returns the canvas whose content rect contains the pixel point.
func (g *boardGeometry) CanvasAt(p board.Point) (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, f := range g.frames {
		if f.px.Contains(p) {
			return f.id, true
		}
	}
	return "", false
}

func (g *boardGeometry) frame(canvasID string) (*canvasFrame, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	f, ok := g.byID[canvasID]
	return f, ok
}

// frameAtCell returns the canvas frame containing a board cell.
func (g *boardGeometry) frameAtCell(x, y int) (*canvasFrame, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, f := range g.frames {
		if x >= f.cellX && x < f.cellX+f.cellW && y >= f.cellY && y < f.cellY+f.cellH {
			return f, true
		}
	}
	return nil, false
}

// pxRectToCells maps a pixel rect to the cell rect that best covers it,
// rounding positions and sizes to the nearest cell.
func pxRectToCells(r board.Rect) board.Rect {
	return board.Rect{
		X:      roundDiv(r.X, cellPxX),
		Y:      roundDiv(r.Y, cellPxY),
		Width:  maxCell(1, roundDiv(r.Width, cellPxX)),
		Height: maxCell(1, roundDiv(r.Height, cellPxY)),
	}
}

func roundDiv(v, d int) int {
	if v >= 0 {
		return (v + d/2) / d
	}
	return -((-v + d/2) / d)
}

func maxCell(a, b int) int {
	if a > b {
		return a
	}
	return b
}
