package export

import (
	"fmt"
	"sort"

	"github.com/fogleman/gg"

	"gridboard/internal/board"
	"gridboard/internal/grid"
	"gridboard/internal/store"
)

const (
	pngPaddingPx      = 16
	pngFallbackWidth  = 1000
	pngMinCanvasRows  = 10
	defaultCanvasFill = "#1e1e2e"
	defaultItemFill   = "#89b4fa"
	itemStroke        = "#11111b"
)

// WritePNG renders a still image of every canvas, stacked vertically, to
// path. Items are drawn in z-order using the wide layout. Intended for quick
// visual diffs of a saved layout, not for pixel-exact reproduction.
func WritePNG(st *store.Store, conv *grid.Converter, path string) error {
	canvases := st.Canvases()
	if len(canvases) == 0 {
		return fmt.Errorf("write png: no canvases to render")
	}

	type panel struct {
		canvas *board.Canvas
		width  int
		height int
	}
	panels := make([]panel, 0, len(canvases))
	totalH := pngPaddingPx
	maxW := 0
	for _, c := range canvases {
		w, ok := conv.CanvasWidth(c.ID)
		if !ok || w <= 0 {
			w = pngFallbackWidth
		}
		rows := pngMinCanvasRows
		for _, it := range c.Items {
			if bottom := it.Wide.Y + it.Wide.Height; bottom > rows {
				rows = bottom
			}
		}
		h := conv.UnitsToPixelsY(rows + 1)
		panels = append(panels, panel{canvas: c, width: w, height: h})
		totalH += h + pngPaddingPx
		if w > maxW {
			maxW = w
		}
	}

	dc := gg.NewContext(maxW+2*pngPaddingPx, totalH)
	dc.SetHexColor("#181825")
	dc.Clear()

	y := pngPaddingPx
	for _, p := range panels {
		fill := p.canvas.Background
		if fill == "" {
			fill = defaultCanvasFill
		}
		dc.SetHexColor(fill)
		dc.DrawRectangle(float64(pngPaddingPx), float64(y), float64(p.width), float64(p.height))
		dc.Fill()

		items := make([]*board.Item, len(p.canvas.Items))
		copy(items, p.canvas.Items)
		sort.SliceStable(items, func(i, j int) bool { return items[i].ZIndex < items[j].ZIndex })

		for _, it := range items {
			ix := pngPaddingPx + conv.UnitsToPixelsX(it.Wide.X, p.canvas.ID)
			iy := y + conv.UnitsToPixelsY(it.Wide.Y)
			iw := conv.UnitsToPixelsX(it.Wide.Width, p.canvas.ID)
			ih := conv.UnitsToPixelsY(it.Wide.Height)
			if iw <= 0 || ih <= 0 {
				continue
			}
			dc.SetHexColor(defaultItemFill)
			dc.DrawRectangle(float64(ix), float64(iy), float64(iw), float64(ih))
			dc.Fill()
			dc.SetHexColor(itemStroke)
			dc.SetLineWidth(2)
			dc.DrawRectangle(float64(ix), float64(iy), float64(iw), float64(ih))
			dc.Stroke()
		}
		y += p.height + pngPaddingPx
	}

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}
