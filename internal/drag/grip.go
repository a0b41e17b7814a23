package drag

import "gridboard/internal/board"

// Grip identifies which of the eight resize handles a gesture grabbed:
// four corners and four edges.
type Grip int

const (
	GripNone Grip = iota
	GripN
	GripNE
	GripE
	GripSE
	GripS
	GripSW
	GripW
	GripNW
)

func (g Grip) String() string {
	switch g {
	case GripN:
		return "n"
	case GripNE:
		return "ne"
	case GripE:
		return "e"
	case GripSE:
		return "se"
	case GripS:
		return "s"
	case GripSW:
		return "sw"
	case GripW:
		return "w"
	case GripNW:
		return "nw"
	}
	return "none"
}

func (g Grip) hasN() bool { return g == GripN || g == GripNE || g == GripNW }
func (g Grip) hasS() bool { return g == GripS || g == GripSE || g == GripSW }
func (g Grip) hasE() bool { return g == GripE || g == GripNE || g == GripSE }
func (g Grip) hasW() bool { return g == GripW || g == GripNW || g == GripSW }

// applyGrip produces the rectangle after dragging grip by the cumulative
// deltas. North/west grips shift position and size together in one frame, so
// the anchored edge never visually jumps. The floor keeps the opposite edge
// fixed while refusing to shrink below the minimum.
func applyGrip(base board.Rect, g Grip, dx, dy, minW, minH int) board.Rect {
	r := base
	if g.hasE() {
		r.Width += dx
	}
	if g.hasW() {
		r.X += dx
		r.Width -= dx
	}
	if g.hasS() {
		r.Height += dy
	}
	if g.hasN() {
		r.Y += dy
		r.Height -= dy
	}

	if r.Width < minW {
		if g.hasW() {
			r.X = base.X + base.Width - minW
		}
		r.Width = minW
	}
	if r.Height < minH {
		if g.hasN() {
			r.Y = base.Y + base.Height - minH
		}
		r.Height = minH
	}
	return r
}
