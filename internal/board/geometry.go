package board

// Point is a pixel position.
type Point struct {
	X int
	Y int
}

// Rect is a pixel rectangle. Used for visual frames, canvas bounds, and
// viewport intersection; grid-unit geometry lives in Layout instead.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Center returns the rectangle's centroid.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether p falls inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Intersects reports whether the two rectangles overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.Width && o.X < r.X+r.Width &&
		r.Y < o.Y+o.Height && o.Y < r.Y+r.Height
}

// Expand grows the rectangle by margin pixels on every side. A negative
// margin shrinks it; width and height never drop below zero.
func (r Rect) Expand(margin int) Rect {
	out := Rect{
		X:      r.X - margin,
		Y:      r.Y - margin,
		Width:  r.Width + 2*margin,
		Height: r.Height + 2*margin,
	}
	if out.Width < 0 {
		out.Width = 0
	}
	if out.Height < 0 {
		out.Height = 0
	}
	return out
}
