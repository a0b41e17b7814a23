package board

import "github.com/google/uuid"

// ViewportMode selects which layout of every item is authoritative for
// rendering and interaction. It is always passed explicitly; nothing in the
// engine reads an ambient mode.
type ViewportMode int

const (
	ModeWide ViewportMode = iota
	ModeNarrow
)

func (m ViewportMode) String() string {
	if m == ModeNarrow {
		return "narrow"
	}
	return "wide"
}

// Layout is one viewport-mode-specific position/size record in grid units.
// Customized is meaningful only on narrow layouts.
type Layout struct {
	X          int  `json:"x"`
	Y          int  `json:"y"`
	Width      int  `json:"width"`
	Height     int  `json:"height"`
	Customized bool `json:"customized,omitempty"`
}

// Item is a positioned, sized, typed rectangle bound to exactly one canvas.
// A nil Narrow layout means "derive from Wide on read".
type Item struct {
	ID       string         `json:"id"`
	CanvasID string         `json:"canvasId"`
	Type     string         `json:"type"`
	Wide     Layout         `json:"wide"`
	Narrow   *Layout        `json:"narrow,omitempty"`
	ZIndex   int            `json:"zIndex"`
	Config   map[string]any `json:"config,omitempty"`
}

// ActiveLayout returns the layout authoritative under mode. In narrow mode
// with no customized narrow layout the wide layout is derived instead.
func (it *Item) ActiveLayout(mode ViewportMode) Layout {
	if mode == ModeNarrow && it.Narrow != nil {
		return *it.Narrow
	}
	return it.Wide
}

// Clone returns a deep copy sharing no memory with the receiver.
func (it *Item) Clone() *Item {
	if it == nil {
		return nil
	}
	dup := *it
	if it.Narrow != nil {
		n := *it.Narrow
		dup.Narrow = &n
	}
	dup.Config = CloneConfig(it.Config)
	return &dup
}

// CloneConfig copies an opaque configuration record one level deep. Nested
// values are treated as immutable by the engine.
func CloneConfig(cfg map[string]any) map[string]any {
	if cfg == nil {
		return nil
	}
	dup := make(map[string]any, len(cfg))
	for k, v := range cfg {
		dup[k] = v
	}
	return dup
}

// Canvas is an independent drop surface holding an ordered list of items.
type Canvas struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Items         []*Item `json:"items"`
	ZIndexCounter int     `json:"zIndexCounter"`
	Background    string  `json:"background,omitempty"`
}

// Clone returns a deep copy of the canvas and every item on it.
func (c *Canvas) Clone() *Canvas {
	if c == nil {
		return nil
	}
	dup := *c
	if c.Items != nil {
		dup.Items = make([]*Item, len(c.Items))
		for i, it := range c.Items {
			dup.Items[i] = it.Clone()
		}
	}
	return &dup
}

// IndexOf returns the position of the item with the given id, or -1.
func (c *Canvas) IndexOf(itemID string) int {
	for i, it := range c.Items {
		if it.ID == itemID {
			return i
		}
	}
	return -1
}

// NewID returns a fresh unique identifier for canvases and items.
func NewID() string {
	return uuid.NewString()
}
