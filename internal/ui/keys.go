package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap holds every binding the board UI reacts to.
type keyMap struct {
	Quit       key.Binding
	Help       key.Binding
	Undo       key.Binding
	Redo       key.Binding
	AddItem    key.Binding
	DeleteItem key.Binding
	Mode       key.Binding
	CopyJSON   key.Binding
	Snapshot   key.Binding
	SaveLayout key.Binding
	SaveAs     key.Binding
	NextItem   key.Binding
	PrevItem   key.Binding
	Nudge      key.Binding
	Deselect   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u", "ctrl+z"),
			key.WithHelp("u", "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys("r", "ctrl+y"),
			key.WithHelp("r", "redo"),
		),
		AddItem: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add item"),
		),
		DeleteItem: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete item"),
		),
		Mode: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "wide/narrow"),
		),
		CopyJSON: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy JSON"),
		),
		Snapshot: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "png snapshot"),
		),
		SaveLayout: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "save layout"),
		),
		SaveAs: key.NewBinding(
			key.WithKeys("W"),
			key.WithHelp("W", "save layout as"),
		),
		NextItem: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next item"),
		),
		PrevItem: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev item"),
		),
		Nudge: key.NewBinding(
			key.WithKeys("up", "down", "left", "right"),
			key.WithHelp("arrows", "nudge item"),
		),
		Deselect: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "deselect"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.AddItem, k.Undo, k.Redo, k.Mode, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.AddItem, k.DeleteItem, k.NextItem, k.PrevItem, k.Nudge, k.Deselect},
		{k.Undo, k.Redo, k.Mode},
		{k.CopyJSON, k.Snapshot, k.SaveLayout, k.SaveAs},
		{k.Help, k.Quit},
	}
}
