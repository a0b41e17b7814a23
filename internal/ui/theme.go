package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette for the board UI.
type Theme struct {
	Name string

	Background string
	Surface    string

	Border      string
	BorderFocus string

	Text   string
	Muted  string
	Accent string

	Success string
	Warning string
	Danger  string

	ItemFill     string
	ItemSelected string
	Ghost        string
}

var themes = map[string]Theme{
	"dark": {
		Name:         "dark",
		Background:   "#1e1e2e",
		Surface:      "#313244",
		Border:       "#45475a",
		BorderFocus:  "#89b4fa",
		Text:         "#cdd6f4",
		Muted:        "#7f849c",
		Accent:       "#89b4fa",
		Success:      "#a6e3a1",
		Warning:      "#f9e2af",
		Danger:       "#f38ba8",
		ItemFill:     "#585b70",
		ItemSelected: "#89b4fa",
		Ghost:        "#f9e2af",
	},
	"light": {
		Name:         "light",
		Background:   "#eff1f5",
		Surface:      "#e6e9ef",
		Border:       "#9ca0b0",
		BorderFocus:  "#1e66f5",
		Text:         "#4c4f69",
		Muted:        "#8c8fa1",
		Accent:       "#1e66f5",
		Success:      "#40a02b",
		Warning:      "#df8e1d",
		Danger:       "#d20f39",
		ItemFill:     "#bcc0cc",
		ItemSelected: "#1e66f5",
		Ghost:        "#df8e1d",
	},
}

// GetTheme resolves a theme by name, falling back to dark.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes["dark"]
}

// Styles are the Lipgloss styles derived from a theme.
type Styles struct {
	Header lipgloss.Style
	Footer lipgloss.Style
	Status lipgloss.Style

	Button       lipgloss.Style
	ButtonActive lipgloss.Style

	Canvas      lipgloss.Style
	CanvasFocus lipgloss.Style
	CanvasTitle lipgloss.Style

	MutedText  lipgloss.Style
	AccentText lipgloss.Style
	DangerText lipgloss.Style
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),

		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)).
			Padding(0, 1),

		Button: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),

		ButtonActive: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Accent)).
			Foreground(lipgloss.Color(t.Background)).
			Padding(0, 1),

		Canvas: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(t.Border)),

		CanvasFocus: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(t.BorderFocus)),

		CanvasTitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),

		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),

		AccentText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)),

		DangerText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)),
	}
}
