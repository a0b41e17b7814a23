package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything gridboard reads from its config file.
type Config struct {
	Grid     GridConfig
	History  HistoryConfig
	Drag     DragConfig
	Lazyload LazyloadConfig
	UI       UIConfig
}

// GridConfig tunes the coordinate system.
type GridConfig struct {
	HorizontalPercent float64
	MinUnitPx         int
	MaxUnitPx         int
	RowHeightPx       int
}

// HistoryConfig bounds the undo stack.
type HistoryConfig struct {
	Capacity int
}

// DragConfig tunes gesture commits.
type DragConfig struct {
	EdgeSnapPx  int
	MinWidthPx  int
	MinHeightPx int
}

// LazyloadConfig tunes the pre-render margin.
type LazyloadConfig struct {
	MarginFraction float64
	MarginPx       int
}

// UIConfig holds user preferences for the terminal front-end.
type UIConfig struct {
	Theme      string
	LayoutDB   string
	LastLayout string
}

const (
	defaultConfigPath = "~/.config/gridboard/config.toml"
	defaultLayoutDB   = "~/.local/share/gridboard/layouts.db"
	defaultTheme      = "dark"
	defaultLastLayout = "default"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Grid: GridConfig{
			HorizontalPercent: 0.02,
			RowHeightPx:       20,
		},
		History: HistoryConfig{Capacity: 50},
		Drag: DragConfig{
			EdgeSnapPx:  20,
			MinWidthPx:  100,
			MinHeightPx: 80,
		},
		Lazyload: LazyloadConfig{
			MarginFraction: 0.2,
			MarginPx:       200,
		},
		UI: UIConfig{
			Theme:      defaultTheme,
			LayoutDB:   mustExpand(defaultLayoutDB),
			LastLayout: defaultLastLayout,
		},
	}
}

// Load locates and parses the config file, falling back to defaults when it
// is missing. Zero or negative values in the file keep their defaults.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Grid struct {
			HorizontalPercent float64 `toml:"horizontal_percent"`
			MinUnitPx         int     `toml:"min_unit_px"`
			MaxUnitPx         int     `toml:"max_unit_px"`
			RowHeightPx       int     `toml:"row_height_px"`
		} `toml:"grid"`
		History struct {
			Capacity int `toml:"capacity"`
		} `toml:"history"`
		Drag struct {
			EdgeSnapPx  int `toml:"edge_snap_px"`
			MinWidthPx  int `toml:"min_width_px"`
			MinHeightPx int `toml:"min_height_px"`
		} `toml:"drag"`
		Lazyload struct {
			MarginFraction float64 `toml:"margin_fraction"`
			MarginPx       int     `toml:"margin_px"`
		} `toml:"lazyload"`
		UI struct {
			Theme      string `toml:"theme"`
			LayoutDB   string `toml:"layout_db"`
			LastLayout string `toml:"last_layout"`
		} `toml:"ui"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if raw.Grid.HorizontalPercent > 0 {
		cfg.Grid.HorizontalPercent = raw.Grid.HorizontalPercent
	}
	if raw.Grid.MinUnitPx > 0 {
		cfg.Grid.MinUnitPx = raw.Grid.MinUnitPx
	}
	if raw.Grid.MaxUnitPx > 0 {
		cfg.Grid.MaxUnitPx = raw.Grid.MaxUnitPx
	}
	if raw.Grid.RowHeightPx > 0 {
		cfg.Grid.RowHeightPx = raw.Grid.RowHeightPx
	}
	if raw.History.Capacity > 0 {
		cfg.History.Capacity = raw.History.Capacity
	}
	if raw.Drag.EdgeSnapPx > 0 {
		cfg.Drag.EdgeSnapPx = raw.Drag.EdgeSnapPx
	}
	if raw.Drag.MinWidthPx > 0 {
		cfg.Drag.MinWidthPx = raw.Drag.MinWidthPx
	}
	if raw.Drag.MinHeightPx > 0 {
		cfg.Drag.MinHeightPx = raw.Drag.MinHeightPx
	}
	if raw.Lazyload.MarginFraction > 0 {
		cfg.Lazyload.MarginFraction = raw.Lazyload.MarginFraction
	}
	if raw.Lazyload.MarginPx > 0 {
		cfg.Lazyload.MarginPx = raw.Lazyload.MarginPx
	}
	if theme := strings.TrimSpace(raw.UI.Theme); theme != "" {
		cfg.UI.Theme = theme
	}
	if db := strings.TrimSpace(raw.UI.LayoutDB); db != "" {
		cfg.UI.LayoutDB = mustExpand(db)
	}
	if last := strings.TrimSpace(raw.UI.LastLayout); last != "" {
		cfg.UI.LastLayout = last
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
