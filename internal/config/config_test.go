package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Grid.HorizontalPercent != 0.02 || cfg.Grid.RowHeightPx != 20 {
		t.Fatalf("grid defaults = %+v", cfg.Grid)
	}
	if cfg.History.Capacity != 50 {
		t.Fatalf("history capacity = %d, want 50", cfg.History.Capacity)
	}
	if cfg.Drag.EdgeSnapPx != 20 || cfg.Drag.MinWidthPx != 100 || cfg.Drag.MinHeightPx != 80 {
		t.Fatalf("drag defaults = %+v", cfg.Drag)
	}
	if cfg.UI.Theme != "dark" {
		t.Fatalf("theme = %q, want dark", cfg.UI.Theme)
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[grid]
horizontal_percent = 0.05
row_height_px = 24

[history]
capacity = 100

[drag]
edge_snap_px = 10

[ui]
theme = "light"
last_layout = "ops"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Grid.HorizontalPercent != 0.05 || cfg.Grid.RowHeightPx != 24 {
		t.Fatalf("grid = %+v", cfg.Grid)
	}
	if cfg.History.Capacity != 100 {
		t.Fatalf("capacity = %d, want 100", cfg.History.Capacity)
	}
	if cfg.Drag.EdgeSnapPx != 10 {
		t.Fatalf("edge snap = %d, want 10", cfg.Drag.EdgeSnapPx)
	}
	// Unset drag fields keep defaults.
	if cfg.Drag.MinWidthPx != 100 || cfg.Drag.MinHeightPx != 80 {
		t.Fatalf("drag floors = %+v, want defaults", cfg.Drag)
	}
	if cfg.UI.Theme != "light" || cfg.UI.LastLayout != "ops" {
		t.Fatalf("ui = %+v", cfg.UI)
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[grid\nbroken"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed TOML should be an error")
	}
}

func TestExpandTilde(t *testing.T) {
	got, err := expandPath("~/x/y.toml")
	if err != nil {
		t.Fatalf("expandPath: %v", err)
	}
	home, _ := os.UserHomeDir()
	if got != filepath.Join(home, "x", "y.toml") {
		t.Fatalf("expanded = %q", got)
	}
}
