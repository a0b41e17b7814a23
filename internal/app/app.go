package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gridboard/internal/config"
	"gridboard/internal/docstore"
	"gridboard/internal/drag"
	"gridboard/internal/export"
	"gridboard/internal/grid"
	"gridboard/internal/history"
	"gridboard/internal/lazyload"
	"gridboard/internal/store"
	"gridboard/internal/ui"
)

// Options configure the gridboard application.
type Options struct {
	ConfigPath string // empty uses ~/.config/gridboard/config.toml
	LayoutName string // empty uses the config's last_layout
	LogPath    string // empty discards logs
}

// Services are the wired engine components shared by the UI layer. The drag
// pipeline is not here: it needs canvas geometry, which only the renderer
// can supply, so the UI constructs it from these pieces.
type Services struct {
	Config  config.Config
	Log     *slog.Logger
	Store   *store.Store
	Grid    *grid.Converter
	History *history.History
	Lazy    *lazyload.Scheduler
	Docs    *docstore.Store // nil when the layout database is unavailable
	Layout  string          // active layout name
}

// Run boots the gridboard TUI until the context is cancelled or the user
// quits. The active layout is persisted on clean exit.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, closeLog := openLogger(opts.LogPath)
	defer closeLog()

	svc := buildServices(cfg, log)
	defer svc.Lazy.Destroy()

	svc.Layout = cfg.UI.LastLayout
	if opts.LayoutName != "" {
		svc.Layout = opts.LayoutName
	}

	docs, err := docstore.Open(cfg.UI.LayoutDB)
	if err != nil {
		log.Warn("layout db unavailable, persistence disabled", "path", cfg.UI.LayoutDB, "error", err)
	} else {
		svc.Docs = docs
		if err := restoreLayout(svc); err != nil {
			return err
		}
	}

	uiOpts := ui.Options{
		Context: ctx,
		Config:  svc.Config,
		Log:     svc.Log,
		Store:   svc.Store,
		Grid:    svc.Grid,
		History: svc.History,
		Lazy:    svc.Lazy,
		Docs:    svc.Docs,
		Layout:  svc.Layout,
		Frames:  drag.NewTickScheduler(0),
	}
	if err := ui.Run(uiOpts); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}

	if svc.Docs != nil {
		if err := svc.Docs.Save(svc.Layout, export.Snapshot(svc.Store)); err != nil {
			log.Warn("save layout on exit", "name", svc.Layout, "error", err)
		}
	}
	return nil
}

// buildServices wires the engine from configuration. Split from Run so tests
// can exercise the wiring without a terminal.
func buildServices(cfg config.Config, log *slog.Logger) *Services {
	st := store.New(log)
	return &Services{
		Config: cfg,
		Log:    log,
		Store:  st,
		Grid: grid.NewConverter(grid.Config{
			HorizontalPercent: cfg.Grid.HorizontalPercent,
			MinUnitPx:         cfg.Grid.MinUnitPx,
			MaxUnitPx:         cfg.Grid.MaxUnitPx,
			RowHeightPx:       cfg.Grid.RowHeightPx,
		}, log),
		History: history.New(st, cfg.History.Capacity, log),
		Lazy: lazyload.New(lazyload.Config{
			MarginFraction: cfg.Lazyload.MarginFraction,
			MarginPx:       cfg.Lazyload.MarginPx,
		}, lazyload.RectIntersector(), log),
	}
}

// restoreLayout populates the store from the saved layout document. A layout
// that has never been saved yields a fresh board, not an error.
func restoreLayout(svc *Services) error {
	doc, err := svc.Docs.Load(svc.Layout)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			svc.Log.Info("starting fresh layout", "name", svc.Layout)
			return nil
		}
		return fmt.Errorf("load layout %q: %w", svc.Layout, err)
	}
	if _, err := export.Apply(svc.Store, doc); err != nil {
		return fmt.Errorf("restore layout %q: %w", svc.Layout, err)
	}
	return nil
}

// openLogger returns a text slog writing to path, or a discard logger when
// path is empty or unwritable. A TUI owns the terminal, so stderr is not an
// option while it runs.
func openLogger(path string) (*slog.Logger, func()) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}
	}
	return slog.New(slog.NewTextHandler(f, nil)), func() { _ = f.Close() }
}
