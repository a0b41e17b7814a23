package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"gridboard/internal/store"
)

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled. Store events are forwarded into the program loop so
// mutations from any source (undo replay included) trigger a repaint.
func Run(opts Options) error {
	if opts.Store == nil {
		return fmt.Errorf("ui requires a store")
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	m := New(opts)
	defer m.Close()

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)

	unsubscribe := opts.Store.Subscribe(store.SectionCanvases, func(ev store.Event) {
		p.Send(storeEventMsg{event: ev})
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
