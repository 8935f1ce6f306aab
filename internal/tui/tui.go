// Package tui provides the terminal board surface for corkboard using
// bubbletea. It renders the canvas state and drives the controller from
// keyboard input; backend writes are fire and forget through the syncer.
package tui

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"corkboard/internal/api"
	"corkboard/internal/canvas"
	"corkboard/internal/config"
)

// TUI is the terminal UI for one open board.
type TUI struct {
	client api.Client
	cfg    *config.Config
	board  api.Board
	logger *slog.Logger
}

// Option configures the TUI.
type Option func(*TUI)

// New creates a TUI for the given board.
func New(client api.Client, cfg *config.Config, board api.Board, opts ...Option) *TUI {
	t := &TUI{
		client: client,
		cfg:    cfg,
		board:  board,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// WithLogger sets the logger used for sync failures.
func WithLogger(logger *slog.Logger) Option {
	return func(t *TUI) {
		t.logger = logger
	}
}

// Run starts the TUI and blocks until it exits.
func (t *TUI) Run() error {
	syncer := canvas.NewSyncer(t.client, t.board.ID, t.logger)
	m := newModel(t.client, t.cfg, t.board, syncer)

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
