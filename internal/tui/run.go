package tui

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gastos-cli/gastos/internal/common"
	"github.com/gastos-cli/gastos/internal/queries"
	"github.com/gastos-cli/gastos/internal/session"
	"github.com/gastos-cli/gastos/internal/settings"
	"github.com/gastos-cli/gastos/internal/tui/themes"
)

// Config holds the dependencies for running the TUI.
type Config struct {
	Service  *queries.Service
	Session  *session.Holder
	Settings *settings.Store
	Theme    themes.Theme
}

// Run starts the interactive dashboard and blocks until the user quits or
// the session expires.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Service == nil {
		return fmt.Errorf("service is required")
	}
	if cfg.Session == nil {
		return fmt.Errorf("session is required")
	}
	if cfg.Settings == nil {
		return fmt.Errorf("settings store is required")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Restore the terminal on any exit path, including panics inside
	// bubbletea. Errors are ignored, this is best effort.
	cleanupTerminal := func() {
		_, _ = os.Stdout.Write([]byte("\033[?1049l")) // Exit alternate screen
		_, _ = os.Stdout.Write([]byte("\033[?25h"))   // Show cursor
		_, _ = os.Stdout.Write([]byte("\033[m"))      // Reset colors
	}
	defer cleanupTerminal()

	program := tea.NewProgram(
		newModel(cfg),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)

	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	final, err := program.Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("running dashboard: %w", err)
	}

	if m, ok := final.(Model); ok && m.SessionExpired() {
		return common.ErrNotAuthenticated
	}
	return nil
}
