package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"portfolio/internal/contact"
	"portfolio/internal/content"
	"portfolio/internal/nav"
)

type Options struct {
	Site *content.Site
	// Nav is the controller config; its margin is in terminal rows.
	Nav nav.Config
	// Sender delivers contact messages. Contact carries the rest of the form
	// settings; its OnChange is owned by the TUI.
	Sender  contact.Sender
	Contact contact.Options
	// Theme is the configured palette: auto, light or dark.
	Theme     string
	ResumeURL string
	Logger    *zap.Logger
	// Now drives the navigation grace window (time.Now when nil).
	Now func() time.Time
}

// Run starts the interactive portfolio and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, opts Options) error {
	applyColorProfilePreference()
	applyThemePreference(opts.Theme)

	m, err := newAppModel(ctx, opts)
	if err != nil {
		return err
	}
	defer m.form.Close()

	_, err = tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	).Run()
	return err
}
