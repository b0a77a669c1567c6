package cli

import (
	"portfolio/internal/logging"
	"portfolio/internal/tui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runTUI(cmd *cobra.Command, app *App) error {
	cfg, err := app.loadConfig()
	if err != nil {
		return writeErr(cmd, err)
	}
	site, nc, err := loadSite(cfg)
	if err != nil {
		return writeErr(cmd, err)
	}
	// The UI owns the terminal; logs always go to a file.
	log, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.LogFile(), Verbose: app.Verbose})
	if err != nil {
		return writeErr(cmd, err)
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	sender, inbox, err := recordingSender(ctx, cfg, log)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer inbox.Close()

	nc.Margin = cfg.TerminalMargin()
	log.Info("starting tui", zap.Strings("sections", nc.Sections), zap.String("theme", string(cfg.Theme)))
	return tui.Run(ctx, tui.Options{
		Site:      site,
		Nav:       nc,
		Sender:    sender,
		Contact:   contactOptions(cfg, log),
		Theme:     string(cfg.Theme),
		ResumeURL: cfg.ResumeURL,
		Logger:    log,
	})
}
