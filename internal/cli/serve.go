package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"portfolio/internal/content"
	"portfolio/internal/web"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the portfolio site and the contact API",
		Example: strings.TrimSpace(`
# Serve on the configured address (default :8080)
portfolio serve

# Reload a custom content file on save
portfolio --content ./site.yaml serve --addr 127.0.0.1:3000 --watch
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			if a := strings.TrimSpace(addr); a != "" {
				cfg.Server.Addr = a
			}
			if watch && strings.TrimSpace(cfg.Content) == "" {
				return writeErr(cmd, errors.New("serve: --watch needs a content file (--content)"))
			}

			site, _, err := loadSite(cfg)
			if err != nil {
				return writeErr(cmd, err)
			}
			log, err := app.logger(cfg)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sender, inbox, err := recordingSender(ctx, cfg, log)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer inbox.Close()

			srv, err := web.New(web.Config{
				Addr:            cfg.Server.Addr,
				AllowAllOrigins: cfg.Server.AllowAllOrigins,
				Theme:           string(cfg.Theme),
				ResumeURL:       cfg.ResumeURL,
				Nav:             cfg.NavFor,
				Contact:         contactOptions(cfg, log),
			}, site, sender, log)
			if err != nil {
				return writeErr(cmd, err)
			}

			if watch {
				go func() {
					err := content.Watch(ctx, cfg.Content, log, func(s *content.Site) {
						if err := srv.SetSite(s); err != nil {
							log.Error("content rejected", zap.Error(err))
						}
					})
					if err != nil {
						log.Error("content watch stopped", zap.Error(err))
					}
				}()
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Portfolio running at %s\n", displayURL(cfg.Server.Addr))
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Bind address (host:port or :port; default from config)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Reload the content file when it changes")
	return cmd
}

func displayURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
}
