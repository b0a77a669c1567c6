package cli

import (
	"fmt"
	"os"
	"strings"

	"portfolio/internal/config"
	"portfolio/internal/content"
	"portfolio/internal/format"
	"portfolio/internal/logging"
	"portfolio/internal/nav"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type App struct {
	ConfigPath  string
	ContentPath string
	DataDir     string
	Format      string
	PrettyJSON  bool
	Verbose     bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "portfolio",
		Short:        "Personal portfolio for the terminal and the web",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Browse the portfolio in the terminal
  portfolio

  # Serve the site and the contact API
  portfolio serve --addr :8080 --watch

  # Send a message from a script
  portfolio contact send --name Ada --email ada@example.com --message "Hi"
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("PORTFOLIO_CONFIG", ""), "Path to config.yaml (default ~/.portfolio/config.yaml)")
	cmd.PersistentFlags().StringVar(&app.ContentPath, "content", envOr("PORTFOLIO_CONTENT", ""), "Path to a content YAML file (default: built-in sample)")
	cmd.PersistentFlags().StringVar(&app.DataDir, "data-dir", envOr("PORTFOLIO_DATA_DIR", ""), "Directory for the inbox and logs (default ~/.portfolio)")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("PORTFOLIO_FORMAT", "json"), "Output format (json|yaml)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Debug logging")

	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newSectionsCmd(app))
	cmd.AddCommand(newContactCmd(app))
	cmd.AddCommand(newInboxCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

// loadConfig reads the config file and env overrides, then applies the
// path flags on top.
func (app *App) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return nil, err
	}
	if p := strings.TrimSpace(app.ContentPath); p != "" {
		cfg.Content = p
	}
	if d := strings.TrimSpace(app.DataDir); d != "" {
		cfg.DataDir = d
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadSite loads the content and checks it against the nav configuration. A
// nav item with no matching section fails here, before anything is shown.
func loadSite(cfg *config.Config) (*content.Site, nav.Config, error) {
	site, err := content.Load(cfg.Content)
	if err != nil {
		return nil, nav.Config{}, err
	}
	nc, err := cfg.NavFor(site.SectionIDs())
	if err != nil {
		return nil, nav.Config{}, err
	}
	if _, err := nav.New(nc); err != nil {
		return nil, nav.Config{}, err
	}
	return site, nc, nil
}

// logger writes to stderr unless the config names a file.
func (app *App) logger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File, Verbose: app.Verbose})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
