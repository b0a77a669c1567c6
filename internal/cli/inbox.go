package cli

import (
	"errors"

	"portfolio/internal/store"

	"github.com/spf13/cobra"
)

func newInboxCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "Messages recorded by the contact form",
	}
	cmd.AddCommand(newInboxListCmd(app))
	cmd.AddCommand(newInboxShowCmd(app))
	return cmd
}

func newInboxListCmd(app *App) *cobra.Command {
	var limit int
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List submissions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			f := store.Filter{Limit: limit}
			if status != "" {
				st, err := store.ParseStatus(status)
				if err != nil {
					return writeErr(cmd, err)
				}
				f.Status = st
			}

			inbox, err := store.OpenInbox(cmd.Context(), cfg.DataDir)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer inbox.Close()

			subs, err := inbox.List(cmd.Context(), f)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": subs})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of submissions (0 = all)")
	cmd.Flags().StringVar(&status, "status", "", "Only this status (pending|sent|failed)")
	return cmd
}

func newInboxShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			inbox, err := store.OpenInbox(cmd.Context(), cfg.DataDir)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer inbox.Close()

			sub, err := inbox.Get(cmd.Context(), args[0])
			if errors.Is(err, store.ErrNotFound) {
				return writeErr(cmd, errNotFound("submission", args[0]))
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": sub})
		},
	}
}
