package cli

import (
	"portfolio/internal/nav"

	"github.com/spf13/cobra"
)

type sectionRow struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Nav     bool   `json:"nav"`
	Default bool   `json:"default,omitempty"`
}

func newSectionsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sections",
		Short: "List content sections and which ones appear in the nav",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			site, nc, err := loadSite(cfg)
			if err != nil {
				return writeErr(cmd, err)
			}
			ctrl, err := nav.New(nc)
			if err != nil {
				return writeErr(cmd, err)
			}

			rows := make([]sectionRow, 0, len(site.Sections))
			for _, id := range site.SectionIDs() {
				rows = append(rows, sectionRow{
					ID:      id,
					Title:   site.Title(id),
					Nav:     ctrl.Has(id),
					Default: id == ctrl.Active(),
				})
			}
			return writeOut(cmd, app, map[string]any{"data": rows})
		},
	}
}
