package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type navTab struct {
	ID    string
	Title string
}

// renderNavBar draws one tab per nav item, numbered for the 1-9 shortcuts,
// with the active tab highlighted and an optional résumé hint on the right.
func renderNavBar(width int, tabs []navTab, active string, resume bool) string {
	base := lipgloss.NewStyle().Padding(0, 1).Foreground(colorSurfaceFg)
	on := base.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true).
		Underline(true)

	parts := make([]string, 0, len(tabs))
	for i, t := range tabs {
		label := t.Title
		if i < 9 {
			label = fmt.Sprintf("%d %s", i+1, t.Title)
		}
		if t.ID == active {
			parts = append(parts, on.Render(label))
		} else {
			parts = append(parts, base.Render(label))
		}
	}
	left := strings.Join(parts, "")

	if !resume {
		return normalizePane(left, width, 1)
	}
	right := styleMuted().Render("R résumé ")
	gap := width - xansi.StringWidth(left) - xansi.StringWidth(right)
	if gap < 1 {
		return normalizePane(left, width, 1)
	}
	return left + strings.Repeat(" ", gap) + right
}
