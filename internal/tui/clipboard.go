package tui

import (
	"errors"
	"os/exec"
	"runtime"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type clipboardDoneMsg struct {
	text string
	err  error
}

// clipboardCommands lists the copy tools to try for the current OS, in order.
func clipboardCommands() [][]string {
	switch runtime.GOOS {
	case "darwin":
		return [][]string{{"pbcopy"}}
	case "windows":
		return [][]string{{"cmd", "/c", "clip"}, {"powershell", "-NoProfile", "-Command", "Set-Clipboard"}}
	default:
		return [][]string{{"wl-copy"}, {"xclip", "-selection", "clipboard"}, {"xsel", "--clipboard", "--input"}}
	}
}

// copyText puts s on the system clipboard with the first tool that works.
func copyText(s string) tea.Cmd {
	return func() tea.Msg {
		s := strings.TrimSpace(s)
		if s == "" {
			return clipboardDoneMsg{err: errors.New("nothing to copy")}
		}
		var lastErr error
		for _, argv := range clipboardCommands() {
			if _, err := exec.LookPath(argv[0]); err != nil {
				lastErr = err
				continue
			}
			cmd := exec.Command(argv[0], argv[1:]...)
			cmd.Stdin = strings.NewReader(s)
			if err := cmd.Run(); err != nil {
				lastErr = errors.New(argv[0] + ": " + err.Error())
				continue
			}
			return clipboardDoneMsg{text: s}
		}
		return clipboardDoneMsg{err: lastErr}
	}
}
