package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"portfolio/internal/contact"
)

type formFocus int

const (
	focusName formFocus = iota
	focusEmail
	focusMessage
	focusSend
	focusCount
)

// Button labels.
const (
	labelSend    = "Send Message"
	labelSending = "Sending..."
)

// contactModal is the terminal rendering of a contact.Form. The form owns all
// state; the inputs mirror it and push edits back through SetField.
type contactModal struct {
	form    *contact.Form
	name    textinput.Model
	email   textinput.Model
	message textarea.Model
	focus   formFocus
	keys    formKeyMap
	help    help.Model
	snap    contact.Snapshot
}

func newContactModal(form *contact.Form) contactModal {
	c := contactModal{form: form, keys: defaultFormKeyMap(), help: help.New()}

	c.name = textinput.New()
	c.name.Placeholder = "Your name"
	c.name.CharLimit = 120
	c.name.Prompt = ""

	c.email = textinput.New()
	c.email.Placeholder = "you@example.com"
	c.email.CharLimit = 254
	c.email.Prompt = ""

	c.message = textarea.New()
	c.message.Placeholder = "Your message…"
	c.message.CharLimit = 0
	c.message.ShowLineNumbers = false
	c.message.SetHeight(5)

	c.setWidth(80)
	c.sync(form.Snapshot())
	c.setFocus(focusName)
	return c
}

func (c *contactModal) setWidth(screenW int) {
	bodyW := modalBodyWidth(screenW)
	c.name.Width = bodyW - 3
	c.email.Width = bodyW - 3
	c.message.SetWidth(bodyW)
	c.help.Width = bodyW
}

func (c *contactModal) setFocus(f formFocus) tea.Cmd {
	c.focus = (f%focusCount + focusCount) % focusCount
	c.name.Blur()
	c.email.Blur()
	c.message.Blur()
	switch c.focus {
	case focusName:
		return c.name.Focus()
	case focusEmail:
		return c.email.Focus()
	case focusMessage:
		return c.message.Focus()
	}
	return nil
}

// sync mirrors the form state into the inputs (a successful send clears them).
func (c *contactModal) sync(s contact.Snapshot) {
	c.snap = s
	if c.name.Value() != s.Values.Name {
		c.name.SetValue(s.Values.Name)
	}
	if c.email.Value() != s.Values.Email {
		c.email.SetValue(s.Values.Email)
	}
	if c.message.Value() != s.Values.Message {
		c.message.SetValue(s.Values.Message)
	}
}

type modalAction int

const (
	modalNone modalAction = iota
	modalSubmit
	modalClose
)

func (c *contactModal) update(msg tea.KeyMsg) (tea.Cmd, modalAction) {
	switch {
	case key.Matches(msg, c.keys.Close):
		return nil, modalClose
	case key.Matches(msg, c.keys.Submit):
		return nil, modalSubmit
	case key.Matches(msg, c.keys.Next):
		return c.setFocus(c.focus + 1), modalNone
	case key.Matches(msg, c.keys.Prev):
		return c.setFocus(c.focus - 1), modalNone
	}

	if msg.Type == tea.KeyEnter {
		switch c.focus {
		case focusSend:
			return nil, modalSubmit
		case focusName, focusEmail:
			return c.setFocus(c.focus + 1), modalNone
		}
	}

	// Inputs are locked while a submission is in flight.
	if c.form.Status() == contact.StatusSubmitting {
		return nil, modalNone
	}

	var cmd tea.Cmd
	switch c.focus {
	case focusName:
		before := c.name.Value()
		c.name, cmd = c.name.Update(msg)
		c.setField(contact.FieldName, before, c.name.Value())
	case focusEmail:
		before := c.email.Value()
		c.email, cmd = c.email.Update(msg)
		c.setField(contact.FieldEmail, before, c.email.Value())
	case focusMessage:
		before := c.message.Value()
		c.message, cmd = c.message.Update(msg)
		c.setField(contact.FieldMessage, before, c.message.Value())
	}
	c.snap = c.form.Snapshot()
	return cmd, modalNone
}

// setField forwards real edits only; cursor movement must not clear errors.
func (c *contactModal) setField(f contact.Field, before, after string) {
	if before != after {
		_ = c.form.SetField(f, after)
	}
}

func (c contactModal) view(screenW int) string {
	bodyW := modalBodyWidth(screenW)
	label := lipgloss.NewStyle().Bold(true)
	errStyle := lipgloss.NewStyle().Foreground(colorError)

	field := func(title string, f contact.Field, input string) []string {
		out := []string{label.Render(title), input}
		if msg := c.snap.Errors[f]; msg != "" {
			out = append(out, errStyle.Render(msg))
		}
		return append(out, "")
	}

	var rows []string
	rows = append(rows, field("Name", contact.FieldName, renderInputLine(bodyW, c.name.View()))...)
	rows = append(rows, field("Email", contact.FieldEmail, renderInputLine(bodyW, c.email.View()))...)
	rows = append(rows, field("Message", contact.FieldMessage, c.message.View())...)

	btnLabel := labelSend
	if c.snap.Status == contact.StatusSubmitting {
		btnLabel = labelSending
	}
	btn := lipgloss.NewStyle().Padding(0, 1).Foreground(colorSurfaceFg).Background(colorControlBg)
	if c.focus == focusSend {
		btn = btn.Foreground(colorAccentFg).Background(colorAccent).Bold(true)
	}
	rows = append(rows, btn.Render(btnLabel))

	switch c.snap.Status {
	case contact.StatusSuccess:
		rows = append(rows, "", lipgloss.NewStyle().Foreground(colorSuccess).Render(c.snap.Notice))
	case contact.StatusFailed:
		rows = append(rows, "", errStyle.Render(c.snap.Notice))
	}

	rows = append(rows, "", c.help.View(c.keys))
	return renderModalBox(screenW, "Get in touch", strings.Join(rows, "\n"))
}
