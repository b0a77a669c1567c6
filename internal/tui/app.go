package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"portfolio/internal/contact"
	"portfolio/internal/content"
	"portfolio/internal/nav"
)

// contactSectionID is the section that advertises the contact form.
const contactSectionID = "contact"

type (
	formChangedMsg struct{}
	submitDoneMsg  struct {
		res contact.SubmitResult
		err error
	}
)

// scrollTarget receives the controller's scroll requests. It is shared by
// every copy of the model, so the request survives Bubble Tea's value updates.
type scrollTarget struct{ id string }

type appModel struct {
	ctx  context.Context
	site *content.Site
	log  *zap.Logger

	nav  *nav.Controller
	spy  *nav.Spy
	jump *scrollTarget

	form        *contact.Form
	formChanged chan struct{}

	resumeURL string

	keys keyMap
	help help.Model
	vp   viewport.Model

	ready   bool
	width   int
	height  int
	anchors map[string]int

	contactOpen bool
	contact     contactModal
	flash       string
}

func newAppModel(ctx context.Context, opts Options) (appModel, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	jump := &scrollTarget{}
	ctrl, err := nav.New(opts.Nav,
		nav.WithClock(now),
		nav.WithScroller(nav.ScrollerFunc(func(id string) { jump.id = id })),
		nav.WithOnChange(func(from, to string) {
			log.Debug("active section changed", zap.String("from", from), zap.String("to", to))
		}),
	)
	if err != nil {
		return appModel{}, err
	}

	changed := make(chan struct{}, 1)
	copts := opts.Contact
	if copts.Logger == nil {
		copts.Logger = log
	}
	copts.OnChange = func(contact.Snapshot) {
		select {
		case changed <- struct{}{}:
		default:
		}
	}
	form := contact.NewForm(opts.Sender, copts)

	m := appModel{
		ctx:         ctx,
		site:        opts.Site,
		log:         log,
		nav:         ctrl,
		spy:         nav.NewSpy(ctrl, opts.Nav.Thresholds, opts.Nav.Margin),
		jump:        jump,
		form:        form,
		formChanged: changed,
		resumeURL:   strings.TrimSpace(opts.ResumeURL),
		keys:        defaultKeyMap(),
		help:        help.New(),
		anchors:     map[string]int{},
	}
	m.contact = newContactModal(form)
	return m, nil
}

func (m appModel) Init() tea.Cmd { return m.waitForForm() }

// waitForForm turns the form's change notifications (which may come from a
// send or a reset timer goroutine) into messages on the update loop.
func (m appModel) waitForForm() tea.Cmd {
	ctx, ch := m.ctx, m.formChanged
	return func() tea.Msg {
		select {
		case <-ch:
			return formChangedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.contact.setWidth(msg.Width)
		m.layout()
		return m, nil

	case formChangedMsg:
		m.contact.sync(m.form.Snapshot())
		return m, m.waitForForm()

	case submitDoneMsg:
		m.contact.sync(m.form.Snapshot())
		return m, nil

	case clipboardDoneMsg:
		if msg.err != nil {
			m.flash = "Could not copy: " + msg.err.Error()
		} else {
			m.flash = "Copied " + msg.text
		}
		return m, nil

	case urlOpenDoneMsg:
		if msg.err != nil {
			m.flash = "Could not open résumé: " + msg.err.Error()
		}
		return m, nil

	case tea.MouseMsg:
		if m.contactOpen || !m.ready || msg.Action != tea.MouseActionPress {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelDown:
			m.vp.LineDown(3)
			m.observe()
		case tea.MouseButtonWheelUp:
			m.vp.LineUp(3)
			m.observe()
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.contactOpen {
			return m.updateContact(msg)
		}
		return m.updateMain(msg)
	}
	return m, nil
}

func (m appModel) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.flash = ""
	if !m.ready {
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Next):
		m.navigate(m.nav.Neighbor(1))
	case key.Matches(msg, m.keys.Prev):
		m.navigate(m.nav.Neighbor(-1))
	case key.Matches(msg, m.keys.Jump):
		i := int(msg.Runes[0] - '1')
		if ids := m.nav.Sections(); i < len(ids) {
			m.navigate(ids[i])
		}
	case key.Matches(msg, m.keys.Down):
		m.vp.LineDown(1)
		m.observe()
	case key.Matches(msg, m.keys.Up):
		m.vp.LineUp(1)
		m.observe()
	case key.Matches(msg, m.keys.PageDown):
		m.vp.ViewDown()
		m.observe()
	case key.Matches(msg, m.keys.PageUp):
		m.vp.ViewUp()
		m.observe()
	case key.Matches(msg, m.keys.Top):
		m.vp.GotoTop()
		m.observe()
	case key.Matches(msg, m.keys.Bottom):
		m.vp.GotoBottom()
		m.observe()
	case key.Matches(msg, m.keys.Theme):
		m.flash = "Theme: " + toggleTheme()
		m.layout()
	case key.Matches(msg, m.keys.Contact):
		m.contactOpen = true
		m.contact.sync(m.form.Snapshot())
		return m, m.contact.setFocus(focusName)
	case key.Matches(msg, m.keys.Resume):
		return m, openURL(m.resumeURL)
	case key.Matches(msg, m.keys.Copy):
		return m, copyText(m.site.Owner.Email)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
	}
	return m, nil
}

func (m appModel) updateContact(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd, action := m.contact.update(msg)
	switch action {
	case modalClose:
		m.contactOpen = false
		return m, nil
	case modalSubmit:
		return m, m.submit()
	}
	return m, cmd
}

// submit locks the form synchronously, then runs the send off the update loop.
func (m *appModel) submit() tea.Cmd {
	a, _ := m.form.Start()
	m.contact.sync(m.form.Snapshot())
	if a == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		res, err := a.Wait(ctx)
		return submitDoneMsg{res: res, err: err}
	}
}

func (m *appModel) navigate(id string) {
	if err := m.nav.NavigateTo(id); err != nil {
		m.flash = err.Error()
		return
	}
	if m.jump.id != "" {
		m.vp.SetYOffset(m.anchors[m.jump.id])
		m.jump.id = ""
	}
	m.observe()
}

// observe feeds the current viewport to the scroll spy.
func (m *appModel) observe() {
	m.spy.Observe(m.vp.YOffset, m.vp.Height)
}

func (m *appModel) footerView() string {
	if m.flash != "" {
		return normalizePane(styleMuted().Render(m.flash), m.width, 1)
	}
	return m.help.View(m.keys)
}

// layout re-renders every section for the current size and keeps the section
// at the top of the viewport in place.
func (m *appModel) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	const headerH = 2
	vpH := max(m.height-headerH-lipgloss.Height(m.footerView()), 1)

	body, anchors, extents := m.renderBody(m.width, vpH)

	offset := 0
	if m.ready {
		// Keep the same section line at the top across reflows.
		for _, e := range m.spy.Layout() {
			if m.vp.YOffset >= e.Top && m.vp.YOffset < e.Top+e.Height {
				offset = anchors[e.ID] + min(m.vp.YOffset-e.Top, e.Height-1)
				break
			}
		}
		m.vp.Width = m.width
		m.vp.Height = vpH
	} else {
		m.vp = viewport.New(m.width, vpH)
		offset = anchors[m.nav.Active()]
		m.ready = true
	}
	m.anchors = anchors
	m.vp.SetContent(body)
	m.vp.SetYOffset(offset)
	m.spy.SetLayout(extents)
	m.observe()
}

func (m *appModel) renderBody(width, vpH int) (string, map[string]int, []nav.Extent) {
	const indent = "  "
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	mdW := max(width-2*len(indent), 10)

	var lines []string
	anchors := map[string]int{}
	var extents []nav.Extent
	for _, id := range m.site.SectionIDs() {
		top := len(lines)
		block := []string{titleStyle.Render(strings.ToUpper(m.site.Title(id))), ""}
		if md := renderMarkdown(m.site.Markdown(id), mdW); md != "" {
			block = append(block, strings.Split(md, "\n")...)
		}
		if id == contactSectionID {
			block = append(block, "", styleMuted().Render("Press c to open the contact form."))
		}
		block = append(block, "", "")
		for _, ln := range block {
			lines = append(lines, indent+ln)
		}
		anchors[id] = top
		extents = append(extents, nav.Extent{ID: id, Top: top, Height: len(block)})
	}

	// Pad the tail so the last section can still be scrolled to the top.
	if n := len(extents); n > 0 {
		for pad := vpH - extents[n-1].Height; pad > 0; pad-- {
			lines = append(lines, "")
		}
	}
	return strings.Join(lines, "\n"), anchors, extents
}

func (m appModel) View() string {
	if !m.ready {
		return "Loading…"
	}
	if m.contactOpen {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.contact.view(m.width))
	}

	tabs := make([]navTab, 0, len(m.nav.Sections()))
	for _, id := range m.nav.Sections() {
		tabs = append(tabs, navTab{ID: id, Title: m.site.Title(id)})
	}
	header := renderNavBar(m.width, tabs, m.nav.Active(), m.resumeURL != "")
	rule := styleMuted().Render(strings.Repeat("─", max(m.width, 0)))

	return strings.Join([]string{header, rule, m.vp.View(), m.footerView()}, "\n")
}
