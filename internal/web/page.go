package web

import (
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"portfolio/internal/contact"
	"portfolio/internal/content"
	"portfolio/internal/nav"
)

const themeCookie = "theme"

type navItemVM struct {
	ID     string
	Title  string
	Active bool
}

type sectionVM struct {
	ID      string
	Title   string
	HTML    template.HTML
	Contact bool
}

// spyVM carries the scroll-spy tuning to the page script.
type spyVM struct {
	Sections   string
	Default    string
	Thresholds string
	RootMargin string
	GraceMs    int64
}

type pageVM struct {
	Owner     content.Owner
	Theme     string
	Nav       []navItemVM
	Sections  []sectionVM
	ResumeURL string
	Spy       spyVM
	Form      formVM
}

// formVM is a contact.Snapshot flattened for templates.
type formVM struct {
	Name         string
	Email        string
	Message      string
	NameError    string
	EmailError   string
	MessageError string
	Status       string
	Notice       string
	Locked       bool
	ButtonLabel  string
}

func formVMFrom(s contact.Snapshot) formVM {
	vm := formVM{
		Name:         s.Values.Name,
		Email:        s.Values.Email,
		Message:      s.Values.Message,
		NameError:    s.Errors[contact.FieldName],
		EmailError:   s.Errors[contact.FieldEmail],
		MessageError: s.Errors[contact.FieldMessage],
		Status:       s.Status.String(),
		Notice:       s.Notice,
		Locked:       s.Status == contact.StatusSubmitting,
		ButtonLabel:  "Send Message",
	}
	if vm.Locked {
		vm.ButtonLabel = "Sending..."
	}
	return vm
}

// themeFor picks the visitor's cookie over the configured theme. An empty
// result leaves the choice to the browser's color-scheme preference.
func (s *Server) themeFor(r *http.Request) string {
	if c, err := r.Cookie(themeCookie); err == nil {
		switch v := strings.ToLower(strings.TrimSpace(c.Value)); v {
		case "dark", "light":
			return v
		}
	}
	switch s.cfg.Theme {
	case "dark", "light":
		return s.cfg.Theme
	}
	return ""
}

func (s *Server) pageVM(r *http.Request) (pageVM, error) {
	site, nc := s.snapshot()
	ctrl, err := nav.New(nc)
	if err != nil {
		return pageVM{}, err
	}

	vm := pageVM{
		Owner:     site.Owner,
		Theme:     s.themeFor(r),
		ResumeURL: s.cfg.ResumeURL,
		Form:      formVMFrom(contact.Snapshot{}),
		Spy: spyVM{
			Sections:   strings.Join(ctrl.Sections(), ","),
			Default:    ctrl.Active(),
			Thresholds: joinFloats(nc.Thresholds),
			RootMargin: nc.Margin.String(),
			GraceMs:    nc.GracePeriod.Milliseconds(),
		},
	}
	for _, id := range ctrl.Sections() {
		vm.Nav = append(vm.Nav, navItemVM{ID: id, Title: site.Title(id), Active: id == ctrl.Active()})
	}
	for _, id := range site.SectionIDs() {
		vm.Sections = append(vm.Sections, sectionVM{
			ID:      id,
			Title:   site.Title(id),
			HTML:    sectionHTML(id, site.Markdown(id)),
			Contact: id == "contact",
		})
	}
	return vm, nil
}

func joinFloats(fs []float64) string {
	if len(fs) == 0 {
		fs = nav.DefaultThresholds
	}
	parts := make([]string, 0, len(fs))
	for _, f := range fs {
		parts = append(parts, strconv.FormatFloat(f, 'f', -1, 64))
	}
	return strings.Join(parts, ",")
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	vm, err := s.pageVM(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeHTMLTemplate(w, "page.html", vm)
}

type sectionDTO struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Nav     bool   `json:"nav"`
	Default bool   `json:"default,omitempty"`
}

func (s *Server) handleSections(w http.ResponseWriter, r *http.Request) {
	site, nc := s.snapshot()
	ctrl, err := nav.New(nc)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	out := make([]sectionDTO, 0, len(site.Sections))
	for _, id := range site.SectionIDs() {
		out = append(out, sectionDTO{
			ID:      id,
			Title:   site.Title(id),
			Nav:     ctrl.Has(id),
			Default: id == ctrl.Active(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	if s.cfg.ResumeURL == "" {
		http.Error(w, "no résumé configured", http.StatusNotFound)
		return
	}
	http.Redirect(w, r, s.cfg.ResumeURL, http.StatusFound)
}
