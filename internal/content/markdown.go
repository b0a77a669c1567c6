package content

import (
	"fmt"
	"strings"
)

// Markdown renders one section as a markdown document: the section's own body
// followed by whichever structured data belongs to it. Every view (terminal or
// HTML) renders sections through this one function.
func (s *Site) Markdown(id string) string {
	sec, ok := s.Section(id)
	if !ok {
		return ""
	}

	var b strings.Builder
	if body := strings.TrimSpace(sec.Body); body != "" {
		b.WriteString(body)
		b.WriteString("\n")
	}

	switch id {
	case "home":
		s.writeOwner(&b)
	case "skills":
		s.writeSkills(&b)
	case "projects":
		s.writeProjects(&b)
	case "experience":
		s.writeExperience(&b)
	case "contact":
		s.writeContactInfo(&b)
	}
	return strings.TrimSpace(b.String())
}

func (s *Site) writeOwner(b *strings.Builder) {
	o := s.Owner
	if o.Role == "" && o.Tagline == "" {
		return
	}
	b.WriteString("\n")
	if o.Role != "" {
		fmt.Fprintf(b, "**%s**", o.Role)
		if o.Location != "" {
			fmt.Fprintf(b, " · %s", o.Location)
		}
		b.WriteString("\n\n")
	}
	if o.Tagline != "" {
		fmt.Fprintf(b, "_%s_\n", o.Tagline)
	}
}

func (s *Site) writeSkills(b *strings.Builder) {
	for _, g := range s.Skills {
		fmt.Fprintf(b, "\n### %s\n\n", g.Group)
		for _, it := range g.Items {
			fmt.Fprintf(b, "- %s\n", it)
		}
	}
}

func (s *Site) writeProjects(b *strings.Builder) {
	for _, p := range s.Projects {
		fmt.Fprintf(b, "\n### %s\n\n", p.Title)
		if p.Description != "" {
			fmt.Fprintf(b, "%s\n\n", p.Description)
		}
		if len(p.Tech) > 0 {
			fmt.Fprintf(b, "`%s`\n\n", strings.Join(p.Tech, "` `"))
		}
		var links []string
		if p.Repo != "" {
			links = append(links, fmt.Sprintf("[Code](%s)", p.Repo))
		}
		if p.Demo != "" {
			links = append(links, fmt.Sprintf("[Live demo](%s)", p.Demo))
		}
		if len(links) > 0 {
			fmt.Fprintf(b, "%s\n", strings.Join(links, " · "))
		}
	}
}

func (s *Site) writeExperience(b *strings.Builder) {
	for _, j := range s.Experience {
		fmt.Fprintf(b, "\n### %s · %s\n\n", j.Role, j.Org)
		if j.Period != "" {
			fmt.Fprintf(b, "_%s_\n\n", j.Period)
		}
		if j.Summary != "" {
			fmt.Fprintf(b, "%s\n", j.Summary)
		}
	}
	if len(s.Education) > 0 {
		b.WriteString("\n### Education\n\n")
		for _, d := range s.Education {
			fmt.Fprintf(b, "- **%s**, %s (%s)\n", d.Degree, d.School, d.Period)
		}
	}
}

func (s *Site) writeContactInfo(b *strings.Builder) {
	o := s.Owner
	var rows []string
	if o.Email != "" {
		rows = append(rows, fmt.Sprintf("- Email: [%s](mailto:%s)", o.Email, o.Email))
	}
	if o.Phone != "" {
		rows = append(rows, fmt.Sprintf("- Phone: %s", o.Phone))
	}
	if o.Location != "" {
		rows = append(rows, fmt.Sprintf("- Location: %s", o.Location))
	}
	for _, l := range o.Links {
		rows = append(rows, fmt.Sprintf("- %s: [%s](%s)", l.Label, l.URL, l.URL))
	}
	if len(rows) == 0 {
		return
	}
	b.WriteString("\n")
	b.WriteString(strings.Join(rows, "\n"))
	b.WriteString("\n")
}
