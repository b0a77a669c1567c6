package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

type Link struct {
	Label string `yaml:"label" json:"label"`
	URL   string `yaml:"url" json:"url"`
}

type Owner struct {
	Name     string `yaml:"name" json:"name"`
	Role     string `yaml:"role" json:"role"`
	Tagline  string `yaml:"tagline" json:"tagline"`
	Location string `yaml:"location" json:"location"`
	Email    string `yaml:"email" json:"email"`
	Phone    string `yaml:"phone" json:"phone,omitempty"`
	Links    []Link `yaml:"links" json:"links,omitempty"`
}

type Section struct {
	ID    string `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`
	Body  string `yaml:"body" json:"body"`
}

type SkillGroup struct {
	Group string   `yaml:"group" json:"group"`
	Items []string `yaml:"items" json:"items"`
}

type Project struct {
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Tech        []string `yaml:"tech" json:"tech,omitempty"`
	Repo        string   `yaml:"repo" json:"repo,omitempty"`
	Demo        string   `yaml:"demo" json:"demo,omitempty"`
}

type Job struct {
	Role    string `yaml:"role" json:"role"`
	Org     string `yaml:"org" json:"org"`
	Period  string `yaml:"period" json:"period"`
	Summary string `yaml:"summary" json:"summary,omitempty"`
}

type Degree struct {
	Degree string `yaml:"degree" json:"degree"`
	School string `yaml:"school" json:"school"`
	Period string `yaml:"period" json:"period"`
}

// Site is the static portfolio payload. Its fields are display data only.
type Site struct {
	Owner      Owner        `yaml:"owner" json:"owner"`
	Sections   []Section    `yaml:"sections" json:"sections"`
	Skills     []SkillGroup `yaml:"skills" json:"skills,omitempty"`
	Projects   []Project    `yaml:"projects" json:"projects,omitempty"`
	Experience []Job        `yaml:"experience" json:"experience,omitempty"`
	Education  []Degree     `yaml:"education" json:"education,omitempty"`
}

// Default returns the built-in sample site.
func Default() *Site {
	s, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("content: embedded default is invalid: %v", err))
	}
	return s
}

// Load reads a site from path; an empty path yields the built-in default.
func Load(path string) (*Site, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content %s: %w", path, err)
	}
	s, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("parsing content %s: %w", path, err)
	}
	return s, nil
}

func Parse(b []byte) (*Site, error) {
	var s Site
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Site) Validate() error {
	if len(s.Sections) == 0 {
		return errors.New("content: no sections")
	}
	seen := map[string]bool{}
	for i, sec := range s.Sections {
		id := strings.TrimSpace(sec.ID)
		if id == "" {
			return fmt.Errorf("content: section %d has no id", i)
		}
		if seen[id] {
			return fmt.Errorf("content: duplicate section id %q", id)
		}
		seen[id] = true
	}
	return nil
}

// SectionIDs lists section ids in page order.
func (s *Site) SectionIDs() []string {
	out := make([]string, 0, len(s.Sections))
	for _, sec := range s.Sections {
		out = append(out, strings.TrimSpace(sec.ID))
	}
	return out
}

func (s *Site) Section(id string) (Section, bool) {
	for _, sec := range s.Sections {
		if strings.TrimSpace(sec.ID) == id {
			return sec, true
		}
	}
	return Section{}, false
}

// Title falls back to a capitalised id when the section has none.
func (s *Site) Title(id string) string {
	if sec, ok := s.Section(id); ok && strings.TrimSpace(sec.Title) != "" {
		return strings.TrimSpace(sec.Title)
	}
	if id == "" {
		return ""
	}
	return strings.ToUpper(id[:1]) + id[1:]
}
