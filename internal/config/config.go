package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"portfolio/internal/nav"
)

// EnvPrefix namespaces environment overrides: PORTFOLIO_CONTACT_SERVICE_ID sets
// contact.service_id.
const EnvPrefix = "PORTFOLIO_"

// envSections are the nested config blocks, longest first so nav_margin_top
// resolves before nav_*.
var envSections = []string{"nav_margin", "contact", "server", "nav", "log"}

// listKeys are split on commas when they come from the environment.
var listKeys = map[string]bool{
	"nav.sections":   true,
	"nav.thresholds": true,
}

// envKey maps PORTFOLIO_NAV_GRACE_PERIOD to nav.grace_period.
func envKey(s string) string {
	k := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, sec := range envSections {
		if strings.HasPrefix(k, sec+"_") {
			return strings.ReplaceAll(sec, "_", ".") + "." + strings.TrimPrefix(k, sec+"_")
		}
	}
	return k
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (PORTFOLIO_*). A missing file is not an
// error; an empty path means DefaultPath().
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath()
	}
	k := koanf.New(".")

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, any) {
		// Path flags are handled by the CLI, not stored in the tree.
		if key == EnvPrefix+"CONFIG" {
			return "", nil
		}
		name := envKey(key)
		if listKeys[name] {
			parts := strings.Split(value, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			return name, parts
		}
		return name, value
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	cfg.applyDefaults(k.Exists)
	cfg.DataDir = expandHome(cfg.DataDir)
	cfg.Log.File = expandHome(cfg.Log.File)
	cfg.Content = expandHome(cfg.Content)
	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validThemes = map[Theme]bool{
	ThemeAuto:  true,
	ThemeLight: true,
	ThemeDark:  true,
}

var validSenders = map[SenderKind]bool{
	SenderEmailJS: true,
	SenderLog:     true,
}

// Validate checks that the configuration contains valid values. Whether the
// nav sections exist in the content is checked by NavFor.
func (c *Config) Validate() error {
	if !validThemes[c.Theme] {
		return fmt.Errorf("invalid theme %q: must be one of auto, light, dark", c.Theme)
	}
	seen := map[string]bool{}
	for _, id := range c.Nav.Sections {
		id = strings.TrimSpace(id)
		if id == "" {
			return errors.New("nav.sections contains an empty id")
		}
		if seen[id] {
			return fmt.Errorf("nav.sections lists %q twice", id)
		}
		seen[id] = true
	}
	if c.Nav.Default != "" && len(c.Nav.Sections) > 0 && !seen[c.Nav.Default] {
		return &nav.InvalidSectionError{ID: c.Nav.Default, Known: c.Nav.Sections}
	}
	for _, t := range c.Nav.Thresholds {
		if t <= 0 || t > 1 {
			return fmt.Errorf("nav.thresholds: %v is outside (0, 1]", t)
		}
	}
	if c.Nav.GracePeriod < 0 {
		return errors.New("nav.grace_period must be non-negative")
	}
	if c.Nav.RowHeightPx <= 0 {
		return errors.New("nav.row_height_px must be positive")
	}
	if !validSenders[c.Contact.Sender] {
		return fmt.Errorf("invalid contact.sender %q: must be one of emailjs, log", c.Contact.Sender)
	}
	if c.Contact.ResetDelay <= 0 {
		return errors.New("contact.reset_delay must be positive")
	}
	if c.Contact.Timeout < 0 {
		return errors.New("contact.timeout must be non-negative")
	}
	if c.Contact.Sender == SenderEmailJS && c.Contact.Endpoint == "" {
		return errors.New("contact.endpoint is required for the emailjs sender")
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return errors.New("data_dir is required")
	}
	return nil
}

// NavFor resolves the controller config against the content's section ids.
// Every configured nav item must name a real section.
func (c *Config) NavFor(sectionIDs []string) (nav.Config, error) {
	known := map[string]bool{}
	for _, id := range sectionIDs {
		known[id] = true
	}
	items := sectionIDs
	if len(c.Nav.Sections) > 0 {
		items = make([]string, 0, len(c.Nav.Sections))
		for _, id := range c.Nav.Sections {
			id = strings.TrimSpace(id)
			if !known[id] {
				return nav.Config{}, &nav.InvalidSectionError{ID: id, Known: sectionIDs}
			}
			items = append(items, id)
		}
	}
	if c.Nav.Default != "" && !known[c.Nav.Default] {
		return nav.Config{}, &nav.InvalidSectionError{ID: c.Nav.Default, Known: sectionIDs}
	}
	return nav.Config{
		Sections:    append([]string(nil), items...),
		Default:     c.Nav.Default,
		Thresholds:  append([]float64(nil), c.Nav.Thresholds...),
		Margin:      c.Nav.Margin.toNav(),
		GracePeriod: c.Nav.GracePeriod,
	}, nil
}

func (m MarginConfig) toNav() nav.Margin {
	return nav.Margin{Top: m.Top, Right: m.Right, Bottom: m.Bottom, Left: m.Left}
}

// TerminalMargin is the nav margin converted to terminal rows.
func (c *Config) TerminalMargin() nav.Margin {
	return c.Nav.Margin.toNav().Scaled(c.Nav.RowHeightPx)
}

// LogFile is where the interactive TUI writes its log.
func (c *Config) LogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(c.DataDir, "portfolio.log")
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
