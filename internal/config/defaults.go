package config

import (
	"os"
	"path/filepath"

	"portfolio/internal/contact"
	"portfolio/internal/nav"
)

const (
	DefaultAddr        = ":8080"
	DefaultRowHeightPx = 16
	DefaultLogLevel    = "info"
)

// DefaultDataDir returns ~/.portfolio, or .portfolio when no home directory
// can be resolved.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".portfolio"
	}
	return filepath.Join(home, ".portfolio")
}

// DefaultPath is where Load looks when no explicit config path is given.
func DefaultPath() string {
	return filepath.Join(DefaultDataDir(), "config.yaml")
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	m := nav.DefaultMargin
	return &Config{
		Theme: ThemeAuto,
		Nav: NavConfig{
			Thresholds:  append([]float64(nil), nav.DefaultThresholds...),
			Margin:      MarginConfig{Top: m.Top, Right: m.Right, Bottom: m.Bottom, Left: m.Left},
			GracePeriod: nav.DefaultGracePeriod,
			RowHeightPx: DefaultRowHeightPx,
		},
		Contact: ContactConfig{
			Sender:     SenderEmailJS,
			Endpoint:   contact.DefaultEmailJSURL,
			ResetDelay: contact.DefaultResetDelay,
			Timeout:    contact.DefaultTimeout,
		},
		Server:  ServerConfig{Addr: DefaultAddr},
		DataDir: DefaultDataDir(),
		Log:     LogConfig{Level: DefaultLogLevel},
	}
}

// applyDefaults fills every unset field from DefaultConfig. Loading unmarshals
// into a zero Config first so list values from the file replace the defaults
// instead of being merged element by element. isSet reports whether a key was
// given explicitly, for values where zero is meaningful.
func (c *Config) applyDefaults(isSet func(key string) bool) {
	d := DefaultConfig()
	if c.Theme == "" {
		c.Theme = d.Theme
	}
	if len(c.Nav.Thresholds) == 0 {
		c.Nav.Thresholds = d.Nav.Thresholds
	}
	if !isSet("nav.margin.top") {
		c.Nav.Margin.Top = d.Nav.Margin.Top
	}
	if !isSet("nav.margin.right") {
		c.Nav.Margin.Right = d.Nav.Margin.Right
	}
	if !isSet("nav.margin.bottom") {
		c.Nav.Margin.Bottom = d.Nav.Margin.Bottom
	}
	if !isSet("nav.margin.left") {
		c.Nav.Margin.Left = d.Nav.Margin.Left
	}
	if c.Nav.GracePeriod == 0 {
		c.Nav.GracePeriod = d.Nav.GracePeriod
	}
	if c.Nav.RowHeightPx == 0 {
		c.Nav.RowHeightPx = d.Nav.RowHeightPx
	}
	if c.Contact.Sender == "" {
		c.Contact.Sender = d.Contact.Sender
	}
	if c.Contact.Endpoint == "" {
		c.Contact.Endpoint = d.Contact.Endpoint
	}
	if c.Contact.ResetDelay == 0 {
		c.Contact.ResetDelay = d.Contact.ResetDelay
	}
	if c.Contact.Timeout == 0 {
		c.Contact.Timeout = d.Contact.Timeout
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.DataDir == "" {
		c.DataDir = d.DataDir
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}
