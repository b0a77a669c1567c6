package config

import "time"

// Theme selects the color scheme. ThemeAuto follows the terminal background
// (or the browser's preference on the web).
type Theme string

const (
	ThemeAuto  Theme = "auto"
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// SenderKind picks the contact message transport.
type SenderKind string

const (
	SenderEmailJS SenderKind = "emailjs"
	SenderLog     SenderKind = "log"
)

// Config is the top-level portfolio configuration, corresponding to
// ~/.portfolio/config.yaml.
type Config struct {
	Theme     Theme         `yaml:"theme" koanf:"theme"`
	Content   string        `yaml:"content,omitempty" koanf:"content"`
	Nav       NavConfig     `yaml:"nav" koanf:"nav"`
	Contact   ContactConfig `yaml:"contact" koanf:"contact"`
	Server    ServerConfig  `yaml:"server" koanf:"server"`
	ResumeURL string        `yaml:"resume_url,omitempty" koanf:"resume_url"`
	DataDir   string        `yaml:"data_dir" koanf:"data_dir"`
	Log       LogConfig     `yaml:"log" koanf:"log"`
}

// NavConfig tunes the section-activity controller. An empty Sections list
// means every content section appears in the nav, in page order.
type NavConfig struct {
	Sections    []string      `yaml:"sections,omitempty" koanf:"sections"`
	Default     string        `yaml:"default,omitempty" koanf:"default"`
	Thresholds  []float64     `yaml:"thresholds" koanf:"thresholds"`
	Margin      MarginConfig  `yaml:"margin" koanf:"margin"`
	GracePeriod time.Duration `yaml:"grace_period" koanf:"grace_period"`
	// RowHeightPx converts the pixel margin into terminal rows.
	RowHeightPx int `yaml:"row_height_px" koanf:"row_height_px"`
}

// MarginConfig is a root margin in CSS pixels.
type MarginConfig struct {
	Top    int `yaml:"top" koanf:"top"`
	Right  int `yaml:"right" koanf:"right"`
	Bottom int `yaml:"bottom" koanf:"bottom"`
	Left   int `yaml:"left" koanf:"left"`
}

// ContactConfig holds the message-send collaborator settings.
type ContactConfig struct {
	Sender      SenderKind    `yaml:"sender" koanf:"sender"`
	Endpoint    string        `yaml:"endpoint" koanf:"endpoint"`
	ServiceID   string        `yaml:"service_id" koanf:"service_id"`
	TemplateID  string        `yaml:"template_id" koanf:"template_id"`
	UserID      string        `yaml:"user_id" koanf:"user_id"`
	AccessToken string        `yaml:"access_token,omitempty" koanf:"access_token"`
	ResetDelay  time.Duration `yaml:"reset_delay" koanf:"reset_delay"`
	Timeout     time.Duration `yaml:"timeout" koanf:"timeout"`
}

type ServerConfig struct {
	Addr            string `yaml:"addr" koanf:"addr"`
	AllowAllOrigins bool   `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

type LogConfig struct {
	Level string `yaml:"level" koanf:"level"`
	// File receives log output; empty means stderr (or <data_dir>/portfolio.log
	// for the interactive TUI).
	File string `yaml:"file,omitempty" koanf:"file"`
}
