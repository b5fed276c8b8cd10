// Package config loads the serve configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Defaults applied to fields left empty.
const (
	DefaultListen   = ":8080"
	DefaultLogLevel = "info"
)

// Config holds the settings for `zerobot serve`.
type Config struct {
	Listen        string `yaml:"listen"`
	AuditLog      string `yaml:"audit_log"`
	Dashboard     *bool  `yaml:"dashboard"`
	LogLevel      string `yaml:"log_level"`
	KnowledgeFile string `yaml:"knowledge_file"`
}

// Default returns a Config with every default applied.
func Default() *Config {
	c := &Config{}
	_ = validate(c)
	return c
}

// LoadFromFile loads a config from a YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML bytes into a Config.
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	if err := validate(&c); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &c, nil
}

// validate fills defaults and checks field values.
func validate(c *Config) error {
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if !strings.Contains(c.Listen, ":") {
		return fmt.Errorf("listen %q: expected host:port", c.Listen)
	}
	if c.Dashboard == nil {
		on := true
		c.Dashboard = &on
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return nil
}

// DashboardEnabled reports whether the live dashboard should be served.
func (c *Config) DashboardEnabled() bool {
	return c.Dashboard == nil || *c.Dashboard
}

// SetDashboard overrides the dashboard setting.
func (c *Config) SetDashboard(on bool) {
	c.Dashboard = &on
}

// Level returns the parsed log level, falling back to info.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
