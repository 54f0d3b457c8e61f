// Package config provides configuration management for the sqldeck CLI.
package config

// TargetConfig describes the database backend the workbench connects to.
type TargetConfig struct {
	Type string `koanf:"type"`
	DSN  string `koanf:"dsn"`

	// MockDelayMS is the simulated latency of the mock backend in
	// milliseconds. Zero keeps the built-in default.
	MockDelayMS int `koanf:"mock_delay_ms"`
}

// UIConfig holds configuration for the web server.
type UIConfig struct {
	Port          int    `koanf:"port"`
	AutoOpen      bool   `koanf:"auto_open"`
	Watch         bool   `koanf:"watch"`
	SessionSecret string `koanf:"session_secret"`
}

// DefaultUIConfig returns a UIConfig with default values.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Port:     8765,
		AutoOpen: true,
		Watch:    false,
	}
}

// GetUIConfig returns the UI config with defaults applied for any unset values.
func (c *Config) GetUIConfig() *UIConfig {
	if c.UI == nil {
		return DefaultUIConfig()
	}
	ui := c.UI
	if ui.Port == 0 {
		ui.Port = 8765
	}
	return ui
}

// Config holds all CLI configuration options.
type Config struct {
	Target       *TargetConfig `koanf:"target"`
	UI           *UIConfig     `koanf:"ui"`
	OutputFormat string        `koanf:"output"`
	Verbose      bool          `koanf:"verbose"`
}

// Default configuration values.
const (
	DefaultTargetType = "mock"
	DefaultOutput     = "table"
)

// validTargetTypes are the backends runner.Open knows how to dial.
var validTargetTypes = map[string]bool{
	"":         true,
	"mock":     true,
	"duckdb":   true,
	"sqlite":   true,
	"postgres": true,
}
