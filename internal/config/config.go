package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds the complete application configuration
type Config struct {
	Version string        `yaml:"version" json:"version"`
	Backend BackendConfig `yaml:"backend" json:"backend"`
	Output  OutputConfig  `yaml:"output" json:"output"`
	UI      UIConfig      `yaml:"ui" json:"ui"`
}

// BackendConfig configures the analysis service connection
type BackendConfig struct {
	BaseURL            string        `yaml:"base_url" json:"base_url"`                         // required, no fallback
	Timeout            time.Duration `yaml:"timeout" json:"timeout"`                           // transport timeout, 0 disables
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify" json:"insecure_skip_verify"` // accept self-signed certificates
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // json|text|markdown|csv
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Verbose       bool   `yaml:"verbose" json:"verbose"`               // default verbosity
	TruncateWidth int    `yaml:"truncate_width" json:"truncate_width"` // visible characters of log request/response
	LogFile       string `yaml:"log_file" json:"log_file"`             // diagnostic log while the UI owns the terminal
}

// UIConfig configures the interactive view
type UIConfig struct {
	Theme string `yaml:"theme" json:"theme"`
}

// DefaultConfig returns a configuration with sensible defaults.
// BaseURL is left empty on purpose and must be supplied.
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Backend: BackendConfig{
			BaseURL:            "",
			Timeout:            120 * time.Second,
			InsecureSkipVerify: false,
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
			Verbose:       false,
			TruncateWidth: 40,
			LogFile:       "~/.cache/docsum/docsum.log",
		},
		UI: UIConfig{
			Theme: "default",
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateBackendConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	if err := c.validateUIConfig(); err != nil {
		return err
	}
	return nil
}

// validateBackendConfig validates backend-related configuration
func (c *Config) validateBackendConfig() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend base_url is required (set backend.base_url, DOCSUM_BACKEND_URL or --backend-url)")
	}
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid backend base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid backend base_url: %s (scheme must be http or https)", c.Backend.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid backend base_url: %s (missing host)", c.Backend.BaseURL)
	}
	if c.Backend.Timeout < 0 {
		return fmt.Errorf("backend timeout must be non-negative")
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json":     true,
			"text":     true,
			"markdown": true,
			"csv":      true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text, markdown, csv)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	if c.Output.TruncateWidth < 1 {
		return fmt.Errorf("truncate_width must be greater than 0")
	}
	return nil
}

// validateUIConfig validates UI-related configuration
func (c *Config) validateUIConfig() error {
	if c.UI.Theme == "" {
		return nil
	}
	validThemes := map[string]bool{
		"default":       true,
		"high-contrast": true,
		"minimal":       true,
	}
	if !validThemes[c.UI.Theme] {
		return fmt.Errorf("invalid theme: %s (must be one of: default, high-contrast, minimal)", c.UI.Theme)
	}
	return nil
}
