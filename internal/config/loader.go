package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.docsum.yaml",               // Project-specific config (highest priority)
	"~/.config/docsum/config.yaml", // User config
	"/etc/docsum/config.yaml",      // System config (lowest priority)
}

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
	getenv      func(string) string
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		getenv:      os.Getenv,
	}
}

// LoadConfig loads and validates configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables
// 3. ./.docsum.yaml
// 4. ~/.config/docsum/config.yaml
// 5. /etc/docsum/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config, err := l.Load(customPath)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Load merges every source without validating the result. Callers that
// layer flags on top validate afterwards.
func (l *Loader) Load(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// Lowest priority first so later files win
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			expandedPath := expandPath(l.configPaths[i])
			if fileExists(expandedPath) {
				if err := l.loadFromFile(config, expandedPath); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: Failed to load config from %s: %v\n", expandedPath, err)
				}
			}
		}
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	return config, nil
}

// loadFromFile loads configuration from a YAML file and merges it with existing config
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() or comes from ConfigPaths
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var fileConfig Config
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Booleans cannot be told apart from their zero value after decoding,
	// so look at which keys the file actually contains.
	var raw map[string]map[string]interface{}
	_ = yaml.Unmarshal(data, &raw)

	mergeConfigs(config, &fileConfig, raw)

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		// Backend Config
		"DOCSUM_BACKEND_URL":                  func(v string) error { config.Backend.BaseURL = strings.TrimSpace(v); return nil },
		"DOCSUM_BACKEND_TIMEOUT":              func(v string) error { return parseDuration(v, &config.Backend.Timeout) },
		"DOCSUM_BACKEND_INSECURE_SKIP_VERIFY": func(v string) error { return parseBool(v, &config.Backend.InsecureSkipVerify) },

		// Output Config
		"DOCSUM_OUTPUT_DEFAULT_FORMAT": func(v string) error { config.Output.DefaultFormat = v; return nil },
		"DOCSUM_OUTPUT_COLOR_MODE":     func(v string) error { config.Output.ColorMode = v; return nil },
		"DOCSUM_OUTPUT_VERBOSE":        func(v string) error { return parseBool(v, &config.Output.Verbose) },
		"DOCSUM_OUTPUT_TRUNCATE_WIDTH": func(v string) error { return parseInt(v, &config.Output.TruncateWidth) },
		"DOCSUM_OUTPUT_LOG_FILE":       func(v string) error { config.Output.LogFile = v; return nil },

		// UI Config
		"DOCSUM_UI_THEME": func(v string) error { config.UI.Theme = v; return nil },
	}

	for envVar, setter := range envMappings {
		if value := l.getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := expandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// ExpandPath expands a leading ~ to the user's home directory
func ExpandPath(path string) string {
	return expandPath(path)
}

// Helper functions

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/proc/") || strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// mergeConfigs merges source config into destination config.
// Only non-zero values from source overwrite destination; booleans are
// merged when raw shows the key was present.
func mergeConfigs(dst, src *Config, raw map[string]map[string]interface{}) {
	if src.Version != "" {
		dst.Version = src.Version
	}

	mergeBackendConfig(&dst.Backend, &src.Backend, raw["backend"])
	mergeOutputConfig(&dst.Output, &src.Output, raw["output"])
	if src.UI.Theme != "" {
		dst.UI.Theme = src.UI.Theme
	}
}

// mergeBackendConfig merges backend configuration
func mergeBackendConfig(dst, src *BackendConfig, keys map[string]interface{}) {
	if src.BaseURL != "" {
		dst.BaseURL = src.BaseURL
	}
	if src.Timeout != 0 {
		dst.Timeout = src.Timeout
	}
	mergeIfSet(&dst.InsecureSkipVerify, src.InsecureSkipVerify, keys, "insecure_skip_verify")
}

// mergeOutputConfig merges output configuration
func mergeOutputConfig(dst, src *OutputConfig, keys map[string]interface{}) {
	if src.DefaultFormat != "" {
		dst.DefaultFormat = src.DefaultFormat
	}
	if src.ColorMode != "" {
		dst.ColorMode = src.ColorMode
	}
	if src.TruncateWidth != 0 {
		dst.TruncateWidth = src.TruncateWidth
	}
	if src.LogFile != "" {
		dst.LogFile = src.LogFile
	}
	mergeIfSet(&dst.Verbose, src.Verbose, keys, "verbose")
}

// mergeIfSet copies a boolean only when key appears in the source section
func mergeIfSet(dst *bool, src bool, keys map[string]interface{}, key string) {
	if _, ok := keys[key]; ok {
		*dst = src
	}
}

// Type conversion helpers

func parseInt(s string, dst *int) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
