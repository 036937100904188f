package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testLoader(paths []string, env map[string]string) *Loader {
	return &Loader{
		configPaths: paths,
		getenv:      func(k string) string { return env[k] },
	}
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	if loader == nil {
		t.Fatal("NewLoader returned nil")
	}
	if len(loader.configPaths) != 3 {
		t.Errorf("Expected 3 config paths, got %d", len(loader.configPaths))
	}
}

func TestLoadConfigRequiresBaseURL(t *testing.T) {
	loader := testLoader(nil, nil)

	if _, err := loader.LoadConfig(""); err == nil {
		t.Fatal("Expected startup error without a base URL")
	}

	cfg, err := loader.Load("")
	if err != nil {
		t.Fatalf("Load() should not validate: %v", err)
	}
	if cfg.Output.DefaultFormat != "text" {
		t.Errorf("Expected default output format text, got %s", cfg.Output.DefaultFormat)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "test-config.yaml")

	configContent := `version: "1.0"
backend:
  base_url: "https://analysis.example.com"
  timeout: 45s
output:
  default_format: "json"
  verbose: true
  truncate_width: 60
ui:
  theme: minimal
`
	if err := os.WriteFile(configPath, []byte(configContent), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	cfg, err := testLoader(nil, nil).LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config from file: %v", err)
	}

	if cfg.Backend.BaseURL != "https://analysis.example.com" {
		t.Errorf("Expected base URL from file, got %s", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout != 45*time.Second {
		t.Errorf("Expected timeout 45s, got %v", cfg.Backend.Timeout)
	}
	if cfg.Output.DefaultFormat != "json" {
		t.Errorf("Expected output format json, got %s", cfg.Output.DefaultFormat)
	}
	if !cfg.Output.Verbose {
		t.Errorf("Expected verbose to be true")
	}
	if cfg.Output.TruncateWidth != 60 {
		t.Errorf("Expected truncate width 60, got %d", cfg.Output.TruncateWidth)
	}
	if cfg.UI.Theme != "minimal" {
		t.Errorf("Expected theme minimal, got %s", cfg.UI.Theme)
	}
}

func TestLoadConfigSearchPathPriority(t *testing.T) {
	dir := t.TempDir()
	high := filepath.Join(dir, "high.yaml")
	low := filepath.Join(dir, "low.yaml")

	_ = os.WriteFile(low, []byte("backend:\n  base_url: https://low.example.com\n  timeout: 5s\n"), 0o600)
	_ = os.WriteFile(high, []byte("backend:\n  base_url: https://high.example.com\n"), 0o600)

	cfg, err := testLoader([]string{high, low}, nil).LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Backend.BaseURL != "https://high.example.com" {
		t.Errorf("Expected higher priority file to win, got %s", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout != 5*time.Second {
		t.Errorf("Expected timeout from lower priority file, got %v", cfg.Backend.Timeout)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid-config.yaml")

	invalidConfigContent := `backend:
  base_url: "https://analysis.example.com
output:
  verbose: true
`
	if err := os.WriteFile(configPath, []byte(invalidConfigContent), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	if _, err := testLoader(nil, nil).LoadConfig(configPath); err == nil {
		t.Error("Expected error loading invalid YAML config, but got none")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	env := map[string]string{
		"DOCSUM_BACKEND_URL":           " http://localhost:8000 ",
		"DOCSUM_BACKEND_TIMEOUT":       "10s",
		"DOCSUM_OUTPUT_VERBOSE":        "true",
		"DOCSUM_OUTPUT_TRUNCATE_WIDTH": "25",
		"DOCSUM_UI_THEME":              "high-contrast",
	}

	cfg := DefaultConfig()
	if err := testLoader(nil, env).applyEnvOverrides(cfg); err != nil {
		t.Fatalf("Failed to apply env overrides: %v", err)
	}

	if cfg.Backend.BaseURL != "http://localhost:8000" {
		t.Errorf("Expected trimmed base URL, got %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout != 10*time.Second {
		t.Errorf("Expected timeout 10s, got %v", cfg.Backend.Timeout)
	}
	if !cfg.Output.Verbose {
		t.Errorf("Expected verbose to be true")
	}
	if cfg.Output.TruncateWidth != 25 {
		t.Errorf("Expected truncate width 25, got %d", cfg.Output.TruncateWidth)
	}
	if cfg.UI.Theme != "high-contrast" {
		t.Errorf("Expected theme high-contrast, got %s", cfg.UI.Theme)
	}
}

func TestApplyEnvOverridesInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
	}{
		{"invalid int", "DOCSUM_OUTPUT_TRUNCATE_WIDTH", "not-a-number"},
		{"invalid bool", "DOCSUM_OUTPUT_VERBOSE", "not-a-bool"},
		{"invalid duration", "DOCSUM_BACKEND_TIMEOUT", "not-a-duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := testLoader(nil, map[string]string{tt.envVar: tt.value})
			if err := loader.applyEnvOverrides(DefaultConfig()); err == nil {
				t.Error("Expected error for invalid env var value, but got none")
			}
		})
	}
}

func TestParseHelpers(t *testing.T) {
	var d time.Duration
	if err := parseDuration("30s", &d); err != nil || d != 30*time.Second {
		t.Errorf("parseDuration(30s) = %v, %v", d, err)
	}
	if err := parseDuration("invalid", &d); err == nil {
		t.Error("Expected error for invalid duration, but got none")
	}

	var n int
	if err := parseInt("42", &n); err != nil || n != 42 {
		t.Errorf("parseInt(42) = %d, %v", n, err)
	}

	var b bool
	if err := parseBool("true", &b); err != nil || !b {
		t.Errorf("parseBool(true) = %v, %v", b, err)
	}
	if err := parseBool("not-a-bool", &b); err == nil {
		t.Error("Expected error for invalid bool, but got none")
	}
}

func TestFileExists(t *testing.T) {
	if fileExists("/path/that/does/not/exist") {
		t.Error("Expected file to not exist, but fileExists returned true")
	}

	tempFile := filepath.Join(t.TempDir(), "test-file")
	if err := os.WriteFile(tempFile, []byte("test"), 0o600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	if !fileExists(tempFile) {
		t.Error("Expected file to exist, but fileExists returned false")
	}
}

func TestValidateConfigPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
		errMsg  string
	}{
		{name: "valid yaml file", path: "config.yaml"},
		{name: "valid yml file", path: "config.yml"},
		{name: "path traversal attempt", path: "../../../etc/passwd", wantErr: true, errMsg: "path traversal not allowed"},
		{name: "non-yaml file", path: "config.txt", wantErr: true, errMsg: "config file must have .yaml or .yml extension"},
		{name: "proc filesystem access", path: "/proc/version.yaml", wantErr: true, errMsg: "access to system files not allowed"},
		{name: "relative path with valid extension", path: "./configs/app.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfigPath(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got none")
				} else if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Expected error message to contain '%s', got '%s'", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestSampleConfigsLoad(t *testing.T) {
	for name, content := range map[string]string{
		"full":    SampleConfig(),
		"minimal": MinimalSampleConfig(),
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
				t.Fatalf("Failed to write config: %v", err)
			}
			cfg, err := testLoader(nil, nil).LoadConfig(path)
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}
			if cfg.Backend.BaseURL != "http://localhost:8000" {
				t.Errorf("Unexpected base URL %q", cfg.Backend.BaseURL)
			}
		})
	}
}
