package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rupor-github/gencfg"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `version: 1
scope:
  prefix: "kube-"
  length: 16
render:
  output_name_template: "{{ .Title | lower }}"
  file_name_transliterate: true
  extension: ".htm"
preview:
  listen: "localhost:9000"
  attribute: "data-instance"
  event_buffer: 8
logging:
  console:
    level: normal
  file:
    level: debug
    destination: ` + filepath.Join(tmpDir, "test.log") + `
    mode: append
    format: json
reporting:
  destination: ` + filepath.Join(tmpDir, "test-report.zip") + `
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Scope.Prefix != "kube-" || cfg.Scope.Length != 16 {
		t.Errorf("Scope = %+v, want kube-/16", cfg.Scope)
	}
	if !cfg.Render.FileNameTransliterate {
		t.Error("Expected FileNameTransliterate to be true")
	}
	if cfg.Render.Extension != ".htm" {
		t.Errorf("Extension = %q, want .htm", cfg.Render.Extension)
	}
	// output name template is expanded per document, not at load time
	if cfg.Render.OutputNameTemplate != "{{ .Title | lower }}" {
		t.Errorf("OutputNameTemplate = %q, expected it to stay unexpanded", cfg.Render.OutputNameTemplate)
	}
	if cfg.Preview.Listen != "localhost:9000" || cfg.Preview.Attribute != "data-instance" || cfg.Preview.EventBuffer != 8 {
		t.Errorf("Preview = %+v", cfg.Preview)
	}
	if cfg.Logging.FileLogger.Format != "json" {
		t.Errorf("FileLogger.Format = %q, want json", cfg.Logging.FileLogger.Format)
	}
}

func TestLoadConfiguration_MergeWithDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "partial.yaml")

	if err := os.WriteFile(configPath, []byte("version: 1\nscope:\n  length: 12\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.Scope.Length != 12 {
		t.Errorf("Length = %d, want 12", cfg.Scope.Length)
	}
	if cfg.Scope.Prefix != "blockcss-" {
		t.Errorf("Prefix = %q, want default blockcss-", cfg.Scope.Prefix)
	}
	if cfg.Preview.Attribute != "data-block" {
		t.Errorf("Attribute = %q, want default data-block", cfg.Preview.Attribute)
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	if _, err := LoadConfiguration("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")
	invalidYAML := `version: 1
scope:
  prefix: x
  invalid indent
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	if _, err := LoadConfiguration(configPath); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestLoadConfiguration_UnknownFields(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "unknown.yaml")
	if err := os.WriteFile(configPath, []byte("version: 1\nunknown_field: value\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	if _, err := LoadConfiguration(configPath); err == nil {
		t.Error("Expected error for unknown fields")
	}
}

func TestLoadConfiguration_ValidationError(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"version", "version: 2\n"},
		{"short token", "version: 1\nscope:\n  length: 4\n"},
		{"long token", "version: 1\nscope:\n  length: 65\n"},
		{"empty prefix", "version: 1\nscope:\n  prefix: \"\"\n"},
		{"extension", "version: 1\nrender:\n  extension: html\n"},
		{"attribute", "version: 1\npreview:\n  attribute: block\n"},
		{"listen", "version: 1\npreview:\n  listen: nowhere\n"},
		{"buffer", "version: 1\npreview:\n  event_buffer: 0\n"},
		{"log format", "version: 1\nlogging:\n  file:\n    format: xml\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "invalid_values.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write config file: %v", err)
			}
			if _, err := LoadConfiguration(configPath); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {}

	cfg, err := LoadConfiguration("", option)
	if err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Prepare() returned empty data")
	}
	if strings.Contains(string(data), ".Containerized") {
		t.Error("Prepare() left listen address unexpanded")
	}

	if _, err = unmarshalConfig(data, &Config{}, true); err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	cfg.Scope.Prefix = "dumped-"

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}

	cfg2, err := unmarshalConfig(data, &Config{}, false)
	if err != nil {
		t.Fatalf("Dumped config cannot be loaded: %v", err)
	}
	if cfg2.Scope.Prefix != "dumped-" {
		t.Errorf("Prefix after dump/load = %q, want dumped-", cfg2.Scope.Prefix)
	}
	if cfg2.Preview != cfg.Preview {
		t.Errorf("Preview after dump/load = %+v, want %+v", cfg2.Preview, cfg.Preview)
	}
}

func TestConfig_DefaultValues(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Scope.Prefix != "blockcss-" || cfg.Scope.Length != 32 {
		t.Errorf("Scope = %+v, want blockcss-/32", cfg.Scope)
	}
	if cfg.Render.OutputNameTemplate != "" {
		t.Errorf("OutputNameTemplate = %q, want empty", cfg.Render.OutputNameTemplate)
	}
	if cfg.Render.Extension != ".html" {
		t.Errorf("Extension = %q, want .html", cfg.Render.Extension)
	}
	if !strings.HasSuffix(cfg.Preview.Listen, ":8745") {
		t.Errorf("Listen = %q, want port 8745", cfg.Preview.Listen)
	}
	if cfg.Logging.FileLogger.Level != "none" {
		t.Errorf("file logger level = %q, want none", cfg.Logging.FileLogger.Level)
	}
}

func TestUnmarshalConfig(t *testing.T) {
	t.Run("valid config without processing", func(t *testing.T) {
		result, err := unmarshalConfig([]byte(`version: 1`), &Config{}, false)
		if err != nil {
			t.Fatalf("unmarshalConfig() error = %v", err)
		}
		if result.Version != 1 {
			t.Errorf("Version = %d, want 1", result.Version)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		if _, err := unmarshalConfig([]byte(`invalid: [yaml`), &Config{}, false); err == nil {
			t.Error("Expected error for invalid YAML")
		}
	})
}

func TestUnmarshalConfig_WrapsValidationError(t *testing.T) {
	_, err := unmarshalConfig([]byte("version: 99\n"), &Config{}, true)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "validat") {
		t.Errorf("expected error to mention validation, got: %v", err)
	}
	if errors.Unwrap(err) == nil {
		t.Errorf("expected wrapped error, got bare error: %v", err)
	}
}
