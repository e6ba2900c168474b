package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.FillMode != FillModeAuto {
		t.Errorf("Expected default fill mode to be 'auto', got '%s'", cfg.FillMode)
	}

	if !cfg.ShowReceipt {
		t.Error("Expected receipt page to be enabled by default")
	}

	if cfg.Version != "1.0.0" {
		t.Errorf("Expected default version to be '1.0.0', got '%s'", cfg.Version)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level to be 'info', got '%s'", cfg.LogLevel)
	}

	if cfg.MaxTemplateSize != 20*1024*1024 {
		t.Errorf("Expected default max template size to be 20MB, got %d", cfg.MaxTemplateSize)
	}

	currentDir, _ := os.Getwd()
	if cfg.TemplateDir != filepath.Join(currentDir, "templates") {
		t.Errorf("Expected default template dir under the working directory, got '%s'", cfg.TemplateDir)
	}
}

func TestConfigValidate(t *testing.T) {
	templateDir := t.TempDir()

	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.TemplateDir = templateDir
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "invalid fill mode",
			mutate:  func(c *Config) { c.FillMode = "fuzzy" },
			wantErr: true,
		},
		{
			name:    "empty template dir",
			mutate:  func(c *Config) { c.TemplateDir = "" },
			wantErr: true,
		},
		{
			name:    "missing template dir",
			mutate:  func(c *Config) { c.TemplateDir = filepath.Join(templateDir, "nope") },
			wantErr: true,
		},
		{
			name:    "missing font dir is allowed",
			mutate:  func(c *Config) { c.FontDir = filepath.Join(templateDir, "no-fonts") },
			wantErr: false,
		},
		{
			name:    "missing field map",
			mutate:  func(c *Config) { c.FieldMapPath = filepath.Join(templateDir, "nope.json") },
			wantErr: true,
		},
		{
			name:    "zero max template size",
			mutate:  func(c *Config) { c.MaxTemplateSize = 0 },
			wantErr: true,
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidateFieldMapPresent(t *testing.T) {
	templateDir := t.TempDir()
	fieldMap := filepath.Join(templateDir, "fieldmap.json")
	if err := os.WriteFile(fieldMap, []byte(`{"page":1,"fields":{}}`), 0o600); err != nil {
		t.Fatalf("write field map: %v", err)
	}

	cfg := DefaultConfig()
	cfg.TemplateDir = templateDir
	cfg.FieldMapPath = fieldMap
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() with existing field map returned error: %v", err)
	}
}

func TestIsDebug(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.IsDebug() {
		t.Error("Expected IsDebug to be false at the default log level")
	}
	cfg.LogLevel = "debug"
	if !cfg.IsDebug() {
		t.Error("Expected IsDebug to be true when log level is debug")
	}
}

func TestConfigString(t *testing.T) {
	cfg := DefaultConfig()
	s := cfg.String()
	if s == "" {
		t.Error("Expected non-empty string representation")
	}
}
