package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Fill mode constants
	FillModeAuto  = "auto"
	FillModeExact = "exact"
	FillModeGuess = "guess"

	// Default values
	DefaultLogLevel        = "info"
	DefaultMaxTemplateSize = 20 * 1024 * 1024 // 20MB
)

// Config holds all configuration for the claim-form renderer
type Config struct {
	// Resource locations
	TemplateDir  string
	FontDir      string
	FieldMapPath string

	// Render behavior
	FillMode    string // "auto", "exact" or "guess"
	ShowReceipt bool

	// Application configuration
	Version         string
	LogLevel        string
	MaxTemplateSize int64 // Maximum template PDF size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		TemplateDir:     filepath.Join(currentDir, "templates"),
		FontDir:         filepath.Join(currentDir, "fonts"),
		FieldMapPath:    "",
		FillMode:        FillModeAuto,
		ShowReceipt:     true,
		Version:         "1.0.0",
		LogLevel:        DefaultLogLevel,
		MaxTemplateSize: DefaultMaxTemplateSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	for _, p := range []*string{&cfg.TemplateDir, &cfg.FontDir, &cfg.FieldMapPath} {
		if *p != "" {
			if expanded, err := filepath.Abs(*p); err == nil {
				*p = expanded
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("CLAIMFORM")
	viper.AutomaticEnv()

	viper.SetDefault("templates", cfg.TemplateDir)
	viper.SetDefault("fonts", cfg.FontDir)
	viper.SetDefault("fieldmap", cfg.FieldMapPath)
	viper.SetDefault("fillmode", cfg.FillMode)
	viper.SetDefault("receipt", cfg.ShowReceipt)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxtemplatesize", cfg.MaxTemplateSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("templates", cfg.TemplateDir, "Directory containing template PDF candidates")
	pflag.String("fonts", cfg.FontDir, "Directory containing CJK font candidates")
	pflag.String("fieldmap", cfg.FieldMapPath, "Path to the coordinate field-map JSON descriptor")
	pflag.String("fillmode", cfg.FillMode, "Form fill strategy: 'auto', 'exact' or 'guess'")
	pflag.Bool("receipt", cfg.ShowReceipt, "Append the receipt page")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxtemplatesize", cfg.MaxTemplateSize, "Maximum template PDF size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("templates", pflag.Lookup("templates"))
	_ = viper.BindPFlag("fonts", pflag.Lookup("fonts"))
	_ = viper.BindPFlag("fieldmap", pflag.Lookup("fieldmap"))
	_ = viper.BindPFlag("fillmode", pflag.Lookup("fillmode"))
	_ = viper.BindPFlag("receipt", pflag.Lookup("receipt"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("maxtemplatesize", pflag.Lookup("maxtemplatesize"))
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.TemplateDir = viper.GetString("templates")
	cfg.FontDir = viper.GetString("fonts")
	cfg.FieldMapPath = viper.GetString("fieldmap")
	cfg.FillMode = viper.GetString("fillmode")
	cfg.ShowReceipt = viper.GetBool("receipt")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxTemplateSize = viper.GetInt64("maxtemplatesize")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.FillMode {
	case FillModeAuto, FillModeExact, FillModeGuess:
	default:
		return fmt.Errorf("fill mode must be one of: auto, exact, guess (got %q)", c.FillMode)
	}

	if c.TemplateDir == "" {
		return errors.New("template directory cannot be empty")
	}
	if _, err := os.Stat(c.TemplateDir); os.IsNotExist(err) {
		return fmt.Errorf("template directory %s does not exist", c.TemplateDir)
	} else if err != nil {
		return fmt.Errorf("cannot access template directory %s: %w", c.TemplateDir, err)
	}

	// The font directory is optional: a missing one degrades to the Latin
	// fallback font instead of failing.

	if c.FieldMapPath != "" {
		if _, err := os.Stat(c.FieldMapPath); err != nil {
			return fmt.Errorf("cannot access field map %s: %w", c.FieldMapPath, err)
		}
	}

	if c.MaxTemplateSize <= 0 {
		return errors.New("maximum template size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{TemplateDir: %s, FontDir: %s, FieldMapPath: %s, FillMode: %s, ShowReceipt: %t, LogLevel: %s}",
		c.TemplateDir, c.FontDir, c.FieldMapPath, c.FillMode, c.ShowReceipt, c.LogLevel)
}
