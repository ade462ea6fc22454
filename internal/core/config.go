// Package core contains configuration loading and validation for the
// homework tracker.
package core

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/valter-silva-au/homework-tracker/pkg/models"
)

// ConfigFileName is the base name of the config file looked up in the base path.
const ConfigFileName = ".hwtconfig"

// ConfigurationManager defines the interface for loading and validating the
// .hwtconfig file.
type ConfigurationManager interface {
	LoadConfig() (*models.Config, error)
	ValidateConfig(cfg *models.Config) error
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading YAML configuration files.
type viperConfigManager struct {
	// basePath is the root directory where .hwtconfig resides.
	basePath string
}

// NewConfigurationManager creates a new ConfigurationManager that reads
// configuration files relative to basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultConfig returns a Config populated with the built-in defaults.
func DefaultConfig() *models.Config {
	return &models.Config{
		Storage: models.StorageConfig{
			File: "hw.csv",
		},
		Display: models.DisplayConfig{
			Width:  1000,
			Height: 700,
			FPS:    60,
		},
		Log: models.LogConfig{
			Level:  "warn",
			Format: "console",
		},
		Events: models.EventsConfig{
			Enabled: true,
			File:    ".hwt_events.jsonl",
		},
	}
}

// LoadConfig reads .hwtconfig from the base path using Viper.
// If the file does not exist, defaults are returned.
func (cm *viperConfigManager) LoadConfig() (*models.Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	v.SetDefault("storage.file", cfg.Storage.File)
	v.SetDefault("display.width", cfg.Display.Width)
	v.SetDefault("display.height", cfg.Display.Height)
	v.SetDefault("display.fps", cfg.Display.FPS)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("events.enabled", cfg.Events.Enabled)
	v.SetDefault("events.file", cfg.Events.File)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading %s: %w", ConfigFileName, err)
	}

	cfg.Storage.File = v.GetString("storage.file")
	cfg.Display.Width = v.GetInt("display.width")
	cfg.Display.Height = v.GetInt("display.height")
	cfg.Display.FPS = v.GetInt("display.fps")
	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Format = v.GetString("log.format")
	cfg.Events.Enabled = v.GetBool("events.enabled")
	cfg.Events.File = v.GetString("events.file")

	return cfg, nil
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"console": true,
	"json":    true,
}

// ValidateConfig checks the provided configuration for invalid values and
// returns a clear error message identifying every problem.
func (cm *viperConfigManager) ValidateConfig(cfg *models.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	if strings.TrimSpace(cfg.Storage.File) == "" {
		errs = append(errs, "storage.file must not be empty")
	}
	if cfg.Display.Width <= 0 {
		errs = append(errs, fmt.Sprintf("display.width must be positive, got %d", cfg.Display.Width))
	}
	if cfg.Display.Height <= 0 {
		errs = append(errs, fmt.Sprintf("display.height must be positive, got %d", cfg.Display.Height))
	}
	if cfg.Display.FPS <= 0 {
		errs = append(errs, fmt.Sprintf("display.fps must be positive, got %d", cfg.Display.FPS))
	}
	if !validLogLevels[strings.ToLower(cfg.Log.Level)] {
		errs = append(errs, fmt.Sprintf(
			"log.level %q is invalid, must be one of: debug, info, warn, error",
			cfg.Log.Level,
		))
	}
	if !validLogFormats[strings.ToLower(cfg.Log.Format)] {
		errs = append(errs, fmt.Sprintf(
			"log.format %q is invalid, must be one of: console, json",
			cfg.Log.Format,
		))
	}
	if cfg.Events.Enabled && strings.TrimSpace(cfg.Events.File) == "" {
		errs = append(errs, "events.file must not be empty when events are enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
