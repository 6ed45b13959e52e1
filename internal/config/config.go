// Package config loads the optional JSON runtime configuration for the
// sprayer service. Fields omitted from the file keep their defaults, so
// partial configs are safe. Contract constants (thresholds, window sizes,
// sampling rate) are NOT configurable: they are baked into the engine to
// match the frozen models.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/smartspray-data/sprayer.report/internal/units"
)

// RuntimeConfig is the root configuration for the service. All fields are
// pointers so an omitted field is distinguishable from a zero value.
type RuntimeConfig struct {
	DatabasePath  *string `json:"database_path,omitempty"`
	ModelDir      *string `json:"model_dir,omitempty"`
	Listen        *string `json:"listen,omitempty"`
	PressureUnits *string `json:"pressure_units,omitempty"`
}

// EmptyRuntimeConfig returns a RuntimeConfig with all fields set to nil.
func EmptyRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{}
}

// LoadRuntimeConfig loads a RuntimeConfig from a JSON file. The file is
// validated to ensure it has a .json extension and is under the max file
// size.
func LoadRuntimeConfig(path string) (*RuntimeConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse JSON into empty config. The Get* methods provide fallback
	// defaults for any fields not specified in the JSON.
	cfg := EmptyRuntimeConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *RuntimeConfig) Validate() error {
	if c.PressureUnits != nil && !units.IsValidPressure(*c.PressureUnits) {
		return fmt.Errorf("invalid pressure_units %q, valid values: %s",
			*c.PressureUnits, units.ValidPressureUnitsString())
	}
	if c.Listen != nil && *c.Listen == "" {
		return fmt.Errorf("listen address must not be empty when set")
	}
	return nil
}

// GetDatabasePath returns the database path or the default.
func (c *RuntimeConfig) GetDatabasePath() string {
	if c.DatabasePath == nil || *c.DatabasePath == "" {
		return "sprayer_data.db"
	}
	return *c.DatabasePath
}

// GetModelDir returns the model artifact directory or the default.
func (c *RuntimeConfig) GetModelDir() string {
	if c.ModelDir == nil || *c.ModelDir == "" {
		return "models"
	}
	return *c.ModelDir
}

// GetListen returns the HTTP listen address or the default.
func (c *RuntimeConfig) GetListen() string {
	if c.Listen == nil || *c.Listen == "" {
		return ":8080"
	}
	return *c.Listen
}

// GetPressureUnits returns the display pressure units or the default.
func (c *RuntimeConfig) GetPressureUnits() string {
	if c.PressureUnits == nil || *c.PressureUnits == "" {
		return units.Bar
	}
	return *c.PressureUnits
}
