package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestEmptyRuntimeConfig_Defaults(t *testing.T) {
	cfg := EmptyRuntimeConfig()

	if got := cfg.GetDatabasePath(); got != "sprayer_data.db" {
		t.Errorf("GetDatabasePath() = %q, want sprayer_data.db", got)
	}
	if got := cfg.GetModelDir(); got != "models" {
		t.Errorf("GetModelDir() = %q, want models", got)
	}
	if got := cfg.GetListen(); got != ":8080" {
		t.Errorf("GetListen() = %q, want :8080", got)
	}
	if got := cfg.GetPressureUnits(); got != "bar" {
		t.Errorf("GetPressureUnits() = %q, want bar", got)
	}
}

func TestLoadRuntimeConfig(t *testing.T) {
	path := writeConfig(t, "conf.json",
		`{"database_path": "/data/spray.db", "pressure_units": "psi"}`)

	cfg, err := LoadRuntimeConfig(path)
	if err != nil {
		t.Fatalf("LoadRuntimeConfig failed: %v", err)
	}

	if got := cfg.GetDatabasePath(); got != "/data/spray.db" {
		t.Errorf("GetDatabasePath() = %q, want /data/spray.db", got)
	}
	if got := cfg.GetPressureUnits(); got != "psi" {
		t.Errorf("GetPressureUnits() = %q, want psi", got)
	}
	// Omitted fields keep defaults.
	if got := cfg.GetListen(); got != ":8080" {
		t.Errorf("GetListen() = %q, want :8080", got)
	}
}

func TestLoadRuntimeConfig_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"wrong extension", "conf.yaml", `{}`},
		{"bad JSON", "conf.json", `{broken`},
		{"invalid units", "conf.json", `{"pressure_units": "furlongs"}`},
		{"empty listen", "conf.json", `{"listen": ""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.content)
			if _, err := LoadRuntimeConfig(path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadRuntimeConfig_MissingFile(t *testing.T) {
	if _, err := LoadRuntimeConfig(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}
