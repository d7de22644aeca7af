package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Schedule != "telefono" {
		t.Errorf("Wrong default schedule: %s", cfg.Schedule)
	}

	if cfg.WeekStartDay != time.Monday {
		t.Errorf("Wrong default week start day: %v", cfg.WeekStartDay)
	}

	if cfg.TimeFormat != "15:04" {
		t.Errorf("Wrong default time format: %s", cfg.TimeFormat)
	}

	if cfg.StartupView != "matrix" {
		t.Errorf("Wrong default startup view: %s", cfg.StartupView)
	}

	if !cfg.AutoRefresh {
		t.Error("Auto refresh should be enabled by default")
	}

	if cfg.RefreshRate != 30*time.Second {
		t.Errorf("Wrong default refresh rate: %v", cfg.RefreshRate)
	}
}

func TestLoadConfigFile(t *testing.T) {
	content := `base_url: https://backend.example.org/api
token: secret
table_id: tbl1
schedule: chat
user_name: Alessandro Galli
role: Amministratore
week_start: sunday
startup_view: roster
refresh_rate: 1m
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile failed: %v", err)
	}

	if cfg.BaseURL != "https://backend.example.org/api" {
		t.Errorf("base_url = %s", cfg.BaseURL)
	}
	if cfg.TableID != "tbl1" {
		t.Errorf("table_id = %s", cfg.TableID)
	}
	if cfg.Schedule != "chat" {
		t.Errorf("schedule = %s", cfg.Schedule)
	}
	if cfg.WeekStartDay != time.Sunday {
		t.Errorf("week start = %v, want Sunday", cfg.WeekStartDay)
	}
	if cfg.StartupView != "roster" {
		t.Errorf("startup_view = %s", cfg.StartupView)
	}
	if cfg.RefreshRate != time.Minute {
		t.Errorf("refresh_rate = %v", cfg.RefreshRate)
	}
	// Unset keys keep their defaults.
	if cfg.TimeFormat != "15:04" {
		t.Errorf("time_format = %s, want the default", cfg.TimeFormat)
	}
}

func TestLoadConfigFileMissing(t *testing.T) {
	if _, err := LoadConfigFile("/nonexistent/config.yaml"); err == nil {
		t.Error("missing explicit config file should fail")
	}
}

func TestNormalizeRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad week_start", "week_start: someday\n"},
		{"bad schedule", "schedule: fax\n"},
		{"bad startup_view", "startup_view: dashboard\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadConfigFile(path); err == nil {
				t.Error("invalid value should fail to load")
			}
		})
	}
}

func TestDataFileTildeExpansion(t *testing.T) {
	content := "data_file: ~/planner/data.json\n"
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile failed: %v", err)
	}
	home, _ := os.UserHomeDir()
	want := filepath.Join(home, "planner", "data.json")
	if cfg.DataFile != want {
		t.Errorf("data_file = %s, want %s", cfg.DataFile, want)
	}
}
