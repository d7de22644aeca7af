package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration. Everything the runtime needs is
// injected from here at construction; there are no module-level mode flags.
type Config struct {
	// Backend settings
	BaseURL  string `yaml:"base_url"`
	Token    string `yaml:"token"`
	TableID  string `yaml:"table_id"`
	Schedule string `yaml:"schedule"` // telefono or chat

	// Identity, as the backend reports it (free text; normalized at ingestion)
	UserName string `yaml:"user_name"`
	Role     string `yaml:"role"`

	// Display settings
	WeekStartDay time.Weekday `yaml:"-"`
	WeekStart    string       `yaml:"week_start"`
	TimeFormat   string       `yaml:"time_format"`
	DateFormat   string       `yaml:"date_format"`
	StartupView  string       `yaml:"startup_view"` // matrix, records or roster

	// Behavior settings
	AutoRefresh    bool          `yaml:"auto_refresh"`
	RefreshRate    time.Duration `yaml:"-"`
	RefreshRateStr string        `yaml:"refresh_rate"`

	// Offline mode: serve and persist from this JSON file instead of the
	// backend. Empty means live.
	DataFile string `yaml:"data_file"`
}

func DefaultConfig() *Config {
	return &Config{
		Schedule:     "telefono",
		WeekStartDay: time.Monday,
		WeekStart:    "monday",
		TimeFormat:   "15:04",
		DateFormat:   "Jan 2, 2006",
		StartupView:  "matrix",
		AutoRefresh:  true,
		RefreshRate:  30 * time.Second,
	}
}

// LoadConfig reads the first config file found in the usual locations and
// applies it over the defaults. A missing file is not an error.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	configPaths := []string{
		os.Getenv("SHIFTCAL_CONFIG"),
		filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "shiftcal", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "shiftcal", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".shiftcal.yaml"),
	}

	for _, path := range configPaths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			if err := cfg.loadFromFile(path); err != nil {
				return nil, fmt.Errorf("error loading config from %s: %w", path, err)
			}
			break
		}
	}

	return cfg, nil
}

// LoadConfigFile reads one specific config file over the defaults.
func LoadConfigFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.loadFromFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config file %s does not exist", path)
		}
		return err
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return c.normalize()
}

func (c *Config) normalize() error {
	switch strings.ToLower(c.WeekStart) {
	case "", "monday", "mon", "1":
		c.WeekStartDay = time.Monday
	case "sunday", "sun", "0":
		c.WeekStartDay = time.Sunday
	default:
		return fmt.Errorf("invalid week_start: %s", c.WeekStart)
	}

	switch c.Schedule {
	case "", "telefono", "chat":
	default:
		return fmt.Errorf("invalid schedule: %s (want telefono or chat)", c.Schedule)
	}

	switch c.StartupView {
	case "", "matrix", "records", "roster":
	default:
		return fmt.Errorf("invalid startup_view: %s", c.StartupView)
	}

	if c.RefreshRateStr != "" {
		rate, err := time.ParseDuration(c.RefreshRateStr)
		if err != nil {
			return fmt.Errorf("invalid refresh_rate: %s", c.RefreshRateStr)
		}
		c.RefreshRate = rate
	}

	if strings.HasPrefix(c.DataFile, "~/") {
		home, _ := os.UserHomeDir()
		c.DataFile = filepath.Join(home, c.DataFile[2:])
	}
	return nil
}
