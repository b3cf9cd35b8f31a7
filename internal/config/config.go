package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"

	"tasktracker/internal/store"
)

// Config holds runtime settings for both shells.
type Config struct {
	Port                int    `toml:"port"`
	HistoryLimit        int    `toml:"history_limit"`
	ClearRedoOnMutation bool   `toml:"clear_redo_on_mutation"`
	LogLevel            string `toml:"log_level"`
	Journal             bool   `toml:"journal"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:         8080,
		HistoryLimit: store.DefaultHistoryLimit,
		LogLevel:     "info",
		Journal:      true,
	}
}

// DefaultConfigPath returns the per-user config file location.
func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "tasktracker", "config.toml"), nil
}

// Load reads the TOML file at path on top of the defaults and then applies
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %w", err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("HISTORY_LIMIT"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid HISTORY_LIMIT: %w", err)
		}
		cfg.HistoryLimit = limit
	}
	if v := os.Getenv("CLEAR_REDO_ON_MUTATION"); v != "" {
		purge, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid CLEAR_REDO_ON_MUTATION: %w", err)
		}
		cfg.ClearRedoOnMutation = purge
	}
	if v := os.Getenv("JOURNAL"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid JOURNAL: %w", err)
		}
		cfg.Journal = enabled
	}
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	return nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", c.Port)
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("invalid history_limit %d: must be zero (unbounded) or positive", c.HistoryLimit)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	return nil
}

// Level returns the parsed log level.
func (c Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// StoreOptions maps the configuration onto task store options.
func (c Config) StoreOptions() store.Options {
	return store.Options{
		HistoryLimit:        c.HistoryLimit,
		ClearRedoOnMutation: c.ClearRedoOnMutation,
	}
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
