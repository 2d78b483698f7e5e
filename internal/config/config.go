// Package config loads pressroom settings.
//
// Settings come from a YAML file (located through FindPath) and are then
// overridden by PRESSROOM_* environment variables. Missing values fall back
// to Default.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable pointing at the config file.
const EnvConfigPath = "PRESSROOM_CONFIG"

// DefaultPath is looked up in the working directory when EnvConfigPath is unset.
const DefaultPath = "pressroom.yaml"

type (
	Config struct {
		Database Database `yaml:"database"`
		Log      Log      `yaml:"log"`
	}

	Database struct {
		Driver string `yaml:"driver"` // sqlite, mysql or postgres
		DSN    string `yaml:"dsn"`    // file path for sqlite
	}

	Log struct {
		Level      string `yaml:"level"` // info, debug or trace
		File       string `yaml:"file"`  // empty: console only
		SQL        bool   `yaml:"sql"`   // log statements at trace level
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	}
)

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		Database: Database{Driver: "sqlite", DSN: "./pressroom.db"},
		Log: Log{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// FindPath returns the config file to read, or "" when there is none.
func FindPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	if _, err := os.Stat(DefaultPath); err == nil {
		return DefaultPath
	}
	return ""
}

// Load reads the config file at path (FindPath when path is empty) and
// applies environment overrides. It returns the path actually read, which
// is empty when only defaults and environment were used.
func Load(path string) (*Config, string, error) {
	if path == "" {
		path = FindPath()
	}

	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadFromPath(path); err != nil {
			return nil, path, err
		}
	}

	cfg.ApplyEnv(os.Getenv)
	return cfg, path, nil
}

// LoadFromPath reads the YAML file at path on top of Default.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// ApplyEnv overrides settings from PRESSROOM_* variables read with getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("PRESSROOM_DB_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := getenv("PRESSROOM_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := getenv("PRESSROOM_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("PRESSROOM_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := getenv("PRESSROOM_LOG_SQL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Log.SQL = b
		}
	}
}

// applyDefaults fills values a config file blanked out.
func (c *Config) applyDefaults() {
	d := Default()
	if c.Database.Driver == "" {
		c.Database.Driver = d.Database.Driver
	}
	if c.Database.DSN == "" {
		c.Database.DSN = d.Database.DSN
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.MaxSizeMB <= 0 {
		c.Log.MaxSizeMB = d.Log.MaxSizeMB
	}
}
