// Package config loads the organizer's settings.
//
// Settings are layered, later layers winning:
//
//  1. built-in defaults
//  2. an optional YAML file
//  3. a .env file in the working directory (never overriding real env vars)
//  4. environment variables
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/mmynk/lifesync/pkg/logging"
)

// Environment variables read by Load.
const (
	EnvDBPath      = "LIFESYNC_DB"
	EnvFormat      = "LIFESYNC_FORMAT"
	EnvWriteBehind = "LIFESYNC_WRITE_BEHIND"
	EnvLogLevel    = "LOG_LEVEL"
)

// Config holds the organizer's settings.
type Config struct {
	// DBPath is the SQLite file backing the durable store.
	DBPath string `yaml:"db_path"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Format is the CLI output format: text or json.
	Format string `yaml:"format"`

	// WriteBehind persists in the background instead of on every write.
	WriteBehind bool `yaml:"write_behind"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DBPath:   "./data/lifesync.db",
		LogLevel: "warn",
		Format:   "text",
	}
}

// Load builds the configuration. path may be empty; a missing .env file is
// not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvDBPath); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvFormat); v != "" {
		c.Format = v
	}
	if v := os.Getenv(EnvWriteBehind); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvWriteBehind, v, err)
		}
		c.WriteBehind = b
	}
	return nil
}

// ValidFormats lists the accepted output formats.
var ValidFormats = []string{"text", "json"}

// Validate checks that every setting has an accepted value.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("db path must not be empty")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	for _, f := range ValidFormats {
		if f == c.Format {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be one of %v", c.Format, ValidFormats)
}
