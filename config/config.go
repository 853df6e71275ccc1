package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds everything needed to open a database and log against it.
type Config struct {
	Storage StorageConfig `yaml:"storage"`

	// Codec is the record encoding, "bson" or "json".
	// Default: "bson"
	Codec string `yaml:"codec"`

	Log LogConfig `yaml:"log"`
}

type StorageConfig struct {
	// Backend is one of "memory" (prefix tree), "ordered" (skip list) or "sqlite".
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// Path of the SQLite database file, ignored by in-memory backends.
	// Default: "dbhelper.db"
	Path string `yaml:"path"`
}

type LogConfig struct {
	// Level is debug, info, warn or error.
	// Default: "info"
	Level string `yaml:"level"`

	// Format is "dev", "tint", "json" or "text".
	// Default: "tint"
	Format string `yaml:"format"`
}

const (
	BackendMemory  = "memory"
	BackendOrdered = "ordered"
	BackendSQLite  = "sqlite"
)

var ErrInvalid = errors.New("config: invalid value")

// Default returns a config for a local SQLite file.
func Default() Config {
	return Config{
		Storage: StorageConfig{Backend: BackendSQLite, Path: "dbhelper.db"},
		Codec:   "bson",
		Log:     LogConfig{Level: "info", Format: "tint"},
	}
}

// Load reads a YAML config from path on top of the defaults, then applies
// DBHELPER_* environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("DBHELPER_DB"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("DBHELPER_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("DBHELPER_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate fills empty fields with defaults and rejects unknown values.
func (c *Config) Validate() error {
	def := Default()
	if c.Storage.Backend == "" {
		c.Storage.Backend = def.Storage.Backend
	}
	if c.Storage.Path == "" {
		c.Storage.Path = def.Storage.Path
	}
	if c.Codec == "" {
		c.Codec = def.Codec
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}

	c.Storage.Backend = strings.ToLower(c.Storage.Backend)
	c.Log.Level = strings.ToLower(c.Log.Level)

	switch c.Storage.Backend {
	case BackendMemory, BackendOrdered, BackendSQLite:
	default:
		return fmt.Errorf("%w: storage backend %q", ErrInvalid, c.Storage.Backend)
	}
	switch c.Codec {
	case "bson", "json":
	default:
		return fmt.Errorf("%w: codec %q", ErrInvalid, c.Codec)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.Log.Level)
	}
	switch c.Log.Format {
	case "dev", "tint", "json", "text":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalid, c.Log.Format)
	}
	return nil
}
