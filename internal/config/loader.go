package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CNBPAD_"

// envMapping maps environment variables onto config fields.
var envMapping = map[string]func(*Config, string) error{
	EnvPrefix + "LOG_LEVEL": func(c *Config, v string) error {
		c.Logging.Level = strings.ToLower(v)
		return nil
	},
	EnvPrefix + "LOG_FORMAT": func(c *Config, v string) error {
		c.Logging.Format = strings.ToLower(v)
		return nil
	},
	EnvPrefix + "LOG_FILE": func(c *Config, v string) error {
		c.Logging.File = v
		return nil
	},
	EnvPrefix + "DATA_DIR": func(c *Config, v string) error {
		c.Paths.DataDir = v
		return nil
	},
	EnvPrefix + "COUNT_INTERVAL": func(c *Config, v string) error {
		return c.Editor.CountInterval.UnmarshalText([]byte(v))
	},
	EnvPrefix + "STATUS_TIMEOUT": func(c *Config, v string) error {
		return c.Editor.StatusTimeout.UnmarshalText([]byte(v))
	},
}

// Load resolves the configuration from defaults, the file at path and the
// environment, then validates it. An empty path or a missing file leaves
// the defaults in place.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile decodes path over cfg. Fields absent from the file keep their
// current values.
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil // File doesn't exist, not an error
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return parseTOML(cfg, path, data)
	case ".yaml", ".yml":
		return parseYAML(cfg, path, data)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

func parseTOML(cfg *Config, path string, data []byte) error {
	if err := toml.Unmarshal(data, cfg); err != nil {
		perr := &ParseError{Path: path, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return perr
	}
	return nil
}

func parseYAML(cfg *Config, path string, data []byte) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	return nil
}

// applyEnv applies CNBPAD_* overrides. Empty values are treated as set.
func applyEnv(cfg *Config) error {
	for name, apply := range envMapping {
		val, ok := os.LookupEnv(name)
		if !ok {
			continue
		}
		if err := apply(cfg, val); err != nil {
			return fmt.Errorf("environment %s: %w", name, err)
		}
	}
	return nil
}
