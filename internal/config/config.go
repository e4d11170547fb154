package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// AppName is used for the data directory and as the default window title.
const AppName = "cnbpad"

// Log formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Config is the resolved application configuration.
type Config struct {
	Paths   PathsConfig   `toml:"paths" yaml:"paths"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
	Editor  EditorConfig  `toml:"editor" yaml:"editor"`
	Window  WindowConfig  `toml:"window" yaml:"window"`
}

// PathsConfig locates on-disk state.
type PathsConfig struct {
	// DataDir holds the settings database.
	DataDir string `toml:"dataDir" yaml:"dataDir"`
	// LegacyJSON is a JSON settings file imported on first launch.
	// Empty means settings-<host>.json in the working directory.
	LegacyJSON string `toml:"legacyJson" yaml:"legacyJson"`
}

// LoggingConfig configures the application logger.
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
	// File receives log output. Empty means stderr.
	File string `toml:"file" yaml:"file"`
}

// EditorConfig holds editor timings and defaults.
type EditorConfig struct {
	CountInterval    Duration `toml:"countInterval" yaml:"countInterval"`
	StatusTimeout    Duration `toml:"statusTimeout" yaml:"statusTimeout"`
	DefaultExtension string   `toml:"defaultExtension" yaml:"defaultExtension"`
}

// WindowConfig sizes the main window.
type WindowConfig struct {
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`
	Title  string `toml:"title" yaml:"title"`
}

// Default returns the built-in configuration.
func Default() *Config {
	dataDir := "."
	if dir, err := os.UserConfigDir(); err == nil {
		dataDir = filepath.Join(dir, AppName)
	}

	return &Config{
		Paths: PathsConfig{
			DataDir: dataDir,
		},
		Logging: LoggingConfig{
			Level:  zerolog.LevelInfoValue,
			Format: FormatConsole,
		},
		Editor: EditorConfig{
			CountInterval:    Duration(time.Second),
			StatusTimeout:    Duration(2 * time.Second),
			DefaultExtension: ".txt",
		},
		Window: WindowConfig{
			Width:  800,
			Height: 600,
			Title:  "CNB Notepad",
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level)); err != nil || c.Logging.Level == "" {
		return &ValidationError{Path: "logging.level", Message: "unknown log level", Value: c.Logging.Level}
	}
	switch c.Logging.Format {
	case FormatJSON, FormatConsole:
	default:
		return &ValidationError{Path: "logging.format", Message: "must be json or console", Value: c.Logging.Format}
	}
	if c.Editor.CountInterval <= 0 {
		return &ValidationError{Path: "editor.countInterval", Message: "must be positive", Value: c.Editor.CountInterval}
	}
	if c.Editor.StatusTimeout <= 0 {
		return &ValidationError{Path: "editor.statusTimeout", Message: "must be positive", Value: c.Editor.StatusTimeout}
	}
	if ext := c.Editor.DefaultExtension; ext != "" && !strings.HasPrefix(ext, ".") {
		return &ValidationError{Path: "editor.defaultExtension", Message: "must start with a dot", Value: ext}
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return &ValidationError{Path: "window", Message: "size must be positive", Value: fmt.Sprintf("%dx%d", c.Window.Width, c.Window.Height)}
	}
	if c.Paths.DataDir == "" {
		return &ValidationError{Path: "paths.dataDir", Message: "must not be empty", Value: c.Paths.DataDir}
	}
	return nil
}

// ZerologLevel returns the configured level, or info if it does not parse.
func (l LoggingConfig) ZerologLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(l.Level))
	if err != nil || l.Level == "" {
		return zerolog.InfoLevel
	}
	return level
}

// Duration is a time.Duration written as a string such as "1s" or "250ms".
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// String implements fmt.Stringer.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", node.Line)
	}
	return d.UnmarshalText([]byte(node.Value))
}
