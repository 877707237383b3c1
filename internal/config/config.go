// Package config provides layered configuration loading for lintlizard.
//
// Sources are applied lowest to highest precedence: built-in defaults, the
// [tool.lintlizard] table of pyproject.toml, .lintlizard.yaml, and
// LINTLIZARD_* environment variables. Command-line flags are applied on top
// by the caller.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/lintlizard/internal/logging"
)

// Changed-file backends.
const (
	BackendCLI      = "cli"
	BackendEmbedded = "embedded"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds the complete lintlizard configuration.
type Config struct {
	Changed ChangedConfig `koanf:"changed"`
	Tools   ToolsConfig   `koanf:"tools"`
	Output  OutputConfig  `koanf:"output"`
	Watch   WatchConfig   `koanf:"watch"`
	Logging LoggingConfig `koanf:"logging"`
}

// ChangedConfig controls changed-file detection.
type ChangedConfig struct {
	Backend    string   `koanf:"backend"`    // cli or embedded
	GitBinary  string   `koanf:"git_binary"` // only used by the cli backend
	Extensions []string `koanf:"extensions"` // e.g. [".py"]
}

// ToolsConfig narrows the built-in tool catalog.
type ToolsConfig struct {
	Skip []string `koanf:"skip"`
	// VersionProbe runs "<tool> --version" before each tool.
	VersionProbe bool `koanf:"version_probe"`
}

// OutputConfig controls terminal output.
type OutputConfig struct {
	Color  string `koanf:"color"`
	Banner bool   `koanf:"banner"`
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	Debounce Duration `koanf:"debounce"`
}

// LoggingConfig holds logging settings as plain strings; the logging
// package parses them.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"` // annotate entries with file:line
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []error

	switch c.Changed.Backend {
	case BackendCLI:
		if strings.TrimSpace(c.Changed.GitBinary) == "" {
			errs = append(errs, errors.New("changed.git_binary is required for the cli backend"))
		}
	case BackendEmbedded:
	default:
		errs = append(errs, fmt.Errorf("changed.backend must be %q or %q, got %q", BackendCLI, BackendEmbedded, c.Changed.Backend))
	}

	if len(c.Changed.Extensions) == 0 {
		errs = append(errs, errors.New("changed.extensions cannot be empty"))
	}
	for _, ext := range c.Changed.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			errs = append(errs, fmt.Errorf("changed.extensions: %q must start with a dot", ext))
		}
	}

	for _, name := range c.Tools.Skip {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, errors.New("tools.skip cannot contain empty names"))
			break
		}
	}

	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		errs = append(errs, fmt.Errorf("output.color must be auto, always or never, got %q", c.Output.Color))
	}

	if c.Watch.Debounce.Duration() <= 0 {
		errs = append(errs, errors.New("watch.debounce must be > 0"))
	}

	if _, err := logging.LevelFromString(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		errs = append(errs, fmt.Errorf("logging.format must be 'json' or 'console', got %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}
