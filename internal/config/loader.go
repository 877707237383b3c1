package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "LINTLIZARD_"
	// FileName is the project-level YAML config file.
	FileName = ".lintlizard.yaml"
	// PyprojectFileName is the Python project metadata file.
	PyprojectFileName = "pyproject.toml"

	maxConfigFileSize = 1024 * 1024 // 1MB
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Options selects the sources Load reads.
type Options struct {
	// Dir is the project directory holding pyproject.toml and .lintlizard.yaml.
	// Empty means the current working directory.
	Dir string
	// File is an explicit YAML config path. When set it must exist and
	// replaces Dir/.lintlizard.yaml.
	File string
	// SkipEnv disables LINTLIZARD_* environment overrides.
	SkipEnv bool
}

// Default returns the built-in configuration.
func Default() *Config {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(defaultsYAML), yaml.Parser()); err != nil {
		panic(fmt.Sprintf("config: invalid built-in defaults: %v", err))
	}
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		panic(fmt.Sprintf("config: invalid built-in defaults: %v", err))
	}
	return &cfg
}

// Load builds the configuration from every source in precedence order.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (LINTLIZARD_CHANGED_BACKEND, LINTLIZARD_TOOLS_SKIP, ...)
//  2. YAML config file (.lintlizard.yaml or Options.File)
//  3. [tool.lintlizard] in pyproject.toml
//  4. Built-in defaults
//
// Missing optional files are skipped. Parse errors, oversized files and
// validation failures are returned.
func Load(opts Options) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider(defaultsYAML), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	dir := opts.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}

	pyproject := filepath.Join(dir, PyprojectFileName)
	if _, err := os.Stat(pyproject); err == nil {
		if err := k.Load(PyprojectProvider(pyproject), nil); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", pyproject, err)
		}
	}

	configPath := opts.File
	required := configPath != ""
	if !required {
		configPath = filepath.Join(dir, FileName)
	}
	content, err := readConfigFile(configPath)
	switch {
	case err == nil:
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case errors.Is(err, os.ErrNotExist) && !required:
	default:
		return nil, err
	}

	if !opts.SkipEnv {
		if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
			return nil, fmt.Errorf("failed to load environment variables: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// listKeys are the config keys whose environment values are comma-separated.
var listKeys = map[string]bool{
	"changed.extensions": true,
	"tools.skip":         true,
}

// envValue maps an environment variable to its config key and value,
// splitting comma-separated lists.
func envValue(key, value string) (string, interface{}) {
	k := envKey(key)
	if !listKeys[k] {
		return k, value
	}
	items := []interface{}{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return k, items
}

// envKey maps LINTLIZARD_SECTION_FIELD_NAME to section.field_name.
// Split on the first underscore only so field names keep theirs.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

// readConfigFile reads path, rejecting anything that is not a regular file
// or is larger than maxConfigFileSize.
func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	// Validate using the already-opened descriptor to avoid a TOCTOU race.
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("config file %s is not a regular file", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	content, err := io.ReadAll(io.LimitReader(f, maxConfigFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}
