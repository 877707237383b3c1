package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, BackendCLI, cfg.Changed.Backend)
	assert.Equal(t, "git", cfg.Changed.GitBinary)
	assert.Equal(t, []string{".py"}, cfg.Changed.Extensions)
	assert.Empty(t, cfg.Tools.Skip)
	assert.True(t, cfg.Tools.VersionProbe)
	assert.False(t, cfg.Logging.Caller)
	assert.Equal(t, ColorAuto, cfg.Output.Color)
	assert.True(t, cfg.Output.Banner)
	assert.Equal(t, 300*time.Millisecond, cfg.Watch.Debounce.Duration())
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFiles(t *testing.T) {
	cfg, err := Load(Options{Dir: t.TempDir(), SkipEnv: true})
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `changed:
  backend: embedded
  extensions: [".py", ".pyi"]
tools:
  skip: [mypy]
output:
  banner: false
watch:
  debounce: 1s
`)

	cfg, err := Load(Options{Dir: dir, SkipEnv: true})
	require.NoError(t, err)

	assert.Equal(t, BackendEmbedded, cfg.Changed.Backend)
	assert.Equal(t, []string{".py", ".pyi"}, cfg.Changed.Extensions)
	assert.Equal(t, []string{"mypy"}, cfg.Tools.Skip)
	assert.False(t, cfg.Output.Banner)
	assert.Equal(t, time.Second, cfg.Watch.Debounce.Duration())
	// untouched keys keep defaults
	assert.Equal(t, "git", cfg.Changed.GitBinary)
	assert.Equal(t, ColorAuto, cfg.Output.Color)
}

func TestLoad_Pyproject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, PyprojectFileName, `[project]
name = "example"

[tool.black]
line-length = 100

[tool.lintlizard.changed]
git-binary = "/usr/local/bin/git"

[tool.lintlizard.tools]
skip = ["flake8"]
`)

	cfg, err := Load(Options{Dir: dir, SkipEnv: true})
	require.NoError(t, err)

	assert.Equal(t, "/usr/local/bin/git", cfg.Changed.GitBinary)
	assert.Equal(t, []string{"flake8"}, cfg.Tools.Skip)
}

func TestLoad_PyprojectWithoutTable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, PyprojectFileName, "[project]\nname = \"example\"\n")

	cfg, err := Load(Options{Dir: dir, SkipEnv: true})
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, PyprojectFileName, `[tool.lintlizard.output]
color = "never"
banner = false

[tool.lintlizard.logging]
level = "info"
`)
	writeFile(t, dir, FileName, `output:
  color: always
`)
	t.Setenv("LINTLIZARD_LOGGING_LEVEL", "debug")

	cfg, err := Load(Options{Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, ColorAlways, cfg.Output.Color, "yaml overrides pyproject")
	assert.False(t, cfg.Output.Banner, "pyproject overrides defaults")
	assert.Equal(t, "debug", cfg.Logging.Level, "env overrides everything")
}

func TestLoad_EnvLists(t *testing.T) {
	t.Setenv("LINTLIZARD_TOOLS_SKIP", "mypy, black")
	t.Setenv("LINTLIZARD_CHANGED_GIT_BINARY", "git2")

	cfg, err := Load(Options{Dir: t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, []string{"mypy", "black"}, cfg.Tools.Skip)
	assert.Equal(t, "git2", cfg.Changed.GitBinary)
}

func TestLoad_EnvBooleans(t *testing.T) {
	t.Setenv("LINTLIZARD_TOOLS_VERSION_PROBE", "false")
	t.Setenv("LINTLIZARD_LOGGING_CALLER", "true")

	cfg, err := Load(Options{Dir: t.TempDir()})
	require.NoError(t, err)

	assert.False(t, cfg.Tools.VersionProbe)
	assert.True(t, cfg.Logging.Caller)
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "custom.yaml", "changed:\n  backend: embedded\n")

	cfg, err := Load(Options{Dir: t.TempDir(), File: path, SkipEnv: true})
	require.NoError(t, err)
	assert.Equal(t, BackendEmbedded, cfg.Changed.Backend)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, err := Load(Options{Dir: t.TempDir(), File: filepath.Join(t.TempDir(), "missing.yaml"), SkipEnv: true})
	require.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "changed: [unclosed\n")

	_, err := Load(Options{Dir: dir, SkipEnv: true})
	require.Error(t, err)
}

func TestLoad_InvalidPyproject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, PyprojectFileName, "[tool.lintlizard\n")

	_, err := Load(Options{Dir: dir, SkipEnv: true})
	require.Error(t, err)
}

func TestLoad_FileTooLarge(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "# "+strings.Repeat("x", maxConfigFileSize))

	_, err := Load(Options{Dir: dir, SkipEnv: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestLoad_ValidationFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "changed:\n  backend: svn\n")

	_, err := Load(Options{Dir: dir, SkipEnv: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "changed.backend")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"embedded without git binary", func(c *Config) {
			c.Changed.Backend = BackendEmbedded
			c.Changed.GitBinary = ""
		}, ""},
		{"unknown backend", func(c *Config) { c.Changed.Backend = "hg" }, "changed.backend"},
		{"cli without git binary", func(c *Config) { c.Changed.GitBinary = " " }, "git_binary"},
		{"no extensions", func(c *Config) { c.Changed.Extensions = nil }, "extensions cannot be empty"},
		{"extension without dot", func(c *Config) { c.Changed.Extensions = []string{"py"} }, "must start with a dot"},
		{"empty skip name", func(c *Config) { c.Tools.Skip = []string{""} }, "tools.skip"},
		{"bad color", func(c *Config) { c.Output.Color = "rainbow" }, "output.color"},
		{"zero debounce", func(c *Config) { c.Watch.Debounce = 0 }, "watch.debounce"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDuration_UnmarshalText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("250ms")))
	assert.Equal(t, 250*time.Millisecond, d.Duration())

	assert.Error(t, d.UnmarshalText([]byte("-1s")))
	assert.Error(t, d.UnmarshalText([]byte("soon")))
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "changed.git_binary", envKey("LINTLIZARD_CHANGED_GIT_BINARY"))
	assert.Equal(t, "watch.debounce", envKey("LINTLIZARD_WATCH_DEBOUNCE"))
	assert.Equal(t, "verbose", envKey("LINTLIZARD_VERBOSE"))
}
