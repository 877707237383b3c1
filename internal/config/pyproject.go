package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Pyproject is a koanf.Provider reading the [tool.lintlizard] table of a
// pyproject.toml file. Keys written in kebab-case (git-binary) are mapped to
// the snake_case keys used everywhere else.
type Pyproject struct {
	path string
}

// PyprojectProvider returns a provider for the given pyproject.toml path.
func PyprojectProvider(path string) *Pyproject {
	return &Pyproject{path: path}
}

type pyprojectDoc struct {
	Tool struct {
		Lintlizard map[string]interface{} `toml:"lintlizard"`
	} `toml:"tool"`
}

// ReadBytes is not supported; the provider returns a parsed map.
func (p *Pyproject) ReadBytes() ([]byte, error) {
	return nil, errors.New("pyproject provider does not support this method")
}

// Read returns the [tool.lintlizard] table, or an empty map when the table
// is absent.
func (p *Pyproject) Read() (map[string]interface{}, error) {
	content, err := readConfigFile(p.path)
	if err != nil {
		return nil, err
	}

	var doc pyprojectDoc
	if _, err := toml.Decode(string(content), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", p.path, err)
	}
	if doc.Tool.Lintlizard == nil {
		return map[string]interface{}{}, nil
	}
	return normalizeKeys(doc.Tool.Lintlizard), nil
}

func normalizeKeys(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		if nested, ok := v.(map[string]interface{}); ok {
			v = normalizeKeys(nested)
		}
		out[strings.ReplaceAll(k, "-", "_")] = v
	}
	return out
}
