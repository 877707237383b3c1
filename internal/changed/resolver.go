package changed

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fyrsmithlabs/lintlizard/internal/config"
)

// Resolver lists the changed source files.
type Resolver interface {
	// Resolve returns the matching paths in a stable order. The result is
	// empty, never nil-with-an-empty-string, when nothing matches.
	Resolve(ctx context.Context) ([]string, error)
	// Name identifies the backend in logs and errors.
	Name() string
}

// Filter keeps paths with one of the configured extensions.
type Filter struct {
	Extensions []string
}

// Match reports whether path has an accepted extension.
// An empty filter accepts everything.
func (f Filter) Match(path string) bool {
	if path == "" {
		return false
	}
	if len(f.Extensions) == 0 {
		return true
	}
	ext := filepath.Ext(path)
	for _, want := range f.Extensions {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

// New builds the resolver selected by cfg for the project directory dir.
func New(cfg config.ChangedConfig, dir string) (Resolver, error) {
	filter := Filter{Extensions: cfg.Extensions}
	switch cfg.Backend {
	case config.BackendCLI, "":
		return NewGitCLI(cfg.GitBinary, dir, filter), nil
	case config.BackendEmbedded:
		return NewEmbedded(dir, filter), nil
	default:
		return nil, fmt.Errorf("unknown changed-file backend %q", cfg.Backend)
	}
}
