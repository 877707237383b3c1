package tool

import (
	"fmt"
)

// Registry is the ordered, read-only catalog of known tools.
type Registry struct {
	tools []Descriptor
}

// NewRegistry builds a registry from descriptors in declaration order.
// Descriptors are validated and copied; names must be unique.
func NewRegistry(descriptors ...Descriptor) (*Registry, error) {
	seen := make(map[string]struct{}, len(descriptors))
	tools := make([]Descriptor, 0, len(descriptors))
	for _, d := range descriptors {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[d.Name]; dup {
			return nil, fmt.Errorf("duplicate tool name %q", d.Name)
		}
		seen[d.Name] = struct{}{}
		tools = append(tools, d.clone())
	}
	return &Registry{tools: tools}, nil
}

// MustRegistry is NewRegistry for static catalogs. It panics on error.
func MustRegistry(descriptors ...Descriptor) *Registry {
	r, err := NewRegistry(descriptors...)
	if err != nil {
		panic(fmt.Sprintf("tool: %v", err))
	}
	return r
}

// Tools returns a copy of the descriptors in declaration order.
func (r *Registry) Tools() []Descriptor {
	out := make([]Descriptor, len(r.tools))
	for i, d := range r.tools {
		out[i] = d.clone()
	}
	return out
}

// Names returns tool names in declaration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.tools))
	for i, d := range r.tools {
		names[i] = d.Name
	}
	return names
}

// Lookup returns the descriptor with the given name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	for _, d := range r.tools {
		if d.Name == name {
			return d.clone(), true
		}
	}
	return Descriptor{}, false
}

// Without returns a new registry omitting the named tools. Unknown names
// are an error so that a typo in configuration never goes unnoticed.
func (r *Registry) Without(names ...string) (*Registry, error) {
	if len(names) == 0 {
		return r, nil
	}
	skip := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := r.Lookup(n); !ok {
			return nil, fmt.Errorf("unknown tool %q", n)
		}
		skip[n] = struct{}{}
	}
	kept := make([]Descriptor, 0, len(r.tools))
	for _, d := range r.tools {
		if _, ok := skip[d.Name]; !ok {
			kept = append(kept, d)
		}
	}
	return NewRegistry(kept...)
}

// defaultRegistry is the built-in Python tool catalog, in declaration order:
// style checker, import sorter, type checker, formatter.
var defaultRegistry = MustRegistry(
	Descriptor{
		Name:      "flake8",
		Run:       Command{"flake8"},
		FileScope: []string{},
	},
	Descriptor{
		Name:      "isort",
		Run:       Command{"isort", "--check-only"},
		Fix:       Command{"isort"},
		FileScope: []string{"."},
	},
	Descriptor{
		// dmypy keeps a warm daemon between local runs; CI uses plain mypy.
		Name: "mypy",
		Run:  Command{"dmypy", "run", "--"},
		CI:   Command{"mypy"},
	},
	Descriptor{
		Name:      "black",
		Run:       Command{"black", "--check"},
		Fix:       Command{"black"},
		FileScope: []string{"."},
	},
)

// DefaultRegistry returns the built-in tool catalog.
func DefaultRegistry() *Registry {
	return defaultRegistry
}
