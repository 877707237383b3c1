package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptor_Command(t *testing.T) {
	fixable := Descriptor{
		Name: "black",
		Run:  Command{"black", "--check"},
		Fix:  Command{"black"},
		CI:   Command{"black", "--check", "--quiet"},
	}
	checkOnly := Descriptor{
		Name: "mypy",
		Run:  Command{"dmypy", "run", "--"},
		CI:   Command{"mypy"},
	}

	tests := []struct {
		name string
		d    Descriptor
		fix  bool
		ci   bool
		want Command
	}{
		{"check", fixable, false, false, Command{"black", "--check"}},
		{"fix", fixable, true, false, Command{"black"}},
		{"fix wins over ci", fixable, true, true, Command{"black"}},
		{"ci", fixable, false, true, Command{"black", "--check", "--quiet"}},
		{"fix requested but not fixable", checkOnly, true, false, Command{"dmypy", "run", "--"}},
		{"fix requested not fixable ci", checkOnly, true, true, Command{"mypy"}},
		{"ci without ci variant", Descriptor{Name: "x", Run: Command{"x"}}, false, true, Command{"x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.d.Command(tt.fix, tt.ci))
		})
	}
}

func TestDescriptor_Argv(t *testing.T) {
	scoped := Descriptor{Name: "isort", Run: Command{"isort", "--check-only"}, Fix: Command{"isort"}, FileScope: []string{"."}}
	emptyScope := Descriptor{Name: "flake8", Run: Command{"flake8"}, FileScope: []string{}}
	unscoped := Descriptor{Name: "mypy", Run: Command{"dmypy", "run", "--"}, CI: Command{"mypy"}}

	t.Run("default scope when no files", func(t *testing.T) {
		assert.Equal(t, Command{"isort", "--check-only", "."}, scoped.Argv(false, false, nil))
	})
	t.Run("explicit files replace default scope", func(t *testing.T) {
		assert.Equal(t, Command{"isort", "a.py", "b.py"}, scoped.Argv(true, false, []string{"a.py", "b.py"}))
	})
	t.Run("empty scope appends nothing by default", func(t *testing.T) {
		assert.Equal(t, Command{"flake8"}, emptyScope.Argv(false, false, nil))
	})
	t.Run("empty scope still takes files", func(t *testing.T) {
		assert.Equal(t, Command{"flake8", "a.py"}, emptyScope.Argv(false, false, []string{"a.py"}))
	})
	t.Run("no scope never takes files", func(t *testing.T) {
		assert.Equal(t, Command{"mypy"}, unscoped.Argv(false, true, []string{"a.py"}))
	})
}

func TestDescriptor_ArgvDoesNotAlias(t *testing.T) {
	d := Descriptor{Name: "isort", Run: Command{"isort", "--check-only"}, FileScope: []string{"."}}
	argv := d.Argv(false, false, []string{"a.py"})
	argv[0] = "changed"
	assert.Equal(t, Command{"isort", "--check-only"}, d.Run)
}

func TestCommand_VersionProbe(t *testing.T) {
	assert.Equal(t, Command{"dmypy", "--version"}, Command{"dmypy", "run", "--"}.VersionProbe())
	assert.Equal(t, "", Command{}.Executable())
}

func TestDescriptor_Validate(t *testing.T) {
	tests := []struct {
		name    string
		d       Descriptor
		wantErr bool
	}{
		{"valid", Descriptor{Name: "a", Run: Command{"a"}}, false},
		{"empty name", Descriptor{Run: Command{"a"}}, true},
		{"empty run", Descriptor{Name: "a"}, true},
		{"fix without executable", Descriptor{Name: "a", Run: Command{"a"}, Fix: Command{}}, true},
		{"ci without executable", Descriptor{Name: "a", Run: Command{"a"}, CI: Command{""}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.d.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewRegistry_RejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(
		Descriptor{Name: "a", Run: Command{"a"}},
		Descriptor{Name: "a", Run: Command{"b"}},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestRegistry_ToolsIsACopy(t *testing.T) {
	r := MustRegistry(Descriptor{Name: "a", Run: Command{"a"}, FileScope: []string{"."}})

	tools := r.Tools()
	tools[0].Name = "mutated"
	tools[0].FileScope[0] = "mutated"

	again := r.Tools()
	assert.Equal(t, "a", again[0].Name)
	assert.Equal(t, []string{"."}, again[0].FileScope)
}

func TestRegistry_Without(t *testing.T) {
	r := MustRegistry(
		Descriptor{Name: "a", Run: Command{"a"}},
		Descriptor{Name: "b", Run: Command{"b"}},
		Descriptor{Name: "c", Run: Command{"c"}},
	)

	kept, err := r.Without("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, kept.Names())
	assert.Equal(t, []string{"a", "b", "c"}, r.Names(), "original registry must not change")

	_, err = r.Without("nope")
	assert.Error(t, err)
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	require.Equal(t, []string{"flake8", "isort", "mypy", "black"}, r.Names())

	fixable := map[string]bool{}
	for _, d := range r.Tools() {
		fixable[d.Name] = d.Fixable()
	}
	assert.Equal(t, map[string]bool{"flake8": false, "isort": true, "mypy": false, "black": true}, fixable)

	mypy, ok := r.Lookup("mypy")
	require.True(t, ok)
	assert.False(t, mypy.AcceptsFiles())
	assert.Equal(t, Command{"mypy"}, mypy.Command(false, true))

	flake8, ok := r.Lookup("flake8")
	require.True(t, ok)
	assert.True(t, flake8.AcceptsFiles())
}
