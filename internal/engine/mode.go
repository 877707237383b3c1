package engine

import (
	"errors"
	"fmt"
)

// Mode selects which invocation variants run.
type Mode int

const (
	// ModeCheck runs every tool's check variant.
	ModeCheck Mode = iota
	// ModeFix runs only fixable tools, with their fix variant.
	ModeFix
	// ModeFixAndCheck fixes with fixable tools, then checks with the rest.
	ModeFixAndCheck
)

// ErrConflictingModes is returned when both fix flags are set.
var ErrConflictingModes = errors.New("--fix and --fix-and-check are mutually exclusive")

// ModeFromFlags maps the command-line fix flags to a Mode.
func ModeFromFlags(fix, fixAndCheck bool) (Mode, error) {
	switch {
	case fix && fixAndCheck:
		return ModeCheck, ErrConflictingModes
	case fix:
		return ModeFix, nil
	case fixAndCheck:
		return ModeFixAndCheck, nil
	default:
		return ModeCheck, nil
	}
}

// Fixes reports whether the mode runs fix variants.
func (m Mode) Fixes() bool {
	return m == ModeFix || m == ModeFixAndCheck
}

func (m Mode) String() string {
	switch m {
	case ModeCheck:
		return "check"
	case ModeFix:
		return "fix"
	case ModeFixAndCheck:
		return "fix-and-check"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// RunConfiguration is built once per invocation from command-line input.
type RunConfiguration struct {
	Mode Mode
	// CI prefers each tool's CI variant when it has one.
	CI bool
	// ExplicitFiles are paths given on the command line, in order.
	ExplicitFiles []string
	// UseChangedFiles adds the files staged for commit to ExplicitFiles.
	UseChangedFiles bool
}
