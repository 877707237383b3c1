// Package tool describes the external code-quality programs lintlizard runs.
//
// A Descriptor is a plain value: every invocation variant of a tool is a
// field, and the engine picks which field to use at run time. Nothing in this
// package starts a process.
package tool

import (
	"fmt"
	"slices"
)

// Command is a full argument vector. The first element is the executable.
type Command []string

// Executable returns the program name, or "" for an empty command.
func (c Command) Executable() string {
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

// VersionProbe returns the command that prints the executable's version.
func (c Command) VersionProbe() Command {
	return Command{c.Executable(), "--version"}
}

// With returns a copy of c with args appended. c is never modified.
func (c Command) With(args ...string) Command {
	out := make(Command, 0, len(c)+len(args))
	out = append(out, c...)
	return append(out, args...)
}

// Descriptor is the immutable description of one external tool.
//
// Optional variants use nil to mean "absent". FileScope distinguishes nil
// (the tool never takes file arguments) from an empty, non-nil slice (the
// tool takes file arguments but needs none by default).
type Descriptor struct {
	// Name is the unique identifier of the tool.
	Name string
	// Run is the standard check invocation.
	Run Command
	// Fix auto-fixes issues. nil means the tool cannot fix.
	Fix Command
	// CI replaces Run when running unattended. nil means no CI variant.
	CI Command
	// FileScope is appended when the caller passes no explicit files.
	FileScope []string
}

// Fixable reports whether the tool has a fix variant.
func (d Descriptor) Fixable() bool {
	return d.Fix != nil
}

// AcceptsFiles reports whether file arguments may be appended to the tool.
func (d Descriptor) AcceptsFiles() bool {
	return d.FileScope != nil
}

// Command picks the invocation variant. The fix variant wins whenever fixing
// is requested and available; otherwise the CI variant is used when ci is set
// and present, and Run in every other case.
func (d Descriptor) Command(fix, ci bool) Command {
	switch {
	case fix && d.Fixable():
		return d.Fix
	case ci && d.CI != nil:
		return d.CI
	default:
		return d.Run
	}
}

// Argv resolves the final argument vector for one run. files are appended
// only when the tool accepts files; an empty files list falls back to the
// tool's default scope.
func (d Descriptor) Argv(fix, ci bool, files []string) Command {
	cmd := d.Command(fix, ci)
	if !d.AcceptsFiles() {
		return cmd.With()
	}
	if len(files) > 0 {
		return cmd.With(files...)
	}
	return cmd.With(d.FileScope...)
}

// Validate checks the descriptor's own invariants.
func (d Descriptor) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if len(d.Run) == 0 || d.Run.Executable() == "" {
		return fmt.Errorf("tool %q: run command cannot be empty", d.Name)
	}
	if d.Fix != nil && d.Fix.Executable() == "" {
		return fmt.Errorf("tool %q: fix command has no executable", d.Name)
	}
	if d.CI != nil && d.CI.Executable() == "" {
		return fmt.Errorf("tool %q: ci command has no executable", d.Name)
	}
	return nil
}

// clone deep-copies d so registry callers can never alias its slices.
func (d Descriptor) clone() Descriptor {
	return Descriptor{
		Name:      d.Name,
		Run:       slices.Clone(d.Run),
		Fix:       slices.Clone(d.Fix),
		CI:        slices.Clone(d.CI),
		FileScope: slices.Clone(d.FileScope),
	}
}
