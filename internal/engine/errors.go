package engine

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrToolLaunch is matched by every LaunchError.
var ErrToolLaunch = errors.New("tool failed")

var errNoResolver = errors.New("no changed-file resolver configured")

// Stages of a tool run.
const (
	StageVersion = "version"
	StageRun     = "run"
)

// LaunchError reports that a tool could not be started or exited non-zero.
// It is recorded on the failed Outcome and never aborts a run.
type LaunchError struct {
	Tool     string
	Stage    string
	Argv     []string
	ExitCode int // -1 when the process never exited normally
	Cause    error
}

func (e *LaunchError) Error() string {
	cmd := strings.Join(e.Argv, " ")
	if e.ExitCode > 0 {
		return fmt.Sprintf("%s: %s stage: %q exited with status %d", e.Tool, e.Stage, cmd, e.ExitCode)
	}
	return fmt.Sprintf("%s: %s stage: %q: %v", e.Tool, e.Stage, cmd, e.Cause)
}

func (e *LaunchError) Unwrap() error {
	return e.Cause
}

// Is reports ErrToolLaunch as a match.
func (e *LaunchError) Is(target error) bool {
	return target == ErrToolLaunch
}

// NotFound reports whether the executable could not be found.
func (e *LaunchError) NotFound() bool {
	return errors.Is(e.Cause, exec.ErrNotFound)
}

func newLaunchError(name, stage string, argv []string, err error) *LaunchError {
	return &LaunchError{
		Tool:     name,
		Stage:    stage,
		Argv:     argv,
		ExitCode: exitCode(err),
		Cause:    err,
	}
}

// exitCode extracts the exit status from err, or -1.
func exitCode(err error) int {
	type exitCoder interface {
		ExitCode() int
	}
	var ec exitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return -1
}
