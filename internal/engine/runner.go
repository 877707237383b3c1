package engine

import (
	"context"
	"io"
	"os"
	"os/exec"
)

// Runner starts one child process and waits for it to exit.
//
// Run returns nil for a zero exit status. Any other result, including a
// process that could not be started, is an error.
type Runner interface {
	Run(ctx context.Context, argv []string) error
}

// ExecRunner runs commands with os/exec, streaming output straight to its
// writers.
type ExecRunner struct {
	// Dir is the working directory; empty means the current directory.
	Dir string
	// Stdout and Stderr receive tool output. nil means os.Stdout / os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
	// Env overrides the environment; nil inherits the current process's.
	Env []string
}

// NewExecRunner returns a runner using the process's own stdout and stderr.
func NewExecRunner(dir string) *ExecRunner {
	return &ExecRunner{Dir: dir, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run executes argv and blocks until it exits. There is no timeout.
func (r *ExecRunner) Run(ctx context.Context, argv []string) error {
	if len(argv) == 0 || argv[0] == "" {
		return os.ErrInvalid
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.Dir
	cmd.Env = r.Env
	cmd.Stdin = nil
	cmd.Stdout = r.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = r.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	return cmd.Run()
}
