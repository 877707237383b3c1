package changed

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"sort"
	"strings"

	"github.com/fyrsmithlabs/lintlizard/internal/logging"
	"go.uber.org/zap"
)

// GitCLI resolves changed files by running git.
type GitCLI struct {
	binary string
	dir    string
	filter Filter
}

// NewGitCLI creates a resolver running binary (usually "git") in dir.
func NewGitCLI(binary, dir string, filter Filter) *GitCLI {
	if binary == "" {
		binary = "git"
	}
	return &GitCLI{binary: binary, dir: dir, filter: filter}
}

// Name returns the backend name.
func (g *GitCLI) Name() string {
	return "cli"
}

// Args returns the git arguments: files staged relative to HEAD, deleted
// files excluded, paths relative to the working directory and separated by
// NUL so names are never quoted. Extensions are filtered afterwards, since
// git pathspecs are case-sensitive and Filter is not.
func (g *GitCLI) Args() []string {
	return []string{"diff", "--cached", "--name-only", "--diff-filter=d", "--relative", "-z"}
}

// Resolve runs git and parses its NUL-delimited output.
func (g *GitCLI) Resolve(ctx context.Context) ([]string, error) {
	logger := logging.FromContext(ctx)
	args := g.Args()

	cmd := exec.CommandContext(ctx, g.binary, args...)
	cmd.Dir = g.dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug(ctx, "querying changed files",
		zap.String("backend", g.Name()),
		zap.String("binary", g.binary),
		zap.Strings("args", args))

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, unavailable(g.Name(), err, stderr.String())
		}
		// Not started: missing binary, bad directory, cancelled context.
		return nil, unavailable(g.Name(), err, "")
	}

	logger.Trace(ctx, "git output", zap.String("stdout", stdout.String()))

	files := parseNames(stdout.String(), g.filter)
	logger.Debug(ctx, "changed files resolved", zap.Int("count", len(files)))
	return files, nil
}

// parseNames splits NUL-delimited git output, dropping empty entries and
// paths the filter rejects. The result is sorted.
func parseNames(out string, filter Filter) []string {
	files := []string{}
	for _, name := range strings.Split(out, "\x00") {
		if name == "" {
			continue
		}
		if filter.Match(name) {
			files = append(files, name)
		}
	}
	sort.Strings(files)
	return files
}
