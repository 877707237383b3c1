package changed

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fyrsmithlabs/lintlizard/internal/logging"
	"github.com/go-git/go-git/v5"
	"go.uber.org/zap"
)

// Embedded resolves changed files with go-git, without a git executable.
type Embedded struct {
	dir    string
	filter Filter
}

// NewEmbedded creates a resolver for the repository containing dir.
func NewEmbedded(dir string, filter Filter) *Embedded {
	return &Embedded{dir: dir, filter: filter}
}

// Name returns the backend name.
func (e *Embedded) Name() string {
	return "embedded"
}

// Resolve compares the index against HEAD and returns added or modified
// paths under dir, relative to dir, sorted.
func (e *Embedded) Resolve(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable(e.Name(), err, "")
	}
	logger := logging.FromContext(ctx)

	dir, err := filepath.Abs(e.dir)
	if err != nil {
		return nil, unavailable(e.Name(), err, "")
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, unavailable(e.Name(), fmt.Errorf("open repository: %w", err), "")
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, unavailable(e.Name(), fmt.Errorf("open worktree: %w", err), "")
	}
	status, err := wt.Status()
	if err != nil {
		return nil, unavailable(e.Name(), fmt.Errorf("status: %w", err), "")
	}

	root := wt.Filesystem.Root()
	// Resolve symlinks on both sides so Rel works on systems where the temp
	// or home directory is a link.
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}

	files := []string{}
	for path, st := range status {
		switch st.Staging {
		case git.Added, git.Modified, git.Renamed, git.Copied:
		default:
			continue
		}
		rel, err := filepath.Rel(dir, filepath.Join(root, filepath.FromSlash(path)))
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		rel = filepath.ToSlash(rel)
		if e.filter.Match(rel) {
			files = append(files, rel)
		}
	}
	sort.Strings(files)

	logger.Debug(ctx, "changed files resolved",
		zap.String("backend", e.Name()),
		zap.String("root", root),
		zap.Int("count", len(files)))
	return files, nil
}
