package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/fyrsmithlabs/lintlizard/internal/changed"
	"github.com/fyrsmithlabs/lintlizard/internal/logging"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"go.uber.org/zap"
)

// ErrWatcherFailed indicates the filesystem watcher could not be set up.
var ErrWatcherFailed = errors.New("failed to initialize filesystem watcher")

// RunFunc performs one run and returns its exit code.
type RunFunc func(ctx context.Context) int

// Watcher watches a directory tree.
type Watcher struct {
	root     string
	filter   changed.Filter
	debounce time.Duration
	logger   *logging.Logger
	ignore   gitignore.Matcher
	onReady  func()
	dropBusy bool
}

// Option configures Watcher.
type Option func(*Watcher)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) {
		w.logger = l
	}
}

// WithReady registers a callback invoked once the tree is being watched
// and before the loop waits for the first event.
func WithReady(fn func()) Option {
	return func(w *Watcher) {
		w.onReady = fn
	}
}

// DropEventsDuringRun discards changes seen while a run is in progress,
// waiting until the tree has been quiet for the debounce period (at least
// minQuiet). Use it when the run itself rewrites files, as formatters do.
func DropEventsDuringRun() Option {
	return func(w *Watcher) {
		w.dropBusy = true
	}
}

// minQuiet bounds how long DropEventsDuringRun waits for late events.
const minQuiet = 50 * time.Millisecond

// New creates a watcher for root. Only files accepted by filter trigger
// runs. A non-positive debounce is treated as zero.
func New(root string, filter changed.Filter, debounce time.Duration, opts ...Option) *Watcher {
	w := &Watcher{
		root:     root,
		filter:   filter,
		debounce: max(debounce, 0),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run calls run once, then again after each debounced batch of changes,
// until ctx is done. It returns the exit code of the last run.
func (w *Watcher) Run(ctx context.Context, run RunFunc) (int, error) {
	root, err := filepath.Abs(w.root)
	if err != nil {
		return 0, fmt.Errorf("resolving watch root: %w", err)
	}
	if info, err := os.Stat(root); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrWatcherFailed, err)
	} else if !info.IsDir() {
		return 0, fmt.Errorf("%w: %s is not a directory", ErrWatcherFailed, root)
	}
	w.root = root
	w.ignore = loadIgnore(root)
	w.logger = w.logger.With(zap.String("watch.root", root))

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrWatcherFailed, err)
	}
	defer func() { _ = fsw.Close() }()

	if err := w.addTree(fsw, root); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrWatcherFailed, err)
	}

	code := run(ctx)
	w.settle(ctx, fsw)
	if w.onReady != nil {
		w.onReady()
	}

	// A nil channel blocks forever, so the timer case is idle until armed.
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug(ctx, "watch stopped")
			return code, nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return code, nil
			}
			if !w.handle(ctx, fsw, ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return code, nil
			}
			w.logger.Warn(ctx, "watch error", zap.Error(err))

		case <-fire:
			fire = nil
			if ctx.Err() != nil {
				return code, nil
			}
			w.logger.Info(ctx, "change detected, re-running")
			code = run(ctx)
			w.settle(ctx, fsw)
		}
	}
}

// settle discards pending events after a run when dropBusy is set. It
// returns once no event has arrived for the quiet period. New directories
// are still added.
func (w *Watcher) settle(ctx context.Context, fsw *fsnotify.Watcher) {
	if !w.dropBusy {
		return
	}
	quiet := max(w.debounce, minQuiet)
	timer := time.NewTimer(quiet)
	defer timer.Stop()

	dropped := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			if dropped > 0 {
				w.logger.Debug(ctx, "discarded changes made during run", zap.Int("events", dropped))
			}
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if w.handle(ctx, fsw, ev) {
				dropped++
			}
			timer.Reset(quiet)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn(ctx, "watch error", zap.Error(err))
		}
	}
}

// handle reports whether ev should schedule a run. New directories are
// added to the watch list.
func (w *Watcher) handle(ctx context.Context, fsw *fsnotify.Watcher, ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) {
		return false
	}

	rel, err := filepath.Rel(w.root, ev.Name)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}

	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if w.skipDir(rel) {
				return false
			}
			if err := w.addTree(fsw, ev.Name); err != nil {
				w.logger.Warn(ctx, "watching new directory", zap.String("path", rel), zap.Error(err))
			}
			return false
		}
	}

	if w.ignored(rel, false) || !w.filter.Match(rel) {
		return false
	}
	w.logger.Debug(ctx, "file changed", zap.String("path", rel), zap.Stringer("op", ev.Op))
	return true
}

// addTree watches dir and every directory below it that is not skipped.
func (w *Watcher) addTree(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Directories can vanish between the event and the walk.
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(w.root, path)
		if err != nil {
			return err
		}
		if rel != "." && w.skipDir(rel) {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}

func (w *Watcher) skipDir(rel string) bool {
	if strings.HasPrefix(filepath.Base(rel), ".") {
		return true
	}
	return w.ignored(rel, true)
}

func (w *Watcher) ignored(rel string, isDir bool) bool {
	if w.ignore == nil {
		return false
	}
	return w.ignore.Match(strings.Split(filepath.ToSlash(rel), "/"), isDir)
}

// loadIgnore reads every .gitignore under root. Unreadable files are
// treated as empty.
func loadIgnore(root string) gitignore.Matcher {
	patterns, err := gitignore.ReadPatterns(osfs.New(root), nil)
	if err != nil || len(patterns) == 0 {
		return nil
	}
	return gitignore.NewMatcher(patterns)
}
