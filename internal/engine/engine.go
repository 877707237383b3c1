package engine

import (
	"context"
	"iter"
	"slices"
	"time"

	"github.com/fyrsmithlabs/lintlizard/internal/changed"
	"github.com/fyrsmithlabs/lintlizard/internal/logging"
	"github.com/fyrsmithlabs/lintlizard/internal/tool"
	"go.uber.org/zap"
)

// Outcome is the result of running one tool.
type Outcome struct {
	Tool    string
	Success bool
	// Err is a *LaunchError when Success is false.
	Err error
	// Argv is the main invocation, or the version probe if that failed.
	Argv     []string
	Duration time.Duration
}

// Engine runs the tools of a registry through a Runner.
type Engine struct {
	registry  *tool.Registry
	runner    Runner
	resolver  changed.Resolver
	logger    *logging.Logger
	onStart   func(tool.Descriptor)
	skipProbe bool
}

// Option configures Engine.
type Option func(*Engine)

// WithResolver sets the changed-file resolver used when
// RunConfiguration.UseChangedFiles is set.
func WithResolver(r changed.Resolver) Option {
	return func(e *Engine) {
		e.resolver = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithToolStart registers a callback invoked before each tool's version probe.
func WithToolStart(fn func(tool.Descriptor)) Option {
	return func(e *Engine) {
		e.onStart = fn
	}
}

// WithoutVersionProbe skips the version probe before each tool.
func WithoutVersionProbe() Option {
	return func(e *Engine) {
		e.skipProbe = true
	}
}

// New creates an engine. registry and runner are required.
func New(registry *tool.Registry, runner Runner, opts ...Option) *Engine {
	if registry == nil {
		panic("engine: registry is required")
	}
	if runner == nil {
		panic("engine: runner is required")
	}
	e := &Engine{
		registry: registry,
		runner:   runner,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Plan returns the tools to run for mode, in execution order.
//
// Fixable tools come first so their edits land before anything reports on
// the tree; each group keeps registry order. ModeFix keeps only fixable tools.
func Plan(registry *tool.Registry, mode Mode) []tool.Descriptor {
	tools := registry.Tools()
	slices.SortStableFunc(tools, func(a, b tool.Descriptor) int {
		return notFixable(a) - notFixable(b)
	})
	if mode == ModeFix {
		tools = slices.DeleteFunc(tools, func(d tool.Descriptor) bool {
			return !d.Fixable()
		})
	}
	return tools
}

func notFixable(d tool.Descriptor) int {
	if d.Fixable() {
		return 0
	}
	return 1
}

// Outcomes resolves the file scope, then returns a sequence that runs each
// planned tool as it is pulled. Stopping iteration early stops the run.
//
// A changed-file query failure is returned before any tool starts. When
// changed files are requested and neither they nor explicit files exist, the
// sequence is empty.
func (e *Engine) Outcomes(ctx context.Context, cfg RunConfiguration) (iter.Seq[Outcome], error) {
	files, err := e.files(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.UseChangedFiles && len(files) == 0 {
		e.logger.Info(ctx, "no changed files, nothing to run")
		return func(func(Outcome) bool) {}, nil
	}

	plan := Plan(e.registry, cfg.Mode)
	e.logger.Debug(ctx, "plan ready",
		zap.Stringer("mode", cfg.Mode),
		zap.Bool("ci", cfg.CI),
		zap.Strings("tools", names(plan)),
		zap.Strings("files", files))

	return func(yield func(Outcome) bool) {
		for _, d := range plan {
			if !yield(e.runTool(ctx, d, cfg, files)) {
				return
			}
		}
	}, nil
}

// Run runs every planned tool, calling onOutcome (if non-nil) as each one
// finishes, and returns all outcomes in execution order.
func (e *Engine) Run(ctx context.Context, cfg RunConfiguration, onOutcome func(Outcome)) ([]Outcome, error) {
	seq, err := e.Outcomes(ctx, cfg)
	if err != nil {
		return nil, err
	}
	var outcomes []Outcome
	for o := range seq {
		if onOutcome != nil {
			onOutcome(o)
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, nil
}

// files merges explicit files with changed files. Explicit order is kept;
// changed files not already listed are appended.
func (e *Engine) files(ctx context.Context, cfg RunConfiguration) ([]string, error) {
	files := slices.Clone(cfg.ExplicitFiles)
	if !cfg.UseChangedFiles {
		return files, nil
	}
	if e.resolver == nil {
		return nil, &changed.UnavailableError{Backend: "none", Cause: errNoResolver}
	}

	found, err := e.resolver.Resolve(logging.WithLogger(ctx, e.logger.Named("changed")))
	if err != nil {
		e.logger.Error(ctx, "changed-file query failed",
			zap.String("backend", e.resolver.Name()),
			zap.Error(err))
		return nil, err
	}

	for _, f := range found {
		if !slices.Contains(files, f) {
			files = append(files, f)
		}
	}
	return files, nil
}

// runTool probes and runs one tool. It never returns an error: every
// failure is folded into the Outcome.
func (e *Engine) runTool(ctx context.Context, d tool.Descriptor, cfg RunConfiguration, files []string) Outcome {
	ctx = logging.WithTool(ctx, d.Name)
	start := time.Now()

	if e.onStart != nil {
		e.onStart(d)
	}

	argv := d.Argv(cfg.Mode.Fixes(), cfg.CI, files)

	if !e.skipProbe {
		probe := argv.VersionProbe()
		e.logger.Trace(ctx, "version probe", zap.Strings("argv", probe))
		if err := e.runner.Run(ctx, probe); err != nil {
			return e.failed(ctx, d.Name, StageVersion, probe, err, start)
		}
	}

	e.logger.Debug(ctx, "running tool", zap.Strings("argv", argv))
	if err := e.runner.Run(ctx, argv); err != nil {
		return e.failed(ctx, d.Name, StageRun, argv, err, start)
	}

	o := Outcome{Tool: d.Name, Success: true, Argv: argv, Duration: time.Since(start)}
	e.logger.Info(ctx, "tool passed", zap.Duration("duration", o.Duration))
	return o
}

func (e *Engine) failed(ctx context.Context, name, stage string, argv []string, err error, start time.Time) Outcome {
	le := newLaunchError(name, stage, argv, err)
	o := Outcome{Tool: name, Success: false, Err: le, Argv: argv, Duration: time.Since(start)}
	e.logger.Warn(ctx, "tool failed",
		zap.String("stage", stage),
		zap.Int("exit_code", le.ExitCode),
		zap.Bool("not_found", le.NotFound()),
		zap.Duration("duration", o.Duration),
		zap.Error(err))
	return o
}

func names(tools []tool.Descriptor) []string {
	out := make([]string, len(tools))
	for i, d := range tools {
		out[i] = d.Name
	}
	return out
}
