// Package main implements the lintlizard CLI, which runs flake8, isort, mypy
// and black over a Python project and reports a single exit status.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fyrsmithlabs/lintlizard/internal/changed"
	"github.com/fyrsmithlabs/lintlizard/internal/config"
	"github.com/fyrsmithlabs/lintlizard/internal/engine"
	"github.com/fyrsmithlabs/lintlizard/internal/logging"
	"github.com/fyrsmithlabs/lintlizard/internal/report"
	"github.com/fyrsmithlabs/lintlizard/internal/tool"
	"github.com/fyrsmithlabs/lintlizard/internal/watch"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set via ldflags during build.
var version = "dev"

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the CLI and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	return a.execute(ctx, args)
}

func (a *app) execute(ctx context.Context, args []string) int {
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		return report.ExitFailed
	}
	return a.exitCode
}

// app carries command-line state and the collaborators tests replace.
type app struct {
	stdout io.Writer
	stderr io.Writer
	// dir is the project directory; empty means the current directory.
	dir string
	// runner launches tools; nil means an engine.ExecRunner.
	runner engine.Runner
	// registry is the tool catalog; nil means tool.DefaultRegistry.
	registry *tool.Registry

	fix         bool
	fixAndCheck bool
	changed     bool
	ci          bool
	watch       bool
	noColor     bool
	verbose     int
	configPath  string

	exitCode int
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lintlizard [flags] [files...]",
		Short: "Run flake8, isort, mypy and black",
		Long: `lintlizard runs the standard Python lint, import-sort, type-check and
format tools in a fixed order and exits non-zero if any of them fails.

Fixable tools (isort, black) always run first so their edits land before
anything reports on the tree. Tool output is passed through unchanged.

Examples:
  # Check the whole project
  lintlizard

  # Reformat, then check
  lintlizard --fix-and-check

  # Check only Python files staged for commit
  lintlizard --changed

  # Re-run on every save
  lintlizard --fix-and-check --watch`,
		Version: version,
		Args:    cobra.ArbitraryArgs,
		RunE:    a.run,
	}
	cmd.SetVersionTemplate("{{.Version}}\n")

	f := cmd.Flags()
	f.BoolVar(&a.fix, "fix", false, "run only fixable tools, in fix mode")
	f.BoolVar(&a.fixAndCheck, "fix-and-check", false, "fix with fixable tools, then check with the rest")
	f.BoolVar(&a.changed, "changed", false, "restrict to files staged for commit")
	f.BoolVar(&a.ci, "ci", false, "use CI variants of tools that have one")
	f.BoolVar(&a.watch, "watch", false, "re-run whenever a matching file changes")
	cmd.MarkFlagsMutuallyExclusive("fix", "fix-and-check")

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "path to a YAML config file (default .lintlizard.yaml)")
	pf.BoolVar(&a.noColor, "no-color", false, "disable colored output")
	pf.CountVarP(&a.verbose, "verbose", "v", "log more (-v info, -vv debug, -vvv trace)")

	cmd.AddCommand(newToolsCmd(a))
	return cmd
}

func (a *app) run(cmd *cobra.Command, files []string) error {
	cmd.SilenceUsage = true

	mode, err := engine.ModeFromFlags(a.fix, a.fixAndCheck)
	if err != nil {
		return err
	}

	env, err := a.setup(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = env.logger.Sync() }()

	resolver, err := changed.New(env.cfg.Changed, env.dir)
	if err != nil {
		return err
	}

	rep := report.NewReporter(a.stdout, report.Options{
		Color:  env.color(a.noColor),
		Banner: env.cfg.Output.Banner,
	})
	opts := []engine.Option{
		engine.WithResolver(resolver),
		engine.WithLogger(env.logger.Named("engine")),
		engine.WithToolStart(rep.ToolStart),
	}
	if !env.cfg.Tools.VersionProbe {
		opts = append(opts, engine.WithoutVersionProbe())
	}
	eng := engine.New(env.registry, a.toolRunner(env.dir), opts...)

	runCfg := engine.RunConfiguration{
		Mode:            mode,
		CI:              a.ci,
		ExplicitFiles:   files,
		UseChangedFiles: a.changed,
	}
	once := func(ctx context.Context) int {
		return a.runOnce(ctx, eng, rep, runCfg)
	}

	if !a.watch {
		a.exitCode = once(env.ctx)
		return nil
	}

	ctx, cancel := signal.NotifyContext(env.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	watchOpts := []watch.Option{
		watch.WithLogger(env.logger.Named("watch")),
		watch.WithReady(func() {
			fmt.Fprintf(a.stderr, "lintlizard: watching %s (Ctrl-C to stop)\n", env.dir)
		}),
	}
	// Fixers rewrite the files being watched.
	if mode.Fixes() {
		watchOpts = append(watchOpts, watch.DropEventsDuringRun())
	}
	w := watch.New(env.dir,
		changed.Filter{Extensions: env.cfg.Changed.Extensions},
		env.cfg.Watch.Debounce.Duration(),
		watchOpts...)
	a.exitCode, err = w.Run(ctx, once)
	return err
}

// runOnce runs the engine and reports. A changed-file query failure aborts
// before any tool runs and counts as a failed run.
func (a *app) runOnce(ctx context.Context, eng *engine.Engine, rep *report.Reporter, runCfg engine.RunConfiguration) int {
	seq, err := eng.Outcomes(ctx, runCfg)
	if err != nil {
		fmt.Fprintf(a.stderr, "lintlizard: %v\n", err)
		return report.ExitFailed
	}
	res := report.Collect(seq, rep.Outcome)
	rep.Summary(res)
	return res.ExitCode
}

func (a *app) toolRunner(dir string) engine.Runner {
	if a.runner != nil {
		return a.runner
	}
	r := engine.NewExecRunner(dir)
	r.Stdout = a.stdout
	r.Stderr = a.stderr
	return r
}

// environment is the state shared by every command once flags are parsed.
type environment struct {
	ctx      context.Context
	dir      string
	cfg      *config.Config
	logger   *logging.Logger
	registry *tool.Registry
}

func (a *app) setup(ctx context.Context) (*environment, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	dir := a.dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		dir = wd
	}

	cfg, err := config.Load(config.Options{Dir: dir, File: a.configPath})
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger, err := a.newLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}

	registry := a.registry
	if registry == nil {
		registry = tool.DefaultRegistry()
	}
	registry, err = registry.Without(cfg.Tools.Skip...)
	if err != nil {
		return nil, fmt.Errorf("tools.skip: %w", err)
	}

	runID := logging.NewRunID()
	ctx = logging.WithLogger(logging.WithRunID(ctx, runID), logger)
	logger.Debug(ctx, "configuration loaded",
		zap.String("dir", dir),
		zap.String("backend", cfg.Changed.Backend),
		zap.Strings("tools", registry.Names()))

	return &environment{ctx: ctx, dir: dir, cfg: cfg, logger: logger, registry: registry}, nil
}

// newLogger builds the stderr logger. Each -v lowers the configured level
// by one step, down to trace.
func (a *app) newLogger(lc config.LoggingConfig) (*logging.Logger, error) {
	level, err := logging.LevelFromString(lc.Level)
	if err != nil {
		return nil, err
	}
	level = max(level-zapcore.Level(min(a.verbose, 3)), logging.TraceLevel)

	cfg := logging.NewDefaultConfig()
	cfg.Level = level
	cfg.Format = lc.Format
	cfg.Caller.Enabled = lc.Caller
	cfg.Fields["version"] = version
	return logging.NewLogger(cfg, a.stderr)
}

func (e *environment) color(noColor bool) string {
	if noColor {
		return config.ColorNever
	}
	return e.cfg.Output.Color
}
