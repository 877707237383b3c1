package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fyrsmithlabs/lintlizard/internal/engine"
	"github.com/fyrsmithlabs/lintlizard/internal/tool"
	"github.com/spf13/cobra"
)

func newToolsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the tools and the order each mode runs them in",
		Long: `List the configured tools with their invocation variants, followed by the
execution plan for each mode. Nothing is run.

Tools named in tools.skip are left out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			env, err := a.setup(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = env.logger.Sync() }()
			return printTools(cmd, env.registry)
		},
	}
}

func printTools(cmd *cobra.Command, registry *tool.Registry) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tFIXABLE\tFILES\tRUN\tFIX\tCI")
	for _, d := range registry.Tools() {
		fixable := ""
		if d.Fixable() {
			fixable = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			d.Name, fixable, fileScope(d), argv(d.Run), argv(d.Fix), argv(d.CI))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "MODE\tORDER")
	for _, m := range []engine.Mode{engine.ModeCheck, engine.ModeFix, engine.ModeFixAndCheck} {
		var names []string
		for _, d := range engine.Plan(registry, m) {
			names = append(names, d.Name)
		}
		fmt.Fprintf(w, "%s\t%s\n", m, strings.Join(names, ", "))
	}
	return w.Flush()
}

func fileScope(d tool.Descriptor) string {
	switch {
	case !d.AcceptsFiles():
		return "-"
	case len(d.FileScope) == 0:
		return "files"
	default:
		return "files or " + strings.Join(d.FileScope, " ")
	}
}

func argv(c tool.Command) string {
	if len(c) == 0 {
		return "-"
	}
	return strings.Join(c, " ")
}
