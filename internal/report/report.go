// Package report turns tool outcomes into a summary and an exit status.
package report

import (
	"fmt"
	"iter"
	"strings"

	"github.com/fyrsmithlabs/lintlizard/internal/engine"
)

// Exit codes.
const (
	ExitOK     = 0
	ExitFailed = 1
)

// ProcessResult is the aggregated result of one run.
type ProcessResult struct {
	ExitCode int
	Summary  string
	// Failed lists failed tools in execution order.
	Failed []string
	// Ran is the number of tools that ran.
	Ran int
}

// OK reports whether every tool succeeded.
func (r ProcessResult) OK() bool {
	return r.ExitCode == ExitOK
}

// Report aggregates outcomes. The exit code is 0 when nothing failed,
// including when nothing ran, and 1 otherwise.
func Report(outcomes []engine.Outcome) ProcessResult {
	var failed []string
	for _, o := range outcomes {
		if !o.Success {
			failed = append(failed, o.Tool)
		}
	}

	res := ProcessResult{Failed: failed, Ran: len(outcomes)}
	switch {
	case len(failed) > 0:
		res.ExitCode = ExitFailed
		res.Summary = fmt.Sprintf("Failed: %s", strings.Join(failed, ", "))
	case len(outcomes) == 0:
		res.ExitCode = ExitOK
		res.Summary = "No tools ran."
	default:
		res.ExitCode = ExitOK
		res.Summary = fmt.Sprintf("All %d tools succeeded.", len(outcomes))
	}
	return res
}

// Collect drains seq, calling onOutcome (if non-nil) as each outcome
// arrives, and reports on everything collected. Every tool in seq runs;
// a failure never stops collection.
func Collect(seq iter.Seq[engine.Outcome], onOutcome func(engine.Outcome)) ProcessResult {
	var outcomes []engine.Outcome
	for o := range seq {
		if onOutcome != nil {
			onOutcome(o)
		}
		outcomes = append(outcomes, o)
	}
	return Report(outcomes)
}
