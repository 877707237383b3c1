// Package engine selects, orders and runs the external tools.
//
// # Selection
//
// Plan starts from the registry, moves fixable tools ahead of the others
// (stable, so each group keeps registry order) and, in fix-only mode, drops
// the tools that cannot fix.
//
// # Execution
//
// Tools run one at a time. For each tool the engine first runs a version
// probe, then the resolved command. Any launch failure or non-zero exit
// becomes a failed Outcome; the run always continues with the next tool.
// Tool output goes straight to the Runner's writers and is never inspected.
//
// Outcomes are produced lazily so callers can report progress per tool:
//
//	seq, err := eng.Outcomes(ctx, cfg)
//	if err != nil {
//	    return err // changed-file query failed, nothing ran
//	}
//	for o := range seq {
//	    fmt.Println(o.Tool, o.Success)
//	}
package engine
