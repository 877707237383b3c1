// Package watch re-runs a callback when matching files under a directory
// tree change.
//
// Events are debounced and runs never overlap: changes seen while a run is
// in progress schedule exactly one follow-up run, or are discarded when the
// watcher is built with DropEventsDuringRun.
package watch
