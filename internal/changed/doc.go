// Package changed finds the source files staged for commit.
//
// Two backends are available. GitCLI spawns the git executable and is the
// default; Embedded reads the repository with go-git and needs no git binary.
// Both return paths relative to the directory they were created for, filtered
// by file extension, and both report any failure as
// ErrVersionControlUnavailable: a caller must never treat a failed query as
// "nothing changed".
package changed
