package changed

import (
	"errors"
	"fmt"
	"strings"
)

// ErrVersionControlUnavailable is matched by every resolver failure.
var ErrVersionControlUnavailable = errors.New("version control unavailable")

// UnavailableError describes why the changed-file query failed.
type UnavailableError struct {
	Backend string
	Cause   error
	// Stderr holds the trimmed diagnostic output of the git CLI, if any.
	Stderr string
}

func (e *UnavailableError) Error() string {
	msg := fmt.Sprintf("%s: %s backend: %v", ErrVersionControlUnavailable, e.Backend, e.Cause)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}

// Is reports ErrVersionControlUnavailable as a match.
func (e *UnavailableError) Is(target error) bool {
	return target == ErrVersionControlUnavailable
}

func unavailable(backend string, cause error, stderr string) error {
	return &UnavailableError{
		Backend: backend,
		Cause:   cause,
		Stderr:  strings.TrimSpace(stderr),
	}
}
