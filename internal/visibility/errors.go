package visibility

import (
	"errors"
	"fmt"
	"time"
)

// Errors reported by the visibility engine.
var (
	// ErrInvalidRange reports a degenerate scan range, step, or
	// requested duration. Raised before any scan work begins.
	ErrInvalidRange = errors.New("invalid scan range")

	// ErrInvalidConstraint reports a malformed constraint set.
	ErrInvalidConstraint = errors.New("invalid constraint")

	// ErrNoVisibility reports that a completed scan produced no
	// windows to select from. An empty window list from ListWindows is
	// a legitimate negative result, not this error.
	ErrNoVisibility = errors.New("no visibility windows")
)

// EphemerisError wraps a provider failure with the instant being
// evaluated. It aborts the scan that hit it; an unresolvable instant is
// never treated as "not visible".
type EphemerisError struct {
	At  time.Time
	Err error
}

func (e *EphemerisError) Error() string {
	return fmt.Sprintf("ephemeris lookup at %s: %v", e.At.Format(time.RFC3339), e.Err)
}

func (e *EphemerisError) Unwrap() error { return e.Err }
