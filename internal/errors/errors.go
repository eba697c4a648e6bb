package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure conditions
var (
	// ErrNotLoggedIn indicates the codex CLI has no usable credentials
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrBusy indicates a prompt was submitted while a run is in flight
	ErrBusy = errors.New("agent is busy")

	// ErrNoWorkspace indicates no working directory is available for the run
	ErrNoWorkspace = errors.New("no workspace directory")

	// ErrEmptyPrompt indicates a blank prompt submission
	ErrEmptyPrompt = errors.New("empty prompt")

	// ErrBinaryMissing indicates the codex executable could not be used
	ErrBinaryMissing = errors.New("codex binary missing")

	// ErrAgentFailed indicates the codex subprocess failed
	ErrAgentFailed = errors.New("agent failed")

	// ErrShutdown indicates the panel is shutting down
	ErrShutdown = errors.New("panel shutting down")
)

// BinaryError describes an unusable codex executable: missing from disk,
// present but not executable, or a zero-byte placeholder left by a broken
// install. It carries the exact path checked plus a remediation hint so the
// message shown to the user is actionable.
type BinaryError struct {
	Path   string // Path that was checked
	Reason string // "missing", "not executable", "placeholder"
	Hint   string // Remediation instruction
}

func (e *BinaryError) Error() string {
	return fmt.Sprintf("codex binary %s at %s: %s", e.Reason, e.Path, e.Hint)
}

// Is implements error comparison for errors.Is
func (e *BinaryError) Is(target error) bool {
	return target == ErrBinaryMissing
}

// NewBinaryError creates a new binary error
func NewBinaryError(path, reason, hint string) *BinaryError {
	return &BinaryError{Path: path, Reason: reason, Hint: hint}
}

// TransientError represents a temporary failure that can be retried
type TransientError struct {
	Op  string // Operation that failed
	Err error  // Underlying error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient error in %s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// NewTransientError creates a new transient error
func NewTransientError(op string, err error) *TransientError {
	return &TransientError{Op: op, Err: err}
}

// IsTransient checks if an error is transient and can be retried
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// PermanentError represents a non-recoverable failure
type PermanentError struct {
	Op  string // Operation that failed
	Err error  // Underlying error
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("permanent error in %s: %v", e.Op, e.Err)
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// NewPermanentError creates a new permanent error
func NewPermanentError(op string, err error) *PermanentError {
	return &PermanentError{Op: op, Err: err}
}
