package compose

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidOptions marks options rejected before any process is spawned.
	ErrInvalidOptions = errors.New("invalid compose options")

	// ErrSpawnFailure marks a compose binary that could not be started.
	ErrSpawnFailure = errors.New("compose process could not be started")

	// ErrNonZeroExit marks a compose process that ran and reported failure.
	ErrNonZeroExit = errors.New("compose process exited with non-zero status")
)

// OptionsError describes which option was rejected and why.
type OptionsError struct {
	// Field names the offending option (e.g. "cwd", "service").
	Field string

	// Reason is a short human-readable explanation.
	Reason string
}

func (e *OptionsError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidOptions, e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidOptions) succeed.
func (e *OptionsError) Is(target error) bool {
	return target == ErrInvalidOptions
}

func invalidOption(field, reason string) error {
	return &OptionsError{Field: field, Reason: reason}
}

// SpawnError reports that the compose binary could not be executed, for
// example because it is not installed or Cwd does not exist.
type SpawnError struct {
	Binary string
	Err    error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Binary, e.Err)
}

// Unwrap exposes the underlying os/exec error (exec.ErrNotFound and friends).
func (e *SpawnError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrSpawnFailure) succeed.
func (e *SpawnError) Is(target error) bool {
	return target == ErrSpawnFailure
}

// ExitError reports a compose process that exited with a non-zero status.
// Result carries the captured output, including stderr in Result.Err.
type ExitError struct {
	Verb   Verb
	Result Result
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("compose %s exited with code %d", e.Verb, e.Result.ExitCode)
	if detail := strings.TrimSpace(e.Result.Err); detail != "" {
		msg += ": " + detail
	}
	return msg
}

// Is makes errors.Is(err, ErrNonZeroExit) succeed.
func (e *ExitError) Is(target error) bool {
	return target == ErrNonZeroExit
}
