// Package model defines the domain types shared by the composectl packages.
//
// Nothing in this package is persisted. Container records are rebuilt from
// Docker API queries on every call, and compose projects live entirely in
// the compose tool and the Docker daemon.
package model

import (
	"fmt"
	"strings"
)

// ContainerState is the short lifecycle state reported by the Docker API
// (the "State" field of a container summary).
type ContainerState string

const (
	// StateCreated means the container exists but was never started.
	// "compose up" passes through it briefly; "compose run" leaves one-off
	// containers here only when the start itself fails.
	StateCreated ContainerState = "created"

	// StateRunning means the main process is alive.
	StateRunning ContainerState = "running"

	// StatePaused means the processes are frozen via the cgroup freezer.
	StatePaused ContainerState = "paused"

	// StateRestarting means a restart policy is bringing the container back.
	StateRestarting ContainerState = "restarting"

	// StateRemoving is reported while "compose down" deletes the container.
	StateRemoving ContainerState = "removing"

	// StateExited is what "compose stop" and "compose kill" leave behind.
	// The container and its filesystem are kept until removed.
	StateExited ContainerState = "exited"

	// StateDead means Docker failed to remove the container cleanly.
	StateDead ContainerState = "dead"
)

// String returns the state as reported by Docker.
func (s ContainerState) String() string {
	return string(s)
}

// IsValid checks whether s is one of the states Docker reports.
func (s ContainerState) IsValid() bool {
	switch s {
	case StateCreated, StateRunning, StatePaused, StateRestarting,
		StateRemoving, StateExited, StateDead:
		return true
	default:
		return false
	}
}

// IsRunning reports whether the container's main process is up. Paused and
// restarting containers do not count.
func (s ContainerState) IsRunning() bool {
	return s == StateRunning
}

// ParseContainerState converts a string to a ContainerState.
// Returns an error if the string does not match any known state.
func ParseContainerState(s string) (ContainerState, error) {
	// The API reports lower case, but older daemons and some compatible
	// runtimes (Podman) have used capitalized values.
	state := ContainerState(strings.ToLower(strings.TrimSpace(s)))
	if !state.IsValid() {
		return "", fmt.Errorf("invalid container state: %q (valid: created, running, paused, restarting, removing, exited, dead)", s)
	}
	return state, nil
}

// ContainerInfo holds runtime information about a Docker container.
// It is fetched from the Docker API, never stored.
type ContainerInfo struct {
	// ContainerID is the full Docker container ID.
	ContainerID string `json:"containerId"`

	// ContainerName is the primary name without the API's leading "/".
	ContainerName string `json:"containerName"`

	// Names holds every name Docker reports, in API form ("/name").
	Names []string `json:"names,omitempty"`

	// Image is the image reference the container was created from.
	Image string `json:"image,omitempty"`

	// ProjectName is the compose project the container belongs to.
	// Empty for containers not created by compose.
	ProjectName string `json:"projectName,omitempty"`

	// ServiceName is the compose service name, if any.
	ServiceName string `json:"serviceName,omitempty"`

	// OneOff is true for containers created by "compose run".
	OneOff bool `json:"oneOff,omitempty"`

	// State is the container lifecycle state.
	State ContainerState `json:"state"`

	// Status is Docker's human-readable status, e.g. "Up 3 minutes".
	Status string `json:"status,omitempty"`

	// Labels is the full set of Docker labels on the container.
	Labels map[string]string `json:"labels,omitempty"`
}

// ShortID returns the 12-character ID prefix Docker shows in its CLI.
func (c ContainerInfo) ShortID() string {
	// IDs from the API are 64 hex characters; fakes and partial IDs may be
	// shorter and are returned whole.
	if len(c.ContainerID) > 12 {
		return c.ContainerID[:12]
	}
	return c.ContainerID
}

// ExitCode defines the process exit codes of the composectl binary.
// Scripts and CI jobs can branch on these.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitInvalidOptions indicates the options were rejected before the
	// compose tool was started.
	ExitInvalidOptions ExitCode = 2

	// ExitDockerNotRunning indicates the Docker daemon is not accessible.
	ExitDockerNotRunning ExitCode = 3

	// ExitSpawnFailure indicates the compose binary could not be executed.
	ExitSpawnFailure ExitCode = 4

	// ExitComposeFailed indicates the compose tool ran and reported failure.
	ExitComposeFailed ExitCode = 5

	// ExitContainerNotFound indicates no container matched the query.
	ExitContainerNotFound ExitCode = 6
)

// CLIError is an error that carries the exit code the CLI should return.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error returns the message, followed by the underlying error if present.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
