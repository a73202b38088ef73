// Package model holds the value types passed between composectl packages:
// container records reconstructed from the Docker API, container lifecycle
// states, and the CLI exit codes together with the CLIError type that
// carries them up to the process boundary.
//
// The package has no external dependencies.
package model
