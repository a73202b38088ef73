//go:build !unix

package compose

import "os/exec"

// killProcessGroup leaves cmd alone where there are no Unix process groups.
// Cancellation kills the direct child only, and Execute's WaitDelay bounds
// how long any surviving grandchild can hold the output pipes.
func killProcessGroup(*exec.Cmd) {}
