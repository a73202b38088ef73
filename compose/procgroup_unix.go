//go:build unix

package compose

import (
	"os/exec"
	"syscall"
)

// killProcessGroup starts cmd in its own process group and makes context
// cancellation SIGKILL the whole group, so compose plugins and the helpers
// they spawn die with the process we started.
func killProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		// A negative pid addresses the group whose id is the child's pid,
		// which Setpgid made it the leader of.
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
