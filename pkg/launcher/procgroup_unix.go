//go:build !windows

package launcher

import (
	"os/exec"
	"syscall"
)

// ownProcessGroup moves the child out of the terminal's foreground group so a
// terminal Ctrl-C reaches it once, through Cancel, instead of twice.
func ownProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
