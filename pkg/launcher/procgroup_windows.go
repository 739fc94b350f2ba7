//go:build windows

package launcher

import "os/exec"

func ownProcessGroup(cmd *exec.Cmd) {}
