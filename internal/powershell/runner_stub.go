//go:build !windows

package powershell

import "os/exec"

// hideWindow does nothing off Windows. The scheduler itself is Windows-only
// but the rest of the tool builds and tests everywhere.
func hideWindow(cmd *exec.Cmd) {}
