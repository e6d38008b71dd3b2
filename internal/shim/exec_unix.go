//go:build !windows

package shim

import (
	"os"
	"syscall"
)

// Run replaces the current process with the Bun binary. It only returns on
// failure to exec; arguments and environment pass through untouched.
func Run(path string, args []string) error {
	return syscall.Exec(path, append([]string{path}, args...), os.Environ())
}
