// Package shim locates the Bun executable installed alongside pybun and hands
// the current process over to it.
package shim

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// ErrMissingBinary indicates no Bun executable is installed next to pybun.
var ErrMissingBinary = errors.New("bun executable not found")

// ExitError carries the exit code of the forwarded Bun process.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("bun exited with code %d", e.Code)
}

// Locate finds the Bun executable to forward to: the PYBUN_BUN environment
// variable when set, otherwise the bun binary sitting next to the current
// executable.
func Locate() (string, error) {
	if override := os.Getenv("PYBUN_BUN"); override != "" {
		if _, err := os.Stat(override); err != nil {
			return "", fmt.Errorf("%w: PYBUN_BUN=%s", ErrMissingBinary, override)
		}
		return override, nil
	}

	self, err := os.Executable()
	if err != nil {
		return "", err
	}

	name := "bun"
	if runtime.GOOS == "windows" {
		name = "bun.exe"
	}
	path := filepath.Join(filepath.Dir(self), name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: expected %s", ErrMissingBinary, path)
	}
	return path, nil
}

// forward spawns the binary with inherited stdio and reports its exit code as
// an *ExitError. Used where the process cannot be replaced outright.
func forward(path string, args []string) error {
	cmd := exec.Command(path, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Code: exitErr.ExitCode()}
	}
	return err
}
