//go:build windows

package shim

// Run starts the Bun binary as a child with inherited stdio; Windows has no
// process replacement, so the exit code comes back as an *ExitError.
func Run(path string, args []string) error {
	return forward(path, args)
}
