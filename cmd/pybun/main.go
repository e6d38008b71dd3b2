package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/pybun/pybun/internal/cli"
	"github.com/pybun/pybun/internal/shim"
)

func main() {
	err := cli.Execute()
	if err == nil {
		return
	}

	// A forwarded Bun process already wrote its own output; just mirror its
	// exit code.
	var exitErr *shim.ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
