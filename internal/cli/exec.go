package cli

import (
	"github.com/spf13/cobra"

	"github.com/pybun/pybun/internal/shim"
)

func newExecCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "exec [args...]",
		Short: "Run the packaged Bun binary, forwarding arguments and exit code",
		// Everything after "exec" belongs to Bun, including flags.
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := shim.Locate()
			if err != nil {
				return err
			}
			// On POSIX this replaces the process and does not return.
			return shim.Run(path, args)
		},
	}
}
