package cli

import (
	"github.com/spf13/cobra"

	"github.com/pybun/pybun/internal/config"
	"github.com/pybun/pybun/internal/version"
)

func Execute() error {
	return newRootCommand().Execute()
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "pybun",
		Short:         "Repackage official Bun binaries as Python wheels",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath, "path to the pybun config file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newBuildCommand(opts),
		newCheckCommand(opts),
		newExecCommand(),
		newPlatformsCommand(),
		newDoctorCommand(opts),
		newVersionCommand(),
	)

	return cmd
}
