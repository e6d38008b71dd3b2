package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pybun/pybun/internal/pypi"
	"github.com/pybun/pybun/internal/release"
	"github.com/pybun/pybun/internal/wheel"
)

const defaultPendingVersionFile = "LATEST_UNRELEASED_BUN_VERSION.txt"

func newCheckCommand(opts *globalOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check whether the latest Bun release still needs packaging",
		Long: `Compare the latest Bun release against the latest pybun version published
on PyPI. When the published version does not cover the Bun release, the
pending Bun version is written to a file for CI to pick up.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", defaultPendingVersionFile, "file to record the pending Bun version in")
	return cmd
}

func runCheck(cmd *cobra.Command, opts *globalOptions, output string) error {
	ctx := cmd.Context()
	logger := opts.logger()

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	releases := release.New(
		release.WithBaseURL(cfg.Release.BaseURL),
		release.WithLogger(logger),
	)
	latestBun, err := releases.Latest(ctx)
	if err != nil {
		return err
	}
	logger.Info("latest bun release", "version", latestBun)

	index := pypi.New(pypi.WithBaseURL(cfg.PyPI.BaseURL))
	published, err := index.LatestVersion(ctx, cfg.PyPI.Project)
	if err != nil {
		return err
	}
	logger.Info("latest published version", "project", cfg.PyPI.Project, "version", published)

	expected := wheel.PackageVersion(latestBun, "")
	if strings.HasPrefix(published, expected) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s already covers Bun %s: nothing to release.\n", cfg.PyPI.Project, latestBun)
		return nil
	}

	if err := os.WriteFile(output, []byte(latestBun), 0o644); err != nil {
		return fmt.Errorf("record pending version: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Bun %s is unreleased (published: %s); recorded in %s.\n", latestBun, published, output)
	return nil
}
