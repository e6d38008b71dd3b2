package cli

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pybun/pybun/internal/config"
	"github.com/pybun/pybun/internal/platform"
)

func newDoctorCommand(opts *globalOptions) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose pybun prerequisites and environment issues",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd, opts, verbose)
		},
	}
	cmd.Flags().BoolVar(&verbose, "show-passing", false, "show passing checks too")
	return cmd
}

type doctorCheck struct {
	Name string
	Fn   func(cfg config.Config) error
}

func runDoctor(cmd *cobra.Command, opts *globalOptions, verbose bool) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	checks := []doctorCheck{
		{Name: "host platform supported", Fn: checkHostPlatform(cmd)},
		{Name: "output directory writable", Fn: checkOutputWritable},
		{Name: "release host reachable", Fn: checkReleaseHost},
	}

	var failures []string
	for _, check := range checks {
		if err := check.Fn(cfg); err != nil {
			failures = append(failures, fmt.Sprintf("%s %s: %v", color.RedString("✗"), check.Name, err))
			continue
		}
		if verbose {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString("✓"), check.Name)
		}
	}

	if len(failures) > 0 {
		for _, failure := range failures {
			fmt.Fprintln(cmd.ErrOrStderr(), failure)
		}
		return fmt.Errorf("%d doctor checks failed", len(failures))
	}
	fmt.Fprintln(cmd.OutOrStdout(), "All checks passed.")
	return nil
}

func checkHostPlatform(cmd *cobra.Command) func(config.Config) error {
	return func(config.Config) error {
		info, err := platform.DetectHost(cmd.Context())
		if err != nil {
			return err
		}
		target, err := info.Target()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "host: %s -> %s\n", info, target)
		return nil
	}
}

func checkOutputWritable(cfg config.Config) error {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return err
	}
	probe := filepath.Join(cfg.OutputDir, ".pybun-doctor")
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		return err
	}
	return os.Remove(probe)
}

func checkReleaseHost(cfg config.Config) error {
	client := &http.Client{
		Timeout: 10 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.Head(cfg.Release.BaseURL)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
