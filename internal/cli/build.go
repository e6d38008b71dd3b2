package cli

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pybun/pybun/internal/platform"
	"github.com/pybun/pybun/internal/release"
	"github.com/pybun/pybun/internal/wheel"
)

func newBuildCommand(opts *globalOptions) *cobra.Command {
	var (
		platformFlags []string
		suffix        string
		output        string
	)

	cmd := &cobra.Command{
		Use:   "build <bun-version>",
		Short: "Download a Bun release and write one wheel per platform",
		Long: `Download the official Bun release archives for a version, verify them
against the published SHASUMS256.txt, and repackage each one as a
platform-tagged Python wheel. Pass "latest" to build the most recent
release.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, opts, args[0], platformFlags, suffix, output)
		},
	}

	cmd.Flags().StringArrayVar(&platformFlags, "platform", nil, `target platform, repeatable ("host" targets this machine; default: all)`)
	cmd.Flags().StringVar(&suffix, "suffix", "", "package version suffix, e.g. post1")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default from config)")
	return cmd
}

func runBuild(cmd *cobra.Command, opts *globalOptions, versionArg string, platformFlags []string, suffix, output string) error {
	ctx := cmd.Context()
	logger := opts.logger()

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	if output == "" {
		output = cfg.OutputDir
	}

	targets, err := resolveTargets(ctx, platformFlags)
	if err != nil {
		return err
	}

	client := release.New(
		release.WithBaseURL(cfg.Release.BaseURL),
		release.WithLogger(logger),
	)

	bunVersion := versionArg
	if bunVersion == "latest" {
		bunVersion, err = client.Latest(ctx)
		if err != nil {
			return err
		}
		logger.Info("resolved latest release", "version", bunVersion)
	}

	hashes, err := client.Hashes(ctx, bunVersion)
	if err != nil {
		return err
	}

	pkgVersion := wheel.PackageVersion(bunVersion, suffix)

	var failed int
	for _, p := range targets {
		if interactive() {
			fmt.Fprintf(cmd.OutOrStdout(), "building %s for %s...\n", bunVersion, p)
		}
		path, err := buildTarget(ctx, client, logger, hashes, bunVersion, pkgVersion, p, output)
		if err != nil {
			logger.Error("target failed", "platform", p, "err", err)
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: %v\n", color.RedString("✗"), p, err)
			failed++
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString("✓"), path)
	}

	if failed > 0 {
		return fmt.Errorf("build failed for %d of %d platforms", failed, len(targets))
	}
	return nil
}

func buildTarget(ctx context.Context, client *release.Client, logger *log.Logger, hashes map[platform.Platform]string, bunVersion, pkgVersion string, p platform.Platform, output string) (string, error) {
	expected, ok := hashes[p]
	if !ok {
		return "", fmt.Errorf("release %s publishes no archive for %s", bunVersion, p)
	}

	archive, err := client.Archive(ctx, bunVersion, p)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(archive)
	if got := hex.EncodeToString(sum[:]); got != expected {
		return "", fmt.Errorf("archive hash mismatch: expected %s, got %s", expected, got)
	}
	logger.Debug("verified archive hash", "platform", p, "sha256", expected)

	exe, err := wheel.ExtractExecutable(archive, p)
	if err != nil {
		return "", err
	}

	w := wheel.Wheel{
		PackageVersion: pkgVersion,
		BunVersion:     bunVersion,
		Platform:       p,
	}
	path, err := w.Write(exe, output)
	if err != nil {
		return "", err
	}

	logger.Info("wheel written", "platform", p, "path", path)
	return path, nil
}

// resolveTargets expands the --platform flags. No flags means every supported
// platform; "host" resolves to the machine running the build.
func resolveTargets(ctx context.Context, flags []string) ([]platform.Platform, error) {
	if len(flags) == 0 {
		return platform.All(), nil
	}

	var targets []platform.Platform
	for _, flag := range flags {
		var (
			p   platform.Platform
			err error
		)
		if flag == "host" {
			info, derr := platform.DetectHost(ctx)
			if derr != nil {
				return nil, derr
			}
			p, err = info.Target()
		} else {
			p, err = platform.Parse(flag)
		}
		if err != nil {
			return nil, err
		}
		if !slices.Contains(targets, p) {
			targets = append(targets, p)
		}
	}
	return targets, nil
}
