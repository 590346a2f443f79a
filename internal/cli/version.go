package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/jsdb-labs/jsdb/internal/branding"
	"github.com/spf13/cobra"
)

var (
	versionShort bool
	versionJSON  bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info as JSON")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(out, displayVersion())
			return nil
		}

		if versionJSON {
			info := map[string]string{
				"version": displayVersion(),
				"commit":  buildCommit,
				"date":    buildDate,
			}
			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling version info: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintf(out, "%s version %s (commit: %s, built: %s)\n", branding.CLIName(), displayVersion(), buildCommit, buildDate)
		return nil
	},
}

// resolveVersion normalises a build version to semver. Builds without a
// release tag report the embedded release version as a "dev" prerelease.
func resolveVersion(raw string) *semver.Version {
	if v, err := semver.NewVersion(strings.TrimPrefix(raw, "v")); err == nil {
		return v
	}
	base, err := semver.NewVersion(branding.Version())
	if err != nil {
		base = semver.MustParse("0.0.0")
	}
	dev, err := base.SetPrerelease("dev")
	if err != nil {
		return base
	}
	return &dev
}

func displayVersion() string {
	return resolveVersion(buildVersion).String()
}

// userAgent identifies the CLI to the server.
func userAgent() string {
	return branding.CLIName() + "-cli/" + displayVersion()
}
