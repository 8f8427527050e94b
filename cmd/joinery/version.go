package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pthm/joinery/internal/update"
	"github.com/pthm/joinery/internal/version"
)

var versionCheck bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Example: `  # Print the version and look for a newer release
  joinery version --check`,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(w, version.Info())

		if !versionCheck {
			return nil
		}

		info, err := update.NewChecker().Check(cmd.Context())
		if err != nil {
			// A failed lookup should not fail the command.
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Could not check for updates: %v\n", err)
			return nil
		}
		if info.UpdateAvailable {
			_, _ = fmt.Fprintf(w, "A newer version is available: %s (current %s)\n", info.LatestVersion, info.CurrentVersion)
			if info.ReleaseURL != "" {
				_, _ = fmt.Fprintf(w, "  %s\n", info.ReleaseURL)
			}
		} else {
			_, _ = fmt.Fprintln(w, "You are running the latest version.")
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionCheck, "check", false, "check GitHub for a newer release")
}
