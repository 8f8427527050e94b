package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pthm/joinery/internal/cli"
)

var (
	// Global state set during PersistentPreRunE
	cfg        *cli.Config
	configPath string
	logger     = zerolog.Nop()

	// Persistent flags
	cfgFile string
	verbose int
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "joinery",
	Short: "Association include merging for data grids",
	Long: `joinery - Association include merging for data grids

Joinery merges relation paths into eager-load include specs without
duplicating associations, and builds the includes a grid request needs
from its visible columns and active filters.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for help/completion/version commands
		if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, configPath, err = cli.LoadConfig(cfgFile)
		if err != nil {
			return cli.ConfigError("loading configuration", err)
		}

		logger, err = cli.NewLogger(cmd.ErrOrStderr(), cfg.Log, verbose, quiet)
		if err != nil {
			return cli.ConfigError("configuring logger", err)
		}
		if configPath != "" {
			logger.Debug().Str("path", configPath).Msg("loaded config file")
		}

		return nil
	},
	SilenceUsage:  true, // Don't show usage on errors
	SilenceErrors: true, // We handle errors ourselves
}

// Command group IDs
const (
	groupSpec    = "spec"
	groupGrid    = "grid"
	groupUtility = "utility"
)

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: auto-discover joinery.yaml)")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase verbosity (can be repeated)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")

	rootCmd.AddGroup(
		&cobra.Group{ID: groupSpec, Title: "Include specs:"},
		&cobra.Group{ID: groupGrid, Title: "Grids:"},
		&cobra.Group{ID: groupUtility, Title: "Utility:"},
	)

	mergeCmd.GroupID = groupSpec
	pathsCmd.GroupID = groupSpec
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(pathsCmd)

	buildCmd.GroupID = groupGrid
	validateCmd.GroupID = groupGrid
	doctorCmd.GroupID = groupGrid
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(doctorCmd)

	configCmd.GroupID = groupUtility
	versionCmd.GroupID = groupUtility
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		cli.ExitWithError(err)
	}
}

// resolveString returns the first non-empty string from the provided values.
// Used to implement precedence: flag > config > default.
func resolveString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// resolveBool returns true if any of the provided values is true.
func resolveBool(values ...bool) bool {
	for _, v := range values {
		if v {
			return true
		}
	}
	return false
}
