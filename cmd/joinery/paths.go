package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pthm/joinery"
	"github.com/pthm/joinery/internal/cli"
)

var pathsSpec string

var pathsCmd = &cobra.Command{
	Use:   "paths [spec]",
	Short: "List the leaf paths of an include spec",
	Long: `List the maximal relation paths of an include spec in dotted form,
one per line. Two specs that print the same paths load the same associations.`,
	Example: `  joinery paths --spec '[a, {b: [c, {d: e}]}]'`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := pathsSpec
		if len(args) == 1 {
			text = args[0]
		}

		s, err := joinery.Parse([]byte(text))
		if err != nil {
			return cli.ParseError("parsing spec", err)
		}

		for _, p := range joinery.PreloadPaths(s) {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), p); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	pathsCmd.Flags().StringVar(&pathsSpec, "spec", "", "include spec as JSON or YAML")
}
