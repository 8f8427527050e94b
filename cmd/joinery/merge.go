package main

import (
	"github.com/spf13/cobra"

	"github.com/pthm/joinery"
	"github.com/pthm/joinery/internal/cli"
)

var (
	mergeBase   string
	mergePaths  []string
	mergeOutput outputFlags
)

var mergeCmd = &cobra.Command{
	Use:   "merge [path...]",
	Short: "Merge relation paths into an include spec",
	Long: `Merge dotted relation paths into a base include spec.

The base is JSON or YAML: a name, a list, or a map of name to nested spec.
Relations already present are merged into, never repeated.`,
	Example: `  # Add a nested path to a grid's base includes
  joinery merge --base '[project, {assignee: group}]' --path project.owner

  # Paths may also be given as arguments
  joinery merge --base '{"a": "x"}' a.x.y b --output json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		base, err := joinery.Parse([]byte(mergeBase))
		if err != nil {
			return cli.ParseError("parsing --base", err)
		}

		paths, err := parsePaths(append(append([]string{}, mergePaths...), args...))
		if err != nil {
			return err
		}

		out, err := joinery.MergeMany(base, paths...)
		if err != nil {
			return cli.ParseError("merging paths", err)
		}
		logger.Debug().
			Stringer("base", base).
			Int("paths", len(paths)).
			Stringer("result", out).
			Msg("merged include spec")

		return mergeOutput.print(cmd, out)
	},
}

func init() {
	f := mergeCmd.Flags()
	f.StringVar(&mergeBase, "base", "", "base include spec as JSON or YAML (default: empty)")
	f.StringArrayVarP(&mergePaths, "path", "p", nil, "dotted relation path to merge (repeatable)")
	mergeOutput.register(mergeCmd)
}
