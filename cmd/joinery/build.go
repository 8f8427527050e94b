package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pthm/joinery"
	"github.com/pthm/joinery/internal/cli"
	"github.com/pthm/joinery/internal/grid"
)

var (
	buildGrids   string
	buildGrid    string
	buildColumns []string
	buildFilters []string
	buildPaths   []string
	buildExplain bool
	buildOutput  outputFlags
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the include spec of a grid request",
	Long: `Build the include spec a grid request needs: the grid's base includes
merged with the associations of its visible columns, its active filters
and any extra paths.`,
	Example: `  # All columns, no filters
  joinery build --grid tasks

  # Two visible columns and an active filter, with the reason for each path
  joinery build --grid tasks --column title --column owner --filter client --explain`,
	RunE: func(cmd *cobra.Command, args []string) error {
		gridsPath := resolveString(buildGrids, cfg.Grids)

		file, err := grid.LoadFile(gridsPath)
		if err != nil {
			return cli.ParseError("loading grids", err)
		}
		def, err := file.Grid(buildGrid)
		if err != nil {
			return cli.GeneralError(fmt.Sprintf("looking up grid (available: %s)", strings.Join(file.Names(), ", ")), err)
		}

		extra, err := parsePaths(buildPaths)
		if err != nil {
			return err
		}

		opts := grid.Options{Filters: buildFilters, Extra: extra}
		if cmd.Flags().Changed("column") {
			opts.Columns = buildColumns
		}

		req, err := grid.NewBuilder(def, logger).Build(opts)
		if err != nil {
			if errors.Is(err, joinery.ErrInvalidArgument) {
				return cli.ParseError("building includes", err)
			}
			return cli.GeneralError("building includes", err)
		}

		if err := buildOutput.print(cmd, req.Includes); err != nil {
			return err
		}

		if buildExplain {
			w := cmd.OutOrStdout()
			for _, r := range req.Requirements {
				if _, err := fmt.Fprintf(w, "  %-6s %-20s %s\n", r.Source, r.Name, r.Path); err != nil {
					return err
				}
			}
		}
		return nil
	},
}

func init() {
	f := buildCmd.Flags()
	f.StringVar(&buildGrids, "grids", "", "path to grid definition file (default from config)")
	f.StringVar(&buildGrid, "grid", "", "grid name")
	f.StringArrayVar(&buildColumns, "column", nil, "visible column (repeatable, default: all)")
	f.StringArrayVar(&buildFilters, "filter", nil, "active filter (repeatable)")
	f.StringArrayVarP(&buildPaths, "path", "p", nil, "extra dotted relation path (repeatable)")
	f.BoolVar(&buildExplain, "explain", false, "list the column, filter or extra path behind each requirement")
	buildOutput.register(buildCmd)
	_ = buildCmd.MarkFlagRequired("grid")
}
