package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pthm/joinery/internal/catalog"
	"github.com/pthm/joinery/internal/cli"
	"github.com/pthm/joinery/internal/grid"
)

var (
	validateGrids   string
	validateCatalog string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate grid definitions",
	Long: `Validate the grid file, build every grid with all of its columns and
filters, and, when a catalog file is configured, check that every include
path resolves.`,
	Example: `  # Validate a specific grid file
  joinery validate --grids config/grids.yaml

  # Validate using config file settings
  joinery validate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		gridsPath := resolveString(validateGrids, cfg.Grids)
		catalogPath := resolveString(validateCatalog, cfg.Catalog)

		if _, err := os.Stat(gridsPath); err != nil {
			return cli.ParseError(fmt.Sprintf("grid file not found: %s", gridsPath), nil)
		}

		file, err := grid.LoadFile(gridsPath)
		if err != nil {
			return cli.ParseError("parsing grids", err)
		}

		var cat *catalog.Catalog
		if catalogPath != "" {
			cat, err = catalog.LoadFile(catalogPath)
			if err != nil {
				return cli.ParseError("parsing catalog", err)
			}
		}

		w := cmd.OutOrStdout()
		failed := 0
		if !quiet {
			_, _ = fmt.Fprintf(w, "Grid file is valid. Found %d grids:\n", len(file.Grids))
		}
		for i := range file.Grids {
			def := &file.Grids[i]
			problems, err := checkGrid(def, cat)
			if err != nil {
				failed++
				_, _ = fmt.Fprintf(w, "  - %s: %v\n", def.Name, err)
				continue
			}
			if len(problems) > 0 {
				failed++
				for _, p := range problems {
					_, _ = fmt.Fprintf(w, "  - %s: %s\n", def.Name, p)
				}
				continue
			}
			if !quiet {
				_, _ = fmt.Fprintf(w, "  - %s (%d columns, %d filters)\n", def.Name, len(def.Columns), len(def.Filters))
			}
		}

		if failed > 0 {
			return cli.ParseError(fmt.Sprintf("%d of %d grids failed validation", failed, len(file.Grids)), nil)
		}
		if cat == nil && !quiet {
			_, _ = fmt.Fprintln(w)
			_, _ = fmt.Fprintln(w, "No catalog configured; association paths were not checked.")
			_, _ = fmt.Fprintln(w, "Run 'joinery doctor --db <url>' to check them against a database.")
		}
		return nil
	},
}

// checkGrid builds def with every column and filter active and resolves
// the result against cat when one is given.
func checkGrid(def *grid.Definition, cat *catalog.Catalog) ([]catalog.Problem, error) {
	filters := make([]string, 0, len(def.Filters))
	for _, f := range def.Filters {
		filters = append(filters, f.Name)
	}

	req, err := grid.NewBuilder(def, logger).Build(grid.Options{Filters: filters})
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, nil
	}
	return cat.Validate(req.Model, req.Includes)
}

func init() {
	f := validateCmd.Flags()
	f.StringVar(&validateGrids, "grids", "", "path to grid definition file (default from config)")
	f.StringVar(&validateCatalog, "catalog", "", "path to catalog file (default from config)")
}
