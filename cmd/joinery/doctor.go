package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/pthm/joinery/internal/cli"
	"github.com/pthm/joinery/internal/doctor"
)

var (
	doctorDB       string
	doctorDBSchema string
	doctorGrids    string
	doctorCatalog  string
	doctorVerbose  bool
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run health checks",
	Long: `Run health checks on grid definitions and the relation catalog.

With a database, the catalog is introspected from foreign keys unless a
catalog file is configured.`,
	Example: `  # Check grids against a catalog file
  joinery doctor --catalog catalog.yaml

  # Check grids against a database, with verbose output
  joinery doctor --db postgres://localhost/mydb --verbose`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := doctor.Options{
			GridsPath:   resolveString(doctorGrids, cfg.Grids),
			CatalogPath: resolveString(doctorCatalog, cfg.Catalog),
			DBSchema:    doctorDBSchema,
		}
		verboseFlag := resolveBool(doctorVerbose, cfg.Doctor.Verbose)

		if doctorDB != "" || cfg.HasDatabase() {
			dsn, err := resolveDSN(doctorDB)
			if err != nil {
				return err
			}
			db, err := openDB(cmd.Context(), dsn)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()
			opts.DB = db
		}

		return runDoctor(cmd, opts, verboseFlag)
	},
}

func init() {
	f := doctorCmd.Flags()
	f.StringVar(&doctorDB, "db", "", "database URL")
	f.StringVar(&doctorDBSchema, "db-schema", "", "PostgreSQL schema to introspect (default: public)")
	f.StringVar(&doctorGrids, "grids", "", "path to grid definition file (default from config)")
	f.StringVar(&doctorCatalog, "catalog", "", "path to catalog file (default from config)")
	f.BoolVar(&doctorVerbose, "verbose", false, "show detailed output")
}

// resolveDSN gets the database DSN from flag or config.
func resolveDSN(flagDSN string) (string, error) {
	if flagDSN != "" {
		return flagDSN, nil
	}

	dsn, err := cfg.DSN()
	if err != nil {
		return "", cli.ConfigError("database configuration", err)
	}
	if dsn == "" {
		return "", cli.ConfigError("database URL is required (use --db or set in config)", nil)
	}
	return dsn, nil
}

func openDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, cli.DBConnectError("connecting to database", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, cli.DBConnectError("connecting to database", err)
	}
	return db, nil
}

func runDoctor(cmd *cobra.Command, opts doctor.Options, verboseFlag bool) error {
	w := cmd.OutOrStdout()
	if !quiet {
		_, _ = fmt.Fprintln(w, "joinery doctor - Health Check")
	}

	report, err := doctor.New(opts, logger).Run(cmd.Context())
	if err != nil {
		return cli.GeneralError("running doctor", err)
	}

	report.Print(w, verboseFlag)

	if report.HasErrors() {
		return cli.GeneralError("health checks failed", nil)
	}

	return nil
}
