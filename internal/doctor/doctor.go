// Package doctor provides health checks for grid definitions and the
// relation catalog they are built against.
//
// The doctor command loads the grid file, checks each grid's base includes,
// builds every grid with all of its columns and filters, and verifies the
// resulting include specs against a catalog read from a file or introspected
// from PostgreSQL.
//
// Example usage:
//
//	d := doctor.New(doctor.Options{GridsPath: "grids.yaml", DB: db}, logger)
//	report, err := d.Run(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	report.Print(os.Stdout, true) // verbose=true
package doctor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/pthm/joinery"
	"github.com/pthm/joinery/internal/catalog"
	"github.com/pthm/joinery/internal/grid"
)

// Status represents the result of a health check.
type Status int

const (
	// StatusPass indicates the check passed.
	StatusPass Status = iota
	// StatusWarn indicates a non-critical issue.
	StatusWarn
	// StatusFail indicates an issue that will break grid queries.
	StatusFail
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Symbol returns a status indicator symbol for terminal output.
func (s Status) Symbol() string {
	switch s {
	case StatusPass:
		return "✓"
	case StatusWarn:
		return "⚠"
	case StatusFail:
		return "✗"
	default:
		return "?"
	}
}

func (s Status) color() lipgloss.Color {
	switch s {
	case StatusPass:
		return lipgloss.Color("2")
	case StatusWarn:
		return lipgloss.Color("3")
	default:
		return lipgloss.Color("1")
	}
}

// CheckResult represents the outcome of a single health check.
type CheckResult struct {
	// Category groups related checks (e.g., "Grid File", "Catalog").
	Category string

	// Name is a short identifier for the check.
	Name string

	// Status is the check outcome.
	Status Status

	// Message is a human-readable description of the result.
	Message string

	// Details provides additional information for verbose output.
	Details string

	// FixHint suggests how to resolve issues.
	FixHint string
}

// Report contains all health check results.
type Report struct {
	Checks []CheckResult

	// Summary counts.
	Passed   int
	Warnings int
	Errors   int
}

// AddCheck adds a check result and updates summary counts.
func (r *Report) AddCheck(check CheckResult) {
	r.Checks = append(r.Checks, check)
	switch check.Status {
	case StatusPass:
		r.Passed++
	case StatusWarn:
		r.Warnings++
	case StatusFail:
		r.Errors++
	}
}

// Print writes the report to the given writer. Symbols are colored only
// when w is a terminal.
func (r *Report) Print(w io.Writer, verbose bool) {
	renderer := lipgloss.NewRenderer(w)
	heading := renderer.NewStyle().Bold(true)

	categories := make(map[string][]CheckResult)
	var categoryOrder []string
	for _, check := range r.Checks {
		if _, exists := categories[check.Category]; !exists {
			categoryOrder = append(categoryOrder, check.Category)
		}
		categories[check.Category] = append(categories[check.Category], check)
	}

	for _, cat := range categoryOrder {
		_, _ = fmt.Fprintf(w, "\n%s\n", heading.Render(cat))
		for _, check := range categories[cat] {
			symbol := renderer.NewStyle().Foreground(check.Status.color()).Render(check.Status.Symbol())
			_, _ = fmt.Fprintf(w, "  %s %s\n", symbol, check.Message)
			if verbose && check.Details != "" {
				for _, line := range strings.Split(check.Details, "\n") {
					_, _ = fmt.Fprintf(w, "      %s\n", line)
				}
			}
			if check.Status != StatusPass && check.FixHint != "" {
				_, _ = fmt.Fprintf(w, "      Fix: %s\n", check.FixHint)
			}
		}
	}

	_, _ = fmt.Fprintf(w, "\nSummary: %d passed, %d warnings, %d errors\n",
		r.Passed, r.Warnings, r.Errors)
}

// HasErrors returns true if any check failed.
func (r *Report) HasErrors() bool {
	return r.Errors > 0
}

// Options configures where the doctor finds its inputs.
type Options struct {
	// GridsPath is the grid definition file.
	GridsPath string

	// CatalogPath is a catalog file. It takes precedence over DB.
	CatalogPath string

	// DB is used to introspect a catalog when CatalogPath is empty.
	DB *sql.DB

	// DBSchema is the PostgreSQL schema to introspect ("public" when empty).
	DBSchema string
}

// Doctor performs health checks on grid definitions.
type Doctor struct {
	opts   Options
	logger zerolog.Logger

	// Populated during Run.
	file     *grid.File
	requests map[string]*grid.Request
	catalog  *catalog.Catalog
}

// New creates a new Doctor instance.
func New(opts Options, logger zerolog.Logger) *Doctor {
	return &Doctor{
		opts:     opts,
		logger:   logger.With().Str("component", "doctor").Logger(),
		requests: map[string]*grid.Request{},
	}
}

// Run executes all health checks and returns a report. Problems found in
// the inputs are reported as failed checks; only database errors are
// returned.
func (d *Doctor) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	d.checkGridFile(report)
	if d.file != nil {
		d.checkBaseIncludes(report)
		d.checkBuilds(report)
	}
	if err := d.checkCatalog(ctx, report); err != nil {
		return nil, fmt.Errorf("checking catalog: %w", err)
	}
	if d.catalog != nil && len(d.requests) > 0 {
		d.checkAssociations(report)
	}

	return report, nil
}

// checkGridFile validates the grid file exists and parses.
func (d *Doctor) checkGridFile(report *Report) {
	path := d.opts.GridsPath

	if _, err := os.Stat(path); err != nil {
		report.AddCheck(CheckResult{
			Category: "Grid File",
			Name:     "exists",
			Status:   StatusFail,
			Message:  fmt.Sprintf("Grid file not found at %s", path),
			FixHint:  "Create a grids.yaml file or set 'grids' in joinery.yaml",
		})
		return
	}

	report.AddCheck(CheckResult{
		Category: "Grid File",
		Name:     "exists",
		Status:   StatusPass,
		Message:  fmt.Sprintf("Grid file exists at %s", path),
	})

	f, err := grid.LoadFile(path)
	if err != nil {
		report.AddCheck(CheckResult{
			Category: "Grid File",
			Name:     "valid",
			Status:   StatusFail,
			Message:  "Grid file is invalid",
			Details:  err.Error(),
			FixHint:  "Run 'joinery validate' to see the first error",
		})
		return
	}
	d.file = f

	columns, filters := 0, 0
	for _, g := range f.Grids {
		columns += len(g.Columns)
		filters += len(g.Filters)
	}
	report.AddCheck(CheckResult{
		Category: "Grid File",
		Name:     "valid",
		Status:   StatusPass,
		Message:  fmt.Sprintf("Grid file is valid (%d grids, %d columns, %d filters)", len(f.Grids), columns, filters),
	})
}

// checkBaseIncludes warns about base include specs that repeat a relation.
func (d *Doctor) checkBaseIncludes(report *Report) {
	var repeated []string
	var details []string
	for _, g := range d.file.Grids {
		if !joinery.HasDuplicates(g.Include) {
			continue
		}
		repeated = append(repeated, g.Name)
		details = append(details, fmt.Sprintf("%s: %s => %s", g.Name, g.Include, joinery.Canonicalize(g.Include)))
	}

	if len(repeated) == 0 {
		report.AddCheck(CheckResult{
			Category: "Base Includes",
			Name:     "duplicates",
			Status:   StatusPass,
			Message:  "No base includes repeat a relation",
		})
		return
	}

	report.AddCheck(CheckResult{
		Category: "Base Includes",
		Name:     "duplicates",
		Status:   StatusWarn,
		Message:  fmt.Sprintf("%d grids repeat a relation in their base includes: %s", len(repeated), strings.Join(repeated, ", ")),
		Details:  strings.Join(details, "\n"),
		FixHint:  "Replace the include with the canonical form shown with --verbose",
	})
}

// checkBuilds builds each grid with every column and filter active.
func (d *Doctor) checkBuilds(report *Report) {
	for i := range d.file.Grids {
		def := &d.file.Grids[i]

		filters := make([]string, 0, len(def.Filters))
		for _, f := range def.Filters {
			filters = append(filters, f.Name)
		}

		req, err := grid.NewBuilder(def, d.logger).Build(grid.Options{Filters: filters})
		if err != nil {
			report.AddCheck(CheckResult{
				Category: "Grid Builds",
				Name:     def.Name,
				Status:   StatusFail,
				Message:  fmt.Sprintf("Grid %q does not build", def.Name),
				Details:  err.Error(),
			})
			continue
		}
		d.requests[def.Name] = req

		report.AddCheck(CheckResult{
			Category: "Grid Builds",
			Name:     def.Name,
			Status:   StatusPass,
			Message:  fmt.Sprintf("Grid %q builds (%d paths)", def.Name, len(joinery.Paths(req.Includes))),
			Details:  req.Includes.String(),
		})
	}
}

// checkCatalog loads the catalog from file or database.
func (d *Doctor) checkCatalog(ctx context.Context, report *Report) error {
	switch {
	case d.opts.CatalogPath != "":
		c, err := catalog.LoadFile(d.opts.CatalogPath)
		if err != nil {
			report.AddCheck(CheckResult{
				Category: "Catalog",
				Name:     "load",
				Status:   StatusFail,
				Message:  fmt.Sprintf("Catalog at %s could not be loaded", d.opts.CatalogPath),
				Details:  err.Error(),
			})
			return nil
		}
		d.catalog = c
		report.AddCheck(CheckResult{
			Category: "Catalog",
			Name:     "load",
			Status:   StatusPass,
			Message:  fmt.Sprintf("Catalog loaded from %s (%d models)", d.opts.CatalogPath, len(c.Models)),
		})

	case d.opts.DB != nil:
		c, err := catalog.Introspect(ctx, d.opts.DB, d.opts.DBSchema)
		if err != nil {
			return err
		}
		d.catalog = c
		d.logger.Debug().Int("models", len(c.Models)).Msg("introspected catalog")
		report.AddCheck(CheckResult{
			Category: "Catalog",
			Name:     "load",
			Status:   StatusPass,
			Message:  fmt.Sprintf("Catalog introspected from database (%d models)", len(c.Models)),
		})

	default:
		report.AddCheck(CheckResult{
			Category: "Catalog",
			Name:     "load",
			Status:   StatusWarn,
			Message:  "No catalog configured, associations were not checked",
			FixHint:  "Set 'catalog' in joinery.yaml or pass --db",
		})
	}
	return nil
}

// checkAssociations resolves every built include path against the catalog.
func (d *Doctor) checkAssociations(report *Report) {
	for _, g := range d.file.Grids {
		req, ok := d.requests[g.Name]
		if !ok {
			continue
		}

		problems, err := d.catalog.Validate(req.Model, req.Includes)
		if errors.Is(err, catalog.ErrUnknownModel) {
			report.AddCheck(CheckResult{
				Category: "Associations",
				Name:     g.Name,
				Status:   StatusFail,
				Message:  fmt.Sprintf("Grid %q uses model %q which is not in the catalog", g.Name, req.Model),
			})
			continue
		}

		if len(problems) == 0 {
			report.AddCheck(CheckResult{
				Category: "Associations",
				Name:     g.Name,
				Status:   StatusPass,
				Message:  fmt.Sprintf("Grid %q associations resolve", g.Name),
			})
			continue
		}

		lines := make([]string, 0, len(problems))
		for _, p := range problems {
			lines = append(lines, p.String())
		}
		report.AddCheck(CheckResult{
			Category: "Associations",
			Name:     g.Name,
			Status:   StatusFail,
			Message:  fmt.Sprintf("Grid %q has %d unresolved association paths", g.Name, len(problems)),
			Details:  strings.Join(lines, "\n"),
			FixHint:  "Fix the assoc of the listed columns or filters",
		})
	}
}
