package doctor

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gridsYAML = `
grids:
  - name: tasks
    model: tasks
    include: [project, project]
    columns:
      - name: owner
        assoc: project.owner
    filters:
      - name: label
        assoc: labels
  - name: users
    model: users
`

const catalogYAML = `
models:
  tasks:
    associations:
      project: projects
  projects:
    associations:
      owner: users
  users: {}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func findCheck(t *testing.T, r *Report, category, name string) CheckResult {
	t.Helper()
	for _, c := range r.Checks {
		if c.Category == category && c.Name == name {
			return c
		}
	}
	t.Fatalf("no check %s/%s in report", category, name)
	return CheckResult{}
}

func TestRun_WithCatalogFile(t *testing.T) {
	dir := t.TempDir()
	d := New(Options{
		GridsPath:   writeFile(t, dir, "grids.yaml", gridsYAML),
		CatalogPath: writeFile(t, dir, "catalog.yaml", catalogYAML),
	}, zerolog.Nop())

	report, err := d.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, report.Passed)
	assert.Equal(t, 1, report.Warnings)
	assert.Equal(t, 1, report.Errors)
	assert.True(t, report.HasErrors())

	dup := findCheck(t, report, "Base Includes", "duplicates")
	assert.Equal(t, StatusWarn, dup.Status)
	assert.Equal(t, "tasks: [project, project] => [project]", dup.Details)

	build := findCheck(t, report, "Grid Builds", "tasks")
	assert.Equal(t, StatusPass, build.Status)
	assert.Equal(t, "[{project: owner}, labels]", build.Details)

	assoc := findCheck(t, report, "Associations", "tasks")
	assert.Equal(t, StatusFail, assoc.Status)
	assert.Equal(t, `labels: model "tasks" has no association "labels"`, assoc.Details)

	assert.Equal(t, StatusPass, findCheck(t, report, "Associations", "users").Status)
}

func TestRun_NoCatalog(t *testing.T) {
	dir := t.TempDir()
	d := New(Options{GridsPath: writeFile(t, dir, "grids.yaml", gridsYAML)}, zerolog.Nop())

	report, err := d.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusWarn, findCheck(t, report, "Catalog", "load").Status)
	assert.False(t, report.HasErrors())
	for _, c := range report.Checks {
		assert.NotEqual(t, "Associations", c.Category)
	}
}

func TestRun_MissingGridFile(t *testing.T) {
	d := New(Options{GridsPath: filepath.Join(t.TempDir(), "grids.yaml")}, zerolog.Nop())

	report, err := d.Run(context.Background())
	require.NoError(t, err)

	exists := findCheck(t, report, "Grid File", "exists")
	assert.Equal(t, StatusFail, exists.Status)
	assert.NotEmpty(t, exists.FixHint)
	assert.Len(t, report.Checks, 2)
}

func TestRun_InvalidFiles(t *testing.T) {
	dir := t.TempDir()
	d := New(Options{
		GridsPath:   writeFile(t, dir, "grids.yaml", "grids:\n  - name: tasks\n"),
		CatalogPath: writeFile(t, dir, "catalog.yaml", "models:\n  tasks:\n    associations:\n      project: projects\n"),
	}, zerolog.Nop())

	report, err := d.Run(context.Background())
	require.NoError(t, err)

	valid := findCheck(t, report, "Grid File", "valid")
	assert.Equal(t, StatusFail, valid.Status)
	assert.Contains(t, valid.Details, "has no model")
	assert.Equal(t, StatusFail, findCheck(t, report, "Catalog", "load").Status)
	assert.Equal(t, 2, report.Errors)
}

func TestRun_UnknownModel(t *testing.T) {
	dir := t.TempDir()
	d := New(Options{
		GridsPath:   writeFile(t, dir, "grids.yaml", "grids:\n  - {name: invoices, model: invoices}\n"),
		CatalogPath: writeFile(t, dir, "catalog.yaml", catalogYAML),
	}, zerolog.Nop())

	report, err := d.Run(context.Background())
	require.NoError(t, err)

	check := findCheck(t, report, "Associations", "invoices")
	assert.Equal(t, StatusFail, check.Status)
	assert.Contains(t, check.Message, `model "invoices"`)
}

func TestReport_Print(t *testing.T) {
	r := &Report{}
	r.AddCheck(CheckResult{Category: "Grid File", Name: "exists", Status: StatusPass, Message: "Grid file exists"})
	r.AddCheck(CheckResult{
		Category: "Associations",
		Name:     "tasks",
		Status:   StatusFail,
		Message:  "Grid \"tasks\" has 1 unresolved association paths",
		Details:  "labels: no association",
		FixHint:  "Fix the assoc",
	})

	var quiet bytes.Buffer
	r.Print(&quiet, false)
	out := quiet.String()
	assert.Contains(t, out, "Grid File\n  ✓ Grid file exists")
	assert.Contains(t, out, "✗ Grid \"tasks\" has 1 unresolved association paths")
	assert.Contains(t, out, "Fix: Fix the assoc")
	assert.NotContains(t, out, "labels: no association")
	assert.Contains(t, out, "Summary: 1 passed, 0 warnings, 1 errors")

	var verbose bytes.Buffer
	r.Print(&verbose, true)
	assert.Contains(t, verbose.String(), "      labels: no association\n")
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "warn", StatusWarn.String())
	assert.Equal(t, "⚠", StatusWarn.Symbol())
	assert.Equal(t, "?", Status(9).Symbol())
}
