package grid

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/joinery"
)

const tasksYAML = `
grids:
  - name: tasks
    model: tasks
    include: [project, {assignee: group}]
    columns:
      - name: title
      - name: project_name
        assoc: project
      - name: owner
        assoc: [project, owner]
      - name: assignee_team
        assoc: assignee.group.team
    filters:
      - name: status
        assoc: status
      - name: client
        assoc: project.client
      - name: due
  - name: projects
    model: projects
`

func loadTasks(t *testing.T) *Definition {
	t.Helper()
	f, err := Parse([]byte(tasksYAML))
	require.NoError(t, err)
	def, err := f.Grid("tasks")
	require.NoError(t, err)
	return def
}

func TestParse(t *testing.T) {
	f, err := Parse([]byte(tasksYAML))
	require.NoError(t, err)
	assert.Equal(t, []string{"tasks", "projects"}, f.Names())

	def, err := f.Grid("tasks")
	require.NoError(t, err)
	assert.Equal(t, "tasks", def.Model)
	assert.Equal(t, "[project, {assignee: group}]", def.Include.String())
	require.Len(t, def.Columns, 4)
	assert.Empty(t, def.Columns[0].Assoc)
	assert.Equal(t, joinery.Path{"project"}, def.Columns[1].Assoc.Path())
	assert.Equal(t, joinery.Path{"project", "owner"}, def.Columns[2].Assoc.Path())
	assert.Equal(t, joinery.Path{"assignee", "group", "team"}, def.Columns[3].Assoc.Path())

	projects, err := f.Grid("projects")
	require.NoError(t, err)
	assert.True(t, projects.Include.IsEmpty())

	_, err = f.Grid("missing")
	require.ErrorIs(t, err, ErrUnknownGrid)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grids.yaml")
	require.NoError(t, os.WriteFile(path, []byte(tasksYAML), 0o644))

	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, f.Grids, 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading grid file")
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no name", "grids:\n  - model: tasks\n", "grid without a name"},
		{"no model", "grids:\n  - name: tasks\n", "has no model"},
		{"duplicate grid", "grids:\n  - {name: a, model: m}\n  - {name: a, model: m}\n", `duplicate grid "a"`},
		{"duplicate column", "grids:\n  - name: a\n    model: m\n    columns: [{name: c}, {name: c}]\n", `duplicate column "c"`},
		{"duplicate filter", "grids:\n  - name: a\n    model: m\n    filters: [{name: f}, {name: f}]\n", `duplicate filter "f"`},
		{"blank assoc segment", "grids:\n  - name: a\n    model: m\n    columns: [{name: c, assoc: project..owner}]\n", "blank relation"},
		{"blank assoc item", "grids:\n  - name: a\n    model: m\n    columns: [{name: c, assoc: [project, '']}]\n", "blank relation"},
		{"map assoc", "grids:\n  - name: a\n    model: m\n    columns: [{name: c, assoc: {a: b}}]\n", "assoc must be"},
		{"bad include", "grids:\n  - name: a\n    model: m\n    include: [1]\n", "malformed spec"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDefinition)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBuild_AllColumns(t *testing.T) {
	b := NewBuilder(loadTasks(t), zerolog.Nop())

	req, err := b.Build(Options{})
	require.NoError(t, err)
	assert.Equal(t, "tasks", req.Grid)
	assert.Equal(t, "tasks", req.Model)
	assert.Equal(t, "[{project: owner}, {assignee: {group: team}}]", req.Includes.String())
	require.Len(t, req.Requirements, 3)
	assert.Equal(t, Requirement{Source: SourceColumn, Name: "project_name", Path: joinery.Path{"project"}}, req.Requirements[0])
}

func TestBuild_VisibleColumnsAndFilters(t *testing.T) {
	b := NewBuilder(loadTasks(t), zerolog.Nop())

	req, err := b.Build(Options{
		Columns: []string{"title"},
		Filters: []string{"client", "status", "due"},
		Extra:   []joinery.Path{{"tags"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "[{project: client}, {assignee: group}, status, tags]", req.Includes.String())

	var sources []Source
	for _, r := range req.Requirements {
		sources = append(sources, r.Source)
	}
	assert.Equal(t, []Source{SourceFilter, SourceFilter, SourceExtra}, sources)
}

func TestBuild_Simplify(t *testing.T) {
	def := &Definition{
		Name:    "people",
		Model:   "users",
		Include: joinery.Group(joinery.Name("group")),
	}
	b := NewBuilder(def, zerolog.Nop())

	req, err := b.Build(Options{})
	require.NoError(t, err)
	assert.Equal(t, "[group]", req.Includes.String())

	req, err = b.Build(Options{Simplify: true})
	require.NoError(t, err)
	assert.Equal(t, "group", req.Includes.String())
}

func TestBuild_NoBaseIncludes(t *testing.T) {
	def := &Definition{
		Name:    "projects",
		Model:   "projects",
		Columns: []Column{{Name: "client", Assoc: Assoc{"client", "country"}}},
	}

	req, err := NewBuilder(def, zerolog.Nop()).Build(Options{})
	require.NoError(t, err)
	assert.Equal(t, "{client: country}", req.Includes.String())
}

func TestBuild_Errors(t *testing.T) {
	b := NewBuilder(loadTasks(t), zerolog.Nop())

	_, err := b.Build(Options{Columns: []string{"nope"}})
	require.ErrorIs(t, err, ErrUnknownColumn)

	_, err = b.Build(Options{Filters: []string{"nope"}})
	require.ErrorIs(t, err, ErrUnknownFilter)

	_, err = b.Build(Options{Extra: []joinery.Path{{"tags", ""}}})
	require.ErrorIs(t, err, joinery.ErrInvalidArgument)
	assert.Contains(t, err.Error(), `grid "tasks"`)
}

func TestBuild_DoesNotChangeDefinition(t *testing.T) {
	def := loadTasks(t)
	before := def.Include.String()

	_, err := NewBuilder(def, zerolog.Nop()).Build(Options{Extra: []joinery.Path{{"project", "x"}}})
	require.NoError(t, err)
	assert.Equal(t, before, def.Include.String())
}
