// Package grid turns grid definitions into eager-load specs.
//
// A grid definition names the model it lists, the includes it always needs,
// and the associations each column and custom filter reads from. For every
// request the Builder collects the requirements of the visible columns and
// active filters, plus any paths the user asked for, and merges them into
// the base includes:
//
//	file, _ := grid.LoadFile("grids.yaml")
//	def, _ := file.Grid("tasks")
//	req, err := grid.NewBuilder(def, logger).Build(grid.Options{
//		Filters: []string{"status"},
//	})
//	// req.Includes is ready for the ORM's eager-load call.
package grid

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pthm/joinery"
)

var (
	// ErrInvalidDefinition is returned when a grid file fails validation.
	ErrInvalidDefinition = errors.New("grid: invalid definition")

	// ErrUnknownGrid is returned when a grid name is not defined.
	ErrUnknownGrid = errors.New("grid: unknown grid")

	// ErrUnknownColumn is returned when options name a column the grid
	// does not define.
	ErrUnknownColumn = errors.New("grid: unknown column")

	// ErrUnknownFilter is returned when options name a filter the grid
	// does not define.
	ErrUnknownFilter = errors.New("grid: unknown filter")
)

// File is a parsed grid definition file.
type File struct {
	Grids []Definition `yaml:"grids"`
}

// Definition describes one grid.
type Definition struct {
	Name  string `yaml:"name"`
	Model string `yaml:"model"`

	// Include is loaded for every request, whatever columns are shown.
	Include joinery.Spec `yaml:"include,omitempty"`

	Columns []Column `yaml:"columns,omitempty"`
	Filters []Filter `yaml:"filters,omitempty"`
}

// Column is a grid column. Assoc is the association path the column reads
// from; columns on the grid's own model leave it empty.
type Column struct {
	Name  string `yaml:"name"`
	Assoc Assoc  `yaml:"assoc,omitempty"`
}

// Filter is a custom filter whose options come from an association.
type Filter struct {
	Name  string `yaml:"name"`
	Assoc Assoc  `yaml:"assoc,omitempty"`
}

// Assoc is an association path. In YAML it may be written as a single
// name, a dotted path, or a list of names:
//
//	assoc: project
//	assoc: project.owner
//	assoc: [project, owner]
type Assoc joinery.Path

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Assoc) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.ShortTag() == "!!null" {
			*a = nil
			return nil
		}
		p, err := joinery.ParsePath(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*a = Assoc(p)
		return nil
	case yaml.SequenceNode:
		var rels []string
		if err := node.Decode(&rels); err != nil {
			return err
		}
		p := joinery.Path(rels)
		if err := p.Validate(); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*a = Assoc(p)
		return nil
	}
	return fmt.Errorf("line %d: assoc must be a name, a dotted path or a list of names", node.Line)
}

// MarshalYAML writes the dotted form.
func (a Assoc) MarshalYAML() (interface{}, error) {
	return joinery.Path(a).String(), nil
}

// Path returns a as a joinery.Path.
func (a Assoc) Path() joinery.Path {
	return joinery.Path(a)
}

// LoadFile reads and validates a grid definition file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading grid file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates grid definitions.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks every definition and that grid names are unique.
func (f *File) Validate() error {
	seen := make(map[string]struct{}, len(f.Grids))
	for i := range f.Grids {
		def := &f.Grids[i]
		if err := def.Validate(); err != nil {
			return err
		}
		if _, ok := seen[def.Name]; ok {
			return fmt.Errorf("%w: duplicate grid %q", ErrInvalidDefinition, def.Name)
		}
		seen[def.Name] = struct{}{}
	}
	return nil
}

// Grid returns the definition named name.
func (f *File) Grid(name string) (*Definition, error) {
	for i := range f.Grids {
		if f.Grids[i].Name == name {
			return &f.Grids[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownGrid, name)
}

// Names returns grid names in file order.
func (f *File) Names() []string {
	out := make([]string, len(f.Grids))
	for i, g := range f.Grids {
		out[i] = g.Name
	}
	return out
}

// Validate checks required fields and name uniqueness within the grid.
func (d *Definition) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: grid without a name", ErrInvalidDefinition)
	}
	if strings.TrimSpace(d.Model) == "" {
		return fmt.Errorf("%w: grid %q has no model", ErrInvalidDefinition, d.Name)
	}

	columns := make(map[string]struct{}, len(d.Columns))
	for _, c := range d.Columns {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("%w: grid %q has a column without a name", ErrInvalidDefinition, d.Name)
		}
		if _, ok := columns[c.Name]; ok {
			return fmt.Errorf("%w: grid %q has duplicate column %q", ErrInvalidDefinition, d.Name, c.Name)
		}
		columns[c.Name] = struct{}{}
	}

	filters := make(map[string]struct{}, len(d.Filters))
	for _, f := range d.Filters {
		if strings.TrimSpace(f.Name) == "" {
			return fmt.Errorf("%w: grid %q has a filter without a name", ErrInvalidDefinition, d.Name)
		}
		if _, ok := filters[f.Name]; ok {
			return fmt.Errorf("%w: grid %q has duplicate filter %q", ErrInvalidDefinition, d.Name, f.Name)
		}
		filters[f.Name] = struct{}{}
	}
	return nil
}

func (d *Definition) column(name string) (Column, bool) {
	for _, c := range d.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

func (d *Definition) filter(name string) (Filter, bool) {
	for _, f := range d.Filters {
		if f.Name == name {
			return f, true
		}
	}
	return Filter{}, false
}
