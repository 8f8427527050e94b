// Package catalog describes which associations exist on which model, so
// include specs can be checked before they reach the ORM.
//
// A catalog is either written by hand:
//
//	models:
//	  tasks:
//	    associations:
//	      project: projects
//	      assignee: users
//	  projects:
//	    associations:
//	      tasks: tasks
//	  users: {}
//
// or introspected from PostgreSQL foreign keys with Introspect.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pthm/joinery"
)

var (
	// ErrUnknownModel is returned when validation starts from a model the
	// catalog does not contain.
	ErrUnknownModel = errors.New("catalog: unknown model")

	// ErrInvalidCatalog is returned when a catalog file references models
	// it does not define.
	ErrInvalidCatalog = errors.New("catalog: invalid catalog")
)

// Catalog maps model names to their associations.
type Catalog struct {
	Models map[string]Model `yaml:"models"`
}

// Model lists the associations of one model.
type Model struct {
	// Table is the backing table, when it differs from the model name.
	Table string `yaml:"table,omitempty"`
	// Associations maps association name to target model name.
	Associations map[string]string `yaml:"associations,omitempty"`
}

// Problem is a path of an include spec that does not resolve.
type Problem struct {
	Path    joinery.Path
	Message string
}

func (p Problem) String() string {
	return p.Path.String() + ": " + p.Message
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{Models: map[string]Model{}}
}

// LoadFile reads and checks a catalog file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a catalog and checks that every association targets a
// defined model.
func Parse(data []byte) (*Catalog, error) {
	c := New()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	if c.Models == nil {
		c.Models = map[string]Model{}
	}
	for _, name := range c.ModelNames() {
		m := c.Models[name]
		for _, assoc := range sortedKeys(m.Associations) {
			target := m.Associations[assoc]
			if _, ok := c.Models[target]; !ok {
				return nil, fmt.Errorf("%w: %s.%s targets undefined model %q", ErrInvalidCatalog, name, assoc, target)
			}
		}
	}
	return c, nil
}

// AddAssociation records that model has an association named assoc
// pointing at target. Both models are created when missing. An existing
// association of the same name is kept.
func (c *Catalog) AddAssociation(model, assoc, target string) bool {
	m := c.model(model)
	c.model(target)
	if _, ok := m.Associations[assoc]; ok {
		return false
	}
	m.Associations[assoc] = target
	c.Models[model] = m
	return true
}

func (c *Catalog) model(name string) Model {
	m, ok := c.Models[name]
	if !ok {
		m = Model{}
	}
	if m.Associations == nil {
		m.Associations = map[string]string{}
	}
	c.Models[name] = m
	return m
}

// ModelNames returns the model names in sorted order.
func (c *Catalog) ModelNames() []string {
	return sortedKeys(c.Models)
}

// Resolve follows p from root and returns the model it ends on.
func (c *Catalog) Resolve(root string, p joinery.Path) (string, error) {
	current := root
	if _, ok := c.Models[current]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownModel, root)
	}
	for i, rel := range p {
		target, ok := c.Models[current].Associations[rel]
		if !ok {
			return "", fmt.Errorf("%s: model %q has no association %q", joinery.Path(p[:i+1]), current, rel)
		}
		current = target
	}
	return current, nil
}

// Validate checks every path of s against the associations reachable from
// root. Each failing prefix is reported once.
func (c *Catalog) Validate(root string, s joinery.Spec) ([]Problem, error) {
	if _, ok := c.Models[root]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, root)
	}

	var problems []Problem
	reported := map[string]struct{}{}
	for _, p := range joinery.Paths(s) {
		current := root
		for i, rel := range p {
			target, ok := c.Models[current].Associations[rel]
			if ok {
				current = target
				continue
			}
			prefix := append(joinery.Path{}, p[:i+1]...)
			key := strings.Join(prefix, "\x00")
			if _, done := reported[key]; !done {
				reported[key] = struct{}{}
				problems = append(problems, Problem{
					Path:    prefix,
					Message: fmt.Sprintf("model %q has no association %q", current, rel),
				})
			}
			break
		}
	}
	return problems, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
