package grid

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pthm/joinery"
)

// Source identifies where a requirement came from.
type Source string

const (
	SourceColumn Source = "column"
	SourceFilter Source = "filter"
	SourceExtra  Source = "extra"
)

// Requirement is one association path a request needs.
type Requirement struct {
	Source Source
	// Name is the column or filter name; empty for extra paths.
	Name string
	Path joinery.Path
}

// Options select what a single request renders.
type Options struct {
	// Columns lists the visible columns. Nil means every column.
	Columns []string
	// Filters lists the active custom filters.
	Filters []string
	// Extra holds additional paths requested by the caller.
	Extra []joinery.Path
	// Simplify returns the minimal top-level encoding.
	Simplify bool
}

// Request is the result of building includes for one grid request.
type Request struct {
	Grid         string
	Model        string
	Includes     joinery.Spec
	Requirements []Requirement
}

// Builder builds include specs for one grid. It only reads its definition
// and is safe for concurrent use.
type Builder struct {
	def    *Definition
	logger zerolog.Logger
}

// NewBuilder returns a Builder for def.
func NewBuilder(def *Definition, logger zerolog.Logger) *Builder {
	return &Builder{
		def:    def,
		logger: logger.With().Str("grid", def.Name).Logger(),
	}
}

// Requirements lists the paths needed by opts in merge order: visible
// columns in definition order, then active filters in the order given,
// then extra paths.
func (b *Builder) Requirements(opts Options) ([]Requirement, error) {
	var reqs []Requirement

	if opts.Columns == nil {
		for _, c := range b.def.Columns {
			if len(c.Assoc) > 0 {
				reqs = append(reqs, Requirement{Source: SourceColumn, Name: c.Name, Path: c.Assoc.Path()})
			}
		}
	} else {
		visible := make(map[string]struct{}, len(opts.Columns))
		for _, name := range opts.Columns {
			if _, ok := b.def.column(name); !ok {
				return nil, fmt.Errorf("%w: %q in grid %q", ErrUnknownColumn, name, b.def.Name)
			}
			visible[name] = struct{}{}
		}
		for _, c := range b.def.Columns {
			if _, ok := visible[c.Name]; ok && len(c.Assoc) > 0 {
				reqs = append(reqs, Requirement{Source: SourceColumn, Name: c.Name, Path: c.Assoc.Path()})
			}
		}
	}

	for _, name := range opts.Filters {
		f, ok := b.def.filter(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q in grid %q", ErrUnknownFilter, name, b.def.Name)
		}
		if len(f.Assoc) > 0 {
			reqs = append(reqs, Requirement{Source: SourceFilter, Name: f.Name, Path: f.Assoc.Path()})
		}
	}

	for _, p := range opts.Extra {
		reqs = append(reqs, Requirement{Source: SourceExtra, Path: p})
	}
	return reqs, nil
}

// Build merges the requirements of opts into the grid's base includes.
func (b *Builder) Build(opts Options) (*Request, error) {
	reqs, err := b.Requirements(opts)
	if err != nil {
		return nil, err
	}

	paths := make([]joinery.Path, len(reqs))
	for i, r := range reqs {
		paths[i] = r.Path
		b.logger.Debug().
			Str("source", string(r.Source)).
			Str("name", r.Name).
			Stringer("path", r.Path).
			Msg("include requirement")
	}

	includes, err := joinery.MergeMany(b.def.Include, paths...)
	if err != nil {
		return nil, fmt.Errorf("grid %q: %w", b.def.Name, err)
	}
	if opts.Simplify {
		includes = joinery.Simplify(includes)
	}

	b.logger.Debug().
		Int("requirements", len(reqs)).
		Stringer("includes", includes).
		Msg("built includes")

	return &Request{
		Grid:         b.def.Name,
		Model:        b.def.Model,
		Includes:     includes,
		Requirements: reqs,
	}, nil
}
