package joinery

// Includes accumulates relation requirements for one loading request.
//
// An Includes is not safe for concurrent use; each request builds its own.
type Includes struct {
	spec Spec
}

// NewIncludes starts from source, typically the includes declared in a
// grid's configuration.
func NewIncludes(source Spec) *Includes {
	return &Includes{spec: Canonicalize(source)}
}

// Add merges the path formed by relations.
func (in *Includes) Add(relations ...string) error {
	return in.AddPaths(Path(relations))
}

// AddPaths merges each path in order. On error nothing is merged.
func (in *Includes) AddPaths(paths ...Path) error {
	out, err := MergeMany(in.spec, paths...)
	if err != nil {
		return err
	}
	in.spec = out
	return nil
}

// Spec returns the accumulated spec.
func (in *Includes) Spec() Spec {
	return in.spec
}

// BuildIncludes merges paths into source in one call. The shape of source
// is kept: a group stays a group even when it holds a single name.
func BuildIncludes(source Spec, paths ...Path) (Spec, error) {
	in := NewIncludes(source)
	if err := in.AddPaths(paths...); err != nil {
		return source, err
	}
	return in.Spec(), nil
}
