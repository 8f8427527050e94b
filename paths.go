package joinery

import (
	"fmt"
	"strings"
)

// Path is a sequence of relation names from the root of a loading request
// down to a relation, e.g. {"project", "owner"}.
type Path []string

// ParsePath parses the dotted form "project.owner". Surrounding whitespace
// around each segment is ignored.
func ParsePath(dotted string) (Path, error) {
	if strings.TrimSpace(dotted) == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidArgument)
	}
	parts := strings.Split(dotted, ".")
	p := make(Path, len(parts))
	for i, part := range parts {
		p[i] = strings.TrimSpace(part)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate returns ErrInvalidArgument if any relation in p is blank.
// An empty path is valid and merges as a no-op.
func (p Path) Validate() error {
	for i, rel := range p {
		if strings.TrimSpace(rel) == "" {
			return fmt.Errorf("%w: blank relation at position %d in path %q", ErrInvalidArgument, i, p.String())
		}
	}
	return nil
}

// String returns the dotted form of p.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// HasPrefix reports whether prefix is a prefix of p.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i := range prefix {
		if p[i] != prefix[i] {
			return false
		}
	}
	return true
}

func (p Path) equal(o Path) bool {
	return len(p) == len(o) && p.HasPrefix(o)
}

// Paths returns the leaf paths of s in the order they are encountered.
// A path that is a prefix of a longer path is implied by it and omitted,
// so {a: x} and [a, {a: x}] both yield only a.x.
func Paths(s Spec) []Path {
	var raw []Path
	collect(s, nil, &raw)
	return maximal(raw)
}

func collect(s Spec, prefix Path, out *[]Path) {
	switch s.kind {
	case KindName:
		*out = append(*out, extend(prefix, s.name))
	case KindGroup:
		for _, item := range s.items {
			collect(item, prefix, out)
		}
	case KindNested:
		for _, e := range s.entries {
			p := extend(prefix, e.Relation)
			n := len(*out)
			collect(e.Spec, p, out)
			if len(*out) == n {
				*out = append(*out, p)
			}
		}
	}
}

func extend(prefix Path, relation string) Path {
	p := make(Path, len(prefix), len(prefix)+1)
	copy(p, prefix)
	return append(p, relation)
}

// maximal drops duplicates and paths implied by a longer path, keeping
// first-occurrence order.
func maximal(paths []Path) []Path {
	var out []Path
	for i, p := range paths {
		implied := false
		for j, q := range paths {
			if i == j {
				continue
			}
			if len(q) > len(p) && q.HasPrefix(p) {
				implied = true
				break
			}
			if j < i && q.equal(p) {
				implied = true
				break
			}
		}
		if !implied {
			out = append(out, p)
		}
	}
	return out
}

// Reachable reports whether every relation along p would be loaded by s.
func Reachable(s Spec, p Path) bool {
	if len(p) == 0 {
		return true
	}
	for _, leaf := range Paths(s) {
		if leaf.HasPrefix(p) {
			return true
		}
	}
	return false
}

// Equivalent reports whether a and b load the same set of relation paths,
// regardless of how each is encoded.
func Equivalent(a, b Spec) bool {
	pa, pb := Paths(a), Paths(b)
	if len(pa) != len(pb) {
		return false
	}
	seen := make(map[string]struct{}, len(pa))
	for _, p := range pa {
		seen[pathKey(p)] = struct{}{}
	}
	for _, p := range pb {
		if _, ok := seen[pathKey(p)]; !ok {
			return false
		}
	}
	return true
}

// PreloadPaths returns the leaf paths of s in dotted form, for ORMs that
// take preload strings such as With("project.owner").
func PreloadPaths(s Spec) []string {
	paths := Paths(s)
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = p.String()
	}
	return out
}

func pathKey(p Path) string {
	return strings.Join(p, "\x00")
}
