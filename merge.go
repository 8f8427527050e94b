package joinery

// Merge returns base extended with the relation path addition.
//
// The result loads everything base loads plus every relation along
// addition. Relations already present are reused rather than repeated, and
// a bare relation that is already loaded with nested children is a no-op.
// An empty addition returns base unchanged. A blank relation name anywhere
// in addition yields ErrInvalidArgument.
func Merge(base Spec, addition Path) (Spec, error) {
	if err := addition.Validate(); err != nil {
		return base, err
	}
	if len(addition) == 0 {
		return base, nil
	}
	return merge(Canonicalize(base), addition), nil
}

// MergeMany folds Merge over additions from left to right, starting from
// base. All additions are validated before any merging happens, so either
// every path is merged or an error is returned and nothing is.
func MergeMany(base Spec, additions ...Path) (Spec, error) {
	for _, addition := range additions {
		if err := addition.Validate(); err != nil {
			return base, err
		}
	}

	out := Canonicalize(base)
	for _, addition := range additions {
		out = merge(out, addition)
	}
	return out, nil
}

// MustMerge is like Merge but panics on an invalid addition. It is meant
// for paths known at compile time.
func MustMerge(base Spec, addition Path) Spec {
	out, err := Merge(base, addition)
	if err != nil {
		panic(err)
	}
	return out
}

// MustMergeMany is like MergeMany but panics on an invalid addition.
func MustMergeMany(base Spec, additions ...Path) Spec {
	out, err := MergeMany(base, additions...)
	if err != nil {
		panic(err)
	}
	return out
}

// FromPaths builds a spec holding exactly the given paths.
func FromPaths(paths ...Path) (Spec, error) {
	return MergeMany(Spec{}, paths...)
}

// merge consumes one relation of path per level. path has been validated.
func merge(base Spec, path Path) Spec {
	if len(path) == 0 {
		return base
	}
	current, rest := path[0], path[1:]

	switch base.kind {
	case KindName:
		return mergeName(base, current, rest)
	case KindNested:
		return mergeNested(base, current, rest)
	case KindGroup:
		return mergeGroup(base, path)
	default:
		return chain(current, rest)
	}
}

// chain builds the minimal spec for a single path: a name for one relation,
// nested single-entry mappings for more.
func chain(current string, rest Path) Spec {
	if len(rest) == 0 {
		return Name(current)
	}
	return Nest(current, chain(rest[0], rest[1:]))
}

func mergeName(base Spec, current string, rest Path) Spec {
	if len(rest) == 0 {
		if base.name == current {
			return base
		}
		return Group(base, Name(current))
	}

	// A leaf that gains children becomes the root of a subtree.
	sub := Nest(current, chain(rest[0], rest[1:]))
	if base.name == current {
		return sub
	}
	return Group(base, sub)
}

func mergeNested(base Spec, current string, rest Path) Spec {
	if i := base.indexOf(current); i >= 0 {
		if len(rest) == 0 {
			return base
		}
		entries := append([]Entry{}, base.entries...)
		entries[i].Spec = merge(entries[i].Spec, rest)
		return Spec{kind: KindNested, entries: entries}
	}

	var child Spec
	if len(rest) > 0 {
		child = chain(rest[0], rest[1:])
	}
	entries := make([]Entry, len(base.entries), len(base.entries)+1)
	copy(entries, base.entries)
	entries = append(entries, Entry{Relation: current, Spec: child})
	return Spec{kind: KindNested, entries: entries}
}

func mergeGroup(base Spec, path Path) Spec {
	current := path[0]
	for i, item := range base.items {
		if !item.heads(current) {
			continue
		}
		items := append([]Spec{}, base.items...)
		items[i] = merge(item, path)
		return Spec{kind: KindGroup, items: items}
	}

	items := make([]Spec, len(base.items), len(base.items)+1)
	copy(items, base.items)
	items = append(items, chain(current, path[1:]))
	return Spec{kind: KindGroup, items: items}
}

// heads reports whether relation is one of the top-level relations of s.
func (s Spec) heads(relation string) bool {
	switch s.kind {
	case KindName:
		return s.name == relation
	case KindNested:
		return s.indexOf(relation) >= 0
	case KindGroup:
		for _, item := range s.items {
			if item.heads(relation) {
				return true
			}
		}
	}
	return false
}
