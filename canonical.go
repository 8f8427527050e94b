package joinery

// HasDuplicates reports whether any level of s holds two siblings for the
// same relation, for example [a, {a: x}] or a nested mapping that repeats a
// key.
func HasDuplicates(s Spec) bool {
	switch s.kind {
	case KindGroup:
		seen := map[string]struct{}{}
		for _, item := range s.items {
			for _, rel := range item.topRelations() {
				if _, ok := seen[rel]; ok {
					return true
				}
				seen[rel] = struct{}{}
			}
			if HasDuplicates(item) {
				return true
			}
		}
	case KindNested:
		seen := make(map[string]struct{}, len(s.entries))
		for _, e := range s.entries {
			if _, ok := seen[e.Relation]; ok {
				return true
			}
			seen[e.Relation] = struct{}{}
			if HasDuplicates(e.Spec) {
				return true
			}
		}
	}
	return false
}

// Canonicalize merges duplicate siblings of s into their first occurrence,
// recursively. Specs without duplicates are returned as they are.
func Canonicalize(s Spec) Spec {
	if !HasDuplicates(s) {
		return s
	}

	switch s.kind {
	case KindNested:
		var out []Entry
		for _, e := range s.entries {
			child := Canonicalize(e.Spec)
			j := -1
			for k := range out {
				if out[k].Relation == e.Relation {
					j = k
					break
				}
			}
			if j < 0 {
				out = append(out, Entry{Relation: e.Relation, Spec: child})
				continue
			}
			out[j].Spec = mergeAll(out[j].Spec, Paths(child))
		}
		return Spec{kind: KindNested, entries: out}

	case KindGroup:
		acc := Spec{kind: KindGroup}
		for _, item := range s.items {
			item = Canonicalize(item)
			if !acc.overlaps(item) {
				acc.items = append(acc.items, item)
				continue
			}
			acc = mergeAll(acc, Paths(item))
		}
		return acc
	}
	return s
}

// Simplify returns the minimal top-level encoding of s: a group holding a
// single name becomes that name. Nested specs are never collapsed, and
// nothing below the top level is touched.
func Simplify(s Spec) Spec {
	if s.kind == KindGroup && len(s.items) == 1 && s.items[0].kind == KindName {
		return s.items[0]
	}
	return s
}

func mergeAll(base Spec, paths []Path) Spec {
	for _, p := range paths {
		base = merge(base, p)
	}
	return base
}

// topRelations lists the relations s names at its own level.
func (s Spec) topRelations() []string {
	switch s.kind {
	case KindName:
		return []string{s.name}
	case KindNested:
		out := make([]string, len(s.entries))
		for i, e := range s.entries {
			out[i] = e.Relation
		}
		return out
	case KindGroup:
		var out []string
		for _, item := range s.items {
			out = append(out, item.topRelations()...)
		}
		return out
	}
	return nil
}

func (s Spec) overlaps(o Spec) bool {
	for _, rel := range o.topRelations() {
		if s.heads(rel) {
			return true
		}
	}
	return false
}
