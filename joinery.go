// Package joinery plans eager-load ("include") specifications for grid and
// table rendering on top of an ORM.
//
// # Relation specs
//
// A Spec describes which associations must be loaded alongside the primary
// records. It has four shapes, mirroring the literals ORMs accept:
//
//	joinery.Name("project")                                   // project
//	joinery.Group(joinery.Name("b"), joinery.Nest("a", joinery.Name("x"))) // [b, {a: x}]
//	joinery.Nest("a", joinery.Nest("x", joinery.Name("y")))   // {a: {x: y}}
//	joinery.Empty()                                           // nothing
//
// Specs are immutable. Every operation returns a new value and may share
// untouched subtrees with its input.
//
// # Merging
//
// Grid columns, custom filters and user options each discover relations
// they need. Each requirement is a Path that is merged into the spec being
// built for the request:
//
//	spec, err := joinery.MergeMany(base,
//		joinery.Path{"project"},
//		joinery.Path{"project", "owner"},
//	)
//
// Merging never drops a previously requested association and never creates
// two siblings with the same relation name. Two specs that describe the same
// set of relation paths are Equivalent regardless of their encoding.
//
// # Encodings
//
// Spec implements json.Marshaler, json.Unmarshaler, yaml.Marshaler and
// yaml.Unmarshaler using the same native shapes: a string, a list, an
// ordered mapping, or null. Parse accepts either format.
package joinery

import "strings"

// Kind identifies the shape of a Spec.
type Kind uint8

const (
	// KindEmpty is the zero Spec: no relations.
	KindEmpty Kind = iota
	// KindName is a single leaf relation.
	KindName
	// KindGroup is an ordered list of sibling specs.
	KindGroup
	// KindNested is an ordered mapping from relation to child spec.
	KindNested
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindName:
		return "name"
	case KindGroup:
		return "group"
	case KindNested:
		return "nested"
	default:
		return "unknown"
	}
}

// Spec is an eager-load specification. The zero value is the empty spec.
type Spec struct {
	kind    Kind
	name    string
	items   []Spec
	entries []Entry
}

// Entry is one relation of a nested spec together with the relations to
// load beneath it. An empty child Spec means the relation is a leaf.
type Entry struct {
	Relation string
	Spec     Spec
}

// Empty returns the spec that loads nothing.
func Empty() Spec {
	return Spec{}
}

// Name returns a spec loading a single relation.
func Name(relation string) Spec {
	return Spec{kind: KindName, name: relation}
}

// Group returns a spec loading each of items as siblings, in order.
// A group with no items is distinct from Empty only in its encoding.
func Group(items ...Spec) Spec {
	return Spec{kind: KindGroup, items: append([]Spec{}, items...)}
}

// Nested returns a spec mapping each entry's relation to its child spec.
// Entry order is preserved.
func Nested(entries ...Entry) Spec {
	return Spec{kind: KindNested, entries: append([]Entry{}, entries...)}
}

// Nest is shorthand for a single-entry Nested spec.
func Nest(relation string, child Spec) Spec {
	return Spec{kind: KindNested, entries: []Entry{{Relation: relation, Spec: child}}}
}

// Kind reports the shape of s.
func (s Spec) Kind() Kind {
	return s.kind
}

// IsEmpty reports whether s is the empty spec.
func (s Spec) IsEmpty() bool {
	return s.kind == KindEmpty
}

// IsZero reports whether s is the zero value, so encoders honoring
// omitempty skip empty specs.
func (s Spec) IsZero() bool {
	return s.kind == KindEmpty
}

// Relation returns the relation of a KindName spec and "" otherwise.
func (s Spec) Relation() string {
	return s.name
}

// Items returns a copy of the siblings of a KindGroup spec.
func (s Spec) Items() []Spec {
	if s.kind != KindGroup {
		return nil
	}
	return append([]Spec{}, s.items...)
}

// Entries returns a copy of the entries of a KindNested spec.
func (s Spec) Entries() []Entry {
	if s.kind != KindNested {
		return nil
	}
	return append([]Entry{}, s.entries...)
}

// Lookup returns the child spec stored under relation in a KindNested spec.
func (s Spec) Lookup(relation string) (Spec, bool) {
	if i := s.indexOf(relation); i >= 0 {
		return s.entries[i].Spec, true
	}
	return Spec{}, false
}

// Len returns the number of top-level elements: 0 for empty, 1 for a name,
// and the item or entry count otherwise.
func (s Spec) Len() int {
	switch s.kind {
	case KindName:
		return 1
	case KindGroup:
		return len(s.items)
	case KindNested:
		return len(s.entries)
	default:
		return 0
	}
}

// String renders s as a compact native literal, for example [b, {a: x}].
func (s Spec) String() string {
	var b strings.Builder
	s.write(&b)
	return b.String()
}

func (s Spec) write(b *strings.Builder) {
	switch s.kind {
	case KindEmpty:
		b.WriteString("nil")
	case KindName:
		b.WriteString(s.name)
	case KindGroup:
		b.WriteByte('[')
		for i, item := range s.items {
			if i > 0 {
				b.WriteString(", ")
			}
			item.write(b)
		}
		b.WriteByte(']')
	case KindNested:
		b.WriteByte('{')
		for i, e := range s.entries {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(e.Relation)
			b.WriteString(": ")
			e.Spec.write(b)
		}
		b.WriteByte('}')
	}
}

func (s Spec) indexOf(relation string) int {
	if s.kind != KindNested {
		return -1
	}
	for i, e := range s.entries {
		if e.Relation == relation {
			return i
		}
	}
	return -1
}
