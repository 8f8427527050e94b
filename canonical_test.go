package joinery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pthm/joinery"
)

func TestHasDuplicates(t *testing.T) {
	assert.False(t, joinery.HasDuplicates(joinery.Empty()))
	assert.False(t, joinery.HasDuplicates(group(name("a"), nest("b", name("c")))))
	assert.True(t, joinery.HasDuplicates(group(name("a"), name("a"))))
	assert.True(t, joinery.HasDuplicates(group(name("a"), nest("a", name("x")))))
	assert.True(t, joinery.HasDuplicates(group(name("b"), group(name("a"), name("b")))))
	assert.True(t, joinery.HasDuplicates(joinery.Nested(
		joinery.Entry{Relation: "a"},
		joinery.Entry{Relation: "a", Spec: name("x")},
	)))
	assert.True(t, joinery.HasDuplicates(nest("a", group(name("x"), name("x")))))
}

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name string
		in   joinery.Spec
		want string
	}{
		{"untouched", group(name("b"), name("a")), "[b, a]"},
		{"repeated name", group(name("a"), name("b"), name("a")), "[a, b]"},
		{"name then mapping", group(name("a"), nest("a", name("x"))), "[{a: x}]"},
		{"mapping then name", group(nest("a", name("x")), name("a")), "[{a: x}]"},
		{"repeated key", joinery.Nested(
			joinery.Entry{Relation: "a", Spec: name("x")},
			joinery.Entry{Relation: "b"},
			joinery.Entry{Relation: "a", Spec: name("y")},
		), "{a: [x, y], b: nil}"},
		{"deep", nest("a", group(name("x"), nest("x", name("y")))), "{a: [{x: y}]}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := joinery.Canonicalize(tt.in)
			assert.Equal(t, tt.want, got.String())
			assert.False(t, joinery.HasDuplicates(got))
			assert.True(t, joinery.Equivalent(tt.in, got))
		})
	}
}

func TestSimplify(t *testing.T) {
	assert.Equal(t, "a", joinery.Simplify(group(name("a"))).String())
	assert.Equal(t, "[{a: x}]", joinery.Simplify(group(nest("a", name("x")))).String())
	assert.Equal(t, "{a: x}", joinery.Simplify(nest("a", name("x"))).String())
	assert.Equal(t, "[a, b]", joinery.Simplify(group(name("a"), name("b"))).String())
	assert.Equal(t, "{a: [x]}", joinery.Simplify(nest("a", group(name("x")))).String())
	assert.True(t, joinery.Simplify(joinery.Empty()).IsEmpty())
}
