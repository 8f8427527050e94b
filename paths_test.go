package joinery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/joinery"
)

func TestParsePath(t *testing.T) {
	p, err := joinery.ParsePath("users.group.owner")
	require.NoError(t, err)
	assert.Equal(t, path("users", "group", "owner"), p)
	assert.Equal(t, "users.group.owner", p.String())

	p, err = joinery.ParsePath(" users . group ")
	require.NoError(t, err)
	assert.Equal(t, path("users", "group"), p)

	for _, bad := range []string{"", "   ", "users..owner", ".users", "users."} {
		_, err := joinery.ParsePath(bad)
		assert.True(t, joinery.IsInvalidArgumentErr(err), "input %q", bad)
	}
}

func TestPaths(t *testing.T) {
	tests := []struct {
		name string
		spec joinery.Spec
		want []string
	}{
		{"empty", joinery.Empty(), nil},
		{"name", name("a"), []string{"a"}},
		{"group", group(name("a"), nest("b", name("c"))), []string{"a", "b.c"}},
		{"nested leaf entry", joinery.Nested(joinery.Entry{Relation: "a"}), []string{"a"}},
		{"nested empty group child", nest("a", group()), []string{"a"}},
		{"prefix implied", group(name("a"), nest("a", name("x"))), []string{"a.x"}},
		{"duplicates collapse", group(name("a"), name("a")), []string{"a"}},
		{"deep", nest("a", nest("x", group(name("y"), name("z")))), []string{"a.x.y", "a.x.z"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := joinery.PreloadPaths(tt.spec)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReachable(t *testing.T) {
	s := group(nest("a", nest("x", name("y"))), name("b"))

	assert.True(t, joinery.Reachable(s, path()))
	assert.True(t, joinery.Reachable(s, path("a")))
	assert.True(t, joinery.Reachable(s, path("a", "x")))
	assert.True(t, joinery.Reachable(s, path("a", "x", "y")))
	assert.True(t, joinery.Reachable(s, path("b")))
	assert.False(t, joinery.Reachable(s, path("x")))
	assert.False(t, joinery.Reachable(s, path("b", "c")))
	assert.False(t, joinery.Reachable(s, path("a", "x", "y", "z")))
}

func TestEquivalent(t *testing.T) {
	tests := []struct {
		name string
		a, b joinery.Spec
		want bool
	}{
		{"name vs single group", name("a"), group(name("a")), true},
		{"name vs leaf mapping", name("a"), joinery.Nested(joinery.Entry{Relation: "a"}), true},
		{"order does not matter", group(name("a"), name("b")), group(name("b"), name("a")), true},
		{"nested vs grouped nested", nest("a", name("x")), group(nest("a", group(name("x")))), true},
		{"prefix subsumed", group(name("a"), nest("a", name("x"))), nest("a", name("x")), true},
		{"empty vs empty group", joinery.Empty(), group(), true},
		{"different leaves", name("a"), name("b"), false},
		{"different depth", nest("a", name("x")), name("a"), false},
		{"missing sibling", group(name("a"), name("b")), name("a"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, joinery.Equivalent(tt.a, tt.b))
			assert.Equal(t, tt.want, joinery.Equivalent(tt.b, tt.a))
		})
	}
}
