package httpmux

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLongestPrefixDispatch(t *testing.T) {
	tbl := New()
	tbl.Register("/a", "handler-a")
	tbl.Register("/a/b", "handler-a-b")
	tbl.Register("/a/bc", "handler-a-bc")

	cases := []struct {
		path    string
		want    string
		matched bool
	}{
		{"/a", "handler-a", true},
		{"/a/b", "handler-a-b", true},
		{"/a/bc", "handler-a-bc", true},
		{"/a/b/c", "handler-a-b", true},
		{"/a/bx", "handler-a", true},
		{"/z", "", false},
	}

	for _, c := range cases {
		h, _, ok := tbl.Lookup(c.path)
		require.Equal(t, c.matched, ok, "path=%s", c.path)
		if c.matched {
			require.Equal(t, c.want, h, "path=%s", c.path)
		}
	}
}

func TestRegisterIsIdempotentWithOrWithoutTrailingSlash(t *testing.T) {
	tbl := New()
	tbl.Register("/a/", "first")
	tbl.Register("/a", "second")

	h, prefix, ok := tbl.Lookup("/a")
	require.True(t, ok)
	require.Equal(t, "/a", prefix)
	require.Equal(t, "second", h)

	// Still only one entry registered, not two.
	h2, _, ok2 := tbl.Lookup("/a/anything")
	require.True(t, ok2)
	require.Equal(t, "second", h2)
}

func TestUnregisterRemovesEntry(t *testing.T) {
	tbl := New()
	tbl.Register("/a", "handler-a")
	tbl.Unregister("/a")

	_, _, ok := tbl.Lookup("/a")
	require.False(t, ok)
}

func TestResourceSetContains(t *testing.T) {
	rs := NewResourceSet()
	rs.Add("/admin")

	require.True(t, rs.Contains("/admin"))
	require.True(t, rs.Contains("/admin/users"))
	require.False(t, rs.Contains("/public"))
}
