package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{name: "1.0.0 < 1.0.1", a: "1.0.0", b: "1.0.1", want: -1},
		{name: "1.0.1 > 1.0.0", a: "1.0.1", b: "1.0.0", want: 1},
		{name: "1.0.0 == 1.0.0", a: "1.0.0", b: "1.0.0", want: 0},
		{name: "v1.0.0 < 1.0.1", a: "v1.0.0", b: "1.0.1", want: -1},
		{name: "1.0.0 < 2.0.0", a: "1.0.0", b: "2.0.0", want: -1},
		{name: "dev > 999.999.999", a: "dev", b: "999.999.999", want: 1},
		{name: "1.0.0 < dev", a: "1.0.0", b: "dev", want: -1},
		{name: "1.0.0-beta == 1.0.0", a: "1.0.0-beta", b: "1.0.0", want: 0},
		{name: "0.10.0 > 0.9.0", a: "0.10.0", b: "0.9.0", want: 1},
		{name: "1.2 < 1.2.1", a: "1.2", b: "1.2.1", want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, compareVersions(tt.a, tt.b))
		})
	}
}

func newTestChecker(t *testing.T, url string) *Checker {
	t.Helper()
	return &Checker{
		URL:      url,
		CacheDir: filepath.Join(t.TempDir(), "joinery"),
		Current:  "0.2.0",
		client:   http.DefaultClient,
		now:      func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
	}
}

func TestCheck_FetchesAndCaches(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "joinery/0.2.0", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"tag_name": "v0.3.1", "html_url": "https://example.com/r/v0.3.1"}`))
	}))
	defer srv.Close()

	c := newTestChecker(t, srv.URL)

	info, err := c.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0.3.1", info.LatestVersion)
	assert.Equal(t, "https://example.com/r/v0.3.1", info.ReleaseURL)
	assert.True(t, info.UpdateAvailable)

	c.Current = "0.3.1"
	info, err = c.Check(context.Background())
	require.NoError(t, err)
	assert.False(t, info.UpdateAvailable)
	assert.Equal(t, 1, calls, "second check should be served from cache")
}

func TestCheck_ExpiredCache(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"tag_name": "v0.3.1"}`))
	}))
	defer srv.Close()

	c := newTestChecker(t, srv.URL)
	_, err := c.Check(context.Background())
	require.NoError(t, err)

	later := c.now().Add(cacheTTL + time.Minute)
	c.now = func() time.Time { return later }
	_, err = c.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestCheck_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newTestChecker(t, srv.URL).Check(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/cache-home")
	dir, err := cacheDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/cache-home", "joinery"), dir)
}
