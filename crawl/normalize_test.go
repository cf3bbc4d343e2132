package crawl_test

import (
	"testing"

	"github.com/fwojciec/kbcrawl"
	"github.com/fwojciec/kbcrawl/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases scheme and host", "HTTPS://Example.COM/Blog/Post", "https://example.com/Blog/Post"},
		{"drops fragment", "https://example.com/post#comments", "https://example.com/post"},
		{"drops default https port", "https://example.com:443/post", "https://example.com/post"},
		{"drops default http port", "http://example.com:80/post", "http://example.com/post"},
		{"keeps other ports", "http://localhost:8080/post", "http://localhost:8080/post"},
		{"drops trailing slash", "https://example.com/blog/", "https://example.com/blog"},
		{"keeps root slash", "https://example.com/", "https://example.com/"},
		{"adds root slash", "https://example.com", "https://example.com/"},
		{"resolves dot segments", "https://example.com/a/../b/./c", "https://example.com/b/c"},
		{"strips tracking parameters", "https://example.com/p?utm_source=x&id=3", "https://example.com/p?id=3"},
		{"drops query made only of trackers", "https://example.com/p?utm_source=x", "https://example.com/p"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := crawl.NormalizeURL(tt.in)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("equivalent forms normalize identically", func(t *testing.T) {
		t.Parallel()

		a, err := crawl.NormalizeURL("https://example.com/post/#top")
		require.NoError(t, err)
		b, err := crawl.NormalizeURL("https://EXAMPLE.com:443/post")
		require.NoError(t, err)

		assert.Equal(t, a, b)
	})

	for _, bad := range []string{"mailto:me@example.com", "/relative/path", "ftp://example.com/file"} {
		t.Run("rejects "+bad, func(t *testing.T) {
			t.Parallel()

			_, err := crawl.NormalizeURL(bad)

			assert.Equal(t, kbcrawl.EINVALID, kbcrawl.ErrorCode(err))
		})
	}
}
