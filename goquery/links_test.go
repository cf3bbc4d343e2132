package goquery_test

import (
	"testing"

	"github.com/fwojciec/kbcrawl"
	"github.com/fwojciec/kbcrawl/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkExtractor_DiscoverLinks(t *testing.T) {
	t.Parallel()

	t.Run("returns same-host links in document order", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
	<a href="/blog/b">B</a>
	<a href="https://EXAMPLE.com/blog/a">A</a>
	<a href="https://other.com/x">Other</a>
	<a href="https://sub.example.com/y">Sub</a>
	<a href="/blog/b#comments">B again</a>
	<a href="mailto:me@example.com">Mail</a>
	<a href="javascript:void(0)">JS</a>
	<a href="#top">Top</a>
</body></html>`

		links, err := goquery.NewLinkExtractor().DiscoverLinks(html, "https://example.com/blog")

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://example.com/blog/b",
			"https://EXAMPLE.com/blog/a",
		}, links)
	})

	t.Run("ignores port differences in host comparison", func(t *testing.T) {
		t.Parallel()

		html := `<a href="http://localhost:9999/post">post</a>`

		links, err := goquery.NewLinkExtractor().DiscoverLinks(html, "http://localhost:8080/")

		require.NoError(t, err)
		assert.Equal(t, []string{"http://localhost:9999/post"}, links)
	})

	t.Run("rejects an invalid base url", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewLinkExtractor().DiscoverLinks(`<a href="/x">x</a>`, "://bad")

		assert.Equal(t, kbcrawl.EINVALID, kbcrawl.ErrorCode(err))
	})
}

func TestLinkExtractor_SelectLinks(t *testing.T) {
	t.Parallel()

	t.Run("follows anchors and wrapped anchors", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
	<a class="post-link" href="/p/1">One</a>
	<div class="post-link"><span><a href="/p/2">Two</a></span></div>
	<a class="post-link" href="https://elsewhere.com/p/3">Three</a>
	<a class="post-link" href="/p/1">Dup</a>
	<a class="nav" href="/about">About</a>
</body></html>`

		links, err := goquery.NewLinkExtractor().SelectLinks(html, "https://example.com/blog", ".post-link")

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://example.com/p/1",
			"https://example.com/p/2",
			"https://elsewhere.com/p/3",
		}, links)
	})

	t.Run("invalid selector", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewLinkExtractor().SelectLinks(`<a href="/x">x</a>`, "https://example.com", "a[")

		assert.Equal(t, kbcrawl.EINVALID, kbcrawl.ErrorCode(err))
	})
}

func TestLinkExtractor_Categories(t *testing.T) {
	t.Parallel()

	html := `<html><body>
	<nav><a href="/c/google">Google</a><a href="/c/meta"> Meta </a></nav>
	<button>Amazon</button>
	<button>   </button>
	<a href="/c/google">Google</a>
</body></html>`

	names, err := goquery.NewLinkExtractor().Categories(html)

	require.NoError(t, err)
	assert.Equal(t, []string{"Google", "Meta", "Amazon"}, names)
}
