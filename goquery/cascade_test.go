package goquery_test

import (
	"testing"

	"github.com/fwojciec/kbcrawl"
	"github.com/fwojciec/kbcrawl/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("scopes title and content to the article root", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<header><h1>Site Name</h1></header>
<article>
	<h2 class="post-title">Two Pointers</h2>
	<div class="post-content"><p>Move both ends inward.</p></div>
</article>
</body></html>`

		f, err := goquery.NewExtractor().Extract(html, "https://example.com/p", kbcrawl.DefaultCascade())

		require.NoError(t, err)
		assert.Equal(t, "Two Pointers", f.Title)
		assert.Equal(t, "<p>Move both ends inward.</p>", f.ContentHTML)
	})

	t.Run("earlier candidates win over later ones", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><main>
	<div class="title">Secondary</div>
	<h1>Primary</h1>
</main></body></html>`

		f, err := goquery.NewExtractor().Extract(html, "https://example.com/p", kbcrawl.DefaultCascade())

		require.NoError(t, err)
		assert.Equal(t, "Primary", f.Title)
	})

	t.Run("falls back to the body when no root matches", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
	<h1>  Heap
	   basics </h1>
	<div class="entry-content"><p>Heaps are trees.</p></div>
</body></html>`

		f, err := goquery.NewExtractor().Extract(html, "https://example.com/p", kbcrawl.DefaultCascade())

		require.NoError(t, err)
		assert.Equal(t, "Heap basics", f.Title)
		assert.Equal(t, "<p>Heaps are trees.</p>", f.ContentHTML)
	})

	t.Run("uses the root itself when no content candidate matches", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div class="post"><h1>Graphs</h1><p>Nodes and edges.</p></div></body></html>`

		f, err := goquery.NewExtractor().Extract(html, "https://example.com/p", kbcrawl.DefaultCascade())

		require.NoError(t, err)
		assert.Equal(t, "Graphs", f.Title)
		assert.Contains(t, f.ContentHTML, "<p>Nodes and edges.</p>")
	})

	t.Run("reads author date and tags", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><article>
	<h1>Tries</h1>
	<span class="author">Grace</span>
	<time datetime="2024-03-01"></time>
	<div class="tags"><a href="/t/dsa">dsa</a><a href="/t/strings">strings</a><a href="/t/dsa">dsa</a></div>
	<div class="post-content"><p>Prefix trees.</p></div>
</article></body></html>`

		f, err := goquery.NewExtractor().Extract(html, "https://example.com/p", kbcrawl.DefaultCascade())

		require.NoError(t, err)
		assert.Equal(t, "Grace", f.Author)
		assert.Equal(t, "2024-03-01", f.Date)
		assert.Equal(t, []string{"dsa", "strings"}, f.Tags)
	})

	t.Run("falls back to metadata for author and date", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
	<meta name="author" content="Linus">
	<meta property="article:published_time" content="2023-11-05T10:00:00Z">
</head><body><article><h1>Rebase</h1><p>Rewrite history.</p></article></body></html>`

		f, err := goquery.NewExtractor().Extract(html, "https://example.com/p", kbcrawl.DefaultCascade())

		require.NoError(t, err)
		assert.Equal(t, "Linus", f.Author)
		assert.Equal(t, "2023-11-05T10:00:00Z", f.Date)
	})

	t.Run("page without any match yields empty fields", func(t *testing.T) {
		t.Parallel()

		f, err := goquery.NewExtractor().Extract(`<html><body><p>just text</p></body></html>`, "https://example.com/p", kbcrawl.DefaultCascade())

		require.NoError(t, err)
		assert.Empty(t, f.Title)
		assert.Empty(t, f.ContentHTML)
	})
}

func TestExtractor_ExtractFirst(t *testing.T) {
	t.Parallel()

	t.Run("title is removed from content", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div class="article"><h1>Foo</h1><p>Bar</p></div></body></html>`

		f, err := goquery.NewExtractor().ExtractFirst(html, "https://example.com/", ".article", kbcrawl.DefaultCascade())

		require.NoError(t, err)
		assert.Equal(t, "Foo", f.Title)
		assert.Equal(t, "<p>Bar</p>", f.ContentHTML)
	})

	t.Run("only the first match is used", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
	<div class="article"><h1>First</h1><p>1</p></div>
	<div class="article"><h1>Second</h1><p>2</p></div>
</body></html>`

		f, err := goquery.NewExtractor().ExtractFirst(html, "https://example.com/", ".article", kbcrawl.DefaultCascade())

		require.NoError(t, err)
		assert.Equal(t, "First", f.Title)
	})

	t.Run("falls back to page heading then document title", func(t *testing.T) {
		t.Parallel()

		withHeading := `<html><head><title>Doc Title</title></head><body><h1>Page Heading</h1><div class="body"><p>Text</p></div></body></html>`
		withoutHeading := `<html><head><title>Doc Title</title></head><body><div class="body"><p>Text</p></div></body></html>`

		f, err := goquery.NewExtractor().ExtractFirst(withHeading, "https://example.com/", ".body", kbcrawl.DefaultCascade())
		require.NoError(t, err)
		assert.Equal(t, "Page Heading", f.Title)

		f, err = goquery.NewExtractor().ExtractFirst(withoutHeading, "https://example.com/", ".body", kbcrawl.DefaultCascade())
		require.NoError(t, err)
		assert.Equal(t, "Doc Title", f.Title)
	})

	t.Run("no match is an extraction error", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewExtractor().ExtractFirst(`<html><body></body></html>`, "https://example.com/", ".article", kbcrawl.DefaultCascade())

		assert.Equal(t, kbcrawl.EEXTRACT, kbcrawl.ErrorCode(err))
	})

	t.Run("invalid selector is a config error", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewExtractor().ExtractFirst(`<html></html>`, "https://example.com/", "div[", kbcrawl.DefaultCascade())

		assert.Equal(t, kbcrawl.EINVALID, kbcrawl.ErrorCode(err))
	})
}

func TestExtractor_ExtractAll(t *testing.T) {
	t.Parallel()

	t.Run("one result per match in document order", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
	<h1>Blog</h1>
	<div class="card"><h3><a href="/posts/one">One</a></h3><p>First excerpt</p></div>
	<div class="card"><h3><a href="/posts/two#top">Two</a></h3></div>
	<div class="card"><h3>Three</h3><p>No link</p></div>
</body></html>`

		all, err := goquery.NewExtractor().ExtractAll(html, "https://example.com/blog", ".card", kbcrawl.DefaultCascade())

		require.NoError(t, err)
		require.Len(t, all, 3)

		assert.Equal(t, "One", all[0].Title)
		assert.Equal(t, "https://example.com/posts/one", all[0].URL)
		assert.Equal(t, "<p>First excerpt</p>", all[0].ContentHTML)

		assert.Equal(t, "Two", all[1].Title)
		assert.Equal(t, "https://example.com/posts/two", all[1].URL)
		assert.Empty(t, all[1].ContentHTML)

		assert.Equal(t, "Three", all[2].Title)
		assert.Empty(t, all[2].URL)
	})

	t.Run("does not borrow the page heading", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><h1>Blog</h1><div class="card"><p>untitled</p></div></body></html>`

		all, err := goquery.NewExtractor().ExtractAll(html, "https://example.com/blog", ".card", kbcrawl.DefaultCascade())

		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Empty(t, all[0].Title)
	})

	t.Run("no matches yields empty result", func(t *testing.T) {
		t.Parallel()

		all, err := goquery.NewExtractor().ExtractAll(`<html><body></body></html>`, "https://example.com/", ".card", kbcrawl.DefaultCascade())

		require.NoError(t, err)
		assert.Empty(t, all)
	})
}

func TestExtractor_ValidateSelector(t *testing.T) {
	t.Parallel()

	e := goquery.NewExtractor()

	assert.NoError(t, e.ValidateSelector(".post, article > h1"))
	assert.Equal(t, kbcrawl.EINVALID, kbcrawl.ErrorCode(e.ValidateSelector("")))
	assert.Equal(t, kbcrawl.EINVALID, kbcrawl.ErrorCode(e.ValidateSelector("a[href")))
}
