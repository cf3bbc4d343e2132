package readability_test

import (
	"testing"

	"github.com/fwojciec/kbcrawl"
	"github.com/fwojciec/kbcrawl/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const post = `<!DOCTYPE html>
<html>
<head><title>Behavioral Interviews</title></head>
<body>
<nav><a href="/home">Home Nav Link</a><a href="/about">About Nav Link</a></nav>
<article>
<h1>Behavioral Interviews</h1>
<p class="byline">By Jane Doe</p>
<p>Behavioral interviews reward concrete stories about past work. Prepare five of them.</p>
<p>Each story should state the situation, what you did and what changed as a result.</p>
<ul><li>Conflict</li><li>Failure</li></ul>
</article>
<footer><p>Footer copyright text 2024</p></footer>
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := readability.NewExtractor().Extract(" ")
		require.Error(t, err)
		assert.Equal(t, kbcrawl.EEXTRACT, kbcrawl.ErrorCode(err))
	})

	t.Run("extracts title", func(t *testing.T) {
		t.Parallel()

		result, err := readability.NewExtractor().Extract(post)
		require.NoError(t, err)
		assert.Equal(t, "Behavioral Interviews", result.Title)
	})

	t.Run("keeps article content without boilerplate", func(t *testing.T) {
		t.Parallel()

		result, err := readability.NewExtractor().Extract(post)
		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "concrete stories about past work")
		assert.Contains(t, result.ContentHTML, "<li")
		assert.NotContains(t, result.ContentHTML, "Home Nav Link")
		assert.NotContains(t, result.ContentHTML, "Footer copyright text")
	})

	t.Run("extracts byline as author", func(t *testing.T) {
		t.Parallel()

		result, err := readability.NewExtractor().Extract(post)
		require.NoError(t, err)
		assert.Contains(t, result.Author, "Jane Doe")
	})
}
