package kbcrawl_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fwojciec/kbcrawl"
	"github.com/stretchr/testify/assert"
)

func TestExtractedItem_Excerpt(t *testing.T) {
	t.Parallel()

	t.Run("short content is returned whole", func(t *testing.T) {
		t.Parallel()

		item := &kbcrawl.ExtractedItem{Content: "Short   post\n\nbody."}

		assert.Equal(t, "Short post body.", item.Excerpt(200))
	})

	t.Run("long content is cut at a word boundary", func(t *testing.T) {
		t.Parallel()

		item := &kbcrawl.ExtractedItem{Content: "The quick brown fox jumps over the lazy dog"}

		got := item.Excerpt(18)

		assert.Equal(t, "The quick brown...", got)
	})

	t.Run("multibyte content is not split mid rune", func(t *testing.T) {
		t.Parallel()

		item := &kbcrawl.ExtractedItem{Content: strings.Repeat("привет ", 50)}

		got := item.Excerpt(20)

		assert.True(t, utf8.ValidString(got))
		assert.True(t, strings.HasSuffix(got, "..."))
		assert.LessOrEqual(t, utf8.RuneCountInString(got), 23)
	})

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()

		item := &kbcrawl.ExtractedItem{Title: "Only a title"}

		assert.Empty(t, item.Excerpt(kbcrawl.DefaultExcerptLength))
	})
}
