package kbcrawl

import (
	"strings"
	"unicode/utf8"
)

// DefaultExcerptLength is the rune length of excerpts stored with entries.
const DefaultExcerptLength = 200

// ExtractedItem is one normalized article record produced by a job.
type ExtractedItem struct {
	Title string

	// Content is Markdown. Partial-mode items may have none.
	Content string

	// URL is the absolute address the item came from.
	URL string

	// Source is the name of the job that produced the item.
	Source string

	Author string
	Date   string
	Tags   []string
}

// Excerpt returns at most n runes of the content, collapsed to single spaces
// and cut at a word boundary. A cut excerpt ends in "...".
func (i *ExtractedItem) Excerpt(n int) string {
	text := strings.Join(strings.Fields(i.Content), " ")
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}

	runes := []rune(text)
	cut := string(runes[:n])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " .,;:") + "..."
}
