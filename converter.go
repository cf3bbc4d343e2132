package kbcrawl

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms an HTML fragment into Markdown.
	// Empty input yields empty output.
	Convert(html string) (string, error)
}
