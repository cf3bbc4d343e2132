package kbcrawl

// ExtractResult holds content found by a ContentExtractor.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string

	Author string
	Date   string
}

// ContentExtractor finds the main content of a page without selectors.
// The traversal engine uses it as the last tier after the selector cascade.
type ContentExtractor interface {
	Extract(html string) (*ExtractResult, error)
}
