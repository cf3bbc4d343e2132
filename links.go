package kbcrawl

// LinkExtractor discovers links in rendered HTML.
type LinkExtractor interface {
	// DiscoverLinks returns absolute same-host anchor targets in document
	// order, without fragments or duplicates.
	DiscoverLinks(html, baseURL string) ([]string, error)

	// SelectLinks returns the targets of elements matching selector in
	// document order, resolved against baseURL. Hosts are not filtered.
	SelectLinks(html, baseURL, selector string) ([]string, error)

	// Categories returns the distinct trimmed texts of all links and buttons.
	Categories(html string) ([]string, error)
}
