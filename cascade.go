package kbcrawl

// Cascade holds ranked candidate CSS selectors for each article field.
// For every field the first candidate with at least one match wins.
type Cascade struct {
	// Article locates the element that scopes title and content lookups.
	Article []string
	Title   []string
	Content []string
	Author  []string
	Date    []string

	// Tags candidates collect every matched node, not just the first.
	Tags []string
}

// DefaultCascade returns the built-in selector lists used by link-follow jobs.
func DefaultCascade() Cascade {
	return Cascade{
		Article: []string{
			"article",
			".post",
			".entry",
			".content",
			"main",
			".blog-post",
			".post-item",
			".blog-item",
			".post-card",
			`[data-testid="blog-post"]`,
			`[data-testid="article"]`,
			".blog-entry",
			".post-entry",
		},
		Title: []string{
			"h1",
			"h2",
			".title",
			".post-title",
			".entry-title",
			"header h1",
			"header h2",
			`[data-testid="post-title"]`,
			".blog-title",
			".post-heading",
			"h3",
			"h4",
		},
		Content: []string{
			".post-content",
			".entry-content",
			".content",
			"article",
			".blog-content",
			".post-body",
			`[data-testid="post-content"]`,
			".article-content",
			".post-text",
		},
		Author: []string{
			`[rel="author"]`,
			".author",
			".post-author",
			".byline",
			`[itemprop="author"]`,
		},
		Date: []string{
			"time",
			".date",
			".post-date",
			".published",
			`[itemprop="datePublished"]`,
		},
		Tags: []string{
			`[rel="tag"]`,
			".tags a",
			".post-tags a",
			".tag",
		},
	}
}

// Fields is the raw result of running a cascade over one page or element.
type Fields struct {
	Title string

	// ContentHTML is the body as HTML, ready for a Converter.
	ContentHTML string

	Author string
	Date   string
	Tags   []string

	// URL is set by element extraction when the element links to its own
	// page, resolved against the page URL.
	URL string
}

// FieldExtractor runs selector lookups over rendered HTML.
// Implementations are pure functions of their input.
type FieldExtractor interface {
	// Extract runs the full cascade over a page.
	Extract(html, pageURL string, c Cascade) (*Fields, error)

	// ExtractFirst extracts the first element matching selector. Title,
	// author and date fall back to page-level lookups when the element has
	// none. Returns EEXTRACT if nothing matches.
	ExtractFirst(html, pageURL, selector string, c Cascade) (*Fields, error)

	// ExtractAll extracts every element matching selector in document
	// order, scoped strictly to each element.
	ExtractAll(html, pageURL, selector string, c Cascade) ([]*Fields, error)

	// ValidateSelector returns EINVALID if selector cannot be parsed.
	ValidateSelector(selector string) error
}
