package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/kbcrawl"
)

var _ kbcrawl.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor discovers links and category labels in HTML documents.
type LinkExtractor struct{}

// NewLinkExtractor creates a new LinkExtractor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// DiscoverLinks returns every same-host anchor target in document order.
// Non-HTTP links, fragments, self-links and duplicates are dropped.
func (e *LinkExtractor) DiscoverLinks(html, baseURL string) ([]string, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}

	var links []string
	seen := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		resolved := resolveHref(base, href)
		if resolved == "" || !isSameHost(base, resolved) {
			return
		}
		if _, ok := seen[resolved]; ok {
			return
		}
		seen[resolved] = struct{}{}
		links = append(links, resolved)
	})
	return links, nil
}

// SelectLinks returns the targets of elements matching selector in document
// order. A matched element that is not itself a link contributes its first
// descendant anchor. Hosts are not filtered so callers can tell discovered
// links from followed ones.
func (e *LinkExtractor) SelectLinks(html, baseURL, selector string) ([]string, error) {
	if err := validateSelector(selector); err != nil {
		return nil, err
	}
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}

	var links []string
	seen := make(map[string]struct{})
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		resolved := resolveHref(base, elementHref(sel))
		if resolved == "" {
			return
		}
		if _, ok := seen[resolved]; ok {
			return
		}
		seen[resolved] = struct{}{}
		links = append(links, resolved)
	})
	return links, nil
}

// Categories returns the distinct, non-empty texts of all links and buttons
// in document order.
func (e *LinkExtractor) Categories(html string) ([]string, error) {
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}

	var names []string
	seen := make(map[string]struct{})
	doc.Find("a, button").Each(func(_ int, sel *goquery.Selection) {
		text := collapse(sel.Text())
		if text == "" {
			return
		}
		if _, ok := seen[text]; ok {
			return
		}
		seen[text] = struct{}{}
		names = append(names, text)
	})
	return names, nil
}

// elementHref returns the href of sel if it is a link, or of its first
// descendant link.
func elementHref(sel *goquery.Selection) string {
	if href, ok := sel.Attr("href"); ok {
		return href
	}
	href, _ := sel.Find("a[href]").First().Attr("href")
	return href
}

// resolveHref resolves href against base.
// Returns empty string for non-HTTP links, unparsable hrefs, and links back
// to base itself. Fragments are stripped.
func resolveHref(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || isNonHTTPLink(href) {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}

	result := resolved.String()
	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	if result == baseNoFragment.String() {
		return ""
	}
	return result
}

// isSameHost compares hostnames case-insensitively. Subdomains and ports
// are not considered.
func isSameHost(base *url.URL, resolved string) bool {
	u, err := url.Parse(resolved)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Hostname(), base.Hostname())
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}

func parseBaseURL(raw string) (*url.URL, error) {
	base, err := url.Parse(raw)
	if err != nil {
		return nil, kbcrawl.Errorf(kbcrawl.EINVALID, "invalid base URL: %v", err)
	}
	return base, nil
}

func parseDocument(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, kbcrawl.Errorf(kbcrawl.EINVALID, "failed to parse HTML: %v", err)
	}
	return doc, nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
