package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/kbcrawl"
)

var _ kbcrawl.FieldExtractor = (*Extractor)(nil)

// Metadata tags consulted when no author or date selector matches.
var (
	authorMeta = []string{
		`meta[name="author"]`,
		`meta[property="article:author"]`,
	}
	dateMeta = []string{
		`meta[property="article:published_time"]`,
		`meta[name="date"]`,
		`meta[itemprop="datePublished"]`,
	}
)

// Extractor runs selector cascades over HTML documents.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ValidateSelector returns EINVALID if selector is not a valid CSS selector group.
func (e *Extractor) ValidateSelector(selector string) error {
	return validateSelector(selector)
}

// Extract runs the full cascade over a page. The first Article candidate
// with a match scopes the title and content lookups; when it yields nothing,
// or no candidate matched, the document body is scanned once.
func (e *Extractor) Extract(html, pageURL string, c kbcrawl.Cascade) (*kbcrawl.Fields, error) {
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}

	body := doc.Find("body")
	root := firstMatch(body, c.Article)

	var scopes []*goquery.Selection
	if root != nil {
		scopes = append(scopes, root)
	}
	scopes = append(scopes, body)

	f := &kbcrawl.Fields{
		Title:  textOf(firstNonEmpty(scopes, c.Title)),
		Author: textOf(firstNonEmpty(scopes, c.Author)),
		Date:   dateOf(firstNonEmpty(scopes, c.Date)),
		Tags:   allTexts(scopes, c.Tags),
	}
	if content := firstNonEmptyHTML(scopes, c.Content); content != "" {
		f.ContentHTML = content
	} else if root != nil {
		f.ContentHTML = innerHTML(root)
	}
	fillFromMeta(doc, f)
	return f, nil
}

// ExtractFirst extracts the first element matching selector. When the
// element carries no title, author or date the page-level cascade fills
// them, ending with the document <title> for the title.
func (e *Extractor) ExtractFirst(html, pageURL, selector string, c kbcrawl.Cascade) (*kbcrawl.Fields, error) {
	if err := validateSelector(selector); err != nil {
		return nil, err
	}
	base, err := parseBaseURL(pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}

	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil, kbcrawl.Errorf(kbcrawl.EEXTRACT, "no element matches %q", selector)
	}
	f := extractElement(sel, base, c)

	body := []*goquery.Selection{doc.Find("body")}
	if f.Title == "" {
		f.Title = textOf(firstNonEmpty(body, c.Title))
	}
	if f.Title == "" {
		f.Title = collapse(doc.Find("title").First().Text())
	}
	if f.Author == "" {
		f.Author = textOf(firstNonEmpty(body, c.Author))
	}
	if f.Date == "" {
		f.Date = dateOf(firstNonEmpty(body, c.Date))
	}
	fillFromMeta(doc, f)
	return f, nil
}

// ExtractAll extracts every element matching selector in document order.
// Lookups stay inside each element.
func (e *Extractor) ExtractAll(html, pageURL, selector string, c kbcrawl.Cascade) ([]*kbcrawl.Fields, error) {
	if err := validateSelector(selector); err != nil {
		return nil, err
	}
	base, err := parseBaseURL(pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}

	var all []*kbcrawl.Fields
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		all = append(all, extractElement(sel, base, c))
	})
	return all, nil
}

// extractElement reads fields from inside sel. The title node is removed
// from the returned content so the body does not repeat the heading.
func extractElement(sel *goquery.Selection, base *url.URL, c kbcrawl.Cascade) *kbcrawl.Fields {
	scope := []*goquery.Selection{sel}
	f := &kbcrawl.Fields{
		Author: textOf(firstNonEmpty(scope, c.Author)),
		Date:   dateOf(firstNonEmpty(scope, c.Date)),
		Tags:   allTexts(scope, c.Tags),
		URL:    resolveHref(base, elementHref(sel)),
	}

	if title := firstNonEmpty(scope, c.Title); title != nil {
		f.Title = textOf(title)
		title.Remove()
	}
	f.ContentHTML = innerHTML(sel)
	return f
}

// firstMatch returns the first node matched by the first candidate with a
// match inside scope, or nil.
func firstMatch(scope *goquery.Selection, candidates []string) *goquery.Selection {
	for _, candidate := range candidates {
		if sel := scope.Find(candidate).First(); sel.Length() > 0 {
			return sel
		}
	}
	return nil
}

// firstNonEmpty tries every candidate in each scope in turn and returns the
// first matched node with visible text or a datetime attribute.
func firstNonEmpty(scopes []*goquery.Selection, candidates []string) *goquery.Selection {
	for _, scope := range scopes {
		for _, candidate := range candidates {
			sel := scope.Find(candidate).First()
			if sel.Length() == 0 {
				continue
			}
			if collapse(sel.Text()) != "" || sel.AttrOr("datetime", "") != "" {
				return sel
			}
		}
	}
	return nil
}

func firstNonEmptyHTML(scopes []*goquery.Selection, candidates []string) string {
	for _, scope := range scopes {
		for _, candidate := range candidates {
			sel := scope.Find(candidate).First()
			if sel.Length() == 0 {
				continue
			}
			if html := innerHTML(sel); html != "" && collapse(sel.Text()) != "" {
				return html
			}
		}
	}
	return ""
}

// allTexts returns the texts of every node matched by the first candidate
// with a match, in document order and without duplicates.
func allTexts(scopes []*goquery.Selection, candidates []string) []string {
	for _, scope := range scopes {
		for _, candidate := range candidates {
			matches := scope.Find(candidate)
			if matches.Length() == 0 {
				continue
			}
			var texts []string
			seen := make(map[string]struct{})
			matches.Each(func(_ int, sel *goquery.Selection) {
				text := collapse(sel.Text())
				if text == "" {
					return
				}
				if _, ok := seen[text]; ok {
					return
				}
				seen[text] = struct{}{}
				texts = append(texts, text)
			})
			if len(texts) > 0 {
				return texts
			}
		}
	}
	return nil
}

func fillFromMeta(doc *goquery.Document, f *kbcrawl.Fields) {
	if f.Author == "" {
		f.Author = metaContent(doc, authorMeta)
	}
	if f.Date == "" {
		f.Date = metaContent(doc, dateMeta)
	}
	if f.Date == "" {
		f.Date = strings.TrimSpace(doc.Find("time[datetime]").First().AttrOr("datetime", ""))
	}
}

func metaContent(doc *goquery.Document, selectors []string) string {
	for _, s := range selectors {
		if content := strings.TrimSpace(doc.Find(s).First().AttrOr("content", "")); content != "" {
			return content
		}
	}
	return ""
}

func textOf(sel *goquery.Selection) string {
	if sel == nil {
		return ""
	}
	return collapse(sel.Text())
}

// dateOf prefers the visible text and falls back to a datetime attribute.
func dateOf(sel *goquery.Selection) string {
	if sel == nil {
		return ""
	}
	if text := collapse(sel.Text()); text != "" {
		return text
	}
	return strings.TrimSpace(sel.AttrOr("datetime", ""))
}

func innerHTML(sel *goquery.Selection) string {
	html, err := sel.Html()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(html)
}

func validateSelector(selector string) error {
	if strings.TrimSpace(selector) == "" {
		return kbcrawl.Errorf(kbcrawl.EINVALID, "selector required")
	}
	if _, err := cascadia.ParseGroup(selector); err != nil {
		return kbcrawl.Errorf(kbcrawl.EINVALID, "invalid selector %q: %v", selector, err)
	}
	return nil
}
