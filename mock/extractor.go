package mock

import "github.com/fwojciec/kbcrawl"

// Compile-time interface verification.
var (
	_ kbcrawl.FieldExtractor   = (*FieldExtractor)(nil)
	_ kbcrawl.LinkExtractor    = (*LinkExtractor)(nil)
	_ kbcrawl.ContentExtractor = (*ContentExtractor)(nil)
	_ kbcrawl.Converter        = (*Converter)(nil)
)

// FieldExtractor is a mock implementation of kbcrawl.FieldExtractor.
type FieldExtractor struct {
	ExtractFn          func(html, pageURL string, c kbcrawl.Cascade) (*kbcrawl.Fields, error)
	ExtractFirstFn     func(html, pageURL, selector string, c kbcrawl.Cascade) (*kbcrawl.Fields, error)
	ExtractAllFn       func(html, pageURL, selector string, c kbcrawl.Cascade) ([]*kbcrawl.Fields, error)
	ValidateSelectorFn func(selector string) error
}

func (e *FieldExtractor) Extract(html, pageURL string, c kbcrawl.Cascade) (*kbcrawl.Fields, error) {
	return e.ExtractFn(html, pageURL, c)
}

func (e *FieldExtractor) ExtractFirst(html, pageURL, selector string, c kbcrawl.Cascade) (*kbcrawl.Fields, error) {
	return e.ExtractFirstFn(html, pageURL, selector, c)
}

func (e *FieldExtractor) ExtractAll(html, pageURL, selector string, c kbcrawl.Cascade) ([]*kbcrawl.Fields, error) {
	return e.ExtractAllFn(html, pageURL, selector, c)
}

func (e *FieldExtractor) ValidateSelector(selector string) error {
	return e.ValidateSelectorFn(selector)
}

// LinkExtractor is a mock implementation of kbcrawl.LinkExtractor.
type LinkExtractor struct {
	DiscoverLinksFn func(html, baseURL string) ([]string, error)
	SelectLinksFn   func(html, baseURL, selector string) ([]string, error)
	CategoriesFn    func(html string) ([]string, error)
}

func (e *LinkExtractor) DiscoverLinks(html, baseURL string) ([]string, error) {
	return e.DiscoverLinksFn(html, baseURL)
}

func (e *LinkExtractor) SelectLinks(html, baseURL, selector string) ([]string, error) {
	return e.SelectLinksFn(html, baseURL, selector)
}

func (e *LinkExtractor) Categories(html string) ([]string, error) {
	return e.CategoriesFn(html)
}

// ContentExtractor is a mock implementation of kbcrawl.ContentExtractor.
type ContentExtractor struct {
	ExtractFn func(html string) (*kbcrawl.ExtractResult, error)
}

func (e *ContentExtractor) Extract(html string) (*kbcrawl.ExtractResult, error) {
	return e.ExtractFn(html)
}

// Converter is a mock implementation of kbcrawl.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
