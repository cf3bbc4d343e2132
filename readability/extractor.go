// Package readability finds main page content with go-readability. It is an
// alternative to the trafilatura fallback tier.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/kbcrawl"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements kbcrawl.ContentExtractor at compile time.
var _ kbcrawl.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-readability.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the readable content of rawHTML with its title and byline.
func (e *Extractor) Extract(rawHTML string) (*kbcrawl.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, kbcrawl.Errorf(kbcrawl.EEXTRACT, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), &url.URL{})
	if err != nil {
		return nil, kbcrawl.WrapError(kbcrawl.EEXTRACT, err, "extract readable content")
	}

	return &kbcrawl.ExtractResult{
		Title:       strings.TrimSpace(article.Title),
		ContentHTML: article.Content,
		Author:      strings.TrimSpace(article.Byline),
	}, nil
}
