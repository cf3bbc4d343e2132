// Package trafilatura finds main page content without selectors using
// go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/kbcrawl"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// DateLayout formats the publication date trafilatura detects.
const DateLayout = "2006-01-02"

// Ensure Extractor implements kbcrawl.ContentExtractor at compile time.
var _ kbcrawl.ContentExtractor = (*Extractor)(nil)

// Extractor is the last extraction tier, used when the selector cascade
// finds no title or content.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the main content of rawHTML with boilerplate removed,
// plus whatever title, author and date the page metadata carries.
func (e *Extractor) Extract(rawHTML string) (*kbcrawl.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, kbcrawl.Errorf(kbcrawl.EEXTRACT, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{
		EnableFallback: true,
	})
	if err != nil {
		return nil, kbcrawl.WrapError(kbcrawl.EEXTRACT, err, "extract main content")
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, kbcrawl.WrapError(kbcrawl.EEXTRACT, err, "render main content")
		}
	}

	var date string
	if !result.Metadata.Date.IsZero() {
		date = result.Metadata.Date.Format(DateLayout)
	}

	return &kbcrawl.ExtractResult{
		Title:       strings.TrimSpace(result.Metadata.Title),
		ContentHTML: contentHTML,
		Author:      strings.TrimSpace(result.Metadata.Author),
		Date:        date,
	}, nil
}

func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
