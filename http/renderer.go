// Package http renders static pages with plain HTTP requests. It does not
// execute JavaScript and suits server-rendered sites only.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/kbcrawl"
)

// DefaultMaxBodyBytes caps how much of a response body is read.
const DefaultMaxBodyBytes = 10 << 20

// Ensure Renderer implements kbcrawl.Renderer at compile time.
var _ kbcrawl.Renderer = (*Renderer)(nil)

// Renderer hands out pages that fetch documents over HTTP.
type Renderer struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithClient sets the HTTP client used for requests.
func WithClient(c *http.Client) Option {
	return func(r *Renderer) {
		r.client = c
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(r *Renderer) {
		r.userAgent = ua
	}
}

// NewRenderer creates a Renderer. The per-request deadline comes from
// RenderOptions, so the default client has no timeout of its own.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		client:    &http.Client{},
		userAgent: kbcrawl.DefaultUserAgent,
		maxBytes:  DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewPage returns a page sharing the renderer's client.
func (r *Renderer) NewPage(ctx context.Context) (kbcrawl.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Page{renderer: r}, nil
}

// Close is a no-op. http.Client needs no cleanup.
func (r *Renderer) Close() error {
	return nil
}

// Page fetches one document per Render call.
type Page struct {
	renderer *Renderer
}

// Render issues a GET for url. Network failures and non-2xx responses
// return ENAVIGATION. The snapshot URL is the one reached after redirects.
// Snapshot.Links is left empty.
func (p *Page) Render(ctx context.Context, url string, opts kbcrawl.RenderOptions) (*kbcrawl.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, opts.NavigationTimeout())
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, kbcrawl.WrapError(kbcrawl.ENAVIGATION, err, "build request for %s", url)
	}
	req.Header.Set("User-Agent", p.renderer.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := p.renderer.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, kbcrawl.WrapError(kbcrawl.ENAVIGATION, err, "navigate to %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, kbcrawl.Errorf(kbcrawl.ENAVIGATION, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, p.renderer.maxBytes))
	if err != nil {
		return nil, kbcrawl.WrapError(kbcrawl.ENAVIGATION, err, "read body of %s", url)
	}

	if opts.Settle > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(opts.Settle):
		}
	}

	final := url
	if resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL.String()
	}
	return &kbcrawl.Snapshot{URL: final, HTML: string(body)}, nil
}

// Close is a no-op.
func (p *Page) Close() error {
	return nil
}
