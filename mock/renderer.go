package mock

import (
	"context"

	"github.com/fwojciec/kbcrawl"
)

// Compile-time interface verification.
var (
	_ kbcrawl.Renderer = (*Renderer)(nil)
	_ kbcrawl.Page     = (*Page)(nil)
)

// Renderer is a mock implementation of kbcrawl.Renderer.
type Renderer struct {
	NewPageFn func(ctx context.Context) (kbcrawl.Page, error)
	CloseFn   func() error
}

func (r *Renderer) NewPage(ctx context.Context) (kbcrawl.Page, error) {
	return r.NewPageFn(ctx)
}

func (r *Renderer) Close() error {
	return r.CloseFn()
}

// Page is a mock implementation of kbcrawl.Page.
type Page struct {
	RenderFn func(ctx context.Context, url string, opts kbcrawl.RenderOptions) (*kbcrawl.Snapshot, error)
	CloseFn  func() error
}

func (p *Page) Render(ctx context.Context, url string, opts kbcrawl.RenderOptions) (*kbcrawl.Snapshot, error) {
	return p.RenderFn(ctx, url, opts)
}

func (p *Page) Close() error {
	return p.CloseFn()
}
