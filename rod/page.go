package rod

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fwojciec/kbcrawl"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// sameHostLinks returns the absolute href of every anchor whose host matches
// the document's.
const sameHostLinks = `() => Array.from(document.querySelectorAll('a[href]'))
	.filter(a => a.hostname === location.hostname)
	.map(a => a.href)`

// Ensure Page implements kbcrawl.Page at compile time.
var _ kbcrawl.Page = (*Page)(nil)

// Page is a browser tab. A Page renders one URL at a time.
type Page struct {
	page   *rod.Page
	router *rod.HijackRouter
	closed atomic.Bool
}

// Render navigates to url and returns the rendered document along with the
// same-host links the browser resolved. Navigation failures and timeouts
// return ENAVIGATION and leave the tab usable for the next call.
func (p *Page) Render(ctx context.Context, url string, opts kbcrawl.RenderOptions) (*kbcrawl.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	navCtx, cancel := context.WithTimeout(ctx, opts.NavigationTimeout())
	defer cancel()
	page := p.page.Context(navCtx)

	var wait func()
	switch opts.Wait {
	case kbcrawl.WaitDOMContentLoaded:
		wait = page.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	case kbcrawl.WaitNetworkIdle:
		wait = page.WaitNavigation(proto.PageLifecycleEventNameNetworkIdle)
	}

	if err := page.Navigate(url); err != nil {
		return nil, navigationError(ctx, url, err)
	}
	if wait != nil {
		wait()
	} else if err := page.WaitLoad(); err != nil {
		return nil, navigationError(ctx, url, err)
	}
	if err := navCtx.Err(); err != nil {
		return nil, navigationError(ctx, url, err)
	}

	if opts.Settle > 0 {
		select {
		case <-navCtx.Done():
			return nil, navigationError(ctx, url, navCtx.Err())
		case <-time.After(opts.Settle):
		}
	}

	html, err := page.HTML()
	if err != nil {
		return nil, kbcrawl.WrapError(kbcrawl.EEXTRACT, err, "read HTML of %s", url)
	}

	res, err := page.Eval(sameHostLinks)
	if err != nil {
		return nil, kbcrawl.WrapError(kbcrawl.EEXTRACT, err, "collect links of %s", url)
	}
	var links []string
	for _, v := range res.Value.Arr() {
		if href := v.Str(); href != "" {
			links = append(links, href)
		}
	}

	final := url
	if info, err := page.Info(); err == nil && info.URL != "" {
		final = info.URL
	}

	return &kbcrawl.Snapshot{URL: final, HTML: html, Links: links}, nil
}

// Close stops request interception and closes the tab.
func (p *Page) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	if p.router != nil {
		_ = p.router.Stop()
	}
	return p.page.Close()
}

// navigationError reports a cancelled caller context as-is so traversal
// stops. Everything else, including the per-page timeout, is ENAVIGATION.
func navigationError(ctx context.Context, url string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return kbcrawl.WrapError(kbcrawl.ENAVIGATION, err, "navigate to %s", url)
}
