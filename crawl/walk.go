package crawl

import (
	"context"
	"log/slog"

	"github.com/fwojciec/kbcrawl"
)

// walker holds the state of one job run. It is never shared between runs.
type walker struct {
	engine   *Engine
	page     kbcrawl.Page
	logger   *slog.Logger
	cascade  kbcrawl.Cascade
	frontier *Frontier

	// maxPages bounds pagesFetched. Zero means unbounded.
	maxPages     int
	pagesFetched int
}

// extractFunc turns a rendered link page into an item.
type extractFunc func(url string, snap *kbcrawl.Snapshot) (*kbcrawl.ExtractedItem, error)

// single extracts the first ContentSelector match on the seed.
func (w *walker) single(ctx context.Context, job *kbcrawl.SingleJob, yield func(PageResult) bool) {
	snap, ok := w.renderSeed(ctx, job.URL, yield)
	if !ok {
		return
	}

	item, err := w.extractElement(job.URL, snap, job.ContentSelector, job.Name)
	w.emit(yield, PageResult{URL: job.URL, Item: item, Err: err})
}

// partial extracts every ContentSelector match on the seed in document order.
func (w *walker) partial(ctx context.Context, job *kbcrawl.PartialJob, yield func(PageResult) bool) {
	snap, ok := w.renderSeed(ctx, job.URL, yield)
	if !ok {
		return
	}

	all, err := w.engine.Extractor.ExtractAll(snap.HTML, baseURL(snap, job.URL), job.ContentSelector, w.cascade)
	if err != nil {
		w.emit(yield, PageResult{URL: job.URL, Err: err})
		return
	}
	if len(all) == 0 {
		w.logger.Info("no elements matched", "url", job.URL, "selector", job.ContentSelector)
	}

	for _, f := range all {
		url := f.URL
		if url == "" {
			url = job.URL
		}
		item, err := w.buildItem(f, url, job.Name, false)
		if !w.emit(yield, PageResult{URL: url, Item: item, Err: err}) {
			return
		}
	}
}

// crawl follows LinkSelector links from the seed that stay on its host.
func (w *walker) crawl(ctx context.Context, job *kbcrawl.CrawlJob, yield func(PageResult) bool) {
	seed, snap, ok := w.startFrontier(ctx, job.URL, yield)
	if !ok {
		return
	}

	links, err := w.engine.Links.SelectLinks(snap.HTML, baseURL(snap, seed), job.LinkSelector)
	if err != nil {
		w.emit(yield, PageResult{URL: seed, Err: err})
		return
	}
	w.enqueue(seed, snap, links)

	w.drain(ctx, yield, func(url string, snap *kbcrawl.Snapshot) (*kbcrawl.ExtractedItem, error) {
		return w.extractElement(url, snap, job.ContentSelector, job.Name)
	})
}

// linkFollow visits every same-host link found on the seed and runs the
// full cascade on each. Links on those pages are not followed.
func (w *walker) linkFollow(ctx context.Context, job *kbcrawl.LinkFollowJob, yield func(PageResult) bool) {
	seed, snap, ok := w.startFrontier(ctx, job.URL, yield)
	if !ok {
		return
	}

	links := snap.Links
	if len(links) == 0 && w.engine.Links != nil {
		discovered, err := w.engine.Links.DiscoverLinks(snap.HTML, baseURL(snap, seed))
		if err != nil {
			w.logger.Warn("discover links", "url", seed, "err", err)
		}
		links = discovered
	}
	w.enqueue(seed, snap, links)

	w.drain(ctx, yield, func(url string, snap *kbcrawl.Snapshot) (*kbcrawl.ExtractedItem, error) {
		return w.extractCascade(url, snap, job.Name)
	})
}

// startFrontier marks the seed visited and renders it as given.
func (w *walker) startFrontier(ctx context.Context, seed string, yield func(PageResult) bool) (string, *kbcrawl.Snapshot, bool) {
	w.frontier.Push(seed)
	w.frontier.Pop()

	snap, ok := w.renderSeed(ctx, seed, yield)
	return seed, snap, ok
}

// enqueue queues links on the seed host, in order. When the seed
// redirected to another hostname, links on the final host are kept too.
func (w *walker) enqueue(seed string, snap *kbcrawl.Snapshot, links []string) {
	host, final := hostname(seed), hostname(baseURL(snap, seed))
	queued := 0
	for _, link := range links {
		if h := hostname(link); h != host && h != final {
			continue
		}
		if w.frontier.Push(link) {
			queued++
		}
	}
	w.logger.Info("discovered links", "url", seed, "links", len(links), "queued", queued)
}

// drain visits queued URLs in order until the frontier is empty, the page
// budget is spent, the context is canceled or the consumer stops.
func (w *walker) drain(ctx context.Context, yield func(PageResult) bool, extract extractFunc) {
	for {
		if ctx.Err() != nil {
			return
		}
		if w.maxPages > 0 && w.pagesFetched >= w.maxPages {
			w.logger.Info("page budget reached", "max_pages", w.maxPages, "pending", w.frontier.Len())
			return
		}
		url, ok := w.frontier.Pop()
		if !ok {
			return
		}

		w.pagesFetched++
		snap, err := w.render(ctx, url)
		if err != nil {
			if !w.fail(ctx, yield, url, err) {
				return
			}
			continue
		}

		item, err := extract(url, snap)
		if !w.emit(yield, PageResult{URL: url, Item: item, Err: err}) {
			return
		}
	}
}

func (w *walker) renderSeed(ctx context.Context, url string, yield func(PageResult) bool) (*kbcrawl.Snapshot, bool) {
	snap, err := w.render(ctx, url)
	if err != nil {
		w.fail(ctx, yield, url, err)
		return nil, false
	}
	return snap, true
}

func (w *walker) render(ctx context.Context, url string) (*kbcrawl.Snapshot, error) {
	if limiter := w.engine.Limiter; limiter != nil {
		if err := limiter.Wait(ctx, hostname(url)); err != nil {
			return nil, err
		}
	}
	render := func(ctx context.Context, url string) (*kbcrawl.Snapshot, error) {
		return w.page.Render(ctx, url, w.engine.RenderOptions)
	}
	return RenderWithRetry(ctx, url, render, w.logger, w.engine.RetryDelays)
}

// fail reports a render failure and returns whether the walk may continue.
// Cancellation ends the walk silently; session failures end it with the error.
func (w *walker) fail(ctx context.Context, yield func(PageResult) bool, url string, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if kbcrawl.ErrorCode(err) == kbcrawl.ESESSION {
		w.logger.Error("session failed", "url", url, "err", err)
		yield(PageResult{URL: url, Err: err})
		return false
	}
	return w.emit(yield, PageResult{URL: url, Err: err})
}

// emit logs isolated failures and passes r to the consumer.
func (w *walker) emit(yield func(PageResult) bool, r PageResult) bool {
	if r.Err != nil {
		if kbcrawl.ErrorCode(r.Err) == kbcrawl.EEXTRACT {
			w.logger.Info("drop page", "url", r.URL, "reason", kbcrawl.ErrorMessage(r.Err))
		} else {
			w.logger.Warn("skip page", "url", r.URL, "err", r.Err)
		}
	}
	return yield(r)
}

// extractElement builds an item from the first selector match on a page.
func (w *walker) extractElement(url string, snap *kbcrawl.Snapshot, selector, source string) (*kbcrawl.ExtractedItem, error) {
	f, err := w.engine.Extractor.ExtractFirst(snap.HTML, baseURL(snap, url), selector, w.cascade)
	if err != nil {
		return nil, err
	}
	return w.buildItem(f, url, source, true)
}

// extractCascade builds an item from the full cascade, filling gaps from
// the fallback extractor when one is configured.
func (w *walker) extractCascade(url string, snap *kbcrawl.Snapshot, source string) (*kbcrawl.ExtractedItem, error) {
	f, err := w.engine.Extractor.Extract(snap.HTML, baseURL(snap, url), w.cascade)
	if err != nil {
		return nil, err
	}

	if fb := w.engine.Fallback; fb != nil && (f.Title == "" || f.ContentHTML == "") {
		res, err := fb.Extract(snap.HTML)
		if err != nil {
			w.logger.Debug("fallback extract", "url", url, "err", err)
		} else {
			if f.Title == "" {
				f.Title = res.Title
			}
			if f.ContentHTML == "" {
				f.ContentHTML = res.ContentHTML
			}
			if f.Author == "" {
				f.Author = res.Author
			}
			if f.Date == "" {
				f.Date = res.Date
			}
		}
	}
	return w.buildItem(f, url, source, true)
}

// buildItem converts fields into an item. Items without a title are
// dropped, as are items without content when requireContent is set.
func (w *walker) buildItem(f *kbcrawl.Fields, url, source string, requireContent bool) (*kbcrawl.ExtractedItem, error) {
	if f.Title == "" {
		return nil, kbcrawl.Errorf(kbcrawl.EEXTRACT, "no title found")
	}
	content, err := w.engine.Converter.Convert(f.ContentHTML)
	if err != nil {
		return nil, kbcrawl.WrapError(kbcrawl.EEXTRACT, err, "convert content")
	}
	if requireContent && content == "" {
		return nil, kbcrawl.Errorf(kbcrawl.EEXTRACT, "no content found")
	}
	return &kbcrawl.ExtractedItem{
		Title:   f.Title,
		Content: content,
		URL:     url,
		Source:  source,
		Author:  f.Author,
		Date:    f.Date,
		Tags:    f.Tags,
	}, nil
}

// baseURL returns the address links on snap resolve against.
func baseURL(snap *kbcrawl.Snapshot, requested string) string {
	if snap != nil && snap.URL != "" {
		return snap.URL
	}
	return requested
}
