// Package crawl runs scrape jobs. It renders pages through a
// kbcrawl.Renderer, walks same-host links in discovery order under a page
// budget, extracts one record per page and hands records to a sink.
package crawl

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"github.com/fwojciec/kbcrawl"
)

// Frontier sizing for crawl and link-follow jobs.
const (
	frontierExpectedURLs      = 10000
	frontierFalsePositiveRate = 0.01
)

// Engine executes scrape jobs. Renderer, Extractor and Converter are
// required; the remaining fields are optional.
type Engine struct {
	Renderer  kbcrawl.Renderer
	Extractor kbcrawl.FieldExtractor
	Converter kbcrawl.Converter

	// Links discovers links when a renderer returns none of its own.
	Links kbcrawl.LinkExtractor

	// Fallback fills title and content a link-follow page's cascade missed.
	Fallback kbcrawl.ContentExtractor

	// Limiter paces page loads per host.
	Limiter kbcrawl.DomainLimiter

	// Cascade overrides kbcrawl.DefaultCascade when any list is set.
	Cascade kbcrawl.Cascade

	RenderOptions kbcrawl.RenderOptions

	// RetryDelays lists the pause before each retry of a failed render.
	// Nil means no retries.
	RetryDelays []time.Duration

	Logger *slog.Logger
}

// PageResult is the outcome for one candidate item. Exactly one of Item and
// Err is set. Err is an isolated page failure unless its code is ESESSION.
type PageResult struct {
	URL  string
	Item *kbcrawl.ExtractedItem
	Err  error
}

// Result summarizes a completed run.
type Result struct {
	// Items holds every extracted item in visit order.
	Items []*kbcrawl.ExtractedItem

	// Accepted and Rejected count sink outcomes.
	Accepted int
	Rejected int

	// Failed counts pages that could not be loaded.
	Failed int

	// Dropped counts pages that loaded but yielded no usable item.
	Dropped int

	// Bytes is the total Markdown size of Items.
	Bytes int
}

// ProgressEvent reports progress during a run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	URL       string
	Title     string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressCompleted ProgressType = iota
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting run progress.
type ProgressFunc func(event ProgressEvent)

// Walk starts job and returns its items as a lazy sequence in visit order.
// Configuration errors, PDF jobs and session failures are returned before
// any page is visited. The sequence owns a renderer page and must be ranged
// over exactly once to release it.
func (e *Engine) Walk(ctx context.Context, job kbcrawl.Job) (iter.Seq[PageResult], error) {
	if err := e.validate(job); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := e.Renderer.NewPage(ctx)
	if err != nil {
		return nil, sessionError(err)
	}

	w := &walker{
		engine:   e,
		page:     page,
		logger:   e.logger().With("job", job.Info().Name, "mode", string(job.Mode())),
		cascade:  e.cascade(),
		frontier: NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate),
		maxPages: job.Info().MaxPages,
	}

	return func(yield func(PageResult) bool) {
		defer func() {
			if err := page.Close(); err != nil {
				w.logger.Debug("close page", "err", err)
			}
		}()

		switch j := job.(type) {
		case *kbcrawl.SingleJob:
			w.single(ctx, j, yield)
		case *kbcrawl.PartialJob:
			w.partial(ctx, j, yield)
		case *kbcrawl.CrawlJob:
			w.crawl(ctx, j, yield)
		case *kbcrawl.LinkFollowJob:
			w.linkFollow(ctx, j, yield)
		}
	}, nil
}

// Run drains Walk, hands every item to sink and reports progress. A nil
// sink or progress is allowed. Sink rejections are counted and never stop
// the run. If ctx is canceled Run stops before the next page and returns
// the partial result with ctx.Err().
func (e *Engine) Run(ctx context.Context, job kbcrawl.Job, sink kbcrawl.Sink, progress ProgressFunc) (*Result, error) {
	seq, err := e.Walk(ctx, job)
	if err != nil {
		return nil, err
	}

	logger := e.logger()
	result := &Result{}
	completed := 0
	var fatal error

	for pr := range seq {
		completed++
		if pr.Err != nil {
			switch kbcrawl.ErrorCode(pr.Err) {
			case kbcrawl.ESESSION:
				fatal = pr.Err
			case kbcrawl.EEXTRACT:
				result.Dropped++
			default:
				result.Failed++
			}
			report(progress, ProgressEvent{Type: ProgressFailed, Completed: completed, URL: pr.URL, Error: pr.Err})
			if fatal != nil {
				break
			}
			continue
		}

		result.Items = append(result.Items, pr.Item)
		result.Bytes += len(pr.Item.Content)

		if sink != nil {
			entry := kbcrawl.NewEntry(job, pr.Item)
			entry.Metadata.ContentHash = ComputeHash(pr.Item.Content)
			if err := sink.Accept(ctx, entry); err != nil {
				result.Rejected++
				logger.Warn("sink rejected item", "url", pr.URL, "err", err)
			} else {
				result.Accepted++
			}
		}
		report(progress, ProgressEvent{Type: ProgressCompleted, Completed: completed, URL: pr.URL, Title: pr.Item.Title})
	}

	report(progress, ProgressEvent{Type: ProgressFinished, Completed: completed})

	if fatal != nil {
		return result, fatal
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// Categories renders url once and returns the texts of its links and buttons.
func (e *Engine) Categories(ctx context.Context, url string) ([]string, error) {
	if _, err := NormalizeURL(url); err != nil {
		return nil, err
	}
	if e.Links == nil {
		return nil, kbcrawl.Errorf(kbcrawl.EINVALID, "link extractor required")
	}

	page, err := e.Renderer.NewPage(ctx)
	if err != nil {
		return nil, sessionError(err)
	}
	defer func() { _ = page.Close() }()

	opts := e.RenderOptions
	opts.Wait = kbcrawl.WaitDOMContentLoaded
	snap, err := page.Render(ctx, url, opts)
	if err != nil {
		return nil, err
	}
	return e.Links.Categories(snap.HTML)
}

// validate rejects jobs that cannot start.
func (e *Engine) validate(job kbcrawl.Job) error {
	switch j := job.(type) {
	case *kbcrawl.PDFJob:
		return kbcrawl.Errorf(kbcrawl.ENOTIMPLEMENTED, "pdf mode is not implemented")
	case *kbcrawl.SingleJob:
		return e.Extractor.ValidateSelector(j.ContentSelector)
	case *kbcrawl.PartialJob:
		return e.Extractor.ValidateSelector(j.ContentSelector)
	case *kbcrawl.CrawlJob:
		if e.Links == nil {
			return kbcrawl.Errorf(kbcrawl.EINVALID, "link extractor required for %s mode", j.Mode())
		}
		if err := e.Extractor.ValidateSelector(j.ContentSelector); err != nil {
			return err
		}
		return e.Extractor.ValidateSelector(j.LinkSelector)
	case *kbcrawl.LinkFollowJob:
		return nil
	case nil:
		return kbcrawl.Errorf(kbcrawl.EINVALID, "job required")
	}
	return kbcrawl.Errorf(kbcrawl.EINVALID, "unsupported job type %T", job)
}

func (e *Engine) cascade() kbcrawl.Cascade {
	c := e.Cascade
	if len(c.Article) == 0 && len(c.Title) == 0 && len(c.Content) == 0 {
		return kbcrawl.DefaultCascade()
	}
	return c
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}

// sessionError marks a failure to obtain a page as a session failure unless
// it already carries a code.
func sessionError(err error) error {
	if kbcrawl.ErrorCode(err) != kbcrawl.EINTERNAL {
		return err
	}
	return kbcrawl.WrapError(kbcrawl.ESESSION, err, "open page")
}

func report(progress ProgressFunc, event ProgressEvent) {
	if progress != nil {
		progress(event)
	}
}
