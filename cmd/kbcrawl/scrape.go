package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fwojciec/kbcrawl"
	"github.com/fwojciec/kbcrawl/crawl"
	"github.com/fwojciec/kbcrawl/fs"
	"github.com/fwojciec/kbcrawl/goquery"
	"github.com/fwojciec/kbcrawl/htmltomarkdown"
	"github.com/fwojciec/kbcrawl/readability"
	kbslog "github.com/fwojciec/kbcrawl/slog"
	"github.com/fwojciec/kbcrawl/sqlite"
	"github.com/fwojciec/kbcrawl/trafilatura"
	"github.com/fwojciec/kbcrawl/yaml"
	"golang.org/x/sync/errgroup"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	configs, err := c.configs()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", kbcrawl.ErrorMessage(err))
		return err
	}

	jobs := make([]kbcrawl.Job, 0, len(configs))
	for _, cfg := range configs {
		job, err := kbcrawl.NewJob(cfg)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", kbcrawl.ErrorMessage(err))
			return err
		}
		jobs = append(jobs, job)
	}

	engine, err := c.engine(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", kbcrawl.ErrorMessage(err))
		return err
	}

	// Jobs are independent: one failing job does not cancel the others.
	out := &syncWriter{deps: deps}
	var g errgroup.Group
	g.SetLimit(max(c.Concurrency, 1))
	for _, job := range jobs {
		g.Go(func() error {
			return c.runJob(deps.Ctx, deps, engine, job, out)
		})
	}
	return g.Wait()
}

// configs collects the jobs named by the job file, presets and URL flags,
// in that order.
func (c *ScrapeCmd) configs() ([]kbcrawl.ScrapeConfig, error) {
	var configs []kbcrawl.ScrapeConfig

	if c.Jobs != "" {
		fromFile, err := yaml.LoadJobs(c.Jobs)
		if err != nil {
			return nil, err
		}
		configs = append(configs, fromFile...)
	}

	for _, id := range c.Preset {
		p, err := yaml.FindPreset(id)
		if err != nil {
			return nil, err
		}
		cfg := p.Config
		if c.MaxPages > 0 {
			cfg.MaxPages = c.MaxPages
		}
		configs = append(configs, cfg)
	}

	if c.URL != "" {
		configs = append(configs, kbcrawl.ScrapeConfig{
			URL:             c.URL,
			Mode:            c.Mode,
			SourceType:      c.SourceType,
			ContentSelector: c.ContentSelector,
			LinkSelector:    c.LinkSelector,
			MaxPages:        c.MaxPages,
			Name:            c.Name,
		})
	}

	if len(configs) == 0 {
		return nil, kbcrawl.Errorf(kbcrawl.EINVALID, "nothing to scrape: pass a URL, --jobs or --preset")
	}
	return configs, nil
}

// engine wires the traversal engine from flags.
func (c *ScrapeCmd) engine(deps *Dependencies) (*crawl.Engine, error) {
	wait, err := kbcrawl.ParseWaitPolicy(c.Wait)
	if err != nil {
		return nil, err
	}

	e := &crawl.Engine{
		Renderer:  deps.Renderer,
		Extractor: goquery.NewExtractor(),
		Converter: htmltomarkdown.NewConverter(),
		Links:     goquery.NewLinkExtractor(),
		RenderOptions: kbcrawl.RenderOptions{
			Timeout: c.Timeout,
			Wait:    wait,
			Settle:  c.Settle,
		},
		Logger: deps.Logger,
	}
	switch c.Fallback {
	case "trafilatura":
		e.Fallback = trafilatura.NewExtractor()
	case "readability":
		e.Fallback = readability.NewExtractor()
	}
	if c.RPS > 0 {
		e.Limiter = crawl.NewDomainLimiter(c.RPS)
	}
	for i := 0; i < c.Retries; i++ {
		e.RetryDelays = append(e.RetryDelays, c.RetryDelay)
	}
	return e, nil
}

// runJob runs one job into its sink. Only fatal errors are returned; page
// failures are reported and counted.
func (c *ScrapeCmd) runJob(ctx context.Context, deps *Dependencies, engine *crawl.Engine, job kbcrawl.Job, out *syncWriter) error {
	info := job.Info()
	out.Stdoutf("Scraping %s (%s) %s\n", info.Name, job.Mode(), info.URL)

	sink, finish, err := c.sink(ctx, deps, job)
	if err != nil {
		out.Stderrf("error: %s: %s\n", info.Name, kbcrawl.ErrorMessage(err))
		return err
	}

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressCompleted:
			out.Stdoutf("  [%d] %s\n", event.Completed, crawl.TruncateURL(event.URL, 80))
		case crawl.ProgressFailed:
			out.Stderrf("  skip %s: %s\n", event.URL, kbcrawl.ErrorMessage(event.Error))
		}
	}

	begin := time.Now()
	result, runErr := engine.Run(ctx, job, kbslog.NewLoggingSink(sink, deps.Logger), progress)
	if err := finish(runErr); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		out.Stderrf("error: %s: %v\n", info.Name, runErr)
		return runErr
	}

	out.Stdoutf("  %s: %d items (%s), %d stored, %d rejected, %d failed, %d dropped in %s\n",
		info.Name, len(result.Items), crawl.FormatBytes(result.Bytes),
		result.Accepted, result.Rejected, result.Failed, result.Dropped,
		time.Since(begin).Round(time.Millisecond))
	return nil
}

// sink returns the destination for job and a function that finalizes it
// once the run ends with the given error.
func (c *ScrapeCmd) sink(ctx context.Context, deps *Dependencies, job kbcrawl.Job) (kbcrawl.Sink, func(error) error, error) {
	if c.Out != "" {
		s := fs.NewSink(c.Out, job.Info().Name)
		return s, func(err error) error {
			if err != nil {
				return s.Abort()
			}
			return s.Commit()
		}, nil
	}

	name := c.KB
	if name == "" {
		name = job.Info().Name
	}
	kb, err := findOrCreateKB(ctx, deps.KnowledgeBases, name)
	if err != nil {
		return nil, nil, err
	}
	return sqlite.NewSink(deps.Entries, kb.ID), func(error) error { return nil }, nil
}

// findOrCreateKB returns the knowledge base called name, creating it when
// missing.
func findOrCreateKB(ctx context.Context, kbs kbcrawl.KnowledgeBaseService, name string) (*kbcrawl.KnowledgeBase, error) {
	found, err := kbs.FindKnowledgeBases(ctx, kbcrawl.KnowledgeBaseFilter{Name: &name, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(found) > 0 {
		return found[0], nil
	}

	kb := &kbcrawl.KnowledgeBase{Name: name}
	err = kbs.CreateKnowledgeBase(ctx, kb)
	if kbcrawl.ErrorCode(err) == kbcrawl.ECONFLICT {
		// Another job created it first.
		found, err = kbs.FindKnowledgeBases(ctx, kbcrawl.KnowledgeBaseFilter{Name: &name, Limit: 1})
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, kbcrawl.Errorf(kbcrawl.ECONFLICT, "knowledge base %q is unavailable", name)
		}
		return found[0], nil
	}
	if err != nil {
		return nil, err
	}
	return kb, nil
}

// syncWriter serializes output from concurrent jobs.
type syncWriter struct {
	mu   sync.Mutex
	deps *Dependencies
}

func (w *syncWriter) Stdoutf(format string, args ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.deps.Stdout, format, args...)
}

func (w *syncWriter) Stderrf(format string, args ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.deps.Stderr, format, args...)
}
