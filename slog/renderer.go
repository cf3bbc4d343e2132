// Package slog decorates renderers and sinks with structured logging.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/kbcrawl"
)

// Ensure the decorators implement their interfaces.
var (
	_ kbcrawl.Renderer = (*LoggingRenderer)(nil)
	_ kbcrawl.Page     = (*LoggingPage)(nil)
)

// LoggingRenderer wraps a Renderer so every page it opens logs renders.
type LoggingRenderer struct {
	next   kbcrawl.Renderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next kbcrawl.Renderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// NewPage opens a page on the wrapped renderer and wraps it.
func (r *LoggingRenderer) NewPage(ctx context.Context) (kbcrawl.Page, error) {
	page, err := r.next.NewPage(ctx)
	if err != nil {
		r.logger.Error("open page", "err", err)
		return nil, err
	}
	return NewLoggingPage(page, r.logger), nil
}

// Close delegates to the wrapped renderer.
func (r *LoggingRenderer) Close() error {
	return r.next.Close()
}

// LoggingPage wraps a Page with debug logging.
type LoggingPage struct {
	next   kbcrawl.Page
	logger *slog.Logger
}

// NewLoggingPage creates a new LoggingPage.
func NewLoggingPage(next kbcrawl.Page, logger *slog.Logger) *LoggingPage {
	return &LoggingPage{next: next, logger: logger}
}

// Render logs the URL, document size, link count and duration.
func (p *LoggingPage) Render(ctx context.Context, url string, opts kbcrawl.RenderOptions) (snap *kbcrawl.Snapshot, err error) {
	defer func(begin time.Time) {
		var bytes, links int
		if snap != nil {
			bytes, links = len(snap.HTML), len(snap.Links)
		}
		p.logger.Info("render",
			"url", url,
			"bytes", bytes,
			"links", links,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Render(ctx, url, opts)
}

// Close delegates to the wrapped page.
func (p *LoggingPage) Close() error {
	return p.next.Close()
}
