package slog

import (
	"context"
	"log/slog"

	"github.com/fwojciec/kbcrawl"
)

// Ensure LoggingSink implements kbcrawl.Sink.
var _ kbcrawl.Sink = (*LoggingSink)(nil)

// LoggingSink wraps a Sink and logs every entry it is handed.
type LoggingSink struct {
	next   kbcrawl.Sink
	logger *slog.Logger
}

// NewLoggingSink creates a new LoggingSink.
func NewLoggingSink(next kbcrawl.Sink, logger *slog.Logger) *LoggingSink {
	return &LoggingSink{next: next, logger: logger}
}

// Accept delegates to the wrapped sink. Rejections log at Warn.
func (s *LoggingSink) Accept(ctx context.Context, entry *kbcrawl.Entry) (err error) {
	defer func() {
		if err != nil {
			s.logger.Warn("accept", "url", entry.SourceURL, "title", entry.Title, "err", err)
			return
		}
		s.logger.Debug("accept", "url", entry.SourceURL, "title", entry.Title)
	}()
	return s.next.Accept(ctx, entry)
}
