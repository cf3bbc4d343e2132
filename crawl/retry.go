package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/kbcrawl"
)

// RenderFunc is the signature for a render function.
type RenderFunc func(ctx context.Context, url string) (*kbcrawl.Snapshot, error)

// DefaultRetryDelays returns the backoff delays used by the CLI: one retry after 1s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second}
}

// RenderWithRetry calls render and retries failures after each of delays.
// Session errors and context cancellation are not retried.
func RenderWithRetry(ctx context.Context, url string, render RenderFunc, logger *slog.Logger, delays []time.Duration) (*kbcrawl.Snapshot, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		snap, err := render(ctx, url)
		if err == nil {
			return snap, nil
		}
		lastErr = err

		if kbcrawl.ErrorCode(err) == kbcrawl.ESESSION || attempt >= maxAttempts-1 {
			break
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if logger != nil {
			logger.Debug("retry render", "url", url, "attempt", attempt+2, "err", err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}
