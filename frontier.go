package kbcrawl

import "context"

// URLFrontier is a FIFO crawl queue with exact deduplication.
type URLFrontier interface {
	// Push queues a URL. Returns false if the URL was already seen.
	Push(url string) bool

	// Pop returns the oldest queued URL.
	// Returns false if the frontier is empty.
	Pop() (string, bool)

	// Len returns the number of URLs in the queue.
	Len() int

	// Seen returns true if the URL has been visited or queued.
	Seen(url string) bool
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
