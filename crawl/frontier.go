package crawl

import (
	"sync"

	"github.com/fwojciec/kbcrawl"
	"github.com/fwojciec/kbcrawl/bloom"
)

// Compile-time interface verification.
var _ kbcrawl.URLFrontier = (*Frontier)(nil)

// Frontier is a FIFO URL queue that admits each URL once. Dedup compares
// normalized forms; the queue keeps URLs exactly as they were pushed.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Set
	queue []string
}

// NewFrontier creates a new Frontier sized for n expected URLs
// with the given Bloom filter false positive rate.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{
		seen: bloom.NewSet(n, fpRate),
	}
}

// Push queues url unless its normalized form has been seen.
// Returns false if the URL is invalid or has already been seen.
func (f *Frontier) Push(url string) bool {
	normalized, err := NormalizeURL(url)
	if err != nil {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.seen.Add(normalized) {
		return false
	}
	f.queue = append(f.queue, url)
	return true
}

// Pop returns the oldest queued URL as it was pushed.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return "", false
	}
	url := f.queue[0]
	f.queue[0] = ""
	f.queue = f.queue[1:]
	return url, true
}

// Len returns the number of URLs in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen returns true if the URL has been popped or is still queued.
func (f *Frontier) Seen(url string) bool {
	normalized, err := NormalizeURL(url)
	if err != nil {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Has(normalized)
}
