package crawl

import (
	"context"
	"strings"
	"sync"

	"github.com/fwojciec/kbcrawl"
	"golang.org/x/time/rate"
)

var _ kbcrawl.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter paces page loads per host with token buckets. Jobs that
// share a limiter share the budget for hosts they have in common.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewDomainLimiter creates a DomainLimiter allowing rps loads per second per
// host with no bursting. A non-positive rps disables pacing.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until the host may be loaded again. Host names are compared
// case-insensitively. Returns an error if the context is canceled first.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if d.rps <= 0 {
		return ctx.Err()
	}
	domain = strings.ToLower(domain)

	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
