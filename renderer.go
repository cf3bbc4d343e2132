package kbcrawl

import (
	"context"
	"time"
)

// DefaultNavigationTimeout bounds a single page render.
const DefaultNavigationTimeout = 30 * time.Second

// DefaultUserAgent is sent by every renderer.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// WaitPolicy decides when a navigation counts as loaded.
type WaitPolicy int

// Wait policies.
const (
	WaitLoad WaitPolicy = iota
	WaitDOMContentLoaded
	WaitNetworkIdle
)

// String returns the policy name.
func (w WaitPolicy) String() string {
	switch w {
	case WaitDOMContentLoaded:
		return "domcontentloaded"
	case WaitNetworkIdle:
		return "networkidle"
	default:
		return "load"
	}
}

// ParseWaitPolicy converts a policy name into a WaitPolicy.
func ParseWaitPolicy(s string) (WaitPolicy, error) {
	switch s {
	case "", "load":
		return WaitLoad, nil
	case "domcontentloaded":
		return WaitDOMContentLoaded, nil
	case "networkidle":
		return WaitNetworkIdle, nil
	}
	return WaitLoad, Errorf(EINVALID, "unknown wait policy %q", s)
}

// RenderOptions controls a single navigation.
type RenderOptions struct {
	// Timeout bounds navigation and waiting. Zero means DefaultNavigationTimeout.
	Timeout time.Duration

	Wait WaitPolicy

	// Settle is an extra pause after the wait policy is satisfied.
	Settle time.Duration
}

// NavigationTimeout returns the effective timeout.
func (o RenderOptions) NavigationTimeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultNavigationTimeout
	}
	return o.Timeout
}

// Snapshot is the state of a page after rendering.
type Snapshot struct {
	// URL is the final address after redirects.
	URL  string
	HTML string

	// Links holds absolute same-host anchor targets collected in the page.
	// Renderers that cannot evaluate scripts leave it empty.
	Links []string
}

// Renderer owns a browser session and hands out pages.
type Renderer interface {
	// NewPage opens a page in the session, starting the session on first use.
	// Returns ESESSION if the session cannot be started.
	NewPage(ctx context.Context) (Page, error)

	// Close releases the session. It is safe to call more than once.
	Close() error
}

// Page is one browser tab. A page performs one navigation at a time.
type Page interface {
	// Render navigates to url and returns the rendered document.
	// Returns ENAVIGATION on timeout or network failure.
	Render(ctx context.Context, url string, opts RenderOptions) (*Snapshot, error)

	Close() error
}
