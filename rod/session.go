// Package rod renders pages in headless Chrome using go-rod.
package rod

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/fwojciec/kbcrawl"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Default page setup.
const (
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
)

// DefaultBlockedResources are failed before they reach the network.
var DefaultBlockedResources = []proto.NetworkResourceType{
	proto.NetworkResourceTypeImage,
	proto.NetworkResourceTypeStylesheet,
	proto.NetworkResourceTypeFont,
	proto.NetworkResourceTypeMedia,
}

// Ensure SessionManager implements kbcrawl.Renderer at compile time.
var _ kbcrawl.Renderer = (*SessionManager)(nil)

// SessionManager owns one headless Chrome process shared by every page it
// hands out. The browser starts on first use and starts at most once.
//
// SessionManager is safe for concurrent use.
type SessionManager struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	closed   atomic.Bool

	bin       string
	noSandbox bool
	width     int
	height    int
	userAgent string
	blocked   map[proto.NetworkResourceType]bool
}

// Option configures a SessionManager.
type Option func(*SessionManager)

// WithBrowserBin sets the Chrome executable. By default rod looks one up.
func WithBrowserBin(path string) Option {
	return func(m *SessionManager) {
		m.bin = path
	}
}

// WithNoSandbox disables the Chrome sandbox, which containers often need.
func WithNoSandbox() Option {
	return func(m *SessionManager) {
		m.noSandbox = true
	}
}

// WithViewport sets the page viewport size.
func WithViewport(width, height int) Option {
	return func(m *SessionManager) {
		m.width = width
		m.height = height
	}
}

// WithUserAgent sets the user agent every page sends.
func WithUserAgent(ua string) Option {
	return func(m *SessionManager) {
		m.userAgent = ua
	}
}

// WithBlockedResources replaces the resource types that pages refuse to
// load. Passing none disables blocking.
func WithBlockedResources(types ...proto.NetworkResourceType) Option {
	return func(m *SessionManager) {
		m.blocked = resourceSet(types)
	}
}

// NewSessionManager creates a SessionManager. No browser is started until
// Open or NewPage is called. Close must be called when the session is no
// longer needed.
func NewSessionManager(opts ...Option) *SessionManager {
	m := &SessionManager{
		width:     DefaultViewportWidth,
		height:    DefaultViewportHeight,
		userAgent: kbcrawl.DefaultUserAgent,
		blocked:   resourceSet(DefaultBlockedResources),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open starts the browser if it is not running yet.
func (m *SessionManager) Open() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed.Load() {
		return kbcrawl.Errorf(kbcrawl.EINVALID, "session closed")
	}
	return m.ensureBrowser()
}

// NewPage opens a configured tab, starting the browser on first use.
// Calls are serialized. Returns EINVALID after Close and ESESSION if the
// browser cannot be started.
func (m *SessionManager) NewPage(ctx context.Context) (kbcrawl.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed.Load() {
		return nil, kbcrawl.Errorf(kbcrawl.EINVALID, "session closed")
	}
	if err := m.ensureBrowser(); err != nil {
		return nil, err
	}

	p, err := m.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, kbcrawl.WrapError(kbcrawl.ESESSION, err, "create page")
	}
	page, err := m.setupPage(p)
	if err != nil {
		_ = p.Close()
		return nil, kbcrawl.WrapError(kbcrawl.ESESSION, err, "configure page")
	}
	return page, nil
}

// Close shuts the browser down and kills its process. Close is safe to call
// multiple times and from a signal handler.
func (m *SessionManager) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var err error
	if m.browser != nil {
		err = m.browser.Close()
		m.browser = nil
	}
	if m.launcher != nil {
		m.launcher.Kill()
		m.launcher = nil
	}
	return err
}

// LauncherPID returns the process ID of the browser launcher, or zero
// before launch and after Close.
func (m *SessionManager) LauncherPID() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.launcher == nil {
		return 0
	}
	return m.launcher.PID()
}

// ensureBrowser launches and connects Chrome with stability flags.
// Must be called with mu held.
func (m *SessionManager) ensureBrowser() error {
	if m.browser != nil {
		return nil
	}

	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Set("disable-gpu").
		Leakless(true).
		Headless(true)
	if m.bin != "" {
		l = l.Bin(m.bin)
	}
	if m.noSandbox {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return kbcrawl.WrapError(kbcrawl.ESESSION, err, "launch browser")
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return kbcrawl.WrapError(kbcrawl.ESESSION, err, "connect to browser")
	}

	m.browser = browser
	m.launcher = l
	return nil
}

// setupPage applies viewport, user agent and resource blocking to p.
func (m *SessionManager) setupPage(p *rod.Page) (*Page, error) {
	if err := p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             m.width,
		Height:            m.height,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, err
	}
	if err := p.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: m.userAgent}); err != nil {
		return nil, err
	}

	page := &Page{page: p}
	if len(m.blocked) == 0 {
		return page, nil
	}

	router := p.HijackRequests()
	blocked := m.blocked
	if err := router.Add("*", "", func(h *rod.Hijack) {
		if blocked[h.Request.Type()] {
			h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		h.ContinueRequest(&proto.FetchContinueRequest{})
	}); err != nil {
		return nil, err
	}
	go router.Run()
	page.router = router
	return page, nil
}

func resourceSet(types []proto.NetworkResourceType) map[proto.NetworkResourceType]bool {
	set := make(map[proto.NetworkResourceType]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return set
}
