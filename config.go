package kbcrawl

import (
	"net/url"
	"strings"
)

// Mode selects the traversal strategy for a scrape job.
type Mode string

// Supported traversal modes.
const (
	ModeSingle     Mode = "single"
	ModePartial    Mode = "partial"
	ModeCrawl      Mode = "crawl"
	ModeLinkFollow Mode = "link-follow"
	ModePDF        Mode = "pdf"
)

// DefaultLinkFollowMaxPages caps link-follow jobs that set no page budget.
const DefaultLinkFollowMaxPages = 100

// ParseMode converts a mode name into a Mode.
// An empty name selects link-follow.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ModeLinkFollow), "linkfollow":
		return ModeLinkFollow, nil
	case string(ModeSingle):
		return ModeSingle, nil
	case string(ModePartial):
		return ModePartial, nil
	case string(ModeCrawl):
		return ModeCrawl, nil
	case string(ModePDF):
		return ModePDF, nil
	}
	return "", Errorf(EINVALID, "unknown mode %q", s)
}

// SourceType classifies the content a job produces.
type SourceType string

// Supported source types.
const (
	SourceBlog  SourceType = "blog"
	SourceGuide SourceType = "guide"
	SourceBook  SourceType = "book"
)

// ParseSourceType converts a source type name into a SourceType.
// An empty name selects blog.
func ParseSourceType(s string) (SourceType, error) {
	switch SourceType(strings.ToLower(strings.TrimSpace(s))) {
	case "", SourceBlog:
		return SourceBlog, nil
	case SourceGuide:
		return SourceGuide, nil
	case SourceBook:
		return SourceBook, nil
	}
	return "", Errorf(EINVALID, "unknown source type %q", s)
}

// ScrapeConfig is a job request as submitted by a caller.
// Use NewJob to validate it and obtain a runnable Job.
type ScrapeConfig struct {
	URL             string `json:"url" yaml:"url"`
	Mode            string `json:"mode" yaml:"mode"`
	SourceType      string `json:"sourceType" yaml:"source_type"`
	ContentSelector string `json:"contentSelector" yaml:"content_selector"`
	LinkSelector    string `json:"linkSelector" yaml:"link_selector"`
	MaxPages        int    `json:"maxPages" yaml:"max_pages"`
	Name            string `json:"name" yaml:"name"`
}

// JobInfo holds the fields shared by every job variant.
type JobInfo struct {
	// URL is the absolute seed URL.
	URL string

	// Host is the seed hostname. Crawl and link-follow never leave it.
	Host string

	// Name labels every item the job produces.
	Name string

	SourceType SourceType

	// MaxPages bounds the number of linked pages a crawl or link-follow job
	// visits after the seed. Zero means unbounded. Single and partial jobs
	// always render exactly one page.
	MaxPages int
}

// Info returns the shared job fields.
func (j JobInfo) Info() JobInfo { return j }

// Job is a validated scrape request. The concrete type is one of
// *SingleJob, *PartialJob, *CrawlJob, *LinkFollowJob or *PDFJob, and carries
// only the fields its mode needs.
type Job interface {
	Mode() Mode
	Info() JobInfo
}

// SingleJob extracts one item from the first ContentSelector match on the seed.
type SingleJob struct {
	JobInfo
	ContentSelector string
}

// Mode implements Job.
func (*SingleJob) Mode() Mode { return ModeSingle }

// PartialJob extracts one item per ContentSelector match on the seed.
type PartialJob struct {
	JobInfo
	ContentSelector string
}

// Mode implements Job.
func (*PartialJob) Mode() Mode { return ModePartial }

// CrawlJob follows LinkSelector links from the seed and extracts one item
// from each linked page using ContentSelector.
type CrawlJob struct {
	JobInfo
	ContentSelector string
	LinkSelector    string
}

// Mode implements Job.
func (*CrawlJob) Mode() Mode { return ModeCrawl }

// LinkFollowJob follows every same-host link on the seed and extracts each
// linked page with the default selector cascade.
type LinkFollowJob struct {
	JobInfo
}

// Mode implements Job.
func (*LinkFollowJob) Mode() Mode { return ModeLinkFollow }

// PDFJob is recognized but cannot run yet.
type PDFJob struct {
	JobInfo
}

// Mode implements Job.
func (*PDFJob) Mode() Mode { return ModePDF }

// NewJob validates cfg and returns the job variant for its mode.
func NewJob(cfg ScrapeConfig) (Job, error) {
	info, err := newJobInfo(cfg)
	if err != nil {
		return nil, err
	}
	mode, err := ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(cfg.ContentSelector)
	links := strings.TrimSpace(cfg.LinkSelector)

	switch mode {
	case ModeSingle:
		if content == "" {
			return nil, Errorf(EINVALID, "content selector required for %s mode", mode)
		}
		info.MaxPages = 1
		return &SingleJob{JobInfo: info, ContentSelector: content}, nil
	case ModePartial:
		if content == "" {
			return nil, Errorf(EINVALID, "content selector required for %s mode", mode)
		}
		info.MaxPages = 1
		return &PartialJob{JobInfo: info, ContentSelector: content}, nil
	case ModeCrawl:
		if content == "" {
			return nil, Errorf(EINVALID, "content selector required for %s mode", mode)
		}
		if links == "" {
			return nil, Errorf(EINVALID, "link selector required for %s mode", mode)
		}
		return &CrawlJob{JobInfo: info, ContentSelector: content, LinkSelector: links}, nil
	case ModePDF:
		return &PDFJob{JobInfo: info}, nil
	default:
		if info.MaxPages == 0 {
			info.MaxPages = DefaultLinkFollowMaxPages
		}
		return &LinkFollowJob{JobInfo: info}, nil
	}
}

func newJobInfo(cfg ScrapeConfig) (JobInfo, error) {
	raw := strings.TrimSpace(cfg.URL)
	if raw == "" {
		return JobInfo{}, Errorf(EINVALID, "url required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return JobInfo{}, Errorf(EINVALID, "invalid url %q: %v", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return JobInfo{}, Errorf(EINVALID, "url must use http or https: %q", raw)
	}
	if u.Hostname() == "" {
		return JobInfo{}, Errorf(EINVALID, "url must include a host: %q", raw)
	}
	if cfg.MaxPages < 0 {
		return JobInfo{}, Errorf(EINVALID, "max pages must not be negative")
	}
	st, err := ParseSourceType(cfg.SourceType)
	if err != nil {
		return JobInfo{}, err
	}

	host := strings.ToLower(u.Hostname())
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = host
	}

	return JobInfo{
		URL:        u.String(),
		Host:       host,
		Name:       name,
		SourceType: st,
		MaxPages:   cfg.MaxPages,
	}, nil
}
