package crawl

import (
	"net/url"
	"path"
	"strings"

	"github.com/fwojciec/kbcrawl"
)

// trackingParams are query parameters that never change page content.
var trackingParams = map[string]struct{}{
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_term":     {},
	"utm_content":  {},
	"fbclid":       {},
	"gclid":        {},
}

var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
}

// NormalizeURL returns the form of rawURL used for deduplication: lowercase
// scheme and host, no default port, no fragment, no tracking parameters,
// dot segments resolved, and no trailing slash except at the root.
func NormalizeURL(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", kbcrawl.Errorf(kbcrawl.EINVALID, "invalid url %q: %v", rawURL, err)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", kbcrawl.Errorf(kbcrawl.EINVALID, "unsupported url scheme %q", rawURL)
	}
	if u.Hostname() == "" {
		return "", kbcrawl.Errorf(kbcrawl.EINVALID, "url has no host: %q", rawURL)
	}

	host := strings.ToLower(u.Hostname())
	if port := u.Port(); port != "" && port != defaultPorts[u.Scheme] {
		host = host + ":" + port
	}
	u.Host = host
	u.User = nil
	u.Fragment = ""
	u.RawFragment = ""

	if u.Path == "" {
		u.Path = "/"
	} else {
		cleaned := path.Clean(u.Path)
		if cleaned == "." {
			cleaned = "/"
		}
		u.Path = cleaned
	}
	u.RawPath = ""

	if u.RawQuery != "" {
		q := u.Query()
		for p := range trackingParams {
			q.Del(p)
		}
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

// hostname returns the lowercase hostname of rawURL, or "" if it has none.
func hostname(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
