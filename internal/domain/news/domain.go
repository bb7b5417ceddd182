package news

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Domain extracts the registrable domain from a URL, so that
// m.reuters.com and www.reuters.com both resolve to the reuters.com
// trust entry. Returns "" when no host can be extracted.
func Domain(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	if etld, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return etld
	}
	return strings.TrimPrefix(host, "www.")
}
