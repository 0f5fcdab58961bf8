package reconcile

import (
	"net/url"
	"strings"
)

// ExtractDomain returns the lowercased host of rawURL without a leading "www.".
// Unparsable input yields "", which matches nothing.
func ExtractDomain(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}
