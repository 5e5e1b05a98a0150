package openaiasr

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultHost    = "api.openai.com"
)

// AllowedHosts is the set of hosts the API key may be sent to.
// An empty set allows only the public OpenAI endpoint.
type AllowedHosts map[string]struct{}

// ParseAllowedHosts reads a comma separated OPENAI_ALLOWED_HOSTS value.
// Entries may carry a scheme, port or trailing slash; only the host is kept.
func ParseAllowedHosts(s string) AllowedHosts {
	hosts := AllowedHosts{}
	for _, h := range strings.Split(s, ",") {
		h = strings.ToLower(strings.TrimSpace(h))
		h = strings.TrimPrefix(h, "http://")
		h = strings.TrimPrefix(h, "https://")
		h = strings.Trim(h, "/")
		if i := strings.IndexAny(h, ":/"); i >= 0 {
			h = h[:i]
		}
		if h != "" {
			hosts[h] = struct{}{}
		}
	}
	return hosts
}

func (h AllowedHosts) Allows(host string) bool {
	host = strings.ToLower(host)
	if len(h) == 0 {
		return host == defaultHost
	}
	_, ok := h[host]
	return ok
}

func normalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return strings.TrimRight(baseURL, "/")
}

// ValidateBaseURL rejects endpoints the API key must not be sent to:
// anything but absolute https URLs on an allowed host, without userinfo,
// query or fragment.
func ValidateBaseURL(baseURL string, hosts AllowedHosts) error {
	baseURL = normalizeBaseURL(baseURL)
	invalid := func(reason string) error {
		return fmt.Errorf("invalid OPENAI_BASE_URL %q: %s", baseURL, reason)
	}

	u, err := url.Parse(baseURL)
	switch {
	case err != nil:
		return fmt.Errorf("invalid OPENAI_BASE_URL: %w", err)
	case !u.IsAbs() || u.Host == "":
		return invalid("absolute URL with host is required")
	case u.User != nil:
		return invalid("userinfo is not allowed")
	case u.RawQuery != "" || u.Fragment != "":
		return invalid("query and fragment are not allowed")
	case !strings.EqualFold(u.Scheme, "https"):
		return invalid("https is required")
	case !hosts.Allows(u.Hostname()):
		return invalid(fmt.Sprintf("host %q is not in OPENAI_ALLOWED_HOSTS", strings.ToLower(u.Hostname())))
	}
	return nil
}
