package helpers

import (
	"net/url"
	"strings"
)

// NormalizeURL trims the input and prefixes https:// when no scheme is present.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	if !strings.Contains(raw, "://") {
		return "https://" + strings.TrimPrefix(raw, "//")
	}
	return raw
}

// Host returns the lower-cased host (with port, if any) of rawURL, or "" when it
// cannot be parsed.
func Host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

// ResolveURL resolves ref against base. It returns "" for empty references and
// ref unchanged when either side cannot be parsed.
func ResolveURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}

// IsHTTPURL reports whether rawURL is an absolute http(s) URL.
func IsHTTPURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
