package matching

import (
	"net/http"
	"net/url"
	"strings"
)

// MatchHeaderPattern checks if a request header matches an expected value.
// Header names are case-insensitive. Values support simple wildcard forms:
// prefix ("Bearer *"), suffix ("*.example.org") and contains ("*token*").
func MatchHeaderPattern(name, pattern string, headers http.Header) bool {
	actual := headers.Get(name)
	if actual == "" {
		return false
	}

	if !strings.Contains(pattern, "*") {
		return actual == pattern
	}

	switch {
	case strings.HasSuffix(pattern, "*") && !strings.HasPrefix(pattern, "*"):
		return strings.HasPrefix(actual, strings.TrimSuffix(pattern, "*"))
	case strings.HasPrefix(pattern, "*") && !strings.HasSuffix(pattern, "*"):
		return strings.HasSuffix(actual, strings.TrimPrefix(pattern, "*"))
	case strings.HasPrefix(pattern, "*") && strings.HasSuffix(pattern, "*"):
		return strings.Contains(actual, strings.Trim(pattern, "*"))
	}

	return false
}

// MatchQueryParam checks if a specific query parameter has the expected value.
func MatchQueryParam(name, expected string, params url.Values) bool {
	return params.Get(name) == expected
}
