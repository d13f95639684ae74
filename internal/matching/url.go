package matching

import (
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/getmockd/mocktrip/pkg/mock"
)

// MatchURL tests the matcher's URL criteria against the absolute request URL.
// A matcher with no URL criteria matches any URL. When several criteria are
// set, all must succeed.
func MatchURL(m *mock.RequestMatcher, u *url.URL) bool {
	if m.URL == "" && m.URLPrefix == "" && m.URLPattern == "" && m.URLGlob == "" {
		return true
	}

	abs := u.String()

	if m.URL != "" && !matchExactURL(m.URL, u) {
		return false
	}

	if m.URLPrefix != "" && !strings.HasPrefix(abs, m.URLPrefix) {
		return false
	}

	if m.URLPattern != "" {
		matched, err := regexp.MatchString(m.URLPattern, abs)
		if err != nil || !matched {
			return false
		}
	}

	if m.URLGlob != "" {
		matched, err := doublestar.Match(m.URLGlob, abs)
		if err != nil || !matched {
			return false
		}
	}

	return true
}

// matchExactURL compares scheme, host, path and query parameters. The empty
// path and "/" are equivalent, so "https://example.org" matches a request
// for "https://example.org/".
func matchExactURL(pattern string, u *url.URL) bool {
	p, err := url.Parse(pattern)
	if err != nil {
		return false
	}

	if !strings.EqualFold(p.Scheme, u.Scheme) || !strings.EqualFold(p.Host, u.Host) {
		return false
	}

	if normalizePath(p.Path) != normalizePath(u.Path) {
		return false
	}

	// Query parameter order is not significant.
	return reflect.DeepEqual(p.Query(), u.Query())
}

func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
