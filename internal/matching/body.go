package matching

import (
	"regexp"
	"strings"

	"github.com/getmockd/mocktrip/pkg/mock"
)

// MatchBody evaluates the matcher's textual body criteria. Equals, contains
// and pattern criteria can be combined; all configured ones must match.
func MatchBody(m *mock.RequestMatcher, body []byte) bool {
	if m.BodyEquals != "" && string(body) != m.BodyEquals {
		return false
	}

	if m.BodyContains != "" && !strings.Contains(string(body), m.BodyContains) {
		return false
	}

	if m.BodyPattern != "" {
		matched, err := regexp.Match(m.BodyPattern, body)
		if err != nil || !matched {
			return false
		}
	}

	return true
}
