package matching

import (
	"net/http"
	"strings"

	"github.com/getmockd/mocktrip/pkg/mock"
)

// Matches reports whether the request satisfies every criterion configured on
// the matcher. The request body is passed separately so the caller can rewind
// the original stream.
func Matches(m *mock.RequestMatcher, r *http.Request, body []byte) bool {
	if m == nil {
		return false
	}

	if m.Method != "" && !strings.EqualFold(m.Method, r.Method) {
		return false
	}

	if m.Predicate != nil && !m.Predicate(r) {
		return false
	}

	if !MatchURL(m, r.URL) {
		return false
	}

	for name, value := range m.Headers {
		if !MatchHeaderPattern(name, value, r.Header) {
			return false
		}
	}

	for name, value := range m.QueryParams {
		if !MatchQueryParam(name, value, r.URL.Query()) {
			return false
		}
	}

	if !MatchBody(m, body) {
		return false
	}

	if len(m.BodyJSONPath) > 0 && !MatchJSONPath(m.BodyJSONPath, body) {
		return false
	}

	if m.Expr != "" && !MatchExpr(m.Expr, r, body) {
		return false
	}

	return true
}
