package matching

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/getmockd/mocktrip/pkg/mock"
)

func newRequest(t *testing.T, method, url string) *http.Request {
	t.Helper()
	r, err := http.NewRequest(method, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	return r
}

func TestMatches_Method(t *testing.T) {
	tests := []struct {
		name    string
		matcher string
		request string
		want    bool
	}{
		{"exact", "GET", "GET", true},
		{"case insensitive", "get", "GET", true},
		{"mismatch", "POST", "GET", false},
		{"any method", "", "DELETE", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mock.RequestMatcher{Method: tt.matcher}
			r := newRequest(t, tt.request, "https://example.org/")
			if got := Matches(m, r, nil); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatches_NilMatcher(t *testing.T) {
	r := newRequest(t, "GET", "https://example.org/")
	if Matches(nil, r, nil) {
		t.Error("nil matcher must not match")
	}
}

func TestMatchURL_Exact(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		url     string
		want    bool
	}{
		{"identical", "https://example.org/path", "https://example.org/path", true},
		{"root slash equivalence", "https://example.org", "https://example.org/", true},
		{"host case insensitive", "https://EXAMPLE.org/", "https://example.org/", true},
		{"different path", "https://example.org/a", "https://example.org/b", false},
		{"different host", "https://example.org/", "https://example.com/", false},
		{"query order irrelevant", "https://example.org/?a=1&b=2", "https://example.org/?b=2&a=1", true},
		{"query mismatch", "https://example.org/?a=1", "https://example.org/?a=2", false},
		{"missing query", "https://example.org/", "https://example.org/?a=1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mock.RequestMatcher{URL: tt.pattern}
			r := newRequest(t, "GET", tt.url)
			if got := MatchURL(m, r.URL); got != tt.want {
				t.Errorf("MatchURL(%q, %q) = %v, want %v", tt.pattern, tt.url, got, tt.want)
			}
		})
	}
}

func TestMatchURL_PrefixPatternGlob(t *testing.T) {
	tests := []struct {
		name    string
		matcher mock.RequestMatcher
		url     string
		want    bool
	}{
		{"prefix hit", mock.RequestMatcher{URLPrefix: "https://api.example.org/v1/"}, "https://api.example.org/v1/users", true},
		{"prefix miss", mock.RequestMatcher{URLPrefix: "https://api.example.org/v2/"}, "https://api.example.org/v1/users", false},
		{"regex hit", mock.RequestMatcher{URLPattern: `https://example\.org/users/\d+`}, "https://example.org/users/42", true},
		{"regex miss", mock.RequestMatcher{URLPattern: `https://example\.org/users/\d+`}, "https://example.org/users/abc", false},
		{"glob hit", mock.RequestMatcher{URLGlob: "https://api.example.org/**"}, "https://api.example.org/v1/users/42", true},
		{"glob miss", mock.RequestMatcher{URLGlob: "https://api.example.org/v1/*"}, "https://api.example.org/v2/users", false},
		{"no criteria matches all", mock.RequestMatcher{}, "https://anything.example/", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRequest(t, "GET", tt.url)
			if got := MatchURL(&tt.matcher, r.URL); got != tt.want {
				t.Errorf("MatchURL() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchHeaderPattern(t *testing.T) {
	headers := http.Header{}
	headers.Set("Authorization", "Bearer abc123")
	headers.Set("Accept", "application/json")

	tests := []struct {
		name    string
		header  string
		pattern string
		want    bool
	}{
		{"exact", "Accept", "application/json", true},
		{"exact mismatch", "Accept", "text/html", false},
		{"case-insensitive name", "accept", "application/json", true},
		{"prefix wildcard", "Authorization", "Bearer *", true},
		{"suffix wildcard", "Authorization", "*abc123", true},
		{"contains wildcard", "Authorization", "*abc*", true},
		{"contains miss", "Authorization", "*xyz*", false},
		{"absent header", "X-Missing", "anything", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchHeaderPattern(tt.header, tt.pattern, headers); got != tt.want {
				t.Errorf("MatchHeaderPattern(%q, %q) = %v, want %v", tt.header, tt.pattern, got, tt.want)
			}
		})
	}
}

func TestMatches_QueryParams(t *testing.T) {
	m := &mock.RequestMatcher{QueryParams: map[string]string{"page": "2", "sort": "name"}}
	hit := newRequest(t, "GET", "https://example.org/list?page=2&sort=name&extra=1")
	miss := newRequest(t, "GET", "https://example.org/list?page=3&sort=name")

	if !Matches(m, hit, nil) {
		t.Error("expected query params to match")
	}
	if Matches(m, miss, nil) {
		t.Error("expected query param mismatch")
	}
}

func TestMatchBody(t *testing.T) {
	body := []byte(`{"user":"ada","age":36}`)

	tests := []struct {
		name    string
		matcher mock.RequestMatcher
		want    bool
	}{
		{"equals hit", mock.RequestMatcher{BodyEquals: `{"user":"ada","age":36}`}, true},
		{"equals miss", mock.RequestMatcher{BodyEquals: "nope"}, false},
		{"contains hit", mock.RequestMatcher{BodyContains: `"user":"ada"`}, true},
		{"contains miss", mock.RequestMatcher{BodyContains: "absent"}, false},
		{"pattern hit", mock.RequestMatcher{BodyPattern: `"age":\d+`}, true},
		{"pattern miss", mock.RequestMatcher{BodyPattern: `"age":[a-z]+`}, false},
		{"combined", mock.RequestMatcher{BodyContains: "ada", BodyPattern: `\d+`}, true},
		{"no criteria", mock.RequestMatcher{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchBody(&tt.matcher, body); got != tt.want {
				t.Errorf("MatchBody() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatches_Predicate(t *testing.T) {
	m := &mock.RequestMatcher{
		Predicate: func(r *http.Request) bool {
			return strings.HasSuffix(r.URL.Path, ".json")
		},
	}

	if !Matches(m, newRequest(t, "GET", "https://example.org/data.json"), nil) {
		t.Error("expected predicate to match")
	}
	if Matches(m, newRequest(t, "GET", "https://example.org/data.xml"), nil) {
		t.Error("expected predicate to reject")
	}
}

func TestMatches_AllCriteriaMustHold(t *testing.T) {
	m := &mock.RequestMatcher{
		Method:       "POST",
		URLPrefix:    "https://example.org/",
		BodyContains: "payload",
	}

	r := httptest.NewRequest("POST", "https://example.org/submit", nil)
	if !Matches(m, r, []byte("the payload")) {
		t.Error("expected all criteria to match")
	}
	if Matches(m, r, []byte("something else")) {
		t.Error("body criterion should have failed the match")
	}
}
