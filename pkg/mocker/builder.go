package mocker

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/getmockd/mocktrip/pkg/mock"
)

// Builder assembles and registers a pattern using a fluent API. Methods never
// fail mid-chain; the first error encountered is reported by Register.
type Builder struct {
	m           *Mocker
	matcher     *mock.RequestMatcher
	response    *mock.ResponseTemplate
	alias       string
	passThrough bool
	respSet     bool
	err         error
}

// Request starts a builder for the given method and absolute URL. A relative
// URL is joined against the scope's base URL. An empty URL matches any URL
// unless narrowed by other criteria.
func (m *Mocker) Request(method, url string) *Builder {
	return &Builder{
		m: m,
		matcher: &mock.RequestMatcher{
			Method: method,
			URL:    m.joinBaseURL(url),
		},
		response: &mock.ResponseTemplate{},
	}
}

// Get starts a builder matching GET requests for the URL.
func (m *Mocker) Get(url string) *Builder { return m.Request(http.MethodGet, url) }

// Post starts a builder matching POST requests for the URL.
func (m *Mocker) Post(url string) *Builder { return m.Request(http.MethodPost, url) }

// Put starts a builder matching PUT requests for the URL.
func (m *Mocker) Put(url string) *Builder { return m.Request(http.MethodPut, url) }

// Patch starts a builder matching PATCH requests for the URL.
func (m *Mocker) Patch(url string) *Builder { return m.Request(http.MethodPatch, url) }

// Delete starts a builder matching DELETE requests for the URL.
func (m *Mocker) Delete(url string) *Builder { return m.Request(http.MethodDelete, url) }

// Head starts a builder matching HEAD requests for the URL.
func (m *Mocker) Head(url string) *Builder { return m.Request(http.MethodHead, url) }

// Options starts a builder matching OPTIONS requests for the URL.
func (m *Mocker) Options(url string) *Builder { return m.Request(http.MethodOptions, url) }

func (m *Mocker) joinBaseURL(url string) string {
	if url == "" || m.baseURL == "" || strings.Contains(url, "://") {
		return url
	}
	return strings.TrimSuffix(m.baseURL, "/") + "/" + strings.TrimPrefix(url, "/")
}

// setError records the first error encountered while building.
func (b *Builder) setError(err error) {
	if b.err == nil {
		b.err = err
	}
}

// --- response side ---

// WithStatus sets the response status code. Default is 200.
func (b *Builder) WithStatus(status int) *Builder {
	b.respSet = true
	b.response.StatusCode = status
	return b
}

// WithBody sets the response body. Strings and byte slices are used as raw
// bytes; any other value is encoded as JSON with an implicit content type.
func (b *Builder) WithBody(body any) *Builder {
	b.respSet = true
	switch v := body.(type) {
	case string:
		b.response.Body = []byte(v)
	case []byte:
		b.response.Body = v
	default:
		b.response.JSON = v
	}
	return b
}

// WithJSON sets the response body as JSON with an application/json content
// type.
func (b *Builder) WithJSON(body any) *Builder {
	b.respSet = true
	b.response.JSON = body
	return b
}

// WithContentFunc sets a lazy body source, invoked once per exchange.
func (b *Builder) WithContentFunc(f func() ([]byte, error)) *Builder {
	b.respSet = true
	b.response.ContentFunc = f
	return b
}

// WithBodyFile serves the response body from a file.
func (b *Builder) WithBodyFile(path string) *Builder {
	b.respSet = true
	b.response.BodyFile = path
	return b
}

// WithHeader adds a response header.
func (b *Builder) WithHeader(key, value string) *Builder {
	b.respSet = true
	if b.response.Headers == nil {
		b.response.Headers = make(map[string]string)
	}
	b.response.Headers[key] = value
	return b
}

// WithHeaders adds multiple response headers.
func (b *Builder) WithHeaders(headers map[string]string) *Builder {
	for k, v := range headers {
		b.WithHeader(k, v)
	}
	return b
}

// WithContentType sets the response Content-Type header.
func (b *Builder) WithContentType(ct string) *Builder {
	return b.WithHeader("Content-Type", ct)
}

// WithHTTPVersion sets the protocol version stamped on the synthetic
// response, e.g. "1.1".
func (b *Builder) WithHTTPVersion(version string) *Builder {
	b.respSet = true
	b.response.HTTPVersion = version
	return b
}

// WithDelay delays the synthetic response. Accepts duration strings like
// "100ms" or "1s".
func (b *Builder) WithDelay(delay string) *Builder {
	d, err := time.ParseDuration(delay)
	if err != nil {
		b.setError(fmt.Errorf("WithDelay: invalid duration %q: %w", delay, err))
		return b
	}
	b.respSet = true
	b.response.DelayMs = int(d.Milliseconds())
	return b
}

// PassThrough directs the engine to perform the real request when this
// pattern matches. Incompatible with any response configuration.
func (b *Builder) PassThrough() *Builder {
	b.passThrough = true
	return b
}

// --- matcher side ---

// WithURLPrefix matches request URLs with the given prefix.
func (b *Builder) WithURLPrefix(prefix string) *Builder {
	b.matcher.URLPrefix = b.m.joinBaseURL(prefix)
	return b
}

// WithURLPattern matches request URLs against a regular expression.
func (b *Builder) WithURLPattern(pattern string) *Builder {
	b.matcher.URLPattern = pattern
	return b
}

// WithURLGlob matches request URLs against a doublestar glob, e.g.
// "https://api.example.com/v1/**".
func (b *Builder) WithURLGlob(glob string) *Builder {
	b.matcher.URLGlob = b.m.joinBaseURL(glob)
	return b
}

// WithRequestHeader requires a request header. Values support the wildcard
// forms "prefix*", "*suffix" and "*contains*".
func (b *Builder) WithRequestHeader(key, value string) *Builder {
	if b.matcher.Headers == nil {
		b.matcher.Headers = make(map[string]string)
	}
	b.matcher.Headers[key] = value
	return b
}

// WithQueryParam requires a query parameter with an exact value.
func (b *Builder) WithQueryParam(key, value string) *Builder {
	if b.matcher.QueryParams == nil {
		b.matcher.QueryParams = make(map[string]string)
	}
	b.matcher.QueryParams[key] = value
	return b
}

// WithBodyEquals requires an exactly matching request body.
func (b *Builder) WithBodyEquals(body string) *Builder {
	b.matcher.BodyEquals = body
	return b
}

// WithBodyContains requires the request body to contain the substring.
func (b *Builder) WithBodyContains(substr string) *Builder {
	b.matcher.BodyContains = substr
	return b
}

// WithBodyPattern requires the request body to match the regex pattern.
func (b *Builder) WithBodyPattern(pattern string) *Builder {
	b.matcher.BodyPattern = pattern
	return b
}

// WithBodyJSONPath requires a JSONPath expression over the request body to
// yield the expected value.
func (b *Builder) WithBodyJSONPath(path string, expected any) *Builder {
	if b.matcher.BodyJSONPath == nil {
		b.matcher.BodyJSONPath = make(map[string]any)
	}
	b.matcher.BodyJSONPath[path] = expected
	return b
}

// WithExpr requires an expression over the request environment to evaluate
// true, e.g. `method == "POST" && "auth" in query`.
func (b *Builder) WithExpr(src string) *Builder {
	b.matcher.Expr = src
	return b
}

// WithPredicate requires an arbitrary request predicate.
func (b *Builder) WithPredicate(f func(*http.Request) bool) *Builder {
	b.matcher.Predicate = f
	return b
}

// WithAlias names the pattern for later lookup. Aliases are unique;
// re-registering one repoints the lookup without unregistering the earlier
// pattern.
func (b *Builder) WithAlias(alias string) *Builder {
	b.alias = alias
	return b
}

// Register validates the pattern and adds it to the scope's registry,
// returning it for inspection and call-count assertions.
func (b *Builder) Register() (*mock.Pattern, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.passThrough && b.respSet {
		return nil, fmt.Errorf("%w: pass-through pattern configures a response", mock.ErrInvalidPattern)
	}

	p := &mock.Pattern{
		Alias:       b.alias,
		Matcher:     b.matcher,
		PassThrough: b.passThrough,
	}
	if !b.passThrough {
		p.Response = b.response
	}

	if err := b.m.registry.Add(p); err != nil {
		return nil, err
	}
	return p, nil
}

// MustRegister is like Register but panics on error. Malformed patterns are
// programming errors, so tests typically use this form.
func (b *Builder) MustRegister() *mock.Pattern {
	p, err := b.Register()
	if err != nil {
		panic(fmt.Sprintf("mocktrip: %v", err))
	}
	return p
}
