package mock

import (
	"encoding/json"
	"fmt"
	"net/textproto"
	"os"
	"sort"
	"strings"
)

// DefaultHTTPVersion is the protocol version stamped on synthetic responses
// when the template does not specify one.
const DefaultHTTPVersion = "1.1"

// ResponseTemplate declaratively describes a synthetic HTTP response. It is
// materialized into bytes lazily, once per exchange, so the same template can
// serve repeated matches of one pattern.
//
// Body precedence when several sources are set: ContentFunc, JSON, BodyFile,
// Body.
type ResponseTemplate struct {
	// StatusCode is the response status. Defaults to 200.
	StatusCode int

	// Headers are response headers. Keys are case-insensitive; they are
	// normalized to canonical title case on the wire.
	Headers map[string]string

	// Body is the raw response body.
	Body []byte

	// JSON is encoded as the response body with an implicit
	// application/json content type.
	JSON any

	// ContentFunc lazily produces the body. Invoked once per exchange, so
	// generated payloads are independent across matches.
	ContentFunc func() ([]byte, error)

	// BodyFile reads the body from a file on each resolution.
	BodyFile string

	// HTTPVersion is the protocol version string, e.g. "1.1". Defaults to
	// DefaultHTTPVersion.
	HTTPVersion string

	// DelayMs delays the synthetic response by the given milliseconds.
	DelayMs int
}

// ResolvedResponse is a template materialized for a single exchange.
type ResolvedResponse struct {
	StatusCode  int
	Headers     map[string]string
	Body        []byte
	HTTPVersion string
}

// Resolve materializes the template. Each call produces an independent
// payload; lazy content sources run exactly once per call.
func (t *ResponseTemplate) Resolve() (*ResolvedResponse, error) {
	r := &ResolvedResponse{
		StatusCode:  t.StatusCode,
		HTTPVersion: t.HTTPVersion,
		Headers:     make(map[string]string, len(t.Headers)+1),
	}
	if r.StatusCode == 0 {
		r.StatusCode = 200
	}
	if r.HTTPVersion == "" {
		r.HTTPVersion = DefaultHTTPVersion
	}
	for k, v := range t.Headers {
		r.Headers[k] = v
	}

	switch {
	case t.ContentFunc != nil:
		body, err := t.ContentFunc()
		if err != nil {
			return nil, fmt.Errorf("resolve content: %w", err)
		}
		r.Body = body
	case t.JSON != nil:
		body, err := json.Marshal(t.JSON)
		if err != nil {
			return nil, fmt.Errorf("encode json body: %w", err)
		}
		r.Body = body
		if !hasHeader(r.Headers, "Content-Type") {
			r.Headers["Content-Type"] = "application/json"
		}
	case t.BodyFile != "":
		body, err := os.ReadFile(t.BodyFile)
		if err != nil {
			return nil, fmt.Errorf("read body file: %w", err)
		}
		r.Body = body
	default:
		// Copy so callers can't mutate the template's bytes.
		r.Body = append([]byte(nil), t.Body...)
	}

	return r, nil
}

// WireBytes frames the resolved response as raw HTTP/1.x bytes: a status line
// of the form "HTTP/<version> <status> MOCK", each header in canonical title
// case terminated by CRLF, a blank line, then the body. The result is meant
// to be fed straight back through the client library's response parser.
func (r *ResolvedResponse) WireBytes() []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "HTTP/%s %d MOCK\r\n", r.HTTPVersion, r.StatusCode)

	keys := make([]string, 0, len(r.Headers))
	for k := range r.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\r\n", textproto.CanonicalMIMEHeaderKey(k), r.Headers[k])
	}
	if !hasHeader(r.Headers, "Content-Length") {
		fmt.Fprintf(&b, "Content-Length: %d\r\n", len(r.Body))
	}
	b.WriteString("\r\n")

	out := make([]byte, 0, b.Len()+len(r.Body))
	out = append(out, b.String()...)
	out = append(out, r.Body...)
	return out
}

func hasHeader(headers map[string]string, name string) bool {
	for k := range headers {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}
