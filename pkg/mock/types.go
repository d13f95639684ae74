package mock

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrInvalidPattern is returned when a pattern declares neither a response
// template nor a pass-through directive, or declares both.
var ErrInvalidPattern = errors.New("pattern must have either a response template or pass-through")

// Pattern pairs a request matcher with either a response template or a
// pass-through directive. Matcher fields are immutable once registered; only
// the call counter mutates, and only via MarkMatched and ResetCalls.
type Pattern struct {
	// ID uniquely identifies the pattern. Assigned by the registry when empty.
	ID string

	// Alias is an optional unique name for lookup by test code.
	Alias string

	// Matcher defines the criteria an outgoing request must meet.
	Matcher *RequestMatcher

	// Response is the template materialized into a synthetic response when
	// the pattern matches. Nil when PassThrough is set.
	Response *ResponseTemplate

	// PassThrough directs the engine to perform the real request instead of
	// synthesizing a response.
	PassThrough bool

	mu        sync.Mutex
	callCount int
}

// Validate checks that the pattern is well-formed. A pattern needs a matcher
// and exactly one of a response template or a pass-through directive. Any
// regex, glob, or expression in the matcher must compile.
func (p *Pattern) Validate() error {
	if p.Matcher == nil {
		return fmt.Errorf("%w: missing matcher", ErrInvalidPattern)
	}
	if p.PassThrough == (p.Response != nil) {
		return ErrInvalidPattern
	}
	return p.Matcher.Validate()
}

// MarkMatched increments the call counter. The registry calls this as part of
// a successful match, before the exchange completes, so "was this pattern
// invoked" assertions hold even if the exchange later fails.
func (p *Pattern) MarkMatched() {
	p.mu.Lock()
	p.callCount++
	p.mu.Unlock()
}

// CallCount returns how many times the pattern has matched.
func (p *Pattern) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.callCount
}

// Called reports whether the pattern has matched at least once.
func (p *Pattern) Called() bool {
	return p.CallCount() > 0
}

// ResetCalls zeroes the call counter. Used by full scope resets only.
func (p *Pattern) ResetCalls() {
	p.mu.Lock()
	p.callCount = 0
	p.mu.Unlock()
}

// Name returns the alias if set, otherwise the ID. For error messages.
func (p *Pattern) Name() string {
	if p.Alias != "" {
		return p.Alias
	}
	return p.ID
}

// RequestMatcher defines criteria used to match outgoing HTTP requests.
// All configured fields must match (AND semantics). URL criteria are tested
// against the absolute request URL.
type RequestMatcher struct {
	// Method is the expected HTTP verb, case-insensitive. Empty matches any.
	Method string

	// Predicate is an arbitrary request predicate evaluated after Method.
	Predicate func(*http.Request) bool

	// URL matches the absolute request URL exactly.
	URL string

	// URLPrefix matches any request URL with the given prefix.
	URLPrefix string

	// URLPattern is a regular expression tested against the request URL.
	URLPattern string

	// URLGlob is a doublestar glob tested against the request URL,
	// e.g. "https://api.example.com/v1/**".
	URLGlob string

	// Headers are required request headers. Values support the wildcard
	// forms "prefix*", "*suffix" and "*contains*".
	Headers map[string]string

	// QueryParams are required query parameters with exact values.
	QueryParams map[string]string

	// BodyEquals requires the request body to match exactly.
	BodyEquals string

	// BodyContains requires the request body to contain the substring.
	BodyContains string

	// BodyPattern is a regular expression tested against the request body.
	BodyPattern string

	// BodyJSONPath maps JSONPath expressions to expected values evaluated
	// against a JSON request body.
	BodyJSONPath map[string]any

	// Expr is an expression evaluated against the request environment
	// (method, url, host, path, headers, query, body).
	Expr string
}

// Validate compiles the matcher's regex and glob criteria so malformed
// matchers are rejected at registration time rather than silently never
// matching. Expression criteria are compile-checked by the registry.
func (m *RequestMatcher) Validate() error {
	if m.URLPattern != "" {
		if _, err := regexp.Compile(m.URLPattern); err != nil {
			return fmt.Errorf("invalid URL pattern %q: %w", m.URLPattern, err)
		}
	}
	if m.BodyPattern != "" {
		if _, err := regexp.Compile(m.BodyPattern); err != nil {
			return fmt.Errorf("invalid body pattern %q: %w", m.BodyPattern, err)
		}
	}
	if m.URLGlob != "" {
		if !doublestar.ValidatePattern(m.URLGlob) {
			return fmt.Errorf("invalid URL glob %q", m.URLGlob)
		}
	}
	return nil
}
