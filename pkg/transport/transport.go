package transport

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/getmockd/mocktrip/pkg/calllog"
	"github.com/getmockd/mocktrip/pkg/logging"
	"github.com/getmockd/mocktrip/pkg/mock"
	"github.com/getmockd/mocktrip/pkg/registry"
)

// ErrAllDeclined is returned by TryTransport when every composed transport
// signalled pass-through and nobody performed the request.
var ErrAllDeclined = errors.New("no transport accepted the request")

// PassThroughError is the distinguished signal a declining transport returns
// so a composing transport can hand the request to the next one. It carries
// the request with its body stream rewound.
type PassThroughError struct {
	Request *http.Request
}

func (e *PassThroughError) Error() string {
	return fmt.Sprintf("pass through: %s %s", e.Request.Method, e.Request.URL)
}

// Option customizes a MockTransport.
type Option func(*MockTransport)

// WithRealTransport sets the transport used for pass-through requests.
// Defaults to http.DefaultTransport.
func WithRealTransport(rt http.RoundTripper) Option {
	return func(t *MockTransport) {
		if rt != nil {
			t.real = rt
		}
	}
}

// WithPassThroughSignal makes the transport decline pass-through and
// unmatched requests with a *PassThroughError instead of performing them,
// for composition under TryTransport.
func WithPassThroughSignal() Option {
	return func(t *MockTransport) {
		t.signal = true
	}
}

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(t *MockTransport) {
		if log != nil {
			t.log = log
		}
	}
}

// MockTransport is an http.RoundTripper that resolves requests against a
// pattern registry. Matched patterns short-circuit to synthetic responses
// without network I/O; pass-through patterns delegate to the real transport.
// Every exchange is recorded, even when the real transport fails.
type MockTransport struct {
	registry *registry.Registry
	recorder *calllog.Recorder
	real     http.RoundTripper
	signal   bool
	log      *slog.Logger
}

// New creates a MockTransport over the given registry and recorder.
func New(reg *registry.Registry, rec *calllog.Recorder, opts ...Option) *MockTransport {
	t := &MockTransport{
		registry: reg,
		recorder: rec,
		real:     http.DefaultTransport,
		log:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RoundTrip implements http.RoundTripper.
func (t *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	body, err := drainBody(req)
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}

	pattern, tmpl, outcome, err := t.registry.Match(req, body)
	if err != nil {
		// Strict-mode failure: surfaced before any response is produced.
		return nil, err
	}

	start := time.Now()
	call := &calllog.Call{
		Timestamp:      start,
		Request:        req,
		Method:         req.Method,
		URL:            req.URL.String(),
		RequestHeaders: req.Header.Clone(),
		RequestBody:    body,
	}
	if pattern != nil {
		call.PatternID = pattern.ID
		call.PatternAlias = pattern.Alias
	}

	var resp *http.Response
	var rerr error

	// Recording must happen even when the exchange fails; the original
	// failure is never masked.
	defer func() {
		call.Duration = time.Since(start)
		if rerr != nil {
			call.Error = rerr.Error()
		}
		t.recorder.Record(call)
	}()

	if t.signal && outcome != registry.OutcomeMock {
		rerr = &PassThroughError{Request: req}
		return nil, rerr
	}

	if outcome == registry.OutcomePassThrough {
		// The recorded response stays nil for pass-through exchanges; the
		// caller observes the real transport's response verbatim.
		t.log.Debug("performing real request", "method", req.Method, "url", req.URL.String())
		resp, rerr = t.real.RoundTrip(req)
		return resp, rerr
	}

	resolved, rerr := tmpl.Resolve()
	if rerr != nil {
		return nil, rerr
	}
	if rerr = t.delay(req, tmpl); rerr != nil {
		return nil, rerr
	}

	resp, rerr = buildResponse(resolved, req)
	if rerr != nil {
		return nil, rerr
	}

	t.log.Debug("synthesized response",
		"method", req.Method, "url", req.URL.String(), "status", resolved.StatusCode)
	call.Response = resp
	call.StatusCode = resolved.StatusCode
	call.ResponseBody = resolved.Body
	return resp, nil
}

func (t *MockTransport) delay(req *http.Request, tmpl *mock.ResponseTemplate) error {
	if tmpl.DelayMs <= 0 {
		return nil
	}
	select {
	case <-time.After(time.Duration(tmpl.DelayMs) * time.Millisecond):
		return nil
	case <-req.Context().Done():
		return req.Context().Err()
	}
}

// buildResponse frames the resolved template as wire bytes and parses them
// back through net/http's own response parser, so downstream code observes a
// response indistinguishable from a real one.
func buildResponse(resolved *mock.ResolvedResponse, req *http.Request) (*http.Response, error) {
	wire := resolved.WireBytes()
	resp, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(wire)), req)
	if err != nil {
		return nil, fmt.Errorf("synthesize response: %w", err)
	}
	return resp, nil
}

// drainBody reads the full request body and rewinds the request so the body
// can be matched against and still be sent or retried.
func drainBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	body, err := io.ReadAll(req.Body)
	req.Body.Close()
	if err != nil {
		return nil, err
	}
	rewind(req, body)
	return body, nil
}

func rewind(req *http.Request, body []byte) {
	req.Body = io.NopCloser(bytes.NewReader(body))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}
	req.ContentLength = int64(len(body))
}

// TryTransport composes transports in order: each gets the request until one
// does not decline with a *PassThroughError. All transports declining is a
// configuration error.
type TryTransport struct {
	transports []http.RoundTripper
}

// NewTryTransport creates a TryTransport over the given transports.
func NewTryTransport(transports ...http.RoundTripper) *TryTransport {
	return &TryTransport{transports: transports}
}

// RoundTrip implements http.RoundTripper.
func (t *TryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	for _, rt := range t.transports {
		resp, err := rt.RoundTrip(req)
		var pt *PassThroughError
		if errors.As(err, &pt) {
			// Continue with the rewound request from the signal.
			req = pt.Request
			continue
		}
		return resp, err
	}
	return nil, fmt.Errorf("%w: %s %s", ErrAllDeclined, req.Method, req.URL)
}
