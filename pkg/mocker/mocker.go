package mocker

import (
	"log/slog"
	"net/http"
	"sync"
	"testing"

	"github.com/getmockd/mocktrip/pkg/calllog"
	"github.com/getmockd/mocktrip/pkg/logging"
	"github.com/getmockd/mocktrip/pkg/mock"
	"github.com/getmockd/mocktrip/pkg/registry"
	"github.com/getmockd/mocktrip/pkg/transport"
)

type options struct {
	baseURL         string
	assertAllCalled bool
	assertAllMocked bool
	real            http.RoundTripper
	signal          bool
	log             *slog.Logger
}

// Option customizes a Mocker.
type Option func(*options)

// WithBaseURL joins relative URL criteria against the given base URL.
func WithBaseURL(base string) Option {
	return func(o *options) { o.baseURL = base }
}

// WithAssertAllCalled controls whether Close fails when registered patterns
// were never matched. Enabled by default.
func WithAssertAllCalled(enabled bool) Option {
	return func(o *options) { o.assertAllCalled = enabled }
}

// WithAssertAllMocked controls strict mode: when enabled (the default), a
// request matching no pattern fails instead of receiving an empty response.
func WithAssertAllMocked(enabled bool) Option {
	return func(o *options) { o.assertAllMocked = enabled }
}

// WithRealTransport sets the transport used for pass-through requests.
func WithRealTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.real = rt }
}

// WithPassThroughSignal makes the scope's transport decline pass-through
// requests with a signal instead of performing them, for composition with
// transport.TryTransport.
func WithPassThroughSignal() Option {
	return func(o *options) { o.signal = true }
}

// WithLogger enables operational logging for the scope's components.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) { o.log = log }
}

// Mocker is the session/scope controller tying registry, recorder and
// transport together.
type Mocker struct {
	registry  *registry.Registry
	recorder  *calllog.Recorder
	transport *transport.MockTransport

	baseURL         string
	assertAllCalled bool
	log             *slog.Logger

	mu       sync.Mutex
	restores []func()
}

// New creates an inactive Mocker. Both assertion modes default to enabled,
// so a fresh scope is strict and verifies every pattern was exercised.
func New(opts ...Option) *Mocker {
	o := options{
		assertAllCalled: true,
		assertAllMocked: true,
		log:             logging.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	reg := registry.New(o.assertAllMocked)
	reg.SetLogger(o.log)
	rec := calllog.NewRecorder()

	topts := []transport.Option{transport.WithLogger(o.log)}
	if o.real != nil {
		topts = append(topts, transport.WithRealTransport(o.real))
	}
	if o.signal {
		topts = append(topts, transport.WithPassThroughSignal())
	}

	return &Mocker{
		registry:        reg,
		recorder:        rec,
		transport:       transport.New(reg, rec, topts...),
		baseURL:         o.baseURL,
		assertAllCalled: o.assertAllCalled,
		log:             o.log,
	}
}

// Transport returns the scope's mock transport for manual injection.
func (m *Mocker) Transport() http.RoundTripper {
	return m.transport
}

// Client returns a fresh http.Client wired to the mock transport. This is
// the dependency-injection path and needs no Start/Stop pairing.
func (m *Mocker) Client() *http.Client {
	return &http.Client{Transport: m.transport}
}

// Registry exposes the scope's pattern registry.
func (m *Mocker) Registry() *registry.Registry {
	return m.registry
}

// Recorder exposes the scope's call recorder.
func (m *Mocker) Recorder() *calllog.Recorder {
	return m.recorder
}

// Add registers a fully constructed pattern.
func (m *Mocker) Add(p *mock.Pattern) error {
	return m.registry.Add(p)
}

// Pattern returns the pattern registered under the alias, or nil.
func (m *Mocker) Pattern(alias string) *mock.Pattern {
	return m.registry.Lookup(alias)
}

// Calls returns an ordered snapshot of every recorded exchange.
func (m *Mocker) Calls() []*calllog.Call {
	return m.recorder.All()
}

// CallsTo returns the recorded exchanges attributed to the aliased pattern.
func (m *Mocker) CallsTo(alias string) []*calllog.Call {
	p := m.registry.Lookup(alias)
	if p == nil {
		return nil
	}
	return m.recorder.ByPattern(p.ID)
}

// Start installs interception by swapping http.DefaultTransport for the mock
// transport. Repeated starts stack; each must be torn down by Stop, which
// unwinds in reverse order. Prefer Client or InterceptClient where the client
// under test can be injected.
func (m *Mocker) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	orig := http.DefaultTransport
	http.DefaultTransport = m.transport
	m.restores = append(m.restores, func() { http.DefaultTransport = orig })
	m.log.Debug("interception installed", "installs", len(m.restores))
}

// InterceptClient swaps the client's transport for the mock transport and
// records the swap for symmetric teardown by Stop.
func (m *Mocker) InterceptClient(c *http.Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	orig := c.Transport
	c.Transport = m.transport
	m.restores = append(m.restores, func() { c.Transport = orig })
	m.log.Debug("client intercepted", "installs", len(m.restores))
}

// Stop removes every installed interception in reverse order of installation
// and, when reset is true, clears patterns, aliases, call records and
// statistics.
func (m *Mocker) Stop(reset bool) {
	m.mu.Lock()
	for len(m.restores) > 0 {
		last := len(m.restores) - 1
		m.restores[last]()
		m.restores = m.restores[:last]
	}
	m.mu.Unlock()

	if reset {
		m.Reset()
	}
}

// Reset clears all registered patterns, aliases, recorded calls and call
// counters while leaving interception installed.
func (m *Mocker) Reset() {
	m.registry.Reset()
	m.recorder.Clear()
}

// AllCalled verifies every registered pattern matched at least once.
func (m *Mocker) AllCalled() error {
	return m.registry.AllCalled()
}

// AssertAllCalled fails the test naming each pattern that never matched.
func (m *Mocker) AssertAllCalled(t testing.TB) {
	t.Helper()
	if err := m.AllCalled(); err != nil {
		t.Errorf("mocktrip: %v", err)
	}
}

// Close ends the scope: it runs the all-called verification when enabled and
// then always tears down, so a failed assertion never leaks interception into
// later code. The assertion error, if any, is returned after teardown.
func (m *Mocker) Close() error {
	var err error
	if m.assertAllCalled {
		err = m.AllCalled()
	}
	m.Stop(true)
	return err
}
