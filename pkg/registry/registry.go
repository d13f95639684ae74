package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/getmockd/mocktrip/internal/matching"
	"github.com/getmockd/mocktrip/pkg/logging"
	"github.com/getmockd/mocktrip/pkg/mock"
)

// ErrUnmocked is returned in strict mode when a request matches no pattern.
var ErrUnmocked = errors.New("request not mocked")

// ErrNotCalled is returned by AllCalled when registered patterns were never
// matched.
var ErrNotCalled = errors.New("mocked patterns were not called")

// Outcome classifies the result of matching a request.
type Outcome int

const (
	// OutcomeMock means a pattern matched and a synthetic response should be
	// fabricated from its template.
	OutcomeMock Outcome = iota

	// OutcomePassThrough means a pattern matched and directed the engine to
	// perform the real request.
	OutcomePassThrough

	// OutcomeUnmatched means no pattern matched. In non-strict mode the
	// engine responds with a default empty template.
	OutcomeUnmatched
)

// Registry is the ordered collection of patterns for one mocking scope.
// It is safe for concurrent use; the eviction-on-ambiguity mutation is
// serialized with registration.
type Registry struct {
	mu         sync.Mutex
	patterns   []*mock.Pattern // active, in registration order
	registered []*mock.Pattern // everything ever added, for AllCalled
	aliases    map[string]*mock.Pattern
	strict     bool
	log        *slog.Logger
}

// New creates an empty registry. When strict is true, a request that matches
// no pattern is an error rather than an implicit empty response.
func New(strict bool) *Registry {
	return &Registry{
		aliases: make(map[string]*mock.Pattern),
		strict:  strict,
		log:     logging.Nop(),
	}
}

// SetLogger sets the operational logger.
func (reg *Registry) SetLogger(log *slog.Logger) {
	if log == nil {
		return
	}
	reg.mu.Lock()
	reg.log = log
	reg.mu.Unlock()
}

// Add validates and appends a pattern. An empty ID is assigned. Re-adding an
// alias overwrites the alias index but leaves the earlier pattern in the
// matching order.
func (reg *Registry) Add(p *mock.Pattern) error {
	if p == nil {
		return fmt.Errorf("%w: nil pattern", mock.ErrInvalidPattern)
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Matcher.Expr != "" {
		if _, err := matching.CompileExpr(p.Matcher.Expr); err != nil {
			return fmt.Errorf("invalid expression %q: %w", p.Matcher.Expr, err)
		}
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	reg.patterns = append(reg.patterns, p)
	reg.registered = append(reg.registered, p)
	if p.Alias != "" {
		reg.aliases[p.Alias] = p
	}
	return nil
}

// Lookup returns the pattern registered under the alias, or nil.
func (reg *Registry) Lookup(alias string) *mock.Pattern {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return reg.aliases[alias]
}

// Patterns returns a snapshot of the active patterns in matching order.
func (reg *Registry) Patterns() []*mock.Pattern {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	out := make([]*mock.Pattern, len(reg.patterns))
	copy(out, reg.patterns)
	return out
}

// Count returns the number of active patterns.
func (reg *Registry) Count() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.patterns)
}

// Match resolves a request to at most one pattern.
//
// The scan tentatively selects the first matching pattern and keeps scanning.
// Finding a second match is an authoring ambiguity: the first-registered
// matching pattern is evicted from the registry permanently and the scan
// stops, but the current exchange still uses the evicted pattern's outcome.
// A later identical request therefore falls through to the survivor. This
// mirrors the historical behavior of the matching loop and is documented
// behavior, not a recommendation.
//
// The matched pattern's call counter is incremented here, as part of the
// match, so invocation assertions hold even if the exchange later fails.
//
// In strict mode an unmatched request returns ErrUnmocked. Otherwise an
// unmatched request yields OutcomeUnmatched with a default empty template.
func (reg *Registry) Match(r *http.Request, body []byte) (*mock.Pattern, *mock.ResponseTemplate, Outcome, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	var matched *mock.Pattern
	matchedIdx := -1

	for i, p := range reg.patterns {
		if !matching.Matches(p.Matcher, r, body) {
			continue
		}

		if matched != nil {
			// Ambiguity: evict the first-registered match for good.
			reg.log.Debug("ambiguous patterns, evicting earlier match",
				"evicted", matched.Name(), "shadowed_by", p.Name(),
				"method", r.Method, "url", r.URL.String())
			reg.patterns = append(reg.patterns[:matchedIdx], reg.patterns[matchedIdx+1:]...)
			break
		}

		matched = p
		matchedIdx = i
	}

	if matched == nil {
		if reg.strict {
			return nil, nil, OutcomeUnmatched,
				fmt.Errorf("%w: %s %s", ErrUnmocked, r.Method, r.URL.String())
		}
		reg.log.Debug("no pattern matched, responding with empty default",
			"method", r.Method, "url", r.URL.String())
		return nil, &mock.ResponseTemplate{}, OutcomeUnmatched, nil
	}

	matched.MarkMatched()

	if matched.PassThrough {
		reg.log.Debug("pattern matched, passing through",
			"pattern", matched.Name(), "method", r.Method, "url", r.URL.String())
		return matched, nil, OutcomePassThrough, nil
	}

	reg.log.Debug("pattern matched",
		"pattern", matched.Name(), "method", r.Method, "url", r.URL.String())
	return matched, matched.Response, OutcomeMock, nil
}

// AllCalled verifies that every pattern ever registered in this scope matched
// at least once. The returned error names each violating pattern.
func (reg *Registry) AllCalled() error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	var missed []string
	for _, p := range reg.registered {
		if !p.Called() {
			missed = append(missed, fmt.Sprintf("%s %s [%s]",
				p.Matcher.Method, describeURL(p.Matcher), p.Name()))
		}
	}
	if len(missed) > 0 {
		return fmt.Errorf("%w: %s", ErrNotCalled, strings.Join(missed, "; "))
	}
	return nil
}

// Reset removes all patterns and aliases and zeroes their call counters.
func (reg *Registry) Reset() {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	for _, p := range reg.registered {
		p.ResetCalls()
	}
	reg.patterns = nil
	reg.registered = nil
	reg.aliases = make(map[string]*mock.Pattern)
}

func describeURL(m *mock.RequestMatcher) string {
	switch {
	case m.URL != "":
		return m.URL
	case m.URLPrefix != "":
		return m.URLPrefix + "*"
	case m.URLPattern != "":
		return "~" + m.URLPattern
	case m.URLGlob != "":
		return m.URLGlob
	}
	return "<any url>"
}
