package registry

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mocktrip/pkg/mock"
)

func pattern(url, body string) *mock.Pattern {
	return &mock.Pattern{
		Matcher:  &mock.RequestMatcher{Method: "GET", URL: url},
		Response: &mock.ResponseTemplate{Body: []byte(body)},
	}
}

func TestAdd(t *testing.T) {
	reg := New(false)

	p := pattern("https://example.org/x", "A")
	require.NoError(t, reg.Add(p))
	assert.NotEmpty(t, p.ID, "an ID should be assigned on registration")
	assert.Equal(t, 1, reg.Count())

	err := reg.Add(&mock.Pattern{Matcher: &mock.RequestMatcher{}})
	assert.ErrorIs(t, err, mock.ErrInvalidPattern)

	err = reg.Add(nil)
	assert.ErrorIs(t, err, mock.ErrInvalidPattern)
}

func TestAdd_RejectsMalformedExpression(t *testing.T) {
	reg := New(false)
	p := pattern("https://example.org/x", "A")
	p.Matcher.Expr = `method ==`
	assert.Error(t, reg.Add(p))
}

func TestAdd_AliasOverwrite(t *testing.T) {
	reg := New(false)

	first := pattern("https://example.org/a", "A")
	first.Alias = "users"
	second := pattern("https://example.org/b", "B")
	second.Alias = "users"
	require.NoError(t, reg.Add(first))
	require.NoError(t, reg.Add(second))

	assert.Same(t, second, reg.Lookup("users"))
	assert.Equal(t, 2, reg.Count(), "overwriting an alias keeps both patterns active")
	assert.Nil(t, reg.Lookup("missing"))
}

func TestMatch_FirstRegisteredWins(t *testing.T) {
	reg := New(false)
	a := pattern("https://example.org/a", "A")
	b := pattern("https://example.org/b", "B")
	require.NoError(t, reg.Add(a))
	require.NoError(t, reg.Add(b))

	req := httptest.NewRequest("GET", "https://example.org/b", nil)
	matched, tmpl, outcome, err := reg.Match(req, nil)
	require.NoError(t, err)
	assert.Same(t, b, matched)
	assert.Equal(t, OutcomeMock, outcome)
	assert.Equal(t, []byte("B"), tmpl.Body)
	assert.Equal(t, 1, b.CallCount())
	assert.Zero(t, a.CallCount())
}

func TestMatch_EvictsAmbiguousEarlierPattern(t *testing.T) {
	reg := New(false)
	a := pattern("https://example.org/x", "A")
	b := pattern("https://example.org/x", "B")
	require.NoError(t, reg.Add(a))
	require.NoError(t, reg.Add(b))

	// First request: both patterns match. The earlier one serves the
	// exchange but is evicted from the registry.
	req := httptest.NewRequest("GET", "https://example.org/x", nil)
	matched, tmpl, outcome, err := reg.Match(req, nil)
	require.NoError(t, err)
	assert.Same(t, a, matched)
	assert.Equal(t, OutcomeMock, outcome)
	assert.Equal(t, []byte("A"), tmpl.Body)
	assert.Equal(t, 1, reg.Count())

	// Second identical request falls through to the survivor.
	matched, tmpl, _, err = reg.Match(req, nil)
	require.NoError(t, err)
	assert.Same(t, b, matched)
	assert.Equal(t, []byte("B"), tmpl.Body)

	assert.Equal(t, 1, a.CallCount())
	assert.Equal(t, 1, b.CallCount())
}

func TestMatch_PassThrough(t *testing.T) {
	reg := New(false)
	p := &mock.Pattern{
		Matcher:     &mock.RequestMatcher{Method: "GET", URL: "https://example.org/live"},
		PassThrough: true,
	}
	require.NoError(t, reg.Add(p))

	req := httptest.NewRequest("GET", "https://example.org/live", nil)
	matched, tmpl, outcome, err := reg.Match(req, nil)
	require.NoError(t, err)
	assert.Same(t, p, matched)
	assert.Nil(t, tmpl)
	assert.Equal(t, OutcomePassThrough, outcome)
	assert.Equal(t, 1, p.CallCount())
}

func TestMatch_UnmatchedLenient(t *testing.T) {
	reg := New(false)

	req := httptest.NewRequest("GET", "https://example.org/nope", nil)
	matched, tmpl, outcome, err := reg.Match(req, nil)
	require.NoError(t, err)
	assert.Nil(t, matched)
	assert.Equal(t, OutcomeUnmatched, outcome)

	// Lenient mode fabricates an empty 200.
	require.NotNil(t, tmpl)
	resolved, err := tmpl.Resolve()
	require.NoError(t, err)
	assert.Equal(t, 200, resolved.StatusCode)
	assert.Empty(t, resolved.Body)
}

func TestMatch_UnmatchedStrict(t *testing.T) {
	reg := New(true)

	req := httptest.NewRequest("GET", "https://example.org/nope", nil)
	matched, tmpl, outcome, err := reg.Match(req, nil)
	assert.ErrorIs(t, err, ErrUnmocked)
	assert.ErrorContains(t, err, "GET https://example.org/nope")
	assert.Nil(t, matched)
	assert.Nil(t, tmpl)
	assert.Equal(t, OutcomeUnmatched, outcome)
}

func TestAllCalled(t *testing.T) {
	reg := New(false)
	a := pattern("https://example.org/a", "A")
	a.Alias = "first"
	b := pattern("https://example.org/b", "B")
	require.NoError(t, reg.Add(a))
	require.NoError(t, reg.Add(b))

	err := reg.AllCalled()
	require.ErrorIs(t, err, ErrNotCalled)
	assert.ErrorContains(t, err, "https://example.org/a")
	assert.ErrorContains(t, err, "[first]")

	_, _, _, err = reg.Match(httptest.NewRequest("GET", "https://example.org/a", nil), nil)
	require.NoError(t, err)
	err = reg.AllCalled()
	require.ErrorIs(t, err, ErrNotCalled)
	assert.NotContains(t, err.Error(), "https://example.org/a")

	_, _, _, err = reg.Match(httptest.NewRequest("GET", "https://example.org/b", nil), nil)
	require.NoError(t, err)
	assert.NoError(t, reg.AllCalled())
}

func TestAllCalled_IncludesEvictedPatterns(t *testing.T) {
	reg := New(false)
	a := pattern("https://example.org/x", "A")
	b := pattern("https://example.org/x", "B")
	require.NoError(t, reg.Add(a))
	require.NoError(t, reg.Add(b))

	// The eviction exchange counts as the evicted pattern's call, so one
	// ambiguous request satisfies the earlier pattern but not the survivor.
	_, _, _, err := reg.Match(httptest.NewRequest("GET", "https://example.org/x", nil), nil)
	require.NoError(t, err)

	err = reg.AllCalled()
	require.ErrorIs(t, err, ErrNotCalled)
	assert.ErrorContains(t, err, b.ID)
}

func TestReset(t *testing.T) {
	reg := New(false)
	p := pattern("https://example.org/a", "A")
	p.Alias = "users"
	require.NoError(t, reg.Add(p))
	_, _, _, err := reg.Match(httptest.NewRequest("GET", "https://example.org/a", nil), nil)
	require.NoError(t, err)

	reg.Reset()

	assert.Zero(t, reg.Count())
	assert.Nil(t, reg.Lookup("users"))
	assert.Zero(t, p.CallCount())
	assert.NoError(t, reg.AllCalled(), "an empty registry is trivially satisfied")
}
