package calllog

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// Call captures one exchange: the outgoing request, the response the caller
// observed (nil for pass-through exchanges and failed real requests), and
// which pattern it was attributed to.
type Call struct {
	// Timestamp is when the exchange started.
	Timestamp time.Time

	// Request is the outgoing request as the engine saw it.
	Request *http.Request

	// Method and URL are captured from the request at record time, so
	// assertions stay valid even if the request is mutated afterwards.
	Method string
	URL    string

	// RequestHeaders is a copy of the request headers.
	RequestHeaders http.Header

	// RequestBody is the full request body.
	RequestBody []byte

	// Response is the response handed to the caller. Nil when the pattern
	// declared pass-through or the exchange failed.
	Response *http.Response

	// StatusCode is the synthetic response status, 0 when Response is nil.
	StatusCode int

	// ResponseBody holds the synthetic response payload. Empty for
	// pass-through exchanges; the engine never drains real responses.
	ResponseBody []byte

	// PatternID and PatternAlias attribute the call to the matched pattern.
	// Both are empty for unmatched exchanges.
	PatternID    string
	PatternAlias string

	// Duration is how long the exchange took.
	Duration time.Duration

	// Error is the transport error message, if the exchange failed.
	Error string
}

// Filter selects a subset of recorded calls.
type Filter struct {
	// Method filters by HTTP method, case-sensitive as recorded.
	Method string

	// URLPrefix filters by URL prefix.
	URLPrefix string

	// PatternID filters by matched pattern ID.
	PatternID string

	// StatusCode filters by recorded status code.
	StatusCode int

	// HasError filters by error presence.
	HasError *bool

	// Limit caps the number of returned calls; 0 means no cap.
	Limit int

	// Offset skips that many matching calls.
	Offset int
}

// Recorder is the append-only exchange log for one mocking scope. Safe for
// concurrent use.
type Recorder struct {
	mu        sync.RWMutex
	calls     []*Call
	byPattern map[string][]*Call
	bodyLimit int
}

// NewRecorder creates an empty recorder with unlimited body capture.
func NewRecorder() *Recorder {
	return &Recorder{byPattern: make(map[string][]*Call)}
}

// SetBodyLimit caps the number of body bytes kept per call. Bodies beyond the
// cap are truncated with a marker. Zero or negative means unlimited. Applies
// to calls recorded after the change.
func (rec *Recorder) SetBodyLimit(n int) {
	rec.mu.Lock()
	rec.bodyLimit = n
	rec.mu.Unlock()
}

// Record appends a call to the global log and, when the call is attributed to
// a pattern, to that pattern's own log.
func (rec *Recorder) Record(c *Call) {
	if c == nil {
		return
	}
	if c.Timestamp.IsZero() {
		c.Timestamp = time.Now()
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if rec.bodyLimit > 0 {
		c.RequestBody = truncateBody(c.RequestBody, rec.bodyLimit)
		c.ResponseBody = truncateBody(c.ResponseBody, rec.bodyLimit)
	}

	rec.calls = append(rec.calls, c)
	if c.PatternID != "" {
		rec.byPattern[c.PatternID] = append(rec.byPattern[c.PatternID], c)
	}
}

// All returns an ordered snapshot of every recorded call.
func (rec *Recorder) All() []*Call {
	rec.mu.RLock()
	defer rec.mu.RUnlock()
	out := make([]*Call, len(rec.calls))
	copy(out, rec.calls)
	return out
}

// ByPattern returns the ordered calls attributed to a pattern ID.
func (rec *Recorder) ByPattern(patternID string) []*Call {
	rec.mu.RLock()
	defer rec.mu.RUnlock()
	calls := rec.byPattern[patternID]
	out := make([]*Call, len(calls))
	copy(out, calls)
	return out
}

// Last returns the most recent call, or nil when nothing was recorded.
func (rec *Recorder) Last() *Call {
	rec.mu.RLock()
	defer rec.mu.RUnlock()
	if len(rec.calls) == 0 {
		return nil
	}
	return rec.calls[len(rec.calls)-1]
}

// Count returns the number of recorded calls.
func (rec *Recorder) Count() int {
	rec.mu.RLock()
	defer rec.mu.RUnlock()
	return len(rec.calls)
}

// CountByPattern returns the number of calls attributed to a pattern ID.
func (rec *Recorder) CountByPattern(patternID string) int {
	rec.mu.RLock()
	defer rec.mu.RUnlock()
	return len(rec.byPattern[patternID])
}

// List returns the calls selected by the filter, in recording order.
// A nil filter returns everything.
func (rec *Recorder) List(f *Filter) []*Call {
	if f == nil {
		return rec.All()
	}

	rec.mu.RLock()
	defer rec.mu.RUnlock()

	var out []*Call
	skipped := 0
	for _, c := range rec.calls {
		if !matchesFilter(c, f) {
			continue
		}
		if skipped < f.Offset {
			skipped++
			continue
		}
		out = append(out, c)
		if f.Limit > 0 && len(out) >= f.Limit {
			break
		}
	}
	return out
}

// Clear removes every recorded call.
func (rec *Recorder) Clear() {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.calls = nil
	rec.byPattern = make(map[string][]*Call)
}

func truncateBody(body []byte, limit int) []byte {
	if len(body) <= limit {
		return body
	}
	out := make([]byte, 0, limit+len(truncationMarker))
	out = append(out, body[:limit]...)
	return append(out, truncationMarker...)
}

const truncationMarker = "...(truncated)"

func matchesFilter(c *Call, f *Filter) bool {
	if f.Method != "" && c.Method != f.Method {
		return false
	}
	if f.URLPrefix != "" && !strings.HasPrefix(c.URL, f.URLPrefix) {
		return false
	}
	if f.PatternID != "" && c.PatternID != f.PatternID {
		return false
	}
	if f.StatusCode != 0 && c.StatusCode != f.StatusCode {
		return false
	}
	if f.HasError != nil && *f.HasError != (c.Error != "") {
		return false
	}
	return true
}
