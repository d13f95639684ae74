// Package calllog captures the request/response exchanges observed by the
// interception engine, for user inspection and test assertions.
//
// This package serves users who need to inspect what requests their code
// sent, which patterns matched, and what responses came back. It is distinct
// from operational logging (pkg/logging), which uses log/slog.
//
// # Core Types
//
// Call is the central type representing one captured exchange: the outgoing
// request, the response the caller observed, and the pattern it was
// attributed to. Recorder is the append-only log of calls for one scope.
//
// # Usage
//
// The transport records a Call for every exchange; tests query the recorder
// and assert with the testing.TB helpers on Call:
//
//	call := rec.Last()
//	call.AssertMethod(t, "POST")
//	call.AssertJSONBody(t, `{"name":"ada"}`)
//
// Reads return snapshots, never live views of internal state, so test code
// cannot alias the recorder's bookkeeping.
//
// # Package Design
//
// This is a leaf package with no internal dependencies, allowing it to be
// imported by any package without creating import cycles.
package calllog
