// Package mocker provides the user-facing API for mocking HTTP traffic at
// the transport level in Go tests.
//
// A Mocker owns one mocking scope: a pattern registry, a call recorder and an
// http.RoundTripper that resolves outgoing requests against the registered
// patterns instead of the network.
//
// # Basic Usage
//
// Create a scope, register patterns with the fluent builder, run client code
// against an intercepted client, then assert:
//
//	func TestMyAPI(t *testing.T) {
//	    m := mocker.New()
//	    defer m.Close()
//
//	    m.Get("https://api.example.org/users/123").
//	        WithStatus(200).
//	        WithJSON(map[string]string{"id": "123", "name": "Test User"}).
//	        MustRegister()
//
//	    resp, err := m.Client().Get("https://api.example.org/users/123")
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer resp.Body.Close()
//
//	    m.Calls()[0].AssertMethod(t, "GET")
//	}
//
// # Interception
//
// Client() returns a fresh http.Client wired to the mock transport; this is
// the preferred, injection-based path. InterceptClient swaps the transport of
// an existing client, and Start swaps http.DefaultTransport for code that
// cannot inject. Stop unwinds every install in reverse order.
//
// # Assertion Modes
//
// A fresh scope is strict: a request matching no pattern fails instead of
// receiving an implicit empty response (WithAssertAllMocked). Close also
// verifies that every registered pattern was matched at least once
// (WithAssertAllCalled). Both modes can be disabled per scope.
//
// # Shared Scope
//
// The package-level functions (Start, Get, Post, ...) operate on a
// process-wide shared scope for patterns registered outside any local Mocker.
package mocker
