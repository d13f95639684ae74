// Package transport intercepts HTTP traffic at the http.RoundTripper choke
// point.
//
// MockTransport resolves each outgoing request against a pattern registry:
// matched patterns short-circuit to synthetic responses without network I/O,
// pass-through patterns delegate to a real transport, and every exchange is
// recorded. Synthetic responses are framed as raw HTTP/1.x bytes and parsed
// back through net/http's own response parser, so downstream code observes a
// response indistinguishable from a real one.
//
// # Composition
//
// TryTransport chains transports in order. A MockTransport built with
// WithPassThroughSignal declines requests it does not mock by returning a
// *PassThroughError carrying the rewound request, letting the next transport
// in the chain take over. Every transport declining is a configuration error
// (ErrAllDeclined).
package transport
