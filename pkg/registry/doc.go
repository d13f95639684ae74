// Package registry keeps the ordered set of request patterns for one mocking
// scope and resolves outgoing requests against them.
//
// Registration order is priority order: the first matching pattern serves
// the request. When a scan finds a second matching pattern, the
// first-registered match is evicted permanently, so a later identical
// request falls through to the survivor; see Registry.Match for the exact
// semantics.
//
// The registry also owns the scope's verification state: AllCalled reports
// the registered patterns that never matched, and strict scopes reject
// requests no pattern covers.
package registry
